// Package notice shows short user-facing messages.
package notice

import (
	"errors"
	"log/slog"

	"github.com/ncruces/zenity"
)

// Notifier shows msg to the user without blocking the caller.
type Notifier interface {
	Notify(msg string)
}

// Dialog pops a native warning box per message.
type Dialog struct {
	Title string
	Log   *slog.Logger
}

func (d Dialog) Notify(msg string) {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	log.Warn("notice", "msg", msg)
	go func() {
		err := zenity.Warning(msg, zenity.Title(d.Title))
		if err != nil && !errors.Is(err, zenity.ErrCanceled) {
			log.Error("notice dialog failed", "err", err)
		}
	}()
}

// Log writes messages to a logger only. Used where no desktop is available.
type Log struct {
	Log *slog.Logger
}

func (l Log) Notify(msg string) {
	log := l.Log
	if log == nil {
		log = slog.Default()
	}
	log.Warn("notice", "msg", msg)
}

// Func adapts a function to Notifier.
type Func func(msg string)

func (f Func) Notify(msg string) { f(msg) }

// Tee sends every message to all notifiers in order.
type Tee []Notifier

func (t Tee) Notify(msg string) {
	for _, n := range t {
		n.Notify(msg)
	}
}

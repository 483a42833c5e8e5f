// Package form holds the prompt form state: the prompt text, the loading flag
// and the last generated image. Requests run on their own goroutine and are
// collected with Poll so the frame loop never waits on the network.
package form

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/iburimskiy/cartoongen/internal/generate"
	"github.com/iburimskiy/cartoongen/internal/notice"
)

// ErrBusy is returned by Submit while a request is in flight.
var ErrBusy = errors.New("generation already in progress")

// Generator produces an image for a prompt. *generate.Client implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*generate.Result, error)
}

type outcome struct {
	res *generate.Result
	err error
}

type Form struct {
	gen    Generator
	notify notice.Notifier
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
	now    func() time.Time

	prompt  string
	loading bool
	started time.Time
	result  *generate.Result
	lastErr error
	pending chan outcome
}

func New(gen Generator, n notice.Notifier, log *slog.Logger) *Form {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Form{
		gen:    gen,
		notify: n,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
	}
}

func (f *Form) SetPrompt(s string) { f.prompt = s }

func (f *Form) Prompt() string { return f.prompt }

func (f *Form) Loading() bool { return f.loading }

// Result is the last generated image, nil while editing or loading.
func (f *Form) Result() *generate.Result { return f.result }

// Err is the failure of the last request, if any.
func (f *Form) Err() error { return f.lastErr }

// Elapsed is how long the current request has been running.
func (f *Form) Elapsed() time.Duration {
	if !f.loading {
		return 0
	}
	return f.now().Sub(f.started)
}

// Submit starts generating an image for the current prompt. An empty prompt
// is rejected with a notice and no request is sent.
func (f *Form) Submit() error {
	if f.loading {
		return ErrBusy
	}
	if strings.TrimSpace(f.prompt) == "" {
		f.notify.Notify(generate.NoticeEmptyPrompt)
		return generate.ErrEmptyPrompt
	}

	f.loading = true
	f.result = nil
	f.lastErr = nil
	f.started = f.now()

	ch := make(chan outcome, 1)
	f.pending = ch
	ctx, prompt := f.ctx, f.prompt
	f.log.Info("generating", "prompt", prompt)
	go func() {
		res, err := f.gen.Generate(ctx, prompt)
		ch <- outcome{res: res, err: err}
	}()
	return nil
}

// Poll applies a finished request, if any, and reports whether the state
// changed. It never blocks.
func (f *Form) Poll() bool {
	if f.pending == nil {
		return false
	}
	select {
	case o := <-f.pending:
		f.finish(o)
		return true
	default:
		return false
	}
}

// Wait blocks until the in-flight request finishes or ctx is done. It
// reports whether a request was applied.
func (f *Form) Wait(ctx context.Context) bool {
	if f.pending == nil {
		return false
	}
	select {
	case o := <-f.pending:
		f.finish(o)
		return true
	case <-ctx.Done():
		return false
	}
}

// Reset drops the shown image and returns to the prompt, keeping its text.
func (f *Form) Reset() {
	f.result = nil
	f.lastErr = nil
}

// Close cancels any in-flight request.
func (f *Form) Close() { f.cancel() }

func (f *Form) finish(o outcome) {
	f.pending = nil
	f.loading = false
	if o.err != nil {
		f.lastErr = o.err
		if errors.Is(o.err, context.Canceled) {
			f.log.Debug("generation cancelled")
			return
		}
		f.log.Warn("generation failed", "err", o.err)
		f.notify.Notify(generate.NoticeOffline)
		return
	}
	f.result = o.res
}

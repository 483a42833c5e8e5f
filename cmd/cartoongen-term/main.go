// Command cartoongen-term floats the CartoonGen faces in a terminal. Move the
// mouse over a face to scatter it; Esc, q or Ctrl-C quits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/cartoongen/internal/assets"
	"github.com/iburimskiy/cartoongen/internal/binder"
	"github.com/iburimskiy/cartoongen/internal/config"
	"github.com/iburimskiy/cartoongen/internal/frame"
	"github.com/iburimskiy/cartoongen/internal/motion"
)

type app struct {
	screen tcell.Screen
	frames *frame.Queue
	binder *binder.Binder
	glyphs glyphs
	cols   int
	rows   int
}

func newApp(screen tcell.Screen, cfg config.Config, log *slog.Logger) *app {
	a := &app{screen: screen, frames: frame.NewQueue()}
	a.cols, a.rows = screen.Size()

	params := cfg.Terminal.Params()
	rnd := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	engine := motion.NewEngine(len(assets.IDs), screenBounds(a.cols, a.rows), params, rnd)
	for _, el := range engine.Elements() {
		a.glyphs = append(a.glyphs, &glyph{id: el.ID, size: params.ElementSize, pos: el.Pos})
	}
	a.binder = binder.New(engine, a.frames, a.glyphs.lookup, a.bounds, log)
	a.binder.Intensity = cfg.Terminal.Intensity
	return a
}

func (a *app) bounds() motion.Bounds { return screenBounds(a.cols, a.rows) }

// handleInput reports false when the user asked to quit.
func (a *app) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		if x < 0 || y < 0 || x >= a.cols || y >= a.rows {
			a.binder.PointerLeave()
			break
		}
		a.binder.PointerMove(pointerAt(x, y))
	case *tcell.EventResize:
		a.cols, a.rows = a.screen.Size()
		a.screen.Sync()
	}
	return true
}

func (a *app) draw() {
	a.screen.Clear()
	for _, g := range a.glyphs {
		g.draw(a.screen)
	}
	a.screen.Show()
}

func (a *app) run() {
	ticker := time.NewTicker(time.Second / config.TerminalTPS)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// screen finalized
				return
			}
			eventChan <- ev
		}
	}()

	a.binder.Mount()
	defer a.binder.Unmount()
	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}
		case <-ticker.C:
			a.frames.Flush()
			a.draw()
		}
	}
}

func main() {
	var (
		configPath = flag.String("config", config.DefaultPath, "path to the YAML config file")
		debug      = flag.Bool("debug", false, "log debug output to stderr")
	)
	flag.Parse()

	// The screen owns the terminal, so logs are dropped unless asked for.
	level := slog.LevelError
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("using default config", "err", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	newApp(screen, cfg, log).run()
}

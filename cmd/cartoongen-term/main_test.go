package main

import (
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/cartoongen/internal/config"
	"github.com/iburimskiy/cartoongen/internal/motion"
)

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	s.SetSize(cols, rows)
	t.Cleanup(s.Fini)
	return s
}

func TestCoordinateMapping(t *testing.T) {
	if got := screenBounds(80, 24); got != (motion.Bounds{W: 80, H: 48}) {
		t.Fatalf("bounds %v", got)
	}
	if got := pointerAt(3, 5); got != (motion.Vec2{X: 3.5, Y: 11}) {
		t.Fatalf("pointer %v", got)
	}

	g := &glyph{size: 6, pos: motion.Vec2{X: 10.7, Y: 7.9}}
	if x, y := g.cell(); x != 10 || y != 3 {
		t.Fatalf("cell %d,%d", x, y)
	}
	// the pointer inside any cell the glyph covers hits it
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 5; dx++ {
			p := pointerAt(11+dx, 4+dy)
			if !g.Rect().Contains(p) {
				t.Fatalf("cell %d,%d not covered by %v", 11+dx, 4+dy, g.Rect())
			}
		}
	}
}

func TestGlyphDraw(t *testing.T) {
	s := newSimScreen(t, 40, 12)
	g := &glyph{id: 1, size: 6, pos: motion.Vec2{X: 4, Y: 6}}
	g.draw(s)
	s.Show()

	want := g.rows()
	for dy, row := range want {
		for dx, r := range row {
			if r == ' ' {
				continue
			}
			got, _, _, _ := s.GetContent(4+dx, 3+dy)
			if got != r {
				t.Fatalf("cell %d,%d = %q, want %q", 4+dx, 3+dy, got, r)
			}
		}
	}
}

func TestHandleInput(t *testing.T) {
	s := newSimScreen(t, 80, 24)
	a := newApp(s, config.Default(), nil)
	engine := a.binder.Engine()

	t.Run("mouse_scatters", func(t *testing.T) {
		for id := range a.glyphs {
			engine.SetVelocity(id, motion.Vec2{})
		}
		// Aim at the center of the top-most glyph so no other face overlaps.
		top := a.glyphs[len(a.glyphs)-1]
		c := top.Rect().Center()
		x, y := int(c.X), int(c.Y)/rowScale
		if x >= a.cols || y >= a.rows {
			t.Skip("top glyph spawned off screen")
		}

		if !a.handleInput(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone)) {
			t.Fatalf("mouse move quit the app")
		}
		el, _ := engine.Element(top.id)
		speed := el.Vel.Len()
		if math.Abs(speed-config.TerminalIntensity) > 1e-9 {
			t.Fatalf("expected speed %v, got %v", config.TerminalIntensity, speed)
		}
	})

	t.Run("resize_updates_bounds", func(t *testing.T) {
		s.SetSize(100, 30)
		if !a.handleInput(tcell.NewEventResize(100, 30)) {
			t.Fatalf("resize quit the app")
		}
		if got := a.bounds(); got != (motion.Bounds{W: 100, H: 60}) {
			t.Fatalf("bounds %v", got)
		}
	})

	quits := []struct {
		name string
		ev   *tcell.EventKey
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)},
		{"ctrl_c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)},
	}
	for _, c := range quits {
		t.Run(c.name, func(t *testing.T) {
			if a.handleInput(c.ev) {
				t.Fatalf("%s did not quit", c.name)
			}
		})
	}
	if a.handleInput(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) != true {
		t.Fatalf("other keys must not quit")
	}
}

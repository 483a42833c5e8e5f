package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/cartoongen/internal/motion"
)

// A terminal cell is about twice as tall as it is wide, so the engine works
// in half-row units vertically: a face of size 6 covers 6 columns and 3 rows.
const rowScale = 2

var (
	eyes   = []string{"o  o", "^  ^", "0  0", "-  -", "*  *", "O  O"}
	mouths = []string{" \\__/ ", " '--' ", " .__. ", " \\__/ ", " ~~~~ ", " /--\\ "}
	tints  = []tcell.Color{
		tcell.ColorGreen, tcell.ColorPurple, tcell.ColorSteelBlue,
		tcell.ColorRed, tcell.ColorYellow, tcell.ColorDodgerBlue,
	}
)

// glyph is the visual of one face in the terminal.
type glyph struct {
	id   int
	size float64
	pos  motion.Vec2
}

func (g *glyph) Rect() motion.Rect { return motion.RectAt(g.pos, g.size) }

func (g *glyph) SetTransform(x, y float64) { g.pos = motion.Vec2{X: x, Y: y} }

// cell returns the top-left screen cell of the glyph.
func (g *glyph) cell() (int, int) {
	return int(g.pos.X), int(g.pos.Y) / rowScale
}

func (g *glyph) rows() []string {
	i := g.id % len(eyes)
	return []string{" .--. ", "(" + eyes[i] + ")", mouths[i]}
}

func (g *glyph) draw(s tcell.Screen) {
	x, y := g.cell()
	style := tcell.StyleDefault.Foreground(tints[g.id%len(tints)])
	for dy, row := range g.rows() {
		for dx, r := range row {
			if r == ' ' {
				continue
			}
			s.SetContent(x+dx, y+dy, r, nil, style)
		}
	}
}

// screenBounds converts a terminal size in cells to engine bounds.
func screenBounds(cols, rows int) motion.Bounds {
	return motion.Bounds{W: float64(cols), H: float64(rows * rowScale)}
}

// pointerAt maps a mouse cell to engine coordinates at the cell center.
func pointerAt(x, y int) motion.Vec2 {
	return motion.Vec2{X: float64(x) + 0.5, Y: float64(y*rowScale) + rowScale/2.0}
}

type glyphs []*glyph

func (gs glyphs) lookup(id int) (motion.Visual, bool) {
	if id < 0 || id >= len(gs) {
		return nil, false
	}
	return gs[id], true
}

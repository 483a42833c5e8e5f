package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const backdropBand = 8

// drawBackdrop paints a slowly shifting pastel gradient. level brightens it
// while an audio cue plays.
func drawBackdrop(screen *ebiten.Image, t, level float64) {
	b := screen.Bounds()
	w, h := float32(b.Dx()), b.Dy()
	if h <= 0 {
		return
	}
	glow := 0.12 * clamp01(level)
	for y := 0; y < h; y += backdropBand {
		ratio := float64(y) / float64(h)
		hue := 200 + 80*ratio + 20*math.Sin(t*0.2+ratio*math.Pi)
		r, g, bl := hsvToRgb(hue, 0.28-glow, 0.96)
		vector.DrawFilledRect(screen, 0, float32(y), w, backdropBand, color.RGBA{R: r, G: g, B: bl, A: 255}, false)
	}
}

// Package assets provides the floating face images. Faces are drawn at
// startup; a directory of PNGs named 1.png..6.png replaces them when given.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
)

// IDs lists the visual assets in display order. The number of floating
// elements equals len(IDs).
var IDs = []string{"face1", "face2", "face3", "face4", "face5", "face6"}

type look struct {
	skin    color.RGBA
	hair    color.RGBA
	glasses bool
	smile   float64 // mouth curvature, negative frowns
	blush   bool
}

var looks = map[string]look{
	"face1": {skin: color.RGBA{255, 219, 172, 255}, hair: color.RGBA{46, 204, 113, 255}, glasses: true, smile: 1},
	"face2": {skin: color.RGBA{241, 194, 125, 255}, hair: color.RGBA{142, 68, 173, 255}, smile: 0.6, blush: true},
	"face3": {skin: color.RGBA{224, 172, 105, 255}, hair: color.RGBA{52, 73, 94, 255}, glasses: true, smile: 0.2},
	"face4": {skin: color.RGBA{198, 134, 66, 255}, hair: color.RGBA{231, 76, 60, 255}, smile: 1.2, blush: true},
	"face5": {skin: color.RGBA{141, 85, 36, 255}, hair: color.RGBA{241, 196, 15, 255}, smile: 0.8},
	"face6": {skin: color.RGBA{255, 224, 189, 255}, hair: color.RGBA{52, 152, 219, 255}, glasses: true, smile: -0.3},
}

// Draw renders the face id as a size x size image with a transparent
// background.
func Draw(id string, size int) (image.Image, error) {
	l, ok := looks[id]
	if !ok {
		return nil, fmt.Errorf("unknown asset %q", id)
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid asset size %d", size)
	}

	s := float64(size)
	dc := gg.NewContext(size, size)
	cx, cy, r := s/2, s/2+s*0.04, s*0.40

	// hair behind the head
	dc.SetColor(l.hair)
	dc.DrawEllipse(cx, cy-r*0.35, r*1.08, r*0.85)
	dc.Fill()

	dc.SetColor(l.skin)
	dc.DrawCircle(cx, cy, r)
	dc.Fill()
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.SetLineWidth(s * 0.015)
	dc.DrawCircle(cx, cy, r)
	dc.Stroke()

	// fringe
	dc.SetColor(l.hair)
	dc.DrawArc(cx, cy-r*0.2, r*0.95, gg.Radians(190), gg.Radians(350))
	dc.ClosePath()
	dc.Fill()

	eyeY := cy - r*0.05
	eyeDX := r * 0.38
	for _, ex := range []float64{cx - eyeDX, cx + eyeDX} {
		dc.SetRGB(1, 1, 1)
		dc.DrawCircle(ex, eyeY, r*0.16)
		dc.Fill()
		dc.SetRGB(0.1, 0.1, 0.15)
		dc.DrawCircle(ex+r*0.03, eyeY+r*0.02, r*0.08)
		dc.Fill()
		if l.glasses {
			dc.SetRGBA(0, 0, 0, 0.85)
			dc.SetLineWidth(s * 0.02)
			dc.DrawCircle(ex, eyeY, r*0.24)
			dc.Stroke()
		}
		if l.blush {
			dc.SetRGBA(1, 0.4, 0.5, 0.35)
			dc.DrawEllipse(ex, eyeY+r*0.32, r*0.14, r*0.08)
			dc.Fill()
		}
	}
	if l.glasses {
		dc.SetLineWidth(s * 0.02)
		dc.DrawLine(cx-eyeDX+r*0.24, eyeY, cx+eyeDX-r*0.24, eyeY)
		dc.Stroke()
	}

	// mouth as a quadratic curve bent by smile
	mouthY := cy + r*0.45
	half := r * 0.32
	dc.SetRGBA(0.35, 0.1, 0.1, 1)
	dc.SetLineWidth(s * 0.025)
	dc.SetLineCap(gg.LineCapRound)
	dc.MoveTo(cx-half, mouthY)
	dc.QuadraticTo(cx, mouthY+l.smile*r*0.3, cx+half, mouthY)
	dc.Stroke()

	return dc.Image(), nil
}

// Load returns the image for id. When dir is set and holds the matching
// numbered PNG (face3 -> 3.png) that file is used; otherwise the face is
// drawn.
func Load(dir, id string, size int) (image.Image, error) {
	if dir != "" {
		path := filepath.Join(dir, strings.TrimPrefix(id, "face")+".png")
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			img, _, err := image.Decode(bytes.NewReader(b))
			if err != nil {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
			return img, nil
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return Draw(id, size)
}

// LoadAll loads every asset in IDs order.
func LoadAll(dir string, size int) ([]image.Image, error) {
	out := make([]image.Image, 0, len(IDs))
	for _, id := range IDs {
		img, err := Load(dir, id, size)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

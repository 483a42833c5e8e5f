package game

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/cartoongen/internal/motion"
)

// sprite is the on-screen visual of one floating face.
type sprite struct {
	img  *ebiten.Image
	size float64
	pos  motion.Vec2
}

func (s *sprite) Rect() motion.Rect { return motion.RectAt(s.pos, s.size) }

func (s *sprite) SetTransform(x, y float64) { s.pos = motion.Vec2{X: x, Y: y} }

func (s *sprite) draw(screen *ebiten.Image) {
	b := s.img.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s.size/float64(b.Dx()), s.size/float64(b.Dy()))
	op.GeoM.Translate(s.pos.X, s.pos.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(s.img, op)
}

// sprites holds one slot per engine element. A slot stays empty until the
// face is first drawn, and the engine skips it until then.
type sprites []*sprite

func (ss sprites) lookup(id int) (motion.Visual, bool) {
	if id < 0 || id >= len(ss) || ss[id] == nil {
		return nil, false
	}
	return ss[id], true
}

// attach fills empty slots at the engine's current positions.
func (ss sprites) attach(e *motion.Engine, faces []*ebiten.Image) {
	if len(faces) == 0 {
		return
	}
	size := e.Params().ElementSize
	for id := range ss {
		if ss[id] != nil {
			continue
		}
		el, ok := e.Element(id)
		if !ok {
			continue
		}
		ss[id] = &sprite{img: faces[id%len(faces)], size: size, pos: el.Pos}
	}
}

func (ss sprites) resize(size float64) {
	for _, s := range ss {
		if s != nil {
			s.size = size
		}
	}
}

package motion

import "math"

// Vec2 is a point or displacement in container units (pixels for the window,
// half-rows for the terminal).
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Len returns the Euclidean length.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is an axis-aligned box, Min inclusive and Max exclusive.
type Rect struct {
	Min, Max Vec2
}

// RectAt returns a square of side size with its top-left corner at p.
func RectAt(p Vec2, size float64) Rect {
	return Rect{Min: p, Max: Vec2{p.X + size, p.Y + size}}
}

func (r Rect) Center() Vec2 {
	return Vec2{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Bounds is the live size of the containing region.
type Bounds struct {
	W, H float64
}

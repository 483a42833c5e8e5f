// Package motion advances the floating elements: drift, reflection off the
// container edges, damping, anti-stagnation jitter and pointer impulses.
package motion

import "math"

const (
	DefaultElementSize     = 180
	DefaultDamping         = 0.995
	DefaultJitterThreshold = 0.2
	DefaultJitterAmplitude = 0.15
	DefaultSpawnSpeed      = 1.2
)

// Visual is the on-screen representation of an element. The engine reads its
// box to aim impulses and writes the integrated position back to it.
type Visual interface {
	Rect() Rect
	SetTransform(x, y float64)
}

// Lookup resolves an element index to its visual. ok is false while the
// visual is not attached yet.
type Lookup func(id int) (v Visual, ok bool)

// Rand is the source of jitter and spawn randomness. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// Params are the tunables of a simulation.
type Params struct {
	// ElementSize is the rendered footprint of one element on both axes.
	ElementSize float64
	// Damping multiplies velocity once per tick.
	Damping float64
	// Axes slower than JitterThreshold receive a kick in
	// [-JitterAmplitude, JitterAmplitude].
	JitterThreshold float64
	JitterAmplitude float64
	// SpawnSpeed is the spread of the initial per-axis velocity.
	SpawnSpeed float64
}

func DefaultParams() Params {
	return Params{
		ElementSize:     DefaultElementSize,
		Damping:         DefaultDamping,
		JitterThreshold: DefaultJitterThreshold,
		JitterAmplitude: DefaultJitterAmplitude,
		SpawnSpeed:      DefaultSpawnSpeed,
	}
}

// Element is the motion record of one floating item.
type Element struct {
	ID  int
	Pos Vec2
	Vel Vec2
}

// Engine owns the element records for one mounted view. It is not safe for
// concurrent use; callers serialize Step and ApplyImpulse on one goroutine.
type Engine struct {
	elems  []Element
	params Params
	rnd    Rand
	lookup Lookup
}

// NewEngine creates count elements scattered over spawn with small random
// velocities.
func NewEngine(count int, spawn Bounds, p Params, rnd Rand) *Engine {
	elems := make([]Element, count)
	for i := range elems {
		elems[i] = Element{
			ID:  i,
			Pos: Vec2{rnd.Float64() * spawn.W, rnd.Float64() * spawn.H},
			Vel: Vec2{
				(rnd.Float64() - 0.5) * p.SpawnSpeed,
				(rnd.Float64() - 0.5) * p.SpawnSpeed,
			},
		}
	}
	return &Engine{elems: elems, params: p, rnd: rnd}
}

// NewEngineFrom creates an engine over explicit records. IDs are reassigned
// to slice indices.
func NewEngineFrom(elems []Element, p Params, rnd Rand) *Engine {
	own := make([]Element, len(elems))
	copy(own, elems)
	for i := range own {
		own[i].ID = i
	}
	return &Engine{elems: own, params: p, rnd: rnd}
}

// Bind replaces the visual lookup. A nil lookup detaches every element.
func (e *Engine) Bind(l Lookup) { e.lookup = l }

func (e *Engine) Params() Params { return e.params }

func (e *Engine) SetParams(p Params) { e.params = p }

func (e *Engine) Len() int { return len(e.elems) }

// Elements returns a copy of the records in index order.
func (e *Engine) Elements() []Element {
	out := make([]Element, len(e.elems))
	copy(out, e.elems)
	return out
}

// Element returns the record for id.
func (e *Engine) Element(id int) (Element, bool) {
	if id < 0 || id >= len(e.elems) {
		return Element{}, false
	}
	return e.elems[id], true
}

// SetVelocity overwrites the velocity of id. Unknown ids are ignored.
func (e *Engine) SetVelocity(id int, v Vec2) {
	if id < 0 || id >= len(e.elems) {
		return
	}
	e.elems[id].Vel = v
}

func (e *Engine) visual(id int) (Visual, bool) {
	if e.lookup == nil {
		return nil, false
	}
	v, ok := e.lookup(id)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Step advances every attached element by one tick inside b. Bounds must be
// the live container size; they are never cached.
func (e *Engine) Step(b Bounds) {
	p := e.params
	maxX := math.Max(0, b.W-p.ElementSize)
	maxY := math.Max(0, b.H-p.ElementSize)

	for i := range e.elems {
		v, ok := e.visual(i)
		if !ok {
			continue
		}
		el := &e.elems[i]

		el.Pos = el.Pos.Add(el.Vel)

		// Axes reflect independently, so a corner hit flips both in one tick.
		el.Pos.X, el.Vel.X = reflect(el.Pos.X, el.Vel.X, maxX)
		el.Pos.Y, el.Vel.Y = reflect(el.Pos.Y, el.Vel.Y, maxY)

		el.Vel.X = e.jitter(el.Vel.X)
		el.Vel.Y = e.jitter(el.Vel.Y)

		el.Vel = el.Vel.Scale(p.Damping)

		v.SetTransform(el.Pos.X, el.Pos.Y)
	}
}

// ApplyImpulse replaces the velocity of id with a vector of length intensity
// pointing from the reference point to the element's visual center.
func (e *Engine) ApplyImpulse(id int, from Vec2, intensity float64) {
	if id < 0 || id >= len(e.elems) {
		return
	}
	v, ok := e.visual(id)
	if !ok {
		return
	}
	d := v.Rect().Center().Sub(from)
	dist := d.Len()
	if dist == 0 {
		dist = 1
	}
	e.elems[id].Vel = Vec2{d.X / dist * intensity, d.Y / dist * intensity}
}

func reflect(pos, vel, limit float64) (float64, float64) {
	if pos < 0 {
		pos = 0
		vel = -vel
	}
	if pos > limit {
		pos = limit
		vel = -vel
	}
	return pos, vel
}

func (e *Engine) jitter(v float64) float64 {
	p := e.params
	if math.Abs(v) < p.JitterThreshold {
		v += (e.rnd.Float64() - 0.5) * 2 * p.JitterAmplitude
	}
	return v
}

package motion

import (
	"math"
	"math/rand/v2"
	"testing"
)

type box struct {
	pos    Vec2
	size   float64
	writes int
	log    *[]int
	id     int
}

func (b *box) Rect() Rect { return RectAt(b.pos, b.size) }

func (b *box) SetTransform(x, y float64) {
	b.pos = Vec2{x, y}
	b.writes++
	if b.log != nil {
		*b.log = append(*b.log, b.id)
	}
}

// countRand returns a constant and counts how often it was asked.
type countRand struct {
	v     float64
	calls int
}

func (r *countRand) Float64() float64 {
	r.calls++
	return r.v
}

func boxes(e *Engine, size float64) ([]*box, Lookup) {
	bs := make([]*box, e.Len())
	for i, el := range e.Elements() {
		bs[i] = &box{pos: el.Pos, size: size, id: i}
	}
	return bs, func(id int) (Visual, bool) {
		if id < 0 || id >= len(bs) || bs[id] == nil {
			return nil, false
		}
		return bs[id], true
	}
}

func newRand() *rand.Rand { return rand.New(rand.NewPCG(7, 11)) }

func TestStepCornerScenario(t *testing.T) {
	rnd := &countRand{v: 0.5}
	e := NewEngineFrom([]Element{{Pos: Vec2{0, 0}, Vel: Vec2{-1, -1}}}, DefaultParams(), rnd)
	bs, lookup := boxes(e, DefaultElementSize)
	e.Bind(lookup)

	e.Step(Bounds{W: 800, H: 600})

	el, _ := e.Element(0)
	if el.Pos != (Vec2{0, 0}) {
		t.Fatalf("expected position (0,0), got %+v", el.Pos)
	}
	if el.Vel != (Vec2{0.995, 0.995}) {
		t.Fatalf("expected velocity (0.995,0.995), got %+v", el.Vel)
	}
	if rnd.calls != 0 {
		t.Fatalf("jitter should not fire above threshold, rand called %d times", rnd.calls)
	}
	if bs[0].writes != 1 || bs[0].pos != el.Pos {
		t.Fatalf("visual not updated: writes=%d pos=%+v", bs[0].writes, bs[0].pos)
	}
}

func TestStepReflection(t *testing.T) {
	cases := []struct {
		name    string
		pos     Vec2
		vel     Vec2
		bounds  Bounds
		wantPos Vec2
		wantVel Vec2
	}{
		{"left_edge", Vec2{-0.5, 100}, Vec2{-2, 1}, Bounds{800, 600}, Vec2{0, 101}, Vec2{2, 1}},
		{"right_edge", Vec2{619, 100}, Vec2{2, 1}, Bounds{800, 600}, Vec2{620, 101}, Vec2{-2, 1}},
		{"bottom_edge", Vec2{10, 419}, Vec2{1, 2}, Bounds{800, 600}, Vec2{11, 420}, Vec2{1, -2}},
		{"corner_both_axes", Vec2{619, 419}, Vec2{4, 4}, Bounds{800, 600}, Vec2{620, 420}, Vec2{-4, -4}},
		{"container_smaller_than_element", Vec2{5, 5}, Vec2{1, -1}, Bounds{100, 100}, Vec2{0, 0}, Vec2{-1, 1}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := NewEngineFrom([]Element{{Pos: c.pos, Vel: c.vel}}, DefaultParams(), &countRand{v: 0.5})
			_, lookup := boxes(e, DefaultElementSize)
			e.Bind(lookup)
			e.Step(c.bounds)

			el, _ := e.Element(0)
			if el.Pos != c.wantPos {
				t.Fatalf("position: want %+v, got %+v", c.wantPos, el.Pos)
			}
			// wantVel is the reflected velocity before damping.
			if want := c.wantVel.Scale(DefaultDamping); el.Vel != want {
				t.Fatalf("velocity: want %+v, got %+v", want, el.Vel)
			}
		})
	}
}

func TestStepContainmentAcrossResizes(t *testing.T) {
	rnd := newRand()
	e := NewEngine(40, Bounds{1920, 1080}, DefaultParams(), rnd)
	_, lookup := boxes(e, DefaultElementSize)
	e.Bind(lookup)

	sizes := []Bounds{{1920, 1080}, {800, 600}, {181, 2000}, {400, 150}, {3000, 3000}, {0, 0}}
	for tick := 0; tick < 6000; tick++ {
		b := sizes[(tick/500)%len(sizes)]
		if tick%97 == 0 {
			id := rnd.IntN(e.Len())
			e.ApplyImpulse(id, Vec2{rnd.Float64() * b.W, rnd.Float64() * b.H}, 8)
		}
		e.Step(b)

		maxX := math.Max(0, b.W-DefaultElementSize)
		maxY := math.Max(0, b.H-DefaultElementSize)
		for _, el := range e.Elements() {
			if el.Pos.X < 0 || el.Pos.X > maxX || el.Pos.Y < 0 || el.Pos.Y > maxY {
				t.Fatalf("tick %d: element %d escaped %+v: %+v", tick, el.ID, b, el.Pos)
			}
		}
	}
}

func TestStepDampingConvergence(t *testing.T) {
	e := NewEngineFrom([]Element{{Pos: Vec2{300, 200}}}, DefaultParams(), newRand())
	bs, lookup := boxes(e, DefaultElementSize)
	e.Bind(lookup)

	// Push from the top-left so both axes start well above the jitter threshold.
	center := bs[0].Rect().Center()
	e.ApplyImpulse(0, center.Sub(Vec2{10, 7}), 8)
	el, _ := e.Element(0)
	m := el.Vel.Len()
	if math.Abs(m-8) > 1e-9 {
		t.Fatalf("expected impulse magnitude 8, got %v", m)
	}

	const tolerance = 0.5
	bound := m
	for n := 1; n <= 20000; n++ {
		e.Step(Bounds{800, 600})
		bound *= DefaultDamping
		el, _ := e.Element(0)
		if got := el.Vel.Len(); got > bound+tolerance {
			t.Fatalf("tick %d: speed %v exceeds %v", n, got, bound+tolerance)
		}
	}
}

func TestStepAntiStagnation(t *testing.T) {
	e := NewEngineFrom([]Element{{Pos: Vec2{300, 200}}}, DefaultParams(), newRand())
	_, lookup := boxes(e, DefaultElementSize)
	e.Bind(lookup)

	for tick := 0; tick < 1000; tick++ {
		e.SetVelocity(0, Vec2{})
		e.Step(Bounds{800, 600})
		el, _ := e.Element(0)
		if el.Vel.X == 0 || el.Vel.Y == 0 {
			t.Fatalf("tick %d: axis still frozen: %+v", tick, el.Vel)
		}
		limit := DefaultJitterAmplitude * DefaultDamping
		if math.Abs(el.Vel.X) > limit || math.Abs(el.Vel.Y) > limit {
			t.Fatalf("tick %d: jitter out of range: %+v", tick, el.Vel)
		}
	}
}

func TestStepSkipsUnattached(t *testing.T) {
	e := NewEngineFrom([]Element{
		{Pos: Vec2{10, 10}, Vel: Vec2{1, 1}},
		{Pos: Vec2{20, 20}, Vel: Vec2{1, 1}},
	}, DefaultParams(), newRand())

	// Nothing bound at all.
	e.Step(Bounds{800, 600})
	if el, _ := e.Element(0); el.Pos != (Vec2{10, 10}) {
		t.Fatalf("unbound element moved: %+v", el.Pos)
	}

	b0 := &box{pos: Vec2{10, 10}, size: DefaultElementSize}
	e.Bind(func(id int) (Visual, bool) {
		if id == 0 {
			return b0, true
		}
		return nil, false
	})
	e.Step(Bounds{800, 600})

	if el, _ := e.Element(0); el.Pos != (Vec2{11, 11}) {
		t.Fatalf("attached element did not move: %+v", el.Pos)
	}
	if el, _ := e.Element(1); el.Pos != (Vec2{20, 20}) || el.Vel != (Vec2{1, 1}) {
		t.Fatalf("unattached element changed: %+v", el)
	}
}

func TestStepOrder(t *testing.T) {
	e := NewEngine(5, Bounds{800, 600}, DefaultParams(), newRand())
	var order []int
	bs, lookup := boxes(e, DefaultElementSize)
	for _, b := range bs {
		b.log = &order
	}
	e.Bind(lookup)
	e.Step(Bounds{800, 600})

	for i, id := range order {
		if id != i {
			t.Fatalf("expected index order, got %v", order)
		}
	}
	if len(order) != 5 {
		t.Fatalf("expected 5 writes, got %d", len(order))
	}
}

func TestApplyImpulse(t *testing.T) {
	t.Run("flees_to_the_right", func(t *testing.T) {
		e := NewEngineFrom([]Element{{Pos: Vec2{100, 100}, Vel: Vec2{-3, 5}}}, DefaultParams(), newRand())
		_, lookup := boxes(e, DefaultElementSize)
		e.Bind(lookup)

		// Center is (190,190); the pointer sits directly left of it.
		e.ApplyImpulse(0, Vec2{90, 190}, 8)
		el, _ := e.Element(0)
		if el.Vel != (Vec2{8, 0}) {
			t.Fatalf("expected (8,0), got %+v", el.Vel)
		}
	})

	t.Run("replaces_velocity", func(t *testing.T) {
		e := NewEngineFrom([]Element{{Pos: Vec2{0, 0}, Vel: Vec2{100, 100}}}, DefaultParams(), newRand())
		_, lookup := boxes(e, 10)
		e.Bind(lookup)

		e.ApplyImpulse(0, Vec2{5, 15}, 2)
		el, _ := e.Element(0)
		if el.Vel != (Vec2{0, -2}) {
			t.Fatalf("expected (0,-2), got %+v", el.Vel)
		}
	})

	t.Run("coincident_point", func(t *testing.T) {
		e := NewEngineFrom([]Element{{Pos: Vec2{0, 0}, Vel: Vec2{1, 1}}}, DefaultParams(), newRand())
		_, lookup := boxes(e, 10)
		e.Bind(lookup)

		e.ApplyImpulse(0, Vec2{5, 5}, 8)
		el, _ := e.Element(0)
		if el.Vel != (Vec2{0, 0}) || math.IsNaN(el.Vel.X) {
			t.Fatalf("expected zero velocity without NaN, got %+v", el.Vel)
		}
	})

	t.Run("unattached_or_unknown_is_noop", func(t *testing.T) {
		e := NewEngineFrom([]Element{{Vel: Vec2{1, 2}}}, DefaultParams(), newRand())
		e.ApplyImpulse(0, Vec2{}, 8)
		e.ApplyImpulse(3, Vec2{}, 8)
		e.ApplyImpulse(-1, Vec2{}, 8)
		if el, _ := e.Element(0); el.Vel != (Vec2{1, 2}) {
			t.Fatalf("velocity changed: %+v", el.Vel)
		}
	})
}

func TestNewEngineSpawn(t *testing.T) {
	p := DefaultParams()
	e := NewEngine(6, Bounds{1280, 800}, p, newRand())
	if e.Len() != 6 {
		t.Fatalf("expected 6 elements, got %d", e.Len())
	}
	for i, el := range e.Elements() {
		if el.ID != i {
			t.Fatalf("element %d has id %d", i, el.ID)
		}
		if el.Pos.X < 0 || el.Pos.X >= 1280 || el.Pos.Y < 0 || el.Pos.Y >= 800 {
			t.Fatalf("spawn outside window: %+v", el.Pos)
		}
		half := p.SpawnSpeed / 2
		if math.Abs(el.Vel.X) > half || math.Abs(el.Vel.Y) > half {
			t.Fatalf("spawn speed too high: %+v", el.Vel)
		}
	}
}

// Package binder drives a motion engine from a frame scheduler and turns
// pointer movement into scatter impulses.
package binder

import (
	"log/slog"

	"github.com/iburimskiy/cartoongen/internal/frame"
	"github.com/iburimskiy/cartoongen/internal/motion"
)

// DefaultIntensity is the speed an element flees with when the pointer
// enters it.
const DefaultIntensity = 8

// Binder connects one engine to its visuals for the lifetime of a view.
type Binder struct {
	engine *motion.Engine
	lookup motion.Lookup
	bounds func() motion.Bounds
	loop   *frame.Loop
	log    *slog.Logger

	// Intensity of the impulse applied on pointer enter.
	Intensity float64
	// OnScatter, if set, runs after an element received an impulse.
	OnScatter func(id int)

	hovered int
}

// New binds lookup to engine. bounds is called every tick for the live
// container size.
func New(engine *motion.Engine, sched frame.Scheduler, lookup motion.Lookup, bounds func() motion.Bounds, log *slog.Logger) *Binder {
	if log == nil {
		log = slog.Default()
	}
	b := &Binder{
		engine:    engine,
		lookup:    lookup,
		bounds:    bounds,
		log:       log,
		Intensity: DefaultIntensity,
		hovered:   -1,
	}
	engine.Bind(lookup)
	b.loop = frame.NewLoop(sched, b.tick)
	return b
}

// Mount starts the frame loop.
func (b *Binder) Mount() {
	b.loop.Start()
	b.log.Debug("frame loop started", "elements", b.engine.Len())
}

// Unmount cancels the frame loop. The engine is no longer stepped.
func (b *Binder) Unmount() {
	if !b.loop.Running() {
		return
	}
	b.loop.Stop()
	b.log.Debug("frame loop stopped", "ticks", b.loop.Ticks())
}

func (b *Binder) Mounted() bool { return b.loop.Running() }

func (b *Binder) Engine() *motion.Engine { return b.engine }

func (b *Binder) tick() {
	b.engine.Step(b.bounds())
}

// PointerMove reports the pointer position. When the top-most element under
// the pointer changes to a new element, that element receives a pointer
// enter.
func (b *Binder) PointerMove(p motion.Vec2) {
	id := b.hit(p)
	if id == b.hovered {
		return
	}
	b.hovered = id
	if id >= 0 {
		b.PointerEnter(id, p)
	}
}

// PointerLeave forgets the hovered element, e.g. when the pointer left the
// surface or moved over an overlay.
func (b *Binder) PointerLeave() { b.hovered = -1 }

// PointerEnter sends element id fleeing from p.
func (b *Binder) PointerEnter(id int, p motion.Vec2) {
	if _, ok := b.lookup(id); !ok {
		return
	}
	b.engine.ApplyImpulse(id, p, b.Intensity)
	b.log.Debug("scatter", "id", id, "x", p.X, "y", p.Y)
	if b.OnScatter != nil {
		b.OnScatter(id)
	}
}

// hit returns the highest-index attached element containing p, or -1.
// Later elements are drawn on top.
func (b *Binder) hit(p motion.Vec2) int {
	for id := b.engine.Len() - 1; id >= 0; id-- {
		v, ok := b.lookup(id)
		if !ok {
			continue
		}
		if v.Rect().Contains(p) {
			return id
		}
	}
	return -1
}

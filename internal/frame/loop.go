// Package frame schedules per-frame work. It models the browser's
// requestAnimationFrame: a callback scheduled during one frame runs on the
// next, and every scheduling returns a handle that can be cancelled.
package frame

// Handle identifies one scheduled callback.
type Handle uint64

// Scheduler runs callbacks on the next display frame.
type Scheduler interface {
	Schedule(fn func()) Handle
	Cancel(h Handle)
}

type loopState int

const (
	loopIdle loopState = iota
	loopRunning
	loopStopped
)

// Loop is a cancellable repeating task that runs tick once per frame. It
// holds the handle of the next pending frame so Stop can cancel it.
type Loop struct {
	sched  Scheduler
	tick   func()
	handle Handle
	state  loopState
	ticks  uint64
}

func NewLoop(s Scheduler, tick func()) *Loop {
	return &Loop{sched: s, tick: tick}
}

// Start schedules the first tick. A loop starts at most once; calling Start
// again, or after Stop, does nothing.
func (l *Loop) Start() {
	if l.state != loopIdle {
		return
	}
	l.state = loopRunning
	l.handle = l.sched.Schedule(l.run)
}

// Stop cancels the pending frame. The scheduler sees exactly one Cancel no
// matter how often Stop is called.
func (l *Loop) Stop() {
	if l.state == loopRunning {
		l.sched.Cancel(l.handle)
	}
	l.state = loopStopped
}

func (l *Loop) Running() bool { return l.state == loopRunning }

// Ticks reports how many frames have run.
func (l *Loop) Ticks() uint64 { return l.ticks }

func (l *Loop) run() {
	if l.state != loopRunning {
		return
	}
	l.ticks++
	l.tick()
	// tick may have stopped the loop.
	if l.state == loopRunning {
		l.handle = l.sched.Schedule(l.run)
	}
}

package frame

type entry struct {
	h  Handle
	fn func()
}

// Queue is a Scheduler pumped by the host once per display frame. Callbacks
// scheduled while a frame is flushing run on the following Flush. It is not
// safe for concurrent use; the host calls Schedule, Cancel and Flush from its
// frame goroutine.
type Queue struct {
	last    Handle
	pending []*entry
	flushed []*entry
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Schedule(fn func()) Handle {
	q.last++
	q.pending = append(q.pending, &entry{h: q.last, fn: fn})
	return q.last
}

// Cancel drops a pending callback. Unknown or already-run handles are
// ignored.
func (q *Queue) Cancel(h Handle) {
	for i, e := range q.pending {
		if e.h == h {
			e.fn = nil
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
	for _, e := range q.flushed {
		if e.h == h {
			e.fn = nil
			return
		}
	}
}

// Flush runs every callback that was pending when it was called and returns
// how many ran.
func (q *Queue) Flush() int {
	batch := q.pending
	q.pending = nil
	q.flushed = batch
	defer func() { q.flushed = nil }()
	n := 0
	for _, e := range batch {
		// Cancelled by an earlier callback of the same batch.
		if e.fn == nil {
			continue
		}
		fn := e.fn
		e.fn = nil
		fn()
		n++
	}
	return n
}

// Pending reports how many callbacks wait for the next Flush.
func (q *Queue) Pending() int { return len(q.pending) }

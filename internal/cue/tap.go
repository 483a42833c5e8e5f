package cue

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// tap wraps a beep.Streamer and records the last samples it produced into a
// ring buffer so the renderer can react to what was just played.
type tap struct {
	Source    beep.Streamer
	buffer    [][2]float64
	nextIndex int
	mu        sync.RWMutex
}

func newTap(src beep.Streamer, ringSize int) *tap {
	return &tap{
		Source: src,
		buffer: make([][2]float64, ringSize),
	}
}

func (t *tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buffer[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buffer) {
				t.nextIndex = 0
			}
		}
		t.mu.Unlock()
	}
	return n, ok
}

func (t *tap) Err() error { return t.Source.Err() }

// level returns the compressed RMS of the last n mono samples, in [0, 1].
func (t *tap) level(n int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	if n == 0 {
		return 0
	}
	idx := t.nextIndex
	var sumSquares float64
	for i := 0; i < n; i++ {
		idx--
		if idx < 0 {
			idx = len(t.buffer) - 1
		}
		mono := (t.buffer[idx][0] + t.buffer[idx][1]) * 0.5
		sumSquares += mono * mono
	}
	rms := math.Sqrt(sumSquares / float64(n))
	return math.Min(1, math.Pow(rms, 0.3))
}

// Package cue plays short synthesized sounds for UI feedback.
package cue

import (
	"log/slog"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	tapSize    = 2048
)

// Player plays cues through the default speaker. A Player whose speaker
// could not be opened, or that was disabled, silently drops every cue.
type Player struct {
	ready  bool
	volume float64
	mixer  *beep.Mixer
	tap    *tap
	log    *slog.Logger
}

// New opens the speaker when enabled. Failing to open it is not fatal.
func New(enabled bool, log *slog.Logger) *Player {
	if log == nil {
		log = slog.Default()
	}
	p := &Player{volume: -1.5, log: log}
	if !enabled {
		return p
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		log.Warn("audio cues disabled", "err", err)
		return p
	}
	// The mixer streams silence while idle, so the tap always sees the
	// current output.
	p.mixer = &beep.Mixer{}
	p.tap = newTap(p.mixer, tapSize)
	speaker.Play(p.tap)
	p.ready = true
	return p
}

func (p *Player) Ready() bool { return p != nil && p.ready }

// Level reports how loud the cues played during the last few frames were,
// in [0, 1].
func (p *Player) Level() float64 {
	if !p.Ready() {
		return 0
	}
	return p.tap.level(sampleRate.N(time.Second / 30))
}

// Scatter is the blip played when a face flees the pointer.
func (p *Player) Scatter() {
	p.play(tone(sampleRate, 660, 45*time.Millisecond, 0.5))
}

// Chime is played when a generated image arrives.
func (p *Player) Chime() {
	p.play(beep.Seq(
		tone(sampleRate, 880, 90*time.Millisecond, 0.5),
		tone(sampleRate, 1320, 140*time.Millisecond, 0.5),
	))
}

// Close stops playback.
func (p *Player) Close() {
	if !p.Ready() {
		return
	}
	speaker.Clear()
	p.ready = false
}

func (p *Player) play(s beep.Streamer) {
	if !p.Ready() {
		return
	}
	speaker.Lock()
	p.mixer.Add(&effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   p.volume,
	})
	speaker.Unlock()
}

// tone is a sine at freq Hz lasting d with a linear fade-out.
func tone(sr beep.SampleRate, freq float64, d time.Duration, gain float64) beep.Streamer {
	total := sr.N(d)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			env := 1 - float64(pos)/float64(total)
			v := gain * env * math.Sin(2*math.Pi*freq*float64(pos)/float64(sr))
			samples[i] = [2]float64{v, v}
			pos++
			n++
		}
		return n, true
	})
}

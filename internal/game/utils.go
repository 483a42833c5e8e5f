package game

import (
	"fmt"
	"math"
	"time"
)

// hsvToRgb converts HSV to RGB (hue: 0-360, saturation: 0-1, value: 0-1)
func hsvToRgb(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	s, v = clamp01(s), clamp01(v)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// fitSize scales w x h down to fit in a limit x limit square, keeping the
// aspect ratio. Images that already fit are left alone.
func fitSize(w, h, limit int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, int(math.Max(1, math.Round(float64(h)*float64(limit)/float64(w))))
	}
	return int(math.Max(1, math.Round(float64(w)*float64(limit)/float64(h)))), limit
}

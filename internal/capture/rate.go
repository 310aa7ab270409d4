package capture

import "time"

// Frame rates and the quiet period before dropping back to idle.
const (
	IdleFPS     = 5
	ActiveFPS   = 15
	IdleTimeout = 2 * time.Second
)

// RateControl switches between the idle and active frame rate. Motion or a
// visible hand makes it active; IdleTimeout without either makes it idle.
type RateControl struct {
	active   bool
	lastSeen time.Time
}

// Observe records one frame's activity and returns the frame rate to use
// next and whether it changed.
func (r *RateControl) Observe(motion, hand bool, now time.Time) (int, bool) {
	if motion || hand {
		r.lastSeen = now
		if !r.active {
			r.active = true
			return ActiveFPS, true
		}
		return ActiveFPS, false
	}

	if r.active && now.Sub(r.lastSeen) > IdleTimeout {
		r.active = false
		return IdleFPS, true
	}
	return r.FPS(), false
}

// Active reports whether the active rate is in use.
func (r *RateControl) Active() bool {
	return r.active
}

// FPS returns the current frame rate.
func (r *RateControl) FPS() int {
	if r.active {
		return ActiveFPS
	}
	return IdleFPS
}

// Interval returns the time between frames at the current rate.
func (r *RateControl) Interval() time.Duration {
	return time.Second / time.Duration(r.FPS())
}

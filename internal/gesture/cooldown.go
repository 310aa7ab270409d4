package gesture

import "time"

// Cooldown limits.
const (
	DefaultCooldown = time.Second
	MinCooldown     = 500 * time.Millisecond
	MaxCooldown     = 3 * time.Second
)

// CooldownGate enforces a minimum interval between two dispatched actions.
// Its clock only moves when Record is called.
type CooldownGate struct {
	interval time.Duration
	last     time.Time
	recorded bool
}

// NewCooldownGate creates a gate with the given interval. Any action is
// allowed until the first Record.
func NewCooldownGate(interval time.Duration) *CooldownGate {
	return &CooldownGate{interval: interval}
}

// Allow reports whether an action may run at now.
func (g *CooldownGate) Allow(now time.Time) bool {
	if !g.recorded {
		return true
	}
	return now.Sub(g.last) >= g.interval
}

// Record marks now as the time of the last dispatched action.
func (g *CooldownGate) Record(now time.Time) {
	g.last = now
	g.recorded = true
}

// Interval returns the cooldown duration.
func (g *CooldownGate) Interval() time.Duration {
	return g.interval
}

// SetInterval changes the cooldown duration without touching the last action time.
func (g *CooldownGate) SetInterval(d time.Duration) {
	g.interval = d
}

// Reset forgets the last action time.
func (g *CooldownGate) Reset() {
	g.last = time.Time{}
	g.recorded = false
}

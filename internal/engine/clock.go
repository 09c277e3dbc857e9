// Package engine drives the ship-life simulation: the scalable clock,
// the per-pass behavior systems, and the host-facing accessor surface.
package engine

import "fmt"

// MinTimeScale is the floor for the clock multiplier. A requested
// scale at or below zero clamps here so sim-time never freezes or
// runs backward.
const MinTimeScale = 0.001

// Clock converts real elapsed seconds into simulated hours at a
// configurable multiplier.
type Clock struct {
	simHours  float64
	timeScale float64
}

// NewClock returns a clock at sim-time zero running at 1×.
func NewClock() Clock {
	return Clock{timeScale: 1.0}
}

// Advance moves sim-time forward by deltaSeconds of real time and
// returns the elapsed sim-hours. Negative deltas advance nothing.
func (c *Clock) Advance(deltaSeconds float64) float64 {
	if deltaSeconds <= 0 {
		return 0
	}
	hours := deltaSeconds * c.timeScale / 3600
	c.simHours += hours
	return hours
}

// SimHours returns total simulated time in hours.
func (c *Clock) SimHours() float64 { return c.simHours }

// HourOfDay returns the current hour on the 24-hour ship's clock.
func (c *Clock) HourOfDay() int {
	return int(c.simHours) % 24
}

// TimeScale returns the current multiplier.
func (c *Clock) TimeScale() float64 { return c.timeScale }

// SetTimeScale changes the multiplier, clamping to MinTimeScale.
func (c *Clock) SetTimeScale(scale float64) {
	if scale < MinTimeScale {
		scale = MinTimeScale
	}
	c.timeScale = scale
}

// FormatSimTime renders sim-hours as "Day N HH:MM".
func FormatSimTime(simHours float64) string {
	day := int(simHours) / 24
	hour := int(simHours) % 24
	minute := int(simHours*60) % 60
	return fmt.Sprintf("Day %d %02d:%02d", day+1, hour, minute)
}

// The needs model. All needs range 0.0 (satisfied)
// to 1.0 (critical) and rise with elapsed sim-time.
package people

// Needs thresholds and rates, per sim-hour. A need left alone goes
// critical in: hunger 8 h, fatigue 16 h, social 48 h.
const (
	NeedCritical = 0.8
	NeedSeek     = 0.55
	NeedSettled  = 0.05

	HungerPerHour  = 1.0 / 8
	FatiguePerHour = 1.0 / 16
	SocialPerHour  = 1.0 / 48

	// Satisfaction rates while performing the matching activity.
	// Each outpaces its decay so progress is monotonic.
	EatPerHour       = 2.0
	SleepPerHour     = 0.25
	SocializePerHour = 1.0
)

// Needs tracks one person's physical and social pressure.
type Needs struct {
	Hunger  float64 `json:"hunger"`
	Fatigue float64 `json:"fatigue"`
	Social  float64 `json:"social"`
}

// NeedType identifies a single need dimension.
type NeedType uint8

const (
	NeedNone NeedType = iota
	NeedHunger
	NeedFatigue
	NeedSocial
)

// Advance accrues need pressure for the elapsed sim-hours and clamps.
func (n *Needs) Advance(hours float64) {
	n.Hunger += hours * HungerPerHour
	n.Fatigue += hours * FatiguePerHour
	n.Social += hours * SocialPerHour
	n.Clamp()
}

// Satisfy reduces the given need at its activity rate and clamps.
func (n *Needs) Satisfy(need NeedType, hours float64) {
	switch need {
	case NeedHunger:
		n.Hunger -= hours * EatPerHour
	case NeedFatigue:
		n.Fatigue -= hours * SleepPerHour
	case NeedSocial:
		n.Social -= hours * SocializePerHour
	}
	n.Clamp()
}

// Value returns the current level of a single need.
func (n *Needs) Value(need NeedType) float64 {
	switch need {
	case NeedHunger:
		return n.Hunger
	case NeedFatigue:
		return n.Fatigue
	case NeedSocial:
		return n.Social
	}
	return 0
}

// MostUrgent returns the highest need above the threshold, or NeedNone.
// Hunger wins ties, then fatigue.
func (n *Needs) MostUrgent(threshold float64) NeedType {
	best := NeedNone
	bestVal := threshold
	if n.Hunger >= bestVal {
		best, bestVal = NeedHunger, n.Hunger
	}
	if n.Fatigue > bestVal {
		best, bestVal = NeedFatigue, n.Fatigue
	}
	if n.Social > bestVal {
		best, bestVal = NeedSocial, n.Social
	}
	return best
}

// AnyCritical reports whether any need has crossed the critical line.
func (n *Needs) AnyCritical() bool {
	return n.Hunger >= NeedCritical || n.Fatigue >= NeedCritical || n.Social >= NeedCritical
}

// Clamp forces every need back into [0, 1].
func (n *Needs) Clamp() {
	n.Hunger = clamp01(n.Hunger)
	n.Fatigue = clamp01(n.Fatigue)
	n.Social = clamp01(n.Social)
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

// ActivityFor maps a need to the activity that satisfies it.
func ActivityFor(need NeedType) Activity {
	switch need {
	case NeedHunger:
		return ActivityEating
	case NeedFatigue:
		return ActivitySleeping
	case NeedSocial:
		return ActivitySocializing
	}
	return ActivityNone
}

// ActivityDuration returns the nominal length of an activity in
// sim-hours. The activity also ends early once the need settles.
func ActivityDuration(a Activity) float64 {
	switch a {
	case ActivityEating:
		return 0.5
	case ActivitySleeping:
		return 8
	case ActivitySocializing:
		return 1
	case ActivityRepairing:
		return 1
	}
	return 0
}

// Package people provides the person data model: crew and passengers,
// their needs, and the spawner that populates a ship.
package people

// PersonID indexes the dense person table. IDs are assigned from 0 and
// stay stable for the life of a simulation.
type PersonID int

// Role separates working crew from paying passengers.
type Role uint8

const (
	RoleCrew Role = iota
	RolePassenger
)

// Department is a crew member's functional assignment.
type Department uint8

const (
	DeptCommand Department = iota
	DeptEngineering
	DeptMedical
	DeptScience
	DeptSecurity
	DeptOperations
)

// Shift is a crew watch rotation. Alpha covers 06:00–14:00, Beta
// 14:00–22:00, Gamma 22:00–06:00.
type Shift uint8

const (
	ShiftAlpha Shift = iota
	ShiftBeta
	ShiftGamma
)

// Active reports whether the shift covers the given hour of day.
func (sh Shift) Active(hour int) bool {
	switch sh {
	case ShiftAlpha:
		return hour >= 6 && hour < 14
	case ShiftBeta:
		return hour >= 14 && hour < 22
	default:
		return hour >= 22 || hour < 6
	}
}

// CabinClass is a passenger's berth tier.
type CabinClass uint8

const (
	ClassFirst CabinClass = iota
	ClassStandard
	ClassSteerage
)

// State is the tagged behavior phase a person is in. Transitions run
// Idle → Seeking → Moving → Satisfying → Idle.
type State uint8

const (
	StateIdle State = iota
	StateSeeking
	StateMoving
	StateSatisfying
)

// Activity is what a person is doing while in the Satisfying state.
type Activity uint8

const (
	ActivityNone Activity = iota
	ActivityEating
	ActivitySleeping
	ActivitySocializing
	ActivityOnDuty
	ActivityRepairing
)

// Person is a single simulated inhabitant. Behavioral bookkeeping
// (state, path, timers) lives inline so the engine owns no side tables.
type Person struct {
	ID   PersonID `json:"id"`
	Name string   `json:"name"`
	Role Role     `json:"role"`

	// Crew only.
	Department  Department `json:"department,omitempty"`
	Shift       Shift      `json:"shift,omitempty"`
	DutyStation int        `json:"duty_station,omitempty"`

	// Passengers only.
	Cabin CabinClass `json:"cabin,omitempty"`

	// Location. X/Y are ship coordinates; RoomID/DeckLevel track the
	// containing room.
	RoomID    int     `json:"room_id"`
	DeckLevel int     `json:"deck_level"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`

	Needs Needs `json:"needs"`

	// Behavior state machine.
	State      State    `json:"state"`
	Activity   Activity `json:"activity"`
	TargetRoom int      `json:"target_room"`
	Path       []int    `json:"-"`
	PathIndex  int      `json:"-"`
	// Sim-hours left in the current activity. Ignored for OnDuty,
	// which ends with the shift.
	ActivityHoursLeft float64 `json:"-"`
}

// OnShift reports whether a crew member's watch is active at the hour.
func (p *Person) OnShift(hour int) bool {
	return p.Role == RoleCrew && p.Shift.Active(hour)
}

// DepartmentName returns a human-readable department label.
func DepartmentName(d Department) string {
	switch d {
	case DeptCommand:
		return "Command"
	case DeptEngineering:
		return "Engineering"
	case DeptMedical:
		return "Medical"
	case DeptScience:
		return "Science"
	case DeptSecurity:
		return "Security"
	case DeptOperations:
		return "Operations"
	default:
		return "Unknown"
	}
}

// ShiftName returns a human-readable watch label.
func ShiftName(sh Shift) string {
	switch sh {
	case ShiftAlpha:
		return "Alpha"
	case ShiftBeta:
		return "Beta"
	default:
		return "Gamma"
	}
}

// ClassName returns a human-readable cabin class label.
func ClassName(c CabinClass) string {
	switch c {
	case ClassFirst:
		return "First"
	case ClassStandard:
		return "Standard"
	default:
		return "Steerage"
	}
}

// StateName returns a human-readable behavior state label.
func StateName(st State) string {
	switch st {
	case StateIdle:
		return "Idle"
	case StateSeeking:
		return "Seeking"
	case StateMoving:
		return "Moving"
	default:
		return "Satisfying"
	}
}

// Simulation ties the ship, its people, and the per-pass systems
// together behind a single synchronous update surface.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/shipsim/internal/entropy"
	"github.com/talgya/shipsim/internal/people"
	"github.com/talgya/shipsim/internal/ship"
)

// Errors returned by the boundary operations.
var (
	ErrNotGenerated = errors.New("simulation not generated")
	ErrInvalidCount = errors.New("invalid population count")
)

// eventLimit bounds the in-memory event ring.
const eventLimit = 1000

// Simulation holds the complete state of one ship world. All methods
// are single-threaded: the caller runs one operation at a time, and
// accessors never mutate.
type Simulation struct {
	Ship   *ship.Ship
	People []*people.Person
	Events []Event

	clock Clock
	rng   *rand.Rand

	crewCount      int
	passengerCount int

	conversations []*Conversation
	nextConvID    int
	relations     map[pairKey]float64
	socialAcc     float64 // Sim-seconds since the last conversation sweep

	maint maintenanceState

	stats     SimStats
	lastDay   int
	generated bool
}

// Event is a notable occurrence aboard the ship.
type Event struct {
	SimHours    float64 `json:"sim_hours" db:"sim_hours"`
	Description string  `json:"description" db:"description"`
	Category    string  `json:"category" db:"category"`
}

// SimStats tracks aggregate world statistics.
type SimStats struct {
	SimTimeHours       float64 `json:"sim_time_hours"`
	TimeScale          float64 `json:"time_scale"`
	DeckCount          int     `json:"deck_count"`
	RoomCount          int     `json:"room_count"`
	CrewCount          int     `json:"crew_count"`
	PassengerCount     int     `json:"passenger_count"`
	Conversations      int     `json:"conversations"`
	PendingMaintenance int     `json:"pending_maintenance"`
	ActiveMaintenance  int     `json:"active_maintenance"`
	AvgHunger          float64 `json:"avg_hunger"`
	AvgFatigue         float64 `json:"avg_fatigue"`
	AvgSocial          float64 `json:"avg_social"`
}

// NewSimulation creates an empty simulation. Generate must run before
// Update or any accessor that reads world state.
func NewSimulation() *Simulation {
	return &Simulation{
		clock:     NewClock(),
		relations: make(map[pairKey]float64),
	}
}

// Generate builds a fresh ship and population, replacing any existing
// world. Sim-time resets to zero; the time scale carries over.
func (s *Simulation) Generate(cfg ship.GenConfig, crew, passengers int) error {
	if crew < 0 || passengers < 0 {
		return fmt.Errorf("%w: crew=%d passengers=%d", ErrInvalidCount, crew, passengers)
	}

	sh, err := ship.Generate(cfg)
	if err != nil {
		return fmt.Errorf("generate ship: %w", err)
	}

	spawner := people.NewSpawner(sh.Seed)
	roster := spawner.SpawnCrew(crew, sh)
	roster = append(roster, spawner.SpawnPassengers(passengers, sh)...)

	scale := s.clock.TimeScale()
	s.Ship = sh
	s.People = roster
	s.Events = nil
	s.clock = NewClock()
	s.clock.SetTimeScale(scale)
	s.rng = entropy.Stream(sh.Seed, entropy.StreamBehavior)
	s.crewCount = crew
	s.passengerCount = passengers
	s.conversations = nil
	s.nextConvID = 0
	s.relations = make(map[pairKey]float64)
	s.socialAcc = 0
	s.initMaintenance(sh)
	s.lastDay = 0
	s.generated = true

	s.updateStats()
	slog.Info("ship generated",
		"name", sh.Name,
		"decks", sh.DeckCount(),
		"rooms", sh.RoomCount(),
		"crew", crew,
		"passengers", passengers,
		"length", fmt.Sprintf("%.1f", sh.Length),
		"width", fmt.Sprintf("%.1f", sh.Width),
		"seed", sh.Seed,
	)
	return nil
}

// Update advances the world by deltaSeconds of real time, scaled by
// the clock. One synchronous pass; not reentrant.
func (s *Simulation) Update(deltaSeconds float64) error {
	if !s.generated {
		return ErrNotGenerated
	}

	hours := s.clock.Advance(deltaSeconds)
	if hours <= 0 {
		return nil
	}

	for _, p := range s.People {
		p.Needs.Advance(hours)
	}

	s.updateBehavior(hours)
	s.updateConversations(hours)
	s.updateMaintenance(hours)
	s.updateStats()

	if day := int(s.clock.SimHours() / 24); day > s.lastDay {
		s.lastDay = day
		s.dailyReport()
	}
	return nil
}

// SetTimeScale changes the clock multiplier. Values at or below zero
// clamp to MinTimeScale.
func (s *Simulation) SetTimeScale(scale float64) {
	s.clock.SetTimeScale(scale)
	slog.Debug("time scale set", "scale", s.clock.TimeScale())
}

// TimeScale returns the current clock multiplier.
func (s *Simulation) TimeScale() float64 { return s.clock.TimeScale() }

// SimTime returns total simulated time in hours.
func (s *Simulation) SimTime() float64 { return s.clock.SimHours() }

// HourOfDay returns the hour on the 24-hour ship's clock.
func (s *Simulation) HourOfDay() int { return s.clock.HourOfDay() }

// Generated reports whether a world has been built.
func (s *Simulation) Generated() bool { return s.generated }

// Stats returns aggregate statistics for the current world.
func (s *Simulation) Stats() (SimStats, error) {
	if !s.generated {
		return SimStats{}, ErrNotGenerated
	}
	return s.stats, nil
}

func (s *Simulation) updateStats() {
	s.stats = SimStats{
		SimTimeHours:   s.clock.SimHours(),
		TimeScale:      s.clock.TimeScale(),
		CrewCount:      s.crewCount,
		PassengerCount: s.passengerCount,
		Conversations:  len(s.conversations),
	}
	if s.Ship != nil {
		s.stats.DeckCount = s.Ship.DeckCount()
		s.stats.RoomCount = s.Ship.RoomCount()
	}
	for _, t := range s.maint.tasks {
		if t.State == TaskPending {
			s.stats.PendingMaintenance++
		} else {
			s.stats.ActiveMaintenance++
		}
	}
	if len(s.People) > 0 {
		var h, f, so float64
		for _, p := range s.People {
			h += p.Needs.Hunger
			f += p.Needs.Fatigue
			so += p.Needs.Social
		}
		n := float64(len(s.People))
		s.stats.AvgHunger = h / n
		s.stats.AvgFatigue = f / n
		s.stats.AvgSocial = so / n
	}
}

func (s *Simulation) dailyReport() {
	eventCounts := make(map[string]int)
	for _, e := range s.Events {
		eventCounts[e.Category]++
	}
	slog.Info("daily report",
		"time", FormatSimTime(s.clock.SimHours()),
		"crew", s.stats.CrewCount,
		"passengers", s.stats.PassengerCount,
		"avg_hunger", fmt.Sprintf("%.3f", s.stats.AvgHunger),
		"avg_fatigue", fmt.Sprintf("%.3f", s.stats.AvgFatigue),
		"avg_social", fmt.Sprintf("%.3f", s.stats.AvgSocial),
		"conversations", s.stats.Conversations,
		"maint_pending", s.stats.PendingMaintenance,
		"events_social", eventCounts["social"],
		"events_maintenance", eventCounts["maintenance"],
	)
}

func (s *Simulation) recordEvent(category, format string, args ...any) {
	s.Events = append(s.Events, Event{
		SimHours:    s.clock.SimHours(),
		Description: fmt.Sprintf(format, args...),
		Category:    category,
	})
	if len(s.Events) > eventLimit {
		s.Events = s.Events[len(s.Events)-eventLimit:]
	}
}

// PersonCount returns the total number of people aboard.
func (s *Simulation) PersonCount() int { return len(s.People) }

// RoomCount returns the total number of rooms.
func (s *Simulation) RoomCount() int {
	if s.Ship == nil {
		return 0
	}
	return s.Ship.RoomCount()
}

// DeckCount returns the number of decks.
func (s *Simulation) DeckCount() int {
	if s.Ship == nil {
		return 0
	}
	return s.Ship.DeckCount()
}

// ShipDimensions returns the tight bounding box of the layout.
func (s *Simulation) ShipDimensions() (length, width float64) {
	if s.Ship == nil {
		return 0, 0
	}
	return s.Ship.Length, s.Ship.Width
}

// PersonSnapshot is a flat read-only copy of one person's state.
type PersonSnapshot struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Department string  `json:"department,omitempty"`
	Shift      string  `json:"shift,omitempty"`
	Cabin      string  `json:"cabin,omitempty"`
	RoomID     int     `json:"room_id"`
	DeckLevel  int     `json:"deck_level"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Hunger     float64 `json:"hunger"`
	Fatigue    float64 `json:"fatigue"`
	Social     float64 `json:"social"`
	State      string  `json:"state"`
	Activity   uint8   `json:"activity"`
	TargetRoom int     `json:"target_room"`
}

// PersonAt returns a snapshot of the person at the dense index, or
// false when the index is out of range.
func (s *Simulation) PersonAt(i int) (PersonSnapshot, bool) {
	if i < 0 || i >= len(s.People) {
		return PersonSnapshot{}, false
	}
	p := s.People[i]
	snap := PersonSnapshot{
		ID:         int(p.ID),
		Name:       p.Name,
		RoomID:     p.RoomID,
		DeckLevel:  p.DeckLevel,
		X:          p.X,
		Y:          p.Y,
		Hunger:     p.Needs.Hunger,
		Fatigue:    p.Needs.Fatigue,
		Social:     p.Needs.Social,
		State:      people.StateName(p.State),
		Activity:   uint8(p.Activity),
		TargetRoom: p.TargetRoom,
	}
	if p.Role == people.RoleCrew {
		snap.Role = "crew"
		snap.Department = people.DepartmentName(p.Department)
		snap.Shift = people.ShiftName(p.Shift)
	} else {
		snap.Role = "passenger"
		snap.Cabin = people.ClassName(p.Cabin)
	}
	return snap, true
}

// RoomSnapshot is a flat read-only copy of one room's state.
type RoomSnapshot struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Deck      int     `json:"deck"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	W         float64 `json:"w"`
	H         float64 `json:"h"`
	Wear      float64 `json:"wear"`
	Occupants int     `json:"occupants"`
}

// RoomAt returns a snapshot of the room at the dense index, or false
// when the index is out of range.
func (s *Simulation) RoomAt(i int) (RoomSnapshot, bool) {
	if s.Ship == nil || i < 0 || i >= s.Ship.RoomCount() {
		return RoomSnapshot{}, false
	}
	r := &s.Ship.Rooms[i]
	occupants := 0
	for _, p := range s.People {
		if p.RoomID == i {
			occupants++
		}
	}
	snap := RoomSnapshot{
		ID:        r.ID,
		Name:      r.Name,
		Type:      ship.TypeName(r.Type),
		Deck:      r.Deck,
		X:         r.X,
		Y:         r.Y,
		W:         r.W,
		H:         r.H,
		Occupants: occupants,
	}
	if i < len(s.maint.wear) {
		snap.Wear = s.maint.wear[i]
	}
	return snap, true
}

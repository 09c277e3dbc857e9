// Person spawning builds the initial crew roster and passenger
// manifest for a generated ship.
package people

import (
	"math/rand"

	"github.com/talgya/shipsim/internal/entropy"
	"github.com/talgya/shipsim/internal/ship"
)

// Spawner creates people for the simulation. IDs are issued densely
// from 0 in spawn order.
type Spawner struct {
	rng    *rand.Rand
	nextID PersonID
}

// NewSpawner creates a spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng: entropy.Stream(seed, entropy.StreamSpawner),
	}
}

// Department mix for crew rosters, cumulative. Engineering and
// operations carry most of the head count.
var departmentWeights = []struct {
	dept   Department
	weight float64
}{
	{DeptEngineering, 0.25},
	{DeptOperations, 0.25},
	{DeptSecurity, 0.15},
	{DeptMedical, 0.10},
	{DeptScience, 0.10},
	{DeptCommand, 0.05},
	{DeptOperations, 0.10}, // Civilian contractors fold into operations
}

// SpawnCrew creates n crew members assigned to duty stations aboard
// the ship. Watch shifts rotate evenly through Alpha/Beta/Gamma.
func (s *Spawner) SpawnCrew(n int, sh *ship.Ship) []*Person {
	crew := make([]*Person, 0, n)
	for i := 0; i < n; i++ {
		dept := s.rollDepartment()
		station := s.dutyStationFor(dept, sh)
		p := &Person{
			ID:          s.issueID(),
			Name:        s.generateName(),
			Role:        RoleCrew,
			Department:  dept,
			Shift:       Shift(i % 3),
			DutyStation: station,
			Needs:       s.baselineNeeds(),
			TargetRoom:  -1,
		}
		s.placeIn(p, sh, station)
		crew = append(crew, p)
	}
	return crew
}

// SpawnPassengers creates n passengers berthed in quarters or lounging
// in common spaces. Cabin classes skew heavily toward steerage.
func (s *Spawner) SpawnPassengers(n int, sh *ship.Ship) []*Person {
	passengers := make([]*Person, 0, n)
	for i := 0; i < n; i++ {
		p := &Person{
			ID:         s.issueID(),
			Name:       s.generateName(),
			Role:       RolePassenger,
			Cabin:      s.rollCabinClass(),
			Needs:      s.baselineNeeds(),
			TargetRoom: -1,
		}
		start := s.passengerStart(sh)
		s.placeIn(p, sh, start)
		passengers = append(passengers, p)
	}
	return passengers
}

func (s *Spawner) issueID() PersonID {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Spawner) rollDepartment() Department {
	r := s.rng.Float64()
	acc := 0.0
	for _, dw := range departmentWeights {
		acc += dw.weight
		if r < acc {
			return dw.dept
		}
	}
	return DeptOperations
}

func (s *Spawner) rollCabinClass() CabinClass {
	r := s.rng.Float64()
	switch {
	case r < 0.06:
		return ClassFirst
	case r < 0.31:
		return ClassStandard
	default:
		return ClassSteerage
	}
}

// baselineNeeds starts everyone at moderate, slightly varied pressure.
func (s *Spawner) baselineNeeds() Needs {
	return Needs{
		Hunger:  0.15 + s.rng.Float64()*0.30,
		Fatigue: 0.15 + s.rng.Float64()*0.30,
		Social:  0.15 + s.rng.Float64()*0.30,
	}
}

// dutyStationFor picks a functional room matching the department,
// falling back to any non-corridor room, then room 0.
func (s *Spawner) dutyStationFor(dept Department, sh *ship.Ship) int {
	var match func(ship.RoomType) bool
	switch dept {
	case DeptCommand:
		match = func(t ship.RoomType) bool { return t == ship.RoomBridge }
	case DeptEngineering:
		match = func(t ship.RoomType) bool {
			return t == ship.RoomEngineering || t == ship.RoomReactor || t == ship.RoomLifeSupport
		}
	case DeptMedical:
		match = func(t ship.RoomType) bool { return t == ship.RoomMedical }
	case DeptScience:
		match = func(t ship.RoomType) bool {
			return t == ship.RoomLaboratory || t == ship.RoomObservatory
		}
	case DeptSecurity:
		match = func(t ship.RoomType) bool {
			return t == ship.RoomCargo || t == ship.RoomBridge
		}
	default:
		match = func(t ship.RoomType) bool {
			return t == ship.RoomGalley || t == ship.RoomCargo || t == ship.RoomMess
		}
	}

	if ids := sh.RoomsOfType(match); len(ids) > 0 {
		return ids[s.rng.Intn(len(ids))]
	}
	if ids := sh.RoomsOfType(func(t ship.RoomType) bool { return t != ship.RoomCorridor }); len(ids) > 0 {
		return ids[s.rng.Intn(len(ids))]
	}
	// Only corridors left; post them in the first one.
	if sh.RoomCount() > 0 {
		return 0
	}
	return -1
}

// passengerStart picks an initial room: 70% quarters, 30% a common
// space.
func (s *Spawner) passengerStart(sh *ship.Ship) int {
	match := ship.IsQuarters
	if s.rng.Float64() < 0.30 {
		match = ship.IsRecreation
	}
	if ids := sh.RoomsOfType(match); len(ids) > 0 {
		return ids[s.rng.Intn(len(ids))]
	}
	if ids := sh.RoomsOfType(func(t ship.RoomType) bool { return t != ship.RoomCorridor }); len(ids) > 0 {
		return ids[s.rng.Intn(len(ids))]
	}
	if sh.RoomCount() > 0 {
		return 0
	}
	return -1
}

func (s *Spawner) placeIn(p *Person, sh *ship.Ship, roomID int) {
	room, ok := sh.Room(roomID)
	if !ok {
		// No such room, which only happens on a roomless ship. Leave
		// the person unhoused rather than pointing at room 0.
		p.RoomID = -1
		return
	}
	p.RoomID = roomID
	p.DeckLevel = room.Deck
	p.X = room.CenterX()
	p.Y = room.CenterY()
}

func (s *Spawner) generateName() string {
	first := givenNames[s.rng.Intn(len(givenNames))]
	last := familyNames[s.rng.Intn(len(familyNames))]
	return first + " " + last
}

// Name pools for procedural generation.
var givenNames = []string{
	"Aldric", "Astrid", "Bram", "Brenna", "Cedric", "Calla", "Doran",
	"Daria", "Erik", "Elara", "Finn", "Freya", "Gareth", "Greta",
	"Ivan", "Iris", "Jasper", "Juno", "Kael", "Kira", "Leif", "Lena",
	"Magnus", "Mira", "Nils", "Nessa", "Oswin", "Olwen", "Per",
	"Petra", "Quinn", "Runa", "Rowan", "Senna", "Theron", "Thea",
	"Ulric", "Una", "Varen", "Vera", "Wren", "Willa", "Yorick", "Yara",
}

var familyNames = []string{
	"Voss", "Thornwood", "Blackwood", "Ashford", "Dunmore", "Calloway",
	"Greenvale", "Frost", "Hearthstone", "Millward", "Copperfield",
	"Silverdale", "Deepwell", "Brightwater", "Redforge", "Windholm",
	"Marshwood", "Goldhaven", "Riverstone", "Steelworth", "Holloway",
	"Farrow", "Wyatt", "Thatcher", "Briar", "Caldwell", "Harper",
	"Mercer", "Ward", "Cross", "Okafor", "Ishikawa", "Navarro",
	"Lindqvist", "Adeyemi", "Castellanos",
}

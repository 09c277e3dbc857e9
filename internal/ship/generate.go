// Deck layout generation. Each deck gets a central fore-aft corridor,
// an elevator shaft shared vertically across decks, and rooms packed
// into alternating starboard/port slots inside an elliptical hull.
package ship

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/shipsim/internal/entropy"
)

// Layout constants, in meters.
const (
	corridorWidth = 3.0
	elevatorSize  = 4.0
	slotPitch     = 10.0
	minRoomDepth  = 4.0
	maxRoomDepth  = 15.0

	maxDecks        = 64
	maxRoomsPerDeck = 256
)

// ErrInvalidConfig reports an unusable generation configuration.
var ErrInvalidConfig = errors.New("invalid ship configuration")

// GenConfig holds ship generation parameters.
type GenConfig struct {
	Name         string
	NumDecks     int
	RoomsPerDeck int
	HullLength   float64 // Hull envelope used to shape room depths
	HullWidth    float64
	Seed         int64 // 0 = random
}

// DefaultGenConfig returns a mid-size vessel configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		NumDecks:     4,
		RoomsPerDeck: 12,
		HullLength:   120,
		HullWidth:    30,
	}
}

// SmallTestConfig returns a tiny two-deck ship for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		NumDecks:     2,
		RoomsPerDeck: 5,
		HullLength:   60,
		HullWidth:    20,
		Seed:         42,
	}
}

// Generate builds a complete ship layout. The result is deterministic
// for a fixed non-zero seed. The room table always holds exactly
// NumDecks × RoomsPerDeck entries; a zero deck or room count yields an
// empty ship.
func Generate(cfg GenConfig) (*Ship, error) {
	if cfg.NumDecks < 0 || cfg.RoomsPerDeck < 0 {
		return nil, fmt.Errorf("%w: decks=%d rooms_per_deck=%d",
			ErrInvalidConfig, cfg.NumDecks, cfg.RoomsPerDeck)
	}
	if cfg.NumDecks > maxDecks {
		cfg.NumDecks = maxDecks
	}
	if cfg.RoomsPerDeck > maxRoomsPerDeck {
		cfg.RoomsPerDeck = maxRoomsPerDeck
	}
	if cfg.HullLength <= 0 {
		cfg.HullLength = DefaultGenConfig().HullLength
	}
	if cfg.HullWidth <= 0 {
		cfg.HullWidth = DefaultGenConfig().HullWidth
	}

	seed := entropy.Seed(cfg.Seed)
	rng := entropy.Stream(seed, entropy.StreamLayout)

	s := &Ship{Name: cfg.Name, Seed: seed}
	if s.Name == "" {
		s.Name = generateShipName(rng)
	}
	if cfg.NumDecks == 0 || cfg.RoomsPerDeck == 0 {
		return s, nil
	}

	hasElevator := cfg.NumDecks > 1 && cfg.RoomsPerDeck >= 2
	var elevatorIDs []int

	for level := 0; level < cfg.NumDecks; level++ {
		deck := Deck{Level: level, Name: deckName(level, cfg.NumDecks)}

		corridorID := len(s.Rooms)
		s.Rooms = append(s.Rooms, Room{
			ID:   corridorID,
			Name: deck.Name + " Corridor",
			Type: RoomCorridor,
			Deck: level,
			Y:    -corridorWidth / 2,
			H:    corridorWidth,
			// W is set once the slot count is known.
		})
		deck.RoomIDs = append(deck.RoomIDs, corridorID)

		if hasElevator {
			id := len(s.Rooms)
			s.Rooms = append(s.Rooms, Room{
				ID:   id,
				Name: fmt.Sprintf("Elevator %s", deck.Name),
				Type: RoomElevator,
				Deck: level,
				X:    0,
				Y:    corridorWidth / 2,
				W:    elevatorSize,
				H:    elevatorSize,
			})
			deck.RoomIDs = append(deck.RoomIDs, id)
			elevatorIDs = append(elevatorIDs, id)
			connect(s, id, corridorID)
		}

		regular := cfg.RoomsPerDeck - len(deck.RoomIDs)
		types := roomTypesForDeck(level, cfg.NumDecks, regular)
		starboardSlots := 0
		portSlots := 0

		for i := 0; i < regular; i++ {
			starboard := i%2 == 0
			var slot int
			if starboard {
				slot = starboardSlots
				starboardSlots++
			} else {
				slot = portSlots
				portSlots++
			}

			x0 := elevatorSize + 2 + float64(slot)*slotPitch
			w := 6 + rng.Float64()*2
			depth := roomDepthAt(cfg, x0+w/2)

			room := Room{
				ID:   len(s.Rooms),
				Type: types[i],
				Deck: level,
				X:    x0,
				W:    w,
				H:    depth,
			}
			if starboard {
				room.Y = corridorWidth / 2
			} else {
				room.Y = -corridorWidth/2 - depth
			}
			room.Name = roomName(types[i], countOfType(s, level, types[i])+1)

			s.Rooms = append(s.Rooms, room)
			deck.RoomIDs = append(deck.RoomIDs, room.ID)
			connect(s, room.ID, corridorID)
		}

		// Corridor runs the full length of the occupied slots.
		slots := starboardSlots
		if portSlots > slots {
			slots = portSlots
		}
		corrLen := elevatorSize + 2 + float64(slots)*slotPitch
		if corrLen < 8 {
			corrLen = 8
		}
		s.Rooms[corridorID].W = corrLen

		s.Decks = append(s.Decks, deck)
	}

	// Elevator shafts chain vertically, one per deck at the same slot.
	for i := 1; i < len(elevatorIDs); i++ {
		connect(s, elevatorIDs[i-1], elevatorIDs[i])
	}

	s.Length, s.Width = boundingBox(s.Rooms)
	return s, nil
}

// roomDepthAt derives a room's athwartship depth from the elliptical
// hull envelope at the given fore-aft position, clamped to sane bounds.
func roomDepthAt(cfg GenConfig, x float64) float64 {
	// Normalized position along the hull, -1 at bow to +1 at stern.
	t := 2*x/cfg.HullLength - 1
	inner := 1 - t*t
	if inner < 0 {
		inner = 0
	}
	half := cfg.HullWidth / 2 * math.Sqrt(inner)
	depth := half - corridorWidth/2 - 1
	if depth < minRoomDepth {
		depth = minRoomDepth
	}
	if depth > maxRoomDepth {
		depth = maxRoomDepth
	}
	return depth
}

// roomTypesForDeck assigns types to a deck's regular rooms by level:
// command spaces up top, an engineering deck at the bottom, crew berthing
// high, passenger cabins amidships.
func roomTypesForDeck(level, numDecks, n int) []RoomType {
	types := make([]RoomType, 0, n)

	fill := func(lead []RoomType, rest RoomType) {
		for i := 0; i < n; i++ {
			if i < len(lead) {
				types = append(types, lead[i])
			} else {
				types = append(types, rest)
			}
		}
	}

	switch {
	case numDecks == 1:
		fill([]RoomType{RoomBridge, RoomMess, RoomQuartersCrew, RoomEngineering,
			RoomRecreation, RoomMedical, RoomQuartersPassenger}, RoomQuartersPassenger)
	case level == 0:
		fill([]RoomType{RoomBridge, RoomMess, RoomGalley, RoomMedical, RoomRecreation},
			RoomQuartersCrew)
	case level == numDecks-1:
		fill([]RoomType{RoomEngineering, RoomReactor, RoomLifeSupport, RoomCargo},
			RoomQuartersCrew)
	case level == 1 && numDecks >= 4:
		fill([]RoomType{RoomGym, RoomRecreation}, RoomQuartersCrew)
	case level == numDecks-2 && numDecks >= 5:
		fill([]RoomType{RoomObservatory, RoomLaboratory}, RoomQuartersPassenger)
	default:
		for i := 0; i < n; i++ {
			if i%6 == 5 {
				types = append(types, RoomRecreation)
			} else {
				types = append(types, RoomQuartersPassenger)
			}
		}
	}
	return types
}

func connect(s *Ship, a, b int) {
	s.Rooms[a].Connections = append(s.Rooms[a].Connections, b)
	s.Rooms[b].Connections = append(s.Rooms[b].Connections, a)
}

func countOfType(s *Ship, level int, t RoomType) int {
	count := 0
	for i := range s.Rooms {
		if s.Rooms[i].Deck == level && s.Rooms[i].Type == t {
			count++
		}
	}
	return count
}

func boundingBox(rooms []Room) (length, width float64) {
	if len(rooms) == 0 {
		return 0, 0
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := range rooms {
		r := &rooms[i]
		minX = math.Min(minX, r.X)
		maxX = math.Max(maxX, r.X+r.W)
		minY = math.Min(minY, r.Y)
		maxY = math.Max(maxY, r.Y+r.H)
	}
	return maxX - minX, maxY - minY
}

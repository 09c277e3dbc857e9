// Package ship provides the procedural vessel layout: decks, rooms,
// and the connection graph between them.
package ship

// RoomType classifies what a room is for.
type RoomType uint8

const (
	RoomCorridor RoomType = iota
	RoomElevator
	RoomBridge
	RoomMess
	RoomGalley
	RoomMedical
	RoomRecreation
	RoomGym
	RoomQuartersCrew
	RoomQuartersPassenger
	RoomEngineering
	RoomReactor
	RoomLifeSupport
	RoomCargo
	RoomLaboratory
	RoomObservatory
)

// Room is an axis-aligned rectangle on a deck. X runs bow to stern,
// Y runs starboard (positive) to port (negative). X and Y are the
// minimum corner; the rectangle extends W along x and H along y.
type Room struct {
	ID   int      `json:"id"`
	Name string   `json:"name"`
	Type RoomType `json:"type"`
	Deck int      `json:"deck"`

	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`

	// IDs of rooms directly connected by a door or shaft.
	Connections []int `json:"connections"`
}

// CenterX returns the x coordinate of the room's center.
func (r *Room) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the y coordinate of the room's center.
func (r *Room) CenterY() float64 { return r.Y + r.H/2 }

// Contains reports whether the point lies inside the room rectangle.
func (r *Room) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Overlaps reports whether two rooms on the same deck share interior area.
// Shared edges do not count.
func (r *Room) Overlaps(o *Room) bool {
	if r.Deck != o.Deck {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Deck groups the rooms at one vertical level. Level 0 is the command
// deck; levels increase downward.
type Deck struct {
	Level   int    `json:"level"`
	Name    string `json:"name"`
	RoomIDs []int  `json:"room_ids"`
}

// Ship is the complete generated layout. Rooms are stored in a dense
// slice: Rooms[i].ID == i, stable for the life of the ship.
type Ship struct {
	Name  string `json:"name"`
	Seed  int64  `json:"seed"`
	Rooms []Room `json:"rooms"`
	Decks []Deck `json:"decks"`

	// Tight bounding box over all room rectangles, not the configured
	// hull envelope.
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
}

// Room returns the room with the given id, or false when out of range.
func (s *Ship) Room(id int) (*Room, bool) {
	if id < 0 || id >= len(s.Rooms) {
		return nil, false
	}
	return &s.Rooms[id], true
}

// RoomCount returns the total number of rooms across all decks.
func (s *Ship) RoomCount() int { return len(s.Rooms) }

// DeckCount returns the number of decks.
func (s *Ship) DeckCount() int { return len(s.Decks) }

// RoomsOfType returns the ids of all rooms matching the predicate.
func (s *Ship) RoomsOfType(match func(RoomType) bool) []int {
	var ids []int
	for i := range s.Rooms {
		if match(s.Rooms[i].Type) {
			ids = append(ids, i)
		}
	}
	return ids
}

// IsDining reports whether a room type serves food.
func IsDining(t RoomType) bool {
	return t == RoomMess || t == RoomGalley
}

// IsQuarters reports whether a room type is sleeping space.
func IsQuarters(t RoomType) bool {
	return t == RoomQuartersCrew || t == RoomQuartersPassenger
}

// IsRecreation reports whether people gather in a room type off duty.
func IsRecreation(t RoomType) bool {
	return t == RoomRecreation || t == RoomGym || t == RoomMess || t == RoomObservatory
}

// IsMachinery reports whether a room type houses ship systems that wear
// under load.
func IsMachinery(t RoomType) bool {
	switch t {
	case RoomEngineering, RoomReactor, RoomLifeSupport, RoomElevator:
		return true
	}
	return false
}

// TypeName returns a human-readable name for a room type.
func TypeName(t RoomType) string {
	switch t {
	case RoomCorridor:
		return "Corridor"
	case RoomElevator:
		return "Elevator"
	case RoomBridge:
		return "Bridge"
	case RoomMess:
		return "Mess Hall"
	case RoomGalley:
		return "Galley"
	case RoomMedical:
		return "Medical Bay"
	case RoomRecreation:
		return "Recreation"
	case RoomGym:
		return "Gymnasium"
	case RoomQuartersCrew:
		return "Crew Quarters"
	case RoomQuartersPassenger:
		return "Passenger Cabin"
	case RoomEngineering:
		return "Engineering"
	case RoomReactor:
		return "Reactor Room"
	case RoomLifeSupport:
		return "Life Support"
	case RoomCargo:
		return "Cargo Hold"
	case RoomLaboratory:
		return "Laboratory"
	case RoomObservatory:
		return "Observatory"
	default:
		return "Unknown"
	}
}

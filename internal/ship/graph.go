// Room graph traversal.
package ship

import "math"

// deckTransitionCost is the travel penalty, in meters, for each deck
// crossed via an elevator shaft.
const deckTransitionCost = 12.0

// Path returns the room ids along the shortest hop path from one room
// to another, inclusive of both endpoints. Returns nil when either id
// is out of range or no route exists.
func (s *Ship) Path(from, to int) []int {
	if from < 0 || from >= len(s.Rooms) || to < 0 || to >= len(s.Rooms) {
		return nil
	}
	if from == to {
		return []int{from}
	}

	prev := make([]int, len(s.Rooms))
	for i := range prev {
		prev[i] = -1
	}
	prev[from] = from

	queue := []int{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range s.Rooms[cur].Connections {
			if prev[next] != -1 {
				continue
			}
			prev[next] = cur
			if next == to {
				return walkBack(prev, from, to)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func walkBack(prev []int, from, to int) []int {
	var path []int
	for cur := to; ; cur = prev[cur] {
		path = append(path, cur)
		if cur == from {
			break
		}
	}
	// Reverse into from→to order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Distance estimates walking distance between two room centers:
// straight-line within the deck plane plus a fixed cost per deck
// transition.
func (s *Ship) Distance(from, to int) float64 {
	if from < 0 || from >= len(s.Rooms) || to < 0 || to >= len(s.Rooms) {
		return math.Inf(1)
	}
	a, b := &s.Rooms[from], &s.Rooms[to]
	dx := a.CenterX() - b.CenterX()
	dy := a.CenterY() - b.CenterY()
	decks := a.Deck - b.Deck
	if decks < 0 {
		decks = -decks
	}
	return math.Hypot(dx, dy) + float64(decks)*deckTransitionCost
}

// Nearest returns the id of the closest room matching the predicate,
// measured from the given room. Ties resolve to the lowest room id.
// Returns -1 when no room matches.
func (s *Ship) Nearest(from int, match func(RoomType) bool) int {
	best := -1
	bestDist := math.Inf(1)
	for i := range s.Rooms {
		if i == from || !match(s.Rooms[i].Type) {
			continue
		}
		d := s.Distance(from, i)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// Needs-driven behavior: each pass every person evaluates their
// state machine: Idle → Seeking → Moving → Satisfying → Idle.
package engine

import (
	"math"

	"github.com/talgya/shipsim/internal/people"
	"github.com/talgya/shipsim/internal/ship"
)

// walkSpeed is walking pace in meters per sim-second.
const walkSpeed = 1.4

// wanderChancePerHour is the probability per sim-hour that an idle
// person strolls to an adjacent room.
const wanderChancePerHour = 0.3

func (s *Simulation) updateBehavior(hours float64) {
	hour := s.clock.HourOfDay()
	for _, p := range s.People {
		switch p.State {
		case people.StateIdle:
			s.decideIdle(p, hour, hours)
		case people.StateSeeking:
			s.beginSeek(p)
		case people.StateMoving:
			s.advanceMovement(p, hours)
		case people.StateSatisfying:
			s.advanceActivity(p, hours, hour)
		}
	}
}

func (s *Simulation) decideIdle(p *people.Person, hour int, hours float64) {
	if need := p.Needs.MostUrgent(people.NeedSeek); need != people.NeedNone {
		p.Activity = people.ActivityFor(need)
		p.State = people.StateSeeking
		s.beginSeek(p)
		return
	}

	if p.OnShift(hour) && !p.Needs.AnyCritical() {
		if p.RoomID == p.DutyStation {
			p.State = people.StateSatisfying
			p.Activity = people.ActivityOnDuty
			return
		}
		p.Activity = people.ActivityOnDuty
		p.TargetRoom = p.DutyStation
		p.State = people.StateSeeking
		s.beginSeek(p)
		return
	}

	if s.rng.Float64() < wanderChancePerHour*hours {
		s.wander(p)
	}
}

// beginSeek resolves a destination and path for the person's pending
// activity. No reachable destination sends them back to idle; the need
// keeps accruing where they stand.
func (s *Simulation) beginSeek(p *people.Person) {
	target := s.roomForActivity(p)
	if target < 0 {
		s.finishActivity(p)
		return
	}
	if target == p.RoomID {
		s.arrive(p)
		return
	}

	path := s.Ship.Path(p.RoomID, target)
	if path == nil {
		s.finishActivity(p)
		return
	}
	p.TargetRoom = target
	p.Path = path
	p.PathIndex = 1
	p.State = people.StateMoving
}

// roomForActivity picks the nearest room that serves the person's
// pending activity. Ties resolve to the lowest room id.
func (s *Simulation) roomForActivity(p *people.Person) int {
	var match func(ship.RoomType) bool
	switch p.Activity {
	case people.ActivityEating:
		match = ship.IsDining
	case people.ActivitySleeping:
		match = ship.IsQuarters
	case people.ActivitySocializing:
		match = ship.IsRecreation
	case people.ActivityOnDuty, people.ActivityRepairing:
		return p.TargetRoom
	default:
		return -1
	}

	if room, ok := s.Ship.Room(p.RoomID); ok && match(room.Type) {
		return p.RoomID
	}
	return s.Ship.Nearest(p.RoomID, match)
}

// advanceMovement walks the person along their waypoint path at
// walking speed, scaled by the elapsed sim-time.
func (s *Simulation) advanceMovement(p *people.Person, hours float64) {
	budget := hours * 3600 * walkSpeed

	for budget > 0 && p.PathIndex < len(p.Path) {
		next, ok := s.Ship.Room(p.Path[p.PathIndex])
		if !ok {
			s.finishActivity(p)
			return
		}
		wx, wy := next.CenterX(), next.CenterY()
		dx, dy := wx-p.X, wy-p.Y
		dist := math.Hypot(dx, dy)

		if dist <= budget {
			p.X, p.Y = wx, wy
			p.RoomID = next.ID
			p.DeckLevel = next.Deck
			p.PathIndex++
			budget -= dist
			continue
		}

		p.X += dx / dist * budget
		p.Y += dy / dist * budget
		return
	}

	if p.PathIndex >= len(p.Path) {
		s.arrive(p)
	}
}

// arrive transitions into Satisfying at the destination room.
func (s *Simulation) arrive(p *people.Person) {
	p.State = people.StateSatisfying
	p.Path = nil
	p.PathIndex = 0
	if room, ok := s.Ship.Room(p.RoomID); ok {
		p.X = room.CenterX()
		p.Y = room.CenterY()
	}
	switch p.Activity {
	case people.ActivityOnDuty, people.ActivityRepairing:
		p.ActivityHoursLeft = 0 // Ends with the shift / task completion
	default:
		p.ActivityHoursLeft = people.ActivityDuration(p.Activity)
	}
}

func (s *Simulation) advanceActivity(p *people.Person, hours float64, hour int) {
	switch p.Activity {
	case people.ActivityEating:
		p.Needs.Satisfy(people.NeedHunger, hours)
		s.tickActivityTimer(p, hours, p.Needs.Hunger)
	case people.ActivitySleeping:
		p.Needs.Satisfy(people.NeedFatigue, hours)
		s.tickActivityTimer(p, hours, p.Needs.Fatigue)
	case people.ActivitySocializing:
		p.Needs.Satisfy(people.NeedSocial, hours)
		s.tickActivityTimer(p, hours, p.Needs.Social)
	case people.ActivityOnDuty:
		if !p.OnShift(hour) || p.Needs.AnyCritical() {
			s.finishActivity(p)
		}
	case people.ActivityRepairing:
		s.progressRepair(p, hours)
	default:
		s.finishActivity(p)
	}
}

func (s *Simulation) tickActivityTimer(p *people.Person, hours, needLevel float64) {
	p.ActivityHoursLeft -= hours
	if p.ActivityHoursLeft <= 0 || needLevel <= people.NeedSettled {
		s.finishActivity(p)
	}
}

func (s *Simulation) finishActivity(p *people.Person) {
	s.leaveConversation(p)
	p.State = people.StateIdle
	p.Activity = people.ActivityNone
	p.TargetRoom = -1
	p.Path = nil
	p.PathIndex = 0
	p.ActivityHoursLeft = 0
}

// wander drifts an idle person to a random connected room.
func (s *Simulation) wander(p *people.Person) {
	room, ok := s.Ship.Room(p.RoomID)
	if !ok || len(room.Connections) == 0 {
		return
	}
	dest := room.Connections[s.rng.Intn(len(room.Connections))]
	path := s.Ship.Path(p.RoomID, dest)
	if path == nil {
		return
	}
	p.Activity = people.ActivityNone
	p.TargetRoom = dest
	p.Path = path
	p.PathIndex = 1
	p.State = people.StateMoving
}

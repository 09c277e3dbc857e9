// Conversations: opportunistic pairing of co-located people. Repeated
// encounters strengthen relationships, which in turn make future
// conversations more likely.
package engine

import (
	"sort"

	"github.com/talgya/shipsim/internal/people"
)

const (
	// Conversation checks run on this cadence of sim-seconds.
	socialSweepInterval = 10.0

	// Chance factors for striking up a conversation.
	socialChanceFactor = 0.1
	relationBonus      = 0.05

	// Chance per sweep that a running conversation winds down after
	// its opening minutes.
	conversationEndChance = 0.10
	conversationMinHours  = 0.05

	relationGain = 0.1
)

// Conversation is an active exchange between people in one room.
type Conversation struct {
	ID           int               `json:"id"`
	RoomID       int               `json:"room_id"`
	Participants []people.PersonID `json:"participants"`
	StartedHours float64           `json:"started_hours"`
}

type pairKey struct {
	a, b people.PersonID
}

func makePair(a, b people.PersonID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// ConversationCount returns the number of active conversations.
func (s *Simulation) ConversationCount() int { return len(s.conversations) }

func (s *Simulation) updateConversations(hours float64) {
	s.socialAcc += hours * 3600
	if s.socialAcc < socialSweepInterval {
		return
	}
	s.socialAcc = 0

	s.endStaleConversations()
	s.formConversations()
}

// endStaleConversations dissolves conversations whose participants
// wandered off or ran out of things to say.
func (s *Simulation) endStaleConversations() {
	kept := s.conversations[:0]
	for _, c := range s.conversations {
		if s.conversationOver(c) {
			s.dissolve(c)
			continue
		}
		kept = append(kept, c)
	}
	s.conversations = kept
}

func (s *Simulation) conversationOver(c *Conversation) bool {
	for _, id := range c.Participants {
		p := s.People[id]
		if p.RoomID != c.RoomID || p.Needs.Social <= 0.01 {
			return true
		}
	}
	if s.clock.SimHours()-c.StartedHours > conversationMinHours {
		return s.rng.Float64() < conversationEndChance
	}
	return false
}

func (s *Simulation) dissolve(c *Conversation) {
	// Parting on good terms strengthens the bond.
	for i := 0; i < len(c.Participants); i++ {
		for j := i + 1; j < len(c.Participants); j++ {
			key := makePair(c.Participants[i], c.Participants[j])
			rel := s.relations[key] + relationGain
			if rel > 1 {
				rel = 1
			}
			s.relations[key] = rel
		}
	}
	for _, id := range c.Participants {
		p := s.People[id]
		if p.Activity == people.ActivitySocializing && p.State == people.StateSatisfying {
			p.State = people.StateIdle
			p.Activity = people.ActivityNone
			p.TargetRoom = -1
		}
	}
}

// formConversations pairs up idle co-located people. The chance scales
// with how much each party wants company.
func (s *Simulation) formConversations() {
	byRoom := make(map[int][]*people.Person)
	for _, p := range s.People {
		if p.State != people.StateIdle || s.inConversation(p.ID) {
			continue
		}
		if p.Needs.Social <= people.NeedSettled {
			continue
		}
		byRoom[p.RoomID] = append(byRoom[p.RoomID], p)
	}

	// Sweep rooms in id order so rng draws land in the same sequence
	// every run with the same seed.
	roomIDs := make([]int, 0, len(byRoom))
	for roomID := range byRoom {
		roomIDs = append(roomIDs, roomID)
	}
	sort.Ints(roomIDs)

	for _, roomID := range roomIDs {
		group := byRoom[roomID]
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if s.inConversation(a.ID) || s.inConversation(b.ID) {
					continue
				}
				chance := (a.Needs.Social+b.Needs.Social)/2*socialChanceFactor +
					s.relations[makePair(a.ID, b.ID)]*relationBonus
				if s.rng.Float64() >= chance {
					continue
				}
				s.startConversation(roomID, a, b)
			}
		}
	}
}

func (s *Simulation) startConversation(roomID int, a, b *people.Person) {
	c := &Conversation{
		ID:           s.nextConvID,
		RoomID:       roomID,
		Participants: []people.PersonID{a.ID, b.ID},
		StartedHours: s.clock.SimHours(),
	}
	s.nextConvID++
	s.conversations = append(s.conversations, c)

	for _, p := range []*people.Person{a, b} {
		p.State = people.StateSatisfying
		p.Activity = people.ActivitySocializing
		p.ActivityHoursLeft = people.ActivityDuration(people.ActivitySocializing)
	}
	s.recordEvent("social", "%s and %s strike up a conversation in %s",
		a.Name, b.Name, s.Ship.Rooms[roomID].Name)
}

func (s *Simulation) inConversation(id people.PersonID) bool {
	for _, c := range s.conversations {
		for _, pid := range c.Participants {
			if pid == id {
				return true
			}
		}
	}
	return false
}

// leaveConversation removes a person from any conversation they are
// in, dissolving it if fewer than two participants remain.
func (s *Simulation) leaveConversation(p *people.Person) {
	for ci, c := range s.conversations {
		for pi, pid := range c.Participants {
			if pid != p.ID {
				continue
			}
			c.Participants = append(c.Participants[:pi], c.Participants[pi+1:]...)
			if len(c.Participants) < 2 {
				s.dissolve(c)
				s.conversations = append(s.conversations[:ci], s.conversations[ci+1:]...)
			}
			return
		}
	}
}

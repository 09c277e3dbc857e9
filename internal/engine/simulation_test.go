package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/shipsim/internal/people"
	"github.com/talgya/shipsim/internal/ship"
)

func newTestSim(t *testing.T, crew, passengers int) *Simulation {
	t.Helper()
	sim := NewSimulation()
	cfg := ship.SmallTestConfig()
	require.NoError(t, sim.Generate(cfg, crew, passengers))
	return sim
}

func TestGenerateSmallWorld(t *testing.T) {
	sim := newTestSim(t, 3, 10)

	assert.Equal(t, 10, sim.RoomCount(), "two decks of five rooms")
	assert.Equal(t, 2, sim.DeckCount())
	assert.Equal(t, 13, sim.PersonCount())
	assert.True(t, sim.Generated())
	assert.Zero(t, sim.SimTime())

	stats, err := sim.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.CrewCount)
	assert.Equal(t, 10, stats.PassengerCount)
	assert.Equal(t, 10, stats.RoomCount)
	assert.Equal(t, 2, stats.DeckCount)
}

func TestUpdateBeforeGenerate(t *testing.T) {
	sim := NewSimulation()
	assert.ErrorIs(t, sim.Update(1), ErrNotGenerated)

	_, err := sim.Stats()
	assert.ErrorIs(t, err, ErrNotGenerated)
}

func TestGenerateRejectsNegativePopulation(t *testing.T) {
	sim := NewSimulation()
	cfg := ship.SmallTestConfig()
	assert.ErrorIs(t, sim.Generate(cfg, -1, 5), ErrInvalidCount)
	assert.ErrorIs(t, sim.Generate(cfg, 5, -1), ErrInvalidCount)
	assert.False(t, sim.Generated())
}

func TestGeneratePropagatesShipError(t *testing.T) {
	sim := NewSimulation()
	err := sim.Generate(ship.GenConfig{NumDecks: -1}, 0, 0)
	assert.ErrorIs(t, err, ship.ErrInvalidConfig)
}

func TestTimeScaleSurvivesRegeneration(t *testing.T) {
	sim := NewSimulation()
	sim.SetTimeScale(120)
	require.NoError(t, sim.Generate(ship.SmallTestConfig(), 2, 2))
	assert.Equal(t, 120.0, sim.TimeScale())

	// A second generation resets sim-time but not the multiplier.
	require.NoError(t, sim.Update(30))
	assert.Positive(t, sim.SimTime())
	require.NoError(t, sim.Generate(ship.SmallTestConfig(), 2, 2))
	assert.Zero(t, sim.SimTime())
	assert.Equal(t, 120.0, sim.TimeScale())
}

func TestSetTimeScaleClamps(t *testing.T) {
	sim := NewSimulation()
	sim.SetTimeScale(0)
	assert.Equal(t, MinTimeScale, sim.TimeScale())
	sim.SetTimeScale(-5)
	assert.Equal(t, MinTimeScale, sim.TimeScale())
}

func TestUpdateAdvancesNeedsAndClock(t *testing.T) {
	sim := newTestSim(t, 2, 4)
	sim.SetTimeScale(3600) // 1 real second = 1 sim-hour

	before := make([]people.Needs, len(sim.People))
	for i, p := range sim.People {
		before[i] = p.Needs
	}

	require.NoError(t, sim.Update(1))
	assert.InDelta(t, 1.0, sim.SimTime(), 1e-9)

	for i, p := range sim.People {
		// Hunger only falls for someone already eating, which nobody is
		// at spawn.
		assert.GreaterOrEqual(t, p.Needs.Hunger, before[i].Hunger)
	}
}

func TestUpdateTimeIncrement(t *testing.T) {
	sim := newTestSim(t, 1, 1)
	sim.SetTimeScale(2.0)

	before := sim.SimTime()
	require.NoError(t, sim.Update(1.0))
	assert.InDelta(t, before+2.0/3600, sim.SimTime(), 1e-12)
}

func TestUpdateZeroDeltaIsNoop(t *testing.T) {
	sim := newTestSim(t, 2, 2)
	require.NoError(t, sim.Update(0))
	require.NoError(t, sim.Update(-3))
	assert.Zero(t, sim.SimTime())
}

func TestNeedsStayBoundedOverLongRun(t *testing.T) {
	sim := newTestSim(t, 6, 12)
	sim.SetTimeScale(1800)

	for i := 0; i < 500; i++ {
		require.NoError(t, sim.Update(1)) // 0.5 sim-hours per pass
	}

	for _, p := range sim.People {
		for _, v := range []float64{p.Needs.Hunger, p.Needs.Fatigue, p.Needs.Social} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
		room, ok := sim.Ship.Room(p.RoomID)
		require.True(t, ok, "person %s lost their room", p.Name)
		assert.Equal(t, room.Deck, p.DeckLevel)
	}
}

// simDigest flattens the per-person state into comparable strings.
func simDigest(sim *Simulation) []string {
	out := make([]string, 0, len(sim.People)+1)
	out = append(out, fmt.Sprintf("t=%.9f conv=%d tasks=%d",
		sim.SimTime(), sim.ConversationCount(), len(sim.Tasks())))
	for _, p := range sim.People {
		out = append(out, fmt.Sprintf("%d %s room=%d state=%d act=%d h=%.9f f=%.9f s=%.9f x=%.4f y=%.4f",
			p.ID, p.Name, p.RoomID, p.State, p.Activity,
			p.Needs.Hunger, p.Needs.Fatigue, p.Needs.Social, p.X, p.Y))
	}
	return out
}

func TestUpdateDeterministicAcrossRuns(t *testing.T) {
	run := func() []string {
		sim := NewSimulation()
		cfg := ship.SmallTestConfig()
		cfg.Seed = 11
		require.NoError(t, sim.Generate(cfg, 6, 12))
		sim.SetTimeScale(1800)
		for i := 0; i < 400; i++ {
			require.NoError(t, sim.Update(1))
		}
		return simDigest(sim)
	}

	first := run()
	second := run()
	require.Equal(t, first, second, "same seed must replay identically")
}

func TestHungryPersonSeeksFoodAndEats(t *testing.T) {
	sim := newTestSim(t, 0, 1)
	sim.SetTimeScale(36) // 1 real second = 0.01 sim-hours

	p := sim.People[0]
	p.Needs = people.Needs{Hunger: 0.9}
	p.State = people.StateIdle
	p.Activity = people.ActivityNone

	// Walk them to a dining room.
	eating := false
	for i := 0; i < 2000; i++ {
		require.NoError(t, sim.Update(1))
		if p.State == people.StateSatisfying && p.Activity == people.ActivityEating {
			eating = true
			break
		}
	}
	require.True(t, eating, "never reached a dining room")

	room, ok := sim.Ship.Room(p.RoomID)
	require.True(t, ok)
	assert.True(t, ship.IsDining(room.Type))

	// While eating, hunger falls monotonically.
	samples := 0
	for i := 0; i < 200 && p.Activity == people.ActivityEating; i++ {
		before := p.Needs.Hunger
		require.NoError(t, sim.Update(1))
		if p.Activity != people.ActivityEating {
			break
		}
		assert.Less(t, p.Needs.Hunger, before)
		samples++
	}
	assert.Greater(t, samples, 5, "expected to observe the meal in progress")
}

func TestPersonSnapshotBounds(t *testing.T) {
	sim := newTestSim(t, 2, 3)

	snap, ok := sim.PersonAt(0)
	require.True(t, ok)
	assert.Equal(t, 0, snap.ID)
	assert.Equal(t, "crew", snap.Role)
	assert.NotEmpty(t, snap.Department)
	assert.NotEmpty(t, snap.Shift)

	snap, ok = sim.PersonAt(sim.PersonCount() - 1)
	require.True(t, ok)
	assert.Equal(t, "passenger", snap.Role)
	assert.NotEmpty(t, snap.Cabin)

	_, ok = sim.PersonAt(sim.PersonCount())
	assert.False(t, ok, "index one past the end is out of range")
	_, ok = sim.PersonAt(-1)
	assert.False(t, ok)
}

func TestRoomSnapshotBounds(t *testing.T) {
	sim := newTestSim(t, 1, 1)

	snap, ok := sim.RoomAt(0)
	require.True(t, ok)
	assert.Equal(t, 0, snap.ID)
	assert.NotEmpty(t, snap.Name)
	assert.NotEmpty(t, snap.Type)

	_, ok = sim.RoomAt(sim.RoomCount())
	assert.False(t, ok)
	_, ok = sim.RoomAt(-1)
	assert.False(t, ok)
}

func TestRoomSnapshotCountsOccupants(t *testing.T) {
	sim := newTestSim(t, 0, 4)
	for _, p := range sim.People {
		p.RoomID = 0
	}
	snap, ok := sim.RoomAt(0)
	require.True(t, ok)
	assert.Equal(t, 4, snap.Occupants)
}

func TestAccessorsIdempotent(t *testing.T) {
	sim := newTestSim(t, 2, 2)
	require.NoError(t, sim.Update(10))

	a, _ := sim.PersonAt(0)
	b, _ := sim.PersonAt(0)
	assert.Equal(t, a, b, "reads must not mutate state")

	s1, _ := sim.Stats()
	s2, _ := sim.Stats()
	assert.Equal(t, s1, s2)
}

func TestEventRingBounded(t *testing.T) {
	sim := newTestSim(t, 0, 0)
	for i := 0; i < eventLimit+500; i++ {
		sim.recordEvent("test", "event %d", i)
	}
	assert.Len(t, sim.Events, eventLimit)
	assert.Contains(t, sim.Events[len(sim.Events)-1].Description, "1499")
}

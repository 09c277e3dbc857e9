package people

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/shipsim/internal/ship"
)

func testShip(t *testing.T) *ship.Ship {
	t.Helper()
	cfg := ship.DefaultGenConfig()
	cfg.Seed = 42
	s, err := ship.Generate(cfg)
	require.NoError(t, err)
	return s
}

func TestSpawnCrewRoster(t *testing.T) {
	sh := testShip(t)
	sp := NewSpawner(42)
	crew := sp.SpawnCrew(24, sh)
	require.Len(t, crew, 24)

	for i, p := range crew {
		assert.Equal(t, PersonID(i), p.ID)
		assert.Equal(t, RoleCrew, p.Role)
		assert.Equal(t, Shift(i%3), p.Shift, "watches rotate evenly")
		assert.NotEmpty(t, p.Name)
		assert.Equal(t, -1, p.TargetRoom)

		station, ok := sh.Room(p.DutyStation)
		require.True(t, ok, "crew %d has no duty station", i)
		assert.NotEqual(t, ship.RoomCorridor, station.Type)

		room, ok := sh.Room(p.RoomID)
		require.True(t, ok)
		assert.Equal(t, room.Deck, p.DeckLevel)
		assert.True(t, room.Contains(p.X, p.Y))
	}
}

func TestSpawnPassengersManifest(t *testing.T) {
	sh := testShip(t)
	sp := NewSpawner(42)
	passengers := sp.SpawnPassengers(60, sh)
	require.Len(t, passengers, 60)

	for i, p := range passengers {
		assert.Equal(t, PersonID(i), p.ID)
		assert.Equal(t, RolePassenger, p.Role)
		room, ok := sh.Room(p.RoomID)
		require.True(t, ok)
		assert.NotEqual(t, ship.RoomCorridor, room.Type,
			"passengers start in cabins or common spaces")
	}
}

func TestSpawnIDsStayDenseAcrossRoles(t *testing.T) {
	sh := testShip(t)
	sp := NewSpawner(7)
	crew := sp.SpawnCrew(5, sh)
	passengers := sp.SpawnPassengers(5, sh)

	all := append(crew, passengers...)
	for i, p := range all {
		assert.Equal(t, PersonID(i), p.ID)
	}
}

func TestBaselineNeedsModerate(t *testing.T) {
	sh := testShip(t)
	sp := NewSpawner(99)
	for _, p := range sp.SpawnCrew(50, sh) {
		for _, v := range []float64{p.Needs.Hunger, p.Needs.Fatigue, p.Needs.Social} {
			assert.GreaterOrEqual(t, v, 0.15)
			assert.Less(t, v, 0.45)
		}
		assert.False(t, p.Needs.AnyCritical())
	}
}

func TestSpawnDeterministic(t *testing.T) {
	sh := testShip(t)
	a := NewSpawner(1).SpawnCrew(10, sh)
	b := NewSpawner(1).SpawnCrew(10, sh)
	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.Equal(t, a[i].Department, b[i].Department)
		assert.Equal(t, a[i].DutyStation, b[i].DutyStation)
		assert.Equal(t, a[i].Needs, b[i].Needs)
	}
}

func TestSpawnZero(t *testing.T) {
	sh := testShip(t)
	sp := NewSpawner(1)
	assert.Empty(t, sp.SpawnCrew(0, sh))
	assert.Empty(t, sp.SpawnPassengers(0, sh))
}

func TestSpawnOnRoomlessShip(t *testing.T) {
	sh, err := ship.Generate(ship.GenConfig{Seed: 42})
	require.NoError(t, err)
	require.Zero(t, sh.RoomCount())

	sp := NewSpawner(42)
	everyone := sp.SpawnCrew(2, sh)
	everyone = append(everyone, sp.SpawnPassengers(2, sh)...)

	for _, p := range everyone {
		assert.Equal(t, -1, p.RoomID, "%s must not reference a phantom room", p.Name)
		assert.Equal(t, -1, p.TargetRoom)
		_, ok := sh.Room(p.RoomID)
		assert.False(t, ok)
	}
	for _, p := range everyone[:2] {
		assert.Equal(t, -1, p.DutyStation)
	}
}

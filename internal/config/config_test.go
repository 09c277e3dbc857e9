package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 4, cfg.NumDecks)
	assert.Equal(t, 12, cfg.RoomsPerDeck)
	assert.Equal(t, 24, cfg.Crew)
	assert.Equal(t, 60, cfg.Passengers)
	assert.Equal(t, 60.0, cfg.TimeScale)
	assert.Equal(t, "data/shipsim.db", cfg.DBPath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SHIPSIM_PORT", "9090")
	t.Setenv("SHIPSIM_SEED", "12345")
	t.Setenv("SHIPSIM_DECKS", "6")
	t.Setenv("SHIPSIM_TIME_SCALE", "3600")
	t.Setenv("SHIPSIM_SHIP_NAME", "ISV Wanderer")

	cfg := Load()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, int64(12345), cfg.Seed)
	assert.Equal(t, 6, cfg.NumDecks)
	assert.Equal(t, 3600.0, cfg.TimeScale)
	assert.Equal(t, "ISV Wanderer", cfg.ShipName)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("SHIPSIM_PORT", "not-a-number")
	t.Setenv("SHIPSIM_TIME_SCALE", "fast")
	t.Setenv("SHIPSIM_SEED", "3.14")

	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 60.0, cfg.TimeScale)
	assert.Equal(t, int64(0), cfg.Seed)
}

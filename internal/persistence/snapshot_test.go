package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/shipsim/internal/engine"
)

func TestSnapshotExportImport(t *testing.T) {
	sim := generatedSim(t)
	sim.SetTimeScale(60)
	require.NoError(t, sim.Update(120)) // 2 sim-hours

	path := filepath.Join(t.TempDir(), "world.ssb")
	require.NoError(t, ExportSnapshot(sim, path))

	snap, err := ImportSnapshot(path)
	require.NoError(t, err)

	assert.Equal(t, sim.Ship.Name, snap.ShipName)
	assert.Equal(t, sim.Ship.Seed, snap.Seed)
	assert.InDelta(t, sim.SimTime(), snap.SimHours, 1e-9)
	assert.Equal(t, 60.0, snap.TimeScale)
	assert.Len(t, snap.Rooms, sim.RoomCount())
	assert.Len(t, snap.People, sim.PersonCount())

	for i, r := range snap.Rooms {
		want, _ := sim.RoomAt(i)
		assert.Equal(t, want, r)
	}
}

func TestSnapshotRequiresGeneration(t *testing.T) {
	sim := engine.NewSimulation()
	err := ExportSnapshot(sim, filepath.Join(t.TempDir(), "x.ssb"))
	assert.ErrorIs(t, err, engine.ErrNotGenerated)
}

func TestSnapshotRejectsCorruption(t *testing.T) {
	sim := generatedSim(t)
	path := filepath.Join(t.TempDir(), "world.ssb")
	require.NoError(t, ExportSnapshot(sim, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Flip a payload byte; the checksum must catch it.
	tampered := append([]byte(nil), data...)
	tampered[len(tampered)-1] ^= 0xff
	_, err = DecodeSnapshot(tampered)
	assert.ErrorContains(t, err, "checksum")

	// Wrong magic.
	tampered = append([]byte(nil), data...)
	tampered[0] = 'X'
	_, err = DecodeSnapshot(tampered)
	assert.ErrorContains(t, err, "not a snapshot")

	// Truncated header.
	_, err = DecodeSnapshot(data[:10])
	assert.ErrorContains(t, err, "truncated")

	// Truncated payload.
	_, err = DecodeSnapshot(data[:len(data)-5])
	assert.ErrorContains(t, err, "length mismatch")
}

func TestSnapshotRejectsUnknownVersion(t *testing.T) {
	sim := generatedSim(t)
	path := filepath.Join(t.TempDir(), "world.ssb")
	require.NoError(t, ExportSnapshot(sim, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[4] = 0xff
	_, err = DecodeSnapshot(data)
	assert.ErrorContains(t, err, "version")
}

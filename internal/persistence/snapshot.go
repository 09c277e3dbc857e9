// Compressed snapshot export. Snapshots are JSON, lz4-compressed, with
// a blake3 checksum in the header so a truncated or tampered file
// fails loudly instead of decoding garbage.
package persistence

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"

	"github.com/talgya/shipsim/internal/engine"
)

// Snapshot file layout: magic, format version, blake3 sum of the
// compressed payload, payload length, lz4 frame.
var snapshotMagic = [4]byte{'S', 'S', 'I', 'M'}

const snapshotVersion uint16 = 1

// WorldSnapshot is the observable world state captured in one export.
type WorldSnapshot struct {
	ShipName  string                  `json:"ship_name"`
	Seed      int64                   `json:"seed"`
	SimHours  float64                 `json:"sim_hours"`
	TimeScale float64                 `json:"time_scale"`
	Length    float64                 `json:"length"`
	Width     float64                 `json:"width"`
	Rooms     []engine.RoomSnapshot   `json:"rooms"`
	People    []engine.PersonSnapshot `json:"people"`
	Tasks     []engine.Task           `json:"tasks"`
	Events    []engine.Event          `json:"events"`
}

// CaptureSnapshot copies the simulation's observable state.
func CaptureSnapshot(sim *engine.Simulation) (*WorldSnapshot, error) {
	if !sim.Generated() {
		return nil, engine.ErrNotGenerated
	}

	length, width := sim.ShipDimensions()
	snap := &WorldSnapshot{
		ShipName:  sim.Ship.Name,
		Seed:      sim.Ship.Seed,
		SimHours:  sim.SimTime(),
		TimeScale: sim.TimeScale(),
		Length:    length,
		Width:     width,
		Events:    append([]engine.Event(nil), sim.Events...),
	}
	for i := 0; i < sim.RoomCount(); i++ {
		r, _ := sim.RoomAt(i)
		snap.Rooms = append(snap.Rooms, r)
	}
	for i := 0; i < sim.PersonCount(); i++ {
		p, _ := sim.PersonAt(i)
		snap.People = append(snap.People, p)
	}
	for _, t := range sim.Tasks() {
		snap.Tasks = append(snap.Tasks, *t)
	}
	return snap, nil
}

// ExportSnapshot writes a compressed, checksummed snapshot to path.
func ExportSnapshot(sim *engine.Simulation, path string) error {
	snap, err := CaptureSnapshot(sim)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	var compressed bytes.Buffer
	zw := lz4.NewWriter(&compressed)
	if _, err := zw.Write(raw); err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}

	sum := blake3.Sum256(compressed.Bytes())

	var out bytes.Buffer
	out.Write(snapshotMagic[:])
	binary.Write(&out, binary.LittleEndian, snapshotVersion)
	out.Write(sum[:])
	binary.Write(&out, binary.LittleEndian, uint64(compressed.Len()))
	out.Write(compressed.Bytes())

	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	slog.Info("snapshot exported",
		"path", path,
		"raw", humanize.Bytes(uint64(len(raw))),
		"compressed", humanize.Bytes(uint64(compressed.Len())),
	)
	return nil
}

// ImportSnapshot reads and verifies a snapshot file.
func ImportSnapshot(path string) (*WorldSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeSnapshot(data)
}

// DecodeSnapshot verifies the checksum and decodes snapshot bytes.
func DecodeSnapshot(data []byte) (*WorldSnapshot, error) {
	header := 4 + 2 + 32 + 8
	if len(data) < header {
		return nil, fmt.Errorf("snapshot truncated: %d bytes", len(data))
	}
	if !bytes.Equal(data[:4], snapshotMagic[:]) {
		return nil, fmt.Errorf("not a snapshot file")
	}
	version := binary.LittleEndian.Uint16(data[4:6])
	if version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", version)
	}

	var sum [32]byte
	copy(sum[:], data[6:38])
	payloadLen := binary.LittleEndian.Uint64(data[38:46])
	payload := data[header:]
	if uint64(len(payload)) != payloadLen {
		return nil, fmt.Errorf("snapshot payload length mismatch: have %d want %d",
			len(payload), payloadLen)
	}
	if blake3.Sum256(payload) != sum {
		return nil, fmt.Errorf("snapshot checksum mismatch")
	}

	zr := lz4.NewReader(bytes.NewReader(payload))
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	var snap WorldSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Package persistence provides SQLite-backed world state storage and
// compressed snapshot export.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/shipsim/internal/engine"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB

	// High-water mark so repeated saves of the in-memory event ring
	// don't duplicate rows.
	lastEventHours float64
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rooms (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		deck INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		w REAL NOT NULL,
		h REAL NOT NULL,
		wear REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS people (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		department TEXT,
		shift TEXT,
		cabin TEXT,
		room_id INTEGER NOT NULL,
		deck_level INTEGER NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		state TEXT NOT NULL,
		needs_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY,
		room_id INTEGER NOT NULL,
		priority REAL NOT NULL,
		state INTEGER NOT NULL,
		progress REAL NOT NULL,
		created REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sim_hours REAL NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sim_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_hours ON events(sim_hours);
	CREATE INDEX IF NOT EXISTS idx_people_room ON people(room_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveWorldState performs a full save of all observable world state.
func (db *DB) SaveWorldState(sim *engine.Simulation) error {
	if !sim.Generated() {
		return engine.ErrNotGenerated
	}

	if err := db.saveRooms(sim); err != nil {
		return fmt.Errorf("save rooms: %w", err)
	}
	if err := db.savePeople(sim); err != nil {
		return fmt.Errorf("save people: %w", err)
	}
	if err := db.saveTasks(sim); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	if err := db.SaveEvents(sim.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("sim_hours", fmt.Sprintf("%f", sim.SimTime())); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	slog.Debug("world state saved",
		"people", sim.PersonCount(),
		"rooms", sim.RoomCount(),
		"sim_time", engine.FormatSimTime(sim.SimTime()),
	)
	return nil
}

func (db *DB) saveRooms(sim *engine.Simulation) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM rooms"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO rooms
		(id, name, type, deck, x, y, w, h, wear)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < sim.RoomCount(); i++ {
		r, _ := sim.RoomAt(i)
		if _, err := stmt.Exec(r.ID, r.Name, r.Type, r.Deck, r.X, r.Y, r.W, r.H, r.Wear); err != nil {
			return fmt.Errorf("insert room %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func (db *DB) savePeople(sim *engine.Simulation) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM people"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO people
		(id, name, role, department, shift, cabin, room_id, deck_level, x, y, state, needs_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < sim.PersonCount(); i++ {
		p, _ := sim.PersonAt(i)
		needsJSON, _ := json.Marshal(map[string]float64{
			"hunger":  p.Hunger,
			"fatigue": p.Fatigue,
			"social":  p.Social,
		})
		_, err := stmt.Exec(
			p.ID, p.Name, p.Role, p.Department, p.Shift, p.Cabin,
			p.RoomID, p.DeckLevel, p.X, p.Y, p.State, string(needsJSON),
		)
		if err != nil {
			return fmt.Errorf("insert person %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (db *DB) saveTasks(sim *engine.Simulation) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tasks"); err != nil {
		return err
	}

	for _, t := range sim.Tasks() {
		_, err := tx.Exec(`INSERT INTO tasks
			(id, room_id, priority, state, progress, created)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, t.RoomID, t.Priority, t.State, t.Progress, t.Created,
		)
		if err != nil {
			return fmt.Errorf("insert task %d: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	mark := db.lastEventHours
	for _, e := range events {
		if e.SimHours <= db.lastEventHours {
			continue
		}
		_, err := tx.Exec(
			"INSERT INTO events (sim_hours, description, category) VALUES (?, ?, ?)",
			e.SimHours, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
		if e.SimHours > mark {
			mark = e.SimHours
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	db.lastEventHours = mark
	return nil
}

// SaveMeta stores a key-value pair in simulation metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO sim_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM sim_meta WHERE key = ?", key)
	return value, err
}

// RecentEvents returns the most recent N events, newest first. An
// empty category matches all events.
func (db *DB) RecentEvents(limit int, category string) ([]engine.Event, error) {
	query := "SELECT sim_hours, description, category FROM events"
	args := []any{}
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	var events []engine.Event
	err := db.conn.Select(&events, query, args...)
	return events, err
}

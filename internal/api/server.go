// Package api provides the HTTP observation API. GET endpoints are
// public read-only views of the world; POST endpoints require a bearer
// token. All simulation access goes through the runner's lock.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/talgya/shipsim/internal/engine"
	"github.com/talgya/shipsim/internal/persistence"
)

// Server serves world state over HTTP.
type Server struct {
	Runner       *engine.Runner
	DB           *persistence.DB
	Port         int
	AdminKey     string // Bearer token for POST endpoints. Empty = POST disabled.
	RunID        uuid.UUID
	SnapshotPath string
	CORSOrigins  string // Comma-separated extra allowed origins
	RateLimit    float64
	RateBurst    int
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/people", s.handlePeople)
	mux.HandleFunc("/api/v1/person/", s.handlePersonDetail)
	mux.HandleFunc("/api/v1/rooms", s.handleRooms)
	mux.HandleFunc("/api/v1/room/", s.handleRoomDetail)
	mux.HandleFunc("/api/v1/decks", s.handleDecks)
	mux.HandleFunc("/api/v1/events", s.handleEvents)

	mux.HandleFunc("/api/v1/timescale", s.adminOnly(s.handleTimeScale))
	mux.HandleFunc("/api/v1/snapshot", s.adminOnly(s.handleSnapshot))

	limiter := newIPLimiter(s.RateLimit, s.RateBurst)
	handler := s.corsHandler().Handler(limiter.middleware(mux))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) corsHandler() *cors.Cors {
	// Local dev origins are always allowed.
	origins := []string{
		"http://localhost:5173",
		"http://localhost:3000",
	}
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
}

// adminOnly wraps a handler to require bearer token auth on POST
// requests. GET requests pass through.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no SHIPSIM_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.AdminKey {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var status map[string]any
	s.Runner.Do(func(sim *engine.Simulation) {
		length, width := sim.ShipDimensions()
		shipName := ""
		if sim.Ship != nil {
			shipName = sim.Ship.Name
		}
		status = map[string]any{
			"run_id":      s.RunID.String(),
			"ship":        shipName,
			"generated":   sim.Generated(),
			"sim_time":    engine.FormatSimTime(sim.SimTime()),
			"sim_hours":   sim.SimTime(),
			"hour_of_day": sim.HourOfDay(),
			"time_scale":  sim.TimeScale(),
			"decks":       sim.DeckCount(),
			"rooms":       sim.RoomCount(),
			"people":      sim.PersonCount(),
			"length":      length,
			"width":       width,
		}
	})
	writeJSON(w, status)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var stats engine.SimStats
	var err error
	s.Runner.Do(func(sim *engine.Simulation) {
		stats, err = sim.Stats()
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handlePeople(w http.ResponseWriter, r *http.Request) {
	roleFilter := r.URL.Query().Get("role")

	result := []engine.PersonSnapshot{}
	s.Runner.Do(func(sim *engine.Simulation) {
		for i := 0; i < sim.PersonCount(); i++ {
			snap, _ := sim.PersonAt(i)
			if roleFilter != "" && snap.Role != roleFilter {
				continue
			}
			result = append(result, snap)
		}
	})
	writeJSON(w, result)
}

func (s *Server) handlePersonDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/v1/person/")
	if !ok {
		return
	}

	var snap engine.PersonSnapshot
	var found bool
	s.Runner.Do(func(sim *engine.Simulation) {
		snap, found = sim.PersonAt(id)
	})
	if !found {
		http.Error(w, "person not found", http.StatusNotFound)
		return
	}
	writeJSON(w, snap)
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	deckFilter := -1
	if d := r.URL.Query().Get("deck"); d != "" {
		if n, err := strconv.Atoi(d); err == nil {
			deckFilter = n
		}
	}

	result := []engine.RoomSnapshot{}
	s.Runner.Do(func(sim *engine.Simulation) {
		for i := 0; i < sim.RoomCount(); i++ {
			snap, _ := sim.RoomAt(i)
			if deckFilter >= 0 && snap.Deck != deckFilter {
				continue
			}
			result = append(result, snap)
		}
	})
	writeJSON(w, result)
}

func (s *Server) handleRoomDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/v1/room/")
	if !ok {
		return
	}

	var snap engine.RoomSnapshot
	var found bool
	s.Runner.Do(func(sim *engine.Simulation) {
		snap, found = sim.RoomAt(id)
	})
	if !found {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	writeJSON(w, snap)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	type deckSummary struct {
		Level int    `json:"level"`
		Name  string `json:"name"`
		Rooms int    `json:"rooms"`
	}

	result := []deckSummary{}
	s.Runner.Do(func(sim *engine.Simulation) {
		if sim.Ship == nil {
			return
		}
		for _, d := range sim.Ship.Decks {
			result = append(result, deckSummary{
				Level: d.Level,
				Name:  d.Name,
				Rooms: len(d.RoomIDs),
			})
		}
	})
	writeJSON(w, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	category := r.URL.Query().Get("category")

	// The live ring keeps the newest entries only. ?history=1 reads
	// the persisted log instead, reaching past the ring.
	if r.URL.Query().Get("history") != "" && s.DB != nil {
		rows, err := s.DB.RecentEvents(limit, category)
		if err != nil {
			slog.Error("event history query failed", "error", err)
			http.Error(w, "event history unavailable", http.StatusInternalServerError)
			return
		}
		// Oldest first, matching the live view.
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
		if rows == nil {
			rows = []engine.Event{}
		}
		writeJSON(w, rows)
		return
	}

	events := []engine.Event{}
	s.Runner.Do(func(sim *engine.Simulation) {
		for _, e := range sim.Events {
			if category != "" && e.Category != category {
				continue
			}
			events = append(events, e)
		}
	})
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	writeJSON(w, events)
}

func (s *Server) handleTimeScale(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		var req struct {
			TimeScale float64 `json:"time_scale"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		s.Runner.Do(func(sim *engine.Simulation) {
			sim.SetTimeScale(req.TimeScale)
		})
		slog.Info("time scale changed", "requested", req.TimeScale)
	}

	var scale float64
	s.Runner.Do(func(sim *engine.Simulation) {
		scale = sim.TimeScale()
	})
	writeJSON(w, map[string]float64{"time_scale": scale})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var err error
	s.Runner.Do(func(sim *engine.Simulation) {
		err = persistence.ExportSnapshot(sim, s.SnapshotPath)
	})
	if err != nil {
		slog.Error("snapshot export failed", "error", err)
		http.Error(w, "snapshot export failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"path": s.SnapshotPath})
}

func pathID(w http.ResponseWriter, r *http.Request, prefix string) (int, bool) {
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

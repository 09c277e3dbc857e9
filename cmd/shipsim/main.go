// Command shipsim runs the ship life simulation with its HTTP API.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/shipsim/internal/api"
	"github.com/talgya/shipsim/internal/config"
	"github.com/talgya/shipsim/internal/engine"
	"github.com/talgya/shipsim/internal/persistence"
	"github.com/talgya/shipsim/internal/ship"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	runID := uuid.New()

	slog.Info("shipsim starting", "run_id", runID)

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll(filepath.Dir(cfg.DBPath), 0755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Ship Generation ───────────────────────────────────────────────
	genCfg := ship.GenConfig{
		Name:         cfg.ShipName,
		NumDecks:     cfg.NumDecks,
		RoomsPerDeck: cfg.RoomsPerDeck,
		HullLength:   cfg.HullLength,
		HullWidth:    cfg.HullWidth,
		Seed:         cfg.Seed,
	}

	sim := engine.NewSimulation()
	sim.SetTimeScale(cfg.TimeScale)
	if err := sim.Generate(genCfg, cfg.Crew, cfg.Passengers); err != nil {
		slog.Error("ship generation failed", "error", err)
		os.Exit(1)
	}

	if err := db.SaveMeta("run_id", runID.String()); err != nil {
		slog.Error("failed to record run id", "error", err)
	}
	if err := db.SaveWorldState(sim); err != nil {
		slog.Error("initial save failed", "error", err)
	}

	// ── Runner ────────────────────────────────────────────────────────
	runner := engine.NewRunner(sim)

	var lastSave time.Time
	runner.OnPass = func(s *engine.Simulation) {
		// Periodic save. Caller already holds the runner lock.
		if time.Since(lastSave) < 30*time.Second {
			return
		}
		lastSave = time.Now()
		if err := db.SaveWorldState(s); err != nil {
			slog.Error("periodic save failed", "error", err)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("SHIPSIM_ADMIN_KEY not set, admin POST endpoints disabled")
	}

	apiServer := &api.Server{
		Runner:       runner,
		DB:           db,
		Port:         cfg.Port,
		AdminKey:     cfg.AdminKey,
		RunID:        runID,
		SnapshotPath: cfg.SnapshotPath,
		CORSOrigins:  cfg.CORSOrigins,
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		runner.Stop()
	}()

	length, width := sim.ShipDimensions()
	fmt.Printf("\n%s is underway: %d souls across %d decks (%d rooms, %.0fm x %.0fm).\n",
		sim.Ship.Name, sim.PersonCount(), sim.DeckCount(), sim.RoomCount(), length, width)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Port)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	runner.Run()

	// Final save and snapshot export on shutdown.
	slog.Info("final save...")
	runner.Do(func(s *engine.Simulation) {
		if err := db.SaveWorldState(s); err != nil {
			slog.Error("final save failed", "error", err)
		}
		os.MkdirAll(filepath.Dir(cfg.SnapshotPath), 0755)
		if err := persistence.ExportSnapshot(s, cfg.SnapshotPath); err != nil {
			slog.Error("snapshot export failed", "error", err)
		}
	})

	fmt.Println("Simulation stopped. World state saved.")
}

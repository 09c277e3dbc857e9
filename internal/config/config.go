// Package config loads runtime configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the shipsim service needs at startup.
type Config struct {
	Port int

	// World generation.
	Seed         int64
	ShipName     string
	NumDecks     int
	RoomsPerDeck int
	HullLength   float64
	HullWidth    float64
	Crew         int
	Passengers   int

	// Clock.
	TimeScale float64

	// Persistence.
	DBPath       string
	SnapshotPath string

	// API.
	AdminKey    string
	CORSOrigins string
	RateLimit   float64 // Requests per second per client IP
	RateBurst   int
}

// Load reads configuration from the environment. A missing .env file
// is not an error; real deployments set variables directly.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	return Config{
		Port:         getEnvInt("SHIPSIM_PORT", 8080),
		Seed:         getEnvInt64("SHIPSIM_SEED", 0),
		ShipName:     getEnv("SHIPSIM_SHIP_NAME", ""),
		NumDecks:     getEnvInt("SHIPSIM_DECKS", 4),
		RoomsPerDeck: getEnvInt("SHIPSIM_ROOMS_PER_DECK", 12),
		HullLength:   getEnvFloat("SHIPSIM_HULL_LENGTH", 120),
		HullWidth:    getEnvFloat("SHIPSIM_HULL_WIDTH", 30),
		Crew:         getEnvInt("SHIPSIM_CREW", 24),
		Passengers:   getEnvInt("SHIPSIM_PASSENGERS", 60),
		TimeScale:    getEnvFloat("SHIPSIM_TIME_SCALE", 60),
		DBPath:       getEnv("SHIPSIM_DB_PATH", "data/shipsim.db"),
		SnapshotPath: getEnv("SHIPSIM_SNAPSHOT_PATH", "data/snapshot.ssb"),
		AdminKey:     getEnv("SHIPSIM_ADMIN_KEY", ""),
		CORSOrigins:  getEnv("SHIPSIM_CORS_ORIGINS", ""),
		RateLimit:    getEnvFloat("SHIPSIM_RATE_LIMIT", 10),
		RateBurst:    getEnvInt("SHIPSIM_RATE_BURST", 20),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("invalid integer in environment, using fallback", "key", key, "value", v)
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		slog.Warn("invalid integer in environment, using fallback", "key", key, "value", v)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		slog.Warn("invalid number in environment, using fallback", "key", key, "value", v)
	}
	return fallback
}

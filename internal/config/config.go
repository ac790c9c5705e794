// Package config centralizes the server's runtime settings. Values come
// from the environment, optionally seeded from a .env file; defaults are
// safe for local play.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"holdfast/server/internal/game"
)

// Config is everything cmd/server needs to boot.
type Config struct {
	Addr             string
	TickRate         int
	CatchupMaxTicks  int
	CommandCapacity  int
	PerActorLimit    int
	SnapshotInterval time.Duration
	WaveInterval     time.Duration
	IncomeInterval   time.Duration
	CORSOrigins      []string
	LogJSONPath      string

	Session game.SessionConfig
}

// Load reads the environment. A .env file is applied first when present;
// real environment variables win over it.
func Load() Config {
	godotenv.Load()

	return Config{
		Addr:             getEnvStr("HOLDFAST_ADDR", ":8080"),
		TickRate:         getEnvInt("HOLDFAST_TICK_RATE", 15),
		CatchupMaxTicks:  getEnvInt("HOLDFAST_CATCHUP_TICKS", 4),
		CommandCapacity:  getEnvInt("HOLDFAST_COMMAND_CAPACITY", 256),
		PerActorLimit:    getEnvInt("HOLDFAST_PER_ACTOR_LIMIT", 16),
		SnapshotInterval: getEnvDuration("HOLDFAST_SNAPSHOT_INTERVAL", 100*time.Millisecond),
		WaveInterval:     getEnvDuration("HOLDFAST_WAVE_INTERVAL", 30*time.Second),
		IncomeInterval:   getEnvDuration("HOLDFAST_INCOME_INTERVAL", 5*time.Second),
		CORSOrigins:      getEnvList("HOLDFAST_CORS_ORIGINS"),
		LogJSONPath:      getEnvStr("HOLDFAST_LOG_JSON", ""),
		Session: game.SessionConfig{
			PlayerCount: getEnvInt("HOLDFAST_PLAYERS", 2),
			MapSize:     getEnvInt("HOLDFAST_MAP_SIZE", 64),
			Difficulty:  game.Difficulty(getEnvStr("HOLDFAST_DIFFICULTY", string(game.DifficultyNormal))),
			Mode:        game.Mode(getEnvStr("HOLDFAST_MODE", string(game.ModeCooperative))),
			FogOfWar:    getEnvBool("HOLDFAST_FOG_OF_WAR", false),
		},
	}
}

func getEnvStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/collombj/curvy-snake/engine"
	"github.com/joho/godotenv"
)

// Server defaults, overridable from the environment
const (
	DefaultListenAddr = ":8080"
	DefaultStaticDir  = "../client"
	WebSocketPath     = "/ws"

	// Game loop
	DefaultTickRate        = 30 // ticks per second
	DefaultPlayerCount     = 4
	DefaultRoundDelayTicks = 90 // pause between two rounds

	// Spawn keeps players this far from the walls at round start
	SpawnMargin = 60

	// Spectators
	MaxSpectators = 100
	IPCooldownSec = 5

	// Bot AI
	BotLookAheadTicks   = 12
	BotWanderMinTicks   = 10
	BotWanderMaxTicks   = 40
	BotWanderStraightPc = 50 // chance in percent that a new wander goes straight

	// Snapshot
	SnapshotScale = 2
)

// Log colour tags
const (
	LogErrorColor = "\033[31m"
	LogInfoColor  = "\033[32m"
	LogColorReset = "\033[0m"
)

// PlayerColors is the palette players are painted with, in join order
var PlayerColors = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f39c12", "#9b59b6",
	"#1abc9c", "#e67e22", "#e91e63", "#00bcd4", "#8bc34a",
}

// Config holds the server settings and the parameters of every round.
type Config struct {
	ListenAddr      string // address the HTTP server binds
	StaticDir       string // directory served at "/", empty to disable
	SnapshotDir     string // where round PNGs go, empty to disable
	TickRate        int    // global ticks per second
	PlayerCount     int    // AI players per round
	RoundDelayTicks int    // ticks between the end of a round and the next one
	Round           engine.Config
}

// LoadConfig reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("%s[INFO]%s .env file not found or could not be loaded: %v", LogInfoColor, LogColorReset, err)
	}
	return configFromEnv()
}

func configFromEnv() (Config, error) {
	cfg := Config{
		ListenAddr:  getEnvWithDefault("LISTEN_ADDR", DefaultListenAddr),
		StaticDir:   getEnvWithDefault("STATIC_DIR", DefaultStaticDir),
		SnapshotDir: getEnvWithDefault("SNAPSHOT_DIR", ""),
		Round:       engine.DefaultConfig(),
	}

	var err error
	if cfg.TickRate, err = getEnvAsInt("TICK_RATE", DefaultTickRate); err != nil {
		return Config{}, err
	}
	if cfg.PlayerCount, err = getEnvAsInt("PLAYER_COUNT", DefaultPlayerCount); err != nil {
		return Config{}, err
	}
	if cfg.RoundDelayTicks, err = getEnvAsInt("ROUND_DELAY_TICKS", DefaultRoundDelayTicks); err != nil {
		return Config{}, err
	}

	width, err := getEnvAsInt("ARENA_WIDTH", engine.DefaultArenaWidth)
	if err != nil {
		return Config{}, err
	}
	height, err := getEnvAsInt("ARENA_HEIGHT", engine.DefaultArenaHeight)
	if err != nil {
		return Config{}, err
	}
	cfg.Round.Arena = engine.NewArena(width, height)

	if cfg.Round.MaxBonuses, err = getEnvAsInt("MAX_BONUSES", engine.DefaultMaxBonuses); err != nil {
		return Config{}, err
	}
	if cfg.Round.SpawnProbability, err = getEnvAsFloat("SPAWN_PROBABILITY", engine.DefaultSpawnProbability); err != nil {
		return Config{}, err
	}
	seed, err := getEnvAsInt("SEED", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.Round.Seed = int64(seed)

	return cfg, cfg.Validate()
}

// Validate checks the server settings and the round parameters
func (c Config) Validate() error {
	switch {
	case c.TickRate < 1:
		return fmt.Errorf("TICK_RATE must be positive, got %d", c.TickRate)
	case c.PlayerCount < 1 || c.PlayerCount > len(PlayerColors):
		return fmt.Errorf("PLAYER_COUNT must be within [1, %d], got %d", len(PlayerColors), c.PlayerCount)
	case c.RoundDelayTicks < 0:
		return fmt.Errorf("ROUND_DELAY_TICKS must not be negative, got %d", c.RoundDelayTicks)
	}
	return c.Round.Validate()
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer environment variable, falling back to defaultValue when unset
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return value, nil
}

// getEnvAsFloat parses a float environment variable, falling back to defaultValue when unset
func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be a number: %w", key, err)
	}
	return value, nil
}

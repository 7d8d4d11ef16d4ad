package main

import (
	"os"
	"testing"

	"github.com/collombj/curvy-snake/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"LISTEN_ADDR", "STATIC_DIR", "SNAPSHOT_DIR", "TICK_RATE", "PLAYER_COUNT", "ROUND_DELAY_TICKS",
	"ARENA_WIDTH", "ARENA_HEIGHT", "MAX_BONUSES", "SPAWN_PROBABILITY", "SEED",
}

// clearEnv unsets every variable the server reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := configFromEnv()
		require.NoError(t, err)
		assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
		assert.Equal(t, DefaultTickRate, cfg.TickRate)
		assert.Equal(t, DefaultPlayerCount, cfg.PlayerCount)
		assert.Empty(t, cfg.SnapshotDir)
		assert.Equal(t, engine.DefaultConfig(), cfg.Round)
	})

	t.Run("overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LISTEN_ADDR", ":9000")
		t.Setenv("TICK_RATE", "60")
		t.Setenv("PLAYER_COUNT", "2")
		t.Setenv("ARENA_WIDTH", "300")
		t.Setenv("ARENA_HEIGHT", "200")
		t.Setenv("SPAWN_PROBABILITY", "0.5")
		t.Setenv("MAX_BONUSES", "1")
		t.Setenv("SEED", "7")
		t.Setenv("SNAPSHOT_DIR", "/tmp/rounds")

		cfg, err := configFromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.ListenAddr)
		assert.Equal(t, 60, cfg.TickRate)
		assert.Equal(t, 2, cfg.PlayerCount)
		assert.Equal(t, engine.NewArena(300, 200), cfg.Round.Arena)
		assert.Equal(t, 0.5, cfg.Round.SpawnProbability)
		assert.Equal(t, 1, cfg.Round.MaxBonuses)
		assert.Equal(t, int64(7), cfg.Round.Seed)
		assert.Equal(t, "/tmp/rounds", cfg.SnapshotDir)
	})

	t.Run("malformed numbers", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TICK_RATE", "fast")
		_, err := configFromEnv()
		assert.ErrorContains(t, err, "TICK_RATE")

		clearEnv(t)
		t.Setenv("SPAWN_PROBABILITY", "often")
		_, err = configFromEnv()
		assert.ErrorContains(t, err, "SPAWN_PROBABILITY")
	})

	t.Run("invalid values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PLAYER_COUNT", "0")
		_, err := configFromEnv()
		assert.Error(t, err)

		clearEnv(t)
		t.Setenv("SPAWN_PROBABILITY", "2")
		_, err = configFromEnv()
		assert.ErrorIs(t, err, engine.ErrInvalidConfig)
	})
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metal-snake/game/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, types.Point{X: 10, Y: 10}, cfg.Start())
	assert.Equal(t, types.SquareGrid(20), cfg.Grid())
	assert.Equal(t, 200*time.Millisecond, cfg.InitialInterval)
	assert.Equal(t, 50*time.Millisecond, cfg.MinInterval)
	assert.Equal(t, 15, cfg.ParticleCount)
	assert.Equal(t, time.Second/60, cfg.FramePeriod())
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TileCount = 0
	cfg.MinInterval = 300 * time.Millisecond
	cfg.UI = "vga"

	err := cfg.Validate()
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.Errors, 3)
	assert.Contains(t, err.Error(), "tileCount")
	assert.Contains(t, err.Error(), "initialInterval")
	assert.Contains(t, err.Error(), `unknown ui "vga"`)
}

func TestLoadFromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "snake.env")
	content := "SNAKE_TILE_COUNT=30\nSNAKE_INITIAL_INTERVAL=150ms\nSNAKE_AUTOPILOT=true\nSNAKE_SEED=99\nSNAKE_UI=headless\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0644))
	for _, key := range []string{"SNAKE_TILE_COUNT", "SNAKE_INITIAL_INTERVAL", "SNAKE_AUTOPILOT", "SNAKE_SEED", "SNAKE_UI"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.TileCount)
	assert.Equal(t, 150*time.Millisecond, cfg.InitialInterval)
	assert.True(t, cfg.Autopilot)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, UIHeadless, cfg.UI)
	assert.Equal(t, types.Point{X: 15, Y: 15}, cfg.Start())
}

func TestLoadEnvironmentWinsOverFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "snake.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SNAKE_FRAME_RATE=30\n"), 0644))
	t.Setenv("SNAKE_FRAME_RATE", "120")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.FrameRate)
}

func TestLoadReportsBadValues(t *testing.T) {
	t.Setenv("SNAKE_TILE_COUNT", "many")
	t.Setenv("SNAKE_MIN_INTERVAL", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)

	dir := t.TempDir()
	envFile := filepath.Join(dir, "ok.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0644))
	_, err = Load(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SNAKE_TILE_COUNT")
	assert.Contains(t, err.Error(), "SNAKE_MIN_INTERVAL")
}

func TestValidateSmallestGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TileCount = 1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tileCount must be at least 2")

	cfg.TileCount = MinTileCount
	assert.NoError(t, cfg.Validate())
}

func TestLoadTuningVariables(t *testing.T) {
	t.Setenv("SNAKE_MAX_CATCH_UP_STEPS", "8")
	t.Setenv("SNAKE_PARTICLE_LIFETIME", "30")
	t.Setenv("SNAKE_PARTICLE_SPEED", "4.5")

	envFile := filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0644))
	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxCatchUpSteps)
	assert.Equal(t, 30, cfg.ParticleLifetime)
	assert.Equal(t, 4.5, cfg.ParticleSpeed)

	t.Setenv("SNAKE_PARTICLE_SPEED", "fast")
	_, err = Load(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SNAKE_PARTICLE_SPEED")
}

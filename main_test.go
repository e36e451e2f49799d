package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metal-snake/config"
)

func TestApplyFlagsOnlyOverridesChanged(t *testing.T) {
	require.NoError(t, rootCmd.ParseFlags([]string{"--ui", "terminal", "--tiles", "30", "--interval", "150ms"}))

	cfg := config.DefaultConfig()
	cfg.Autopilot = true
	applyFlags(rootCmd, &cfg)

	assert.Equal(t, config.UITerminal, cfg.UI)
	assert.Equal(t, 30, cfg.TileCount)
	assert.Equal(t, 150*time.Millisecond, cfg.InitialInterval)
	assert.True(t, cfg.Autopilot, "unset flags keep the loaded value")
	assert.Equal(t, "data/stats.json", cfg.StatsFile)
}

func TestTrain(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 42
	cfg.QTableFile = filepath.Join(t.TempDir(), "qtable.json")

	res, err := train(cfg, 20, 100000)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Episodes)
	assert.Greater(t, res.States, 0)
	assert.GreaterOrEqual(t, float64(res.BestScore), res.Average())

	_, err = os.Stat(cfg.QTableFile)
	assert.NoError(t, err)
}

func TestTrainGivesUpOnEndlessEpisode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Seed = 1
	cfg.QTableFile = ""

	_, err := train(cfg, 1, 3)
	assert.ErrorIs(t, err, errEpisodeTooLong)
}

func TestTrainResultAverage(t *testing.T) {
	assert.Equal(t, 0.0, trainResult{}.Average())
	assert.Equal(t, 2.5, trainResult{Episodes: 2, TotalScore: 5}.Average())
}

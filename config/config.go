package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"metal-snake/game/types"
)

// Front ends
const (
	UIRaylib   = "raylib"
	UITerminal = "terminal"
	UIHeadless = "headless"
)

// MinTileCount is the smallest grid that leaves room for food beside the snake.
const MinTileCount = 2

// Config holds all configurable game parameters.
type Config struct {
	// Grid
	CellSize  int `json:"cellSize"`  // Pixels per tile in the window renderer
	TileCount int `json:"tileCount"` // Tiles along one side of the square grid

	// Timing
	InitialInterval time.Duration `json:"initialInterval"` // Time between ticks at score 0
	IntervalStep    time.Duration `json:"intervalStep"`    // Interval reduction per food eaten
	MinInterval     time.Duration `json:"minInterval"`     // Floor for the interval
	FrameRate       int           `json:"frameRate"`       // Frames per second of the driving clock
	MaxCatchUpSteps int           `json:"maxCatchUpSteps"` // Ticks run at most per frame after a stall

	// Score
	ScorePerFood int `json:"scorePerFood"`

	// Food wander
	FoodMoveEvery int `json:"foodMoveEvery"` // Ticks between step attempts
	FoodTurnEvery int `json:"foodTurnEvery"` // Ticks between heading changes

	// Particles
	ParticleCount    int     `json:"particleCount"`
	ParticleLifetime int     `json:"particleLifetime"` // Ticks
	ParticleSpeed    float64 `json:"particleSpeed"`    // Pixels per tick before the random multiplier

	// Process
	Seed        uint64 `json:"seed"` // 0 seeds from the clock
	LogLevel    string `json:"logLevel"`
	LogFile     string `json:"logFile"` // Log destination while the terminal UI owns the screen
	UI          string `json:"ui"`
	StatsFile   string `json:"statsFile"`  // Empty keeps stats in memory
	QTableFile  string `json:"qTableFile"` // Empty keeps the autopilot table in memory
	ListenAddr  string `json:"listenAddr"` // Empty disables the spectator server
	Autopilot   bool   `json:"autopilot"`
	AutoRestart bool   `json:"autoRestart"`
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() Config {
	return Config{
		CellSize:  types.CellSize,
		TileCount: types.TileCount,

		InitialInterval: 200 * time.Millisecond,
		IntervalStep:    5 * time.Millisecond,
		MinInterval:     50 * time.Millisecond,
		FrameRate:       60,
		MaxCatchUpSteps: 4,

		ScorePerFood: 1,

		FoodMoveEvery: 5,
		FoodTurnEvery: 20,

		ParticleCount:    15,
		ParticleLifetime: 20,
		ParticleSpeed:    3,

		LogLevel:   "info",
		UI:         UIRaylib,
		StatsFile:  "data/stats.json",
		QTableFile: "data/qtable.json",
	}
}

// Grid is the square play field.
func (c Config) Grid() types.Grid {
	return types.SquareGrid(c.TileCount)
}

// Start is the cell a new snake spawns on, the middle of the grid.
func (c Config) Start() types.Point {
	return types.Point{X: c.TileCount / 2, Y: c.TileCount / 2}
}

// FramePeriod is the period of the driving clock.
func (c Config) FramePeriod() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var result *multierror.Error
	positive := []struct {
		name  string
		value int
	}{
		{"cellSize", c.CellSize},
		{"tileCount", c.TileCount},
		{"frameRate", c.FrameRate},
		{"maxCatchUpSteps", c.MaxCatchUpSteps},
		{"foodMoveEvery", c.FoodMoveEvery},
		{"particleLifetime", c.ParticleLifetime},
	}
	for _, field := range positive {
		if field.value <= 0 {
			result = multierror.Append(result, fmt.Errorf("%s must be positive, got %d", field.name, field.value))
		}
	}
	if c.TileCount > 0 && c.TileCount < MinTileCount {
		result = multierror.Append(result, fmt.Errorf("tileCount must be at least %d, got %d", MinTileCount, c.TileCount))
	}
	if c.FoodTurnEvery < 0 {
		result = multierror.Append(result, fmt.Errorf("foodTurnEvery must not be negative, got %d", c.FoodTurnEvery))
	}
	if c.ParticleCount < 0 {
		result = multierror.Append(result, fmt.Errorf("particleCount must not be negative, got %d", c.ParticleCount))
	}
	if c.ScorePerFood < 0 {
		result = multierror.Append(result, fmt.Errorf("scorePerFood must not be negative, got %d", c.ScorePerFood))
	}
	if c.MinInterval <= 0 {
		result = multierror.Append(result, fmt.Errorf("minInterval must be positive, got %s", c.MinInterval))
	}
	if c.InitialInterval < c.MinInterval {
		result = multierror.Append(result, fmt.Errorf("initialInterval %s is below minInterval %s", c.InitialInterval, c.MinInterval))
	}
	if c.IntervalStep < 0 {
		result = multierror.Append(result, fmt.Errorf("intervalStep must not be negative, got %s", c.IntervalStep))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		result = multierror.Append(result, fmt.Errorf("logLevel: %w", err))
	}
	switch c.UI {
	case UIRaylib, UITerminal, UIHeadless:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown ui %q", c.UI))
	}
	return result.ErrorOrNil()
}

// Load builds a Config from defaults, an optional .env file and SNAKE_*
// environment variables. An empty envFile reads ./.env when it exists.
func Load(envFile string) (Config, error) {
	cfg := DefaultConfig()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return cfg, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var result *multierror.Error
	intVar := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	durationVar := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	boolVar := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	floatVar := func(key string, dst *float64) {
		if v, ok := lookup(key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	stringVar := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	intVar("SNAKE_CELL_SIZE", &c.CellSize)
	intVar("SNAKE_TILE_COUNT", &c.TileCount)
	durationVar("SNAKE_INITIAL_INTERVAL", &c.InitialInterval)
	durationVar("SNAKE_INTERVAL_STEP", &c.IntervalStep)
	durationVar("SNAKE_MIN_INTERVAL", &c.MinInterval)
	intVar("SNAKE_FRAME_RATE", &c.FrameRate)
	intVar("SNAKE_MAX_CATCH_UP_STEPS", &c.MaxCatchUpSteps)
	intVar("SNAKE_SCORE_PER_FOOD", &c.ScorePerFood)
	intVar("SNAKE_FOOD_MOVE_EVERY", &c.FoodMoveEvery)
	intVar("SNAKE_FOOD_TURN_EVERY", &c.FoodTurnEvery)
	intVar("SNAKE_PARTICLE_COUNT", &c.ParticleCount)
	intVar("SNAKE_PARTICLE_LIFETIME", &c.ParticleLifetime)
	floatVar("SNAKE_PARTICLE_SPEED", &c.ParticleSpeed)
	stringVar("SNAKE_LOG_LEVEL", &c.LogLevel)
	stringVar("SNAKE_LOG_FILE", &c.LogFile)
	stringVar("SNAKE_UI", &c.UI)
	stringVar("SNAKE_STATS_FILE", &c.StatsFile)
	stringVar("SNAKE_QTABLE_FILE", &c.QTableFile)
	stringVar("SNAKE_LISTEN", &c.ListenAddr)
	boolVar("SNAKE_AUTOPILOT", &c.Autopilot)
	boolVar("SNAKE_AUTO_RESTART", &c.AutoRestart)

	if v, ok := lookup("SNAKE_SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("SNAKE_SEED: %w", err))
		} else {
			c.Seed = seed
		}
	}

	return result.ErrorOrNil()
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

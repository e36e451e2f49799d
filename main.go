package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"metal-snake/config"
)

// Command-line flags. They win over .env and SNAKE_* variables when set.
var (
	envFile     string
	uiName      string
	autopilot   bool
	autoRestart bool
	listenAddr  string
	statsFile   string
	qTableFile  string
	seed        uint64
	logLevel    string
	logFile     string
	tiles       int
	interval    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "metal-snake",
	Short: "Snake with metallic shapes, wandering food and a speed ramp",
	Long: `metal-snake plays Snake on a 20x20 grid. Every food eaten becomes a
new body segment of the food's shape and color, and the game speeds up.
Play it in a window (raylib), in the terminal (tcell) or headless, let the
Q-learning autopilot drive, and stream every tick to WebSocket spectators.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		applyFlags(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	defaults := config.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env", "", "Path to a .env file (default ./.env when present)")
	flags.StringVar(&uiName, "ui", defaults.UI, "Front end: raylib, terminal or headless")
	flags.BoolVar(&autopilot, "autopilot", defaults.Autopilot, "Let the Q-learning agent play")
	flags.BoolVar(&autoRestart, "auto-restart", defaults.AutoRestart, "Start a new game right after game over")
	flags.StringVar(&listenAddr, "listen", defaults.ListenAddr, "Spectator server address, e.g. :8080 (empty disables it)")
	flags.StringVar(&statsFile, "stats", defaults.StatsFile, "Score history file (empty keeps it in memory)")
	flags.StringVar(&qTableFile, "qtable", defaults.QTableFile, "Autopilot Q-table file (empty keeps it in memory)")
	flags.Uint64Var(&seed, "seed", defaults.Seed, "Random seed (0 seeds from the clock)")
	flags.StringVar(&logLevel, "log-level", defaults.LogLevel, "Log level: debug, info, warn or error")
	flags.StringVar(&logFile, "log-file", defaults.LogFile, "Log file, used while the terminal UI owns the screen")
	flags.IntVar(&tiles, "tiles", defaults.TileCount, "Tiles along one side of the grid")
	flags.DurationVar(&interval, "interval", defaults.InitialInterval, "Time between ticks at score 0")
}

// applyFlags copies the flags the user actually set onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("ui") {
		cfg.UI = uiName
	}
	if flags.Changed("autopilot") {
		cfg.Autopilot = autopilot
	}
	if flags.Changed("auto-restart") {
		cfg.AutoRestart = autoRestart
	}
	if flags.Changed("listen") {
		cfg.ListenAddr = listenAddr
	}
	if flags.Changed("stats") {
		cfg.StatsFile = statsFile
	}
	if flags.Changed("qtable") {
		cfg.QTableFile = qTableFile
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("tiles") {
		cfg.TileCount = tiles
	}
	if flags.Changed("interval") {
		cfg.InitialInterval = interval
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

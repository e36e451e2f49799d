package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"metal-snake/ai"
	"metal-snake/config"
	"metal-snake/game"
	"metal-snake/game/manager"
	"metal-snake/spectate"
	"metal-snake/ui"
	"metal-snake/ui/terminal"
)

// run wires the game, its observers and the chosen front end, and blocks
// until the front end exits or ctx is cancelled.
func run(ctx context.Context, cfg config.Config) error {
	closeLog, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Info().Uint64("seed", seed).Str("ui", cfg.UI).Msg("Starting metal-snake")

	stats := manager.NewStateManager(cfg.StatsFile)
	if err := stats.LoadStats(); err != nil {
		log.Warn().Err(err).Msg("Stats not loaded, starting fresh")
	}
	g := game.New(cfg, rand.New(rand.NewSource(seed)), stats)

	var pilot *ai.Pilot
	if cfg.Autopilot {
		pilot = ai.NewPilot(g, ai.NewQLearning(rand.New(rand.NewSource(seed+1))), cfg.QTableFile)
		if err := pilot.Load(); err != nil {
			log.Warn().Err(err).Msg("Q-table not loaded, starting fresh")
		}
		g.Subscribe(pilot)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var result *multierror.Error
	serverErr := make(chan error, 1)
	if cfg.ListenAddr != "" {
		srv := spectate.NewServer(g, stats)
		g.Subscribe(srv)
		go func() { serverErr <- srv.Run(ctx, cfg.ListenAddr) }()
	} else {
		serverErr <- nil
	}

	if err := runFrontEnd(ctx, g, cfg); err != nil {
		result = multierror.Append(result, err)
	}
	cancel()

	if err := <-serverErr; err != nil {
		result = multierror.Append(result, err)
	}
	if pilot != nil {
		if err := pilot.Save(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if cfg.StatsFile != "" {
		if err := stats.SaveStats(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	log.Info().Int("high_score", stats.HighScore()).Msg("Bye")
	return result.ErrorOrNil()
}

func runFrontEnd(ctx context.Context, g *game.Game, cfg config.Config) error {
	switch cfg.UI {
	case config.UIRaylib:
		ui.Run(ctx, g, cfg)
		return nil
	case config.UITerminal:
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("terminal init: %w", err)
		}
		defer screen.Fini()
		return terminal.New(screen, g, cfg).Run(ctx)
	default:
		return runHeadless(ctx, g, cfg)
	}
}

package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"metal-snake/config"
	"metal-snake/game"
)

// runHeadless drives the game from a frame ticker with no screen. Input comes
// from the autopilot or spectators. Without auto restart or a spectator
// server there is nobody to start another game, so it returns at game over.
func runHeadless(ctx context.Context, g *game.Game, cfg config.Config) error {
	ticker := time.NewTicker(cfg.FramePeriod())
	defer ticker.Stop()

	canRestart := cfg.AutoRestart || cfg.ListenAddr != ""
	g.Start()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			g.Advance(now.Sub(last))
			last = now
			if g.State() == game.GameOver && !canRestart {
				log.Info().Int("score", g.Score()).Msg("Game over, nothing left to play")
				return nil
			}
		}
	}
}

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"

	"metal-snake/ai"
	"metal-snake/config"
	"metal-snake/game"
)

// Episodes per progress report and per Q-table save.
const (
	reportEvery = 50
	saveEvery   = 500
)

var errEpisodeTooLong = errors.New("episode exceeded the tick limit")

var (
	episodes        int
	maxEpisodeTicks int
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the autopilot Q-table without a clock or a screen",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		applyFlags(cmd, &cfg)
		cfg.UI = config.UIHeadless
		if err := cfg.Validate(); err != nil {
			return err
		}
		closeLog, err := setupLogger(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		res, err := train(cfg, episodes, maxEpisodeTicks)
		log.Info().
			Int("episodes", res.Episodes).
			Int("best", res.BestScore).
			Float64("average", res.Average()).
			Int("states", res.States).
			Msg("Training finished")
		return err
	},
}

func init() {
	trainCmd.Flags().IntVar(&episodes, "episodes", 1000, "Games to play")
	trainCmd.Flags().IntVar(&maxEpisodeTicks, "max-ticks", 10000, "Give up on a game that runs longer than this")
	rootCmd.AddCommand(trainCmd)
}

type trainResult struct {
	Episodes   int
	BestScore  int
	TotalScore int
	States     int
}

func (r trainResult) Average() float64 {
	if r.Episodes == 0 {
		return 0
	}
	return float64(r.TotalScore) / float64(r.Episodes)
}

// train plays episodes back to back with the autopilot, ticking as fast as
// the game allows. Scores stay in memory; the Q-table is saved periodically
// and at the end.
func train(cfg config.Config, episodes, maxTicks int) (trainResult, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	g := game.New(cfg, rand.New(rand.NewSource(seed)), nil)
	q := ai.NewQLearning(rand.New(rand.NewSource(seed + 1)))
	pilot := ai.NewPilot(g, q, cfg.QTableFile)
	if err := pilot.Load(); err != nil {
		return trainResult{}, err
	}
	g.Subscribe(pilot)

	var res trainResult
	batchScore := 0
	for episode := 0; episode < episodes; episode++ {
		for ticks := 0; g.State() == game.Running; ticks++ {
			if ticks >= maxTicks {
				res.States = q.Size()
				return res, fmt.Errorf("episode %d: %w", episode+1, errEpisodeTooLong)
			}
			g.Tick()
		}

		score := g.Score()
		res.Episodes++
		res.TotalScore += score
		batchScore += score
		if score > res.BestScore {
			res.BestScore = score
		}

		if res.Episodes%reportEvery == 0 {
			log.Info().
				Int("episode", res.Episodes).
				Float64("batch_average", float64(batchScore)/reportEvery).
				Int("best", res.BestScore).
				Msg("Training progress")
			batchScore = 0
		}
		if res.Episodes%saveEvery == 0 {
			if err := pilot.Save(); err != nil {
				log.Err(err).Msg("Save Q-table")
			}
		}
		g.Restart()
	}

	res.States = q.Size()
	return res, pilot.Save()
}

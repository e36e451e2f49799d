package ai

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"metal-snake/game"
	"metal-snake/game/manager"
	"metal-snake/game/types"
)

// Games between Q-table saves.
const saveEvery = 10

// Controller is the input side of a game.
type Controller interface {
	SetDirection(d types.Direction) bool
}

// Pilot plays the game as another input source. It learns from every tick it
// observes and answers with a heading for the next one.
type Pilot struct {
	mu       sync.Mutex
	ctrl     Controller
	q        *QLearning
	filename string
	log      zerolog.Logger

	hasPrev    bool
	prevGame   string
	prevState  State
	prevAction Action
	prevScore  int
}

// NewPilot drives ctrl with q. An empty filename keeps the table in memory.
func NewPilot(ctrl Controller, q *QLearning, filename string) *Pilot {
	return &Pilot{
		ctrl:     ctrl,
		q:        q,
		filename: filename,
		log:      log.With().Str("component", "autopilot").Logger(),
	}
}

// Load reads the Q-table file. A missing file is a fresh start.
func (p *Pilot) Load() error {
	if p.filename == "" {
		return nil
	}
	err := p.q.LoadQTable(p.filename)
	if errors.Is(err, os.ErrNotExist) {
		p.log.Info().Str("file", p.filename).Msg("No Q-table yet, starting fresh")
		return nil
	}
	if err != nil {
		return err
	}
	p.log.Info().Str("file", p.filename).Int("states", p.q.Size()).Msg("Q-table loaded")
	return nil
}

// Save writes the Q-table file.
func (p *Pilot) Save() error {
	if p.filename == "" {
		return nil
	}
	if err := p.q.SaveQTable(p.filename); err != nil {
		return fmt.Errorf("autopilot: %w", err)
	}
	return nil
}

func (p *Pilot) OnTick(s game.Snapshot) {
	if s.Over() {
		return
	}
	state := BuildState(s)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.hasPrev && p.prevGame == s.GameID {
		outcome := Moved
		if s.Score > p.prevScore {
			outcome = Ate
		}
		p.q.Update(p.prevState, p.prevAction, state, outcome)
	}

	action := p.q.GetAction(state)
	if !p.ctrl.SetDirection(action.Direction()) && state.Heading != NoAction {
		// a reverse was refused, the snake keeps its heading
		action = state.Heading
	}

	p.hasPrev = true
	p.prevGame = s.GameID
	p.prevState = state
	p.prevAction = action
	p.prevScore = s.Score
}

func (p *Pilot) OnGameOver(s game.Snapshot, rec manager.GameRecord) {
	p.mu.Lock()
	if p.hasPrev && p.prevGame == s.GameID {
		p.q.Update(p.prevState, p.prevAction, BuildState(s), Died)
	}
	p.hasPrev = false
	p.q.EndEpisode()
	games, total := p.q.GamesPlayed, p.q.TotalReward
	p.mu.Unlock()

	p.log.Debug().
		Int("games", games).
		Int("score", rec.Score).
		Float64("total_reward", total).
		Msg("Autopilot episode finished")

	if games%saveEvery == 0 {
		if err := p.Save(); err != nil {
			p.log.Err(err).Msg("Save Q-table")
		}
	}
}

// BuildState reduces a snapshot to the learner's view: where the food is
// and which neighbouring cells are deadly.
func BuildState(s game.Snapshot) State {
	head := s.Head()
	food := s.Food.Position
	grid := types.SquareGrid(s.TileCount)

	state := State{
		RelativeFoodDir: [2]int{sign(food.X - head.X), sign(food.Y - head.Y)},
		FoodDistance:    abs(food.X-head.X) + abs(food.Y-head.Y),
		Heading:         ActionFromDirection(types.DirectionFromPoint(s.Direction)),
	}
	for i, a := range actions {
		next := head.Add(a.Direction().ToPoint())
		if !grid.Contains(next) {
			state.DangerDirs[i] = true
			continue
		}
		for _, p := range s.Body[1:] {
			if p == next {
				state.DangerDirs[i] = true
				break
			}
		}
	}
	return state
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

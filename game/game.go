package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"metal-snake/config"
	"metal-snake/game/entity"
	"metal-snake/game/manager"
	"metal-snake/game/types"
)

// Game owns the snake, the food, the particles and the score, and advances
// them one tick at a time. All exported methods are safe for concurrent use;
// ticks and direction changes are serialised by one mutex.
type Game struct {
	mu sync.Mutex

	cfg       config.Config
	grid      types.Grid
	rng       types.Rand
	snake     *entity.Snake
	foodMgr   *manager.FoodManager
	particles *entity.ParticleSet
	stateMgr  *manager.StateManager

	state       State
	cause       types.CollisionType
	interval    time.Duration
	accumulator time.Duration
	clockArmed  bool
	paused      bool
	tick        uint64

	id        string
	startTime time.Time
	now       func() time.Time

	observers []Observer
	log       zerolog.Logger
}

// tickResult carries what has to be published once the lock is released.
type tickResult struct {
	ran      bool
	snapshot Snapshot
	record   *manager.GameRecord
}

// New builds a game in the Running state with its clock stopped until Start.
// A nil stats manager keeps scores in memory.
func New(cfg config.Config, rng types.Rand, stats *manager.StateManager) *Game {
	if stats == nil {
		stats = manager.NewStateManager("")
	}
	grid := cfg.Grid()
	collisionMgr := manager.NewCollisionManager(grid)
	g := &Game{
		cfg:       cfg,
		grid:      grid,
		rng:       rng,
		snake:     entity.NewSnake(cfg.Start(), types.InitialSegment),
		foodMgr:   manager.NewFoodManager(grid, collisionMgr, rng, cfg.FoodMoveEvery, cfg.FoodTurnEvery),
		particles: entity.NewParticleSet(cfg.ParticleCount, cfg.ParticleSpeed, cfg.ParticleLifetime),
		stateMgr:  stats,
		now:       time.Now,
		log:       log.With().Str("component", "game").Logger(),
	}
	g.resetLocked()
	return g
}

// resetLocked restores every piece of state to its initial value.
func (g *Game) resetLocked() {
	g.snake.Reset()
	if !g.foodMgr.Respawn(g.snake.Body) {
		g.log.Warn().Int("tiles", g.cfg.TileCount).Msg("No free cell for food")
	}
	g.particles.Clear()
	g.stateMgr.ResetScore()
	g.interval = g.cfg.InitialInterval
	g.accumulator = 0
	g.state = Running
	g.cause = types.NoCollision
	g.paused = false
	g.tick = 0
	g.id = uuid.New().String()
	g.startTime = g.now()
}

// Subscribe registers an observer for tick and game-over notifications.
func (g *Game) Subscribe(o Observer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.observers = append(g.observers, o)
}

// Start arms the clock so Advance produces ticks.
func (g *Game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.clockArmed {
		return
	}
	g.clockArmed = true
	g.accumulator = 0
	g.log.Info().Str("game", g.id).Dur("interval", g.interval).Msg("Game started")
}

// SetDirection buffers a heading for the next tick. It returns false when
// the game is over or the heading would reverse the snake onto itself.
func (g *Game) SetDirection(d types.Direction) bool {
	if d == types.NONE {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != Running {
		return false
	}
	return g.snake.SetDirection(d.ToPoint())
}

// TogglePause freezes or resumes the clock without touching game state.
func (g *Game) TogglePause() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paused = !g.paused
	g.accumulator = 0
	return g.paused
}

// Restart begins a new game. It only acts in the GameOver state.
func (g *Game) Restart() bool {
	g.mu.Lock()
	if g.state != GameOver {
		g.mu.Unlock()
		return false
	}
	g.resetLocked()
	g.clockArmed = true
	g.log.Info().Str("game", g.id).Msg("Game restarted")
	res := tickResult{ran: true, snapshot: g.snapshotLocked()}
	g.mu.Unlock()

	g.publish(res)
	return true
}

// Tick runs one simulation step immediately, independent of the clock.
func (g *Game) Tick() bool {
	g.mu.Lock()
	res := g.tickLocked()
	g.mu.Unlock()

	g.publish(res)
	return res.ran
}

// Advance feeds elapsed wall time to the clock and runs one tick per full
// interval, at most MaxCatchUpSteps of them. It returns the ticks run.
// With AutoRestart, the first Advance after a game over starts a new game.
func (g *Game) Advance(elapsed time.Duration) int {
	g.mu.Lock()
	if g.state == GameOver && g.cfg.AutoRestart && !g.paused {
		g.mu.Unlock()
		g.Restart()
		return 0
	}
	if !g.clockArmed || g.paused || g.state != Running {
		g.accumulator = 0
		g.mu.Unlock()
		return 0
	}
	g.accumulator += elapsed
	g.mu.Unlock()

	steps := 0
	for steps < g.cfg.MaxCatchUpSteps {
		g.mu.Lock()
		if !g.clockArmed || g.state != Running || g.accumulator < g.interval {
			g.mu.Unlock()
			return steps
		}
		g.accumulator -= g.interval
		res := g.tickLocked()
		g.mu.Unlock()

		g.publish(res)
		steps++
	}

	// stalled too long: drop the backlog instead of racing to catch up
	g.mu.Lock()
	if g.accumulator >= g.interval {
		g.accumulator = 0
	}
	g.mu.Unlock()
	return steps
}

// tickLocked is the per-tick algorithm. Caller holds g.mu.
func (g *Game) tickLocked() tickResult {
	if g.state != Running {
		return tickResult{}
	}
	g.tick++

	food := g.foodMgr.Food()
	eaten := g.foodMgr.IsEaten(g.snake.NextHead())
	eatenAt, eatenLook := food.Position, food.Segment

	if eaten {
		g.snake.Grow(eatenLook.Shape, eatenLook.Color)
	} else {
		g.snake.Move()
	}

	if cause := g.snake.CheckCollision(g.grid.Width); cause != types.NoCollision {
		return g.endLocked(cause)
	}

	if eaten {
		score := g.stateMgr.AddScore(g.cfg.ScorePerFood)
		g.particles.Spawn(entity.CellCenter(eatenAt, g.cfg.CellSize), eatenLook.Color, g.rng)
		g.interval = max(g.interval-g.cfg.IntervalStep, g.cfg.MinInterval)
		g.log.Debug().
			Int("score", score).
			Int("length", g.snake.Len()).
			Dur("interval", g.interval).
			Msg("Food eaten")
		if !g.foodMgr.Respawn(g.snake.Body) {
			return g.endLocked(types.BoardFull)
		}
	}

	g.foodMgr.Update(g.snake.Body)
	g.particles.Update()

	return tickResult{ran: true, snapshot: g.snapshotLocked()}
}

// endLocked moves the game to GameOver and stops the clock. Caller holds g.mu.
func (g *Game) endLocked(cause types.CollisionType) tickResult {
	g.state = GameOver
	g.cause = cause
	g.clockArmed = false
	g.accumulator = 0

	rec := manager.GameRecord{
		ID:        g.id,
		Score:     g.stateMgr.Score(),
		Length:    g.snake.Len(),
		Cause:     cause,
		StartTime: g.startTime,
		EndTime:   g.now(),
	}
	g.log.Info().
		Str("game", g.id).
		Int("score", rec.Score).
		Int("length", rec.Length).
		Stringer("cause", cause).
		Msg("Game over")

	return tickResult{ran: true, snapshot: g.snapshotLocked(), record: &rec}
}

// publish records a finished game and notifies observers. Caller must not hold g.mu.
func (g *Game) publish(res tickResult) {
	if !res.ran {
		return
	}
	if res.record != nil {
		if err := g.stateMgr.Record(*res.record); err != nil {
			g.log.Err(err).Msg("Save stats")
		}
		res.snapshot.HighScore = g.stateMgr.HighScore()
	}

	g.mu.Lock()
	observers := make([]Observer, len(g.observers))
	copy(observers, g.observers)
	g.mu.Unlock()

	for _, o := range observers {
		if res.record != nil {
			o.OnGameOver(res.snapshot, *res.record)
		} else {
			o.OnTick(res.snapshot)
		}
	}
}

// Snapshot returns a copy of the current state for drawing.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Game) Score() int {
	return g.stateMgr.Score()
}

// Interval is the current time between ticks.
func (g *Game) Interval() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.interval
}

// Ticking reports whether the clock is armed and not paused.
func (g *Game) Ticking() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.clockArmed && !g.paused
}

// Stats exposes the score history.
func (g *Game) Stats() *manager.StateManager {
	return g.stateMgr
}

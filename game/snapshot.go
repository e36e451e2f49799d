package game

import (
	"fmt"

	"metal-snake/game/entity"
	"metal-snake/game/manager"
	"metal-snake/game/types"
)

// State of the game state machine.
type State int

const (
	Running State = iota
	GameOver
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case GameOver:
		return "game_over"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "running":
		*s = Running
	case "game_over":
		*s = GameOver
	default:
		return fmt.Errorf("unknown state %q", text)
	}
	return nil
}

// FoodView is the drawable part of the food.
type FoodView struct {
	Position types.Point `json:"position"`
	types.Segment
	Velocity types.Point `json:"velocity"`
}

// Snapshot is a read-only copy of everything a sink needs to draw one frame.
// It shares no memory with the game.
type Snapshot struct {
	GameID     string              `json:"gameId"`
	Tick       uint64              `json:"tick"`
	State      State               `json:"state"`
	Cause      types.CollisionType `json:"cause"`
	Paused     bool                `json:"paused"`
	Score      int                 `json:"score"`
	HighScore  int                 `json:"highScore"`
	IntervalMs int64               `json:"intervalMs"`
	TileCount  int                 `json:"tileCount"`
	CellSize   int                 `json:"cellSize"`
	Body       []types.Point       `json:"body"`
	Segments   []types.Segment     `json:"segments"`
	Direction  types.Point         `json:"direction"`
	Food       FoodView            `json:"food"`
	Particles  []entity.Particle   `json:"particles"`
}

// Head is the snake's front cell.
func (s Snapshot) Head() types.Point {
	return s.Body[0]
}

// Over reports whether the snapshot shows a finished game.
func (s Snapshot) Over() bool {
	return s.State == GameOver
}

// Observer receives a snapshot after every tick or restart, and a final
// snapshot when the game ends. Calls happen outside the game lock.
type Observer interface {
	OnTick(s Snapshot)
	OnGameOver(s Snapshot, rec manager.GameRecord)
}

// snapshotLocked copies the current state. Caller holds g.mu.
func (g *Game) snapshotLocked() Snapshot {
	body := make([]types.Point, len(g.snake.Body))
	copy(body, g.snake.Body)
	segments := make([]types.Segment, len(g.snake.Segments))
	copy(segments, g.snake.Segments)
	particles := make([]entity.Particle, len(g.particles.Particles))
	copy(particles, g.particles.Particles)
	food := g.foodMgr.Food()

	return Snapshot{
		GameID:     g.id,
		Tick:       g.tick,
		State:      g.state,
		Cause:      g.cause,
		Paused:     g.paused,
		Score:      g.stateMgr.Score(),
		HighScore:  g.stateMgr.HighScore(),
		IntervalMs: g.interval.Milliseconds(),
		TileCount:  g.grid.Width,
		CellSize:   g.cfg.CellSize,
		Body:       body,
		Segments:   segments,
		Direction:  g.snake.Direction,
		Food: FoodView{
			Position: food.Position,
			Segment:  food.Segment,
			Velocity: food.Velocity,
		},
		Particles: particles,
	}
}

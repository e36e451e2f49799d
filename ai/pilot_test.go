package ai

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"metal-snake/config"
	"metal-snake/game"
	"metal-snake/game/manager"
	"metal-snake/game/types"
)

type fakeController struct {
	accept bool
	got    []types.Direction
}

func (c *fakeController) SetDirection(d types.Direction) bool {
	c.got = append(c.got, d)
	return c.accept
}

func snapshot(id string, score int, food types.Point, dir types.Point, body ...types.Point) game.Snapshot {
	return game.Snapshot{
		GameID:    id,
		Score:     score,
		TileCount: 20,
		Body:      body,
		Direction: dir,
		Food:      game.FoodView{Position: food},
	}
}

func TestBuildState(t *testing.T) {
	s := snapshot("g", 0, types.Point{X: 8, Y: 2}, types.Point{X: 1, Y: 0},
		types.Point{X: 5, Y: 5}, types.Point{X: 4, Y: 5}, types.Point{X: 3, Y: 5})

	state := BuildState(s)
	assert.Equal(t, [2]int{1, -1}, state.RelativeFoodDir)
	assert.Equal(t, 6, state.FoodDistance)
	assert.Equal(t, [4]bool{false, false, false, true}, state.DangerDirs)
	assert.Equal(t, Right, state.Heading)
}

func TestBuildStateAtCorner(t *testing.T) {
	s := snapshot("g", 0, types.Point{X: 0, Y: 0}, types.Point{}, types.Point{X: 0, Y: 0})

	state := BuildState(s)
	assert.Equal(t, [2]int{0, 0}, state.RelativeFoodDir)
	assert.Equal(t, 0, state.FoodDistance)
	assert.Equal(t, [4]bool{true, false, false, true}, state.DangerDirs)
	assert.Equal(t, NoAction, state.Heading)
}

func TestPilotLearnsFromTicks(t *testing.T) {
	ctrl := &fakeController{accept: true}
	q := greedy()
	p := NewPilot(ctrl, q, "")

	first := snapshot("g1", 0, types.Point{X: 5, Y: 2}, types.Point{}, types.Point{X: 5, Y: 5})
	p.OnTick(first)
	require.Equal(t, []types.Direction{types.UP}, ctrl.got)

	second := snapshot("g1", 1, types.Point{X: 9, Y: 9}, types.Point{X: 0, Y: -1},
		types.Point{X: 5, Y: 4}, types.Point{X: 5, Y: 5})
	p.OnTick(second)
	assert.InDelta(t, 0.1, q.Value(BuildState(first), Up), 1e-9)
	assert.Len(t, ctrl.got, 2)

	over := snapshot("g1", 1, types.Point{X: 9, Y: 9}, types.Point{X: 0, Y: -1},
		types.Point{X: 5, Y: 3}, types.Point{X: 5, Y: 4})
	over.State = game.GameOver
	p.OnTick(over)
	assert.Len(t, ctrl.got, 2, "finished games get no input")

	p.OnGameOver(over, manager.GameRecord{ID: "g1", Score: 1})
	assert.InDelta(t, -0.1, q.Value(BuildState(second), ActionFromDirection(ctrl.got[1])), 1e-9)
	assert.Equal(t, 1, q.GamesPlayed)
}

func TestPilotDoesNotLearnAcrossGames(t *testing.T) {
	ctrl := &fakeController{accept: true}
	q := greedy()
	p := NewPilot(ctrl, q, "")

	p.OnTick(snapshot("g1", 0, types.Point{X: 5, Y: 2}, types.Point{}, types.Point{X: 5, Y: 5}))
	p.OnTick(snapshot("g2", 0, types.Point{X: 5, Y: 2}, types.Point{}, types.Point{X: 5, Y: 5}))
	assert.Equal(t, 0, q.Size())
}

func TestPilotKeepsHeadingWhenReverseRefused(t *testing.T) {
	ctrl := &fakeController{accept: false}
	q := greedy()
	p := NewPilot(ctrl, q, "")

	s := snapshot("g1", 0, types.Point{X: 0, Y: 9}, types.Point{X: 0, Y: 1},
		types.Point{X: 5, Y: 5}, types.Point{X: 5, Y: 4})
	p.OnTick(s)
	assert.Equal(t, Down, p.prevAction)
}

func TestPilotPersistence(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "qtable.json")
	q := greedy()
	p := NewPilot(&fakeController{accept: true}, q, filename)
	require.NoError(t, p.Load(), "missing file is a fresh start")

	q.Update(State{}, Left, State{}, Ate)
	require.NoError(t, p.Save())

	other := NewPilot(&fakeController{}, greedy(), filename)
	require.NoError(t, other.Load())
	assert.Equal(t, Left, other.q.BestAction(State{}))
}

func TestPilotPlaysRealGame(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AutoRestart = true
	r := rand.New(rand.NewSource(7))
	g := game.New(cfg, r, nil)
	q := NewQLearning(r)
	g.Subscribe(NewPilot(g, q, ""))
	g.Start()

	for i := 0; i < 5000; i++ {
		g.Advance(cfg.InitialInterval)
	}

	assert.Greater(t, q.Size(), 0)
	assert.Greater(t, q.GamesPlayed, 0)
	assert.NotEmpty(t, g.Stats().History())
	assert.GreaterOrEqual(t, g.Interval(), cfg.MinInterval)
}

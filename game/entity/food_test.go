package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"

	"metal-snake/game/types"
)

const (
	testMoveEvery = 5
	testTurnEvery = 20
)

func newTestFood() *Food {
	return NewFood(types.TileCount, testMoveEvery, testTurnEvery)
}

func TestFoodReset(t *testing.T) {
	f := newTestFood()
	f.Velocity = types.Point{X: 1, Y: 1}
	f.moveCounter = 13

	f.Reset(&scriptedRand{ints: []int{7, 12, 2, 1}})
	assert.Equal(t, types.Point{X: 7, Y: 12}, f.Position)
	assert.Equal(t, types.Diamond, f.Shape)
	assert.Equal(t, types.Gold, f.Color)
	assert.Equal(t, types.Point{}, f.Velocity)
	assert.Equal(t, 0, f.MoveCounter())
}

func TestFoodWaitsForMoveInterval(t *testing.T) {
	f := newTestFood()
	f.Position = types.Point{X: 10, Y: 10}
	f.Velocity = types.Point{X: 1, Y: 1}

	for i := 1; i < testMoveEvery; i++ {
		assert.False(t, f.Update(&scriptedRand{}, nil))
		assert.Equal(t, types.Point{X: 10, Y: 10}, f.Position)
	}
	assert.True(t, f.Update(&scriptedRand{}, nil))
	assert.Equal(t, types.Point{X: 11, Y: 11}, f.Position)
}

func TestFoodBouncesOffWalls(t *testing.T) {
	f := newTestFood()
	f.Position = types.Point{X: 0, Y: 19}
	f.Velocity = types.Point{X: -1, Y: 1}
	f.moveCounter = testMoveEvery - 1

	f.Update(&scriptedRand{}, nil)
	assert.Equal(t, types.Point{X: 1, Y: -1}, f.Velocity)
	assert.Equal(t, types.Point{X: 1, Y: 18}, f.Position)
}

func TestFoodSkipsMoveOntoSnake(t *testing.T) {
	f := newTestFood()
	f.Position = types.Point{X: 10, Y: 10}
	f.Velocity = types.Point{X: 1, Y: 0}
	f.moveCounter = testMoveEvery - 1

	moved := f.Update(&scriptedRand{}, []types.Point{{X: 11, Y: 10}})
	assert.False(t, moved)
	assert.Equal(t, types.Point{X: 10, Y: 10}, f.Position)
	assert.Equal(t, types.Point{X: 1, Y: 0}, f.Velocity)
}

func TestFoodKeepsReflectedVelocityWhenBlocked(t *testing.T) {
	f := newTestFood()
	f.Position = types.Point{X: 19, Y: 5}
	f.Velocity = types.Point{X: 1, Y: 0}
	f.moveCounter = testMoveEvery - 1

	f.Update(&scriptedRand{}, []types.Point{{X: 18, Y: 5}})
	assert.Equal(t, types.Point{X: 19, Y: 5}, f.Position)
	assert.Equal(t, types.Point{X: -1, Y: 0}, f.Velocity)
}

func TestFoodChangesHeadingOnSchedule(t *testing.T) {
	f := newTestFood()
	f.Position = types.Point{X: 10, Y: 10}
	f.moveCounter = testTurnEvery - 1

	f.Update(&scriptedRand{ints: []int{2, 0}}, nil)
	assert.Equal(t, types.Point{X: 1, Y: -1}, f.Velocity)
	// the turn tick is also a move tick
	assert.Equal(t, types.Point{X: 11, Y: 9}, f.Position)
}

func TestFoodNeverLandsOnSnake(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	f := newTestFood()
	f.Reset(r)
	body := []types.Point{}
	for x := 0; x < types.TileCount; x++ {
		body = append(body, types.Point{X: x, Y: 8})
	}
	if f.Position.Y == 8 {
		f.Position.Y = 3
	}
	for i := 0; i < 2000; i++ {
		f.Update(r, body)
		assert.NotEqual(t, 8, f.Position.Y)
		assert.True(t, types.SquareGrid(types.TileCount).Contains(f.Position))
	}
}

package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"metal-snake/game/types"
)

func newTestSnake() *Snake {
	return NewSnake(types.StartPosition, types.InitialSegment)
}

// stretch grows the snake n times while heading in dir.
func stretch(s *Snake, dir types.Direction, n int) {
	s.SetDirection(dir.ToPoint())
	for i := 0; i < n; i++ {
		s.Grow(types.Circle, types.Gold)
	}
}

func TestNewSnake(t *testing.T) {
	s := newTestSnake()
	assert.Equal(t, []types.Point{{X: 10, Y: 10}}, s.Body)
	assert.Equal(t, []types.Segment{types.InitialSegment}, s.Segments)
	assert.Equal(t, types.Point{}, s.Direction)
}

func TestSnakeMoveKeepsLength(t *testing.T) {
	s := newTestSnake()
	s.SetDirection(types.RIGHT.ToPoint())
	s.Move()
	assert.Equal(t, types.Point{X: 11, Y: 10}, s.Head())
	assert.Equal(t, 1, s.Len())
	assert.Len(t, s.Segments, 1)

	stretch(s, types.RIGHT, 3)
	s.SetDirection(types.DOWN.ToPoint())
	s.Move()
	assert.Equal(t, []types.Point{{X: 14, Y: 11}, {X: 14, Y: 10}, {X: 13, Y: 10}, {X: 12, Y: 10}}, s.Body)
	assert.Len(t, s.Segments, 4)
}

func TestSnakeGrowPrependsSegment(t *testing.T) {
	s := newTestSnake()
	s.SetDirection(types.UP.ToPoint())
	s.Grow(types.Triangle, types.Copper)

	assert.Equal(t, []types.Point{{X: 10, Y: 9}, {X: 10, Y: 10}}, s.Body)
	assert.Equal(t, types.Segment{Shape: types.Triangle, Color: types.Copper}, s.Segments[0])
	assert.Equal(t, types.InitialSegment, s.Segments[1])
}

func TestSnakeSetDirectionRejectsReversal(t *testing.T) {
	s := newTestSnake()
	// a single segment may turn anywhere
	assert.True(t, s.SetDirection(types.LEFT.ToPoint()))
	assert.True(t, s.SetDirection(types.RIGHT.ToPoint()))

	stretch(s, types.RIGHT, 2)
	assert.False(t, s.SetDirection(types.LEFT.ToPoint()))
	assert.Equal(t, types.RIGHT.ToPoint(), s.Direction)

	assert.True(t, s.SetDirection(types.UP.ToPoint()))
	// still blocked: the head has not moved, the second segment is still to the left
	assert.False(t, s.SetDirection(types.LEFT.ToPoint()))
	assert.Equal(t, types.UP.ToPoint(), s.Direction)
}

func TestSnakeCheckCollision(t *testing.T) {
	testCases := []struct {
		name     string
		body     []types.Point
		expected types.CollisionType
	}{
		{"inside", []types.Point{{X: 0, Y: 0}}, types.NoCollision},
		{"left wall", []types.Point{{X: -1, Y: 3}}, types.WallCollision},
		{"right wall", []types.Point{{X: 20, Y: 3}}, types.WallCollision},
		{"top wall", []types.Point{{X: 3, Y: -1}}, types.WallCollision},
		{"bottom wall", []types.Point{{X: 3, Y: 20}}, types.WallCollision},
		{"self", []types.Point{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}, {X: 5, Y: 5}}, types.SelfCollision},
		{"adjacent is fine", []types.Point{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}}, types.NoCollision},
	}
	for _, tc := range testCases {
		s := newTestSnake()
		s.Body = tc.body
		s.Segments = make([]types.Segment, len(tc.body))
		assert.Equal(t, tc.expected, s.CheckCollision(types.TileCount), tc.name)
	}
}

func TestSnakeBitesItself(t *testing.T) {
	s := newTestSnake()
	stretch(s, types.RIGHT, 4)
	for _, d := range []types.Direction{types.DOWN, types.LEFT, types.UP} {
		assert.True(t, s.SetDirection(d.ToPoint()))
		s.Move()
	}
	assert.Equal(t, types.SelfCollision, s.CheckCollision(types.TileCount))
}

func TestSnakeReset(t *testing.T) {
	s := newTestSnake()
	stretch(s, types.LEFT, 5)
	s.Reset()
	assert.Equal(t, 1, s.Len())
	assert.Len(t, s.Segments, 1)
	assert.Equal(t, types.StartPosition, s.Head())
	assert.Equal(t, types.Point{}, s.Direction)
	assert.True(t, s.Occupies(types.StartPosition))
	assert.False(t, s.Occupies(types.Point{X: 0, Y: 0}))
}

package entity

import (
	"metal-snake/game/types"
)

// Food wanders on the grid. Heading changes and steps run on separate tick
// schedules so the walk stays smooth.
type Food struct {
	Position types.Point
	types.Segment
	Velocity types.Point

	moveCounter int
	tileCount   int
	moveEvery   int
	turnEvery   int
}

func NewFood(tileCount, moveEvery, turnEvery int) *Food {
	return &Food{
		tileCount: tileCount,
		moveEvery: moveEvery,
		turnEvery: turnEvery,
	}
}

// Reset gives the food a uniformly random cell and look, and stops it.
func (f *Food) Reset(r types.Rand) {
	f.Position = types.Point{X: r.Intn(f.tileCount), Y: r.Intn(f.tileCount)}
	f.Segment = types.RandomSegment(r)
	f.Velocity = types.Point{}
	f.moveCounter = 0
}

// MoveCounter is the number of updates since the last Reset.
func (f *Food) MoveCounter() int {
	return f.moveCounter
}

// Update advances the wander schedule by one tick. It returns true when the
// food changed cell. A step that would land on the snake is skipped, the
// (possibly reflected) velocity is kept for the next attempt.
func (f *Food) Update(r types.Rand, snakeBody []types.Point) bool {
	f.moveCounter++

	if f.turnEvery > 0 && f.moveCounter%f.turnEvery == 0 {
		f.Velocity = types.Point{X: r.Intn(3) - 1, Y: r.Intn(3) - 1}
	}

	if f.moveEvery <= 0 || f.moveCounter%f.moveEvery != 0 {
		return false
	}

	next := f.Position.Add(f.Velocity)
	if next.X < 0 || next.X >= f.tileCount {
		f.Velocity.X = -f.Velocity.X
		next.X = f.Position.X + f.Velocity.X
	}
	if next.Y < 0 || next.Y >= f.tileCount {
		f.Velocity.Y = -f.Velocity.Y
		next.Y = f.Position.Y + f.Velocity.Y
	}

	for _, p := range snakeBody {
		if p == next {
			return false
		}
	}
	moved := next != f.Position
	f.Position = next
	return moved
}

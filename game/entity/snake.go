package entity

import (
	"metal-snake/game/types"
)

// Snake is an ordered body with the head at index 0. Segments[i] holds the
// visual attributes of Body[i]; both slices always have the same length.
type Snake struct {
	Body      []types.Point
	Segments  []types.Segment
	Direction types.Point

	start   types.Point
	initial types.Segment
}

func NewSnake(startPos types.Point, segment types.Segment) *Snake {
	s := &Snake{
		start:   startPos,
		initial: segment,
	}
	s.Reset()
	return s
}

// Reset puts the snake back to a single stationary segment at its start cell.
func (s *Snake) Reset() {
	s.Body = []types.Point{s.start}
	s.Segments = []types.Segment{s.initial}
	s.Direction = types.Point{}
}

func (s *Snake) Head() types.Point {
	return s.Body[0]
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// SetDirection buffers the heading used by the next Move or Grow. A heading
// that would put the head onto the second segment is ignored.
func (s *Snake) SetDirection(dir types.Point) bool {
	if len(s.Body) > 1 && s.Body[0].Add(dir) == s.Body[1] {
		return false
	}
	s.Direction = dir
	return true
}

// NextHead is the cell the head will occupy after the next Move or Grow.
func (s *Snake) NextHead() types.Point {
	return s.Head().Add(s.Direction)
}

// Move slides the body one cell forward. Length is unchanged and segments
// keep their indices, so attributes stay attached to the same body slot.
func (s *Snake) Move() {
	newHead := s.NextHead()
	copy(s.Body[1:], s.Body[:len(s.Body)-1])
	s.Body[0] = newHead
}

// Grow advances the head like Move but keeps the tail, and prepends a segment
// with the given attributes.
func (s *Snake) Grow(shape types.Shape, color types.Color) {
	newHead := s.NextHead()
	s.Body = append([]types.Point{newHead}, s.Body...)
	s.Segments = append([]types.Segment{{Shape: shape, Color: color}}, s.Segments...)
}

// CheckCollision reports whether the head left the tileCount square or
// overlaps any other body cell.
func (s *Snake) CheckCollision(tileCount int) types.CollisionType {
	head := s.Head()
	if !types.SquareGrid(tileCount).Contains(head) {
		return types.WallCollision
	}
	for _, part := range s.Body[1:] {
		if head == part {
			return types.SelfCollision
		}
	}
	return types.NoCollision
}

// Occupies reports whether any body cell equals p.
func (s *Snake) Occupies(p types.Point) bool {
	for _, part := range s.Body {
		if part == p {
			return true
		}
	}
	return false
}

package types

import "fmt"

// Point is a position in tile coordinates, or a unit step when used as a direction.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Grid represents the game grid dimensions
type Grid struct {
	Width  int
	Height int
}

// SquareGrid returns a tileCount x tileCount grid.
func SquareGrid(tileCount int) Grid {
	return Grid{Width: tileCount, Height: tileCount}
}

// Contains reports whether p lies inside the grid.
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Geometry constants
const (
	CellSize  = 20 // Pixels per tile
	TileCount = 20 // Tiles per side, 400px canvas
)

// StartPosition is where a fresh snake is placed.
var StartPosition = Point{X: 10, Y: 10}

// Rand is the subset of golang.org/x/exp/rand.Rand the game draws from.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	WallCollision
	SelfCollision
	BoardFull
)

func (c CollisionType) String() string {
	switch c {
	case NoCollision:
		return "none"
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	case BoardFull:
		return "board_full"
	default:
		return fmt.Sprintf("collision(%d)", int(c))
	}
}

// MarshalText lets CollisionType appear by name in JSON.
func (c CollisionType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (c *CollisionType) UnmarshalText(text []byte) error {
	for t := NoCollision; t <= BoardFull; t++ {
		if t.String() == string(text) {
			*c = t
			return nil
		}
	}
	return fmt.Errorf("unknown collision type %q", text)
}

package manager

import (
	"metal-snake/game/types"
)

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// isWallCollision checks if a position collides with walls
func (cm *CollisionManager) isWallCollision(pos types.Point) bool {
	return !cm.grid.Contains(pos)
}

// IsFoodCollision checks if a position collides with food
func (cm *CollisionManager) IsFoodCollision(pos types.Point, food types.Point) bool {
	return pos == food
}

// ValidateSpawnPosition checks if a position is inside the grid and off the snake
func (cm *CollisionManager) ValidateSpawnPosition(pos types.Point, body []types.Point) bool {
	if cm.isWallCollision(pos) {
		return false
	}
	for _, bodyPart := range body {
		if pos == bodyPart {
			return false
		}
	}
	return true
}

// FreeCells lists every grid cell not covered by body, row by row.
func (cm *CollisionManager) FreeCells(body []types.Point) []types.Point {
	occupied := make(map[types.Point]struct{}, len(body))
	for _, p := range body {
		occupied[p] = struct{}{}
	}
	free := make([]types.Point, 0, max(0, cm.grid.Width*cm.grid.Height-len(occupied)))
	for y := 0; y < cm.grid.Height; y++ {
		for x := 0; x < cm.grid.Width; x++ {
			p := types.Point{X: x, Y: y}
			if _, taken := occupied[p]; !taken {
				free = append(free, p)
			}
		}
	}
	return free
}

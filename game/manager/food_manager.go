package manager

import (
	"metal-snake/game/entity"
	"metal-snake/game/types"
)

// Random draws tried before falling back to a scan of the free cells.
const maxSpawnAttempts = 64

type FoodManager struct {
	grid         types.Grid
	food         *entity.Food
	rng          types.Rand
	collisionMgr *CollisionManager
}

func NewFoodManager(grid types.Grid, collisionMgr *CollisionManager, rng types.Rand, moveEvery, turnEvery int) *FoodManager {
	return &FoodManager{
		grid:         grid,
		food:         entity.NewFood(grid.Width, moveEvery, turnEvery),
		rng:          rng,
		collisionMgr: collisionMgr,
	}
}

// Respawn replaces the food with a fresh random item that is not on body.
// It returns false when body covers the whole grid.
func (fm *FoodManager) Respawn(body []types.Point) bool {
	for i := 0; i < maxSpawnAttempts; i++ {
		fm.food.Reset(fm.rng)
		if fm.collisionMgr.ValidateSpawnPosition(fm.food.Position, body) {
			return true
		}
	}

	free := fm.collisionMgr.FreeCells(body)
	if len(free) == 0 {
		return false
	}
	fm.food.Position = free[fm.rng.Intn(len(free))]
	return true
}

// Update advances the food's wander schedule against the current body.
func (fm *FoodManager) Update(body []types.Point) bool {
	return fm.food.Update(fm.rng, body)
}

// IsEaten reports whether head is on the food cell.
func (fm *FoodManager) IsEaten(head types.Point) bool {
	return fm.collisionMgr.IsFoodCollision(head, fm.food.Position)
}

func (fm *FoodManager) Food() *entity.Food {
	return fm.food
}

package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"metal-snake/game/types"
)

func TestNewParticle(t *testing.T) {
	origin := Vec{X: 50, Y: 70}
	// angle 0, speed multiplier 1.0, size 4
	p := NewParticle(origin, types.Bronze, &scriptedRand{floats: []float64{0, 0.5, 0.5}}, 3, 20)

	assert.Equal(t, origin, p.Position)
	assert.InDelta(t, 3.0, p.Velocity.X, 1e-9)
	assert.InDelta(t, 0.0, p.Velocity.Y, 1e-9)
	assert.InDelta(t, 4.0, p.Size, 1e-9)
	assert.Equal(t, 20, p.Lifetime)
	assert.Equal(t, types.Bronze, p.Color)
}

func TestNewParticleRanges(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		p := NewParticle(Vec{}, types.Silver, r, 3, 20)
		speed := math.Hypot(p.Velocity.X, p.Velocity.Y)
		assert.GreaterOrEqual(t, speed, 1.5-1e-9)
		assert.Less(t, speed, 4.5)
		assert.GreaterOrEqual(t, p.Size, 3.0)
		assert.Less(t, p.Size, 5.0)
	}
}

func TestParticleUpdate(t *testing.T) {
	p := Particle{
		Position: Vec{X: 1, Y: 1},
		Velocity: Vec{X: 2, Y: -1},
		Size:     4,
		Lifetime: 2,
	}
	p.Update()
	assert.Equal(t, Vec{X: 3, Y: 0}, p.Position)
	assert.Equal(t, 1, p.Lifetime)
	assert.InDelta(t, 3.6, p.Size, 1e-9)
	assert.False(t, p.IsDead())

	p.Update()
	assert.Equal(t, Vec{X: 5, Y: -1}, p.Position)
	assert.True(t, p.IsDead())
}

func TestParticleSetSpawnAndPrune(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	ps := NewParticleSet(15, 3, 20)

	ps.Spawn(CellCenter(types.Point{X: 2, Y: 3}, types.CellSize), types.Amethyst, r)
	require.Equal(t, 15, ps.Len())
	for _, p := range ps.Particles {
		assert.Equal(t, Vec{X: 50, Y: 70}, p.Position)
		assert.Equal(t, types.Amethyst, p.Color)
	}

	for i := 0; i < 10; i++ {
		ps.Update()
	}
	ps.Spawn(Vec{}, types.Gold, r)
	assert.Equal(t, 30, ps.Len())

	for i := 0; i < 10; i++ {
		ps.Update()
	}
	// the first burst expired on its 20th update
	assert.Equal(t, 15, ps.Len())
	for _, p := range ps.Particles {
		assert.Equal(t, types.Gold, p.Color)
		assert.Equal(t, 10, p.Lifetime)
	}

	ps.Clear()
	assert.Equal(t, 0, ps.Len())
	ps.Update()
	assert.Equal(t, 0, ps.Len())
}

package entity

import (
	"math"

	"metal-snake/game/types"
)

// Vec is a pixel-space position or velocity.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Particle is a cosmetic spark. Lifetime is authoritative for removal.
type Particle struct {
	Position Vec         `json:"position"`
	Velocity Vec         `json:"velocity"`
	Size     float64     `json:"size"`
	Lifetime int         `json:"lifetime"`
	Color    types.Color `json:"color"`
}

const shrinkFactor = 0.9

// NewParticle launches a particle from origin at a random angle, a speed of
// baseSpeed scaled by [0.5, 1.5) and a starting size in [3, 5).
func NewParticle(origin Vec, color types.Color, r types.Rand, baseSpeed float64, lifetime int) Particle {
	angle := r.Float64() * 2 * math.Pi
	speed := baseSpeed * (0.5 + r.Float64())
	return Particle{
		Position: origin,
		Velocity: Vec{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed},
		Size:     3 + r.Float64()*2,
		Lifetime: lifetime,
		Color:    color,
	}
}

func (p *Particle) Update() {
	p.Position.X += p.Velocity.X
	p.Position.Y += p.Velocity.Y
	p.Lifetime--
	p.Size *= shrinkFactor
}

func (p *Particle) IsDead() bool {
	return p.Lifetime <= 0
}

// ParticleSet holds the live explosion particles.
type ParticleSet struct {
	Particles []Particle

	count    int
	speed    float64
	lifetime int
}

func NewParticleSet(count int, speed float64, lifetime int) *ParticleSet {
	return &ParticleSet{count: count, speed: speed, lifetime: lifetime}
}

// Spawn adds one burst of particles at origin.
func (ps *ParticleSet) Spawn(origin Vec, color types.Color, r types.Rand) {
	for i := 0; i < ps.count; i++ {
		ps.Particles = append(ps.Particles, NewParticle(origin, color, r, ps.speed, ps.lifetime))
	}
}

// Update advances every particle and drops the expired ones in place.
func (ps *ParticleSet) Update() {
	live := ps.Particles[:0]
	for _, p := range ps.Particles {
		p.Update()
		if !p.IsDead() {
			live = append(live, p)
		}
	}
	ps.Particles = live
}

func (ps *ParticleSet) Clear() {
	ps.Particles = nil
}

func (ps *ParticleSet) Len() int {
	return len(ps.Particles)
}

// CellCenter converts a tile to the pixel at its center.
func CellCenter(p types.Point, cellSize int) Vec {
	return Vec{
		X: float64(p.X*cellSize) + float64(cellSize)/2,
		Y: float64(p.Y*cellSize) + float64(cellSize)/2,
	}
}

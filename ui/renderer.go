package ui

import (
	"context"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog/log"

	"metal-snake/config"
	"metal-snake/game"
	"metal-snake/game/types"
)

const (
	hudHeight   = 36 // Score bar under the grid
	shapeInset  = 2  // Gap between a shape and its cell border
	shadowShift = 3
)

var (
	background = rl.NewColor(0x1a, 0x1a, 0x1a, 255)
	gridLine   = rl.NewColor(0x24, 0x24, 0x24, 255)
	highlight  = rl.NewColor(255, 255, 255, 128)
	shadow     = rl.NewColor(0, 0, 0, 178)
)

type Renderer struct {
	cellSize         int32
	tileCount        int32
	screenWidth      int32
	screenHeight     int32
	particleLifetime float32
}

func NewRenderer(cfg config.Config) *Renderer {
	r := &Renderer{
		cellSize:         int32(cfg.CellSize),
		tileCount:        int32(cfg.TileCount),
		particleLifetime: float32(cfg.ParticleLifetime),
	}
	r.screenWidth = r.cellSize * r.tileCount
	r.screenHeight = r.screenWidth + hudHeight
	return r
}

// Run opens the window and drives g from the frame clock until the window
// closes or ctx is cancelled.
func Run(ctx context.Context, g *game.Game, cfg config.Config) {
	r := NewRenderer(cfg)
	rl.InitWindow(r.screenWidth, r.screenHeight, "Metal Snake")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.FrameRate))

	logger := log.With().Str("component", "raylib").Logger()
	logger.Info().Int32("width", r.screenWidth).Int32("height", r.screenHeight).Msg("Window opened")

	g.Start()
	for !rl.WindowShouldClose() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		r.HandleInput(g)
		elapsed := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
		g.Advance(elapsed)
		r.Draw(g.Snapshot())
	}
	logger.Info().Msg("Window closed")
}

// HandleInput feeds this frame's key presses to the game.
func (r *Renderer) HandleInput(g *game.Game) {
	switch {
	case rl.IsKeyPressed(rl.KeyUp), rl.IsKeyPressed(rl.KeyW):
		g.SetDirection(types.UP)
	case rl.IsKeyPressed(rl.KeyDown), rl.IsKeyPressed(rl.KeyS):
		g.SetDirection(types.DOWN)
	case rl.IsKeyPressed(rl.KeyLeft), rl.IsKeyPressed(rl.KeyA):
		g.SetDirection(types.LEFT)
	case rl.IsKeyPressed(rl.KeyRight), rl.IsKeyPressed(rl.KeyD):
		g.SetDirection(types.RIGHT)
	}

	if rl.IsKeyPressed(rl.KeyR) || rl.IsKeyPressed(rl.KeyEnter) {
		g.Restart()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.TogglePause()
	}
}

func (r *Renderer) Draw(s game.Snapshot) {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(background)

	r.drawGrid()
	for i, p := range s.Body {
		r.drawShape(p, s.Segments[i])
	}
	r.drawShape(s.Food.Position, s.Food.Segment)
	r.drawParticles(s)
	r.drawHUD(s)

	if s.Over() {
		r.drawGameOver(s)
	}
}

func (r *Renderer) drawGrid() {
	size := r.cellSize * r.tileCount
	for i := int32(0); i <= r.tileCount; i++ {
		rl.DrawLine(i*r.cellSize, 0, i*r.cellSize, size, gridLine)
		rl.DrawLine(0, i*r.cellSize, size, i*r.cellSize, gridLine)
	}
}

// drawShape draws one tile-sized metallic shape with a drop shadow and a
// highlight stroke along its lit edge.
func (r *Renderer) drawShape(p types.Point, seg types.Segment) {
	if p.X < 0 || p.Y < 0 || int32(p.X) >= r.tileCount || int32(p.Y) >= r.tileCount {
		return
	}
	x := float32(int32(p.X)*r.cellSize + shapeInset)
	y := float32(int32(p.Y)*r.cellSize + shapeInset)
	size := float32(r.cellSize - 2*shapeInset)
	base := toColor(seg.Color)
	light, dark := shade(base, 1.5), shade(base, 0.5)

	r.drawSilhouette(seg.Shape, x+shadowShift, y+shadowShift, size, shadow)

	cx, cy, half := x+size/2, y+size/2, size/2
	switch seg.Shape {
	case types.Square:
		rl.DrawRectangleGradientEx(rl.NewRectangle(x, y, size, size), light, base, dark, base)
		rl.DrawLineEx(rl.NewVector2(x, y), rl.NewVector2(x+size, y), 1.5, highlight)
		rl.DrawLineEx(rl.NewVector2(x+size, y), rl.NewVector2(x+size, y+size), 1.5, highlight)
	case types.Circle:
		rl.DrawCircleGradient(int32(cx), int32(cy), half, light, dark)
		rl.DrawCircleLines(int32(cx-size/5), int32(cy-size/5), size/3, highlight)
	case types.Diamond:
		top, right := rl.NewVector2(cx, cy-half), rl.NewVector2(cx+half, cy)
		bottom, left := rl.NewVector2(cx, cy+half), rl.NewVector2(cx-half, cy)
		rl.DrawTriangle(top, left, right, light)
		rl.DrawTriangle(bottom, right, left, dark)
		rl.DrawLineEx(rl.NewVector2(cx-size/3, cy-size/3), top, 1.5, highlight)
		rl.DrawLineEx(top, rl.NewVector2(cx+size/3, cy-size/3), 1.5, highlight)
	case types.Triangle:
		apex := rl.NewVector2(cx, cy-half)
		rl.DrawTriangle(apex, rl.NewVector2(cx-half, cy+half), rl.NewVector2(cx+half, cy+half), base)
		rl.DrawTriangle(apex, rl.NewVector2(cx-half/2, cy+half/2), rl.NewVector2(cx+half/2, cy+half/2), light)
		rl.DrawLineEx(rl.NewVector2(cx-size/3, cy), apex, 1.5, highlight)
		rl.DrawLineEx(apex, rl.NewVector2(cx+size/3, cy), 1.5, highlight)
	}
}

// drawSilhouette fills the outline of a shape with one color.
func (r *Renderer) drawSilhouette(shape types.Shape, x, y, size float32, c rl.Color) {
	cx, cy, half := x+size/2, y+size/2, size/2
	switch shape {
	case types.Square:
		rl.DrawRectangleV(rl.NewVector2(x, y), rl.NewVector2(size, size), c)
	case types.Circle:
		rl.DrawCircleV(rl.NewVector2(cx, cy), half, c)
	case types.Diamond:
		rl.DrawTriangle(rl.NewVector2(cx, cy-half), rl.NewVector2(cx-half, cy), rl.NewVector2(cx+half, cy), c)
		rl.DrawTriangle(rl.NewVector2(cx, cy+half), rl.NewVector2(cx+half, cy), rl.NewVector2(cx-half, cy), c)
	case types.Triangle:
		rl.DrawTriangle(rl.NewVector2(cx, cy-half), rl.NewVector2(cx-half, cy+half), rl.NewVector2(cx+half, cy+half), c)
	}
}

func (r *Renderer) drawParticles(s game.Snapshot) {
	for _, p := range s.Particles {
		alpha := float32(p.Lifetime) / r.particleLifetime
		center := rl.NewVector2(float32(p.Position.X), float32(p.Position.Y))
		rl.DrawCircleV(center, float32(p.Size), rl.Fade(toColor(p.Color), alpha))
	}
}

func (r *Renderer) drawHUD(s game.Snapshot) {
	top := r.cellSize * r.tileCount
	rl.DrawRectangle(0, top, r.screenWidth, hudHeight, rl.NewColor(0x10, 0x10, 0x10, 255))

	score := fmt.Sprintf("Score: %d", s.Score)
	rl.DrawText(score, 10, top+10, 18, rl.RayWhite)

	best := fmt.Sprintf("Best: %d", s.HighScore)
	bestWidth := rl.MeasureText(best, 18)
	rl.DrawText(best, r.screenWidth-bestWidth-10, top+10, 18, toColor(types.Gold))

	if s.Paused {
		r.drawCentered("PAUSED", top/2-15, 30, rl.RayWhite)
	}
}

func (r *Renderer) drawGameOver(s game.Snapshot) {
	size := r.cellSize * r.tileCount
	rl.DrawRectangle(0, 0, size, size, rl.Fade(rl.Black, 0.7))
	r.drawCentered("GAME OVER", size/2-50, 36, rl.RayWhite)
	r.drawCentered(fmt.Sprintf("Score: %d", s.Score), size/2, 22, toColor(types.Gold))
	r.drawCentered("Press R or Enter to play again", size/2+35, 16, rl.LightGray)
}

func (r *Renderer) drawCentered(text string, y, fontSize int32, c rl.Color) {
	width := rl.MeasureText(text, fontSize)
	rl.DrawText(text, (r.screenWidth-width)/2, y, fontSize, c)
}

func toColor(c types.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, 255)
}

// shade scales a color's channels, clamping at white.
func shade(c rl.Color, factor float32) rl.Color {
	scale := func(v uint8) uint8 {
		s := float32(v) * factor
		if s > 255 {
			return 255
		}
		return uint8(s)
	}
	return rl.NewColor(scale(c.R), scale(c.G), scale(c.B), c.A)
}

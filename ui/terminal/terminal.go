package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"metal-snake/config"
	"metal-snake/game"
	"metal-snake/game/types"
)

// Board origin on screen. Row 0 holds the score line, the border sits
// one cell around the board.
const (
	originX = 1
	originY = 2
)

var glyphs = map[types.Shape]rune{
	types.Square:   '■',
	types.Circle:   '●',
	types.Diamond:  '◆',
	types.Triangle: '▲',
}

var (
	baseStyle   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	borderStyle = baseStyle.Foreground(tcell.ColorGray)
)

// Renderer draws snapshots on a tcell screen and turns key presses into
// game input.
type Renderer struct {
	screen           tcell.Screen
	g                *game.Game
	cellSize         float64
	particleLifetime int
	frame            time.Duration
	log              zerolog.Logger
}

// New wraps an initialised screen. The caller owns screen.Fini.
func New(screen tcell.Screen, g *game.Game, cfg config.Config) *Renderer {
	return &Renderer{
		screen:           screen,
		g:                g,
		cellSize:         float64(cfg.CellSize),
		particleLifetime: cfg.ParticleLifetime,
		frame:            cfg.FramePeriod(),
		log:              log.With().Str("component", "terminal").Logger(),
	}
}

// Run drives the game from a frame ticker and redraws every frame until the
// player quits or ctx is cancelled.
func (r *Renderer) Run(ctx context.Context) error {
	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(r.frame)
	defer ticker.Stop()

	r.g.Start()
	r.Draw(r.g.Snapshot())
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !r.HandleKey(ev) {
					r.log.Info().Msg("Quit requested")
					return nil
				}
			case *tcell.EventResize:
				r.screen.Sync()
			}
		case now := <-ticker.C:
			r.g.Advance(now.Sub(last))
			last = now
			r.Draw(r.g.Snapshot())
		}
	}
}

// HandleKey applies one key press. It returns false when the player quits.
func (r *Renderer) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		r.g.SetDirection(types.UP)
	case tcell.KeyDown:
		r.g.SetDirection(types.DOWN)
	case tcell.KeyLeft:
		r.g.SetDirection(types.LEFT)
	case tcell.KeyRight:
		r.g.SetDirection(types.RIGHT)
	case tcell.KeyEnter:
		r.g.Restart()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case 'w', 'W':
			r.g.SetDirection(types.UP)
		case 's', 'S':
			r.g.SetDirection(types.DOWN)
		case 'a', 'A':
			r.g.SetDirection(types.LEFT)
		case 'd', 'D':
			r.g.SetDirection(types.RIGHT)
		case 'r', 'R':
			r.g.Restart()
		case 'p', 'P':
			r.g.TogglePause()
		}
	}
	return true
}

// Draw renders one frame. Every tile is two columns wide.
func (r *Renderer) Draw(s game.Snapshot) {
	r.screen.SetStyle(baseStyle)
	r.screen.Clear()

	status := fmt.Sprintf("Score: %d  Best: %d  Speed: %dms", s.Score, s.HighScore, s.IntervalMs)
	if s.Paused {
		status += "  [paused]"
	}
	r.drawText(0, 0, status, baseStyle)
	r.drawBorder(s.TileCount)

	for _, p := range s.Particles {
		tile := types.Point{X: int(p.Position.X / r.cellSize), Y: int(p.Position.Y / r.cellSize)}
		glyph := '·'
		if p.Lifetime*2 > r.particleLifetime {
			glyph = '*'
		}
		r.drawTile(s.TileCount, tile, glyph, colorStyle(p.Color))
	}
	r.drawTile(s.TileCount, s.Food.Position, glyphs[s.Food.Shape], colorStyle(s.Food.Color))
	for i, p := range s.Body {
		seg := s.Segments[i]
		r.drawTile(s.TileCount, p, glyphs[seg.Shape], colorStyle(seg.Color))
	}

	if s.Over() {
		r.drawGameOver(s)
	}
	r.screen.Show()
}

func (r *Renderer) drawBorder(tileCount int) {
	left, top := originX-1, originY-1
	right, bottom := originX+2*tileCount, originY+tileCount
	for x := left + 1; x < right; x++ {
		r.screen.SetContent(x, top, tcell.RuneHLine, nil, borderStyle)
		r.screen.SetContent(x, bottom, tcell.RuneHLine, nil, borderStyle)
	}
	for y := top + 1; y < bottom; y++ {
		r.screen.SetContent(left, y, tcell.RuneVLine, nil, borderStyle)
		r.screen.SetContent(right, y, tcell.RuneVLine, nil, borderStyle)
	}
	r.screen.SetContent(left, top, tcell.RuneULCorner, nil, borderStyle)
	r.screen.SetContent(right, top, tcell.RuneURCorner, nil, borderStyle)
	r.screen.SetContent(left, bottom, tcell.RuneLLCorner, nil, borderStyle)
	r.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, borderStyle)
}

// drawTile puts a glyph on a board cell. Cells off the board are skipped.
func (r *Renderer) drawTile(tileCount int, p types.Point, glyph rune, style tcell.Style) {
	if !types.SquareGrid(tileCount).Contains(p) {
		return
	}
	x, y := originX+2*p.X, originY+p.Y
	r.screen.SetContent(x, y, glyph, nil, style)
	r.screen.SetContent(x+1, y, ' ', nil, style)
}

func (r *Renderer) drawGameOver(s game.Snapshot) {
	mid := originY + s.TileCount/2
	lines := []string{
		"GAME OVER",
		fmt.Sprintf("Score: %d", s.Score),
		"r/Enter: restart  q: quit",
	}
	for i, line := range lines {
		x := originX + s.TileCount - len([]rune(line))/2
		r.drawText(x, mid-1+i, line, baseStyle.Bold(i == 0))
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func colorStyle(c types.Color) tcell.Style {
	return baseStyle.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

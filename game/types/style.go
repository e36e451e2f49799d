package types

import (
	"fmt"
)

// Shape is the pseudo-3D form a segment or food item is drawn with.
type Shape int

const (
	Square Shape = iota
	Circle
	Diamond
	Triangle
)

// Shapes lists every shape in draw-table order.
var Shapes = []Shape{Square, Circle, Diamond, Triangle}

func (s Shape) String() string {
	switch s {
	case Square:
		return "square"
	case Circle:
		return "circle"
	case Diamond:
		return "diamond"
	case Triangle:
		return "triangle"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(text []byte) error {
	for _, shape := range Shapes {
		if shape.String() == string(text) {
			*s = shape
			return nil
		}
	}
	return fmt.Errorf("unknown shape %q", text)
}

type Color struct {
	R, G, B uint8
}

// Hex renders the color as #RRGGBB.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	var r, g, b uint8
	if _, err := fmt.Sscanf(string(text), "#%02X%02X%02X", &r, &g, &b); err != nil {
		return fmt.Errorf("parse color %q: %w", text, err)
	}
	*c = Color{R: r, G: g, B: b}
	return nil
}

// Metallic palette
var (
	Silver    = Color{R: 0xC0, G: 0xC0, B: 0xC0}
	Gold      = Color{R: 0xFF, G: 0xD7, B: 0x00}
	Bronze    = Color{R: 0xCD, G: 0x7F, B: 0x32}
	Copper    = Color{R: 0xB8, G: 0x73, B: 0x33}
	SteelBlue = Color{R: 0x46, G: 0x82, B: 0xB4}
	Amethyst  = Color{R: 0x99, G: 0x66, B: 0xCC}
	Emerald   = Color{R: 0x50, G: 0xC8, B: 0x78}
	Platinum  = Color{R: 0xE6, G: 0xE8, B: 0xFA}
)

// Palette is the fixed set food colors are drawn from.
var Palette = []Color{Silver, Gold, Bronze, Copper, SteelBlue, Amethyst, Emerald, Platinum}

// Segment carries the visual attributes of one body cell.
type Segment struct {
	Shape Shape `json:"shape"`
	Color Color `json:"color"`
}

// InitialSegment is the head segment of a freshly reset snake.
var InitialSegment = Segment{Shape: Square, Color: Emerald}

// RandomSegment draws a shape and a color uniformly.
func RandomSegment(r Rand) Segment {
	return Segment{
		Shape: Shapes[r.Intn(len(Shapes))],
		Color: Palette[r.Intn(len(Palette))],
	}
}

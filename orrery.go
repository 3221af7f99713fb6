package orrery

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorFromHex parses "#rrggbb" or "rrggbb" into an opaque Color.
func ColorFromHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("parse color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
		A: 1,
	}, nil
}

// Scale returns c with RGB multiplied by f. Alpha is unchanged.
func (c Color) Scale(f float64) Color {
	return Color{c.R * f, c.G * f, c.B * f, c.A}
}

// Lerp linearly interpolates between c and o.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// RGBA converts to a non-premultiplied 8-bit color for CPU-side rasterising.
func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// UnmarshalText accepts a hex string, which lets scene files spell colors as "#rrggbb".
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ColorFromHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Rect is an axis-aligned rectangle in screen space. The origin is at the
// top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// BlendMode selects a compositing operation.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	if b == BlendAdd {
		return ebiten.BlendLighter
	}
	return ebiten.BlendSourceOver
}

// Category distinguishes the two kinds of interactive entity.
type Category uint8

const (
	CategoryMember Category = iota // team member avatar
	CategoryPanel                  // narrative text panel
)

func (c Category) String() string {
	switch c {
	case CategoryMember:
		return "member"
	case CategoryPanel:
		return "panel"
	default:
		return "unknown"
	}
}

// UnmarshalText parses "member" or "panel".
func (c *Category) UnmarshalText(text []byte) error {
	switch string(text) {
	case "member", "":
		*c = CategoryMember
	case "panel":
		*c = CategoryPanel
	default:
		return fmt.Errorf("unknown category %q", text)
	}
	return nil
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeGroup  NodeType = iota // grouping node with no visual output
	NodeTypeMesh                   // sphere or quad geometry with a material
	NodeTypePoints                 // point cloud (star field layer)
	NodeTypeLight                  // point light
)

// EventType identifies a kind of scene event forwarded to listeners and sinks.
type EventType uint8

const (
	EventHoverEnter EventType = iota // pointer started hovering an entity
	EventHoverLeave                  // pointer stopped hovering an entity
	EventSelect                      // an entity was selected
	EventDeselect                    // the selection was cleared
	EventDragStart                   // an orbit drag started
	EventDragEnd                     // an orbit drag ended
)

func (e EventType) String() string {
	switch e {
	case EventHoverEnter:
		return "hover-enter"
	case EventHoverLeave:
		return "hover-leave"
	case EventSelect:
		return "select"
	case EventDeselect:
		return "deselect"
	case EventDragStart:
		return "drag-start"
	case EventDragEnd:
		return "drag-end"
	default:
		return "unknown"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

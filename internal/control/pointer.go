package control

import (
	"fmt"
	"time"
)

// Pointer limits.
const (
	TrailMaxAge    = 1200 * time.Millisecond
	MaxDrawPoints  = 2000
	KeepDrawPoints = 1000
	StrokeGap      = 150 * time.Millisecond
)

// Color is one entry of the pointer palette.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
	R    uint8  `json:"-"`
	G    uint8  `json:"-"`
	B    uint8  `json:"-"`
}

// Palette is the fixed color cycle, starting at red.
var Palette = []Color{
	{Name: "red", Hex: "#FF0000", R: 0xff},
	{Name: "green", Hex: "#00FF00", G: 0xff},
	{Name: "blue", Hex: "#0000FF", B: 0xff},
	{Name: "yellow", Hex: "#FFFF00", R: 0xff, G: 0xff},
	{Name: "magenta", Hex: "#FF00FF", R: 0xff, B: 0xff},
	{Name: "cyan", Hex: "#00FFFF", G: 0xff, B: 0xff},
	{Name: "white", Hex: "#FFFFFF", R: 0xff, G: 0xff, B: 0xff},
}

// Size is the pointer radius class.
type Size string

const (
	SizeSmall  Size = "small"
	SizeNormal Size = "normal"
	SizeLarge  Size = "large"
)

var sizeCycle = []Size{SizeSmall, SizeNormal, SizeLarge}

// Radius returns the pointer radius in screen pixels.
func (s Size) Radius() int {
	switch s {
	case SizeSmall:
		return 8
	case SizeLarge:
		return 25
	}
	return 15
}

// Screen is the target display resolution in pixels.
type Screen struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultScreen is a 1080p display.
var DefaultScreen = Screen{Width: 1920, Height: 1080}

// Validate checks that both dimensions are positive.
func (s Screen) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", s.Width, s.Height)
	}
	return nil
}

// Map converts a normalized landmark position to screen pixels. The x axis
// is flipped so that moving the hand right moves the pointer right in front
// of a facing camera.
func (s Screen) Map(nx, ny float64) (int, int) {
	x := s.Width - int(nx*float64(s.Width))
	y := int(ny * float64(s.Height))
	return x, y
}

// TimedPoint is a screen position with the time it was recorded.
type TimedPoint struct {
	X int       `json:"x"`
	Y int       `json:"y"`
	T time.Time `json:"t"`
}

// PointerState is the Pointer mode sub-state. It is owned by the dispatcher
// and must not be shared between goroutines; use Snapshot instead.
type PointerState struct {
	x, y        int
	hasPosition bool
	color       int
	size        Size
	drawing     bool
	trail       []TimedPoint
	draw        []TimedPoint
}

// NewPointerState returns the initial state: red, normal size, not drawing.
func NewPointerState() *PointerState {
	return &PointerState{size: SizeNormal}
}

// UpdatePosition moves the pointer to (x, y) screen pixels. The point is
// appended to the draw points while drawing and to the trail otherwise.
// Trail entries that are TrailMaxAge old or older are dropped.
func (p *PointerState) UpdatePosition(x, y int, now time.Time) {
	p.x, p.y = x, y
	p.hasPosition = true

	pt := TimedPoint{X: x, Y: y, T: now}
	if p.drawing {
		p.draw = append(p.draw, pt)
		if len(p.draw) > MaxDrawPoints {
			kept := make([]TimedPoint, KeepDrawPoints)
			copy(kept, p.draw[len(p.draw)-KeepDrawPoints:])
			p.draw = kept
		}
	} else {
		p.trail = append(p.trail, pt)
	}

	p.pruneTrail(now)
}

func (p *PointerState) pruneTrail(now time.Time) {
	i := 0
	for i < len(p.trail) && now.Sub(p.trail[i].T) >= TrailMaxAge {
		i++
	}
	if i > 0 {
		p.trail = append(p.trail[:0], p.trail[i:]...)
	}
}

// Position returns the last pointer position and whether one was set.
func (p *PointerState) Position() (int, int, bool) {
	return p.x, p.y, p.hasPosition
}

// Color returns the current palette entry.
func (p *PointerState) Color() Color {
	return Palette[p.color]
}

// Size returns the current pointer size.
func (p *PointerState) Size() Size {
	return p.size
}

// Drawing reports whether drawing is enabled.
func (p *PointerState) Drawing() bool {
	return p.drawing
}

// CycleSize advances small -> normal -> large -> small.
func (p *PointerState) CycleSize() Size {
	next := 0
	for i, s := range sizeCycle {
		if s == p.size {
			next = (i + 1) % len(sizeCycle)
			break
		}
	}
	p.size = sizeCycle[next]
	return p.size
}

// CycleColor advances to the next palette color, wrapping after white.
func (p *PointerState) CycleColor() Color {
	p.color = (p.color + 1) % len(Palette)
	return Palette[p.color]
}

// ToggleDrawing flips drawing and returns the new value.
func (p *PointerState) ToggleDrawing() bool {
	p.drawing = !p.drawing
	return p.drawing
}

// ClearDrawing discards the draw points and stops drawing.
func (p *PointerState) ClearDrawing() {
	p.draw = nil
	p.drawing = false
}

// Reset clears the position, trail and draw points and stops drawing.
// Color and size are kept.
func (p *PointerState) Reset() {
	p.x, p.y = 0, 0
	p.hasPosition = false
	p.drawing = false
	p.trail = nil
	p.draw = nil
}

// Trail returns a copy of the trail points, oldest first.
func (p *PointerState) Trail() []TimedPoint {
	return append([]TimedPoint(nil), p.trail...)
}

// DrawPoints returns a copy of the draw points, oldest first.
func (p *PointerState) DrawPoints() []TimedPoint {
	return append([]TimedPoint(nil), p.draw...)
}

// Strokes groups the draw points into strokes. Consecutive points less
// than StrokeGap apart belong to the same stroke.
func (p *PointerState) Strokes() [][]TimedPoint {
	return groupStrokes(p.draw)
}

func groupStrokes(points []TimedPoint) [][]TimedPoint {
	var strokes [][]TimedPoint
	var current []TimedPoint
	for i, pt := range points {
		if i > 0 && pt.T.Sub(points[i-1].T) >= StrokeGap {
			strokes = append(strokes, current)
			current = nil
		}
		current = append(current, pt)
	}
	if len(current) > 0 {
		strokes = append(strokes, current)
	}
	return strokes
}

// PointerSnapshot is an immutable copy of a PointerState.
type PointerSnapshot struct {
	X       int            `json:"x"`
	Y       int            `json:"y"`
	Visible bool           `json:"visible"`
	Color   Color          `json:"color"`
	Size    Size           `json:"size"`
	Radius  int            `json:"radius"`
	Drawing bool           `json:"drawing"`
	Trail   []TimedPoint   `json:"trail"`
	Strokes [][]TimedPoint `json:"strokes"`
}

// Snapshot copies the state for use by other goroutines.
func (p *PointerState) Snapshot() PointerSnapshot {
	return PointerSnapshot{
		X:       p.x,
		Y:       p.y,
		Visible: p.hasPosition,
		Color:   p.Color(),
		Size:    p.size,
		Radius:  p.size.Radius(),
		Drawing: p.drawing,
		Trail:   p.Trail(),
		Strokes: groupStrokes(p.DrawPoints()),
	}
}

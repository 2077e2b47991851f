package focus

import (
	"fmt"
	"strings"
)

// RowTolerance is the largest vertical-center distance, exclusive, at which two
// items are considered to sit on the same row.
const RowTolerance = 50.0

// Rect is a screen-space rectangle as reported by getBoundingClientRect
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// CenterY returns the vertical center of the rectangle
func (r Rect) CenterY() float64 {
	return r.Top + r.Height/2
}

// Bottom returns the bottom edge
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Right returns the right edge
func (r Rect) Right() float64 {
	return r.Left + r.Width
}

// Empty reports whether the rectangle has no area
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Item is a navigable element on the page. Two items are the same item when
// their IDs are equal.
type Item struct {
	ID       string
	Rect     Rect
	Label    string
	Href     string // own link target, set for anchors
	LinkHref string // first descendant link, used when Href is empty
}

// Direction represents movement directions
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{"up", "down", "left", "right"}

func (d Direction) String() string {
	if d < Up || d > Right {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection converts "up", "down", "left" or "right" to a Direction
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if strings.EqualFold(s, name) {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Vertical reports whether the direction moves through the linear sequence
func (d Direction) Vertical() bool {
	return d == Up || d == Down
}

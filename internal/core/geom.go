// Package core provides fundamental types and utilities shared by the game
// and the platform. It has no external dependencies so game logic stays pure
// and testable.
package core

// Rect is an axis-aligned box in world units. The Y axis points up from the
// ground baseline, so Y is the bottom edge and Top() the upper one.
type Rect struct {
	X, Y float64 // Bottom-left corner
	W, H float64 // Width and height
}

// NewRect creates a rectangle from its bottom-left corner and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Top returns the y-coordinate of the upper edge.
func (r Rect) Top() float64 {
	return r.Y + r.H
}

// Inset shrinks the rectangle by dx on the left and right and by dy on the
// bottom and top. Negative values grow it.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// Intersects reports whether the two rectangles overlap with positive area.
// Touching edges do not count.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.Right() &&
		r.Right() > other.X &&
		r.Y < other.Top() &&
		r.Top() > other.Y
}

// ContainsRect reports whether other lies entirely within r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Right() <= r.Right() &&
		other.Y >= r.Y && other.Top() <= r.Top()
}

// CellRect is an integer rectangle in screen cells, top-left origin.
type CellRect struct {
	X, Y int // Top-left corner
	W, H int // Width and height in cells
}

// NewCellRect creates a new cell rectangle.
func NewCellRect(x, y, w, h int) CellRect {
	return CellRect{X: x, Y: y, W: w, H: h}
}

// Right returns the column just past the right edge.
func (r CellRect) Right() int {
	return r.X + r.W
}

// Bottom returns the row just past the bottom edge.
func (r CellRect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

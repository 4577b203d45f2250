package valueobjects

// Size is the canvas the layout engine works in, in layout units
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewSize returns a size, falling back to a sane minimum for degenerate
// dimensions (a terminal can report 0x0 before its first resize event)
func NewSize(width, height float64) Size {
	if width < 1 || !isValidCoordinate(width) {
		width = 1
	}
	if height < 1 || !isValidCoordinate(height) {
		height = 1
	}
	return Size{Width: width, Height: height}
}

// Center returns the midpoint of the canvas
func (s Size) Center() Position {
	return Position{x: s.Width / 2, y: s.Height / 2}
}

// MinSide returns the shorter dimension
func (s Size) MinSide() float64 {
	if s.Width < s.Height {
		return s.Width
	}
	return s.Height
}

package render

import "math"

// Viewport is the pan/zoom transform applied to the whole drawing. Node
// coordinates stay in layout space; only the containing group moves.
type Viewport struct {
	scale   float64
	offsetX float64
	offsetY float64
	minZoom float64
	maxZoom float64
}

// NewViewport returns an identity viewport with zoom clamped to
// [minZoom, maxZoom]
func NewViewport(minZoom, maxZoom float64) *Viewport {
	if minZoom <= 0 {
		minZoom = 0.5
	}
	if maxZoom < minZoom {
		maxZoom = minZoom
	}
	return &Viewport{scale: 1, minZoom: minZoom, maxZoom: maxZoom}
}

// Scale returns the applied zoom factor
func (v *Viewport) Scale() float64 { return v.scale }

// Offset returns the applied translation in screen units
func (v *Viewport) Offset() (float64, float64) { return v.offsetX, v.offsetY }

// Reset returns to the identity transform
func (v *Viewport) Reset() {
	v.scale = 1
	v.offsetX, v.offsetY = 0, 0
}

// Pan translates by (dx, dy) screen units
func (v *Viewport) Pan(dx, dy float64) {
	v.offsetX += dx
	v.offsetY += dy
}

// SetZoom sets the zoom factor, clamped to the configured range
func (v *Viewport) SetZoom(scale float64) {
	v.scale = v.clamp(scale)
}

// ZoomAt multiplies the zoom by factor while keeping the world point under
// the screen point (sx, sy) fixed
func (v *Viewport) ZoomAt(sx, sy, factor float64) {
	wx, wy := v.ScreenToWorld(sx, sy)
	v.scale = v.clamp(v.scale * factor)
	v.offsetX = sx - wx*v.scale
	v.offsetY = sy - wy*v.scale
}

// ScreenToWorld maps a screen point to layout coordinates
func (v *Viewport) ScreenToWorld(sx, sy float64) (float64, float64) {
	return (sx - v.offsetX) / v.scale, (sy - v.offsetY) / v.scale
}

// WorldToScreen maps layout coordinates to a screen point
func (v *Viewport) WorldToScreen(wx, wy float64) (float64, float64) {
	return wx*v.scale + v.offsetX, wy*v.scale + v.offsetY
}

func (v *Viewport) clamp(scale float64) float64 {
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return v.scale
	}
	return math.Max(v.minZoom, math.Min(v.maxZoom, scale))
}

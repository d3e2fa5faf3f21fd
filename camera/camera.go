// Package camera provides a 2D camera that follows the player around a
// bounded square arena.
package camera

// Camera controls the viewport into the arena.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	ViewportW, ViewportH float32
	WorldSize            float32

	MinZoom, MaxZoom float32

	// Smoothing is the fraction of the distance to the target covered per
	// second of Follow. Zero snaps.
	Smoothing float32
}

// New creates a camera centered on the arena with 1:1 zoom.
func New(viewportW, viewportH, worldSize float32) *Camera {
	c := &Camera{
		X:         worldSize / 2,
		Y:         worldSize / 2,
		Zoom:      1.0,
		WorldSize: worldSize,
		MaxZoom:   3.0,
		Smoothing: 6,
	}
	c.Resize(viewportW, viewportH)
	return c
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Follow moves the camera toward (wx, wy) over dt seconds and keeps the
// view inside the arena.
func (c *Camera) Follow(wx, wy, dt float32) {
	t := float32(1)
	if c.Smoothing > 0 {
		t = clamp(c.Smoothing*dt, 0, 1)
	}
	c.X += (wx - c.X) * t
	c.Y += (wy - c.Y) * t
	c.clampCenter()
}

// Resize updates viewport dimensions and recalculates the zoom floor so
// the view never shows more than the whole arena along its longer side.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = max(viewportW, viewportH) / c.WorldSize
	c.SetZoom(c.Zoom)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the arena center at 1:1 zoom.
func (c *Camera) Reset() {
	c.X = c.WorldSize / 2
	c.Y = c.WorldSize / 2
	c.SetZoom(1)
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampCenter keeps the visible area inside the arena, centering on an
// axis the view is wider than.
func (c *Camera) clampCenter() {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	c.X = clampAxis(c.X, halfW, c.WorldSize)
	c.Y = clampAxis(c.Y, halfH, c.WorldSize)
}

func clampAxis(v, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(v, half, size-half)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	return min(max(x, lo), hi)
}

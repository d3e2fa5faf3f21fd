package renderer

import rl "github.com/gen2brain/raylib-go/raylib"

// BackgroundRenderer draws the arena floor, its optional grid and walls.
type BackgroundRenderer struct {
	WorldSize float32
	Spacing   float32 // Grid spacing in world units

	Void   rl.Color // Outside the arena
	Floor  rl.Color
	Grid   rl.Color
	Border rl.Color
}

// NewBackgroundRenderer creates a floor renderer for a square arena.
func NewBackgroundRenderer(worldSize float32, baseR, baseG, baseB uint8) *BackgroundRenderer {
	return &BackgroundRenderer{
		WorldSize: worldSize,
		Spacing:   200,
		Void:      rl.Color{R: 6, G: 6, B: 10, A: 255},
		Floor:     rl.Color{R: baseR, G: baseG, B: baseB, A: 255},
		Grid:      rl.Color{R: baseR + 18, G: baseG + 18, B: baseB + 24, A: 255},
		Border:    rl.Color{R: 120, G: 60, B: 70, A: 255},
	}
}

// Clear fills the screen with the void color. Call before the camera pass.
func (b *BackgroundRenderer) Clear() {
	rl.ClearBackground(b.Void)
}

// Draw renders the floor in world space, limited to the visible bounds.
func (b *BackgroundRenderer) Draw(minX, minY, maxX, maxY float32, grid bool) {
	size := b.WorldSize
	rl.DrawRectangleV(rl.Vector2{}, rl.Vector2{X: size, Y: size}, b.Floor)

	if grid && b.Spacing > 0 {
		x0 := max(float32(int(minX/b.Spacing))*b.Spacing, 0)
		y0 := max(float32(int(minY/b.Spacing))*b.Spacing, 0)
		for x := x0; x <= min(maxX, size); x += b.Spacing {
			rl.DrawLineV(rl.Vector2{X: x, Y: max(minY, 0)}, rl.Vector2{X: x, Y: min(maxY, size)}, b.Grid)
		}
		for y := y0; y <= min(maxY, size); y += b.Spacing {
			rl.DrawLineV(rl.Vector2{X: max(minX, 0), Y: y}, rl.Vector2{X: min(maxX, size), Y: y}, b.Grid)
		}
	}

	rl.DrawRectangleLinesEx(rl.Rectangle{X: -4, Y: -4, Width: size + 8, Height: size + 8}, 4, b.Border)
}

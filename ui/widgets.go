package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.Panel)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.Border)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.Header)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.Label)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.Value)
	return y + r.Theme.LineHeight
}

// DrawMeter draws a labeled bar filled to ratio with a caption on the
// bar, and returns the new Y position.
func (r *Renderer) DrawMeter(x, y, width int32, label string, ratio float32, fill rl.Color, caption string) int32 {
	ratio = min(max(ratio, 0), 1)
	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth

	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.Label)
	rl.DrawRectangle(barX, y+1, barWidth, r.Theme.BarHeight, r.Theme.Track)
	rl.DrawRectangle(barX, y+1, int32(float32(barWidth)*ratio), r.Theme.BarHeight, fill)
	if caption != "" {
		rl.DrawText(caption, barX+4, y+1, r.Theme.FontSize-2, r.Theme.Value)
	}
	return y + r.Theme.LineHeight + 2
}

// HealthColor picks a fill color by remaining fraction.
func (r *Renderer) HealthColor(ratio float32) rl.Color {
	switch {
	case ratio < 0.3:
		return r.Theme.Danger
	case ratio < 0.6:
		return r.Theme.Warning
	default:
		return r.Theme.Healthy
	}
}

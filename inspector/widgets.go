package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow      = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 255, G: 200, B: 100, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

const (
	labelHeight = 20
	barHeight   = 18
	angleSize   = 40
)

// FieldHeight is the vertical space DrawField uses for f.
func FieldHeight(f Field) int32 {
	switch f.Widget {
	case WidgetBar, WidgetBool:
		return barHeight
	case WidgetAngle:
		return angleSize + 4
	default:
		return labelHeight
	}
}

// DrawLabel renders a text value.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	text := FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 16, ColorText)
	return labelHeight
}

// DrawBar renders a horizontal bar of value against maxVal.
func DrawBar(x, y int32, name string, value, maxVal float64) int32 {
	ratio := float32(0)
	if maxVal > 0 {
		ratio = float32(min(max(value/maxVal, 0), 1))
	}

	const barWidth = int32(120)
	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 100
	rl.DrawRectangle(barX, y, barWidth, 14, ColorBarBg)
	fill := ColorBarFill
	if ratio < 0.3 {
		fill = ColorBarLow
	}
	rl.DrawRectangle(barX, y, int32(float32(barWidth)*ratio), 14, fill)
	rl.DrawText(fmt.Sprintf("%.0f", value), barX+barWidth+5, y, 14, ColorTextDim)
	return barHeight
}

// DrawAngle renders a compass-style angle indicator.
func DrawAngle(x, y int32, name string, radians float64) int32 {
	centerX := x + 100 + angleSize/2
	centerY := y + angleSize/2

	rl.DrawText(name, x, y+angleSize/2-7, 14, ColorTextDim)
	rl.DrawCircle(centerX, centerY, angleSize/2, ColorAngleBg)
	rl.DrawCircleLines(centerX, centerY, angleSize/2, ColorTextDim)

	needle := float32(angleSize/2 - 4)
	rl.DrawLineEx(
		rl.Vector2{X: float32(centerX), Y: float32(centerY)},
		rl.Vector2{
			X: float32(centerX) + needle*float32(math.Cos(radians)),
			Y: float32(centerY) + needle*float32(math.Sin(radians)),
		},
		2,
		ColorAngleNeedle,
	)
	degrees := radians * 180 / math.Pi
	rl.DrawText(fmt.Sprintf("%.0f deg", degrees), x+100+angleSize+5, y+angleSize/2-7, 14, ColorTextDim)
	return angleSize + 4
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	color, text := ColorBoolOff, "OFF"
	if value {
		color, text = ColorBoolOn, "ON"
	}
	rl.DrawRectangle(x+100, y, 14, 14, color)
	rl.DrawText(text, x+119, y, 14, color)
	return barHeight
}

// DrawField renders a field using its widget type and returns its height.
func DrawField(x, y int32, f Field) int32 {
	switch f.Widget {
	case WidgetBar:
		if v, ok := FloatValue(f.Value); ok {
			return DrawBar(x, y, f.Name, v, f.Max)
		}
	case WidgetAngle:
		if v, ok := FloatValue(f.Value); ok {
			return DrawAngle(x, y, f.Name, v)
		}
	case WidgetBool:
		if v, ok := f.Value.(bool); ok {
			return DrawBool(x, y, f.Name, v)
		}
	}
	return DrawLabel(x, y, f.Name, f.Value, f.Options)
}

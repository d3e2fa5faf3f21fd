// Package ui draws the arena HUD, debug panels and menus over the world.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI colors and layout metrics.
type Theme struct {
	Panel, Border  rl.Color
	Header         rl.Color
	Label, Value   rl.Color
	Track          rl.Color // Empty part of a meter
	Healthy        rl.Color
	Warning        rl.Color
	Danger         rl.Color
	Shield, XP     rl.Color
	Boss           rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the arena's dark theme.
func DefaultTheme() Theme {
	return Theme{
		Panel:          rl.Color{R: 14, G: 16, B: 24, A: 215},
		Border:         rl.Color{R: 70, G: 60, B: 90, A: 255},
		Header:         rl.Color{R: 255, G: 200, B: 80, A: 255},
		Label:          rl.LightGray,
		Value:          rl.RayWhite,
		Track:          rl.Color{R: 36, G: 34, B: 44, A: 255},
		Healthy:        rl.Color{R: 100, G: 200, B: 100, A: 255},
		Warning:        rl.Color{R: 210, G: 180, B: 90, A: 255},
		Danger:         rl.Color{R: 200, G: 80, B: 80, A: 255},
		Shield:         rl.Color{R: 90, G: 170, B: 255, A: 255},
		XP:             rl.Color{R: 160, G: 110, B: 255, A: 255},
		Boss:           rl.Color{R: 230, G: 70, B: 90, A: 255},
		Padding:        10,
		LineHeight:     18,
		LabelWidth:     60,
		BarHeight:      14,
		FontSize:       14,
		HeaderFontSize: 16,
	}
}

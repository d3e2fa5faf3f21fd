// Package inspector shows a debug panel for a clicked enemy.
package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arena/camera"
	"github.com/pthm-cable/arena/telemetry"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
)

// pickSlack is added to an enemy's radius when testing clicks.
const pickSlack = 6

// Inspector tracks the selected enemy by id across snapshots.
type Inspector struct {
	selected    uint32
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector places the panel at the top right of the screen.
func NewInspector(screenWidth int32) *Inspector {
	return &Inspector{
		panelX: screenWidth - PanelWidth - 10,
		panelY: 60,
	}
}

// Resize repositions the panel for a new screen width.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - 10
}

// Pick returns the id of the enemy under world point (wx, wy), preferring
// the one whose center is closest.
func Pick(enemies []telemetry.EnemyState, wx, wy float64) (uint32, bool) {
	var (
		best   uint32
		bestSq = math.Inf(1)
		found  bool
	)
	for i := range enemies {
		e := &enemies[i]
		dx, dy := wx-e.X, wy-e.Y
		dsq := dx*dx + dy*dy
		r := e.Radius + pickSlack
		if dsq <= r*r && dsq < bestSq {
			best, bestSq, found = e.ID, dsq, true
		}
	}
	return best, found
}

// HandleInput selects on left click and clears on right click or Escape.
// Clicks on the open panel are ignored.
func (ins *Inspector) HandleInput(cam *camera.Camera, snap *telemetry.Snapshot) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	mouse := rl.GetMousePosition()
	if ins.hasSelected {
		closeX := float32(ins.panelX + PanelWidth - 25)
		closeY := float32(ins.panelY + 5)
		if rl.CheckCollisionPointRec(mouse, rl.Rectangle{X: closeX, Y: closeY, Width: 20, Height: 20}) {
			ins.Deselect()
			return
		}
		if mouse.X >= float32(ins.panelX) && mouse.X <= float32(ins.panelX+PanelWidth) && mouse.Y >= float32(ins.panelY) {
			return
		}
	}

	wx, wy := cam.ScreenToWorld(mouse.X, mouse.Y)
	if id, ok := Pick(snap.Enemies, float64(wx), float64(wy)); ok {
		ins.selected = id
		ins.hasSelected = true
	}
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the selected enemy id.
func (ins *Inspector) Selected() (uint32, bool) {
	return ins.selected, ins.hasSelected
}

// lookup finds the selected enemy, deselecting it once it is gone.
func (ins *Inspector) lookup(snap *telemetry.Snapshot) *telemetry.EnemyState {
	if !ins.hasSelected {
		return nil
	}
	for i := range snap.Enemies {
		if snap.Enemies[i].ID == ins.selected {
			return &snap.Enemies[i]
		}
	}
	ins.Deselect()
	return nil
}

// Draw renders the panel for the selected enemy, if any.
func (ins *Inspector) Draw(snap *telemetry.Snapshot) {
	e := ins.lookup(snap)
	if e == nil {
		return
	}
	fields := ExtractFields(e)

	height := int32(HeaderHeight + 2*PanelPadding)
	for _, f := range fields {
		height += FieldHeight(f)
	}

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	title := fmt.Sprintf("%s #%d", e.Archetype, e.ID)
	rl.DrawText(title, ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, f := range fields {
		y += DrawField(x, y, f)
	}
}

// DrawSelectionHighlight rings the selected enemy in world space. Call
// inside the world camera pass.
func (ins *Inspector) DrawSelectionHighlight(snap *telemetry.Snapshot) {
	e := ins.lookup(snap)
	if e == nil {
		return
	}
	cx, cy := float32(e.X), float32(e.Y)
	radius := float32(e.Radius) * 1.6
	drawArc(cx, cy, radius, 0, 2*math.Pi, rl.Yellow)

	if e.BeamCharging || e.BeamFiring {
		a := float64(e.BeamAngle)
		end := rl.Vector2{X: cx + radius*2*float32(math.Cos(a)), Y: cy + radius*2*float32(math.Sin(a))}
		rl.DrawLineV(rl.Vector2{X: cx, Y: cy}, end, rl.Yellow)
	}
}

// drawArc draws an arc between two angles.
func drawArc(cx, cy, radius, startAngle, endAngle float32, color rl.Color) {
	const segments = 24
	step := (endAngle - startAngle) / segments
	for i := range segments {
		a1 := float64(startAngle + float32(i)*step)
		a2 := a1 + float64(step)
		rl.DrawLineV(
			rl.Vector2{X: cx + radius*float32(math.Cos(a1)), Y: cy + radius*float32(math.Sin(a1))},
			rl.Vector2{X: cx + radius*float32(math.Cos(a2)), Y: cy + radius*float32(math.Sin(a2))},
			color,
		)
	}
}

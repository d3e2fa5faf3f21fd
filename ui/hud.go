package ui

import (
	"fmt"
	"slices"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arena/telemetry"
)

// HUDData holds everything the main HUD shows.
type HUDData struct {
	Player     telemetry.PlayerState
	GameTime   float64
	Alive      int
	Difficulty string
	Sandbox    bool
	FPS        int32
	Paused     bool
	Over       bool

	// First live boss, if any
	Boss *telemetry.EnemyState
}

// HUDFromSnapshot fills HUD data from a session snapshot.
func HUDFromSnapshot(snap *telemetry.Snapshot, difficulty string) HUDData {
	d := HUDData{
		Player:     snap.Player,
		GameTime:   snap.GameTime,
		Alive:      len(snap.Enemies),
		Difficulty: difficulty,
		Over:       snap.Over,
	}
	if i := slices.IndexFunc(snap.Enemies, func(e telemetry.EnemyState) bool { return e.Boss }); i >= 0 {
		d.Boss = &snap.Enemies[i]
	}
	return d
}

// FormatClock renders seconds as m:ss.
func FormatClock(sec float64) string {
	s := int(max(sec, 0))
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders player vitals, progression and run status.
func (h *HUD) Draw(data HUDData, screenWidth, screenHeight int32) {
	r := h.renderer
	th := r.Theme
	pl := data.Player

	const width = 280
	r.DrawPanel(8, 8, width, 118)
	x, y := int32(8)+th.Padding, int32(8)+th.Padding

	hpRatio := ratio(pl.HP, pl.MaxHP)
	y = r.DrawMeter(x, y, width-2*th.Padding, "HP", hpRatio, r.HealthColor(hpRatio), fmt.Sprintf("%.0f / %.0f", pl.HP, pl.MaxHP))
	if pl.MaxShield > 0 || pl.Shield > 0 {
		y = r.DrawMeter(x, y, width-2*th.Padding, "Shield", ratio(pl.Shield, max(pl.MaxShield, pl.Shield)), th.Shield, fmt.Sprintf("%.0f", pl.Shield))
	}
	y = r.DrawMeter(x, y, width-2*th.Padding, fmt.Sprintf("Lv %d", pl.Level), ratio(pl.XP, pl.XPToNext), th.XP, fmt.Sprintf("%.0f / %.0f", pl.XP, pl.XPToNext))
	y = r.DrawLabelValue(x, y, "Score", fmt.Sprintf("%d   credits %d   kills %d", pl.Score, pl.Credits, pl.Kills))
	r.DrawLabelValue(x, y, "Time", fmt.Sprintf("%s   enemies %d", FormatClock(data.GameTime), data.Alive))

	status := fmt.Sprintf("%s | FPS %d", data.Difficulty, data.FPS)
	if data.Sandbox {
		status += " | sandbox"
	}
	if data.Paused {
		status += " | PAUSED"
	}
	rl.DrawText(status, screenWidth-rl.MeasureText(status, th.FontSize)-10, 10, th.FontSize, th.Label)

	if data.Boss != nil {
		h.drawBossBar(data.Boss, screenWidth)
	}
	if data.Over {
		msg := "DESTROYED - press R to restart"
		rl.DrawText(msg, screenWidth/2-rl.MeasureText(msg, 28)/2, screenHeight/2-14, 28, th.Danger)
	}
}

func (h *HUD) drawBossBar(b *telemetry.EnemyState, screenWidth int32) {
	r := h.renderer
	width := screenWidth / 2
	x := (screenWidth - width) / 2
	label := b.Archetype
	if b.Phase != "" {
		label += " / " + b.Phase
	}
	rl.DrawText(label, x, 8, r.Theme.HeaderFontSize, r.Theme.Value)
	rl.DrawRectangle(x, 28, width, 12, r.Theme.Track)
	rl.DrawRectangle(x, 28, int32(float32(width)*ratio(b.HP, b.MaxHP)), 12, r.Theme.Boss)
	if b.Shield > 0 {
		rl.DrawRectangle(x, 41, int32(float32(width)*ratio(b.Shield, b.MaxHP)), 4, r.Theme.Shield)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-22, 14, rl.Gray)
}

// UpgradeMenu offers one button per upgrade while levels are pending.
type UpgradeMenu struct {
	renderer *Renderer
}

// NewUpgradeMenu creates an upgrade menu.
func NewUpgradeMenu() *UpgradeMenu {
	return &UpgradeMenu{renderer: NewRenderer()}
}

// Draw shows the menu and returns the index of the clicked option, or -1.
// Options are labeled with their number key.
func (m *UpgradeMenu) Draw(pending int, options []string, screenWidth, screenHeight int32) int {
	if pending <= 0 || len(options) == 0 {
		return -1
	}
	const (
		btnW = 220
		btnH = 30
		gap  = 6
	)
	th := m.renderer.Theme
	height := int32(len(options))*(btnH+gap) + 2*th.Padding + th.LineHeight
	x := screenWidth/2 - btnW/2 - th.Padding
	y := screenHeight/2 - height/2
	m.renderer.DrawPanel(x, y, btnW+2*th.Padding, height)
	rl.DrawText(fmt.Sprintf("Level up! (%d pending)", pending), x+th.Padding, y+th.Padding, th.HeaderFontSize, th.Header)

	by := float32(y + th.Padding + th.LineHeight + gap)
	chosen := -1
	for i, opt := range options {
		rect := rl.Rectangle{X: float32(x + th.Padding), Y: by, Width: btnW, Height: btnH}
		if gui.Button(rect, fmt.Sprintf("[%d] %s", i+1, opt)) {
			chosen = i
		}
		by += btnH + gap
	}
	return chosen
}

// PerfPanel renders step phase timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel, phases in step order.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y
	p.renderer.DrawPanel(x-6, y-6, 250, int32(len(telemetry.Phases))*14+52)

	y = p.renderer.DrawSectionHeader(x, y, "Step Performance")
	rl.DrawText(fmt.Sprintf("avg %s  p95 %s", stats.AvgTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-12s %7s %5.1f%%", phase, stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// EventFeed lists the most recent notable events.
type EventFeed struct {
	renderer *Renderer
	Lines    int
}

// NewEventFeed creates a feed showing up to lines events.
func NewEventFeed(lines int) *EventFeed {
	return &EventFeed{renderer: NewRenderer(), Lines: lines}
}

// Draw renders the newest events bottom-up above the control legend.
func (f *EventFeed) Draw(events []telemetry.Event, screenHeight int32) {
	y := screenHeight - 44
	shown := 0
	for i := len(events) - 1; i >= 0 && shown < f.Lines; i-- {
		rl.DrawText(DescribeEvent(events[i]), 10, y, 12, f.renderer.Theme.Label)
		y -= 14
		shown++
	}
}

// DescribeEvent renders an event as one feed line.
func DescribeEvent(e telemetry.Event) string {
	clock := FormatClock(e.Time)
	switch e.Type {
	case telemetry.EventKill:
		return fmt.Sprintf("%s  %s %s destroyed", clock, e.Tier, e.Label)
	case telemetry.EventBossKill:
		return fmt.Sprintf("%s  BOSS %s destroyed", clock, e.Label)
	case telemetry.EventBossPhase:
		return fmt.Sprintf("%s  boss enters %s", clock, e.Label)
	case telemetry.EventPlayerHit:
		return fmt.Sprintf("%s  took %.0f from %s", clock, e.Amount, e.Label)
	case telemetry.EventLevelUp:
		return fmt.Sprintf("%s  level up (%.0f pending)", clock, e.Amount)
	}
	return clock + "  " + e.Type.String()
}

func ratio(v, of float64) float32 {
	if of <= 0 {
		return 0
	}
	return float32(min(max(v/of, 0), 1))
}

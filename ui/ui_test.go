package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/arena/telemetry"
)

func TestOverlayExclusivity(t *testing.T) {
	reg := NewOverlayRegistry()
	assert.Equal(t, []OverlayID{OverlayEventFeed}, reg.EnabledOverlays())

	assert.True(t, reg.Toggle(OverlayHitboxes))
	assert.True(t, reg.Toggle(OverlayBeamGuides))
	assert.False(t, reg.IsEnabled(OverlayHitboxes), "beam guides exclude hitboxes")

	assert.False(t, reg.Toggle("nope"))
	assert.False(t, reg.IsEnabled("nope"))
}

func TestOverlayKeys(t *testing.T) {
	reg := NewOverlayRegistry()
	id, on, ok := reg.HandleKeyPress(rl.KeyF3)
	require.True(t, ok)
	assert.Equal(t, OverlayPerf, id)
	assert.True(t, on)

	_, _, ok = reg.HandleKeyPress(rl.KeyQ)
	assert.False(t, ok)
	assert.Equal(t, []string{"world", "panels", "debug"}, reg.Categories())
	assert.Len(t, reg.ByCategory("panels"), 3)
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0, "0:00"},
		{59.9, "0:59"},
		{61, "1:01"},
		{725, "12:05"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatClock(tt.sec))
		})
	}
}

func TestDescribeEvent(t *testing.T) {
	assert.Equal(t, "1:05  elite brute destroyed",
		DescribeEvent(telemetry.Event{Type: telemetry.EventKill, Time: 65, Label: "brute", Tier: "elite"}))
	assert.Equal(t, "0:10  took 22 from blast",
		DescribeEvent(telemetry.Event{Type: telemetry.EventPlayerHit, Time: 10, Label: "blast", Amount: 22}))
	assert.Equal(t, "5:00  boss enters salvo",
		DescribeEvent(telemetry.Event{Type: telemetry.EventBossPhase, Time: 300, Label: "salvo"}))
}

func TestHUDFromSnapshot(t *testing.T) {
	snap := &telemetry.Snapshot{
		GameTime: 12,
		Player:   telemetry.PlayerState{HP: 50, MaxHP: 100},
		Enemies: []telemetry.EnemyState{
			{ID: 1, Archetype: "scout"},
			{ID: 2, Archetype: "dreadnought", Boss: true},
		},
	}
	d := HUDFromSnapshot(snap, "normal")
	assert.Equal(t, 2, d.Alive)
	require.NotNil(t, d.Boss)
	assert.Equal(t, uint32(2), d.Boss.ID)
	assert.Equal(t, float32(0.5), ratio(d.Player.HP, d.Player.MaxHP))
	assert.Zero(t, ratio(1, 0))
}

func TestControlRows(t *testing.T) {
	reg := NewOverlayRegistry()
	rows := controlRows(reg)
	require.Len(t, rows, 10, "three headers and seven overlays")

	assert.Equal(t, "World (0/2)", rows[0].header)
	assert.Equal(t, OverlayArenaGrid, rows[1].desc.ID)
	assert.Equal(t, "Panels (1/3)", rows[3].header)
	assert.True(t, rows[5].on, "event feed starts enabled")
	assert.Equal(t, "Debug (0/2)", rows[7].header)
	assert.Equal(t, "Debug", categoryLabel("debug"))
}

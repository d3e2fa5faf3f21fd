package main

import (
	"fmt"
	"maps"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/arena/camera"
	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/game"
	"github.com/pthm-cable/arena/inspector"
	"github.com/pthm-cable/arena/renderer"
	"github.com/pthm-cable/arena/ui"
)

const (
	maxEffects   = 2048
	feedLines    = 8
	controlsHelp = "WASD move | mouse aim | LMB/Space fire | F autofire | 1-7 upgrade | P pause | R restart | F8 difficulty | Tab overlays"
	sandboxHelp  = " | Z X C V B N M , summon"
)

// play runs the interactive window until it is closed.
func play(cfg *config.Config, opts game.Options) error {
	sw, sh := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(sw, sh, "Arena")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(0) // Escape deselects in the inspector

	fx := renderer.NewEffects(maxEffects)
	opts.Events = fx
	session, err := game.NewSession(cfg, opts)
	if err != nil {
		return err
	}
	defer session.Close()

	cam := camera.New(float32(sw), float32(sh), float32(cfg.World.Size))
	world := renderer.NewWorldRenderer(cfg)
	controls := &renderer.Controls{AutoFire: true, Sandbox: opts.Sandbox}
	overlays := ui.NewOverlayRegistry()
	panel := ui.NewControlsPanel(10, 120, 240)
	hud := ui.NewHUD()
	menu := ui.NewUpgradeMenu()
	perf := ui.NewPerfPanel(sw-230, 10)
	feed := ui.NewEventFeed(feedLines)
	ins := inspector.NewInspector(sw)

	presets := slices.Sorted(maps.Keys(cfg.Difficulty.Presets))
	upgrades := game.Upgrades()
	options := make([]string, len(upgrades))
	for i, u := range upgrades {
		options[i] = u.String()
	}
	help := controlsHelp
	if opts.Sandbox {
		help += sandboxHelp
	}

	paused := false
	menuChoice := -1
	snap := session.Snapshot()

	for !rl.WindowShouldClose() {
		if rl.IsWindowResized() {
			sw, sh = int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
			cam.Resize(float32(sw), float32(sh))
			perf.SetPosition(sw-230, 10)
			ins.Resize(sw)
		}

		overlays.PollKeys()
		switch {
		case rl.IsKeyPressed(rl.KeyP):
			paused = !paused
		case rl.IsKeyPressed(rl.KeyR):
			session.Reset()
			fx.Reset()
			ins.Deselect()
			paused = false
		case rl.IsKeyPressed(rl.KeyTab):
			panel.Toggle()
		case rl.IsKeyPressed(rl.KeyF8):
			next := presets[(slices.Index(presets, cfg.Difficulty.Active)+1)%len(presets)]
			if err := session.SetDifficulty(next); err != nil {
				return fmt.Errorf("switching difficulty: %w", err)
			}
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			cam.ZoomBy(1 + 0.1*wheel)
		}

		in := controls.Capture(cam, snap.Player.X, snap.Player.Y)
		if menuChoice >= 0 {
			in.Upgrade = upgrades[menuChoice]
		}
		if overlays.IsEnabled(ui.OverlayInspector) {
			ins.HandleInput(cam, snap)
		}

		dt := float64(rl.GetFrameTime())
		if !paused {
			session.Step(in, dt)
			fx.Update(dt)
		}
		session.RecordFrame()
		snap = session.Snapshot()
		cam.Follow(float32(snap.Player.X), float32(snap.Player.Y), float32(dt))

		rl.BeginDrawing()
		world.Draw(snap, cam, fx, renderer.DrawOptions{
			Grid:       overlays.IsEnabled(ui.OverlayArenaGrid),
			Hitboxes:   overlays.IsEnabled(ui.OverlayHitboxes),
			Magnet:     overlays.IsEnabled(ui.OverlayMagnet),
			BeamGuides: overlays.IsEnabled(ui.OverlayBeamGuides),
		})
		if overlays.IsEnabled(ui.OverlayInspector) {
			rl.BeginMode2D(renderer.Camera2D(cam, 0, 0))
			ins.DrawSelectionHighlight(snap)
			rl.EndMode2D()
			ins.Draw(snap)
		}

		data := ui.HUDFromSnapshot(snap, cfg.Difficulty.Active)
		data.Sandbox = opts.Sandbox
		data.FPS = rl.GetFPS()
		data.Paused = paused
		hud.Draw(data, sw, sh)
		hud.DrawControls(sh, help)
		menuChoice = menu.Draw(snap.Player.Pending, options, sw, sh)

		if overlays.IsEnabled(ui.OverlayPerf) {
			perf.Draw(session.Perf())
		}
		if overlays.IsEnabled(ui.OverlayEventFeed) {
			feed.Draw(snap.Recent, sh)
		}
		panel.Draw(overlays)
		rl.EndDrawing()
	}
	return nil
}

package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/camera"
	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/telemetry"
)

// DrawOptions toggles optional world layers.
type DrawOptions struct {
	Grid       bool
	Hitboxes   bool
	Magnet     bool
	BeamGuides bool
}

var (
	colorPlayer     = rl.Color{R: 120, G: 230, B: 255, A: 255}
	colorPlayerHurt = rl.Color{R: 255, G: 120, B: 120, A: 255}
	colorShield     = rl.Color{R: 90, G: 170, B: 255, A: 160}
	colorSlow       = rl.Color{R: 140, G: 200, B: 255, A: 200}
	colorHitbox     = rl.Color{R: 0, G: 255, B: 0, A: 140}
	colorGuide      = rl.Color{R: 255, G: 255, B: 255, A: 60}
)

// tierRing is the outline color marking an enemy's tier.
var tierRing = map[string]rl.Color{
	"elite":     {R: 80, G: 160, B: 255, A: 255},
	"legendary": {R: 255, G: 200, B: 60, A: 255},
	"miniboss":  {R: 220, G: 80, B: 255, A: 255},
}

var pickupColor = map[string]rl.Color{
	"xp":     {R: 160, G: 110, B: 255, A: 255},
	"credit": {R: 255, G: 210, B: 70, A: 255},
	"heal":   {R: 90, G: 230, B: 120, A: 255},
	"shield": {R: 90, G: 170, B: 255, A: 255},
}

// WorldRenderer draws one snapshot through a camera.
type WorldRenderer struct {
	col        config.CollisionConfig
	background *BackgroundRenderer
	particles  *ParticleRenderer
	colors     map[string]rl.Color
}

// NewWorldRenderer creates a renderer for the configured arena.
func NewWorldRenderer(cfg *config.Config) *WorldRenderer {
	return &WorldRenderer{
		col:        cfg.Collision,
		background: NewBackgroundRenderer(float32(cfg.World.Size), 18, 20, 28),
		particles:  NewParticleRenderer(),
		colors:     make(map[string]rl.Color),
	}
}

// Camera2D converts the arena camera, offset by shake pixels.
func Camera2D(cam *camera.Camera, shakeX, shakeY float32) rl.Camera2D {
	return rl.Camera2D{
		Offset: rl.Vector2{X: cam.ViewportW/2 + shakeX, Y: cam.ViewportH/2 + shakeY},
		Target: rl.Vector2{X: cam.X, Y: cam.Y},
		Zoom:   cam.Zoom,
	}
}

// Draw renders the arena, entities and effects. The caller owns
// BeginDrawing/EndDrawing; HUD layers go on top afterwards.
func (w *WorldRenderer) Draw(snap *telemetry.Snapshot, cam *camera.Camera, fx *Effects, opts DrawOptions) {
	w.background.Clear()

	var sx, sy float32
	if fx != nil && fx.Shake > 0 {
		// Deterministic wobble keyed to game time
		t := snap.GameTime * 60
		sx = float32(fx.Shake * math.Sin(t*1.7))
		sy = float32(fx.Shake * math.Cos(t*2.3))
	}

	rl.BeginMode2D(Camera2D(cam, sx, sy))
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	w.background.Draw(minX, minY, maxX, maxY, opts.Grid)

	for i := range snap.Pickups {
		p := &snap.Pickups[i]
		if cam.IsVisible(float32(p.X), float32(p.Y), float32(p.Radius)) {
			w.drawPickup(p)
		}
	}
	for i := range snap.Enemies {
		e := &snap.Enemies[i]
		w.drawBeam(e, opts.BeamGuides)
		if cam.IsVisible(float32(e.X), float32(e.Y), float32(e.Radius)*2) {
			w.drawEnemy(e, opts.Hitboxes)
		}
	}
	for i := range snap.Projectiles {
		w.drawProjectile(&snap.Projectiles[i], cam, opts)
	}
	w.drawPlayer(&snap.Player, opts)

	if fx != nil {
		w.particles.Draw(fx.Particles)
	}
	rl.EndMode2D()

	if fx != nil {
		drawScreenEffects(fx, cam)
	}
}

func (w *WorldRenderer) drawPlayer(p *telemetry.PlayerState, opts DrawOptions) {
	pos := rl.Vector2{X: float32(p.X), Y: float32(p.Y)}
	radius := float32(p.Radius)

	if opts.Magnet {
		rl.DrawCircleLinesV(pos, float32(p.Magnet), colorGuide)
	}
	body := colorPlayer
	if p.Hurt {
		body = colorPlayerHurt
	}
	rl.DrawCircleV(pos, radius, body)
	if p.Shield > 0 {
		rl.DrawRing(pos, radius+3, radius+6, 0, 360, 32, colorShield)
	}

	aim := r2.Vec{X: p.AimX, Y: p.AimY}
	if n := r2.Norm(aim); n > 0 {
		tip := r2.Add(r2.Vec{X: p.X, Y: p.Y}, r2.Scale((p.Radius+10)/n, aim))
		rl.DrawLineEx(pos, vec(tip), 3, rl.White)
	}
	if opts.Hitboxes {
		rl.DrawCircleLinesV(pos, radius, colorHitbox)
	}
}

func (w *WorldRenderer) drawEnemy(e *telemetry.EnemyState, hitbox bool) {
	pos := rl.Vector2{X: float32(e.X), Y: float32(e.Y)}
	radius := float32(e.Radius)
	c := w.color(e.Color)

	rl.DrawCircleV(pos, radius, c)
	if ring, ok := tierRing[e.Tier]; ok {
		rl.DrawRing(pos, radius+2, radius+5, 0, 360, 32, ring)
	}
	if e.Boss {
		rl.DrawRing(pos, radius+6, radius+9, 0, 360, 48, rl.Color{R: 255, G: 80, B: 80, A: 255})
	}
	if e.Shield > 0 || e.Shielded {
		rl.DrawCircleLinesV(pos, radius+11, colorShield)
	}
	if e.Slowed {
		rl.DrawCircleLinesV(pos, radius*0.6, colorSlow)
	}

	// Health pip for damaged non-boss enemies; bosses use the HUD bar
	if !e.Boss && e.HP < e.MaxHP && e.MaxHP > 0 {
		frac := float32(e.HP / e.MaxHP)
		rl.DrawRectangleV(rl.Vector2{X: pos.X - radius, Y: pos.Y - radius - 8}, rl.Vector2{X: 2 * radius, Y: 3}, rl.DarkGray)
		rl.DrawRectangleV(rl.Vector2{X: pos.X - radius, Y: pos.Y - radius - 8}, rl.Vector2{X: 2 * radius * frac, Y: 3}, rl.Green)
	}
	if hitbox {
		rl.DrawCircleLinesV(pos, radius, colorHitbox)
	}
}

// drawBeam draws a charging telegraph or a firing beam that narrows as it
// burns out.
func (w *WorldRenderer) drawBeam(e *telemetry.EnemyState, guide bool) {
	if !e.BeamCharging && !e.BeamFiring {
		return
	}
	length, width := w.col.SniperBeamLength, w.col.SniperBeamWidth
	if e.BeamBoss {
		length, width = w.col.BossBeamLength, w.col.BossBeamWidth
	}
	start := r2.Vec{X: e.X, Y: e.Y}
	end := r2.Add(start, r2.Scale(length, r2.Vec{X: math.Cos(e.BeamAngle), Y: math.Sin(e.BeamAngle)}))
	c := w.color(e.Color)

	if e.BeamCharging {
		alpha := uint8(60 + 140*min(max(e.BeamProgress, 0), 1))
		rl.DrawLineEx(vec(start), vec(end), 1+2*float32(e.BeamProgress), rgba(config.RGB{R: c.R, G: c.G, B: c.B}, alpha))
		return
	}
	// A firing beam has finished charging, so it is drawn fully narrowed.
	width *= 1 - w.col.BeamWidthShrink
	rl.DrawLineEx(vec(start), vec(end), float32(width), rl.Color{R: c.R, G: c.G, B: c.B, A: 200})
	rl.DrawLineEx(vec(start), vec(end), float32(width)*0.35, rl.White)
	if guide {
		rl.DrawCircleLinesV(vec(end), float32(width), colorGuide)
	}
}

func (w *WorldRenderer) drawProjectile(p *telemetry.ProjectileState, cam *camera.Camera, opts DrawOptions) {
	pos := rl.Vector2{X: float32(p.X), Y: float32(p.Y)}
	c := w.color(p.Color)

	if p.Laser {
		dir := r2.Vec{X: math.Cos(p.LaserAngle), Y: math.Sin(p.LaserAngle)}
		end := vec(r2.Add(r2.Vec{X: p.X, Y: p.Y}, r2.Scale(p.LaserLength, dir)))
		if !p.LaserFiring {
			rl.DrawLineEx(pos, end, 1+2*float32(p.Charge), rl.Color{R: c.R, G: c.G, B: c.B, A: uint8(50 + 150*p.Charge)})
			return
		}
		rl.DrawLineEx(pos, end, float32(p.LaserWidth), rl.Color{R: c.R, G: c.G, B: c.B, A: 210})
		rl.DrawLineEx(pos, end, float32(p.LaserWidth)*0.3, rl.White)
		if opts.BeamGuides {
			rl.DrawCircleLinesV(end, float32(p.LaserWidth), colorGuide)
		}
		return
	}

	if !cam.IsVisible(pos.X, pos.Y, float32(p.Radius)) {
		return
	}
	radius := float32(p.Radius)
	rl.DrawCircleV(pos, radius, c)
	if p.DirX != 0 || p.DirY != 0 {
		tail := rl.Vector2{X: pos.X - float32(p.DirX)*radius*2.5, Y: pos.Y - float32(p.DirY)*radius*2.5}
		rl.DrawLineEx(tail, pos, radius, rl.Color{R: c.R, G: c.G, B: c.B, A: 110})
	}
	if opts.Hitboxes {
		rl.DrawCircleLinesV(pos, radius, colorHitbox)
	}
}

func (w *WorldRenderer) drawPickup(p *telemetry.PickupState) {
	pos := rl.Vector2{X: float32(p.X), Y: float32(p.Y)}
	c, ok := pickupColor[p.Kind]
	if !ok {
		c = rl.White
	}
	r := float32(p.Radius)
	rl.DrawPoly(pos, 4, r, 45, c)
	rl.DrawPolyLines(pos, 4, r+2, 45, rl.Color{R: 255, G: 255, B: 255, A: 120})
}

// color parses and caches "#rrggbb" entity colors. Bad colors draw magenta.
func (w *WorldRenderer) color(hex string) rl.Color {
	if c, ok := w.colors[hex]; ok {
		return c
	}
	c := rl.Magenta
	if parsed, err := config.ParseRGB(hex); err == nil {
		c = rgba(parsed, 255)
	}
	w.colors[hex] = c
	return c
}

// drawScreenEffects draws the hurt vignette and banner in screen space.
func drawScreenEffects(fx *Effects, cam *camera.Camera) {
	w, h := int32(cam.ViewportW), int32(cam.ViewportH)
	if fx.Hurt > 0 {
		a := uint8(120 * fx.Hurt / hurtLife)
		edge := rl.Color{R: 200, G: 0, B: 0, A: a}
		clearC := rl.Color{R: 200, G: 0, B: 0, A: 0}
		band := h / 6
		rl.DrawRectangleGradientV(0, 0, w, band, edge, clearC)
		rl.DrawRectangleGradientV(0, h-band, w, band, clearC, edge)
	}
	if fx.Banner != "" {
		const size = 30
		a := uint8(255 * fx.BannerAlpha())
		tw := rl.MeasureText(fx.Banner, size)
		rl.DrawText(fx.Banner, w/2-tw/2, h/4, size, rl.Color{R: 255, G: 230, B: 120, A: a})
	}
}

func vec(v r2.Vec) rl.Vector2 {
	return rl.Vector2{X: float32(v.X), Y: float32(v.Y)}
}

func rgba(c config.RGB, a uint8) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: a}
}

// Package renderer draws session snapshots with raylib and turns simulation
// events into short-lived visual effects.
package renderer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/systems"
)

// ParticleType selects how an effect particle is drawn.
type ParticleType uint8

const (
	ParticleExplosion ParticleType = iota
	ParticleFlash
	ParticleLightning
	ParticleNumber
)

// Effect lifetimes in seconds.
const (
	explosionLife = 0.45
	flashLife     = 0.12
	lightningLife = 0.15
	numberLife    = 0.8
	shakeDecay    = 8.0 // Shake amplitude lost per second, as a fraction
	hurtLife      = 0.35
	bannerLife    = 1.5
)

// EffectParticle is one decaying visual effect in world space.
type EffectParticle struct {
	Type    ParticleType
	Pos     r2.Vec
	To      r2.Vec // Lightning end
	Size    float64
	Color   config.RGB
	Text    string
	Life    float64
	MaxLife float64
}

// Ratio is the remaining life fraction in [0, 1].
func (p *EffectParticle) Ratio() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return min(max(p.Life/p.MaxLife, 0), 1)
}

// Effects collects simulation events as particles plus screen-level
// feedback. It never touches simulation state.
type Effects struct {
	systems.NopEvents

	Particles []EffectParticle
	MaxCount  int

	Shake   float64 // Current camera shake amplitude in pixels
	Hurt    float64 // Remaining red vignette time
	Banner  string
	banner  float64
	dropped int
}

var _ systems.Events = (*Effects)(nil)

// NewEffects creates a sink holding at most maxCount particles.
func NewEffects(maxCount int) *Effects {
	return &Effects{MaxCount: maxCount, Particles: make([]EffectParticle, 0, maxCount)}
}

func (fx *Effects) add(p EffectParticle) {
	if fx.MaxCount > 0 && len(fx.Particles) >= fx.MaxCount {
		fx.dropped++
		return
	}
	p.MaxLife = p.Life
	fx.Particles = append(fx.Particles, p)
}

// Dropped returns how many particles were discarded for capacity.
func (fx *Effects) Dropped() int { return fx.dropped }

func (fx *Effects) DamageNumber(pos r2.Vec, amount float64, enemy *components.Enemy) {
	text := "0"
	if amount > 0 {
		text = fmt.Sprintf("%.0f", math.Ceil(amount))
	}
	c := config.RGB{R: 255, G: 235, B: 120}
	if enemy != nil && enemy.IsBoss {
		c = config.RGB{R: 255, G: 140, B: 80}
	}
	fx.add(EffectParticle{Type: ParticleNumber, Pos: pos, Text: text, Color: c, Life: numberLife, Size: 14})
}

func (fx *Effects) PlayerDamaged(amount float64, _ string) {
	fx.Shake = max(fx.Shake, min(4+amount/2, 18))
	fx.Hurt = hurtLife
}

func (fx *Effects) Explosion(pos r2.Vec, radius float64, color config.RGB) {
	fx.add(EffectParticle{Type: ParticleExplosion, Pos: pos, Size: radius, Color: color, Life: explosionLife})
}

func (fx *Effects) Flash(pos r2.Vec, radius float64) {
	fx.add(EffectParticle{Type: ParticleFlash, Pos: pos, Size: radius, Color: config.RGB{R: 255, G: 255, B: 255}, Life: flashLife})
}

func (fx *Effects) Lightning(from, to r2.Vec) {
	fx.add(EffectParticle{Type: ParticleLightning, Pos: from, To: to, Color: config.RGB{R: 150, G: 200, B: 255}, Life: lightningLife, Size: 2})
}

func (fx *Effects) BossPhase(enemy *components.Enemy, _ int, name string) {
	fx.Banner = fmt.Sprintf("%s: %s", enemy.Archetype, name)
	fx.banner = bannerLife
	fx.Shake = max(fx.Shake, 10)
}

func (fx *Effects) LevelUp(pending int) {
	fx.Banner = fmt.Sprintf("LEVEL UP x%d", pending)
	fx.banner = bannerLife
}

// Update ages every effect by dt and drops expired ones in place.
func (fx *Effects) Update(dt float64) {
	n := 0
	for i := range fx.Particles {
		p := &fx.Particles[i]
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		if p.Type == ParticleNumber {
			p.Pos.Y -= 40 * dt
		}
		fx.Particles[n] = *p
		n++
	}
	clear(fx.Particles[n:])
	fx.Particles = fx.Particles[:n]

	fx.Shake = max(fx.Shake*(1-shakeDecay*dt), 0)
	if fx.Shake < 0.1 {
		fx.Shake = 0
	}
	fx.Hurt = max(fx.Hurt-dt, 0)
	if fx.banner = max(fx.banner-dt, 0); fx.banner == 0 {
		fx.Banner = ""
	}
}

// BannerAlpha fades the banner over its last half second.
func (fx *Effects) BannerAlpha() float64 {
	return min(fx.banner/0.5, 1)
}

// Reset drops every effect.
func (fx *Effects) Reset() {
	clear(fx.Particles)
	fx.Particles = fx.Particles[:0]
	fx.Shake, fx.Hurt, fx.banner = 0, 0, 0
	fx.Banner = ""
}

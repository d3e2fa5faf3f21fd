package systems

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
)

// defaultAutoTarget is the auto-aim search radius for weapons without one.
const defaultAutoTarget = 900

// Weapon is the player's equipped weapon.
type Weapon struct {
	Name   string
	Effect components.WeaponEffect
	cfg    config.WeaponConfig
}

// NewWeapon resolves a weapon definition by name.
func NewWeapon(cfg *config.Config, name string) (*Weapon, error) {
	wc, ok := cfg.Weapons[name]
	if !ok {
		return nil, fmt.Errorf("weapon %q: not defined", name)
	}
	effect, ok := components.ParseWeaponEffect(wc.Effect)
	if !ok {
		return nil, fmt.Errorf("weapon %q: effect %q: %w", name, wc.Effect, ErrUnknownBehavior)
	}
	return &Weapon{Name: name, Effect: effect, cfg: wc}, nil
}

// Fire emits projectiles into tc.Out when fire is held and the weapon is off
// cooldown. A zero aim auto-targets the nearest enemy; with nothing to aim
// at, nothing is fired. Only one player laser is alive at a time.
func (w *Weapon) Fire(tc *TickContext, aim r2.Vec, fire bool) {
	pl := tc.Player
	if !fire || pl.Health.HP <= 0 || tc.Time < pl.NextShot {
		return
	}
	if w.Effect == components.EffectLaser && pl.LaserID != 0 {
		return
	}

	dir := unit(aim)
	if dir == (r2.Vec{}) {
		radius := w.cfg.AutoTargetRadius
		if radius <= 0 {
			radius = defaultAutoTarget
		}
		target := tc.nearestEnemy(pl.Pos, radius, nil)
		if target == nil {
			return
		}
		dir = unit(r2.Sub(target.Pos.Vec, pl.Pos))
		if dir == (r2.Vec{}) {
			return
		}
	}

	rate := w.cfg.FireRate * pl.Stats.FireRateMult
	if rate > 0 {
		pl.NextShot = tc.Time + 1/rate
	}

	if w.Effect == components.EffectLaser {
		p := w.projectile(tc, dir)
		p.ID = tc.IDs.Next()
		pl.LaserID = p.ID
		tc.Out.Projectiles = append(tc.Out.Projectiles, components.ProjectileSpawn{Pos: pl.Pos, Projectile: p})
		return
	}

	n := max(w.cfg.Multishot, 1)
	base := angleOf(dir)
	for i := range n {
		offset := 0.0
		if n > 1 {
			offset = -w.cfg.Spread/2 + w.cfg.Spread*float64(i)/float64(n-1)
		} else if w.cfg.Spread > 0 {
			offset = (tc.Rng.Float64() - 0.5) * w.cfg.Spread
		}
		tc.Out.Projectiles = append(tc.Out.Projectiles, components.ProjectileSpawn{
			Pos:        pl.Pos,
			Projectile: w.projectile(tc, fromAngle(base+offset)),
		})
	}
}

func (w *Weapon) projectile(tc *TickContext, dir r2.Vec) components.Projectile {
	pl := tc.Player
	c := w.cfg
	p := components.Projectile{
		Owner:        components.OwnerPlayer,
		Effect:       w.Effect,
		Color:        config.RGB{R: 255, G: 255, B: 255},
		Dir:          dir,
		Speed:        c.Speed,
		Radius:       c.Radius,
		Damage:       c.Damage * pl.Stats.DamageMult,
		Pierce:       c.Pierce,
		Duration:     c.Duration,
		SplashRadius: c.SplashRadius,
		SplashFactor: c.SplashFactor,
	}

	switch w.Effect {
	case components.EffectPiercing:
		p.Pierce += pl.Stats.ExtraPierce
	case components.EffectHoming:
		p.TurnRate = c.HomingTurnRate
		p.SearchRadius = c.HomingSearchRadius
	case components.EffectLaser:
		p.Duration = 0 // set when the beam fires
		p.Laser = components.LaserState{
			ChargeTime:       c.ChargeTime,
			BeamDuration:     c.BeamDuration,
			Length:           c.BeamLength,
			Width:            c.BeamWidth,
			ChargeTurnRate:   c.ChargeTurnRate,
			FireTurnRate:     c.FireTurnRate,
			AutoTargetRadius: c.AutoTargetRadius,
			AimAngle:         angleOf(dir),
			TickInterval:     tc.Cfg.Collision.BeamTickInterval,
		}
	case components.EffectChain:
		p.Chain = components.ChainParams{
			Jumps: c.ChainJumps + pl.Stats.ExtraChain,
			Range: c.ChainRange,
			Decay: c.ChainDecay,
		}
	case components.EffectPulsing:
		impact := c.ImpactMultiplier
		if impact <= 0 {
			impact = 1
		}
		p.Pulse = components.PulseState{
			Interval:     c.PulseInterval,
			Radius:       c.PulseRadius,
			Fraction:     c.PulseFraction,
			ImpactMult:   impact,
			SlowFactor:   c.SlowFactor,
			SlowDuration: c.SlowDuration,
			NextPulse:    c.PulseInterval,
		}
	}
	return p
}

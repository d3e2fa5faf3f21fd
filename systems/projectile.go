package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
)

// ProjectileBehavior is the per-effect logic layered over base integration.
type ProjectileBehavior interface {
	// Update runs before the projectile is integrated.
	Update(tc *TickContext, s *components.Shot)
	// OnHit resolves a direct hit on an enemy by a player projectile.
	OnHit(tc *TickContext, s *components.Shot, target *components.Actor)
	// OnExpire runs once when the projectile dies of age.
	OnExpire(tc *TickContext, s *components.Shot)
	// Integrates reports whether base position integration applies.
	Integrates() bool
}

// BehaviorRegistry maps weapon effects to behaviors.
type BehaviorRegistry struct {
	byEffect map[components.WeaponEffect]ProjectileBehavior
	fallback ProjectileBehavior
}

// NewBehaviorRegistry returns a registry with every built-in behavior.
func NewBehaviorRegistry() *BehaviorRegistry {
	std := Standard{}
	return &BehaviorRegistry{
		byEffect: map[components.WeaponEffect]ProjectileBehavior{
			components.EffectNone:      std,
			components.EffectExplosive: std,
			components.EffectPiercing:  std,
			components.EffectHoming:    Homing{},
			components.EffectLaser:     Laser{},
			components.EffectChain:     Chain{},
			components.EffectPulsing:   Pulsing{},
		},
		fallback: std,
	}
}

// Register replaces the behavior for an effect.
func (r *BehaviorRegistry) Register(effect components.WeaponEffect, b ProjectileBehavior) {
	r.byEffect[effect] = b
}

// For returns the behavior for an effect, falling back to Standard.
func (r *BehaviorRegistry) For(effect components.WeaponEffect) ProjectileBehavior {
	if b, ok := r.byEffect[effect]; ok {
		return b
	}
	return r.fallback
}

// AdvanceProjectiles runs behaviors, integrates positions and expires
// projectiles that outlived their duration or left the world.
func AdvanceProjectiles(tc *TickContext) {
	size := tc.Cfg.World.Size
	for _, s := range tc.Shots {
		p := s.P
		if p.Dead {
			continue
		}
		b := tc.Behavior.For(p.Effect)
		b.Update(tc, s)
		if p.Dead {
			continue
		}

		if b.Integrates() {
			s.Pos.Vec = r2.Add(s.Pos.Vec, r2.Scale(p.Speed*tc.DT, p.Dir))
		}
		p.Elapsed += tc.DT

		if !finite(s.Pos.Vec) {
			tc.Logger.Warn("projectile: non-finite position, dropping", "id", p.ID, "effect", p.Effect.String())
			p.Dead = true
			continue
		}

		pos := s.Pos.Vec
		outside := pos.X < -p.Radius || pos.Y < -p.Radius || pos.X > size+p.Radius || pos.Y > size+p.Radius
		if p.Expired() || outside {
			b.OnExpire(tc, s)
			p.Dead = true
		}
	}
}

// Standard is plain linear flight. A hit damages the target, splashes for
// splashing effects and spends one pierce, consuming the projectile when
// none remain.
type Standard struct{}

func (Standard) Update(*TickContext, *components.Shot) {}

func (Standard) OnHit(tc *TickContext, s *components.Shot, target *components.Actor) {
	p := s.P
	damageEnemy(tc, target, p.Damage)
	p.HitAt(target.Enemy.ID, tc.Time)

	if p.Effect.Splashes() && p.SplashRadius > 0 {
		splash(tc, s.Pos.Vec, p.SplashRadius, p.Damage*p.SplashFactor, target.Enemy.ID)
		tc.Events.Explosion(s.Pos.Vec, p.SplashRadius, p.Color)
	}

	if p.Pierce > 0 {
		p.Pierce--
		return
	}
	p.Dead = true
}

func (Standard) OnExpire(*TickContext, *components.Shot) {}

func (Standard) Integrates() bool { return true }

// Homing steers toward a target at a bounded turn rate. Player missiles
// lock the nearest enemy inside the search radius and reacquire when it
// dies; enemy missiles chase the player. Missiles explode when they time out.
type Homing struct {
	Standard
}

func (Homing) Update(tc *TickContext, s *components.Shot) {
	p := s.P
	var target r2.Vec
	switch p.Owner {
	case components.OwnerEnemy:
		target = tc.Player.Pos
	default:
		a := tc.ByID[p.TargetID]
		if a == nil || a.Health.HP <= 0 {
			a = tc.nearestEnemy(s.Pos.Vec, p.SearchRadius, nil)
			p.TargetID = 0
			if a == nil {
				return
			}
			p.TargetID = a.Enemy.ID
		}
		target = a.Pos.Vec
	}

	want := angleOf(r2.Sub(target, s.Pos.Vec))
	heading := turnToward(angleOf(p.Dir), want, p.TurnRate*tc.DT)
	p.Dir = fromAngle(heading)
}

func (Homing) OnExpire(tc *TickContext, s *components.Shot) {
	p := s.P
	if p.Owner == components.OwnerEnemy {
		tc.Events.Explosion(s.Pos.Vec, tc.Cfg.Collision.MissileSplashRadius, p.Color)
		return
	}
	if p.SplashRadius > 0 {
		splash(tc, s.Pos.Vec, p.SplashRadius, p.Damage*p.SplashFactor, 0)
		tc.Events.Explosion(s.Pos.Vec, p.SplashRadius, p.Color)
	}
}

// Laser is a player beam anchored to the player. While charging it re-aims
// quickly toward the aim input or the nearest enemy; when the charge
// completes it fires for BeamDuration and turns slowly.
// Damage is applied by the player shot handler.
type Laser struct{}

func (Laser) Update(tc *TickContext, s *components.Shot) {
	p := s.P
	l := &p.Laser
	s.Pos.Vec = tc.Player.Pos

	target := l.AimAngle
	if tc.Player.Aim != (r2.Vec{}) {
		target = angleOf(tc.Player.Aim)
	} else if a := tc.nearestEnemy(s.Pos.Vec, l.AutoTargetRadius, nil); a != nil {
		target = angleOf(r2.Sub(a.Pos.Vec, s.Pos.Vec))
	}

	rate := l.FireTurnRate
	if !l.Firing {
		rate = l.ChargeTurnRate
	}
	l.AimAngle = turnToward(l.AimAngle, target, rate*tc.DT)
	p.Dir = fromAngle(l.AimAngle)

	if !l.Firing && p.Elapsed >= l.ChargeTime {
		l.Firing = true
		p.Duration = p.Elapsed + l.BeamDuration
	}
}

func (Laser) OnHit(*TickContext, *components.Shot, *components.Actor) {}

func (Laser) OnExpire(tc *TickContext, s *components.Shot) {
	if tc.Player.LaserID == s.P.ID {
		tc.Player.LaserID = 0
	}
}

func (Laser) Integrates() bool { return false }

// BeamEnd returns the far end of a firing laser.
func BeamEnd(s *components.Shot) r2.Vec {
	return r2.Add(s.Pos.Vec, r2.Scale(s.P.Laser.Length, fromAngle(s.P.Laser.AimAngle)))
}

// Chain damages the target, then jumps to the nearest enemy not yet hit
// within range of the last one, decaying damage each hop. Always consumed.
type Chain struct {
	Standard
}

func (Chain) OnHit(tc *TickContext, s *components.Shot, target *components.Actor) {
	p := s.P
	dmg := p.Damage
	damageEnemy(tc, target, dmg)
	p.HitAt(target.Enemy.ID, tc.Time)

	from := target
	for range p.Chain.Jumps {
		next := tc.nearestEnemy(from.Pos.Vec, p.Chain.Range, p.Hits)
		if next == nil {
			break
		}
		dmg *= p.Chain.Decay
		tc.Events.Lightning(from.Pos.Vec, next.Pos.Vec)
		damageEnemy(tc, next, dmg)
		p.HitAt(next.Enemy.ID, tc.Time)
		from = next
	}
	p.Dead = true
}

// Pulsing damages and slows every enemy within its radius at a fixed
// interval without being consumed. Its first direct hit deals a one-shot
// impact.
type Pulsing struct {
	Standard
}

func (Pulsing) Update(tc *TickContext, s *components.Shot) {
	p := s.P
	pulse := &p.Pulse
	if pulse.Interval <= 0 || p.Elapsed < pulse.NextPulse {
		return
	}
	pulse.NextPulse += pulse.Interval

	amount := p.Damage * pulse.Fraction
	tc.scratch = tc.Grid.RetrieveRadius(tc.scratch[:0], s.Pos.Vec, pulse.Radius)
	for _, a := range tc.scratch {
		if a.Health.HP <= 0 || dist(a.Pos.Vec, s.Pos.Vec) > pulse.Radius+a.Body.Radius {
			continue
		}
		damageEnemy(tc, a, amount)
		if pulse.SlowFactor > 0 {
			a.Enemy.Status.ApplySlow(pulse.SlowFactor, tc.Time, pulse.SlowDuration)
		}
	}
	tc.Events.Flash(s.Pos.Vec, pulse.Radius)
}

func (Pulsing) OnHit(tc *TickContext, s *components.Shot, target *components.Actor) {
	p := s.P
	if p.Pulse.ImpactDone {
		return
	}
	p.Pulse.ImpactDone = true
	p.HitAt(target.Enemy.ID, tc.Time)
	damageEnemy(tc, target, p.Damage*p.Pulse.ImpactMult)
}

package systems

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
)

// NewAttack builds the attack strategy for a config block.
func NewAttack(cfg config.AttackConfig) (components.Attack, error) {
	switch cfg.Kind {
	case "none", "":
		return NoAttack{}, nil
	case "projectile":
		return ProjectileAttack{
			Cooldown: cfg.Cooldown,
			Jitter:   cfg.Jitter,
			Range:    cfg.Range,
			Damage:   cfg.Damage,
			Spread:   cfg.Spread,
			Speed:    cfg.ProjectileSpeed,
			Radius:   cfg.ProjectileRadius,
			Life:     cfg.ProjectileLife,
		}, nil
	case "laser":
		return LaserAttack{
			Cooldown:      cfg.Cooldown,
			Jitter:        cfg.Jitter,
			Range:         cfg.Range,
			Damage:        cfg.Damage,
			ChargeRate:    cfg.ChargeRate,
			FireRate:      cfg.FireRate,
			TrackTurnRate: cfg.TrackTurnRate,
		}, nil
	}
	return nil, fmt.Errorf("attack %q: %w", cfg.Kind, ErrUnknownBehavior)
}

// NoAttack never attacks. Contact damage is resolved by collision.
type NoAttack struct{}

func (NoAttack) Update(*components.AIContext) {}

// ready reports whether the cooldown has elapsed and the player is in range.
func ready(ctx *components.AIContext, rangeLimit float64) bool {
	ai := &ctx.Self.Enemy.AI
	if ctx.Time < ai.NextAttack {
		return false
	}
	return rangeLimit <= 0 || distSq(ctx.Self.Pos.Vec, ctx.PlayerPos) <= rangeLimit*rangeLimit
}

// rearm schedules the next attack after cooldown plus random jitter.
func rearm(ctx *components.AIContext, cooldown, jitter float64) {
	ai := &ctx.Self.Enemy.AI
	ai.LastAttack = ctx.Time
	ai.NextAttack = ctx.Time + cooldown + ctx.Rng.Float64()*jitter
}

// ProjectileAttack fires one shot at the player with a small random spread.
// Shot size and speed grow with tier.
type ProjectileAttack struct {
	Cooldown float64
	Jitter   float64
	Range    float64
	Damage   float64
	Spread   float64 // Full cone, radians
	Speed    float64
	Radius   float64
	Life     float64
}

func (a ProjectileAttack) Update(ctx *components.AIContext) {
	if !ready(ctx, a.Range) {
		return
	}
	self := ctx.Self
	aim := angleOf(r2.Sub(ctx.PlayerPos, self.Pos.Vec)) + (ctx.Rng.Float64()-0.5)*a.Spread
	tier := float64(self.Enemy.Tier)

	ctx.Out.Projectiles = append(ctx.Out.Projectiles, components.ProjectileSpawn{
		Pos: self.Pos.Vec,
		Projectile: components.Projectile{
			Owner:    components.OwnerEnemy,
			SourceID: self.Enemy.ID,
			Color:    self.Enemy.Color,
			Dir:      fromAngle(aim),
			Speed:    a.Speed * (1 + 0.08*tier),
			Radius:   a.Radius * (1 + 0.2*tier),
			Damage:   a.Damage * self.Enemy.DamageMult,
			Duration: a.Life,
		},
	})
	rearm(ctx, a.Cooldown, a.Jitter)
}

// LaserAttack is a charge then fire beam. The aim re-tracks the player
// during the first half of the charge and is locked after the midpoint.
// Entering the fire phase restarts the cooldown.
type LaserAttack struct {
	Cooldown      float64
	Jitter        float64
	Range         float64
	Damage        float64
	ChargeRate    float64 // Charge progress per second
	FireRate      float64 // Fire progress per second
	TrackTurnRate float64 // rad/s while tracking
}

func (a LaserAttack) Update(ctx *components.AIContext) {
	updateBeam(ctx, beamParams{
		cooldown:   a.Cooldown,
		jitter:     a.Jitter,
		rangeLimit: a.Range,
		damage:     a.Damage,
		chargeRate: a.ChargeRate,
		fireRate:   a.FireRate,
		turnRate:   a.TrackTurnRate,
	})
}

type beamParams struct {
	cooldown, jitter, rangeLimit float64
	damage                       float64
	chargeRate, fireRate         float64
	turnRate                     float64
	boss                         bool
}

// updateBeam advances the shared enemy beam state machine.
func updateBeam(ctx *components.AIContext, p beamParams) {
	self := ctx.Self
	beam := &self.Enemy.AI.Beam

	switch {
	case beam.Firing:
		beam.FireProgress += p.fireRate * ctx.DT
		if beam.FireProgress >= 1 {
			beam.Firing = false
			beam.FireProgress = 0
			beam.ChargeProgress = 0
		}

	case beam.Charging:
		if beam.ChargeProgress < 0.5 {
			target := angleOf(r2.Sub(ctx.PlayerPos, self.Pos.Vec))
			beam.AimAngle = turnToward(beam.AimAngle, target, p.turnRate*ctx.DT)
		}
		beam.ChargeProgress += p.chargeRate * ctx.DT
		if beam.ChargeProgress >= 1 {
			beam.ChargeProgress = 1
			beam.Charging = false
			beam.Firing = true
			beam.FireProgress = 0
			beam.LastTick = 0
			rearm(ctx, p.cooldown, p.jitter)
		}

	default:
		if !ready(ctx, p.rangeLimit) {
			return
		}
		*beam = components.BeamState{
			Charging: true,
			AimAngle: angleOf(r2.Sub(ctx.PlayerPos, self.Pos.Vec)),
			Damage:   p.damage * self.Enemy.DamageMult,
			Boss:     p.boss,
		}
	}
}

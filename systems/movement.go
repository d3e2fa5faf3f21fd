package systems

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
)

// ErrUnknownBehavior is returned for a movement or attack kind with no implementation.
var ErrUnknownBehavior = errors.New("unknown behavior kind")

// NewMovement builds the movement strategy for a config block.
// Strategies are stateless and may be shared by every enemy of an archetype;
// per-enemy state lives in components.AIState.
func NewMovement(cfg config.MovementConfig) (components.Movement, error) {
	switch cfg.Kind {
	case "orbit":
		return Orbit{Radius: cfg.OrbitRadius, Rate: cfg.OrbitRate}, nil
	case "chase", "":
		return Chase{Amplitude: cfg.PulseAmplitude, Frequency: cfg.PulseFrequency}, nil
	case "kite":
		return Kite{OptimalRange: cfg.OptimalRange, StrafeWeight: cfg.StrafeWeight}, nil
	case "rush":
		return Rush{
			TurnRate:       cfg.TurnRate,
			AlignThreshold: cfg.AlignThreshold,
			Accel:          cfg.Accel,
			Decel:          cfg.Decel,
			MinSpeedScale:  cfg.MinSpeedScale,
			MaxSpeedScale:  cfg.MaxSpeedScale,
		}, nil
	case "shielding":
		return Shielding{
			SearchRadius:  cfg.SearchRadius,
			HoverDistance: cfg.HoverDistance,
			DriftScale:    cfg.DriftScale,
		}, nil
	}
	return nil, fmt.Errorf("movement %q: %w", cfg.Kind, ErrUnknownBehavior)
}

// Orbit circles the player. The orbit angle advances at the enemy's seeded
// rate and direction; the radius is jittered by the enemy seed.
type Orbit struct {
	Radius float64
	Rate   float64 // rad/s before per-enemy scaling
}

func (o Orbit) Steer(ctx *components.AIContext) components.Steering {
	ai := &ctx.Self.Enemy.AI
	ai.OrbitAngle = normalizeAngle(ai.OrbitAngle + ai.OrbitRate*ai.OrbitDir*ctx.DT)

	radius := o.Radius * (0.85 + 0.3*ai.Seed)
	target := r2.Add(ctx.PlayerPos, r2.Scale(radius, fromAngle(ai.OrbitAngle)))
	return components.Steering{
		Dir:        unit(r2.Sub(target, ctx.Self.Pos.Vec)),
		SpeedScale: 1,
	}
}

// Chase heads straight for the player, speed-pulsed by a sinusoid keyed
// to the enemy's phase offset.
type Chase struct {
	Amplitude float64
	Frequency float64 // rad/s
}

func (c Chase) Steer(ctx *components.AIContext) components.Steering {
	scale := 1.0
	if c.Amplitude != 0 {
		scale = 1 + c.Amplitude*math.Sin(ctx.Time*c.Frequency+ctx.Self.Enemy.AI.PhaseOffset)
	}
	return components.Steering{
		Dir:        unit(r2.Sub(ctx.PlayerPos, ctx.Self.Pos.Vec)),
		SpeedScale: scale,
	}
}

// Kite holds an optimal range: it approaches when farther, retreats when
// closer, and always strafes sideways in the enemy's orbit direction.
// At exactly the optimal range the radial term is zero.
type Kite struct {
	OptimalRange float64
	StrafeWeight float64
}

func (k Kite) Steer(ctx *components.AIContext) components.Steering {
	return components.Steering{Dir: k.direction(ctx.Self.Pos.Vec, ctx.PlayerPos, ctx.Self.Enemy.AI.OrbitDir), SpeedScale: 1}
}

func (k Kite) direction(pos, player r2.Vec, orbitDir float64) r2.Vec {
	toPlayer := r2.Sub(player, pos)
	d := r2.Norm(toPlayer)
	if d == 0 {
		return r2.Vec{}
	}
	radial := r2.Scale(1/d, toPlayer)

	var radialWeight float64
	if k.OptimalRange > 0 {
		radialWeight = clamp((d-k.OptimalRange)/k.OptimalRange, -1, 1)
	} else {
		radialWeight = 1
	}

	strafe := r2.Scale(k.StrafeWeight*orbitDir, perpendicular(radial))
	return unit(r2.Add(r2.Scale(radialWeight, radial), strafe))
}

// Rush steers with inertia: the heading turns toward the player at a bounded
// rate, and speed builds while facing the player and bleeds off otherwise,
// so the enemy overshoots and recovers.
type Rush struct {
	TurnRate       float64
	AlignThreshold float64 // cos of the facing cone
	Accel          float64
	Decel          float64
	MinSpeedScale  float64
	MaxSpeedScale  float64
}

func (r Rush) Steer(ctx *components.AIContext) components.Steering {
	ai := &ctx.Self.Enemy.AI
	toPlayer := unit(r2.Sub(ctx.PlayerPos, ctx.Self.Pos.Vec))
	if toPlayer == (r2.Vec{}) {
		return components.Steering{Dir: ai.Heading, SpeedScale: ai.SpeedScale}
	}

	if ai.Heading == (r2.Vec{}) {
		ai.Heading = toPlayer
	}
	heading := turnToward(angleOf(ai.Heading), angleOf(toPlayer), r.TurnRate*ctx.DT)
	ai.Heading = fromAngle(heading)

	if r2.Dot(ai.Heading, toPlayer) >= r.AlignThreshold {
		ai.SpeedScale += r.Accel * ctx.DT
	} else {
		ai.SpeedScale -= r.Decel * ctx.DT
	}
	ai.SpeedScale = clamp(ai.SpeedScale, r.MinSpeedScale, r.MaxSpeedScale)

	return components.Steering{Dir: ai.Heading, SpeedScale: ai.SpeedScale}
}

// Shielding hovers near the closest non-support ally inside the search
// radius so its aura covers it. With no ally in range it drifts slowly
// toward the player.
type Shielding struct {
	SearchRadius  float64
	HoverDistance float64
	DriftScale    float64
}

func (s Shielding) Steer(ctx *components.AIContext) components.Steering {
	self := ctx.Self
	ally := nearestAlly(self, ctx.Allies, s.SearchRadius)
	if ally == nil {
		return components.Steering{
			Dir:        unit(r2.Sub(ctx.PlayerPos, self.Pos.Vec)),
			SpeedScale: s.DriftScale,
		}
	}

	if dist(self.Pos.Vec, ally.Pos.Vec) <= s.HoverDistance+ally.Body.Radius {
		return components.Steering{}
	}
	return components.Steering{
		Dir:        unit(r2.Sub(ally.Pos.Vec, self.Pos.Vec)),
		SpeedScale: 1,
	}
}

// nearestAlly returns the closest live non-support enemy within radius of self.
func nearestAlly(self *components.Actor, allies []*components.Actor, radius float64) *components.Actor {
	var best *components.Actor
	bestSq := radius * radius
	for _, a := range allies {
		if a == self || a.Enemy.Support || a.Health.HP <= 0 {
			continue
		}
		d := distSq(self.Pos.Vec, a.Pos.Vec)
		if d <= bestSq {
			bestSq = d
			best = a
		}
	}
	return best
}

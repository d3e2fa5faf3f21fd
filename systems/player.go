package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
)

// NewPlayer builds the player at the world center with base stats scaled
// by the meta-progression levels.
func NewPlayer(cfg *config.Config) components.Player {
	pc := cfg.Player
	m := cfg.Meta
	scale := func(level int) float64 { return 1 + m.PerLevel*float64(level) }

	maxHP := pc.MaxHealth * scale(m.HealthLevel)
	center := cfg.World.Size / 2
	return components.Player{
		Pos:    r2.Vec{X: center, Y: center},
		Radius: pc.Radius,
		Health: components.Health{
			HP:        maxHP,
			MaxHP:     maxHP,
			Shield:    pc.MaxShield,
			MaxShield: pc.MaxShield,
		},
		Stats: components.PlayerStats{
			Speed:         pc.Speed * scale(m.SpeedLevel),
			DamageMult:    scale(m.DamageLevel),
			FireRateMult:  scale(m.FireRateLevel),
			MagnetRadius:  pc.MagnetRadius * scale(m.MagnetLevel),
			MagnetSpeed:   pc.MagnetSpeed,
			PickupRadius:  pc.PickupRadius,
			ContactDamage: pc.ContactDamage,
			HurtCooldown:  pc.HurtCooldown,
			ExtraChain:    m.ChainLevel,
			ExtraPierce:   m.PierceLevel,
			XPGrowth:      pc.XPGrowth,
		},
		XPToNext: pc.XPToNext,
		Level:    1,
	}
}

// MovePlayer integrates the player from a movement vector, clamped to unit
// length, and keeps the player inside the world.
func MovePlayer(tc *TickContext, move, aim r2.Vec) {
	pl := tc.Player
	if pl.Health.HP <= 0 {
		pl.Vel = r2.Vec{}
		return
	}
	if !finite(move) {
		move = r2.Vec{}
	}
	if n := r2.Norm(move); n > 1 {
		move = r2.Scale(1/n, move)
	}
	if !finite(aim) {
		aim = r2.Vec{}
	}
	pl.Aim = unit(aim)

	pl.Vel = r2.Scale(pl.Stats.Speed, move)
	pos := r2.Add(pl.Pos, r2.Scale(tc.DT, pl.Vel))
	size := tc.Cfg.World.Size
	pos.X = clamp(pos.X, pl.Radius, size-pl.Radius)
	pos.Y = clamp(pos.Y, pl.Radius, size-pl.Radius)
	pl.Pos = pos
}

package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
)

// ApplyAuras recomputes the shielded-by-aura flag: cleared on every enemy,
// then set on each live enemy inside a live support enemy's aura radius.
// Supports never shield themselves. Flags do not stack.
func ApplyAuras(tc *TickContext) {
	for _, a := range tc.Enemies {
		a.Health.ShieldedByAura = false
	}
	for _, s := range tc.Enemies {
		if !s.Enemy.Support || s.Health.HP <= 0 || s.Enemy.AuraRadius <= 0 {
			continue
		}
		radius := s.Enemy.AuraRadius
		tc.scratch = tc.Grid.RetrieveRadius(tc.scratch[:0], s.Pos.Vec, radius)
		for _, a := range tc.scratch {
			if a == s || a.Health.HP <= 0 {
				continue
			}
			if dist(a.Pos.Vec, s.Pos.Vec) <= radius+a.Body.Radius {
				a.Health.ShieldedByAura = true
			}
		}
	}
}

// UpdateEnemies runs each live enemy's movement then attack strategy.
// Attacks only buffer spawns into tc.Out.
func UpdateEnemies(tc *TickContext) {
	size := tc.Cfg.World.Size
	for _, a := range tc.Enemies {
		if a.Health.HP <= 0 {
			continue
		}
		e := a.Enemy
		ctx := components.AIContext{
			Self:      a,
			PlayerPos: tc.Player.Pos,
			DT:        tc.DT,
			Time:      tc.Time,
			GameTime:  tc.GameTime,
			Allies:    tc.Enemies,
			Rng:       tc.Rng,
			Out:       tc.Out,
		}

		if e.Movement != nil {
			st := e.Movement.Steer(&ctx)
			speed := e.Speed * st.SpeedScale * e.Status.SpeedFactor(tc.Time)
			a.Vel.Vec = r2.Scale(speed, st.Dir)
		}

		next := r2.Add(a.Pos.Vec, r2.Scale(tc.DT, a.Vel.Vec))
		if !finite(next) {
			tc.Logger.Warn("enemy: non-finite position, holding", "id", e.ID, "archetype", e.Archetype)
			a.Vel.Vec = r2.Vec{}
		} else {
			next.X = clamp(next.X, 0, size)
			next.Y = clamp(next.Y, 0, size)
			a.Pos.Vec = next
		}

		if e.Attack != nil && tc.Player.Health.HP > 0 {
			e.Attack.Update(&ctx)
		}
	}
}

package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
)

func TestProjectileAttackCooldownAndRange(t *testing.T) {
	atk := ProjectileAttack{Cooldown: 2, Jitter: 0.5, Range: 700, Damage: 8, Spread: 0.2, Speed: 300, Radius: 6, Life: 3}
	a := newActor(7, 1300, 1000, 10, 10)
	a.Enemy.DamageMult = 2
	a.Enemy.Tier = components.TierElite
	tc, _ := newTestTick(t, a)

	atk.Update(aiContext(tc, a))
	require.Len(t, tc.Out.Projectiles, 1)
	spawn := tc.Out.Projectiles[0]
	assert.Equal(t, components.OwnerEnemy, spawn.Projectile.Owner)
	assert.Equal(t, uint32(7), spawn.Projectile.SourceID)
	assert.InDelta(t, 16, spawn.Projectile.Damage, 1e-9)
	assert.InDelta(t, 7.2, spawn.Projectile.Radius, 1e-9)
	assert.Greater(t, spawn.Projectile.Speed, 300.0)
	// Aimed at the player within half the spread.
	assert.LessOrEqual(t, math.Abs(normalizeAngle(angleOf(spawn.Projectile.Dir)-math.Pi)), 0.1+1e-9)

	next := a.Enemy.AI.NextAttack
	assert.GreaterOrEqual(t, next, tc.Time+2)
	assert.LessOrEqual(t, next, tc.Time+2.5)

	// On cooldown.
	atk.Update(aiContext(tc, a))
	assert.Len(t, tc.Out.Projectiles, 1)

	// Off cooldown but out of range.
	tc.Time = next
	a.Pos.Vec = r2.Vec{X: 1800, Y: 1000}
	atk.Update(aiContext(tc, a))
	assert.Len(t, tc.Out.Projectiles, 1)
}

func TestLaserAttackTracksThenLocks(t *testing.T) {
	atk := LaserAttack{Cooldown: 4, Range: 850, Damage: 22, ChargeRate: 0.5, FireRate: 2, TrackTurnRate: 10}
	a := newActor(1, 1500, 1000, 10, 10)
	tc, _ := newTestTick(t, a)
	beam := &a.Enemy.AI.Beam
	step := func() {
		tc.Time += 0.1
		tc.DT = 0.1
		atk.Update(aiContext(tc, a))
	}

	atk.Update(aiContext(tc, a))
	require.True(t, beam.Charging)
	assert.InDelta(t, math.Pi, math.Abs(beam.AimAngle), 1e-9)
	assert.InDelta(t, 22, beam.Damage, 1e-9)

	// First half: re-tracks the moving player.
	tc.Player.Pos = r2.Vec{X: 1000, Y: 1200}
	for beam.ChargeProgress < 0.5 {
		step()
	}
	tracked := angleOf(r2.Sub(tc.Player.Pos, a.Pos.Vec))
	assert.InDelta(t, tracked, beam.AimAngle, 1e-9)

	// Second half: locked.
	tc.Player.Pos = r2.Vec{X: 1000, Y: 800}
	for beam.Charging {
		step()
	}
	assert.InDelta(t, tracked, beam.AimAngle, 1e-9)
	require.True(t, beam.Firing)
	assert.InDelta(t, tc.Time+4, a.Enemy.AI.NextAttack, 1e-9, "fire transition restarts the cooldown")

	steps := 0
	for beam.Firing {
		step()
		steps++
		require.Less(t, steps, 10)
	}
	assert.False(t, beam.Active())
}

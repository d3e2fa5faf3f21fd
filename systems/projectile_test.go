package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
)

func TestChainDamageSequence(t *testing.T) {
	first := newActor(1, 1200, 1000, 1000, 10)
	second := newActor(2, 1350, 1000, 1000, 10)
	third := newActor(3, 1500, 1000, 1000, 10)
	tooFar := newActor(4, 1900, 1000, 1000, 10)
	tc, rec := newTestTick(t, first, second, third, tooFar)

	const d = 50.0
	s := newShot(first.Pos.Vec, components.Projectile{
		ID: 1, Owner: components.OwnerPlayer, Effect: components.EffectChain,
		Damage: d, Radius: 5,
		Chain: components.ChainParams{Jumps: 2, Range: 220, Decay: 0.8},
	})

	tc.Behavior.For(components.EffectChain).OnHit(tc, s, first)

	require.Len(t, rec.damage, 3)
	assert.InDelta(t, d, rec.damage[0], 1e-9)
	assert.InDelta(t, 0.8*d, rec.damage[1], 1e-9)
	assert.InDelta(t, 0.64*d, rec.damage[2], 1e-9)
	assert.Equal(t, 2, rec.lightning)
	assert.True(t, s.P.Dead, "chain is single use")
	assert.Equal(t, 1000.0, tooFar.Health.HP)
}

func TestChainStopsWithoutTargets(t *testing.T) {
	only := newActor(1, 1200, 1000, 1000, 10)
	tc, rec := newTestTick(t, only)
	s := newShot(only.Pos.Vec, components.Projectile{
		Owner: components.OwnerPlayer, Effect: components.EffectChain, Damage: 10,
		Chain: components.ChainParams{Jumps: 3, Range: 220, Decay: 0.8},
	})
	tc.Behavior.For(components.EffectChain).OnHit(tc, s, only)
	assert.Len(t, rec.damage, 1)
	assert.True(t, s.P.Dead)
}

func TestChainEachHopUsesShieldSplit(t *testing.T) {
	first := newActor(1, 1200, 1000, 1000, 10)
	second := newActor(2, 1300, 1000, 1000, 10)
	second.Health.Shield = 30
	tc, _ := newTestTick(t, first, second)
	s := newShot(first.Pos.Vec, components.Projectile{
		Owner: components.OwnerPlayer, Effect: components.EffectChain, Damage: 50,
		Chain: components.ChainParams{Jumps: 1, Range: 220, Decay: 0.8},
	})
	tc.Behavior.For(components.EffectChain).OnHit(tc, s, first)
	assert.Zero(t, second.Health.Shield)
	assert.InDelta(t, 990, second.Health.HP, 1e-9)
}

func TestStandardPierceThenConsumed(t *testing.T) {
	a := newActor(1, 1200, 1000, 100, 10)
	b := newActor(2, 1210, 1000, 100, 10)
	tc, _ := newTestTick(t, a, b)
	s := newShot(a.Pos.Vec, components.Projectile{Owner: components.OwnerPlayer, Effect: components.EffectPiercing, Damage: 10, Pierce: 1})

	std := tc.Behavior.For(components.EffectPiercing)
	std.OnHit(tc, s, a)
	assert.False(t, s.P.Dead)
	assert.Zero(t, s.P.Pierce)
	std.OnHit(tc, s, b)
	assert.True(t, s.P.Dead)
}

func TestExplosiveSplashesOnHit(t *testing.T) {
	target := newActor(1, 1200, 1000, 100, 10)
	near := newActor(2, 1250, 1000, 100, 10)
	far := newActor(3, 1500, 1000, 100, 10)
	tc, rec := newTestTick(t, target, near, far)
	s := newShot(target.Pos.Vec, components.Projectile{
		Owner: components.OwnerPlayer, Effect: components.EffectExplosive,
		Damage: 20, SplashRadius: 90, SplashFactor: 0.5,
	})

	tc.Behavior.For(components.EffectExplosive).OnHit(tc, s, target)
	assert.InDelta(t, 80, target.Health.HP, 1e-9)
	assert.InDelta(t, 90, near.Health.HP, 1e-9)
	assert.InDelta(t, 100, far.Health.HP, 1e-9)
	assert.Equal(t, 1, rec.explosions)
	assert.True(t, s.P.Dead)
}

func TestHomingReacquiresNearest(t *testing.T) {
	dead := newActor(1, 1300, 1000, 0, 10)
	near := newActor(2, 1100, 1300, 100, 10)
	far := newActor(3, 1500, 1500, 100, 10)
	tc, _ := newTestTick(t, dead, near, far)
	tc.DT = 0.1

	s := newShot(r2.Vec{X: 1100, Y: 1000}, components.Projectile{
		Owner: components.OwnerPlayer, Effect: components.EffectHoming,
		Dir: r2.Vec{X: 1}, Speed: 400, TargetID: 1, TurnRate: 4, SearchRadius: 600,
	})

	tc.Behavior.For(components.EffectHoming).Update(tc, s)
	assert.Equal(t, uint32(2), s.P.TargetID)
	// Turned toward +Y by at most TurnRate*dt.
	assert.InDelta(t, 0.4, angleOf(s.P.Dir), 1e-9)
}

func TestHomingEnemyMissileChasesPlayer(t *testing.T) {
	tc, _ := newTestTick(t)
	tc.DT = 1
	s := newShot(r2.Vec{X: 1000, Y: 800}, components.Projectile{
		Owner: components.OwnerEnemy, Effect: components.EffectHoming, Missile: true,
		Dir: r2.Vec{X: 1}, TurnRate: 10,
	})
	tc.Behavior.For(components.EffectHoming).Update(tc, s)
	assert.InDelta(t, math.Pi/2, angleOf(s.P.Dir), 1e-9)
}

func TestHomingSplashesOnTimeout(t *testing.T) {
	near := newActor(1, 1210, 1000, 100, 10)
	tc, rec := newTestTick(t, near)
	tc.DT = 0.1
	tc.Shots = []*components.Shot{newShot(r2.Vec{X: 1200, Y: 1000}, components.Projectile{
		Owner: components.OwnerPlayer, Effect: components.EffectHoming,
		Damage: 16, Duration: 0.05, SplashRadius: 70, SplashFactor: 0.5, SearchRadius: 10,
	})}

	AdvanceProjectiles(tc)
	assert.True(t, tc.Shots[0].P.Dead)
	assert.InDelta(t, 92, near.Health.HP, 1e-9)
	assert.Equal(t, 1, rec.explosions)
}

func TestHomingDirectHitSkipsTimeoutSplash(t *testing.T) {
	target := newActor(1, 1200, 1000, 100, 10)
	near := newActor(2, 1230, 1000, 100, 10)
	tc, rec := newTestTick(t, target, near)
	tc.DT = 0.1
	tc.Shots = []*components.Shot{newShot(target.Pos.Vec, components.Projectile{
		Owner: components.OwnerPlayer, Effect: components.EffectHoming,
		Damage: 16, Radius: 5, Duration: 0.3, SplashRadius: 70, SplashFactor: 0.5,
		TargetID: 1, TurnRate: 4, SearchRadius: 600,
	})}

	PlayerShotHandler{}.Handle(tc)
	require.True(t, tc.Shots[0].P.Dead)
	assert.InDelta(t, 84, target.Health.HP, 1e-9)
	assert.InDelta(t, 92, near.Health.HP, 1e-9)

	// Run well past the missile's lifetime.
	for range 5 {
		AdvanceProjectiles(tc)
		tc.Time += tc.DT
	}
	assert.InDelta(t, 84, target.Health.HP, 1e-9)
	assert.InDelta(t, 92, near.Health.HP, 1e-9)
	assert.Equal(t, 1, rec.explosions)
}

func TestLaserChargeThenFire(t *testing.T) {
	tc, _ := newTestTick(t)
	tc.DT = 0.1
	tc.Player.Aim = r2.Vec{X: 0, Y: 1}
	s := newShot(tc.Player.Pos, components.Projectile{
		ID: 9, Owner: components.OwnerPlayer, Effect: components.EffectLaser, Damage: 60,
		Laser: components.LaserState{
			ChargeTime: 0.5, BeamDuration: 1.2, Length: 700, Width: 14,
			ChargeTurnRate: 6, FireTurnRate: 1.5, AimAngle: 0,
		},
	})
	tc.Player.LaserID = 9
	tc.Shots = []*components.Shot{s}

	// Charging turns at 6 rad/s.
	AdvanceProjectiles(tc)
	assert.InDelta(t, 0.6, s.P.Laser.AimAngle, 1e-9)
	assert.False(t, s.P.Laser.Firing)
	assert.Zero(t, s.P.Duration)

	for !s.P.Laser.Firing {
		AdvanceProjectiles(tc)
	}
	assert.InDelta(t, s.P.Elapsed-tc.DT+1.2, s.P.Duration, 1e-9, "duration is flip time plus beam duration")
	assert.InDelta(t, math.Pi/2, s.P.Laser.AimAngle, 1e-9)

	// Firing turns at 1.5 rad/s.
	tc.Player.Aim = r2.Vec{X: 1, Y: 0}
	AdvanceProjectiles(tc)
	assert.InDelta(t, math.Pi/2-0.15, s.P.Laser.AimAngle, 1e-9)

	// The beam follows the player.
	tc.Player.Pos = r2.Vec{X: 1500, Y: 1500}
	AdvanceProjectiles(tc)
	assert.Equal(t, tc.Player.Pos, s.Pos.Vec)

	for !s.P.Dead {
		AdvanceProjectiles(tc)
	}
	assert.Zero(t, tc.Player.LaserID)
}

func TestPulsingPeriodicAreaAndImpact(t *testing.T) {
	inside := newActor(1, 1240, 1000, 1000, 10)
	outside := newActor(2, 1400, 1000, 1000, 10)
	tc, _ := newTestTick(t, inside, outside)
	tc.DT = 0.25

	s := newShot(r2.Vec{X: 1200, Y: 1000}, components.Projectile{
		Owner: components.OwnerPlayer, Effect: components.EffectPulsing,
		Damage: 20, Radius: 10, Duration: 10,
		Pulse: components.PulseState{Interval: 0.5, Radius: 90, Fraction: 0.5, ImpactMult: 2, SlowFactor: 0.6, SlowDuration: 1, NextPulse: 0.5},
	})
	tc.Shots = []*components.Shot{s}

	// Elapsed 0 -> 0.25 -> 0.5: the pulse fires on the third update.
	for i := 0; i < 3; i++ {
		AdvanceProjectiles(tc)
	}
	assert.InDelta(t, 990, inside.Health.HP, 1e-9)
	assert.InDelta(t, 1000, outside.Health.HP, 1e-9)
	assert.InDelta(t, 0.6, inside.Enemy.Status.SpeedFactor(tc.Time), 1e-9)
	assert.False(t, s.P.Dead)

	b := tc.Behavior.For(components.EffectPulsing)
	b.OnHit(tc, s, inside)
	b.OnHit(tc, s, inside)
	assert.InDelta(t, 950, inside.Health.HP, 1e-9, "impact applies once")
	assert.False(t, s.P.Dead, "pulsing is never consumed by a hit")
}

func TestAdvanceProjectilesExpiry(t *testing.T) {
	tc, _ := newTestTick(t)
	tc.DT = 0.1
	alive := newShot(r2.Vec{X: 500, Y: 500}, components.Projectile{Dir: r2.Vec{X: 1}, Speed: 100, Duration: 1})
	old := newShot(r2.Vec{X: 500, Y: 500}, components.Projectile{Dir: r2.Vec{X: 1}, Speed: 100, Duration: 0.1})
	gone := newShot(r2.Vec{X: 3999, Y: 500}, components.Projectile{Dir: r2.Vec{X: 1}, Speed: 1000, Duration: 5})
	nan := newShot(r2.Vec{X: math.NaN(), Y: 500}, components.Projectile{Dir: r2.Vec{X: 1}, Speed: 100, Duration: 5})
	tc.Shots = []*components.Shot{alive, old, gone, nan}

	AdvanceProjectiles(tc)
	assert.False(t, alive.P.Dead)
	assert.InDelta(t, 510, alive.Pos.X, 1e-9)
	assert.True(t, old.P.Dead)
	assert.True(t, gone.P.Dead)
	assert.True(t, nan.P.Dead)
}

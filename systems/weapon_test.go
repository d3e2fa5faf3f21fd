package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
)

func mustWeapon(t *testing.T, tc *TickContext, name string) *Weapon {
	t.Helper()
	w, err := NewWeapon(tc.Cfg, name)
	require.NoError(t, err)
	return w
}

func TestWeaponCooldown(t *testing.T) {
	tc, _ := newTestTick(t)
	w := mustWeapon(t, tc, "blaster")

	w.Fire(tc, r2.Vec{X: 1}, false)
	assert.Empty(t, tc.Out.Projectiles, "trigger not held")

	w.Fire(tc, r2.Vec{X: 1}, true)
	require.Len(t, tc.Out.Projectiles, 1)
	p := tc.Out.Projectiles[0].Projectile
	assert.Equal(t, components.OwnerPlayer, p.Owner)
	assert.InDelta(t, 12, p.Damage, 1e-9)
	assert.LessOrEqual(t, math.Abs(angleOf(p.Dir)), 0.06+1e-9)
	assert.InDelta(t, tc.Time+0.25, tc.Player.NextShot, 1e-9)

	w.Fire(tc, r2.Vec{X: 1}, true)
	assert.Len(t, tc.Out.Projectiles, 1)

	tc.Time = tc.Player.NextShot
	w.Fire(tc, r2.Vec{X: 1}, true)
	assert.Len(t, tc.Out.Projectiles, 2)
}

func TestWeaponMultishotFan(t *testing.T) {
	tc, _ := newTestTick(t)
	w := mustWeapon(t, tc, "seeker")

	w.Fire(tc, r2.Vec{Y: 1}, true)
	require.Len(t, tc.Out.Projectiles, 2)
	assert.InDelta(t, math.Pi/2-0.3, angleOf(tc.Out.Projectiles[0].Projectile.Dir), 1e-9)
	assert.InDelta(t, math.Pi/2+0.3, angleOf(tc.Out.Projectiles[1].Projectile.Dir), 1e-9)
	for _, s := range tc.Out.Projectiles {
		assert.Equal(t, components.EffectHoming, s.Projectile.Effect)
		assert.InDelta(t, 4.0, s.Projectile.TurnRate, 1e-9)
	}
}

func TestWeaponAutoAim(t *testing.T) {
	target := newActor(1, 1000, 1300, 20, 12)
	tc, _ := newTestTick(t, target)
	tc.Player.Stats.ExtraPierce = 2
	w := mustWeapon(t, tc, "lance")

	w.Fire(tc, r2.Vec{}, true)
	require.Len(t, tc.Out.Projectiles, 1)
	p := tc.Out.Projectiles[0].Projectile
	assert.InDelta(t, 0, p.Dir.X, 1e-9)
	assert.InDelta(t, 1, p.Dir.Y, 1e-9)
	assert.Equal(t, 5, p.Pierce)
}

func TestWeaponNoTargetNoFire(t *testing.T) {
	far := newActor(1, 3000, 3000, 20, 12)
	tc, _ := newTestTick(t, far)
	w := mustWeapon(t, tc, "blaster")

	w.Fire(tc, r2.Vec{}, true)
	assert.Empty(t, tc.Out.Projectiles)
	assert.Zero(t, tc.Player.NextShot, "cooldown untouched when nothing fires")
}

func TestWeaponSingleLaser(t *testing.T) {
	tc, _ := newTestTick(t)
	w := mustWeapon(t, tc, "prism")

	w.Fire(tc, r2.Vec{X: 1}, true)
	require.Len(t, tc.Out.Projectiles, 1)
	p := tc.Out.Projectiles[0].Projectile
	assert.NotZero(t, p.ID)
	assert.Equal(t, p.ID, tc.Player.LaserID)
	assert.Zero(t, p.Duration, "duration is set when the beam fires")
	assert.False(t, p.Laser.Firing)
	assert.InDelta(t, tc.Cfg.Collision.BeamTickInterval, p.Laser.TickInterval, 1e-12)

	tc.Time = tc.Player.NextShot
	w.Fire(tc, r2.Vec{X: 1}, true)
	assert.Len(t, tc.Out.Projectiles, 1, "only one laser alive")

	tc.Player.LaserID = 0
	w.Fire(tc, r2.Vec{X: 1}, true)
	assert.Len(t, tc.Out.Projectiles, 2)
}

func TestWeaponEffectParams(t *testing.T) {
	tc, _ := newTestTick(t)
	tc.Player.Stats.ExtraChain = 1

	mustWeapon(t, tc, "arc").Fire(tc, r2.Vec{X: 1}, true)
	require.Len(t, tc.Out.Projectiles, 1)
	assert.Equal(t, 3, tc.Out.Projectiles[0].Projectile.Chain.Jumps)

	tc.Player.NextShot = 0
	mustWeapon(t, tc, "nova").Fire(tc, r2.Vec{X: 1}, true)
	require.Len(t, tc.Out.Projectiles, 2)
	pulse := tc.Out.Projectiles[1].Projectile.Pulse
	assert.InDelta(t, pulse.Interval, pulse.NextPulse, 1e-12)
	assert.InDelta(t, 2.0, pulse.ImpactMult, 1e-12)
}

func TestWeaponDeadPlayerHoldsFire(t *testing.T) {
	tc, _ := newTestTick(t)
	tc.Player.Health.HP = 0
	mustWeapon(t, tc, "blaster").Fire(tc, r2.Vec{X: 1}, true)
	assert.Empty(t, tc.Out.Projectiles)
}

func TestNewWeaponErrors(t *testing.T) {
	cfg := config.Default()
	_, err := NewWeapon(cfg, "railgun")
	assert.Error(t, err)

	wc := cfg.Weapons["blaster"]
	wc.Effect = "freeze"
	cfg.Weapons["blaster"] = wc
	_, err = NewWeapon(cfg, "blaster")
	assert.ErrorIs(t, err, ErrUnknownBehavior)
}

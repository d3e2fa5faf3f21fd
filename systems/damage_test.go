package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/arena/components"
)

func TestTakeDamageShieldThenHealth(t *testing.T) {
	tests := []struct {
		name       string
		hp, shield float64
		amount     float64
		wantHP     float64
		wantShield float64
		wantKilled bool
	}{
		{name: "absorbed by shield", hp: 50, shield: 30, amount: 20, wantHP: 50, wantShield: 10},
		{name: "exactly the shield", hp: 50, shield: 30, amount: 30, wantHP: 50, wantShield: 0},
		{name: "spills into health", hp: 50, shield: 30, amount: 45, wantHP: 35, wantShield: 0},
		{name: "no shield", hp: 50, shield: 0, amount: 12.5, wantHP: 37.5, wantShield: 0},
		{name: "lethal", hp: 50, shield: 10, amount: 60, wantHP: 0, wantShield: 0, wantKilled: true},
		{name: "overkill clamps at zero", hp: 5, shield: 0, amount: 500, wantHP: 0, wantShield: 0, wantKilled: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := &components.Health{HP: tc.hp, MaxHP: tc.hp, Shield: tc.shield, MaxShield: tc.shield}
			res := TakeDamage(h, tc.amount)

			assert.InDelta(t, tc.wantHP, h.HP, 1e-9)
			assert.InDelta(t, tc.wantShield, h.Shield, 1e-9)
			assert.Equal(t, tc.wantKilled, res.Killed)
			assert.InDelta(t, tc.hp-h.HP, res.HealthPortion, 1e-9)
			assert.InDelta(t, tc.shield-h.Shield, res.ShieldPortion, 1e-9)
			assert.InDelta(t, res.ShieldPortion+res.HealthPortion, res.Applied, 1e-9)
			assert.GreaterOrEqual(t, h.HP, 0.0)
			assert.GreaterOrEqual(t, h.Shield, 0.0)
		})
	}
}

func TestTakeDamageProperty(t *testing.T) {
	rng := testRNG()
	for i := 0; i < 500; i++ {
		s := rng.Float64() * 100
		d := rng.Float64() * 200
		h := &components.Health{HP: 1000, MaxHP: 1000, Shield: s, MaxShield: s}
		TakeDamage(h, d)
		if d <= s {
			require.InDelta(t, 1000, h.HP, 1e-9)
			require.InDelta(t, s-d, h.Shield, 1e-9)
		} else {
			require.Zero(t, h.Shield)
			require.InDelta(t, 1000-(d-s), h.HP, 1e-9)
		}
	}
}

func TestTakeDamageOverkill(t *testing.T) {
	h := &components.Health{HP: 30, MaxHP: 30, Shield: 10}
	res := TakeDamage(h, 100)
	assert.True(t, res.Killed)
	assert.InDelta(t, 60, res.Overkill, 1e-9)
	assert.InDelta(t, 40, res.Applied, 1e-9)
}

func TestTakeDamageAuraHalves(t *testing.T) {
	h := &components.Health{HP: 500, MaxHP: 500, ShieldedByAura: true}
	res := TakeDamage(h, 100)
	assert.InDelta(t, 50, res.Applied, 1e-9)
	assert.InDelta(t, 450, h.HP, 1e-9)
}

func TestDeathDefianceConsumedOnce(t *testing.T) {
	h := &components.Health{HP: 20, MaxHP: 20, Shield: 5, MaxShield: 5, DeathDefiance: true}

	first := TakeDamage(h, 100)
	assert.False(t, first.Killed)
	assert.True(t, first.Defied)
	assert.Zero(t, first.Applied)
	assert.Zero(t, h.Shield)
	assert.False(t, h.DeathDefiance)
	assert.InDelta(t, 20, h.HP, 1e-9, "defied hit must not touch health")

	second := TakeDamage(h, 100)
	assert.True(t, second.Killed)
	assert.False(t, second.Defied)
	assert.Zero(t, h.HP)
}

func TestDeathDefianceIgnoresNonLethal(t *testing.T) {
	h := &components.Health{HP: 20, MaxHP: 20, DeathDefiance: true}
	res := TakeDamage(h, 5)
	assert.False(t, res.Defied)
	assert.True(t, h.DeathDefiance)
	assert.InDelta(t, 15, h.HP, 1e-9)
}

func TestTakeDamageIgnoresBadInput(t *testing.T) {
	tests := []struct {
		name   string
		hp     float64
		amount float64
	}{
		{"already dead", 0, 10},
		{"negative", 10, -5},
		{"zero", 10, 0},
		{"nan", 10, math.NaN()},
		{"inf", 10, math.Inf(1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := &components.Health{HP: tc.hp, MaxHP: 10}
			res := TakeDamage(h, tc.amount)
			assert.Equal(t, DamageResult{}, res)
			assert.Equal(t, tc.hp, h.HP)
		})
	}
}

func TestDamageEnemyReportsDefiedHitAsZero(t *testing.T) {
	a := newActor(1, 500, 500, 10, 10)
	a.Health.DeathDefiance = true
	tc, rec := newTestTick(t, a)

	damageEnemy(tc, a, 50)
	require.Len(t, rec.damage, 1)
	assert.Zero(t, rec.damage[0])

	damageEnemy(tc, a, 50)
	require.Len(t, rec.damage, 2)
	assert.InDelta(t, 10, rec.damage[1], 1e-9)
	assert.True(t, a.Health.Dead())
}

func TestDamagePlayerHurtWindow(t *testing.T) {
	tc, rec := newTestTick(t)
	hp := tc.Player.Health.HP

	damagePlayer(tc, 10, "test")
	damagePlayer(tc, 10, "test")
	assert.InDelta(t, hp-10, tc.Player.Health.HP, 1e-9)
	assert.Len(t, rec.playerHits, 1)

	tc.Time += tc.Player.Stats.HurtCooldown
	damagePlayer(tc, 10, "test")
	assert.InDelta(t, hp-20, tc.Player.Health.HP, 1e-9)
}

func TestHitPlayerIgnoresHurtWindow(t *testing.T) {
	tc, rec := newTestTick(t)
	hp := tc.Player.Health.HP

	damagePlayer(tc, 10, "contact")
	hitPlayer(tc, 5, "blast")
	hitPlayer(tc, 5, "blast")
	assert.InDelta(t, hp-20, tc.Player.Health.HP, 1e-9)
	assert.Equal(t, []float64{10, 5, 5}, rec.playerHits)
	assert.InDelta(t, tc.Time+tc.Player.Stats.HurtCooldown, tc.Player.HurtUntil, 1e-9, "blasts leave the window alone")
}

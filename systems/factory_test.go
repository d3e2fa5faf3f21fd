package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
)

func newTestFactory(t *testing.T) (*Factory, *config.Config) {
	t.Helper()
	cfg := config.Default()
	f, err := NewFactory(cfg, &IDSource{}, NopEvents{}, testRNG(), discardLogger())
	require.NoError(t, err)
	return f, cfg
}

func TestFactoryTierScaling(t *testing.T) {
	f, cfg := newTestFactory(t)
	base := cfg.Archetypes["scout"]

	tests := []struct {
		name     string
		tier     components.Tier
		diffMult float64
	}{
		{"normal", components.TierNormal, 1},
		{"elite", components.TierElite, 1},
		{"elite on hard", components.TierElite, 1.4},
		{"legendary", components.TierLegendary, 2},
		{"miniboss", components.TierMiniboss, 0.75},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bp, err := f.Enemy("scout", SpawnParams{Tier: tc.tier, Level: 1, DifficultyMult: tc.diffMult})
			require.NoError(t, err)
			tier := cfg.Tiers[tc.tier.String()]

			want := base.Health * tc.diffMult * tier.HealthMult
			assert.Equal(t, want, bp.Health.MaxHP)
			assert.Equal(t, want, bp.Health.HP)
			assert.InDelta(t, base.Radius*tier.RadiusMult, bp.Body.Radius, 1e-9)
			assert.Equal(t, tc.diffMult, bp.Enemy.DamageMult)
			if tier.Shield {
				assert.InDelta(t, want*tier.ShieldPercent, bp.Health.MaxShield, 1e-9)
			} else {
				assert.Zero(t, bp.Health.MaxShield)
			}
		})
	}
}

func TestFactoryTierSpeedPenalty(t *testing.T) {
	f, cfg := newTestFactory(t)

	scout, err := f.Enemy("scout", SpawnParams{Tier: components.TierMiniboss, DifficultyMult: 1})
	require.NoError(t, err)
	want := cfg.Archetypes["scout"].Speed * cfg.Tiers["miniboss"].SpeedMult * 0.65
	assert.InDelta(t, want, scout.Enemy.Speed, 1e-9)

	kamikaze, err := f.Enemy("kamikaze", SpawnParams{Tier: components.TierMiniboss, DifficultyMult: 1})
	require.NoError(t, err)
	want = cfg.Archetypes["kamikaze"].Speed * cfg.Tiers["miniboss"].SpeedMult
	assert.InDelta(t, want, kamikaze.Enemy.Speed, 1e-9, "kamikaze keeps full speed")
}

func TestFactoryDeathDefiance(t *testing.T) {
	f, _ := newTestFactory(t)

	tests := []struct {
		archetype string
		tier      components.Tier
		want      bool
	}{
		{"kamikaze", components.TierNormal, false},
		{"kamikaze", components.TierElite, true},
		{"kamikaze", components.TierLegendary, true},
		{"kamikaze", components.TierMiniboss, true},
		{"scout", components.TierElite, false},
	}
	for _, tc := range tests {
		bp, err := f.Enemy(tc.archetype, SpawnParams{Tier: tc.tier, DifficultyMult: 1})
		require.NoError(t, err)
		assert.Equal(t, tc.want, bp.Health.DeathDefiance, "%s %s", tc.archetype, tc.tier)
	}
}

func TestFactoryUnknownTypes(t *testing.T) {
	f, _ := newTestFactory(t)

	_, err := f.Enemy("dragon", SpawnParams{DifficultyMult: 1})
	assert.ErrorIs(t, err, ErrUnknownArchetype)

	_, err = f.Boss("leviathan", 0, SpawnParams{DifficultyMult: 1})
	assert.ErrorIs(t, err, ErrUnknownBossType)
}

func TestFactoryBossScaling(t *testing.T) {
	f, cfg := newTestFactory(t)
	base := cfg.Bosses["dreadnought"]

	bp, err := f.Boss("dreadnought", 3, SpawnParams{Level: 4, DifficultyMult: 1})
	require.NoError(t, err)
	row := cfg.BossTierFor(3)

	assert.True(t, bp.Enemy.IsBoss)
	assert.Equal(t, 3, bp.Enemy.WaveIndex)
	assert.InDelta(t, base.Health*7.9*row.HealthMult, bp.Health.MaxHP, 1e-6)
	assert.InDelta(t, 7.9*row.DamageMult, bp.Enemy.DamageMult, 1e-9)
	assert.Equal(t, components.TierElite, bp.Enemy.Tier)
	assert.InDelta(t, bp.Health.MaxHP*row.ShieldPercent, bp.Health.MaxShield, 1e-6)
	assert.IsType(t, &PhaseMachine{}, bp.Enemy.Attack)
}

func TestFactoryBossShieldFallsBackToTypeDefault(t *testing.T) {
	f, cfg := newTestFactory(t)
	require.Zero(t, cfg.BossTierFor(0).ShieldPercent)

	bp, err := f.Boss("overseer", 0, SpawnParams{DifficultyMult: 1})
	require.NoError(t, err)
	assert.InDelta(t, bp.Health.MaxHP*cfg.Bosses["overseer"].ShieldPercent, bp.Health.MaxShield, 1e-9)
}

func TestFactoryBossesHaveOwnPhaseMachines(t *testing.T) {
	f, _ := newTestFactory(t)
	a, err := f.Boss("dreadnought", 0, SpawnParams{DifficultyMult: 1})
	require.NoError(t, err)
	b, err := f.Boss("dreadnought", 1, SpawnParams{DifficultyMult: 1})
	require.NoError(t, err)
	assert.NotSame(t, a.Enemy.Attack, b.Enemy.Attack)
	assert.NotEqual(t, a.Enemy.ID, b.Enemy.ID)
}

func TestFactoryDecisionBurst(t *testing.T) {
	f, cfg := newTestFactory(t)
	player := r2.Vec{X: 100, Y: 100}
	d := SpawnDecision{Kind: SpawnKamikazeWave, Archetype: "kamikaze", Count: 6, Level: 3, Distance: 750, Angle: 0.5, DifficultyMult: 1.4}

	bps, err := f.Decision(d, player, 20)
	require.NoError(t, err)
	require.Len(t, bps, 6)
	for _, bp := range bps {
		assert.Equal(t, 3, bp.Enemy.Level)
		assert.Equal(t, 1.4, bp.Enemy.DamageMult)
		assert.Equal(t, 20.0, bp.Enemy.SpawnTime)
		assert.GreaterOrEqual(t, bp.Pos.X, 0.0)
		assert.LessOrEqual(t, bp.Pos.X, cfg.World.Size)
		assert.GreaterOrEqual(t, bp.Pos.Y, 0.0)
		assert.LessOrEqual(t, bp.Pos.Y, cfg.World.Size)
	}
}

func TestNewFactoryRejectsBadStrategies(t *testing.T) {
	cfg := config.Default()
	ac := cfg.Archetypes["scout"]
	ac.Movement.Kind = "blink"
	cfg.Archetypes["scout"] = ac

	_, err := NewFactory(cfg, &IDSource{}, nil, testRNG(), nil)
	assert.ErrorIs(t, err, ErrUnknownBehavior)
}

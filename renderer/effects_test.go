package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
)

func TestEffectsDecay(t *testing.T) {
	fx := NewEffects(16)
	fx.Explosion(r2.Vec{X: 10}, 30, config.RGB{R: 255})
	fx.Flash(r2.Vec{}, 12)
	fx.DamageNumber(r2.Vec{Y: 100}, 7.2, &components.Enemy{})
	require.Len(t, fx.Particles, 3)
	assert.Equal(t, "8", fx.Particles[2].Text)

	fx.Update(0.2)
	require.Len(t, fx.Particles, 2, "flash expired")
	assert.Equal(t, ParticleExplosion, fx.Particles[0].Type)
	assert.InDelta(t, 92, fx.Particles[1].Pos.Y, 1e-9, "numbers float upward")
	assert.InDelta(t, 0.75, fx.Particles[1].Ratio(), 1e-9)

	fx.Update(1)
	assert.Empty(t, fx.Particles)
}

func TestEffectsCapacity(t *testing.T) {
	fx := NewEffects(2)
	for range 5 {
		fx.Lightning(r2.Vec{}, r2.Vec{X: 1})
	}
	assert.Len(t, fx.Particles, 2)
	assert.Equal(t, 3, fx.Dropped())
}

func TestEffectsScreenFeedback(t *testing.T) {
	fx := NewEffects(4)
	fx.PlayerDamaged(22, "blast")
	assert.InDelta(t, 15, fx.Shake, 1e-9)
	assert.InDelta(t, hurtLife, fx.Hurt, 1e-9)

	fx.BossPhase(&components.Enemy{Archetype: "dreadnought"}, 1, "salvo")
	assert.Equal(t, "dreadnought: salvo", fx.Banner)
	assert.Equal(t, 1.0, fx.BannerAlpha())

	fx.Update(2)
	assert.Zero(t, fx.Shake)
	assert.Zero(t, fx.Hurt)
	assert.Empty(t, fx.Banner)

	fx.LevelUp(2)
	fx.Explosion(r2.Vec{}, 1, config.RGB{})
	fx.Reset()
	assert.Empty(t, fx.Banner)
	assert.Empty(t, fx.Particles)
}

func TestMoveVector(t *testing.T) {
	tests := []struct {
		name                  string
		up, down, left, right bool
		want                  r2.Vec
	}{
		{"idle", false, false, false, false, r2.Vec{}},
		{"up", true, false, false, false, r2.Vec{Y: -1}},
		{"diagonal", false, true, false, true, r2.Vec{X: 1, Y: 1}},
		{"cancel", true, true, true, false, r2.Vec{X: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MoveVector(tt.up, tt.down, tt.left, tt.right))
		})
	}
}

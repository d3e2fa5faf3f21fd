package systems

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/arena/components"
)

// countingAttack records how often it was asked to act.
type countingAttack struct{ calls int }

func (c *countingAttack) Update(*components.AIContext) { c.calls++ }

func TestUpdateEnemiesMovesTowardPlayer(t *testing.T) {
	a := newActor(1, 1200, 1000, 20, 12)
	a.Enemy.Speed = 120
	a.Enemy.Movement = Chase{}
	atk := &countingAttack{}
	a.Enemy.Attack = atk
	tc, _ := newTestTick(t, a)
	tc.DT = 0.5

	UpdateEnemies(tc)
	assert.InDelta(t, 1140, a.Pos.X, 1e-9)
	assert.InDelta(t, -120, a.Vel.X, 1e-9)
	assert.Equal(t, 1, atk.calls)
}

func TestUpdateEnemiesAppliesSlow(t *testing.T) {
	a := newActor(1, 1200, 1000, 20, 12)
	a.Enemy.Speed = 100
	a.Enemy.Movement = Chase{}
	tc, _ := newTestTick(t, a)
	tc.DT = 1
	a.Enemy.Status.ApplySlow(0.5, tc.Time, 2)

	UpdateEnemies(tc)
	assert.InDelta(t, 1150, a.Pos.X, 1e-9)
}

func TestUpdateEnemiesSkipsDeadAndHoldsFireForDeadPlayer(t *testing.T) {
	dead := newActor(1, 1200, 1000, 0, 12)
	dead.Enemy.Speed = 100
	dead.Enemy.Movement = Chase{}
	live := newActor(2, 1300, 1000, 10, 12)
	atk := &countingAttack{}
	live.Enemy.Attack = atk
	tc, _ := newTestTick(t, dead, live)
	tc.Player.Health.HP = 0

	UpdateEnemies(tc)
	assert.Equal(t, 1200.0, dead.Pos.X)
	assert.Zero(t, atk.calls)
}

func TestUpdateEnemiesHoldsNonFinitePosition(t *testing.T) {
	a := newActor(1, 1200, 1000, 20, 12)
	a.Vel.X = math.Inf(1)
	tc, _ := newTestTick(t, a)

	UpdateEnemies(tc)
	assert.Equal(t, 1200.0, a.Pos.X)
	assert.Zero(t, a.Vel.X)
}

func TestUpdateEnemiesClampsToWorld(t *testing.T) {
	a := newActor(1, 5, 5, 20, 12)
	a.Enemy.Speed = 1000
	a.Enemy.Movement = Kite{OptimalRange: 5000}
	a.Enemy.AI.OrbitDir = 1
	tc, _ := newTestTick(t, a)
	tc.DT = 1

	UpdateEnemies(tc)
	assert.GreaterOrEqual(t, a.Pos.X, 0.0)
	assert.GreaterOrEqual(t, a.Pos.Y, 0.0)
	assert.LessOrEqual(t, a.Pos.X, tc.Cfg.World.Size)
	assert.LessOrEqual(t, a.Pos.Y, tc.Cfg.World.Size)
}

package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
)

// Events receives one-way notifications from the simulation.
// Implementations must not mutate simulation state.
type Events interface {
	// DamageNumber reports damage dealt to an enemy. Negated hits report 0.
	DamageNumber(pos r2.Vec, amount float64, enemy *components.Enemy)
	PlayerDamaged(amount float64, source string)
	Explosion(pos r2.Vec, radius float64, color config.RGB)
	Flash(pos r2.Vec, radius float64)
	Lightning(from, to r2.Vec)
	EnemyKilled(enemy *components.Enemy, pos r2.Vec)
	BossPhase(enemy *components.Enemy, phase int, name string)
	PickupCollected(kind components.PickupKind, value float64)
	ScoreDelta(delta int)
	CreditDelta(delta int)
	LevelUp(pending int)
}

// NopEvents discards every event. Embed it to implement a subset of Events.
type NopEvents struct{}

func (NopEvents) DamageNumber(r2.Vec, float64, *components.Enemy) {}
func (NopEvents) PlayerDamaged(float64, string) {}
func (NopEvents) Explosion(r2.Vec, float64, config.RGB) {}
func (NopEvents) Flash(r2.Vec, float64) {}
func (NopEvents) Lightning(r2.Vec, r2.Vec) {}
func (NopEvents) EnemyKilled(*components.Enemy, r2.Vec) {}
func (NopEvents) BossPhase(*components.Enemy, int, string) {}
func (NopEvents) PickupCollected(components.PickupKind, float64) {}
func (NopEvents) ScoreDelta(int) {}
func (NopEvents) CreditDelta(int) {}
func (NopEvents) LevelUp(int) {}

// MultiEvents fans every event out to each sink in order.
type MultiEvents []Events

func (m MultiEvents) DamageNumber(pos r2.Vec, amount float64, enemy *components.Enemy) {
	for _, e := range m {
		e.DamageNumber(pos, amount, enemy)
	}
}

func (m MultiEvents) PlayerDamaged(amount float64, source string) {
	for _, e := range m {
		e.PlayerDamaged(amount, source)
	}
}

func (m MultiEvents) Explosion(pos r2.Vec, radius float64, color config.RGB) {
	for _, e := range m {
		e.Explosion(pos, radius, color)
	}
}

func (m MultiEvents) Flash(pos r2.Vec, radius float64) {
	for _, e := range m {
		e.Flash(pos, radius)
	}
}

func (m MultiEvents) Lightning(from, to r2.Vec) {
	for _, e := range m {
		e.Lightning(from, to)
	}
}

func (m MultiEvents) EnemyKilled(enemy *components.Enemy, pos r2.Vec) {
	for _, e := range m {
		e.EnemyKilled(enemy, pos)
	}
}

func (m MultiEvents) BossPhase(enemy *components.Enemy, phase int, name string) {
	for _, e := range m {
		e.BossPhase(enemy, phase, name)
	}
}

func (m MultiEvents) PickupCollected(kind components.PickupKind, value float64) {
	for _, e := range m {
		e.PickupCollected(kind, value)
	}
}

func (m MultiEvents) ScoreDelta(delta int) {
	for _, e := range m {
		e.ScoreDelta(delta)
	}
}

func (m MultiEvents) CreditDelta(delta int) {
	for _, e := range m {
		e.CreditDelta(delta)
	}
}

func (m MultiEvents) LevelUp(pending int) {
	for _, e := range m {
		e.LevelUp(pending)
	}
}

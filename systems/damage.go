package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
)

// auraReduction is the flat damage multiplier for aura-shielded targets.
const auraReduction = 0.5

// DamageResult describes how one hit was resolved.
type DamageResult struct {
	Applied       float64 // Damage removed from shield and HP combined
	ShieldPortion float64
	HealthPortion float64
	Killed        bool // This hit took HP to zero
	Overkill      float64
	Defied        bool // Death Defiance negated the hit
}

// TakeDamage resolves one hit against h: aura reduction, then Death Defiance,
// then shield before HP. Hits on an already dead target and non-positive or
// non-finite amounts are ignored.
func TakeDamage(h *components.Health, amount float64) DamageResult {
	if h.HP <= 0 || !(amount > 0) || math.IsInf(amount, 0) {
		return DamageResult{}
	}

	if h.ShieldedByAura {
		amount *= auraReduction
	}

	if h.DeathDefiance && amount >= h.HP+h.Shield {
		h.DeathDefiance = false
		h.Shield = 0
		return DamageResult{Defied: true}
	}

	var res DamageResult
	if h.Shield > 0 {
		res.ShieldPortion = math.Min(amount, h.Shield)
		h.Shield -= res.ShieldPortion
	}

	rest := amount - res.ShieldPortion
	if rest > 0 {
		res.HealthPortion = math.Min(rest, h.HP)
		res.Overkill = rest - res.HealthPortion
		h.HP -= res.HealthPortion
		if h.HP <= 0 {
			h.HP = 0
			res.Killed = true
		}
	}

	res.Applied = res.ShieldPortion + res.HealthPortion
	return res
}

// damageEnemy applies damage to an enemy and always reports a damage number,
// including 0 for a negated hit.
func damageEnemy(tc *TickContext, a *components.Actor, amount float64) DamageResult {
	if a.Health.HP <= 0 {
		return DamageResult{}
	}
	res := TakeDamage(a.Health, amount)
	tc.Events.DamageNumber(a.Pos.Vec, res.Applied, a.Enemy)
	if res.Defied {
		tc.Events.Flash(a.Pos.Vec, a.Body.Radius*2)
	}
	tc.Stats.DamageDealt += res.Applied
	return res
}

// damagePlayer applies damage to the player unless inside the hurt window,
// and opens the window on a landed hit.
func damagePlayer(tc *TickContext, amount float64, source string) DamageResult {
	p := tc.Player
	if !p.Vulnerable(tc.Time) {
		return DamageResult{}
	}
	res := hitPlayer(tc, amount, source)
	if res.Applied > 0 {
		p.HurtUntil = tc.Time + p.Stats.HurtCooldown
	}
	return res
}

// hitPlayer applies damage to the player ignoring the hurt window and
// without opening it. Kamikaze blasts resolve here.
func hitPlayer(tc *TickContext, amount float64, source string) DamageResult {
	p := tc.Player
	if p.Health.HP <= 0 {
		return DamageResult{}
	}
	res := TakeDamage(&p.Health, amount)
	if res.Applied > 0 {
		tc.Events.PlayerDamaged(res.Applied, source)
		tc.Stats.DamageTaken += res.Applied
	}
	return res
}

// splash damages every live enemy within radius of center except skip and
// returns how many were hit.
func splash(tc *TickContext, center r2.Vec, radius, amount float64, skip uint32) int {
	hit := 0
	tc.scratch = tc.Grid.RetrieveRadius(tc.scratch[:0], center, radius)
	for _, a := range tc.scratch {
		if a.Enemy.ID == skip || a.Health.HP <= 0 {
			continue
		}
		if dist(a.Pos.Vec, center) <= radius+a.Body.Radius {
			damageEnemy(tc, a, amount)
			hit++
		}
	}
	return hit
}

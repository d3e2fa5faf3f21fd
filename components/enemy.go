package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/config"
)

// Tier is a rarity rank that scales enemy stats through the tier table.
type Tier uint8

const (
	TierNormal Tier = iota
	TierElite
	TierLegendary
	TierMiniboss
)

var tierNames = [...]string{"normal", "elite", "legendary", "miniboss"}

// String returns the tier's config key.
func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return "unknown"
}

// ParseTier maps a config key back to a Tier.
func ParseTier(s string) (Tier, bool) {
	for i, name := range tierNames {
		if name == s {
			return Tier(i), true
		}
	}
	return TierNormal, false
}

// Enemy holds enemy identity, scaled stats, composed behaviors and mutable AI state.
type Enemy struct {
	ID        uint32
	Archetype string
	Tier      Tier
	Level     int
	Color     config.RGB

	// Boss identity is set at construction.
	IsBoss    bool
	WaveIndex int

	Speed         float64
	ContactDamage float64
	DamageMult    float64
	XP            float64

	Kamikaze        bool
	BaseBlastDamage float64
	Support         bool
	AuraRadius      float64

	Movement Movement
	Attack   Attack

	AI     AIState
	Status Status

	SpawnTime float64
	// DeathHandled is set once the death handler has emitted this enemy's death.
	DeathHandled bool
}

// AIState is per-enemy mutable state shared by movement and attack strategies.
type AIState struct {
	Seed        float64 // Per-enemy [0,1) seed for deterministic variation
	PhaseOffset float64 // Chase pulse phase
	OrbitAngle  float64
	OrbitRate   float64
	OrbitDir    float64 // +1 or -1

	Heading    r2.Vec  // Rush: current unit heading
	SpeedScale float64 // Rush: current speed multiplier

	NextAttack  float64 // Absolute time the attack is next allowed
	LastAttack  float64
	LastContact float64 // Last time player thorns hit this enemy

	Beam BeamState
}

// BeamState is the charge/fire state of an enemy laser.
type BeamState struct {
	Charging       bool
	Firing         bool
	ChargeProgress float64 // 0..1
	FireProgress   float64 // 0..1
	AimAngle       float64
	Damage         float64 // Damage per beam tick
	Boss           bool    // Boss beams are wider and longer
	LastTick       float64
}

// Active reports whether the beam is charging or firing.
func (b *BeamState) Active() bool {
	return b.Charging || b.Firing
}

// Status holds transient status effects.
type Status struct {
	SlowUntil  float64
	SlowFactor float64
}

// SpeedFactor returns the movement multiplier from active slows at time now.
func (s Status) SpeedFactor(now float64) float64 {
	if now < s.SlowUntil && s.SlowFactor > 0 {
		return s.SlowFactor
	}
	return 1
}

// ApplySlow applies a slow, keeping the stronger factor and later expiry.
func (s *Status) ApplySlow(factor, now, duration float64) {
	if now >= s.SlowUntil {
		s.SlowFactor = 0
	}
	until := now + duration
	if until > s.SlowUntil {
		s.SlowUntil = until
	}
	if s.SlowFactor == 0 || factor < s.SlowFactor {
		s.SlowFactor = factor
	}
}

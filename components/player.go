package components

import "gonum.org/v1/gonum/spatial/r2"

// PickupKind identifies what a pickup grants.
type PickupKind uint8

const (
	PickupXP PickupKind = iota
	PickupCredit
	PickupHeal
	PickupShield
)

// String returns a short name for logs and telemetry.
func (k PickupKind) String() string {
	switch k {
	case PickupXP:
		return "xp"
	case PickupCredit:
		return "credit"
	case PickupHeal:
		return "heal"
	case PickupShield:
		return "shield"
	}
	return "unknown"
}

// Pickup is a collectible dropped on enemy death.
type Pickup struct {
	Kind      PickupKind
	Value     float64
	Radius    float64
	Collected bool
}

// Player is the single player entity.
type Player struct {
	Pos    r2.Vec
	Vel    r2.Vec
	Aim    r2.Vec // Current aim input, zero when none
	Radius float64
	Health Health
	Stats  PlayerStats

	HurtUntil float64
	NextShot  float64
	LaserID   uint32 // Live player laser projectile, 0 if none

	XP            float64
	XPToNext      float64
	Level         int
	PendingLevels int

	Credits int
	Score   int
	Kills   int
}

// PlayerStats is the player's stat snapshot after meta-progression.
type PlayerStats struct {
	Speed         float64
	DamageMult    float64
	FireRateMult  float64
	MagnetRadius  float64
	MagnetSpeed   float64
	PickupRadius  float64
	ContactDamage float64
	HurtCooldown  float64
	ExtraChain    int
	ExtraPierce   int
	XPGrowth      float64
}

// Vulnerable reports whether the player can take damage at time now.
func (p *Player) Vulnerable(now float64) bool {
	return now >= p.HurtUntil
}

// ConsumeLevelUp applies one pending level. It reports false when none is pending.
func (p *Player) ConsumeLevelUp() bool {
	if p.PendingLevels <= 0 {
		return false
	}
	p.PendingLevels--
	p.Level++
	return true
}

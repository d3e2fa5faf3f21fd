package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/config"
)

// Owner identifies which side fired a projectile.
type Owner uint8

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
)

// WeaponEffect selects the projectile behavior.
type WeaponEffect uint8

const (
	EffectNone WeaponEffect = iota
	EffectExplosive
	EffectPiercing
	EffectHoming
	EffectLaser
	EffectChain
	EffectPulsing
)

var effectNames = [...]string{"none", "explosive", "piercing", "homing", "laser", "chain", "pulsing"}

// String returns the effect's config key.
func (e WeaponEffect) String() string {
	if int(e) < len(effectNames) {
		return effectNames[e]
	}
	return "unknown"
}

// ParseWeaponEffect maps a config key back to a WeaponEffect.
func ParseWeaponEffect(s string) (WeaponEffect, bool) {
	if s == "" {
		return EffectNone, true
	}
	for i, name := range effectNames {
		if name == s {
			return WeaponEffect(i), true
		}
	}
	return EffectNone, false
}

// Splashes reports whether a direct hit with this effect damages an area.
func (e WeaponEffect) Splashes() bool {
	return e == EffectExplosive || e == EffectHoming
}

// Projectile holds the state of one projectile.
// Dead is set immediately when the projectile is consumed.
type Projectile struct {
	ID       uint32
	Owner    Owner
	SourceID uint32 // Firing enemy ID (enemy shots)
	Effect   WeaponEffect
	Missile  bool // Enemy missile: splash VFX on hit
	Color    config.RGB

	Dir      r2.Vec // Unit direction
	Speed    float64
	Radius   float64
	Damage   float64
	Pierce   int // Remaining extra targets
	Elapsed  float64
	Duration float64
	Dead     bool

	// Homing
	TargetID     uint32
	TurnRate     float64
	SearchRadius float64

	SplashRadius float64
	SplashFactor float64

	Laser LaserState
	Chain ChainParams
	Pulse PulseState

	// Enemy ID -> time of last hit. Guards multi-hit for piercing, beams and pulses.
	Hits map[uint32]float64
}

// Expired reports whether the projectile has outlived its duration.
func (p *Projectile) Expired() bool {
	return p.Duration > 0 && p.Elapsed >= p.Duration
}

// HitAt records a hit on enemy id at time t.
func (p *Projectile) HitAt(id uint32, t float64) {
	if p.Hits == nil {
		p.Hits = make(map[uint32]float64, 4)
	}
	p.Hits[id] = t
}

// HasHit reports whether enemy id was hit before.
func (p *Projectile) HasHit(id uint32) bool {
	_, ok := p.Hits[id]
	return ok
}

// LaserState is the charge/fire state of a player laser.
type LaserState struct {
	Firing           bool
	ChargeTime       float64
	BeamDuration     float64
	Length           float64
	Width            float64
	ChargeTurnRate   float64
	FireTurnRate     float64
	AutoTargetRadius float64
	AimAngle         float64
	TickInterval     float64
}

// ChargeProgress returns charge progress 0..1 at the given elapsed time.
func (l *LaserState) ChargeProgress(elapsed float64) float64 {
	if l.Firing || l.ChargeTime <= 0 {
		return 1
	}
	p := elapsed / l.ChargeTime
	if p > 1 {
		return 1
	}
	return p
}

// ChainParams configures chain jumps.
type ChainParams struct {
	Jumps int
	Range float64
	Decay float64
}

// PulseState configures and tracks a pulsing projectile.
type PulseState struct {
	Interval     float64
	Radius       float64
	Fraction     float64 // Pulse damage as a fraction of Damage
	ImpactMult   float64
	SlowFactor   float64
	SlowDuration float64
	NextPulse    float64 // Elapsed time of the next pulse
	ImpactDone   bool
}

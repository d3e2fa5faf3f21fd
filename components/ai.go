package components

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// Actor bundles the component pointers of one live enemy for a single tick.
// Pointers are invalidated by structural world changes; rebuild after each merge.
type Actor struct {
	Entity ecs.Entity
	Pos    *Position
	Vel    *Velocity
	Body   *Body
	Health *Health
	Enemy  *Enemy
}

// Alive reports whether the actor still has HP.
func (a *Actor) Alive() bool {
	return a.Health.HP > 0
}

// Shot bundles the component pointers of one projectile.
type Shot struct {
	Entity ecs.Entity
	Pos    *Position
	P      *Projectile
}

// Loot bundles the component pointers of one pickup.
type Loot struct {
	Entity ecs.Entity
	Pos    *Position
	P      *Pickup
}

// AIContext is the per-call input of movement and attack strategies.
// It is built fresh for each enemy update and never stored.
type AIContext struct {
	Self      *Actor
	PlayerPos r2.Vec
	DT        float64
	Time      float64 // Absolute simulation clock
	GameTime  float64 // Elapsed session time
	Allies    []*Actor
	Rng       *rand.Rand
	Out       *SpawnBuffer
}

// Steering is a desired unit direction plus a speed multiplier.
// Speed itself is applied by the caller.
type Steering struct {
	Dir        r2.Vec
	SpeedScale float64
}

// Movement chooses where an enemy wants to go.
type Movement interface {
	Steer(ctx *AIContext) Steering
}

// Attack decides when an enemy attacks and emits spawn descriptors into ctx.Out.
type Attack interface {
	Update(ctx *AIContext)
}

// ProjectileSpawn describes a projectile to create after the current pass.
type ProjectileSpawn struct {
	Pos        r2.Vec
	Projectile Projectile
}

// EnemySpawn describes an enemy to create after the current pass.
type EnemySpawn struct {
	Archetype string
	Tier      Tier
	Pos       r2.Vec
	Level     int
}

// PickupSpawn describes a pickup to create after the current pass.
type PickupSpawn struct {
	Pos    r2.Vec
	Pickup Pickup
}

// SpawnBuffer collects entities created during a pass. The owner merges it
// into the live collections once the pass finishes.
type SpawnBuffer struct {
	Projectiles []ProjectileSpawn
	Enemies     []EnemySpawn
	Pickups     []PickupSpawn
}

// Reset empties the buffer, keeping capacity.
func (b *SpawnBuffer) Reset() {
	b.Projectiles = b.Projectiles[:0]
	b.Enemies = b.Enemies[:0]
	b.Pickups = b.Pickups[:0]
}

// Empty reports whether nothing is buffered.
func (b *SpawnBuffer) Empty() bool {
	return len(b.Projectiles) == 0 && len(b.Enemies) == 0 && len(b.Pickups) == 0
}

package systems

import (
	"log/slog"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// recorder captures events for assertions.
type recorder struct {
	NopEvents
	damage     []float64
	playerHits []float64
	kills      []*components.Enemy
	explosions int
	lightning  int
	phases     []string
	levelUps   []int
	pickups    []components.PickupKind
}

func (r *recorder) DamageNumber(_ r2.Vec, amount float64, _ *components.Enemy) {
	r.damage = append(r.damage, amount)
}

func (r *recorder) PlayerDamaged(amount float64, _ string) {
	r.playerHits = append(r.playerHits, amount)
}

func (r *recorder) EnemyKilled(e *components.Enemy, _ r2.Vec) {
	r.kills = append(r.kills, e)
}

func (r *recorder) Explosion(r2.Vec, float64, config.RGB) {
	r.explosions++
}

func (r *recorder) Lightning(r2.Vec, r2.Vec) {
	r.lightning++
}

func (r *recorder) BossPhase(_ *components.Enemy, _ int, name string) {
	r.phases = append(r.phases, name)
}

func (r *recorder) LevelUp(pending int) {
	r.levelUps = append(r.levelUps, pending)
}

func (r *recorder) PickupCollected(kind components.PickupKind, _ float64) {
	r.pickups = append(r.pickups, kind)
}

func newActor(id uint32, x, y, hp, radius float64) *components.Actor {
	return &components.Actor{
		Pos:    &components.Position{Vec: r2.Vec{X: x, Y: y}},
		Vel:    &components.Velocity{},
		Body:   &components.Body{Radius: radius},
		Health: &components.Health{HP: hp, MaxHP: hp},
		Enemy:  &components.Enemy{ID: id, Archetype: "scout", DamageMult: 1, Level: 1},
	}
}

func newShot(pos r2.Vec, p components.Projectile) *components.Shot {
	return &components.Shot{
		Pos: &components.Position{Vec: pos},
		P:   &p,
	}
}

// newTestTick builds a tick context around the default config with the
// player at (1000, 1000).
func newTestTick(t *testing.T, enemies ...*components.Actor) (*TickContext, *recorder) {
	t.Helper()
	cfg := config.Default()
	pl := NewPlayer(cfg)
	pl.Pos = r2.Vec{X: 1000, Y: 1000}
	rec := &recorder{}
	tc := &TickContext{
		Cfg:      cfg,
		Time:     10,
		GameTime: 10,
		DT:       1.0 / 60,
		Player:   &pl,
		Enemies:  enemies,
		Grid:     NewSpatialGrid[*components.Actor](cfg.World.Size, cfg.Sim.GridCellSize, discardLogger()),
		Behavior: NewBehaviorRegistry(),
		Events:   rec,
		Out:      &components.SpawnBuffer{},
		IDs:      &IDSource{},
		Rng:      testRNG(),
		Logger:   discardLogger(),
	}
	tc.Index()
	tc.RebuildGrid()
	return tc, rec
}

func aiContext(tc *TickContext, self *components.Actor) *components.AIContext {
	return &components.AIContext{
		Self:      self,
		PlayerPos: tc.Player.Pos,
		DT:        tc.DT,
		Time:      tc.Time,
		GameTime:  tc.GameTime,
		Allies:    tc.Enemies,
		Rng:       tc.Rng,
		Out:       tc.Out,
	}
}

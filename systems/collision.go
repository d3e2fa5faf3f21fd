package systems

import (
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
)

// IDSource hands out entity ids. Ids are never reused within a session.
type IDSource struct {
	next uint32
}

// Next returns a fresh non-zero id.
func (s *IDSource) Next() uint32 {
	s.next++
	return s.next
}

// TickStats counts what happened during one tick.
type TickStats struct {
	DamageDealt float64
	DamageTaken float64
	Kills       int
	Pickups     int
}

// TickContext is threaded through every system and collision handler of
// one tick. Views are rebuilt by the owner whenever buffered spawns are merged.
type TickContext struct {
	Cfg      *config.Config
	Time     float64 // Absolute simulation clock
	GameTime float64 // Elapsed session time
	DT       float64

	Player   *components.Player
	Enemies  []*components.Actor
	ByID     map[uint32]*components.Actor
	Shots    []*components.Shot
	Loot     []*components.Loot
	Grid     *SpatialGrid[*components.Actor]
	Behavior *BehaviorRegistry

	Events Events
	Out    *components.SpawnBuffer
	IDs    *IDSource
	Rng    *rand.Rand
	Logger *slog.Logger
	Stats  TickStats

	// Flush merges Out into the world and rebuilds the views. Called by the
	// pipeline after any handler that buffered spawns.
	Flush func(tc *TickContext)

	scratch    []*components.Actor // nearestEnemy, splash, pulses
	candidates []*components.Actor // handler broad phase
}

// RebuildGrid re-inserts every live enemy into the spatial grid.
func (tc *TickContext) RebuildGrid() {
	tc.Grid.Clear()
	for _, a := range tc.Enemies {
		if a.Health.HP > 0 {
			tc.Grid.Insert(a, a.Pos.Vec)
		}
	}
}

// Index rebuilds the id lookup from the enemy view.
func (tc *TickContext) Index() {
	if tc.ByID == nil {
		tc.ByID = make(map[uint32]*components.Actor, len(tc.Enemies))
	}
	clear(tc.ByID)
	for _, a := range tc.Enemies {
		tc.ByID[a.Enemy.ID] = a
	}
}

// nearestEnemy returns the closest live enemy within radius of pos whose id
// is not in exclude.
func (tc *TickContext) nearestEnemy(pos r2.Vec, radius float64, exclude map[uint32]float64) *components.Actor {
	var best *components.Actor
	bestSq := radius * radius
	tc.scratch = tc.Grid.RetrieveRadius(tc.scratch[:0], pos, radius)
	for _, a := range tc.scratch {
		if a.Health.HP <= 0 {
			continue
		}
		if _, hit := exclude[a.Enemy.ID]; hit {
			continue
		}
		if d := distSq(pos, a.Pos.Vec); d <= bestSq {
			bestSq = d
			best = a
		}
	}
	return best
}

// CollisionHandler resolves one kind of interaction.
type CollisionHandler interface {
	Name() string
	Handle(tc *TickContext)
}

// Pipeline runs its handlers in order once per tick.
type Pipeline struct {
	handlers []CollisionHandler
}

// NewPipeline returns the standard handler order: offense, then status,
// then death bookkeeping.
func NewPipeline() *Pipeline {
	return &Pipeline{handlers: []CollisionHandler{
		PlayerShotHandler{},
		PlayerContactHandler{},
		EnemyShotHandler{},
		EnemyBeamHandler{},
		PickupHandler{},
		DeathHandler{},
	}}
}

// Handlers returns the handlers in execution order.
func (p *Pipeline) Handlers() []CollisionHandler {
	return p.handlers
}

// Run executes every handler, flushing buffered spawns after each one.
func (p *Pipeline) Run(tc *TickContext) {
	for _, h := range p.handlers {
		h.Handle(tc)
		if tc.Flush != nil && !tc.Out.Empty() {
			tc.Flush(tc)
		}
	}
}

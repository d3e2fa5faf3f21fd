// Package game runs one arena session: the ECS world, the player, the wave
// scheduler and the collision pipeline, stepped once per frame.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/systems"
	"github.com/pthm-cable/arena/telemetry"
)

// recentEvents is how many notable events snapshots carry.
const recentEvents = 32

// Options configures a Session.
type Options struct {
	Seed   int64
	Logger *slog.Logger // Defaults to slog.Default()

	// Events receives every simulation event after the telemetry collector,
	// typically a renderer collecting VFX.
	Events systems.Events

	// OutputDir enables CSV telemetry, the config snapshot and bookmark
	// snapshots under OutputDir/<run id>.
	OutputDir string
	LogStats  bool

	// OnStats is called with every flushed stats window.
	OnStats func(telemetry.WindowStats)

	// Sandbox disables the wave scheduler; enemies appear only when summoned.
	Sandbox bool
}

// Session owns all state of one simulated arena.
type Session struct {
	cfg    *config.Config
	logger *slog.Logger
	seed   int64
	runID  string

	world       *ecs.World
	enemyMap    *ecs.Map5[components.Position, components.Velocity, components.Body, components.Health, components.Enemy]
	enemyFilter *ecs.Filter5[components.Position, components.Velocity, components.Body, components.Health, components.Enemy]
	shotMap     *ecs.Map2[components.Position, components.Projectile]
	shotFilter  *ecs.Filter2[components.Position, components.Projectile]
	lootMap     *ecs.Map2[components.Position, components.Pickup]
	lootFilter  *ecs.Filter2[components.Position, components.Pickup]

	player    components.Player
	weapon    *systems.Weapon
	scheduler *systems.Scheduler
	factory   *systems.Factory
	pipeline  *systems.Pipeline
	behavior  *systems.BehaviorRegistry
	grid      *systems.SpatialGrid[*components.Actor]
	rng       *rand.Rand
	ids       systems.IDSource
	events    systems.Events
	sandbox   bool

	tc         systems.TickContext
	out        components.SpawnBuffer
	blueprints []systems.Blueprint

	// View storage, rebuilt after every structural change
	actors    []components.Actor
	shots     []components.Shot
	loot      []components.Loot
	shotViews []*components.Shot
	lootViews []*components.Loot
	toRemove  []ecs.Entity

	clock     float64
	lastFlush float64
	alive     int
	over      bool

	// Telemetry
	collector   *telemetry.Collector
	perf        *telemetry.PerfCollector
	bookmarks   *telemetry.BookmarkDetector
	output      *telemetry.OutputManager
	snapshotDir string
	logStats    bool
	onStats     func(telemetry.WindowStats)
}

// NewSession creates a session with a fresh world and player.
func NewSession(cfg *config.Config, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	tcfg := cfg.Telemetry
	s := &Session{
		cfg:       cfg,
		logger:    logger,
		seed:      opts.Seed,
		runID:     runID,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		pipeline:  systems.NewPipeline(),
		behavior:  systems.NewBehaviorRegistry(),
		grid:      systems.NewSpatialGrid[*components.Actor](cfg.World.Size, cfg.Sim.GridCellSize, logger),
		sandbox:   opts.Sandbox,
		collector: telemetry.NewCollector(tcfg.StatsWindow, recentEvents),
		perf:      telemetry.NewPerfCollector(tcfg.PerfCollectorWindow),
		bookmarks: telemetry.NewBookmarkDetector(tcfg.BookmarkHistory, tcfg.NearDeathFraction, tcfg.KillStreak),
		logStats:  opts.LogStats,
		onStats:   opts.OnStats,
	}

	s.events = systems.MultiEvents{s.collector}
	if opts.Events != nil {
		s.events = systems.MultiEvents{s.collector, opts.Events}
	}

	var err error
	if s.weapon, err = systems.NewWeapon(cfg, cfg.Player.Weapon); err != nil {
		return nil, fmt.Errorf("player weapon: %w", err)
	}
	if s.factory, err = systems.NewFactory(cfg, &s.ids, s.events, s.rng, logger); err != nil {
		return nil, fmt.Errorf("enemy factory: %w", err)
	}
	s.scheduler = systems.NewScheduler(cfg, cfg.Derived.Difficulty, s.rng)

	if opts.OutputDir != "" {
		dir := filepath.Join(opts.OutputDir, runID)
		if s.output, err = telemetry.NewOutputManager(dir); err != nil {
			return nil, err
		}
		if err := s.output.WriteConfig(cfg); err != nil {
			s.output.Close()
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
		s.snapshotDir = filepath.Join(dir, "snapshots")
	}

	s.newWorld()
	logger.Info("session started",
		"seed", opts.Seed,
		"difficulty", cfg.Difficulty.Active,
		"weapon", cfg.Player.Weapon,
		"sandbox", opts.Sandbox,
		"output", s.output.Dir(),
	)
	return s, nil
}

// newWorld discards every entity and resets per-session state.
func (s *Session) newWorld() {
	world := ecs.NewWorld()
	s.world = world
	s.enemyMap = ecs.NewMap5[components.Position, components.Velocity, components.Body, components.Health, components.Enemy](world)
	s.enemyFilter = ecs.NewFilter5[components.Position, components.Velocity, components.Body, components.Health, components.Enemy](world)
	s.shotMap = ecs.NewMap2[components.Position, components.Projectile](world)
	s.shotFilter = ecs.NewFilter2[components.Position, components.Projectile](world)
	s.lootMap = ecs.NewMap2[components.Position, components.Pickup](world)
	s.lootFilter = ecs.NewFilter2[components.Position, components.Pickup](world)

	s.ids = systems.IDSource{}
	s.player = systems.NewPlayer(s.cfg)
	s.out.Reset()
	s.blueprints = s.blueprints[:0]
	s.clock = 0
	s.lastFlush = 0
	s.alive = 0
	s.over = false

	s.tc = systems.TickContext{
		Cfg:      s.cfg,
		Player:   &s.player,
		Grid:     s.grid,
		Behavior: s.behavior,
		Events:   s.events,
		Out:      &s.out,
		IDs:      &s.ids,
		Rng:      s.rng,
		Logger:   s.logger,
		Flush:    s.flush,
	}
	s.refreshViews()
}

// Reset discards all live entities and starts the session over with the
// same seed. The scheduler's timers and the telemetry window restart too.
func (s *Session) Reset() {
	s.rng.Seed(s.seed)
	s.scheduler.Reset()
	s.collector.Reset()
	s.bookmarks.Reset()
	s.newWorld()
	s.logger.Info("session reset")
}

// SetDifficulty switches the active difficulty preset for future spawns.
func (s *Session) SetDifficulty(name string) error {
	if err := s.cfg.SetDifficulty(name); err != nil {
		return err
	}
	s.scheduler.SetDifficulty(s.cfg.Derived.Difficulty)
	s.logger.Info("difficulty changed", "difficulty", name)
	return nil
}

// Close flushes the last partial stats window and closes telemetry output.
func (s *Session) Close() error {
	if s.clock > s.lastFlush {
		s.flushTelemetry(true)
	}
	return s.output.Close()
}

// RunID returns the session's unique id.
func (s *Session) RunID() string { return s.runID }

// Config returns the session config.
func (s *Session) Config() *config.Config { return s.cfg }

// Time returns elapsed session time in seconds.
func (s *Session) Time() float64 { return s.clock }

// Over reports whether the player has died.
func (s *Session) Over() bool { return s.over }

// Alive returns the number of live enemies.
func (s *Session) Alive() int { return s.alive }

// Player returns a copy of the player record.
func (s *Session) Player() components.Player { return s.player }

// Perf returns aggregated step timings.
func (s *Session) Perf() telemetry.PerfStats { return s.perf.Stats() }

// RecordFrame records frame timing in graphics mode.
func (s *Session) RecordFrame() { s.perf.RecordFrame() }

package game

import (
	"fmt"
	"math"

	"github.com/pthm-cable/arena/systems"
	"github.com/pthm-cable/arena/telemetry"
)

// Step advances the session by dt seconds, clamped to sim.max_dt.
// It does nothing once the player has died.
func (s *Session) Step(in Input, dt float64) {
	if s.over {
		return
	}
	dt = min(dt, s.cfg.Sim.MaxDT)
	if !(dt > 0) {
		return
	}

	s.perf.StartTick()
	s.clock += dt
	tc := &s.tc
	tc.Time = s.clock
	tc.GameTime = s.clock
	tc.DT = dt
	tc.Stats = systems.TickStats{}
	s.collector.Observe(s.clock, s.player.Health.Fraction(), s.alive)

	s.perf.StartPhase(telemetry.PhaseSpawn)
	s.spawnPhase(in)

	s.perf.StartPhase(telemetry.PhasePlayer)
	if in.Upgrade != UpgradeNone {
		s.ApplyUpgrade(in.Upgrade)
	}
	systems.MovePlayer(tc, in.Move, in.Aim)
	s.weapon.Fire(tc, in.Aim, in.Fire)

	s.perf.StartPhase(telemetry.PhaseEnemies)
	systems.ApplyAuras(tc)
	systems.UpdateEnemies(tc)

	s.perf.StartPhase(telemetry.PhaseProjectiles)
	systems.AdvanceProjectiles(tc)

	s.perf.StartPhase(telemetry.PhaseMerge)
	s.flush(tc)

	s.perf.StartPhase(telemetry.PhaseCollision)
	s.pipeline.Run(tc)

	s.perf.StartPhase(telemetry.PhaseCleanup)
	s.cleanup()

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.collector.Observe(s.clock, s.player.Health.Fraction(), s.alive)
	if s.player.Health.HP <= 0 {
		s.over = true
		s.logger.Info("player died",
			"time", s.clock,
			"level", s.player.Level,
			"kills", s.player.Kills,
			"score", s.player.Score,
			"credits", s.player.Credits,
		)
		s.flushTelemetry(true)
	} else {
		s.flushTelemetry(false)
	}
	s.perf.EndTick()
}

// spawnPhase turns scheduler decisions and summons into blueprints and
// merges them so new enemies act this tick.
func (s *Session) spawnPhase(in Input) {
	if !s.sandbox {
		for _, d := range s.scheduler.Update(s.clock, s.alive) {
			s.queueDecision(d)
		}
	}
	if in.Summon != "" {
		if err := s.summon(in.Summon); err != nil {
			s.logger.Warn("summon failed", "name", in.Summon, "error", err)
		}
	}
	if len(s.blueprints) > 0 {
		s.flush(&s.tc)
	}
}

func (s *Session) queueDecision(d systems.SpawnDecision) {
	bps, err := s.factory.Decision(d, s.player.Pos, s.clock)
	if err != nil {
		// Scheduler names come from the validated config.
		panic(fmt.Errorf("spawn %s: %w", d.Kind, err))
	}
	if d.Kind == systems.SpawnBoss {
		s.logger.Info("boss spawned", "decision", d, "time", s.clock)
	} else {
		s.logger.Debug("spawn", "decision", d)
	}
	s.blueprints = append(s.blueprints, bps...)
}

// summon queues one enemy or boss by name near the player, at the current
// scheduler level and the normal tier.
func (s *Session) summon(name string) error {
	d := systems.SpawnDecision{
		Count:          1,
		Level:          s.scheduler.Level(s.clock),
		Distance:       s.cfg.Scheduler.SpawnDistance / 2,
		Angle:          s.rng.Float64() * 2 * math.Pi,
		DifficultyMult: s.cfg.Derived.Difficulty.Multiplier,
	}
	switch {
	case hasKey(s.cfg.Bosses, name):
		d.Kind = systems.SpawnBoss
		d.Boss = name
		d.WaveIndex = s.scheduler.BossWave()
	case hasKey(s.cfg.Archetypes, name):
		d.Kind = systems.SpawnEnemy
		d.Archetype = name
	default:
		return fmt.Errorf("%w: %q", systems.ErrUnknownArchetype, name)
	}
	bps, err := s.factory.Decision(d, s.player.Pos, s.clock)
	if err != nil {
		return err
	}
	s.blueprints = append(s.blueprints, bps...)
	return nil
}

func hasKey[V any](m map[string]V, k string) bool {
	_, ok := m[k]
	return ok
}

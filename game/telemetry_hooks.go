package game

import (
	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/systems"
	"github.com/pthm-cable/arena/telemetry"
)

// flushTelemetry closes the stats window when it is due (or when force is
// set) and handles bookmarks.
func (s *Session) flushTelemetry(force bool) {
	if !force && !s.collector.ShouldFlush(s.clock) {
		return
	}

	stats := s.collector.Flush(s.clock, s.alive)
	s.lastFlush = s.clock
	perfStats := s.perf.Stats()

	if s.onStats != nil {
		s.onStats(stats)
	}

	if s.logStats {
		stats.LogStats(s.logger)
		perfStats.LogStats(s.logger)
	}

	if err := s.output.WriteStats(stats); err != nil {
		s.logger.Error("failed to write stats", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEnd); err != nil {
		s.logger.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark(s.logger)
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			s.logger.Error("failed to write bookmark", "error", err)
		}
		if s.snapshotDir != "" {
			s.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the current state to the snapshot directory.
func (s *Session) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(s.snapshot(bookmark), s.snapshotDir)
	if err != nil {
		s.logger.Error("failed to save snapshot", "error", err)
		return
	}
	s.logger.Info("snapshot saved", "path", path, "time", s.clock)
}

// Snapshot returns a read-only copy of the session state.
func (s *Session) Snapshot() *telemetry.Snapshot {
	return s.snapshot(nil)
}

func (s *Session) snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	pl := &s.player
	snap := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		RunID:     s.runID,
		Seed:      s.seed,
		WorldSize: s.cfg.World.Size,
		Time:      s.tc.Time,
		GameTime:  s.clock,
		Over:      s.over,
		Player: telemetry.PlayerState{
			X:         pl.Pos.X,
			Y:         pl.Pos.Y,
			AimX:      pl.Aim.X,
			AimY:      pl.Aim.Y,
			Radius:    pl.Radius,
			Magnet:    pl.Stats.MagnetRadius,
			HP:        pl.Health.HP,
			MaxHP:     pl.Health.MaxHP,
			Shield:    pl.Health.Shield,
			MaxShield: pl.Health.MaxShield,
			Level:     pl.Level,
			XP:        pl.XP,
			XPToNext:  pl.XPToNext,
			Pending:   pl.PendingLevels,
			Score:     pl.Score,
			Credits:   pl.Credits,
			Kills:     pl.Kills,
			Hurt:      !pl.Vulnerable(s.clock),
		},
		Recent:   s.collector.Recent(),
		Bookmark: bookmark,
	}

	snap.Enemies = make([]telemetry.EnemyState, 0, len(s.tc.Enemies))
	for _, a := range s.tc.Enemies {
		e := a.Enemy
		beam := &e.AI.Beam
		es := telemetry.EnemyState{
			ID:           e.ID,
			Archetype:    e.Archetype,
			Tier:         e.Tier.String(),
			Level:        e.Level,
			Boss:         e.IsBoss,
			Color:        e.Color.String(),
			X:            a.Pos.X,
			Y:            a.Pos.Y,
			Radius:       a.Body.Radius,
			HP:           a.Health.HP,
			MaxHP:        a.Health.MaxHP,
			Shield:       a.Health.Shield,
			Shielded:     a.Health.ShieldedByAura,
			Slowed:       e.Status.SpeedFactor(s.clock) < 1,
			BeamCharging: beam.Charging,
			BeamFiring:   beam.Firing,
			BeamAngle:    beam.AimAngle,
			BeamBoss:     beam.Boss,
		}
		if beam.Charging {
			es.BeamProgress = beam.ChargeProgress
		} else if beam.Firing {
			es.BeamProgress = beam.FireProgress
		}
		if pm, ok := e.Attack.(*systems.PhaseMachine); ok {
			es.Phase = pm.PhaseName()
		}
		snap.Enemies = append(snap.Enemies, es)
	}

	snap.Projectiles = make([]telemetry.ProjectileState, 0, len(s.tc.Shots))
	for _, sh := range s.tc.Shots {
		p := sh.P
		if p.Dead {
			continue
		}
		ps := telemetry.ProjectileState{
			ID:     p.ID,
			Enemy:  p.Owner == components.OwnerEnemy,
			Effect: p.Effect.String(),
			Color:  p.Color.String(),
			X:      sh.Pos.X,
			Y:      sh.Pos.Y,
			DirX:   p.Dir.X,
			DirY:   p.Dir.Y,
			Radius: p.Radius,
		}
		if p.Effect == components.EffectLaser {
			ps.Laser = true
			ps.LaserFiring = p.Laser.Firing
			ps.LaserAngle = p.Laser.AimAngle
			ps.LaserLength = p.Laser.Length
			ps.LaserWidth = p.Laser.Width
			ps.Charge = p.Laser.ChargeProgress(p.Elapsed)
		}
		snap.Projectiles = append(snap.Projectiles, ps)
	}

	snap.Pickups = make([]telemetry.PickupState, 0, len(s.tc.Loot))
	for _, l := range s.tc.Loot {
		if l.P.Collected {
			continue
		}
		snap.Pickups = append(snap.Pickups, telemetry.PickupState{
			Kind:   l.P.Kind.String(),
			X:      l.Pos.X,
			Y:      l.Pos.Y,
			Radius: l.P.Radius,
			Value:  l.P.Value,
		})
	}
	return snap
}

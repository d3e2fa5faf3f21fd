package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
)

// PlayerShotHandler resolves player projectiles against enemies. Beams use
// segment distance against every enemy; everything else is a circle test
// against grid neighbors.
type PlayerShotHandler struct{}

func (PlayerShotHandler) Name() string { return "player_shots" }

func (PlayerShotHandler) Handle(tc *TickContext) {
	for _, s := range tc.Shots {
		p := s.P
		if p.Dead || p.Owner != components.OwnerPlayer {
			continue
		}
		if p.Effect == components.EffectLaser {
			if p.Laser.Firing {
				beamHits(tc, s)
			}
			continue
		}

		b := tc.Behavior.For(p.Effect)
		tc.candidates = tc.Grid.RetrieveInto(tc.candidates[:0], s.Pos.Vec)
		for _, a := range tc.candidates {
			if a.Health.HP <= 0 || p.HasHit(a.Enemy.ID) {
				continue
			}
			r := p.Radius + a.Body.Radius
			if distSq(s.Pos.Vec, a.Pos.Vec) > r*r {
				continue
			}
			b.OnHit(tc, s, a)
			if p.Dead {
				break
			}
		}
	}
}

// beamHits damages every enemy touching a firing player laser, at most once
// per beam tick interval per enemy. Beam damage is per second.
func beamHits(tc *TickContext, s *components.Shot) {
	p := s.P
	start, end := s.Pos.Vec, BeamEnd(s)
	half := p.Laser.Width / 2
	interval := p.Laser.TickInterval
	if interval <= 0 {
		interval = tc.Cfg.Collision.BeamTickInterval
	}

	for _, a := range tc.Enemies {
		if a.Health.HP <= 0 {
			continue
		}
		if segmentDistance(a.Pos.Vec, start, end) > half+a.Body.Radius {
			continue
		}
		if last, ok := p.Hits[a.Enemy.ID]; ok && tc.Time-last < interval {
			continue
		}
		p.HitAt(a.Enemy.ID, tc.Time)
		damageEnemy(tc, a, p.Damage*interval)
	}
}

// PlayerContactHandler resolves the player body against enemies. Kamikaze
// units zero their own health on contact and leave the blast to the death
// handler; everything else deals contact damage.
type PlayerContactHandler struct{}

func (PlayerContactHandler) Name() string { return "player_contact" }

func (PlayerContactHandler) Handle(tc *TickContext) {
	pl := tc.Player
	if pl.Health.HP <= 0 {
		return
	}
	thorns := pl.Stats.ContactDamage
	interval := tc.Cfg.Collision.ContactInterval

	tc.candidates = tc.Grid.RetrieveInto(tc.candidates[:0], pl.Pos)
	for _, a := range tc.candidates {
		if a.Health.HP <= 0 {
			continue
		}
		r := pl.Radius + a.Body.Radius
		if distSq(pl.Pos, a.Pos.Vec) > r*r {
			continue
		}

		e := a.Enemy
		if e.Kamikaze {
			a.Health.Kill()
			continue
		}
		if thorns > 0 && tc.Time-e.AI.LastContact >= interval {
			e.AI.LastContact = tc.Time
			damageEnemy(tc, a, thorns)
		}
		if e.ContactDamage > 0 {
			damagePlayer(tc, e.ContactDamage*e.DamageMult, e.Archetype)
		}
	}
}

// EnemyShotHandler resolves enemy projectiles against the player with a
// fixed player hit radius. Missiles add a visual-only splash.
type EnemyShotHandler struct{}

func (EnemyShotHandler) Name() string { return "enemy_shots" }

func (EnemyShotHandler) Handle(tc *TickContext) {
	pl := tc.Player
	hitRadius := tc.Cfg.Collision.EnemyShotPlayerRadius
	for _, s := range tc.Shots {
		p := s.P
		if p.Dead || p.Owner != components.OwnerEnemy {
			continue
		}
		r := p.Radius + hitRadius
		if distSq(s.Pos.Vec, pl.Pos) > r*r {
			continue
		}
		p.Dead = true
		if p.Missile {
			tc.Events.Explosion(s.Pos.Vec, tc.Cfg.Collision.MissileSplashRadius, p.Color)
		}
		damagePlayer(tc, p.Damage, "projectile")
	}
}

// EnemyBeamHandler resolves firing enemy beams against the player. Boss
// beams are longer and wider; every beam narrows as it burns out.
type EnemyBeamHandler struct{}

func (EnemyBeamHandler) Name() string { return "enemy_beams" }

func (EnemyBeamHandler) Handle(tc *TickContext) {
	pl := tc.Player
	col := tc.Cfg.Collision
	for _, a := range tc.Enemies {
		beam := &a.Enemy.AI.Beam
		if a.Health.HP <= 0 || !beam.Firing {
			continue
		}
		start, end, width := EnemyBeamSegment(a, col.SniperBeamLength, col.SniperBeamWidth, col.BossBeamLength, col.BossBeamWidth, col.BeamWidthShrink)
		if segmentDistance(pl.Pos, start, end) > width/2+pl.Radius {
			continue
		}
		if beam.LastTick > 0 && tc.Time-beam.LastTick < col.BeamTickInterval {
			continue
		}
		beam.LastTick = tc.Time
		damagePlayer(tc, beam.Damage, "beam")
	}
}

// EnemyBeamSegment returns the current hit segment and width of an enemy beam.
func EnemyBeamSegment(a *components.Actor, length, width, bossLength, bossWidth, shrink float64) (start, end r2.Vec, w float64) {
	beam := &a.Enemy.AI.Beam
	if beam.Boss {
		length, width = bossLength, bossWidth
	}
	w = width * (1 - shrink*clamp01(beam.ChargeProgress))
	start = a.Pos.Vec
	end = r2.Add(start, r2.Scale(length, fromAngle(beam.AimAngle)))
	return start, end, w
}

// PickupHandler collects pickups touching the player and pulls those inside
// the magnet radius. Level-ups accumulate in the pending counter.
type PickupHandler struct{}

func (PickupHandler) Name() string { return "pickups" }

func (PickupHandler) Handle(tc *TickContext) {
	pl := tc.Player
	if pl.Health.HP <= 0 {
		return
	}
	for _, l := range tc.Loot {
		if l.P.Collected {
			continue
		}
		d := dist(l.Pos.Vec, pl.Pos)
		if d <= pl.Stats.PickupRadius+l.P.Radius {
			collect(tc, l.P)
			continue
		}
		if d <= pl.Stats.MagnetRadius && d > 0 {
			step := math.Min(pl.Stats.MagnetSpeed*tc.DT, d)
			l.Pos.Vec = r2.Add(l.Pos.Vec, r2.Scale(step/d, r2.Sub(pl.Pos, l.Pos.Vec)))
		}
	}
}

func collect(tc *TickContext, p *components.Pickup) {
	pl := tc.Player
	p.Collected = true
	tc.Stats.Pickups++
	tc.Events.PickupCollected(p.Kind, p.Value)

	switch p.Kind {
	case components.PickupXP:
		score := int(math.Round(p.Value * float64(tc.Cfg.Pickups.ScorePerXP)))
		pl.Score += score
		tc.Events.ScoreDelta(score)
		if GainXP(pl, p.Value) > 0 {
			tc.Events.LevelUp(pl.PendingLevels)
		}
	case components.PickupCredit:
		n := int(math.Round(p.Value))
		pl.Credits += n
		tc.Events.CreditDelta(n)
	case components.PickupHeal:
		pl.Health.HP = math.Min(pl.Health.MaxHP, pl.Health.HP+p.Value)
	case components.PickupShield:
		limit := math.Max(pl.Health.MaxShield, p.Value)
		pl.Health.Shield = math.Min(limit, pl.Health.Shield+p.Value)
	}
}

// GainXP adds xp and returns how many levels became pending.
func GainXP(pl *components.Player, xp float64) int {
	pl.XP += xp
	gained := 0
	for pl.XPToNext > 0 && pl.XP >= pl.XPToNext {
		pl.XP -= pl.XPToNext
		pl.XPToNext *= pl.Stats.XPGrowth
		pl.PendingLevels++
		gained++
	}
	return gained
}

// DeathHandler emits each enemy death exactly once, resolves kamikaze blasts
// and drops loot. Handled enemies are removed by the owner's cleanup pass.
type DeathHandler struct{}

func (DeathHandler) Name() string { return "deaths" }

func (DeathHandler) Handle(tc *TickContext) {
	pl := tc.Player
	col := tc.Cfg.Collision
	for _, a := range tc.Enemies {
		e := a.Enemy
		if a.Health.HP > 0 || e.DeathHandled {
			continue
		}
		e.DeathHandled = true
		pos := a.Pos.Vec

		tc.Events.EnemyKilled(e, pos)
		tc.Events.Explosion(pos, a.Body.Radius*2, e.Color)
		tc.Stats.Kills++
		pl.Kills++

		if e.Kamikaze {
			tc.Events.Explosion(pos, col.KamikazeBlastRadius, e.Color)
			if dist(pos, pl.Pos) <= col.KamikazeBlastRadius {
				hitPlayer(tc, KamikazeBlastDamage(e), "blast")
			}
		}
		dropLoot(tc, a)
	}
}

// KamikazeBlastDamage is the blast a dying kamikaze deals.
func KamikazeBlastDamage(e *components.Enemy) float64 {
	return e.BaseBlastDamage * e.DamageMult * (1 + float64(e.Level)*0.1)
}

func dropLoot(tc *TickContext, a *components.Actor) {
	pc := tc.Cfg.Pickups
	loot := tc.Cfg.Derived.Difficulty.LootMultiplier
	e := a.Enemy

	drop := func(kind components.PickupKind, value float64) {
		offset := r2.Scale(tc.Rng.Float64()*pc.ScatterRadius, fromAngle(tc.Rng.Float64()*2*math.Pi))
		tc.Out.Pickups = append(tc.Out.Pickups, components.PickupSpawn{
			Pos:    r2.Add(a.Pos.Vec, offset),
			Pickup: components.Pickup{Kind: kind, Value: value, Radius: pc.GemRadius},
		})
	}

	if e.XP > 0 {
		drop(components.PickupXP, e.XP*loot)
	}
	if tc.Rng.Float64() < pc.CreditChance*loot {
		drop(components.PickupCredit, pc.CreditValue)
	}
	if e.IsBoss || tc.Rng.Float64() < pc.PowerUpChance*loot {
		if tc.Rng.Float64() < 0.5 {
			drop(components.PickupHeal, pc.HealAmount)
		} else {
			drop(components.PickupShield, pc.ShieldAmount)
		}
	}
}

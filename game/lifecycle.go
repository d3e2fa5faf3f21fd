package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/systems"
)

// spawnEnemy creates an enemy entity from a blueprint.
func (s *Session) spawnEnemy(bp *systems.Blueprint) ecs.Entity {
	return s.enemyMap.NewEntity(&bp.Pos, &bp.Vel, &bp.Body, &bp.Health, &bp.Enemy)
}

// flush merges buffered spawns into the world and rebuilds the views.
// Installed as the tick context's Flush, so the pipeline calls it after any
// handler that buffered spawns.
func (s *Session) flush(tc *systems.TickContext) {
	out := tc.Out
	for _, req := range out.Enemies {
		bp, err := s.factory.Request(req, s.player.Pos, s.cfg.Derived.Difficulty.Multiplier, s.clock)
		if err != nil {
			panic(fmt.Errorf("spawn request %q: %w", req.Archetype, err))
		}
		s.blueprints = append(s.blueprints, bp)
	}
	for i := range s.blueprints {
		s.spawnEnemy(&s.blueprints[i])
	}
	s.blueprints = s.blueprints[:0]

	for _, ps := range out.Projectiles {
		pos := components.Position{Vec: ps.Pos}
		p := ps.Projectile
		if p.ID == 0 {
			p.ID = s.ids.Next()
		}
		s.shotMap.NewEntity(&pos, &p)
	}
	for _, ls := range out.Pickups {
		pos := components.Position{Vec: ls.Pos}
		p := ls.Pickup
		s.lootMap.NewEntity(&pos, &p)
	}
	out.Reset()

	s.refreshViews()
}

// refreshViews rebuilds the actor, shot and loot views from the world.
// Component pointers are only valid until the next structural change.
func (s *Session) refreshViews() {
	tc := &s.tc

	s.actors = s.actors[:0]
	eq := s.enemyFilter.Query()
	for eq.Next() {
		pos, vel, body, health, enemy := eq.Get()
		s.actors = append(s.actors, components.Actor{
			Entity: eq.Entity(),
			Pos:    pos,
			Vel:    vel,
			Body:   body,
			Health: health,
			Enemy:  enemy,
		})
	}
	tc.Enemies = tc.Enemies[:0]
	alive := 0
	for i := range s.actors {
		a := &s.actors[i]
		tc.Enemies = append(tc.Enemies, a)
		if a.Health.HP > 0 {
			alive++
		}
	}
	s.alive = alive

	s.shots = s.shots[:0]
	sq := s.shotFilter.Query()
	for sq.Next() {
		pos, p := sq.Get()
		s.shots = append(s.shots, components.Shot{Entity: sq.Entity(), Pos: pos, P: p})
	}
	s.shotViews = s.shotViews[:0]
	for i := range s.shots {
		s.shotViews = append(s.shotViews, &s.shots[i])
	}
	tc.Shots = s.shotViews

	s.loot = s.loot[:0]
	lq := s.lootFilter.Query()
	for lq.Next() {
		pos, p := lq.Get()
		s.loot = append(s.loot, components.Loot{Entity: lq.Entity(), Pos: pos, P: p})
	}
	s.lootViews = s.lootViews[:0]
	for i := range s.loot {
		s.lootViews = append(s.lootViews, &s.loot[i])
	}
	tc.Loot = s.lootViews

	tc.Index()
	tc.RebuildGrid()
}

// cleanup removes handled deaths, consumed projectiles and collected
// pickups, then rebuilds the views.
func (s *Session) cleanup() {
	// First pass: collect (no structural changes while a query is open)
	s.toRemove = s.toRemove[:0]

	eq := s.enemyFilter.Query()
	for eq.Next() {
		_, _, _, _, enemy := eq.Get()
		if enemy.DeathHandled {
			s.toRemove = append(s.toRemove, eq.Entity())
		}
	}

	laserAlive := false
	sq := s.shotFilter.Query()
	for sq.Next() {
		_, p := sq.Get()
		if p.Dead {
			s.toRemove = append(s.toRemove, sq.Entity())
		} else if p.ID == s.player.LaserID {
			laserAlive = true
		}
	}

	lq := s.lootFilter.Query()
	for lq.Next() {
		_, p := lq.Get()
		if p.Collected {
			s.toRemove = append(s.toRemove, lq.Entity())
		}
	}

	// Second pass: remove
	for _, e := range s.toRemove {
		s.world.RemoveEntity(e)
	}
	if !laserAlive {
		s.player.LaserID = 0
	}

	s.refreshViews()
}

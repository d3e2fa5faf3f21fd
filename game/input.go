package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
)

// Input is one frame of normalized player intent.
type Input struct {
	Move r2.Vec // Movement direction, clamped to unit length by the simulation
	Aim  r2.Vec // Aim direction; zero lets the weapon auto-target
	Fire bool

	// Upgrade spends one pending level, if any.
	Upgrade Upgrade
	// Summon names an archetype or boss to spawn near the player.
	Summon string
}

// Autopilot produces deterministic bot input for headless runs: it backs
// away from nearby enemies while circling, collects loot when safe, aims at
// the nearest enemy and always fires.
type Autopilot struct {
	DangerRadius float64 // Enemies inside this radius push the player away
	orbit        float64
	next         Upgrade
}

// NewAutopilot returns an autopilot with default tuning.
func NewAutopilot() *Autopilot {
	return &Autopilot{DangerRadius: 260, orbit: 1, next: UpgradeDamage}
}

// Input computes this frame's input from the session state.
func (ap *Autopilot) Input(s *Session) Input {
	pl := &s.player
	in := Input{Fire: true}

	if pl.PendingLevels > 0 {
		in.Upgrade = ap.next
		ap.next++
		if ap.next >= upgradeCount {
			ap.next = UpgradeDamage
		}
	}

	var (
		nearest   *components.Actor
		nearestSq = math.Inf(1)
		push      r2.Vec
	)
	for _, a := range s.tc.Enemies {
		if a.Health.HP <= 0 {
			continue
		}
		d := r2.Sub(pl.Pos, a.Pos.Vec)
		dsq := r2.Dot(d, d)
		if dsq < nearestSq {
			nearestSq = dsq
			nearest = a
		}
		if dsq < ap.DangerRadius*ap.DangerRadius && dsq > 0 {
			// Closer enemies push harder.
			push = r2.Add(push, r2.Scale(1/dsq, d))
		}
	}

	if nearest != nil {
		in.Aim = r2.Unit(r2.Sub(nearest.Pos.Vec, pl.Pos))
	}

	switch {
	case r2.Norm(push) > 0:
		away := r2.Unit(push)
		tangent := r2.Vec{X: -away.Y * ap.orbit, Y: away.X * ap.orbit}
		in.Move = r2.Unit(r2.Add(away, r2.Scale(0.6, tangent)))
	default:
		if loot := nearestLoot(s); loot != nil {
			in.Move = r2.Unit(r2.Sub(loot.Pos.Vec, pl.Pos))
		}
	}

	// Steer back toward the center near the walls and flip orbit direction.
	size := s.cfg.World.Size
	margin := size * 0.1
	if pl.Pos.X < margin || pl.Pos.Y < margin || pl.Pos.X > size-margin || pl.Pos.Y > size-margin {
		center := r2.Vec{X: size / 2, Y: size / 2}
		in.Move = r2.Unit(r2.Add(in.Move, r2.Unit(r2.Sub(center, pl.Pos))))
		ap.orbit = -ap.orbit
	}
	if !finiteVec(in.Move) {
		in.Move = r2.Vec{}
	}
	if !finiteVec(in.Aim) {
		in.Aim = r2.Vec{}
	}
	return in
}

func nearestLoot(s *Session) *components.Loot {
	var best *components.Loot
	bestSq := math.Inf(1)
	for _, l := range s.tc.Loot {
		if l.P.Collected {
			continue
		}
		d := r2.Sub(l.Pos.Vec, s.player.Pos)
		if dsq := r2.Dot(d, d); dsq < bestSq {
			bestSq = dsq
			best = l
		}
	}
	return best
}

func finiteVec(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

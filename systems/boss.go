package systems

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
)

// BossWaveScale returns the quadratic health and damage scale for the
// n-th boss of a session (0-based).
func BossWaveScale(waveIndex int) float64 {
	w := float64(waveIndex)
	return 1 + w*0.8 + w*w*0.5
}

// PhaseChangeFunc is called once per boss phase transition.
type PhaseChangeFunc func(boss *components.Actor, from, to int, name string)

// bossAttack is one attack sub-state machine inside a phase.
// Each keeps its own cooldown, so several can run in the same phase.
type bossAttack interface {
	update(ctx *components.AIContext)
	reset(ctx *components.AIContext)
}

type bossPhase struct {
	name      string
	threshold float64
	attacks   []bossAttack
}

// PhaseMachine is a boss's attack strategy. Phases are ordered by
// descending health threshold; the deepest phase whose threshold the
// current health fraction has crossed is active. Phases only advance.
type PhaseMachine struct {
	phases  []bossPhase
	current int
	entered bool

	OnPhaseChange PhaseChangeFunc
}

// NewPhaseMachine builds a phase machine for a boss definition.
func NewPhaseMachine(cfg config.BossConfig, onChange PhaseChangeFunc) (*PhaseMachine, error) {
	if len(cfg.Phases) == 0 {
		return nil, fmt.Errorf("boss has no phases")
	}
	m := &PhaseMachine{OnPhaseChange: onChange}
	for i, pc := range cfg.Phases {
		if i > 0 && pc.Threshold > cfg.Phases[i-1].Threshold {
			return nil, fmt.Errorf("phase %q: thresholds must descend", pc.Name)
		}
		phase := bossPhase{name: pc.Name, threshold: pc.Threshold}
		for _, ac := range pc.Attacks {
			atk, err := newBossAttack(ac)
			if err != nil {
				return nil, fmt.Errorf("phase %q: %w", pc.Name, err)
			}
			phase.attacks = append(phase.attacks, atk)
		}
		m.phases = append(m.phases, phase)
	}
	return m, nil
}

// Phase returns the active phase index.
func (m *PhaseMachine) Phase() int {
	return m.current
}

// PhaseName returns the active phase name.
func (m *PhaseMachine) PhaseName() string {
	return m.phases[m.current].name
}

// Update selects the phase for the boss's health and runs its attacks.
func (m *PhaseMachine) Update(ctx *components.AIContext) {
	h := ctx.Self.Health
	if h.HP <= 0 {
		return
	}

	if !m.entered {
		m.entered = true
		m.enter(ctx, m.current)
	}

	if next := m.selectPhase(h.Fraction()); next > m.current {
		from := m.current
		m.current = next
		// A beam from the previous phase would otherwise never finish.
		ctx.Self.Enemy.AI.Beam = components.BeamState{}
		m.enter(ctx, next)
		if m.OnPhaseChange != nil {
			m.OnPhaseChange(ctx.Self, from, next, m.phases[next].name)
		}
	}

	for _, atk := range m.phases[m.current].attacks {
		atk.update(ctx)
	}
}

// selectPhase scans from the deepest phase up and returns the first whose
// threshold the health fraction has crossed.
func (m *PhaseMachine) selectPhase(fraction float64) int {
	for i := len(m.phases) - 1; i >= 0; i-- {
		if fraction <= m.phases[i].threshold {
			return i
		}
	}
	return 0
}

func (m *PhaseMachine) enter(ctx *components.AIContext, phase int) {
	for _, atk := range m.phases[phase].attacks {
		atk.reset(ctx)
	}
}

func newBossAttack(cfg config.BossAttackConfig) (bossAttack, error) {
	switch cfg.Kind {
	case "twin_plasma":
		return &twinPlasma{cfg: cfg}, nil
	case "missile_salvo":
		return &missileSalvo{cfg: cfg}, nil
	case "drone_spawn":
		if cfg.Spawn == "" {
			return nil, fmt.Errorf("drone_spawn without spawn archetype")
		}
		return &droneSpawn{cfg: cfg}, nil
	case "charged_beam":
		return &chargedBeam{cfg: cfg}, nil
	}
	return nil, fmt.Errorf("boss attack %q: %w", cfg.Kind, ErrUnknownBehavior)
}

// cooldown is the per-attack timer shared by the boss attacks.
type cooldown struct {
	next float64
}

func (c *cooldown) ready(now float64) bool {
	return now >= c.next
}

func (c *cooldown) rearm(ctx *components.AIContext, base, jitter float64) {
	c.next = ctx.Time + base + ctx.Rng.Float64()*jitter
}

func inRange(ctx *components.AIContext, r float64) bool {
	return r <= 0 || distSq(ctx.Self.Pos.Vec, ctx.PlayerPos) <= r*r
}

// twinPlasma fires from two cannons offset to either side of the aim line,
// alternating cannon each volley.
type twinPlasma struct {
	cfg  config.BossAttackConfig
	cd   cooldown
	side float64
}

func (t *twinPlasma) reset(ctx *components.AIContext) {
	t.side = 1
	t.cd.next = ctx.Time + ctx.Rng.Float64()*t.cfg.Jitter
}

func (t *twinPlasma) update(ctx *components.AIContext) {
	if !t.cd.ready(ctx.Time) || !inRange(ctx, t.cfg.Range) {
		return
	}
	self := ctx.Self
	aim := unit(r2.Sub(ctx.PlayerPos, self.Pos.Vec))
	if aim == (r2.Vec{}) {
		return
	}
	muzzle := r2.Add(self.Pos.Vec, r2.Scale(t.cfg.Offset*t.side, perpendicular(aim)))
	dir := unit(r2.Sub(ctx.PlayerPos, muzzle))
	if dir == (r2.Vec{}) {
		dir = aim
	}

	ctx.Out.Projectiles = append(ctx.Out.Projectiles, components.ProjectileSpawn{
		Pos: muzzle,
		Projectile: components.Projectile{
			Owner:    components.OwnerEnemy,
			SourceID: self.Enemy.ID,
			Color:    self.Enemy.Color,
			Dir:      dir,
			Speed:    t.cfg.Speed,
			Radius:   t.cfg.Radius,
			Damage:   t.cfg.Damage * self.Enemy.DamageMult,
			Duration: t.cfg.Life,
		},
	})
	t.side = -t.side
	t.cd.rearm(ctx, t.cfg.Cooldown, t.cfg.Jitter)
}

// missileSalvo launches a fan of homing missiles.
type missileSalvo struct {
	cfg config.BossAttackConfig
	cd  cooldown
}

func (s *missileSalvo) reset(ctx *components.AIContext) {
	s.cd.next = ctx.Time + s.cfg.Cooldown*0.5 + ctx.Rng.Float64()*s.cfg.Jitter
}

func (s *missileSalvo) update(ctx *components.AIContext) {
	if !s.cd.ready(ctx.Time) || !inRange(ctx, s.cfg.Range) {
		return
	}
	self := ctx.Self
	base := angleOf(r2.Sub(ctx.PlayerPos, self.Pos.Vec))
	n := s.cfg.Count
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		offset := 0.0
		if n > 1 {
			offset = -s.cfg.Spread/2 + s.cfg.Spread*float64(i)/float64(n-1)
		}
		ctx.Out.Projectiles = append(ctx.Out.Projectiles, components.ProjectileSpawn{
			Pos: self.Pos.Vec,
			Projectile: components.Projectile{
				Owner:    components.OwnerEnemy,
				SourceID: self.Enemy.ID,
				Effect:   components.EffectHoming,
				Missile:  true,
				Color:    self.Enemy.Color,
				Dir:      fromAngle(base + offset),
				Speed:    s.cfg.Speed,
				Radius:   s.cfg.Radius,
				Damage:   s.cfg.Damage * self.Enemy.DamageMult,
				Duration: s.cfg.Life,
				TurnRate: s.cfg.TurnRate,
			},
		})
	}
	s.cd.rearm(ctx, s.cfg.Cooldown, s.cfg.Jitter)
}

// droneSpawn requests escort drones around the boss while fewer than
// MaxAlive of that archetype are alive.
type droneSpawn struct {
	cfg config.BossAttackConfig
	cd  cooldown
}

func (d *droneSpawn) reset(ctx *components.AIContext) {
	d.cd.next = ctx.Time + ctx.Rng.Float64()*d.cfg.Jitter
}

func (d *droneSpawn) update(ctx *components.AIContext) {
	if !d.cd.ready(ctx.Time) {
		return
	}
	alive := 0
	for _, a := range ctx.Allies {
		if a.Enemy.Archetype == d.cfg.Spawn && a.Health.HP > 0 {
			alive++
		}
	}
	n := d.cfg.Count
	if d.cfg.MaxAlive > 0 && alive+n > d.cfg.MaxAlive {
		n = d.cfg.MaxAlive - alive
	}

	self := ctx.Self
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * (float64(i) + ctx.Rng.Float64()*0.5) / float64(n)
		ring := self.Body.Radius * 1.5
		ctx.Out.Enemies = append(ctx.Out.Enemies, components.EnemySpawn{
			Archetype: d.cfg.Spawn,
			Tier:      components.TierNormal,
			Pos:       r2.Add(self.Pos.Vec, r2.Scale(ring, fromAngle(angle))),
			Level:     self.Enemy.Level,
		})
	}
	d.cd.rearm(ctx, d.cfg.Cooldown, d.cfg.Jitter)
}

// chargedBeam drives the boss beam through the shared beam state machine.
type chargedBeam struct {
	cfg config.BossAttackConfig
}

func (b *chargedBeam) reset(ctx *components.AIContext) {
	ai := &ctx.Self.Enemy.AI
	ai.NextAttack = ctx.Time + b.cfg.Cooldown*0.5 + ctx.Rng.Float64()*b.cfg.Jitter
}

func (b *chargedBeam) update(ctx *components.AIContext) {
	updateBeam(ctx, beamParams{
		cooldown:   b.cfg.Cooldown,
		jitter:     b.cfg.Jitter,
		rangeLimit: b.cfg.Range,
		damage:     b.cfg.Damage,
		chargeRate: b.cfg.ChargeRate,
		fireRate:   b.cfg.FireRate,
		turnRate:   b.cfg.TurnRate,
		boss:       true,
	})
}

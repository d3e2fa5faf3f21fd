package systems

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
)

var (
	// ErrUnknownArchetype is returned when an enemy archetype is not configured.
	ErrUnknownArchetype = errors.New("unknown enemy archetype")
	// ErrUnknownBossType is returned when a boss type is not configured.
	ErrUnknownBossType = errors.New("unknown boss type")
)

// burstSpacing is the angular gap between members of a spawn burst.
const burstSpacing = 0.12

// Blueprint holds the components of one enemy about to be created.
type Blueprint struct {
	Pos    components.Position
	Vel    components.Velocity
	Body   components.Body
	Health components.Health
	Enemy  components.Enemy
}

// SpawnParams are the per-spawn inputs to the factory.
type SpawnParams struct {
	Tier           components.Tier
	Level          int
	DifficultyMult float64
	Pos            r2.Vec
	Bearing        float64 // Direction from the player to Pos
	Now            float64
}

type archetypeKit struct {
	movement components.Movement
	attack   components.Attack
}

// Factory turns spawn requests into enemy blueprints. Strategies for each
// archetype are built once and shared; bosses get their own phase machine.
type Factory struct {
	cfg    *config.Config
	ids    *IDSource
	events Events
	rng    *rand.Rand
	logger *slog.Logger

	kits      map[string]archetypeKit
	bossMoves map[string]components.Movement
}

// NewFactory validates every archetype and boss definition and prepares
// their strategies.
func NewFactory(cfg *config.Config, ids *IDSource, events Events, rng *rand.Rand, logger *slog.Logger) (*Factory, error) {
	if events == nil {
		events = NopEvents{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	f := &Factory{
		cfg:       cfg,
		ids:       ids,
		events:    events,
		rng:       rng,
		logger:    logger,
		kits:      make(map[string]archetypeKit, len(cfg.Archetypes)),
		bossMoves: make(map[string]components.Movement, len(cfg.Bosses)),
	}

	for name, ac := range cfg.Archetypes {
		mv, err := NewMovement(ac.Movement)
		if err != nil {
			return nil, fmt.Errorf("archetype %q: %w", name, err)
		}
		atk, err := NewAttack(ac.Attack)
		if err != nil {
			return nil, fmt.Errorf("archetype %q: %w", name, err)
		}
		f.kits[name] = archetypeKit{movement: mv, attack: atk}
	}

	for name, bc := range cfg.Bosses {
		mv, err := NewMovement(bc.Movement)
		if err != nil {
			return nil, fmt.Errorf("boss %q: %w", name, err)
		}
		if _, err := NewPhaseMachine(bc, nil); err != nil {
			return nil, fmt.Errorf("boss %q: %w", name, err)
		}
		f.bossMoves[name] = mv
	}
	return f, nil
}

// SetEvents replaces the event sink used by boss phase hooks.
func (f *Factory) SetEvents(e Events) {
	f.events = e
}

func (f *Factory) tier(t components.Tier) config.TierConfig {
	tc, ok := f.cfg.Tiers[t.String()]
	if !ok {
		return config.TierConfig{HealthMult: 1, RadiusMult: 1, SpeedMult: 1, XPMult: 1}
	}
	return tc
}

// Enemy builds a regular enemy. Max health is base health times the
// difficulty multiplier times the tier health multiplier.
func (f *Factory) Enemy(archetype string, p SpawnParams) (Blueprint, error) {
	ac, ok := f.cfg.Archetypes[archetype]
	if !ok {
		return Blueprint{}, fmt.Errorf("%w: %q", ErrUnknownArchetype, archetype)
	}
	kit := f.kits[archetype]
	tc := f.tier(p.Tier)

	hp := ac.Health * p.DifficultyMult * tc.HealthMult
	shield := 0.0
	if tc.Shield {
		shield = hp * tc.ShieldPercent
	}

	speed := ac.Speed * tc.SpeedMult
	if penalty, ok := ac.TierSpeedPenalty[p.Tier.String()]; ok {
		speed *= penalty
	}

	color := ac.Color
	if tc.Color != nil {
		color = *tc.Color
	}

	bp := Blueprint{
		Pos:  components.Position{Vec: p.Pos},
		Body: components.Body{Radius: ac.Radius * tc.RadiusMult},
		Health: components.Health{
			HP:            hp,
			MaxHP:         hp,
			Shield:        shield,
			MaxShield:     shield,
			DeathDefiance: ac.Kamikaze && p.Tier != components.TierNormal,
		},
		Enemy: components.Enemy{
			ID:              f.ids.Next(),
			Archetype:       archetype,
			Tier:            p.Tier,
			Level:           p.Level,
			Color:           color,
			Speed:           speed,
			ContactDamage:   ac.ContactDamage,
			DamageMult:      p.DifficultyMult,
			XP:              ac.XP * tc.XPMult,
			Kamikaze:        ac.Kamikaze,
			BaseBlastDamage: ac.BaseBlastDamage,
			Support:         ac.Support,
			AuraRadius:      ac.AuraRadius,
			Movement:        kit.movement,
			Attack:          kit.attack,
			SpawnTime:       p.Now,
		},
	}
	f.seedAI(&bp.Enemy, ac.Movement, ac.Attack.Cooldown, p)
	return bp, nil
}

// Boss builds the waveIndex-th boss of the session. Health and damage scale
// by BossWaveScale times the boss tier row; the shield percent comes from
// the tier row, or the boss type default when the row sets none.
func (f *Factory) Boss(name string, waveIndex int, p SpawnParams) (Blueprint, error) {
	bc, ok := f.cfg.Bosses[name]
	if !ok {
		return Blueprint{}, fmt.Errorf("%w: %q", ErrUnknownBossType, name)
	}
	row := f.cfg.BossTierFor(waveIndex)
	scale := BossWaveScale(waveIndex)

	tier, ok := components.ParseTier(row.Tier)
	if !ok {
		tier = components.TierNormal
	}

	hp := bc.Health * p.DifficultyMult * scale * row.HealthMult
	shieldPct := row.ShieldPercent
	if shieldPct <= 0 {
		shieldPct = bc.ShieldPercent
	}
	shield := hp * shieldPct

	color := bc.Color
	if row.Color != nil {
		color = *row.Color
	}

	machine, err := NewPhaseMachine(bc, f.onPhaseChange)
	if err != nil {
		return Blueprint{}, fmt.Errorf("boss %q: %w", name, err)
	}

	bp := Blueprint{
		Pos:  components.Position{Vec: p.Pos},
		Body: components.Body{Radius: bc.Radius},
		Health: components.Health{
			HP:        hp,
			MaxHP:     hp,
			Shield:    shield,
			MaxShield: shield,
		},
		Enemy: components.Enemy{
			ID:            f.ids.Next(),
			Archetype:     name,
			Tier:          tier,
			Level:         p.Level,
			Color:         color,
			IsBoss:        true,
			WaveIndex:     waveIndex,
			Speed:         bc.Speed,
			ContactDamage: bc.ContactDamage,
			DamageMult:    p.DifficultyMult * scale * row.DamageMult,
			XP:            bc.XP * scale,
			Movement:      f.bossMoves[name],
			Attack:        machine,
			SpawnTime:     p.Now,
		},
	}
	f.seedAI(&bp.Enemy, bc.Movement, 0, p)
	return bp, nil
}

// seedAI gives an enemy its per-instance variation.
func (f *Factory) seedAI(e *components.Enemy, mc config.MovementConfig, cooldown float64, p SpawnParams) {
	seed := f.rng.Float64()
	dir := 1.0
	if f.rng.Intn(2) == 0 {
		dir = -1
	}
	e.AI = components.AIState{
		Seed:        seed,
		PhaseOffset: seed * 2 * math.Pi,
		OrbitAngle:  normalizeAngle(p.Bearing),
		OrbitRate:   mc.OrbitRate * (0.8 + 0.4*seed),
		OrbitDir:    dir,
		Heading:     fromAngle(p.Bearing + math.Pi),
		SpeedScale:  clamp(1, mc.MinSpeedScale, math.Max(mc.MaxSpeedScale, 1)),
		NextAttack:  p.Now + cooldown*(0.5+0.5*seed),
	}
}

func (f *Factory) onPhaseChange(boss *components.Actor, from, to int, name string) {
	f.logger.Info("boss phase", "boss", boss.Enemy.Archetype, "id", boss.Enemy.ID, "from", from, "to", to, "phase", name)
	f.events.BossPhase(boss.Enemy, to, name)
	f.events.Flash(boss.Pos.Vec, boss.Body.Radius*3)
}

// Decision builds every enemy a scheduler decision asks for, placed around
// the player at the decision's distance and bearing and kept inside the world.
func (f *Factory) Decision(d SpawnDecision, player r2.Vec, now float64) ([]Blueprint, error) {
	n := max(d.Count, 1)
	out := make([]Blueprint, 0, n)
	for i := range n {
		bearing := d.Angle + (float64(i)-float64(n-1)/2)*burstSpacing
		p := SpawnParams{
			Tier:           d.Tier,
			Level:          d.Level,
			DifficultyMult: d.DifficultyMult,
			Pos:            f.place(player, bearing, d.Distance),
			Bearing:        bearing,
			Now:            now,
		}
		var (
			bp  Blueprint
			err error
		)
		if d.Kind == SpawnBoss {
			bp, err = f.Boss(d.Boss, d.WaveIndex, p)
		} else {
			bp, err = f.Enemy(d.Archetype, p)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, bp)
	}
	return out, nil
}

// Request builds an enemy asked for by another enemy, such as a boss drone.
func (f *Factory) Request(req components.EnemySpawn, player r2.Vec, difficultyMult, now float64) (Blueprint, error) {
	pos := req.Pos
	size := f.cfg.World.Size
	pos.X = clamp(pos.X, 0, size)
	pos.Y = clamp(pos.Y, 0, size)
	return f.Enemy(req.Archetype, SpawnParams{
		Tier:           req.Tier,
		Level:          req.Level,
		DifficultyMult: difficultyMult,
		Pos:            pos,
		Bearing:        angleOf(r2.Sub(pos, player)),
		Now:            now,
	})
}

func (f *Factory) place(player r2.Vec, bearing, distance float64) r2.Vec {
	pos := r2.Add(player, r2.Scale(distance, fromAngle(bearing)))
	size := f.cfg.World.Size
	pos.X = clamp(pos.X, 0, size)
	pos.Y = clamp(pos.Y, 0, size)
	return pos
}

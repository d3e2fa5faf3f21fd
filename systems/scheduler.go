package systems

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/config"
)

// SpawnKind tags a scheduler decision.
type SpawnKind uint8

const (
	SpawnEnemy SpawnKind = iota
	SpawnLullEnemy
	SpawnKamikazeWave
	SpawnBoss
)

var spawnKindNames = [...]string{"enemy", "lull_enemy", "kamikaze_wave", "boss"}

func (k SpawnKind) String() string {
	if int(k) < len(spawnKindNames) {
		return spawnKindNames[k]
	}
	return "unknown"
}

// SpawnDecision is one thing the scheduler wants spawned. It carries no
// entity state; the factory turns it into enemies.
type SpawnDecision struct {
	Kind      SpawnKind
	Archetype string // Enemy and kamikaze waves
	Boss      string // Boss kind
	WaveIndex int    // Boss ordinal within the session
	Tier      components.Tier
	Count     int
	Level     int
	Distance  float64 // From the player
	Angle     float64 // Bearing from the player

	// Injected from the active difficulty.
	DifficultyMult float64
}

// LogValue implements slog.LogValuer.
func (d SpawnDecision) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", d.Kind.String()),
		slog.String("tier", d.Tier.String()),
		slog.Int("count", d.Count),
		slog.Int("level", d.Level),
	}
	if d.Kind == SpawnBoss {
		attrs = append(attrs, slog.String("boss", d.Boss), slog.Int("wave", d.WaveIndex))
	} else {
		attrs = append(attrs, slog.String("archetype", d.Archetype))
	}
	return slog.GroupValue(attrs...)
}

type weightedArchetype struct {
	name     string
	unlockAt float64
	weight   float64
}

// Scheduler decides what to spawn from elapsed game time and its own
// timers. It has no side effects beyond its internal state and rng.
// Difficulty is injected; the scheduler never reads it from anywhere else.
type Scheduler struct {
	cfg        config.SchedulerConfig
	difficulty config.DifficultyPreset
	pool       []weightedArchetype
	rng        *rand.Rand

	nextSpawn    float64
	nextKamikaze float64
	nextBoss     float64
	bossWave     int

	out []SpawnDecision
}

// NewScheduler builds a scheduler over the configured archetypes.
func NewScheduler(cfg *config.Config, difficulty config.DifficultyPreset, rng *rand.Rand) *Scheduler {
	s := &Scheduler{
		cfg:        cfg.Scheduler,
		difficulty: difficulty,
		rng:        rng,
	}
	for _, name := range cfg.Derived.ArchetypeNames {
		ac := cfg.Archetypes[name]
		if ac.Weight <= 0 {
			continue
		}
		s.pool = append(s.pool, weightedArchetype{name: name, unlockAt: ac.UnlockAt, weight: ac.Weight})
	}
	s.Reset()
	return s
}

// Reset restores the timers of a fresh session.
func (s *Scheduler) Reset() {
	s.nextSpawn = s.cfg.BaseInterval
	s.nextKamikaze = s.cfg.KamikazeStart
	s.nextBoss = s.cfg.BossFirst
	s.bossWave = 0
}

// SetDifficulty swaps the injected difficulty.
func (s *Scheduler) SetDifficulty(d config.DifficultyPreset) {
	s.difficulty = d
}

// BossWave returns how many bosses have been scheduled.
func (s *Scheduler) BossWave() int {
	return s.bossWave
}

// Interval returns the regular spawn interval at game time t.
func (s *Scheduler) Interval(t float64) float64 {
	steps := 0.0
	if s.cfg.RampEvery > 0 {
		steps = math.Floor(t / s.cfg.RampEvery)
	}
	iv := s.cfg.BaseInterval * math.Pow(s.cfg.RampFactor, steps)
	if iv < s.cfg.MinInterval {
		iv = s.cfg.MinInterval
	}
	if s.InLull(t) && s.cfg.LullIntervalMult > 0 {
		iv *= s.cfg.LullIntervalMult
	}
	return iv
}

// InLull reports whether t falls in the calm tail of a lull period.
func (s *Scheduler) InLull(t float64) bool {
	if s.cfg.LullPeriod <= 0 || s.cfg.LullDuration <= 0 {
		return false
	}
	return math.Mod(t, s.cfg.LullPeriod) >= s.cfg.LullPeriod-s.cfg.LullDuration
}

// Level returns the enemy level at game time t including the difficulty bonus.
func (s *Scheduler) Level(t float64) int {
	level := 1
	if s.cfg.LevelEvery > 0 {
		level += int(t / s.cfg.LevelEvery)
	}
	return level + s.difficulty.LevelBonus
}

// Update returns the decisions due at game time t. alive is the current
// enemy count, used for the soft cap on regular spawns. The returned slice
// is reused by the next call.
func (s *Scheduler) Update(t float64, alive int) []SpawnDecision {
	s.out = s.out[:0]

	if s.cfg.BossInterval > 0 && len(s.cfg.BossRotation) > 0 && t >= s.nextBoss {
		s.out = append(s.out, s.decision(SpawnDecision{
			Kind:      SpawnBoss,
			Boss:      s.cfg.BossRotation[s.bossWave%len(s.cfg.BossRotation)],
			WaveIndex: s.bossWave,
			Count:     1,
			Distance:  s.cfg.SpawnDistance,
		}, t))
		s.bossWave++
		s.nextBoss += s.cfg.BossInterval
	}

	if s.cfg.KamikazeInterval > 0 && s.cfg.KamikazeArchetype != "" && t >= s.nextKamikaze {
		d := SpawnDecision{
			Kind:      SpawnKamikazeWave,
			Archetype: s.cfg.KamikazeArchetype,
			Count:     s.cfg.KamikazeBurst,
			Distance:  s.cfg.SpawnDistance,
		}
		if s.rng.Float64() < s.cfg.KamikazeEliteChance {
			d.Count = 1
			d.Tier = components.TierElite
		}
		s.out = append(s.out, s.decision(d, t))
		s.nextKamikaze = t + s.cfg.KamikazeInterval
	}

	if t >= s.nextSpawn {
		s.nextSpawn = t + s.Interval(t)
		if alive < s.cfg.SoftCap || s.cfg.SoftCap <= 0 {
			if name, ok := s.pick(t); ok {
				d := SpawnDecision{
					Kind:      SpawnEnemy,
					Archetype: name,
					Tier:      s.rollTier(t),
					Count:     1,
					Distance:  s.cfg.SpawnDistance,
				}
				if s.InLull(t) {
					d.Kind = SpawnLullEnemy
					d.Distance = s.cfg.LullDistance
				}
				s.out = append(s.out, s.decision(d, t))
			}
		}
	}

	return s.out
}

func (s *Scheduler) decision(d SpawnDecision, t float64) SpawnDecision {
	d.Level = s.Level(t)
	d.Angle = s.rng.Float64() * 2 * math.Pi
	d.DifficultyMult = s.difficulty.Multiplier
	return d
}

// pick chooses an unlocked archetype by weight.
func (s *Scheduler) pick(t float64) (string, bool) {
	total := 0.0
	for _, a := range s.pool {
		if a.unlockAt <= t {
			total += a.weight
		}
	}
	if total <= 0 {
		return "", false
	}
	r := s.rng.Float64() * total
	for _, a := range s.pool {
		if a.unlockAt > t {
			continue
		}
		if r < a.weight {
			return a.name, true
		}
		r -= a.weight
	}
	for i := len(s.pool) - 1; i >= 0; i-- {
		if s.pool[i].unlockAt <= t {
			return s.pool[i].name, true
		}
	}
	return "", false
}

// EliteChance returns the elite roll chance at game time t.
func (s *Scheduler) EliteChance(t float64) float64 {
	c := s.cfg.EliteChance + s.cfg.EliteChancePerMin*t/60
	return math.Min(c, s.cfg.EliteChanceMax)
}

// rollTier rolls a tier; rarer tiers unlock later in the session.
func (s *Scheduler) rollTier(t float64) components.Tier {
	r := s.rng.Float64()
	if t >= s.cfg.MinibossUnlock {
		if r < s.cfg.MinibossChance {
			return components.TierMiniboss
		}
		r -= s.cfg.MinibossChance
	}
	if t >= s.cfg.LegendaryUnlock {
		if r < s.cfg.LegendaryChance {
			return components.TierLegendary
		}
		r -= s.cfg.LegendaryChance
	}
	if r < s.EliteChance(t) {
		return components.TierElite
	}
	return components.TierNormal
}

package telemetry

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/arena/components"
	"github.com/pthm-cable/arena/systems"
)

var _ systems.Events = (*Collector)(nil)

// Collector accumulates combat events within time windows and produces WindowStats.
// It is attached to the simulation as an event sink and never mutates state.
type Collector struct {
	systems.NopEvents

	windowDurationSec float64

	// Current window tracking
	windowStart float64
	now         float64

	// Event counters for current window
	kills       [4]int // by tier
	bossKills   int
	bossPhases  int
	damageDealt float64
	damageTaken float64
	playerHits  int
	pickups     int
	levelUps    int
	score       int
	credits     int

	// Samples for distributions
	hitSamples []float64
	ttkSamples []float64

	minHPFraction float64
	peakAlive     int

	log *EventLog
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in game seconds
// logSize: how many recent notable events to keep
func NewCollector(windowDurationSec float64, logSize int) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 10
	}
	return &Collector{
		windowDurationSec: windowDurationSec,
		minHPFraction:     1,
		log:               NewEventLog(logSize),
	}
}

// Observe records the per-tick state the events don't carry.
func (c *Collector) Observe(now, hpFraction float64, alive int) {
	c.now = now
	if hpFraction < c.minHPFraction {
		c.minHPFraction = hpFraction
	}
	if alive > c.peakAlive {
		c.peakAlive = alive
	}
}

// DamageNumber records damage dealt to an enemy.
func (c *Collector) DamageNumber(_ r2.Vec, amount float64, _ *components.Enemy) {
	c.damageDealt += amount
	if amount > 0 {
		c.hitSamples = append(c.hitSamples, amount)
	}
}

// PlayerDamaged records damage taken.
func (c *Collector) PlayerDamaged(amount float64, source string) {
	c.damageTaken += amount
	c.playerHits++
	c.log.Add(Event{Type: EventPlayerHit, Time: c.now, Label: source, Amount: amount})
}

// EnemyKilled records a kill and its time to kill.
func (c *Collector) EnemyKilled(e *components.Enemy, _ r2.Vec) {
	if int(e.Tier) < len(c.kills) {
		c.kills[e.Tier]++
	}
	if ttk := c.now - e.SpawnTime; ttk >= 0 {
		c.ttkSamples = append(c.ttkSamples, ttk)
	}
	ev := Event{Type: EventKill, Time: c.now, Label: e.Archetype, Tier: e.Tier.String()}
	if e.IsBoss {
		c.bossKills++
		ev.Type = EventBossKill
		c.log.Add(ev)
	} else if e.Tier != components.TierNormal {
		c.log.Add(ev)
	}
}

// BossPhase records a boss phase transition.
func (c *Collector) BossPhase(e *components.Enemy, _ int, name string) {
	c.bossPhases++
	c.log.Add(Event{Type: EventBossPhase, Time: c.now, Label: e.Archetype + ":" + name})
}

// PickupCollected records a collected pickup.
func (c *Collector) PickupCollected(components.PickupKind, float64) {
	c.pickups++
}

// ScoreDelta records score gained.
func (c *Collector) ScoreDelta(delta int) {
	c.score += delta
}

// CreditDelta records credits gained.
func (c *Collector) CreditDelta(delta int) {
	c.credits += delta
}

// LevelUp records a level-up becoming pending.
func (c *Collector) LevelUp(pending int) {
	c.levelUps++
	c.log.Add(Event{Type: EventLevelUp, Time: c.now, Amount: float64(pending)})
}

// ShouldFlush returns true if enough game time has passed to flush the window.
func (c *Collector) ShouldFlush(now float64) bool {
	return now-c.windowStart >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(now float64, alive int) WindowStats {
	hitMean, hitStd, hitP50, hitP90 := SampleStats(c.hitSamples)
	ttkMean, _, ttkP50, ttkP90 := SampleStats(c.ttkSamples)

	kills := 0
	for _, k := range c.kills {
		kills += k
	}
	var killsPerMin float64
	if span := now - c.windowStart; span > 0 {
		killsPerMin = float64(kills) / span * 60
	}

	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   now,
		Alive:       alive,
		PeakAlive:   max(c.peakAlive, alive),

		Kills:          kills,
		KillsNormal:    c.kills[components.TierNormal],
		KillsElite:     c.kills[components.TierElite],
		KillsLegendary: c.kills[components.TierLegendary],
		KillsMiniboss:  c.kills[components.TierMiniboss],
		BossKills:      c.bossKills,
		BossPhases:     c.bossPhases,
		KillsPerMin:    killsPerMin,

		DamageDealt:   c.damageDealt,
		DamageTaken:   c.damageTaken,
		PlayerHits:    c.playerHits,
		MinHPFraction: c.minHPFraction,

		Pickups:  c.pickups,
		LevelUps: c.levelUps,
		Score:    c.score,
		Credits:  c.credits,

		HitMean: hitMean,
		HitStd:  hitStd,
		HitP50:  hitP50,
		HitP90:  hitP90,
		TTKMean: ttkMean,
		TTKP50:  ttkP50,
		TTKP90:  ttkP90,
	}

	c.resetWindow(now)
	return stats
}

// Recent returns the most recent notable events, oldest first.
func (c *Collector) Recent() []Event {
	return c.log.Recent()
}

// Reset starts over for a new session.
func (c *Collector) Reset() {
	c.resetWindow(0)
	c.now = 0
	c.log.Reset()
}

func (c *Collector) resetWindow(now float64) {
	c.windowStart = now
	c.kills = [4]int{}
	c.bossKills = 0
	c.bossPhases = 0
	c.damageDealt = 0
	c.damageTaken = 0
	c.playerHits = 0
	c.pickups = 0
	c.levelUps = 0
	c.score = 0
	c.credits = 0
	c.hitSamples = c.hitSamples[:0]
	c.ttkSamples = c.ttkSamples[:0]
	c.minHPFraction = 1
	c.peakAlive = 0
}

// WindowDuration returns the window length in game seconds.
func (c *Collector) WindowDuration() float64 {
	return c.windowDurationSec
}

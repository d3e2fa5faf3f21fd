package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one timed section of a simulation step.
type Phase uint8

// Phases in step order.
const (
	PhaseSpawn Phase = iota
	PhasePlayer
	PhaseEnemies
	PhaseProjectiles
	PhaseMerge
	PhaseCollision
	PhaseCleanup
	PhaseTelemetry
	NumPhases
)

var phaseNames = [NumPhases]string{"spawn", "player", "enemies", "projectiles", "merge", "collision", "cleanup", "telemetry"}

func (p Phase) String() string {
	if p < NumPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// Phases lists every phase in step order.
var Phases = func() []Phase {
	out := make([]Phase, NumPhases)
	for i := range out {
		out[i] = Phase(i)
	}
	return out
}()

// PhaseTimes holds one duration per phase.
type PhaseTimes [NumPhases]time.Duration

// PerfCollector keeps a rolling window of step timings. Steps are short and
// frequent, so samples live in preallocated rings.
type PerfCollector struct {
	ticks  []time.Duration
	phases []PhaseTimes
	next   int
	count  int

	current    PhaseTimes
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	timing     bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize steps
// (60 when windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ticks:  make([]time.Duration, windowSize),
		phases: make([]PhaseTimes, windowSize),
	}
}

// StartTick begins timing a step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = PhaseTimes{}
	p.timing = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	p.timing = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.timing && p.phase < NumPhases {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the last phase and records the step.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.timing = false

	p.ticks[p.next] = now.Sub(p.tickStart)
	p.phases[p.next] = p.current
	p.next = (p.next + 1) % len(p.ticks)
	p.count = min(p.count+1, len(p.ticks))
}

// RecordFrame records the time since the previous rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the current window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	PhaseAvg PhaseTimes
	PhasePct [NumPhases]float64 // Share of the average step, 0-100

	TicksPerSecond float64

	// Graphics mode only
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes statistics over the recorded window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	window := p.ticks[:p.count]
	s.MinTickDuration = slices.Min(window)
	s.MaxTickDuration = slices.Max(window)

	sorted := make([]float64, len(window))
	var total time.Duration
	for i, d := range window {
		total += d
		sorted[i] = float64(d)
	}
	slices.Sort(sorted)
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, sorted, nil))
	s.AvgTickDuration = total / time.Duration(p.count)

	var sum PhaseTimes
	for _, pt := range p.phases[:p.count] {
		for ph, d := range pt {
			sum[ph] += d
		}
	}
	for ph := range sum {
		s.PhaseAvg[ph] = sum[ph] / time.Duration(p.count)
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the stats at info level.
func (s PerfStats) LogStats(logger *slog.Logger) {
	logger.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer. Phases under 0.1% are omitted.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, ph := range Phases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      float64 `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	P95TickUS      int64   `csv:"p95_tick_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	SpawnPct       float64 `csv:"spawn_pct"`
	PlayerPct      float64 `csv:"player_pct"`
	EnemiesPct     float64 `csv:"enemies_pct"`
	ProjectilesPct float64 `csv:"projectiles_pct"`
	MergePct       float64 `csv:"merge_pct"`
	CollisionPct   float64 `csv:"collision_pct"`
	CleanupPct     float64 `csv:"cleanup_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for gocsv.
func (s PerfStats) ToCSV(windowEnd float64) PerfStatsCSV {
	pct := s.PhasePct
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		P95TickUS:      s.P95TickDuration.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		SpawnPct:       pct[PhaseSpawn],
		PlayerPct:      pct[PhasePlayer],
		EnemiesPct:     pct[PhaseEnemies],
		ProjectilesPct: pct[PhaseProjectiles],
		MergePct:       pct[PhaseMerge],
		CollisionPct:   pct[PhaseCollision],
		CleanupPct:     pct[PhaseCleanup],
		TelemetryPct:   pct[PhaseTelemetry],
	}
}

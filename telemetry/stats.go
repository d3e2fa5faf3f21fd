package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated combat statistics for a time window.
type WindowStats struct {
	WindowStart float64 `csv:"window_start"`
	WindowEnd   float64 `csv:"window_end"`

	// Population at window end
	Alive     int `csv:"alive"`
	PeakAlive int `csv:"peak_alive"`

	// Kills during window
	Kills          int     `csv:"kills"`
	KillsNormal    int     `csv:"kills_normal"`
	KillsElite     int     `csv:"kills_elite"`
	KillsLegendary int     `csv:"kills_legendary"`
	KillsMiniboss  int     `csv:"kills_miniboss"`
	BossKills      int     `csv:"boss_kills"`
	BossPhases     int     `csv:"boss_phases"`
	KillsPerMin    float64 `csv:"kills_per_min"`

	// Damage exchange
	DamageDealt   float64 `csv:"damage_dealt"`
	DamageTaken   float64 `csv:"damage_taken"`
	PlayerHits    int     `csv:"player_hits"`
	MinHPFraction float64 `csv:"min_hp_fraction"`

	// Progression
	Pickups  int `csv:"pickups"`
	LevelUps int `csv:"level_ups"`
	Score    int `csv:"score"`
	Credits  int `csv:"credits"`

	// Per-hit damage distribution
	HitMean float64 `csv:"hit_mean"`
	HitStd  float64 `csv:"hit_std"`
	HitP50  float64 `csv:"hit_p50"`
	HitP90  float64 `csv:"hit_p90"`

	// Time to kill, seconds from spawn
	TTKMean float64 `csv:"ttk_mean"`
	TTKP50  float64 `csv:"ttk_p50"`
	TTKP90  float64 `csv:"ttk_p90"`
}

// SampleStats calculates mean, standard deviation, and percentiles of values.
// Returns zeros for an empty slice; std is 0 for fewer than two samples.
func SampleStats(values []float64) (mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	if n == 1 {
		mean = sorted[0]
	} else {
		mean, std = stat.MeanStdDev(sorted, nil)
	}
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("window_start", s.WindowStart),
		slog.Float64("window_end", s.WindowEnd),
		slog.Int("alive", s.Alive),
		slog.Int("peak_alive", s.PeakAlive),
		slog.Int("kills", s.Kills),
		slog.Int("kills_elite", s.KillsElite),
		slog.Int("kills_legendary", s.KillsLegendary),
		slog.Int("kills_miniboss", s.KillsMiniboss),
		slog.Int("boss_kills", s.BossKills),
		slog.Float64("kills_per_min", s.KillsPerMin),
		slog.Float64("damage_dealt", s.DamageDealt),
		slog.Float64("damage_taken", s.DamageTaken),
		slog.Float64("min_hp_fraction", s.MinHPFraction),
		slog.Int("level_ups", s.LevelUps),
		slog.Int("score", s.Score),
		slog.Float64("hit_p50", s.HitP50),
		slog.Float64("ttk_p50", s.TTKP50),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats(logger *slog.Logger) {
	logger.Info("stats",
		"window_end", s.WindowEnd,
		"alive", s.Alive,
		"peak_alive", s.PeakAlive,
		"kills", s.Kills,
		"boss_kills", s.BossKills,
		"boss_phases", s.BossPhases,
		"kills_per_min", s.KillsPerMin,
		"damage_dealt", s.DamageDealt,
		"damage_taken", s.DamageTaken,
		"player_hits", s.PlayerHits,
		"min_hp_fraction", s.MinHPFraction,
		"pickups", s.Pickups,
		"level_ups", s.LevelUps,
		"score", s.Score,
		"credits", s.Credits,
		"hit_mean", s.HitMean,
		"hit_p90", s.HitP90,
		"ttk_mean", s.TTKMean,
		"ttk_p90", s.TTKP90,
	)
}

package game

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/telemetry"
)

// RunResult summarizes one headless run.
type RunResult struct {
	Seed     int64
	Survived float64 // Seconds of game time
	Died     bool
	Level    int
	Kills    int
	Score    int
	Windows  []telemetry.WindowStats
}

// ctxCheckEvery is how many steps run between context checks.
const ctxCheckEvery = 600

// RunHeadless plays one autopilot session at the fixed headless step until
// the player dies or maxTime seconds have passed.
func RunHeadless(ctx context.Context, cfg *config.Config, opts Options, maxTime float64) (RunResult, error) {
	res := RunResult{Seed: opts.Seed}
	onStats := opts.OnStats
	opts.OnStats = func(ws telemetry.WindowStats) {
		res.Windows = append(res.Windows, ws)
		if onStats != nil {
			onStats(ws)
		}
	}

	s, err := NewSession(cfg, opts)
	if err != nil {
		return res, err
	}

	ap := NewAutopilot()
	dt := cfg.Sim.HeadlessDT
	for step := 0; !s.Over() && s.Time() < maxTime; step++ {
		if step%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				s.Close()
				return res, err
			}
		}
		s.Step(ap.Input(s), dt)
	}

	if err := s.Close(); err != nil {
		return res, fmt.Errorf("closing session: %w", err)
	}
	pl := s.Player()
	res.Survived = s.Time()
	res.Died = s.Over()
	res.Level = pl.Level
	res.Kills = pl.Kills
	res.Score = pl.Score
	return res, nil
}

// RunBatch plays one headless session per seed on up to workers goroutines
// (GOMAXPROCS when workers <= 0). Sessions share the read-only config and
// nothing else. Results are in seed order.
func RunBatch(ctx context.Context, cfg *config.Config, seeds []int64, maxTime float64, workers int, logger *slog.Logger) ([]RunResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]RunResult, len(seeds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seed := range seeds {
		g.Go(func() error {
			res, err := RunHeadless(ctx, cfg, Options{Seed: seed, Logger: logger}, maxTime)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

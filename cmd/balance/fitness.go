package main

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/game"
)

// Fitness weights.
const (
	spreadWeight = 0.25 // Penalty on survival spread across seeds
	killWeight   = 0.05 // Reward for kill rate, keeps idle configs from winning
)

// Evaluation summarizes one parameter vector across all seeds.
type Evaluation struct {
	Fitness      float64
	MeanSurvival float64
	StdSurvival  float64
	MeanKills    float64
	Deaths       int
}

// FitnessEvaluator runs autopilot batches and scores them against a target
// survival time. Lower fitness is better.
type FitnessEvaluator struct {
	ctx     context.Context
	params  *ParamVector
	base    *config.Config
	seeds   []int64
	target  float64
	maxTime float64
	workers int
	logger  *slog.Logger

	mu   sync.Mutex
	last Evaluation
	err  error
}

// NewFitnessEvaluator creates a new evaluator. Runs stop at twice the target
// so surviving configs are still distinguishable.
func NewFitnessEvaluator(ctx context.Context, params *ParamVector, base *config.Config, seeds []int64, target float64, workers int, logger *slog.Logger) *FitnessEvaluator {
	return &FitnessEvaluator{
		ctx:     ctx,
		params:  params,
		base:    base,
		seeds:   seeds,
		target:  target,
		maxTime: 2 * target,
		workers: workers,
		logger:  logger,
	}
}

// Evaluate computes fitness for raw parameter values. A cancelled batch
// scores +Inf and the error is kept for Err.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := *fe.base
	fe.params.ApplyToConfig(&cfg, x)

	results, err := game.RunBatch(fe.ctx, &cfg, fe.seeds, fe.maxTime, fe.workers, fe.logger)
	if err != nil {
		fe.mu.Lock()
		fe.err = err
		fe.mu.Unlock()
		return math.Inf(1)
	}

	ev := Score(results, fe.target)
	fe.mu.Lock()
	fe.last = ev
	fe.mu.Unlock()
	return ev.Fitness
}

// Last returns the most recent evaluation.
func (fe *FitnessEvaluator) Last() Evaluation {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last
}

// Err returns the first batch error, if any.
func (fe *FitnessEvaluator) Err() error {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.err
}

// Score reduces a batch to an Evaluation.
//
//	fitness = |mean - target|/target + spreadWeight*std/target - killWeight*killRate
//
// Kill rate is capped at one kill per second so it never outweighs the
// survival error.
func Score(results []game.RunResult, target float64) Evaluation {
	if len(results) == 0 || target <= 0 {
		return Evaluation{Fitness: math.Inf(1)}
	}

	survival := make([]float64, len(results))
	kills := make([]float64, len(results))
	var ev Evaluation
	var rate float64
	for i, r := range results {
		survival[i] = r.Survived
		kills[i] = float64(r.Kills)
		if r.Died {
			ev.Deaths++
		}
		if r.Survived > 0 {
			rate += min(float64(r.Kills)/r.Survived, 1)
		}
	}
	rate /= float64(len(results))

	ev.MeanSurvival, ev.StdSurvival = stat.MeanStdDev(survival, nil)
	if math.IsNaN(ev.StdSurvival) {
		ev.StdSurvival = 0
	}
	ev.MeanKills = stat.Mean(kills, nil)
	ev.Fitness = math.Abs(ev.MeanSurvival-target)/target +
		spreadWeight*ev.StdSurvival/target -
		killWeight*rate
	return ev
}

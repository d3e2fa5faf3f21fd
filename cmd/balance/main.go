package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/arena/config"
)

// evalRecord is one row of balance_log.csv.
type evalRecord struct {
	Eval         int     `csv:"eval"`
	Fitness      float64 `csv:"fitness"`
	MeanSurvival float64 `csv:"mean_survival"`
	StdSurvival  float64 `csv:"std_survival"`
	MeanKills    float64 `csv:"mean_kills"`
	Deaths       int     `csv:"deaths"`
	Params       string  `csv:"params"`
}

// formatDuration formats a duration as HhMMmSSs or MmSSs for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	target := flag.Float64("target", 600, "Target mean survival in seconds")
	seeds := flag.Int("seeds", 4, "Number of seeds per evaluation")
	workers := flag.Int("workers", 0, "Parallel runs per evaluation (0 = GOMAXPROCS)")
	maxEvals := flag.Int("max-evals", 120, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if err := run(logger, *configPath, *outputDir, *target, *seeds, *workers, *maxEvals, *population); err != nil {
		logger.Error("balance failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, outputDir string, target float64, nSeeds, workers, maxEvals, population int) error {
	if outputDir == "" {
		return fmt.Errorf("--output is required")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	params := NewParamVector()
	evalSeeds := make([]int64, nSeeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	// Sessions log per-run lines; keep them out of the progress stream.
	quiet := slog.New(slog.DiscardHandler)
	evaluator := NewFitnessEvaluator(ctx, params, baseCfg, evalSeeds, target, workers, quiet)

	dim := params.Dim()
	if population == 0 {
		population = 4 + 3*dim/2
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   population,
	}
	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0, // RunBatch already fans out across seeds
	}

	logFile, err := os.Create(filepath.Join(outputDir, "balance_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	var (
		evalCount   int
		bestFitness = 1e9
		bestParams  []float64
		startTime   = time.Now()
	)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			clamped := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(clamped)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			ev := evaluator.Last()
			rec := []evalRecord{{
				Eval:         evalCount,
				Fitness:      fitness,
				MeanSurvival: ev.MeanSurvival,
				StdSurvival:  ev.StdSurvival,
				MeanKills:    ev.MeanKills,
				Deaths:       ev.Deaths,
				Params:       params.Format(clamped),
			}}
			write := gocsv.MarshalWithoutHeaders
			if evalCount == 1 {
				write = gocsv.Marshal
			}
			if err := write(rec, logFile); err != nil {
				logger.Warn("writing eval log", "error", err)
			}

			elapsed := time.Since(startTime)
			remaining := time.Duration(maxEvals-evalCount) * (elapsed / time.Duration(evalCount))
			logger.Info("eval",
				"n", evalCount,
				"of", maxEvals,
				"fitness", fitness,
				"survived", ev.MeanSurvival,
				"kills", ev.MeanKills,
				"best", bestFitness,
				"elapsed", formatDuration(elapsed),
				"eta", formatDuration(remaining),
			)
			return fitness
		},
	}

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	logger.Info("starting CMA-ES",
		"params", dim,
		"population", population,
		"max_evals", maxEvals,
		"seeds", nSeeds,
		"target", target,
	)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		logger.Warn("optimization ended", "error", err)
	}
	if err := evaluator.Err(); err != nil {
		return err
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		return fmt.Errorf("no evaluations completed")
	}

	logger.Info("optimization complete",
		"evals", evalCount,
		"duration", formatDuration(time.Since(startTime)),
		"best_fitness", bestFitness,
		"best", params.Format(bestParams),
	)

	bestCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	params.ApplyToConfig(bestCfg, bestParams)
	out := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	logger.Info("best config saved", "path", out)
	return nil
}

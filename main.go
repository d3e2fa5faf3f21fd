package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/pthm-cable/arena/config"
	"github.com/pthm-cable/arena/game"
)

func main() {
	// .env supplies defaults for the ARENA_* variables; a missing file is fine.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	// CLI flags
	configPath := flag.String("config", os.Getenv("ARENA_CONFIG"), "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run the autopilot without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats windows via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and snapshots")
	seed := flag.Int64("seed", envInt64("ARENA_SEED"), "RNG seed (0 = time-based)")
	difficulty := flag.String("difficulty", os.Getenv("ARENA_DIFFICULTY"), "Difficulty preset (empty = config default)")
	maxTime := flag.Float64("max-time", 1800, "Headless: stop after N seconds of game time")
	runs := flag.Int("runs", 1, "Headless: number of runs, seeds counting up from -seed")
	workers := flag.Int("workers", 0, "Headless: parallel runs (0 = GOMAXPROCS)")
	sandbox := flag.Bool("sandbox", false, "Disable waves; summon enemies with debug keys")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *difficulty != "" {
		if err := cfg.SetDifficulty(*difficulty); err != nil {
			logger.Error("invalid difficulty", "error", err)
			os.Exit(1)
		}
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		Logger:    logger,
		OutputDir: *outputDir,
		LogStats:  *logStats,
		Sandbox:   *sandbox,
	}

	if !*headless {
		if err := play(cfg, opts); err != nil {
			logger.Error("game failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("starting headless simulation",
		"seed", rngSeed,
		"runs", *runs,
		"max_time", *maxTime,
		"difficulty", cfg.Difficulty.Active,
	)

	if *runs <= 1 {
		res, err := game.RunHeadless(ctx, cfg, opts, *maxTime)
		if err != nil {
			logger.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		logResult(logger, res)
		return
	}

	seeds := make([]int64, *runs)
	for i := range seeds {
		seeds[i] = rngSeed + int64(i)
	}
	results, err := game.RunBatch(ctx, cfg, seeds, *maxTime, *workers, logger)
	if err != nil {
		logger.Error("batch failed", "error", err)
		os.Exit(1)
	}
	var survived float64
	for _, res := range results {
		logResult(logger, res)
		survived += res.Survived
	}
	logger.Info("batch complete",
		"runs", len(results),
		"mean_survived", survived/float64(len(results)),
	)
}

func logResult(logger *slog.Logger, res game.RunResult) {
	logger.Info("run complete",
		"seed", res.Seed,
		"survived", res.Survived,
		"died", res.Died,
		"level", res.Level,
		"kills", res.Kills,
		"score", res.Score,
		"windows", len(res.Windows),
	)
}

// envInt64 parses an integer environment variable, returning 0 when unset
// or malformed.
func envInt64(key string) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

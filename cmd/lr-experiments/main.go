package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/thyrook/annealer/internal/config"
	"github.com/thyrook/annealer/internal/experiment"
	"github.com/thyrook/annealer/internal/logging"
)

const Version = "1.0.0"

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file (empty uses defaults)")
		steps      = flag.Int("steps", 0, "Override max training steps")
		out        = flag.String("out", "", "Override results output path")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if *steps > 0 {
		cfg.Experiment.MaxSteps = *steps
	}
	if *out != "" {
		cfg.Experiment.ResultsPath = *out
	}
	if *verbose {
		cfg.Interface.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Interface.LogPath, cfg.Interface.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("lr-experiments starting",
		zap.String("version", Version),
		zap.String("go_version", runtime.Version()),
		zap.Int("max_steps", cfg.Experiment.MaxSteps),
	)

	schedules, err := cfg.Schedules.BuildAll(cfg.Experiment.Schedules)
	if err != nil {
		logger.Error("Failed to build schedules", zap.Error(err))
		os.Exit(1)
	}

	runner, err := experiment.NewRunner(experiment.Config{
		MaxSteps:             cfg.Experiment.MaxSteps,
		ConvergenceThreshold: cfg.Experiment.ConvergenceThreshold,
		InputSize:            cfg.Model.InputSize,
		HiddenSize:           cfg.Model.HiddenSize,
		OutputSize:           cfg.Model.OutputSize,
		BatchSize:            cfg.Model.BatchSize,
	}, logger)
	if err != nil {
		logger.Error("Failed to create runner", zap.Error(err))
		os.Exit(1)
	}

	data := experiment.GenerateSynthetic(
		cfg.Experiment.Seed,
		cfg.Experiment.Batches,
		cfg.Model.BatchSize,
		cfg.Model.InputSize,
		cfg.Model.OutputSize,
	)

	results := runner.RunAll(schedules, data)
	if len(results) == 0 {
		logger.Error("No experiment produced results")
		os.Exit(1)
	}

	if err := results.WriteFile(cfg.Experiment.ResultsPath); err != nil {
		logger.Error("Failed to write results", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("results written",
		zap.String("path", cfg.Experiment.ResultsPath),
		zap.Int("schedules", len(results)),
	)
}

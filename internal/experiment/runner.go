// Package experiment trains the regression network once per schedule,
// querying the schedule for the learning rate at every step, and
// collects per-step metrics for comparison.
package experiment

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/thyrook/annealer/internal/model"
	"github.com/thyrook/annealer/internal/schedule"
)

// Config holds the experiment settings shared by every run.
type Config struct {
	MaxSteps             int
	ConvergenceThreshold float64

	InputSize  int
	HiddenSize int
	OutputSize int
	BatchSize  int
}

// Result records one schedule's training run. ConvergedStep is the
// first step whose relative loss change fell below the threshold, or
// -1 when the run never converged.
type Result struct {
	Schedule      string    `json:"schedule"`
	Losses        []float64 `json:"losses"`
	Rates         []float64 `json:"lrs"`
	StepMillis    []float64 `json:"times_ms"`
	ConvergedStep int       `json:"converged_step"`
}

// Results maps schedule names to their runs.
type Results map[string]*Result

// WriteFile writes the results as indented JSON.
func (rs Results) WriteFile(path string) error {
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Runner executes schedule experiments.
type Runner struct {
	cfg    Config
	logger *zap.Logger
}

// NewRunner creates a runner. A nil logger disables logging.
func NewRunner(cfg Config, logger *zap.Logger) (*Runner, error) {
	if cfg.MaxSteps <= 0 {
		return nil, fmt.Errorf("experiment: max steps must be positive, got %d", cfg.MaxSteps)
	}
	if cfg.ConvergenceThreshold <= 0 {
		return nil, fmt.Errorf("experiment: convergence threshold must be positive, got %g", cfg.ConvergenceThreshold)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}, nil
}

// Run trains a fresh network under one schedule and returns its
// metrics.
func (r *Runner) Run(s schedule.Schedule, data *Dataset) (*Result, error) {
	net, err := model.NewMLP(r.cfg.InputSize, r.cfg.HiddenSize, r.cfg.OutputSize, r.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("schedule %s: failed to create model: %w", s.Name(), err)
	}
	defer net.Close()

	losses := make([]float64, 0, r.cfg.MaxSteps)
	rates := make([]float64, 0, r.cfg.MaxSteps)
	stepMillis := make([]float64, 0, r.cfg.MaxSteps)

	for step := 0; step < r.cfg.MaxSteps; step++ {
		inputs, targets := data.Batch(step)
		lr := s.Rate(step)

		start := time.Now()
		loss, err := net.Step(inputs, targets, lr)
		if err != nil {
			return nil, fmt.Errorf("schedule %s: step %d failed: %w", s.Name(), step, err)
		}
		elapsed := time.Since(start)

		losses = append(losses, loss)
		rates = append(rates, lr)
		stepMillis = append(stepMillis, float64(elapsed.Microseconds())/1000.0)

		r.logger.Debug("training step",
			zap.String("schedule", s.Name()),
			zap.Int("step", step),
			zap.Float64("lr", lr),
			zap.Float64("loss", loss),
		)
	}

	return &Result{
		Schedule:      s.Name(),
		Losses:        losses,
		Rates:         rates,
		StepMillis:    stepMillis,
		ConvergedStep: convergedAt(losses, r.cfg.ConvergenceThreshold),
	}, nil
}

// RunAll runs every schedule against the same dataset. A failed run is
// logged and skipped so one diverging schedule does not abort the
// sweep.
func (r *Runner) RunAll(schedules []schedule.Schedule, data *Dataset) Results {
	results := make(Results, len(schedules))

	for _, s := range schedules {
		r.logger.Info("running experiment", zap.String("schedule", s.Name()))

		result, err := r.Run(s, data)
		if err != nil {
			r.logger.Error("experiment failed", zap.String("schedule", s.Name()), zap.Error(err))
			continue
		}

		results[s.Name()] = result

		final := result.Losses[len(result.Losses)-1]
		r.logger.Info("experiment finished",
			zap.String("schedule", s.Name()),
			zap.Float64("final_loss", final),
			zap.Int("converged_step", result.ConvergedStep),
		)
	}

	return results
}

// convergedAt returns the first step whose relative loss change is
// below the threshold, or -1 when no step qualifies.
func convergedAt(losses []float64, threshold float64) int {
	for i := 1; i < len(losses); i++ {
		prev := losses[i-1]
		if prev == 0 {
			continue
		}
		if math.Abs(losses[i]-prev)/math.Abs(prev) < threshold {
			return i
		}
	}
	return -1
}

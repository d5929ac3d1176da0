// Package config loads and validates the JSON configuration for the
// experiment tools, and builds learning rate schedules from it.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/thyrook/annealer/internal/schedule"
)

// Config represents the application configuration
type Config struct {
	Interface  InterfaceConfig  `json:"interface"`
	Model      ModelConfig      `json:"model"`
	Experiment ExperimentConfig `json:"experiment"`
	Schedules  ScheduleSet      `json:"schedules"`
}

// InterfaceConfig contains logging settings
type InterfaceConfig struct {
	LogLevel string `json:"log_level"`
	LogPath  string `json:"log_path"`
}

// ModelConfig contains the regression network settings
type ModelConfig struct {
	InputSize  int `json:"input_size"`
	HiddenSize int `json:"hidden_size"`
	OutputSize int `json:"output_size"`
	BatchSize  int `json:"batch_size"`
}

// ExperimentConfig contains experiment runner settings. Schedules
// selects which named schedules to run; empty means all of them.
type ExperimentConfig struct {
	MaxSteps             int      `json:"max_steps"`
	Batches              int      `json:"batches"`
	ConvergenceThreshold float64  `json:"convergence_threshold"`
	ResultsPath          string   `json:"results_path"`
	Seed                 int64    `json:"seed"`
	Schedules            []string `json:"schedules"`
}

// ScheduleSet holds the hyperparameters for every schedule variant.
type ScheduleSet struct {
	Constant     schedule.ConstantConfig           `json:"constant"`
	Exponential  schedule.ExponentialConfig        `json:"exponential"`
	Step         schedule.StepConfig               `json:"step"`
	MultiStep    schedule.MultiStepConfig          `json:"multistep"`
	Linear       schedule.LinearConfig             `json:"linear"`
	Polynomial   schedule.PolynomialConfig         `json:"polynomial"`
	Cosine       schedule.CosineConfig             `json:"cosine"`
	Cyclic       schedule.CyclicConfig             `json:"cyclic"`
	OneCycle     schedule.OneCycleConfig           `json:"onecycle"`
	WarmRestarts schedule.CosineWarmRestartsConfig `json:"cosine_warm_restarts"`
}

// ScheduleNames lists every schedule name Build recognizes, in the
// order experiments run them.
func ScheduleNames() []string {
	return []string{
		"constant",
		"exponential",
		"step",
		"multistep",
		"linear",
		"polynomial",
		"cosine",
		"cyclic",
		"onecycle",
		"cosine_warm_restarts",
	}
}

// Build constructs the named schedule from the set's hyperparameters.
func (s *ScheduleSet) Build(name string) (schedule.Schedule, error) {
	switch name {
	case "constant":
		return schedule.NewConstant(s.Constant)
	case "exponential":
		return schedule.NewExponential(s.Exponential)
	case "step":
		return schedule.NewStep(s.Step)
	case "multistep":
		return schedule.NewMultiStep(s.MultiStep)
	case "linear":
		return schedule.NewLinear(s.Linear)
	case "polynomial":
		return schedule.NewPolynomial(s.Polynomial)
	case "cosine":
		return schedule.NewCosine(s.Cosine)
	case "cyclic":
		return schedule.NewCyclic(s.Cyclic)
	case "onecycle":
		return schedule.NewOneCycle(s.OneCycle)
	case "cosine_warm_restarts":
		return schedule.NewCosineWarmRestarts(s.WarmRestarts)
	default:
		return nil, fmt.Errorf("unknown schedule %q", name)
	}
}

// BuildAll constructs the named schedules. Empty names means every
// known schedule.
func (s *ScheduleSet) BuildAll(names []string) ([]schedule.Schedule, error) {
	if len(names) == 0 {
		names = ScheduleNames()
	}

	schedules := make([]schedule.Schedule, 0, len(names))
	for _, name := range names {
		sched, err := s.Build(name)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, sched)
	}
	return schedules, nil
}

// DefaultConfig returns a configuration with the documented defaults
// for every schedule and a small experiment setup.
func DefaultConfig() *Config {
	return &Config{
		Interface: InterfaceConfig{
			LogLevel: "info",
			LogPath:  "logs/annealer.log",
		},
		Model: ModelConfig{
			InputSize:  16,
			HiddenSize: 32,
			OutputSize: 1,
			BatchSize:  8,
		},
		Experiment: ExperimentConfig{
			MaxSteps:             200,
			Batches:              25,
			ConvergenceThreshold: 0.001,
			ResultsPath:          "learning_rates.json",
			Seed:                 1337,
		},
		Schedules: ScheduleSet{
			Constant:     schedule.DefaultConstantConfig(),
			Exponential:  schedule.DefaultExponentialConfig(),
			Step:         schedule.DefaultStepConfig(),
			MultiStep:    schedule.DefaultMultiStepConfig(),
			Linear:       schedule.DefaultLinearConfig(),
			Polynomial:   schedule.DefaultPolynomialConfig(),
			Cosine:       schedule.DefaultCosineConfig(),
			Cyclic:       schedule.DefaultCyclicConfig(),
			OneCycle:     schedule.DefaultOneCycleConfig(),
			WarmRestarts: schedule.DefaultCosineWarmRestartsConfig(),
		},
	}
}

// Validate checks the configuration for values that would fail later.
// Schedule hyperparameters are validated by building every schedule the
// experiment section selects.
func (c *Config) Validate() error {
	if c.Model.InputSize <= 0 {
		return fmt.Errorf("model: input_size must be positive, got %d", c.Model.InputSize)
	}
	if c.Model.HiddenSize <= 0 {
		return fmt.Errorf("model: hidden_size must be positive, got %d", c.Model.HiddenSize)
	}
	if c.Model.OutputSize <= 0 {
		return fmt.Errorf("model: output_size must be positive, got %d", c.Model.OutputSize)
	}
	if c.Model.BatchSize <= 0 {
		return fmt.Errorf("model: batch_size must be positive, got %d", c.Model.BatchSize)
	}
	if c.Experiment.MaxSteps <= 0 {
		return fmt.Errorf("experiment: max_steps must be positive, got %d", c.Experiment.MaxSteps)
	}
	if c.Experiment.Batches <= 0 {
		return fmt.Errorf("experiment: batches must be positive, got %d", c.Experiment.Batches)
	}
	if c.Experiment.ConvergenceThreshold <= 0 {
		return fmt.Errorf("experiment: convergence_threshold must be positive, got %g", c.Experiment.ConvergenceThreshold)
	}
	if c.Experiment.ResultsPath == "" {
		return fmt.Errorf("experiment: results_path must not be empty")
	}

	if _, err := c.Schedules.BuildAll(c.Experiment.Schedules); err != nil {
		return fmt.Errorf("schedules: %w", err)
	}

	return nil
}

// Load reads and parses the configuration file. Fields missing from
// the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

package schedule

import (
	"fmt"
	"math"
)

// ConstantConfig configures a Constant schedule.
type ConstantConfig struct {
	MaxLR float64 `json:"max_lr"`
}

// DefaultConstantConfig returns the default constant configuration.
func DefaultConstantConfig() ConstantConfig {
	return ConstantConfig{MaxLR: 3e-4}
}

// Constant holds the learning rate fixed at MaxLR.
type Constant struct {
	cfg ConstantConfig
}

// NewConstant creates a constant schedule.
func NewConstant(cfg ConstantConfig) (*Constant, error) {
	if cfg.MaxLR <= 0 {
		return nil, fmt.Errorf("constant: max_lr must be positive, got %g", cfg.MaxLR)
	}
	return &Constant{cfg: cfg}, nil
}

func (s *Constant) Name() string { return "constant" }

// Rate returns MaxLR for every iteration.
func (s *Constant) Rate(iteration int) float64 {
	return s.cfg.MaxLR
}

// ExponentialConfig configures an Exponential schedule.
type ExponentialConfig struct {
	MaxLR float64 `json:"max_lr"`
	Gamma float64 `json:"gamma"`
}

// DefaultExponentialConfig returns the default exponential configuration.
func DefaultExponentialConfig() ExponentialConfig {
	return ExponentialConfig{MaxLR: 3e-4, Gamma: 0.1}
}

// Exponential decays the rate by a factor of Gamma every single
// iteration, not every epoch.
type Exponential struct {
	cfg ExponentialConfig
}

// NewExponential creates an exponential decay schedule.
func NewExponential(cfg ExponentialConfig) (*Exponential, error) {
	if cfg.MaxLR <= 0 {
		return nil, fmt.Errorf("exponential: max_lr must be positive, got %g", cfg.MaxLR)
	}
	if cfg.Gamma <= 0 {
		return nil, fmt.Errorf("exponential: gamma must be positive, got %g", cfg.Gamma)
	}
	return &Exponential{cfg: cfg}, nil
}

func (s *Exponential) Name() string { return "exponential" }

// Rate returns MaxLR * Gamma^iteration.
func (s *Exponential) Rate(iteration int) float64 {
	return s.cfg.MaxLR * math.Pow(s.cfg.Gamma, float64(iteration))
}

// StepConfig configures a Step schedule. MaxIters acts as the step
// size: the rate drops by a factor of Gamma every MaxIters iterations.
type StepConfig struct {
	MaxLR    float64 `json:"max_lr"`
	MaxIters int     `json:"max_iters"`
	Gamma    float64 `json:"gamma"`
}

// DefaultStepConfig returns the default step configuration.
func DefaultStepConfig() StepConfig {
	return StepConfig{MaxLR: 3e-4, MaxIters: 100000, Gamma: 0.1}
}

// Step decays the rate in discrete steps of MaxIters iterations.
type Step struct {
	cfg StepConfig
}

// NewStep creates a step decay schedule.
func NewStep(cfg StepConfig) (*Step, error) {
	if cfg.MaxLR <= 0 {
		return nil, fmt.Errorf("step: max_lr must be positive, got %g", cfg.MaxLR)
	}
	if cfg.MaxIters <= 0 {
		return nil, fmt.Errorf("step: max_iters must be positive, got %d", cfg.MaxIters)
	}
	if cfg.Gamma <= 0 {
		return nil, fmt.Errorf("step: gamma must be positive, got %g", cfg.Gamma)
	}
	return &Step{cfg: cfg}, nil
}

func (s *Step) Name() string { return "step" }

// Rate returns MaxLR * Gamma^floor(iteration/MaxIters).
func (s *Step) Rate(iteration int) float64 {
	return s.cfg.MaxLR * math.Pow(s.cfg.Gamma, float64(iteration/s.cfg.MaxIters))
}

// MultiStepConfig configures a MultiStep schedule. Milestones must be
// strictly ascending iteration thresholds. MaxIters is accepted for
// uniformity with the other decay schedules but does not enter the
// formula.
type MultiStepConfig struct {
	MaxLR      float64 `json:"max_lr"`
	MaxIters   int     `json:"max_iters"`
	Gamma      float64 `json:"gamma"`
	Milestones []int   `json:"milestones"`
}

// DefaultMultiStepConfig returns the default multi-step configuration.
func DefaultMultiStepConfig() MultiStepConfig {
	return MultiStepConfig{MaxLR: 3e-4, MaxIters: 100000, Gamma: 0.1, Milestones: []int{10, 30}}
}

// MultiStep decays the rate by Gamma at each milestone iteration.
type MultiStep struct {
	cfg MultiStepConfig
}

// NewMultiStep creates a multi-step decay schedule.
func NewMultiStep(cfg MultiStepConfig) (*MultiStep, error) {
	if cfg.MaxLR <= 0 {
		return nil, fmt.Errorf("multistep: max_lr must be positive, got %g", cfg.MaxLR)
	}
	if cfg.Gamma <= 0 {
		return nil, fmt.Errorf("multistep: gamma must be positive, got %g", cfg.Gamma)
	}
	if len(cfg.Milestones) == 0 {
		return nil, fmt.Errorf("multistep: milestones must not be empty")
	}
	prev := -1
	for _, m := range cfg.Milestones {
		if m < 0 {
			return nil, fmt.Errorf("multistep: milestone %d is negative", m)
		}
		if m <= prev {
			return nil, fmt.Errorf("multistep: milestones must be strictly ascending, got %v", cfg.Milestones)
		}
		prev = m
	}
	milestones := make([]int, len(cfg.Milestones))
	copy(milestones, cfg.Milestones)
	cfg.Milestones = milestones
	return &MultiStep{cfg: cfg}, nil
}

func (s *MultiStep) Name() string { return "multistep" }

// Rate returns MaxLR * Gamma^k where k counts milestones at or before
// the iteration.
func (s *MultiStep) Rate(iteration int) float64 {
	k := 0
	for _, m := range s.cfg.Milestones {
		if iteration < m {
			break
		}
		k++
	}
	return s.cfg.MaxLR * math.Pow(s.cfg.Gamma, float64(k))
}

// LinearConfig configures a Linear schedule.
type LinearConfig struct {
	MaxLR    float64 `json:"max_lr"`
	MaxIters int     `json:"max_iters"`
}

// DefaultLinearConfig returns the default linear configuration.
func DefaultLinearConfig() LinearConfig {
	return LinearConfig{MaxLR: 3e-4, MaxIters: 100000}
}

// Linear decays the rate from MaxLR at iteration 0 to zero at MaxIters.
// Past MaxIters the rate keeps falling and goes negative; callers that
// need a floor should wrap the schedule with Clamp.
type Linear struct {
	cfg LinearConfig
}

// NewLinear creates a linear decay schedule.
func NewLinear(cfg LinearConfig) (*Linear, error) {
	if cfg.MaxLR <= 0 {
		return nil, fmt.Errorf("linear: max_lr must be positive, got %g", cfg.MaxLR)
	}
	if cfg.MaxIters <= 0 {
		return nil, fmt.Errorf("linear: max_iters must be positive, got %d", cfg.MaxIters)
	}
	return &Linear{cfg: cfg}, nil
}

func (s *Linear) Name() string { return "linear" }

// Rate returns MaxLR * (1 - iteration/MaxIters).
func (s *Linear) Rate(iteration int) float64 {
	return s.cfg.MaxLR * (1 - float64(iteration)/float64(s.cfg.MaxIters))
}

// PolynomialConfig configures a Polynomial schedule.
type PolynomialConfig struct {
	MaxLR    float64 `json:"max_lr"`
	MinLR    float64 `json:"min_lr"`
	MaxIters int     `json:"max_iters"`
	Power    float64 `json:"power"`
}

// DefaultPolynomialConfig returns the default polynomial configuration.
func DefaultPolynomialConfig() PolynomialConfig {
	return PolynomialConfig{MaxLR: 3e-4, MinLR: 3e-5, MaxIters: 100000, Power: 1.0}
}

// Polynomial decays the rate from MaxLR to MinLR following a power of
// the remaining fraction of training. With Power 1 it reduces to the
// linear formula shifted by MinLR. Like Linear, it applies no clamping
// past MaxIters, where a fractional Power yields NaN.
type Polynomial struct {
	cfg PolynomialConfig
}

// NewPolynomial creates a polynomial decay schedule.
func NewPolynomial(cfg PolynomialConfig) (*Polynomial, error) {
	if cfg.MaxLR <= 0 {
		return nil, fmt.Errorf("polynomial: max_lr must be positive, got %g", cfg.MaxLR)
	}
	if cfg.MinLR < 0 {
		return nil, fmt.Errorf("polynomial: min_lr must be non-negative, got %g", cfg.MinLR)
	}
	if cfg.MaxLR < cfg.MinLR {
		return nil, fmt.Errorf("polynomial: max_lr (%g) must be at least min_lr (%g)", cfg.MaxLR, cfg.MinLR)
	}
	if cfg.MaxIters <= 0 {
		return nil, fmt.Errorf("polynomial: max_iters must be positive, got %d", cfg.MaxIters)
	}
	return &Polynomial{cfg: cfg}, nil
}

func (s *Polynomial) Name() string { return "polynomial" }

// Rate returns (MaxLR-MinLR) * (1 - iteration/MaxIters)^Power + MinLR.
func (s *Polynomial) Rate(iteration int) float64 {
	remaining := 1 - float64(iteration)/float64(s.cfg.MaxIters)
	return (s.cfg.MaxLR-s.cfg.MinLR)*math.Pow(remaining, s.cfg.Power) + s.cfg.MinLR
}

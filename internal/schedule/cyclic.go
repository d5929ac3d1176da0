package schedule

import (
	"fmt"
	"math"
)

// CyclicConfig configures a Cyclic schedule.
type CyclicConfig struct {
	MaxLR    float64 `json:"max_lr"`
	MinLR    float64 `json:"min_lr"`
	MaxIters int     `json:"max_iters"`
}

// DefaultCyclicConfig returns the default cyclic configuration.
func DefaultCyclicConfig() CyclicConfig {
	return CyclicConfig{MaxLR: 3e-4, MinLR: 3e-5, MaxIters: 100000}
}

// Cyclic produces a triangular wave between MinLR and MaxLR with period
// 2*MaxIters: the rate rises from MinLR to MaxLR over MaxIters
// iterations, falls back over the next MaxIters, and repeats.
type Cyclic struct {
	cfg CyclicConfig
}

// NewCyclic creates a cyclic (triangular) schedule.
func NewCyclic(cfg CyclicConfig) (*Cyclic, error) {
	if cfg.MaxLR <= 0 {
		return nil, fmt.Errorf("cyclic: max_lr must be positive, got %g", cfg.MaxLR)
	}
	if cfg.MinLR < 0 {
		return nil, fmt.Errorf("cyclic: min_lr must be non-negative, got %g", cfg.MinLR)
	}
	if cfg.MaxLR < cfg.MinLR {
		return nil, fmt.Errorf("cyclic: max_lr (%g) must be at least min_lr (%g)", cfg.MaxLR, cfg.MinLR)
	}
	if cfg.MaxIters <= 0 {
		return nil, fmt.Errorf("cyclic: max_iters must be positive, got %d", cfg.MaxIters)
	}
	return &Cyclic{cfg: cfg}, nil
}

func (s *Cyclic) Name() string { return "cyclic" }

// Rate returns the triangular wave value for the iteration.
func (s *Cyclic) Rate(iteration int) float64 {
	t := float64(iteration)
	mi := float64(s.cfg.MaxIters)
	cycle := math.Floor(1 + t/(2*mi))
	x := math.Abs(t/mi - 2*cycle + 1)
	return s.cfg.MinLR + (s.cfg.MaxLR-s.cfg.MinLR)*math.Max(0, 1-x)
}

// OneCycleConfig configures a OneCycle schedule. PctStart is the
// fraction of MaxIters spent on the rising segment.
type OneCycleConfig struct {
	MaxLR    float64 `json:"max_lr"`
	MinLR    float64 `json:"min_lr"`
	MaxIters int     `json:"max_iters"`
	PctStart float64 `json:"pct_start"`
}

// DefaultOneCycleConfig returns the default one-cycle configuration.
func DefaultOneCycleConfig() OneCycleConfig {
	return OneCycleConfig{MaxLR: 3e-4, MinLR: 3e-5, MaxIters: 100000, PctStart: 0.3}
}

// OneCycle rises linearly from MinLR to MaxLR over the first
// PctStart*MaxIters iterations and falls linearly back over the rest.
// The two segments are continuous at the junction.
type OneCycle struct {
	cfg OneCycleConfig
}

// NewOneCycle creates a one-cycle schedule.
func NewOneCycle(cfg OneCycleConfig) (*OneCycle, error) {
	if cfg.MaxLR <= 0 {
		return nil, fmt.Errorf("onecycle: max_lr must be positive, got %g", cfg.MaxLR)
	}
	if cfg.MinLR < 0 {
		return nil, fmt.Errorf("onecycle: min_lr must be non-negative, got %g", cfg.MinLR)
	}
	if cfg.MaxLR < cfg.MinLR {
		return nil, fmt.Errorf("onecycle: max_lr (%g) must be at least min_lr (%g)", cfg.MaxLR, cfg.MinLR)
	}
	if cfg.MaxIters <= 0 {
		return nil, fmt.Errorf("onecycle: max_iters must be positive, got %d", cfg.MaxIters)
	}
	if cfg.PctStart <= 0 || cfg.PctStart >= 1 {
		return nil, fmt.Errorf("onecycle: pct_start must be in (0, 1), got %g", cfg.PctStart)
	}
	return &OneCycle{cfg: cfg}, nil
}

func (s *OneCycle) Name() string { return "onecycle" }

// Rate returns the rising segment value while iteration/MaxIters is at
// most PctStart and the falling segment value after.
func (s *OneCycle) Rate(iteration int) float64 {
	t := float64(iteration)
	mi := float64(s.cfg.MaxIters)
	if t/mi <= s.cfg.PctStart {
		return s.cfg.MinLR + (s.cfg.MaxLR-s.cfg.MinLR)*t/(s.cfg.PctStart*mi)
	}
	return s.cfg.MaxLR - (s.cfg.MaxLR-s.cfg.MinLR)*(t-s.cfg.PctStart*mi)/((1-s.cfg.PctStart)*mi)
}

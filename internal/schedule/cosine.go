package schedule

import (
	"fmt"
	"math"
)

// CosineConfig configures a Cosine schedule.
type CosineConfig struct {
	MaxLR       float64 `json:"max_lr"`
	MinLR       float64 `json:"min_lr"`
	WarmupIters int     `json:"warmup_iters"`
	MaxIters    int     `json:"max_iters"`
}

// DefaultCosineConfig returns the default cosine configuration.
func DefaultCosineConfig() CosineConfig {
	return CosineConfig{MaxLR: 3e-4, MinLR: 3e-5, WarmupIters: 1000, MaxIters: 100000}
}

// Cosine ramps the rate linearly from zero to MaxLR over WarmupIters,
// then anneals it to MinLR at MaxIters along a half cosine. Iterations
// past MaxIters stay at MinLR.
type Cosine struct {
	cfg CosineConfig
}

// NewCosine creates a cosine annealing schedule with linear warmup.
func NewCosine(cfg CosineConfig) (*Cosine, error) {
	if cfg.MaxLR <= 0 {
		return nil, fmt.Errorf("cosine: max_lr must be positive, got %g", cfg.MaxLR)
	}
	if cfg.MinLR < 0 {
		return nil, fmt.Errorf("cosine: min_lr must be non-negative, got %g", cfg.MinLR)
	}
	if cfg.MaxLR < cfg.MinLR {
		return nil, fmt.Errorf("cosine: max_lr (%g) must be at least min_lr (%g)", cfg.MaxLR, cfg.MinLR)
	}
	if cfg.WarmupIters < 0 {
		return nil, fmt.Errorf("cosine: warmup_iters must be non-negative, got %d", cfg.WarmupIters)
	}
	if cfg.MaxIters <= cfg.WarmupIters {
		return nil, fmt.Errorf("cosine: max_iters (%d) must be greater than warmup_iters (%d)", cfg.MaxIters, cfg.WarmupIters)
	}
	return &Cosine{cfg: cfg}, nil
}

func (s *Cosine) Name() string { return "cosine" }

// Rate returns the warmup ramp before WarmupIters, MinLR past MaxIters,
// and the cosine interpolation between MaxLR and MinLR otherwise.
func (s *Cosine) Rate(iteration int) float64 {
	if iteration < s.cfg.WarmupIters {
		return s.cfg.MaxLR * float64(iteration) / float64(s.cfg.WarmupIters)
	}
	if iteration > s.cfg.MaxIters {
		return s.cfg.MinLR
	}

	ratio := float64(iteration-s.cfg.WarmupIters) / float64(s.cfg.MaxIters-s.cfg.WarmupIters)
	assertDecayRatio(ratio)

	coeff := 0.5 * (1.0 + math.Cos(math.Pi*ratio))
	return s.cfg.MinLR + coeff*(s.cfg.MaxLR-s.cfg.MinLR)
}

// CosineWarmRestartsConfig configures a CosineWarmRestarts schedule.
type CosineWarmRestartsConfig struct {
	MaxLR       float64 `json:"max_lr"`
	MinLR       float64 `json:"min_lr"`
	WarmupSteps int     `json:"warmup_steps"`
	TMult       int     `json:"t_mult"`
}

// DefaultCosineWarmRestartsConfig returns the default warm restarts
// configuration.
func DefaultCosineWarmRestartsConfig() CosineWarmRestartsConfig {
	return CosineWarmRestartsConfig{MaxLR: 3e-4, MinLR: 3e-5, WarmupSteps: 10, TMult: 1}
}

// CosineWarmRestarts anneals the rate from MaxLR to MinLR along a
// cosine and restarts at MaxLR each cycle. The position within a cycle
// is iteration mod WarmupSteps, so the emitted wave repeats with period
// WarmupSteps for any TMult; TMult is validated and retained for
// configuration compatibility but does not change the output.
type CosineWarmRestarts struct {
	cfg CosineWarmRestartsConfig
}

// NewCosineWarmRestarts creates a cosine annealing schedule with warm
// restarts.
func NewCosineWarmRestarts(cfg CosineWarmRestartsConfig) (*CosineWarmRestarts, error) {
	if cfg.MaxLR <= 0 {
		return nil, fmt.Errorf("warm restarts: max_lr must be positive, got %g", cfg.MaxLR)
	}
	if cfg.MinLR < 0 {
		return nil, fmt.Errorf("warm restarts: min_lr must be non-negative, got %g", cfg.MinLR)
	}
	if cfg.MaxLR < cfg.MinLR {
		return nil, fmt.Errorf("warm restarts: max_lr (%g) must be at least min_lr (%g)", cfg.MaxLR, cfg.MinLR)
	}
	if cfg.WarmupSteps <= 0 {
		return nil, fmt.Errorf("warm restarts: warmup_steps must be positive, got %d", cfg.WarmupSteps)
	}
	if cfg.TMult < 1 {
		return nil, fmt.Errorf("warm restarts: t_mult must be at least 1, got %d", cfg.TMult)
	}
	return &CosineWarmRestarts{cfg: cfg}, nil
}

func (s *CosineWarmRestarts) Name() string { return "cosine_warm_restarts" }

// Rate returns MinLR + (MaxLR-MinLR) * (1+cos(pi*Tcur/WarmupSteps))/2
// where Tcur is the iteration modulo WarmupSteps.
func (s *CosineWarmRestarts) Rate(iteration int) float64 {
	tcur := iteration % s.cfg.WarmupSteps
	coeff := (1 + math.Cos(math.Pi*float64(tcur)/float64(s.cfg.WarmupSteps))) / 2
	return s.cfg.MinLR + (s.cfg.MaxLR-s.cfg.MinLR)*coeff
}

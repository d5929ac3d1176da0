// Package schedule implements learning rate schedules as pure functions
// of the training iteration. Every schedule is an immutable value built
// from an explicit configuration struct; querying it has no side effects,
// so a single instance can be shared by any number of goroutines.
package schedule

// Schedule maps a training iteration to a learning rate.
type Schedule interface {
	// Rate returns the learning rate for the given iteration.
	// Iterations are expected to be non-negative; behavior for
	// negative iterations is undefined.
	Rate(iteration int) float64

	// Name returns a short identifier for logs and result files.
	Name() string
}

// Clamp wraps another schedule and bounds its output to [lo, hi].
// Schedules such as Linear and Polynomial intentionally run out of range
// past MaxIters; callers that need bounded rates layer this on top
// instead of altering the underlying formula.
func Clamp(s Schedule, lo, hi float64) Schedule {
	return &clamped{inner: s, lo: lo, hi: hi}
}

type clamped struct {
	inner  Schedule
	lo, hi float64
}

func (c *clamped) Name() string { return c.inner.Name() + "_clamped" }

func (c *clamped) Rate(iteration int) float64 {
	r := c.inner.Rate(iteration)
	if r < c.lo {
		return c.lo
	}
	if r > c.hi {
		return c.hi
	}
	return r
}

//go:build lrdebug

package schedule

import "fmt"

// assertDecayRatio panics when the post-warmup progress falls outside
// [0, 1]. The warmup and past-the-end branches are taken before the
// ratio is computed, so a violation means the schedule's own arithmetic
// is broken rather than the caller's input.
func assertDecayRatio(r float64) {
	if r < 0 || r > 1 {
		panic(fmt.Sprintf("schedule: decay ratio %g outside [0, 1]", r))
	}
}

//go:build !lrdebug

package schedule

// assertDecayRatio is compiled out unless the lrdebug build tag is set.
func assertDecayRatio(float64) {}

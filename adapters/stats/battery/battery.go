// Package battery implements the five statistical tests behind causal link
// validation: a Granger-style lag scan, Pearson correlation, temporal
// precedence, an intervention-style regression fit, and out-of-sample
// stability. Each test absorbs its own numerical failures into a tagged
// fallback outcome so one degenerate computation never aborts the others.
package battery

import (
	"gocausal/domain/causal"
)

// Battery runs the five tests over one cleaned, aligned observation pair.
// A call is synchronous and touches no shared state; the orchestrating
// service decides whether separate calls run in parallel.
type Battery struct {
	maxLag int
}

// New creates a battery with the default lag horizon.
func New() *Battery {
	return &Battery{maxLag: causal.DefaultMaxLag}
}

// NewWithMaxLag creates a battery scanning lags 1..maxLag.
func NewWithMaxLag(maxLag int) *Battery {
	if maxLag < 1 {
		maxLag = causal.DefaultMaxLag
	}
	return &Battery{maxLag: maxLag}
}

// MaxLag returns the configured lag horizon.
func (b *Battery) MaxLag() int {
	return b.maxLag
}

// Run executes all five tests in order at the configured lag horizon and
// collects their outcomes. The caller guarantees cause and effect are the
// cleaned pair (no missing values, equal length); the individual tests
// still guard against degenerate numerical input.
func (b *Battery) Run(cause, effect []float64) causal.TestBundle {
	return b.RunMaxLag(cause, effect, b.maxLag)
}

// RunMaxLag runs the battery with a per-call lag horizon. A horizon below 1
// uses the configured default.
func (b *Battery) RunMaxLag(cause, effect []float64, maxLag int) causal.TestBundle {
	if maxLag < 1 {
		maxLag = b.maxLag
	}
	return causal.TestBundle{
		Granger:      grangerScan(cause, effect, maxLag),
		Correlation:  correlationTest(cause, effect),
		Precedence:   precedenceTest(cause, effect),
		Intervention: interventionTest(cause, effect),
		Stability:    stabilityTest(cause, effect),
	}
}

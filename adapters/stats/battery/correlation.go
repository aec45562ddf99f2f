package battery

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"gocausal/domain/causal"
)

// correlationTest computes the Pearson coefficient between the aligned
// series and the two-sided p-value of its t statistic. Degenerate input
// (too few points, a flat series) falls back to the neutral r = 0, p = 1.
func correlationTest(cause, effect []float64) causal.CorrelationOutcome {
	fallback := func(reason string) causal.CorrelationOutcome {
		return causal.CorrelationOutcome{
			Outcome: causal.Fallback(reason),
			R:       0.0,
			PValue:  1.0,
		}
	}

	r, ok := pearson(cause, effect)
	if !ok {
		return fallback("correlation undefined for input series")
	}

	df := float64(len(cause) - 2)
	if df < 1 {
		return fallback("too few observations for a correlation test")
	}

	denom := 1 - r*r
	if denom <= 0 {
		// Perfectly correlated series: the t statistic diverges.
		return causal.CorrelationOutcome{R: r, PValue: 0.0}
	}

	t := r * math.Sqrt(df/denom)
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * (1 - tDist.CDF(math.Abs(t)))
	return causal.CorrelationOutcome{R: r, PValue: p}
}

// pearson computes the Pearson correlation coefficient between two equal
// length series. ok is false when the coefficient is undefined: mismatched
// or too-short input, or a series with zero variance.
func pearson(x, y []float64) (float64, bool) {
	n := len(x)
	if n != len(y) || n < 2 {
		return 0, false
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var num, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		num += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	denom := math.Sqrt(varX * varY)
	if denom == 0 || math.IsNaN(denom) {
		return 0, false
	}
	r := num / denom
	if math.IsNaN(r) {
		return 0, false
	}
	return r, true
}

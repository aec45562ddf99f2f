package battery

import (
	"gocausal/domain/causal"
)

// interventionTest fits the univariate regression effect = a + b*cause and
// reports the coefficient of determination together with the fitted slope.
// The R-squared answers how much of the effect's variance the cause alone
// explains; the slope is the modeled response to a unit change in the cause.
func interventionTest(cause, effect []float64) causal.InterventionOutcome {
	fallback := func(reason string) causal.InterventionOutcome {
		return causal.InterventionOutcome{
			Outcome: causal.Fallback(reason),
			R2:      0.0,
			Slope:   0.0,
		}
	}

	n := len(cause)
	if n != len(effect) {
		return fallback("cause and effect series lengths differ")
	}
	if n < 3 {
		return fallback("too few observations for a regression fit")
	}

	X := make([][]float64, n)
	for i := 0; i < n; i++ {
		X[i] = []float64{1.0, cause[i]}
	}
	beta, ssr, err := olsFit(X, effect)
	if err != nil {
		return fallback("regression fit failed: " + err.Error())
	}

	var meanY float64
	for _, v := range effect {
		meanY += v
	}
	meanY /= float64(n)
	var sst float64
	for _, v := range effect {
		d := v - meanY
		sst += d * d
	}
	if sst == 0 {
		return fallback("effect series has zero variance")
	}

	return causal.InterventionOutcome{
		R2:    1 - ssr/sst,
		Slope: beta[1],
	}
}

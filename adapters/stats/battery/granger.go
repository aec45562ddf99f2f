package battery

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"gocausal/domain/causal"
)

// grangerScan tests whether past values of cause improve prediction of
// effect beyond effect's own history, at every lag from 1 to maxLag. For
// each lag it compares a restricted autoregression (effect on its own lags)
// against an unrestricted one (adding the cause lags) with an F-test on the
// residual sums of squares, then keeps the smallest p-value across the scan
// and the lag that produced it. Ties resolve to the smaller lag.
//
// The whole scan must be feasible before any lag runs: the largest lag
// needs n > 3*maxLag + 1 observations to leave at least one residual
// degree of freedom. If that check fails, or any individual lag cannot be
// fit, the scan reports the conservative fallback of p = 1.0 at lag 1.
func grangerScan(cause, effect []float64, maxLag int) causal.GrangerOutcome {
	fallback := func(reason string) causal.GrangerOutcome {
		return causal.GrangerOutcome{
			Outcome:    causal.Fallback(reason),
			PValue:     1.0,
			OptimalLag: 1,
		}
	}

	n := len(effect)
	if len(cause) != n {
		return fallback("cause and effect series lengths differ")
	}
	if maxLag < 1 {
		return fallback("lag horizon must be at least 1")
	}
	if n <= 3*maxLag+1 {
		return fallback(fmt.Sprintf("need more than %d observations to scan %d lags, have %d", 3*maxLag+1, maxLag, n))
	}

	minP := math.Inf(1)
	optimalLag := 1
	for lag := 1; lag <= maxLag; lag++ {
		p, err := grangerPValue(cause, effect, lag)
		if err != nil {
			return fallback(fmt.Sprintf("lag %d regression failed: %v", lag, err))
		}
		if p < minP {
			minP = p
			optimalLag = lag
		}
	}
	return causal.GrangerOutcome{PValue: minP, OptimalLag: optimalLag}
}

// grangerPValue runs the restricted-vs-unrestricted F-test for one lag.
// The restricted model regresses effect on an intercept and its own lags
// 1..lag; the unrestricted model adds the cause lags 1..lag.
func grangerPValue(cause, effect []float64, lag int) (float64, error) {
	n := len(effect)
	rows := n - lag
	df1 := lag
	df2 := rows - 2*lag - 1
	if df2 < 1 {
		return 0, fmt.Errorf("no residual degrees of freedom at lag %d", lag)
	}

	y := make([]float64, rows)
	restricted := make([][]float64, rows)
	unrestricted := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		t := i + lag
		y[i] = effect[t]

		rRow := make([]float64, 1+lag)
		uRow := make([]float64, 1+2*lag)
		rRow[0] = 1.0
		uRow[0] = 1.0
		for l := 1; l <= lag; l++ {
			rRow[l] = effect[t-l]
			uRow[l] = effect[t-l]
			uRow[lag+l] = cause[t-l]
		}
		restricted[i] = rRow
		unrestricted[i] = uRow
	}

	_, ssrR, err := olsFit(restricted, y)
	if err != nil {
		return 0, err
	}
	_, ssrU, err := olsFit(unrestricted, y)
	if err != nil {
		return 0, err
	}
	if ssrU <= 0 {
		// Perfect unrestricted fit: the F statistic diverges.
		return 0.0, nil
	}

	f := ((ssrR - ssrU) / float64(df1)) / (ssrU / float64(df2))
	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}
	p := 1 - fDist.CDF(f)
	if math.IsNaN(p) {
		return 0, fmt.Errorf("F distribution undefined at lag %d", lag)
	}
	return p, nil
}

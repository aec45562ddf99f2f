package causal

// Outcome tags a single test result as either computed or substituted with
// its conservative fallback after a numerical failure. The fallback path is
// an explicit branch so callers and tests can assert on it directly.
type Outcome struct {
	FellBack      bool   `json:"fell_back,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// Fallback builds a failed outcome tag.
func Fallback(reason string) Outcome {
	return Outcome{FellBack: true, FailureReason: reason}
}

// GrangerOutcome holds the lag-scan result: the minimum p-value over lags
// 1..max_lag and the lag achieving it. Fallback values are p=1.0, lag=1.
type GrangerOutcome struct {
	Outcome
	PValue     float64 `json:"p_value"`
	OptimalLag int     `json:"optimal_lag"`
}

// CorrelationOutcome holds the Pearson coefficient and its two-sided
// p-value. Fallback values are r=0.0, p=1.0.
type CorrelationOutcome struct {
	Outcome
	R      float64 `json:"r"`
	PValue float64 `json:"p_value"`
}

// PrecedenceOutcome records whether the cause's association with the next
// effect value exceeds its association with the previous one. Failure means
// not confirmed.
type PrecedenceOutcome struct {
	Outcome
	Confirmed bool    `json:"confirmed"`
	Forward   float64 `json:"forward"`
	Backward  float64 `json:"backward"`
}

// InterventionOutcome holds the univariate regression fit of effect on
// cause. Fallback values are R²=0.0, slope=0.0.
type InterventionOutcome struct {
	Outcome
	R2    float64 `json:"r2"`
	Slope float64 `json:"slope"`
}

// StabilityOutcome holds the out-of-sample over in-sample correlation ratio
// at the 70% split. An undefined or zero in-sample correlation yields 0.0.
type StabilityOutcome struct {
	Outcome
	Ratio     float64 `json:"ratio"`
	TrainCorr float64 `json:"train_corr"`
	TestCorr  float64 `json:"test_corr"`
}

// TestBundle carries all five test outcomes for one validation call. It is
// call-local: nothing in it is shared or retained by the engine.
type TestBundle struct {
	Granger      GrangerOutcome      `json:"granger"`
	Correlation  CorrelationOutcome  `json:"correlation"`
	Precedence   PrecedenceOutcome   `json:"precedence"`
	Intervention InterventionOutcome `json:"intervention"`
	Stability    StabilityOutcome    `json:"stability"`
}

// FallbackCount returns how many of the five tests degraded to fallbacks.
func (b TestBundle) FallbackCount() int {
	count := 0
	for _, o := range []Outcome{
		b.Granger.Outcome,
		b.Correlation.Outcome,
		b.Precedence.Outcome,
		b.Intervention.Outcome,
		b.Stability.Outcome,
	} {
		if o.FellBack {
			count++
		}
	}
	return count
}

// FailureReasons lists the reasons of the tests that fell back, in test order.
func (b TestBundle) FailureReasons() []string {
	var reasons []string
	for _, o := range []Outcome{
		b.Granger.Outcome,
		b.Correlation.Outcome,
		b.Precedence.Outcome,
		b.Intervention.Outcome,
		b.Stability.Outcome,
	} {
		if o.FellBack && o.FailureReason != "" {
			reasons = append(reasons, o.FailureReason)
		}
	}
	return reasons
}

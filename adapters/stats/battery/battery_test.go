package battery

import (
	"math"
	"testing"

	"gocausal/domain/causal"
)

// TestBattery_PlantedLaggedLink runs the full battery against a pair with a
// known one-period causal structure and checks every test recovers it.
func TestBattery_PlantedLaggedLink(t *testing.T) {
	randState = 42.0
	cause := randomWalk(120)
	effect := plantedEffect(cause, 0.8, 0.2)

	b := New().Run(cause, effect)

	if b.FallbackCount() != 0 {
		t.Fatalf("Expected no fallbacks for clean planted data, got %d: %v",
			b.FallbackCount(), b.FailureReasons())
	}
	if b.Granger.PValue >= 0.001 {
		t.Errorf("Granger p-value should be tiny for a planted link, got %f", b.Granger.PValue)
	}
	if b.Granger.OptimalLag != 1 {
		t.Errorf("Expected optimal lag 1, got %d", b.Granger.OptimalLag)
	}
	if b.Correlation.R < 0.95 {
		t.Errorf("Expected strong positive correlation, got %f", b.Correlation.R)
	}
	if b.Correlation.PValue >= 0.001 {
		t.Errorf("Correlation p-value should be tiny, got %f", b.Correlation.PValue)
	}
	if !b.Precedence.Confirmed {
		t.Error("Cause-leads-effect construction should confirm precedence")
	}
	if math.Abs(b.Precedence.Forward) <= math.Abs(b.Precedence.Backward) {
		t.Errorf("Forward correlation %f should exceed backward %f",
			b.Precedence.Forward, b.Precedence.Backward)
	}
	if b.Intervention.R2 < 0.9 {
		t.Errorf("Expected high R-squared, got %f", b.Intervention.R2)
	}
	if b.Intervention.Slope < 0.7 || b.Intervention.Slope > 0.9 {
		t.Errorf("Fitted slope should be near the planted 0.8, got %f", b.Intervention.Slope)
	}
	if b.Stability.Ratio < 0.8 || b.Stability.Ratio > 1.0 {
		t.Errorf("Stability ratio should be near 1 for a persistent link, got %f", b.Stability.Ratio)
	}
	if !causal.Gate(b, causal.DefaultThresholds()) {
		t.Error("Planted link should pass the full validation gate")
	}
	t.Logf("Planted link: granger_p=%g lag=%d r=%f r2=%f oos=%f",
		b.Granger.PValue, b.Granger.OptimalLag, b.Correlation.R,
		b.Intervention.R2, b.Stability.Ratio)
}

// TestBattery_IndependentWalks checks that two unrelated random walks fail
// the gate on the correlation and regression conditions.
func TestBattery_IndependentWalks(t *testing.T) {
	randState = 2024.0
	cause := randomWalk(120)
	randState = 777.0
	effect := randomWalk(120)

	b := New().Run(cause, effect)

	if causal.Gate(b, causal.DefaultThresholds()) {
		t.Error("Independent walks should not pass the validation gate")
	}
	if math.Abs(b.Correlation.R) >= 0.3 {
		t.Errorf("Expected weak correlation for independent walks, got %f", b.Correlation.R)
	}
	if b.Intervention.R2 >= 0.15 {
		t.Errorf("Expected negligible R-squared for independent walks, got %f", b.Intervention.R2)
	}
	if b.Precedence.Confirmed {
		t.Error("No directional signal expected between independent walks")
	}
}

// TestBattery_WhiteNoisePair documents two properties on unstructured data:
// the Granger scan stays well above significance, and the stability ratio
// is unbounded above when the train correlation is nearly zero.
func TestBattery_WhiteNoisePair(t *testing.T) {
	randState = 99.0
	cause := whiteNoise(120)
	effect := whiteNoise(120)

	b := New().Run(cause, effect)

	if b.Granger.FellBack {
		t.Fatalf("Scan should be feasible at 120 observations: %s", b.Granger.FailureReason)
	}
	if b.Granger.PValue <= 0.05 || b.Granger.PValue > 1.0 {
		t.Errorf("Expected insignificant Granger p-value, got %f", b.Granger.PValue)
	}
	if b.Stability.Ratio <= 1.0 {
		t.Errorf("Near-zero train correlation should inflate the ratio above 1, got %f", b.Stability.Ratio)
	}
	if causal.Gate(b, causal.DefaultThresholds()) {
		t.Error("White noise should not validate")
	}
}

// TestBattery_ConstantCauseDegradesGracefully drives every test with a flat
// cause series. Three tests fall back, precedence and stability resolve to
// their defined zero outcomes, and the confidence floor comes out at the
// half-credit precedence term alone.
func TestBattery_ConstantCauseDegradesGracefully(t *testing.T) {
	randState = 11.0
	cause := make([]float64, 60)
	for i := range cause {
		cause[i] = 5.0
	}
	effect := whiteNoise(60)

	b := New().Run(cause, effect)

	if !b.Granger.FellBack || b.Granger.PValue != 1.0 || b.Granger.OptimalLag != 1 {
		t.Errorf("Granger should fall back to p=1 lag=1, got p=%f lag=%d fellback=%v",
			b.Granger.PValue, b.Granger.OptimalLag, b.Granger.FellBack)
	}
	if !b.Correlation.FellBack || b.Correlation.R != 0.0 || b.Correlation.PValue != 1.0 {
		t.Errorf("Correlation should fall back to r=0 p=1, got r=%f p=%f",
			b.Correlation.R, b.Correlation.PValue)
	}
	if b.Precedence.FellBack || b.Precedence.Confirmed {
		t.Error("Precedence should resolve unconfirmed without falling back")
	}
	if !b.Intervention.FellBack {
		t.Error("Regression on a constant cause should fall back")
	}
	if b.Stability.FellBack || b.Stability.Ratio != 0.0 {
		t.Errorf("Undefined train correlation is the defined zero ratio, got %f", b.Stability.Ratio)
	}
	if b.FallbackCount() != 3 {
		t.Errorf("Expected exactly 3 fallbacks, got %d: %v", b.FallbackCount(), b.FailureReasons())
	}
	if got := causal.Confidence(b); math.Abs(got-0.075) > 1e-9 {
		t.Errorf("Fully degraded confidence should be 0.075, got %f", got)
	}
}

// TestBattery_TinyInput verifies two observations degrade every test
// without panicking.
func TestBattery_TinyInput(t *testing.T) {
	b := New().Run([]float64{1.0, 2.0}, []float64{3.0, 4.0})

	if !b.Granger.FellBack {
		t.Error("Granger scan should be infeasible with 2 observations")
	}
	if !b.Correlation.FellBack {
		t.Error("Correlation test should fall back with no degrees of freedom")
	}
	if b.Precedence.Confirmed {
		t.Error("Precedence cannot be confirmed with 2 observations")
	}
	if !b.Intervention.FellBack {
		t.Error("Regression should fall back with 2 observations")
	}
	if b.Stability.Ratio != 0.0 {
		t.Errorf("Stability should report 0 when segments are unmeasurable, got %f", b.Stability.Ratio)
	}
}

// TestPearson_KnownCoefficient checks the coefficient against a
// hand-computed value.
func TestPearson_KnownCoefficient(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 1, 4, 3, 5}

	r, ok := pearson(x, y)
	if !ok {
		t.Fatal("Coefficient should be defined")
	}
	if math.Abs(r-0.8) > 1e-12 {
		t.Errorf("Expected r=0.8, got %f", r)
	}

	out := correlationTest(x, y)
	if out.FellBack {
		t.Fatalf("Test should not fall back: %s", out.FailureReason)
	}
	if math.Abs(out.PValue-0.1041) > 1e-3 {
		t.Errorf("Expected two-sided p near 0.1041, got %f", out.PValue)
	}
}

// TestPearson_UndefinedCases covers the inputs where the coefficient
// does not exist.
func TestPearson_UndefinedCases(t *testing.T) {
	if _, ok := pearson([]float64{1, 2}, []float64{1, 2, 3}); ok {
		t.Error("Mismatched lengths should be undefined")
	}
	if _, ok := pearson([]float64{1}, []float64{2}); ok {
		t.Error("A single pair should be undefined")
	}
	if _, ok := pearson([]float64{3, 3, 3}, []float64{1, 2, 3}); ok {
		t.Error("Zero variance should be undefined")
	}
}

// TestCorrelationTest_PerfectLine verifies a deterministic linear pair
// saturates the coefficient and collapses the p-value.
func TestCorrelationTest_PerfectLine(t *testing.T) {
	x := make([]float64, 30)
	y := make([]float64, 30)
	for i := range x {
		x[i] = float64(i)
		y[i] = 2.0*x[i] + 1.0
	}

	out := correlationTest(x, y)
	if out.FellBack {
		t.Fatalf("Perfect line should not fall back: %s", out.FailureReason)
	}
	if out.R < 0.999999 {
		t.Errorf("Expected r at 1, got %f", out.R)
	}
	if out.PValue > 1e-9 {
		t.Errorf("Expected vanishing p-value, got %g", out.PValue)
	}
}

// TestCorrelationTest_FlatSeriesFallsBack checks the neutral fallback pair.
func TestCorrelationTest_FlatSeriesFallsBack(t *testing.T) {
	flat := []float64{7, 7, 7, 7, 7}
	out := correlationTest(flat, []float64{1, 2, 3, 4, 5})

	if !out.FellBack {
		t.Fatal("Flat series should fall back")
	}
	if out.R != 0.0 || out.PValue != 1.0 {
		t.Errorf("Fallback should be r=0 p=1, got r=%f p=%f", out.R, out.PValue)
	}
}

// TestPrecedence_DirectionalPatterns checks both orientations of a shifted
// copy: precedence confirms only when the cause leads.
func TestPrecedence_DirectionalPatterns(t *testing.T) {
	base := []float64{1, 3, 2, 5, 4, 7, 6, 9, 8, 11}
	trailing := append([]float64{0}, base[:len(base)-1]...)

	leads := precedenceTest(base, trailing)
	if !leads.Confirmed {
		t.Error("Effect trailing cause by one step should confirm precedence")
	}
	if math.Abs(leads.Forward-1.0) > 1e-12 {
		t.Errorf("Forward correlation of an exact shift should be 1, got %f", leads.Forward)
	}
	if math.Abs(leads.Backward) >= 1.0 {
		t.Errorf("Backward correlation should stay below 1, got %f", leads.Backward)
	}

	lags := precedenceTest(trailing, base)
	if lags.Confirmed {
		t.Error("Cause trailing effect should not confirm precedence")
	}
}

// TestIntervention_ExactLine fits a noiseless line and expects the exact
// slope and a full R-squared.
func TestIntervention_ExactLine(t *testing.T) {
	x := make([]float64, 30)
	y := make([]float64, 30)
	for i := range x {
		x[i] = float64(i)
		y[i] = 3.0*x[i] - 2.0
	}

	out := interventionTest(x, y)
	if out.FellBack {
		t.Fatalf("Exact line should not fall back: %s", out.FailureReason)
	}
	if math.Abs(out.R2-1.0) > 1e-9 {
		t.Errorf("Expected R-squared 1.0, got %f", out.R2)
	}
	if math.Abs(out.Slope-3.0) > 1e-9 {
		t.Errorf("Expected slope 3.0, got %f", out.Slope)
	}
}

// TestIntervention_FlatEffectFallsBack covers the zero-variance effect.
func TestIntervention_FlatEffectFallsBack(t *testing.T) {
	x := make([]float64, 30)
	flat := make([]float64, 30)
	for i := range x {
		x[i] = float64(i)
		flat[i] = 4.0
	}

	out := interventionTest(x, flat)
	if !out.FellBack {
		t.Fatal("Constant effect should fall back")
	}
	if out.R2 != 0.0 || out.Slope != 0.0 {
		t.Errorf("Fallback should zero the fit, got r2=%f slope=%f", out.R2, out.Slope)
	}
}

// TestStability_ExactCases pins the ratio on constructed segments: a
// relationship that holds exactly gives 1, a sign flip gives -1, and a
// flat train segment gives the defined zero.
func TestStability_ExactCases(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	double := make([]float64, len(x))
	for i, v := range x {
		double[i] = 2 * v
	}

	stable := stabilityTest(x, double)
	if stable.FellBack || math.Abs(stable.Ratio-1.0) > 1e-12 {
		t.Errorf("Exact persistent line should give ratio 1, got %f", stable.Ratio)
	}

	flipped := make([]float64, len(x))
	copy(flipped, x[:7])
	for i := 7; i < len(x); i++ {
		flipped[i] = 18.0 - x[i]
	}
	flip := stabilityTest(x, flipped)
	if flip.FellBack || math.Abs(flip.Ratio+1.0) > 1e-12 {
		t.Errorf("Sign flip out of sample should give ratio -1, got %f", flip.Ratio)
	}

	flatTrain := []float64{5, 5, 5, 5, 5, 5, 5, 1, 2, 3}
	zero := stabilityTest(flatTrain, x)
	if zero.FellBack {
		t.Error("Undefined train correlation is a defined zero, not a fallback")
	}
	if zero.Ratio != 0.0 {
		t.Errorf("Expected ratio 0 for a flat train segment, got %f", zero.Ratio)
	}
}

// randomWalk accumulates standard normal steps.
func randomWalk(n int) []float64 {
	data := make([]float64, n)
	data[0] = randNorm()
	for i := 1; i < n; i++ {
		data[i] = data[i-1] + randNorm()
	}
	return data
}

// plantedEffect builds a series driven by the previous value of the cause
// plus scaled noise, the canonical one-period causal structure.
func plantedEffect(cause []float64, coef, noise float64) []float64 {
	data := make([]float64, len(cause))
	data[0] = randNorm() * noise
	for i := 1; i < len(cause); i++ {
		data[i] = coef*cause[i-1] + randNorm()*noise
	}
	return data
}

func whiteNoise(n int) []float64 {
	data := make([]float64, n)
	for i := range data {
		data[i] = randNorm()
	}
	return data
}

// Simple pseudo-random normal distribution (Box-Muller transform)
var randState = 12345.0

func randNorm() float64 {
	// Update state with linear congruential generator
	randState = math.Mod(randState*1103515245+12345, 2147483648)
	u1 := randState / 2147483648.0

	randState = math.Mod(randState*1103515245+12345, 2147483648)
	u2 := randState / 2147483648.0

	// Box-Muller transform
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

package causal

import (
	"math"

	"gocausal/domain/core"
)

// MinObservations is the floor on both the raw series length and the
// cleaned paired length. Below it validation is refused before any
// statistics run.
const MinObservations = 30

// Engine defaults.
const (
	DefaultMaxLag            = 10
	DefaultSignificanceLevel = 0.05
)

// Confidence weights. They sum to 1.0 so a perfect bundle scores exactly 1.0.
const (
	weightGranger      = 0.40
	weightCorrelation  = 0.25
	weightPrecedence   = 0.15
	weightIntervention = 0.10
	weightStability    = 0.10
)

// Refusal reasons for the input guard.
const (
	ReasonTooFewPoints   = "Insufficient data (minimum 30 points required)"
	ReasonTooManyMissing = "Too many missing values after cleanup"
)

// LinkKey is the directed identifier "{cause}→{effect}" under which a valid
// verdict is registered.
type LinkKey string

// NewLinkKey builds the directed key for a cause/effect pair.
func NewLinkKey(cause, effect string) LinkKey {
	return LinkKey(cause + "→" + effect)
}

// String returns the key text.
func (k LinkKey) String() string { return string(k) }

// LinkPair names a candidate directed relationship before validation.
type LinkPair struct {
	Cause  string `json:"cause" yaml:"cause"`
	Effect string `json:"effect" yaml:"effect"`
}

// Key returns the directed key the pair would register under.
func (p LinkPair) Key() LinkKey {
	return NewLinkKey(p.Cause, p.Effect)
}

// Thresholds are the five gate conditions. The gate is exactly conjunctive:
// a link is valid iff every condition holds.
type Thresholds struct {
	SignificanceLevel float64 // granger_p must be strictly below
	CorrelationFloor  float64 // |correlation| must be strictly above
	InterventionFloor float64 // intervention R² must be strictly above
	StabilityFloor    float64 // oos_stability must be at least this (no upper bound)
}

// DefaultThresholds returns the documented gate.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SignificanceLevel: DefaultSignificanceLevel,
		CorrelationFloor:  0.3,
		InterventionFloor: 0.15,
		StabilityFloor:    0.7,
	}
}

// Verdict is the per-call result. Field rounding follows the reported
// contract: confidence/correlation/R²/stability to 3 decimals, the Granger
// p-value to 4. Valid verdicts are the only ones a registry records.
type Verdict struct {
	Valid               bool           `json:"valid"`
	Confidence          float64        `json:"confidence"`
	Strength            int            `json:"strength"`
	GrangerP            float64        `json:"granger_p"`
	Correlation         float64        `json:"correlation"`
	OptimalLag          int            `json:"optimal_lag"`
	PrecedenceConfirmed bool           `json:"precedence_confirmed"`
	InterventionR2      float64        `json:"intervention_r2"`
	OOSStability        float64        `json:"oos_stability"`
	Mechanism           string         `json:"mechanism,omitempty"`
	Cause               string         `json:"cause"`
	Effect              string         `json:"effect"`
	Reason              string         `json:"error,omitempty"`
	ValidatedAt         core.Timestamp `json:"validated_at"`
}

// Key returns the directed registry key for this verdict.
func (v Verdict) Key() LinkKey {
	return NewLinkKey(v.Cause, v.Effect)
}

// Gate applies the conjunctive validity gate to a bundle. The stability
// condition has no upper bound: a ratio far above 1 still passes.
func Gate(b TestBundle, th Thresholds) bool {
	return b.Granger.PValue < th.SignificanceLevel &&
		math.Abs(b.Correlation.R) > th.CorrelationFloor &&
		b.Precedence.Confirmed &&
		b.Intervention.R2 > th.InterventionFloor &&
		b.Stability.Ratio >= th.StabilityFloor
}

// Confidence blends the five outcomes into a continuous [0,1] score. Each
// component is bounded before weighting and the sum is clamped.
func Confidence(b TestBundle) float64 {
	grangerConf := 1.0 - b.Granger.PValue
	corrConf := math.Abs(b.Correlation.R)

	precedenceConf := 0.5
	if b.Precedence.Confirmed {
		precedenceConf = 1.0
	}

	r2Conf := math.Min(b.Intervention.R2/0.5, 1.0)
	oosConf := math.Min(math.Abs(b.Stability.Ratio), 1.0)

	confidence := grangerConf*weightGranger +
		corrConf*weightCorrelation +
		precedenceConf*weightPrecedence +
		r2Conf*weightIntervention +
		oosConf*weightStability

	return math.Min(1.0, math.Max(0.0, confidence))
}

// Strength maps |correlation| onto an integer 0..100 scale.
func Strength(correlation float64) int {
	scaled := int(math.Round(math.Abs(correlation) * 100))
	if scaled > 100 {
		return 100
	}
	return scaled
}

// NewVerdict composes the verdict for a completed bundle: gate, confidence,
// strength, mechanism, reported rounding.
func NewVerdict(causeName, effectName string, b TestBundle, th Thresholds) Verdict {
	return Verdict{
		Valid:               Gate(b, th),
		Confidence:          round3(Confidence(b)),
		Strength:            Strength(b.Correlation.R),
		GrangerP:            round4(b.Granger.PValue),
		Correlation:         round3(b.Correlation.R),
		OptimalLag:          b.Granger.OptimalLag,
		PrecedenceConfirmed: b.Precedence.Confirmed,
		InterventionR2:      round3(b.Intervention.R2),
		OOSStability:        round3(b.Stability.Ratio),
		Mechanism:           InferMechanism(causeName, effectName, b.Granger.OptimalLag),
		Cause:               causeName,
		Effect:              effectName,
		ValidatedAt:         core.Now(),
	}
}

// NewRefusalVerdict builds the insufficient-data verdict emitted by the
// input guard: never valid, confidence 0.0, no statistics computed.
func NewRefusalVerdict(causeName, effectName, reason string) Verdict {
	return Verdict{
		Valid:       false,
		Confidence:  0.0,
		Cause:       causeName,
		Effect:      effectName,
		Reason:      reason,
		ValidatedAt: core.Now(),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

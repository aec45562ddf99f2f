package battery

import (
	"gocausal/domain/causal"
)

// stabilityTest splits the pair chronologically into a 70% train segment
// and a 30% test segment, correlates each, and reports the ratio of test
// to train correlation. A ratio near 1 means the relationship held out of
// sample; the ratio keeps its sign, so a flipped relationship shows up as
// a negative value, and it is deliberately unbounded above.
//
// A zero or undefined train correlation yields the defined ratio 0: there
// is no in-sample relationship to hold up. An undefined test correlation
// under a real train correlation is a numerical failure and falls back.
func stabilityTest(cause, effect []float64) causal.StabilityOutcome {
	n := len(cause)
	if n != len(effect) {
		return causal.StabilityOutcome{
			Outcome: causal.Fallback("cause and effect series lengths differ"),
			Ratio:   0.0,
		}
	}

	split := int(0.7 * float64(n))
	trainCorr, okTrain := pearson(cause[:split], effect[:split])
	if !okTrain || trainCorr == 0 {
		return causal.StabilityOutcome{Ratio: 0.0}
	}

	testCorr, okTest := pearson(cause[split:], effect[split:])
	if !okTest {
		return causal.StabilityOutcome{
			Outcome:   causal.Fallback("out-of-sample correlation undefined"),
			Ratio:     0.0,
			TrainCorr: trainCorr,
		}
	}

	return causal.StabilityOutcome{
		Ratio:     testCorr / trainCorr,
		TrainCorr: trainCorr,
		TestCorr:  testCorr,
	}
}

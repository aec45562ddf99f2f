package battery

import (
	"math"

	"gocausal/domain/causal"
)

// precedenceTest checks that the cause-leads-effect direction carries more
// signal than the reverse. The forward correlation pairs each cause value
// with the next effect value; the backward correlation pairs each effect
// value with the next cause value. Precedence is confirmed only when both
// are defined and the forward magnitude strictly exceeds the backward one.
func precedenceTest(cause, effect []float64) causal.PrecedenceOutcome {
	n := len(cause)
	if n != len(effect) {
		return causal.PrecedenceOutcome{
			Outcome:   causal.Fallback("cause and effect series lengths differ"),
			Confirmed: false,
		}
	}
	if n < 3 {
		// Shifting leaves at most one pair, so neither direction is
		// measurable and precedence stays unconfirmed.
		return causal.PrecedenceOutcome{Confirmed: false}
	}

	forward, okF := pearson(cause[:n-1], effect[1:])
	backward, okB := pearson(cause[1:], effect[:n-1])

	confirmed := okF && okB && math.Abs(forward) > math.Abs(backward)
	out := causal.PrecedenceOutcome{Confirmed: confirmed}
	if okF {
		out.Forward = forward
	}
	if okB {
		out.Backward = backward
	}
	return out
}

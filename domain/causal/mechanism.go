package causal

import (
	"fmt"
	"strings"
)

// MechanismRule maps a cause/effect name pattern onto a canned causal
// narrative. Rules are evaluated in order and the first match wins, so rule
// precedence is explicit rather than buried in conditional nesting. The
// mechanism is explanatory metadata only; it never influences the gate or
// the confidence score.
type MechanismRule struct {
	Matches     func(cause, effect string) bool
	Description string
}

// defaultMechanismRules encodes the known market/economic transmission
// channels keyed on parameter-name substrings. Matching is over lower-cased
// names.
var defaultMechanismRules = []MechanismRule{
	{
		Matches: func(cause, effect string) bool {
			return containsAny(cause, "fed", "rate") && containsAny(effect, "dxy", "dollar")
		},
		Description: "Interest rate differential drives currency flows via carry trade",
	},
	{
		Matches: func(cause, effect string) bool {
			return containsAny(cause, "dxy", "dollar") && strings.Contains(effect, "gold")
		},
		Description: "Dollar strength inverse to gold (gold priced in USD)",
	},
	{
		Matches: func(cause, effect string) bool {
			return containsAny(cause, "dxy", "dollar") && strings.Contains(effect, "oil")
		},
		Description: "Dollar affects commodity pricing (commodities denominated in USD)",
	},
	{
		Matches: func(cause, effect string) bool {
			return strings.Contains(cause, "vix") && containsAny(effect, "sp500", "equity")
		},
		Description: "Volatility spike triggers risk-off selling",
	},
	{
		Matches: func(cause, effect string) bool {
			return strings.Contains(cause, "taiwan") && containsAny(effect, "tsmc", "soxx")
		},
		Description: "Geopolitical risk affects semiconductor supply chain",
	},
}

// InferMechanism returns the first matching rule's description, or a generic
// narrative citing the optimal lag when no rule applies.
func InferMechanism(cause, effect string, optimalLag int) string {
	causeLower := strings.ToLower(cause)
	effectLower := strings.ToLower(effect)

	for _, rule := range defaultMechanismRules {
		if rule.Matches(causeLower, effectLower) {
			return rule.Description
		}
	}

	return fmt.Sprintf("Validated causal relationship with %d-period lag", optimalLag)
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

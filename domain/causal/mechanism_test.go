package causal

import (
	"testing"
)

func TestInferMechanism_KnownChannels(t *testing.T) {
	cases := []struct {
		cause    string
		effect   string
		expected string
	}{
		{"fed_funds_rate", "dxy", "Interest rate differential drives currency flows via carry trade"},
		{"real_rate_10y", "dollar_index", "Interest rate differential drives currency flows via carry trade"},
		{"dxy", "gold_price", "Dollar strength inverse to gold (gold priced in USD)"},
		{"dollar_index", "oil_wti", "Dollar affects commodity pricing (commodities denominated in USD)"},
		{"vix", "sp500", "Volatility spike triggers risk-off selling"},
		{"vix_index", "equity_flows", "Volatility spike triggers risk-off selling"},
		{"taiwan_tension", "tsmc_revenue", "Geopolitical risk affects semiconductor supply chain"},
		{"taiwan_strait_risk", "soxx", "Geopolitical risk affects semiconductor supply chain"},
	}

	for _, tc := range cases {
		got := InferMechanism(tc.cause, tc.effect, 1)
		if got != tc.expected {
			t.Errorf("InferMechanism(%s, %s): got %q", tc.cause, tc.effect, got)
		}
	}
}

func TestInferMechanism_CaseInsensitive(t *testing.T) {
	got := InferMechanism("DXY", "Gold_Price", 3)
	if got != "Dollar strength inverse to gold (gold priced in USD)" {
		t.Errorf("Expected case-insensitive match, got %q", got)
	}
}

func TestInferMechanism_FirstMatchWins(t *testing.T) {
	// "rate" in the cause and "dollar" in the effect hits the carry-trade
	// rule before any later dollar rule could be considered.
	got := InferMechanism("rate_spread", "dollar_gold_basket", 2)
	if got != "Interest rate differential drives currency flows via carry trade" {
		t.Errorf("Expected first rule to win, got %q", got)
	}
}

func TestInferMechanism_DefaultCitesLag(t *testing.T) {
	got := InferMechanism("stablecoin_supply", "btc_price", 7)
	expected := "Validated causal relationship with 7-period lag"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestInferMechanism_DirectionMatters(t *testing.T) {
	// gold → dxy must not match the dollar-to-gold rule; it falls through
	// to the generic narrative.
	got := InferMechanism("gold_price", "dxy", 1)
	if got != "Validated causal relationship with 1-period lag" {
		t.Errorf("Expected reversed direction to miss the rule, got %q", got)
	}
}

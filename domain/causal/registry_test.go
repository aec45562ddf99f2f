package causal

import (
	"sync"
	"testing"
)

func validVerdict(cause, effect string, confidence float64) Verdict {
	return Verdict{
		Valid:      true,
		Confidence: confidence,
		Cause:      cause,
		Effect:     effect,
	}
}

func TestLinkRegistry_RecordsOnlyValidVerdicts(t *testing.T) {
	registry := NewLinkRegistry()

	invalid := Verdict{Valid: false, Cause: "vix", Effect: "sp500"}
	if registry.Record(invalid) {
		t.Error("Expected invalid verdict to be rejected")
	}
	if registry.Len() != 0 {
		t.Errorf("Expected empty registry, got %d entries", registry.Len())
	}

	if !registry.Record(validVerdict("vix", "sp500", 0.81)) {
		t.Error("Expected valid verdict to be stored")
	}
	if registry.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", registry.Len())
	}

	stored, ok := registry.Lookup(NewLinkKey("vix", "sp500"))
	if !ok {
		t.Fatal("Expected link to be retrievable")
	}
	if stored.Confidence != 0.81 {
		t.Errorf("Unexpected stored confidence: %v", stored.Confidence)
	}
}

func TestLinkRegistry_OverwritesSameDirectedKey(t *testing.T) {
	registry := NewLinkRegistry()

	registry.Record(validVerdict("dxy", "gold_price", 0.70))
	registry.Record(validVerdict("dxy", "gold_price", 0.92))

	if registry.Len() != 1 {
		t.Fatalf("Expected overwrite, got %d entries", registry.Len())
	}
	stored, _ := registry.Lookup(NewLinkKey("dxy", "gold_price"))
	if stored.Confidence != 0.92 {
		t.Errorf("Expected latest verdict to win, got confidence %v", stored.Confidence)
	}
}

func TestLinkRegistry_DirectionIsPartOfTheKey(t *testing.T) {
	registry := NewLinkRegistry()

	registry.Record(validVerdict("dxy", "gold_price", 0.8))
	registry.Record(validVerdict("gold_price", "dxy", 0.6))

	if registry.Len() != 2 {
		t.Errorf("Expected both directions stored separately, got %d", registry.Len())
	}
}

func TestLinkRegistry_SnapshotIsACopy(t *testing.T) {
	registry := NewLinkRegistry()
	registry.Record(validVerdict("vix", "sp500", 0.75))

	snapshot := registry.Snapshot()
	delete(snapshot, NewLinkKey("vix", "sp500"))

	if registry.Len() != 1 {
		t.Error("Mutating a snapshot must not affect the registry")
	}
}

func TestLinkRegistry_KeysSorted(t *testing.T) {
	registry := NewLinkRegistry()
	registry.Record(validVerdict("vix", "sp500", 0.7))
	registry.Record(validVerdict("dxy", "gold_price", 0.7))
	registry.Record(validVerdict("fed_funds_rate", "dxy", 0.7))

	keys := registry.Keys()
	if len(keys) != 3 {
		t.Fatalf("Expected 3 keys, got %d", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("Keys not sorted: %v before %v", keys[i-1], keys[i])
		}
	}
}

func TestLinkRegistry_ConcurrentWritesAreSerialized(t *testing.T) {
	registry := NewLinkRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(confidence float64) {
			defer wg.Done()
			registry.Record(validVerdict("cpi_inflation", "treasury_10y", confidence))
		}(float64(i) / 50.0)
	}
	wg.Wait()

	if registry.Len() != 1 {
		t.Errorf("Expected a single entry for one directed key, got %d", registry.Len())
	}
}

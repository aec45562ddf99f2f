package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"gocausal/adapters/stats/battery"
	"gocausal/domain/causal"
	"gocausal/domain/core"
	"gocausal/domain/dataset"
	"gocausal/internal"
)

// ValidationService runs the five-test battery over parameter tables and
// records validated links. A single link validation is synchronous and runs
// its tests sequentially; only batches fan out, bounded by a weighted
// semaphore, and registry writes stay serialized behind the registry's own
// lock.
type ValidationService struct {
	battery    *battery.Battery
	registry   *causal.LinkRegistry
	thresholds causal.Thresholds
	workers    int64
	logger     *internal.Logger
}

// LinkRequest names one directed pair to validate. A MaxLag of 0 uses the
// engine default.
type LinkRequest struct {
	Cause  string `json:"cause"`
	Effect string `json:"effect"`
	MaxLag int    `json:"max_lag,omitempty"`
}

// BatchRequest validates many candidate pairs against one table.
type BatchRequest struct {
	Pairs  []causal.LinkPair `json:"pairs"`
	MaxLag int               `json:"max_lag,omitempty"`
}

// SkippedPair records a batch entry that never ran because a column was
// missing from the table.
type SkippedPair struct {
	Pair   causal.LinkPair `json:"pair"`
	Reason string          `json:"reason"`
}

// BatchResult is the outcome of a batch run. Verdicts preserve the request
// order of the attempted pairs; skipped pairs are reported separately and
// never count toward the attempted total.
type BatchResult struct {
	BatchID     core.BatchID          `json:"batch_id"`
	Fingerprint core.TableFingerprint `json:"fingerprint"`
	Verdicts    []causal.Verdict      `json:"verdicts"`
	Skipped     []SkippedPair         `json:"skipped,omitempty"`
	Attempted   int                   `json:"attempted"`
	ValidCount  int                   `json:"valid_count"`
	RuntimeMs   int64                 `json:"runtime_ms"`
}

// NewValidationService wires the battery, registry and gate thresholds.
// workers bounds batch concurrency; anything below 1 means sequential.
func NewValidationService(bat *battery.Battery, registry *causal.LinkRegistry, th causal.Thresholds, workers int) *ValidationService {
	if workers < 1 {
		workers = 1
	}
	return &ValidationService{
		battery:    bat,
		registry:   registry,
		thresholds: th,
		workers:    int64(workers),
		logger:     internal.NewDefaultLogger().Component("ValidationEngine"),
	}
}

// ValidateLink validates one directed pair against the table. Missing
// columns are errors; statistical refusals (too few observations, too many
// missing values) come back as refusal verdicts, not errors.
func (s *ValidationService) ValidateLink(ctx context.Context, table *dataset.ParameterTable, req LinkRequest) (causal.Verdict, error) {
	if table == nil {
		return causal.Verdict{}, core.ErrEmptyTable
	}
	if err := table.Validate(); err != nil {
		return causal.Verdict{}, err
	}
	causeSeries, ok := table.Column(req.Cause)
	if !ok {
		return causal.Verdict{}, core.NewColumnNotFoundError(req.Cause)
	}
	effectSeries, ok := table.Column(req.Effect)
	if !ok {
		return causal.Verdict{}, core.NewColumnNotFoundError(req.Effect)
	}
	return s.validatePair(req.Cause, causeSeries, req.Effect, effectSeries, req.MaxLag), nil
}

// validatePair applies the observation guards, drops missing-value rows,
// runs the battery and registers the verdict when it passes the gate.
func (s *ValidationService) validatePair(causeName string, cause dataset.Series, effectName string, effect dataset.Series, maxLag int) causal.Verdict {
	if len(cause) < causal.MinObservations || len(effect) < causal.MinObservations {
		s.logger.Warn("Insufficient data for %s → %s: %d points", causeName, effectName, len(cause))
		return causal.NewRefusalVerdict(causeName, effectName, causal.ReasonTooFewPoints)
	}

	x, y := dataset.AlignPair(cause, effect)
	if len(x) < causal.MinObservations {
		return causal.NewRefusalVerdict(causeName, effectName, causal.ReasonTooManyMissing)
	}

	bundle := s.battery.RunMaxLag(x, y, maxLag)
	v := causal.NewVerdict(causeName, effectName, bundle, s.thresholds)
	if v.Valid {
		s.registry.Record(v)
		s.logger.Info("✓ Valid causal link: %s → %s (confidence: %.3f)",
			causeName, effectName, v.Confidence)
	} else {
		s.logger.Debug("✗ Invalid link: %s → %s", causeName, effectName)
	}
	return v
}

// ValidateBatch validates every pair in the request against the table.
// Pairs naming columns the table does not have are skipped with a warning
// and excluded from the attempted count.
func (s *ValidationService) ValidateBatch(ctx context.Context, table *dataset.ParameterTable, req BatchRequest) (*BatchResult, error) {
	startTime := time.Now()

	if table == nil {
		return nil, core.ErrEmptyTable
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	batchID := core.NewBatchID()
	s.logger.Info("Starting batch %s: %d candidate links, %d workers",
		batchID, len(req.Pairs), s.workers)

	type job struct {
		pair   causal.LinkPair
		cause  dataset.Series
		effect dataset.Series
	}
	jobs := make([]job, 0, len(req.Pairs))
	var skipped []SkippedPair
	for _, pair := range req.Pairs {
		causeSeries, ok := table.Column(pair.Cause)
		if !ok {
			s.logger.Warn("Missing cause column: %s", pair.Cause)
			skipped = append(skipped, SkippedPair{
				Pair:   pair,
				Reason: fmt.Sprintf("missing cause column: %s", pair.Cause),
			})
			continue
		}
		effectSeries, ok := table.Column(pair.Effect)
		if !ok {
			s.logger.Warn("Missing effect column: %s", pair.Effect)
			skipped = append(skipped, SkippedPair{
				Pair:   pair,
				Reason: fmt.Sprintf("missing effect column: %s", pair.Effect),
			})
			continue
		}
		jobs = append(jobs, job{pair: pair, cause: causeSeries, effect: effectSeries})
	}

	verdicts := make([]causal.Verdict, len(jobs))
	if s.workers <= 1 {
		for i, j := range jobs {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("batch %s cancelled: %w", batchID, err)
			}
			verdicts[i] = s.validatePair(j.pair.Cause, j.cause, j.pair.Effect, j.effect, req.MaxLag)
		}
	} else {
		type verdictWithIndex struct {
			verdict causal.Verdict
			index   int
		}
		sem := semaphore.NewWeighted(s.workers)
		results := make(chan verdictWithIndex, len(jobs))
		for i, j := range jobs {
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil, fmt.Errorf("failed to acquire semaphore: %w", err)
			}
			go func(idx int, j job) {
				defer sem.Release(1)
				results <- verdictWithIndex{
					verdict: s.validatePair(j.pair.Cause, j.cause, j.pair.Effect, j.effect, req.MaxLag),
					index:   idx,
				}
			}(i, j)
		}
		for range jobs {
			r := <-results
			verdicts[r.index] = r.verdict
		}
	}

	validCount := 0
	for _, v := range verdicts {
		if v.Valid {
			validCount++
		}
	}
	s.logger.Info("Batch validation complete: %d/%d valid links", validCount, len(verdicts))
	if s.logger.GetLevel() >= internal.LogLevelDebug && len(skipped) > 0 {
		s.logger.Debug("Skipped %d pairs with missing columns", len(skipped))
	}

	return &BatchResult{
		BatchID:     batchID,
		Fingerprint: table.Fingerprint(),
		Verdicts:    verdicts,
		Skipped:     skipped,
		Attempted:   len(jobs),
		ValidCount:  validCount,
		RuntimeMs:   time.Since(startTime).Milliseconds(),
	}, nil
}

// ValidatedLinks returns every registered verdict ordered by link key.
func (s *ValidationService) ValidatedLinks() []causal.Verdict {
	keys := s.registry.Keys()
	out := make([]causal.Verdict, 0, len(keys))
	for _, k := range keys {
		if v, ok := s.registry.Lookup(k); ok {
			out = append(out, v)
		}
	}
	return out
}

// Link returns the registered verdict for a directed pair, if any.
func (s *ValidationService) Link(cause, effect string) (causal.Verdict, bool) {
	return s.registry.Lookup(causal.NewLinkKey(cause, effect))
}

// RegistrySize reports how many validated links are held.
func (s *ValidationService) RegistrySize() int {
	return s.registry.Len()
}

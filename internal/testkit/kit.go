// Package testkit provides deterministic synthetic fixtures, both for tests
// and for running the engine when no external data source is configured.
package testkit

import (
	"context"
	"math"

	"gocausal/domain/dataset"
)

// Default dimensions for the synthetic market table.
const (
	DefaultSeed = 2718.0
	DefaultRows = 160
)

// Noise is a seeded generator producing standard normal draws from a linear
// congruential state through the Box-Muller transform. The same seed always
// yields the same stream, so fixtures built from it are reproducible down to
// the last bit.
type Noise struct {
	state float64
}

// NewNoise creates a generator at the given seed.
func NewNoise(seed float64) *Noise {
	return &Noise{state: seed}
}

// Norm returns the next standard normal draw.
func (g *Noise) Norm() float64 {
	g.state = math.Mod(g.state*1103515245+12345, 2147483648)
	u1 := g.state / 2147483648.0

	g.state = math.Mod(g.state*1103515245+12345, 2147483648)
	u2 := g.state / 2147483648.0

	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Walk returns a random walk of n accumulated normal steps.
func (g *Noise) Walk(n int) []float64 {
	data := make([]float64, n)
	data[0] = g.Norm()
	for i := 1; i < n; i++ {
		data[i] = data[i-1] + g.Norm()
	}
	return data
}

// Planted returns a series driven by the previous value of driver plus
// scaled noise, the canonical one-period causal structure.
func (g *Noise) Planted(driver []float64, coef, noiseStd float64) []float64 {
	data := make([]float64, len(driver))
	data[0] = g.Norm() * noiseStd
	for i := 1; i < len(driver); i++ {
		data[i] = coef*driver[i-1] + g.Norm()*noiseStd
	}
	return data
}

// MarketTable builds a synthetic macro table with planted causal chains
//
//	fed_funds_rate -> dxy -> gold_price
//	vix -> sp500
//
// plus the independent driver columns themselves. Column values are fully
// determined by the seed.
func MarketTable(seed float64, rows int) *dataset.ParameterTable {
	gen := NewNoise(seed)
	fed := gen.Walk(rows)
	dxy := gen.Planted(fed, 0.8, 0.2)
	gold := gen.Planted(dxy, -0.6, 0.3)
	vix := gen.Walk(rows)
	sp500 := gen.Planted(vix, -0.5, 0.25)

	table := dataset.NewParameterTable(rows)
	_ = table.AddColumn("fed_funds_rate", fed)
	_ = table.AddColumn("dxy", dxy)
	_ = table.AddColumn("gold_price", gold)
	_ = table.AddColumn("vix", vix)
	_ = table.AddColumn("sp500", sp500)
	return table
}

// PunchMissing returns a copy of the series with NaN holes at the given
// indices. Out-of-range indices are ignored.
func PunchMissing(values []float64, indices ...int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	for _, idx := range indices {
		if idx >= 0 && idx < len(out) {
			out[idx] = math.NaN()
		}
	}
	return out
}

// Source adapts a fixed table to the TableSource port so the engine can run
// without an external data file.
type Source struct {
	name  string
	table *dataset.ParameterTable
}

// NewSource wraps a table as a named source.
func NewSource(name string, table *dataset.ParameterTable) *Source {
	return &Source{name: name, table: table}
}

// NewSyntheticSource returns the default synthetic market source.
func NewSyntheticSource() *Source {
	return NewSource("synthetic market fixture", MarketTable(DefaultSeed, DefaultRows))
}

func (s *Source) Load(ctx context.Context) (*dataset.ParameterTable, error) {
	return s.table, nil
}

func (s *Source) Describe() string {
	return s.name
}

package ports

import (
	"context"

	"gocausal/domain/dataset"
)

// TableSource loads a parameter table from a backing store. Implementations
// cover spreadsheet files, the Postgres observation store, and synthetic
// fixtures.
type TableSource interface {
	// Load reads the full table. Only structural problems are errors;
	// statistical quality is judged downstream, link by link.
	Load(ctx context.Context) (*dataset.ParameterTable, error)

	// Describe names the source for logs and reports.
	Describe() string
}

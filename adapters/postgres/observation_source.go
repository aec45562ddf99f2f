// Package postgres loads parameter tables from a PostgreSQL observations
// table. Observations are stored long-format, one row per (parameter, ts,
// value), and pivoted into time-aligned series on load.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"

	"gocausal/domain/dataset"
)

// identifierPattern guards table names interpolated into queries; table
// names cannot be bound as placeholders.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ObservationSource reads a long-format observations table and pivots it
// into aligned parameter series ordered by timestamp. NULL values become
// missing observations.
type ObservationSource struct {
	db    *sqlx.DB
	table string
}

// NewObservationSource creates a source reading from the named table.
func NewObservationSource(db *sqlx.DB, table string) *ObservationSource {
	return &ObservationSource{db: db, table: table}
}

// Describe names the source for logs and reports.
func (s *ObservationSource) Describe() string {
	return fmt.Sprintf("postgres table: %s", s.table)
}

// Load pivots the observations table into a parameter table.
func (s *ObservationSource) Load(ctx context.Context) (*dataset.ParameterTable, error) {
	if !identifierPattern.MatchString(s.table) {
		return nil, fmt.Errorf("invalid observations table name: %q", s.table)
	}

	startTime := time.Now()
	query := fmt.Sprintf(`SELECT parameter, value FROM %s ORDER BY parameter, ts`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var names []string
	series := make(map[string][]float64)
	total := 0
	for rows.Next() {
		var parameter string
		var value sql.NullFloat64
		if err := rows.Scan(&parameter, &value); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		if _, seen := series[parameter]; !seen {
			names = append(names, parameter)
		}
		v := math.NaN()
		if value.Valid {
			v = value.Float64
		}
		series[parameter] = append(series[parameter], v)
		total++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read observations: %w", err)
	}
	if total == 0 {
		return nil, fmt.Errorf("no observations found in %s", s.table)
	}

	// All series share one ordinal index; shorter series get missing
	// values at the tail.
	maxRows := 0
	for _, values := range series {
		if len(values) > maxRows {
			maxRows = len(values)
		}
	}

	table := dataset.NewParameterTable(maxRows)
	for _, name := range names {
		values := series[name]
		for len(values) < maxRows {
			values = append(values, math.NaN())
		}
		if err := table.AddColumn(name, values); err != nil {
			return nil, fmt.Errorf("failed to add column %s: %w", name, err)
		}
	}

	log.Printf("[ObservationSource] Loaded %d observations (%d parameters, %d rows) in %.2fms",
		total, table.ColumnCount(), maxRows, float64(time.Since(startTime).Nanoseconds())/1e6)
	return table, nil
}

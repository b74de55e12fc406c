package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/dualband/internal/reconcile"
)

// ErrRunNotFound is returned by GetRun when no run has the given id.
var ErrRunNotFound = errors.New("run not found")

// RunRecord is one stored reconciliation run.
type RunRecord struct {
	// Seq is the logical insertion order within this store.
	Seq int64

	// Inputs are the measurements as supplied to the diagnostic.
	Inputs []reconcile.Measurement

	// Result is the reconstituted diagnostic output.
	Result reconcile.Result
}

// GetRun returns the stored run with the given id, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT seq, id, anchor_nominal, anchor_bound, overlap, gap, inputs, adjusted, intervals
		FROM runs
		WHERE id = ?
	`, id)

	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRuns returns up to limit runs in insertion order, oldest first.
// A non-positive limit returns every run. Returns an empty slice, not
// nil, when the history is empty.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
		SELECT seq, id, anchor_nominal, anchor_bound, overlap, gap, inputs, adjusted, intervals
		FROM runs
		ORDER BY seq ASC, id ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	records := []RunRecord{}
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return records, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunRecord, error) {
	var (
		rec           RunRecord
		inputsJSON    string
		adjustedJSON  string
		intervalsJSON string
	)
	err := row.Scan(
		&rec.Seq,
		&rec.Result.RunID,
		&rec.Result.Anchor.Nominal,
		&rec.Result.Anchor.Bound,
		&rec.Result.Overlap,
		&rec.Result.Gap,
		&inputsJSON,
		&adjustedJSON,
		&intervalsJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	if rec.Inputs, err = unmarshalMeasurements(inputsJSON); err != nil {
		return nil, err
	}
	if rec.Result.Adjusted, err = unmarshalMeasurements(adjustedJSON); err != nil {
		return nil, err
	}
	if rec.Result.Intervals, err = unmarshalIntervals(intervalsJSON); err != nil {
		return nil, err
	}
	return &rec, nil
}

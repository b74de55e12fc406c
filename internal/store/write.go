package store

import (
	"context"
	"fmt"

	"github.com/roach88/dualband/internal/reconcile"
)

// SaveRun inserts a reconciliation run into the history.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: saving the same run
// twice is a no-op, while constraint violations still surface as errors.
func (s *Store) SaveRun(ctx context.Context, inputs []reconcile.Measurement, res *reconcile.Result) error {
	inputsJSON, err := marshalJSON(inputs)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	adjustedJSON, err := marshalJSON(res.Adjusted)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	intervalsJSON, err := marshalJSON(res.Intervals)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, anchor_nominal, anchor_bound, overlap, gap, inputs, adjusted, intervals)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		res.RunID,
		res.Anchor.Nominal,
		res.Anchor.Bound,
		res.Overlap,
		res.Gap,
		inputsJSON,
		adjustedJSON,
		intervalsJSON,
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// appendWithSequence allocates the next global sequence number and runs
// insert with it inside one transaction. Rows from every append-only table
// share the sequence, so they can be ordered against each other, and a failed
// insert does not consume a number.
func appendWithSequence(ctx context.Context, db *sql.DB, insert func(tx *sql.Tx, seq int64) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	err = tx.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	if err := insert(tx, seq); err != nil {
		return err
	}
	return tx.Commit()
}

// LastSequence returns the most recently allocated sequence number, or 0 if
// nothing has been appended yet.
func (s *Store) LastSequence(ctx context.Context) (int64, error) {
	var next int64
	err := s.db.QueryRowContext(ctx, `SELECT next_val FROM global_sequence WHERE id = 1`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}
	return next - 1, nil
}

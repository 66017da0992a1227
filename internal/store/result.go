package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type resultRepo struct {
	db *sql.DB
}

func (r *resultRepo) AppendLevelResult(ctx context.Context, res LevelResult) error {
	ts := res.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return appendWithSequence(ctx, r.db, func(tx *sql.Tx, seq int64) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO level_results
			(sequence, timestamp, session_id, player, chapter_id, level, score)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			seq, ts.UnixMilli(), res.SessionID, res.Player, res.ChapterID, res.Level, res.Score)
		if err != nil {
			return fmt.Errorf("save level result: %w", err)
		}
		return nil
	})
}

func (r *resultRepo) ListLevelResults(ctx context.Context, player, chapterID string, limit int) ([]LevelResult, error) {
	q := `SELECT id, sequence, timestamp, session_id, player, chapter_id, level, score
		FROM level_results WHERE player = ?`
	args := []any{player}
	if chapterID != "" {
		q += ` AND chapter_id = ?`
		args = append(args, chapterID)
	}
	q += ` ORDER BY sequence DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query level results: %w", err)
	}
	defer rows.Close()

	var out []LevelResult
	for rows.Next() {
		var (
			res LevelResult
			ts  int64
		)
		if err := rows.Scan(&res.ID, &res.Sequence, &ts, &res.SessionID, &res.Player,
			&res.ChapterID, &res.Level, &res.Score); err != nil {
			return nil, fmt.Errorf("scan level result: %w", err)
		}
		res.Timestamp = time.UnixMilli(ts)
		out = append(out, res)
	}
	return out, rows.Err()
}

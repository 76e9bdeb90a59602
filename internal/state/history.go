package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbutil "github.com/llehouerou/ipv/internal/db"
)

// maxHistory is how many saves are kept.
const maxHistory = 500

// SaveRecord is one successful save.
type SaveRecord struct {
	ID         int64
	Workflow   string
	Source     string
	Method     string
	ResultType string
	ResultPath string
	MaskPath   string
	SavedAt    time.Time
}

// RecordSave appends r to the history and drops the oldest entries beyond
// the retention limit.
func (m *Manager) RecordSave(ctx context.Context, r SaveRecord) error {
	if r.SavedAt.IsZero() {
		r.SavedAt = time.Now()
	}
	return dbutil.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO save_history (workflow, source, method, result_type, result_path, mask_path, saved_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, r.Workflow, r.Source, dbutil.NullString(r.Method), dbutil.NullString(r.ResultType),
			r.ResultPath, dbutil.NullString(r.MaskPath), r.SavedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("insert save: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM save_history WHERE id NOT IN (
				SELECT id FROM save_history ORDER BY saved_at DESC, id DESC LIMIT ?
			)
		`, maxHistory)
		if err != nil {
			return fmt.Errorf("prune history: %w", err)
		}
		return nil
	})
}

// History returns up to limit saves, newest first. A limit of 0 or less
// returns everything kept.
func (m *Manager) History(ctx context.Context, limit int) ([]SaveRecord, error) {
	if limit <= 0 {
		limit = maxHistory
	}
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, workflow, source, method, result_type, result_path, mask_path, saved_at
		FROM save_history
		ORDER BY saved_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []SaveRecord
	for rows.Next() {
		var r SaveRecord
		var method, resultType, maskPath sql.NullString
		var savedAt int64
		if err := rows.Scan(&r.ID, &r.Workflow, &r.Source, &method, &resultType,
			&r.ResultPath, &maskPath, &savedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		r.Method = dbutil.NullStringValue(method)
		r.ResultType = dbutil.NullStringValue(resultType)
		r.MaskPath = dbutil.NullStringValue(maskPath)
		r.SavedAt = time.UnixMilli(savedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// compile-time check that *DB implements repository.ActivityRepository
var _ repository.ActivityRepository = (*DB)(nil)

// RecordActivity appends one audit entry. There is deliberately no
// update or delete counterpart — the table is append-only. Callers that
// pair an entry with a mutation do both inside InTx so they commit
// together.
func (db *DB) RecordActivity(ctx context.Context, entry *model.ActivityLog) error {
	entry.ID = xid.New().String()
	entry.CreatedAt = time.Now()

	var projectID sql.NullString
	if entry.ProjectID != "" {
		projectID = sql.NullString{String: entry.ProjectID, Valid: true}
	}

	_, err := db.q.ExecContext(ctx,
		`INSERT INTO activity_log (id, user_id, action, entity_type, entity_id, description, project_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Description,
		projectID,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: recording activity: %w", err)
	}
	return nil
}

// ListActivity returns entries most-recent-first, optionally filtered by
// project and/or actor, bounded by opts.Limit.
func (db *DB) ListActivity(ctx context.Context, opts repository.ActivityListOptions) ([]model.ActivityLog, error) {
	query := `SELECT id, user_id, action, entity_type, entity_id, description, project_id, created_at
	          FROM activity_log WHERE 1=1`
	args := []any{}
	if opts.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, opts.ProjectID)
	}
	if opts.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, opts.UserID)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, opts.Limit)

	rows, err := db.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing activity: %w", err)
	}
	defer rows.Close()

	entries := []model.ActivityLog{}
	for rows.Next() {
		var (
			e         model.ActivityLog
			projectID sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID,
			&e.Description, &projectID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning activity entry: %w", err)
		}
		e.ProjectID = projectID.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating activity entries: %w", err)
	}
	return entries, nil
}

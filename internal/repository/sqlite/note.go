package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// compile-time check that *DB implements repository.NoteRepository
var _ repository.NoteRepository = (*DB)(nil)

func (db *DB) CreateNote(ctx context.Context, note *model.ProjectNote) error {
	now := time.Now()
	note.ID = xid.New().String()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := db.q.ExecContext(ctx,
		`INSERT INTO project_notes (id, project_id, user_id, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID, note.ProjectID, note.UserID, note.Content, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating note: %w", err)
	}
	return nil
}

func (db *DB) GetNoteByID(ctx context.Context, id string) (*model.ProjectNote, error) {
	var note model.ProjectNote
	err := db.q.QueryRowContext(ctx,
		`SELECT id, project_id, user_id, content, created_at, updated_at
		 FROM project_notes WHERE id = ?`, id,
	).Scan(&note.ID, &note.ProjectID, &note.UserID, &note.Content, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("note", id)
		}
		return nil, fmt.Errorf("sqlite: getting note %s: %w", id, err)
	}
	return &note, nil
}

// ListNotesByProject returns a project's notes, newest first.
func (db *DB) ListNotesByProject(ctx context.Context, projectID string) ([]model.ProjectNote, error) {
	rows, err := db.q.QueryContext(ctx,
		`SELECT id, project_id, user_id, content, created_at, updated_at
		 FROM project_notes WHERE project_id = ?
		 ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes: %w", err)
	}
	defer rows.Close()

	notes := []model.ProjectNote{}
	for rows.Next() {
		var n model.ProjectNote
		if err := rows.Scan(&n.ID, &n.ProjectID, &n.UserID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}
	return notes, nil
}

func (db *DB) DeleteNote(ctx context.Context, id string) error {
	res, err := db.q.ExecContext(ctx, `DELETE FROM project_notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting note %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("note", id)
	}
	return nil
}

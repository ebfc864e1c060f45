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

// compile-time check that *DB implements repository.ProjectRepository
var _ repository.ProjectRepository = (*DB)(nil)

const projectColumns = `id, title, description, course, status, deadline, user_id, created_at, updated_at`

// CreateProject inserts a new project. The owner (UserID) is whatever
// the caller set — it is fixed here and never updated afterwards.
func (db *DB) CreateProject(ctx context.Context, project *model.Project) error {
	now := time.Now()
	project.ID = xid.New().String()
	if project.Status == "" {
		project.Status = model.StatusNotStarted
	}
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := db.q.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID,
		project.Title,
		project.Description,
		project.Course,
		string(project.Status),
		nullableTime(project.Deadline),
		project.UserID,
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating project: %w", err)
	}
	return nil
}

// GetProjectByID retrieves a single project by ID.
func (db *DB) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	row := db.q.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	project, err := scanProject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("project", id)
		}
		return nil, fmt.Errorf("sqlite: getting project %s: %w", id, err)
	}
	return project, nil
}

// ListProjectsByOwner returns the user's own projects, newest first.
func (db *DB) ListProjectsByOwner(ctx context.Context, userID string) ([]model.Project, error) {
	return db.listProjects(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

// ListProjectsSharedWith returns projects the user has an accepted
// collaboration on, newest first.
func (db *DB) ListProjectsSharedWith(ctx context.Context, userID string) ([]model.Project, error) {
	return db.listProjects(ctx,
		`SELECT p.id, p.title, p.description, p.course, p.status, p.deadline, p.user_id, p.created_at, p.updated_at
		 FROM projects p
		 JOIN collaborations c ON c.project_id = p.id
		 WHERE c.user_id = ? AND c.status = 'accepted'
		 ORDER BY p.created_at DESC`, userID)
}

func (db *DB) listProjects(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := db.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating projects: %w", err)
	}
	return projects, nil
}

// UpdateProject saves title, description, course, status and deadline.
// user_id is deliberately absent from the SET list: ownership is
// immutable.
func (db *DB) UpdateProject(ctx context.Context, project *model.Project) error {
	project.UpdatedAt = time.Now()

	res, err := db.q.ExecContext(ctx,
		`UPDATE projects
		 SET title = ?, description = ?, course = ?, status = ?, deadline = ?, updated_at = ?
		 WHERE id = ?`,
		project.Title,
		project.Description,
		project.Course,
		string(project.Status),
		nullableTime(project.Deadline),
		project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating project %s: %w", project.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("project", project.ID)
	}
	return nil
}

// DeleteProject removes the project row. Foreign keys do the rest:
// tasks, notes, sessions, files and collaborations cascade away, while
// activity entries keep existing with their project_id set NULL.
func (db *DB) DeleteProject(ctx context.Context, id string) error {
	res, err := db.q.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting project %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("project", id)
	}
	return nil
}

// scanner lets scanProject work for both QueryRow and Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*model.Project, error) {
	var (
		p        model.Project
		status   string
		deadline sql.NullTime
	)
	err := s.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Course,
		&status,
		&deadline,
		&p.UserID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = model.ProjectStatus(status)
	if deadline.Valid {
		t := deadline.Time
		p.Deadline = &t
	}
	return &p, nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

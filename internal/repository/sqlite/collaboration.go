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

// compile-time check that *DB implements repository.CollaborationRepository
var _ repository.CollaborationRepository = (*DB)(nil)

// CreateCollaboration inserts a pending invitation.
//
// CONCURRENT INVITES:
// The UNIQUE(project_id, user_id) constraint is the serialization point.
// Two racing invites for the same pair both reach the INSERT; the loser
// gets a unique-violation which we surface as a Conflict — never a
// silent duplicate row.
func (db *DB) CreateCollaboration(ctx context.Context, collab *model.Collaboration) error {
	collab.ID = xid.New().String()
	if collab.Status == "" {
		collab.Status = model.CollabPending
	}
	collab.InvitedAt = time.Now()

	_, err := db.q.ExecContext(ctx,
		`INSERT INTO collaborations (id, project_id, user_id, role, status, invited_at, accepted_at)
		 VALUES (?, ?, ?, ?, ?, ?, NULL)`,
		collab.ID,
		collab.ProjectID,
		collab.UserID,
		string(collab.Role),
		string(collab.Status),
		collab.InvitedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user is already a collaborator on this project")
		}
		return fmt.Errorf("sqlite: creating collaboration: %w", err)
	}
	return nil
}

func (db *DB) GetCollaborationByID(ctx context.Context, id string) (*model.Collaboration, error) {
	row := db.q.QueryRowContext(ctx,
		`SELECT id, project_id, user_id, role, status, invited_at, accepted_at
		 FROM collaborations WHERE id = ?`, id)

	collab, err := scanCollaboration(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("collaboration", id)
		}
		return nil, fmt.Errorf("sqlite: getting collaboration %s: %w", id, err)
	}
	return collab, nil
}

// GetCollaborationForUser returns the (project, user) row regardless of
// status — callers need pending and declined rows too, e.g. to reject a
// duplicate invite.
func (db *DB) GetCollaborationForUser(ctx context.Context, projectID, userID string) (*model.Collaboration, error) {
	row := db.q.QueryRowContext(ctx,
		`SELECT id, project_id, user_id, role, status, invited_at, accepted_at
		 FROM collaborations WHERE project_id = ? AND user_id = ?`,
		projectID, userID)

	collab, err := scanCollaboration(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("collaboration", projectID+"/"+userID)
		}
		return nil, fmt.Errorf("sqlite: getting collaboration for %s/%s: %w", projectID, userID, err)
	}
	return collab, nil
}

// ListCollaborationsByProject returns a project's collaboration rows in
// stored order, joined with users so the listing can show who they are.
// status filters when non-empty.
func (db *DB) ListCollaborationsByProject(ctx context.Context, projectID string, status model.CollaborationStatus) ([]model.Collaboration, error) {
	query := `SELECT c.id, c.project_id, c.user_id, c.role, c.status, c.invited_at, c.accepted_at,
	                 u.email, u.name
	          FROM collaborations c
	          JOIN users u ON u.id = c.user_id
	          WHERE c.project_id = ?`
	args := []any{projectID}
	if status != "" {
		query += ` AND c.status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY c.invited_at`

	return db.listCollaborations(ctx, query, args...)
}

// ListPendingCollaborationsForUser is the user's invitation inbox.
func (db *DB) ListPendingCollaborationsForUser(ctx context.Context, userID string) ([]model.Collaboration, error) {
	return db.listCollaborations(ctx,
		`SELECT c.id, c.project_id, c.user_id, c.role, c.status, c.invited_at, c.accepted_at,
		        u.email, u.name
		 FROM collaborations c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.user_id = ? AND c.status = 'pending'
		 ORDER BY c.invited_at DESC`, userID)
}

func (db *DB) listCollaborations(ctx context.Context, query string, args ...any) ([]model.Collaboration, error) {
	rows, err := db.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing collaborations: %w", err)
	}
	defer rows.Close()

	collabs := []model.Collaboration{}
	for rows.Next() {
		var (
			c          model.Collaboration
			role       string
			status     string
			acceptedAt sql.NullTime
		)
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.UserID, &role, &status,
			&c.InvitedAt, &acceptedAt, &c.UserEmail, &c.UserName); err != nil {
			return nil, fmt.Errorf("sqlite: scanning collaboration: %w", err)
		}
		c.Role = model.CollaborationRole(role)
		c.Status = model.CollaborationStatus(status)
		if acceptedAt.Valid {
			t := acceptedAt.Time
			c.AcceptedAt = &t
		}
		collabs = append(collabs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating collaborations: %w", err)
	}
	return collabs, nil
}

// UpdateCollaborationStatus persists a lifecycle transition. Only status
// and accepted_at change — project, user and role are immutable after
// the invite.
func (db *DB) UpdateCollaborationStatus(ctx context.Context, collab *model.Collaboration) error {
	res, err := db.q.ExecContext(ctx,
		`UPDATE collaborations SET status = ?, accepted_at = ? WHERE id = ?`,
		string(collab.Status),
		nullableTime(collab.AcceptedAt),
		collab.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating collaboration %s: %w", collab.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("collaboration", collab.ID)
	}
	return nil
}

func scanCollaboration(s scanner) (*model.Collaboration, error) {
	var (
		c          model.Collaboration
		role       string
		status     string
		acceptedAt sql.NullTime
	)
	err := s.Scan(&c.ID, &c.ProjectID, &c.UserID, &role, &status, &c.InvitedAt, &acceptedAt)
	if err != nil {
		return nil, err
	}
	c.Role = model.CollaborationRole(role)
	c.Status = model.CollaborationStatus(status)
	if acceptedAt.Valid {
		t := acceptedAt.Time
		c.AcceptedAt = &t
	}
	return &c, nil
}

package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// compile-time check that *DB implements repository.StudySessionRepository
var _ repository.StudySessionRepository = (*DB)(nil)

func (db *DB) CreateStudySession(ctx context.Context, session *model.StudySession) error {
	session.ID = xid.New().String()
	session.CreatedAt = time.Now()

	_, err := db.q.ExecContext(ctx,
		`INSERT INTO study_sessions (id, project_id, user_id, duration_minutes, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.ProjectID,
		session.UserID,
		session.DurationMinutes,
		session.Description,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating study session: %w", err)
	}
	return nil
}

// ListStudySessionsByUser returns the user's sessions logged since the
// given time, newest first.
func (db *DB) ListStudySessionsByUser(ctx context.Context, userID string, since time.Time) ([]model.StudySession, error) {
	rows, err := db.q.QueryContext(ctx,
		`SELECT id, project_id, user_id, duration_minutes, description, created_at
		 FROM study_sessions
		 WHERE user_id = ? AND created_at >= ?
		 ORDER BY created_at DESC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing study sessions: %w", err)
	}
	defer rows.Close()

	sessions := []model.StudySession{}
	for rows.Next() {
		var s model.StudySession
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.UserID, &s.DurationMinutes, &s.Description, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning study session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating study sessions: %w", err)
	}
	return sessions, nil
}

// SumStudyMinutes totals the user's logged minutes since the given time.
// COALESCE turns the no-rows NULL into 0.
func (db *DB) SumStudyMinutes(ctx context.Context, userID string, since time.Time) (int, error) {
	var total int
	err := db.q.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration_minutes), 0)
		 FROM study_sessions
		 WHERE user_id = ? AND created_at >= ?`, userID, since,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sqlite: summing study minutes: %w", err)
	}
	return total, nil
}

// SumStudyMinutesByProject breaks the user's minutes down per project.
func (db *DB) SumStudyMinutesByProject(ctx context.Context, userID string, since time.Time) (map[string]int, error) {
	rows, err := db.q.QueryContext(ctx,
		`SELECT project_id, SUM(duration_minutes)
		 FROM study_sessions
		 WHERE user_id = ? AND created_at >= ?
		 GROUP BY project_id`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("sqlite: summing study minutes by project: %w", err)
	}
	defer rows.Close()

	totals := map[string]int{}
	for rows.Next() {
		var (
			projectID string
			minutes   int
		)
		if err := rows.Scan(&projectID, &minutes); err != nil {
			return nil, fmt.Errorf("sqlite: scanning study totals: %w", err)
		}
		totals[projectID] = minutes
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating study totals: %w", err)
	}
	return totals, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// Study session bounds: a session is at least a minute and at most a
// day. Anything outside that range is a typo, not a study session.
const (
	MinSessionMinutes = 1
	MaxSessionMinutes = 24 * 60
)

// summaryWindow is the lookback for the analytics view.
const summaryWindow = 30 * 24 * time.Hour

// StudyService logs study sessions and aggregates them for the
// analytics view.
type StudyService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewStudyService creates a StudyService.
func NewStudyService(store repository.Store, logger *slog.Logger) *StudyService {
	return &StudyService{store: store, logger: logger}
}

// LogSession records time spent on a project the caller can edit.
func (s *StudyService) LogSession(ctx context.Context, projectID, userID string, minutes int, description string) (*model.StudySession, error) {
	if minutes < MinSessionMinutes || minutes > MaxSessionMinutes {
		return nil, apperror.ValidationFailed("durationMinutes",
			fmt.Sprintf("session duration must be between %d and %d minutes", MinSessionMinutes, MaxSessionMinutes))
	}

	if _, err := requireEdit(ctx, s.store, projectID, userID); err != nil {
		return nil, err
	}

	session := &model.StudySession{
		ProjectID:       projectID,
		UserID:          userID,
		DurationMinutes: minutes,
		Description:     description,
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateStudySession(ctx, session); err != nil {
			return err
		}
		return tx.RecordActivity(ctx, newActivity(
			userID, model.ActionLogged, "session", session.ID,
			fmt.Sprintf("logged %d minutes of study", minutes), projectID))
	})
	if err != nil {
		return nil, fmt.Errorf("logging study session: %w", err)
	}

	return session, nil
}

// Recent returns the caller's study sessions from the summary window,
// newest first.
func (s *StudyService) Recent(ctx context.Context, userID string) ([]model.StudySession, error) {
	sessions, err := s.store.ListStudySessionsByUser(ctx, userID, time.Now().Add(-summaryWindow))
	if err != nil {
		return nil, fmt.Errorf("listing study sessions: %w", err)
	}
	return sessions, nil
}

// Summary aggregates the caller's last 30 days of study: total minutes
// and session count over the window, this week's minutes, and a
// per-project breakdown.
func (s *StudyService) Summary(ctx context.Context, userID string) (*model.StudySummary, error) {
	now := time.Now()
	windowStart := now.Add(-summaryWindow)
	weekStart := now.Add(-7 * 24 * time.Hour)

	sessions, err := s.store.ListStudySessionsByUser(ctx, userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("listing study sessions: %w", err)
	}

	total, err := s.store.SumStudyMinutes(ctx, userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("summing study minutes: %w", err)
	}
	weekly, err := s.store.SumStudyMinutes(ctx, userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("summing weekly minutes: %w", err)
	}
	byProject, err := s.store.SumStudyMinutesByProject(ctx, userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("summing minutes by project: %w", err)
	}

	return &model.StudySummary{
		TotalMinutes:    total,
		TotalSessions:   len(sessions),
		WeeklyMinutes:   weekly,
		MinutesByProjID: byProject,
	}, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// ActivityService reads the append-only activity feed. Writes happen
// inside the other services' transactions; there is no public write
// path, and no update or delete path at all.
type ActivityService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewActivityService creates an ActivityService.
func NewActivityService(store repository.Store, logger *slog.Logger) *ActivityService {
	return &ActivityService{store: store, logger: logger}
}

// ForProject returns a project's recent activity, newest first, for
// any caller with access.
func (s *ActivityService) ForProject(ctx context.Context, projectID, userID string, limit int) ([]model.ActivityLog, error) {
	if _, _, err := requireAccess(ctx, s.store, projectID, userID); err != nil {
		return nil, err
	}

	entries, err := s.store.ListActivity(ctx, repository.ActivityListOptions{
		ProjectID: projectID,
		Limit:     clampLimit(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("listing project activity: %w", err)
	}
	return entries, nil
}

// ForUser returns the caller's own recent actions, newest first.
// Entries detached from deleted projects still appear.
func (s *ActivityService) ForUser(ctx context.Context, userID string, limit int) ([]model.ActivityLog, error) {
	entries, err := s.store.ListActivity(ctx, repository.ActivityListOptions{
		UserID: userID,
		Limit:  clampLimit(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("listing user activity: %w", err)
	}
	return entries, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
	"github.com/sakif/studytrack/internal/storage"
)

// Validation constants for project fields.
const (
	MaxTitleLength       = 200
	MaxCourseLength      = 100
	MaxDescriptionLength = 10000
)

// ProjectService handles project CRUD plus the listing views.
type ProjectService struct {
	store  repository.Store
	files  *storage.Gateway
	logger *slog.Logger
}

// NewProjectService creates a ProjectService. The storage gateway is
// needed for project deletion, which must take the project's file bytes
// with it.
func NewProjectService(store repository.Store, files *storage.Gateway, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		store:  store,
		files:  files,
		logger: logger,
	}
}

// ProjectInput carries the mutable project fields from the caller.
type ProjectInput struct {
	Title       string
	Description string
	Course      string
	Status      model.ProjectStatus
	Deadline    *time.Time
}

func (in *ProjectInput) validate(requireStatus bool) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Course = strings.TrimSpace(in.Course)

	if in.Title == "" {
		return apperror.ValidationFailed("title", "project title is required")
	}
	if len(in.Title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("project title must be %d characters or less", MaxTitleLength))
	}
	if len(in.Course) > MaxCourseLength {
		return apperror.ValidationFailed("course",
			fmt.Sprintf("course tag must be %d characters or less", MaxCourseLength))
	}
	if len(in.Description) > MaxDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if requireStatus || in.Status != "" {
		if !model.ValidProjectStatus(in.Status) {
			return apperror.ValidationFailed("status", fmt.Sprintf("unknown project status %q", in.Status))
		}
	}
	return nil
}

// Create makes a new project owned by userID. Ownership is fixed here
// forever — there is no transfer operation.
func (s *ProjectService) Create(ctx context.Context, userID string, in ProjectInput) (*model.Project, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}

	project := &model.Project{
		Title:       in.Title,
		Description: in.Description,
		Course:      in.Course,
		Status:      in.Status,
		Deadline:    in.Deadline,
		UserID:      userID,
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateProject(ctx, project); err != nil {
			return err
		}
		return tx.RecordActivity(ctx, newActivity(
			userID, model.ActionCreated, "project", project.ID,
			fmt.Sprintf("created project %q", project.Title), project.ID))
	})
	if err != nil {
		s.logger.Error("failed to create project",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created",
		slog.String("id", project.ID),
		slog.String("owner", userID),
	)
	return project, nil
}

// Get returns a project the caller may access, or NotFound.
func (s *ProjectService) Get(ctx context.Context, projectID, userID string) (*model.Project, error) {
	_, project, err := requireAccess(ctx, s.store, projectID, userID)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// List returns the caller's own projects followed by projects shared
// with them (accepted collaborations only).
func (s *ProjectService) List(ctx context.Context, userID string) (owned, shared []model.Project, err error) {
	owned, err = s.store.ListProjectsByOwner(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing owned projects: %w", err)
	}
	shared, err = s.store.ListProjectsSharedWith(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing shared projects: %w", err)
	}
	return owned, shared, nil
}

// Update modifies a project's fields. Requires edit capability: the
// owner or an accepted edit-capable collaborator; viewers are rejected.
func (s *ProjectService) Update(ctx context.Context, projectID, userID string, in ProjectInput) (*model.Project, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}

	project, err := requireEdit(ctx, s.store, projectID, userID)
	if err != nil {
		return nil, err
	}

	project.Title = in.Title
	project.Description = in.Description
	project.Course = in.Course
	project.Status = in.Status
	project.Deadline = in.Deadline

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.UpdateProject(ctx, project); err != nil {
			return err
		}
		return tx.RecordActivity(ctx, newActivity(
			userID, model.ActionUpdated, "project", project.ID,
			fmt.Sprintf("updated project %q", project.Title), project.ID))
	})
	if err != nil {
		return nil, fmt.Errorf("updating project %s: %w", projectID, err)
	}

	return project, nil
}

// Delete removes a project and everything under it. Owner only — even
// edit-capable collaborators cannot delete.
//
// File BYTES are removed before the row: each failure is logged and
// tolerated (delete is idempotent at the storage layer), then the row
// delete cascades the metadata. The surviving activity entry records
// the deletion.
func (s *ProjectService) Delete(ctx context.Context, projectID, userID string) error {
	cap, project, err := requireAccess(ctx, s.store, projectID, userID)
	if err != nil {
		return err
	}
	if !cap.CanInvite() { // invite rights == ownership; delete is owner-only too
		return apperror.Forbidden("only the project owner can delete it")
	}

	files, err := s.store.ListProjectFilesByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("listing files for delete: %w", err)
	}
	for _, f := range files {
		if err := s.files.Remove(f.FilePath); err != nil {
			s.logger.Warn("removing file bytes during project delete",
				slog.String("file", f.FilePath),
				slog.String("error", err.Error()),
			)
		}
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.DeleteProject(ctx, projectID); err != nil {
			return err
		}
		return tx.RecordActivity(ctx, newActivity(
			userID, model.ActionDeleted, "project", projectID,
			fmt.Sprintf("deleted project %q", project.Title), ""))
	})
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", projectID, err)
	}

	s.logger.Info("project deleted",
		slog.String("id", projectID),
		slog.String("owner", userID),
	)
	return nil
}

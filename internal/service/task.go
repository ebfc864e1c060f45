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
)

// TaskService handles tasks inside a project. Tasks carry no access
// rules of their own: every operation resolves the parent project's
// capability first.
type TaskService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(store repository.Store, logger *slog.Logger) *TaskService {
	return &TaskService{store: store, logger: logger}
}

// TaskInput carries the mutable task fields from the caller.
type TaskInput struct {
	Title       string
	Description string
	Status      model.TaskStatus
	Priority    model.Priority
	DueDate     *time.Time
}

func (in *TaskInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)

	if in.Title == "" {
		return apperror.ValidationFailed("title", "task title is required")
	}
	if len(in.Title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("task title must be %d characters or less", MaxTitleLength))
	}
	if in.Status == "" {
		in.Status = model.TaskTodo
	}
	if !model.ValidTaskStatus(in.Status) {
		return apperror.ValidationFailed("status", fmt.Sprintf("unknown task status %q", in.Status))
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !model.ValidPriority(in.Priority) {
		return apperror.ValidationFailed("priority", fmt.Sprintf("unknown priority %q", in.Priority))
	}
	return nil
}

// Create adds a task to a project the caller can edit.
func (s *TaskService) Create(ctx context.Context, projectID, userID string, in TaskInput) (*model.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := requireEdit(ctx, s.store, projectID, userID); err != nil {
		return nil, err
	}

	task := &model.Task{
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateTask(ctx, task); err != nil {
			return err
		}
		return tx.RecordActivity(ctx, newActivity(
			userID, model.ActionCreated, "task", task.ID,
			fmt.Sprintf("created task %q", task.Title), projectID))
	})
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	return task, nil
}

// List returns a project's tasks for any caller with access.
func (s *TaskService) List(ctx context.Context, projectID, userID string) ([]model.Task, error) {
	if _, _, err := requireAccess(ctx, s.store, projectID, userID); err != nil {
		return nil, err
	}
	tasks, err := s.store.ListTasksByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Update replaces a task's mutable fields. The access check runs
// against the task's OWN project, not the project ID the caller names
// in the URL — a task can't be edited through someone else's project.
func (s *TaskService) Update(ctx context.Context, taskID, userID string, in TaskInput) (*model.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	task, err := s.store.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := requireEdit(ctx, s.store, task.ProjectID, userID); err != nil {
		return nil, err
	}

	task.Title = in.Title
	task.Description = in.Description
	task.Status = in.Status
	task.Priority = in.Priority
	task.DueDate = in.DueDate

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.UpdateTask(ctx, task); err != nil {
			return err
		}
		return tx.RecordActivity(ctx, newActivity(
			userID, model.ActionUpdated, "task", task.ID,
			fmt.Sprintf("updated task %q", task.Title), task.ProjectID))
	})
	if err != nil {
		return nil, fmt.Errorf("updating task %s: %w", taskID, err)
	}

	return task, nil
}

// Delete removes a task from a project the caller can edit.
func (s *TaskService) Delete(ctx context.Context, taskID, userID string) error {
	task, err := s.store.GetTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	if _, err := requireEdit(ctx, s.store, task.ProjectID, userID); err != nil {
		return err
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.DeleteTask(ctx, taskID); err != nil {
			return err
		}
		return tx.RecordActivity(ctx, newActivity(
			userID, model.ActionDeleted, "task", taskID,
			fmt.Sprintf("deleted task %q", task.Title), task.ProjectID))
	})
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", taskID, err)
	}

	return nil
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

func newTaskService(t *testing.T) (*TaskService, repository.Store) {
	t.Helper()
	store := newTestStore(t)
	return NewTaskService(store, testLogger()), store
}

func TestTaskCreate_Defaults(t *testing.T) {
	svc, store := newTaskService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	task, err := svc.Create(ctx, project.ID, owner.ID, TaskInput{Title: "Outline"})
	require.NoError(t, err)
	assert.Equal(t, model.TaskTodo, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
}

func TestTaskAccess_FollowsParentProject(t *testing.T) {
	svc, store := newTaskService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	viewer := createTestUser(t, store, "viewer@uni.edu")
	stranger := createTestUser(t, store, "stranger@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	addCollaborator(t, store, project.ID, viewer.ID, model.RoleViewer)

	task, err := svc.Create(ctx, project.ID, owner.ID, TaskInput{Title: "Outline"})
	require.NoError(t, err)

	// Viewer reads the list but cannot mutate.
	tasks, err := svc.List(ctx, project.ID, viewer.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	_, err = svc.Update(ctx, task.ID, viewer.ID, TaskInput{Title: "Outline", Status: model.TaskDone})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	err = svc.Delete(ctx, task.ID, viewer.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// Stranger sees nothing at all, task IDs included.
	_, err = svc.List(ctx, project.ID, stranger.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.Update(ctx, task.ID, stranger.ID, TaskInput{Title: "X"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestTaskUpdate_StatusTransitions(t *testing.T) {
	svc, store := newTaskService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	editor := createTestUser(t, store, "editor@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")
	addCollaborator(t, store, project.ID, editor.ID, model.RoleCollaborator)

	task, err := svc.Create(ctx, project.ID, owner.ID, TaskInput{Title: "Outline", Priority: model.PriorityHigh})
	require.NoError(t, err)

	// An edit-capable collaborator moves the task along.
	updated, err := svc.Update(ctx, task.ID, editor.ID, TaskInput{
		Title:    "Outline",
		Status:   model.TaskDone,
		Priority: model.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TaskDone, updated.Status)

	_, err = svc.Update(ctx, task.ID, editor.ID, TaskInput{Title: "Outline", Status: "Blocked"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

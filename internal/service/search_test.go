package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/studytrack/internal/model"
)

func TestSearch_ScopedToVisibleProjects(t *testing.T) {
	store := newTestStore(t)
	svc := NewSearchService(store, testLogger())
	ctx := context.Background()

	me := createTestUser(t, store, "me@uni.edu")
	other := createTestUser(t, store, "other@uni.edu")

	mine := createTestProject(t, store, me.ID, "Quantum Mechanics Notes")
	shared := createTestProject(t, store, other.ID, "Quantum Computing Lab")
	addCollaborator(t, store, shared.ID, me.ID, model.RoleViewer)

	// Matching content in a project I cannot see.
	createTestProject(t, store, other.ID, "Quantum Secrets")

	results, err := svc.Search(ctx, me.ID, "quantum")
	require.NoError(t, err)
	require.Len(t, results, 2)

	found := map[string]bool{}
	for _, r := range results {
		found[r.ProjectID] = true
		assert.Equal(t, "project", r.EntityType)
	}
	assert.True(t, found[mine.ID])
	assert.True(t, found[shared.ID])
}

func TestSearch_TasksAndNotes(t *testing.T) {
	store := newTestStore(t)
	svc := NewSearchService(store, testLogger())
	ctx := context.Background()

	me := createTestUser(t, store, "me@uni.edu")
	project := createTestProject(t, store, me.ID, "Thesis")

	task := &model.Task{
		ProjectID: project.ID,
		Title:     "Write entropy chapter",
		Status:    model.TaskTodo,
		Priority:  model.PriorityMedium,
	}
	require.NoError(t, store.CreateTask(ctx, task))

	note := &model.ProjectNote{
		ProjectID: project.ID,
		UserID:    me.ID,
		Content:   "entropy citation needed for section 2",
	}
	require.NoError(t, store.CreateNote(ctx, note))

	results, err := svc.Search(ctx, me.ID, "ENTROPY")
	require.NoError(t, err)
	require.Len(t, results, 2, "case-insensitive across tasks and notes")

	types := map[string]bool{}
	for _, r := range results {
		types[r.EntityType] = true
		assert.Equal(t, project.ID, r.ProjectID)
	}
	assert.True(t, types["task"])
	assert.True(t, types["note"])
}

func TestSearch_EmptyCases(t *testing.T) {
	store := newTestStore(t)
	svc := NewSearchService(store, testLogger())
	ctx := context.Background()

	me := createTestUser(t, store, "me@uni.edu")

	// Blank query: no results, no error.
	results, err := svc.Search(ctx, me.ID, "   ")
	require.NoError(t, err)
	assert.Empty(t, results)

	// No visible projects: the repository is never consulted.
	results, err = svc.Search(ctx, me.ID, "anything")
	require.NoError(t, err)
	assert.Empty(t, results)
}

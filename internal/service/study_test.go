package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/model"
)

func TestLogSession_Bounds(t *testing.T) {
	store := newTestStore(t)
	svc := NewStudyService(store, testLogger())
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	for _, minutes := range []int{0, -5, 24*60 + 1} {
		_, err := svc.LogSession(ctx, project.ID, owner.ID, minutes, "")
		assert.ErrorIs(t, err, apperror.ErrValidation, "%d minutes", minutes)
	}

	session, err := svc.LogSession(ctx, project.ID, owner.ID, 90, "reading")
	require.NoError(t, err)
	assert.Equal(t, 90, session.DurationMinutes)
}

func TestLogSession_ViewerRejected(t *testing.T) {
	store := newTestStore(t)
	svc := NewStudyService(store, testLogger())
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	viewer := createTestUser(t, store, "viewer@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")
	addCollaborator(t, store, project.ID, viewer.ID, model.RoleViewer)

	_, err := svc.LogSession(ctx, project.ID, viewer.ID, 30, "")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestStudySummary(t *testing.T) {
	store := newTestStore(t)
	svc := NewStudyService(store, testLogger())
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	other := createTestUser(t, store, "other@uni.edu")
	alpha := createTestProject(t, store, owner.ID, "Alpha")
	beta := createTestProject(t, store, owner.ID, "Beta")
	theirs := createTestProject(t, store, other.ID, "Theirs")

	_, err := svc.LogSession(ctx, alpha.ID, owner.ID, 60, "")
	require.NoError(t, err)
	_, err = svc.LogSession(ctx, alpha.ID, owner.ID, 30, "")
	require.NoError(t, err)
	_, err = svc.LogSession(ctx, beta.ID, owner.ID, 45, "")
	require.NoError(t, err)

	// Someone else's session must not bleed into my summary.
	_, err = svc.LogSession(ctx, theirs.ID, other.ID, 500, "")
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, 135, summary.TotalMinutes)
	assert.Equal(t, 3, summary.TotalSessions)
	assert.Equal(t, 135, summary.WeeklyMinutes, "fresh sessions fall inside the weekly window too")
	assert.Equal(t, map[string]int{alpha.ID: 90, beta.ID: 45}, summary.MinutesByProjID)
}

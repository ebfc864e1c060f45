package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

func newCollabService(t *testing.T) (*CollaborationService, repository.Store, *mockMailer) {
	t.Helper()
	store := newTestStore(t)
	mail := &mockMailer{}
	return NewCollaborationService(store, mail, testLogger()), store, mail
}

func TestInvite_HappyPath(t *testing.T) {
	svc, store, mail := newCollabService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	invitee := createTestUser(t, store, "friend@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	collab, err := svc.Invite(ctx, project.ID, owner.ID, "friend@uni.edu", model.RoleCollaborator)
	require.NoError(t, err)

	assert.Equal(t, invitee.ID, collab.UserID)
	assert.Equal(t, model.CollabPending, collab.Status)
	assert.Nil(t, collab.AcceptedAt)

	// A pending invite grants NO access yet.
	projects, err := store.ListProjectsSharedWith(ctx, invitee.ID)
	require.NoError(t, err)
	assert.Empty(t, projects)

	// The notification went out.
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "friend@uni.edu", mail.sent[0].To)
	assert.Equal(t, "Thesis", mail.sent[0].Project)

	// The invite landed in the feed atomically with the row.
	entries, err := store.ListActivity(ctx, repository.ActivityListOptions{ProjectID: project.ID, Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, model.ActionInvited, entries[0].Action)
}

func TestInvite_EmailMatchesCaseInsensitively(t *testing.T) {
	svc, store, _ := newCollabService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	invitee := createTestUser(t, store, "friend@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	collab, err := svc.Invite(ctx, project.ID, owner.ID, "Friend@Uni.EDU", model.RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, invitee.ID, collab.UserID)
}

func TestInvite_OnlyOwnerMayInvite(t *testing.T) {
	svc, store, _ := newCollabService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	editor := createTestUser(t, store, "editor@uni.edu")
	createTestUser(t, store, "third@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	// Even an accepted edit-capable collaborator cannot sub-invite.
	addCollaborator(t, store, project.ID, editor.ID, model.RoleCollaborator)

	_, err := svc.Invite(ctx, project.ID, editor.ID, "third@uni.edu", model.RoleCollaborator)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestInvite_StrangerSeesNotFound(t *testing.T) {
	svc, store, _ := newCollabService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	stranger := createTestUser(t, store, "stranger@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	// A non-member doesn't get Forbidden — the project is invisible.
	_, err := svc.Invite(ctx, project.ID, stranger.ID, "owner@uni.edu", model.RoleViewer)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestInvite_Rejections(t *testing.T) {
	svc, store, _ := newCollabService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	invitee := createTestUser(t, store, "friend@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Invite(ctx, project.ID, owner.ID, "nobody@uni.edu", model.RoleViewer)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("owner invites self", func(t *testing.T) {
		_, err := svc.Invite(ctx, project.ID, owner.ID, "owner@uni.edu", model.RoleCollaborator)
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("owner role not invitable", func(t *testing.T) {
		_, err := svc.Invite(ctx, project.ID, owner.ID, "friend@uni.edu", model.RoleOwner)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("duplicate invite", func(t *testing.T) {
		_, err := svc.Invite(ctx, project.ID, owner.ID, "friend@uni.edu", model.RoleCollaborator)
		require.NoError(t, err)

		_, err = svc.Invite(ctx, project.ID, owner.ID, "friend@uni.edu", model.RoleViewer)
		assert.ErrorIs(t, err, apperror.ErrConflict)

		// Exactly one row survived.
		collab, err := store.GetCollaborationForUser(ctx, project.ID, invitee.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RoleCollaborator, collab.Role, "first invite's role wins")
	})
}

func TestInvite_MailFailureDoesNotFailInvite(t *testing.T) {
	store := newTestStore(t)
	mail := &mockMailer{err: errors.New("smtp down")}
	svc := NewCollaborationService(store, mail, testLogger())
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	invitee := createTestUser(t, store, "friend@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	collab, err := svc.Invite(ctx, project.ID, owner.ID, "friend@uni.edu", model.RoleViewer)
	require.NoError(t, err, "delivery failure must not surface")

	got, err := store.GetCollaborationForUser(ctx, project.ID, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, collab.ID, got.ID)
}

func TestAccept_GrantsAccess(t *testing.T) {
	svc, store, _ := newCollabService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	invitee := createTestUser(t, store, "friend@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	collab, err := svc.Invite(ctx, project.ID, owner.ID, "friend@uni.edu", model.RoleCollaborator)
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, collab.ID, invitee.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CollabAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)

	// The project now shows up in the invitee's shared list.
	shared, err := store.ListProjectsSharedWith(ctx, invitee.ID)
	require.NoError(t, err)
	require.Len(t, shared, 1)
	assert.Equal(t, project.ID, shared[0].ID)
}

func TestAccept_OnlyInviteeMayRespond(t *testing.T) {
	svc, store, _ := newCollabService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	invitee := createTestUser(t, store, "friend@uni.edu")
	intruder := createTestUser(t, store, "intruder@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	collab, err := svc.Invite(ctx, project.ID, owner.ID, "friend@uni.edu", model.RoleCollaborator)
	require.NoError(t, err)

	// Neither the owner nor a stranger can accept on the invitee's behalf.
	for _, actor := range []string{owner.ID, intruder.ID} {
		_, err := svc.Accept(ctx, collab.ID, actor)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	}

	// The invitation is untouched.
	got, err := store.GetCollaborationByID(ctx, collab.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CollabPending, got.Status)

	_, err = svc.Accept(ctx, collab.ID, invitee.ID)
	assert.NoError(t, err)
}

func TestTransitions_AreTerminal(t *testing.T) {
	svc, store, _ := newCollabService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	first := createTestUser(t, store, "first@uni.edu")
	second := createTestUser(t, store, "second@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	t.Run("double accept", func(t *testing.T) {
		collab, err := svc.Invite(ctx, project.ID, owner.ID, "first@uni.edu", model.RoleCollaborator)
		require.NoError(t, err)

		_, err = svc.Accept(ctx, collab.ID, first.ID)
		require.NoError(t, err)

		_, err = svc.Accept(ctx, collab.ID, first.ID)
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("decline then accept", func(t *testing.T) {
		collab, err := svc.Invite(ctx, project.ID, owner.ID, "second@uni.edu", model.RoleViewer)
		require.NoError(t, err)

		declined, err := svc.Decline(ctx, collab.ID, second.ID)
		require.NoError(t, err)
		assert.Equal(t, model.CollabDeclined, declined.Status)
		assert.Nil(t, declined.AcceptedAt)

		_, err = svc.Accept(ctx, collab.ID, second.ID)
		assert.ErrorIs(t, err, apperror.ErrInvalidState)
	})

	t.Run("no re-invite after decline", func(t *testing.T) {
		// The declined row persists and blocks a second invitation.
		_, err := svc.Invite(ctx, project.ID, owner.ID, "second@uni.edu", model.RoleViewer)
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})
}

func TestListCollaborators_OwnerFirst(t *testing.T) {
	svc, store, _ := newCollabService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	accepted := createTestUser(t, store, "accepted@uni.edu")
	pending := createTestUser(t, store, "pending@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	addCollaborator(t, store, project.ID, accepted.ID, model.RoleViewer)

	_, err := svc.Invite(ctx, project.ID, owner.ID, "pending@uni.edu", model.RoleCollaborator)
	require.NoError(t, err)

	// A viewer can read the roster too.
	roster, err := svc.ListCollaborators(ctx, project.ID, accepted.ID)
	require.NoError(t, err)

	require.Len(t, roster, 2, "owner + accepted; pending is excluded")
	assert.Equal(t, owner.ID, roster[0].UserID)
	assert.Equal(t, model.RoleOwner, roster[0].Role)
	assert.Equal(t, owner.Email, roster[0].UserEmail)
	assert.Equal(t, accepted.ID, roster[1].UserID)

	for _, entry := range roster {
		assert.NotEqual(t, pending.ID, entry.UserID)
	}
}

func TestListInvitations_PendingOnly(t *testing.T) {
	svc, store, _ := newCollabService(t)
	ctx := context.Background()

	ownerA := createTestUser(t, store, "a@uni.edu")
	ownerB := createTestUser(t, store, "b@uni.edu")
	invitee := createTestUser(t, store, "me@uni.edu")
	projectA := createTestProject(t, store, ownerA.ID, "Alpha")
	projectB := createTestProject(t, store, ownerB.ID, "Beta")

	fromA, err := svc.Invite(ctx, projectA.ID, ownerA.ID, "me@uni.edu", model.RoleCollaborator)
	require.NoError(t, err)
	fromB, err := svc.Invite(ctx, projectB.ID, ownerB.ID, "me@uni.edu", model.RoleViewer)
	require.NoError(t, err)

	_, err = svc.Accept(ctx, fromA.ID, invitee.ID)
	require.NoError(t, err)

	inbox, err := svc.ListInvitations(ctx, invitee.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1, "accepted invitations leave the inbox")
	assert.Equal(t, fromB.ID, inbox[0].ID)
}

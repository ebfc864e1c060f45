package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
	"github.com/sakif/studytrack/internal/repository/sqlite"
)

// newTestStore creates a fresh in-memory store for one test.
func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err, "creating test db")
	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testUserSeq int

func createTestUser(t *testing.T, store repository.Store, email string) *model.User {
	t.Helper()
	testUserSeq++
	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$notarealhash",
		Name:         fmt.Sprintf("Test User %d", testUserSeq),
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func createTestProject(t *testing.T, store repository.Store, ownerID, title string) *model.Project {
	t.Helper()
	project := &model.Project{
		Title:  title,
		Course: "CS-301",
		UserID: ownerID,
	}
	require.NoError(t, store.CreateProject(context.Background(), project))
	return project
}

// addCollaborator inserts an already-accepted collaboration directly,
// skipping the invite/accept dance, for tests about what collaborators
// can do rather than how they got there.
func addCollaborator(t *testing.T, store repository.Store, projectID, userID string, role model.CollaborationRole) *model.Collaboration {
	t.Helper()
	now := time.Now()
	collab := &model.Collaboration{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		Status:    model.CollabPending,
	}
	require.NoError(t, store.CreateCollaboration(context.Background(), collab))
	collab.Status = model.CollabAccepted
	collab.AcceptedAt = &now
	require.NoError(t, store.UpdateCollaborationStatus(context.Background(), collab))
	return collab
}

// mockMailer records invitations instead of sending them.
type mockMailer struct {
	sent []sentInvitation
	err  error
}

type sentInvitation struct {
	To, Inviter, Project, Role string
}

func (m *mockMailer) SendInvitation(_ context.Context, to, inviterName, projectTitle, role string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentInvitation{To: to, Inviter: inviterName, Project: projectTitle, Role: role})
	return nil
}

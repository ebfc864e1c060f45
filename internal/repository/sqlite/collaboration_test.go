package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/model"
)

func TestCreateCollaboration_DuplicatePairConflicts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@uni.edu")
	guest := createTestUser(t, db, "guest@uni.edu")
	project := createTestProject(t, db, owner.ID, "Shared")

	first := &model.Collaboration{ProjectID: project.ID, UserID: guest.ID, Role: model.RoleCollaborator}
	if err := db.CreateCollaboration(ctx, first); err != nil {
		t.Fatalf("first CreateCollaboration() error = %v", err)
	}

	// Second row for the same (project, user) pair: the unique
	// constraint must surface as a Conflict, whatever the role.
	second := &model.Collaboration{ProjectID: project.ID, UserID: guest.ID, Role: model.RoleViewer}
	err := db.CreateCollaboration(ctx, second)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("duplicate CreateCollaboration() error = %v, want ErrConflict", err)
	}

	// Exactly one row exists.
	rows, err := db.ListCollaborationsByProject(ctx, project.ID, "")
	if err != nil {
		t.Fatalf("ListCollaborationsByProject() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want exactly 1", len(rows))
	}
}

func TestCreateCollaboration_DefaultsToPending(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@uni.edu")
	guest := createTestUser(t, db, "guest@uni.edu")
	project := createTestProject(t, db, owner.ID, "Shared")

	c := &model.Collaboration{ProjectID: project.ID, UserID: guest.ID, Role: model.RoleViewer}
	if err := db.CreateCollaboration(ctx, c); err != nil {
		t.Fatalf("CreateCollaboration() error = %v", err)
	}

	found, err := db.GetCollaborationForUser(ctx, project.ID, guest.ID)
	if err != nil {
		t.Fatalf("GetCollaborationForUser() error = %v", err)
	}
	if found.Status != model.CollabPending {
		t.Errorf("Status = %q, want pending", found.Status)
	}
	if found.AcceptedAt != nil {
		t.Errorf("AcceptedAt = %v, want nil before accept", found.AcceptedAt)
	}
	if found.InvitedAt.IsZero() {
		t.Error("InvitedAt not stamped")
	}
}

func TestUpdateCollaborationStatus_StampsAcceptedAt(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@uni.edu")
	guest := createTestUser(t, db, "guest@uni.edu")
	project := createTestProject(t, db, owner.ID, "Shared")

	c := &model.Collaboration{ProjectID: project.ID, UserID: guest.ID, Role: model.RoleCollaborator}
	if err := db.CreateCollaboration(ctx, c); err != nil {
		t.Fatalf("CreateCollaboration() error = %v", err)
	}

	now := time.Now().Round(time.Second)
	c.Status = model.CollabAccepted
	c.AcceptedAt = &now
	if err := db.UpdateCollaborationStatus(ctx, c); err != nil {
		t.Fatalf("UpdateCollaborationStatus() error = %v", err)
	}

	found, err := db.GetCollaborationByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCollaborationByID() error = %v", err)
	}
	if found.Status != model.CollabAccepted {
		t.Errorf("Status = %q, want accepted", found.Status)
	}
	if found.AcceptedAt == nil || !found.AcceptedAt.Equal(now) {
		t.Errorf("AcceptedAt = %v, want %v", found.AcceptedAt, now)
	}
}

func TestListPendingCollaborationsForUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner@uni.edu")
	guest := createTestUser(t, db, "guest@uni.edu")
	p1 := createTestProject(t, db, owner.ID, "One")
	p2 := createTestProject(t, db, owner.ID, "Two")

	pending := &model.Collaboration{ProjectID: p1.ID, UserID: guest.ID, Role: model.RoleViewer}
	if err := db.CreateCollaboration(ctx, pending); err != nil {
		t.Fatalf("CreateCollaboration() error = %v", err)
	}
	declined := &model.Collaboration{ProjectID: p2.ID, UserID: guest.ID, Role: model.RoleViewer}
	if err := db.CreateCollaboration(ctx, declined); err != nil {
		t.Fatalf("CreateCollaboration() error = %v", err)
	}
	declined.Status = model.CollabDeclined
	if err := db.UpdateCollaborationStatus(ctx, declined); err != nil {
		t.Fatalf("UpdateCollaborationStatus() error = %v", err)
	}

	inbox, err := db.ListPendingCollaborationsForUser(ctx, guest.ID)
	if err != nil {
		t.Fatalf("ListPendingCollaborationsForUser() error = %v", err)
	}
	if len(inbox) != 1 || inbox[0].ProjectID != p1.ID {
		t.Fatalf("inbox = %+v, want only the pending invitation", inbox)
	}
	if inbox[0].UserEmail != "guest@uni.edu" {
		t.Errorf("UserEmail = %q, want joined from users", inbox[0].UserEmail)
	}
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "Mixed.Case@Uni.EDU")

	found, err := db.GetUserByEmail(context.Background(), "mixed.case@uni.edu")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("found %q, want %q", found.ID, created.ID)
	}

	// Lookup with different casing also matches.
	found2, err := db.GetUserByEmail(context.Background(), "MIXED.CASE@uni.edu")
	if err != nil {
		t.Fatalf("GetUserByEmail() with upper case error = %v", err)
	}
	if found2.ID != created.ID {
		t.Errorf("found %q, want %q", found2.ID, created.ID)
	}
}

func TestCreateUser_DuplicateEmailConflicts(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "dup@uni.edu")

	err := db.CreateUser(context.Background(), &model.User{Email: "DUP@uni.edu", PasswordHash: "x"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

package access

import (
	"testing"
	"time"

	"github.com/sakif/studytrack/internal/model"
)

func testProject() *model.Project {
	return &model.Project{
		ID:        "proj1",
		Title:     "Thesis",
		UserID:    "owner1",
		CreatedAt: time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func collab(role model.CollaborationRole, status model.CollaborationStatus) *model.Collaboration {
	return &model.Collaboration{
		ID:        "collab1",
		ProjectID: "proj1",
		UserID:    "guest1",
		Role:      role,
		Status:    status,
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		collab *model.Collaboration
		want   Capability
	}{
		{"owner", "owner1", nil, Owner},
		{"owner ignores own collab row", "owner1", collab(model.RoleViewer, model.CollabAccepted), Owner},
		{"stranger", "guest1", nil, None},
		{"pending invitation grants nothing", "guest1", collab(model.RoleCollaborator, model.CollabPending), None},
		{"declined invitation grants nothing", "guest1", collab(model.RoleCollaborator, model.CollabDeclined), None},
		{"accepted viewer", "guest1", collab(model.RoleViewer, model.CollabAccepted), Viewer},
		{"accepted collaborator", "guest1", collab(model.RoleCollaborator, model.CollabAccepted), Editor},
		{"accepted legacy owner role", "guest1", collab(model.RoleOwner, model.CollabAccepted), Editor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(testProject(), tt.userID, tt.collab)
			if got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecide_RowForWrongPair(t *testing.T) {
	// A collaboration row for a different project (or user) must never
	// leak capability onto this project.
	c := collab(model.RoleCollaborator, model.CollabAccepted)
	c.ProjectID = "other-project"

	if got := Decide(testProject(), "guest1", c); got != None {
		t.Errorf("Decide() with mismatched row = %v, want None", got)
	}
}

func TestCapability_Checks(t *testing.T) {
	tests := []struct {
		cap       Capability
		access    bool
		edit      bool
		invite    bool
	}{
		{None, false, false, false},
		{Viewer, true, false, false},
		{Editor, true, true, false},
		{Owner, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.cap.String(), func(t *testing.T) {
			if got := tt.cap.CanAccess(); got != tt.access {
				t.Errorf("CanAccess() = %v, want %v", got, tt.access)
			}
			if got := tt.cap.CanEdit(); got != tt.edit {
				t.Errorf("CanEdit() = %v, want %v", got, tt.edit)
			}
			if got := tt.cap.CanInvite(); got != tt.invite {
				t.Errorf("CanInvite() = %v, want %v", got, tt.invite)
			}
		})
	}
}

func TestWithOwner(t *testing.T) {
	p := testProject()
	owner := &model.User{ID: "owner1", Email: "owner@uni.edu", Name: "Owner"}
	rows := []model.Collaboration{
		*collab(model.RoleCollaborator, model.CollabAccepted),
		{ID: "c2", ProjectID: "proj1", UserID: "guest2", Role: model.RoleViewer, Status: model.CollabPending},
	}

	got := WithOwner(p, owner, rows)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (owner + 1 accepted; pending filtered)", len(got))
	}

	// Owner comes first, synthesized.
	first := got[0]
	if first.UserID != "owner1" || first.Role != model.RoleOwner || first.Status != model.CollabAccepted {
		t.Errorf("first entry = %+v, want synthetic accepted owner", first)
	}
	if first.UserEmail != "owner@uni.edu" {
		t.Errorf("owner email = %q, want filled from user record", first.UserEmail)
	}
	if got[1].UserID != "guest1" {
		t.Errorf("second entry = %+v, want accepted collaborator", got[1])
	}
}

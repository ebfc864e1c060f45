package model

import "time"

// CollaborationRole is the role an invitee was granted.
//
// RoleOwner as a STORED value is a compatibility artifact: real ownership
// lives in Project.UserID and is never represented as a collaboration
// row. A stored "owner" role grants edit capability like RoleCollaborator
// but never invite rights. New invitations are restricted to
// RoleCollaborator and RoleViewer.
type CollaborationRole string

const (
	RoleOwner        CollaborationRole = "owner"
	RoleCollaborator CollaborationRole = "collaborator"
	RoleViewer       CollaborationRole = "viewer"
)

// InvitableRole reports whether r may be used on a new invitation.
func InvitableRole(r CollaborationRole) bool {
	return r == RoleCollaborator || r == RoleViewer
}

// CollaborationStatus is the invitation lifecycle state.
//
// The only transitions are pending → accepted and pending → declined,
// both performed by the invited user. Accepted and declined are
// terminal — there is no revoke and no re-invite after decline (the row
// persists and the unique (project, user) constraint blocks duplicates).
type CollaborationStatus string

const (
	CollabPending  CollaborationStatus = "pending"
	CollabAccepted CollaborationStatus = "accepted"
	CollabDeclined CollaborationStatus = "declined"
)

// Collaboration links an invited user to a project.
// At most one row exists per (project, user) pair.
type Collaboration struct {
	ID         string              `json:"id"`
	ProjectID  string              `json:"projectId"`
	UserID     string              `json:"userId"` // the invitee
	Role       CollaborationRole   `json:"role"`
	Status     CollaborationStatus `json:"status"`
	InvitedAt  time.Time           `json:"invitedAt"`
	AcceptedAt *time.Time          `json:"acceptedAt,omitempty"`

	// UserEmail and UserName are read-side conveniences filled by
	// list queries (JOIN on users); never written back.
	UserEmail string `json:"userEmail,omitempty"`
	UserName  string `json:"userName,omitempty"`
}

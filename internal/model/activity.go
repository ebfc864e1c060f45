package model

import "time"

// Common activity action verbs. The action column is free-form text, but
// the services stick to this vocabulary so the feed is greppable.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionInvited  = "invited"
	ActionAccepted = "accepted"
	ActionDeclined = "declined"
	ActionUploaded = "uploaded"
	ActionLogged   = "logged"
)

// ActivityLog is one immutable entry in the append-only audit trail.
// Entries are written in the same database transaction as the mutation
// they describe, and are never updated or deleted by the system.
//
// ProjectID is empty for actions without a project association. It is an
// association, not ownership: deleting a project detaches its entries
// (project id cleared) rather than deleting them, keeping the trail
// append-only.
type ActivityLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"` // the actor
	Action      string    `json:"action"`
	EntityType  string    `json:"entityType"` // "project", "task", "file", ...
	EntityID    string    `json:"entityId"`
	Description string    `json:"description"`
	ProjectID   string    `json:"projectId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

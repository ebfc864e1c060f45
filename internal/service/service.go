// Package service contains the business logic layer of the application.
//
// Handlers parse HTTP and delegate here; this layer enforces the rules
// and orchestrates repositories, the access engine, the storage gateway
// and the mailer. Services accept primitives and return domain errors —
// they have zero knowledge of HTTP.
//
// THE ACCESS DISCIPLINE:
// Every project-scoped operation follows the same sequence:
//
//	check access → mutate → log
//
// The check runs first and no state changes on failure. The mutation
// and its activity-log entry run inside one store transaction
// (Store.InTx) so they commit or roll back together.
//
// ERROR SHAPE FOR INVISIBLE PROJECTS:
// A caller with NO capability on a project gets NotFound, not
// Forbidden — the project's existence is not leaked to strangers.
// Forbidden is reserved for callers who can see the project but lack
// the specific capability (e.g. a viewer attempting an edit).
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sakif/studytrack/internal/access"
	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// Activity feed bounds, enforced wherever a caller-specified count
// reaches the repository.
const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

// capabilityFor loads the project and the caller's collaboration row
// (if any) and derives the caller's capability. This is the single
// entry point services use to consult the access engine.
//
// Returns NotFound when the project doesn't exist. A missing
// collaboration row is not an error — it just means the caller has no
// shared access.
func capabilityFor(ctx context.Context, store repository.Store, projectID, userID string) (access.Capability, *model.Project, error) {
	project, err := store.GetProjectByID(ctx, projectID)
	if err != nil {
		return access.None, nil, err
	}

	collab, err := store.GetCollaborationForUser(ctx, projectID, userID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return access.None, nil, fmt.Errorf("loading collaboration: %w", err)
		}
		collab = nil
	}

	return access.Decide(project, userID, collab), project, nil
}

// requireAccess resolves the capability and enforces read visibility:
// a caller with no capability gets NotFound, hiding the project.
func requireAccess(ctx context.Context, store repository.Store, projectID, userID string) (access.Capability, *model.Project, error) {
	cap, project, err := capabilityFor(ctx, store, projectID, userID)
	if err != nil {
		return access.None, nil, err
	}
	if !cap.CanAccess() {
		return access.None, nil, apperror.NotFound("project", projectID)
	}
	return cap, project, nil
}

// requireEdit is requireAccess plus the edit capability. Viewers get
// Forbidden — they can see the project, so hiding it would be wrong.
func requireEdit(ctx context.Context, store repository.Store, projectID, userID string) (*model.Project, error) {
	cap, project, err := requireAccess(ctx, store, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !cap.CanEdit() {
		return nil, apperror.Forbidden("read-only collaborators cannot modify this project")
	}
	return project, nil
}

// newActivity builds an audit entry for a mutation. Callers record it
// through the same transactional store the mutation used.
func newActivity(actorID, action, entityType, entityID, description, projectID string) *model.ActivityLog {
	return &model.ActivityLog{
		UserID:      actorID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		ProjectID:   projectID,
	}
}

// clampLimit applies the activity feed bounds.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		return MaxActivityLimit
	}
	return limit
}

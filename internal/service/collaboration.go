package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/studytrack/internal/access"
	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/mailer"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// CollaborationService owns the invitation lifecycle:
//
//	(owner invites) → pending → accepted | declined
//
// Both outcomes are terminal. There is no revoke operation and no
// re-invite after decline: the row persists and the unique
// (project, user) constraint rejects a second invite as a duplicate.
type CollaborationService struct {
	store  repository.Store
	mail   mailer.Mailer
	logger *slog.Logger
}

// NewCollaborationService creates a CollaborationService.
func NewCollaborationService(store repository.Store, mail mailer.Mailer, logger *slog.Logger) *CollaborationService {
	return &CollaborationService{
		store:  store,
		mail:   mail,
		logger: logger,
	}
}

// Invite creates a pending invitation for the user behind inviteeEmail.
//
// Rules, checked in order, nothing mutated on failure:
//   - inviter must be the project OWNER (Forbidden otherwise — an
//     accepted collaborator cannot sub-invite, whatever their role)
//   - inviteeEmail must match a registered user, case-insensitively
//     (NotFound otherwise)
//   - the invitee must not be the owner (Conflict: ownership already
//     grants everything and is not representable as a collaboration)
//   - no row may already exist for (project, invitee), whatever its
//     status (Conflict)
//   - role must be collaborator or viewer — "owner" is not invitable
//
// The row insert and the activity entry share one transaction. The
// mailer notification runs after commit and is best-effort.
func (s *CollaborationService) Invite(ctx context.Context, projectID, inviterID, inviteeEmail string, role model.CollaborationRole) (*model.Collaboration, error) {
	if !model.InvitableRole(role) {
		return nil, apperror.ValidationFailed("role",
			fmt.Sprintf("role must be %q or %q", model.RoleCollaborator, model.RoleViewer))
	}
	inviteeEmail = strings.TrimSpace(inviteeEmail)
	if inviteeEmail == "" {
		return nil, apperror.ValidationFailed("email", "invitee email is required")
	}

	cap, project, err := requireAccess(ctx, s.store, projectID, inviterID)
	if err != nil {
		return nil, err
	}
	if !cap.CanInvite() {
		return nil, apperror.Forbidden("only the project owner can invite collaborators")
	}

	invitee, err := s.store.GetUserByEmail(ctx, inviteeEmail)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("user", inviteeEmail)
		}
		return nil, fmt.Errorf("looking up invitee: %w", err)
	}

	if invitee.ID == project.UserID {
		return nil, apperror.Conflict("the project owner is already a collaborator")
	}

	// Pre-check for an existing row to give a clean error. The unique
	// constraint still backstops the race between two concurrent
	// invites — CreateCollaboration maps the loser to the same
	// Conflict.
	if _, err := s.store.GetCollaborationForUser(ctx, projectID, invitee.ID); err == nil {
		return nil, apperror.Conflict("user is already a collaborator on this project")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking existing collaboration: %w", err)
	}

	collab := &model.Collaboration{
		ProjectID: projectID,
		UserID:    invitee.ID,
		Role:      role,
		Status:    model.CollabPending,
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateCollaboration(ctx, collab); err != nil {
			return err
		}
		return tx.RecordActivity(ctx, newActivity(
			inviterID, model.ActionInvited, "collaboration", collab.ID,
			fmt.Sprintf("invited %s as %s", invitee.Email, role), projectID))
	})
	if err != nil {
		return nil, err
	}

	// Notification is best-effort by contract: a delivery failure is
	// logged, never surfaced.
	inviter, lookupErr := s.store.GetUserByID(ctx, inviterID)
	inviterName := inviterID
	if lookupErr == nil {
		inviterName = inviter.Name
	}
	if mailErr := s.mail.SendInvitation(ctx, invitee.Email, inviterName, project.Title, string(role)); mailErr != nil {
		s.logger.Warn("invitation notification failed",
			slog.String("to", invitee.Email),
			slog.String("error", mailErr.Error()),
		)
	}

	s.logger.Info("collaborator invited",
		slog.String("project", projectID),
		slog.String("invitee", invitee.ID),
		slog.String("role", string(role)),
	)
	return collab, nil
}

// Accept transitions a pending invitation to accepted and stamps the
// acceptance time. Only the invited user may accept; any non-pending
// status is an InvalidState — including a second accept.
func (s *CollaborationService) Accept(ctx context.Context, collabID, actorID string) (*model.Collaboration, error) {
	return s.transition(ctx, collabID, actorID, model.CollabAccepted)
}

// Decline transitions a pending invitation to declined. Same
// authorization rule as Accept; declined is terminal.
func (s *CollaborationService) Decline(ctx context.Context, collabID, actorID string) (*model.Collaboration, error) {
	return s.transition(ctx, collabID, actorID, model.CollabDeclined)
}

func (s *CollaborationService) transition(ctx context.Context, collabID, actorID string, to model.CollaborationStatus) (*model.Collaboration, error) {
	collab, err := s.store.GetCollaborationByID(ctx, collabID)
	if err != nil {
		return nil, err
	}

	// Authorization before state: a stranger probing someone else's
	// invitation learns nothing about its status.
	if collab.UserID != actorID {
		return nil, apperror.Forbidden("only the invited user can respond to this invitation")
	}
	if collab.Status != model.CollabPending {
		return nil, apperror.InvalidState(
			fmt.Sprintf("invitation is %s, only pending invitations can be %s", collab.Status, to))
	}

	collab.Status = to
	action := model.ActionDeclined
	if to == model.CollabAccepted {
		now := time.Now()
		collab.AcceptedAt = &now
		action = model.ActionAccepted
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.UpdateCollaborationStatus(ctx, collab); err != nil {
			return err
		}
		return tx.RecordActivity(ctx, newActivity(
			actorID, action, "collaboration", collab.ID,
			fmt.Sprintf("%s invitation to project", action), collab.ProjectID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invitation "+action,
		slog.String("collaboration", collabID),
		slog.String("user", actorID),
	)
	return collab, nil
}

// ListCollaborators returns the project's collaborator roster for any
// caller with access: the owner first (synthesized — ownership has no
// row), then accepted collaborators in stored order.
func (s *CollaborationService) ListCollaborators(ctx context.Context, projectID, userID string) ([]model.Collaboration, error) {
	_, project, err := requireAccess(ctx, s.store, projectID, userID)
	if err != nil {
		return nil, err
	}

	accepted, err := s.store.ListCollaborationsByProject(ctx, projectID, model.CollabAccepted)
	if err != nil {
		return nil, fmt.Errorf("listing collaborators: %w", err)
	}

	owner, err := s.store.GetUserByID(ctx, project.UserID)
	if err != nil {
		// The roster is still useful without the owner's name.
		s.logger.Warn("owner lookup failed for roster",
			slog.String("project", projectID),
			slog.String("error", err.Error()),
		)
		owner = nil
	}

	return access.WithOwner(project, owner, accepted), nil
}

// ListInvitations returns the caller's pending invitation inbox.
func (s *CollaborationService) ListInvitations(ctx context.Context, userID string) ([]model.Collaboration, error) {
	invitations, err := s.store.ListPendingCollaborationsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing invitations: %w", err)
	}
	return invitations, nil
}

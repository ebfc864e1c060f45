package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/service"
)

// CollaborationHandler serves the invitation lifecycle and the
// collaborator roster.
type CollaborationHandler struct {
	collabs *service.CollaborationService
	logger  *slog.Logger
}

// NewCollaborationHandler creates a CollaborationHandler.
func NewCollaborationHandler(collabs *service.CollaborationService, logger *slog.Logger) *CollaborationHandler {
	return &CollaborationHandler{collabs: collabs, logger: logger}
}

// HandleListCollaborators returns the roster: owner first, then
// accepted collaborators.
//
// HTTP: GET /api/projects/{id}/collaborators
func (h *CollaborationHandler) HandleListCollaborators(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	roster, err := h.collabs.ListCollaborators(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// HandleInvite creates a pending invitation. Owner only.
//
// HTTP: POST /api/projects/{id}/collaborators
func (h *CollaborationHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Email string                  `json:"email"`
		Role  model.CollaborationRole `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	collab, err := h.collabs.Invite(r.Context(), chi.URLParam(r, "id"), userID, req.Email, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, collab)
}

// HandleListInvitations returns the caller's pending invitation inbox.
//
// HTTP: GET /api/invitations
func (h *CollaborationHandler) HandleListInvitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	inbox, err := h.collabs.ListInvitations(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inbox)
}

// HandleAccept accepts a pending invitation. Invitee only.
//
// HTTP: POST /api/invitations/{id}/accept
func (h *CollaborationHandler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	collab, err := h.collabs.Accept(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, collab)
}

// HandleDecline declines a pending invitation. Invitee only.
//
// HTTP: POST /api/invitations/{id}/decline
func (h *CollaborationHandler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	collab, err := h.collabs.Decline(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, collab)
}

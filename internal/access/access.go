// Package access is the access control engine: it decides what a user
// may do on a project.
//
// DESIGN:
// The engine is a pure function over records the caller already loaded —
// it performs no I/O and has no side effects. Services call Decide once
// per request with the project and the requester's collaboration row
// (if any), get back a Capability, and branch on it.
//
// WHY A DERIVED SUM TYPE?
// The stored Collaboration.Role string can say "owner" even though real
// ownership lives in Project.UserID — a data-modeling artifact. Deriving
// a single Capability value in one place removes that ambiguity: the
// rest of the codebase never inspects role strings or owner IDs, it only
// asks CanEdit / CanInvite on the derived value.
package access

import "github.com/sakif/studytrack/internal/model"

// Capability is the derived permission level of a (user, project) pair.
// The levels are strictly ordered: each one includes everything below it,
// except that Invite is reserved to Owner alone.
type Capability int

const (
	// None: no ownership and no accepted collaboration. The project is
	// invisible to this user.
	None Capability = iota

	// Viewer: accepted collaboration with the viewer role. Read-only.
	Viewer

	// Editor: accepted collaboration with an edit-capable role
	// (collaborator, or the legacy "owner" role string).
	Editor

	// Owner: Project.UserID matches the user. Sole holder of invite
	// and delete rights.
	Owner
)

// String returns the capability name, mainly for logs.
func (c Capability) String() string {
	switch c {
	case Owner:
		return "owner"
	case Editor:
		return "editor"
	case Viewer:
		return "viewer"
	default:
		return "none"
	}
}

// CanAccess reports whether the user may read the project and its
// tasks, notes, sessions and files.
func (c Capability) CanAccess() bool { return c >= Viewer }

// CanEdit reports whether the user may mutate project content.
// A viewer-role collaboration fails this check.
func (c Capability) CanEdit() bool { return c >= Editor }

// CanInvite reports whether the user may invite collaborators.
// Only the real owner qualifies — an accepted collaboration whose stored
// role string happens to be "owner" does NOT grant invite rights
// (ownership is not transitive through invitations).
func (c Capability) CanInvite() bool { return c == Owner }

// Decide derives the capability of userID on project, given that user's
// collaboration row (nil when none exists).
//
// The rules, in order:
//   - project owner → Owner, regardless of any collaboration row
//   - no row, or a row that isn't accepted (pending/declined) → None
//   - accepted viewer role → Viewer
//   - accepted collaborator or owner role → Editor
func Decide(project *model.Project, userID string, collab *model.Collaboration) Capability {
	if project == nil || userID == "" {
		return None
	}
	if project.UserID == userID {
		return Owner
	}
	if collab == nil || collab.Status != model.CollabAccepted {
		return None
	}
	// Defensive: the row must actually belong to this pair.
	if collab.ProjectID != project.ID || collab.UserID != userID {
		return None
	}
	if collab.Role == model.RoleViewer {
		return Viewer
	}
	return Editor
}

// WithOwner returns the project's collaborator listing: a synthetic
// entry for the owner first (role owner, status accepted), followed by
// the accepted collaborations in the order they were supplied. Pending
// and declined rows are filtered out.
func WithOwner(project *model.Project, owner *model.User, accepted []model.Collaboration) []model.Collaboration {
	out := make([]model.Collaboration, 0, len(accepted)+1)

	ownerEntry := model.Collaboration{
		ProjectID: project.ID,
		UserID:    project.UserID,
		Role:      model.RoleOwner,
		Status:    model.CollabAccepted,
		InvitedAt: project.CreatedAt,
	}
	if owner != nil {
		ownerEntry.UserEmail = owner.Email
		ownerEntry.UserName = owner.Name
	}
	out = append(out, ownerEntry)

	for _, c := range accepted {
		if c.Status == model.CollabAccepted {
			out = append(out, c)
		}
	}
	return out
}

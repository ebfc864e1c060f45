// Package repository defines the data-access interfaces the service
// layer programs against. The sqlite subpackage provides the only
// concrete implementation; tests substitute in-memory databases.
package repository

import (
	"context"
	"time"

	"github.com/sakif/studytrack/internal/model"
)

// ActivityListOptions bounds and filters an activity query.
// Entries always come back most-recent-first.
type ActivityListOptions struct {
	ProjectID string // filter to one project; empty = no filter
	UserID    string // filter to one actor; empty = no filter
	Limit     int    // caller-specified bound; clamped by the service
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// GetUserByEmail matches case-insensitively (emails are stored
	// lower-cased, lookups lower-case the argument).
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// UpsertGitHubUser inserts or updates a user keyed on GitHubID.
	UpsertGitHubUser(ctx context.Context, user *model.User) error
}

type ProjectRepository interface {
	CreateProject(ctx context.Context, project *model.Project) error
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
	ListProjectsByOwner(ctx context.Context, userID string) ([]model.Project, error)
	// ListProjectsSharedWith returns projects the user has an ACCEPTED
	// collaboration on (any role), newest first.
	ListProjectsSharedWith(ctx context.Context, userID string) ([]model.Project, error)
	UpdateProject(ctx context.Context, project *model.Project) error
	// DeleteProject removes the project; tasks, notes, sessions, files
	// and collaborations go with it via ON DELETE CASCADE, while
	// activity entries are detached (project id cleared), not deleted.
	DeleteProject(ctx context.Context, id string) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	ListTasksByProject(ctx context.Context, projectID string) ([]model.Task, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id string) error
}

type NoteRepository interface {
	CreateNote(ctx context.Context, note *model.ProjectNote) error
	GetNoteByID(ctx context.Context, id string) (*model.ProjectNote, error)
	ListNotesByProject(ctx context.Context, projectID string) ([]model.ProjectNote, error)
	DeleteNote(ctx context.Context, id string) error
}

type StudySessionRepository interface {
	CreateStudySession(ctx context.Context, session *model.StudySession) error
	ListStudySessionsByUser(ctx context.Context, userID string, since time.Time) ([]model.StudySession, error)
	// SumStudyMinutes totals a user's logged minutes since the given time.
	SumStudyMinutes(ctx context.Context, userID string, since time.Time) (int, error)
	// SumStudyMinutesByProject breaks the same total down per project.
	SumStudyMinutesByProject(ctx context.Context, userID string, since time.Time) (map[string]int, error)
}

type CourseRepository interface {
	CreateCourse(ctx context.Context, course *model.Course) error
	ListCoursesByUser(ctx context.Context, userID string) ([]model.Course, error)
}

type CollaborationRepository interface {
	// CreateCollaboration inserts a pending invitation. Returns
	// apperror.ErrConflict if a row already exists for the
	// (project, user) pair — the unique constraint serializes
	// concurrent invites, the loser surfaces as a conflict.
	CreateCollaboration(ctx context.Context, collab *model.Collaboration) error
	GetCollaborationByID(ctx context.Context, id string) (*model.Collaboration, error)
	// GetCollaborationForUser returns the row for (projectID, userID)
	// regardless of status, or apperror.ErrNotFound when none exists.
	GetCollaborationForUser(ctx context.Context, projectID, userID string) (*model.Collaboration, error)
	// ListCollaborationsByProject returns rows with the given status
	// (empty = all), with UserEmail/UserName filled from the join.
	ListCollaborationsByProject(ctx context.Context, projectID string, status model.CollaborationStatus) ([]model.Collaboration, error)
	ListPendingCollaborationsForUser(ctx context.Context, userID string) ([]model.Collaboration, error)
	// UpdateCollaborationStatus performs the lifecycle transition and
	// stamps AcceptedAt for accepts.
	UpdateCollaborationStatus(ctx context.Context, collab *model.Collaboration) error
}

type ActivityRepository interface {
	RecordActivity(ctx context.Context, entry *model.ActivityLog) error
	ListActivity(ctx context.Context, opts ActivityListOptions) ([]model.ActivityLog, error)
}

type FileRepository interface {
	CreateProjectFile(ctx context.Context, file *model.ProjectFile) error
	GetProjectFileByID(ctx context.Context, id string) (*model.ProjectFile, error)
	ListProjectFilesByProject(ctx context.Context, projectID string) ([]model.ProjectFile, error)
	DeleteProjectFile(ctx context.Context, id string) error
}

type SearchRepository interface {
	// SearchContent finds projects, tasks and notes whose title or text
	// contains the query (case-insensitive), restricted to the given
	// project IDs. The caller supplies only IDs the user may access.
	SearchContent(ctx context.Context, projectIDs []string, query string, limit int) ([]model.SearchResult, error)
}

// Store is the full persistence surface plus the transactional boundary.
//
// InTx runs fn against a Store view whose operations all share one
// database transaction: if fn returns an error the transaction rolls
// back, otherwise it commits. Services use this to pair a mutation with
// its activity-log entry so both commit or neither does.
type Store interface {
	UserRepository
	ProjectRepository
	TaskRepository
	NoteRepository
	StudySessionRepository
	CourseRepository
	CollaborationRepository
	ActivityRepository
	FileRepository
	SearchRepository

	InTx(ctx context.Context, fn func(Store) error) error
}

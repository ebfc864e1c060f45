package model

import "time"

// ProjectStatus is the lifecycle state of a project.
//
// The values are display strings (not SCREAMING_SNAKE constants) because
// they're stored and rendered as-is. ValidProjectStatus guards writes.
type ProjectStatus string

const (
	StatusNotStarted ProjectStatus = "Not Started"
	StatusInProgress ProjectStatus = "In Progress"
	StatusOnHold     ProjectStatus = "On Hold"
	StatusCompleted  ProjectStatus = "Completed"
)

// ValidProjectStatus reports whether s is one of the known statuses.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusOnHold, StatusCompleted:
		return true
	}
	return false
}

// Project is an academic project: coursework, thesis chapters, group
// assignments. It is the unit of sharing — tasks, notes, study sessions
// and files all hang off a project and inherit its access decision.
//
// OWNERSHIP:
// UserID is the owner, fixed at creation and never changed. Ownership is
// NOT represented as a Collaboration row; the access package derives the
// Owner capability directly from this field.
type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Course      string        `json:"course"` // free-text course tag, e.g. "CS-301"
	Status      ProjectStatus `json:"status"`
	Deadline    *time.Time    `json:"deadline,omitempty"`
	UserID      string        `json:"userId"` // owner, immutable
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

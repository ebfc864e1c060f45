package model

import "time"

// SearchResult is one hit from a cross-content search. EntityType says
// what matched ("project", "task", "note"); ProjectID always points at
// the project the hit belongs to so the client can link into it.
type SearchResult struct {
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	ProjectID  string    `json:"projectId"`
	Title      string    `json:"title"`   // project/task title, note excerpt
	Snippet    string    `json:"snippet"` // matched text context
	CreatedAt  time.Time `json:"createdAt"`
}

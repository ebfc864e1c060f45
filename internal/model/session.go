package model

import "time"

// StudySession records time spent working on a project, in whole minutes.
// Sessions belong to both the project and the user who logged them, so
// analytics can slice either way.
type StudySession struct {
	ID              string    `json:"id"`
	ProjectID       string    `json:"projectId"`
	UserID          string    `json:"userId"`
	DurationMinutes int       `json:"durationMinutes"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"createdAt"`
}

// StudySummary aggregates a user's recent study activity for the
// analytics view: totals over the window plus a per-project breakdown.
type StudySummary struct {
	TotalMinutes    int            `json:"totalMinutes"`
	TotalSessions   int            `json:"totalSessions"`
	WeeklyMinutes   int            `json:"weeklyMinutes"`
	MinutesByProjID map[string]int `json:"minutesByProject"`
}

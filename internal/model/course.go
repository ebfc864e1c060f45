package model

import "time"

// Course is a user's enrolled course. Projects reference courses by the
// free-text Course tag rather than a foreign key, so courses can be
// managed (or ignored) independently of projects.
type Course struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Code       string    `json:"code"` // e.g. "CS-301"
	Semester   string    `json:"semester"`
	Year       int       `json:"year"`
	Instructor string    `json:"instructor"`
	Credits    int       `json:"credits"`
	CreatedAt  time.Time `json:"createdAt"`
}

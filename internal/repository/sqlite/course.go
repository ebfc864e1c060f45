package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// compile-time check that *DB implements repository.CourseRepository
var _ repository.CourseRepository = (*DB)(nil)

func (db *DB) CreateCourse(ctx context.Context, course *model.Course) error {
	course.ID = xid.New().String()
	course.CreatedAt = time.Now()

	_, err := db.q.ExecContext(ctx,
		`INSERT INTO courses (id, user_id, name, code, semester, year, instructor, credits, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		course.ID,
		course.UserID,
		course.Name,
		course.Code,
		course.Semester,
		course.Year,
		course.Instructor,
		course.Credits,
		course.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating course: %w", err)
	}
	return nil
}

// ListCoursesByUser returns the user's courses, most recent year first.
func (db *DB) ListCoursesByUser(ctx context.Context, userID string) ([]model.Course, error) {
	rows, err := db.q.QueryContext(ctx,
		`SELECT id, user_id, name, code, semester, year, instructor, credits, created_at
		 FROM courses WHERE user_id = ?
		 ORDER BY year DESC, semester`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Code, &c.Semester, &c.Year, &c.Instructor, &c.Credits, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating courses: %w", err)
	}
	return courses, nil
}

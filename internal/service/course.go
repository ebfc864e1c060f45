package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// CourseService manages a user's course list. Courses are personal
// bookkeeping — they are never shared and never access-checked beyond
// ownership.
type CourseService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewCourseService creates a CourseService.
func NewCourseService(store repository.Store, logger *slog.Logger) *CourseService {
	return &CourseService{store: store, logger: logger}
}

// CourseInput carries the course fields from the caller.
type CourseInput struct {
	Name       string
	Code       string
	Semester   string
	Year       int
	Instructor string
	Credits    int
}

func (in *CourseInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)

	if in.Name == "" {
		return apperror.ValidationFailed("name", "course name is required")
	}
	if len(in.Name) > MaxCourseLength {
		return apperror.ValidationFailed("name",
			fmt.Sprintf("course name must be %d characters or less", MaxCourseLength))
	}
	if in.Year != 0 {
		current := time.Now().Year()
		if in.Year < 1900 || in.Year > current+10 {
			return apperror.ValidationFailed("year", "course year is out of range")
		}
	}
	if in.Credits < 0 {
		return apperror.ValidationFailed("credits", "credits cannot be negative")
	}
	return nil
}

// Create adds a course for the caller.
func (s *CourseService) Create(ctx context.Context, userID string, in CourseInput) (*model.Course, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	course := &model.Course{
		UserID:     userID,
		Name:       in.Name,
		Code:       in.Code,
		Semester:   in.Semester,
		Year:       in.Year,
		Instructor: in.Instructor,
		Credits:    in.Credits,
	}

	if err := s.store.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("creating course: %w", err)
	}
	return course, nil
}

// List returns the caller's courses.
func (s *CourseService) List(ctx context.Context, userID string) ([]model.Course, error) {
	courses, err := s.store.ListCoursesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return courses, nil
}

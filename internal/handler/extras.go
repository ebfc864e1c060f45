package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/studytrack/internal/service"
)

// ExtrasHandler groups the smaller read-mostly endpoints: courses,
// search, study analytics and the activity feeds.
type ExtrasHandler struct {
	courses  *service.CourseService
	search   *service.SearchService
	study    *service.StudyService
	activity *service.ActivityService
	logger   *slog.Logger
}

// NewExtrasHandler creates an ExtrasHandler.
func NewExtrasHandler(
	courses *service.CourseService,
	search *service.SearchService,
	study *service.StudyService,
	activity *service.ActivityService,
	logger *slog.Logger,
) *ExtrasHandler {
	return &ExtrasHandler{
		courses:  courses,
		search:   search,
		study:    study,
		activity: activity,
		logger:   logger,
	}
}

// HandleListCourses returns the caller's courses.
//
// HTTP: GET /api/courses
func (h *ExtrasHandler) HandleListCourses(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	courses, err := h.courses.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

// HandleCreateCourse adds a course for the caller.
//
// HTTP: POST /api/courses
func (h *ExtrasHandler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Name       string `json:"name"`
		Code       string `json:"code"`
		Semester   string `json:"semester"`
		Year       int    `json:"year"`
		Instructor string `json:"instructor"`
		Credits    int    `json:"credits"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	course, err := h.courses.Create(r.Context(), userID, service.CourseInput{
		Name:       req.Name,
		Code:       req.Code,
		Semester:   req.Semester,
		Year:       req.Year,
		Instructor: req.Instructor,
		Credits:    req.Credits,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// HandleSearch runs a cross-content search over the caller's visible
// projects.
//
// HTTP: GET /api/search?q=term
func (h *ExtrasHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	results, err := h.search.Search(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// HandleStudySummary returns the caller's 30-day study analytics.
//
// HTTP: GET /api/study/summary
func (h *ExtrasHandler) HandleStudySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	summary, err := h.study.Summary(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// HandleRecentSessions returns the caller's recent study sessions.
//
// HTTP: GET /api/study/sessions
func (h *ExtrasHandler) HandleRecentSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	sessions, err := h.study.Recent(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// HandleProjectActivity returns a project's recent activity.
//
// HTTP: GET /api/projects/{id}/activity?limit=N
func (h *ExtrasHandler) HandleProjectActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	entries, err := h.activity.ForProject(r.Context(), chi.URLParam(r, "id"), userID, queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleUserActivity returns the caller's own recent actions.
//
// HTTP: GET /api/activity?limit=N
func (h *ExtrasHandler) HandleUserActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	entries, err := h.activity.ForUser(r.Context(), userID, queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// queryLimit parses ?limit=N; 0 lets the service apply its default.
func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return n
}

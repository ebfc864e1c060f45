package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/auth"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/service"
)

// requireUser pulls the authenticated user's ID out of the context.
// Routes behind RequireAuth always have one; the fallback 401 covers
// misconfigured routing.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return "", false
	}
	return userID, true
}

// ProjectHandler serves project CRUD plus the nested task, note and
// study-session routes.
type ProjectHandler struct {
	projects *service.ProjectService
	tasks    *service.TaskService
	notes    *service.NoteService
	study    *service.StudyService
	logger   *slog.Logger
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(
	projects *service.ProjectService,
	tasks *service.TaskService,
	notes *service.NoteService,
	study *service.StudyService,
	logger *slog.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		tasks:    tasks,
		notes:    notes,
		study:    study,
		logger:   logger,
	}
}

type projectRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Course      string              `json:"course"`
	Status      model.ProjectStatus `json:"status"`
	Deadline    *time.Time          `json:"deadline"`
}

func (req projectRequest) toInput() service.ProjectInput {
	return service.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Course:      req.Course,
		Status:      req.Status,
		Deadline:    req.Deadline,
	}
}

// HandleList returns the caller's projects, owned and shared kept
// apart so the client can render them separately.
//
// HTTP: GET /api/projects
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	owned, shared, err := h.projects.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"owned":  owned,
		"shared": shared,
	})
}

// HandleCreate creates a project owned by the caller.
//
// HTTP: POST /api/projects
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.projects.Create(r.Context(), userID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// HandleGet returns one project.
//
// HTTP: GET /api/projects/{id}
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	project, err := h.projects.Get(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// HandleUpdate replaces a project's mutable fields.
//
// HTTP: PUT /api/projects/{id}
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req projectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	project, err := h.projects.Update(r.Context(), chi.URLParam(r, "id"), userID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// HandleDelete removes a project. Owner only.
//
// HTTP: DELETE /api/projects/{id}
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.projects.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type taskRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      model.TaskStatus `json:"status"`
	Priority    model.Priority   `json:"priority"`
	DueDate     *time.Time       `json:"dueDate"`
}

func (req taskRequest) toInput() service.TaskInput {
	return service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
}

// HandleListTasks returns a project's tasks.
//
// HTTP: GET /api/projects/{id}/tasks
func (h *ProjectHandler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.List(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// HandleCreateTask adds a task to a project.
//
// HTTP: POST /api/projects/{id}/tasks
func (h *ProjectHandler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), chi.URLParam(r, "id"), userID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// HandleUpdateTask replaces a task's fields. The task ID alone
// identifies it; access follows its own project.
//
// HTTP: PUT /api/tasks/{taskID}
func (h *ProjectHandler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), chi.URLParam(r, "taskID"), userID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// HandleDeleteTask removes a task.
//
// HTTP: DELETE /api/tasks/{taskID}
func (h *ProjectHandler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), chi.URLParam(r, "taskID"), userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListNotes returns a project's notes.
//
// HTTP: GET /api/projects/{id}/notes
func (h *ProjectHandler) HandleListNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	notes, err := h.notes.List(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// HandleCreateNote adds a note to a project.
//
// HTTP: POST /api/projects/{id}/notes
func (h *ProjectHandler) HandleCreateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	note, err := h.notes.Create(r.Context(), chi.URLParam(r, "id"), userID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// HandleDeleteNote removes a note.
//
// HTTP: DELETE /api/notes/{noteID}
func (h *ProjectHandler) HandleDeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.notes.Delete(r.Context(), chi.URLParam(r, "noteID"), userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLogSession records study time against a project.
//
// HTTP: POST /api/projects/{id}/sessions
func (h *ProjectHandler) HandleLogSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		DurationMinutes int    `json:"durationMinutes"`
		Description     string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.study.LogSession(r.Context(), chi.URLParam(r, "id"), userID, req.DurationMinutes, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

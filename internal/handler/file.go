package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/service"
	"github.com/sakif/studytrack/internal/storage"
)

// FileHandler serves attachment upload, download, listing and delete.
type FileHandler struct {
	files  *service.FileService
	logger *slog.Logger
}

// NewFileHandler creates a FileHandler.
func NewFileHandler(files *service.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{files: files, logger: logger}
}

// HandleList returns a project's attachments.
//
// HTTP: GET /api/projects/{id}/files
func (h *FileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	files, err := h.files.List(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// HandleUpload stores a multipart attachment. The request body is
// capped with MaxBytesReader a little above the file ceiling so the
// connection drops early on grossly oversized uploads; the storage
// layer enforces the exact per-file limit.
//
// HTTP: POST /api/projects/{id}/files (multipart field "file")
func (h *FileHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadSize+1<<20)

	part, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, apperror.TooLarge(storage.MaxUploadSize))
			return
		}
		writeError(w, apperror.ValidationFailed("file", "multipart field \"file\" is required"))
		return
	}
	defer part.Close()

	file, err := h.files.Upload(r.Context(),
		chi.URLParam(r, "id"), userID,
		header.Filename, detectMIME(header),
		part, header.Size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, file)
}

// HandleDownload streams an attachment's bytes with the original
// filename as the download name.
//
// HTTP: GET /api/files/{fileID}
func (h *FileHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	file, rc, err := h.files.Download(r.Context(), chi.URLParam(r, "fileID"), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", file.FileType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", file.FileSize))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", file.OriginalFilename))

	if _, err := io.Copy(w, rc); err != nil {
		// Headers and some bytes are gone; log and give up.
		h.logger.Warn("streaming file download",
			slog.String("file", file.ID),
			slog.String("error", err.Error()),
		)
	}
}

// HandleDelete removes an attachment.
//
// HTTP: DELETE /api/files/{fileID}
func (h *FileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.files.Delete(r.Context(), chi.URLParam(r, "fileID"), userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// detectMIME prefers the part's declared Content-Type; the storage
// layer only uses it to decide on thumbnailing, so a lie is harmless.
func detectMIME(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

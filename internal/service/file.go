package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
	"github.com/sakif/studytrack/internal/storage"
)

// FileService coordinates the storage gateway (bytes on disk) with the
// file repository (metadata rows). The two are kept consistent the
// cheap way: write bytes first, then the row; on a row failure the
// bytes are removed again. Orphaned bytes are possible only if that
// cleanup also fails, and an orphan is harmless — its random name is
// unguessable and nothing references it.
type FileService struct {
	store  repository.Store
	files  *storage.Gateway
	logger *slog.Logger
}

// NewFileService creates a FileService.
func NewFileService(store repository.Store, files *storage.Gateway, logger *slog.Logger) *FileService {
	return &FileService{
		store:  store,
		files:  files,
		logger: logger,
	}
}

// Upload stores an attachment on a project the caller can edit and
// records its metadata. r is read at most once; size is the client's
// declared length (the gateway enforces the real ceiling during the
// copy regardless).
func (s *FileService) Upload(ctx context.Context, projectID, userID, filename, mimeType string, r io.Reader, size int64) (*model.ProjectFile, error) {
	if _, err := requireEdit(ctx, s.store, projectID, userID); err != nil {
		return nil, err
	}

	stored, err := s.files.Store(r, filename, mimeType, projectID, size)
	if err != nil {
		return nil, err
	}

	file := &model.ProjectFile{
		ProjectID:        projectID,
		Filename:         stored.Filename,
		OriginalFilename: stored.OriginalFilename,
		FileSize:         stored.Size,
		FileType:         stored.MIMEType,
		FilePath:         stored.Path,
		UploadedBy:       userID,
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateProjectFile(ctx, file); err != nil {
			return err
		}
		return tx.RecordActivity(ctx, newActivity(
			userID, model.ActionUploaded, "file", file.ID,
			fmt.Sprintf("uploaded %q", file.OriginalFilename), projectID))
	})
	if err != nil {
		// The row never landed; take the bytes back out.
		if rmErr := s.files.Remove(stored.Path); rmErr != nil {
			s.logger.Warn("removing bytes after failed metadata insert",
				slog.String("path", stored.Path),
				slog.String("error", rmErr.Error()),
			)
		}
		return nil, fmt.Errorf("recording file upload: %w", err)
	}

	s.logger.Info("file uploaded",
		slog.String("project", projectID),
		slog.String("file", file.ID),
		slog.Int64("size", file.FileSize),
	)
	return file, nil
}

// List returns a project's attachments for any caller with access.
func (s *FileService) List(ctx context.Context, projectID, userID string) ([]model.ProjectFile, error) {
	if _, _, err := requireAccess(ctx, s.store, projectID, userID); err != nil {
		return nil, err
	}
	files, err := s.store.ListProjectFilesByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

// Download opens an attachment for reading. Read access to the project
// is enough. The caller must close the reader.
func (s *FileService) Download(ctx context.Context, fileID, userID string) (*model.ProjectFile, io.ReadCloser, error) {
	file, err := s.store.GetProjectFileByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	if _, _, err := requireAccess(ctx, s.store, file.ProjectID, userID); err != nil {
		return nil, nil, err
	}

	rc, err := s.files.Open(file.FilePath)
	if err != nil {
		return nil, nil, err
	}
	return file, rc, nil
}

// Delete removes an attachment: the metadata row first, then the bytes.
// Byte removal is idempotent and best-effort — a metadata-less file is
// unreachable anyway.
func (s *FileService) Delete(ctx context.Context, fileID, userID string) error {
	file, err := s.store.GetProjectFileByID(ctx, fileID)
	if err != nil {
		return err
	}
	if _, err := requireEdit(ctx, s.store, file.ProjectID, userID); err != nil {
		return err
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.DeleteProjectFile(ctx, fileID); err != nil {
			return err
		}
		return tx.RecordActivity(ctx, newActivity(
			userID, model.ActionDeleted, "file", fileID,
			fmt.Sprintf("deleted %q", file.OriginalFilename), file.ProjectID))
	})
	if err != nil {
		return fmt.Errorf("deleting file %s: %w", fileID, err)
	}

	if err := s.files.Remove(file.FilePath); err != nil {
		s.logger.Warn("removing file bytes",
			slog.String("path", file.FilePath),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

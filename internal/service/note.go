package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// MaxNoteLength bounds a note's content.
const MaxNoteLength = 20000

// NoteService handles project notes. Notes are create/read/delete only;
// there is no edit.
type NoteService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewNoteService creates a NoteService.
func NewNoteService(store repository.Store, logger *slog.Logger) *NoteService {
	return &NoteService{store: store, logger: logger}
}

// Create adds a note to a project the caller can edit. The caller
// becomes the note's author.
func (s *NoteService) Create(ctx context.Context, projectID, userID, content string) (*model.ProjectNote, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFailed("content", "note content is required")
	}
	if len(content) > MaxNoteLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("note must be %d characters or less", MaxNoteLength))
	}

	if _, err := requireEdit(ctx, s.store, projectID, userID); err != nil {
		return nil, err
	}

	note := &model.ProjectNote{
		ProjectID: projectID,
		UserID:    userID,
		Content:   content,
	}

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateNote(ctx, note); err != nil {
			return err
		}
		return tx.RecordActivity(ctx, newActivity(
			userID, model.ActionCreated, "note", note.ID,
			"added a note", projectID))
	})
	if err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}

	return note, nil
}

// List returns a project's notes for any caller with access.
func (s *NoteService) List(ctx context.Context, projectID, userID string) ([]model.ProjectNote, error) {
	if _, _, err := requireAccess(ctx, s.store, projectID, userID); err != nil {
		return nil, err
	}
	notes, err := s.store.ListNotesByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	return notes, nil
}

// Delete removes a note. Edit capability on the project is enough —
// the author does not get special treatment.
func (s *NoteService) Delete(ctx context.Context, noteID, userID string) error {
	note, err := s.store.GetNoteByID(ctx, noteID)
	if err != nil {
		return err
	}
	if _, err := requireEdit(ctx, s.store, note.ProjectID, userID); err != nil {
		return err
	}

	err = s.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.DeleteNote(ctx, noteID); err != nil {
			return err
		}
		return tx.RecordActivity(ctx, newActivity(
			userID, model.ActionDeleted, "note", noteID,
			"deleted a note", note.ProjectID))
	})
	if err != nil {
		return fmt.Errorf("deleting note %s: %w", noteID, err)
	}

	return nil
}

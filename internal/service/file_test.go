package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
	"github.com/sakif/studytrack/internal/storage"
)

func newFileService(t *testing.T) (*FileService, repository.Store) {
	t.Helper()
	store := newTestStore(t)
	gw, err := storage.New(storage.DefaultConfig(t.TempDir()), testLogger())
	require.NoError(t, err)
	return NewFileService(store, gw, testLogger()), store
}

func TestFileUpload_RoundTrip(t *testing.T) {
	svc, store := newFileService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	content := []byte("chapter one\n")
	file, err := svc.Upload(ctx, project.ID, owner.ID, "draft.txt", "text/plain",
		bytes.NewReader(content), int64(len(content)))
	require.NoError(t, err)

	assert.Equal(t, "draft.txt", file.OriginalFilename)
	assert.NotEqual(t, "draft.txt", file.Filename, "storage name must be server-generated")
	assert.Equal(t, int64(len(content)), file.FileSize)
	assert.Equal(t, owner.ID, file.UploadedBy)

	got, rc, err := svc.Download(ctx, file.ID, owner.ID)
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, file.ID, got.ID)
	read, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, read)

	entries, err := store.ListActivity(ctx, repository.ActivityListOptions{ProjectID: project.ID, Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, model.ActionUploaded, entries[0].Action)
}

func TestFileUpload_AccessRules(t *testing.T) {
	svc, store := newFileService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	viewer := createTestUser(t, store, "viewer@uni.edu")
	stranger := createTestUser(t, store, "stranger@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	addCollaborator(t, store, project.ID, viewer.ID, model.RoleViewer)

	body := strings.NewReader("data")

	_, err := svc.Upload(ctx, project.ID, viewer.ID, "a.txt", "text/plain", body, 4)
	assert.ErrorIs(t, err, apperror.ErrForbidden, "viewers cannot upload")

	_, err = svc.Upload(ctx, project.ID, stranger.ID, "a.txt", "text/plain", body, 4)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// Viewers CAN download.
	file, err := svc.Upload(ctx, project.ID, owner.ID, "a.txt", "text/plain", strings.NewReader("data"), 4)
	require.NoError(t, err)

	_, rc, err := svc.Download(ctx, file.ID, viewer.ID)
	require.NoError(t, err)
	rc.Close()

	_, _, err = svc.Download(ctx, file.ID, stranger.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFileUpload_RejectsBeforeWriting(t *testing.T) {
	svc, store := newFileService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	_, err := svc.Upload(ctx, project.ID, owner.ID, "virus.exe", "application/octet-stream",
		strings.NewReader("MZ"), 2)
	assert.ErrorIs(t, err, apperror.ErrUnsupportedType)

	_, err = svc.Upload(ctx, project.ID, owner.ID, "huge.zip", "application/zip",
		strings.NewReader(""), storage.MaxUploadSize+1)
	assert.ErrorIs(t, err, apperror.ErrTooLarge)

	files, err := svc.List(ctx, project.ID, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, files, "rejected uploads must leave no metadata")
}

func TestFileDelete_Idempotent(t *testing.T) {
	svc, store := newFileService(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner@uni.edu")
	project := createTestProject(t, store, owner.ID, "Thesis")

	file, err := svc.Upload(ctx, project.ID, owner.ID, "a.txt", "text/plain", strings.NewReader("data"), 4)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, file.ID, owner.ID))

	// Second delete: the row is gone, so NotFound.
	err = svc.Delete(ctx, file.ID, owner.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	files, err := svc.List(ctx, project.ID, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, files)
}

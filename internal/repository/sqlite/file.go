package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// compile-time check that *DB implements repository.FileRepository
var _ repository.FileRepository = (*DB)(nil)

const fileColumns = `id, project_id, filename, original_filename, file_size, file_type, file_path, uploaded_by, uploaded_at`

func (db *DB) CreateProjectFile(ctx context.Context, file *model.ProjectFile) error {
	file.ID = xid.New().String()
	file.UploadedAt = time.Now()

	_, err := db.q.ExecContext(ctx,
		`INSERT INTO project_files (`+fileColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		file.ID,
		file.ProjectID,
		file.Filename,
		file.OriginalFilename,
		file.FileSize,
		file.FileType,
		file.FilePath,
		file.UploadedBy,
		file.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating project file: %w", err)
	}
	return nil
}

func (db *DB) GetProjectFileByID(ctx context.Context, id string) (*model.ProjectFile, error) {
	var f model.ProjectFile
	err := db.q.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM project_files WHERE id = ?`, id,
	).Scan(&f.ID, &f.ProjectID, &f.Filename, &f.OriginalFilename, &f.FileSize,
		&f.FileType, &f.FilePath, &f.UploadedBy, &f.UploadedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("file", id)
		}
		return nil, fmt.Errorf("sqlite: getting project file %s: %w", id, err)
	}
	return &f, nil
}

func (db *DB) ListProjectFilesByProject(ctx context.Context, projectID string) ([]model.ProjectFile, error) {
	rows, err := db.q.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM project_files
		 WHERE project_id = ? ORDER BY uploaded_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing project files: %w", err)
	}
	defer rows.Close()

	files := []model.ProjectFile{}
	for rows.Next() {
		var f model.ProjectFile
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Filename, &f.OriginalFilename, &f.FileSize,
			&f.FileType, &f.FilePath, &f.UploadedBy, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning project file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating project files: %w", err)
	}
	return files, nil
}

func (db *DB) DeleteProjectFile(ctx context.Context, id string) error {
	res, err := db.q.ExecContext(ctx, `DELETE FROM project_files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting project file %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("file", id)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sparktown/sparkdown/internal/models"
)

// InsertFile inserts a new file. CreatedAt, UpdatedAt and LastModified
// are stamped by the store.
func (s *Store) InsertFile(ctx context.Context, f *models.File) error {
	ts := now()
	f.CreatedAt = ts
	f.UpdatedAt = ts
	f.LastModified = ts

	_, err := s.ExecContext(ctx, `
		INSERT INTO files (id, project_id, folder_id, name, path, content, language, created_at, updated_at, last_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.ProjectID, f.FolderID, f.Name, f.Path, f.Content, f.Language, f.CreatedAt, f.UpdatedAt, f.LastModified)
	if err != nil {
		return classify(err, "insert file")
	}
	return nil
}

// GetFile retrieves a file by ID
func (s *Store) GetFile(ctx context.Context, id string) (*models.File, error) {
	f := &models.File{}
	err := s.QueryRowContext(ctx, `
		SELECT id, project_id, folder_id, name, path, content, language, created_at, updated_at, last_modified
		FROM files WHERE id = ?
	`, id).Scan(&f.ID, &f.ProjectID, &f.FolderID, &f.Name, &f.Path, &f.Content, &f.Language, &f.CreatedAt, &f.UpdatedAt, &f.LastModified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("file %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, classify(err, "get file")
	}
	return f, nil
}

// ListFiles returns all files for a project
func (s *Store) ListFiles(ctx context.Context, projectID string) ([]models.File, error) {
	return s.queryFiles(ctx, `
		SELECT id, project_id, folder_id, name, path, content, language, created_at, updated_at, last_modified
		FROM files WHERE project_id = ?
		ORDER BY name ASC
	`, projectID)
}

// ListFilesInFolder returns a project's files scoped to one folder.
// A nil folderID selects root-level files.
func (s *Store) ListFilesInFolder(ctx context.Context, projectID string, folderID *string) ([]models.File, error) {
	if folderID == nil {
		return s.queryFiles(ctx, `
			SELECT id, project_id, folder_id, name, path, content, language, created_at, updated_at, last_modified
			FROM files WHERE project_id = ? AND folder_id IS NULL
			ORDER BY name ASC
		`, projectID)
	}
	return s.queryFiles(ctx, `
		SELECT id, project_id, folder_id, name, path, content, language, created_at, updated_at, last_modified
		FROM files WHERE project_id = ? AND folder_id = ?
		ORDER BY name ASC
	`, projectID, *folderID)
}

func (s *Store) queryFiles(ctx context.Context, query string, args ...any) ([]models.File, error) {
	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "list files")
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var f models.File
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.FolderID, &f.Name, &f.Path, &f.Content, &f.Language, &f.CreatedAt, &f.UpdatedAt, &f.LastModified); err != nil {
			return nil, classify(err, "scan file")
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// UpdateFileContent overwrites a file's content, stamping UpdatedAt
// and LastModified.
func (s *Store) UpdateFileContent(ctx context.Context, id, content string) error {
	ts := now()
	result, err := s.ExecContext(ctx, `
		UPDATE files SET content = ?, updated_at = ?, last_modified = ?
		WHERE id = ?
	`, content, ts, ts, id)
	if err != nil {
		return classify(err, "update file content")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("file %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteFile deletes a file. Deleting a missing id is not an error.
func (s *Store) DeleteFile(ctx context.Context, id string) error {
	_, err := s.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id)
	if err != nil {
		return classify(err, "delete file")
	}
	return nil
}

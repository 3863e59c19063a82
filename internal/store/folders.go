package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sparktown/sparkdown/internal/models"
)

// InsertFolder inserts a new folder. Timestamps are stamped by the
// store.
func (s *Store) InsertFolder(ctx context.Context, f *models.Folder) error {
	ts := now()
	f.CreatedAt = ts
	f.UpdatedAt = ts

	_, err := s.ExecContext(ctx, `
		INSERT INTO folders (id, project_id, parent_id, name, path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.ProjectID, f.ParentID, f.Name, f.Path, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return classify(err, "insert folder")
	}
	return nil
}

// GetFolder retrieves a folder by ID
func (s *Store) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	f := &models.Folder{}
	err := s.QueryRowContext(ctx, `
		SELECT id, project_id, parent_id, name, path, created_at, updated_at
		FROM folders WHERE id = ?
	`, id).Scan(&f.ID, &f.ProjectID, &f.ParentID, &f.Name, &f.Path, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, classify(err, "get folder")
	}
	return f, nil
}

// ListFolders returns all folders for a project
func (s *Store) ListFolders(ctx context.Context, projectID string) ([]models.Folder, error) {
	return s.queryFolders(ctx, `
		SELECT id, project_id, parent_id, name, path, created_at, updated_at
		FROM folders WHERE project_id = ?
		ORDER BY name ASC
	`, projectID)
}

// ListChildFolders returns the direct children of a folder
func (s *Store) ListChildFolders(ctx context.Context, parentID string) ([]models.Folder, error) {
	return s.queryFolders(ctx, `
		SELECT id, project_id, parent_id, name, path, created_at, updated_at
		FROM folders WHERE parent_id = ?
		ORDER BY name ASC
	`, parentID)
}

func (s *Store) queryFolders(ctx context.Context, query string, args ...any) ([]models.Folder, error) {
	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err, "list folders")
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var f models.Folder
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.ParentID, &f.Name, &f.Path, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, classify(err, "scan folder")
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// DeleteFolder deletes a folder. Deleting a missing id is not an
// error.
func (s *Store) DeleteFolder(ctx context.Context, id string) error {
	_, err := s.ExecContext(ctx, "DELETE FROM folders WHERE id = ?", id)
	if err != nil {
		return classify(err, "delete folder")
	}
	return nil
}

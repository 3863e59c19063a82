package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sparktown/sparkdown/internal/models"
)

// InsertTab inserts a new tab. CreatedAt and LastAccessed are stamped
// by the store.
func (s *Store) InsertTab(ctx context.Context, t *models.Tab) error {
	ts := now()
	t.CreatedAt = ts
	t.LastAccessed = ts

	_, err := s.ExecContext(ctx, `
		INSERT INTO tabs (id, file_id, is_active, is_dirty, cursor_position, scroll_position, created_at, last_accessed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.FileID, t.IsActive, t.IsDirty, t.CursorPosition, t.ScrollPosition, t.CreatedAt, t.LastAccessed)
	if err != nil {
		return classify(err, "insert tab")
	}
	return nil
}

// GetTab retrieves a tab by ID
func (s *Store) GetTab(ctx context.Context, id string) (*models.Tab, error) {
	t := &models.Tab{}
	err := s.QueryRowContext(ctx, `
		SELECT id, file_id, is_active, is_dirty, cursor_position, scroll_position, created_at, last_accessed
		FROM tabs WHERE id = ?
	`, id).Scan(&t.ID, &t.FileID, &t.IsActive, &t.IsDirty, &t.CursorPosition, &t.ScrollPosition, &t.CreatedAt, &t.LastAccessed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tab %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, classify(err, "get tab")
	}
	return t, nil
}

// ListTabs returns all tabs, most recently accessed first
func (s *Store) ListTabs(ctx context.Context) ([]models.Tab, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, file_id, is_active, is_dirty, cursor_position, scroll_position, created_at, last_accessed
		FROM tabs ORDER BY last_accessed DESC
	`)
	if err != nil {
		return nil, classify(err, "list tabs")
	}
	defer rows.Close()

	var tabs []models.Tab
	for rows.Next() {
		var t models.Tab
		if err := rows.Scan(&t.ID, &t.FileID, &t.IsActive, &t.IsDirty, &t.CursorPosition, &t.ScrollPosition, &t.CreatedAt, &t.LastAccessed); err != nil {
			return nil, classify(err, "scan tab")
		}
		tabs = append(tabs, t)
	}
	return tabs, rows.Err()
}

// ActiveTab returns the currently active tab, or nil if none is
// active.
func (s *Store) ActiveTab(ctx context.Context) (*models.Tab, error) {
	t := &models.Tab{}
	err := s.QueryRowContext(ctx, `
		SELECT id, file_id, is_active, is_dirty, cursor_position, scroll_position, created_at, last_accessed
		FROM tabs WHERE is_active = 1
	`).Scan(&t.ID, &t.FileID, &t.IsActive, &t.IsDirty, &t.CursorPosition, &t.ScrollPosition, &t.CreatedAt, &t.LastAccessed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "get active tab")
	}
	return t, nil
}

// DeleteTab deletes a tab. Deleting a missing id is not an error.
func (s *Store) DeleteTab(ctx context.Context, id string) error {
	_, err := s.ExecContext(ctx, "DELETE FROM tabs WHERE id = ?", id)
	if err != nil {
		return classify(err, "delete tab")
	}
	return nil
}

// DeleteTabsForFile removes every tab referencing the given file
func (s *Store) DeleteTabsForFile(ctx context.Context, fileID string) error {
	_, err := s.ExecContext(ctx, "DELETE FROM tabs WHERE file_id = ?", fileID)
	if err != nil {
		return classify(err, "delete tabs for file")
	}
	return nil
}

// SetTabDirty persists a tab's dirty flag
func (s *Store) SetTabDirty(ctx context.Context, id string, dirty bool) error {
	result, err := s.ExecContext(ctx, `
		UPDATE tabs SET is_dirty = ? WHERE id = ?
	`, dirty, id)
	if err != nil {
		return classify(err, "set tab dirty")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("tab %s: %w", id, ErrNotFound)
	}
	return nil
}

// ClearActiveTabs deactivates every tab inside the caller's
// transaction.
func (s *Store) ClearActiveTabs(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "UPDATE tabs SET is_active = 0 WHERE is_active = 1")
	if err != nil {
		return classify(err, "clear active tabs")
	}
	return nil
}

// ActivateTab marks one tab active and bumps its last-accessed time
// inside the caller's transaction.
func (s *Store) ActivateTab(ctx context.Context, tx *sql.Tx, id string) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE tabs SET is_active = 1, last_accessed = ? WHERE id = ?
	`, now(), id)
	if err != nil {
		return classify(err, "activate tab")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("tab %s: %w", id, ErrNotFound)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sparktown/sparkdown/internal/models"
)

// InsertProject inserts a new project. CreatedAt and UpdatedAt are
// stamped by the store, overriding any caller-supplied values.
func (s *Store) InsertProject(ctx context.Context, p *models.Project) error {
	ts := now()
	p.CreatedAt = ts
	p.UpdatedAt = ts

	_, err := s.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return classify(err, "insert project")
	}
	return nil
}

// GetProject retrieves a project by ID
func (s *Store) GetProject(ctx context.Context, id string) (*models.Project, error) {
	p := &models.Project{}
	err := s.QueryRowContext(ctx, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM projects WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, classify(err, "get project")
	}
	return p, nil
}

// ActiveProject returns the currently active project, or nil if none
// is active.
func (s *Store) ActiveProject(ctx context.Context) (*models.Project, error) {
	p := &models.Project{}
	err := s.QueryRowContext(ctx, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM projects WHERE is_active = 1
	`).Scan(&p.ID, &p.Name, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "get active project")
	}
	return p, nil
}

// ListProjects returns all projects, most recently updated first
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM projects ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, classify(err, "list projects")
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, classify(err, "scan project")
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject updates a project's name and description
func (s *Store) UpdateProject(ctx context.Context, id, name, description string) error {
	result, err := s.ExecContext(ctx, `
		UPDATE projects SET name = ?, description = ?, updated_at = ?
		WHERE id = ?
	`, name, description, now(), id)
	if err != nil {
		return classify(err, "update project")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

// ClearActiveProjects deactivates every project. Runs inside the
// caller's transaction so the clear-then-set swap is atomic.
func (s *Store) ClearActiveProjects(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE projects SET is_active = 0, updated_at = ? WHERE is_active = 1
	`, now())
	if err != nil {
		return classify(err, "clear active projects")
	}
	return nil
}

// ActivateProject marks one project active inside the caller's
// transaction.
func (s *Store) ActivateProject(ctx context.Context, tx *sql.Tx, id string) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE projects SET is_active = 1, updated_at = ? WHERE id = ?
	`, now(), id)
	if err != nil {
		return classify(err, "activate project")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountProjects returns the number of projects
func (s *Store) CountProjects(ctx context.Context) (int, error) {
	var count int
	err := s.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects").Scan(&count)
	if err != nil {
		return 0, classify(err, "count projects")
	}
	return count, nil
}

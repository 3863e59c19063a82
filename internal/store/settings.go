package store

import (
	"context"
	"database/sql"
	"errors"
)

// Setting retrieves a setting value by key. A missing key yields an
// empty string, not an error.
func (s *Store) Setting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", classify(err, "get setting")
	}
	return value, nil
}

// SetSetting upserts a setting value, stamping updated_at. The row id
// equals the key.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO settings (id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, key, value, now())
	if err != nil {
		return classify(err, "set setting")
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

//go:embed schema.sql
var schema string

// Store wraps the database connection holding all workspace tables
type Store struct {
	*sql.DB
	log zerolog.Logger
}

// Open creates a database connection for the given DSN and initializes
// the schema
func Open(dsn string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, classify(err, "open database")
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, classify(err, "init schema")
	}

	return &Store{DB: db, log: log}, nil
}

// DefaultPath returns the path to the database file under the XDG data
// directory, creating the application directory if needed
func DefaultPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "sparkdown")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, "sparkdown.db"), nil
}

// WithTx runs body inside a transaction. The transaction commits on a
// nil return and rolls back on error or panic, so writes inside body
// are atomic with respect to other transactions on the same tables.
func (s *Store) WithTx(ctx context.Context, body func(tx *sql.Tx) error) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return classify(err, "begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := body(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error().Err(rbErr).Msg("rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify(err, "commit transaction")
	}
	return nil
}

// now returns the timestamp stamped onto every write. Nanosecond
// precision keeps successive updates strictly ordered.
func now() time.Time {
	return time.Now()
}

package repo

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

// SQLiteURLPrefix selects the sqlite storage in a storage url
const SQLiteURLPrefix = "sqlite://"

const createSnapshots = `CREATE TABLE IF NOT EXISTS snapshots (
    key TEXT PRIMARY KEY,
    data BLOB NOT NULL
);`

// SQLiteStorage implements Storage on a single sqlite table.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates the database file at path,
// ":memory:" keeps everything in memory
func NewSQLiteStorage(ctx context.Context, path string) (*SQLiteStorage, error) {
	path = strings.TrimPrefix(path, SQLiteURLPrefix)
	if path == "" {
		return nil, errors.New("sqlite storage needs a database path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}
	// sqlite allows a single writer, in memory databases exist per connection
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, createSnapshots); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create snapshots table")
	}
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Write(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, data) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET data = excluded.data`,
		key, data,
	)
	return err
}

func (s *SQLiteStorage) Read(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, os.ErrNotExist
	} else if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *SQLiteStorage) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM snapshots WHERE substr(key, 1, ?) = ? ORDER BY key DESC`,
		len(prefix), prefix,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key)
	return err
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

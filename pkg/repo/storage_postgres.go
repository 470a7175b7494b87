package repo

import (
	"context"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// PostgresURLPrefixes select the postgres storage in a storage url
var PostgresURLPrefixes = []string{"postgres://", "postgresql://"}

const createPostgresSnapshots = `CREATE TABLE IF NOT EXISTS itemmodel_snapshots (
    key TEXT PRIMARY KEY,
    data BYTEA NOT NULL
)`

// PostgresStorage implements Storage on a postgres table, several
// instances may share one database
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage connects with dsn and creates the snapshot table
func NewPostgresStorage(ctx context.Context, dsn string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to ping postgres")
	}
	if _, err := pool.Exec(ctx, createPostgresSnapshots); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to create snapshots table")
	}
	return &PostgresStorage{pool: pool}, nil
}

// IsPostgresURL whether url has one of the PostgresURLPrefixes
func IsPostgresURL(url string) bool {
	for _, prefix := range PostgresURLPrefixes {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

func (p *PostgresStorage) Write(ctx context.Context, key string, data []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO itemmodel_snapshots (key, data) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data`,
		key, data,
	)
	return err
}

func (p *PostgresStorage) Read(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM itemmodel_snapshots WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, os.ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (p *PostgresStorage) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT key FROM itemmodel_snapshots WHERE starts_with(key, $1) ORDER BY key COLLATE "C" DESC`,
		prefix,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (p *PostgresStorage) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM itemmodel_snapshots WHERE key = $1`, key)
	return err
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

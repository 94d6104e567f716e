package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

type dialect struct {
	schema string
	load   string
	save   string
	now    func() any
}

var (
	sqliteDialect = dialect{
		schema: `
			CREATE TABLE IF NOT EXISTS documents (
				name       TEXT    PRIMARY KEY,
				body       TEXT    NOT NULL,
				updated_at INTEGER NOT NULL
			)`,
		load: `SELECT body FROM documents WHERE name = ?`,
		save: `
			INSERT INTO documents (name, body, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT (name) DO UPDATE
			SET body = excluded.body, updated_at = excluded.updated_at`,
		now: func() any { return time.Now().Unix() },
	}

	postgresDialect = dialect{
		schema: `
			CREATE TABLE IF NOT EXISTS documents (
				name       TEXT        PRIMARY KEY,
				body       JSONB       NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,
		load: `SELECT body::text FROM documents WHERE name = $1`,
		save: `
			INSERT INTO documents (name, body, updated_at)
			VALUES ($1, $2::jsonb, $3)
			ON CONFLICT (name) DO UPDATE
			SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		now: func() any { return time.Now().UTC() },
	}
)

// SQLStore keeps documents as rows of a single "documents" table.
type SQLStore struct {
	db        *sql.DB
	d         dialect
	writeLock *sync.Mutex
}

var _ Store = (*SQLStore)(nil)

// OpenSQLite opens (creating if needed) a SQLite database file.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return newSQLStore(ctx, db, sqliteDialect)
}

// OpenPostgres connects through driver "pgx" (jackc/pgx stdlib) or "postgres" (lib/pq).
func OpenPostgres(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	switch driver {
	case "pgx", "postgres":
	default:
		return nil, fmt.Errorf("unsupported postgres driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	db.SetConnMaxLifetime(5 * time.Minute)
	return newSQLStore(ctx, db, postgresDialect)
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, d: d, writeLock: new(sync.Mutex)}

	if err := s.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := db.ExecContext(ctx, d.schema)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return s, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *SQLStore) Load(ctx context.Context, name string, v any) error {
	var body string
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, s.d.load, name).Scan(&body)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("select %s: %w", name, err)
	}

	if err := json.Unmarshal([]byte(body), v); err != nil {
		return errors.Join(ErrCorrupt, fmt.Errorf("decode %s: %w", name, err))
	}
	return nil
}

func (s *SQLStore) Save(ctx context.Context, name string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return errors.Join(ErrWriteFailed, fmt.Errorf("encode %s: %w", name, err))
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, s.d.save, name, string(body), s.d.now())
		return err
	})
	if err != nil {
		return errors.Join(ErrWriteFailed, fmt.Errorf("upsert %s: %w", name, err))
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

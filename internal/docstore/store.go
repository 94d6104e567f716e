// Package docstore persists whole named JSON documents. Every Save replaces the
// stored document; there is no partial or append write.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	ErrNotFound    = errors.New("document not found")
	ErrCorrupt     = errors.New("document corrupt")
	ErrWriteFailed = errors.New("persistence write failed")
)

type Store interface {
	// Load decodes the named document into v. It returns ErrNotFound when the
	// document was never saved and ErrCorrupt when it cannot be decoded.
	Load(ctx context.Context, name string, v any) error
	// Save encodes v and overwrites the named document. Failures wrap ErrWriteFailed.
	Save(ctx context.Context, name string, v any) error
	Ping(ctx context.Context) error
	Close() error
}

// LoadOrInit loads the named document into v. If it is missing or corrupt, init
// resets v to its defaults and the result is saved straight away. The returned
// bool reports whether the defaults were used.
func LoadOrInit(ctx context.Context, s Store, name string, v any, init func()) (bool, error) {
	err := s.Load(ctx, name, v)
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCorrupt):
		init()
		return true, s.Save(ctx, name, v)
	default:
		return false, err
	}
}

// Open returns the backend named by driver: "file" keeps JSON files in dataDir,
// "sqlite" uses dsn as the database path (default dataDir/shopease.db), and
// "pgx" or "postgres" connect to PostgreSQL with dsn.
func Open(ctx context.Context, driver, dataDir, dsn string) (Store, error) {
	switch driver {
	case "", "file":
		return NewFileStore(dataDir)
	case "sqlite":
		if dsn == "" {
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
			dsn = filepath.Join(dataDir, "shopease.db")
		}
		return OpenSQLite(ctx, dsn)
	case "pgx", "postgres":
		return OpenPostgres(ctx, driver, dsn)
	default:
		return nil, fmt.Errorf("unknown docstore driver %q", driver)
	}
}

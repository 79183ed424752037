package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/booky/internal/config"
	"github.com/MrJamesThe3rd/booky/internal/database"
	"github.com/MrJamesThe3rd/booky/internal/invoice"
)

// Open returns the repository selected by cfg. The returned close func
// releases any database handle and is always safe to call.
func Open(ctx context.Context, cfg *config.Config) (invoice.Repository, func() error, error) {
	noop := func() error { return nil }

	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)

	switch cfg.Storage.Backend {
	case config.BackendFile:
		slog.Info("using file storage", "path", cfg.Storage.DataFile)
		return NewFile(cfg.Storage.DataFile), noop, nil
	case config.BackendSQLite:
		slog.Info("using sqlite storage", "path", cfg.Storage.SQLitePath)
		db, err = database.NewSQLite(cfg.Storage.SQLitePath)
		dialect = SQLite
	case config.BackendPostgres:
		slog.Info("using postgres storage", "host", cfg.DB.Host, "database", cfg.DB.Name)
		db, err = database.New(cfg.ConnectionString())
		dialect = Postgres
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if err != nil {
		return nil, noop, err
	}

	repo := NewSQL(db, dialect)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, noop, err
	}

	return repo, db.Close, nil
}

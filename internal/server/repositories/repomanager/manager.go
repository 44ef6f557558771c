// Package repomanager selects the account store backend from a DSN, opens
// the database, applies the embedded goose migrations and vends
// repositories bound to a *sql.DB or *sql.Tx.
package repomanager

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/accountd/internal/dbx"
	"github.com/dmitrijs2005/accountd/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	Dialect() string
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// IsPostgresDSN reports whether dsn addresses a PostgreSQL server rather
// than a local SQLite file.
func IsPostgresDSN(dsn string) bool {
	dsn = strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to the database named by dsn and brings its schema up to
// date. A postgres:// or postgresql:// URL selects PostgreSQL; anything else
// is a SQLite file path (or ":memory:").
func Open(ctx context.Context, dsn string) (*sql.DB, RepositoryManager, error) {
	var (
		db  *sql.DB
		m   RepositoryManager
		err error
	)

	if IsPostgresDSN(dsn) {
		db, err = openPostgres(ctx, dsn)
		m = NewPostgresRepositoryManager()
	} else {
		db, err = openSQLite(ctx, dsn)
		m = NewSQLiteRepositoryManager()
	}
	if err != nil {
		return nil, nil, err
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return db, m, nil
}

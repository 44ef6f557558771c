package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/accountd/internal/dbx"
	"github.com/dmitrijs2005/accountd/internal/filex"
	"github.com/dmitrijs2005/accountd/internal/server/migrations"
	"github.com/dmitrijs2005/accountd/internal/server/repositories/users"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const memoryDSN = ":memory:"

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Dialect() string { return "sqlite3" }

// Users returns a users.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

// RunMigrations applies the embedded SQLite migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(m.Dialect()); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, migrations.SQLiteDir); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}
	return nil
}

// sqliteDSN appends the connection pragmas as _pragma parameters, which the
// driver applies to every new connection in the pool.
func sqliteDSN(path string) string {
	pragmas := []string{"busy_timeout(5000)", "foreign_keys(1)"}
	if path != memoryDSN {
		pragmas = append(pragmas, "journal_mode(WAL)")
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	var b strings.Builder
	b.WriteString(path)
	for _, p := range pragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

// openSQLite opens a single-connection handle so writers are serialized by
// database/sql; busy_timeout covers other processes holding the file.
func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if path != memoryDSN && !strings.HasPrefix(path, "file:") {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

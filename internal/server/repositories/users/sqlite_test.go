package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/dbx"
	"github.com/dmitrijs2005/accountd/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT    NOT NULL UNIQUE,
    password_hash TEXT    NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func mustCreate(t *testing.T, r Repository, name string) *models.User {
	t.Helper()
	u, err := r.Create(context.Background(), &models.User{UserName: name, PasswordHash: "h-" + name})
	require.NoError(t, err)
	return u
}

func TestSQLite_Create_AssignsSequentialIDs(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	alice := mustCreate(t, r, "alice")
	bob := mustCreate(t, r, "bob")

	assert.Equal(t, int64(1), alice.ID)
	assert.Equal(t, int64(2), bob.ID)
}

func TestSQLite_Create_DuplicateUsername(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	mustCreate(t, r, "alice")

	_, err := r.Create(ctx, &models.User{UserName: "alice", PasswordHash: "other"})
	require.ErrorIs(t, err, common.ErrDuplicateUsername)

	// case-sensitive: a different spelling is a different account
	_, err = r.Create(ctx, &models.User{UserName: "Alice", PasswordHash: "other"})
	require.NoError(t, err)
}

func TestSQLite_Create_ConcurrentSameUsername(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	const workers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, dups int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.Create(ctx, &models.User{UserName: "race", PasswordHash: fmt.Sprint(i)})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, common.ErrDuplicateUsername):
				dups++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dups)
}

func TestSQLite_GetUserByLogin(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	created := mustCreate(t, r, "alice")

	got, err := r.GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = r.GetUserByLogin(ctx, "ALICE")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_GetUserByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	created := mustCreate(t, r, "alice")

	got, err := r.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName)
	assert.Equal(t, "h-alice", got.PasswordHash)

	_, err = r.GetUserByID(ctx, 999)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_List_InsertionOrder(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	empty, err := r.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, name := range []string{"carol", "alice", "bob"} {
		mustCreate(t, r, name)
	}

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "carol", list[0].UserName)
	assert.Equal(t, "alice", list[1].UserName)
	assert.Equal(t, "bob", list[2].UserName)
}

func TestSQLite_Delete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	alice := mustCreate(t, r, "alice")

	require.NoError(t, r.Delete(ctx, alice.ID))
	require.ErrorIs(t, r.Delete(ctx, alice.ID), common.ErrorNotFound)

	_, err := r.GetUserByID(ctx, alice.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)

	// username is free again; AUTOINCREMENT never reuses the old id
	again := mustCreate(t, r, "alice")
	assert.Greater(t, again.ID, alice.ID)
}

func TestSQLite_WorksInsideTransaction(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	mustCreate(t, NewSQLiteRepository(db), "alice")

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if _, err := repo.GetUserByID(ctx, 1); err != nil {
			return err
		}
		return repo.Delete(ctx, 1)
	})
	require.NoError(t, err)

	list, err := NewSQLiteRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSQLite_DBErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())
	ctx := context.Background()

	_, err := r.Create(ctx, &models.User{UserName: "a", PasswordHash: "h"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrDuplicateUsername)

	_, err = r.List(ctx)
	require.ErrorContains(t, err, "db error")

	err = r.Delete(ctx, 1)
	require.ErrorContains(t, err, "db error")
}

func TestIsSQLiteUniqueViolation_MessageFallback(t *testing.T) {
	assert.True(t, isSQLiteUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)")))
	assert.False(t, isSQLiteUniqueViolation(errors.New("disk I/O error")))
}

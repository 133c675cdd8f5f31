package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/result-academic/records-service/internal/cache"
	"github.com/result-academic/records-service/internal/models"
)

func newTestCacheManager(t *testing.T) *cache.CacheManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewCacheManager(client)
}

func TestRolePostgreSQL_ReassignUsers_DropsCachedBearers(t *testing.T) {
	db, mock := newMockDB(t)
	cm := newTestCacheManager(t)
	repo := NewRolePostgreSQL(db, cm)
	ctx := context.Background()

	// A bearer's row is cached from an earlier request, still carrying the
	// role about to be deleted.
	require.NoError(t, cm.User.Set(ctx, "id:5", models.User{ID: 5, RoleID: 3}, time.Minute))

	mock.ExpectQuery(`SELECT "id" FROM "users"`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	moved, err := repo.ReassignUsers(ctx, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)
	require.NoError(t, mock.ExpectationsWereMet())

	// The stale row is gone, so the next load sees the new role.
	var stale models.User
	assert.ErrorIs(t, cm.User.Get(ctx, "id:5", &stale), cache.ErrCacheNotFound)
}

func TestRolePostgreSQL_ReassignUsers_NoBearers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRolePostgreSQL(db, cache.NewCacheManager(nil))

	mock.ExpectQuery(`SELECT "id" FROM "users"`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	moved, err := repo.ReassignUsers(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Zero(t, moved)
	require.NoError(t, mock.ExpectationsWereMet())
}

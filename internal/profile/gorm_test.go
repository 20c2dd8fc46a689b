package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // one connection keeps the in-memory database alive
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo, err := NewGORMRepository(db)
	require.NoError(t, err)
	return repo
}

func TestGORMRepository_PutAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Put(ctx, NewProfile("uid-1", "user@test.com", now)))

	got, err := repo.FindByUID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "user@test.com", got.Email)
	assert.Equal(t, RoleUser, got.Role)
	assert.WithinDuration(t, now, got.CreatedAt, time.Second)

	_, err = repo.FindByUID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGORMRepository_PutReplaces(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, NewProfile("uid-1", "old@test.com", time.Now())))
	require.NoError(t, repo.Put(ctx, NewProfile("uid-1", "new@test.com", time.Now())))

	got, err := repo.FindByUID(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "new@test.com", got.Email)
}

func TestGORMRepository_PutRejectsEmptyUID(t *testing.T) {
	repo := newTestRepository(t)
	assert.Error(t, repo.Put(context.Background(), &Profile{Email: "x@test.com"}))
}

func TestGORMRepository_OrphanLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.RecordOrphan(ctx, &Orphan{UID: "b", Email: "b@test.com", Reason: "write failed", RecordedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.RecordOrphan(ctx, &Orphan{UID: "a", Email: "a@test.com", Reason: "write failed", RecordedAt: base}))

	orphans, err := repo.ListOrphans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, orphans, 2)
	assert.Equal(t, "a", orphans[0].UID, "oldest first")

	require.NoError(t, repo.BumpOrphan(ctx, "a", "still unavailable"))
	orphans, err = repo.ListOrphans(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, 1, orphans[0].Attempts)
	assert.Equal(t, "still unavailable", orphans[0].LastError)

	assert.ErrorIs(t, repo.BumpOrphan(ctx, "nobody", "x"), ErrNotFound)

	require.NoError(t, repo.ResolveOrphan(ctx, "a"))
	orphans, err = repo.ListOrphans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "b", orphans[0].UID)
}

package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/cv-extractor/internal/common"
)

func openSQLite(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, Config{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "cache.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(nil) })
	require.NoError(t, db.HealthCheck(ctx, time.Second))
	require.NoError(t, db.Migrate(ctx))
	return db
}

func TestTextCache_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	repo := NewTextCacheRepository(db, time.Hour, nil)
	_, err := repo.Get(ctx, "abc")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, repo.Put(ctx, CachedText{Hash: "abc", Method: "pdf-text", Pages: 2, Text: "Jane Doe\nSkills"}))

	// a fresh repo has an empty memory layer and must read the row back
	fresh := NewTextCacheRepository(db, time.Hour, nil)
	got, err := fresh.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "pdf-text", got.Method)
	assert.Equal(t, 2, got.Pages)
	assert.Equal(t, "Jane Doe\nSkills", got.Text)
	assert.False(t, got.StoredAt.IsZero())
}

func TestTextCache_Upsert(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	repo := NewTextCacheRepository(db, 0, nil)

	require.NoError(t, repo.Put(ctx, CachedText{Hash: "h", Method: "text", Text: "one"}))
	require.NoError(t, repo.Put(ctx, CachedText{Hash: "h", Method: "pdf-ocr", Pages: 3, Text: "two"}))

	got, err := NewTextCacheRepository(db, 0, nil).Get(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, "two", got.Text)
	assert.Equal(t, "pdf-ocr", got.Method)
}

func TestTextCache_ExpiredRowsMiss(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	old := NewTextCacheRepository(db, time.Minute, nil)
	require.NoError(t, old.Put(ctx, CachedText{Hash: "old", Method: "text", Text: "x", StoredAt: time.Now().Add(-time.Hour)}))

	_, err := NewTextCacheRepository(db, time.Minute, nil).Get(ctx, "old")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestTextCache_MemoryOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewTextCacheRepository(nil, 0, nil)

	_, err := repo.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, repo.Put(ctx, CachedText{Hash: "k", Method: "text", Text: "hello"}))
	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql"}, nil)
	assert.Error(t, err)
}

func TestCountDocuments(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	repo := NewTextCacheRepository(db, 0, nil)

	n, err := db.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, repo.Put(ctx, CachedText{Hash: "a", Method: "text", Text: "x"}))
	require.NoError(t, repo.Put(ctx, CachedText{Hash: "b", Method: "text", Text: "y"}))
	n, err = db.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/joseph-ayodele/cv-extractor/internal/common"
)

// CachedText is the loader output for one document, keyed by content hash.
// Only text and how it was obtained are kept, never profile fields.
type CachedText struct {
	Hash     string
	Method   string
	Pages    int
	Text     string
	StoredAt time.Time
}

type TextCacheRepository interface {
	Get(ctx context.Context, hash string) (*CachedText, error)
	Put(ctx context.Context, t CachedText) error
}

type textCacheRepo struct {
	db     *DB
	mem    *cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewTextCacheRepository fronts db with an in-process TTL cache. db may be
// nil for a memory-only cache. ttl <= 0 keeps entries forever.
func NewTextCacheRepository(db *DB, ttl time.Duration, logger *slog.Logger) TextCacheRepository {
	if logger == nil {
		logger = slog.Default()
	}
	exp, cleanup := cache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		exp, cleanup = ttl, 2*ttl
	}
	return &textCacheRepo{
		db:     db,
		mem:    cache.New(exp, cleanup),
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns common.ErrNotFound on a miss.
func (r *textCacheRepo) Get(ctx context.Context, hash string) (*CachedText, error) {
	if v, ok := r.mem.Get(hash); ok {
		t := v.(CachedText)
		return &t, nil
	}
	if r.db == nil {
		return nil, common.ErrNotFound
	}

	q := fmt.Sprintf(`SELECT method, pages, body, stored_at FROM document_text WHERE content_hash = %s`, r.db.ph(1))
	var (
		t      = CachedText{Hash: hash}
		stored int64
	)
	err := r.db.SQL.QueryRowContext(ctx, q, hash).Scan(&t.Method, &t.Pages, &t.Text, &stored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to read cached text", "hash", hash, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	t.StoredAt = time.Unix(stored, 0).UTC()
	if r.ttl > 0 && time.Since(t.StoredAt) > r.ttl {
		return nil, common.ErrNotFound
	}
	r.mem.SetDefault(hash, t)
	return &t, nil
}

func (r *textCacheRepo) Put(ctx context.Context, t CachedText) error {
	if t.StoredAt.IsZero() {
		t.StoredAt = time.Now().UTC()
	}
	r.mem.SetDefault(t.Hash, t)
	if r.db == nil {
		return nil
	}

	q := fmt.Sprintf(`INSERT INTO document_text (content_hash, method, pages, body, stored_at)
VALUES (%s, %s, %s, %s, %s)
ON CONFLICT (content_hash) DO UPDATE SET
	method = excluded.method,
	pages = excluded.pages,
	body = excluded.body,
	stored_at = excluded.stored_at`,
		r.db.ph(1), r.db.ph(2), r.db.ph(3), r.db.ph(4), r.db.ph(5))
	if _, err := r.db.SQL.ExecContext(ctx, q, t.Hash, t.Method, t.Pages, t.Text, t.StoredAt.Unix()); err != nil {
		r.logger.Error("failed to store cached text", "hash", t.Hash, "error", err)
		return fmt.Errorf("%w: %v", common.ErrDatabase, err)
	}
	return nil
}

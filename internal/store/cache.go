package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"wdlist/internal/wikibase"
)

// DefaultTTL is how long a cached entity stays fresh.
const DefaultTTL = 6 * time.Hour

// CachingFetcher satisfies the entity store's fetch interface by
// serving fresh rows from SQLite and delegating misses to an upstream
// fetcher. Cache failures degrade to upstream fetches; they never
// fail a run.
type CachingFetcher struct {
	store    *Store
	upstream wikibase.Fetcher
	ttl      time.Duration
	now      func() time.Time
}

// CacheOption configures a CachingFetcher.
type CacheOption func(*CachingFetcher)

// WithTTL overrides the freshness window.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CachingFetcher) { c.ttl = ttl }
}

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *CachingFetcher) { c.now = now }
}

// NewCachingFetcher wraps an upstream fetcher with the cache.
func NewCachingFetcher(store *Store, upstream wikibase.Fetcher, opts ...CacheOption) *CachingFetcher {
	c := &CachingFetcher{
		store:    store,
		upstream: upstream,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchEntities returns the requested entities, serving from cache
// where fresh and fetching the rest upstream in one batch.
func (c *CachingFetcher) FetchEntities(ctx context.Context, ids []string) (map[string]*wikibase.Entity, error) {
	out := make(map[string]*wikibase.Entity, len(ids))
	var misses []string

	cutoff := c.now().Add(-c.ttl).Unix()
	for _, id := range ids {
		entity, err := c.lookup(ctx, id, cutoff)
		if err != nil {
			slog.Warn("entity cache read failed", "id", id, "error", err)
			misses = append(misses, id)
			continue
		}
		if entity == nil {
			misses = append(misses, id)
			continue
		}
		out[id] = entity
	}
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := c.upstream.FetchEntities(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, entity := range fetched {
		out[id] = entity
		if err := c.save(ctx, entity); err != nil {
			slog.Warn("entity cache write failed", "id", id, "error", err)
		}
	}
	return out, nil
}

func (c *CachingFetcher) lookup(ctx context.Context, id string, cutoff int64) (*wikibase.Entity, error) {
	var data []byte
	err := c.store.db.QueryRowContext(ctx,
		"SELECT data FROM entities WHERE id = ? AND fetched_at >= ?",
		id, cutoff).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeEntity(data)
}

func (c *CachingFetcher) save(ctx context.Context, entity *wikibase.Entity) error {
	data, err := encodeEntity(entity)
	if err != nil {
		return fmt.Errorf("encode entity %s: %w", entity.ID, err)
	}
	_, err = c.store.db.ExecContext(ctx,
		"INSERT INTO entities (id, fetched_at, data) VALUES (?, ?, ?) ON CONFLICT(id) DO UPDATE SET fetched_at = excluded.fetched_at, data = excluded.data",
		entity.ID, c.now().Unix(), data)
	if err != nil {
		return fmt.Errorf("store entity %s: %w", entity.ID, err)
	}
	return nil
}

// Purge deletes cache rows older than the freshness window. Callers
// run it periodically; it is never required for correctness.
func (c *CachingFetcher) Purge(ctx context.Context) (int64, error) {
	res, err := c.store.db.ExecContext(ctx,
		"DELETE FROM entities WHERE fetched_at < ?",
		c.now().Add(-c.ttl).Unix())
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	return res.RowsAffected()
}

package catalogrepo

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"rentalservice/model"
)

// BookCache is a TTL side cache of BookReference snapshots, warmed by the
// inbound new-book notification. It is a latency optimization only: it may
// serve snapshot reads but never substitutes for the live availability check.
type BookCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

func NewBookCache(rdb *redis.Client, ttl time.Duration, log *slog.Logger) *BookCache {
	return &BookCache{rdb: rdb, ttl: ttl, log: log}
}

func cacheKey(bookID uuid.UUID) string { return "book:" + bookID.String() }

// Put is best-effort; a cache failure is logged and swallowed.
func (c *BookCache) Put(ctx context.Context, ref model.BookReference) {
	b, err := json.Marshal(ref)
	if err != nil {
		c.log.Error("book cache marshal failed", "book_id", ref.BookID, "err", err)
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(ref.BookID), b, c.ttl).Err(); err != nil {
		c.log.Warn("book cache write failed", "book_id", ref.BookID, "err", err)
	}
}

func (c *BookCache) Get(ctx context.Context, bookID uuid.UUID) *model.BookReference {
	b, err := c.rdb.Get(ctx, cacheKey(bookID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("book cache read failed", "book_id", bookID, "err", err)
		}
		return nil
	}
	var ref model.BookReference
	if err := json.Unmarshal(b, &ref); err != nil {
		c.log.Error("book cache unmarshal failed", "book_id", bookID, "err", err)
		return nil
	}
	return &ref
}

// cached decorates a live Client with the snapshot side cache. Availability
// always goes to the remote.
type cached struct {
	live  Client
	cache *BookCache
}

func WithCache(live Client, cache *BookCache) Client {
	return &cached{live: live, cache: cache}
}

func (c *cached) IsAvailable(ctx context.Context, bookID uuid.UUID) bool {
	return c.live.IsAvailable(ctx, bookID)
}

func (c *cached) Snapshot(ctx context.Context, bookID uuid.UUID) (*model.BookReference, bool) {
	if ref := c.cache.Get(ctx, bookID); ref != nil {
		return ref, true
	}
	ref, ok := c.live.Snapshot(ctx, bookID)
	if ok {
		c.cache.Put(ctx, *ref)
	}
	return ref, ok
}

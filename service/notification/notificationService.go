package notification

import (
	"context"
	"log/slog"

	catalogrepo "rentalservice/repository/catalog"

	"rentalservice/model"
)

// Service receives the catalog side's fire-and-forget new-book push. The push
// is at-most-once and the catalog never retries, so every failure past payload
// parsing is logged and swallowed: this channel warms the snapshot cache at
// best and is never required for correctness.
type Service interface {
	BookCreated(ctx context.Context, ref model.BookReference)
}

type service struct {
	cache *catalogrepo.BookCache
	log   *slog.Logger
}

// New builds the receiver. cache may be nil, in which case the notification is
// purely observational.
func New(cache *catalogrepo.BookCache, log *slog.Logger) Service {
	return &service{cache: cache, log: log}
}

func (s *service) BookCreated(ctx context.Context, ref model.BookReference) {
	s.log.Info("new book notification received",
		"book_id", ref.BookID,
		"title", ref.Title,
		"author", ref.Author,
		"isbn", ref.ISBN,
	)
	if s.cache == nil {
		return
	}
	// Best-effort cache warm; Put logs its own failures.
	s.cache.Put(ctx, ref)
}

// Package catalogrepo is the outbound boundary to the catalog service. The
// rental side couples to catalog data only, never to its schema or storage.
package catalogrepo

import (
	"context"

	"github.com/google/uuid"

	"rentalservice/model"
)

type Client interface {
	// IsAvailable answers whether a book exists and can be rented. Transport
	// failures, timeouts and non-success responses all read as unavailable:
	// a rental is only created when the catalog confidently says yes.
	IsAvailable(ctx context.Context, bookID uuid.UUID) bool

	// Snapshot fetches the display fields embedded into a rental record.
	// ok=false covers both a 404 and any transport failure; the caller sees a
	// business-level "book not found", never a raw transport error.
	Snapshot(ctx context.Context, bookID uuid.UUID) (ref *model.BookReference, ok bool)
}

package rental

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	catalogrepo "rentalservice/repository/catalog"
	rentalrepo "rentalservice/repository/rental"

	"rentalservice/event"
	"rentalservice/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookUnavailable  ErrCode = "BOOK_UNAVAILABLE"
	ErrBookNotFound     ErrCode = "BOOK_NOT_FOUND"
	ErrCustomerNotFound ErrCode = "CUSTOMER_NOT_FOUND"
	ErrNotFound         ErrCode = "NOT_FOUND"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Customers is the narrow slice of the customer store the coordinator needs.
type Customers interface {
	ByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
}

type Update struct {
	DueDate *time.Time
	Notes   *string
}

type Service interface {
	// Create checks availability against the live catalog (fail-closed), loads
	// the customer, captures a book snapshot, and only then writes the rental.
	// Nothing is persisted when any check fails.
	Create(ctx context.Context, customerID, bookID uuid.UUID, notes *string) (*model.Rental, error)

	// Return flips an Active rental to Returned. A second return of the same
	// rental, or an unknown id, yields (nil, nil): no such active rental.
	Return(ctx context.Context, id uuid.UUID) (*model.Rental, error)

	ByID(ctx context.Context, id uuid.UUID) (*model.Rental, error)
	ByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Rental, error)
	Active(ctx context.Context) ([]model.Rental, error)
	Overdue(ctx context.Context) ([]model.Rental, error)
	All(ctx context.Context) ([]model.Rental, error)

	Amend(ctx context.Context, id uuid.UUID, upd Update) (*model.Rental, error)
	Delete(ctx context.Context, id uuid.UUID) error

	IsBookAvailable(ctx context.Context, bookID uuid.UUID) bool
}

// ----- Service implementation -----

type service struct {
	r    rentalrepo.Repo
	cat  catalogrepo.Client
	cust Customers
	pub  event.Publisher
	log  *slog.Logger
	now  func() time.Time
}

func New(r rentalrepo.Repo, cat catalogrepo.Client, cust Customers, pub event.Publisher, log *slog.Logger) Service {
	return &service{r: r, cat: cat, cust: cust, pub: pub, log: log, now: time.Now}
}

func (s *service) Create(ctx context.Context, customerID, bookID uuid.UUID, notes *string) (*model.Rental, error) {
	// All three checks must pass before anything is written.
	if !s.cat.IsAvailable(ctx, bookID) {
		return nil, makeErr(ErrBookUnavailable)
	}

	customer, err := s.cust.ByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, makeErr(ErrCustomerNotFound)
	}

	book, ok := s.cat.Snapshot(ctx, bookID)
	if !ok {
		return nil, makeErr(ErrBookNotFound)
	}

	now := s.now().UTC()
	rental := &model.Rental{
		ID:           uuid.New(),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Book:         *book,
		RentalDate:   now,
		DueDate:      now.Add(model.RentalPeriod),
		Status:       model.RentalActive,
		LateFee:      0,
		Notes:        notes,
	}

	if err := s.r.Create(ctx, rental); err != nil {
		return nil, err
	}

	// Publish strictly after the committed write.
	s.pub.Publish(ctx, event.TopicRentalCreated, rental)
	return rental, nil
}

func (s *service) Return(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	rental, err := s.r.Return(ctx, id, s.now())
	if err != nil {
		return nil, err
	}
	if rental == nil {
		return nil, nil
	}
	s.pub.Publish(ctx, event.TopicRentalReturned, rental)
	return rental, nil
}

func (s *service) ByID(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	return s.r.ByID(ctx, id)
}

func (s *service) ByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Rental, error) {
	return s.r.ByCustomer(ctx, customerID)
}

func (s *service) Active(ctx context.Context) ([]model.Rental, error) {
	return s.r.Active(ctx)
}

func (s *service) Overdue(ctx context.Context) ([]model.Rental, error) {
	return s.r.Overdue(ctx, s.now())
}

func (s *service) All(ctx context.Context) ([]model.Rental, error) {
	return s.r.All(ctx)
}

// Amend changes the free-text note or the due date of an existing rental. The
// status and the embedded book snapshot are not amendable: the Active→Returned
// transition only ever happens through Return.
func (s *service) Amend(ctx context.Context, id uuid.UUID, upd Update) (*model.Rental, error) {
	rental, err := s.r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rental == nil {
		return nil, makeErr(ErrNotFound)
	}

	if upd.DueDate != nil {
		rental.DueDate = upd.DueDate.UTC()
	}
	if upd.Notes != nil {
		rental.Notes = upd.Notes
	}

	ok, err := s.r.Update(ctx, rental)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrNotFound)
	}
	return rental, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) IsBookAvailable(ctx context.Context, bookID uuid.UUID) bool {
	return s.cat.IsAvailable(ctx, bookID)
}

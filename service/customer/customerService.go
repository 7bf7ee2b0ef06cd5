package customer

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	customerrepo "rentalservice/repository/customer"

	"rentalservice/event"
	"rentalservice/model"
)

type ErrCode string

const (
	ErrEmailInUse       ErrCode = "EMAIL_IN_USE"
	ErrNotFound         ErrCode = "CUSTOMER_NOT_FOUND"
	ErrHasActiveRentals ErrCode = "HAS_ACTIVE_RENTALS"
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

// ActiveRentals reports how many Active rentals a customer currently holds.
type ActiveRentals interface {
	CountActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}

type CreateInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type UpdateInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type Service interface {
	Create(ctx context.Context, in CreateInput) (*model.Customer, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*model.Customer, error)
	// Delete removes the customer only when it holds zero Active rentals; a
	// non-empty active set is a hard precondition failure, never a cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	ByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	ByEmail(ctx context.Context, email string) (*model.Customer, error)
	All(ctx context.Context) ([]model.Customer, error)
}

type service struct {
	cr      customerrepo.Repo
	rentals ActiveRentals
	pub     event.Publisher
	log     *slog.Logger
}

func New(cr customerrepo.Repo, rentals ActiveRentals, pub event.Publisher, log *slog.Logger) Service {
	return &service{cr: cr, rentals: rentals, pub: pub, log: log}
}

func (s *service) Create(ctx context.Context, in CreateInput) (*model.Customer, error) {
	// Fast-path check. Not atomic against concurrent creates: two requests
	// with the same email can both pass it. The unique index on
	// customers(email) is the authoritative guard; mapDuplicateErr below
	// converts its violation into the same business error.
	existing, err := s.cr.ByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, makeErr(ErrEmailInUse)
	}

	c := &model.Customer{
		ID:      uuid.New(),
		Name:    in.Name,
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:   in.Phone,
		Address: in.Address,
	}
	if err := s.cr.Create(ctx, c); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}

	s.pub.Publish(ctx, event.TopicCustomerCreated, c)
	return c, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*model.Customer, error) {
	c, err := s.cr.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, makeErr(ErrNotFound)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != c.Email {
		// Uniqueness is re-checked against other customers only.
		existing, err := s.cr.ByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, makeErr(ErrEmailInUse)
		}
	}

	c.Name = in.Name
	c.Email = email
	c.Phone = in.Phone
	c.Address = in.Address

	ok, err := s.cr.Update(ctx, c)
	if err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	if !ok {
		return nil, makeErr(ErrNotFound)
	}

	s.pub.Publish(ctx, event.TopicCustomerUpdated, c)
	return c, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.cr.ByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return makeErr(ErrNotFound)
	}

	active, err := s.rentals.CountActiveByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return makeErr(ErrHasActiveRentals)
	}

	ok, err := s.cr.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}

	// Deletions carry the bare id.
	s.pub.Publish(ctx, event.TopicCustomerDeleted, map[string]uuid.UUID{"id": id})
	return nil
}

func (s *service) ByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return s.cr.ByID(ctx, id)
}

func (s *service) ByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return s.cr.ByEmail(ctx, email)
}

func (s *service) All(ctx context.Context) ([]model.Customer, error) {
	return s.cr.All(ctx)
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)
		if strings.Contains(cn, "customers_email") || strings.Contains(msg, "email") {
			return makeErr(ErrEmailInUse)
		}
	}
	return nil
}

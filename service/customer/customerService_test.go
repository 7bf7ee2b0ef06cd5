// service/customer/customer_service_test.go
package customer

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	customerrepo "rentalservice/repository/customer"

	"rentalservice/event"
	"rentalservice/model"
)

type mockRepo struct {
	createFn  func(ctx context.Context, c *model.Customer) error
	byIDFn    func(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	byEmailFn func(ctx context.Context, email string) (*model.Customer, error)
	updateFn  func(ctx context.Context, c *model.Customer) (bool, error)
	deleteFn  func(ctx context.Context, id uuid.UUID) (bool, error)
}

var _ customerrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) Create(ctx context.Context, c *model.Customer) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, c)
}

func (m *mockRepo) ByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	if m.byIDFn == nil {
		return nil, nil
	}
	return m.byIDFn(ctx, id)
}

func (m *mockRepo) ByEmail(ctx context.Context, email string) (*model.Customer, error) {
	if m.byEmailFn == nil {
		return nil, nil
	}
	return m.byEmailFn(ctx, email)
}

func (m *mockRepo) All(ctx context.Context) ([]model.Customer, error) { return nil, nil }

func (m *mockRepo) Update(ctx context.Context, c *model.Customer) (bool, error) {
	if m.updateFn == nil {
		return true, nil
	}
	return m.updateFn(ctx, c)
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.deleteFn == nil {
		return true, nil
	}
	return m.deleteFn(ctx, id)
}

type mockRentals struct {
	active int64
	err    error
}

func (m *mockRentals) CountActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	return m.active, m.err
}

type capturedEvent struct {
	topic   string
	payload any
}

type capturePublisher struct{ events []capturedEvent }

var _ event.Publisher = (*capturePublisher)(nil)

func (p *capturePublisher) Publish(ctx context.Context, topic string, payload any) {
	p.events = append(p.events, capturedEvent{topic: topic, payload: payload})
}

func (p *capturePublisher) Subscribe(ctx context.Context, topics ...string) (<-chan event.Envelope, func()) {
	ch := make(chan event.Envelope)
	close(ch)
	return ch, func() {}
}

func newTestService(r customerrepo.Repo, rentals *mockRentals, pub *capturePublisher) Service {
	return New(r, rentals, pub, slog.New(slog.DiscardHandler))
}

// --- tests ---

func TestCreate_Success(t *testing.T) {
	pub := &capturePublisher{}
	svc := newTestService(&mockRepo{}, &mockRentals{}, pub)

	out, err := svc.Create(context.Background(), CreateInput{
		Name:    "Ada Lovelace",
		Email:   " Ada@Example.COM ",
		Phone:   "555-0100",
		Address: "12 Analytical Way",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, out.ID)
	require.Equal(t, "ada@example.com", out.Email)

	require.Len(t, pub.events, 1)
	require.Equal(t, event.TopicCustomerCreated, pub.events[0].topic)
}

func TestCreate_EmailInUse_FastPath(t *testing.T) {
	m := &mockRepo{
		byEmailFn: func(ctx context.Context, email string) (*model.Customer, error) {
			return &model.Customer{ID: uuid.New(), Email: email}, nil
		},
	}
	pub := &capturePublisher{}
	svc := newTestService(m, &mockRentals{}, pub)

	_, err := svc.Create(context.Background(), CreateInput{Name: "Ada", Email: "taken@x.com"})
	require.Error(t, err)
	require.Equal(t, ErrEmailInUse, Code(err))
	require.Empty(t, pub.events)
}

func TestCreate_EmailInUse_UniqueViolation(t *testing.T) {
	// The read-then-write check can race; the storage constraint is the
	// authoritative guard and must map to the same business error.
	m := &mockRepo{
		createFn: func(ctx context.Context, c *model.Customer) error {
			return &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: "customers_email_key",
				Message:        `duplicate key value violates unique constraint "customers_email_key"`,
			}
		},
	}
	pub := &capturePublisher{}
	svc := newTestService(m, &mockRentals{}, pub)

	_, err := svc.Create(context.Background(), CreateInput{Name: "Ada", Email: "raced@x.com"})
	require.Error(t, err)
	require.Equal(t, ErrEmailInUse, Code(err))
	require.Empty(t, pub.events)
}

func TestCreate_RepoError_Passthrough(t *testing.T) {
	m := &mockRepo{
		createFn: func(ctx context.Context, c *model.Customer) error { return errors.New("db down") },
	}
	svc := newTestService(m, &mockRentals{}, &capturePublisher{})

	_, err := svc.Create(context.Background(), CreateInput{Name: "Ada", Email: "a@x.com"})
	require.Error(t, err)
	require.Equal(t, ErrCode(""), Code(err))
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService(&mockRepo{}, &mockRentals{}, &capturePublisher{})

	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{Name: "A", Email: "a@x.com"})
	require.Error(t, err)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestUpdate_EmailTakenByOther(t *testing.T) {
	id := uuid.New()
	other := uuid.New()
	m := &mockRepo{
		byIDFn: func(ctx context.Context, got uuid.UUID) (*model.Customer, error) {
			return &model.Customer{ID: id, Name: "Ada", Email: "ada@x.com"}, nil
		},
		byEmailFn: func(ctx context.Context, email string) (*model.Customer, error) {
			return &model.Customer{ID: other, Email: email}, nil
		},
	}
	pub := &capturePublisher{}
	svc := newTestService(m, &mockRentals{}, pub)

	_, err := svc.Update(context.Background(), id, UpdateInput{Name: "Ada", Email: "other@x.com"})
	require.Error(t, err)
	require.Equal(t, ErrEmailInUse, Code(err))
	require.Empty(t, pub.events)
}

func TestUpdate_SameEmailKept(t *testing.T) {
	id := uuid.New()
	m := &mockRepo{
		byIDFn: func(ctx context.Context, got uuid.UUID) (*model.Customer, error) {
			return &model.Customer{ID: id, Name: "Ada", Email: "ada@x.com"}, nil
		},
		byEmailFn: func(ctx context.Context, email string) (*model.Customer, error) {
			t.Fatal("unchanged email must not be re-checked")
			return nil, nil
		},
	}
	pub := &capturePublisher{}
	svc := newTestService(m, &mockRentals{}, pub)

	out, err := svc.Update(context.Background(), id, UpdateInput{Name: "Ada B.", Email: "ada@x.com"})
	require.NoError(t, err)
	require.Equal(t, "Ada B.", out.Name)

	require.Len(t, pub.events, 1)
	require.Equal(t, event.TopicCustomerUpdated, pub.events[0].topic)
}

func TestDelete_BlockedByActiveRentals(t *testing.T) {
	id := uuid.New()
	m := &mockRepo{
		byIDFn: func(ctx context.Context, got uuid.UUID) (*model.Customer, error) {
			return &model.Customer{ID: id, Name: "Ada"}, nil
		},
		deleteFn: func(ctx context.Context, got uuid.UUID) (bool, error) {
			t.Fatal("delete must not reach the store when active rentals exist")
			return false, nil
		},
	}
	pub := &capturePublisher{}
	svc := newTestService(m, &mockRentals{active: 2}, pub)

	err := svc.Delete(context.Background(), id)
	require.Error(t, err)
	require.Equal(t, ErrHasActiveRentals, Code(err))
	require.Empty(t, pub.events)
}

func TestDelete_Success_PublishesBareID(t *testing.T) {
	id := uuid.New()
	m := &mockRepo{
		byIDFn: func(ctx context.Context, got uuid.UUID) (*model.Customer, error) {
			return &model.Customer{ID: id, Name: "Ada"}, nil
		},
	}
	pub := &capturePublisher{}
	svc := newTestService(m, &mockRentals{active: 0}, pub)

	require.NoError(t, svc.Delete(context.Background(), id))

	require.Len(t, pub.events, 1)
	require.Equal(t, event.TopicCustomerDeleted, pub.events[0].topic)
	require.Equal(t, map[string]uuid.UUID{"id": id}, pub.events[0].payload)
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(&mockRepo{}, &mockRentals{}, &capturePublisher{})

	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)
	require.Equal(t, ErrNotFound, Code(err))
}

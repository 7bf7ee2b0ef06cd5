// repository/customer/repo.go
package customerrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"rentalservice/model"
)

type Repo interface {
	Create(ctx context.Context, c *model.Customer) error
	ByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	ByEmail(ctx context.Context, email string) (*model.Customer, error)
	All(ctx context.Context) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, c *model.Customer) error {
	// customers_email_key is the authoritative uniqueness guard; the service's
	// read-then-write check is only a fast-path error for the common case.
	const q = `
		INSERT INTO customers (id, name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	return r.db.QueryRowContext(ctx, q, c.ID, c.Name, c.Email, c.Phone, c.Address).
		Scan(&c.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	const q = `
		SELECT id, name, email, phone, address, created_at
		FROM customers
		WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.Customer, error) {
	const q = `
		SELECT id, name, email, phone, address, created_at
		FROM customers
		WHERE lower(email) = lower($1)`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

func (r *repo) All(ctx context.Context) ([]model.Customer, error) {
	const q = `
		SELECT id, name, email, phone, address, created_at
		FROM customers
		ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) Update(ctx context.Context, c *model.Customer) (bool, error) {
	const q = `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, address = $5
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.Email, c.Phone, c.Address)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM customers WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) scanOne(row *sql.Row) (*model.Customer, error) {
	c := &model.Customer{}
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

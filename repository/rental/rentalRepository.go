// repository/rental/repo.go
package rentalrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"rentalservice/model"
)

const rentalColumns = `
	id, customer_id, customer_name,
	book_id, book_title, book_author, book_isbn,
	rental_date, due_date, return_date, status, late_fee, notes`

type Repo interface {
	Create(ctx context.Context, r *model.Rental) error
	ByID(ctx context.Context, id uuid.UUID) (*model.Rental, error)
	ByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Rental, error)
	Active(ctx context.Context) ([]model.Rental, error)
	// Overdue evaluates against the given date, so two calls across a day
	// boundary may legitimately return different sets for the same rows.
	Overdue(ctx context.Context, today time.Time) ([]model.Rental, error)
	All(ctx context.Context) ([]model.Rental, error)
	Update(ctx context.Context, r *model.Rental) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// Return flips an Active rental to Returned, stamps the return date and
	// computes the late fee exactly once. Nil result when there is no Active
	// rental with that id (already returned or nonexistent).
	Return(ctx context.Context, id uuid.UUID, at time.Time) (*model.Rental, error)

	CountActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, m *model.Rental) error {
	const q = `
		INSERT INTO rentals (
			id, customer_id, customer_name,
			book_id, book_title, book_author, book_isbn,
			rental_date, due_date, status, late_fee, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.db.ExecContext(ctx, q,
		m.ID, m.CustomerID, m.CustomerName,
		m.Book.BookID, m.Book.Title, m.Book.Author, m.Book.ISBN,
		m.RentalDate, m.DueDate, m.Status, m.LateFee, m.Notes,
	)
	return err
}

func (r *repo) ByID(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	const q = `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	m, err := scanRental(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repo) ByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Rental, error) {
	const q = `SELECT ` + rentalColumns + `
		FROM rentals
		WHERE customer_id = $1
		ORDER BY rental_date DESC, id`
	return r.list(ctx, q, customerID)
}

func (r *repo) Active(ctx context.Context) ([]model.Rental, error) {
	const q = `SELECT ` + rentalColumns + `
		FROM rentals
		WHERE status = 'Active'
		ORDER BY rental_date DESC, id`
	return r.list(ctx, q)
}

func (r *repo) Overdue(ctx context.Context, today time.Time) ([]model.Rental, error) {
	const q = `SELECT ` + rentalColumns + `
		FROM rentals
		WHERE status = 'Active' AND due_date < $1
		ORDER BY due_date, id`
	return r.list(ctx, q, model.Today(today))
}

func (r *repo) All(ctx context.Context) ([]model.Rental, error) {
	const q = `SELECT ` + rentalColumns + `
		FROM rentals
		ORDER BY rental_date DESC, id`
	return r.list(ctx, q)
}

func (r *repo) Update(ctx context.Context, m *model.Rental) (bool, error) {
	// The book_* snapshot columns are deliberately not updatable: the embedded
	// BookReference is immutable for the life of the rental.
	const q = `
		UPDATE rentals
		SET due_date = $2, notes = $3
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, m.ID, m.DueDate, m.Notes)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM rentals WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) Return(ctx context.Context, id uuid.UUID, at time.Time) (m *model.Rental, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const sel = `SELECT ` + rentalColumns + `
		FROM rentals
		WHERE id = $1 AND status = 'Active'
		FOR UPDATE`
	m, err = scanRental(tx.QueryRowContext(ctx, sel, id))
	if errors.Is(err, sql.ErrNoRows) {
		// No Active rental with this id: an explicit no-op, not a failure.
		_ = tx.Rollback()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ret := at.UTC()
	m.ReturnDate = &ret
	m.Status = model.RentalReturned
	m.LateFee = model.ComputeLateFee(m.DueDate, ret)

	const upd = `
		UPDATE rentals
		SET status = $2, return_date = $3, late_fee = $4
		WHERE id = $1`
	if _, err = tx.ExecContext(ctx, upd, m.ID, m.Status, m.ReturnDate, m.LateFee); err != nil {
		return nil, err
	}
	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repo) CountActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	const q = `SELECT COUNT(*) FROM rentals WHERE customer_id = $1 AND status = 'Active'`
	var n int64
	err := r.db.QueryRowContext(ctx, q, customerID).Scan(&n)
	return n, err
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.Rental, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Rental
	for rows.Next() {
		m, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRental(s scanner) (*model.Rental, error) {
	m := &model.Rental{}
	err := s.Scan(
		&m.ID, &m.CustomerID, &m.CustomerName,
		&m.Book.BookID, &m.Book.Title, &m.Book.Author, &m.Book.ISBN,
		&m.RentalDate, &m.DueDate, &m.ReturnDate, &m.Status, &m.LateFee, &m.Notes,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// model/rental.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type RentalStatus string

const (
	RentalActive   RentalStatus = "Active"
	RentalReturned RentalStatus = "Returned"
)

// RentalPeriod is the fixed loan window; the due date is never revised after creation.
const RentalPeriod = 14 * 24 * time.Hour

// LateFeePerDay is charged per whole day past the due date, computed once at return.
const LateFeePerDay = 0.50

// BookReference is a denormalized snapshot of catalog data captured at rental
// creation. It never points back at the catalog record and is never refreshed.
type BookReference struct {
	BookID uuid.UUID `json:"book_id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	ISBN   string    `json:"isbn"`
}

type Rental struct {
	ID           uuid.UUID     `json:"id"`
	CustomerID   uuid.UUID     `json:"customer_id"`
	CustomerName string        `json:"customer_name"`
	Book         BookReference `json:"book"`
	RentalDate   time.Time     `json:"rental_date"`
	DueDate      time.Time     `json:"due_date"`
	ReturnDate   *time.Time    `json:"return_date,omitempty"`
	Status       RentalStatus  `json:"status"`
	LateFee      float64       `json:"late_fee"`
	Notes        *string       `json:"notes,omitempty"`
}

// Overdue is derived, never stored: Active and due strictly before today's date.
func (r *Rental) Overdue(now time.Time) bool {
	return r.Status == RentalActive && r.DueDate.Before(Today(now))
}

// Today truncates a moment to its UTC calendar date.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputeLateFee charges per whole day late, truncated. Zero when returned on
// or before the due date.
func ComputeLateFee(dueDate, returnDate time.Time) float64 {
	if !returnDate.After(dueDate) {
		return 0
	}
	daysLate := int(returnDate.Sub(dueDate).Hours() / 24)
	return float64(daysLate) * LateFeePerDay
}

package rental

import "time"

type CreateRentalReq struct {
	CustomerID string  `json:"customer_id" validate:"required,uuid"`
	BookID     string  `json:"book_id" validate:"required,uuid"`
	Notes      *string `json:"notes,omitempty"`
}

type AmendRentalReq struct {
	DueDate *time.Time `json:"due_date,omitempty"`
	Notes   *string    `json:"notes,omitempty"`
}

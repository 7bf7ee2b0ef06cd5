package notification

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	ns "rentalservice/service/notification"

	"rentalservice/model"
)

type Controller struct {
	Svc ns.Service
	V   *validator.Validate
	Log *slog.Logger
}

type NewBookReq struct {
	BookID string `json:"book_id" validate:"required,uuid"`
	Title  string `json:"title" validate:"required"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// POST /v1/notifications/books
//
// The catalog fires this once and never retries, so the response always
// carries HTTP 200 with a success flag; success=false only means the payload
// itself was unusable.
func (h *Controller) NewBook(c echo.Context) error {
	var req NewBookReq
	if err := c.Bind(&req); err != nil {
		h.Log.Warn("book notification bind failed", "err", err)
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "invalid payload"})
	}
	if err := h.V.Struct(req); err != nil {
		h.Log.Warn("book notification validation failed", "err", err)
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "invalid payload: " + err.Error()})
	}
	bookID, _ := uuid.Parse(req.BookID)

	h.Svc.BookCreated(c.Request().Context(), model.BookReference{
		BookID: bookID,
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "book '" + req.Title + "' registered",
	})
}

package notification

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	ns "rentalservice/service/notification"
)

func newController() *Controller {
	log := slog.New(slog.DiscardHandler)
	return &Controller{
		Svc: ns.New(nil, log),
		V:   validator.New(),
		Log: log,
	}
}

func post(t *testing.T, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/notifications/books", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, newController().NewBook(c))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestNewBook_Acknowledges(t *testing.T) {
	body := `{"book_id":"` + uuid.NewString() + `","title":"Dune","author":"Frank Herbert","isbn":"978-0441013593"}`
	rec, out := post(t, body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, out["success"])
	require.Contains(t, out["message"], "Dune")
}

func TestNewBook_BadPayloadStillAcknowledges(t *testing.T) {
	// The catalog side never retries and must never see an error status.
	cases := []struct {
		name string
		body string
	}{
		{"garbage json", `{not json`},
		{"missing title", `{"book_id":"` + uuid.NewString() + `"}`},
		{"bad book id", `{"book_id":"not-a-uuid","title":"Dune"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, out := post(t, tc.body)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, false, out["success"])
		})
	}
}

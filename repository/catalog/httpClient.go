package catalogrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentalservice/model"
	"rentalservice/util/httpx"
)

type httpClient struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

func NewHTTP(baseURL string, timeout time.Duration, log *slog.Logger) Client {
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpx.Client(timeout),
		log:     log,
	}
}

type bookDTO struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	ISBN   string    `json:"isbn"`
	Author *struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	} `json:"author"`
}

type availabilityDTO struct {
	BookID          uuid.UUID `json:"book_id"`
	IsAvailable     bool      `json:"available"`
	AvailableCopies int       `json:"available_copies"`
}

func (c *httpClient) IsAvailable(ctx context.Context, bookID uuid.UUID) bool {
	url := fmt.Sprintf("%s/api/books/%s/availability", c.baseURL, bookID)
	resp, err := c.get(ctx, url)
	if err != nil {
		c.log.Error("catalog availability check failed", "book_id", bookID, "err", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("catalog availability non-OK", "book_id", bookID, "status", resp.StatusCode)
		return false
	}

	var out availabilityDTO
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.log.Error("catalog availability decode failed", "book_id", bookID, "err", err)
		return false
	}
	return out.IsAvailable
}

func (c *httpClient) Snapshot(ctx context.Context, bookID uuid.UUID) (*model.BookReference, bool) {
	url := fmt.Sprintf("%s/api/books/%s", c.baseURL, bookID)
	resp, err := c.get(ctx, url)
	if err != nil {
		c.log.Error("catalog book fetch failed", "book_id", bookID, "err", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode != http.StatusNotFound {
			c.log.Warn("catalog book fetch non-OK", "book_id", bookID, "status", resp.StatusCode)
		}
		return nil, false
	}

	var dto bookDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		c.log.Error("catalog book decode failed", "book_id", bookID, "err", err)
		return nil, false
	}

	author := "Unknown Author"
	if dto.Author != nil && dto.Author.Name != "" {
		author = dto.Author.Name
	}
	return &model.BookReference{
		BookID: dto.ID,
		Title:  dto.Title,
		Author: author,
		ISBN:   dto.ISBN,
	}, true
}

func (c *httpClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.client.Do(req)
}

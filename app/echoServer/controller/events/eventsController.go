package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"rentalservice/event"
)

type Controller struct {
	Pub event.Publisher
	Log *slog.Logger
}

// GET /v1/events?topics=RentalCreated,CustomerDeleted
//
// Server-sent event stream of domain events. Without a topics filter the
// stream carries every topic this service publishes.
func (h *Controller) Stream(c echo.Context) error {
	var topics []string
	if raw := c.QueryParam("topics"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
	}

	ctx := c.Request().Context()
	ch, stop := h.Pub.Subscribe(ctx, topics...)
	defer stop()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	for {
		select {
		case env, ok := <-ch:
			if !ok {
				return nil
			}
			b, err := json.Marshal(env)
			if err != nil {
				h.Log.Error("event stream marshal", "err", err)
				continue
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", env.Topic, b); err != nil {
				return nil
			}
			res.Flush()
		case <-ctx.Done():
			return nil
		}
	}
}

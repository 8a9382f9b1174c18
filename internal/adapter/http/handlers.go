package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports reachability of a backing store.
type Pinger func(ctx context.Context) error

type Handler struct {
	db    Pinger
	redis Pinger
}

func NewHandler(db, redis Pinger) *Handler { return &Handler{db: db, redis: redis} }

func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	check := func(p Pinger) string {
		if p == nil {
			return "skipped"
		}
		if err := p(ctx); err != nil {
			status = http.StatusServiceUnavailable
			return "down"
		}
		return "ok"
	}
	dbState := check(h.db)
	redisState := check(h.redis)

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	return c.JSON(status, map[string]any{
		"status": overall,
		"db":     dbState,
		"redis":  redisState,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

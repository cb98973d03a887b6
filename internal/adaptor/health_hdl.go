package adaptor

import (
	"context"
	"net/http"
	"time"

	"hospital-booking/pkg/utils"

	"go.uber.org/zap"
)

// Pinger is satisfied by the database pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function, e.g. a Redis client ping.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	postgres Pinger
	redis    Pinger
	name     string
	log      *zap.Logger
}

// NewHealthHandler takes a nil redis when the slot cache is disabled.
func NewHealthHandler(postgres, redis Pinger, name string, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		postgres: postgres,
		redis:    redis,
		name:     name,
		log:      log.With(zap.String("handler", "health")),
	}
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Dependencies map[string]string `json:"dependencies"`
}

// Live handles GET /health/live
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "ok", map[string]string{"service": h.name})
}

// Ready handles GET /health/ready. Postgres down is fatal, Redis down only
// degrades: bookings keep working without the cache.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := map[string]string{"postgres": "ok", "redis": "disabled"}
	status := "ok"

	if err := h.postgres.Ping(ctx); err != nil {
		h.log.Warn("Readiness: postgres ping failed", zap.Error(err))
		deps["postgres"] = "down"
		status = "error"
	}

	if h.redis != nil {
		deps["redis"] = "ok"
		if err := h.redis.Ping(ctx); err != nil {
			h.log.Warn("Readiness: redis ping failed", zap.Error(err))
			deps["redis"] = "down"
			if status == "ok" {
				status = "degraded"
			}
		}
	}

	res := ReadinessResponse{Status: status, Service: h.name, Dependencies: deps}
	if status == "error" {
		utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "not ready", res, nil)
		return
	}
	utils.ResponseSuccess(w, status, res)
}

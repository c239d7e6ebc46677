package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Rokin-Inteligencia/roksell-sub000/internal/infrastructure/persistence"
)

// readyCheckTimeout bounds each dependency probe on /ready.
const readyCheckTimeout = 2 * time.Second

// SystemHandler serves liveness and readiness probes
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	redis     *redis.Client
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. The redis client is
// optional; deployments running the in-memory cart store pass nil.
func NewSystemHandler(db *persistence.Database, redisClient *redis.Client, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		redis:     redisClient,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthResponse reports process liveness
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// ReadyResponse reports dependency readiness
type ReadyResponse struct {
	Status string            `json:"status" example:"ready"`
	Checks map[string]string `json:"checks"`
}

// Health godoc
// @Summary      Liveness probe
// @Description  Returns 200 while the process is running; checks no dependencies
// @Tags         system
// @Produce      json
// @Success      200 {object} handler.HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ready godoc
// @Summary      Readiness probe
// @Description  Verifies the database and, when configured, Redis; 503 when any check fails
// @Tags         system
// @Produce      json
// @Success      200 {object} handler.ReadyResponse
// @Failure      503 {object} handler.ReadyResponse
// @Router       /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	checks := map[string]string{}
	ready := true

	if err := h.db.Ping(); err != nil {
		checks["database"] = err.Error()
		ready = false
	} else {
		checks["database"] = "ok"
	}

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyCheckTimeout)
		defer cancel()
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			ready = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	resp := ReadyResponse{Status: "ready", Checks: checks}
	if !ready {
		status = http.StatusServiceUnavailable
		resp.Status = "unavailable"
	}
	c.JSON(status, resp)
}

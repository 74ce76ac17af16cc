package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles GET /health (liveness) and GET /health/ready
// (readiness of the remote store and the session backend).
type HealthHandler struct {
	deps map[string]Pinger
}

func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type dependencyStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string             `json:"status"`
	Dependencies []dependencyStatus `json:"dependencies"`
}

// Liveness returns 200 immediately; it confirms the process is alive.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readiness pings every dependency and answers 503 if any is down.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make([]dependencyStatus, 0, len(names))
	healthy := true
	for _, name := range names {
		if err := h.deps[name].Ping(ctx); err != nil {
			deps = append(deps, dependencyStatus{Name: name, Status: "unhealthy", Error: err.Error()})
			healthy = false
			continue
		}
		deps = append(deps, dependencyStatus{Name: name, Status: "ok"})
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}

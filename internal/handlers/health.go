package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"IG_DIRECTORY_BACK-END/internal/dto"
	"IG_DIRECTORY_BACK-END/internal/utils"
)

// PingFunc checks one dependency
type PingFunc func(ctx context.Context) error

// HealthHandler handles health check related requests
type HealthHandler struct {
	checks map[string]PingFunc
}

// NewHealthHandler creates a new HealthHandler instance. checks are run by the readiness probe.
func NewHealthHandler(checks map[string]PingFunc) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// HealthCheck handles basic health check (no dependencies)
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// LivenessCheck handles process liveness check
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /livez [get]
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "alive"})
}

// ReadinessCheck pings every dependency
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	details := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			details[name] = err.Error()
			healthy = false
			continue
		}
		details[name] = "ok"
	}

	if !healthy {
		utils.WriteJSONResponse(w, http.StatusServiceUnavailable, dto.HealthResponse{Status: "degraded", Checks: details})
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.HealthResponse{Status: "ready", Checks: details})
}

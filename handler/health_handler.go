package handler

import (
	"finease-api/common"
	"net/http"
)

// ReadinessChecker reports whether the database is reachable.
type ReadinessChecker interface {
	Ready() bool
}

// Root godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "FinEase Server is running"
// @Router       / [get]
func Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("FinEase Server is running"))
}

type HealthHandler struct {
	readiness ReadinessChecker
}

func NewHealthHandler(readiness ReadinessChecker) *HealthHandler {
	return &HealthHandler{readiness: readiness}
}

// HealthCheck godoc
// @Summary      Readiness probe
// @Description  Reports whether the database answered the most recent ping.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if !h.readiness.Ready() {
		common.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

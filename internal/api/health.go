package api

import "net/http"

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// HealthLiveness handles GET /health/liveness
func (h *Handlers) HealthLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "alive",
	})
}

// HealthReadiness handles GET /health/readiness. Unhealthy when the history
// database is configured but unreachable.
func (h *Handlers) HealthReadiness(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// HealthServices handles GET /health/services.
func (h *Handlers) HealthServices(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{}

	if h.DB != nil {
		if err := h.DB.Ping(r.Context()); err != nil {
			services["database"] = "unhealthy: " + err.Error()
		} else {
			services["database"] = "healthy"
		}
	} else {
		services["database"] = "not_configured"
	}

	if h.Cache != nil {
		if err := h.Cache.Set(r.Context(), "emailcraft:health:ping", []byte("ok"), 0); err != nil {
			services["cache"] = "unhealthy: " + err.Error()
		} else {
			services["cache"] = "healthy"
		}
	} else {
		services["cache"] = "not_configured"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"services": services,
	})
}

// Package api exposes the HTTP surface: single generation, batch lifecycle,
// exports, history and analytics.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/07fahim/EmailCraft-AI/internal/batch"
	"github.com/07fahim/EmailCraft-AI/internal/cache"
	"github.com/07fahim/EmailCraft-AI/internal/db"
	"github.com/07fahim/EmailCraft-AI/internal/genclient"
	"github.com/07fahim/EmailCraft-AI/internal/metrics"
	"github.com/07fahim/EmailCraft-AI/internal/model"
)

// Handlers holds shared dependencies for all HTTP handlers. DB, Cache and
// Metrics are optional; handlers degrade when they are nil.
type Handlers struct {
	Gen      genclient.Generator
	Registry *batch.Registry
	DB       db.Store
	Cache    cache.Cache
	Metrics  *metrics.Collector
	Validate *validator.Validate

	// Batch input limits.
	MaxRows     int
	SkipPreview int
}

func NewHandlers() *Handlers {
	return &Handlers{
		Validate: validator.New(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errType, msg string) {
	writeJSON(w, status, model.ErrorResponse{
		Error: model.ErrorDetail{Message: msg, Type: errType},
	})
}

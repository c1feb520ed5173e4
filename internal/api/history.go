package api

import (
	"net/http"
	"strconv"

	"github.com/07fahim/EmailCraft-AI/internal/db"
)

// History handles GET /history. Supports search, status and batch_id filters
// plus limit/offset pagination. Answers 503 when no database is configured.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "not_configured_error", "history requires a database")
		return
	}

	q := r.URL.Query()
	arg := db.ListEmailGenerationsParams{
		Search:       q.Get("search"),
		StatusFilter: q.Get("status"),
		BatchID:      q.Get("batch_id"),
		Limit:        queryInt32(q.Get("limit"), 50),
		Offset:       queryInt32(q.Get("offset"), 0),
	}
	if arg.Limit <= 0 || arg.Limit > 500 {
		arg.Limit = 50
	}

	items, err := h.DB.ListEmailGenerations(r.Context(), arg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database_error", err.Error())
		return
	}
	total, err := h.DB.CountEmailGenerations(r.Context(), arg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
	})
}

// Analytics handles GET /analytics: aggregate stats over the stored history.
func (h *Handlers) Analytics(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "not_configured_error", "analytics requires a database")
		return
	}

	report, err := h.DB.GetAnalytics(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func queryInt32(s string, def int32) int32 {
	if s == "" {
		return def
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return def
	}
	return int32(n)
}

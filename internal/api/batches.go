package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/07fahim/EmailCraft-AI/internal/batch"
	"github.com/07fahim/EmailCraft-AI/internal/export"
	"github.com/07fahim/EmailCraft-AI/internal/model"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// csvTemplate is served to users building their first batch file.
const csvTemplate = "job_url,role,industry,company_name,recipient_name,tone,sender_name,sender_company,sender_services\n" +
	"https://example.com/jobs/backend-engineer,,,Acme Corp,Jane Doe,professional,,,\n" +
	",CTO,fintech,Globex,John Smith,casual,,,\n"

// batchInput extracts the CSV payload from either a multipart "file" field
// or a raw request body.
func batchInput(r *http.Request) (io.Reader, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing form file %q: %w", "file", err)
		}
		return f, nil
	}
	return http.MaxBytesReader(nil, r.Body, maxUploadBytes), nil
}

// BatchesCreate handles POST /batches: parse, validate and start dispatch.
// Returns 202 with the batch id and the pre-flight report; dispatch runs in
// the background.
func (h *Handlers) BatchesCreate(w http.ResponseWriter, r *http.Request) {
	in, err := batchInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", err.Error())
		return
	}

	reqs, pre, err := batch.ParseRequests(in, batch.SourceOptions{
		MaxRows:     h.MaxRows,
		SkipPreview: h.SkipPreview,
	})
	if err != nil {
		if errors.Is(err, batch.ErrMalformedInput) {
			writeError(w, http.StatusBadRequest, "invalid_request_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	run := h.Registry.Start(reqs, pre)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"batch_id":  run.ID,
		"preflight": pre,
	})
}

// BatchesGet handles GET /batches/{batch_id}: current state, summary and the
// outcomes recorded so far.
func (h *Handlers) BatchesGet(w http.ResponseWriter, r *http.Request) {
	run, ok := h.Registry.Get(chi.URLParam(r, "batch_id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found_error", "unknown batch id")
		return
	}
	writeJSON(w, http.StatusOK, batchStatusResponse{
		RunSnapshot: run.Snapshot(),
		Outcomes:    run.Outcomes(),
	})
}

type batchStatusResponse struct {
	batch.RunSnapshot
	Outcomes []model.Outcome `json:"outcomes"`
}

// BatchesList handles GET /batches.
func (h *Handlers) BatchesList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"batches": h.Registry.List(),
	})
}

// BatchesCancel handles POST /batches/{batch_id}/cancel. Cancellation is
// cooperative: an in-flight row still completes, so the response reports the
// state as of the request.
func (h *Handlers) BatchesCancel(w http.ResponseWriter, r *http.Request) {
	run, ok := h.Registry.Get(chi.URLParam(r, "batch_id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found_error", "unknown batch id")
		return
	}
	run.Cancel()
	writeJSON(w, http.StatusAccepted, run.Snapshot())
}

// BatchesExport handles GET /batches/{batch_id}/export?format=csv|excel.
// A running batch answers 409 unless partial=true is given, in which case
// the rows recorded so far are exported.
func (h *Handlers) BatchesExport(w http.ResponseWriter, r *http.Request) {
	run, ok := h.Registry.Get(chi.URLParam(r, "batch_id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found_error", "unknown batch id")
		return
	}

	state, _ := run.State()
	if !state.Terminal() && r.URL.Query().Get("partial") != "true" {
		writeError(w, http.StatusConflict, "invalid_request_error", "batch is still running; pass partial=true to export completed rows")
		return
	}

	outcomes := run.Outcomes()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=generated_emails_%s.csv", run.ID))
		if err := export.WriteCSV(w, outcomes); err != nil {
			// Headers are gone; nothing to do but note it.
			return
		}
	case "excel":
		w.Header().Set("Content-Type", "application/vnd.ms-excel")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=generated_emails_%s.xls", run.ID))
		_ = export.WriteExcel(w, outcomes)
	default:
		writeError(w, http.StatusBadRequest, "invalid_request_error", "unsupported export format "+format)
	}
}

// BatchesTemplate handles GET /batches/csv-template.
func (h *Handlers) BatchesTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=email_batch_template.csv")
	_, _ = io.WriteString(w, csvTemplate)
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/07fahim/EmailCraft-AI/internal/db"
	"github.com/07fahim/EmailCraft-AI/internal/model"
)

// generateResponse is the envelope the frontend expects.
type generateResponse struct {
	Success bool                  `json:"success"`
	Data    *model.GeneratedEmail `json:"data,omitempty"`
	Message string                `json:"message,omitempty"`
}

// Generate handles POST /generate-email, one interactive generation.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req model.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "invalid JSON body: "+err.Error())
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "field "+verrs[0].Field()+" failed on "+verrs[0].Tag())
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	req.ApplyDefaults()

	start := time.Now()
	email, err := h.Gen.Generate(r.Context(), req)
	if err != nil {
		if h.Metrics != nil {
			h.Metrics.ObserveGeneration("failure", "single", time.Since(start))
		}
		h.recordGeneration(nil, 0, req, nil, err.Error())
		writeError(w, http.StatusBadGateway, "generation_error", err.Error())
		return
	}

	if h.Metrics != nil {
		h.Metrics.ObserveGeneration("success", "single", time.Since(start))
	}
	h.recordGeneration(nil, 0, req, email, "")

	writeJSON(w, http.StatusOK, generateResponse{
		Success: true,
		Data:    email,
		Message: "Email generated successfully",
	})
}

// recordGeneration persists one generation to history (fire-and-forget).
func (h *Handlers) recordGeneration(batchID *string, rowNumber int32, req model.EmailRequest, email *model.GeneratedEmail, errMsg string) {
	if h.DB == nil {
		return
	}

	arg := db.InsertEmailGenerationParams{
		BatchID:       batchID,
		JobURL:        req.JobURL,
		Role:          req.Role,
		Industry:      req.Industry,
		CompanyName:   req.CompanyName,
		RecipientName: req.RecipientName,
		Tone:          req.Tone,
		Status:        string(model.StatusSuccess),
		Error:         errMsg,
	}
	if batchID != nil {
		arg.RowNumber = &rowNumber
	}
	if errMsg != "" {
		arg.Status = string(model.StatusFailure)
	}
	if email != nil {
		arg.SubjectLine = email.Email.SubjectLine
		arg.Body = email.Email.Body
		arg.CTA = email.Email.CTA
		arg.OverallScore = email.Evaluation.OverallScore
		arg.InitialScore = email.InitialScore
		arg.OptimizationApplied = email.OptimizationApplied
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, _ = h.DB.InsertEmailGeneration(ctx, arg)
	}()
}

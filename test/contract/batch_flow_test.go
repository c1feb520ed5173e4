package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/07fahim/EmailCraft-AI/internal/api"
	"github.com/07fahim/EmailCraft-AI/internal/batch"
	"github.com/07fahim/EmailCraft-AI/internal/genclient"
)

// upstreamPayload mimics the generation service's success response.
func upstreamPayload(subject string, score float64) map[string]any {
	return map[string]any{
		"success": true,
		"data": map[string]any{
			"final_email": map[string]any{
				"subject_line": subject,
				"body":         "Hi,\n\nShort pitch.\n\nBest",
				"cta":          "Worth a chat?",
			},
			"final_score": score,
			"evaluation_details": map[string]any{
				"clarity_score": 9.0,
				"strengths":     []string{"concise"},
				"issues":        []string{},
			},
			"initial_score":             score - 1,
			"optimization_applied":      true,
			"alternative_subject_lines": []string{"Alt one"},
			"portfolio_items_used":      []string{},
		},
		"message": "ok",
	}
}

func newStack(t *testing.T, upstream http.HandlerFunc) *api.Server {
	t.Helper()
	us := httptest.NewServer(upstream)
	t.Cleanup(us.Close)

	gen := genclient.New(genclient.Options{
		BaseURL:      us.URL,
		MaxRetries:   2,
		RetryBackoff: 10 * time.Millisecond,
	})

	h := api.NewHandlers()
	h.Gen = gen
	h.Validate = validator.New()
	h.Registry = batch.NewRegistry(batch.RegistryOptions{Generator: gen})
	return api.NewServer(h)
}

func TestBatchFlowAgainstUpstream(t *testing.T) {
	calls := 0
	s := newStack(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate-email", r.URL.Path)
		calls++
		if calls == 2 {
			// One transient failure: the client must retry and recover.
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "busy"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(upstreamPayload(fmt.Sprintf("Subject %d", calls), 8.0))
	})

	csvBody := "job_url,company_name\n" +
		"https://example.com/jobs/1,Acme\n" +
		"https://example.com/jobs/2,Globex\n"
	req := httptest.NewRequest(http.MethodPost, "/batches", bytes.NewReader([]byte(csvBody)))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var created struct {
		BatchID string `json:"batch_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	var snap batch.RunSnapshot
	deadline := time.Now().Add(10 * time.Second)
	for {
		rec = httptest.NewRecorder()
		s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/batches/"+created.BatchID, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		if snap.State.Terminal() {
			break
		}
		require.True(t, time.Now().Before(deadline), "batch never finished")
		time.Sleep(20 * time.Millisecond)
	}

	assert.Equal(t, batch.StateDone, snap.State)
	assert.Equal(t, 2, snap.Summary.Processed)
	assert.Equal(t, 2, snap.Summary.Succeeded, "transient 503 must be retried away")
	assert.InDelta(t, 8.0, snap.Summary.AverageScore, 1e-9)

	rec = httptest.NewRecorder()
	s.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/batches/"+created.BatchID+"/export?format=csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Subject 1")
	assert.Contains(t, body, "Acme")
	assert.False(t, strings.Contains(body, "�"), "export must stay valid UTF-8")
}

func TestSingleGenerationAgainstUpstream(t *testing.T) {
	s := newStack(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://example.com/jobs/7", req["job_url"])
		assert.Equal(t, "Alex", req["sender_name"], "defaults must reach the wire")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(upstreamPayload("Hello there", 9.1))
	})

	body := []byte(`{"job_url":"https://example.com/jobs/7"}`)
	req := httptest.NewRequest(http.MethodPost, "/generate-email", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Email struct {
				SubjectLine string `json:"subject_line"`
			} `json:"email"`
			Evaluation struct {
				OverallScore float64 `json:"overall_score"`
			} `json:"evaluation"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Hello there", resp.Data.Email.SubjectLine)
	assert.InDelta(t, 9.1, resp.Data.Evaluation.OverallScore, 1e-9)
}

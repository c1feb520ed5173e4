package genclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/07fahim/EmailCraft-AI/internal/model"
)

func testRequest() model.EmailRequest {
	r := model.EmailRequest{
		JobURL:      "https://example.com/jobs/42",
		CompanyName: "Acme Corp",
	}
	r.ApplyDefaults()
	return r
}

const successBody = `{
	"success": true,
	"data": {
		"final_email": {"subject_line": "Hello Acme", "body": "We build things.", "cta": "Book a call"},
		"final_score": 8.7,
		"initial_score": 7.9,
		"optimization_applied": true,
		"alternative_subject_lines": ["Alt one", "Alt two"],
		"evaluation_details": {
			"clarity_score": 9.0,
			"tone_alignment_score": 8.5,
			"length_score": 8.0,
			"spam_risk_score": 2.0,
			"personalization_score": 8.8,
			"strengths": ["clear opener"],
			"issues": []
		},
		"portfolio_items_used": ["Fintech dashboard"]
	},
	"message": "Email generated successfully"
}`

func TestGenerate_Success(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate-email", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(successBody))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, APIKey: "sk-test"})
	result, err := c.Generate(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "Hello Acme", result.Email.SubjectLine)
	assert.Equal(t, "We build things.", result.Email.Body)
	assert.Equal(t, "Book a call", result.Email.CTA)
	assert.Equal(t, 8.7, result.Evaluation.OverallScore)
	assert.Equal(t, 2.0, result.Evaluation.SpamRiskScore)
	assert.Equal(t, []string{"Alt one", "Alt two"}, result.AlternativeSubjectLines)
	assert.True(t, result.OptimizationApplied)
	assert.Equal(t, 7.9, result.InitialScore)
	assert.Equal(t, []string{"Fintech dashboard"}, result.PortfolioItemsUsed)
}

func TestGenerate_SanitizesNonFiniteScores(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": {
			"final_email": {"subject_line": "s", "body": "b", "cta": "c"},
			"final_score": Infinity,
			"evaluation_details": {"clarity_score": NaN, "tone_alignment_score": 12.5}
		}}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	result, err := c.Generate(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Evaluation.OverallScore)
	assert.Equal(t, 0.0, result.Evaluation.ClarityScore)
	assert.Equal(t, 10.0, result.Evaluation.ToneAlignmentScore) // clamped
}

func TestGenerate_ErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "scraper could not reach job posting"}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scraper could not reach job posting")
}

func TestGenerate_RetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(successBody))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, RetryBackoff: time.Millisecond})
	result, err := c.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, "Hello Acme", result.Email.SubjectLine)
}

func TestGenerate_ExhaustsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, MaxRetries: 2, RetryBackoff: time.Millisecond})
	_, err := c.Generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestGenerate_NoRetryOnBadRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Either provide job_url OR (role + industry)"}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, RetryBackoff: time.Millisecond})
	_, err := c.Generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerate_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(Options{BaseURL: srv.URL, RetryBackoff: time.Second})
	_, err := c.Generate(ctx, testRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate_UnsuccessfulFlag(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"success": false, "message": "persona store unavailable"}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, RetryBackoff: time.Millisecond})
	result, err := c.Generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "persona store unavailable")
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerate_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "data": `))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	_, err := c.Generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse response")
}

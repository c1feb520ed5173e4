package genclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/07fahim/EmailCraft-AI/internal/model"
)

const generatePath = "/generate-email"

// Options configures the HTTP client.
type Options struct {
	BaseURL string
	APIKey  string

	// Timeout bounds a single HTTP attempt. Zero means 180s.
	Timeout time.Duration

	// MaxRetries is the total number of attempts for retryable failures.
	// Zero means 3.
	MaxRetries int

	// RetryBackoff is the base wait between attempts; attempt n waits
	// n*RetryBackoff. Zero means 3s. Tests set this to something tiny.
	RetryBackoff time.Duration
}

// Client calls the generation service over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
}

// New creates a Client from Options.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 180 * time.Second
	}
	retries := opts.MaxRetries
	if retries == 0 {
		retries = 3
	}
	backoff := opts.RetryBackoff
	if backoff == 0 {
		backoff = 3 * time.Second
	}
	return &Client{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		maxRetries: retries,
		backoff:    backoff,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// wire types for the generation service's JSON contract.
type generateResponse struct {
	Success bool       `json:"success"`
	Data    wireResult `json:"data"`
	Message string     `json:"message"`
}

type wireResult struct {
	FinalEmail              wireEmail `json:"final_email"`
	FinalScore              float64   `json:"final_score"`
	InitialScore            float64   `json:"initial_score"`
	OptimizationApplied     bool      `json:"optimization_applied"`
	AlternativeSubjectLines []string  `json:"alternative_subject_lines"`
	EvaluationDetails       wireEval  `json:"evaluation_details"`
	PortfolioItemsUsed      []string  `json:"portfolio_items_used"`
}

type wireEmail struct {
	SubjectLine string `json:"subject_line"`
	Body        string `json:"body"`
	CTA         string `json:"cta"`
}

type wireEval struct {
	ClarityScore         float64  `json:"clarity_score"`
	ToneAlignmentScore   float64  `json:"tone_alignment_score"`
	LengthScore          float64  `json:"length_score"`
	SpamRiskScore        float64  `json:"spam_risk_score"`
	PersonalizationScore float64  `json:"personalization_score"`
	Strengths            []string `json:"strengths"`
	Issues               []string `json:"issues"`
}

// Generate performs one generation call, retrying on rate limits, gateway
// errors, and timeouts. Retries stop as soon as ctx is done.
func (c *Client) Generate(ctx context.Context, req model.EmailRequest) (*model.GeneratedEmail, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * c.backoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		result, retryable, err := c.do(ctx, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("generation failed after %d attempts: %w", c.maxRetries, lastErr)
}

// do performs a single HTTP attempt. The second return reports whether the
// failure is worth retrying.
func (c *Client) do(ctx context.Context, body []byte) (*model.GeneratedEmail, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		// Client-side timeouts are retryable; other transport errors are not.
		var ne interface{ Timeout() bool }
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, true, fmt.Errorf("request timeout: %w", err)
		}
		return nil, false, fmt.Errorf("call generation service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		result, err := parseSuccess(resp.Body)
		return result, false, err
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return nil, true, fmt.Errorf("generation service: HTTP %d", resp.StatusCode)
	default:
		return nil, false, parseError(resp)
	}
}

func parseSuccess(r io.Reader) (*model.GeneratedEmail, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var wire generateResponse
	if err := json.Unmarshal(SanitizeJSON(raw), &wire); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if !wire.Success {
		if wire.Message != "" {
			return nil, fmt.Errorf("generation service: %s", wire.Message)
		}
		return nil, errors.New("generation service: unsuccessful response")
	}

	result := &model.GeneratedEmail{
		Email: model.EmailDraft{
			SubjectLine: wire.Data.FinalEmail.SubjectLine,
			Body:        wire.Data.FinalEmail.Body,
			CTA:         wire.Data.FinalEmail.CTA,
		},
		Evaluation: model.EvaluationMetrics{
			OverallScore:         wire.Data.FinalScore,
			ClarityScore:         wire.Data.EvaluationDetails.ClarityScore,
			ToneAlignmentScore:   wire.Data.EvaluationDetails.ToneAlignmentScore,
			LengthScore:          wire.Data.EvaluationDetails.LengthScore,
			PersonalizationScore: wire.Data.EvaluationDetails.PersonalizationScore,
			SpamRiskScore:        wire.Data.EvaluationDetails.SpamRiskScore,
			Strengths:            wire.Data.EvaluationDetails.Strengths,
			Issues:               wire.Data.EvaluationDetails.Issues,
		},
		AlternativeSubjectLines: wire.Data.AlternativeSubjectLines,
		OptimizationApplied:     wire.Data.OptimizationApplied,
		InitialScore:            model.ClampScore(wire.Data.InitialScore),
		PortfolioItemsUsed:      wire.Data.PortfolioItemsUsed,
	}
	result.Evaluation.Clamp()
	return result, nil
}

func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(SanitizeJSON(body), &errResp); err == nil && errResp.Detail != "" {
		return fmt.Errorf("generation service: %s", errResp.Detail)
	}
	return fmt.Errorf("generation service: HTTP %d", resp.StatusCode)
}

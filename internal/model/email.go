package model

import "math"

// Default sender identity applied when a request leaves these fields blank.
const (
	DefaultSenderName     = "Alex"
	DefaultSenderCompany  = "TechSolutions Inc."
	DefaultSenderServices = "software development and consulting services"
	DefaultTone           = "professional"
)

// EmailRequest describes a single generation request.
//
// Two input modes: a job posting URL alone, or a structured role + industry
// pair. The generation service infers the offered service from either.
type EmailRequest struct {
	JobURL         string `json:"job_url,omitempty" validate:"omitempty,url"`
	Role           string `json:"role,omitempty" validate:"required_without=JobURL"`
	Industry       string `json:"industry,omitempty" validate:"required_without=JobURL"`
	CompanyName    string `json:"company_name,omitempty"`
	RecipientName  string `json:"recipient_name,omitempty"`
	Tone           string `json:"tone,omitempty"`
	SenderName     string `json:"sender_name,omitempty"`
	SenderCompany  string `json:"sender_company,omitempty"`
	SenderServices string `json:"sender_services,omitempty"`
}

// Identifier returns the primary subject of the request: the job URL when
// present, otherwise the role descriptor. Empty means the request cannot be
// dispatched.
func (r EmailRequest) Identifier() string {
	if r.JobURL != "" {
		return r.JobURL
	}
	return r.Role
}

// ApplyDefaults fills sender identity and tone with the documented defaults.
func (r *EmailRequest) ApplyDefaults() {
	if r.Tone == "" {
		r.Tone = DefaultTone
	}
	if r.SenderName == "" {
		r.SenderName = DefaultSenderName
	}
	if r.SenderCompany == "" {
		r.SenderCompany = DefaultSenderCompany
	}
	if r.SenderServices == "" {
		r.SenderServices = DefaultSenderServices
	}
}

// EmailDraft is the generated email itself.
type EmailDraft struct {
	SubjectLine string `json:"subject_line"`
	Body        string `json:"body"`
	CTA         string `json:"cta"`
}

// EvaluationMetrics holds the quality scores attached to a generated email.
// All scores are on a 0–10 scale.
type EvaluationMetrics struct {
	OverallScore         float64  `json:"overall_score"`
	ClarityScore         float64  `json:"clarity_score"`
	ToneAlignmentScore   float64  `json:"tone_alignment_score"`
	LengthScore          float64  `json:"length_score"`
	PersonalizationScore float64  `json:"personalization_score"`
	SpamRiskScore        float64  `json:"spam_risk_score"`
	Strengths            []string `json:"strengths"`
	Issues               []string `json:"issues"`
}

// Clamp forces every score into the valid [0,10] range, replacing NaN and
// infinities with 0.
func (e *EvaluationMetrics) Clamp() {
	e.OverallScore = ClampScore(e.OverallScore)
	e.ClarityScore = ClampScore(e.ClarityScore)
	e.ToneAlignmentScore = ClampScore(e.ToneAlignmentScore)
	e.LengthScore = ClampScore(e.LengthScore)
	e.PersonalizationScore = ClampScore(e.PersonalizationScore)
	e.SpamRiskScore = ClampScore(e.SpamRiskScore)
}

// GeneratedEmail is the full success payload from the generation service.
type GeneratedEmail struct {
	Email                   EmailDraft        `json:"email"`
	Evaluation              EvaluationMetrics `json:"evaluation"`
	AlternativeSubjectLines []string          `json:"alternative_subject_lines"`
	OptimizationApplied     bool              `json:"optimization_applied"`
	InitialScore            float64           `json:"initial_score"`
	PortfolioItemsUsed      []string          `json:"portfolio_items_used"`
}

// ClampScore bounds a score to [0,10]. NaN and infinities become 0; upstream
// scoring services have been observed emitting both.
func ClampScore(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(0, math.Min(10, v))
}

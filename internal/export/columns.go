// Package export renders batch outcomes into downloadable documents. Both
// formats share one column layout so a batch exported twice lines up cell
// for cell.
package export

import (
	"strconv"
	"strings"

	"github.com/07fahim/EmailCraft-AI/internal/model"
)

// column binds a header to its cell extractor. Failed rows keep their place
// in the document: request fields and the error are filled in, generated
// fields stay empty, scores render as 0.
type column struct {
	header string
	value  func(model.Outcome) string
}

var columns = []column{
	{"row_number", func(o model.Outcome) string { return strconv.Itoa(o.RowNumber) }},
	{"status", func(o model.Outcome) string { return string(o.Status) }},
	{"job_url", func(o model.Outcome) string { return o.Request.JobURL }},
	{"role", func(o model.Outcome) string { return o.Request.Role }},
	{"industry", func(o model.Outcome) string { return o.Request.Industry }},
	{"company_name", func(o model.Outcome) string { return o.Request.CompanyName }},
	{"recipient_name", func(o model.Outcome) string { return o.Request.RecipientName }},
	{"tone", func(o model.Outcome) string { return o.Request.Tone }},
	{"subject_line", emailField(func(e *model.GeneratedEmail) string { return e.Email.SubjectLine })},
	{"email_body", emailField(func(e *model.GeneratedEmail) string { return e.Email.Body })},
	{"cta", emailField(func(e *model.GeneratedEmail) string { return e.Email.CTA })},
	{"overall_score", scoreField(func(m model.EvaluationMetrics) float64 { return m.OverallScore })},
	{"clarity_score", scoreField(func(m model.EvaluationMetrics) float64 { return m.ClarityScore })},
	{"tone_alignment_score", scoreField(func(m model.EvaluationMetrics) float64 { return m.ToneAlignmentScore })},
	{"length_score", scoreField(func(m model.EvaluationMetrics) float64 { return m.LengthScore })},
	{"personalization_score", scoreField(func(m model.EvaluationMetrics) float64 { return m.PersonalizationScore })},
	{"spam_risk_score", scoreField(func(m model.EvaluationMetrics) float64 { return m.SpamRiskScore })},
	{"initial_score", emailField(func(e *model.GeneratedEmail) string { return formatScore(e.InitialScore) })},
	{"optimization_applied", emailField(func(e *model.GeneratedEmail) string { return strconv.FormatBool(e.OptimizationApplied) })},
	{"alternative_subject_lines", emailField(func(e *model.GeneratedEmail) string { return strings.Join(e.AlternativeSubjectLines, " | ") })},
	{"portfolio_items_used", emailField(func(e *model.GeneratedEmail) string { return strings.Join(e.PortfolioItemsUsed, " | ") })},
	{"error", func(o model.Outcome) string { return o.Error }},
}

func emailField(f func(*model.GeneratedEmail) string) func(model.Outcome) string {
	return func(o model.Outcome) string {
		if o.Email == nil {
			return ""
		}
		return f(o.Email)
	}
}

func scoreField(f func(model.EvaluationMetrics) float64) func(model.Outcome) string {
	return func(o model.Outcome) string {
		if o.Email == nil {
			return "0"
		}
		return formatScore(f(o.Email.Evaluation))
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Headers returns the export column names in order.
func Headers() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.header
	}
	return out
}

func cells(o model.Outcome) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.value(o)
	}
	return out
}

package db

import "time"

// EmailGeneration is one persisted generation result. Batch rows carry the
// batch id and row number; single interactive generations leave them empty.
type EmailGeneration struct {
	ID                  int64     `json:"id"`
	BatchID             *string   `json:"batch_id,omitempty"`
	RowNumber           *int32    `json:"row_number,omitempty"`
	JobURL              string    `json:"job_url"`
	Role                string    `json:"role"`
	Industry            string    `json:"industry"`
	CompanyName         string    `json:"company_name"`
	RecipientName       string    `json:"recipient_name"`
	Tone                string    `json:"tone"`
	SubjectLine         string    `json:"subject_line"`
	Body                string    `json:"body"`
	CTA                 string    `json:"cta"`
	OverallScore        float64   `json:"overall_score"`
	InitialScore        float64   `json:"initial_score"`
	OptimizationApplied bool      `json:"optimization_applied"`
	Status              string    `json:"status"`
	Error               string    `json:"error,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// AnalyticsReport summarizes the stored history.
type AnalyticsReport struct {
	TotalGenerations int64   `json:"total_generations"`
	Succeeded        int64   `json:"succeeded"`
	Failed           int64   `json:"failed"`
	AverageScore     float64 `json:"average_score"`
	HighScoreCount   int64   `json:"high_score_count"`
	OptimizedCount   int64   `json:"optimized_count"`
}

package db

import (
	"context"
	"time"
)

const insertEmailGeneration = `-- name: InsertEmailGeneration :one
INSERT INTO email_generations (
    batch_id, row_number, job_url, role, industry, company_name,
    recipient_name, tone, subject_line, body, cta,
    overall_score, initial_score, optimization_applied, status, error
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
)
RETURNING id, created_at
`

type InsertEmailGenerationParams struct {
	BatchID             *string `json:"batch_id"`
	RowNumber           *int32  `json:"row_number"`
	JobURL              string  `json:"job_url"`
	Role                string  `json:"role"`
	Industry            string  `json:"industry"`
	CompanyName         string  `json:"company_name"`
	RecipientName       string  `json:"recipient_name"`
	Tone                string  `json:"tone"`
	SubjectLine         string  `json:"subject_line"`
	Body                string  `json:"body"`
	CTA                 string  `json:"cta"`
	OverallScore        float64 `json:"overall_score"`
	InitialScore        float64 `json:"initial_score"`
	OptimizationApplied bool    `json:"optimization_applied"`
	Status              string  `json:"status"`
	Error               string  `json:"error"`
}

func (q *Queries) InsertEmailGeneration(ctx context.Context, arg InsertEmailGenerationParams) (EmailGeneration, error) {
	row := q.db.QueryRow(ctx, insertEmailGeneration,
		arg.BatchID,
		arg.RowNumber,
		arg.JobURL,
		arg.Role,
		arg.Industry,
		arg.CompanyName,
		arg.RecipientName,
		arg.Tone,
		arg.SubjectLine,
		arg.Body,
		arg.CTA,
		arg.OverallScore,
		arg.InitialScore,
		arg.OptimizationApplied,
		arg.Status,
		arg.Error,
	)
	i := EmailGeneration{
		BatchID:             arg.BatchID,
		RowNumber:           arg.RowNumber,
		JobURL:              arg.JobURL,
		Role:                arg.Role,
		Industry:            arg.Industry,
		CompanyName:         arg.CompanyName,
		RecipientName:       arg.RecipientName,
		Tone:                arg.Tone,
		SubjectLine:         arg.SubjectLine,
		Body:                arg.Body,
		CTA:                 arg.CTA,
		OverallScore:        arg.OverallScore,
		InitialScore:        arg.InitialScore,
		OptimizationApplied: arg.OptimizationApplied,
		Status:              arg.Status,
		Error:               arg.Error,
	}
	err := row.Scan(&i.ID, &i.CreatedAt)
	return i, err
}

const listEmailGenerations = `-- name: ListEmailGenerations :many
SELECT id, batch_id, row_number, job_url, role, industry, company_name,
       recipient_name, tone, subject_line, body, cta,
       overall_score, initial_score, optimization_applied, status, error, created_at
FROM email_generations
WHERE ($1::text = '' OR company_name ILIKE '%' || $1 || '%' OR job_url ILIKE '%' || $1 || '%' OR role ILIKE '%' || $1 || '%')
  AND ($2::text = '' OR status = $2)
  AND ($3::text = '' OR batch_id = $3)
ORDER BY created_at DESC
LIMIT $4 OFFSET $5
`

type ListEmailGenerationsParams struct {
	Search       string `json:"search"`
	StatusFilter string `json:"status_filter"`
	BatchID      string `json:"batch_id"`
	Limit        int32  `json:"limit"`
	Offset       int32  `json:"offset"`
}

func (q *Queries) ListEmailGenerations(ctx context.Context, arg ListEmailGenerationsParams) ([]EmailGeneration, error) {
	rows, err := q.db.Query(ctx, listEmailGenerations,
		arg.Search,
		arg.StatusFilter,
		arg.BatchID,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []EmailGeneration
	for rows.Next() {
		var i EmailGeneration
		if err := rows.Scan(
			&i.ID,
			&i.BatchID,
			&i.RowNumber,
			&i.JobURL,
			&i.Role,
			&i.Industry,
			&i.CompanyName,
			&i.RecipientName,
			&i.Tone,
			&i.SubjectLine,
			&i.Body,
			&i.CTA,
			&i.OverallScore,
			&i.InitialScore,
			&i.OptimizationApplied,
			&i.Status,
			&i.Error,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countEmailGenerations = `-- name: CountEmailGenerations :one
SELECT COUNT(*) FROM email_generations
WHERE ($1::text = '' OR company_name ILIKE '%' || $1 || '%' OR job_url ILIKE '%' || $1 || '%' OR role ILIKE '%' || $1 || '%')
  AND ($2::text = '' OR status = $2)
  AND ($3::text = '' OR batch_id = $3)
`

func (q *Queries) CountEmailGenerations(ctx context.Context, arg ListEmailGenerationsParams) (int64, error) {
	row := q.db.QueryRow(ctx, countEmailGenerations,
		arg.Search,
		arg.StatusFilter,
		arg.BatchID,
	)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteGenerationsBefore = `-- name: DeleteGenerationsBefore :execrows
DELETE FROM email_generations WHERE created_at < $1
`

// DeleteGenerationsBefore removes history older than cutoff and reports how
// many rows went away. Used by the retention job.
func (q *Queries) DeleteGenerationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteGenerationsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getAnalytics = `-- name: GetAnalytics :one
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'success'),
       COUNT(*) FILTER (WHERE status = 'failure'),
       COALESCE(AVG(overall_score) FILTER (WHERE status = 'success'), 0),
       COUNT(*) FILTER (WHERE status = 'success' AND overall_score >= 8.5),
       COUNT(*) FILTER (WHERE optimization_applied)
FROM email_generations
`

func (q *Queries) GetAnalytics(ctx context.Context) (AnalyticsReport, error) {
	row := q.db.QueryRow(ctx, getAnalytics)
	var r AnalyticsReport
	err := row.Scan(
		&r.TotalGenerations,
		&r.Succeeded,
		&r.Failed,
		&r.AverageScore,
		&r.HighScoreCount,
		&r.OptimizedCount,
	)
	return r, err
}

// Package batch implements the CSV-driven batch generation pipeline:
// parsing and validating input rows, dispatching them one at a time against
// the rate-limited generation service, and aggregating per-row outcomes.
package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/07fahim/EmailCraft-AI/internal/model"
)

// ErrMalformedInput reports input that cannot be parsed at all. It is fatal
// for the whole batch and is surfaced before any dispatch begins.
var ErrMalformedInput = errors.New("malformed batch input")

// SourceOptions controls parsing limits.
type SourceOptions struct {
	// MaxRows caps the number of data rows; the rest are dropped with a
	// warning. Zero means 200.
	MaxRows int

	// SkipPreview caps how many skipped row numbers are listed individually.
	// Zero means 5.
	SkipPreview int
}

// Recognized input columns. Header matching is case-insensitive and ignores
// surrounding whitespace; unknown columns are ignored.
const (
	colJobURL         = "job_url"
	colRole           = "role"
	colIndustry       = "industry"
	colCompanyName    = "company_name"
	colRecipientName  = "recipient_name"
	colTone           = "tone"
	colSenderName     = "sender_name"
	colSenderCompany  = "sender_company"
	colSenderServices = "sender_services"
)

// ParseRequests reads delimited text into an ordered request sequence.
//
// The first line must be a header naming at least one identifying column
// (job_url or role); anything else fails with ErrMalformedInput. Rows whose
// identifying fields are all empty are excluded from the result and reported
// in the pre-flight report, never silently dropped.
func ParseRequests(r io.Reader, opts SourceOptions) ([]model.BatchRequest, model.PreflightReport, error) {
	maxRows := opts.MaxRows
	if maxRows == 0 {
		maxRows = 200
	}
	preview := opts.SkipPreview
	if preview == 0 {
		preview = 5
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, model.PreflightReport{}, fmt.Errorf("%w: missing header row", ErrMalformedInput)
	}
	if err != nil {
		return nil, model.PreflightReport{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		name := strings.ToLower(strings.TrimSpace(h))
		if name != "" {
			cols[name] = i
		}
	}
	if _, hasURL := cols[colJobURL]; !hasURL {
		if _, hasRole := cols[colRole]; !hasRole {
			return nil, model.PreflightReport{}, fmt.Errorf("%w: header must contain a %q or %q column", ErrMalformedInput, colJobURL, colRole)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var (
		requests []model.BatchRequest
		report   model.PreflightReport
	)

	rowNum := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, model.PreflightReport{}, fmt.Errorf("%w: row %d: %v", ErrMalformedInput, rowNum+1, err)
		}
		rowNum++

		if rowNum > maxRows {
			// Keep counting so the truncation warning can name the range.
			continue
		}

		req := model.EmailRequest{
			JobURL:         field(record, colJobURL),
			Role:           field(record, colRole),
			Industry:       field(record, colIndustry),
			CompanyName:    field(record, colCompanyName),
			RecipientName:  field(record, colRecipientName),
			Tone:           field(record, colTone),
			SenderName:     field(record, colSenderName),
			SenderCompany:  field(record, colSenderCompany),
			SenderServices: field(record, colSenderServices),
		}

		if req.Identifier() == "" {
			report.SkippedCount++
			if len(report.SkippedRows) < preview {
				report.SkippedRows = append(report.SkippedRows, rowNum)
			}
			continue
		}

		req.ApplyDefaults()
		requests = append(requests, model.BatchRequest{RowNumber: rowNum, Request: req})
	}

	report.TotalRows = rowNum
	report.ValidRows = len(requests)

	if report.SkippedCount > 0 {
		msg := fmt.Sprintf("%d row(s) skipped for missing job_url/role: rows %s", report.SkippedCount, joinInts(report.SkippedRows))
		if extra := report.SkippedCount - len(report.SkippedRows); extra > 0 {
			msg += fmt.Sprintf(" and %d more", extra)
		}
		report.Warnings = append(report.Warnings, msg)
	}
	if rowNum > maxRows {
		report.TruncatedFrom = rowNum
		report.Warnings = append(report.Warnings, fmt.Sprintf("input exceeds %d rows; rows %d-%d were dropped", maxRows, maxRows+1, rowNum))
	}

	return requests, report, nil
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}

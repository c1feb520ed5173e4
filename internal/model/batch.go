package model

// BatchRequest is one parsed input row. RowNumber is 1-based and matches the
// data row's position in the source file (the header line is not counted).
// Immutable after parsing.
type BatchRequest struct {
	RowNumber int          `json:"row_number"`
	Request   EmailRequest `json:"request"`
}

// OutcomeStatus classifies a batch row's result.
type OutcomeStatus string

const (
	StatusSuccess OutcomeStatus = "success"
	StatusFailure OutcomeStatus = "failure"
)

// Outcome is the per-row result of a batch. Exactly one exists per dispatched
// request, carrying the same row number. Immutable once recorded.
type Outcome struct {
	RowNumber int             `json:"row_number"`
	Status    OutcomeStatus   `json:"status"`
	Request   EmailRequest    `json:"request"`
	Email     *GeneratedEmail `json:"email,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// BatchSummary is the running aggregate over a batch's outcomes.
// Succeeded + Failed == Processed holds at all times; AverageScore is the
// arithmetic mean of overall scores across successes only (0 when there are
// none).
type BatchSummary struct {
	TotalRequested int      `json:"total_requested"`
	Processed      int      `json:"processed"`
	Succeeded      int      `json:"succeeded"`
	Failed         int      `json:"failed"`
	AverageScore   float64  `json:"average_score"`
	WasCancelled   bool     `json:"was_cancelled"`
	Errors         []string `json:"errors,omitempty"`
	ErrorOverflow  int      `json:"error_overflow,omitempty"`
}

// PreflightReport describes what the request source accepted, skipped, and
// truncated before any dispatch happened.
type PreflightReport struct {
	TotalRows     int      `json:"total_rows"`
	ValidRows     int      `json:"valid_rows"`
	SkippedRows   []int    `json:"skipped_rows,omitempty"`
	SkippedCount  int      `json:"skipped_count"`
	TruncatedFrom int      `json:"truncated_from,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Progress is delivered to the batch observer after every row resolves.
type Progress struct {
	Row       int `json:"row"`
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

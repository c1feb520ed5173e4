package batch

import (
	"sort"
	"sync"

	"github.com/07fahim/EmailCraft-AI/internal/model"
)

// Aggregator collects per-row outcomes as dispatch proceeds and serves
// consistent snapshots to concurrent readers. Outcomes are kept in row
// order; each row number appears at most once.
type Aggregator struct {
	mu sync.Mutex

	totalRequested int
	errPreview     int

	outcomes  []model.Outcome
	succeeded int
	failed    int
	scoreSum  float64
	cancelled bool

	errs        []string
	errOverflow int
}

// NewAggregator sizes an aggregator for totalRequested rows. errPreview caps
// how many failure messages are retained verbatim; zero means 5.
func NewAggregator(totalRequested, errPreview int) *Aggregator {
	if errPreview == 0 {
		errPreview = 5
	}
	return &Aggregator{
		totalRequested: totalRequested,
		errPreview:     errPreview,
		outcomes:       make([]model.Outcome, 0, totalRequested),
	}
}

// Record stores one outcome. Out-of-order arrivals are tolerated; the stored
// sequence stays sorted by row number.
func (a *Aggregator) Record(out model.Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.outcomes = append(a.outcomes, out)
	if n := len(a.outcomes); n > 1 && a.outcomes[n-2].RowNumber > out.RowNumber {
		sort.Slice(a.outcomes, func(i, j int) bool {
			return a.outcomes[i].RowNumber < a.outcomes[j].RowNumber
		})
	}

	switch out.Status {
	case model.StatusSuccess:
		a.succeeded++
		if out.Email != nil {
			a.scoreSum += out.Email.Evaluation.OverallScore
		}
	case model.StatusFailure:
		a.failed++
		if len(a.errs) < a.errPreview {
			a.errs = append(a.errs, out.Error)
		} else {
			a.errOverflow++
		}
	}
}

// MarkCancelled flags the batch as cancelled. Outcomes recorded before the
// flag are unaffected.
func (a *Aggregator) MarkCancelled() {
	a.mu.Lock()
	a.cancelled = true
	a.mu.Unlock()
}

// Progress reports counts as of the latest recorded row.
func (a *Aggregator) Progress(row int) model.Progress {
	a.mu.Lock()
	defer a.mu.Unlock()
	return model.Progress{
		Row:       row,
		Total:     a.totalRequested,
		Succeeded: a.succeeded,
		Failed:    a.failed,
	}
}

// Outcomes returns a copy of the recorded outcomes in row order.
func (a *Aggregator) Outcomes() []model.Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.Outcome, len(a.outcomes))
	copy(out, a.outcomes)
	return out
}

// Summary computes the batch report. The average score covers successful
// rows only and is 0 when none succeeded.
func (a *Aggregator) Summary() model.BatchSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	avg := 0.0
	if a.succeeded > 0 {
		avg = a.scoreSum / float64(a.succeeded)
	}

	errs := make([]string, len(a.errs))
	copy(errs, a.errs)

	return model.BatchSummary{
		TotalRequested: a.totalRequested,
		Processed:      len(a.outcomes),
		Succeeded:      a.succeeded,
		Failed:         a.failed,
		AverageScore:   avg,
		WasCancelled:   a.cancelled,
		Errors:         errs,
		ErrorOverflow:  a.errOverflow,
	}
}

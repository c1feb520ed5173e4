package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/07fahim/EmailCraft-AI/internal/batch"
	"github.com/07fahim/EmailCraft-AI/internal/db"
)

// HistoryRetentionJob deletes generation history older than the retention
// period. A single batch DELETE keeps it cheap.
type HistoryRetentionJob struct {
	DB        db.Store
	Retention time.Duration
}

func (j *HistoryRetentionJob) Name() string { return "history_retention" }

func (j *HistoryRetentionJob) Run(ctx context.Context) error {
	cutoff := time.Now().Add(-j.Retention)
	n, err := j.DB.DeleteGenerationsBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("scheduler: history_retention: deleted %d record(s) older than %s", n, cutoff.Format(time.RFC3339))
	}
	return nil
}

// BatchPruneJob evicts finished batch runs from the in-memory registry so a
// long-lived process does not accumulate them without bound. Exports for a
// batch stop working once it is pruned.
type BatchPruneJob struct {
	Registry *batch.Registry
	MaxAge   time.Duration
}

func (j *BatchPruneJob) Name() string { return "batch_prune" }

func (j *BatchPruneJob) Run(_ context.Context) error {
	if n := j.Registry.Prune(j.MaxAge); n > 0 {
		log.Printf("scheduler: batch_prune: evicted %d finished run(s)", n)
	}
	return nil
}

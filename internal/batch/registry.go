package batch

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/07fahim/EmailCraft-AI/internal/genclient"
	"github.com/07fahim/EmailCraft-AI/internal/model"
)

// Run is one live or finished batch. All accessors are safe for concurrent
// use while dispatch is in flight.
type Run struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	state      State
	currentRow int

	preflight model.PreflightReport
	agg       *Aggregator
	cancel    context.CancelFunc
	done      chan struct{}
}

// RunSnapshot is a point-in-time view of a run, used by status and export
// surfaces.
type RunSnapshot struct {
	ID         string                `json:"batch_id"`
	CreatedAt  time.Time             `json:"created_at"`
	State      State                 `json:"state"`
	CurrentRow int                   `json:"current_row,omitempty"`
	Preflight  model.PreflightReport `json:"preflight"`
	Summary    model.BatchSummary    `json:"summary"`
}

// State returns the current lifecycle phase and the row being worked on.
func (r *Run) State() (State, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.currentRow
}

// Snapshot captures the run's id, state, pre-flight report and summary.
func (r *Run) Snapshot() RunSnapshot {
	state, row := r.State()
	return RunSnapshot{
		ID:         r.ID,
		CreatedAt:  r.CreatedAt,
		State:      state,
		CurrentRow: row,
		Preflight:  r.preflight,
		Summary:    r.agg.Summary(),
	}
}

// Outcomes returns the per-row results recorded so far, in row order.
func (r *Run) Outcomes() []model.Outcome {
	return r.agg.Outcomes()
}

// Cancel requests cooperative cancellation. Safe to call repeatedly and
// after the run has finished.
func (r *Run) Cancel() {
	r.cancel()
}

// Done is closed when the run reaches a terminal state.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

func (r *Run) setState(s State, row int) {
	r.mu.Lock()
	r.state = s
	r.currentRow = row
	r.mu.Unlock()
}

// RegistryOptions configures batch creation. Generator is required.
type RegistryOptions struct {
	Generator    genclient.Generator
	Delay        time.Duration
	ErrorPreview int

	// OnOutcome is invoked for every recorded row, OnDone once per run when
	// it reaches a terminal state. Both optional.
	OnOutcome func(runID string, out model.Outcome)
	OnDone    func(runID string, summary model.BatchSummary)
}

// Registry owns every batch run in the process: it assigns ids, starts the
// dispatch goroutine, and serves lookups for status, cancel and export. All
// runs share one Pacer, so concurrent batches still present one paced call
// at a time to the generation service.
type Registry struct {
	mu    sync.RWMutex
	runs  map[string]*Run
	opts  RegistryOptions
	pacer *Pacer
}

func NewRegistry(opts RegistryOptions) *Registry {
	return &Registry{
		runs:  make(map[string]*Run),
		opts:  opts,
		pacer: NewPacer(opts.Delay),
	}
}

// Start launches dispatch over reqs in a new goroutine and returns the run
// immediately. A run with zero requests still goes through the lifecycle and
// lands on done with an all-zero summary.
func (g *Registry) Start(reqs []model.BatchRequest, pre model.PreflightReport) *Run {
	ctx, cancel := context.WithCancel(context.Background())

	run := &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		state:     StateIdle,
		preflight: pre,
		agg:       NewAggregator(len(reqs), g.opts.ErrorPreview),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	g.mu.Lock()
	g.runs[run.ID] = run
	g.mu.Unlock()

	d := NewDispatcher(DispatcherOptions{
		Generator: g.opts.Generator,
		Pacer:     g.pacer,
		State:     run.setState,
		Outcome: func(out model.Outcome) {
			if g.opts.OnOutcome != nil {
				g.opts.OnOutcome(run.ID, out)
			}
		},
	})

	go func() {
		defer close(run.done)
		if err := d.Run(ctx, reqs, run.agg); err != nil {
			log.Printf("batch %s cancelled after %d row(s)", run.ID, run.agg.Summary().Processed)
		}
		if g.opts.OnDone != nil {
			g.opts.OnDone(run.ID, run.agg.Summary())
		}
	}()

	return run
}

// Prune drops terminal runs older than maxAge and returns how many were
// removed. Live runs are never touched.
func (g *Registry) Prune(maxAge time.Duration) int {
	cutoff := time.Now().UTC().Add(-maxAge)

	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for id, run := range g.runs {
		state, _ := run.State()
		if state.Terminal() && run.CreatedAt.Before(cutoff) {
			delete(g.runs, id)
			removed++
		}
	}
	return removed
}

// Get looks up a run by id.
func (g *Registry) Get(id string) (*Run, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	run, ok := g.runs[id]
	return run, ok
}

// List returns snapshots of every known run, newest first.
func (g *Registry) List() []RunSnapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]RunSnapshot, 0, len(g.runs))
	for _, run := range g.runs {
		out = append(out, run.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

package batch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/07fahim/EmailCraft-AI/internal/genclient"
	"github.com/07fahim/EmailCraft-AI/internal/model"
)

// State names the dispatcher's lifecycle phases. Transitions are strictly
// forward: idle -> (dispatching <-> waiting)* -> done | cancelled.
type State string

const (
	StateIdle        State = "idle"
	StateDispatching State = "dispatching"
	StateWaiting     State = "waiting"
	StateDone        State = "done"
	StateCancelled   State = "cancelled"
)

// Terminal reports whether no further transitions can occur from s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateCancelled
}

// ProgressFunc receives a progress update after each processed row.
type ProgressFunc func(model.Progress)

// StateFunc receives every state transition along with the row being worked
// on (zero for terminal states).
type StateFunc func(state State, row int)

// OutcomeFunc receives each per-row outcome as soon as it is recorded.
type OutcomeFunc func(model.Outcome)

// Pacer is the process-wide admission slot for generation calls: it holds the
// token-bucket limiter that spaces calls by the configured delay and a mutex
// that keeps at most one call in flight. Every dispatcher in the process must
// share one Pacer, otherwise concurrent batches would each pace themselves
// independently and hit the generation service in parallel.
type Pacer struct {
	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewPacer builds a Pacer enforcing the given minimum gap between call
// starts. Zero delay disables the gap; the one-in-flight guarantee holds
// either way.
func NewPacer(delay time.Duration) *Pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Pacer{limiter: rate.NewLimiter(limit, 1)}
}

// Acquire blocks until the caller owns the call slot and the pacing gap has
// elapsed. On success the caller must Release when its call returns; on error
// the slot is already released.
func (p *Pacer) Acquire(ctx context.Context) error {
	p.mu.Lock()
	if err := p.limiter.Wait(ctx); err != nil {
		p.mu.Unlock()
		return err
	}
	return nil
}

// Release gives up the call slot taken by a successful Acquire.
func (p *Pacer) Release() {
	p.mu.Unlock()
}

// DispatcherOptions configures a Dispatcher. Generator is required; the
// callbacks are optional.
type DispatcherOptions struct {
	Generator genclient.Generator

	// Delay is the minimum gap enforced between consecutive generation
	// calls. Zero disables pacing entirely. Ignored when Pacer is set.
	Delay time.Duration

	// Pacer shares one admission slot across dispatchers. Nil gets a
	// private Pacer built from Delay.
	Pacer *Pacer

	Progress ProgressFunc
	State    StateFunc
	Outcome  OutcomeFunc
}

// Dispatcher walks a request sequence strictly in order, one in-flight call
// at a time, pacing calls through its Pacer. A row's failure is recorded and
// dispatch moves on; only cancellation stops the walk early.
type Dispatcher struct {
	gen   genclient.Generator
	pacer *Pacer
	opts  DispatcherOptions
}

func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	pacer := opts.Pacer
	if pacer == nil {
		pacer = NewPacer(opts.Delay)
	}
	return &Dispatcher{
		gen:   opts.Generator,
		pacer: pacer,
		opts:  opts,
	}
}

// Run processes reqs sequentially, recording every outcome into agg. It
// returns ctx.Err() if the batch was cancelled, nil otherwise.
//
// Cancellation is cooperative: it is honored while waiting between rows but
// never interrupts a generation call already in flight. The in-flight call
// runs to completion (bounded by the client's own timeout) and its outcome is
// recorded before the cancellation takes effect.
func (d *Dispatcher) Run(ctx context.Context, reqs []model.BatchRequest, agg *Aggregator) error {
	for _, req := range reqs {
		d.setState(StateWaiting, req.RowNumber)
		if err := d.pacer.Acquire(ctx); err != nil {
			agg.MarkCancelled()
			d.setState(StateCancelled, 0)
			return ctx.Err()
		}

		d.setState(StateDispatching, req.RowNumber)

		// The call itself must not be torn down by a batch cancel.
		email, err := d.gen.Generate(context.WithoutCancel(ctx), req.Request)
		d.pacer.Release()

		out := model.Outcome{
			RowNumber: req.RowNumber,
			Request:   req.Request,
		}
		if err != nil {
			out.Status = model.StatusFailure
			out.Error = err.Error()
		} else {
			out.Status = model.StatusSuccess
			out.Email = email
		}
		agg.Record(out)

		if d.opts.Outcome != nil {
			d.opts.Outcome(out)
		}
		if d.opts.Progress != nil {
			d.opts.Progress(agg.Progress(req.RowNumber))
		}
	}

	if ctx.Err() != nil {
		agg.MarkCancelled()
		d.setState(StateCancelled, 0)
		return ctx.Err()
	}

	d.setState(StateDone, 0)
	return nil
}

func (d *Dispatcher) setState(s State, row int) {
	if d.opts.State != nil {
		d.opts.State(s, row)
	}
}

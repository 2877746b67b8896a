package workflow

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"github.com/hireloop/questgen/internal/types"
)

// Runner dispatches generation invocations in the background, the way a web
// handler fires question generation after accepting an application. It
// enforces one invocation per candidate at a time, bounds overall
// concurrency, and optionally rate-limits dispatches.
type Runner struct {
	pipeline *Pipeline
	fallback *Fallback
	logger   *slog.Logger
	limiter  *rate.Limiter
	slots    chan struct{}

	mu       sync.Mutex
	inflight map[int]struct{}
	wg       sync.WaitGroup
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the structured logger.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// WithDispatchRate limits dispatches to n invocations per second. Zero or
// negative disables limiting.
func WithDispatchRate(n float64) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(n), 1)
		}
	}
}

// WithFallback sets the single-shot generator invoked when the pipeline
// crashes.
func WithFallback(f *Fallback) RunnerOption {
	return func(r *Runner) { r.fallback = f }
}

// NewRunner creates a runner over the given pipeline. maxConcurrent bounds
// the number of invocations executing at once; values below one are treated
// as one.
func NewRunner(pipeline *Pipeline, maxConcurrent int, opts ...RunnerOption) *Runner {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	r := &Runner{
		pipeline: pipeline,
		logger:   slog.Default(),
		slots:    make(chan struct{}, maxConcurrent),
		inflight: make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dispatch starts an invocation in the background. It fails fast with a
// WORKFLOW_ALREADY_RUNNING error when the candidate already has an
// invocation in flight; two concurrent runs for the same candidate would
// race on the candidate's status and produce duplicate question files.
func (r *Runner) Dispatch(ctx context.Context, in Input) error {
	r.mu.Lock()
	if _, running := r.inflight[in.CandidateID]; running {
		r.mu.Unlock()
		return types.NewError(types.WORKFLOW_ALREADY_RUNNING,
			"question generation already running for this candidate")
	}
	r.inflight[in.CandidateID] = struct{}{}
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			r.mu.Lock()
			delete(r.inflight, in.CandidateID)
			r.mu.Unlock()
		}()

		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				r.logger.Warn("dispatch cancelled while rate limited",
					"candidate_id", in.CandidateID, "error", err)
				return
			}
		}

		select {
		case r.slots <- struct{}{}:
			defer func() { <-r.slots }()
		case <-ctx.Done():
			r.logger.Warn("dispatch cancelled while waiting for a slot",
				"candidate_id", in.CandidateID, "error", ctx.Err())
			return
		}

		result := r.pipeline.Execute(ctx, in)
		if result.Internal() && r.fallback != nil {
			r.logger.Warn("pipeline crashed, switching to fallback",
				"candidate_id", in.CandidateID)
			result = r.fallback.Generate(ctx, in)
		}

		r.logger.Info("invocation finished",
			"candidate_id", in.CandidateID,
			"success", result.Success,
			"status", string(result.Status))
	}()
	return nil
}

// Running reports whether the candidate has an invocation in flight.
func (r *Runner) Running(candidateID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inflight[candidateID]
	return ok
}

// Wait blocks until every dispatched invocation has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

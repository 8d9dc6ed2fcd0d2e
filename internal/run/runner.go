// Package run executes a scoring function over a case archive in parallel.
// Cases are independent, so the batch is a bounded parallel map followed by
// a collect: per-case failures are recorded and reported while the rest of
// the batch proceeds.
package run

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"possver/domain/core"
	"possver/domain/verification"
	"possver/internal"
)

// CaseScorer scores one forecast case.
type CaseScorer func(verification.ForecastCase) (verification.ScoreResult, error)

// CaseFailure records a case that could not be scored.
type CaseFailure struct {
	CaseID core.CaseID `json:"case_id"`
	Err    error       `json:"-"`
	Reason string      `json:"reason"`
}

// BatchResult collects one run's outcomes. Results keep archive order;
// failed cases appear only in Failures.
type BatchResult struct {
	RunID    core.RunID                 `json:"run_id"`
	Results  []verification.ScoreResult `json:"results"`
	Failures []CaseFailure              `json:"failures"`
}

// Runner bounds concurrent case scoring with a weighted semaphore.
type Runner struct {
	workers int64
	log     *internal.Logger
	sem     *semaphore.Weighted
}

// NewRunner creates a batch runner with the given worker bound.
func NewRunner(workers int, logger *internal.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Runner{
		workers: int64(workers),
		log:     logger,
		sem:     semaphore.NewWeighted(int64(workers)),
	}
}

// ScoreAll applies the scorer to every case. Scoring stops early only on
// context cancellation; per-case errors are collected, logged, and do not
// abort the batch. No case mutates shared state, so an aborted run needs no
// cleanup.
func (r *Runner) ScoreAll(ctx context.Context, cases []verification.ForecastCase, score CaseScorer) (BatchResult, error) {
	batch := BatchResult{RunID: core.RunID(core.NewID())}
	if len(cases) == 0 {
		return batch, core.ErrEmptyInput
	}
	r.log.Info("run %s: scoring %d cases with %d workers", batch.RunID, len(cases), r.workers)

	slots := make([]slot, len(cases))

	var wg sync.WaitGroup
	for i := range cases {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			// Cancelled between cases; wait out in-flight work and report
			// what finished.
			wg.Wait()
			r.collect(&batch, cases[:i], slots[:i])
			return batch, err
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer r.sem.Release(1)
			slots[i].result, slots[i].err = score(cases[i])
		}(i)
	}
	wg.Wait()
	r.collect(&batch, cases, slots)

	r.log.Info("run %s: %d scored, %d failed", batch.RunID, len(batch.Results), len(batch.Failures))
	return batch, nil
}

type slot struct {
	result verification.ScoreResult
	err    error
}

func (r *Runner) collect(batch *BatchResult, cases []verification.ForecastCase, slots []slot) {
	for i, s := range slots {
		if s.err != nil {
			r.log.Warn("case %s failed: %v", cases[i].ID, s.err)
			batch.Failures = append(batch.Failures, CaseFailure{
				CaseID: cases[i].ID,
				Err:    s.err,
				Reason: s.err.Error(),
			})
			continue
		}
		batch.Results = append(batch.Results, s.result)
	}
}

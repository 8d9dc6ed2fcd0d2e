package run

import (
	"context"
	"fmt"

	"possver/domain/verification"
	"possver/ports"
)

// ScoreArchive loads a case archive from the source, scores it, and persists
// the per-case results. A nil sink skips persistence; batch scoring and
// storage stay independent. Per-case failures do not block persistence of
// the cases that scored.
func (r *Runner) ScoreArchive(ctx context.Context, src ports.CaseSource, sink ports.ResultSink, score CaseScorer) (BatchResult, error) {
	cases, err := src.Cases(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("loading case archive: %w", err)
	}
	for _, fc := range cases {
		if err := fc.Validate(); err != nil {
			return BatchResult{}, err
		}
	}

	batch, err := r.ScoreAll(ctx, cases, score)
	if err != nil {
		return batch, err
	}
	if sink != nil && len(batch.Results) > 0 {
		if err := sink.SaveResults(ctx, batch.RunID, batch.Results); err != nil {
			return batch, fmt.Errorf("persisting run %s: %w", batch.RunID, err)
		}
	}
	return batch, nil
}

// Summarize reduces a batch to summary statistics of its score totals.
func (b BatchResult) Summarize() (verification.Summary, error) {
	return verification.Summarize(b.Results)
}

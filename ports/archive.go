package ports

import (
	"context"

	"possver/domain/core"
	"possver/domain/verification"
	"possver/internal/calibration"
)

// CaseSource supplies a fully materialized case archive. Loading forecasts
// and observations is the data pipeline's job; the scoring core only
// consumes what this returns.
type CaseSource interface {
	// Cases returns the archive for one verification run.
	Cases(ctx context.Context) ([]verification.ForecastCase, error)
}

// ResultSink receives per-case score results for a run.
type ResultSink interface {
	// SaveResults persists the score results of a run.
	SaveResults(ctx context.Context, runID core.RunID, results []verification.ScoreResult) error
}

// CurveSink receives calibration curves for a run.
type CurveSink interface {
	// SaveCurve persists a named calibration curve of a run.
	SaveCurve(ctx context.Context, runID core.RunID, name string, curve calibration.Curve) error
}

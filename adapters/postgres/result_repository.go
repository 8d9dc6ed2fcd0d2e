package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"possver/domain/core"
	"possver/domain/verification"
	"possver/internal/calibration"
	"possver/ports"
)

// Schema is the DDL for the verification result store. The store is an
// optional adapter for the external reporting consumer; the scoring core
// never depends on it.
const Schema = `
CREATE TABLE IF NOT EXISTS score_results (
	run_id         TEXT NOT NULL,
	case_id        TEXT NOT NULL,
	kind           TEXT NOT NULL,
	ignorance      DOUBLE PRECISION NOT NULL,
	sharpness      DOUBLE PRECISION NOT NULL,
	miss           DOUBLE PRECISION NOT NULL,
	total          DOUBLE PRECISION NOT NULL,
	threshold      DOUBLE PRECISION,
	fully_ignorant BOOLEAN NOT NULL DEFAULT FALSE,
	PRIMARY KEY (run_id, case_id, kind)
);

CREATE TABLE IF NOT EXISTS calibration_points (
	run_id   TEXT NOT NULL,
	name     TEXT NOT NULL,
	level    DOUBLE PRECISION NOT NULL,
	coverage DOUBLE PRECISION NOT NULL,
	cases    INTEGER NOT NULL,
	PRIMARY KEY (run_id, name, level)
);`

// ResultRepository implements the ResultSink and CurveSink interfaces
type ResultRepository struct {
	db *sqlx.DB
}

var (
	_ ports.ResultSink = (*ResultRepository)(nil)
	_ ports.CurveSink  = (*ResultRepository)(nil)
)

// NewResultRepository creates a new result repository
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Migrate applies the result-store schema.
func (r *ResultRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply result store schema: %w", err)
	}
	return nil
}

// SaveResults persists the score results of a run.
func (r *ResultRepository) SaveResults(ctx context.Context, runID core.RunID, results []verification.ScoreResult) error {
	if len(results) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin result transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO score_results (
		run_id, case_id, kind, ignorance, sharpness, miss, total, threshold, fully_ignorant
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, res := range results {
		if _, err := tx.ExecContext(ctx, query,
			runID.String(), res.CaseID.String(), string(res.Kind),
			res.Ignorance, res.Sharpness, res.Miss, res.Total, res.Threshold, res.FullyIgnorant,
		); err != nil {
			return fmt.Errorf("failed to insert score for case %s: %w", res.CaseID, err)
		}
	}
	return tx.Commit()
}

// SaveCurve persists a named calibration curve of a run.
func (r *ResultRepository) SaveCurve(ctx context.Context, runID core.RunID, name string, curve calibration.Curve) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin curve transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO calibration_points (run_id, name, level, coverage, cases)
		VALUES ($1, $2, $3, $4, $5)`

	for _, p := range curve.Points {
		if _, err := tx.ExecContext(ctx, query,
			runID.String(), name, float64(p.Level), p.Coverage, curve.Cases,
		); err != nil {
			return fmt.Errorf("failed to insert calibration point at level %g: %w", float64(p.Level), err)
		}
	}
	return tx.Commit()
}

package verification

import (
	"github.com/montanaflynn/stats"

	"possver/domain/core"
)

// ScoreKind names the scoring function that produced a result.
type ScoreKind string

const (
	ScoreInterval      ScoreKind = "interval"
	ScoreContradiction ScoreKind = "contradiction"
	ScoreExceedance    ScoreKind = "exceedance"
	ScoreCategoryBound ScoreKind = "category_bound"
)

// ScoreResult is one case-level verification score. Lower is better for
// every kind. Ignorance is a mandatory component: it is reported even when
// it does not enter a particular total, so subnormal forecasts cannot buy
// sharpness by shedding mass unnoticed.
type ScoreResult struct {
	CaseID        core.CaseID `json:"case_id"`
	Kind          ScoreKind   `json:"kind"`
	Ignorance     float64     `json:"ignorance"`
	Sharpness     float64     `json:"sharpness"`
	Miss          float64     `json:"miss"`
	Total         float64     `json:"total"`
	Threshold     float64     `json:"threshold,omitempty"`
	FullyIgnorant bool        `json:"fully_ignorant,omitempty"`
}

// Summary holds order statistics over a set of score totals. Derived, not
// owned: it is computed after all per-case results are collected.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	IQR    float64 `json:"iqr"`
}

// Summarize reduces score results to summary statistics of their totals.
func Summarize(results []ScoreResult) (Summary, error) {
	if len(results) == 0 {
		return Summary{}, core.ErrEmptyInput
	}
	totals := make([]float64, len(results))
	for i, r := range results {
		totals[i] = r.Total
	}
	mean, err := stats.Mean(totals)
	if err != nil {
		return Summary{}, err
	}
	median, err := stats.Median(totals)
	if err != nil {
		return Summary{}, err
	}
	iqr := 0.0
	if len(totals) >= 2 {
		iqr, err = stats.InterQuartileRange(totals)
		if err != nil {
			return Summary{}, err
		}
	}
	return Summary{N: len(results), Mean: mean, Median: median, IQR: iqr}, nil
}

// Totals extracts the total field from a result set.
func Totals(results []ScoreResult) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Total
	}
	return out
}

// Ignorances extracts the ignorance field from a result set.
func Ignorances(results []ScoreResult) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Ignorance
	}
	return out
}

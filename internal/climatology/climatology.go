// Package climatology builds reference possibility distributions from
// historical observation statistics, in the same representation the scoring
// stack consumes. The continuous construction pi(z) = 1 - 2|F(z) - 0.5|
// makes every cut set the central quantile interval [Q(r/2), Q(1-r/2)], so
// a climatology baseline competes on equal terms with any other forecast.
package climatology

import (
	"fmt"

	"possver/domain/core"
	"possver/domain/possibility"
)

// FromCDF samples the climatological possibility curve implied by a CDF on
// an ascending domain grid.
func FromCDF(cdf func(float64) float64, grid []float64) (possibility.Curve, error) {
	if len(grid) < 2 {
		return possibility.Curve{}, fmt.Errorf("%w: need at least 2 grid points", core.ErrEmptyInput)
	}
	return possibility.SampleCurve(grid, func(z float64) float64 {
		f := cdf(z)
		d := f - 0.5
		if d < 0 {
			d = -d
		}
		return 1 - 2*d
	})
}

// FromFrequencies builds the categorical climatology shape: observed
// frequency scaled by the modal frequency.
func FromFrequencies(labels []possibility.Category, freqs []float64) (possibility.Vector, error) {
	return fromFrequencies(labels, freqs, 0)
}

// FromFrequenciesSmoothed additionally floors each category at weight times
// its best neighbor, so rarely observed categories adjacent to common ones
// keep some plausibility. Weight 0 reproduces FromFrequencies.
func FromFrequenciesSmoothed(labels []possibility.Category, freqs []float64, weight float64) (possibility.Vector, error) {
	if weight < 0 || weight >= 1 {
		return possibility.Vector{}, fmt.Errorf("smoothing weight %g outside [0,1)", weight)
	}
	return fromFrequencies(labels, freqs, weight)
}

func fromFrequencies(labels []possibility.Category, freqs []float64, weight float64) (possibility.Vector, error) {
	if len(freqs) == 0 {
		return possibility.Vector{}, core.ErrEmptyInput
	}
	if len(labels) != len(freqs) {
		return possibility.Vector{}, core.ErrLengthMismatch
	}
	maxF := 0.0
	for _, f := range freqs {
		if f < 0 {
			return possibility.Vector{}, fmt.Errorf("negative frequency %g", f)
		}
		if f > maxF {
			maxF = f
		}
	}
	if maxF == 0 {
		return possibility.Vector{}, core.ErrDegenerateDistribution
	}

	values := make([]float64, len(freqs))
	for i, f := range freqs {
		values[i] = f / maxF
	}
	if weight > 0 {
		smoothed := make([]float64, len(values))
		copy(smoothed, values)
		for i := range values {
			if i > 0 && weight*values[i-1] > smoothed[i] {
				smoothed[i] = weight * values[i-1]
			}
			if i < len(values)-1 && weight*values[i+1] > smoothed[i] {
				smoothed[i] = weight * values[i+1]
			}
		}
		values = smoothed
	}
	return possibility.NewVector(labels, values)
}

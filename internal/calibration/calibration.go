// Package calibration estimates the empirical coverage of cut sets over a
// case archive and inverts the resulting curve to find the strictness level
// achieving a target coverage. This is the bridge between possibilistic cut
// levels and probabilistic coverage targets: the two are never equated by
// reusing a constant, only by passing through this estimate.
package calibration

import (
	"fmt"
	"sort"

	"possver/domain/core"
	"possver/domain/possibility"
	"possver/domain/verification"
)

// Point is one (level, empirical coverage) sample.
type Point struct {
	Level    possibility.Level `json:"level"`
	Coverage float64           `json:"coverage"`
}

// Curve is an empirical coverage curve over an ascending level grid.
// Coverage is reported as observed; sampling noise can make it locally
// non-monotone and that irregularity is diagnostic, not corrected.
type Curve struct {
	Points []Point `json:"points"`
	Cases  int     `json:"cases"`
}

// CoverageCurve computes, for each grid level, the mean cut-set containment
// of the observation across the archive. Fully ignorant cases count as
// covered at every level: a forecast with no shape excludes nothing.
func CoverageCurve(cases []verification.ForecastCase, grid []possibility.Level) (Curve, error) {
	if len(cases) == 0 {
		return Curve{}, core.NewInsufficientCasesError("coverage curve", 1, 0)
	}
	levels, err := possibility.ClipLevels(grid)
	if err != nil {
		return Curve{}, err
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	sums := make([]float64, len(levels))
	for _, fc := range cases {
		if err := fc.Validate(); err != nil {
			return Curve{}, err
		}
		for i, r := range levels {
			c, err := caseCoverage(fc, r)
			if err != nil {
				return Curve{}, fmt.Errorf("case %s at level %g: %w", fc.ID, float64(r), err)
			}
			sums[i] += c
		}
	}

	curve := Curve{Cases: len(cases), Points: make([]Point, len(levels))}
	for i, r := range levels {
		curve.Points[i] = Point{Level: r, Coverage: sums[i] / float64(len(cases))}
	}
	return curve, nil
}

// caseCoverage is the containment of one observation in one cut set: 0/1
// for crisp observations, contained probability mass for soft truths.
func caseCoverage(fc verification.ForecastCase, r possibility.Level) (float64, error) {
	if fc.Curve != nil {
		shape, _, err := possibility.Normalize(*fc.Curve)
		if core.IsDegenerateDistribution(err) {
			return 1, nil
		}
		if err != nil {
			return 0, err
		}
		region, err := shape.Cut(r)
		if err != nil {
			return 0, err
		}
		if region.Contains(fc.Obs.Value) {
			return 1, nil
		}
		return 0, nil
	}

	shape, _, err := possibility.NormalizeVector(*fc.Vector)
	if core.IsDegenerateDistribution(err) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	set, err := shape.Cut(r)
	if err != nil {
		return 0, err
	}
	switch fc.Obs.Kind {
	case verification.ObsCategory:
		if set.Contains(fc.Obs.Category) {
			return 1, nil
		}
		return 0, nil
	case verification.ObsSoft:
		return set.Mass(fc.Obs.Soft)
	default:
		return 0, core.ErrShapeMismatch
	}
}

// Invert finds the smallest level whose empirical coverage is at or below
// the target, interpolating linearly between grid points. Targets outside
// the observed coverage range fail: extrapolation beyond the archive is
// forbidden.
func (c Curve) Invert(targetP float64) (possibility.Level, error) {
	if len(c.Points) == 0 {
		return 0, core.ErrEmptyInput
	}
	lo, hi := c.Points[0].Coverage, c.Points[0].Coverage
	for _, p := range c.Points {
		if p.Coverage < lo {
			lo = p.Coverage
		}
		if p.Coverage > hi {
			hi = p.Coverage
		}
	}
	if targetP < lo || targetP > hi {
		return 0, core.NewNoCoverageError(targetP, lo, hi)
	}

	// Levels ascend; coverage is non-increasing up to noise. Walk upward to
	// the first grid point at or below target and interpolate back along
	// the segment that crossed it.
	for i, p := range c.Points {
		if p.Coverage > targetP {
			continue
		}
		if i == 0 || p.Coverage == targetP {
			return p.Level, nil
		}
		prev := c.Points[i-1]
		span := prev.Coverage - p.Coverage
		if span <= 0 {
			return p.Level, nil
		}
		t := (prev.Coverage - targetP) / span
		return prev.Level + possibility.Level(t)*(p.Level-prev.Level), nil
	}
	// Unreachable when target >= min coverage, which the range check above
	// guarantees; kept for the compiler.
	return c.Points[len(c.Points)-1].Level, nil
}

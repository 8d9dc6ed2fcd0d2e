// Package scoring implements the case-level verification scores for
// possibilistic forecasts. All four scoring functions are pure, lower is
// better, and every result carries the ignorance term: a subnormal forecast
// cannot trade away its "don't know" mass for apparent sharpness.
package scoring

import (
	"fmt"
	"math"

	"possver/domain/core"
	"possver/domain/possibility"
	"possver/domain/verification"
)

// IntervalScore sweeps the configured cut levels and combines sharpness
// with an inside-or-gap miss penalty: term(r) = width + (2/r)*miss,
// weighted proportionally to r, plus kappa times ignorance.
func IntervalScore(fc verification.ForecastCase, p Params) (verification.ScoreResult, error) {
	if err := precheck(fc, p); err != nil {
		return verification.ScoreResult{}, err
	}
	weights, err := levelWeights(p.Levels)
	if err != nil {
		return verification.ScoreResult{}, err
	}
	result := verification.ScoreResult{CaseID: fc.ID, Kind: verification.ScoreInterval}

	if fc.Curve != nil {
		shape, ign, err := possibility.Normalize(*fc.Curve)
		if core.IsDegenerateDistribution(err) {
			return fullyIgnorant(result, p), nil
		}
		if err != nil {
			return verification.ScoreResult{}, err
		}
		result.Ignorance = ign
		for i, r := range p.Levels {
			region, err := shape.Cut(r)
			if err != nil {
				return verification.ScoreResult{}, err
			}
			sharp := region.Width()
			if p.WidthMetric == WidthMemberCount {
				sharp = region.Measure()
			}
			miss := region.Distance(fc.Obs.Value)
			result.Sharpness += weights[i] * sharp
			result.Miss += weights[i] * (2 / float64(r)) * miss
		}
	} else {
		shape, ign, err := possibility.NormalizeVector(*fc.Vector)
		if core.IsDegenerateDistribution(err) {
			return fullyIgnorant(result, p), nil
		}
		if err != nil {
			return verification.ScoreResult{}, err
		}
		result.Ignorance = ign
		for i, r := range p.Levels {
			set, err := shape.Cut(r)
			if err != nil {
				return verification.ScoreResult{}, err
			}
			sharp := set.Width()
			if p.WidthMetric == WidthMemberCount {
				sharp = set.Size()
			}
			miss, err := categoricalMiss(set, fc)
			if err != nil {
				return verification.ScoreResult{}, err
			}
			result.Sharpness += weights[i] * sharp
			result.Miss += weights[i] * (2 / float64(r)) * miss
		}
	}
	result.Total = p.Kappa*result.Ignorance + result.Sharpness + result.Miss
	return result, nil
}

// ContradictionScore combines the contradiction between shape and outcome
// with the shape's nonspecificity: C + lambda*NS + kappa*I.
func ContradictionScore(fc verification.ForecastCase, p Params) (verification.ScoreResult, error) {
	if err := precheck(fc, p); err != nil {
		return verification.ScoreResult{}, err
	}
	result := verification.ScoreResult{CaseID: fc.ID, Kind: verification.ScoreContradiction}

	var contradiction, nonspec, ign float64
	if fc.Curve != nil {
		shape, i, err := possibility.Normalize(*fc.Curve)
		if core.IsDegenerateDistribution(err) {
			return fullyIgnorant(result, p), nil
		}
		if err != nil {
			return verification.ScoreResult{}, err
		}
		ign = i
		contradiction = 1 - shape.MembershipAt(fc.Obs.Value)
		nonspec = shape.Mean()
	} else {
		shape, i, err := possibility.NormalizeVector(*fc.Vector)
		if core.IsDegenerateDistribution(err) {
			return fullyIgnorant(result, p), nil
		}
		if err != nil {
			return verification.ScoreResult{}, err
		}
		ign = i
		member, err := observedMembership(shape, fc)
		if err != nil {
			return verification.ScoreResult{}, err
		}
		contradiction = 1 - member
		nonspec = shape.Mean()
	}
	result.Ignorance = ign
	result.Miss = contradiction
	result.Sharpness = nonspec
	result.Total = contradiction + p.Lambda*nonspec + p.Kappa*ign
	return result, nil
}

// ExceedanceScore scores the threshold-exceedance bounds of a continuous
// forecast. Pi ("could exceed") and N ("must exceed") come from the
// normalized shape; computing N from raw subnormal data lets N exceed Pi,
// which the shape type makes unrepresentable.
func ExceedanceScore(fc verification.ForecastCase, threshold float64, p Params) (verification.ScoreResult, error) {
	if err := precheck(fc, p); err != nil {
		return verification.ScoreResult{}, err
	}
	if fc.Curve == nil {
		return verification.ScoreResult{}, fmt.Errorf("%w: exceedance score needs a continuous forecast (case %s)",
			core.ErrShapeMismatch, fc.ID)
	}
	result := verification.ScoreResult{CaseID: fc.ID, Kind: verification.ScoreExceedance, Threshold: threshold}

	shape, ign, err := possibility.Normalize(*fc.Curve)
	if core.IsDegenerateDistribution(err) {
		return fullyIgnorant(result, p), nil
	}
	if err != nil {
		return verification.ScoreResult{}, err
	}
	pi, nec := shape.TailBounds(threshold)
	return ExceedanceFromBounds(result, pi, nec, fc.Obs.Value >= threshold, ign, p), nil
}

// ExceedanceFromBounds scores pre-computed exceedance bounds. Split out so
// bridged probability forecasts, which arrive as (Pi, N) pairs rather than
// full shapes, go through the identical formula.
func ExceedanceFromBounds(base verification.ScoreResult, pi, nec float64, exceeded bool, ignorance float64, p Params) verification.ScoreResult {
	logTerm := -math.Log(1 - nec + p.Epsilon)
	if exceeded {
		logTerm = -math.Log(pi + p.Epsilon)
	}
	base.Kind = verification.ScoreExceedance
	base.Ignorance = ignorance
	base.Miss = logTerm
	base.Sharpness = pi - nec
	base.Total = logTerm + p.Lambda*(pi-nec) + p.Kappa*ignorance
	return base
}

// CategoryBoundScore scores a categorical forecast through its K-1
// cumulative possibility/necessity bounds against the cumulative outcome
// indicator.
func CategoryBoundScore(fc verification.ForecastCase, p Params) (verification.ScoreResult, error) {
	if err := precheck(fc, p); err != nil {
		return verification.ScoreResult{}, err
	}
	if fc.Vector == nil {
		return verification.ScoreResult{}, fmt.Errorf("%w: category bound score needs a categorical forecast (case %s)",
			core.ErrShapeMismatch, fc.ID)
	}
	result := verification.ScoreResult{CaseID: fc.ID, Kind: verification.ScoreCategoryBound}

	shape, ign, err := possibility.NormalizeVector(*fc.Vector)
	if core.IsDegenerateDistribution(err) {
		return fullyIgnorant(result, p), nil
	}
	if err != nil {
		return verification.ScoreResult{}, err
	}
	k := shape.K()
	cumObs, err := cumulativeOutcome(fc, k)
	if err != nil {
		return verification.ScoreResult{}, err
	}

	var missSq, vagueness float64
	upper, lower := 0.0, 0.0
	for cut := 0; cut < k-1; cut++ {
		// U = Pi(y <= cut), L = N(y <= cut) on the normalized shape.
		upper = math.Max(upper, shape.Value(cut))
		lower = 1 - maxAbove(shape, cut)
		o := cumObs[cut]
		d := 0.0
		if o < lower {
			d = lower - o
		} else if o > upper {
			d = o - upper
		}
		missSq += d * d
		vagueness += upper - lower
	}
	result.Ignorance = ign
	result.Miss = missSq
	result.Sharpness = vagueness
	result.Total = missSq + p.Lambda*vagueness + p.Kappa*ign
	return result, nil
}

// precheck validates the case/params pairing shared by every score.
func precheck(fc verification.ForecastCase, p Params) error {
	if err := fc.Validate(); err != nil {
		return err
	}
	return p.Validate()
}

// fullyIgnorant is the score of a case whose forecast has no shape: every
// shape-dependent term is skipped and ignorance is total.
func fullyIgnorant(base verification.ScoreResult, p Params) verification.ScoreResult {
	base.Ignorance = 1
	base.FullyIgnorant = true
	base.Total = p.Kappa
	return base
}

// categoricalMiss is the cut-set gap for a categorical observation: ordinal
// distance for a crisp label, expected distance under a soft truth.
func categoricalMiss(set possibility.CategorySet, fc verification.ForecastCase) (float64, error) {
	switch fc.Obs.Kind {
	case verification.ObsCategory:
		idx, ok := fc.Vector.Index(fc.Obs.Category)
		if !ok {
			return 0, fmt.Errorf("observation category %q not in forecast scale", fc.Obs.Category)
		}
		return set.Distance(idx), nil
	case verification.ObsSoft:
		expected := 0.0
		for i, mass := range fc.Obs.Soft {
			expected += mass * set.Distance(i)
		}
		return expected, nil
	default:
		return 0, fmt.Errorf("%w: categorical forecast with %s observation", core.ErrShapeMismatch, fc.Obs.Kind)
	}
}

// observedMembership is the shape membership of the outcome: crisp lookup
// or soft-truth expectation.
func observedMembership(shape possibility.VectorShape, fc verification.ForecastCase) (float64, error) {
	switch fc.Obs.Kind {
	case verification.ObsCategory:
		idx, ok := fc.Vector.Index(fc.Obs.Category)
		if !ok {
			return 0, fmt.Errorf("observation category %q not in forecast scale", fc.Obs.Category)
		}
		return shape.Value(idx), nil
	case verification.ObsSoft:
		expected := 0.0
		for i, mass := range fc.Obs.Soft {
			expected += mass * shape.Value(i)
		}
		return expected, nil
	default:
		return 0, fmt.Errorf("%w: categorical forecast with %s observation", core.ErrShapeMismatch, fc.Obs.Kind)
	}
}

// cumulativeOutcome returns O_k = P(y <= k) per cut: a 0/1 step for crisp
// labels, the running soft-truth mass otherwise.
func cumulativeOutcome(fc verification.ForecastCase, k int) ([]float64, error) {
	out := make([]float64, k)
	switch fc.Obs.Kind {
	case verification.ObsCategory:
		idx, ok := fc.Vector.Index(fc.Obs.Category)
		if !ok {
			return nil, fmt.Errorf("observation category %q not in forecast scale", fc.Obs.Category)
		}
		for cut := 0; cut < k; cut++ {
			if idx <= cut {
				out[cut] = 1
			}
		}
	case verification.ObsSoft:
		running := 0.0
		for cut := 0; cut < k; cut++ {
			running += fc.Obs.Soft[cut]
			out[cut] = running
		}
	default:
		return nil, fmt.Errorf("%w: categorical forecast with %s observation", core.ErrShapeMismatch, fc.Obs.Kind)
	}
	return out, nil
}

// maxAbove is the shape maximum strictly above ordinal cut.
func maxAbove(shape possibility.VectorShape, cut int) float64 {
	m := 0.0
	for i := cut + 1; i < shape.K(); i++ {
		if shape.Value(i) > m {
			m = shape.Value(i)
		}
	}
	return m
}

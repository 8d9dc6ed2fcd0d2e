// Package bridge converts probability forecasts into the nested-set
// representation the possibilistic machinery scores, so both forecast
// families face the same calibration and scoring path. Nothing here changes
// a forecast's content; it only re-expresses it.
package bridge

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat/distuv"

	"possver/domain/core"
	"possver/domain/possibility"
)

// PredictionInterval is the central interval [Q(a/2), Q(1-a/2)] achieving
// the target coverage 1-a under the supplied quantile function. The result
// plugs into the interval scores exactly like a calibrated cut set.
func PredictionInterval(quantile func(p float64) float64, coverage float64) (possibility.Interval, error) {
	if coverage <= 0 || coverage >= 1 {
		return possibility.Interval{}, fmt.Errorf("target coverage %g outside (0,1)", coverage)
	}
	alpha := 1 - coverage
	lo := quantile(alpha / 2)
	hi := quantile(1 - alpha/2)
	if lo > hi {
		return possibility.Interval{}, fmt.Errorf("quantile function not monotone: Q(%g)=%g > Q(%g)=%g",
			alpha/2, lo, 1-alpha/2, hi)
	}
	return possibility.Interval{Lo: lo, Hi: hi}, nil
}

// QuantileFromCDF numerically inverts a CDF sampled on an ascending grid,
// interpolating linearly between samples. Targets outside the sampled CDF
// range clamp to the grid edges.
func QuantileFromCDF(cdf func(float64) float64, grid []float64) (func(p float64) float64, error) {
	if len(grid) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 grid points", core.ErrEmptyInput)
	}
	fs := make([]float64, len(grid))
	for i, z := range grid {
		fs[i] = cdf(z)
		if i > 0 && fs[i] < fs[i-1] {
			return nil, fmt.Errorf("CDF not non-decreasing at z=%g", z)
		}
	}
	return func(p float64) float64 {
		if p <= fs[0] {
			return grid[0]
		}
		if p >= fs[len(fs)-1] {
			return grid[len(grid)-1]
		}
		i := sort.SearchFloat64s(fs, p)
		if fs[i] == p {
			return grid[i]
		}
		span := fs[i] - fs[i-1]
		if span == 0 {
			return grid[i-1]
		}
		t := (p - fs[i-1]) / span
		return grid[i-1] + t*(grid[i]-grid[i-1])
	}, nil
}

// PredictionSetFromCategoryProbs returns the minimal category set whose
// summed probability reaches the target mass. Categories enter in
// probability-descending order; exact probability ties break by ordinal so
// the set is deterministic.
func PredictionSetFromCategoryProbs(labels []possibility.Category, probs []float64, targetMass float64) (possibility.CategorySet, error) {
	if len(probs) == 0 {
		return possibility.CategorySet{}, core.ErrEmptyInput
	}
	if len(labels) != len(probs) {
		return possibility.CategorySet{}, core.ErrLengthMismatch
	}
	if targetMass <= 0 || targetMass > 1 {
		return possibility.CategorySet{}, fmt.Errorf("target mass %g outside (0,1]", targetMass)
	}
	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if probs[order[a]] != probs[order[b]] {
			return probs[order[a]] > probs[order[b]]
		}
		return order[a] < order[b]
	})

	var picked []int
	mass := 0.0
	for _, i := range order {
		picked = append(picked, i)
		mass += probs[i]
		if mass >= targetMass {
			break
		}
	}
	if mass < targetMass {
		return possibility.CategorySet{}, fmt.Errorf("probabilities sum to %g, below target mass %g", mass, targetMass)
	}
	sort.Ints(picked)
	set := possibility.CategorySet{K: len(probs), Members: picked}
	for _, i := range picked {
		set.Labels = append(set.Labels, labels[i])
	}
	return set, nil
}

// CrossEntropy scores a probability vector against a soft-truth vector:
// -sum soft(cat) * log(prob(cat) + eps).
func CrossEntropy(softTruth, probs []float64, eps float64) (float64, error) {
	if len(softTruth) == 0 {
		return 0, core.ErrEmptyInput
	}
	if len(softTruth) != len(probs) {
		return 0, core.ErrLengthMismatch
	}
	total := 0.0
	for i, s := range softTruth {
		if s == 0 {
			continue
		}
		total += -s * math.Log(probs[i]+eps)
	}
	return total, nil
}

// SoftTruthFromNoise computes the expected category membership of a scalar
// observation under Gaussian observation noise: for each supplied
// membership function, E[mu_k(Z)] with Z ~ N(yObs, sigma^2), normalized to
// a probability vector. The noise model itself is the caller's statement;
// this only performs the expectation.
func SoftTruthFromNoise(yObs, sigma float64, memberships []func(float64) float64) ([]float64, error) {
	if len(memberships) == 0 {
		return nil, core.ErrEmptyInput
	}
	if sigma < 0 {
		return nil, fmt.Errorf("negative noise sigma %g", sigma)
	}
	raw := make([]float64, len(memberships))
	if sigma == 0 {
		for k, mu := range memberships {
			raw[k] = mu(yObs)
		}
	} else {
		noise := distuv.Normal{Mu: yObs, Sigma: sigma}
		const steps = 400
		lo, hi := yObs-6*sigma, yObs+6*sigma
		xs := make([]float64, steps+1)
		ys := make([]float64, steps+1)
		for i := 0; i <= steps; i++ {
			xs[i] = lo + float64(i)*(hi-lo)/steps
		}
		for k, mu := range memberships {
			for i, z := range xs {
				ys[i] = mu(z) * noise.Prob(z)
			}
			raw[k] = integrate.Trapezoidal(xs, ys)
		}
	}
	sum := 0.0
	for _, v := range raw {
		sum += v
	}
	if sum == 0 {
		return nil, fmt.Errorf("%w: observation %g has zero membership in every category", core.ErrDegenerateDistribution, yObs)
	}
	for k := range raw {
		raw[k] /= sum
	}
	return raw, nil
}

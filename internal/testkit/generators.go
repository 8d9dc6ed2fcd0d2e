// Package testkit provides synthetic forecast cases for tests: triangular
// possibility curves, categorical vectors, and clustered ensembles with
// known properties.
package testkit

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"possver/domain/possibility"
	"possver/domain/verification"
)

// Grid returns n+1 evenly spaced values spanning [lo, hi].
func Grid(lo, hi float64, n int) []float64 {
	out := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		out[i] = lo + float64(i)*(hi-lo)/float64(n)
	}
	return out
}

// TriangularCurve samples a triangular possibility curve peaking at center
// with the given peak value and half-width, on a grid over [lo, hi].
func TriangularCurve(lo, hi, center, halfWidth, peak float64) possibility.Curve {
	curve, err := possibility.SampleCurve(Grid(lo, hi, 200), func(z float64) float64 {
		d := math.Abs(z - center)
		if d >= halfWidth {
			return 0
		}
		return peak * (1 - d/halfWidth)
	})
	if err != nil {
		panic(err) // fixed synthetic inputs cannot fail validation
	}
	return curve
}

// BimodalCurve samples a two-peak curve; useful for disconnected cut sets.
func BimodalCurve(lo, hi, c1, c2, halfWidth float64) possibility.Curve {
	curve, err := possibility.SampleCurve(Grid(lo, hi, 200), func(z float64) float64 {
		tri := func(c float64) float64 {
			d := math.Abs(z - c)
			if d >= halfWidth {
				return 0
			}
			return 1 - d/halfWidth
		}
		return math.Max(tri(c1), tri(c2))
	})
	if err != nil {
		panic(err)
	}
	return curve
}

// OzoneVector builds a 4-category forecast over the standard ozone scale.
func OzoneVector(background, moderate, elevated, extreme float64) possibility.Vector {
	vec, err := possibility.NewVector(possibility.OzoneCategories(),
		[]float64{background, moderate, elevated, extreme})
	if err != nil {
		panic(err)
	}
	return vec
}

// GaussianFamily generates n curve cases whose forecasts are triangular
// around a noisy center and whose observations come from the same Normal
// family, all from a seeded generator. Cut-set coverage of this family is
// non-increasing in the cut level, which is what calibration tests need.
func GaussianFamily(n int, seed int64) []verification.ForecastCase {
	rng := rand.New(rand.NewSource(seed))
	obsDist := distuv.Normal{Mu: 60, Sigma: 8}
	cases := make([]verification.ForecastCase, n)
	for i := 0; i < n; i++ {
		center := 60 + rng.NormFloat64()*3
		curve := TriangularCurve(0, 120, center, 25, 1.0)
		obs := obsDist.Quantile(rng.Float64())
		cases[i] = verification.NewCurveCase(i, curve, verification.ScalarObservation(obs))
	}
	return cases
}

// MemberScores builds a MemberScores-shaped map from parallel slices.
func MemberScores(members []int, series [][]float64) map[int][]float64 {
	out := make(map[int][]float64, len(members))
	for i, m := range members {
		out[m] = series[i]
	}
	return out
}

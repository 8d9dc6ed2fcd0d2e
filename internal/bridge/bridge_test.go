package bridge

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	"possver/domain/possibility"
	"possver/internal/testkit"
)

func TestPredictionInterval_CentralQuantiles(t *testing.T) {
	dist := distuv.Normal{Mu: 60, Sigma: 10}
	iv, err := PredictionInterval(dist.Quantile, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	wantLo, wantHi := dist.Quantile(0.05), dist.Quantile(0.95)
	if math.Abs(iv.Lo-wantLo) > 1e-9 || math.Abs(iv.Hi-wantHi) > 1e-9 {
		t.Errorf("interval = [%g, %g], want [%g, %g]", iv.Lo, iv.Hi, wantLo, wantHi)
	}

	if _, err := PredictionInterval(dist.Quantile, 1.0); err == nil {
		t.Error("coverage 1.0 should be rejected")
	}
}

func TestQuantileFromCDF_InvertsNumerically(t *testing.T) {
	dist := distuv.Normal{Mu: 60, Sigma: 10}
	quantile, err := QuantileFromCDF(dist.CDF, testkit.Grid(0, 120, 1200))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []float64{0.05, 0.25, 0.5, 0.75, 0.95} {
		got := quantile(p)
		want := dist.Quantile(p)
		if math.Abs(got-want) > 0.05 {
			t.Errorf("Q(%g) = %g, want %g", p, got, want)
		}
	}
}

func TestPredictionSetFromCategoryProbs_MinimalSet(t *testing.T) {
	labels := possibility.OzoneCategories()
	set, err := PredictionSetFromCategoryProbs(labels, []float64{0.1, 0.55, 0.25, 0.1}, 0.75)
	if err != nil {
		t.Fatal(err)
	}
	// moderate (0.55) then elevated (0.25) reach 0.80 >= 0.75.
	if set.Count() != 2 || !set.Contains(possibility.CatModerate) || !set.Contains(possibility.CatElevated) {
		t.Errorf("set = %v", set.Labels)
	}
	if !set.Contiguous() {
		t.Error("expected contiguous set")
	}
	mass, err := set.Mass([]float64{0.1, 0.55, 0.25, 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(mass-0.8) > 1e-12 {
		t.Errorf("set mass = %g, want 0.8", mass)
	}
}

func TestPredictionSetFromCategoryProbs_TieBreaksByOrdinal(t *testing.T) {
	labels := possibility.OzoneCategories()
	set, err := PredictionSetFromCategoryProbs(labels, []float64{0.25, 0.25, 0.25, 0.25}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	// All tied: deterministic ordinal order picks the two lowest.
	if set.Count() != 2 || !set.Contains(possibility.CatBackground) || !set.Contains(possibility.CatModerate) {
		t.Errorf("tied set = %v", set.Labels)
	}
}

func TestCrossEntropy(t *testing.T) {
	soft := []float64{0, 0.7, 0.3, 0}
	probs := []float64{0.1, 0.6, 0.2, 0.1}
	got, err := CrossEntropy(soft, probs, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := -0.7*math.Log(0.6) - 0.3*math.Log(0.2)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("cross-entropy = %g, want %g", got, want)
	}

	// Zero probability on a supported category stays finite with epsilon.
	finite, err := CrossEntropy([]float64{1, 0, 0, 0}, []float64{0, 0.5, 0.4, 0.1}, 1e-6)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsInf(finite, 0) || math.IsNaN(finite) {
		t.Errorf("epsilon-guarded cross-entropy = %g", finite)
	}
}

func TestSoftTruthFromNoise(t *testing.T) {
	// Two adjacent ramp memberships crossing at 70.
	low := func(z float64) float64 {
		switch {
		case z <= 60:
			return 1
		case z >= 80:
			return 0
		default:
			return (80 - z) / 20
		}
	}
	high := func(z float64) float64 { return 1 - low(z) }

	soft, err := SoftTruthFromNoise(70, 5, []func(float64) float64{low, high})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(soft[0]+soft[1]-1) > 1e-9 {
		t.Errorf("soft truth sums to %g, want 1", soft[0]+soft[1])
	}
	// Observation on the crossover point splits evenly under symmetric noise.
	if math.Abs(soft[0]-0.5) > 0.01 {
		t.Errorf("soft truth = (%g, %g), want about (0.5, 0.5)", soft[0], soft[1])
	}

	exact, err := SoftTruthFromNoise(55, 0, []func(float64) float64{low, high})
	if err != nil {
		t.Fatal(err)
	}
	if exact[0] != 1 || exact[1] != 0 {
		t.Errorf("noise-free soft truth = %v, want (1, 0)", exact)
	}
}

func TestPignisticProbabilities(t *testing.T) {
	shape, _, err := possibility.NormalizeVector(testkit.OzoneVector(0.4, 1.0, 0.6, 0.2))
	if err != nil {
		t.Fatal(err)
	}
	probs := PignisticProbabilities(shape)

	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("pignistic probabilities sum to %g, want 1", sum)
	}
	// Mass ordering follows membership ordering.
	if !(probs[1] > probs[2] && probs[2] > probs[0] && probs[0] > probs[3]) {
		t.Errorf("probability ordering broken: %v", probs)
	}

	vacuous, _, err := possibility.NormalizeVector(testkit.OzoneVector(1, 1, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range PignisticProbabilities(vacuous) {
		if math.Abs(p-0.25) > 1e-12 {
			t.Errorf("vacuous shape should be uniform, got %v", p)
		}
	}
}

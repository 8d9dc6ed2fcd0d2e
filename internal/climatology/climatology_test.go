package climatology

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"

	"possver/domain/core"
	"possver/domain/possibility"
	"possver/internal/testkit"
)

// TestFromCDF_CentralQuantileRoundTrip checks the defining invariant of the
// continuous climatology: its cut set at level r is the central quantile
// interval [Q(r/2), Q(1-r/2)].
func TestFromCDF_CentralQuantileRoundTrip(t *testing.T) {
	dist := distuv.Normal{Mu: 60, Sigma: 10}
	grid := testkit.Grid(10, 110, 1000)

	curve, err := FromCDF(dist.CDF, grid)
	if err != nil {
		t.Fatal(err)
	}
	shape, ign, err := possibility.Normalize(curve)
	if err != nil {
		t.Fatal(err)
	}
	if ign > 0.01 {
		t.Fatalf("climatology over a wide grid should be nearly normal, ignorance = %g", ign)
	}

	for _, r := range []possibility.Level{0.1, 0.25, 0.5, 0.75, 0.9} {
		region, err := shape.Cut(r)
		if err != nil {
			t.Fatalf("cut at %g: %v", float64(r), err)
		}
		if !region.Contiguous() {
			t.Fatalf("climatology cut at %g is not a single interval", float64(r))
		}
		wantLo := dist.Quantile(float64(r) / 2)
		wantHi := dist.Quantile(1 - float64(r)/2)
		iv := region.Intervals[0]
		if math.Abs(iv.Lo-wantLo) > 0.2 || math.Abs(iv.Hi-wantHi) > 0.2 {
			t.Errorf("cut(%g) = [%g, %g], want [Q(%g), Q(%g)] = [%g, %g]",
				float64(r), iv.Lo, iv.Hi, float64(r)/2, 1-float64(r)/2, wantLo, wantHi)
		}
	}
}

func TestFromFrequencies_ScalesByMode(t *testing.T) {
	vec, err := FromFrequencies(possibility.OzoneCategories(), []float64{120, 60, 15, 5})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1.0, 0.5, 0.125, 5.0 / 120}
	for i, w := range want {
		if math.Abs(vec.Values[i]-w) > 1e-12 {
			t.Errorf("value[%d] = %g, want %g", i, vec.Values[i], w)
		}
	}
}

func TestFromFrequencies_Degenerate(t *testing.T) {
	_, err := FromFrequencies(possibility.OzoneCategories(), []float64{0, 0, 0, 0})
	if !core.IsDegenerateDistribution(err) {
		t.Fatalf("all-zero frequencies: expected degenerate error, got %v", err)
	}
}

func TestFromFrequenciesSmoothed_FloorsNeighbors(t *testing.T) {
	labels := possibility.OzoneCategories()
	plain, err := FromFrequencies(labels, []float64{100, 50, 0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if plain.Values[2] != 0 {
		t.Fatalf("unsmoothed elevated = %g, want 0", plain.Values[2])
	}

	smoothed, err := FromFrequenciesSmoothed(labels, []float64{100, 50, 0, 0}, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	// elevated inherits 0.3 * moderate's 0.5.
	if math.Abs(smoothed.Values[2]-0.15) > 1e-12 {
		t.Errorf("smoothed elevated = %g, want 0.15", smoothed.Values[2])
	}
	// extreme's only neighbor is the zero elevated, so it stays zero.
	if smoothed.Values[3] != 0 {
		t.Errorf("smoothed extreme = %g, want 0", smoothed.Values[3])
	}

	if _, err := FromFrequenciesSmoothed(labels, []float64{1, 1, 1, 1}, 1.5); err == nil {
		t.Error("smoothing weight above 1 should be rejected")
	}
}

package possibility

import (
	"math"
	"testing"

	"possver/domain/core"
)

func triangular(center, halfWidth, peak float64) Curve {
	points := make([]Point, 0, 201)
	for i := 0; i <= 200; i++ {
		z := float64(i) * 120.0 / 200.0
		d := math.Abs(z - center)
		poss := 0.0
		if d < halfWidth {
			poss = peak * (1 - d/halfWidth)
		}
		points = append(points, Point{Value: z, Poss: poss})
	}
	c, err := NewCurve(points)
	if err != nil {
		panic(err)
	}
	return c
}

func TestNewCurve_RejectsBadInput(t *testing.T) {
	if _, err := NewCurve([]Point{{Value: 0, Poss: 0.5}}); err == nil {
		t.Error("single-sample curve should be rejected")
	}
	if _, err := NewCurve([]Point{{0, 0.5}, {1, 1.2}}); err == nil {
		t.Error("possibility above 1 should be rejected")
	}
	if _, err := NewCurve([]Point{{1, 0.5}, {0, 0.5}}); err == nil {
		t.Error("unordered domain should be rejected")
	}
}

func TestNormalize_IgnoranceBoundsAndUnitMax(t *testing.T) {
	for _, peak := range []float64{0.2, 0.5, 0.8, 1.0} {
		shape, ign, err := Normalize(triangular(60, 20, peak))
		if err != nil {
			t.Fatalf("peak %g: %v", peak, err)
		}
		if ign < 0 || ign > 1 {
			t.Errorf("peak %g: ignorance %g outside [0,1]", peak, ign)
		}
		if math.Abs(ign-(1-peak)) > 1e-12 {
			t.Errorf("peak %g: ignorance %g, want %g", peak, ign, 1-peak)
		}
		if got := shape.Curve().Max(); math.Abs(got-1) > 1e-12 {
			t.Errorf("peak %g: normalized max %g, want exactly 1", peak, got)
		}
	}
}

func TestNormalize_DegenerateDistribution(t *testing.T) {
	flat, err := NewCurve([]Point{{0, 0}, {50, 0}, {100, 0}})
	if err != nil {
		t.Fatal(err)
	}
	_, ign, err := Normalize(flat)
	if !core.IsDegenerateDistribution(err) {
		t.Fatalf("expected degenerate distribution error, got %v", err)
	}
	if ign != 1 {
		t.Errorf("degenerate case must report ignorance 1, got %g", ign)
	}
}

func TestCut_Nesting(t *testing.T) {
	shape, _, err := Normalize(triangular(60, 25, 0.8))
	if err != nil {
		t.Fatal(err)
	}
	grid := []Level{0.1, 0.3, 0.5, 0.7, 0.9, 1.0}
	var prev Region
	for i, r := range grid {
		region, err := shape.Cut(r)
		if err != nil {
			t.Fatalf("cut at %g: %v", float64(r), err)
		}
		if region.Empty() {
			t.Fatalf("cut at %g is empty on a normalized shape", float64(r))
		}
		if i > 0 {
			// Stricter cuts nest inside looser ones.
			inner := region.Intervals[0]
			outer := prev.Intervals[0]
			if inner.Lo < outer.Lo-1e-9 || inner.Hi > outer.Hi+1e-9 {
				t.Errorf("cut(%g)=[%g,%g] not inside cut(%g)=[%g,%g]",
					float64(r), inner.Lo, inner.Hi, float64(grid[i-1]), outer.Lo, outer.Hi)
			}
		}
		prev = region
	}
}

func TestCut_MultiModalRegionIsDisconnected(t *testing.T) {
	bimodal, err := SampleCurve(gridOver(0, 120, 240), func(z float64) float64 {
		tri := func(c float64) float64 {
			d := math.Abs(z - c)
			if d >= 10 {
				return 0
			}
			return 1 - d/10
		}
		return math.Max(tri(40), tri(80))
	})
	if err != nil {
		t.Fatal(err)
	}
	shape, _, err := Normalize(bimodal)
	if err != nil {
		t.Fatal(err)
	}
	region, err := shape.Cut(0.5)
	if err != nil {
		t.Fatal(err)
	}
	if region.Contiguous() {
		t.Fatal("bimodal cut at 0.5 must be disconnected")
	}
	if len(region.Intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(region.Intervals))
	}
	if region.Width() <= region.Measure() {
		t.Errorf("outer span %g should exceed summed measure %g on a disconnected region",
			region.Width(), region.Measure())
	}
	if !region.Contains(40) || !region.Contains(80) || region.Contains(60) {
		t.Error("containment should track the two modes, not the valley")
	}
}

func TestCut_InvalidLevel(t *testing.T) {
	shape, _, err := Normalize(triangular(60, 20, 1))
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range []Level{0, -0.2, 1.5} {
		if _, err := shape.Cut(r); !core.IsInvalidLevel(err) {
			t.Errorf("cut at %g: expected invalid level error, got %v", float64(r), err)
		}
	}
}

// TestNecessity_SubnormalRegression is the literal regression test for the
// documented defect: computing necessity from raw subnormal values can put
// N above Pi, while the normalized-shape calculus preserves N <= Pi.
func TestNecessity_SubnormalRegression(t *testing.T) {
	raw, err := NewVector(OzoneCategories(), []float64{0.1, 0.3, 0.05, 0.02})
	if err != nil {
		t.Fatal(err)
	}

	// Event A = {background, moderate}. Uncorrected formulas on raw data:
	event := []int{0, 1}
	piRaw := math.Max(raw.Values[0], raw.Values[1])
	necRaw := 1 - math.Max(raw.Values[2], raw.Values[3])
	if necRaw <= piRaw {
		t.Fatalf("regression fixture lost its point: raw N=%g <= raw Pi=%g", necRaw, piRaw)
	}

	shape, _, err := NormalizeVector(raw)
	if err != nil {
		t.Fatal(err)
	}
	pi := shape.Possibility(event)
	nec := shape.Necessity(event)
	if nec > pi+1e-12 {
		t.Errorf("normalized calculus violated N(A) <= Pi(A): N=%g Pi=%g", nec, pi)
	}
}

func TestVectorShape_EndToEndScenario(t *testing.T) {
	raw, err := NewVector(OzoneCategories(), []float64{0.2, 0.5, 0.3, 0.1})
	if err != nil {
		t.Fatal(err)
	}
	if got := raw.Max(); got != 0.5 {
		t.Fatalf("m = %g, want 0.5", got)
	}
	shape, ign, err := NormalizeVector(raw)
	if err != nil {
		t.Fatal(err)
	}
	if ign != 0.5 {
		t.Errorf("I = %g, want 0.5", ign)
	}
	want := []float64{0.4, 1.0, 0.6, 0.2}
	for i, w := range want {
		if math.Abs(shape.Value(i)-w) > 1e-12 {
			t.Errorf("shape[%d] = %g, want %g", i, shape.Value(i), w)
		}
	}

	at50, err := shape.Cut(0.5)
	if err != nil {
		t.Fatal(err)
	}
	if at50.Count() != 2 || !at50.Contains(CatModerate) || !at50.Contains(CatElevated) {
		// shape >= 0.5 holds for moderate (1.0) and elevated (0.6)
		t.Errorf("cut(0.5) = %v", at50.Labels)
	}
	// Raw-possibility thresholds 0.5 and 0.3 correspond to shape levels
	// 0.5/m = 1.0 and 0.3/m = 0.6.
	strict, err := shape.Cut(1.0)
	if err != nil {
		t.Fatal(err)
	}
	if strict.Count() != 1 || !strict.Contains(CatModerate) {
		t.Errorf("cut(1.0) = %v, want {moderate}", strict.Labels)
	}
	mid, err := shape.Cut(0.6)
	if err != nil {
		t.Fatal(err)
	}
	if mid.Count() != 2 || !mid.Contains(CatModerate) || !mid.Contains(CatElevated) {
		t.Errorf("cut(0.6) = %v, want {moderate, elevated}", mid.Labels)
	}
	loose, err := shape.Cut(0.3)
	if err != nil {
		t.Fatal(err)
	}
	if loose.Count() != 3 || loose.Contains(CatExtreme) {
		// shape >= 0.3: background (0.4), moderate (1.0), elevated (0.6)
		t.Errorf("cut(0.3) = %v", loose.Labels)
	}

	tail := []int{2, 3} // {elevated, extreme}
	if pi := shape.Possibility(tail); math.Abs(pi-0.6) > 1e-12 {
		t.Errorf("Pi({elev,ext}) = %g, want 0.6", pi)
	}
	if nec := shape.Necessity(tail); math.Abs(nec-0) > 1e-12 {
		t.Errorf("N({elev,ext}) = %g, want 0", nec)
	}
}

func TestCategorySet_WidthAndSize(t *testing.T) {
	shape, _, err := NormalizeVector(mustVector(t, []float64{0.8, 0.1, 0.2, 0.8}))
	if err != nil {
		t.Fatal(err)
	}
	set, err := shape.Cut(0.9)
	if err != nil {
		t.Fatal(err)
	}
	if set.Contiguous() {
		t.Fatal("expected disconnected set {background, extreme}")
	}
	if got := set.Width(); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("outer span width = %g, want 1 (full ordinal range)", got)
	}
	if got := set.Size(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("size = %g, want 0.5 (2 of 4)", got)
	}
	if got := set.Distance(1); math.Abs(got-1.0/3) > 1e-12 {
		t.Errorf("distance(moderate) = %g, want 1/3", got)
	}
}

func TestCurveShape_TailBounds(t *testing.T) {
	shape, _, err := Normalize(triangular(60, 20, 1))
	if err != nil {
		t.Fatal(err)
	}
	pi, nec := shape.TailBounds(70)
	// Mode sits below the threshold: exceedance is possible but far from
	// necessary.
	if math.Abs(pi-0.5) > 0.02 {
		t.Errorf("Pi(>=70) = %g, want about 0.5", pi)
	}
	if nec != 0 {
		t.Errorf("N(>=70) = %g, want 0 when the mode is below threshold", nec)
	}
	if nec > pi {
		t.Errorf("N=%g exceeds Pi=%g on a normalized shape", nec, pi)
	}
}

func gridOver(lo, hi float64, n int) []float64 {
	out := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		out[i] = lo + float64(i)*(hi-lo)/float64(n)
	}
	return out
}

func mustVector(t *testing.T, values []float64) Vector {
	t.Helper()
	v, err := NewVector(OzoneCategories(), values)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

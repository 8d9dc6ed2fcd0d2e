package verification

import (
	"errors"
	"math"
	"testing"

	"possver/domain/core"
	"possver/domain/possibility"
)

func moderateVector(t *testing.T) possibility.Vector {
	t.Helper()
	v, err := possibility.NewVector(possibility.OzoneCategories(), []float64{0.2, 1, 0.6, 0.1})
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func narrowCurve(t *testing.T) possibility.Curve {
	t.Helper()
	c, err := possibility.NewCurve([]possibility.Point{{Value: 40, Poss: 0}, {Value: 60, Poss: 1}, {Value: 80, Poss: 0}})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestForecastCaseValidate(t *testing.T) {
	curveCase := NewCurveCase(0, narrowCurve(t), ScalarObservation(55))
	if err := curveCase.Validate(); err != nil {
		t.Fatal(err)
	}

	vecCase := NewVectorCase(0, moderateVector(t), CategoryObservation(possibility.CatModerate))
	if err := vecCase.Validate(); err != nil {
		t.Fatal(err)
	}

	// Exactly one forecast shape per case.
	both := curveCase
	both.Vector = vecCase.Vector
	if err := both.Validate(); !errors.Is(err, core.ErrShapeMismatch) {
		t.Errorf("curve+vector case: err = %v", err)
	}
	neither := curveCase
	neither.Curve = nil
	if err := neither.Validate(); !errors.Is(err, core.ErrShapeMismatch) {
		t.Errorf("shapeless case: err = %v", err)
	}

	// Observation kind must match the forecast shape.
	mismatched := NewCurveCase(0, narrowCurve(t), CategoryObservation(possibility.CatExtreme))
	if err := mismatched.Validate(); !errors.Is(err, core.ErrShapeMismatch) {
		t.Errorf("curve with category obs: err = %v", err)
	}

	soft, err := SoftObservation([]float64{0.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	short := NewVectorCase(0, moderateVector(t), soft)
	if err := short.Validate(); !errors.Is(err, core.ErrLengthMismatch) {
		t.Errorf("short soft truth: err = %v", err)
	}
}

func TestSoftObservation(t *testing.T) {
	if _, err := SoftObservation([]float64{0.4, 0.4}); err == nil {
		t.Error("masses summing to 0.8 should be rejected")
	}
	if _, err := SoftObservation([]float64{1.2, -0.2}); err == nil {
		t.Error("negative mass should be rejected")
	}
	if _, err := SoftObservation(nil); !errors.Is(err, core.ErrEmptyInput) {
		t.Error("empty soft truth should be rejected")
	}
}

func TestSummarize(t *testing.T) {
	results := []ScoreResult{
		{Total: 1, Ignorance: 0.1},
		{Total: 2, Ignorance: 0.2},
		{Total: 3, Ignorance: 0.3},
		{Total: 10, Ignorance: 0.4},
	}
	s, err := Summarize(results)
	if err != nil {
		t.Fatal(err)
	}
	if s.N != 4 {
		t.Errorf("N = %d", s.N)
	}
	if math.Abs(s.Mean-4) > 1e-12 {
		t.Errorf("mean = %g, want 4", s.Mean)
	}
	if math.Abs(s.Median-2.5) > 1e-12 {
		t.Errorf("median = %g, want 2.5", s.Median)
	}
	// The outlier at 10 moves the mean but not the median past it.
	if s.Median >= s.Mean {
		t.Error("median should resist the outlier")
	}

	totals := Totals(results)
	igns := Ignorances(results)
	if totals[3] != 10 || igns[3] != 0.4 {
		t.Errorf("extractors returned %v, %v", totals, igns)
	}

	if _, err := Summarize(nil); !errors.Is(err, core.ErrEmptyInput) {
		t.Errorf("empty summarize: err = %v", err)
	}
}

package possibility

import (
	"fmt"
	"sort"

	"possver/domain/core"
)

// Category is an ordered outcome label. Ordering is positional: a Vector's
// label slice defines the ordinal scale.
type Category string

// Default ozone exceedance categories, ordered from calm to severe.
const (
	CatBackground Category = "background"
	CatModerate   Category = "moderate"
	CatElevated   Category = "elevated"
	CatExtreme    Category = "extreme"
)

// OzoneCategories returns the standard 4-category ordinal scale.
func OzoneCategories() []Category {
	return []Category{CatBackground, CatModerate, CatElevated, CatExtreme}
}

// Point is one sample of a possibility curve.
type Point struct {
	Value float64 `json:"value"`
	Poss  float64 `json:"possibility"`
}

// Curve is a sampled possibility distribution over a numeric domain.
// Values must be strictly increasing; possibilities lie in [0,1] and need
// not integrate to anything. Curves may be multi-modal.
type Curve struct {
	Points []Point `json:"points"`
}

// NewCurve validates and builds a sampled possibility curve.
func NewCurve(points []Point) (Curve, error) {
	if len(points) < 2 {
		return Curve{}, fmt.Errorf("%w: curve needs at least 2 samples, got %d", core.ErrEmptyDistribution, len(points))
	}
	for i, p := range points {
		if p.Poss < 0 || p.Poss > 1 {
			return Curve{}, fmt.Errorf("%w: %g at sample %d", core.ErrPossibilityOutOfRange, p.Poss, i)
		}
		if i > 0 && points[i-1].Value >= p.Value {
			return Curve{}, fmt.Errorf("%w: sample %d (%g) after %g", core.ErrUnorderedDomain, i, p.Value, points[i-1].Value)
		}
	}
	return Curve{Points: points}, nil
}

// SampleCurve builds a curve by evaluating f on an ascending grid.
func SampleCurve(grid []float64, f func(float64) float64) (Curve, error) {
	points := make([]Point, len(grid))
	for i, z := range grid {
		points[i] = Point{Value: z, Poss: clamp01(f(z))}
	}
	return NewCurve(points)
}

// Max returns the maximum possibility over the sampled domain.
func (c Curve) Max() float64 {
	m := 0.0
	for _, p := range c.Points {
		if p.Poss > m {
			m = p.Poss
		}
	}
	return m
}

// Domain returns the sampled domain bounds.
func (c Curve) Domain() (lo, hi float64) {
	return c.Points[0].Value, c.Points[len(c.Points)-1].Value
}

// MembershipAt evaluates the curve at z by linear interpolation between
// samples. Outside the sampled domain the membership is 0.
func (c Curve) MembershipAt(z float64) float64 {
	n := len(c.Points)
	if n == 0 || z < c.Points[0].Value || z > c.Points[n-1].Value {
		return 0
	}
	i := sort.Search(n, func(k int) bool { return c.Points[k].Value >= z })
	if i < n && c.Points[i].Value == z {
		return c.Points[i].Poss
	}
	a, b := c.Points[i-1], c.Points[i]
	t := (z - a.Value) / (b.Value - a.Value)
	return a.Poss + t*(b.Poss-a.Poss)
}

// Vector is a possibility distribution over an ordered finite category set.
type Vector struct {
	Labels []Category `json:"labels"`
	Values []float64  `json:"values"`
}

// NewVector validates and builds a categorical possibility vector.
func NewVector(labels []Category, values []float64) (Vector, error) {
	if len(labels) == 0 {
		return Vector{}, fmt.Errorf("%w: no categories", core.ErrEmptyDistribution)
	}
	if len(labels) != len(values) {
		return Vector{}, fmt.Errorf("%w: %d labels vs %d values", core.ErrLengthMismatch, len(labels), len(values))
	}
	seen := make(map[Category]bool, len(labels))
	for i, l := range labels {
		if seen[l] {
			return Vector{}, fmt.Errorf("duplicate category %q", l)
		}
		seen[l] = true
		if values[i] < 0 || values[i] > 1 {
			return Vector{}, fmt.Errorf("%w: %g for category %q", core.ErrPossibilityOutOfRange, values[i], l)
		}
	}
	return Vector{Labels: labels, Values: values}, nil
}

// Max returns the maximum possibility across categories.
func (v Vector) Max() float64 {
	m := 0.0
	for _, x := range v.Values {
		if x > m {
			m = x
		}
	}
	return m
}

// K returns the number of categories.
func (v Vector) K() int {
	return len(v.Labels)
}

// Index returns the ordinal position of a label.
func (v Vector) Index(c Category) (int, bool) {
	for i, l := range v.Labels {
		if l == c {
			return i, true
		}
	}
	return -1, false
}

// MembershipOf returns the possibility assigned to a category.
func (v Vector) MembershipOf(c Category) (float64, error) {
	i, ok := v.Index(c)
	if !ok {
		return 0, fmt.Errorf("unknown category %q", c)
	}
	return v.Values[i], nil
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

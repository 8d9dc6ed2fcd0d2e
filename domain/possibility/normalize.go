package possibility

import (
	"fmt"

	"gonum.org/v1/gonum/integrate"

	"possver/domain/core"
)

// Level is a cut strictness level in (0,1]. It is deliberately a distinct
// type from probabilistic miscoverage parameters: a Level selects a nested
// plausible set, it is not an alpha. Conversion between the two goes through
// empirical calibration, never through reuse of the same constant.
type Level float64

// Validate rejects levels outside (0,1].
func (r Level) Validate() error {
	if r <= 0 || r > 1 {
		return core.NewInvalidLevelError(float64(r))
	}
	return nil
}

// ClipLevels drops grid entries outside (0,1] and returns the valid ones.
// An all-invalid grid is an error, never a silent empty sweep.
func ClipLevels(grid []Level) ([]Level, error) {
	out := make([]Level, 0, len(grid))
	for _, r := range grid {
		if r.Validate() == nil {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no valid levels in grid", core.ErrInvalidLevel)
	}
	return out, nil
}

// CurveShape is a normalized possibility curve: max membership is exactly 1.
// Sharpness, nonspecificity and the event calculus are defined on shapes
// only; a raw (possibly subnormal) Curve cannot be passed where a shape is
// required. Ignorance travels separately.
type CurveShape struct {
	curve Curve
}

// VectorShape is a normalized categorical possibility vector (max value 1).
type VectorShape struct {
	vec Vector
}

// Normalize splits a raw curve into its normalized shape and its ignorance
// mass I = 1 - max. A curve with zero maximum has no shape: the caller must
// record I = 1 and skip shape-dependent work.
func Normalize(c Curve) (CurveShape, float64, error) {
	m := c.Max()
	if m == 0 {
		return CurveShape{}, 1, core.ErrDegenerateDistribution
	}
	points := make([]Point, len(c.Points))
	for i, p := range c.Points {
		points[i] = Point{Value: p.Value, Poss: p.Poss / m}
	}
	return CurveShape{curve: Curve{Points: points}}, 1 - m, nil
}

// NormalizeVector splits a raw categorical vector into shape and ignorance.
func NormalizeVector(v Vector) (VectorShape, float64, error) {
	m := v.Max()
	if m == 0 {
		return VectorShape{}, 1, core.ErrDegenerateDistribution
	}
	values := make([]float64, len(v.Values))
	for i, x := range v.Values {
		values[i] = x / m
	}
	return VectorShape{vec: Vector{Labels: v.Labels, Values: values}}, 1 - m, nil
}

// Curve returns the underlying normalized samples.
func (s CurveShape) Curve() Curve { return s.curve }

// Domain returns the shape's domain bounds.
func (s CurveShape) Domain() (lo, hi float64) { return s.curve.Domain() }

// MembershipAt evaluates the normalized membership at z.
func (s CurveShape) MembershipAt(z float64) float64 { return s.curve.MembershipAt(z) }

// Mean is the nonspecificity of the shape: its integral over the domain
// normalized by domain length. A vacuous shape (all ones) scores 1.
func (s CurveShape) Mean() float64 {
	n := len(s.curve.Points)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range s.curve.Points {
		xs[i] = p.Value
		ys[i] = p.Poss
	}
	lo, hi := s.curve.Domain()
	return integrate.Trapezoidal(xs, ys) / (hi - lo)
}

// TailBounds computes the exceedance pair for threshold t on the normalized
// shape: pi = Pi([t, +inf)) ("could exceed") and nec = 1 - Pi((-inf, t))
// ("must exceed"). On a shape nec <= pi always holds; on raw subnormal data
// the same formulas break, which is why this method does not exist on Curve.
func (s CurveShape) TailBounds(t float64) (pi, nec float64) {
	above, below := 0.0, 0.0
	pts := s.curve.Points
	for i, p := range pts {
		if p.Value >= t {
			if p.Poss > above {
				above = p.Poss
			}
		} else {
			if p.Poss > below {
				below = p.Poss
			}
		}
		// Interpolated membership at the threshold itself belongs to the
		// exceedance side; the segment straddling t feeds both maxima.
		if i > 0 && pts[i-1].Value < t && p.Value > t {
			at := s.curve.MembershipAt(t)
			if at > above {
				above = at
			}
			if at > below {
				below = at
			}
		}
	}
	return above, 1 - below
}

// Vector returns the underlying normalized vector.
func (s VectorShape) Vector() Vector { return s.vec }

// K returns the number of categories.
func (s VectorShape) K() int { return s.vec.K() }

// Value returns the normalized membership at ordinal i.
func (s VectorShape) Value(i int) float64 { return s.vec.Values[i] }

// Mean is the categorical nonspecificity: the mean normalized membership.
func (s VectorShape) Mean() float64 {
	sum := 0.0
	for _, x := range s.vec.Values {
		sum += x
	}
	return sum / float64(len(s.vec.Values))
}

// Possibility of an event: max membership over the member ordinals.
func (s VectorShape) Possibility(members []int) float64 {
	m := 0.0
	for _, i := range members {
		if i >= 0 && i < len(s.vec.Values) && s.vec.Values[i] > m {
			m = s.vec.Values[i]
		}
	}
	return m
}

// Necessity of an event: 1 - possibility of its complement. Only meaningful
// on a normalized shape; with subnormal raw values necessity can exceed
// possibility, which is the documented defect this type prevents.
func (s VectorShape) Necessity(members []int) float64 {
	in := make(map[int]bool, len(members))
	for _, i := range members {
		in[i] = true
	}
	comp := 0.0
	for i, x := range s.vec.Values {
		if !in[i] && x > comp {
			comp = x
		}
	}
	return 1 - comp
}

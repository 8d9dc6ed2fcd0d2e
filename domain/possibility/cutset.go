package possibility

import (
	"math"

	"possver/domain/core"
)

// Interval is a closed numeric interval.
type Interval struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Length returns the interval length.
func (iv Interval) Length() float64 { return iv.Hi - iv.Lo }

// Contains reports whether y lies in the closed interval.
func (iv Interval) Contains(y float64) bool { return y >= iv.Lo && y <= iv.Hi }

// Region is a cut set of a curve shape: an ascending list of disjoint closed
// intervals. Multi-modal shapes produce disconnected regions; nothing here
// assumes connectivity.
type Region struct {
	Intervals []Interval `json:"intervals"`
	domainLo  float64
	domainHi  float64
}

// Contiguous reports whether the region is a single interval. Callers that
// need an interval-width reading must check this instead of assuming it.
func (r Region) Contiguous() bool { return len(r.Intervals) == 1 }

// Empty reports whether the region has no intervals.
func (r Region) Empty() bool { return len(r.Intervals) == 0 }

// Width is the outer span: distance from the lowest to the highest bound.
// This is the sharpness reading; disconnected regions are spanned, not
// summed. See Measure for the summed alternative.
func (r Region) Width() float64 {
	if r.Empty() {
		return 0
	}
	return r.Intervals[len(r.Intervals)-1].Hi - r.Intervals[0].Lo
}

// Measure is the summed length of the member intervals.
func (r Region) Measure() float64 {
	total := 0.0
	for _, iv := range r.Intervals {
		total += iv.Length()
	}
	return total
}

// Size is the measure normalized by domain length, in [0,1].
func (r Region) Size() float64 {
	if r.domainHi == r.domainLo {
		return 0
	}
	return r.Measure() / (r.domainHi - r.domainLo)
}

// Contains reports whether a scalar observation falls inside the region.
func (r Region) Contains(y float64) bool {
	for _, iv := range r.Intervals {
		if iv.Contains(y) {
			return true
		}
	}
	return false
}

// Distance is 0 when y is inside the region, otherwise the gap to the
// nearest interval boundary.
func (r Region) Distance(y float64) float64 {
	if r.Empty() {
		return math.Inf(1)
	}
	best := math.Inf(1)
	for _, iv := range r.Intervals {
		if iv.Contains(y) {
			return 0
		}
		d := math.Min(math.Abs(y-iv.Lo), math.Abs(y-iv.Hi))
		if d < best {
			best = d
		}
	}
	return best
}

// Cut extracts the region where the normalized shape is at least r.
// Crossing points are located by linear interpolation between samples, so
// the nested-set property Cut(r2) subset-of Cut(r1) for r1 < r2 holds
// exactly on the interpolated curve.
func (s CurveShape) Cut(r Level) (Region, error) {
	if err := r.Validate(); err != nil {
		return Region{}, err
	}
	lo, hi := s.curve.Domain()
	region := Region{domainLo: lo, domainHi: hi}
	pts := s.curve.Points
	level := float64(r)

	open := false
	var start float64
	for i, p := range pts {
		switch {
		case p.Poss >= level && !open:
			start = p.Value
			if i > 0 {
				// Interpolate the upward crossing inside the previous segment.
				a := pts[i-1]
				start = crossing(a, p, level)
			}
			open = true
		case p.Poss < level && open:
			a := pts[i-1]
			region.Intervals = append(region.Intervals, Interval{Lo: start, Hi: crossing(a, p, level)})
			open = false
		}
	}
	if open {
		region.Intervals = append(region.Intervals, Interval{Lo: start, Hi: pts[len(pts)-1].Value})
	}
	return region, nil
}

// crossing locates where the segment a->b meets the level. Exactly one of
// the endpoints is on each side when this is called.
func crossing(a, b Point, level float64) float64 {
	if a.Poss == b.Poss {
		return a.Value
	}
	t := (level - a.Poss) / (b.Poss - a.Poss)
	return a.Value + t*(b.Value-a.Value)
}

// CategorySet is a cut set of a categorical shape: ascending member
// ordinals over a K-category ordinal scale.
type CategorySet struct {
	Members []int      `json:"members"`
	Labels  []Category `json:"labels"`
	K       int        `json:"k"`
}

// Cut extracts the categories whose normalized membership is at least r.
func (s VectorShape) Cut(r Level) (CategorySet, error) {
	if err := r.Validate(); err != nil {
		return CategorySet{}, err
	}
	set := CategorySet{K: s.vec.K()}
	for i, x := range s.vec.Values {
		if x >= float64(r) {
			set.Members = append(set.Members, i)
			set.Labels = append(set.Labels, s.vec.Labels[i])
		}
	}
	return set, nil
}

// Contiguous reports whether the member ordinals form an unbroken run.
func (cs CategorySet) Contiguous() bool {
	for i := 1; i < len(cs.Members); i++ {
		if cs.Members[i] != cs.Members[i-1]+1 {
			return false
		}
	}
	return len(cs.Members) > 0
}

// Empty reports whether the set has no members.
func (cs CategorySet) Empty() bool { return len(cs.Members) == 0 }

// Count is the member cardinality.
func (cs CategorySet) Count() int { return len(cs.Members) }

// Width is the outer ordinal span normalized to [0,1]:
// (max_index - min_index) / (K-1). Disconnected sets span their gap; use
// Size for the count-based reading.
func (cs CategorySet) Width() float64 {
	if cs.Empty() || cs.K < 2 {
		return 0
	}
	return float64(cs.Members[len(cs.Members)-1]-cs.Members[0]) / float64(cs.K-1)
}

// Size is the member count normalized by K.
func (cs CategorySet) Size() float64 {
	if cs.K == 0 {
		return 0
	}
	return float64(cs.Count()) / float64(cs.K)
}

// ContainsIndex reports membership of the ordinal i.
func (cs CategorySet) ContainsIndex(i int) bool {
	for _, m := range cs.Members {
		if m == i {
			return true
		}
	}
	return false
}

// Contains reports membership of a crisp category label.
func (cs CategorySet) Contains(c Category) bool {
	for _, l := range cs.Labels {
		if l == c {
			return true
		}
	}
	return false
}

// Mass returns the summed soft-truth probability inside the set. The soft
// vector must be aligned with the shape's category ordering.
func (cs CategorySet) Mass(soft []float64) (float64, error) {
	if len(soft) != cs.K {
		return 0, core.ErrLengthMismatch
	}
	total := 0.0
	for _, m := range cs.Members {
		total += soft[m]
	}
	return total, nil
}

// Distance is 0 for a member ordinal, otherwise the ordinal gap to the
// nearest member normalized by K-1.
func (cs CategorySet) Distance(i int) float64 {
	if cs.Empty() {
		return math.Inf(1)
	}
	if cs.K < 2 {
		return 0
	}
	best := math.MaxInt
	for _, m := range cs.Members {
		d := m - i
		if d < 0 {
			d = -d
		}
		if d < best {
			best = d
		}
	}
	return float64(best) / float64(cs.K-1)
}

package verification

import (
	"fmt"

	"possver/domain/core"
	"possver/domain/possibility"
)

// ObservationKind discriminates the observation variants.
type ObservationKind string

const (
	ObsScalar   ObservationKind = "scalar"
	ObsCategory ObservationKind = "category"
	ObsSoft     ObservationKind = "soft"
)

// Observation is a verified outcome: a scalar value, a crisp category, or a
// soft-truth probability vector over the forecast's category ordering.
type Observation struct {
	Kind     ObservationKind       `json:"kind"`
	Value    float64               `json:"value,omitempty"`
	Category possibility.Category  `json:"category,omitempty"`
	Soft     []float64             `json:"soft,omitempty"`
}

// ScalarObservation wraps a measured value.
func ScalarObservation(v float64) Observation {
	return Observation{Kind: ObsScalar, Value: v}
}

// CategoryObservation wraps a crisp category label.
func CategoryObservation(c possibility.Category) Observation {
	return Observation{Kind: ObsCategory, Category: c}
}

// SoftObservation wraps a soft-truth vector. The masses must sum to 1
// within tolerance and align with the forecast's category ordering.
func SoftObservation(masses []float64) (Observation, error) {
	if len(masses) == 0 {
		return Observation{}, core.ErrEmptyInput
	}
	sum := 0.0
	for _, m := range masses {
		if m < 0 {
			return Observation{}, fmt.Errorf("negative soft-truth mass %g", m)
		}
		sum += m
	}
	if sum < 1-1e-9 || sum > 1+1e-9 {
		return Observation{}, fmt.Errorf("soft-truth masses sum to %g, want 1", sum)
	}
	return Observation{Kind: ObsSoft, Soft: masses}, nil
}

// ForecastCase pairs one forecast distribution with its verifying
// observation. Exactly one of Curve/Vector is set. Cases are immutable once
// built and carry no state beyond the verification run that scores them.
type ForecastCase struct {
	ID      core.CaseID          `json:"id"`
	Time    int                  `json:"time"`
	Member  int                  `json:"member"`  // -1 when not an ensemble member
	Cluster int                  `json:"cluster"` // -1 when unclustered
	Curve   *possibility.Curve   `json:"curve,omitempty"`
	Vector  *possibility.Vector  `json:"vector,omitempty"`
	Obs     Observation          `json:"observation"`
}

// NewCurveCase builds a continuous-forecast case.
func NewCurveCase(t int, c possibility.Curve, obs Observation) ForecastCase {
	return ForecastCase{ID: core.CaseID(core.NewID()), Time: t, Member: -1, Cluster: -1, Curve: &c, Obs: obs}
}

// NewVectorCase builds a categorical-forecast case.
func NewVectorCase(t int, v possibility.Vector, obs Observation) ForecastCase {
	return ForecastCase{ID: core.CaseID(core.NewID()), Time: t, Member: -1, Cluster: -1, Vector: &v, Obs: obs}
}

// WithMember tags the case with an ensemble member index.
func (fc ForecastCase) WithMember(member int) ForecastCase {
	fc.Member = member
	return fc
}

// WithCluster tags the case with a scenario cluster id.
func (fc ForecastCase) WithCluster(cluster int) ForecastCase {
	fc.Cluster = cluster
	return fc
}

// Validate checks the forecast/observation pairing.
func (fc ForecastCase) Validate() error {
	if (fc.Curve == nil) == (fc.Vector == nil) {
		return fmt.Errorf("%w: case %s needs exactly one of curve or vector", core.ErrShapeMismatch, fc.ID)
	}
	if fc.Curve != nil && fc.Obs.Kind != ObsScalar {
		return fmt.Errorf("%w: curve forecast with %s observation (case %s)", core.ErrShapeMismatch, fc.Obs.Kind, fc.ID)
	}
	if fc.Vector != nil && fc.Obs.Kind == ObsScalar {
		return fmt.Errorf("%w: categorical forecast with scalar observation (case %s)", core.ErrShapeMismatch, fc.ID)
	}
	if fc.Obs.Kind == ObsSoft && fc.Vector != nil && len(fc.Obs.Soft) != fc.Vector.K() {
		return fmt.Errorf("%w: soft truth has %d masses for %d categories (case %s)",
			core.ErrLengthMismatch, len(fc.Obs.Soft), fc.Vector.K(), fc.ID)
	}
	return nil
}

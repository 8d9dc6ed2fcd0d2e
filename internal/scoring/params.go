package scoring

import (
	"fmt"

	"possver/domain/core"
	"possver/domain/possibility"
)

// WidthMetric selects the sharpness reading for disconnected cut sets.
// Outer span and member count both have a defensible reading; neither is
// canonical, so the choice is configuration, not code.
type WidthMetric string

const (
	// WidthOuterSpan measures lowest-to-highest bound (default).
	WidthOuterSpan WidthMetric = "outer_span"
	// WidthMemberCount measures summed member size (curve measure, category count).
	WidthMemberCount WidthMetric = "member_count"
)

// Params configures the scoring functions. Kappa weights ignorance, Lambda
// weights nonspecificity/vagueness terms, Epsilon guards logarithms. There
// are no implicit defaults: a zero Params scores nothing but sharpness, and
// that is what the caller asked for.
type Params struct {
	Kappa       float64             `json:"kappa"`
	Lambda      float64             `json:"lambda"`
	Epsilon     float64             `json:"epsilon"`
	Levels      []possibility.Level `json:"levels"`
	WidthMetric WidthMetric         `json:"width_metric"`
}

// Validate rejects negative weights and out-of-range cut levels. A level
// at or below zero is a defined failure here, never a 1/r blow-up later.
func (p Params) Validate() error {
	if p.Kappa < 0 || p.Lambda < 0 || p.Epsilon < 0 {
		return fmt.Errorf("negative scoring weight: kappa=%g lambda=%g epsilon=%g", p.Kappa, p.Lambda, p.Epsilon)
	}
	for _, r := range p.Levels {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	switch p.WidthMetric {
	case "", WidthOuterSpan, WidthMemberCount:
	default:
		return fmt.Errorf("unknown width metric %q", p.WidthMetric)
	}
	return nil
}

// levelWeights returns weights proportional to r, normalized to sum 1.
func levelWeights(levels []possibility.Level) ([]float64, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: no cut levels configured", core.ErrEmptyInput)
	}
	sum := 0.0
	for _, r := range levels {
		sum += float64(r)
	}
	weights := make([]float64, len(levels))
	for i, r := range levels {
		weights[i] = float64(r) / sum
	}
	return weights, nil
}

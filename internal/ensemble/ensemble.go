// Package ensemble combines per-member case scores into member-level and
// scenario-level statistics. Medoid and within-cluster readings are both
// computed deliberately: the medoid matches what a forecast display shows,
// the within-cluster mean is the lower-variance estimator, and neither
// alone is "the" scenario score.
package ensemble

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"possver/domain/core"
)

// MemberScores maps an ensemble member index to its per-time score series.
type MemberScores map[int][]float64

// Cluster is a scenario grouping supplied by the external clustering step.
type Cluster struct {
	ID      int   `json:"id"`
	Members []int `json:"members"`
	Medoid  int   `json:"medoid"`
}

// Distribution summarizes the spread of scores across members.
type Distribution struct {
	Median      float64 `json:"median"`
	IQR         float64 `json:"iqr"`
	WorstDecile float64 `json:"worst_decile"`
}

// MemberMean is the grand mean score across all members and times.
func MemberMean(ms MemberScores) (float64, error) {
	flat, err := flatten(ms)
	if err != nil {
		return 0, err
	}
	return stats.Mean(flat)
}

// MemberDistribution summarizes the pooled member scores. Scores are
// lower-is-better, so the worst decile is the 90th percentile.
func MemberDistribution(ms MemberScores) (Distribution, error) {
	flat, err := flatten(ms)
	if err != nil {
		return Distribution{}, err
	}
	median, err := stats.Median(flat)
	if err != nil {
		return Distribution{}, err
	}
	iqr := 0.0
	if len(flat) >= 2 {
		iqr, err = stats.InterQuartileRange(flat)
		if err != nil {
			return Distribution{}, err
		}
	}
	worst := flat[0]
	if len(flat) >= 2 {
		worst, err = stats.Percentile(flat, 90)
		if err != nil {
			return Distribution{}, err
		}
	}
	return Distribution{Median: median, IQR: iqr, WorstDecile: worst}, nil
}

// MedoidScore is the mean over time of the designated medoid member's
// score: the score of the trajectory a display would actually show.
func MedoidScore(c Cluster, ms MemberScores) (float64, error) {
	series, ok := ms[c.Medoid]
	if !ok || len(series) == 0 {
		return 0, fmt.Errorf("%w: medoid member %d of cluster %d has no scores", core.ErrEmptyInput, c.Medoid, c.ID)
	}
	return stats.Mean(series)
}

// WithinClusterScore is the mean over time of the per-time mean across the
// cluster's members.
func WithinClusterScore(c Cluster, ms MemberScores) (float64, error) {
	if len(c.Members) == 0 {
		return 0, fmt.Errorf("%w: cluster %d has no members", core.ErrEmptyInput, c.ID)
	}
	var length int = -1
	for _, m := range c.Members {
		series, ok := ms[m]
		if !ok || len(series) == 0 {
			return 0, fmt.Errorf("%w: member %d of cluster %d has no scores", core.ErrEmptyInput, m, c.ID)
		}
		if length == -1 {
			length = len(series)
		} else if len(series) != length {
			return 0, fmt.Errorf("%w: member %d has %d scores, expected %d", core.ErrLengthMismatch, m, len(series), length)
		}
	}
	total := 0.0
	for t := 0; t < length; t++ {
		acrossMembers := 0.0
		for _, m := range c.Members {
			acrossMembers += ms[m][t]
		}
		total += acrossMembers / float64(len(c.Members))
	}
	return total / float64(length), nil
}

// ScenarioWeight is the cluster's member share of the ensemble.
func ScenarioWeight(c Cluster, totalMembers int) float64 {
	if totalMembers <= 0 {
		return 0
	}
	return float64(len(c.Members)) / float64(totalMembers)
}

func flatten(ms MemberScores) ([]float64, error) {
	if len(ms) == 0 {
		return nil, core.ErrEmptyInput
	}
	flat := make([]float64, 0, len(ms)*4)
	for member, series := range ms {
		if len(series) == 0 {
			return nil, fmt.Errorf("%w: member %d has no scores", core.ErrEmptyInput, member)
		}
		flat = append(flat, series...)
	}
	return flat, nil
}

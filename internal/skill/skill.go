// Package skill aggregates case scores into skill-versus-baseline numbers,
// tail-risk ranking diagnostics, and ignorance-versus-error curves.
package skill

import (
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/integrate"

	"possver/domain/core"
)

// Skill is the relative improvement of the model's mean score over the
// baseline's: 1 - mean(model)/mean(baseline). Lower scores are better, so
// positive skill means the model beats the baseline.
func Skill(model, baseline []float64) (float64, error) {
	if len(model) == 0 || len(baseline) == 0 {
		return 0, core.ErrEmptyInput
	}
	mm, err := stats.Mean(model)
	if err != nil {
		return 0, err
	}
	mb, err := stats.Mean(baseline)
	if err != nil {
		return 0, err
	}
	if mb == 0 {
		return 0, core.NewDegenerateBaselineError("baseline mean score is zero")
	}
	return 1 - mm/mb, nil
}

// AUC bundles the two ranking-skill areas.
type AUC struct {
	ROC float64 `json:"roc_auc"`
	PR  float64 `json:"pr_auc"`
}

// TailRiskAUC measures how well a per-case risk score ranks exceedance
// events. ROC area uses the rank-sum (Mann-Whitney) form with tied scores
// assigned their average rank. Single-class label vectors have no ranking
// to measure; they fail instead of reporting a spurious 0.5.
func TailRiskAUC(riskScores []float64, exceeded []bool) (AUC, error) {
	if len(riskScores) == 0 {
		return AUC{}, core.ErrEmptyInput
	}
	if len(riskScores) != len(exceeded) {
		return AUC{}, core.ErrLengthMismatch
	}
	nPos, nNeg := 0, 0
	for _, e := range exceeded {
		if e {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return AUC{}, core.NewDegenerateBaselineError("exceedance labels are single-class; ranking skill undefined")
	}

	ranks := averageRanks(riskScores)
	posRankSum := 0.0
	for i, e := range exceeded {
		if e {
			posRankSum += ranks[i]
		}
	}
	np, nn := float64(nPos), float64(nNeg)
	roc := (posRankSum - np*(np+1)/2) / (np * nn)

	return AUC{ROC: roc, PR: prArea(riskScores, exceeded, nPos)}, nil
}

// averageRanks assigns 1-based ranks with ties averaged across their group.
func averageRanks(data []float64) []float64 {
	n := len(data)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return data[idx[a]] < data[idx[b]] })

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i + 1
		for j < n && data[idx[j]] == data[idx[i]] {
			j++
		}
		avg := float64(i+1) + float64(j-i-1)/2.0
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		i = j
	}
	return ranks
}

// prArea sweeps thresholds from riskiest down, grouping tied scores, and
// integrates precision over recall.
func prArea(riskScores []float64, exceeded []bool, nPos int) float64 {
	idx := make([]int, len(riskScores))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return riskScores[idx[a]] > riskScores[idx[b]] })

	recalls := []float64{0}
	precisions := []float64{1}
	tp, fp := 0, 0
	i := 0
	for i < len(idx) {
		j := i + 1
		for j < len(idx) && riskScores[idx[j]] == riskScores[idx[i]] {
			j++
		}
		for k := i; k < j; k++ {
			if exceeded[idx[k]] {
				tp++
			} else {
				fp++
			}
		}
		recall := float64(tp) / float64(nPos)
		if recall > recalls[len(recalls)-1] {
			recalls = append(recalls, recall)
			precisions = append(precisions, float64(tp)/float64(tp+fp))
		}
		i = j
	}
	if len(recalls) < 2 {
		return 0
	}
	return integrate.Trapezoidal(recalls, precisions)
}

// AbstentionPoint is one entry of the ignorance-abstention trade-off curve.
type AbstentionPoint struct {
	Tau          float64 `json:"tau"`
	FractionKept float64 `json:"fraction_kept"`
	MeanScore    float64 `json:"mean_score"`
	Kept         int     `json:"kept"`
}

// AbstentionCurve recomputes the mean score over cases whose ignorance is
// at most tau, for each threshold. Thresholds retaining no cases are
// omitted from the curve instead of dividing by zero.
func AbstentionCurve(ignorance, caseScores, taus []float64) ([]AbstentionPoint, error) {
	if len(ignorance) == 0 || len(taus) == 0 {
		return nil, core.ErrEmptyInput
	}
	if len(ignorance) != len(caseScores) {
		return nil, core.ErrLengthMismatch
	}
	curve := make([]AbstentionPoint, 0, len(taus))
	for _, tau := range taus {
		kept := make([]float64, 0, len(caseScores))
		for i, ig := range ignorance {
			if ig <= tau {
				kept = append(kept, caseScores[i])
			}
		}
		if len(kept) == 0 {
			continue
		}
		mean, err := stats.Mean(kept)
		if err != nil {
			return nil, err
		}
		curve = append(curve, AbstentionPoint{
			Tau:          tau,
			FractionKept: float64(len(kept)) / float64(len(ignorance)),
			MeanScore:    mean,
			Kept:         len(kept),
		})
	}
	return curve, nil
}

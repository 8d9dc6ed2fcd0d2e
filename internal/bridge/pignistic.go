package bridge

import (
	"sort"

	"possver/domain/possibility"
)

// PignisticProbabilities converts a normalized categorical shape into a
// probability vector by spreading each consonant focal mass uniformly over
// its cut set.
//
// This transform injects an indifference assumption the possibility data
// does not carry. It is an opt-in comparison aid only and must never sit on
// the default scoring path; score possibility forecasts possibilistically
// and bridge probability forecasts into sets, not the reverse.
func PignisticProbabilities(shape possibility.VectorShape) []float64 {
	k := shape.K()
	values := make([]float64, k)
	order := make([]int, k)
	for i := 0; i < k; i++ {
		values[i] = shape.Value(i)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] > values[order[b]] })

	// With memberships ordered descending pi(1) >= ... >= pi(k), the mass
	// pi(j) - pi(j+1) belongs to the j largest categories equally.
	probs := make([]float64, k)
	for j := 0; j < k; j++ {
		next := 0.0
		if j+1 < k {
			next = values[order[j+1]]
		}
		slab := (values[order[j]] - next) / float64(j+1)
		for i := 0; i <= j; i++ {
			probs[order[i]] += slab
		}
	}
	return probs
}

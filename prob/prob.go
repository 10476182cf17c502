package prob

import (
	"math"
	"slices"
	"sort"

	"github.com/hupe1980/factorgo/internal/math64"
)

// Sum returns the sum of all weights.
func Sum(v []float64) float64 {
	return math64.Sum(v)
}

// Normalize scales v in place so its entries sum to 1.
// Returns false and leaves v untouched if the sum is zero, negative or not
// finite.
func Normalize(v []float64) bool {
	if len(v) == 0 {
		return false
	}
	s := math64.Sum(v)
	if s <= 0 || math.IsInf(s, 0) || math.IsNaN(s) {
		return false
	}
	math64.ScaleInPlace(v, 1/s)
	return true
}

// NormalizeCopy returns a normalized copy of v.
// Returns false if v cannot be normalized.
func NormalizeCopy(v []float64) ([]float64, bool) {
	dst := slices.Clone(v)
	if !Normalize(dst) {
		return nil, false
	}
	return dst, true
}

// ArgMax returns the index of the largest weight, the lowest index on ties,
// or -1 for an empty vector.
func ArgMax(v []float64) int {
	best := -1
	for i, x := range v {
		if best < 0 || x > v[best] {
			best = i
		}
	}
	return best
}

// Ranked is a state with its weight.
type Ranked struct {
	State int
	P     float64
}

// Rank returns all states ordered by descending weight, ties by state.
func Rank(v []float64) []Ranked {
	out := make([]Ranked, len(v))
	for i, x := range v {
		out[i] = Ranked{State: i, P: x}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].P > out[b].P
	})
	return out
}

// TopK returns the k highest ranked states whose weight is at least minP.
func TopK(v []float64, k int, minP float64) []Ranked {
	r := Rank(v)
	n := 0
	for _, x := range r {
		if n == k || x.P < minP {
			break
		}
		n++
	}
	return r[:n]
}

package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/factorgo/buffer"
	"github.com/hupe1980/factorgo/factor"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float64 in a loop).
func (r *RNG) FillUniform(dst []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float64()
	}
}

// Shape returns a random valid shape with 1..maxDims dimensions, each with a
// cardinality in 1..maxCard. IDs are distinct values drawn from 0..2*maxDims.
func (r *RNG) Shape(maxDims, maxCard int) factor.Shape {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 1 + r.rand.Intn(maxDims)
	perm := r.rand.Perm(2*maxDims + 1)
	s := factor.Shape{IDs: make([]int, n), Cards: make([]int, n)}
	for p := range n {
		s.IDs[p] = perm[p]
		s.Cards[p] = 1 + r.rand.Intn(maxCard)
	}
	return s
}

// SubShape returns a random subset of s's dimensions in shuffled order.
func (r *RNG) SubShape(s factor.Shape) factor.Shape {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := factor.Shape{IDs: []int{}, Cards: []int{}}
	for _, p := range r.rand.Perm(len(s.IDs)) {
		if r.rand.Intn(2) == 0 {
			continue
		}
		out.IDs = append(out.IDs, s.IDs[p])
		out.Cards = append(out.Cards, s.Cards[p])
	}
	return out
}

// DenseFactor returns a dense factor over shape with uniform weights in
// [0, 1); each weight is zero with probability zeroRate.
func (r *RNG) DenseFactor(shape factor.Shape, zeroRate float64) *factor.Dense {
	vals := make([]float64, shape.Size())
	r.mu.Lock()
	for i := range vals {
		if r.rand.Float64() < zeroRate {
			continue
		}
		vals[i] = r.rand.Float64()
	}
	r.mu.Unlock()

	f, err := factor.NewDenseFrom(shape, buffer.Wrap(vals))
	if err != nil {
		panic(err)
	}
	return f
}

// Evidence returns a random selection for every dimension of shape with
// probability rate.
func (r *RNG) Evidence(shape factor.Shape, rate float64) map[int]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	ev := make(map[int]int)
	for p, id := range shape.IDs {
		if r.rand.Float64() < rate {
			ev[id] = r.rand.Intn(shape.Cards[p])
		}
	}
	return ev
}

// Apply selects every entry of evidence on f. Unknown dimensions are skipped.
func Apply(f factor.Factor, evidence map[int]int) {
	for id, state := range evidence {
		_ = f.Select(id, state)
	}
}

// Decode returns the per-dimension states of flat index i in shape's layout.
func Decode(shape factor.Shape, i int) []int {
	states := make([]int, len(shape.Cards))
	for p := len(shape.Cards) - 1; p >= 0; p-- {
		states[p] = i % shape.Cards[p]
		i /= shape.Cards[p]
	}
	return states
}

// Encode is the inverse of Decode for the dimensions of shape, reading each
// state from assignment by dimension ID.
func Encode(shape factor.Shape, assignment map[int]int) int {
	i := 0
	for p, id := range shape.IDs {
		i = i*shape.Cards[p] + assignment[id]
	}
	return i
}

// assignment returns the dimension-ID keyed states of flat index i.
func assignment(shape factor.Shape, i int) map[int]int {
	states := Decode(shape, i)
	a := make(map[int]int, len(states))
	for p, id := range shape.IDs {
		a[id] = states[p]
	}
	return a
}

// consistent reports whether the assignment agrees with f's selections.
func consistent(f factor.Factor, a map[int]int) bool {
	for id, state := range a {
		sel, err := f.Selection(id)
		if err == nil && sel != factor.Free && sel != state {
			return false
		}
	}
	return true
}

// BruteMarginal sums f onto dimension keep (or the last dimension for
// factor.LastDimension) by decoding every flat index.
func BruteMarginal(f factor.Factor, keep int) []float64 {
	shape := f.Shape()
	if len(shape.IDs) == 0 {
		return []float64{f.Value(0)}
	}
	if keep == factor.LastDimension {
		keep = shape.IDs[len(shape.IDs)-1]
	}
	card, _ := shape.Card(keep)
	out := make([]float64, card)
	for i := range shape.Size() {
		a := assignment(shape, i)
		if !consistent(f, a) {
			continue
		}
		out[a[keep]] += f.Value(i)
	}
	return out
}

// BruteOnto sums f onto target by decoding every flat index.
func BruteOnto(f factor.Factor, target factor.Shape) []float64 {
	shape := f.Shape()
	out := make([]float64, target.Size())
	for i := range shape.Size() {
		a := assignment(shape, i)
		if !consistent(f, a) {
			continue
		}
		out[Encode(target, a)] += f.Value(i)
	}
	return out
}

// BruteProduct returns, in a's layout, a(x) * b(projection of x) for every x.
func BruteProduct(a, b factor.Factor) []float64 {
	as, bs := a.Shape(), b.Shape()
	out := make([]float64, as.Size())
	for i := range out {
		out[i] = a.Value(i) * b.Value(Encode(bs, assignment(as, i)))
	}
	return out
}

// Values returns every weight of f by flat index.
func Values(f factor.Factor) []float64 {
	out := make([]float64, f.Size())
	for i := range out {
		out[i] = f.Value(i)
	}
	return out
}

// InDeltaSlice reports whether a and b have equal length and every pair of
// elements differs by at most delta.
func InDeltaSlice(a, b []float64, delta float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > delta {
			return false
		}
	}
	return true
}

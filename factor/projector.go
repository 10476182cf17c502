package factor

// projector maps flat indices of a source layout onto the flat indices of a
// target layout whose dimensions are a subset of the source's.
type projector struct {
	cards   []int
	strides []int
	weights []int // target stride per source position, 0 if absent
}

func newProjector(src, dst Shape) (projector, error) {
	weights := make([]int, len(src.IDs))
	dstStrides := dst.Strides()
	for q, id := range dst.IDs {
		p := src.Position(id)
		if p < 0 {
			return projector{}, &UnknownDimensionError{ID: id}
		}
		if src.Cards[p] != dst.Cards[q] {
			return projector{}, &IncompatibleError{ID: id, Card: src.Cards[p], OtherCard: dst.Cards[q]}
		}
		weights[p] = dstStrides[q]
	}
	return projector{
		cards:   src.Cards,
		strides: src.Strides(),
		weights: weights,
	}, nil
}

// project returns the target index of source index i.
func (pr projector) project(i int) int {
	j := 0
	for p, w := range pr.weights {
		if w != 0 {
			j += ((i / pr.strides[p]) % pr.cards[p]) * w
		}
	}
	return j
}

// walk calls fn(i, j) for every source index i in increasing order, with j the
// projected target index.
func (pr projector) walk(fn func(i, j int)) {
	n := len(pr.cards)
	size := 1
	for _, c := range pr.cards {
		size *= c
	}

	counter := make([]int, n)
	j := 0
	for i := 0; i < size; i++ {
		fn(i, j)

		for p := n - 1; p >= 0; p-- {
			counter[p]++
			j += pr.weights[p]
			if counter[p] < pr.cards[p] {
				break
			}
			j -= counter[p] * pr.weights[p]
			counter[p] = 0
		}
	}
}

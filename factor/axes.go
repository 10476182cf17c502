package factor

import "slices"

// axes holds the declared dimensions of a factor together with its evidence.
// Dense and Sparse each embed one; value iteration stays with the
// representation.
type axes struct {
	ids      []int
	cards    []int
	idsSet   bool
	cardsSet bool

	strides []int
	sel     []int // Free or the fixed state, per position
	fixed   []int // positions with a fixed state
	size    int
}

func (a *axes) declared() bool {
	return a.idsSet && a.cardsSet
}

// setIDs declares dimension IDs. It reports whether the shape became (or
// stayed) fully declared.
func (a *axes) setIDs(ids []int) (bool, error) {
	if err := validateIDs(ids); err != nil {
		return false, err
	}
	if a.cardsSet && len(a.cards) != len(ids) {
		return false, &ShapeError{Op: "SetDimensionIDs", Reason: "dimension id/cardinality count mismatch", Expected: len(a.cards), Actual: len(ids)}
	}
	a.ids = cloneInts(ids)
	a.idsSet = true
	return a.finalize(), nil
}

func (a *axes) setCards(cards []int) (bool, error) {
	if err := validateCards(cards); err != nil {
		return false, err
	}
	if a.idsSet && len(a.ids) != len(cards) {
		return false, &ShapeError{Op: "SetDimensions", Reason: "dimension id/cardinality count mismatch", Expected: len(a.ids), Actual: len(cards)}
	}
	a.cards = cloneInts(cards)
	a.cardsSet = true
	return a.finalize(), nil
}

func (a *axes) finalize() bool {
	if !a.declared() {
		return false
	}
	a.strides = strides(a.cards)
	a.size = 1
	for _, c := range a.cards {
		a.size *= c
	}
	a.sel = make([]int, len(a.ids))
	for p := range a.sel {
		a.sel[p] = Free
	}
	a.fixed = a.fixed[:0]
	return true
}

func (a *axes) shape() Shape {
	return Shape{IDs: cloneInts(a.ids), Cards: cloneInts(a.cards)}
}

func (a *axes) position(id int) int {
	return slices.Index(a.ids, id)
}

func (a *axes) selectState(id, state int) error {
	if !a.declared() {
		return ErrNoShape
	}
	p := a.position(id)
	if p < 0 {
		return &UnknownDimensionError{ID: id}
	}
	if state != Free && (state < 0 || state >= a.cards[p]) {
		return &StateError{ID: id, State: state, Card: a.cards[p]}
	}
	a.sel[p] = state
	a.fixed = a.fixed[:0]
	for q, s := range a.sel {
		if s != Free {
			a.fixed = append(a.fixed, q)
		}
	}
	return nil
}

func (a *axes) selection(id int) (int, error) {
	if !a.declared() {
		return Free, ErrNoShape
	}
	p := a.position(id)
	if p < 0 {
		return Free, &UnknownDimensionError{ID: id}
	}
	return a.sel[p], nil
}

func (a *axes) clearSelections() {
	for p := range a.sel {
		a.sel[p] = Free
	}
	a.fixed = a.fixed[:0]
}

func (a *axes) copySelections(from *axes) {
	copy(a.sel, from.sel)
	a.fixed = append(a.fixed[:0], from.fixed...)
}

// selectedSize is the number of flat indices consistent with the selections.
func (a *axes) selectedSize() int {
	n := 1
	for p, c := range a.cards {
		if a.sel[p] == Free {
			n *= c
		}
	}
	return n
}

// state returns the state of the dimension at position p encoded in flat index i.
func (a *axes) state(i, p int) int {
	return (i / a.strides[p]) % a.cards[p]
}

// consistent reports whether flat index i agrees with every fixed dimension.
func (a *axes) consistent(i int) bool {
	for _, p := range a.fixed {
		if a.state(i, p) != a.sel[p] {
			return false
		}
	}
	return true
}

// keepPosition resolves the kept dimension of a marginalization.
func (a *axes) keepPosition(keep int) (int, error) {
	if keep == LastDimension {
		return len(a.ids) - 1, nil
	}
	p := a.position(keep)
	if p < 0 {
		return -1, &UnknownDimensionError{ID: keep}
	}
	return p, nil
}

// each calls fn with every flat index consistent with the selections, in
// increasing order.
func (a *axes) each(fn func(i int)) {
	base := 0
	free := make([]int, 0, len(a.sel))
	for p, s := range a.sel {
		if s == Free {
			free = append(free, p)
		} else {
			base += s * a.strides[p]
		}
	}
	if len(free) == 0 {
		fn(base)
		return
	}

	counter := make([]int, len(free))
	idx := base
	for {
		fn(idx)

		k := len(free) - 1
		for ; k >= 0; k-- {
			p := free[k]
			counter[k]++
			idx += a.strides[p]
			if counter[k] < a.cards[p] {
				break
			}
			idx -= counter[k] * a.strides[p]
			counter[k] = 0
		}
		if k < 0 {
			return
		}
	}
}

func cloneInts(v []int) []int {
	out := make([]int, len(v))
	copy(out, v)
	return out
}

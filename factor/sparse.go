package factor

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/factorgo/buffer"
)

// Sparse is a factor that retains only its non-zero entries. Use FromFactor
// to create one. The retained flat indices live in a roaring bitmap and their
// weights in a buffer ordered by index. The index set is fixed at construction; weights can be refreshed.
// Every operation yields the same result as the dense source would.
type Sparse struct {
	axes
	index  *roaring.Bitmap
	values buffer.Buffer
}

var _ Factor = (*Sparse)(nil)

// FromFactor compresses f into a sparse factor, copying its shape and
// selections.
func FromFactor(f Factor) (*Sparse, error) {
	if err := requireDeclared(f); err != nil {
		return nil, err
	}
	shape := f.Shape()
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	size := shape.Size()
	if uint64(size) > math.MaxUint32 {
		return nil, &ShapeError{Op: "FromFactor", Reason: "table too large for a sparse index"}
	}

	s := &Sparse{index: roaring.New()}
	if _, err := s.setIDs(shape.IDs); err != nil {
		return nil, err
	}
	if _, err := s.setCards(shape.Cards); err != nil {
		return nil, err
	}
	for p, id := range shape.IDs {
		if state, err := f.Selection(id); err == nil && state != Free {
			s.sel[p] = state
			s.fixed = append(s.fixed, p)
		}
	}

	var kept []float64
	for i := range size {
		if v := f.Value(i); v != 0 {
			s.index.Add(uint32(i))
			kept = append(kept, v)
		}
	}
	s.index.RunOptimize()

	s.values = buffer.Like(f.Values(), len(kept))
	s.values.CopyFrom(kept)
	return s, nil
}

// NNZ returns the number of retained entries.
func (s *Sparse) NNZ() int {
	if s.values == nil {
		return 0
	}
	return s.values.Len()
}

// Density returns the fraction of the full table that is retained.
func (s *Sparse) Density() float64 {
	return float64(s.NNZ()) / float64(s.size)
}

// SetDimensionIDs implements Factor. A sparse factor may be re-keyed but not
// reshaped, so the number of IDs must stay the same.
func (s *Sparse) SetDimensionIDs(ids ...int) error {
	if len(ids) != len(s.ids) {
		return &ShapeError{Op: "SetDimensionIDs", Reason: "sparse factor shape is fixed", Expected: len(s.ids), Actual: len(ids)}
	}
	_, err := s.setIDs(ids)
	return err
}

// SetDimensions implements Factor. The cardinalities must equal the current ones.
func (s *Sparse) SetDimensions(cards ...int) error {
	if len(cards) != len(s.cards) {
		return &ShapeError{Op: "SetDimensions", Reason: "sparse factor shape is fixed", Expected: len(s.cards), Actual: len(cards)}
	}
	for p, c := range cards {
		if c != s.cards[p] {
			return &ShapeError{Op: "SetDimensions", Reason: "sparse factor shape is fixed", Expected: s.cards[p], Actual: c}
		}
	}
	return nil
}

// SetValues implements Factor. The buffer holds one weight per retained
// entry, in increasing flat-index order.
func (s *Sparse) SetValues(b buffer.Buffer) error {
	if b.Len() != s.NNZ() {
		return &ShapeError{Op: "SetValues", Reason: "buffer length does not match retained entries", Expected: s.NNZ(), Actual: b.Len()}
	}
	s.values = b
	return nil
}

// Shape implements Factor.
func (s *Sparse) Shape() Shape { return s.shape() }

// DimensionIDs implements Factor.
func (s *Sparse) DimensionIDs() []int { return cloneInts(s.ids) }

// Dimensions implements Factor.
func (s *Sparse) Dimensions() []int { return cloneInts(s.cards) }

// Size implements Factor.
func (s *Sparse) Size() int { return s.size }

// Select implements Factor.
func (s *Sparse) Select(id, state int) error { return s.selectState(id, state) }

// Selection implements Factor.
func (s *Sparse) Selection(id int) (int, error) { return s.selection(id) }

// ClearSelections implements Factor.
func (s *Sparse) ClearSelections() { s.clearSelections() }

// entries calls fn for every retained entry consistent with the selections.
func (s *Sparse) entries(fn func(i int, v float64)) {
	it := s.index.Iterator()
	k := 0
	for it.HasNext() {
		i := int(it.Next())
		v := s.values.At(k)
		k++
		if len(s.fixed) > 0 && !s.consistent(i) {
			continue
		}
		fn(i, v)
	}
}

// MarginalizeAllBut implements Factor.
func (s *Sparse) MarginalizeAllBut(keep int) ([]float64, error) {
	if len(s.ids) == 0 {
		if keep != LastDimension {
			return nil, &UnknownDimensionError{ID: keep}
		}
		return []float64{s.Value(0)}, nil
	}
	p, err := s.keepPosition(keep)
	if err != nil {
		return nil, err
	}

	out := make([]float64, s.cards[p])
	s.entries(func(i int, v float64) {
		out[s.state(i, p)] += v
	})
	return out, nil
}

// MarginalizeOnto implements Factor.
func (s *Sparse) MarginalizeOnto(target Shape) ([]float64, error) {
	pr, err := newProjector(s.shape(), target)
	if err != nil {
		return nil, err
	}
	out := make([]float64, target.Size())
	s.entries(func(i int, v float64) {
		out[pr.project(i)] += v
	})
	return out, nil
}

// MultiplyCompatible implements Factor. Only retained entries are visited;
// the others stay zero.
func (s *Sparse) MultiplyCompatible(other Factor) error {
	if err := requireDeclared(other); err != nil {
		return err
	}
	pr, err := newProjector(s.shape(), other.Shape())
	if err != nil {
		return compatErr(err)
	}
	it := s.index.Iterator()
	k := 0
	for it.HasNext() {
		i := int(it.Next())
		s.values.Set(k, s.values.At(k)*other.Value(pr.project(i)))
		k++
	}
	return nil
}

// Fill implements Factor. Only retained entries are addressable.
func (s *Sparse) Fill(v float64) {
	s.values.Fill(v)
}

// CopyValues implements Factor. A non-zero weight aimed at a slot outside the
// retained index set fails with ErrSparseIndexSet and leaves s unchanged.
func (s *Sparse) CopyValues(src []float64) error {
	n := s.selectedSize()
	if len(src) != n {
		return &ShapeError{Op: "CopyValues", Reason: "source length does not match selected size", Expected: n, Actual: len(src)}
	}

	k := 0
	var bad bool
	s.each(func(i int) {
		if src[k] != 0 && !s.index.Contains(uint32(i)) {
			bad = true
		}
		k++
	})
	if bad {
		return ErrSparseIndexSet
	}

	k = 0
	s.each(func(i int) {
		if s.index.Contains(uint32(i)) {
			s.values.Set(s.rank(i), src[k])
		}
		k++
	})
	return nil
}

// rank returns the buffer slot of retained flat index i.
func (s *Sparse) rank(i int) int {
	return int(s.index.Rank(uint32(i))) - 1
}

// Value implements Factor.
func (s *Sparse) Value(i int) float64 {
	if i < 0 || i >= s.size {
		panic("factor: sparse index out of range")
	}
	if !s.index.Contains(uint32(i)) {
		return 0
	}
	return s.values.At(s.rank(i))
}

// Values implements Factor. The buffer holds the retained weights only.
func (s *Sparse) Values() buffer.Buffer { return s.values }

// PrepareMultiplication implements Factor.
func (s *Sparse) PrepareMultiplication(other Factor) (*Plan, error) {
	if err := requireDeclared(other); err != nil {
		return nil, err
	}
	return NewPlan(s.Shape(), other.Shape())
}

// SumPrepared implements Factor.
func (s *Sparse) SumPrepared(dst []float64, p *Plan) error {
	if err := p.check(s.ids, s.cards, dst); err != nil {
		return err
	}
	s.entries(func(i int, v float64) {
		dst[p.targets[i]] += v
	})
	return nil
}

// ToDense expands s into a dense factor with the same selections.
func (s *Sparse) ToDense() *Dense {
	d := &Dense{}
	d.ids, d.cards = cloneInts(s.ids), cloneInts(s.cards)
	d.idsSet, d.cardsSet = true, true
	d.finalize()
	d.copySelections(&s.axes)
	d.values = buffer.Like(s.values, s.size)

	it := s.index.Iterator()
	k := 0
	for it.HasNext() {
		d.values.Set(int(it.Next()), s.values.At(k))
		k++
	}
	return d
}

// Clone returns a deep copy of s including its selections.
func (s *Sparse) Clone() *Sparse {
	c := &Sparse{index: s.index.Clone()}
	c.ids, c.cards = cloneInts(s.ids), cloneInts(s.cards)
	c.idsSet, c.cardsSet = true, true
	c.finalize()
	c.copySelections(&s.axes)
	c.values = buffer.Clone(s.values)
	return c
}

package factor

import (
	"fmt"

	"github.com/hupe1980/factorgo/buffer"
)

// Dense is a fully materialized factor: its buffer holds one weight per
// element of the Cartesian product of its dimensions.
type Dense struct {
	axes
	values buffer.Buffer
}

var _ Factor = (*Dense)(nil)

// NewDense creates a zero-filled dense factor over the given dimensions.
func NewDense(ids, cards []int) (*Dense, error) {
	d := &Dense{}
	if err := d.SetDimensionIDs(ids...); err != nil {
		return nil, err
	}
	if err := d.SetDimensions(cards...); err != nil {
		return nil, err
	}
	return d, nil
}

// NewDenseFrom creates a dense factor over shape with the given values.
func NewDenseFrom(shape Shape, values buffer.Buffer) (*Dense, error) {
	d, err := NewDense(shape.IDs, shape.Cards)
	if err != nil {
		return nil, err
	}
	if err := d.SetValues(values); err != nil {
		return nil, err
	}
	return d, nil
}

// SetDimensionIDs implements Factor.
func (d *Dense) SetDimensionIDs(ids ...int) error {
	ok, err := d.setIDs(ids)
	if err != nil {
		return err
	}
	if ok {
		d.resize()
	}
	return nil
}

// SetDimensions implements Factor.
func (d *Dense) SetDimensions(cards ...int) error {
	ok, err := d.setCards(cards)
	if err != nil {
		return err
	}
	if ok {
		d.resize()
	}
	return nil
}

// resize keeps a zeroed buffer of the declared size available so Fill and
// CopyValues work without an explicit SetValues.
func (d *Dense) resize() {
	if d.values == nil || d.values.Len() != d.size {
		if d.values == nil {
			d.values = buffer.New(d.size)
			return
		}
		d.values = buffer.Like(d.values, d.size)
	}
}

// SetValues implements Factor. The buffer length must equal Size.
func (d *Dense) SetValues(b buffer.Buffer) error {
	if !d.declared() {
		return ErrNoShape
	}
	if b.Len() != d.size {
		return &ShapeError{Op: "SetValues", Reason: "buffer length does not match dimensions", Expected: d.size, Actual: b.Len()}
	}
	d.values = b
	return nil
}

// Shape implements Factor.
func (d *Dense) Shape() Shape { return d.shape() }

// DimensionIDs implements Factor.
func (d *Dense) DimensionIDs() []int { return cloneInts(d.ids) }

// Dimensions implements Factor.
func (d *Dense) Dimensions() []int { return cloneInts(d.cards) }

// Size implements Factor.
func (d *Dense) Size() int { return d.size }

// Select implements Factor.
func (d *Dense) Select(id, state int) error { return d.selectState(id, state) }

// Selection implements Factor.
func (d *Dense) Selection(id int) (int, error) { return d.selection(id) }

// ClearSelections implements Factor.
func (d *Dense) ClearSelections() { d.clearSelections() }

// MarginalizeAllBut implements Factor. A zero-dimensional factor returns its
// scalar as a vector of length one.
func (d *Dense) MarginalizeAllBut(keep int) ([]float64, error) {
	if !d.declared() {
		return nil, ErrNoShape
	}
	if len(d.ids) == 0 {
		if keep != LastDimension {
			return nil, &UnknownDimensionError{ID: keep}
		}
		return []float64{d.values.At(0)}, nil
	}
	p, err := d.keepPosition(keep)
	if err != nil {
		return nil, err
	}

	out := make([]float64, d.cards[p])
	stride, card := d.strides[p], d.cards[p]

	if len(d.fixed) == 0 {
		if f, ok := d.values.(buffer.Float64); ok {
			for i, v := range f {
				out[(i/stride)%card] += v
			}
			return out, nil
		}
		for i := range d.size {
			out[(i/stride)%card] += d.values.At(i)
		}
		return out, nil
	}

	d.each(func(i int) {
		out[(i/stride)%card] += d.values.At(i)
	})
	return out, nil
}

// MarginalizeOnto implements Factor.
func (d *Dense) MarginalizeOnto(target Shape) ([]float64, error) {
	if !d.declared() {
		return nil, ErrNoShape
	}
	pr, err := newProjector(d.shape(), target)
	if err != nil {
		return nil, err
	}

	out := make([]float64, target.Size())
	if len(d.fixed) == 0 {
		pr.walk(func(i, j int) {
			out[j] += d.values.At(i)
		})
		return out, nil
	}
	d.each(func(i int) {
		out[pr.project(i)] += d.values.At(i)
	})
	return out, nil
}

// MultiplyCompatible implements Factor. Every dimension of other must be
// declared by d with the same cardinality.
func (d *Dense) MultiplyCompatible(other Factor) error {
	if !d.declared() {
		return ErrNoShape
	}
	if err := requireDeclared(other); err != nil {
		return err
	}
	pr, err := newProjector(d.shape(), other.Shape())
	if err != nil {
		return compatErr(err)
	}

	if f, ok := d.values.(buffer.Float64); ok {
		pr.walk(func(i, j int) {
			f[i] *= other.Value(j)
		})
		return nil
	}
	pr.walk(func(i, j int) {
		d.values.Set(i, d.values.At(i)*other.Value(j))
	})
	return nil
}

// Fill implements Factor.
func (d *Dense) Fill(v float64) {
	if d.values != nil {
		d.values.Fill(v)
	}
}

// CopyValues implements Factor.
func (d *Dense) CopyValues(src []float64) error {
	if !d.declared() {
		return ErrNoShape
	}
	n := d.selectedSize()
	if len(src) != n {
		return &ShapeError{Op: "CopyValues", Reason: "source length does not match selected size", Expected: n, Actual: len(src)}
	}
	if len(d.fixed) == 0 {
		d.values.CopyFrom(src)
		return nil
	}
	k := 0
	d.each(func(i int) {
		d.values.Set(i, src[k])
		k++
	})
	return nil
}

// Value implements Factor.
func (d *Dense) Value(i int) float64 { return d.values.At(i) }

// Values implements Factor.
func (d *Dense) Values() buffer.Buffer { return d.values }

// PrepareMultiplication implements Factor.
func (d *Dense) PrepareMultiplication(other Factor) (*Plan, error) {
	if !d.declared() {
		return nil, ErrNoShape
	}
	if err := requireDeclared(other); err != nil {
		return nil, err
	}
	return NewPlan(d.Shape(), other.Shape())
}

// SumPrepared implements Factor.
func (d *Dense) SumPrepared(dst []float64, p *Plan) error {
	if err := p.check(d.ids, d.cards, dst); err != nil {
		return err
	}
	if len(d.fixed) == 0 {
		p.Apply(dst, d.values)
		return nil
	}
	d.each(func(i int) {
		dst[p.targets[i]] += d.values.At(i)
	})
	return nil
}

// Clone returns a deep copy of d including its selections.
func (d *Dense) Clone() *Dense {
	c := &Dense{}
	c.ids, c.cards = cloneInts(d.ids), cloneInts(d.cards)
	c.idsSet, c.cardsSet = d.idsSet, d.cardsSet
	if c.finalize() {
		c.copySelections(&d.axes)
	}
	if d.values != nil {
		c.values = buffer.Clone(d.values)
	}
	return c
}

func compatErr(err error) error {
	if _, ok := err.(*IncompatibleError); ok {
		return err
	}
	return fmt.Errorf("%w: %w", ErrIncompatible, err)
}

package factor

import "github.com/hupe1980/factorgo/buffer"

const (
	// Free marks a dimension without evidence: all of its states contribute.
	Free = -1

	// LastDimension keeps the last declared dimension in MarginalizeAllBut.
	LastDimension = -1
)

// Factor is a tabular function from per-dimension states to non-negative
// weights. Dimensions must be declared before values or selections are used.
// No operation normalizes; callers normalize the final marginal explicitly.
type Factor interface {
	// SetDimensionIDs declares the dimension IDs in axis order.
	SetDimensionIDs(ids ...int) error
	// SetDimensions declares the cardinality of every dimension.
	SetDimensions(cards ...int) error
	// SetValues installs the value buffer.
	SetValues(b buffer.Buffer) error

	// Shape returns a copy of the declared dimensions.
	Shape() Shape
	// DimensionIDs returns the dimension IDs in axis order.
	DimensionIDs() []int
	// Dimensions returns the cardinalities in axis order.
	Dimensions() []int
	// Size returns the number of elements of the full Cartesian product.
	Size() int

	// Select fixes dimension id to state, or frees it when state is Free.
	Select(id, state int) error
	// Selection returns the selected state of id, or Free.
	Selection(id int) (int, error)
	// ClearSelections frees every dimension.
	ClearSelections()

	// MarginalizeAllBut sums out every dimension except keep, restricted to
	// the active selections. LastDimension keeps the last declared dimension.
	MarginalizeAllBut(keep int) ([]float64, error)
	// MarginalizeOnto sums the factor onto target, whose dimensions must be a
	// subset of this factor's, restricted to the active selections.
	MarginalizeOnto(target Shape) ([]float64, error)
	// MultiplyCompatible multiplies this factor in place by other,
	// broadcasting other over the dimensions it lacks.
	MultiplyCompatible(other Factor) error

	// Fill sets every addressable weight to v.
	Fill(v float64)
	// CopyValues writes src, laid out row-major over the free dimensions, into
	// the slots consistent with the active selections.
	CopyValues(src []float64) error
	// Value returns the weight at flat index i. It panics if i is out of range.
	Value(i int) float64
	// Values returns the backing buffer.
	Values() buffer.Buffer

	// PrepareMultiplication builds the plan mapping this factor's index space
	// onto other's.
	PrepareMultiplication(other Factor) (*Plan, error)
	// SumPrepared adds this factor's selected weights into dst following p.
	SumPrepared(dst []float64, p *Plan) error
}

// requireDeclared reports ErrNoShape for factors of this package whose
// dimensions are incomplete.
func requireDeclared(f Factor) error {
	if d, ok := f.(interface{ declared() bool }); ok && !d.declared() {
		return ErrNoShape
	}
	return nil
}

// Package factor implements tabular factors for exact inference over discrete
// Bayesian networks.
//
// A factor is a non-negative function from an assignment of states to a set of
// dimensions (discrete random variables). Dimensions are identified by integer
// IDs that align axes across factors; a factor's own declared order only fixes
// its flat layout, which is row-major with the last dimension fastest.
//
// # Representations
//
//   - Dense: one weight per element of the Cartesian product.
//   - Sparse: built from any factor with FromFactor, retains only non-zero
//     entries. Results are identical to the dense source.
//
// # Operations
//
//	f, _ := factor.NewDense([]int{0, 1}, []int{2, 2})
//	_ = f.SetValues(buffer.Wrap([]float64{0.5, 0.5, 1.0, 0.0}))
//	_ = f.Select(0, 1)                          // evidence: dimension 0 is in state 1
//	m, _ := f.MarginalizeAllBut(factor.LastDimension)
//
// MultiplyCompatible multiplies in place, broadcasting the other factor over
// dimensions it lacks. Product builds the general union-shaped product.
//
// # Prepared Marginalization
//
// A Plan maps every flat index of a source shape onto a target shape whose
// dimensions are a subset. Plans depend only on shapes, are immutable, and can
// be shared across goroutines and replayed against many buffers:
//
//	p, _ := f.PrepareMultiplication(g)
//	dst := make([]float64, g.Size())
//	_ = f.SumPrepared(dst, p)
//
// Factors are not safe for concurrent use.
package factor

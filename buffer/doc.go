// Package buffer provides the flat value storage behind factors.
//
// A Buffer is an indexable, mutable sequence of non-negative weights. Dense
// factors hold one weight per element of their Cartesian product, sparse
// factors one weight per retained entry; both go through the same interface.
//
// # Implementations
//
//   - Float64: a []float64 backed buffer. Wrap shares the caller's slice.
//   - Float32: a []float32 backed buffer for large, memory-constrained models.
//
// # Usage
//
//	b := buffer.Wrap([]float64{0.5, 0.5, 1.0, 0.0})
//	b.Set(3, 0.25)
//	sum := buffer.Sum(b)
package buffer

package buffer

import (
	"slices"

	"github.com/hupe1980/factorgo/internal/math64"
)

// Buffer is a flat, mutable, indexable sequence of weights.
// Buffers are not safe for concurrent mutation.
type Buffer interface {
	// Len returns the number of addressable weights.
	Len() int
	// At returns the weight at index i.
	At(i int) float64
	// Set stores v at index i.
	Set(i int, v float64)
	// Add adds v to the weight at index i.
	Add(i int, v float64)
	// Fill sets every weight to v.
	Fill(v float64)
	// CopyFrom copies min(Len(), len(src)) weights from src and returns the count.
	CopyFrom(src []float64) int
	// Float64s returns a freshly allocated copy of all weights.
	Float64s() []float64
}

// Float64 is a Buffer backed by a float64 slice.
type Float64 []float64

// New allocates a zeroed Float64 buffer of length n.
func New(n int) Float64 {
	return make(Float64, n)
}

// Wrap returns a Float64 buffer sharing the given slice.
func Wrap(v []float64) Float64 {
	return Float64(v)
}

// Len implements Buffer.
func (b Float64) Len() int { return len(b) }

// At implements Buffer.
func (b Float64) At(i int) float64 { return b[i] }

// Set implements Buffer.
func (b Float64) Set(i int, v float64) { b[i] = v }

// Add implements Buffer.
func (b Float64) Add(i int, v float64) { b[i] += v }

// Fill implements Buffer.
func (b Float64) Fill(v float64) { math64.Fill(b, v) }

// CopyFrom implements Buffer.
func (b Float64) CopyFrom(src []float64) int { return copy(b, src) }

// Float64s implements Buffer.
func (b Float64) Float64s() []float64 { return slices.Clone([]float64(b)) }

// Float32 is a Buffer backed by a float32 slice. Weights are rounded to
// float32 precision on write.
type Float32 []float32

// NewFloat32 allocates a zeroed Float32 buffer of length n.
func NewFloat32(n int) Float32 {
	return make(Float32, n)
}

// Len implements Buffer.
func (b Float32) Len() int { return len(b) }

// At implements Buffer.
func (b Float32) At(i int) float64 { return float64(b[i]) }

// Set implements Buffer.
func (b Float32) Set(i int, v float64) { b[i] = float32(v) }

// Add implements Buffer.
func (b Float32) Add(i int, v float64) { b[i] += float32(v) }

// Fill implements Buffer.
func (b Float32) Fill(v float64) {
	f := float32(v)
	for i := range b {
		b[i] = f
	}
}

// CopyFrom implements Buffer.
func (b Float32) CopyFrom(src []float64) int {
	n := min(len(b), len(src))
	for i := range n {
		b[i] = float32(src[i])
	}
	return n
}

// Float64s implements Buffer.
func (b Float32) Float64s() []float64 {
	out := make([]float64, len(b))
	for i, v := range b {
		out[i] = float64(v)
	}
	return out
}

// Sum returns the sum of all weights in b.
func Sum(b Buffer) float64 {
	if f, ok := b.(Float64); ok {
		return math64.Sum(f)
	}
	var s float64
	for i := range b.Len() {
		s += b.At(i)
	}
	return s
}

// Clone returns an independent copy of b with the same concrete type.
func Clone(b Buffer) Buffer {
	switch v := b.(type) {
	case Float64:
		return slices.Clone(v)
	case Float32:
		return slices.Clone(v)
	default:
		return Float64(b.Float64s())
	}
}

// Like allocates a zeroed buffer of length n with the same element type as b.
func Like(b Buffer, n int) Buffer {
	if _, ok := b.(Float32); ok {
		return NewFloat32(n)
	}
	return New(n)
}

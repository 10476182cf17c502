// Package math64 provides float64 vector kernels used by factor buffers and
// normalization. This is an internal package - external users should use the
// buffer and prob packages.
package math64

// Sum returns the sum of all elements of a.
func Sum(a []float64) float64 {
	return sum(a)
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float64, scalar float64) {
	scaleInPlace(a, scalar)
}

// MulInPlace multiplies a element-wise by b.
// Assumes len(b) >= len(a) (caller's responsibility).
func MulInPlace(a, b []float64) {
	mulInPlace(a, b)
}

// Fill sets every element of a to v.
func Fill(a []float64, v float64) {
	for i := range a {
		a[i] = v
	}
}

// Dot calculates the dot product of two vectors.
func Dot(a, b []float64) float64 {
	var ret float64
	for i := range a {
		ret += a[i] * b[i]
	}

	return ret
}

// sum uses four independent accumulators so long tables do not serialize on
// a single add chain.
func sum(a []float64) float64 {
	var s0, s1, s2, s3 float64

	n := len(a) &^ 3
	for i := 0; i < n; i += 4 {
		s0 += a[i]
		s1 += a[i+1]
		s2 += a[i+2]
		s3 += a[i+3]
	}

	for i := n; i < len(a); i++ {
		s0 += a[i]
	}

	return (s0 + s1) + (s2 + s3)
}

func scaleInPlace(a []float64, scalar float64) {
	for i := range a {
		a[i] *= scalar
	}
}

func mulInPlace(a, b []float64) {
	b = b[:len(a)]
	for i := range a {
		a[i] *= b[i]
	}
}

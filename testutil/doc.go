// Package testutil provides testing utilities for factorgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random shapes, factors and evidence,
// and brute-force reference computations that decode every flat index
// independently of the factor package's stride arithmetic.
//
// # Random Factors
//
//	rng := testutil.NewRNG(seed)
//	shape := rng.Shape(3, 4)           // up to 3 dimensions, cardinality <= 4
//	f := rng.DenseFactor(shape, 0.5)   // about half the weights zero
//
// # Reference Results
//
//	want := testutil.BruteMarginal(f, keepID)
package testutil

// Package prob provides normalization and aggregation helpers for marginals.
//
// Factor operations never normalize. After the final marginalization a
// caller turns the weight vector into a distribution:
//
//	m, _ := f.MarginalizeAllBut(queryID)
//	if !prob.Normalize(m) {
//	    // all-zero marginal: no recommendation
//	}
//	for _, r := range prob.Rank(m) {
//	    fmt.Println(r.State, r.P)
//	}
//
// Normalize never divides by zero: a vector whose sum is zero, negative or
// not finite is left untouched and reported with false.
package prob

// Package factorgo provides exact posterior inference over discrete Bayesian
// networks, fast enough to rank completion proposals at every keystroke.
//
// The numeric core lives in package factor: dense and sparse tabular factors
// with evidence selection, marginalization, broadcasting multiplication and
// reusable multiplication plans. Package network runs variable elimination
// over a set of factors. This package wraps both in a concurrency-safe Engine
// with a shared plan cache, a pool of network instances, structured logging
// and metrics.
//
// # Quick Start
//
//	def, _ := network.Load("model.yaml")
//	e, _ := factorgo.New(def, factorgo.WithPoolSize(4))
//	defer e.Close()
//
//	// P(query | evidence)
//	posterior, _ := e.Query(ctx, map[int]int{2: 1}, 0)
//
//	// Top three states with at least 5% probability.
//	recs, _ := e.Recommend(ctx, map[int]int{2: 1}, 0, 3, 0.05)
//
// # Evidence
//
// Evidence maps a variable id to its observed state index. factor.Free
// leaves a variable unobserved. Evidence with zero probability yields
// ErrNoRecommendation rather than a non-finite posterior.
//
// # Resource Limits
//
// A resource.Controller bounds plan cache memory, query concurrency and the
// query admission rate. One controller may be shared by several engines.
package factorgo

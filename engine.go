package factorgo

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/factorgo/cache"
	"github.com/hupe1980/factorgo/network"
	"github.com/hupe1980/factorgo/pool"
	"github.com/hupe1980/factorgo/prob"
	"github.com/hupe1980/factorgo/resource"
)

// Engine answers posterior queries against one network definition. It is
// safe for concurrent use: every query borrows its own network instance,
// and all instances share one plan cache.
type Engine struct {
	def     network.Definition
	plans   *cache.PlanCache
	pool    *pool.Pool[*network.Network]
	rc      *resource.Controller
	metrics MetricsCollector
	logger  *Logger
	closed  atomic.Bool
}

// Request is one query of a batch.
type Request struct {
	Evidence map[int]int
	Query    int
}

// Result is the outcome of one Request.
type Result struct {
	Posterior []float64
	Err       error
}

// Recommendation is a ranked state of the queried variable.
type Recommendation struct {
	State       int
	Name        string
	Probability float64
}

// Stats is a snapshot of engine statistics.
type Stats struct {
	Plans cache.Stats
	Pool  pool.Stats
}

// New validates def and creates an engine for it.
func New(def network.Definition, optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)

	e := &Engine{
		def:     def,
		rc:      o.rc,
		metrics: o.metricsCollector,
		logger:  o.logger,
	}
	if def.Name != "" {
		e.logger = e.logger.WithNetwork(def.Name)
	}
	if o.planCacheBytes > 0 {
		e.plans = cache.New(o.planCacheBytes, o.rc)
	}

	proto, err := def.Build(network.Options{
		Plans:  e.plans,
		Logger: e.logger.Logger,
		OnPlan: e.onPlan,
	})
	if err != nil {
		return nil, err
	}

	e.pool = pool.New(o.poolSize, func() (*network.Network, error) {
		return proto.Clone(), nil
	})
	return e, nil
}

func (e *Engine) onPlan(hit bool, elapsed time.Duration) {
	e.metrics.RecordPlan(hit, elapsed)
	if !hit {
		e.logger.LogPlanBuild(context.Background(), elapsed)
	}
}

// Definition returns the network definition.
func (e *Engine) Definition() network.Definition { return e.def }

// Query returns the normalized posterior marginal of the query variable
// given evidence, a map from variable id to observed state.
func (e *Engine) Query(ctx context.Context, evidence map[int]int, query int) ([]float64, error) {
	start := time.Now()
	posterior, err := e.query(ctx, evidence, query)
	err = translateError(err)

	elapsed := time.Since(start)
	e.metrics.RecordQuery(elapsed, err)
	e.logger.LogQuery(ctx, query, len(evidence), elapsed, err)
	return posterior, err
}

func (e *Engine) query(ctx context.Context, evidence map[int]int, query int) ([]float64, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if err := e.rc.AcquireQuery(ctx); err != nil {
		return nil, err
	}
	defer e.rc.ReleaseQuery()

	start := time.Now()
	n, err := e.pool.Borrow(ctx)
	waited := time.Since(start)
	e.metrics.RecordBorrow(waited, err)
	e.logger.LogBorrow(ctx, waited, err)
	if err != nil {
		return nil, err
	}
	defer e.pool.Return(n)

	return n.QueryContext(ctx, evidence, query)
}

// QueryBatch runs every request concurrently, bounded by the pool size.
// Per-request failures are reported in the matching Result; the returned
// error is non-nil only if ctx ends first.
func (e *Engine) QueryBatch(ctx context.Context, reqs []Request) ([]Result, error) {
	start := time.Now()
	results := make([]Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.pool.Stats().Size)
	for i, req := range reqs {
		g.Go(func() error {
			p, err := e.Query(gctx, req.Evidence, req.Query)
			results[i] = Result{Posterior: p, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	e.metrics.RecordBatchQuery(len(reqs), failed, time.Since(start))
	e.logger.LogBatchQuery(ctx, len(reqs), failed)

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// Recommend returns up to k states of the query variable whose posterior
// probability is at least minP, most probable first. Impossible evidence
// yields ErrNoRecommendation.
func (e *Engine) Recommend(ctx context.Context, evidence map[int]int, query, k int, minP float64) ([]Recommendation, error) {
	posterior, err := e.Query(ctx, evidence, query)
	if err != nil {
		return nil, err
	}
	v, _ := e.def.Variable(query)

	ranked := prob.TopK(posterior, k, minP)
	out := make([]Recommendation, len(ranked))
	for i, r := range ranked {
		out[i] = Recommendation{State: r.State, Name: v.States[r.State], Probability: r.P}
	}
	return out, nil
}

// Stats returns a snapshot of plan cache and pool statistics.
func (e *Engine) Stats() Stats {
	var s Stats
	if e.plans != nil {
		s.Plans = e.plans.Stats()
	}
	s.Pool = e.pool.Stats()
	return s
}

package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/hupe1980/factorgo/buffer"
	"github.com/hupe1980/factorgo/cache"
	"github.com/hupe1980/factorgo/factor"
	"github.com/hupe1980/factorgo/prob"
)

var (
	// ErrUnknownVariable is returned for a query or evidence variable the
	// network does not declare.
	ErrUnknownVariable = errors.New("network: unknown variable")

	// ErrInvalidEvidence is returned for an observed state outside the
	// variable's range.
	ErrInvalidEvidence = errors.New("network: invalid evidence")

	// ErrZeroPosterior is returned when the evidence has zero probability, so
	// no posterior exists.
	ErrZeroPosterior = errors.New("network: evidence has zero probability")
)

// Options configures a Network.
type Options struct {
	// Plans, if set, supplies cached plans for every elimination step.
	Plans *cache.PlanCache

	// Logger receives debug output for queries. Defaults to a discarding logger.
	Logger *slog.Logger

	// OnPlan is called after every plan lookup.
	OnPlan func(hit bool, elapsed time.Duration)
}

// Network is a built Bayesian network.
type Network struct {
	def      Definition
	vars     map[int]Variable
	factors  []factor.Factor
	mentions map[int][]int // variable id -> factor positions
	opts     Options
}

// Build materializes the factors of d.
func (d Definition) Build(opts Options) (*Network, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	n := &Network{
		def:      d,
		vars:     make(map[int]Variable, len(d.Variables)),
		factors:  make([]factor.Factor, 0, len(d.Factors)),
		mentions: make(map[int][]int),
		opts:     opts,
	}
	for _, v := range d.Variables {
		n.vars[v.ID] = v
	}

	for k, fd := range d.Factors {
		cards := make([]int, len(fd.Dims))
		for p, id := range fd.Dims {
			cards[p] = n.vars[id].Card()
		}
		shape, err := factor.NewShape(fd.Dims, cards)
		if err != nil {
			return nil, fmt.Errorf("factor %d: %w", k, err)
		}
		dense, err := factor.NewDenseFrom(shape, buffer.Wrap(slices.Clone(fd.Values)))
		if err != nil {
			return nil, fmt.Errorf("factor %d: %w", k, err)
		}

		var f factor.Factor = dense
		if fd.Sparse {
			if f, err = factor.FromFactor(dense); err != nil {
				return nil, fmt.Errorf("factor %d: %w", k, err)
			}
		}
		for _, id := range fd.Dims {
			n.mentions[id] = append(n.mentions[id], len(n.factors))
		}
		n.factors = append(n.factors, f)
	}
	return n, nil
}

// Definition returns the definition the network was built from.
func (n *Network) Definition() Definition { return n.def }

// Variable returns the variable with the given id.
func (n *Network) Variable(id int) (Variable, bool) {
	v, ok := n.vars[id]
	return v, ok
}

// Factors returns the network's factors. Callers must not modify them.
func (n *Network) Factors() []factor.Factor { return n.factors }

// Reset frees every selection.
func (n *Network) Reset() {
	for _, f := range n.factors {
		f.ClearSelections()
	}
}

// Clone returns a deep copy that shares the plan cache and logger.
func (n *Network) Clone() *Network {
	c := &Network{
		def:      n.def,
		vars:     n.vars,
		mentions: n.mentions,
		factors:  make([]factor.Factor, len(n.factors)),
		opts:     n.opts,
	}
	for k, f := range n.factors {
		switch t := f.(type) {
		case *factor.Dense:
			c.factors[k] = t.Clone()
		case *factor.Sparse:
			c.factors[k] = t.Clone()
		}
	}
	return c
}

// Query returns the normalized posterior marginal of query given evidence,
// a map from variable id to observed state. A state of factor.Free leaves
// the variable unobserved.
func (n *Network) Query(evidence map[int]int, query int) ([]float64, error) {
	return n.QueryContext(context.Background(), evidence, query)
}

// QueryContext is Query with cancellation checked between elimination steps.
func (n *Network) QueryContext(ctx context.Context, evidence map[int]int, query int) ([]float64, error) {
	qv, ok := n.vars[query]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariable, query)
	}

	n.Reset()
	if err := n.observe(evidence); err != nil {
		return nil, err
	}

	work := slices.Clone(n.factors)
	eliminated := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, ok := nextVariable(work, query)
		if !ok {
			break
		}
		var err error
		if work, err = n.eliminate(work, id); err != nil {
			return nil, err
		}
		eliminated++
	}

	acc, err := factor.NewDense([]int{query}, []int{qv.Card()})
	if err != nil {
		return nil, err
	}
	acc.Fill(1)
	if s, ok := evidence[query]; ok && s != factor.Free {
		if err := acc.Select(query, s); err != nil {
			return nil, err
		}
	}
	for _, f := range work {
		if acc, err = factor.Product(acc, f); err != nil {
			return nil, err
		}
	}

	marginal, err := acc.MarginalizeAllBut(query)
	if err != nil {
		return nil, err
	}
	if !prob.Normalize(marginal) {
		n.opts.Logger.Debug("zero posterior", "query", query, "evidence", len(evidence))
		return nil, ErrZeroPosterior
	}

	n.opts.Logger.Debug("query completed",
		"query", query,
		"evidence", len(evidence),
		"eliminated", eliminated,
	)
	return marginal, nil
}

func (n *Network) observe(evidence map[int]int) error {
	for id, state := range evidence {
		v, ok := n.vars[id]
		if !ok {
			return fmt.Errorf("%w: %d", ErrUnknownVariable, id)
		}
		if state == factor.Free {
			continue
		}
		if state < 0 || state >= v.Card() {
			return fmt.Errorf("%w: %w", ErrInvalidEvidence, &factor.StateError{ID: id, State: state, Card: v.Card()})
		}
		for _, k := range n.mentions[id] {
			if err := n.factors[k].Select(id, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// nextVariable picks the variable whose elimination creates the smallest
// intermediate table, breaking ties by the lower id.
func nextVariable(work []factor.Factor, query int) (int, bool) {
	cards := make(map[int]int)
	for _, f := range work {
		s := f.Shape()
		for p, id := range s.IDs {
			cards[id] = s.Cards[p]
		}
	}
	delete(cards, query)
	if len(cards) == 0 {
		return 0, false
	}

	best, bestCost := -1, 0
	for id := range cards {
		cost := eliminationCost(work, id)
		if best < 0 || cost < bestCost || (cost == bestCost && id < best) {
			best, bestCost = id, cost
		}
	}
	return best, true
}

func eliminationCost(work []factor.Factor, id int) int {
	union := map[int]int{}
	for _, f := range work {
		s := f.Shape()
		if s.Position(id) < 0 {
			continue
		}
		for p, d := range s.IDs {
			union[d] = s.Cards[p]
		}
	}
	cost := 1
	for _, c := range union {
		if cost > math.MaxInt/c {
			return math.MaxInt
		}
		cost *= c
	}
	return cost
}

// eliminate multiplies every factor mentioning id and sums id out of the
// product.
func (n *Network) eliminate(work []factor.Factor, id int) ([]factor.Factor, error) {
	var joint factor.Factor
	rest := make([]factor.Factor, 0, len(work))
	for _, f := range work {
		if f.Shape().Position(id) < 0 {
			rest = append(rest, f)
			continue
		}
		if joint == nil {
			joint = f
			continue
		}
		p, err := factor.Product(joint, f)
		if err != nil {
			return nil, err
		}
		joint = p
	}

	out, err := n.sumOut(joint, id)
	if err != nil {
		return nil, err
	}
	return append(rest, out), nil
}

func (n *Network) sumOut(f factor.Factor, id int) (*factor.Dense, error) {
	if n.opts.Plans == nil {
		return factor.SumOut(f, id)
	}
	src := f.Shape()
	dst, err := src.Without(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	p, hit, err := n.opts.Plans.GetOrBuild(src, dst)
	if n.opts.OnPlan != nil {
		n.opts.OnPlan(hit, time.Since(start))
	}
	if err != nil {
		return nil, err
	}
	return factor.SumOutPrepared(f, p)
}

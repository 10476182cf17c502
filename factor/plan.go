package factor

import (
	"math"
	"slices"

	"github.com/hupe1980/factorgo/buffer"
)

// Plan maps every flat index of a source shape onto the flat index of a
// target shape whose dimensions are a subset of the source's. A plan depends
// only on the two shapes, never on values, so it can be cached and replayed
// against any buffer laid out in the source shape. Plans are immutable and
// safe for concurrent use.
type Plan struct {
	source  Shape
	target  Shape
	targets []int32
}

// NewPlan computes the index correspondence from src to dst.
func NewPlan(src, dst Shape) (*Plan, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if err := dst.Validate(); err != nil {
		return nil, err
	}
	size := src.Size()
	if size > math.MaxInt32 {
		return nil, &ShapeError{Op: "NewPlan", Reason: "source table too large to plan"}
	}
	pr, err := newProjector(src, dst)
	if err != nil {
		return nil, compatErr(err)
	}

	targets := make([]int32, size)
	pr.walk(func(i, j int) {
		targets[i] = int32(j)
	})

	return &Plan{
		source:  src.Clone(),
		target:  dst.Clone(),
		targets: targets,
	}, nil
}

// Source returns the source shape.
func (p *Plan) Source() Shape { return p.source.Clone() }

// Target returns the target shape.
func (p *Plan) Target() Shape { return p.target.Clone() }

// Len returns the number of source indices.
func (p *Plan) Len() int { return len(p.targets) }

// TargetOf returns the target index source index i is summed into.
func (p *Plan) TargetOf(i int) int { return int(p.targets[i]) }

// SizeBytes returns the approximate memory held by the plan.
func (p *Plan) SizeBytes() int64 {
	const intSize = 8
	shapes := len(p.source.IDs)*2 + len(p.target.IDs)*2
	return int64(len(p.targets))*4 + int64(shapes)*intSize + 96
}

// Apply adds every weight of src into dst following the plan, ignoring any
// selection. len(src) must equal Len and len(dst) the target size.
func (p *Plan) Apply(dst []float64, src buffer.Buffer) {
	if f, ok := src.(buffer.Float64); ok {
		f = f[:len(p.targets)]
		for i, t := range p.targets {
			dst[t] += f[i]
		}
		return
	}
	for i, t := range p.targets {
		dst[t] += src.At(i)
	}
}

func (p *Plan) check(ids, cards []int, dst []float64) error {
	if p == nil {
		return ErrPlanMismatch
	}
	if !slices.Equal(p.source.IDs, ids) || !slices.Equal(p.source.Cards, cards) {
		return ErrPlanMismatch
	}
	if len(dst) != p.target.Size() {
		return &ShapeError{Op: "SumPrepared", Reason: "target buffer length does not match plan", Expected: p.target.Size(), Actual: len(dst)}
	}
	return nil
}

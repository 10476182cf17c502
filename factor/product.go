package factor

import "github.com/hupe1980/factorgo/buffer"

// Product returns the factor product of a and b over the union of their
// dimensions: a's dimensions in order, followed by those only b declares.
// The weight of every assignment is a(projection) * b(projection). Fixed
// selections of both inputs carry over to the result.
func Product(a, b Factor) (*Dense, error) {
	if err := requireDeclared(a); err != nil {
		return nil, err
	}
	if err := requireDeclared(b); err != nil {
		return nil, err
	}
	as, bs := a.Shape(), b.Shape()
	union, err := as.Union(bs)
	if err != nil {
		return nil, err
	}

	out, err := NewDense(union.IDs, union.Cards)
	if err != nil {
		return nil, err
	}
	if err := carrySelections(out, a, b); err != nil {
		return nil, err
	}

	pa, err := newProjector(union, as)
	if err != nil {
		return nil, err
	}
	pb, err := newProjector(union, bs)
	if err != nil {
		return nil, err
	}

	vals := out.values.(buffer.Float64)
	pa.walk(func(i, j int) {
		vals[i] = a.Value(j)
	})
	pb.walk(func(i, j int) {
		vals[i] *= b.Value(j)
	})
	return out, nil
}

func carrySelections(out *Dense, inputs ...Factor) error {
	for p, id := range out.ids {
		state := Free
		for _, f := range inputs {
			s, err := f.Selection(id)
			if err != nil || s == Free {
				continue
			}
			if state != Free && state != s {
				return ErrSelectionConflict
			}
			state = s
		}
		if state != Free {
			if err := out.Select(out.ids[p], state); err != nil {
				return err
			}
		}
	}
	return nil
}

// SumOut eliminates dimension id from f, summing over its states restricted
// to the active selections. Selections of the remaining dimensions carry
// over; the selection of id is consumed.
func SumOut(f Factor, id int) (*Dense, error) {
	target, err := f.Shape().Without(id)
	if err != nil {
		return nil, err
	}
	vals, err := f.MarginalizeOnto(target)
	if err != nil {
		return nil, err
	}
	out, err := NewDenseFrom(target, buffer.Wrap(vals))
	if err != nil {
		return nil, err
	}
	if err := carrySelections(out, f); err != nil {
		return nil, err
	}
	return out, nil
}

// SumOutPrepared is SumOut driven by a plan whose target is f's shape without
// the eliminated dimension.
func SumOutPrepared(f Factor, p *Plan) (*Dense, error) {
	target := p.Target()
	dst := make([]float64, target.Size())
	if err := f.SumPrepared(dst, p); err != nil {
		return nil, err
	}
	out, err := NewDenseFrom(target, buffer.Wrap(dst))
	if err != nil {
		return nil, err
	}
	if err := carrySelections(out, f); err != nil {
		return nil, err
	}
	return out, nil
}

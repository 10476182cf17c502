package factor

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Shape describes the axes of a factor: dimension IDs in declared order and
// their cardinalities. The flat layout is row-major with the last declared
// dimension varying fastest.
type Shape struct {
	IDs   []int
	Cards []int
}

// NewShape validates and returns a shape owning copies of ids and cards.
func NewShape(ids, cards []int) (Shape, error) {
	s := Shape{IDs: slices.Clone(ids), Cards: slices.Clone(cards)}
	if s.IDs == nil {
		s.IDs = []int{}
	}
	if s.Cards == nil {
		s.Cards = []int{}
	}
	if err := s.Validate(); err != nil {
		return Shape{}, err
	}
	return s, nil
}

// Validate checks the shape invariants.
func (s Shape) Validate() error {
	if len(s.IDs) != len(s.Cards) {
		return &ShapeError{Op: "shape", Reason: "dimension id/cardinality count mismatch", Expected: len(s.IDs), Actual: len(s.Cards)}
	}
	if err := validateIDs(s.IDs); err != nil {
		return err
	}
	if err := validateCards(s.Cards); err != nil {
		return err
	}
	return nil
}

func validateIDs(ids []int) error {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if id < 0 {
			return &ShapeError{Op: "shape", Reason: "negative dimension id " + strconv.Itoa(id)}
		}
		if _, dup := seen[id]; dup {
			return &ShapeError{Op: "shape", Reason: "duplicate dimension id " + strconv.Itoa(id)}
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateCards(cards []int) error {
	size := 1
	for _, c := range cards {
		if c < 1 {
			return &ShapeError{Op: "shape", Reason: "cardinality must be positive", Expected: 1, Actual: c}
		}
		if size > math.MaxInt/c {
			return &ShapeError{Op: "shape", Reason: "table size overflows int"}
		}
		size *= c
	}
	return nil
}

// Len returns the number of dimensions.
func (s Shape) Len() int { return len(s.IDs) }

// Size returns the number of elements of the Cartesian product of all
// dimensions. A zero-dimensional shape has size 1.
func (s Shape) Size() int {
	size := 1
	for _, c := range s.Cards {
		size *= c
	}
	return size
}

// Strides returns the flat-index stride of every dimension.
func (s Shape) Strides() []int {
	return strides(s.Cards)
}

func strides(cards []int) []int {
	st := make([]int, len(cards))
	acc := 1
	for p := len(cards) - 1; p >= 0; p-- {
		st[p] = acc
		acc *= cards[p]
	}
	return st
}

// Position returns the declared position of id, or -1.
func (s Shape) Position(id int) int {
	return slices.Index(s.IDs, id)
}

// Card returns the cardinality of id.
func (s Shape) Card(id int) (int, bool) {
	p := s.Position(id)
	if p < 0 {
		return 0, false
	}
	return s.Cards[p], true
}

// Without returns the shape with dimension id removed.
func (s Shape) Without(id int) (Shape, error) {
	p := s.Position(id)
	if p < 0 {
		return Shape{}, &UnknownDimensionError{ID: id}
	}
	return Shape{
		IDs:   slices.Delete(slices.Clone(s.IDs), p, p+1),
		Cards: slices.Delete(slices.Clone(s.Cards), p, p+1),
	}, nil
}

// Union returns s extended by the dimensions of o that s lacks, in o's order.
func (s Shape) Union(o Shape) (Shape, error) {
	u := s.Clone()
	for q, id := range o.IDs {
		c, ok := s.Card(id)
		if !ok {
			u.IDs = append(u.IDs, id)
			u.Cards = append(u.Cards, o.Cards[q])
			continue
		}
		if c != o.Cards[q] {
			return Shape{}, &IncompatibleError{ID: id, Card: c, OtherCard: o.Cards[q]}
		}
	}
	return u, nil
}

// Equal reports whether both shapes declare the same IDs and cardinalities in
// the same order.
func (s Shape) Equal(o Shape) bool {
	return slices.Equal(s.IDs, o.IDs) && slices.Equal(s.Cards, o.Cards)
}

// Clone returns a deep copy of s.
func (s Shape) Clone() Shape {
	ids := slices.Clone(s.IDs)
	cards := slices.Clone(s.Cards)
	if ids == nil {
		ids = []int{}
	}
	if cards == nil {
		cards = []int{}
	}
	return Shape{IDs: ids, Cards: cards}
}

// Key returns a stable string key such as "3:2,7:4" for use in caches.
func (s Shape) Key() string {
	var b strings.Builder
	for p, id := range s.IDs {
		if p > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(id))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(s.Cards[p]))
	}
	return b.String()
}

func (s Shape) String() string {
	return "[" + s.Key() + "]"
}

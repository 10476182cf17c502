package network

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDefinition is matched by every definition validation error.
var ErrInvalidDefinition = errors.New("network: invalid definition")

// Variable is a discrete random variable.
type Variable struct {
	ID     int      `yaml:"id"`
	Name   string   `yaml:"name"`
	States []string `yaml:"states"`
}

// Card returns the number of states.
func (v Variable) Card() int { return len(v.States) }

// StateIndex returns the index of the named state.
func (v Variable) StateIndex(name string) (int, bool) {
	for i, s := range v.States {
		if s == name {
			return i, true
		}
	}
	return 0, false
}

// FactorDef is one table over a list of variables.
type FactorDef struct {
	Dims   []int     `yaml:"dims"`
	Values []float64 `yaml:"values"`
	// Sparse stores only the non-zero entries.
	Sparse bool `yaml:"sparse,omitempty"`
}

// Definition describes a network.
type Definition struct {
	Name      string      `yaml:"name,omitempty"`
	Variables []Variable  `yaml:"variables"`
	Factors   []FactorDef `yaml:"factors"`
}

// Decode parses a YAML definition and validates it.
func Decode(data []byte) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Load reads and decodes the definition at path.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, err
	}
	return Decode(data)
}

// Encode renders def as YAML.
func Encode(def Definition) ([]byte, error) {
	return yaml.Marshal(def)
}

// Validate checks that every variable is well formed and every factor refers
// to declared variables with one finite, non-negative value per assignment.
func (d Definition) Validate() error {
	if len(d.Variables) == 0 {
		return invalidf("no variables")
	}
	cards := make(map[int]int, len(d.Variables))
	for _, v := range d.Variables {
		if v.ID < 0 {
			return invalidf("variable %q: negative id %d", v.Name, v.ID)
		}
		if _, dup := cards[v.ID]; dup {
			return invalidf("duplicate variable id %d", v.ID)
		}
		if len(v.States) == 0 {
			return invalidf("variable %d: no states", v.ID)
		}
		cards[v.ID] = len(v.States)
	}

	for k, f := range d.Factors {
		size := 1
		seen := make(map[int]struct{}, len(f.Dims))
		for _, id := range f.Dims {
			card, ok := cards[id]
			if !ok {
				return invalidf("factor %d: unknown variable %d", k, id)
			}
			if _, dup := seen[id]; dup {
				return invalidf("factor %d: variable %d listed twice", k, id)
			}
			seen[id] = struct{}{}
			size *= card
		}
		if len(f.Values) != size {
			return invalidf("factor %d: %d values for %d assignments", k, len(f.Values), size)
		}
		for i, v := range f.Values {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return invalidf("factor %d: value %d is %v", k, i, v)
			}
		}
	}
	return nil
}

// Variable returns the variable with the given id.
func (d Definition) Variable(id int) (Variable, bool) {
	for _, v := range d.Variables {
		if v.ID == id {
			return v, true
		}
	}
	return Variable{}, false
}

// VariableByName returns the variable with the given name.
func (d Definition) VariableByName(name string) (Variable, bool) {
	for _, v := range d.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDefinition, fmt.Sprintf(format, args...))
}

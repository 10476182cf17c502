package network

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoNode = `
variables:
  - {id: 0, name: a, states: [x, y]}
  - {id: 1, name: b, states: [u, v, w]}
factors:
  - dims: [0, 1]
    values: [1, 2, 3, 4, 5, 6]
`

func TestDecode(t *testing.T) {
	def, err := Decode([]byte(twoNode))
	require.NoError(t, err)
	require.Len(t, def.Variables, 2)
	assert.Equal(t, 3, def.Variables[1].Card())

	v, ok := def.VariableByName("b")
	require.True(t, ok)
	s, ok := v.StateIndex("w")
	assert.True(t, ok)
	assert.Equal(t, 2, s)
	_, ok = v.StateIndex("q")
	assert.False(t, ok)
}

func TestDecode_RoundTrip(t *testing.T) {
	def, err := Decode([]byte(twoNode))
	require.NoError(t, err)
	data, err := Encode(def)
	require.NoError(t, err)
	again, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, def, again)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.yaml")
	require.NoError(t, os.WriteFile(path, []byte(twoNode), 0o600))
	def, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, def.Factors, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := Decode([]byte("variables: []\nbogus: 1\n"))
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestValidate(t *testing.T) {
	base := func() Definition {
		return Definition{
			Variables: []Variable{
				{ID: 0, States: []string{"x", "y"}},
				{ID: 1, States: []string{"u", "v"}},
			},
			Factors: []FactorDef{{Dims: []int{0, 1}, Values: []float64{1, 2, 3, 4}}},
		}
	}

	tests := []struct {
		name   string
		mutate func(d *Definition)
	}{
		{"no variables", func(d *Definition) { d.Variables = nil }},
		{"negative id", func(d *Definition) { d.Variables[0].ID = -1 }},
		{"duplicate id", func(d *Definition) { d.Variables[1].ID = 0 }},
		{"no states", func(d *Definition) { d.Variables[1].States = nil }},
		{"unknown dim", func(d *Definition) { d.Factors[0].Dims = []int{0, 7} }},
		{"repeated dim", func(d *Definition) { d.Factors[0].Dims = []int{0, 0} }},
		{"value count", func(d *Definition) { d.Factors[0].Values = []float64{1, 2, 3} }},
		{"negative value", func(d *Definition) { d.Factors[0].Values[2] = -1 }},
		{"nan value", func(d *Definition) { d.Factors[0].Values[1] = math.NaN() }},
		{"inf value", func(d *Definition) { d.Factors[0].Values[0] = math.Inf(1) }},
	}

	require.NoError(t, base().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base()
			tt.mutate(&d)
			assert.ErrorIs(t, d.Validate(), ErrInvalidDefinition)

			_, err := d.Build(Options{})
			assert.ErrorIs(t, err, ErrInvalidDefinition)
		})
	}
}

func TestBuild_Sparse(t *testing.T) {
	def := Definition{
		Variables: []Variable{{ID: 4, States: []string{"a", "b", "c"}}},
		Factors:   []FactorDef{{Dims: []int{4}, Values: []float64{0, 2, 0}, Sparse: true}},
	}
	n, err := def.Build(Options{})
	require.NoError(t, err)
	require.Len(t, n.Factors(), 1)
	assert.Equal(t, 3, n.Factors()[0].Size())
	assert.Equal(t, 1, n.Factors()[0].Values().Len())

	got, err := n.Query(nil, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0}, got)
}

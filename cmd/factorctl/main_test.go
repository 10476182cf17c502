package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/factorgo"
)

const model = `
name: sprinkler
variables:
  - {id: 0, name: rain, states: ["no", "yes"]}
  - {id: 1, name: sprinkler, states: ["off", "on"]}
  - {id: 2, name: wet, states: ["no", "yes"]}
factors:
  - dims: [0]
    values: [0.8, 0.2]
  - dims: [0, 1]
    values: [0.6, 0.4, 0.99, 0.01]
  - dims: [0, 1, 2]
    values: [1, 0, 0.1, 0.9, 0.2, 0.8, 0.01, 0.99]
    sparse: true
`

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sprinkler.yaml")
	require.NoError(t, os.WriteFile(path, []byte(model), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "factorctl v0.1.0 (dev)\n", out)
}

func TestQuery(t *testing.T) {
	path := writeModel(t)

	out, err := run(t, "query", "-n", path, "-q", "rain", "-e", "wet=yes")
	require.NoError(t, err)
	assert.Equal(t, "no\t0.642312\nyes\t0.357688\n", out)

	// ids and indices work too
	out2, err := run(t, "query", "-n", path, "-q", "0", "-e", "2=1")
	require.NoError(t, err)
	assert.Equal(t, out, out2)

	out, err = run(t, "query", "-n", path, "-q", "rain", "-e", "wet=yes", "--top", "1")
	require.NoError(t, err)
	assert.Equal(t, "no\t0.642312\n", out)
}

func TestQuery_Errors(t *testing.T) {
	path := writeModel(t)

	_, err := run(t, "query", "-n", path, "-q", "snow")
	assert.ErrorIs(t, err, factorgo.ErrUnknownVariable)

	_, err = run(t, "query", "-n", path, "-q", "rain", "-e", "wet")
	assert.ErrorIs(t, err, factorgo.ErrInvalidEvidence)

	_, err = run(t, "query", "-n", path, "-q", "rain", "-e", "wet=damp")
	assert.ErrorIs(t, err, factorgo.ErrInvalidEvidence)

	_, err = run(t, "query", "-n", path, "-q", "rain", "-e", "rain=no", "-e", "sprinkler=off", "-e", "wet=yes")
	assert.ErrorIs(t, err, factorgo.ErrNoRecommendation)

	_, err = run(t, "query", "-q", "rain")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", writeModel(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "network sprinkler: 3 variables, 3 factors\n"))
	assert.Contains(t, out, "factor 2: sparse")
	assert.Contains(t, out, "7 stored of 8")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("variables: []\n"), 0o600))
	_, err = run(t, "validate", bad)
	assert.Error(t, err)
}

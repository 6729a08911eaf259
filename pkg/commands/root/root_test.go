package root

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/isometry/burst-config/internal/testutil"
	"github.com/isometry/burst-config/pkg/commands/check"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := New()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckFile(t *testing.T) {
	file := filepath.Join(testutil.TestdataPath(t), "csc.yaml")

	tests := []struct {
		name    string
		args    []string
		present bool
	}{
		{"LastWins", []string{"n_atoms", "reg"}, false},
		{"LastPresent", []string{"reg", "n_atoms"}, true},
		{"Any", []string{"--mode", "any", "reg", "n_atoms"}, true},
		{"All", []string{"--mode", "all", "reg", "n_atoms"}, false},
		{"ExactCase", []string{"d_init"}, false},
		{"FoldCase", []string{"-i", "d_init"}, true},
		{"Path", []string{"--path-delimiter", ".", "solver_z_kwargs.tol"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"check", "--file", file, "-o", "json"}, tt.args...)
			out, err := execute(t, args...)

			var result check.Result
			require.NoError(t, json.Unmarshal([]byte(out), &result))
			assert.Equal(t, tt.present, result.Present)
			assert.Equal(t, file, result.Source)

			if tt.present {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, check.ErrAbsent), "got %v", err)
			}
		})
	}
}

func TestCheckConfigSet(t *testing.T) {
	out, err := execute(t, "check", "--config-path", testutil.TestdataPath(t), "--kind", "swm", "--name", "beta",
		"--color", "never", "temperature", "window_length")
	require.NoError(t, err)

	assert.Contains(t, out, "Fields of swm/beta:")
	assert.Contains(t, out, "✘ temperature")
	assert.Contains(t, out, "✔ window_length")
	assert.Contains(t, out, "Result (last): present")
	assert.NotContains(t, out, "never")
}

func TestCheckColorTakesValue(t *testing.T) {
	file := filepath.Join(testutil.TestdataPath(t), "csc.yaml")

	for _, color := range []string{"never", "always", "auto"} {
		t.Run(color, func(t *testing.T) {
			out, err := execute(t, "check", "--file", file, "-o", "json", "--color", color, "n_atoms")
			require.NoError(t, err)

			var result check.Result
			require.NoError(t, json.Unmarshal([]byte(out), &result))
			require.Len(t, result.Fields, 1)
			assert.Equal(t, "n_atoms", result.Fields[0].Name)
			assert.True(t, result.Present)
		})
	}
}

func TestCheckErrors(t *testing.T) {
	dir := testutil.TestdataPath(t)

	_, err := execute(t, "check", "window_length")
	assert.ErrorContains(t, err, "either --file or both --kind and --name are required")

	_, err = execute(t, "check", "--config-path", dir, "-k", "swm", "-n", "gamma", "window_length")
	assert.ErrorContains(t, err, `no swm parameter set named "gamma"`)

	_, err = execute(t, "check", "--config-path", dir, "-k", "swm", "-n", "beta", "--mode", "most", "window_length")
	assert.ErrorContains(t, err, "unknown mode")

	_, err = execute(t, "check", "--file", filepath.Join(dir, "csc.yaml"))
	assert.Error(t, err, "at least one field is required")
}

func TestValidate(t *testing.T) {
	dir := testutil.TestdataPath(t)

	out, err := execute(t, "validate", "--config-path", dir, "-o", "yaml")
	require.NoError(t, err)

	var summary struct {
		Valid   int `yaml:"valid"`
		Invalid int `yaml:"invalid"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 2, summary.Valid)
	assert.Equal(t, 0, summary.Invalid)

	out, err = execute(t, "validate", "--config-path", dir, "--config-name", "invalid", "--color", "never")
	assert.ErrorContains(t, err, "validation failed: 1 invalid parameter set(s)")
	assert.Contains(t, out, "✘ beta (swm)")
	assert.Contains(t, out, "window_length")
	assert.Contains(t, out, "Summary: 1 valid, 1 invalid")
}

func TestDefaults(t *testing.T) {
	out, err := execute(t, "defaults", "csc")
	require.NoError(t, err)

	var cfg map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 20, cfg["n_atoms"])
	assert.Equal(t, "chunk", cfg["D_init"])

	out, err = execute(t, "defaults", "swm", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"max_iterations": 10000`)
	assert.Contains(t, out, `"min_spacing": 0.2`)
	assert.NotContains(t, out, "window_length")

	_, err = execute(t, "defaults", "hmm")
	assert.ErrorContains(t, err, "available: csc, papto, swm, threshold")
}

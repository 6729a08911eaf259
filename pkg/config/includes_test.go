package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isometry/burst-config/internal/testutil"
)

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name     string
		dst      map[string]any
		src      map[string]any
		expected map[string]any
	}{
		{
			name:     "Empty maps",
			dst:      map[string]any{},
			src:      map[string]any{},
			expected: map[string]any{},
		},
		{
			name:     "Nil destination",
			dst:      nil,
			src:      map[string]any{"reg": 0.2},
			expected: map[string]any{"reg": 0.2},
		},
		{
			name:     "Scalar replacement",
			dst:      map[string]any{"reg": 0.1},
			src:      map[string]any{"reg": 0.2},
			expected: map[string]any{"reg": 0.2},
		},
		{
			name: "Nested map merge",
			dst: map[string]any{
				"solver_z_kwargs": map[string]any{"tol": 1e-3, "max_iter": 1000},
			},
			src: map[string]any{
				"solver_z_kwargs": map[string]any{"tol": 1e-2},
			},
			expected: map[string]any{
				"solver_z_kwargs": map[string]any{"tol": 1e-2, "max_iter": 1000},
			},
		},
		{
			name:     "List concatenation",
			dst:      map[string]any{"swm": []any{"a"}},
			src:      map[string]any{"swm": []any{"b", "c"}},
			expected: map[string]any{"swm": []any{"a", "b", "c"}},
		},
		{
			name:     "Mixed types - src wins",
			dst:      map[string]any{"band": "alpha"},
			src:      map[string]any{"band": []any{8, 12}},
			expected: map[string]any{"band": []any{8, 12}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, deepMerge(tt.dst, tt.src))
		})
	}
}

func TestDeepMergeDoesNotAlias(t *testing.T) {
	base := make([]any, 1, 4)
	base[0] = "a"
	dst := map[string]any{"swm": base}

	first := deepMerge(dst, map[string]any{"swm": []any{"b"}})
	second := deepMerge(dst, map[string]any{"swm": []any{"c"}})

	assert.Equal(t, []any{"a", "b"}, first["swm"])
	assert.Equal(t, []any{"a", "c"}, second["swm"])
	assert.Equal(t, []any{"a"}, dst["swm"])
}

func TestIncludeStack(t *testing.T) {
	stack := includeStack{}.push("a.yaml", "hash1").push("b.yaml", "hash2")

	assert.True(t, stack.containsHash("hash1"))
	assert.False(t, stack.containsHash("hash3"))
	assert.Equal(t, "a.yaml -> b.yaml -> c.yaml (duplicate content)", stack.cycle("c.yaml"))

	parent := make(includeStack, 1, 4)
	parent[0] = includeEntry{Path: "a.yaml", Hash: "hash1"}
	left := parent.push("b.yaml", "hash2")
	right := parent.push("c.yaml", "hash3")

	assert.Equal(t, "b.yaml", left[1].Path)
	assert.Equal(t, "c.yaml", right[1].Path)
	assert.False(t, right.containsHash("hash2"), "siblings do not see each other")
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, contentHash([]byte("reg: 0.2")), contentHash([]byte("reg: 0.2")))
	assert.NotEqual(t, contentHash([]byte("reg: 0.2")), contentHash([]byte("reg: 0.1")))
	assert.Len(t, contentHash([]byte("reg")), 16)
}

func TestResolveIncludes(t *testing.T) {
	t.Run("No includes", func(t *testing.T) {
		doc := map[string]any{"name": "beta", "window_length": 0.2}

		result, err := resolveIncludes(doc, ".", nil)
		require.NoError(t, err)
		assert.Equal(t, doc, result)
	})

	t.Run("Invalid includes type", func(t *testing.T) {
		_, err := resolveIncludes(map[string]any{"includes": "base"}, ".", nil)
		assert.ErrorContains(t, err, "includes must be a list")
	})

	t.Run("Invalid include path type", func(t *testing.T) {
		_, err := resolveIncludes(map[string]any{"includes": []any{123}}, ".", nil)
		assert.ErrorContains(t, err, "include path must be a string")
	})
}

func TestResolveIncludesWithFiles(t *testing.T) {
	tmpDir := t.TempDir()
	write := func(name, content string) {
		testutil.WriteFile(t, tmpDir, name, content)
	}

	t.Run("Local wins over include", func(t *testing.T) {
		write("base.yaml", "temperature: 1\nmax_iterations: 100\n")

		result, err := resolveIncludes(map[string]any{
			"includes":    []any{"base"},
			"temperature": 2,
		}, tmpDir, nil)
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"temperature": 2, "max_iterations": 100}, result)
	})

	t.Run("Includes inside list entries", func(t *testing.T) {
		write("beta.yaml", "sampling_rate: 600\n")

		result, err := resolveIncludes(map[string]any{
			"swm": []any{
				map[string]any{"includes": []any{"beta"}, "name": "beta", "window_length": 0.2},
			},
		}, tmpDir, nil)
		require.NoError(t, err)

		entry := result["swm"].([]any)[0].(map[string]any)
		assert.Equal(t, 600, entry["sampling_rate"])
		assert.Equal(t, "beta", entry["name"])
	})

	t.Run("Nested include chain", func(t *testing.T) {
		write("chain/leaf.yaml", "leaf: true\n")
		write("chain/parent.yaml", "includes:\n  - leaf\nparent: true\n")

		result, err := resolveIncludes(map[string]any{"includes": []any{"chain/parent"}}, tmpDir, nil)
		require.NoError(t, err)

		assert.Equal(t, true, result["leaf"])
		assert.Equal(t, true, result["parent"])
		assert.NotContains(t, result, "includes")
	})

	t.Run("Missing include file", func(t *testing.T) {
		_, err := resolveIncludes(map[string]any{"includes": []any{"nonexistent"}}, tmpDir, nil)
		assert.ErrorContains(t, err, "failed to load include")
	})

	t.Run("Loop", func(t *testing.T) {
		write("loop/a.yaml", "includes:\n  - b\na: 1\n")
		write("loop/b.yaml", "includes:\n  - a\nb: 1\n")

		_, err := resolveIncludes(map[string]any{"includes": []any{"loop/a"}}, tmpDir, nil)
		assert.ErrorContains(t, err, "include loop detected")
	})
}

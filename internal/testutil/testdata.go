package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestdataPath returns the absolute path to the testdata directory
// adjacent to the caller's source file.
func TestdataPath(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(1)
	require.True(t, ok, "failed to get caller info")
	return filepath.Join(filepath.Dir(filename), "testdata")
}

// WriteFile writes content to name under dir, creating parent directories,
// and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

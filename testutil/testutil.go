// Package testutil holds helpers shared by command and configuration tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Isolate moves the test into a fresh directory with an empty XDG config
// home, so neither the developer's global nor project configuration leaks
// into the test. It returns the directory.
func Isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	return dir
}

// WriteFile writes content below dir, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// GlobalConfig writes the user-wide meetwatch.yml of an isolated test.
func GlobalConfig(t *testing.T, dir, content string) string {
	t.Helper()
	return WriteFile(t, filepath.Join(dir, "xdg"), filepath.Join("meetwatch", "meetwatch.yml"), content)
}

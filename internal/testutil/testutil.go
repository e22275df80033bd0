// Package testutil provides common test helpers for the pyact project.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempProject creates a temporary project directory and returns its path.
// Symlinks are resolved so that paths compare equal to os.Getwd results.
func TempProject(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("TempProject: resolve failed: %v", err)
	}
	return dir
}

// MakeVenv creates a minimal virtualenv layout at path (bin/activate and
// pyvenv.cfg) and returns path.
func MakeVenv(t *testing.T, path string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Join(path, "bin"), 0755); err != nil {
		t.Fatalf("MakeVenv: mkdir failed: %v", err)
	}
	files := map[string]string{
		filepath.Join(path, "bin", "activate"): "# activate\n",
		filepath.Join(path, "pyvenv.cfg"):      "home = /usr/bin\n",
	}
	for p, content := range files {
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("MakeVenv: write failed: %v", err)
		}
	}
	return path
}

// WriteFile writes content to dir/name, creating parent directories.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("WriteFile: mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: write failed: %v", err)
	}
	return path
}

// WriteLinkedEnv writes a .linked_env file in dir.
func WriteLinkedEnv(t *testing.T, dir, envType, target string) string {
	t.Helper()

	return WriteFile(t, dir, ".linked_env", envType+";"+target)
}

// ReadLinkedEnv reads the .linked_env file in dir.
func ReadLinkedEnv(t *testing.T, dir string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, ".linked_env"))
	if err != nil {
		t.Fatalf("ReadLinkedEnv: read failed: %v", err)
	}
	return string(data)
}

// TempConfigFile creates a temporary config.toml with the given content
// and returns its path. The file is automatically cleaned up.
func TempConfigFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("TempConfigFile: write failed: %v", err)
	}

	return path
}

// TempCacheFile creates a temporary cache.json with the given content
// and returns its path.
func TempCacheFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("TempCacheFile: write failed: %v", err)
	}

	return path
}

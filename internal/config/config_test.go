package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hbjs97/pyact/internal/config"
	"github.com/hbjs97/pyact/internal/envfile"
	"github.com/hbjs97/pyact/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidTOML(t *testing.T) {
	content := `version = 1
priority = ["venv", "linked", "conda"]
deactivate_foreign = false
keep_conda_base = false
helper_path = "/usr/local/bin/zsh-activate-py-environment"
conda_cache_ttl_hours = 6
quiet = true`

	path := testutil.TempConfigFile(t, content)
	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, []envfile.Type{envfile.Venv, envfile.Linked, envfile.Conda}, cfg.PriorityTypes())
	assert.False(t, cfg.IsDeactivateForeign())
	assert.False(t, cfg.IsKeepCondaBase())
	assert.Equal(t, "/usr/local/bin/zsh-activate-py-environment", cfg.HelperPath)
	assert.Equal(t, 6, cfg.CondaCacheTTLHours)
	assert.True(t, cfg.Quiet)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope", "config.toml"))

	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, envfile.DefaultPriority, cfg.PriorityTypes())
	assert.True(t, cfg.IsDeactivateForeign())
	assert.True(t, cfg.IsKeepCondaBase())
	assert.Equal(t, 24, cfg.CondaCacheTTLHours)
	assert.Empty(t, cfg.HelperPath)
}

func TestLoadConfig_DefaultValues(t *testing.T) {
	path := testutil.TempConfigFile(t, `version = 1`)
	cfg, err := config.Load(path)

	require.NoError(t, err)
	assert.True(t, cfg.IsDeactivateForeign())
	assert.True(t, cfg.IsKeepCondaBase())
	assert.False(t, cfg.Quiet)
	assert.Equal(t, 24, cfg.CondaCacheTTLHours)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid toml", "invalid toml [[["},
		{"unknown version", "version = 2"},
		{"unknown priority type", `priority = ["venv", "pipenv"]`},
		{"negative ttl", "conda_cache_ttl_hours = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.TempConfigFile(t, tt.content)
			_, err := config.Load(path)
			assert.ErrorIs(t, err, config.ErrConfig)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "config.toml")

	off := false
	cfg := &config.Config{
		Version:            1,
		Priority:           []string{"linked", "venv"},
		DeactivateForeign:  &off,
		KeepCondaBase:      &off,
		CondaCacheTTLHours: 48,
		Quiet:              true,
	}
	require.NoError(t, config.Save(path, cfg))

	// 파일 권한 0600 확인
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	require.NoError(t, config.ValidateFilePermissions(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Priority, loaded.Priority)
	assert.False(t, loaded.IsDeactivateForeign())
	assert.False(t, loaded.IsKeepCondaBase())
	assert.Equal(t, 48, loaded.CondaCacheTTLHours)
	assert.True(t, loaded.Quiet)
}

func TestSave_DefaultConfigLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, config.Save(path, config.Default()))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), loaded)
}

func TestValidateFilePermissions_TooOpen(t *testing.T) {
	path := testutil.TempConfigFile(t, "version = 1")
	require.NoError(t, os.Chmod(path, 0644))

	assert.Error(t, config.ValidateFilePermissions(path))
}

func TestDefaultPath_EnvOverride(t *testing.T) {
	t.Setenv("PYACT_CONFIG", "/etc/pyact.toml")
	assert.Equal(t, "/etc/pyact.toml", config.DefaultPath())
}

func TestDefaultPath_Home(t *testing.T) {
	t.Setenv("PYACT_CONFIG", "")
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/.config/pyact/config.toml", config.DefaultPath())
}

package helper_test

import (
	"testing"

	"github.com/hbjs97/pyact/internal/envtable"
	"github.com/hbjs97/pyact/internal/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVenvDelta_SetsAndRecords(t *testing.T) {
	env := envtable.FromEnviron([]string{"PATH=/usr/bin:/bin", "PYTHONHOME=/opt/py"})

	d := helper.VenvDelta(env, "/path/to/env")
	env.Apply(d)

	assert.Equal(t, "/path/to/env", env.Lookup("VIRTUAL_ENV"))
	assert.Equal(t, "env", env.Lookup("VIRTUAL_ENV_PROMPT"))
	assert.Equal(t, "/path/to/env/bin:/usr/bin:/bin", env.Lookup("PATH"))
	_, ok := env.Get("PYTHONHOME")
	assert.False(t, ok)
	assert.Equal(t, "/usr/bin:/bin", env.Lookup("_PYACT_OLD_PATH"))
	assert.Equal(t, "/opt/py", env.Lookup("_PYACT_OLD_PYTHONHOME"))
	assert.Equal(t, "VIRTUAL_ENV:VIRTUAL_ENV_PROMPT:PATH:PYTHONHOME", env.Lookup(helper.VarsKey))
	assert.Equal(t, "venv", env.Lookup(helper.TypeKey))
}

func TestVenvDelta_EmptyPath(t *testing.T) {
	env := envtable.New()
	env.Apply(helper.VenvDelta(env, "/e"))
	assert.Equal(t, "/e/bin", env.Lookup("PATH"))
}

func TestOwnedDeactivation_RestoresExactly(t *testing.T) {
	tests := []struct {
		name     string
		environ  []string
		activate func(*envtable.Table)
	}{
		{
			name:    "venv",
			environ: []string{"PATH=/usr/bin", "PYTHONHOME=/opt/py", "HOME=/home/u"},
			activate: func(env *envtable.Table) {
				env.Apply(helper.VenvDelta(env, "/path/to/env"))
			},
		},
		{
			name:    "conda over base",
			environ: []string{"PATH=/opt/conda/bin:/usr/bin", "CONDA_PREFIX=/opt/conda", "CONDA_DEFAULT_ENV=base"},
			activate: func(env *envtable.Table) {
				env.Apply(helper.CondaDelta(env, "ml", "/opt/conda/envs/ml"))
			},
		},
		{
			name:    "conda on clean env",
			environ: []string{"PATH=/usr/bin"},
			activate: func(env *envtable.Table) {
				env.Apply(helper.CondaDelta(env, "ml", "/opt/conda/envs/ml"))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := envtable.FromEnviron(tt.environ)
			env := original.Clone()
			tt.activate(env)
			require.False(t, env.Equal(original))

			d, ok := helper.OwnedDeactivationDelta(env)
			require.True(t, ok)
			env.Apply(d)
			assert.True(t, env.Equal(original), "got %v", env.Environ())
		})
	}
}

func TestOwnedDeactivation_NotOwned(t *testing.T) {
	env := envtable.FromEnviron([]string{"VIRTUAL_ENV=/x"})
	_, ok := helper.OwnedDeactivationDelta(env)
	assert.False(t, ok)
}

func TestOwnedDeactivation_SkipsInvalidNames(t *testing.T) {
	env := envtable.FromEnviron([]string{helper.VarsKey + "=A:$(x):", "A=1"})
	d, ok := helper.OwnedDeactivationDelta(env)
	require.True(t, ok)
	env.Apply(d)
	assert.Equal(t, 0, env.Len())
}

func TestCondaDelta(t *testing.T) {
	env := envtable.FromEnviron([]string{"PATH=/usr/bin"})
	env.Apply(helper.CondaDelta(env, "ml", "/opt/conda/envs/ml"))

	assert.Equal(t, "/opt/conda/envs/ml", env.Lookup("CONDA_PREFIX"))
	assert.Equal(t, "ml", env.Lookup("CONDA_DEFAULT_ENV"))
	assert.Equal(t, "(ml) ", env.Lookup("CONDA_PROMPT_MODIFIER"))
	assert.Equal(t, "/opt/conda/envs/ml/bin:/usr/bin", env.Lookup("PATH"))
	assert.Equal(t, "conda", env.Lookup(helper.TypeKey))
}

func TestForeignVenvDeactivation(t *testing.T) {
	env := envtable.FromEnviron([]string{
		"PATH=/home/u/app/.venv/bin:/usr/bin:/bin",
		"VIRTUAL_ENV=/home/u/app/.venv",
		"VIRTUAL_ENV_PROMPT=(.venv) ",
	})
	env.Apply(helper.ForeignVenvDeactivationDelta(env, "/home/u/app/.venv"))

	assert.Equal(t, []string{"PATH=/usr/bin:/bin"}, env.Environ())
}

func TestForeignCondaDeactivation(t *testing.T) {
	env := envtable.FromEnviron([]string{
		"PATH=/opt/conda/envs/ml/bin:/usr/bin",
		"CONDA_PREFIX=/opt/conda/envs/ml",
		"CONDA_DEFAULT_ENV=ml",
		"CONDA_PROMPT_MODIFIER=(ml) ",
	})
	env.Apply(helper.ForeignCondaDeactivationDelta(env))

	assert.Equal(t, []string{"PATH=/usr/bin"}, env.Environ())
}

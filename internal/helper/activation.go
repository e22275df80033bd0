package helper

import (
	"path/filepath"
	"strings"

	"github.com/hbjs97/pyact/internal/delta"
	"github.com/hbjs97/pyact/internal/envtable"
)

// pyact가 직접 활성화한 환경을 되돌리기 위한 관리 변수.
const (
	VarsKey   = "_PYACT_VARS"
	TypeKey   = "_PYACT_TYPE"
	OldPrefix = "_PYACT_OLD_"
)

// activation은 변경한 변수의 이전 값을 기록하면서 delta를 만든다.
type activation struct {
	env     *envtable.Table
	d       delta.Delta
	touched []string
}

func newActivation(env *envtable.Table) *activation {
	return &activation{env: env}
}

func (a *activation) save(name string) {
	for _, n := range a.touched {
		if n == name {
			return
		}
	}
	a.touched = append(a.touched, name)
	if old, ok := a.env.Get(name); ok {
		a.d.Set(OldPrefix+name, old)
	}
}

func (a *activation) set(name, value string) {
	a.save(name)
	a.d.Set(name, value)
}

func (a *activation) unset(name string) {
	if _, ok := a.env.Get(name); !ok {
		return
	}
	a.save(name)
	a.d.Unset(name)
}

func (a *activation) prependPath(dir string) {
	a.set("PATH", joinPath(dir, a.env.Lookup("PATH")))
}

func (a *activation) finish(envType string) delta.Delta {
	a.d.Set(VarsKey, strings.Join(a.touched, ":"))
	a.d.Set(TypeKey, envType)
	return a.d
}

// VenvDelta는 virtualenv prefix를 활성화하는 delta를 반환한다.
func VenvDelta(env *envtable.Table, prefix string) delta.Delta {
	a := newActivation(env)
	a.set("VIRTUAL_ENV", prefix)
	a.set("VIRTUAL_ENV_PROMPT", filepath.Base(prefix))
	a.prependPath(filepath.Join(prefix, "bin"))
	a.unset("PYTHONHOME")
	return a.finish("venv")
}

// CondaDelta는 conda 환경을 활성화하는 delta를 반환한다.
func CondaDelta(env *envtable.Table, name, prefix string) delta.Delta {
	a := newActivation(env)
	a.set("CONDA_PREFIX", prefix)
	a.set("CONDA_DEFAULT_ENV", name)
	a.set("CONDA_PROMPT_MODIFIER", "("+name+") ")
	a.prependPath(filepath.Join(prefix, "bin"))
	return a.finish("conda")
}

// OwnedDeactivationDelta는 pyact가 활성화한 환경을 되돌리는 delta를 반환한다.
// pyact가 활성화하지 않았으면 false다.
func OwnedDeactivationDelta(env *envtable.Table) (delta.Delta, bool) {
	vars, ok := env.Get(VarsKey)
	if !ok {
		return delta.Delta{}, false
	}

	var d delta.Delta
	for _, name := range strings.Split(vars, ":") {
		if !delta.ValidName(name) {
			continue
		}
		if old, ok := env.Get(OldPrefix + name); ok {
			d.Set(name, old)
			d.Unset(OldPrefix + name)
			continue
		}
		d.Unset(name)
	}
	d.Unset(VarsKey)
	d.Unset(TypeKey)
	return d, true
}

// ForeignVenvDeactivationDelta는 직접 source로 활성화된 virtualenv를 제거한다.
func ForeignVenvDeactivationDelta(env *envtable.Table, prefix string) delta.Delta {
	var d delta.Delta
	if path, ok := env.Get("PATH"); ok {
		d.Set("PATH", removePath(path, filepath.Join(prefix, "bin")))
	}
	d.Unset("VIRTUAL_ENV")
	d.Unset("VIRTUAL_ENV_PROMPT")
	return d
}

// ForeignCondaDeactivationDelta는 `conda activate`로 활성화된 환경을 제거한다.
func ForeignCondaDeactivationDelta(env *envtable.Table) delta.Delta {
	var d delta.Delta
	if prefix := env.Lookup("CONDA_PREFIX"); prefix != "" {
		if path, ok := env.Get("PATH"); ok {
			d.Set("PATH", removePath(path, filepath.Join(prefix, "bin")))
		}
	}
	d.Unset("CONDA_PREFIX")
	d.Unset("CONDA_DEFAULT_ENV")
	d.Unset("CONDA_PROMPT_MODIFIER")
	return d
}

func joinPath(dir, path string) string {
	if path == "" {
		return dir
	}
	return dir + string(filepath.ListSeparator) + path
}

func removePath(path, dir string) string {
	parts := filepath.SplitList(path)
	kept := parts[:0]
	for _, p := range parts {
		if filepath.Clean(p) != filepath.Clean(dir) {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, string(filepath.ListSeparator))
}

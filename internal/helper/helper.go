// Package helper implements the verbs the shell hook delegates to:
// activate, deactivate, link and unlink. Verbs never print shell code; the
// environment changes they want are returned as a delta.Delta and status
// messages go through ui.Printer on stderr.
package helper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hbjs97/pyact/internal/cmdexec"
	"github.com/hbjs97/pyact/internal/conda"
	"github.com/hbjs97/pyact/internal/config"
	"github.com/hbjs97/pyact/internal/delta"
	"github.com/hbjs97/pyact/internal/envfile"
	"github.com/hbjs97/pyact/internal/envtable"
	"github.com/hbjs97/pyact/internal/ui"
	"go.uber.org/zap"
)

// Verb는 helper가 수행하는 작업 이름이다.
type Verb string

const (
	VerbActivate   Verb = "activate"
	VerbDeactivate Verb = "deactivate"
	VerbLink       Verb = "link"
	VerbUnlink     Verb = "unlink"
)

// Verbs는 지원하는 모든 verb다.
var Verbs = []Verb{VerbActivate, VerbDeactivate, VerbLink, VerbUnlink}

// ErrUsage는 verb 인자가 잘못되었을 때의 sentinel error다.
var ErrUsage = errors.New("usage error")

// Helper는 한 번의 helper 실행 컨텍스트다.
type Helper struct {
	// Dir은 작업 디렉토리다.
	Dir string
	// Env는 호출한 셸의 환경이다.
	Env       *envtable.Table
	Config    *config.Config
	Commander cmdexec.Commander
	Conda     *conda.Resolver
	UI        *ui.Printer
	Logger    *zap.Logger
}

// Run은 verb를 실행하고 적용할 delta를 반환한다.
// 사용자에게 보여줄 에러는 UI로 출력한 뒤 반환한다.
func (h *Helper) Run(ctx context.Context, verb Verb, args []string) (delta.Delta, error) {
	switch verb {
	case VerbActivate:
		d, err := h.Activate(ctx)
		if err != nil {
			h.UI.Error("%v", err)
		}
		return d, err
	case VerbDeactivate:
		return h.Deactivate(), nil
	case VerbLink:
		envType, target, err := ParseLinkArgs(args)
		if err != nil {
			h.UI.Error("%v", err)
			return delta.Delta{}, err
		}
		return delta.Delta{}, h.Link(envType, target)
	case VerbUnlink:
		err := h.Unlink()
		if err != nil {
			h.UI.Error("%v", err)
		}
		return delta.Delta{}, err
	default:
		err := fmt.Errorf("helper.Run: %w: 알 수 없는 verb %q", ErrUsage, verb)
		h.UI.Error("%v", err)
		return delta.Delta{}, err
	}
}

// ParseLinkArgs는 link 인자를 해석한다.
// "<type> <name-or-path>" 또는 venv 경로 하나를 받는다.
func ParseLinkArgs(args []string) (envfile.Type, string, error) {
	switch len(args) {
	case 1:
		return envfile.Venv, args[0], nil
	case 2:
		t := envfile.Type(args[0])
		if !envfile.Linkable(t) {
			return "", "", fmt.Errorf("helper.ParseLinkArgs: %w: 환경 종류는 venv 또는 conda: %q", envfile.ErrInvalid, args[0])
		}
		return t, args[1], nil
	default:
		return "", "", fmt.Errorf("helper.ParseLinkArgs: %w: link <venv|conda> <name-or-path>", ErrUsage)
	}
}

// Activate는 가장 가까운 환경 마커를 찾아 활성화 delta를 반환한다.
// 마커가 없으면 빈 delta다.
func (h *Helper) Activate(ctx context.Context) (delta.Delta, error) {
	found, err := envfile.FindNearest(h.Dir, h.Config.PriorityTypes())
	if err != nil {
		return delta.Delta{}, fmt.Errorf("helper.Activate: %w", err)
	}
	if found == nil {
		h.logger().Debug("no environment marker", zap.String("dir", h.Dir))
		return delta.Delta{}, nil
	}
	h.logger().Debug("environment marker found", zap.String("type", string(found.Type)), zap.String("path", found.Path))
	return h.activate(ctx, found.Type, found.Path)
}

func (h *Helper) activate(ctx context.Context, t envfile.Type, target string) (delta.Delta, error) {
	switch t {
	case envfile.Linked:
		l, err := envfile.ReadLink(target)
		if err != nil {
			return delta.Delta{}, fmt.Errorf("helper.Activate: %w", err)
		}
		return h.activate(ctx, l.Type, l.Target)

	case envfile.Poetry:
		if !h.hasDependency("poetry") {
			return delta.Delta{}, nil
		}
		h.UI.Info("Try to activate '%s' environment ...", t)
		prefix, err := h.poetryEnvPath(ctx, filepath.Dir(target))
		if err != nil {
			h.UI.Info("poetry 환경을 찾을 수 없습니다. 'poetry install'을 실행하세요.")
			h.logger().Debug("poetry env info failed", zap.Error(err))
			return delta.Delta{}, nil
		}
		return VenvDelta(h.Env, prefix), nil

	case envfile.Venv:
		if !envfile.IsVenv(target) {
			return delta.Delta{}, fmt.Errorf("helper.Activate: %w: virtualenv가 아님: %s", envfile.ErrNotFound, target)
		}
		h.UI.Info("Try to activate '%s' environment ...", t)
		return VenvDelta(h.Env, target), nil

	case envfile.Conda:
		if !h.hasDependency("conda") {
			return delta.Delta{}, nil
		}
		name := target
		if info, err := os.Stat(target); err == nil && info.Mode().IsRegular() {
			n, err := envfile.CondaEnvName(target)
			if err != nil {
				return delta.Delta{}, fmt.Errorf("helper.Activate: %w", err)
			}
			name = n
		}
		h.UI.Info("Try to activate '%s' environment ...", t)
		prefix, err := h.Conda.Prefix(ctx, name)
		if err != nil {
			return delta.Delta{}, fmt.Errorf("helper.Activate: %w", err)
		}
		if conda.IsPath(name) {
			name = prefix
		}
		return CondaDelta(h.Env, name, prefix), nil

	default:
		return delta.Delta{}, fmt.Errorf("helper.Activate: %w: 알 수 없는 환경 종류 %q", envfile.ErrInvalid, t)
	}
}

func (h *Helper) poetryEnvPath(ctx context.Context, projectDir string) (string, error) {
	out, err := h.Commander.Run(ctx, "poetry", "--directory", projectDir, "env", "info", "--path")
	if err != nil {
		return "", fmt.Errorf("helper.poetryEnvPath: %w", err)
	}
	// poetry가 경고를 함께 출력할 수 있으므로 마지막 줄만 사용한다.
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	prefix := strings.TrimSpace(lines[len(lines)-1])
	if prefix == "" || !envfile.IsVenv(prefix) {
		return "", fmt.Errorf("helper.poetryEnvPath: %w: %q", envfile.ErrNotFound, prefix)
	}
	return prefix, nil
}

func (h *Helper) hasDependency(name string) bool {
	if _, err := h.Commander.LookPath(name); err == nil {
		return true
	}
	h.UI.Info("Necessary dependency '%s' not installed, omitting this!", name)
	return false
}

// Deactivate는 현재 활성 환경을 되돌리는 delta를 반환한다. 활성 환경이 없으면 빈 delta다.
func (h *Helper) Deactivate() delta.Delta {
	if d, ok := OwnedDeactivationDelta(h.Env); ok {
		return d
	}
	if !h.Config.IsDeactivateForeign() {
		return delta.Delta{}
	}
	if venv := h.Env.Lookup("VIRTUAL_ENV"); venv != "" {
		return ForeignVenvDeactivationDelta(h.Env, venv)
	}
	name := h.Env.Lookup("CONDA_DEFAULT_ENV")
	if name == "" || (name == conda.BaseEnv && h.Config.IsKeepCondaBase()) {
		return delta.Delta{}
	}
	return ForeignCondaDeactivationDelta(h.Env)
}

// Link는 작업 디렉토리를 환경에 연결한다.
func (h *Helper) Link(envType envfile.Type, nameOrPath string) error {
	if envfile.HasLink(h.Dir) {
		h.UI.Error("This directory is already linked! You can remove this by using 'unlink_py_environment'")
		return fmt.Errorf("helper.Link: %w", envfile.ErrAlreadyLinked)
	}

	target := nameOrPath
	switch envType {
	case envfile.Venv:
		if !filepath.IsAbs(target) {
			target = filepath.Join(h.Dir, target)
		}
		target = filepath.Clean(target)
		if !envfile.IsVenv(target) {
			h.UI.Error("'%s' is not a virtual environment", nameOrPath)
			return fmt.Errorf("helper.Link: %w: %s", envfile.ErrNotFound, target)
		}
	case envfile.Conda:
		if conda.IsPath(target) && !filepath.IsAbs(target) {
			target = filepath.Join(h.Dir, target)
		}
	default:
		return fmt.Errorf("helper.Link: %w: %q", envfile.ErrInvalid, envType)
	}

	if err := envfile.WriteLink(h.Dir, envfile.Link{Type: envType, Target: target}); err != nil {
		if errors.Is(err, envfile.ErrAlreadyLinked) {
			h.UI.Error("This directory is already linked! You can remove this by using 'unlink_py_environment'")
		}
		return fmt.Errorf("helper.Link: %w", err)
	}
	h.UI.Success("Directory linked!")
	return nil
}

// Unlink는 작업 디렉토리의 연결 파일을 제거한다.
func (h *Helper) Unlink() error {
	removed, err := envfile.RemoveLink(h.Dir)
	if err != nil {
		return fmt.Errorf("helper.Unlink: %w", err)
	}
	if !removed {
		h.UI.Info("No file found that explicitly links this directory, looked for: %s", envfile.LinkedFileName)
	}
	h.UI.Success("Directory unlinked!")
	return nil
}

func (h *Helper) logger() *zap.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return zap.NewNop()
}

package setup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hbjs97/pyact/internal/envfile"
)

// HuhFormRunner는 charmbracelet/huh 기반의 FormRunner 구현이다.
// stdout은 셸이 eval하므로 폼은 Output(기본 stderr)에 그린다.
type HuhFormRunner struct {
	Output io.Writer
}

var _ FormRunner = (*HuhFormRunner)(nil)

func (h *HuhFormRunner) newForm(groups ...*huh.Group) *huh.Form {
	out := h.Output
	if out == nil {
		out = os.Stderr
	}
	return huh.NewForm(groups...).WithOutput(out)
}

// RunConfirm은 확인 프롬프트를 표시한다.
func (h *HuhFormRunner) RunConfirm(message string) (bool, error) {
	var confirm bool
	form := h.newForm(huh.NewGroup(
		huh.NewConfirm().Title(message).Value(&confirm),
	))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("setup.RunConfirm: %w", err)
	}
	return confirm, nil
}

// RunShellSelect는 셸 선택 UI를 표시한다.
func (h *HuhFormRunner) RunShellSelect(shells []string) (string, error) {
	var selected string
	options := make([]huh.Option[string], len(shells))
	for i, s := range shells {
		options[i] = huh.NewOption(s, s)
	}

	form := h.newForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("hook을 설치할 셸을 선택하세요").
			Options(options...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("setup.RunShellSelect: %w", err)
	}
	return selected, nil
}

// RunLinkForm은 환경 종류를 고른 뒤 venv 경로 또는 conda 환경을 입력받는다.
func (h *HuhFormRunner) RunLinkForm(condaEnvs []string) (*LinkInput, error) {
	input := &LinkInput{Type: envfile.Venv}
	form := h.newForm(huh.NewGroup(
		huh.NewSelect[envfile.Type]().
			Title("연결할 환경 종류").
			Options(
				huh.NewOption("virtualenv (경로)", envfile.Venv),
				huh.NewOption("conda", envfile.Conda),
			).
			Value(&input.Type),
	))
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("setup.RunLinkForm: %w", err)
	}

	var field huh.Field
	switch {
	case input.Type == envfile.Venv:
		field = huh.NewInput().
			Title("virtualenv 경로").
			Description("bin/activate 또는 pyvenv.cfg가 있는 디렉토리").
			Value(&input.Target).
			Validate(validateVenvPath)
	case len(condaEnvs) > 0:
		options := make([]huh.Option[string], len(condaEnvs))
		for i, e := range condaEnvs {
			options[i] = huh.NewOption(e, e)
		}
		field = huh.NewSelect[string]().
			Title("conda 환경").
			Options(options...).
			Value(&input.Target)
	default:
		field = huh.NewInput().
			Title("conda 환경 이름 또는 prefix 경로").
			Value(&input.Target).
			Validate(huh.ValidateNotEmpty())
	}

	if err := h.newForm(huh.NewGroup(field)).Run(); err != nil {
		return nil, fmt.Errorf("setup.RunLinkForm: %w", err)
	}
	input.Target = strings.TrimSpace(input.Target)
	return input, nil
}

func validateVenvPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("경로를 입력하세요")
	}
	abs, err := filepath.Abs(s)
	if err != nil {
		return err
	}
	if !envfile.IsVenv(abs) {
		return fmt.Errorf("virtualenv가 아닙니다: %s", abs)
	}
	return nil
}

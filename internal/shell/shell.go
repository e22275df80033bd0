package shell

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/hbjs97/pyact/internal/delta"
)

// Marker는 rc 파일에 설치된 pyact 줄을 식별하는 주석이다.
const Marker = "# pyact shell integration"

// Supported는 init 스크립트를 제공하는 셸 목록이다.
var Supported = []string{"zsh", "bash", "fish"}

// ErrUnsupportedShell은 지원하지 않는 셸일 때의 sentinel error다.
var ErrUnsupportedShell = errors.New("unsupported shell")

// IsSupported는 shellType이 지원되는 셸인지 반환한다.
func IsSupported(shellType string) bool {
	for _, s := range Supported {
		if s == shellType {
			return true
		}
	}
	return false
}

// Render는 delta를 셸 문장으로 변환한다. 이름이 잘못된 레코드는 건너뛴다.
// fish가 아니면 POSIX 문법(export/unset)을 사용한다.
func Render(shellType string, d delta.Delta) string {
	var b strings.Builder
	for _, r := range d.Records {
		if !delta.ValidName(r.Name) {
			continue
		}
		if shellType == "fish" {
			renderFish(&b, r)
			continue
		}
		if r.Unset {
			fmt.Fprintf(&b, "unset %s\n", r.Name)
			continue
		}
		fmt.Fprintf(&b, "export %s=%s\n", r.Name, shellescape.Quote(r.Value))
	}
	return b.String()
}

func renderFish(b *strings.Builder, r delta.Record) {
	switch {
	case r.Unset:
		fmt.Fprintf(b, "set -e %s\n", r.Name)
	case r.Name == "PATH" && r.Value == "":
		b.WriteString("set -gx PATH\n")
	case r.Name == "PATH":
		// fish의 PATH는 리스트다.
		fmt.Fprintf(b, "set -gx PATH (string split -- ':' %s)\n", fishQuote(r.Value))
	default:
		fmt.Fprintf(b, "set -gx %s %s\n", r.Name, fishQuote(r.Value))
	}
}

func fishQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}

// RCLine은 rc 파일에 추가할 init 줄을 반환한다.
func RCLine(shellType, exe string) (string, error) {
	switch shellType {
	case "zsh", "bash":
		return fmt.Sprintf("eval \"$(%s init %s)\"", shellescape.Quote(exe), shellType), nil
	case "fish":
		return fmt.Sprintf("%s init fish | source", fishQuote(exe)), nil
	default:
		return "", fmt.Errorf("shell.RCLine: %w: %s", ErrUnsupportedShell, shellType)
	}
}

// InitScript는 exe가 있는 디렉토리를 PATH 앞에 추가하고
// 훅 함수 네 개를 정의한 뒤 디렉토리 변경 훅을 등록하는 스크립트를 반환한다.
// 여러 번 source해도 훅은 한 번만 등록된다.
func InitScript(shellType, exe string) (string, error) {
	binDir := filepath.Dir(exe)
	switch shellType {
	case "zsh":
		return posixPath(binDir) + posixFunctions("zsh") + zshHook, nil
	case "bash":
		return posixPath(binDir) + posixFunctions("bash") + bashHook, nil
	case "fish":
		return fishScript(binDir), nil
	default:
		return "", fmt.Errorf("shell.InitScript: %w: %s", ErrUnsupportedShell, shellType)
	}
}

func posixPath(binDir string) string {
	q := shellescape.Quote(binDir)
	return fmt.Sprintf(`%s
case ":${PATH}:" in
  *:%s:*) ;;
  *) export PATH=%s"${PATH:+:${PATH}}" ;;
esac
`, Marker, q, q)
}

func posixFunctions(shellType string) string {
	return strings.ReplaceAll(`
activate_py_environment_if_existing() {
  eval "$(pyact hook activate --shell SHELL)"
}

deactivate_py_environment() {
  eval "$(pyact hook deactivate --shell SHELL)"
}

link_py_environment() {
  local _pyact_out _pyact_status
  _pyact_out="$(pyact hook link --shell SHELL -- "$@")"
  _pyact_status=$?
  eval "$_pyact_out"
  return $_pyact_status
}

unlink_py_environment() {
  eval "$(pyact hook unlink --shell SHELL)"
}
`, "SHELL", shellType)
}

const zshHook = `
autoload -Uz add-zsh-hook
add-zsh-hook -d chpwd activate_py_environment_if_existing
add-zsh-hook chpwd activate_py_environment_if_existing
activate_py_environment_if_existing
`

const bashHook = `
_pyact_prompt_command() {
  if [[ "${_PYACT_LAST_PWD-}" != "$PWD" ]]; then
    _PYACT_LAST_PWD="$PWD"
    activate_py_environment_if_existing
  fi
}
PROMPT_COMMAND="${PROMPT_COMMAND//_pyact_prompt_command;/}"
PROMPT_COMMAND="_pyact_prompt_command;${PROMPT_COMMAND}"
_pyact_prompt_command
`

func fishScript(binDir string) string {
	q := fishQuote(binDir)
	return fmt.Sprintf(`%s
if not contains -- %s $PATH
  set -gx PATH %s $PATH
end

function activate_py_environment_if_existing --on-variable PWD
  pyact hook activate --shell fish | source
end

function deactivate_py_environment
  pyact hook deactivate --shell fish | source
end

function link_py_environment
  set -l _pyact_out (pyact hook link --shell fish -- $argv)
  set -l _pyact_status $status
  printf '%%s\n' $_pyact_out | source
  return $_pyact_status
end

function unlink_py_environment
  pyact hook unlink --shell fish | source
end

activate_py_environment_if_existing
`, Marker, q, q)
}

package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hbjs97/pyact/internal/cmdexec"
	"github.com/hbjs97/pyact/internal/config"
	"github.com/hbjs97/pyact/internal/delta"
	"github.com/hbjs97/pyact/internal/shell"
)

// Status는 진단 결과 상태다.
type Status string

const (
	// StatusOK는 정상 상태다.
	StatusOK Status = "OK"
	// StatusWarn는 경고 상태다.
	StatusWarn Status = "WARN"
	// StatusFail는 실패 상태다.
	StatusFail Status = "FAIL"
)

// DiagResult는 하나의 진단 결과다.
type DiagResult struct {
	Name    string
	Status  Status
	Message string
	Fix     string
}

// Options는 RunAll이 사용하는 진단 대상이다.
type Options struct {
	CfgPath   string
	Shell     string
	RCPath    string
	HelperCmd []string
}

// CheckBinaries는 python3(필수)와 conda, poetry(선택) 존재 여부를 확인한다.
func CheckBinaries(ctx context.Context, cmd cmdexec.Commander) []DiagResult {
	binaries := []struct {
		name     string
		required bool
		install  string
	}{
		{"python3", true, "https://www.python.org/downloads/"},
		{"conda", false, "https://docs.conda.io/en/latest/miniconda.html"},
		{"poetry", false, "https://python-poetry.org/docs/#installation"},
	}

	var results []DiagResult
	for _, b := range binaries {
		out, err := cmd.Run(ctx, b.name, "--version")
		if err != nil {
			status := StatusWarn
			message := fmt.Sprintf("%s 없음, %s 환경은 건너뜁니다", b.name, b.name)
			if b.required {
				status = StatusFail
				message = fmt.Sprintf("%s 없음", b.name)
			}
			results = append(results, DiagResult{
				Name:    b.name,
				Status:  status,
				Message: message,
				Fix:     fmt.Sprintf("설치: %s", b.install),
			})
			continue
		}
		results = append(results, DiagResult{
			Name:    b.name,
			Status:  StatusOK,
			Message: strings.TrimSpace(string(out)),
		})
	}
	return results
}

// CheckConfig는 설정 파일을 읽을 수 있는지와 권한을 확인한다.
func CheckConfig(path string) DiagResult {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DiagResult{
			Name:    "config",
			Status:  StatusOK,
			Message: "설정 파일 없음, 기본값 사용",
		}
	}
	if _, err := config.Load(path); err != nil {
		return DiagResult{
			Name:    "config",
			Status:  StatusFail,
			Message: err.Error(),
			Fix:     fmt.Sprintf("%s 수정", path),
		}
	}
	if err := config.ValidateFilePermissions(path); err != nil {
		return DiagResult{
			Name:    "config",
			Status:  StatusWarn,
			Message: err.Error(),
			Fix:     fmt.Sprintf("chmod 600 %s", path),
		}
	}
	return DiagResult{
		Name:    "config",
		Status:  StatusOK,
		Message: path,
	}
}

// CheckShellHook는 rc 파일에 pyact hook이 설치되어 있는지 확인한다.
func CheckShellHook(shellType, rcPath string) DiagResult {
	if !shell.IsSupported(shellType) {
		return DiagResult{
			Name:    "shell_hook",
			Status:  StatusWarn,
			Message: fmt.Sprintf("지원하지 않는 셸: %q", shellType),
			Fix:     "pyact setup --shell zsh",
		}
	}
	content, err := os.ReadFile(rcPath)
	if err != nil || !strings.Contains(string(content), shell.Marker) {
		return DiagResult{
			Name:    "shell_hook",
			Status:  StatusFail,
			Message: fmt.Sprintf("%s에 hook 없음", rcPath),
			Fix:     fmt.Sprintf("pyact setup --shell %s", shellType),
		}
	}
	return DiagResult{
		Name:    "shell_hook",
		Status:  StatusOK,
		Message: fmt.Sprintf("%s hook 설치됨 (%s)", shellType, rcPath),
	}
}

// CheckHelper는 helper가 실행되고 올바른 delta 문서를 출력하는지 확인한다.
// deactivate는 파일을 변경하지 않으므로 진단에 사용한다.
func CheckHelper(ctx context.Context, cmd cmdexec.Commander, helperCmd []string) DiagResult {
	if len(helperCmd) == 0 {
		return DiagResult{Name: "helper", Status: StatusFail, Message: "helper 명령이 비어 있음"}
	}
	args := append(append([]string{}, helperCmd[1:]...), "deactivate")
	out, err := cmd.Output(ctx, nil, helperCmd[0], args...)
	if err != nil {
		return DiagResult{
			Name:    "helper",
			Status:  StatusFail,
			Message: fmt.Sprintf("%s 실행 실패: %v", helperCmd[0], err),
			Fix:     "config의 helper_path 확인",
		}
	}
	if _, err := delta.Decode(out); err != nil {
		return DiagResult{
			Name:    "helper",
			Status:  StatusFail,
			Message: fmt.Sprintf("helper 출력 해석 실패: %v", err),
			Fix:     "config의 helper_path 확인",
		}
	}
	return DiagResult{
		Name:    "helper",
		Status:  StatusOK,
		Message: strings.Join(helperCmd, " "),
	}
}

// RunAll은 모든 진단을 실행한다.
func RunAll(ctx context.Context, cmd cmdexec.Commander, opts Options) []DiagResult {
	var results []DiagResult
	results = append(results, CheckBinaries(ctx, cmd)...)
	results = append(results, CheckConfig(opts.CfgPath))
	results = append(results, CheckShellHook(opts.Shell, opts.RCPath))
	results = append(results, CheckHelper(ctx, cmd, opts.HelperCmd))
	return results
}

// HasFailure는 결과 중 FAIL이 있는지 반환한다.
func HasFailure(results []DiagResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hbjs97/pyact/internal/cmdexec"
	"github.com/hbjs97/pyact/internal/config"
	"github.com/hbjs97/pyact/internal/doctor"
	"github.com/hbjs97/pyact/internal/shell"
)

// Runner는 setup의 진입점이다.
type Runner struct {
	CfgPath    string
	Commander  cmdexec.Commander
	FormRunner FormRunner
	// Executable은 rc 파일에 기록할 pyact 실행 파일의 절대 경로다.
	Executable string
	// Shell이 비어있으면 $SHELL에서 감지한다.
	Shell string
	// RCPath는 테스트용. 비어있으면 셸별 기본 경로.
	RCPath string
	// Interactive가 false면 확인 없이 진행한다.
	Interactive bool
	HelperCmd   []string
	Out         io.Writer
}

// Run은 setup 플로우를 실행한다.
// 설정 파일이 없으면 기본값으로 만들고, rc 파일에 hook을 설치한 뒤 진단을 실행한다.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.ensureConfig(); err != nil {
		return err
	}

	shellType, err := r.shellType()
	if err != nil {
		return err
	}
	rcPath := r.RCPath
	if rcPath == "" {
		rcPath = ShellRCPath(shellType)
	}

	if err := r.installHook(shellType, rcPath); err != nil {
		return err
	}

	r.runDoctor(ctx, shellType, rcPath)
	return nil
}

func (r *Runner) ensureConfig() error {
	_, err := os.Stat(r.CfgPath)
	if errors.Is(err, os.ErrNotExist) {
		if err := config.Save(r.CfgPath, config.Default()); err != nil {
			return err
		}
		fmt.Fprintf(r.out(), "설정 파일이 생성되었습니다: %s\n", r.CfgPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("setup.Run: %w", err)
	}
	if _, err := config.Load(r.CfgPath); err != nil {
		return err
	}
	fmt.Fprintf(r.out(), "기존 설정 파일을 사용합니다: %s\n", r.CfgPath)
	return nil
}

func (r *Runner) shellType() (string, error) {
	shellType := r.Shell
	if shellType == "" {
		shellType = DetectShell()
	}
	if shell.IsSupported(shellType) {
		return shellType, nil
	}
	if r.Shell == "" && r.Interactive {
		return r.FormRunner.RunShellSelect(shell.Supported)
	}
	return "", fmt.Errorf("setup.Run: %w: %q", shell.ErrUnsupportedShell, shellType)
}

func (r *Runner) installHook(shellType, rcPath string) error {
	if HookInstalled(rcPath) {
		fmt.Fprintf(r.out(), "셸 hook이 이미 설치되어 있습니다: %s\n", rcPath)
		return nil
	}

	if r.Interactive {
		ok, err := r.FormRunner.RunConfirm(fmt.Sprintf("%s에 pyact hook을 추가할까요?", rcPath))
		if err != nil {
			return err
		}
		if !ok {
			line, _ := shell.RCLine(shellType, r.Executable)
			fmt.Fprintf(r.out(), "건너뜀. 직접 추가하려면 %s에 다음 줄을 넣으세요:\n  %s\n", rcPath, line)
			return nil
		}
	}

	if _, err := InstallShellHook(shellType, rcPath, r.Executable); err != nil {
		return err
	}
	fmt.Fprintf(r.out(), "셸 hook이 설치되었습니다: %s\n", rcPath)
	return nil
}

// runDoctor는 설정 완료 후 환경 진단을 실행한다.
func (r *Runner) runDoctor(ctx context.Context, shellType, rcPath string) {
	fmt.Fprintln(r.out(), "\n환경 진단 실행 중...")
	results := doctor.RunAll(ctx, r.Commander, doctor.Options{
		CfgPath:   r.CfgPath,
		Shell:     shellType,
		RCPath:    rcPath,
		HelperCmd: r.HelperCmd,
	})
	PrintResults(r.out(), results)
}

// PrintResults는 진단 결과를 출력한다.
func PrintResults(w io.Writer, results []doctor.DiagResult) {
	for _, res := range results {
		icon := "✓"
		if res.Status == doctor.StatusFail {
			icon = "✗"
		} else if res.Status == doctor.StatusWarn {
			icon = "!"
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", icon, res.Name, res.Message)
		if res.Fix != "" {
			fmt.Fprintf(w, "      Fix: %s\n", res.Fix)
		}
	}
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stdout
}

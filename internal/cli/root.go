package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hbjs97/pyact/internal/cache"
	"github.com/hbjs97/pyact/internal/cmdexec"
	"github.com/hbjs97/pyact/internal/conda"
	"github.com/hbjs97/pyact/internal/config"
	"github.com/hbjs97/pyact/internal/logging"
	"github.com/hbjs97/pyact/internal/setup"
	"github.com/hbjs97/pyact/internal/shell"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// App은 CLI 명령이 공유하는 의존성이다. 테스트에서는 필드를 직접 주입한다.
type App struct {
	Commander  cmdexec.Commander
	CfgPath    string
	Verbose    bool
	FormRunner setup.FormRunner
	// CachePath가 비어있으면 사용자 캐시 디렉토리를 사용한다.
	CachePath string

	// Environ은 호출한 셸의 환경이다. nil이면 os.Environ.
	Environ func() []string
	// Getwd는 nil이면 os.Getwd.
	Getwd func() (string, error)
	// Executable은 nil이면 os.Executable.
	Executable func() (string, error)
	// IsTerminal은 대화형 폼을 띄울 수 있는지 반환한다. nil이면 stdin/stderr TTY 검사.
	IsTerminal func() bool

	Logger *zap.Logger
}

// NewApp은 실제 명령을 실행하는 App을 생성한다.
func NewApp() *App {
	return &App{
		Commander:  &cmdexec.RealCommander{},
		FormRunner: &setup.HuhFormRunner{Output: os.Stderr},
	}
}

// NewRootCmd는 pyact CLI의 루트 명령을 생성한다.
func (a *App) NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pyact",
		Short:        "디렉토리에 연결된 Python 환경을 자동으로 활성화한다",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.Logger != nil {
				return nil
			}
			logger, err := logging.New(logging.Verbose(a.Verbose))
			if err != nil {
				return err
			}
			a.Logger = logger
			return nil
		},
	}

	defaultCfg := a.CfgPath
	if defaultCfg == "" {
		defaultCfg = config.DefaultPath()
	}
	cmd.PersistentFlags().StringVar(&a.CfgPath, "config", defaultCfg, "설정 파일 경로")
	cmd.PersistentFlags().BoolVar(&a.Verbose, "verbose", false, "상세 출력 (PYACT_DEBUG=1과 같음)")

	cmd.AddCommand(
		a.newHookCmd(),
		a.newHelperCmd(),
		a.newInitCmd(),
		a.newSetupCmd(),
		a.newStatusCmd(),
		a.newDoctorCmd(),
	)
	return cmd
}

func (a *App) environ() []string {
	if a.Environ != nil {
		return a.Environ()
	}
	return os.Environ()
}

func (a *App) getwd() (string, error) {
	if a.Getwd != nil {
		return a.Getwd()
	}
	return os.Getwd()
}

func (a *App) executable() (string, error) {
	if a.Executable != nil {
		return a.Executable()
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("cli.executable: %w", err)
	}
	return exe, nil
}

func (a *App) interactive() bool {
	if a.IsTerminal != nil {
		return a.IsTerminal()
	}
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

func (a *App) logger() *zap.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return zap.NewNop()
}

// loadConfig는 설정을 읽는다. lenient면 오류를 경고로 남기고 기본값을 반환한다.
func (a *App) loadConfig(lenient bool) (*config.Config, error) {
	cfg, err := config.Load(a.CfgPath)
	if err != nil {
		if lenient {
			a.logger().Warn("config load failed, using defaults", zap.String("path", a.CfgPath), zap.Error(err))
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// helperCmd는 helper 실행 명령을 반환한다. helper_path가 없으면 자기 자신의 숨은 helper 명령이다.
func (a *App) helperCmd(cfg *config.Config) ([]string, error) {
	if cfg.HelperPath != "" {
		return []string{cfg.HelperPath}, nil
	}
	exe, err := a.executable()
	if err != nil {
		return nil, err
	}
	return []string{exe, "helper"}, nil
}

// helperEnv는 helper 하위 프로세스에 추가로 넘길 환경이다.
func (a *App) helperEnv() []string {
	env := []string{"PYACT_CONFIG=" + a.CfgPath}
	if logging.Verbose(a.Verbose) {
		env = append(env, logging.DebugEnv+"=1")
	}
	return env
}

func (a *App) condaResolver(cfg *config.Config) *conda.Resolver {
	cachePath := a.CachePath
	if cachePath == "" {
		cachePath = cache.DefaultPath()
	}
	return &conda.Resolver{
		Commander: a.Commander,
		CachePath: cachePath,
		TTL:       time.Duration(cfg.CondaCacheTTLHours) * time.Hour,
		Logger:    a.logger(),
	}
}

func shellFlagUsage() string {
	return "셸 유형 (" + strings.Join(shell.Supported, ", ") + ")"
}

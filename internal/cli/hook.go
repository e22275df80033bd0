package cli

import (
	"context"
	"fmt"

	"github.com/hbjs97/pyact/internal/dispatch"
	"github.com/hbjs97/pyact/internal/envtable"
	"github.com/hbjs97/pyact/internal/shell"
	"github.com/hbjs97/pyact/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// hookOp은 셸 함수 하나에 대응하는 dispatcher 작업이다.
type hookOp func(ctx context.Context, d *dispatch.Dispatcher, args []string) error

func (a *App) newHookCmd() *cobra.Command {
	var shellType string

	cmd := &cobra.Command{
		Use:   "hook",
		Short: "셸 훅 함수가 eval할 환경 변경 문장을 출력한다",
		Long: `셸 훅 함수가 호출하는 명령이다. helper를 실행해 결과를 환경 테이블에 반영하고,
셸에 적용할 순변경만 export/unset 문장으로 stdout에 출력한다.`,
	}
	cmd.PersistentFlags().StringVar(&shellType, "shell", "zsh", shellFlagUsage())

	sub := []struct {
		use   string
		short string
		args  cobra.PositionalArgs
		op    hookOp
	}{
		{"activate", "현재 디렉토리의 환경을 활성화한다 (activate_py_environment_if_existing)", cobra.NoArgs,
			func(ctx context.Context, d *dispatch.Dispatcher, _ []string) error {
				d.ActivateIfExisting(ctx)
				return nil
			}},
		{"deactivate", "활성 환경을 비활성화한다 (deactivate_py_environment)", cobra.NoArgs,
			func(ctx context.Context, d *dispatch.Dispatcher, _ []string) error {
				d.Deactivate(ctx)
				return nil
			}},
		{"link [venv-path | <venv|conda> <name-or-path>]", "현재 디렉토리를 환경에 연결하고 활성화한다 (link_py_environment)", cobra.MaximumNArgs(2),
			a.linkOp},
		{"unlink", "비활성화 후 현재 디렉토리의 연결을 해제한다 (unlink_py_environment)", cobra.NoArgs,
			func(ctx context.Context, d *dispatch.Dispatcher, _ []string) error {
				d.Unlink(ctx)
				return nil
			}},
	}
	for _, s := range sub {
		op := s.op
		cmd.AddCommand(&cobra.Command{
			Use:           s.use,
			Short:         s.short,
			Args:          s.args,
			SilenceErrors: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runHook(cmd, shellType, op, args)
			},
		})
	}
	return cmd
}

func (a *App) runHook(cmd *cobra.Command, shellType string, op hookOp, args []string) error {
	if !shell.IsSupported(shellType) {
		err := fmt.Errorf("cli.hook: %w: %s", shell.ErrUnsupportedShell, shellType)
		ui.New(cmd.ErrOrStderr(), false).Error("%v", err)
		return err
	}

	cfg, _ := a.loadConfig(true)
	helperCmd, err := a.helperCmd(cfg)
	if err != nil {
		return err
	}

	env := envtable.FromEnviron(a.environ())
	before := env.Clone()
	d := &dispatch.Dispatcher{
		Commander: a.Commander,
		HelperCmd: helperCmd,
		Env:       env,
		ExtraEnv:  a.helperEnv(),
		Logger:    a.logger(),
	}

	opErr := op(cmd.Context(), d, args)

	changes := envtable.Diff(before, env)
	a.logger().Debug("hook finished", zap.String("op", cmd.Name()), zap.Int("changes", len(changes.Records)))
	fmt.Fprint(cmd.OutOrStdout(), shell.Render(shellType, changes))
	return opErr
}

// linkOp은 인자가 없고 터미널이면 huh 폼으로 연결 대상을 입력받는다.
func (a *App) linkOp(ctx context.Context, d *dispatch.Dispatcher, args []string) error {
	if len(args) == 0 && a.interactive() && a.FormRunner != nil {
		input, err := a.FormRunner.RunLinkForm(a.condaEnvNames(ctx))
		if err != nil {
			return fmt.Errorf("cli.link: %w", err)
		}
		args = input.Args()
	}
	return d.Link(ctx, args...)
}

// condaEnvNames는 폼에 보여줄 conda 환경 목록이다. conda가 없으면 nil이다.
func (a *App) condaEnvNames(ctx context.Context) []string {
	cfg, _ := a.loadConfig(true)
	info, err := a.condaResolver(cfg).Info(ctx)
	if err != nil {
		a.logger().Debug("conda env listing unavailable", zap.Error(err))
		return nil
	}
	return info.Names()
}

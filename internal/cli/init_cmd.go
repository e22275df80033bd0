package cli

import (
	"fmt"

	"github.com/hbjs97/pyact/internal/setup"
	"github.com/hbjs97/pyact/internal/shell"
	"github.com/spf13/cobra"
)

func (a *App) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "init [zsh|bash|fish]",
		Short:     "셸 통합 스크립트를 출력한다",
		Long:      "rc 파일에서 eval \"$(pyact init zsh)\" 형태로 사용한다. 셸을 생략하면 $SHELL에서 감지한다.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: shell.Supported,
		RunE: func(cmd *cobra.Command, args []string) error {
			shellType := setup.DetectShell()
			if len(args) == 1 {
				shellType = args[0]
			}
			exe, err := a.executable()
			if err != nil {
				return err
			}
			script, err := shell.InitScript(shellType, exe)
			if err != nil {
				return fmt.Errorf("cli.init: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), script)
			return nil
		},
	}
}

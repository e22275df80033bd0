package cli

import (
	"github.com/hbjs97/pyact/internal/setup"
	"github.com/spf13/cobra"
)

func (a *App) newSetupCmd() *cobra.Command {
	var shellType string
	var yes bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "기본 설정 파일을 만들고 rc 파일에 셸 hook을 설치한다",
		RunE: func(cmd *cobra.Command, args []string) error {
			exe, err := a.executable()
			if err != nil {
				return err
			}
			cfg, err := a.loadConfig(true)
			if err != nil {
				return err
			}
			helperCmd, err := a.helperCmd(cfg)
			if err != nil {
				return err
			}

			runner := &setup.Runner{
				CfgPath:     a.CfgPath,
				Commander:   a.Commander,
				FormRunner:  a.FormRunner,
				Executable:  exe,
				Shell:       shellType,
				Interactive: !yes && a.FormRunner != nil && a.interactive(),
				HelperCmd:   helperCmd,
				Out:         cmd.OutOrStdout(),
			}
			return runner.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&shellType, "shell", "", shellFlagUsage()+", 생략하면 $SHELL에서 감지")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "확인 없이 진행")
	return cmd
}

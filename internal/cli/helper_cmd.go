package cli

import (
	"fmt"

	"github.com/hbjs97/pyact/internal/delta"
	"github.com/hbjs97/pyact/internal/envtable"
	"github.com/hbjs97/pyact/internal/helper"
	"github.com/hbjs97/pyact/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *App) newHelperCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "helper <activate|deactivate|link|unlink> [args...]",
		Short: "helper verb를 실행하고 환경 변경을 JSON으로 출력한다",
		Long: `hook 명령이 내부적으로 실행하는 helper다. stdout에는 한 개의 JSON 문서
{"version":1,"changes":[{"name":...,"value":...}|{"name":...,"unset":true}]}만 출력하고,
사용자 메시지는 stderr에 출력한다.`,
		Hidden:        true,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		ValidArgs:     []string{"activate", "deactivate", "link", "unlink"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHelper(cmd, helper.Verb(args[0]), args[1:])
		},
	}
}

func (a *App) runHelper(cmd *cobra.Command, verb helper.Verb, args []string) error {
	p := ui.New(cmd.ErrOrStderr(), false)
	cfg, err := a.loadConfig(false)
	if err != nil {
		p.Error("%v", err)
		return err
	}
	p = ui.New(cmd.ErrOrStderr(), cfg.Quiet)

	dir, err := a.getwd()
	if err != nil {
		return fmt.Errorf("cli.helper: %w", err)
	}

	h := &helper.Helper{
		Dir:       dir,
		Env:       envtable.FromEnviron(a.environ()),
		Config:    cfg,
		Commander: a.Commander,
		Conda:     a.condaResolver(cfg),
		UI:        p,
		Logger:    a.logger(),
	}
	changes, runErr := h.Run(cmd.Context(), verb, args)
	if runErr != nil {
		a.logger().Debug("helper verb failed", zap.String("verb", string(verb)), zap.Error(runErr))
	}
	if err := delta.Encode(cmd.OutOrStdout(), changes); err != nil {
		return err
	}
	return runErr
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hbjs97/pyact/internal/doctor"
	"github.com/hbjs97/pyact/internal/setup"
	"github.com/spf13/cobra"
)

func (a *App) newDoctorCmd() *cobra.Command {
	var shellType string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "환경 설정을 진단한다",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDoctor(cmd.Context(), cmd.OutOrStdout(), shellType)
		},
	}
	cmd.Flags().StringVar(&shellType, "shell", "", shellFlagUsage()+", 생략하면 $SHELL에서 감지")
	return cmd
}

func (a *App) runDoctor(ctx context.Context, w io.Writer, shellType string) error {
	if shellType == "" {
		shellType = setup.DetectShell()
	}
	cfg, _ := a.loadConfig(true)
	helperCmd, err := a.helperCmd(cfg)
	if err != nil {
		return err
	}

	results := doctor.RunAll(ctx, a.Commander, doctor.Options{
		CfgPath:   a.CfgPath,
		Shell:     shellType,
		RCPath:    setup.ShellRCPath(shellType),
		HelperCmd: helperCmd,
	})
	printDiagResults(w, results)
	return nil
}

// printDiagResults는 진단 결과 목록을 출력한다.
func printDiagResults(w io.Writer, results []doctor.DiagResult) {
	for _, r := range results {
		icon := statusIcon(r.Status)
		fmt.Fprintf(w, "  [%s] %s: %s\n", icon, r.Name, r.Message)
		if r.Fix != "" {
			fmt.Fprintf(w, "      Fix: %s\n", r.Fix)
		}
	}
}

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.StatusOK:
		return "OK"
	case doctor.StatusWarn:
		return "!!"
	case doctor.StatusFail:
		return "FAIL"
	default:
		return "??"
	}
}

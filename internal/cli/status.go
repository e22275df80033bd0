package cli

import (
	"fmt"
	"io"

	"github.com/hbjs97/pyact/internal/envfile"
	"github.com/hbjs97/pyact/internal/envtable"
	"github.com/hbjs97/pyact/internal/helper"
	"github.com/spf13/cobra"
)

func (a *App) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "현재 디렉토리의 환경 파일과 활성 환경을 표시한다",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runStatus(cmd.OutOrStdout())
		},
	}
}

func (a *App) runStatus(w io.Writer) error {
	cwd, err := a.getwd()
	if err != nil {
		return fmt.Errorf("cli.status: %w", err)
	}
	cfg, err := a.loadConfig(false)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "디렉토리: %s\n", cwd)
	found, err := envfile.FindNearest(cwd, cfg.PriorityTypes())
	if err != nil {
		return fmt.Errorf("cli.status: %w", err)
	}
	if found == nil {
		fmt.Fprintln(w, "환경 파일: 없음")
	} else {
		fmt.Fprintf(w, "환경 파일: %s (%s)\n", found.Path, found.Type)
		if found.Type == envfile.Linked {
			if l, err := envfile.ReadLink(found.Path); err == nil {
				fmt.Fprintf(w, "  연결:    %s %s\n", l.Type, l.Target)
			} else {
				fmt.Fprintf(w, "  연결:    읽기 실패 (%v)\n", err)
			}
		}
	}

	fmt.Fprintf(w, "활성 환경: %s\n", describeActive(envtable.FromEnviron(a.environ())))
	return nil
}

func describeActive(env *envtable.Table) string {
	owned := env.Lookup(helper.TypeKey)
	switch {
	case owned == "venv":
		return fmt.Sprintf("venv %s (pyact)", env.Lookup("VIRTUAL_ENV"))
	case owned == "conda":
		return fmt.Sprintf("conda %s (pyact)", env.Lookup("CONDA_DEFAULT_ENV"))
	case env.Lookup("VIRTUAL_ENV") != "":
		return fmt.Sprintf("venv %s", env.Lookup("VIRTUAL_ENV"))
	case env.Lookup("CONDA_DEFAULT_ENV") != "":
		return fmt.Sprintf("conda %s", env.Lookup("CONDA_DEFAULT_ENV"))
	default:
		return "없음"
	}
}

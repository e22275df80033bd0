package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hbjs97/pyact/internal/cli"
	"github.com/hbjs97/pyact/internal/cmdexec"
	"github.com/stretchr/testify/assert"
)

func TestMapExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want cli.ExitCode
	}{
		{"nil", nil, cli.ExitSuccess},
		{"generic", errors.New("boom"), cli.ExitGeneral},
		{"already linked", fmt.Errorf("wrap: %w", cli.ErrAlreadyLinked), cli.ExitAlreadyLinked},
		{"invalid type", fmt.Errorf("wrap: %w", cli.ErrInvalid), cli.ExitInvalid},
		{"usage", cli.ErrUsage, cli.ExitInvalid},
		{"unsupported shell", cli.ErrUnsupportedShell, cli.ExitInvalid},
		{"not found", cli.ErrNotFound, cli.ExitNotFound},
		{"conda env not found", cli.ErrEnvNotFound, cli.ExitNotFound},
		{"config", fmt.Errorf("wrap: %w", cli.ErrConfig), cli.ExitConfigError},
		{"malformed link", cli.ErrMalformed, cli.ExitGeneral},
		{
			"helper exit code passes through",
			fmt.Errorf("dispatch.Link: %w: %w", cli.ErrLinkFailed, &cmdexec.ExitError{Code: 17}),
			cli.ExitAlreadyLinked,
		},
		{
			"unknown helper exit code passes through",
			fmt.Errorf("dispatch.Link: %w: %w", cli.ErrLinkFailed, &cmdexec.ExitError{Code: 42}),
			cli.ExitCode(42),
		},
		{"link failed without code", cli.ErrLinkFailed, cli.ExitGeneral},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.MapExitCode(tt.err))
		})
	}
}

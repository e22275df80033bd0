// Package dispatch runs the helper verbs behind the shell hook functions and
// folds their results into an in-memory environment table.
//
// Each operation spawns the helper once per verb, synchronously. Only link's
// exit status is inspected; for the other verbs whatever the helper printed
// is applied, and output that does not decode is treated as empty.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/hbjs97/pyact/internal/cmdexec"
	"github.com/hbjs97/pyact/internal/delta"
	"github.com/hbjs97/pyact/internal/envtable"
	"github.com/hbjs97/pyact/internal/helper"
	"go.uber.org/zap"
)

// ErrLinkFailed는 helper link가 0이 아닌 상태로 종료되었을 때의 sentinel error다.
var ErrLinkFailed = errors.New("link failed")

// Dispatcher는 셸 훅 함수 하나하나에 대응하는 작업을 수행한다.
type Dispatcher struct {
	Commander cmdexec.Commander
	// HelperCmd는 helper 실행 명령이다. verb와 인자는 뒤에 붙는다.
	HelperCmd []string
	// Env는 셸 세션의 환경이다. 작업 결과가 여기에 반영된다.
	Env *envtable.Table
	// ExtraEnv는 helper 하위 프로세스에만 추가로 전달할 KEY=VALUE 목록이다.
	ExtraEnv []string
	Logger   *zap.Logger
}

// ActivateIfExisting은 현재 환경을 비활성화한 뒤 작업 디렉토리의 환경을 활성화한다.
// 몇 번을 호출해도 결과는 한 번 호출한 것과 같다.
func (d *Dispatcher) ActivateIfExisting(ctx context.Context) {
	d.Deactivate(ctx)
	d.runAndApply(ctx, helper.VerbActivate)
}

// Deactivate는 활성 환경을 비활성화한다.
func (d *Dispatcher) Deactivate(ctx context.Context) {
	d.runAndApply(ctx, helper.VerbDeactivate)
}

// Link는 작업 디렉토리를 환경에 연결하고, 성공하면 곧바로 활성화한다.
// helper가 실패하면 ErrLinkFailed와 helper의 종료 코드를 담은 에러를 반환한다.
func (d *Dispatcher) Link(ctx context.Context, args ...string) error {
	_, err := d.run(ctx, helper.VerbLink, args...)
	if err != nil {
		code := cmdexec.ExitCode(err)
		if code <= 0 {
			code = 1
		}
		return fmt.Errorf("dispatch.Link: %w: %w", ErrLinkFailed, &cmdexec.ExitError{Code: code})
	}
	d.ActivateIfExisting(ctx)
	return nil
}

// Unlink는 항상 먼저 비활성화한 뒤 연결을 해제한다.
func (d *Dispatcher) Unlink(ctx context.Context) {
	d.Deactivate(ctx)
	d.runAndApply(ctx, helper.VerbUnlink)
}

func (d *Dispatcher) runAndApply(ctx context.Context, verb helper.Verb, args ...string) {
	out, err := d.run(ctx, verb, args...)
	if err != nil {
		d.logger().Debug("helper exited with error",
			zap.String("verb", string(verb)),
			zap.Int("code", cmdexec.ExitCode(err)),
			zap.Error(err))
	}

	changes, err := delta.Decode(out)
	if err != nil {
		d.logger().Debug("helper output rejected",
			zap.String("verb", string(verb)),
			zap.Error(err))
		if !errors.Is(err, delta.ErrInvalidName) {
			return
		}
	}
	d.Env.Apply(changes)
}

func (d *Dispatcher) run(ctx context.Context, verb helper.Verb, args ...string) ([]byte, error) {
	if len(d.HelperCmd) == 0 {
		return nil, fmt.Errorf("dispatch.run: helper command not configured")
	}
	argv := make([]string, 0, len(d.HelperCmd)+len(args))
	argv = append(argv, d.HelperCmd[1:]...)
	argv = append(argv, string(verb))
	argv = append(argv, args...)

	env := append(d.Env.Environ(), d.ExtraEnv...)
	d.logger().Debug("running helper", zap.String("verb", string(verb)), zap.Strings("args", args))
	return d.Commander.Output(ctx, env, d.HelperCmd[0], argv...)
}

func (d *Dispatcher) logger() *zap.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return zap.NewNop()
}

package cli

import (
	"errors"

	"github.com/hbjs97/pyact/internal/cmdexec"
)

// ExitCode는 pyact의 종료 코드다. 가능한 경우 errno 값을 따른다.
type ExitCode int

const (
	// ExitSuccess는 정상 종료다.
	ExitSuccess ExitCode = 0
	// ExitGeneral는 일반 에러다. 해석할 수 없는 연결 파일도 포함한다.
	ExitGeneral ExitCode = 1
	// ExitNotFound는 환경 또는 파일을 찾을 수 없을 때다 (ENOENT).
	ExitNotFound ExitCode = 2
	// ExitConfigError는 설정 파일 오류다.
	ExitConfigError ExitCode = 5
	// ExitAlreadyLinked는 디렉토리가 이미 연결되어 있을 때다 (EEXIST).
	ExitAlreadyLinked ExitCode = 17
	// ExitInvalid는 잘못된 인자나 환경 종류다 (EINVAL).
	ExitInvalid ExitCode = 22
)

// MapExitCode는 sentinel error를 기반으로 적절한 종료 코드를 반환한다.
// helper의 종료 상태를 담은 에러는 그 코드를 그대로 전달한다.
func MapExitCode(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *cmdexec.ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return ExitCode(exitErr.Code)
	}
	switch {
	case errors.Is(err, ErrAlreadyLinked):
		return ExitAlreadyLinked
	case errors.Is(err, ErrInvalid), errors.Is(err, ErrUsage), errors.Is(err, ErrUnsupportedShell):
		return ExitInvalid
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrEnvNotFound):
		return ExitNotFound
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	default:
		return ExitGeneral
	}
}

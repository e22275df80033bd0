package cli

import (
	"github.com/hbjs97/pyact/internal/conda"
	"github.com/hbjs97/pyact/internal/config"
	"github.com/hbjs97/pyact/internal/dispatch"
	"github.com/hbjs97/pyact/internal/envfile"
	"github.com/hbjs97/pyact/internal/helper"
	"github.com/hbjs97/pyact/internal/shell"
)

// 각 도메인 패키지의 sentinel error를 CLI 레이어에서 편의상 re-export한다.
var (
	// ErrAlreadyLinked는 디렉토리에 이미 연결 파일이 있을 때의 sentinel error다.
	ErrAlreadyLinked = envfile.ErrAlreadyLinked
	// ErrInvalid는 지원하지 않는 환경 종류일 때의 sentinel error다.
	ErrInvalid = envfile.ErrInvalid
	// ErrNotFound는 연결 대상 환경이 없을 때의 sentinel error다.
	ErrNotFound = envfile.ErrNotFound
	// ErrMalformed는 연결 파일 형식이 잘못되었을 때의 sentinel error다.
	ErrMalformed = envfile.ErrMalformed
	// ErrEnvNotFound는 conda 환경 이름을 찾지 못했을 때의 sentinel error다.
	ErrEnvNotFound = conda.ErrEnvNotFound
	// ErrUsage는 helper 인자가 잘못되었을 때의 sentinel error다.
	ErrUsage = helper.ErrUsage
	// ErrLinkFailed는 link가 실패했을 때의 sentinel error다.
	ErrLinkFailed = dispatch.ErrLinkFailed
	// ErrUnsupportedShell은 지원하지 않는 셸일 때의 sentinel error다.
	ErrUnsupportedShell = shell.ErrUnsupportedShell
	// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
	ErrConfig = config.ErrConfig
)

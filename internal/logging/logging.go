// Package logging builds the zap logger used for diagnostics. Logs go to
// stderr so they never mix with the shell statements printed on stdout.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DebugEnv는 설정되면 debug 로그를 켜는 환경변수다. helper 하위 프로세스에도 전달된다.
const DebugEnv = "PYACT_DEBUG"

// Verbose는 flag 또는 PYACT_DEBUG로 debug 로그가 요청되었는지 반환한다.
func Verbose(flag bool) bool {
	if flag {
		return true
	}
	v := os.Getenv(DebugEnv)
	return v != "" && v != "0"
}

// New는 stderr로 쓰는 console logger를 만든다. 기본 레벨은 warn이다.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.DisableStacktrace = true
	config.DisableCaller = true
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("logging.New: %w", err)
	}
	return logger.Named("pyact"), nil
}

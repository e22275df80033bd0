package envfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Type은 Python 환경 종류다.
type Type string

const (
	Conda  Type = "conda"
	Linked Type = "linked"
	Poetry Type = "poetry"
	Venv   Type = "venv"
)

var (
	// ErrInvalid는 지원하지 않는 환경 종류나 잘못된 인자일 때의 sentinel error다.
	ErrInvalid = errors.New("invalid argument")
	// ErrNotFound는 기대한 파일이나 디렉토리가 없을 때의 sentinel error다.
	ErrNotFound = errors.New("not found")
	// ErrMalformed는 환경 파일 내용을 해석할 수 없을 때의 sentinel error다.
	ErrMalformed = errors.New("malformed environment file")
)

// LinkedFileName은 디렉토리-환경 연결 파일 이름이다.
const LinkedFileName = ".linked_env"

// DefaultPriority는 한 디렉토리 안에서 마커를 검사하는 기본 순서다.
var DefaultPriority = []Type{Conda, Linked, Poetry, Venv}

// markers는 종류별 마커 파일 이름이다. 순서대로 검사한다.
var markers = map[Type][]string{
	Linked: {LinkedFileName},
	Poetry: {"poetry.lock", "pyproject.toml"},
	Venv:   {"venv", ".venv"},
	Conda:  {"environment.yaml", "environment.yml"},
}

// Markers는 t의 마커 파일 이름 목록을 반환한다.
func Markers(t Type) []string {
	return append([]string(nil), markers[t]...)
}

// ParseType은 문자열을 Type으로 변환한다.
func ParseType(s string) (Type, error) {
	t := Type(strings.TrimSpace(s))
	if _, ok := markers[t]; !ok {
		return "", fmt.Errorf("envfile.ParseType: %w: 알 수 없는 환경 종류 %q", ErrInvalid, s)
	}
	return t, nil
}

// ParsePriority는 설정의 priority 목록을 검증한다. 비어 있으면 DefaultPriority다.
func ParsePriority(names []string) ([]Type, error) {
	if len(names) == 0 {
		return append([]Type(nil), DefaultPriority...), nil
	}
	seen := make(map[Type]bool, len(names))
	out := make([]Type, 0, len(names))
	for _, n := range names {
		t, err := ParseType(n)
		if err != nil {
			return nil, fmt.Errorf("envfile.ParsePriority: %w", err)
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}

// Found는 발견된 환경 마커다.
type Found struct {
	Type Type
	// Path는 마커 파일 또는 디렉토리의 절대 경로다.
	Path string
}

// FindNearest는 dir부터 루트까지 올라가며 가장 가까운 환경 마커를 찾는다.
// 한 디렉토리 안에서는 priority 순서가 우선한다. 찾지 못하면 nil을 반환한다.
func FindNearest(dir string, priority []Type) (*Found, error) {
	for _, t := range priority {
		if _, ok := markers[t]; !ok {
			return nil, fmt.Errorf("envfile.FindNearest: %w: %q", ErrInvalid, t)
		}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("envfile.FindNearest: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("envfile.FindNearest: %w: 디렉토리가 아님: %s", ErrInvalid, dir)
	}

	for {
		if f := scanDir(abs, priority); f != nil {
			return f, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return nil, nil
		}
		abs = parent
	}
}

func scanDir(dir string, priority []Type) *Found {
	for _, t := range priority {
		for _, name := range markers[t] {
			p := filepath.Join(dir, name)
			if matches(t, p) {
				return &Found{Type: t, Path: p}
			}
		}
	}
	return nil
}

func matches(t Type, path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	switch t {
	case Venv:
		return info.IsDir() && IsVenv(path)
	case Poetry:
		if filepath.Base(path) == "pyproject.toml" {
			return !info.IsDir() && IsPoetryProject(path)
		}
		return !info.IsDir()
	default:
		// linked 파일이 디렉토리인 경우는 ReadLink에서 에러로 보고한다.
		return true
	}
}

// IsVenv는 dir이 virtualenv 디렉토리인지 반환한다.
func IsVenv(dir string) bool {
	for _, p := range []string{
		filepath.Join(dir, "pyvenv.cfg"),
		filepath.Join(dir, "bin", "activate"),
	} {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

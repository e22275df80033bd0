package envfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrAlreadyLinked는 디렉토리에 이미 연결 파일이 있을 때의 sentinel error다.
var ErrAlreadyLinked = errors.New("directory already linked")

// Link는 .linked_env 파일의 내용이다.
type Link struct {
	// Type은 Venv 또는 Conda다.
	Type Type
	// Target은 venv의 절대 경로이거나 conda 환경 이름(또는 prefix 경로)이다.
	Target string
}

// String은 파일에 기록되는 "type;target" 형식을 반환한다.
func (l Link) String() string {
	return string(l.Type) + ";" + l.Target
}

// Linkable은 연결 파일에 기록할 수 있는 종류인지 반환한다.
func Linkable(t Type) bool {
	return t == Venv || t == Conda
}

// ParseLink는 "type;target" 문자열을 해석한다.
func ParseLink(s string) (Link, error) {
	typ, target, ok := strings.Cut(s, ";")
	if !ok {
		return Link{}, fmt.Errorf("envfile.ParseLink: %w: 구분자 ';' 없음", ErrMalformed)
	}
	l := Link{Type: Type(strings.TrimSpace(typ)), Target: strings.TrimSpace(target)}
	if !Linkable(l.Type) {
		return Link{}, fmt.Errorf("envfile.ParseLink: %w: 지원하지 않는 환경 종류 %q", ErrInvalid, l.Type)
	}
	if l.Target == "" {
		return Link{}, fmt.Errorf("envfile.ParseLink: %w: 대상이 비어 있음", ErrMalformed)
	}
	return l, nil
}

// ReadLink는 연결 파일을 읽어 해석한다.
func ReadLink(path string) (Link, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Link{}, fmt.Errorf("envfile.ReadLink: %w: %s", ErrNotFound, path)
	}
	if !info.Mode().IsRegular() {
		return Link{}, fmt.Errorf("envfile.ReadLink: %w: 파일이 아님: %s", ErrNotFound, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Link{}, fmt.Errorf("envfile.ReadLink: %w", err)
	}
	l, err := ParseLink(string(data))
	if err != nil {
		return Link{}, fmt.Errorf("envfile.ReadLink: %s: %w", path, err)
	}
	return l, nil
}

// LinkPath는 dir의 연결 파일 경로를 반환한다.
func LinkPath(dir string) string {
	return filepath.Join(dir, LinkedFileName)
}

// HasLink는 dir에 연결 파일이 존재하는지 반환한다.
func HasLink(dir string) bool {
	_, err := os.Lstat(LinkPath(dir))
	return err == nil
}

// WriteLink는 dir에 연결 파일을 만든다. 이미 있으면 ErrAlreadyLinked다.
func WriteLink(dir string, l Link) error {
	if !Linkable(l.Type) {
		return fmt.Errorf("envfile.WriteLink: %w: %q", ErrInvalid, l.Type)
	}
	f, err := os.OpenFile(LinkPath(dir), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("envfile.WriteLink: %w", ErrAlreadyLinked)
	}
	if err != nil {
		return fmt.Errorf("envfile.WriteLink: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(l.String()); err != nil {
		return fmt.Errorf("envfile.WriteLink: %w", err)
	}
	return nil
}

// RemoveLink는 dir의 연결 파일을 지운다. 파일이 없으면 false를 반환한다.
func RemoveLink(dir string) (bool, error) {
	err := os.Remove(LinkPath(dir))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("envfile.RemoveLink: %w", err)
	}
	return true, nil
}

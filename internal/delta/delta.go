package delta

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
)

// Version은 현재 wire 포맷 버전이다.
const Version = 1

var (
	// ErrMalformed는 helper 출력이 JSON 문서로 해석되지 않을 때의 sentinel error다.
	ErrMalformed = errors.New("malformed delta")
	// ErrVersion는 지원하지 않는 포맷 버전일 때의 sentinel error다.
	ErrVersion = errors.New("unsupported delta version")
	// ErrInvalidName는 환경변수 이름이 허용되지 않는 형식일 때의 sentinel error다.
	ErrInvalidName = errors.New("invalid variable name")
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidName은 name이 셸 환경변수 이름으로 안전한지 반환한다.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Record는 하나의 환경변수 변경이다. Unset이 true면 Value는 무시된다.
type Record struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
	Unset bool   `json:"unset,omitempty"`
}

// Delta는 순서가 있는 변경 목록이다. 같은 이름이 여러 번 나오면 마지막 값이 이긴다.
type Delta struct {
	Records []Record
}

type document struct {
	Version int      `json:"version"`
	Changes []Record `json:"changes"`
}

// Set은 name=value 변경을 추가한다.
func (d *Delta) Set(name, value string) {
	d.Records = append(d.Records, Record{Name: name, Value: value})
}

// Unset은 name 제거를 추가한다.
func (d *Delta) Unset(name string) {
	d.Records = append(d.Records, Record{Name: name, Unset: true})
}

// Append는 other의 변경을 뒤에 이어 붙인다.
func (d *Delta) Append(other Delta) {
	d.Records = append(d.Records, other.Records...)
}

// Empty는 변경이 없는지 반환한다.
func (d Delta) Empty() bool {
	return len(d.Records) == 0
}

// Encode는 delta를 JSON 문서로 w에 쓴다.
func Encode(w io.Writer, d Delta) error {
	changes := d.Records
	if changes == nil {
		changes = []Record{}
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(document{Version: Version, Changes: changes}); err != nil {
		return fmt.Errorf("delta.Encode: %w", err)
	}
	return nil
}

// Decode는 helper 출력을 해석한다.
// 공백뿐인 입력은 빈 delta다. 문서 자체가 잘못되면 빈 delta와 에러를 반환한다.
// 이름이 잘못된 레코드는 버리고, 나머지 레코드와 함께 ErrInvalidName을 반환한다.
func Decode(data []byte) (Delta, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Delta{}, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Delta{}, fmt.Errorf("delta.Decode: %w: %v", ErrMalformed, err)
	}
	if doc.Version != Version {
		return Delta{}, fmt.Errorf("delta.Decode: %w: %d", ErrVersion, doc.Version)
	}

	var d Delta
	var errs []error
	for _, r := range doc.Changes {
		if !ValidName(r.Name) {
			errs = append(errs, fmt.Errorf("delta.Decode: %w: %q", ErrInvalidName, r.Name))
			continue
		}
		if r.Unset {
			r.Value = ""
		}
		d.Records = append(d.Records, r)
	}
	return d, errors.Join(errs...)
}

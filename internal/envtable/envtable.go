// Package envtable holds an in-memory copy of a shell's environment. The
// dispatcher applies helper deltas to it and renders the net difference, so
// the calling shell sees a single set of changes per invocation.
package envtable

import (
	"sort"
	"strings"

	"github.com/hbjs97/pyact/internal/delta"
)

// Table은 환경변수 이름→값 테이블이다.
type Table struct {
	vars map[string]string
}

// New는 빈 테이블을 생성한다.
func New() *Table {
	return &Table{vars: make(map[string]string)}
}

// FromEnviron은 os.Environ 형식("KEY=VALUE")의 목록으로 테이블을 만든다.
// '='가 없는 항목은 무시한다.
func FromEnviron(environ []string) *Table {
	t := New()
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		t.vars[k] = v
	}
	return t
}

// Get은 name의 값과 존재 여부를 반환한다.
func (t *Table) Get(name string) (string, bool) {
	v, ok := t.vars[name]
	return v, ok
}

// Lookup은 name의 값을 반환한다. 없으면 빈 문자열이다.
func (t *Table) Lookup(name string) string {
	return t.vars[name]
}

// Set은 name=value를 기록한다.
func (t *Table) Set(name, value string) {
	t.vars[name] = value
}

// Unset은 name을 제거한다.
func (t *Table) Unset(name string) {
	delete(t.vars, name)
}

// Apply는 delta의 변경을 순서대로 반영한다.
func (t *Table) Apply(d delta.Delta) {
	for _, r := range d.Records {
		if r.Unset {
			t.Unset(r.Name)
			continue
		}
		t.Set(r.Name, r.Value)
	}
}

// Clone은 독립적인 복사본을 반환한다.
func (t *Table) Clone() *Table {
	c := New()
	for k, v := range t.vars {
		c.vars[k] = v
	}
	return c
}

// Len은 변수 개수를 반환한다.
func (t *Table) Len() int {
	return len(t.vars)
}

// Environ은 이름 순으로 정렬된 "KEY=VALUE" 목록을 반환한다.
func (t *Table) Environ() []string {
	names := t.names()
	out := make([]string, 0, len(names))
	for _, k := range names {
		out = append(out, k+"="+t.vars[k])
	}
	return out
}

// Equal은 두 테이블의 내용이 같은지 반환한다.
func (t *Table) Equal(other *Table) bool {
	if len(t.vars) != len(other.vars) {
		return false
	}
	for k, v := range t.vars {
		if ov, ok := other.vars[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (t *Table) names() []string {
	names := make([]string, 0, len(t.vars))
	for k := range t.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Diff는 before를 after로 만드는 최소 delta를 이름 순으로 반환한다.
func Diff(before, after *Table) delta.Delta {
	var d delta.Delta
	for _, k := range before.names() {
		if _, ok := after.vars[k]; !ok {
			d.Unset(k)
		}
	}
	for _, k := range after.names() {
		if v, ok := before.vars[k]; !ok || v != after.vars[k] {
			d.Set(k, after.vars[k])
		}
	}
	sort.SliceStable(d.Records, func(i, j int) bool {
		return d.Records[i].Name < d.Records[j].Name
	})
	return d
}

package envfile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// conda 환경 이름에는 "/", " ", ":", "#"가 들어갈 수 없다.
var condaNameLine = regexp.MustCompile(`^\s*name:\s*([^/\s:#]*)`)

// CondaEnvName은 environment.yml의 name 값을 반환한다.
// YAML로 해석할 수 없으면 name 줄을 직접 찾는다.
func CondaEnvName(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("envfile.CondaEnvName: %w", err)
	}

	var doc struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(data, &doc); err == nil && strings.TrimSpace(doc.Name) != "" {
		return strings.TrimSpace(doc.Name), nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if m := condaNameLine.FindStringSubmatch(scanner.Text()); m != nil && m[1] != "" {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("envfile.CondaEnvName: %w: name 항목 없음: %s", ErrMalformed, path)
}

type pyproject struct {
	Tool        map[string]toml.Primitive `toml:"tool"`
	BuildSystem buildSystem               `toml:"build-system"`
}

type buildSystem struct {
	BuildBackend string `toml:"build-backend"`
}

// IsPoetryProject는 pyproject.toml이 poetry 프로젝트인지 반환한다.
// [tool.poetry] 테이블이 있거나 build-backend가 poetry면 true다.
func IsPoetryProject(path string) bool {
	var doc pyproject
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return false
	}
	if _, ok := doc.Tool["poetry"]; ok {
		return true
	}
	return strings.HasPrefix(doc.BuildSystem.BuildBackend, "poetry")
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/hbjs97/pyact/internal/envfile"
)

// ErrConfig는 설정 파일 오류를 나타내는 sentinel error다.
var ErrConfig = errors.New("config error")

// Config는 pyact 설정 파일의 최상위 구조체다.
type Config struct {
	Version            int      `toml:"version"`
	Priority           []string `toml:"priority,omitempty"`
	DeactivateForeign  *bool    `toml:"deactivate_foreign"`
	KeepCondaBase      *bool    `toml:"keep_conda_base"`
	HelperPath         string   `toml:"helper_path,omitempty"`
	CondaCacheTTLHours int      `toml:"conda_cache_ttl_hours"`
	Quiet              bool     `toml:"quiet"`
}

// Default는 설정 파일이 없을 때 사용하는 기본 설정이다.
func Default() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// DefaultPath는 PYACT_CONFIG 또는 ~/.config/pyact/config.toml을 반환한다.
func DefaultPath() string {
	if p := os.Getenv("PYACT_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "pyact", "config.toml")
}

// Load는 config.toml을 파싱하여 Config를 반환한다.
// 파일이 없으면 기본 설정을 반환한다.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config.Load: %w: %v", ErrConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save는 설정을 TOML로 저장한다 (0600 권한).
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("config.Save: %w", err)
	}
	return nil
}

// IsDeactivateForeign은 deactivate_foreign 설정값을 반환한다.
func (c *Config) IsDeactivateForeign() bool {
	if c.DeactivateForeign == nil {
		return true
	}
	return *c.DeactivateForeign
}

// IsKeepCondaBase는 keep_conda_base 설정값을 반환한다.
func (c *Config) IsKeepCondaBase() bool {
	if c.KeepCondaBase == nil {
		return true
	}
	return *c.KeepCondaBase
}

// PriorityTypes는 검증된 마커 우선순위를 반환한다.
func (c *Config) PriorityTypes() []envfile.Type {
	types, err := envfile.ParsePriority(c.Priority)
	if err != nil {
		return envfile.DefaultPriority
	}
	return types
}

// ValidateFilePermissions는 파일 권한이 0600보다 넓으면 에러를 반환한다.
func ValidateFilePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("config.ValidateFilePermissions: %w", err)
	}
	perm := info.Mode().Perm()
	if perm&0077 != 0 {
		return fmt.Errorf("config.ValidateFilePermissions: %s 권한이 %o (0600 필요)", path, perm)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.DeactivateForeign == nil {
		t := true
		c.DeactivateForeign = &t
	}
	if c.KeepCondaBase == nil {
		t := true
		c.KeepCondaBase = &t
	}
	if c.CondaCacheTTLHours == 0 {
		c.CondaCacheTTLHours = 24
	}
}

func (c *Config) validate() error {
	if c.Version != 1 {
		return fmt.Errorf("config.Load: %w: 지원하지 않는 version %d", ErrConfig, c.Version)
	}
	if _, err := envfile.ParsePriority(c.Priority); err != nil {
		return fmt.Errorf("config.Load: %w: priority: %v", ErrConfig, err)
	}
	if c.CondaCacheTTLHours < 0 {
		return fmt.Errorf("config.Load: %w: conda_cache_ttl_hours는 0 이상이어야 합니다", ErrConfig)
	}
	return nil
}

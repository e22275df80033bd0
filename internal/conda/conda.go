// Package conda resolves conda environment names to their installation
// prefix using `conda info --json`, caching results on disk.
package conda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hbjs97/pyact/internal/cache"
	"github.com/hbjs97/pyact/internal/cmdexec"
	"go.uber.org/zap"
)

// BaseEnv는 conda 기본 환경 이름이다.
const BaseEnv = "base"

var (
	// ErrNotInstalled는 conda 실행 파일을 찾을 수 없을 때의 sentinel error다.
	ErrNotInstalled = errors.New("conda not installed")
	// ErrEnvNotFound는 이름에 해당하는 conda 환경이 없을 때의 sentinel error다.
	ErrEnvNotFound = errors.New("conda environment not found")
)

// Info는 `conda info --json` 출력 중 필요한 부분이다.
type Info struct {
	RootPrefix string   `json:"root_prefix"`
	Envs       []string `json:"envs"`
}

// Find는 환경 이름의 prefix를 반환한다.
func (i *Info) Find(name string) (string, bool) {
	if name == BaseEnv {
		return i.RootPrefix, i.RootPrefix != ""
	}
	for _, env := range i.Envs {
		if env == i.RootPrefix {
			continue
		}
		if filepath.Base(env) == name {
			return env, true
		}
	}
	return "", false
}

// Names는 환경 이름 목록을 반환한다. root prefix는 base로 표시한다.
func (i *Info) Names() []string {
	names := make([]string, 0, len(i.Envs))
	for _, env := range i.Envs {
		if env == i.RootPrefix {
			names = append(names, BaseEnv)
			continue
		}
		names = append(names, filepath.Base(env))
	}
	return names
}

// Resolver는 conda 환경 이름을 prefix로 변환한다.
type Resolver struct {
	Commander cmdexec.Commander
	// CachePath가 비어 있으면 캐시를 사용하지 않는다.
	CachePath string
	TTL       time.Duration
	Now       func() time.Time
	Logger    *zap.Logger
}

// IsPath는 nameOrPath가 이름이 아닌 prefix 경로인지 반환한다.
func IsPath(nameOrPath string) bool {
	return strings.ContainsRune(nameOrPath, filepath.Separator)
}

// Prefix는 환경 이름 또는 경로를 prefix 절대 경로로 변환한다.
func (r *Resolver) Prefix(ctx context.Context, nameOrPath string) (string, error) {
	if IsPath(nameOrPath) {
		abs, err := filepath.Abs(nameOrPath)
		if err != nil {
			return "", fmt.Errorf("conda.Prefix: %w", err)
		}
		return abs, nil
	}

	condaPath, err := r.Commander.LookPath("conda")
	if err != nil {
		return "", fmt.Errorf("conda.Prefix: %w", ErrNotInstalled)
	}

	c := r.loadCache()
	if e, ok := c.Lookup(nameOrPath, condaPath, r.TTL, r.now()); ok {
		if dirExists(e.Prefix) {
			r.logger().Debug("conda prefix cache hit", zap.String("env", nameOrPath), zap.String("prefix", e.Prefix))
			return e.Prefix, nil
		}
		c.Invalidate(nameOrPath)
	}

	info, err := r.Info(ctx)
	if err != nil {
		return "", err
	}
	prefix, ok := info.Find(nameOrPath)
	if !ok {
		return "", fmt.Errorf("conda.Prefix: %w: %s", ErrEnvNotFound, nameOrPath)
	}

	c.Set(nameOrPath, cache.Entry{
		Prefix:     prefix,
		ResolvedAt: r.now().UTC().Format(time.RFC3339),
		Conda:      condaPath,
	})
	r.saveCache(c)
	return prefix, nil
}

// Info는 `conda info --json`을 실행해 결과를 해석한다.
func (r *Resolver) Info(ctx context.Context) (*Info, error) {
	out, err := r.Commander.Output(ctx, nil, "conda", "info", "--json")
	if err != nil {
		return nil, fmt.Errorf("conda.Info: %w", err)
	}
	var info Info
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("conda.Info: %w", err)
	}
	return &info, nil
}

func (r *Resolver) loadCache() *cache.Cache {
	if r.CachePath == "" {
		return cache.New()
	}
	c, err := cache.Load(r.CachePath)
	if err != nil {
		r.logger().Debug("conda cache load failed", zap.Error(err))
		return cache.New()
	}
	return c
}

func (r *Resolver) saveCache(c *cache.Cache) {
	if r.CachePath == "" {
		return
	}
	if err := c.Save(r.CachePath); err != nil {
		r.logger().Warn("conda cache save failed", zap.String("path", r.CachePath), zap.Error(err))
	}
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Resolver) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hbjs97/pyact/internal/cache"
	"github.com/hbjs97/pyact/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCache_ValidJSON(t *testing.T) {
	content := `{
		"version": 1,
		"entries": {
			"data-science": {
				"prefix": "/opt/conda/envs/data-science",
				"resolved_at": "2026-02-14T10:30:00Z",
				"conda": "/opt/conda/bin/conda"
			}
		}
	}`
	path := testutil.TempCacheFile(t, content)
	c, err := cache.Load(path)

	require.NoError(t, err)
	assert.Equal(t, 1, c.Version)
	assert.Len(t, c.Entries, 1)
	assert.Equal(t, "/opt/conda/envs/data-science", c.Entries["data-science"].Prefix)
}

func TestLoadCache_MissingFile(t *testing.T) {
	c, err := cache.Load("/nonexistent/cache.json")
	require.NoError(t, err) // graceful: empty cache
	assert.Empty(t, c.Entries)
}

func TestLoadCache_InvalidJSON(t *testing.T) {
	path := testutil.TempCacheFile(t, "not json {{{")
	c, err := cache.Load(path)
	require.NoError(t, err) // graceful degradation
	assert.Empty(t, c.Entries)
}

func TestLoadCache_NullEntries(t *testing.T) {
	path := testutil.TempCacheFile(t, `{"version":1}`)
	c, err := cache.Load(path)
	require.NoError(t, err)
	require.NotNil(t, c.Entries)
	c.Set("x", cache.Entry{Prefix: "/x"})
}

func TestLookup(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := cache.New()
	c.Set("ml", cache.Entry{
		Prefix:     "/opt/conda/envs/ml",
		ResolvedAt: now.Add(-2 * time.Hour).Format(time.RFC3339),
		Conda:      "/opt/conda/bin/conda",
	})

	tests := []struct {
		name  string
		key   string
		conda string
		ttl   time.Duration
		hit   bool
	}{
		{"hit", "ml", "/opt/conda/bin/conda", 24 * time.Hour, true},
		{"miss unknown key", "other", "/opt/conda/bin/conda", 24 * time.Hour, false},
		{"miss conda changed", "ml", "/usr/local/bin/conda", 24 * time.Hour, false},
		{"miss expired", "ml", "/opt/conda/bin/conda", time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := c.Lookup(tt.key, tt.conda, tt.ttl, now)
			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assert.Equal(t, "/opt/conda/envs/ml", e.Prefix)
			}
		})
	}
}

func TestLookup_UnparseableTimestamp(t *testing.T) {
	c := cache.New()
	c.Set("ml", cache.Entry{Prefix: "/x", ResolvedAt: "yesterday", Conda: "conda"})

	_, ok := c.Lookup("ml", "conda", time.Hour, time.Now())
	assert.False(t, ok)
}

func TestInvalidate(t *testing.T) {
	c := cache.New()
	c.Set("a", cache.Entry{Prefix: "/a"})
	c.Set("b", cache.Entry{Prefix: "/b"})

	c.Invalidate("a")
	assert.NotContains(t, c.Entries, "a")
	assert.Contains(t, c.Entries, "b")
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "conda.json")
	c := cache.New()
	c.Set("ml", cache.Entry{Prefix: "/opt/conda/envs/ml", ResolvedAt: "2026-02-14T10:30:00Z", Conda: "conda"})

	require.NoError(t, c.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amonks/genremap/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genremap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "genremap.db", cfg.Database.Path)
	assert.Equal(t, 100*time.Millisecond, cfg.Lookup.Pace)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Empty(t, cfg.Taxonomy.Path)
}

func TestMissingFileIsFine(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default().Database, cfg.Database)
}

func TestFile(t *testing.T) {
	path := writeFile(t, `
database:
  path: /var/lib/genremap.db
lookup:
  pace: 250ms
  burst: 3
logging:
  level: debug
  format: json
server:
  addr: 127.0.0.1:8080
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/genremap.db", cfg.Database.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.Lookup.Pace)
	assert.Equal(t, 3, cfg.Lookup.Burst)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)

	// Untouched sections keep their defaults.
	assert.Equal(t, 10*time.Second, cfg.Lookup.Timeout)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "database:\n  path: from-file.db\n")
	t.Setenv("GENREMAP_DB_PATH", "from-env.db")
	t.Setenv("GENREMAP_LOOKUP_PACE", "2s")
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "secret")
	t.Setenv("GENREMAP_PAGE_CACHE_DIR", "")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.Database.Path)
	assert.Equal(t, 2*time.Second, cfg.Lookup.Pace)
	assert.Equal(t, "id", cfg.Spotify.ClientID)
	assert.Equal(t, "secret", cfg.Spotify.ClientSecret)
	assert.Empty(t, cfg.Pages.CacheDir)
}

func TestBadEnv(t *testing.T) {
	t.Setenv("GENREMAP_LOOKUP_PACE", "soon")
	_, err := config.Load("")
	assert.ErrorContains(t, err, "GENREMAP_LOOKUP_PACE")
}

func TestInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"no database":  "database:\n  path: \"\"\n",
		"bad level":    "logging:\n  level: loud\n",
		"bad format":   "logging:\n  format: xml\n",
		"negative gap": "lookup:\n  pace: -1s\n",
		"not yaml":     "database: [",
	} {
		_, err := config.Load(writeFile(t, body))
		assert.Error(t, err, name)
	}
}

func TestValidateFillsZeroes(t *testing.T) {
	cfg := config.Default()
	cfg.Lookup.Burst = 0
	cfg.Logging.Level = ""
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Lookup.Burst)
	assert.Equal(t, "info", cfg.Logging.Level)
}

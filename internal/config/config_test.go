package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wdlist/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "wikidatawiki", cfg.DefaultAPI)
	assert.Equal(t, "https://www.wikidata.org/w/api.php", cfg.APIs["wikidatawiki"].URL)
	assert.Equal(t, "https://query.wikidata.org/sparql", cfg.SparqlEndpoint)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, []string{"wikidatawiki", "commonswiki"}, cfg.ShadowCheckWikis)
	assert.True(t, cfg.PreferPreferred)
	assert.Equal(t, 128, cfg.Thumbnail)
	assert.Empty(t, cfg.CachePath)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
default_api: "enwiki"
apis: enwiki: url: "https://en.wikipedia.org/w/api.php"
language:   "de"
thumbnail:  64
cache_path: "/var/cache/entities.db"
namespace_blocks: ["User", "Template"]
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "enwiki", cfg.DefaultAPI)
	assert.Equal(t, "https://en.wikipedia.org/w/api.php", cfg.APIs["enwiki"].URL)
	assert.Equal(t, "https://www.wikidata.org/w/api.php", cfg.APIs["wikidatawiki"].URL,
		"built-in entries survive user overrides")
	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, 64, cfg.Thumbnail)
	assert.Equal(t, "/var/cache/entities.db", cfg.CachePath)
	assert.Equal(t, []string{"User", "Template"}, cfg.NamespaceBlocks)
}

func TestLoadRejectsUnknownDefaultAPI(t *testing.T) {
	path := writeConfig(t, `default_api: "frwiki"`)

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frwiki")
}

func TestLoadRejectsTypeErrors(t *testing.T) {
	path := writeConfig(t, `thumbnail: "big"`)

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.cue"))
	require.Error(t, err)
}

func TestAPIFor(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, cfg.APIs["commonswiki"], cfg.APIFor("commonswiki"))
	assert.Equal(t, cfg.APIs["wikidatawiki"], cfg.APIFor("nosuchwiki"),
		"unknown wikis fall back to the default entry")
}

func TestNamespaceBlocked(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.NamespaceBlocks = []string{"User", "Template"}

	assert.True(t, cfg.NamespaceBlocked("User:Example/list"))
	assert.True(t, cfg.NamespaceBlocked("Template:Wikidata list"))
	assert.False(t, cfg.NamespaceBlocked("Userland"))
	assert.False(t, cfg.NamespaceBlocked("List of lakes"))
}

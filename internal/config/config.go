// Package config loads the bot configuration from a CUE file. CUE
// gives the file defaults and type checking before any value reaches
// the run, so a malformed config fails at startup rather than halfway
// through an update.
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// APIConfig locates the MediaWiki API endpoint of one wiki.
type APIConfig struct {
	URL string `json:"url"`
}

// Config is the full bot configuration.
type Config struct {
	// DefaultAPI names the entry of APIs used when a wiki has no
	// entry of its own.
	DefaultAPI string `json:"default_api"`

	// APIs maps wiki ids to their API endpoints.
	APIs map[string]APIConfig `json:"apis"`

	// SparqlEndpoint is the SPARQL query service URL.
	SparqlEndpoint string `json:"sparql_endpoint"`

	// Language is the default working language; a page's language
	// parameter overrides it.
	Language string `json:"language"`

	// NamespaceBlocks lists namespaces the bot must not write to.
	NamespaceBlocks []string `json:"namespace_blocks"`

	// ShadowCheckWikis lists wikis where local files can shadow
	// shared ones and the shadow-file stage applies.
	ShadowCheckWikis []string `json:"shadow_check_wikis"`

	// PreferPreferred keeps only preferred-rank statements when an
	// entity carries any.
	PreferPreferred bool `json:"prefer_preferred"`

	// Thumbnail is the default thumbnail width in px.
	Thumbnail int `json:"thumbnail"`

	// CachePath is the SQLite entity cache location; empty disables
	// the cache.
	CachePath string `json:"cache_path"`
}

// defaults is unified underneath the user's file, so the file only
// needs to name what differs.
const defaults = `
default_api: string | *"wikidatawiki"
apis: [string]: url: string
apis: {
	wikidatawiki: url: string | *"https://www.wikidata.org/w/api.php"
	commonswiki:  url: string | *"https://commons.wikimedia.org/w/api.php"
}
sparql_endpoint: string | *"https://query.wikidata.org/sparql"
language:        string | *"en"
namespace_blocks:  [...string] | *[]
shadow_check_wikis: [...string] | *["wikidatawiki", "commonswiki"]
prefer_preferred:  bool | *true
thumbnail:         int | *128
cache_path:        string | *""
`

// Load reads and validates a CUE config file. A missing path loads
// the built-in defaults.
func Load(path string) (*Config, error) {
	ctx := cuecontext.New()

	value := ctx.CompileString(defaults, cue.Filename("defaults.cue"))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compile default config: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		user := ctx.CompileBytes(data, cue.Filename(path))
		if err := user.Err(); err != nil {
			return nil, fmt.Errorf("compile config %s: %w", path, err)
		}
		value = value.Unify(user)
		if err := value.Validate(); err != nil {
			return nil, fmt.Errorf("validate config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DefaultAPI == "" {
		return nil, fmt.Errorf("config: default_api must not be empty")
	}
	if _, ok := cfg.APIs[cfg.DefaultAPI]; !ok {
		return nil, fmt.Errorf("config: default_api %q has no apis entry", cfg.DefaultAPI)
	}
	return &cfg, nil
}

// APIFor returns the API endpoint for a wiki, falling back to the
// default entry.
func (c *Config) APIFor(wiki string) APIConfig {
	if api, ok := c.APIs[wiki]; ok {
		return api
	}
	return c.APIs[c.DefaultAPI]
}

// NamespaceBlocked reports whether a page title sits in a blocked
// namespace.
func (c *Config) NamespaceBlocked(title string) bool {
	for _, ns := range c.NamespaceBlocks {
		if len(title) > len(ns) && title[:len(ns)] == ns && title[len(ns)] == ':' {
			return true
		}
	}
	return false
}

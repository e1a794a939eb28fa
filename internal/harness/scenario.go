// Package harness runs end-to-end list scenarios from YAML files.
// A scenario names its wiki, its raw template options and its entity
// and query fixtures; the harness builds the run, executes the full
// pipeline and renders both output formats. Golden files pin the
// rendered output.
package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one end-to-end list test.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden
	// file.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description"`

	// Wiki is the target wiki id. Defaults to "enwiki".
	Wiki string `yaml:"wiki,omitempty"`

	// Language is the site content language. Defaults to "en".
	Language string `yaml:"language,omitempty"`

	// Params holds the raw template option key/value pairs exactly
	// as they would appear on the embedding page.
	Params map[string]string `yaml:"params"`

	// SparqlFile points to the SPARQL JSON result fixture, relative
	// to the scenario file.
	SparqlFile string `yaml:"sparql_file"`

	// Entities defines the entity fixtures available to the run.
	Entities []EntityFixture `yaml:"entities,omitempty"`

	// Pages lists titles that exist on the target wiki.
	Pages []string `yaml:"pages,omitempty"`

	// SharedImages lists file titles served from the shared
	// repository. Files mentioned in cells but absent here count as
	// shadowed on shadow-check wikis.
	SharedImages []string `yaml:"shared_images,omitempty"`

	// ShadowCheckWikis enables the shadow-file stage for the named
	// wikis.
	ShadowCheckWikis []string `yaml:"shadow_check_wikis,omitempty"`

	// Format selects the renderer: "wikitext" (default) or "tabbed".
	Format string `yaml:"format,omitempty"`
}

// EntityFixture is the YAML shape of one fixture entity.
type EntityFixture struct {
	ID           string            `yaml:"id"`
	Type         string            `yaml:"type,omitempty"`     // "item" (default) or "property"
	Datatype     string            `yaml:"datatype,omitempty"` // properties only
	Labels       map[string]string `yaml:"labels,omitempty"`
	Descriptions map[string]string `yaml:"descriptions,omitempty"`
	Sitelinks    map[string]string `yaml:"sitelinks,omitempty"`
	Claims       []ClaimFixture    `yaml:"claims,omitempty"`
}

// ClaimFixture is the YAML shape of one statement.
type ClaimFixture struct {
	Property   string            `yaml:"property"`
	Datatype   string            `yaml:"datatype,omitempty"`
	Value      ValueFixture      `yaml:"value"`
	Qualifiers []QualifierFixture `yaml:"qualifiers,omitempty"`
}

// QualifierFixture is the YAML shape of one qualifier snak.
type QualifierFixture struct {
	Property string       `yaml:"property"`
	Datatype string       `yaml:"datatype,omitempty"`
	Value    ValueFixture `yaml:"value"`
}

// ValueFixture selects exactly one snak value kind.
type ValueFixture struct {
	Entity      string   `yaml:"entity,omitempty"`
	String      string   `yaml:"string,omitempty"`
	Amount      string   `yaml:"amount,omitempty"`
	Time        string   `yaml:"time,omitempty"`
	Precision   int      `yaml:"precision,omitempty"`
	Coordinate  []float64 `yaml:"coordinate,omitempty"` // [lat, lon]
	Monolingual string   `yaml:"monolingual,omitempty"` // "lang:text"
}

// LoadScenario reads one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	if s.SparqlFile == "" {
		return nil, fmt.Errorf("scenario %s: sparql_file is required", path)
	}
	if s.Wiki == "" {
		s.Wiki = "enwiki"
	}
	if s.Language == "" {
		s.Language = "en"
	}
	s.SparqlFile = filepath.Join(filepath.Dir(path), s.SparqlFile)
	return &s, nil
}

// LoadScenarios reads every scenario file in a directory, sorted by
// filename.
func LoadScenarios(dir string) ([]*Scenario, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("scan scenarios: %w", err)
	}
	var scenarios []*Scenario
	for _, path := range matches {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

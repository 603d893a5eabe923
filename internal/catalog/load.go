package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:embed data/trails.yaml
var defaultDocument []byte

//go:embed schema.json
var schemaDocument []byte

const schemaURL = "schema://trailmark-catalog.json"

// document is the on-disk shape of a catalog feed.
type document struct {
	Version string      `yaml:"version"`
	Tracks  []trackDoc  `yaml:"tracks"`
	Modules []moduleDoc `yaml:"modules"`
}

type trackDoc struct {
	ID          string   `yaml:"id"`
	Level       string   `yaml:"level"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	XPRequired  int      `yaml:"xp_required"`
	Modules     []string `yaml:"modules"`
	Badge       badgeDoc `yaml:"badge"`
}

type badgeDoc struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

type moduleDoc struct {
	ID       string    `yaml:"id"`
	Track    string    `yaml:"track"`
	Title    string    `yaml:"title"`
	Summary  string    `yaml:"summary"`
	XPReward *int      `yaml:"xp_reward"`
	Badge    *badgeDoc `yaml:"badge"`
	Steps    []stepDoc `yaml:"steps"`
}

type stepDoc struct {
	ID      string `yaml:"id"`
	Type    string `yaml:"type"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultDocument)
})

// Default returns the catalog bundled with the application.
func Default() (*Catalog, error) {
	return loadDefault()
}

// LoadFile reads and parses a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document, checks it against the catalog
// JSON schema, and builds a validated Catalog.
func Parse(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedContentError{Problems: []string{fmt.Sprintf("invalid YAML: %v", err)}}
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedContentError{Problems: []string{fmt.Sprintf("decode catalog: %v", err)}}
	}
	tracks, modules := doc.definitions()
	return New(doc.Version, tracks, modules)
}

// definitions converts the document into catalog types, applying explicit
// defaults for optional fields.
func (d document) definitions() ([]Track, []Module) {
	tracks := make([]Track, len(d.Tracks))
	for i, td := range d.Tracks {
		tracks[i] = Track{
			ID:          td.ID,
			Level:       Level(td.Level),
			Title:       td.Title,
			Description: td.Description,
			XPRequired:  td.XPRequired,
			ModuleIDs:   td.Modules,
			Badge: Badge{
				ID:          td.Badge.ID,
				TrackID:     td.ID,
				Name:        td.Badge.Name,
				Description: td.Badge.Description,
				Icon:        td.Badge.Icon,
			},
		}
	}

	modules := make([]Module, len(d.Modules))
	for i, md := range d.Modules {
		m := Module{
			ID:      md.ID,
			TrackID: md.Track,
			Title:   md.Title,
			Summary: md.Summary,
			Steps:   make([]Step, len(md.Steps)),
		}
		if md.XPReward != nil {
			m.XPReward = *md.XPReward
		}
		if md.Badge != nil {
			m.Badge = &BadgeDescriptor{
				Name:        md.Badge.Name,
				Description: md.Badge.Description,
				Icon:        md.Badge.Icon,
			}
		}
		for j, sd := range md.Steps {
			m.Steps[j] = Step{
				ID:      sd.ID,
				Type:    StepType(sd.Type),
				Title:   sd.Title,
				Content: sd.Content,
			}
		}
		modules[i] = m
	}
	return tracks, modules
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	var def any
	if err := json.Unmarshal(schemaDocument, &def); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(schemaURL)
})

// validateSchema checks a decoded YAML document against the catalog schema.
func validateSchema(raw any) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}

	// The validator expects JSON-shaped values; round-trip through JSON
	// so YAML scalars become float64/string/bool.
	b, err := json.Marshal(raw)
	if err != nil {
		return &MalformedContentError{Problems: []string{fmt.Sprintf("catalog is not JSON-compatible: %v", err)}}
	}
	var parsed any
	if err := json.Unmarshal(b, &parsed); err != nil {
		return &MalformedContentError{Problems: []string{fmt.Sprintf("catalog is not JSON-compatible: %v", err)}}
	}

	if err := schema.Validate(parsed); err != nil {
		return &MalformedContentError{Problems: []string{fmt.Sprintf("schema validation failed: %v", err)}}
	}
	return nil
}

package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/okian/medalist/internal/domain/model"
	"github.com/okian/medalist/internal/domain/requirement"
)

//go:embed catalog.schema.json
var schemaJSON []byte

const schemaURL = "https://medalist.local/schemas/catalog.schema.json"

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("catalog schema load failed: %v", err))
	}
	return c.MustCompile(schemaURL)
}

type document struct {
	Version string        `json:"version"`
	Awards  []awardRecord `json:"awards"`
}

type awardRecord struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	Category      string                   `json:"category"`
	Tier          string                   `json:"tier"`
	Prerequisites []model.PrerequisiteSpec `json:"prerequisites"`
	Requirements  any                      `json:"requirements"`
	References    []string                 `json:"references"`
}

// LoadJSON parses, schema-validates and builds a catalog from JSON.
func LoadJSON(data []byte) (*Catalog, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	if err := compiledSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}

	var version *semver.Version
	if doc.Version != "" {
		v, err := semver.NewVersion(doc.Version)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidVersion, doc.Version, err)
		}
		version = v
	}

	defs := make([]model.AwardDefinition, 0, len(doc.Awards))
	for _, a := range doc.Awards {
		tree, err := requirement.Normalize(a.Requirements)
		if err != nil {
			return nil, fmt.Errorf("%w: %s requirements: %w", ErrInvalidAward, a.ID, err)
		}
		defs = append(defs, model.AwardDefinition{
			ID:            a.ID,
			Name:          a.Name,
			Category:      a.Category,
			Tier:          a.Tier,
			Prerequisites: a.Prerequisites,
			Requirements:  tree,
			References:    a.References,
		})
	}

	c, err := New(defs...)
	if err != nil {
		return nil, err
	}
	c.version = version
	return c, nil
}

// LoadYAML converts a YAML catalog to JSON and loads it.
func LoadYAML(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	js, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	return LoadJSON(js)
}

// LoadFile loads a catalog, choosing the parser by file extension.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(data)
	case ".yaml", ".yml":
		return LoadYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

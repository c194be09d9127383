package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/badibam/schemakit/internal/schema"
)

// Definition is the on-disk form of a schema: metadata plus a specific
// fragment, optionally composed on top of another definition's fragment.
type Definition struct {
	ID          string                 `yaml:"id" json:"id"`
	DisplayName string                 `yaml:"displayName" json:"displayName"`
	Description string                 `yaml:"description" json:"description"`
	Category    string                 `yaml:"category" json:"category"`
	Base        string                 `yaml:"base" json:"base"`
	Abstract    bool                   `yaml:"abstract" json:"abstract"`
	Schema      map[string]interface{} `yaml:"schema" json:"schema"`
	Labels      map[string]string      `yaml:"labels" json:"labels"`
}

// LoadDirectory reads every .yaml/.yml/.json definition in dir, composes
// base+specific fragments, and atomically replaces the registered set.
// Abstract definitions only contribute their fragment to others and are
// not registered themselves.
func (r *Registry) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read schema directory: %w", err)
	}

	defs := make(map[string]*Definition)
	for _, entry := range entries {
		if entry.IsDir() || !isDefinitionFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		def, err := loadDefinition(path)
		if err != nil {
			return fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if _, exists := defs[def.ID]; exists {
			return fmt.Errorf("%s: %w: %s", entry.Name(), ErrDuplicateSchemaID, def.ID)
		}
		defs[def.ID] = def
	}

	schemas := make(map[string]*schema.Schema)
	labels := make(map[string]string)
	for id, def := range defs {
		for field, label := range def.Labels {
			labels[field] = label
		}
		if def.Abstract {
			continue
		}

		content := normalizeDocument(def.Schema)
		if def.Base != "" {
			base, ok := defs[def.Base]
			if !ok {
				return fmt.Errorf("%s: %w: %s", id, ErrUnknownBase, def.Base)
			}
			composed, err := schema.Compose(normalizeDocument(base.Schema), content)
			if err != nil {
				return fmt.Errorf("%s: %w", id, err)
			}
			content = composed
		}

		schemas[id] = &schema.Schema{
			ID:          id,
			DisplayName: def.DisplayName,
			Description: def.Description,
			Category:    schema.Category(def.Category),
			Content:     content,
		}
		if !schema.ValidCategory(schemas[id].Category) {
			return fmt.Errorf("%s: %w: category %q", id, ErrInvalidDefinition, def.Category)
		}
	}

	r.replaceAll(schemas, labels)
	r.logger.Info("schema directory loaded",
		slog.String("dir", dir),
		slog.Int("schemas", len(schemas)),
	)
	return nil
}

func loadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the configured schema directory
	if err != nil {
		return nil, err
	}

	var def Definition
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(data, &def)
	} else {
		err = yaml.Unmarshal(data, &def)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	if def.ID == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidDefinition)
	}
	if def.Schema == nil {
		return nil, fmt.Errorf("%w: schema is required", ErrInvalidDefinition)
	}
	return &def, nil
}

func isDefinitionFile(name string) bool {
	switch filepath.Ext(name) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// normalizeDocument converts YAML-decoded trees to the generic JSON shape
// the engine works with. yaml.v3 decodes nested maps as
// map[string]interface{} already; this pass normalizes any residual
// map[interface{}]interface{} values from older-style documents.
func normalizeDocument(doc map[string]interface{}) schema.Document {
	if doc == nil {
		return schema.Document{}
	}
	normalized, _ := normalizeValue(doc).(map[string]interface{})
	return normalized
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprintf("%v", k)] = normalizeValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

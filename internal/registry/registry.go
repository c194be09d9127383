// Package registry stores complete schemas and hands them to callers by ID.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/badibam/schemakit/internal/schema"
)

// Sentinel errors for the registry layer.
var (
	ErrSchemaNotFound    = errors.New("schema not found")
	ErrInvalidDefinition = errors.New("invalid schema definition")
	ErrUnknownBase       = errors.New("unknown base schema")
	ErrDuplicateSchemaID = errors.New("duplicate schema id")
)

// Registry is a concurrency-safe in-memory schema store. Schemas are
// immutable once registered; a reload replaces the whole set atomically.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]*schema.Schema
	labels  map[string]string
	logger  *slog.Logger
}

// New creates an empty registry.
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		schemas: make(map[string]*schema.Schema),
		labels:  make(map[string]string),
		logger:  logger,
	}
}

// Register adds a schema. A missing ID is assigned a fresh UUID; the
// category must be known. Registering an existing ID fails, use reload
// semantics for replacement.
func (r *Registry) Register(s *schema.Schema) error {
	if s == nil || s.Content == nil {
		return fmt.Errorf("%w: schema content is required", ErrInvalidDefinition)
	}
	if !schema.ValidCategory(s.Category) {
		return fmt.Errorf("%w: category %q", ErrInvalidDefinition, s.Category)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.schemas[s.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSchemaID, s.ID)
	}
	r.schemas[s.ID] = s
	return nil
}

// GetSchema returns the schema with the given ID.
func (r *Registry) GetSchema(id string) (*schema.Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, id)
	}
	return s, nil
}

// ListSchemas returns all registered schemas ordered by ID.
func (r *Registry) ListSchemas() []*schema.Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*schema.Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Lookup implements validation.FieldLabeler using the display labels
// collected from schema definition files.
func (r *Registry) Lookup(field string) string {
	r.mu.RLock()
	label, ok := r.labels[field]
	r.mu.RUnlock()
	if ok {
		return label
	}
	// Same fallback contract as the host string table: always return
	// something usable.
	return fallbackLabel(field)
}

// replaceAll swaps the registered schema set and label table atomically.
func (r *Registry) replaceAll(schemas map[string]*schema.Schema, labels map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas = schemas
	r.labels = labels
}

func fallbackLabel(field string) string {
	if field == "" {
		return "Field"
	}
	out := []rune(field)
	if out[0] >= 'a' && out[0] <= 'z' {
		out[0] = out[0] - 'a' + 'A'
	}
	return string(out)
}

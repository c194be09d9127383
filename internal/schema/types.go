// Package schema provides the schema document model, composition and
// conditional resolution for declarative business data.
package schema

// Category classifies what kind of business data a schema describes.
type Category string

const (
	CategoryTool     Category = "tool"
	CategoryEntry    Category = "entry"
	CategoryProvider Category = "provider"
	CategorySettings Category = "settings"
)

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryTool, CategoryEntry, CategoryProvider, CategorySettings:
		return true
	}
	return false
}

// Schema is a complete, standalone schema document with its metadata.
// Identity is ID. Content never carries external references and is
// immutable after construction.
type Schema struct {
	ID          string   `json:"id" yaml:"id"`
	DisplayName string   `json:"displayName" yaml:"displayName"`
	Description string   `json:"description" yaml:"description"`
	Category    Category `json:"category" yaml:"category"`
	Content     Document `json:"content" yaml:"content"`
}

// Context carries already-known field values (scalars and nested maps) used
// to decide which conditional branches apply. It is never mutated by the
// engine.
type Context = map[string]interface{}

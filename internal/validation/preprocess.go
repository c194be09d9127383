package validation

import (
	"encoding/json"
	"strings"

	"github.com/badibam/schemakit/internal/schema"
)

// PreprocessData returns a filtered copy of a raw data tree, applying the
// absence semantics the matcher relies on:
//
//   - an explicit null is dropped from its parent map (null means "omit")
//   - strings are kept unchanged, empty strings included (an empty string
//     is an intentional value, distinct from omission)
//   - nested maps are filtered recursively and kept even when they end up
//     empty (the schema may still require their presence)
//   - lists have null elements dropped; a list left empty is removed from
//     its parent entirely, unlike an empty map
//
// The input is never mutated.
func PreprocessData(data map[string]interface{}) map[string]interface{} {
	if data == nil {
		return map[string]interface{}{}
	}

	result := make(map[string]interface{}, len(data))
	for key, value := range data {
		switch val := value.(type) {
		case nil:
			// absence
		case map[string]interface{}:
			result[key] = PreprocessData(val)
		case []interface{}:
			filtered := preprocessList(val)
			if len(filtered) > 0 {
				result[key] = filtered
			}
		default:
			result[key] = val
		}
	}
	return result
}

func preprocessList(list []interface{}) []interface{} {
	result := make([]interface{}, 0, len(list))
	for _, item := range list {
		switch val := item.(type) {
		case nil:
			// dropped
		case map[string]interface{}:
			result = append(result, PreprocessData(val))
		case []interface{}:
			if filtered := preprocessList(val); len(filtered) > 0 {
				result = append(result, filtered)
			}
		default:
			result = append(result, val)
		}
	}
	return result
}

// CoerceStringObjects decodes string values that carry a JSON-encoded
// object where the schema declares an object type. Hosts that persist
// nested structures as encoded strings hand them over untouched; the
// matcher needs the real tree. Values that do not parse are left as-is and
// fail type checking downstream.
func CoerceStringObjects(data map[string]interface{}, doc schema.Document) map[string]interface{} {
	props := schema.GetProperties(doc)
	if props == nil {
		return data
	}

	for key, value := range data {
		propSchema, ok := props[key].(map[string]interface{})
		if !ok {
			continue
		}
		switch val := value.(type) {
		case string:
			if schema.GetType(propSchema) != "object" {
				continue
			}
			trimmed := strings.TrimSpace(val)
			if !strings.HasPrefix(trimmed, "{") {
				continue
			}
			var decoded map[string]interface{}
			if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
				data[key] = CoerceStringObjects(decoded, propSchema)
			}
		case map[string]interface{}:
			data[key] = CoerceStringObjects(val, propSchema)
		}
	}
	return data
}

// StripRequired returns a copy of the schema document with every required
// array removed from every nested object, for partial validation. All
// other constraints (types, lengths, enums) stay intact, so fields that
// are present remain fully checked.
func StripRequired(doc schema.Document) schema.Document {
	stripped, _ := stripRequiredValue(schema.DeepCopy(doc)).(map[string]interface{})
	return stripped
}

func stripRequiredValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		switch val["required"].(type) {
		case []interface{}, []string:
			delete(val, "required")
		}
		for _, child := range val {
			stripRequiredValue(child)
		}
	case []interface{}:
		for _, item := range val {
			stripRequiredValue(item)
		}
	}
	return v
}

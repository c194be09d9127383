package schema

import (
	"fmt"
	"sort"
)

// Keys with dedicated merge semantics in Compose. Everything else is
// metadata and follows specific-overrides-base.
var structuralKeys = map[string]bool{
	"properties":           true,
	"required":             true,
	"allOf":                true,
	"additionalProperties": true,
}

// Compose merges a shared base fragment and a type-specific fragment into
// one standalone schema document:
//
//   - metadata (type, description, vendor extensions): specific overrides
//     base on collision; type defaults to "object" if neither supplies one
//   - properties: union, the specific fragment's definition wins wholesale
//   - required: union, de-duplicated, sorted for reproducible output
//   - allOf: concatenation, base entries first (resolution order matters,
//     later entries overwrite earlier ones on field conflicts)
//   - additionalProperties: specific wins if present, else base, else false
//
// Both fragments are left untouched; the result is a fresh document.
func Compose(base, specific Document) (Document, error) {
	if err := checkFragment("compose", base); err != nil {
		return nil, err
	}
	if err := checkFragment("compose", specific); err != nil {
		return nil, err
	}

	result := make(Document)

	// Metadata, base first so specific overrides on collision.
	for k, v := range base {
		if !structuralKeys[k] {
			result[k] = deepCopyValue(v)
		}
	}
	for k, v := range specific {
		if !structuralKeys[k] {
			result[k] = deepCopyValue(v)
		}
	}
	if _, ok := result["type"]; !ok {
		result["type"] = "object"
	}

	props := make(map[string]interface{})
	for k, v := range GetProperties(base) {
		props[k] = deepCopyValue(v)
	}
	for k, v := range GetProperties(specific) {
		props[k] = deepCopyValue(v)
	}
	if len(props) > 0 {
		result["properties"] = props
	}

	if required := unionRequired(base, specific); len(required) > 0 {
		result["required"] = required
	}

	allOf := make([]interface{}, 0, len(GetAllOf(base))+len(GetAllOf(specific)))
	for _, entry := range GetAllOf(base) {
		allOf = append(allOf, deepCopyValue(entry))
	}
	for _, entry := range GetAllOf(specific) {
		allOf = append(allOf, deepCopyValue(entry))
	}
	if len(allOf) > 0 {
		result["allOf"] = allOf
	}

	if ap, ok := GetAdditionalProperties(specific); ok {
		result["additionalProperties"] = ap
	} else if ap, ok := GetAdditionalProperties(base); ok {
		result["additionalProperties"] = ap
	} else {
		result["additionalProperties"] = false
	}

	return result, nil
}

// unionRequired merges both fragments' required arrays into a sorted,
// de-duplicated string list.
func unionRequired(base, specific Document) []interface{} {
	seen := make(map[string]bool)
	for _, name := range GetRequired(base) {
		seen[name] = true
	}
	for _, name := range GetRequired(specific) {
		seen[name] = true
	}
	if len(seen) == 0 {
		return nil
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]interface{}, len(names))
	for i, name := range names {
		result[i] = name
	}
	return result
}

// checkFragment verifies the invariants Compose assumes about a fragment:
// structural keys, when present, must carry their expected shapes.
func checkFragment(op string, doc Document) error {
	if doc == nil {
		return nil
	}
	if raw, ok := doc["properties"]; ok {
		if _, ok := raw.(map[string]interface{}); !ok {
			return compositionErr(op, raw, fmt.Errorf("%w: properties must be an object", ErrInvalidFragment))
		}
	}
	if raw, ok := doc["required"]; ok {
		switch raw.(type) {
		case []interface{}, []string:
		default:
			return compositionErr(op, raw, fmt.Errorf("%w: required must be an array", ErrInvalidFragment))
		}
	}
	if raw, ok := doc["allOf"]; ok {
		if _, ok := raw.([]interface{}); !ok {
			return compositionErr(op, raw, fmt.Errorf("%w: allOf must be an array", ErrInvalidFragment))
		}
	}
	return nil
}

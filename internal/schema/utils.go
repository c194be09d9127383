package schema

import (
	"encoding/json"
	"strings"
)

// ExtractSubSchema returns the schema of a named top-level property, or nil
// when the schema declares no such property.
func ExtractSubSchema(full Document, fieldName string) Document {
	props := GetProperties(full)
	if props == nil {
		return nil
	}
	sub, ok := props[fieldName].(map[string]interface{})
	if !ok {
		return nil
	}
	return sub
}

// CombineSchemas merges two whole schemas for ad hoc use: property union
// with b winning on conflict, plus a de-duplicated required union. Unlike
// Compose it handles no metadata or conditional blocks.
func CombineSchemas(a, b Document) (Document, error) {
	if err := checkFragment("combine", a); err != nil {
		return nil, err
	}
	if err := checkFragment("combine", b); err != nil {
		return nil, err
	}

	result := make(Document)

	props := make(map[string]interface{})
	for k, v := range GetProperties(a) {
		props[k] = deepCopyValue(v)
	}
	for k, v := range GetProperties(b) {
		props[k] = deepCopyValue(v)
	}
	if len(props) > 0 {
		result["properties"] = props
	}

	if required := unionRequired(a, b); len(required) > 0 {
		result["required"] = required
	}

	return result, nil
}

// StripSystemManaged removes from data, in place, every key whose property
// schema carries a systemManaged: true marker. Returns the number of keys
// removed. Used before handing data to an external mutation command so
// that fields only a trusted internal process may set cannot be
// overwritten from outside.
func StripSystemManaged(data map[string]interface{}, doc Document) int {
	removed := 0
	for name, raw := range GetProperties(doc) {
		prop, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if managed, ok := prop["systemManaged"].(bool); !ok || !managed {
			continue
		}
		if _, present := data[name]; present {
			delete(data, name)
			removed++
		}
	}
	return removed
}

// EmbedFragment splices a reusable schema body into a template string at an
// unquoted placeholder token. Only the fragment's structural body (type,
// properties, required, additionalProperties) is spliced; its own top-level
// metadata is dropped. This is a textual macro, not a structural merge.
func EmbedFragment(template, placeholder string, fragment Document) (string, error) {
	if !strings.Contains(template, placeholder) {
		return "", compositionErr("embed", placeholder, ErrMissingPlaceholder)
	}

	body := make(Document)
	for _, key := range []string{"type", "properties", "required", "additionalProperties"} {
		if v, ok := fragment[key]; ok {
			body[key] = v
		}
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return "", compositionErr("embed", fragment, err)
	}
	return strings.Replace(template, placeholder, string(encoded), 1), nil
}

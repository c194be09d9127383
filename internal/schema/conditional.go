package schema

import "fmt"

// Composition keywords stripped from a resolved document.
var compositionKeys = map[string]bool{
	"allOf": true,
	"oneOf": true,
	"if":    true,
	"then":  true,
	"else":  true,
}

// Resolve flattens the composition keywords of a schema document against a
// context of already-known field values, producing a non-conditional
// document. Pure function: neither input is mutated.
//
// Semantics:
//
//   - allOf accumulates: entries are applied in list order, each merged on
//     top of the previous result, so later entries overwrite earlier ones.
//     An entry guarded by if+then is merged only when its condition matches
//     the context; a bare entry (neither if nor then) is merged always.
//   - oneOf is first-match-wins: the first entry whose if matches
//     contributes its branch, the rest are ignored. Entries without an if
//     guard are not evaluated against context and are skipped.
//   - a top-level if merges then on match and else otherwise; an absent
//     branch merges nothing.
//
// Merged fragments are themselves resolved first, so no composition keyword
// survives into the result.
func Resolve(doc Document, ctx Context) Document {
	result := make(Document, len(doc))
	for k, v := range doc {
		if !compositionKeys[k] {
			result[k] = deepCopyValue(v)
		}
	}

	for _, raw := range GetAllOf(doc) {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		cond, hasIf := entry["if"].(map[string]interface{})
		branch, hasThen := entry["then"].(map[string]interface{})
		switch {
		case hasIf && hasThen:
			if Matches(cond, ctx) {
				mergeNode(result, Resolve(branch, ctx))
			}
		case !hasIf && !hasThen:
			mergeNode(result, Resolve(entry, ctx))
		}
	}

	if oneOf, ok := doc["oneOf"].([]interface{}); ok {
		for _, raw := range oneOf {
			entry, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			cond, hasIf := entry["if"].(map[string]interface{})
			if !hasIf {
				continue
			}
			if Matches(cond, ctx) {
				if branch, ok := entry["then"].(map[string]interface{}); ok {
					mergeNode(result, Resolve(branch, ctx))
				} else {
					mergeNode(result, Resolve(entry, ctx))
				}
				break
			}
		}
	}

	if cond, ok := doc["if"].(map[string]interface{}); ok {
		if Matches(cond, ctx) {
			if branch, ok := doc["then"].(map[string]interface{}); ok {
				mergeNode(result, Resolve(branch, ctx))
			}
		} else if branch, ok := doc["else"].(map[string]interface{}); ok {
			mergeNode(result, Resolve(branch, ctx))
		}
	}

	return result
}

// Matches evaluates a condition of the form {properties: {field: matcher}}
// against the context. Every listed field must match (logical AND). A
// matcher is const (text equality), enum (text membership) or a nested
// properties object, in which case the context value must itself be a map
// and matching recurses into it. A field absent from the context, or
// present with an incompatible shape, fails the whole condition.
func Matches(condition Document, ctx Context) bool {
	props, ok := condition["properties"].(map[string]interface{})
	if !ok {
		return false
	}

	for field, raw := range props {
		matcher, ok := raw.(map[string]interface{})
		if !ok {
			return false
		}
		value, present := ctx[field]
		if !present {
			return false
		}
		if !matchValue(matcher, value) {
			return false
		}
	}
	return true
}

func matchValue(matcher map[string]interface{}, value interface{}) bool {
	if want, ok := matcher["const"]; ok {
		return asText(value) == asText(want)
	}
	if enum, ok := matcher["enum"].([]interface{}); ok {
		text := asText(value)
		for _, allowed := range enum {
			if text == asText(allowed) {
				return true
			}
		}
		return false
	}
	if _, ok := matcher["properties"]; ok {
		nested, ok := value.(map[string]interface{})
		if !ok {
			return false
		}
		return Matches(matcher, nested)
	}
	return false
}

// asText normalizes scalars to their text form so "3" matches 3 regardless
// of how the context was decoded.
func asText(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// mergeNode merges source into target: map values merge recursively, every
// other value (arrays included) replaces the target wholesale.
func mergeNode(target, source map[string]interface{}) {
	for k, sv := range source {
		if tm, ok := target[k].(map[string]interface{}); ok {
			if sm, ok := sv.(map[string]interface{}); ok {
				mergeNode(tm, sm)
				continue
			}
		}
		target[k] = deepCopyValue(sv)
	}
}

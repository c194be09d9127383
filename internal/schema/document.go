package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Document is a JSON-shaped schema tree: leaf constraint sets
// (type/enum/const/length/range/pattern/required/additionalProperties) and
// composition nodes (allOf/oneOf/if-then-else) represented as generic maps.
type Document = map[string]interface{}

// GetType extracts the type keyword from a schema node.
func GetType(doc Document) string {
	if t, ok := doc["type"].(string); ok {
		return t
	}
	if types, ok := doc["type"].([]interface{}); ok && len(types) > 0 {
		if t, ok := types[0].(string); ok {
			return t
		}
	}
	return ""
}

// GetProperties extracts the properties object from a schema node.
func GetProperties(doc Document) map[string]interface{} {
	if props, ok := doc["properties"].(map[string]interface{}); ok {
		return props
	}
	return nil
}

// GetRequired extracts the required field names from a schema node.
func GetRequired(doc Document) []string {
	switch required := doc["required"].(type) {
	case []interface{}:
		result := make([]string, 0, len(required))
		for _, r := range required {
			if s, ok := r.(string); ok {
				result = append(result, s)
			}
		}
		return result
	case []string:
		return required
	}
	return nil
}

// GetEnum extracts enum values from a schema node.
func GetEnum(doc Document) []interface{} {
	if enum, ok := doc["enum"].([]interface{}); ok {
		return enum
	}
	return nil
}

// GetAdditionalProperties extracts additionalProperties from a schema node.
func GetAdditionalProperties(doc Document) (interface{}, bool) {
	val, ok := doc["additionalProperties"]
	return val, ok
}

// GetAllOf extracts the allOf list from a schema node.
func GetAllOf(doc Document) []interface{} {
	if allOf, ok := doc["allOf"].([]interface{}); ok {
		return allOf
	}
	return nil
}

// HasConditionals reports whether the document contains if/then conditional
// validation anywhere in its tree.
func HasConditionals(doc Document) bool {
	return hasConditionals(doc)
}

func hasConditionals(v interface{}) bool {
	switch val := v.(type) {
	case map[string]interface{}:
		_, hasIf := val["if"]
		_, hasThen := val["then"]
		if hasIf && hasThen {
			return true
		}
		for _, child := range val {
			if hasConditionals(child) {
				return true
			}
		}
	case []interface{}:
		for _, item := range val {
			if hasConditionals(item) {
				return true
			}
		}
	}
	return false
}

// DeepCopy returns a structural copy of a schema document. Maps and slices
// are copied; scalars are shared.
func DeepCopy(doc Document) Document {
	copied, _ := deepCopyValue(doc).(map[string]interface{})
	return copied
}

func deepCopyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = deepCopyValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}

// Canonicalize returns a canonical JSON representation of a document.
// Keys are sorted alphabetically for consistent fingerprinting.
func Canonicalize(doc Document) string {
	return canonicalizeValue(doc)
}

// Fingerprint returns the SHA-256 hex digest of the canonical form.
// Used as the compiled-schema cache key.
func Fingerprint(doc Document) string {
	hash := sha256.Sum256([]byte(Canonicalize(doc)))
	return hex.EncodeToString(hash[:])
}

func canonicalizeValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case int:
		return fmt.Sprintf("%d", val)
	case string:
		b, _ := json.Marshal(val)
		return string(b)
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, canonicalizeValue(item))
		}
		return "[" + strings.Join(parts, ",") + "]"
	case []string:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, canonicalizeValue(item))
		}
		return "[" + strings.Join(parts, ",") + "]"
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			keyStr, _ := json.Marshal(k)
			parts = append(parts, string(keyStr)+":"+canonicalizeValue(val[k]))
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}

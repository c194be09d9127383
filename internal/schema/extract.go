package schema

import "strings"

// Extract resolves the parent document against the context (when one is
// supplied) and walks the dotted path to the addressed sub-schema. A
// missing path segment returns nil rather than an error; callers treat
// that as "no such sub-schema".
func Extract(parent Document, path string, ctx Context) Document {
	if parent == nil {
		return nil
	}

	current := parent
	if len(ctx) > 0 {
		current = Resolve(parent, ctx)
	}

	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			continue
		}
		child, ok := current[segment].(map[string]interface{})
		if !ok {
			return nil
		}
		current = child
	}
	return current
}

// Package validation validates data trees against schema documents and
// reduces raw validation failures to a single human-addressed message.
package validation

import "strings"

// Message is a raw validation failure: where in the data it occurred, what
// went wrong, and which schema node produced it. Messages never escape the
// engine; they are consumed immediately by the error processor.
type Message struct {
	// Path is the field pointer into the data tree, e.g. ".value.quantity"
	// or ".items[2].name". Empty for the root.
	Path string
	// Message is the failure text from the underlying matcher.
	Message string
	// SchemaPath is the keyword location inside the schema document that
	// produced the failure, e.g. "/allOf/1/then/properties/x/minLength".
	SchemaPath string
}

// Result is the only outcome callers ever see. Raw messages are always
// reduced to at most one short string.
type Result struct {
	IsValid      bool   `json:"is_valid"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Valid returns a successful result.
func Valid() Result {
	return Result{IsValid: true}
}

// Invalid returns a failed result with the processed message.
func Invalid(message string) Result {
	return Result{IsValid: false, ErrorMessage: message}
}

// FieldLabeler resolves a technical field name to a short display label.
// Supplied by the host application, typically backed by a localized string
// table. Implementations must return some string for any input, never fail.
type FieldLabeler interface {
	Lookup(field string) string
}

// MapLabeler looks labels up in a fixed table, falling back to a humanized
// form of the technical name.
type MapLabeler map[string]string

// Lookup implements FieldLabeler.
func (m MapLabeler) Lookup(field string) string {
	if label, ok := m[field]; ok {
		return label
	}
	return humanize(field)
}

// humanize turns a technical field name into a readable fallback label:
// snake_case and camelCase are split into words, the first word is
// capitalized.
func humanize(field string) string {
	if field == "" {
		return "Field"
	}

	var b strings.Builder
	for i, r := range field {
		switch {
		case r == '_' || r == '-':
			b.WriteByte(' ')
		case i > 0 && r >= 'A' && r <= 'Z':
			b.WriteByte(' ')
			b.WriteRune(r - 'A' + 'a')
		default:
			b.WriteRune(r)
		}
	}

	words := strings.Fields(b.String())
	if len(words) == 0 {
		return "Field"
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ")
}

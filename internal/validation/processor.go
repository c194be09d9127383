package validation

import (
	"strings"

	"github.com/badibam/schemakit/internal/schema"
)

// Failure categories, in descending priority. When several failures target
// the same field, the highest category wins; structural complaints are
// reported only when nothing else is wrong with the field.
const (
	tierNone = iota
	tierStructural
	tierConstraint
	tierFormat
	tierRequired
	tierType
)

// Keyword suffixes mapped to categories. Classification keys off the
// schema keyword that failed, not the wording of the matcher's message.
var keywordTiers = map[string]int{
	"type":                 tierType,
	"required":             tierRequired,
	"pattern":              tierFormat,
	"format":               tierFormat,
	"minLength":            tierConstraint,
	"maxLength":            tierConstraint,
	"minimum":              tierConstraint,
	"maximum":              tierConstraint,
	"exclusiveMinimum":     tierConstraint,
	"exclusiveMaximum":     tierConstraint,
	"multipleOf":           tierConstraint,
	"minItems":             tierConstraint,
	"maxItems":             tierConstraint,
	"enum":                 tierConstraint,
	"const":                tierConstraint,
	"additionalProperties": tierStructural,
}

// Processor reduces raw validation failures to one short, prioritized,
// human-addressed error per field.
type Processor struct {
	labeler   FieldLabeler
	separator string
}

// NewProcessor creates a processor rendering labels through the given
// lookup and joining per-field messages with the given separator.
func NewProcessor(labeler FieldLabeler, separator string) *Processor {
	if labeler == nil {
		labeler = MapLabeler(nil)
	}
	if separator == "" {
		separator = "\n"
	}
	return &Processor{labeler: labeler, separator: separator}
}

// Process filters, groups and renders raw messages against the original
// schema document. An empty return value means every failure was a
// structural false positive of an untaken conditional branch; the overall
// validation is then treated as success.
func (p *Processor) Process(messages []Message, content schema.Document) string {
	kept := p.filterRedundant(messages, content)
	if len(kept) == 0 {
		return ""
	}

	// Group by field path, preserving first-seen order.
	var order []string
	groups := make(map[string][]Message)
	for _, msg := range kept {
		if _, seen := groups[msg.Path]; !seen {
			order = append(order, msg.Path)
		}
		groups[msg.Path] = append(groups[msg.Path], msg)
	}

	rendered := make([]string, 0, len(order))
	for _, path := range order {
		if msg, ok := p.pick(groups[path]); ok {
			rendered = append(rendered, p.render(msg))
		}
	}
	return strings.Join(rendered, p.separator)
}

// filterRedundant drops structural complaints that additionalProperties:
// false at the base level raises for fields that only exist inside a
// conditional branch not taken. The filter applies only to schemas that
// contain conditional validation at all, and never to complaints that
// originate inside a then/else branch (those are genuine).
func (p *Processor) filterRedundant(messages []Message, content schema.Document) []Message {
	if !schema.HasConditionals(content) {
		return messages
	}

	kept := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if classify(msg) == tierStructural && !inConditionalBranch(msg.SchemaPath) {
			continue
		}
		kept = append(kept, msg)
	}
	return kept
}

func inConditionalBranch(schemaPath string) bool {
	for _, segment := range strings.Split(schemaPath, "/") {
		if segment == "then" || segment == "else" {
			return true
		}
	}
	return false
}

// pick selects the single most informative failure for one field. A
// structural complaint is reported only when it is the sole message for
// the field; if nothing classifies, the first message wins verbatim.
func (p *Processor) pick(group []Message) (Message, bool) {
	best := -1
	bestTier := tierNone
	for i, msg := range group {
		if tier := classify(msg); tier > bestTier {
			bestTier = tier
			best = i
		}
	}

	switch {
	case bestTier == tierStructural && len(group) > 1:
		// Outranked by nothing, but structural noise next to other
		// failures never surfaces; fall back to the first message.
		return group[0], true
	case best >= 0:
		return group[best], true
	default:
		return group[0], true
	}
}

func classify(msg Message) int {
	keyword := msg.SchemaPath
	if i := strings.LastIndex(keyword, "/"); i >= 0 {
		keyword = keyword[i+1:]
	}
	return keywordTiers[keyword]
}

// render prefixes the message with the display label of the last path
// segment, array-index suffixes ignored.
func (p *Processor) render(msg Message) string {
	return p.labeler.Lookup(FieldName(msg.Path)) + ": " + msg.Message
}

// FieldName extracts the technical field name from a field pointer:
// the last dotted segment, with any [n] index suffix removed.
func FieldName(path string) string {
	segment := path
	if i := strings.LastIndex(segment, "."); i >= 0 {
		segment = segment[i+1:]
	}
	if i := strings.Index(segment, "["); i >= 0 {
		segment = segment[:i]
	}
	return segment
}

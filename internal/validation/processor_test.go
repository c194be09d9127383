package validation

import (
	"strings"
	"testing"

	"github.com/badibam/schemakit/internal/schema"
)

var plainSchema = schema.Document{
	"type": "object",
	"properties": map[string]interface{}{
		"name": map[string]interface{}{"type": "string"},
	},
}

var conditionalSchema = schema.Document{
	"type": "object",
	"allOf": []interface{}{
		map[string]interface{}{
			"if":   map[string]interface{}{},
			"then": map[string]interface{}{},
		},
	},
}

func TestProcessor_PriorityOrder(t *testing.T) {
	messages := []Message{
		{Path: ".age", Message: "length must be >= 1", SchemaPath: "/properties/age/minLength"},
		{Path: ".age", Message: "expected integer, but got string", SchemaPath: "/properties/age/type"},
		{Path: ".age", Message: "does not match pattern", SchemaPath: "/properties/age/pattern"},
	}

	p := NewProcessor(nil, "")
	got := p.Process(messages, plainSchema)
	if !strings.Contains(got, "expected integer") {
		t.Errorf("type mismatch must win the group, got %q", got)
	}
	if strings.Count(got, "\n") != 0 {
		t.Errorf("expected exactly one message for one field, got %q", got)
	}
}

func TestProcessor_OneMessagePerField(t *testing.T) {
	messages := []Message{
		{Path: ".name", Message: "required field is missing", SchemaPath: "/required"},
		{Path: ".age", Message: "expected integer, but got string", SchemaPath: "/properties/age/type"},
	}

	p := NewProcessor(nil, "; ")
	got := p.Process(messages, plainSchema)

	parts := strings.Split(got, "; ")
	if len(parts) != 2 {
		t.Fatalf("expected two rendered messages, got %q", got)
	}
}

func TestProcessor_StructuralKeptWithoutConditionals(t *testing.T) {
	messages := []Message{
		{Path: ".extra", Message: "field is not declared by the schema", SchemaPath: "/additionalProperties"},
	}

	p := NewProcessor(nil, "")
	got := p.Process(messages, plainSchema)
	if got == "" {
		t.Error("structural complaint must be reported for non-conditional schemas")
	}
}

func TestProcessor_StructuralFilteredUnderConditionals(t *testing.T) {
	messages := []Message{
		{Path: ".quantity", Message: "field is not declared by the schema", SchemaPath: "/additionalProperties"},
	}

	p := NewProcessor(nil, "")
	got := p.Process(messages, conditionalSchema)
	if got != "" {
		t.Errorf("base-level structural complaint must be filtered under conditional schemas, got %q", got)
	}
}

func TestProcessor_StructuralInsideBranchSurvivesFilter(t *testing.T) {
	messages := []Message{
		{Path: ".quantity", Message: "field is not declared by the schema", SchemaPath: "/allOf/0/then/additionalProperties"},
	}

	p := NewProcessor(nil, "")
	got := p.Process(messages, conditionalSchema)
	if got == "" {
		t.Error("a complaint originating inside a then branch is genuine and must survive")
	}
}

func TestProcessor_StructuralOnlyIfSoleMessage(t *testing.T) {
	messages := []Message{
		{Path: ".name", Message: "field is not declared by the schema", SchemaPath: "/additionalProperties"},
		{Path: ".name", Message: "length must be >= 1", SchemaPath: "/properties/name/minLength"},
	}

	p := NewProcessor(nil, "")
	got := p.Process(messages, plainSchema)
	if strings.Contains(got, "not declared") {
		t.Errorf("structural complaint must lose to any other failure, got %q", got)
	}
}

func TestProcessor_UnclassifiedFallsBackToFirst(t *testing.T) {
	messages := []Message{
		{Path: ".name", Message: "first strange failure", SchemaPath: "/properties/name/contains"},
		{Path: ".name", Message: "second strange failure", SchemaPath: "/properties/name/uniqueItems"},
	}

	p := NewProcessor(nil, "")
	got := p.Process(messages, plainSchema)
	if !strings.Contains(got, "first strange failure") {
		t.Errorf("expected first message verbatim, got %q", got)
	}
}

func TestProcessor_LabelSubstitution(t *testing.T) {
	messages := []Message{
		{Path: ".value.quantity", Message: "expected number, but got string", SchemaPath: "/properties/value/properties/quantity/type"},
	}

	p := NewProcessor(MapLabeler{"quantity": "Quantity (ml)"}, "")
	got := p.Process(messages, plainSchema)
	if !strings.HasPrefix(got, "Quantity (ml): ") {
		t.Errorf("expected display label prefix, got %q", got)
	}
}

func TestFieldName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{".value.quantity", "quantity"},
		{".items[2].name", "name"},
		{".items[2]", "items"},
		{".name", "name"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FieldName(tt.path); got != tt.want {
			t.Errorf("FieldName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"quantity", "Quantity"},
		{"created_at", "Created at"},
		{"displayName", "Display name"},
		{"", "Field"},
	}

	for _, tt := range tests {
		if got := humanize(tt.in); got != tt.want {
			t.Errorf("humanize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

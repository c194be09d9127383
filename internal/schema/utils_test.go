package schema

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestExtractSubSchema(t *testing.T) {
	full := Document{
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
		},
	}

	sub := ExtractSubSchema(full, "name")
	if sub == nil || sub["type"] != "string" {
		t.Errorf("ExtractSubSchema = %v, want name property schema", sub)
	}

	if sub := ExtractSubSchema(full, "missing"); sub != nil {
		t.Errorf("expected nil for unknown field, got %v", sub)
	}
	if sub := ExtractSubSchema(Document{}, "name"); sub != nil {
		t.Errorf("expected nil for schema without properties, got %v", sub)
	}
}

func TestCombineSchemas(t *testing.T) {
	a := Document{
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string", "minLength": 1},
		},
		"required": []interface{}{"name"},
	}
	b := Document{
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
			"age":  map[string]interface{}{"type": "integer"},
		},
		"required": []interface{}{"age", "name"},
	}

	result, err := CombineSchemas(a, b)
	if err != nil {
		t.Fatalf("CombineSchemas failed: %v", err)
	}

	name := GetProperties(result)["name"].(map[string]interface{})
	if _, ok := name["minLength"]; ok {
		t.Error("b must win wholesale on property conflict")
	}
	if want := []string{"age", "name"}; !reflect.DeepEqual(GetRequired(result), want) {
		t.Errorf("required = %v, want %v", GetRequired(result), want)
	}
}

func TestStripSystemManaged(t *testing.T) {
	doc := Document{
		"properties": map[string]interface{}{
			"name":       map[string]interface{}{"type": "string"},
			"created_at": map[string]interface{}{"type": "string", "systemManaged": true},
			"revision":   map[string]interface{}{"type": "integer", "systemManaged": true},
			"source":     map[string]interface{}{"type": "string", "systemManaged": false},
		},
	}
	data := map[string]interface{}{
		"name":       "walk",
		"created_at": "2026-01-01",
		"source":     "import",
	}

	removed := StripSystemManaged(data, doc)
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, ok := data["created_at"]; ok {
		t.Error("system-managed field survived the strip")
	}
	if _, ok := data["name"]; !ok {
		t.Error("ordinary field was removed")
	}
	if _, ok := data["source"]; !ok {
		t.Error("systemManaged: false field was removed")
	}
}

func TestEmbedFragment(t *testing.T) {
	template := `{"type": "object", "properties": {"config": __FRAGMENT__}}`
	fragment := Document{
		"type":        "object",
		"description": "dropped metadata",
		"properties": map[string]interface{}{
			"style": map[string]interface{}{"type": "string"},
		},
		"required": []interface{}{"style"},
	}

	result, err := EmbedFragment(template, "__FRAGMENT__", fragment)
	if err != nil {
		t.Fatalf("EmbedFragment failed: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(result), &doc); err != nil {
		t.Fatalf("spliced template is not valid JSON: %v\n%s", err, result)
	}
	if strings.Contains(result, "dropped metadata") {
		t.Error("fragment metadata must be stripped before splicing")
	}

	config := doc["properties"].(map[string]interface{})["config"].(map[string]interface{})
	if config["type"] != "object" {
		t.Errorf("spliced fragment type = %v, want object", config["type"])
	}
}

func TestEmbedFragment_MissingPlaceholder(t *testing.T) {
	_, err := EmbedFragment(`{"type": "object"}`, "__FRAGMENT__", Document{"type": "object"})
	if !errors.Is(err, ErrMissingPlaceholder) {
		t.Errorf("expected ErrMissingPlaceholder, got %v", err)
	}
}

package validation

import (
	"reflect"
	"testing"

	"github.com/badibam/schemakit/internal/schema"
)

func TestPreprocessData(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]interface{}
		want map[string]interface{}
	}{
		{
			"null values are dropped",
			map[string]interface{}{"name": "walk", "description": nil},
			map[string]interface{}{"name": "walk"},
		},
		{
			"empty string is preserved",
			map[string]interface{}{"name": ""},
			map[string]interface{}{"name": ""},
		},
		{
			"nested map filtered and kept when empty",
			map[string]interface{}{"config": map[string]interface{}{"unused": nil}},
			map[string]interface{}{"config": map[string]interface{}{}},
		},
		{
			"list nulls dropped",
			map[string]interface{}{"tags": []interface{}{"a", nil, "b"}},
			map[string]interface{}{"tags": []interface{}{"a", "b"}},
		},
		{
			"empty list dropped entirely",
			map[string]interface{}{"tags": []interface{}{nil, nil}},
			map[string]interface{}{},
		},
		{
			"list of maps filtered recursively",
			map[string]interface{}{"items": []interface{}{
				map[string]interface{}{"name": "x", "note": nil},
			}},
			map[string]interface{}{"items": []interface{}{
				map[string]interface{}{"name": "x"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PreprocessData(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PreprocessData() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPreprocessData_DoesNotMutateInput(t *testing.T) {
	in := map[string]interface{}{"name": "walk", "description": nil}
	PreprocessData(in)
	if _, ok := in["description"]; !ok {
		t.Error("PreprocessData mutated its input")
	}
}

func TestCoerceStringObjects(t *testing.T) {
	doc := schema.Document{
		"properties": map[string]interface{}{
			"config": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"style": map[string]interface{}{"type": "string"},
				},
			},
			"name": map[string]interface{}{"type": "string"},
		},
	}

	data := map[string]interface{}{
		"config": `{"style": "compact"}`,
		"name":   `{"not": "coerced"}`,
	}

	got := CoerceStringObjects(data, doc)

	config, ok := got["config"].(map[string]interface{})
	if !ok {
		t.Fatalf("config was not decoded: %T", got["config"])
	}
	if config["style"] != "compact" {
		t.Errorf("style = %v, want compact", config["style"])
	}
	if _, ok := got["name"].(string); !ok {
		t.Error("string-typed property must not be coerced")
	}
}

func TestCoerceStringObjects_InvalidJSONLeftAlone(t *testing.T) {
	doc := schema.Document{
		"properties": map[string]interface{}{
			"config": map[string]interface{}{"type": "object"},
		},
	}
	data := map[string]interface{}{"config": "{broken"}

	got := CoerceStringObjects(data, doc)
	if got["config"] != "{broken" {
		t.Errorf("unparseable value must stay untouched, got %v", got["config"])
	}
}

func TestStripRequired(t *testing.T) {
	doc := schema.Document{
		"type":     "object",
		"required": []interface{}{"name"},
		"properties": map[string]interface{}{
			"value": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"quantity"},
				"properties": map[string]interface{}{
					"quantity": map[string]interface{}{"type": "number", "minimum": 0},
				},
			},
		},
		"allOf": []interface{}{
			map[string]interface{}{
				"then": map[string]interface{}{"required": []interface{}{"unit"}},
			},
		},
	}

	stripped := StripRequired(doc)

	if _, ok := stripped["required"]; ok {
		t.Error("top-level required survived")
	}
	value := schema.GetProperties(stripped)["value"].(map[string]interface{})
	if _, ok := value["required"]; ok {
		t.Error("nested required survived")
	}
	then := schema.GetAllOf(stripped)[0].(map[string]interface{})["then"].(map[string]interface{})
	if _, ok := then["required"]; ok {
		t.Error("conditional-branch required survived")
	}

	// All other constraints stay.
	quantity := value["properties"].(map[string]interface{})["quantity"].(map[string]interface{})
	if quantity["minimum"] != 0 {
		t.Errorf("minimum constraint lost: %v", quantity)
	}

	// Original untouched.
	if schema.GetRequired(doc) == nil {
		t.Error("StripRequired mutated its input")
	}
}

package schema

import "testing"

func TestFingerprint_KeyOrderIndependent(t *testing.T) {
	a := Document{"type": "object", "required": []interface{}{"name"}}
	b := Document{"required": []interface{}{"name"}, "type": "object"}

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("fingerprint must not depend on map key order")
	}

	c := Document{"type": "object", "required": []interface{}{"age"}}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("distinct documents must not collide on fingerprint")
	}
}

func TestCanonicalize(t *testing.T) {
	doc := Document{
		"b": float64(2),
		"a": "x",
		"c": []interface{}{true, nil, float64(1.5)},
	}

	want := `{"a":"x","b":2,"c":[true,null,1.5]}`
	if got := Canonicalize(doc); got != want {
		t.Errorf("Canonicalize = %s, want %s", got, want)
	}
}

func TestHasConditionals(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want bool
	}{
		{"plain leaf", Document{"type": "string"}, false},
		{"if without then", Document{"if": map[string]interface{}{}}, false},
		{
			"top-level if/then",
			Document{"if": map[string]interface{}{}, "then": map[string]interface{}{}},
			true,
		},
		{
			"conditional nested in allOf",
			Document{"allOf": []interface{}{
				map[string]interface{}{
					"if":   map[string]interface{}{},
					"then": map[string]interface{}{},
				},
			}},
			true,
		},
		{
			"conditional nested in a property",
			Document{"properties": map[string]interface{}{
				"value": map[string]interface{}{
					"if":   map[string]interface{}{},
					"then": map[string]interface{}{},
				},
			}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasConditionals(tt.doc); got != tt.want {
				t.Errorf("HasConditionals = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeepCopy(t *testing.T) {
	doc := Document{
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
		},
	}

	copied := DeepCopy(doc)
	copied["properties"].(map[string]interface{})["name"].(map[string]interface{})["type"] = "number"

	if GetProperties(doc)["name"].(map[string]interface{})["type"] != "string" {
		t.Error("DeepCopy shares nested structure with its input")
	}
}

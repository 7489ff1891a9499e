package handlers

import (
	"encoding/json"
	"testing"
)

func TestParseRelations_Array(t *testing.T) {
	raw := json.RawMessage(`[{"persona_id":5,"rol_sacramento_id":1},{"persona_id":7,"rol_sacramento_id":2}]`)
	relations, err := parseRelations(raw)
	if err != nil {
		t.Fatalf("parseRelations returned error: %v", err)
	}
	if len(relations) != 2 {
		t.Fatalf("expected 2 relations, got %d", len(relations))
	}
	if relations[0].PersonID != 5 || relations[0].RoleID != 1 {
		t.Errorf("unexpected first relation: %+v", relations[0])
	}
}

func TestParseRelations_EncodedString(t *testing.T) {
	raw := json.RawMessage(`"[{\"persona_id\":5,\"rol_sacramento_id\":1}]"`)
	relations, err := parseRelations(raw)
	if err != nil {
		t.Fatalf("parseRelations returned error: %v", err)
	}
	if len(relations) != 1 || relations[0].PersonID != 5 {
		t.Fatalf("unexpected relations: %+v", relations)
	}
}

func TestParseRelations_EmptyArrayAllowed(t *testing.T) {
	relations, err := parseRelations(json.RawMessage(`[]`))
	if err != nil {
		t.Fatalf("empty array should parse, got error: %v", err)
	}
	if len(relations) != 0 {
		t.Fatalf("expected no relations, got %d", len(relations))
	}
}

func TestParseRelations_Invalid(t *testing.T) {
	cases := map[string]string{
		"absent":          ``,
		"null":            `null`,
		"object":          `{"persona_id":5}`,
		"number":          `42`,
		"bad encoded":     `"{\"persona_id\":5}"`,
		"garbage string":  `"not json at all"`,
		"malformed array": `[{"persona_id":}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := parseRelations(json.RawMessage(raw)); err == nil {
				t.Errorf("expected error for %q", raw)
			}
		})
	}
}

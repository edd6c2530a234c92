package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func noteSchema() *Schema {
	return &Schema{
		Name:        "test-study-note",
		Description: "A study note",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":   map[string]any{"type": "string", "minLength": 1},
				"summary": map[string]any{"type": "string"},
				"focus_points": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 2,
					"maxItems": 4,
				},
				"tone": map[string]any{"type": "string", "enum": []any{"encouraging", "neutral"}},
			},
			"required": []any{"title", "summary", "focus_points"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"title":"Retries","summary":"s","focus_points":["a","b"],"tone":"neutral"}`, false},
		{"optional omitted", `{"title":"Retries","summary":"s","focus_points":["a","b","c"]}`, false},
		{"missing required", `{"title":"Retries","summary":"s"}`, true},
		{"wrong item type", `{"title":"Retries","summary":"s","focus_points":[1,2]}`, true},
		{"too few focus points", `{"title":"Retries","summary":"s","focus_points":["a"]}`, true},
		{"bad enum", `{"title":"Retries","summary":"s","focus_points":["a","b"],"tone":"harsh"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(noteSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("err = %T, want *ErrInvalidResponse", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("nil schema should accept anything, got %v", err)
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(noteSchema().Definition)
	if s.Type != "OBJECT" {
		t.Fatalf("type = %s, want OBJECT", s.Type)
	}
	if len(s.Properties) != 4 || len(s.Required) != 3 {
		t.Fatalf("properties = %d required = %d", len(s.Properties), len(s.Required))
	}
	fp := s.Properties["focus_points"]
	if fp.Type != "ARRAY" || fp.Items.Type != "STRING" {
		t.Fatalf("focus_points = %s of %s", fp.Type, fp.Items.Type)
	}
	if fp.MinItems == nil || *fp.MinItems != 2 || fp.MaxItems == nil || *fp.MaxItems != 4 {
		t.Fatalf("focus_points bounds = %v..%v", fp.MinItems, fp.MaxItems)
	}
	if len(s.Properties["tone"].Enum) != 2 {
		t.Fatalf("tone enum = %v", s.Properties["tone"].Enum)
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		aliases map[string]string
		in      string
		want    string
	}{
		{anthropicModels, "claude-haiku", "claude-haiku-4-5-20251001"},
		{anthropicModels, "claude-sonnet-4-20250514", "claude-sonnet-4-20250514"},
		{openaiModels, "gpt-4o-mini", "gpt-4o-mini"},
		{geminiModels, "gemini-flash", "gemini-2.0-flash"},
		{geminiModels, "gemini-2.5-flash", "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.in, tt.aliases); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

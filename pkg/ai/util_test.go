package ai

import (
	"encoding/json"
	"testing"
)

type testPerson struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Conditions []string `json:"conditions"`
}

func TestUnmarshalFlexible_ObjectVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid json object",
			input: `{"id":1,"name":"Mother"}`,
			want:  "Mother",
		},
		{
			name:  "unquoted key and single quotes",
			input: `{id: 1, name: 'Mother'}`,
			want:  "Mother",
		},
		{
			name:  "trailing comma",
			input: `{"id":1,"name":"Mother",}`,
			want:  "Mother",
		},
		{
			name:  "missing endbracket",
			input: `{"id":1,"name":"Mother`,
			want:  "Mother",
		},
		{
			name:  "stringified invalid json object",
			input: `"{name: 'Mother'}"`,
			want:  "Mother",
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"name\": \"Mother\"\n}\n",
			want:  "Mother",
		},
		{
			name:  "markdown code fence",
			input: "```json\n{\"name\": \"Mother\"}\n```",
			want:  "Mother",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got testPerson
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got.Name != tc.want {
				t.Fatalf("UnmarshalFlexible() got = %+v, want name %q", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	var got testPerson
	if err := UnmarshalFlexible("hello", &got); err == nil {
		t.Fatalf("UnmarshalFlexible() expected error for unrecoverable input")
	}
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "valid", input: `{"people":[],"relationships":[]}`},
		{name: "trailing comma", input: `{"people":[],"relationships":[],}`},
		{name: "single quotes", input: `{'people':[],'relationships':[]}`},
		{name: "truncated", input: `{"people":[{"id":1,"name":"Mother"`},
		{name: "fenced", input: "```json\n{\"people\":[],\"relationships\":[]}\n```"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repaired, err := RepairJSON(tc.input)
			if err != nil {
				t.Fatalf("RepairJSON() error = %v", err)
			}
			if !json.Valid([]byte(repaired)) {
				t.Fatalf("RepairJSON() returned invalid JSON %q", repaired)
			}
		})
	}

	valid := `{"people": [], "relationships": []}`
	if got, _ := RepairJSON(valid); got != valid {
		t.Fatalf("RepairJSON() changed valid input: %q", got)
	}
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema(&testPerson{})
	data, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}
	if decoded["type"] != "object" {
		t.Fatalf("schema type = %v, want object", decoded["type"])
	}
	props, ok := decoded["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties: %s", data)
	}
	for _, key := range []string{"id", "name", "conditions"} {
		if _, ok := props[key]; !ok {
			t.Fatalf("schema is missing property %q", key)
		}
	}
}

func TestModelMetricsAdd(t *testing.T) {
	var m ModelMetrics
	m.Add(ModelMetrics{InputTokens: 10, OutputTokens: 5, TotalTokens: 15, DurationMs: 500})
	m.Add(ModelMetrics{InputTokens: 20, OutputTokens: 15, TotalTokens: 35, DurationMs: 500})

	if m.TotalTokens != 50 || m.DurationMs != 1000 {
		t.Fatalf("unexpected totals: %+v", m)
	}
	if m.TokenPerSecond != 50 {
		t.Fatalf("TokenPerSecond = %v, want 50", m.TokenPerSecond)
	}
}

func TestApplyOptions(t *testing.T) {
	opts := ApplyOptions(
		GenerateOptions{Model: "default", Temperature: 0.1},
		WithModel(""),
		WithTemperature(0.5),
		WithSystemPrompts("a", "b"),
	)
	if opts.Model != "default" {
		t.Fatalf("empty model override changed model to %q", opts.Model)
	}
	if opts.Temperature != 0.5 || len(opts.SystemPrompts) != 2 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

package pedigree

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func person(id int64, name, gender, dob string, conditions ...any) map[string]any {
	if conditions == nil {
		conditions = []any{}
	}
	return map[string]any{
		"id":         id,
		"name":       name,
		"gender":     gender,
		"dob":        dob,
		"conditions": conditions,
	}
}

func TestNormalizeReassignsIDsInOrder(t *testing.T) {
	raw := map[string]any{
		"people": []any{
			person(42, "A", "F", "approx"),
			person(7, "B", "M", "approx"),
			person(7, "C", "O", "approx"),
		},
	}

	out := Normalize(raw)

	people := out["people"].([]any)
	require.Len(t, people, 3)
	for idx, entry := range people {
		assert.Equal(t, int64(idx+1), entry.(map[string]any)["id"])
	}
	assert.Equal(t, "C", people[2].(map[string]any)["name"])
	assert.Equal(t, []any{}, out["relationships"])

	// input is untouched
	assert.Equal(t, int64(42), raw["people"].([]any)[0].(map[string]any)["id"])
}

func TestNormalizeDeepCopiesPeople(t *testing.T) {
	raw := map[string]any{
		"people": []any{person(1, "A", "F", "approx", "asthma")},
	}

	out := Normalize(raw)
	conditions := out["people"].([]any)[0].(map[string]any)["conditions"].([]any)
	conditions[0] = "changed"

	original := raw["people"].([]any)[0].(map[string]any)["conditions"].([]any)
	assert.Equal(t, "asthma", original[0])
}

func TestNormalizeRelationshipKeys(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want map[string]any
	}{
		{
			name: "canonical keys",
			in:   map[string]any{"from": int64(1), "to": int64(2), "type": "parent"},
			want: map[string]any{"from": int64(1), "to": int64(2), "type": "parent"},
		},
		{
			name: "alternate keys",
			in:   map[string]any{"from_id": int64(1), "to_id": int64(2), "type": "Spouse"},
			want: map[string]any{"from": int64(1), "to": int64(2), "type": "spouse"},
		},
		{
			name: "canonical wins over alternate",
			in:   map[string]any{"from": int64(3), "from_id": int64(1), "to": int64(4), "to_id": int64(2), "type": " SIBLING "},
			want: map[string]any{"from": int64(3), "to": int64(4), "type": "sibling"},
		},
		{
			name: "missing type",
			in:   map[string]any{"from": int64(1), "to": int64(2)},
			want: map[string]any{"from": int64(1), "to": int64(2), "type": ""},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := Normalize(map[string]any{"relationships": []any{tc.in}})
			assert.Equal(t, tc.want, out["relationships"].([]any)[0])
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := map[string]any{
		"people": []any{
			person(9, "A", "F", "1980-01-01", "Diabetes"),
			person(3, "B", "M", "approx"),
		},
		"relationships": []any{
			map[string]any{"from_id": int64(1), "to_id": int64(2), "type": " Spouse"},
		},
	}

	once := Normalize(raw)
	twice := Normalize(once)
	assert.Equal(t, once, twice)
}

func TestValidate(t *testing.T) {
	valid := func() map[string]any {
		return map[string]any{
			"people": []any{
				person(1, "A", "F", "approx"),
				person(2, "B", "M", "1980-01-01", "x"),
			},
			"relationships": []any{
				map[string]any{"from": int64(1), "to": int64(2), "type": "spouse"},
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(map[string]any) any
		reason string
	}{
		{
			name:   "valid payload",
			mutate: func(p map[string]any) any { return p },
		},
		{
			name:   "not an object",
			mutate: func(map[string]any) any { return []any{} },
			reason: "Pedigree must be a JSON object",
		},
		{
			name: "missing relationships",
			mutate: func(p map[string]any) any {
				delete(p, "relationships")
				return p
			},
			reason: "Pedigree must include 'people' and 'relationships'",
		},
		{
			name: "person is not an object",
			mutate: func(p map[string]any) any {
				p["people"] = []any{"alice"}
				return p
			},
			reason: "Each person must be an object",
		},
		{
			name: "person missing keys",
			mutate: func(p map[string]any) any {
				first := p["people"].([]any)[0].(map[string]any)
				delete(first, "gender")
				delete(first, "dob")
				return p
			},
			reason: "Person missing required keys: dob, gender",
		},
		{
			name: "non integer id",
			mutate: func(p map[string]any) any {
				p["people"].([]any)[0].(map[string]any)["id"] = "1"
				return p
			},
			reason: "Person id must be an integer",
		},
		{
			name: "fractional json number id",
			mutate: func(p map[string]any) any {
				p["people"].([]any)[0].(map[string]any)["id"] = json.Number("1.5")
				return p
			},
			reason: "Person id must be an integer",
		},
		{
			name: "bad gender",
			mutate: func(p map[string]any) any {
				p["people"].([]any)[0].(map[string]any)["gender"] = "X"
				return p
			},
			reason: "Unsupported gender value: X",
		},
		{
			name: "bad dob format",
			mutate: func(p map[string]any) any {
				p["people"].([]any)[0].(map[string]any)["dob"] = "01/02/1980"
				return p
			},
			reason: "Invalid dob: 01/02/1980",
		},
		{
			name: "impossible calendar date",
			mutate: func(p map[string]any) any {
				p["people"].([]any)[0].(map[string]any)["dob"] = "2021-02-30"
				return p
			},
			reason: "Invalid dob: 2021-02-30",
		},
		{
			name: "conditions not a list",
			mutate: func(p map[string]any) any {
				p["people"].([]any)[0].(map[string]any)["conditions"] = "asthma"
				return p
			},
			reason: "conditions must be a list",
		},
		{
			name: "dangling relationship",
			mutate: func(p map[string]any) any {
				p["relationships"] = []any{map[string]any{"from": int64(1), "to": int64(3), "type": "parent"}}
				return p
			},
			reason: "Relationship references unknown person id",
		},
		{
			name: "alternate keys resolve",
			mutate: func(p map[string]any) any {
				p["relationships"] = []any{map[string]any{"from_id": int64(2), "to_id": int64(1), "type": "child"}}
				return p
			},
		},
		{
			name: "type is trimmed and lowered before comparison",
			mutate: func(p map[string]any) any {
				p["relationships"] = []any{map[string]any{"from": int64(1), "to": int64(2), "type": "  Cousin "}}
				return p
			},
		},
		{
			name: "disallowed relationship type",
			mutate: func(p map[string]any) any {
				p["relationships"] = []any{map[string]any{"from": int64(1), "to": int64(2), "type": "friend"}}
				return p
			},
			reason: "Unsupported relationship type: friend",
		},
		{
			name: "first failure wins",
			mutate: func(p map[string]any) any {
				p["people"].([]any)[1].(map[string]any)["gender"] = "Z"
				p["relationships"] = []any{map[string]any{"from": int64(1), "to": int64(2), "type": "friend"}}
				return p
			},
			reason: "Unsupported gender value: Z",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := Validate(tc.mutate(valid()))
			if tc.reason == "" {
				assert.True(t, ok, reason)
				assert.Empty(t, reason)
				return
			}
			assert.False(t, ok)
			assert.Equal(t, tc.reason, reason)
		})
	}
}

func TestLoadPayload(t *testing.T) {
	text := `{
		"people": [
			{"id": 10, "name": "A", "gender": "F", "dob": "approx", "conditions": []},
			{"id": 20, "name": "B", "gender": "M", "dob": "1980-01-01", "conditions": ["Asthma"]}
		],
		"relationships": [{"from_id": 1, "to_id": 2, "type": " Parent "}]
	}`

	p, err := LoadPayload(text)
	require.NoError(t, err)

	require.Len(t, p.People, 2)
	assert.Equal(t, int64(1), p.People[0].ID)
	assert.Equal(t, int64(2), p.People[1].ID)
	assert.Equal(t, []string{"Asthma"}, p.People[1].Conditions)
	assert.Equal(t, []Relationship{{From: 1, To: 2, Type: RelParent}}, p.Relationships)
}

func TestLoadPayloadErrors(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		parse  bool
		reason string
	}{
		{name: "malformed json", text: `{"people": [`, parse: true},
		{name: "trailing data", text: `{"people": []} {}`, parse: true},
		{name: "array payload", text: `[]`, reason: "Pedigree must be a JSON object"},
		{
			name:   "schema violation",
			text:   `{"people": [{"id": 1, "name": "A", "gender": "Q", "dob": "approx", "conditions": []}], "relationships": []}`,
			reason: "Unsupported gender value: Q",
		},
		{
			name:   "reference to reassigned id",
			text:   `{"people": [{"id": 5, "name": "A", "gender": "F", "dob": "approx", "conditions": []}], "relationships": [{"from": 5, "to": 5, "type": "spouse"}]}`,
			reason: "Relationship references unknown person id",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadPayload(tc.text)
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.parse, vErr.IsParseError())
			if tc.parse {
				assert.Contains(t, vErr.Error(), "Invalid JSON payload")
			} else {
				assert.Equal(t, tc.reason, vErr.Error())
			}
		})
	}
}

func TestLoadPayloadMissingKeysDefaultToEmpty(t *testing.T) {
	p, err := LoadPayload(`{}`)
	require.NoError(t, err)
	assert.Empty(t, p.People)
	assert.Empty(t, p.Relationships)
}

func TestExtractPayload(t *testing.T) {
	payload := `{"people":[{"id":1,"name":"A","gender":"F","dob":"approx","conditions":[]}],"relationships":[]}`

	t.Run("whole text", func(t *testing.T) {
		p, err := ExtractPayload(payload)
		require.NoError(t, err)
		assert.Len(t, p.People, 1)
	})

	t.Run("embedded in prose", func(t *testing.T) {
		p, err := ExtractPayload("Here is the pedigree:\n" + payload + "\nWho else should be included?")
		require.NoError(t, err)
		assert.Equal(t, "A", p.People[0].Name)
	})

	t.Run("no object", func(t *testing.T) {
		_, err := ExtractPayload("nothing to see here")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoJSONObject)
		assert.Equal(t, "No JSON object found in text payload", err.Error())
	})

	t.Run("schema errors are not retried", func(t *testing.T) {
		_, err := ExtractPayload(`{"people": "x", "relationships": []}`)
		require.Error(t, err)
		assert.Equal(t, "people must be a list", err.Error())
	})
}

func TestRawRoundTrip(t *testing.T) {
	p := Pedigree{
		People: []Person{
			{ID: 1, Name: "A", Gender: "F", DOB: "approx", Conditions: []string{"htn"}},
			{ID: 2, Name: "B", Gender: "O", DOB: "2000-12-31", Conditions: []string{}},
		},
		Relationships: []Relationship{{From: 1, To: 2, Type: RelParent}},
	}

	raw := p.Raw()
	ok, reason := Validate(raw)
	require.True(t, ok, reason)
	assert.Equal(t, raw, Normalize(raw))
	assert.Equal(t, p, fromRaw(Normalize(raw)))
}

func TestPseudonymize(t *testing.T) {
	p := Pedigree{
		People: []Person{
			{ID: 1, Name: "Alice", Gender: "F", DOB: "approx", Conditions: []string{"htn"}},
			{ID: 2, Name: "Bob", Gender: "M", DOB: "1970-05-01", Conditions: []string{}},
		},
		Relationships: []Relationship{{From: 1, To: 2, Type: RelSpouse}},
	}

	out := Pseudonymize(p)

	assert.Equal(t, p.Relationships, out.Relationships)
	for i, person := range out.People {
		assert.Equal(t, PseudonymFor(person.ID), person.Name)
		assert.Equal(t, p.People[i].ID, person.ID)
		assert.Equal(t, p.People[i].Gender, person.Gender)
		assert.Equal(t, p.People[i].DOB, person.DOB)
		assert.Equal(t, p.People[i].Conditions, person.Conditions)
	}
	assert.Equal(t, "Person-1", out.People[0].Name)
	assert.Equal(t, "Alice", p.People[0].Name)

	out.People[0].Conditions[0] = "changed"
	assert.Equal(t, "htn", p.People[0].Conditions[0])
}

package pedigree

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawPedigree is a decoded but not yet validated pedigree payload.
// Numbers decoded by LoadPayload are kept as json.Number.
type RawPedigree map[string]any

// Normalize coerces a loosely structured payload into canonical shape.
//
// Missing "people" or "relationships" keys become empty lists. Every person
// object is deep-copied and gets a 1-based sequential id in input order,
// whatever id it carried before. Relationship endpoints are read from
// "from"/"to", falling back to "from_id"/"to_id" only when the canonical key
// is absent, and the type is lower-cased and trimmed.
//
// Relationship endpoints are not remapped to the reassigned person ids.
//
// Normalize never fails. Entries it cannot interpret are copied unchanged so
// that Validate can reject them. Normalize is idempotent.
func Normalize(raw map[string]any) RawPedigree {
	return RawPedigree{
		"people":        normalizePeople(raw["people"]),
		"relationships": normalizeRelationships(raw["relationships"]),
	}
}

func normalizePeople(value any) any {
	if value == nil {
		return []any{}
	}
	list, ok := value.([]any)
	if !ok {
		return deepCopy(value)
	}

	people := make([]any, 0, len(list))
	for idx, entry := range list {
		person, ok := entry.(map[string]any)
		if !ok {
			people = append(people, deepCopy(entry))
			continue
		}
		repaired := deepCopy(person).(map[string]any)
		repaired["id"] = int64(idx + 1)
		people = append(people, repaired)
	}
	return people
}

func normalizeRelationships(value any) any {
	if value == nil {
		return []any{}
	}
	list, ok := value.([]any)
	if !ok {
		return deepCopy(value)
	}

	relationships := make([]any, 0, len(list))
	for _, entry := range list {
		rel, ok := entry.(map[string]any)
		if !ok {
			relationships = append(relationships, deepCopy(entry))
			continue
		}
		relationships = append(relationships, normalizeRelationship(rel))
	}
	return relationships
}

func normalizeRelationship(raw map[string]any) map[string]any {
	from, ok := raw["from"]
	if !ok {
		from = raw["from_id"]
	}
	to, ok := raw["to"]
	if !ok {
		to = raw["to_id"]
	}
	relType, _ := raw["type"].(string)

	return map[string]any{
		"from": deepCopy(from),
		"to":   deepCopy(to),
		"type": strings.ToLower(strings.TrimSpace(relType)),
	}
}

func deepCopy(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[key] = deepCopy(inner)
		}
		return out
	case RawPedigree:
		return RawPedigree(deepCopy(map[string]any(v)).(map[string]any))
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = deepCopy(inner)
		}
		return out
	case []string:
		return append([]string{}, v...)
	default:
		return v
	}
}

// asInt64 reports whether value holds an integer and returns it. Integral
// floats are accepted for payloads decoded without json.Number.
func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

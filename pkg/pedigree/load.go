package pedigree

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/logger"
)

// ValidationError is returned when a payload cannot be parsed or does not
// match the pedigree schema. Reason is meant to be shown to the end user
// verbatim.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether the payload was not well-formed JSON.
func (e *ValidationError) IsParseError() bool {
	return e.Err != nil
}

// ErrNoJSONObject is wrapped by the error ExtractPayload returns when the
// text does not contain anything that looks like a JSON object.
var ErrNoJSONObject = errors.New("no JSON object found in text payload")

// LoadPayload parses text as JSON, normalizes and validates it and returns
// the canonical pedigree. Every failure is a *ValidationError.
func LoadPayload(text string) (Pedigree, error) {
	parsed, err := decodeJSON(text)
	if err != nil {
		return Pedigree{}, &ValidationError{
			Reason: fmt.Sprintf("Invalid JSON payload: %v", err),
			Err:    err,
		}
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		_, reason := Validate(parsed)
		return Pedigree{}, &ValidationError{Reason: reason}
	}

	normalized := Normalize(obj)
	if ok, reason := Validate(normalized); !ok {
		if reason == "" {
			reason = "Unknown validation error"
		}
		return Pedigree{}, &ValidationError{Reason: reason}
	}

	if idsReassigned(obj) {
		logger.Warn("[Pedigree] Person ids were reassigned; relationship references were kept as submitted")
	}

	return fromRaw(normalized), nil
}

// ExtractPayload loads a pedigree from free-form text such as model output or
// an OCR transcription. The whole text is tried first; if it is not valid
// JSON, the span from the first "{" to the last "}" is loaded instead.
func ExtractPayload(text string) (Pedigree, error) {
	p, err := LoadPayload(text)
	if err == nil {
		return p, nil
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) && !vErr.IsParseError() {
		return Pedigree{}, err
	}

	candidate, ok := JSONObjectSpan(text)
	if !ok {
		return Pedigree{}, &ValidationError{
			Reason: "No JSON object found in text payload",
			Err:    ErrNoJSONObject,
		}
	}
	return LoadPayload(candidate)
}

// JSONObjectSpan returns the text between the first "{" and the last "}",
// both included.
func JSONObjectSpan(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func decodeJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("extra data after top-level value")
	}
	return parsed, nil
}

func idsReassigned(raw map[string]any) bool {
	people, ok := raw["people"].([]any)
	if !ok {
		return false
	}
	for idx, entry := range people {
		person, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id, ok := asInt64(person["id"])
		if !ok || id != int64(idx+1) {
			return true
		}
	}
	return false
}

// fromRaw converts a normalized payload that passed Validate.
func fromRaw(raw RawPedigree) Pedigree {
	p := Empty()

	for _, entry := range raw["people"].([]any) {
		person := entry.(map[string]any)
		id, _ := asInt64(person["id"])
		p.People = append(p.People, Person{
			ID:         id,
			Name:       asString(person["name"]),
			Gender:     asString(person["gender"]),
			DOB:        asString(person["dob"]),
			Conditions: asStrings(person["conditions"]),
		})
	}

	for _, entry := range raw["relationships"].([]any) {
		rel := entry.(map[string]any)
		from, _ := asInt64(rel["from"])
		to, _ := asInt64(rel["to"])
		p.Relationships = append(p.Relationships, Relationship{
			From: from,
			To:   to,
			Type: asString(rel["type"]),
		})
	}

	return p
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func asStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, asString(item))
		}
		return out
	default:
		return []string{}
	}
}

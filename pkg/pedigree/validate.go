package pedigree

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

var requiredPersonKeys = []string{"id", "name", "gender", "dob", "conditions"}

// Validate checks a payload against the canonical pedigree schema.
//
// Checks run in a fixed order (payload shape, then every person, then every
// relationship) and stop at the first failure, whose reason is returned.
// Validate never modifies its input.
func Validate(payload any) (bool, string) {
	obj, ok := asObject(payload)
	if !ok {
		return false, "Pedigree must be a JSON object"
	}

	rawPeople, hasPeople := obj["people"]
	rawRelationships, hasRelationships := obj["relationships"]
	if !hasPeople || !hasRelationships {
		return false, "Pedigree must include 'people' and 'relationships'"
	}

	people, ok := rawPeople.([]any)
	if !ok {
		return false, "people must be a list"
	}
	relationships, ok := rawRelationships.([]any)
	if !ok {
		return false, "relationships must be a list"
	}

	personIDs := make(map[int64]struct{}, len(people))
	for _, entry := range people {
		person, ok := asObject(entry)
		if !ok {
			return false, "Each person must be an object"
		}

		if missing := missingKeys(person); len(missing) > 0 {
			return false, fmt.Sprintf("Person missing required keys: %s", strings.Join(missing, ", "))
		}

		id, ok := asInt64(person["id"])
		if !ok {
			return false, "Person id must be an integer"
		}
		personIDs[id] = struct{}{}

		gender, _ := person["gender"].(string)
		if _, ok := allowedGenders[gender]; !ok {
			return false, fmt.Sprintf("Unsupported gender value: %v", person["gender"])
		}

		if !isValidDOB(person["dob"]) {
			return false, fmt.Sprintf("Invalid dob: %v", person["dob"])
		}

		if _, ok := person["conditions"].([]any); !ok {
			if _, ok := person["conditions"].([]string); !ok {
				return false, "conditions must be a list"
			}
		}
	}

	for _, entry := range relationships {
		raw, ok := asObject(entry)
		if !ok {
			return false, "Each relationship must be an object"
		}
		rel := normalizeRelationship(raw)

		from, fromOK := asInt64(rel["from"])
		to, toOK := asInt64(rel["to"])
		if !fromOK || !toOK {
			return false, "Relationship references unknown person id"
		}
		_, fromKnown := personIDs[from]
		_, toKnown := personIDs[to]
		if !fromKnown || !toKnown {
			return false, "Relationship references unknown person id"
		}

		relType := rel["type"].(string)
		if _, ok := allowedRelationshipTypes[relType]; !ok {
			return false, fmt.Sprintf("Unsupported relationship type: %s", relType)
		}
	}

	return true, ""
}

func asObject(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case RawPedigree:
		return v, v != nil
	case map[string]any:
		return v, v != nil
	default:
		return nil, false
	}
}

func missingKeys(person map[string]any) []string {
	var missing []string
	for _, key := range requiredPersonKeys {
		if _, ok := person[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func isValidDOB(value any) bool {
	dob, ok := value.(string)
	if !ok {
		return false
	}
	if dob == ApproxDOB {
		return true
	}
	_, err := time.Parse(time.DateOnly, dob)
	return err == nil
}

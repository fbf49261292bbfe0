package pedigree

// Allowed person gender codes.
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// ApproxDOB marks a date of birth that is only approximately known.
const ApproxDOB = "approx"

// Relationship types accepted by Validate.
const (
	RelParent  = "parent"
	RelChild   = "child"
	RelSibling = "sibling"
	RelSpouse  = "spouse"
	RelAdopted = "adopted"
	RelUncle   = "uncle"
	RelAunt    = "aunt"
	RelCousin  = "cousin"
)

var allowedGenders = map[string]struct{}{
	GenderMale:   {},
	GenderFemale: {},
	GenderOther:  {},
}

var allowedRelationshipTypes = map[string]struct{}{
	RelParent:  {},
	RelChild:   {},
	RelSibling: {},
	RelSpouse:  {},
	RelAdopted: {},
	RelUncle:   {},
	RelAunt:    {},
	RelCousin:  {},
}

// Person is a single node of the family graph.
type Person struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Gender     string   `json:"gender"`
	DOB        string   `json:"dob"`
	Conditions []string `json:"conditions"`
}

// Relationship is a directed, typed edge between two people.
type Relationship struct {
	From int64  `json:"from"`
	To   int64  `json:"to"`
	Type string `json:"type"`
}

// Pedigree is the canonical family history: people plus typed relationships.
// It is the unit of validation and the only structure exchanged with the
// analysis engine, the chat collaborator and the exporters.
type Pedigree struct {
	People        []Person       `json:"people"`
	Relationships []Relationship `json:"relationships"`
}

// Empty returns a pedigree with no people and no relationships.
func Empty() Pedigree {
	return Pedigree{
		People:        []Person{},
		Relationships: []Relationship{},
	}
}

// Clone returns a deep copy of the pedigree.
func (p Pedigree) Clone() Pedigree {
	out := Pedigree{
		People:        make([]Person, len(p.People)),
		Relationships: make([]Relationship, len(p.Relationships)),
	}
	for i, person := range p.People {
		person.Conditions = append([]string{}, person.Conditions...)
		out.People[i] = person
	}
	copy(out.Relationships, p.Relationships)
	return out
}

// Person returns the person with the given id.
func (p Pedigree) Person(id int64) (Person, bool) {
	for _, person := range p.People {
		if person.ID == id {
			return person, true
		}
	}
	return Person{}, false
}

// Raw returns the loosely typed representation of the pedigree, the form
// accepted by Normalize and Validate.
func (p Pedigree) Raw() RawPedigree {
	people := make([]any, 0, len(p.People))
	for _, person := range p.People {
		conditions := make([]any, 0, len(person.Conditions))
		for _, c := range person.Conditions {
			conditions = append(conditions, c)
		}
		people = append(people, map[string]any{
			"id":         person.ID,
			"name":       person.Name,
			"gender":     person.Gender,
			"dob":        person.DOB,
			"conditions": conditions,
		})
	}

	relationships := make([]any, 0, len(p.Relationships))
	for _, rel := range p.Relationships {
		relationships = append(relationships, map[string]any{
			"from": rel.From,
			"to":   rel.To,
			"type": rel.Type,
		})
	}

	return RawPedigree{
		"people":        people,
		"relationships": relationships,
	}
}

// Pseudonymize returns a deep copy of the pedigree in which every name is
// replaced by "Person-{id}". Ids, genders, dates, conditions and all
// relationships are kept as they are.
func Pseudonymize(p Pedigree) Pedigree {
	out := p.Clone()
	for i := range out.People {
		out.People[i].Name = PseudonymFor(out.People[i].ID)
	}
	return out
}

// PseudonymFor returns the pseudonymous display name for a person id.
func PseudonymFor(id int64) string {
	return "Person-" + formatID(id)
}

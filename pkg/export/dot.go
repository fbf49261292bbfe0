package export

import (
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
)

var dotShapes = map[string]string{
	pedigree.GenderMale:   "box",
	pedigree.GenderFemale: "ellipse",
}

// ToDOT renders the pedigree as a Graphviz digraph. Males are boxes, females
// ellipses and everyone else diamonds, following pedigree chart
// conventions. People with at least one condition are filled. Layout is left
// to the renderer.
func ToDOT(p pedigree.Pedigree) string {
	var b strings.Builder
	b.WriteString("digraph pedigree {\n")
	b.WriteString("  node [fontname=\"Helvetica\"];\n")

	for _, person := range p.People {
		shape, ok := dotShapes[person.Gender]
		if !ok {
			shape = "diamond"
		}
		label := person.Name
		if len(person.Conditions) > 0 {
			label += "\n" + strings.Join(person.Conditions, ", ")
		}
		fmt.Fprintf(&b, "  p%d [label=%s, shape=%s", person.ID, dotQuote(label), shape)
		if len(person.Conditions) > 0 {
			b.WriteString(", style=filled, fillcolor=\"#d6eaf8\"")
		}
		b.WriteString("];\n")
	}

	for _, rel := range p.Relationships {
		fmt.Fprintf(&b, "  p%d -> p%d [label=%s", rel.From, rel.To, dotQuote(rel.Type))
		if rel.Type == pedigree.RelSpouse || rel.Type == pedigree.RelSibling {
			b.WriteString(", dir=none")
		}
		b.WriteString("];\n")
	}

	b.WriteString("}\n")
	return b.String()
}

func dotQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

package analysis

import (
	"slices"
	"strings"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
)

// NoPatternFlag is the only flag returned when no condition matches an
// inheritance pattern.
const NoPatternFlag = "No clear inheritance pattern detected from available data"

func recessiveFlag(condition string) string {
	return "Autosomal recessive pattern possible for " + condition
}

func dominantFlag(condition string) string {
	return "Autosomal dominant transmission possible for " + condition
}

// InferInheritancePatterns groups people by lower-cased condition and flags
// conditions whose affected relatives suggest a Mendelian pattern:
//
//   - recessive when two affected people are joined by a sibling edge in
//     either direction
//   - dominant when an affected person has a parent or child edge to another
//     affected person
//
// Flags are deduplicated and sorted. When nothing matches the result is
// exactly [NoPatternFlag].
func InferInheritancePatterns(g Graph, p pedigree.Pedigree) []string {
	set := make(map[string]struct{})

	for condition, affected := range affectedByCondition(p) {
		if len(affected) < 2 {
			continue
		}
		if hasAffectedSiblings(g, affected) {
			set[recessiveFlag(condition)] = struct{}{}
		}
		if hasAffectedDescentEdge(g, affected) {
			set[dominantFlag(condition)] = struct{}{}
		}
	}

	if len(set) == 0 {
		return []string{NoPatternFlag}
	}

	flags := make([]string, 0, len(set))
	for flag := range set {
		flags = append(flags, flag)
	}
	slices.Sort(flags)
	return flags
}

// affectedByCondition maps each lower-cased condition to the distinct ids of
// the people listing it, in pedigree order.
func affectedByCondition(p pedigree.Pedigree) map[string][]int64 {
	out := make(map[string][]int64)
	for _, person := range p.People {
		for _, condition := range person.Conditions {
			key := strings.ToLower(condition)
			if slices.Contains(out[key], person.ID) {
				continue
			}
			out[key] = append(out[key], person.ID)
		}
	}
	return out
}

func hasAffectedSiblings(g Graph, affected []int64) bool {
	for i, a := range affected {
		for _, b := range affected[i+1:] {
			if isType(g, a, b, pedigree.RelSibling) || isType(g, b, a, pedigree.RelSibling) {
				return true
			}
		}
	}
	return false
}

func hasAffectedDescentEdge(g Graph, affected []int64) bool {
	for _, id := range affected {
		for _, nbr := range g.Successors(id) {
			if nbr == id || !slices.Contains(affected, nbr) {
				continue
			}
			if isType(g, id, nbr, pedigree.RelParent) || isType(g, id, nbr, pedigree.RelChild) {
				return true
			}
		}
	}
	return false
}

func isType(g Graph, from, to int64, relType string) bool {
	t, ok := g.EdgeType(from, to)
	return ok && t == relType
}

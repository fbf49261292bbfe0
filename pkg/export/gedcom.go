// Package export renders pedigrees into formats consumed outside the
// service: GEDCOM for genealogy software, Graphviz DOT for visualization,
// QR codes for sharing and PDF reports for clinicians.
package export

import (
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
)

// ToGEDCOM renders a minimal GEDCOM 5.5 document.
//
// Every person becomes an INDI record. Spouse, parent and child
// relationships each become a FAM record; other relationship types have no
// GEDCOM family equivalent and are skipped. Lines are joined with "\n".
func ToGEDCOM(p pedigree.Pedigree) string {
	lines := []string{"0 HEAD", "1 GEDC", "2 VERS 5.5"}

	for _, person := range p.People {
		lines = append(lines,
			fmt.Sprintf("0 %s INDI", individualRef(person.ID)),
			"1 NAME "+person.Name,
			"1 SEX "+gedcomSex(person.Gender),
			"1 BIRT",
			"2 DATE "+person.DOB,
		)
		for _, condition := range person.Conditions {
			lines = append(lines, "1 NOTE", "2 CONT Condition: "+condition)
		}
	}

	family := 1
	for _, rel := range p.Relationships {
		var first, second string
		switch rel.Type {
		case pedigree.RelSpouse:
			first, second = "HUSB", "WIFE"
		case pedigree.RelParent:
			first, second = "HUSB", "CHIL"
		case pedigree.RelChild:
			first, second = "CHIL", "HUSB"
		default:
			continue
		}
		lines = append(lines,
			fmt.Sprintf("0 @F%d@ FAM", family),
			fmt.Sprintf("1 %s %s", first, individualRef(rel.From)),
			fmt.Sprintf("1 %s %s", second, individualRef(rel.To)),
		)
		family++
	}

	lines = append(lines, "0 TRLR")
	return strings.Join(lines, "\n")
}

func individualRef(id int64) string {
	return fmt.Sprintf("@I%d@", id)
}

func gedcomSex(gender string) string {
	switch gender {
	case pedigree.GenderMale, pedigree.GenderFemale:
		return gender
	default:
		return "U"
	}
}

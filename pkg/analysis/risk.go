package analysis

import "strings"

// RiskLevel is the triage bucket of an analysis.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

const (
	highInbreedingThreshold     = 0.0625
	moderateInbreedingThreshold = 0.015625
)

// Rank orders risk levels, Low < Moderate < High.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskHigh:
		return 2
	case RiskModerate:
		return 1
	default:
		return 0
	}
}

// RiskBucket derives the risk level from the inbreeding score and the
// inheritance flags. The high checks win over the moderate ones.
func RiskBucket(inbreeding float64, flags []string) RiskLevel {
	if inbreeding > highInbreedingThreshold || anyFlagContains(flags, "dominant") {
		return RiskHigh
	}
	if inbreeding > moderateInbreedingThreshold || anyFlagContains(flags, "recessive") {
		return RiskModerate
	}
	return RiskLow
}

func anyFlagContains(flags []string, word string) bool {
	for _, flag := range flags {
		if strings.Contains(strings.ToLower(flag), word) {
			return true
		}
	}
	return false
}

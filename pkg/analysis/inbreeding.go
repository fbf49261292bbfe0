package analysis

import (
	"math"
	"strconv"
)

const (
	// MaxInbreedingScore caps EstimateInbreeding.
	MaxInbreedingScore = 0.25
	cycleNodeWeight    = 0.03125
)

// EstimateInbreeding returns a structural consanguinity score in
// [0, MaxInbreedingScore] derived from the loops in the family graph.
//
// The score is the number of nodes on all basis cycles of the undirected
// graph, divided by the number of people and scaled by 1/32, rounded to four
// decimals with ties to even. It is a heuristic over graph shape and not a genetic inbreeding
// coefficient. Acyclic and empty graphs score exactly 0.
func EstimateInbreeding(g Graph) float64 {
	cycles := g.CycleBasis()
	if len(cycles) == 0 {
		return 0.0
	}

	total := 0
	for _, cycle := range cycles {
		total += len(cycle)
	}

	scaled := float64(total) / float64(max(1, g.NumberOfNodes())) * cycleNodeWeight
	return round4(math.Min(MaxInbreedingScore, scaled))
}

// round4 rounds the exact binary value, so 0.03125 becomes 0.0312.
func round4(v float64) float64 {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 4, 64), 64)
	return rounded
}

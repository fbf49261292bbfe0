package analysis

import (
	"fmt"
	"slices"
	"strings"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
)

// Backend selects the graph implementation used for analysis.
type Backend string

const (
	// BackendGonum stores the pedigree in a gonum graph and computes a true
	// cycle basis.
	BackendGonum Backend = "gonum"
	// BackendDFS is a dependency-free adjacency map. Its cycle basis is an
	// approximation: every non-tree edge found by a depth-first search is
	// reported as a two-node cycle from each of its ends, so it may disagree
	// with BackendGonum on cycle counts for the same pedigree.
	BackendDFS Backend = "dfs"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = BackendGonum

// ParseBackend maps a configuration value to a Backend. The empty string
// selects DefaultBackend.
func ParseBackend(value string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return DefaultBackend, nil
	case BackendGonum:
		return BackendGonum, nil
	case BackendDFS:
		return BackendDFS, nil
	default:
		return "", fmt.Errorf("unknown graph backend %q", value)
	}
}

// Graph is the directed family graph the analysis operates on.
//
// Nodes carry the person they were built from. Edges are directed, typed and
// keyed by their endpoint pair: adding an edge for an existing pair replaces
// its type. Adding an edge whose endpoints are unknown adds bare nodes for
// them.
type Graph interface {
	AddNode(person pedigree.Person)
	AddEdge(from, to int64, relType string)
	NumberOfNodes() int
	Node(id int64) (pedigree.Person, bool)
	// EdgeType returns the type of the edge from -> to.
	EdgeType(from, to int64) (string, bool)
	// Successors returns the targets of all edges leaving id, in ascending
	// order.
	Successors(id int64) []int64
	// CycleBasis returns the cycles of the undirected view of the graph.
	// Results are deterministic for a given graph.
	CycleBasis() [][]int64
}

// NewGraph returns an empty graph for the given backend. Unknown backends
// fall back to DefaultBackend.
func NewGraph(backend Backend) Graph {
	switch backend {
	case BackendDFS:
		return newDFSGraph()
	default:
		return newGonumGraph()
	}
}

// BuildGraph creates a graph with one node per person and one edge per
// relationship of the pedigree.
func BuildGraph(backend Backend, p pedigree.Pedigree) Graph {
	g := NewGraph(backend)
	for _, person := range p.People {
		g.AddNode(person)
	}
	for _, rel := range p.Relationships {
		g.AddEdge(rel.From, rel.To, rel.Type)
	}
	return g
}

type edgeKey struct {
	from, to int64
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

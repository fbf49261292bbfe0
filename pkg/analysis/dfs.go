package analysis

import (
	"slices"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
)

type dfsGraph struct {
	people map[int64]pedigree.Person
	succ   map[int64]map[int64]string
}

func newDFSGraph() *dfsGraph {
	return &dfsGraph{
		people: make(map[int64]pedigree.Person),
		succ:   make(map[int64]map[int64]string),
	}
}

func (g *dfsGraph) ensureNode(id int64) {
	if _, ok := g.people[id]; ok {
		return
	}
	g.people[id] = pedigree.Person{ID: id}
}

func (g *dfsGraph) AddNode(person pedigree.Person) {
	g.people[person.ID] = person
}

func (g *dfsGraph) AddEdge(from, to int64, relType string) {
	g.ensureNode(from)
	g.ensureNode(to)
	targets, ok := g.succ[from]
	if !ok {
		targets = make(map[int64]string)
		g.succ[from] = targets
	}
	targets[to] = relType
}

func (g *dfsGraph) NumberOfNodes() int {
	return len(g.people)
}

func (g *dfsGraph) Node(id int64) (pedigree.Person, bool) {
	person, ok := g.people[id]
	return person, ok
}

func (g *dfsGraph) EdgeType(from, to int64) (string, bool) {
	relType, ok := g.succ[from][to]
	return relType, ok
}

func (g *dfsGraph) Successors(id int64) []int64 {
	targets, ok := g.succ[id]
	if !ok {
		return nil
	}
	return sortedIDs(targets)
}

// CycleBasis walks the undirected view depth first. Whenever a node meets an
// already discovered neighbour other than its tree parent, the pair is
// reported as a cycle. Every non-tree edge is therefore reported from both
// ends, and a self-loop on u comes out once as [u u].
func (g *dfsGraph) CycleBasis() [][]int64 {
	adj := make(map[int64]map[int64]struct{}, len(g.people))
	for id := range g.people {
		adj[id] = make(map[int64]struct{})
	}
	for from, targets := range g.succ {
		for to := range targets {
			adj[from][to] = struct{}{}
			adj[to][from] = struct{}{}
		}
	}

	type frame struct {
		node, parent int64
		root         bool
	}

	var cycles [][]int64
	visited := make(map[int64]struct{}, len(adj))
	discovered := make(map[int64]struct{}, len(adj))

	for _, root := range sortedIDs(adj) {
		if _, ok := visited[root]; ok {
			continue
		}
		discovered[root] = struct{}{}
		stack := []frame{{node: root, root: true}}

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, ok := visited[cur.node]; ok {
				continue
			}
			visited[cur.node] = struct{}{}

			for _, nbr := range sortedIDs(adj[cur.node]) {
				if !cur.root && nbr == cur.parent {
					continue
				}
				if _, ok := discovered[nbr]; !ok {
					discovered[nbr] = struct{}{}
					stack = append(stack, frame{node: nbr, parent: cur.node})
					continue
				}
				cycles = append(cycles, []int64{cur.node, nbr})
			}
		}
	}

	slices.SortStableFunc(cycles, func(a, b []int64) int {
		return slices.Compare(a, b)
	})
	return cycles
}

package analysis

import (
	"slices"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/pedigree"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// gonumGraph keeps the structure in a gonum directed graph. Person data and
// edge types live next to it, keyed by node id and endpoint pair. Insertion
// order of nodes and edges is recorded for the cycle search.
type gonumGraph struct {
	g         *simple.DirectedGraph
	people    map[int64]pedigree.Person
	edgeTypes map[edgeKey]string
	// simple graphs reject self edges
	selfLoops map[int64]struct{}
	order     []int64
	edges     []edgeKey
}

func newGonumGraph() *gonumGraph {
	return &gonumGraph{
		g:         simple.NewDirectedGraph(),
		people:    make(map[int64]pedigree.Person),
		edgeTypes: make(map[edgeKey]string),
		selfLoops: make(map[int64]struct{}),
	}
}

func (g *gonumGraph) ensureNode(id int64) {
	if g.g.Node(id) != nil {
		return
	}
	g.g.AddNode(simple.Node(id))
	g.people[id] = pedigree.Person{ID: id}
	g.order = append(g.order, id)
}

func (g *gonumGraph) AddNode(person pedigree.Person) {
	g.ensureNode(person.ID)
	g.people[person.ID] = person
}

func (g *gonumGraph) AddEdge(from, to int64, relType string) {
	g.ensureNode(from)
	g.ensureNode(to)
	if from == to {
		g.selfLoops[from] = struct{}{}
	} else {
		g.g.SetEdge(g.g.NewEdge(simple.Node(from), simple.Node(to)))
	}
	key := edgeKey{from, to}
	if _, ok := g.edgeTypes[key]; !ok {
		g.edges = append(g.edges, key)
	}
	g.edgeTypes[key] = relType
}

func (g *gonumGraph) NumberOfNodes() int {
	return len(g.people)
}

func (g *gonumGraph) Node(id int64) (pedigree.Person, bool) {
	person, ok := g.people[id]
	return person, ok
}

func (g *gonumGraph) EdgeType(from, to int64) (string, bool) {
	relType, ok := g.edgeTypes[edgeKey{from, to}]
	return relType, ok
}

func (g *gonumGraph) Successors(id int64) []int64 {
	if g.g.Node(id) == nil {
		return nil
	}
	var ids []int64
	for _, n := range graph.NodesOf(g.g.From(id)) {
		ids = append(ids, n.ID())
	}
	if _, ok := g.selfLoops[id]; ok {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// CycleBasis runs topo.UndirectedCyclesIn on the undirected view. Search
// roots are taken from the most recently added node backwards and neighbours
// are visited in the order their edges were added, the way networkx walks
// the same graph. A self-loop is a cycle of one node.
func (g *gonumGraph) CycleBasis() [][]int64 {
	u := newOrderedUndirected(g.order, g.edges)

	var cycles [][]int64
	for _, cycle := range topo.UndirectedCyclesIn(u) {
		cycles = append(cycles, distinctIDs(cycle))
	}
	for _, id := range sortedIDs(g.selfLoops) {
		cycles = append(cycles, []int64{id})
	}
	return cycles
}

// distinctIDs drops the closing node topo repeats at the end of a cycle.
func distinctIDs(cycle []graph.Node) []int64 {
	seen := make(map[int64]struct{}, len(cycle))
	ids := make([]int64, 0, len(cycle))
	for _, n := range cycle {
		if _, ok := seen[n.ID()]; ok {
			continue
		}
		seen[n.ID()] = struct{}{}
		ids = append(ids, n.ID())
	}
	return ids
}

// orderedUndirected is a simple.UndirectedGraph whose node and neighbour
// iteration follows insertion order instead of map order.
type orderedUndirected struct {
	*simple.UndirectedGraph
	nodes []graph.Node
	adj   map[int64][]graph.Node
}

func newOrderedUndirected(order []int64, edges []edgeKey) orderedUndirected {
	o := orderedUndirected{
		UndirectedGraph: simple.NewUndirectedGraph(),
		adj:             make(map[int64][]graph.Node, len(order)),
	}
	for _, id := range slices.Backward(order) {
		o.AddNode(simple.Node(id))
		o.nodes = append(o.nodes, simple.Node(id))
	}

	// edges are grouped by source node in node order, as a directed graph
	// lists its adjacency
	pos := make(map[int64]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	sorted := slices.Clone(edges)
	slices.SortStableFunc(sorted, func(a, b edgeKey) int {
		return pos[a.from] - pos[b.from]
	})
	for _, e := range sorted {
		if e.from == e.to || o.HasEdgeBetween(e.from, e.to) {
			continue
		}
		o.SetEdge(o.NewEdge(simple.Node(e.from), simple.Node(e.to)))
		o.adj[e.from] = append(o.adj[e.from], simple.Node(e.to))
		o.adj[e.to] = append(o.adj[e.to], simple.Node(e.from))
	}
	return o
}

func (o orderedUndirected) Nodes() graph.Nodes {
	return iterator.NewOrderedNodes(o.nodes)
}

func (o orderedUndirected) From(id int64) graph.Nodes {
	return iterator.NewOrderedNodes(o.adj[id])
}

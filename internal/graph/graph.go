// Package graph provides a small directed graph whose edges carry exact
// rational weights, with cached unweighted shortest-path search. The units
// package builds one graph per quantity family and multiplies the edge
// ratios along a path to convert between units.
package graph

import (
	"fmt"
	"math/big"
	"sync"
)

// NodeID and PathID are string aliases used as identifiers.
type (
	NodeID = string
	PathID = string
)

// Node is a vertex of the graph.
type Node struct {
	ID NodeID `json:"node_id"`
}

// Edge is a directed connection from U to V. Ratio is the factor that turns
// a magnitude expressed in U into one expressed in V.
type Edge struct {
	U     NodeID   `json:"u"`
	V     NodeID   `json:"v"`
	Ratio *big.Rat `json:"ratio"`
}

// GraphData is the declarative input representation of a graph.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// PathInfo holds the result of a path search.
type PathInfo struct {
	ID    PathID
	Route []NodeID // ordered node IDs from start to end
	Ratio *big.Rat // product of the edge ratios along Route
}

// Graph is a directed graph with cached path search.
type Graph struct {
	nodes   []Node
	nodeMap map[NodeID]Node
	// adjacency in insertion order; path search depends on it for tie-breaks
	adj map[NodeID][]Edge
	// Path cache; cleared whenever the graph topology changes.
	mu        sync.Mutex
	pathCache map[PathID]PathInfo
}

// NewGraph builds a Graph from GraphData, returning an error if any node or
// edge reference is invalid.
func NewGraph(data GraphData) (*Graph, error) {
	g := &Graph{
		nodeMap:   make(map[NodeID]Node),
		adj:       make(map[NodeID][]Edge),
		pathCache: make(map[PathID]PathInfo),
	}
	for _, n := range data.Nodes {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddNode adds a node to the graph. Returns an error if the node ID already exists.
func (g *Graph) AddNode(n Node) error {
	if _, exists := g.nodeMap[n.ID]; exists {
		return fmt.Errorf("node %q already exists", n.ID)
	}
	g.nodes = append(g.nodes, n)
	g.nodeMap[n.ID] = n
	g.resetCache()
	return nil
}

// AddEdge adds a directed edge. Returns an error if an edge between the same
// nodes already exists, an endpoint is missing, or the ratio is not positive.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodeMap[e.U]; !ok {
		return fmt.Errorf("edge %s: source node %q not found", edgeKey(e.U, e.V), e.U)
	}
	if _, ok := g.nodeMap[e.V]; !ok {
		return fmt.Errorf("edge %s: target node %q not found", edgeKey(e.U, e.V), e.V)
	}
	if e.Ratio == nil || e.Ratio.Sign() <= 0 {
		return fmt.Errorf("edge %s: ratio must be positive", edgeKey(e.U, e.V))
	}
	if _, err := g.GetEdge(e.U, e.V); err == nil {
		return fmt.Errorf("edge %s already exists", edgeKey(e.U, e.V))
	}
	g.adj[e.U] = append(g.adj[e.U], e)
	g.resetCache()
	return nil
}

// AddBidirectional adds u→v with ratio and v→u with its exact inverse.
func (g *Graph) AddBidirectional(u, v NodeID, ratio *big.Rat) error {
	if err := g.AddEdge(Edge{U: u, V: v, Ratio: ratio}); err != nil {
		return err
	}
	return g.AddEdge(Edge{U: v, V: u, Ratio: new(big.Rat).Inv(ratio)})
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodeMap[id]
	return ok
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

// GetEdge returns the directed edge from u to v.
func (g *Graph) GetEdge(u, v NodeID) (Edge, error) {
	for _, e := range g.adj[u] {
		if e.V == v {
			return e, nil
		}
	}
	return Edge{}, fmt.Errorf("no edge from %q to %q", u, v)
}

// Neighbors returns the targets of u's outgoing edges in insertion order.
func (g *Graph) Neighbors(u NodeID) []NodeID {
	out := make([]NodeID, 0, len(g.adj[u]))
	for _, e := range g.adj[u] {
		out = append(out, e.V)
	}
	return out
}

func edgeKey(u, v NodeID) string { return u + "->" + v }

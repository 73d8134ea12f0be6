package graph

import (
	"fmt"
	"math/big"
)

// bfs returns the predecessor table of a breadth-first search from start.
// Edge weights play no part in path selection; ties go to the neighbour
// discovered first.
func (g *Graph) bfs(start, end NodeID) map[NodeID]NodeID {
	prev := map[NodeID]NodeID{start: ""}
	frontier := []NodeID{start}
	for len(frontier) > 0 {
		var next []NodeID
		for _, u := range frontier {
			for _, e := range g.adj[u] {
				if _, seen := prev[e.V]; seen {
					continue
				}
				prev[e.V] = u
				if e.V == end {
					return prev
				}
				next = append(next, e.V)
			}
		}
		frontier = next
	}
	return prev
}

func (g *Graph) reconstructPath(prev map[NodeID]NodeID, start, end NodeID) []NodeID {
	if _, ok := prev[end]; !ok {
		return nil // no path
	}
	var rev []NodeID
	for n := end; n != start; n = prev[n] {
		rev = append(rev, n)
	}
	route := make([]NodeID, 0, len(rev)+1)
	route = append(route, start)
	for i := len(rev) - 1; i >= 0; i-- {
		route = append(route, rev[i])
	}
	return route
}

// routeRatio multiplies the edge ratios along route exactly.
func (g *Graph) routeRatio(route []NodeID) (*big.Rat, error) {
	ratio := big.NewRat(1, 1)
	for i := 1; i < len(route); i++ {
		e, err := g.GetEdge(route[i-1], route[i])
		if err != nil {
			return nil, err
		}
		ratio.Mul(ratio, e.Ratio)
	}
	return ratio, nil
}

func (g *Graph) resetCache() {
	g.mu.Lock()
	g.pathCache = make(map[PathID]PathInfo)
	g.mu.Unlock()
}

// GetShortestPath returns the path with the fewest hops between start and
// end, using a cache. Returns an error if either node is unknown or no path
// exists. Safe for concurrent use as long as the topology is not changing.
func (g *Graph) GetShortestPath(start, end NodeID) (PathInfo, error) {
	if !g.HasNode(start) {
		return PathInfo{}, fmt.Errorf("node %q not found", start)
	}
	if !g.HasNode(end) {
		return PathInfo{}, fmt.Errorf("node %q not found", end)
	}
	key := edgeKey(start, end)
	if start == end {
		return PathInfo{ID: key, Route: []NodeID{start}, Ratio: big.NewRat(1, 1)}, nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.pathCache[key]; ok {
		return p, nil
	}
	route := g.reconstructPath(g.bfs(start, end), start, end)
	if route == nil {
		return PathInfo{}, fmt.Errorf("no path from %q to %q", start, end)
	}
	ratio, err := g.routeRatio(route)
	if err != nil {
		return PathInfo{}, err
	}
	p := PathInfo{ID: key, Route: route, Ratio: ratio}
	g.pathCache[key] = p
	return p, nil
}

package network

// routes.go computes fewest-hop routes over the topology graph.
//
// Every edge weighs 1, so a shortest path minimizes the number of hops. The
// Dijkstra call computes a tree of shortest paths rooted at a source; trees are
// cached per source, and a tree rooted at the destination is reused by
// symmetry. When several shortest paths exist, whichever one the tree holds is
// returned.

import (
	"slices"

	"tsnview/internal/domain"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// spTree returns the shortest-path tree rooted at handle, computing and
// caching it if needed. Caller holds spMu.
func (n *Network) spTree(handle int64) path.Shortest {
	if tree, ok := n.spCache[handle]; ok {
		return tree
	}
	tree := path.DijkstraFrom(simple.Node(handle), n.graph)
	n.spCache[handle] = tree
	return tree
}

// route returns a fewest-hop path from src to dst, or domain.NoPath when
// they are disconnected
func (n *Network) route(src, dst *domain.Node) domain.Path {
	if src == dst {
		return domain.Path{src}
	}
	var seq []graph.Node

	n.spMu.Lock()
	if tree, ok := n.spCache[src.Handle()]; ok {
		seq, _ = tree.To(dst.Handle())
	} else if tree, ok := n.spCache[dst.Handle()]; ok {
		seq, _ = tree.To(src.Handle())
		slices.Reverse(seq)
	} else {
		seq, _ = n.spTree(src.Handle()).To(dst.Handle())
	}
	n.spMu.Unlock()

	if len(seq) == 0 {
		return domain.NoPath
	}
	return n.convertNodeSeq(seq)
}

// convertNodeSeq maps graph nodes back to topology nodes
func (n *Network) convertNodeSeq(seq []graph.Node) domain.Path {
	p := make(domain.Path, 0, len(seq))
	for _, gn := range seq {
		p = append(p, n.byHandle[gn.ID()])
	}
	return p
}

// ShortestPath returns a fewest-hop path between two named nodes without
// recording any traffic. A disconnected pair yields domain.NoPath.
func (n *Network) ShortestPath(from, to string) (domain.Path, error) {
	src, ok := n.nodes[from]
	if !ok {
		return domain.NoPath, &nodeError{name: from}
	}
	dst, ok := n.nodes[to]
	if !ok {
		return domain.NoPath, &nodeError{name: to}
	}
	return n.route(src, dst), nil
}

// TreeEdge is one parent/child pair of a breadth-first tree
type TreeEdge struct {
	Parent string `json:"parent" yaml:"parent"`
	Child  string `json:"child" yaml:"child"`
}

// SpanningTree returns the edges of a breadth-first tree rooted at the named
// node, in visit order. Nodes outside the root's component are not included.
func (n *Network) SpanningTree(root string) ([]TreeEdge, error) {
	start, ok := n.nodes[root]
	if !ok {
		return nil, &nodeError{name: root}
	}

	var (
		bf    traverse.BreadthFirst
		edges []TreeEdge
	)
	bf.Traverse = func(e graph.Edge) bool {
		if !bf.Visited(e.To()) {
			edges = append(edges, TreeEdge{
				Parent: n.byHandle[e.From().ID()].Name(),
				Child:  n.byHandle[e.To().ID()].Name(),
			})
		}
		return true
	}
	bf.Walk(n.graph, simple.Node(start.Handle()), nil)

	return edges, nil
}

type nodeError struct {
	name string
}

func (e *nodeError) Error() string { return ErrNodeNotFound.Error() + ": " + e.name }

func (e *nodeError) Unwrap() error { return ErrNodeNotFound }

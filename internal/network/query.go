package network

import (
	"sort"

	"tsnview/internal/domain"

	"github.com/rs/xid"
)

// Path returns the resolved path of the named stream, or domain.NoPath if the
// stream is unknown or unresolved
func (n *Network) Path(stream string) domain.Path {
	s, ok := n.streams[stream]
	if !ok {
		return domain.NoPath
	}
	return s.Path
}

// Node returns the named node
func (n *Network) Node(name string) (*domain.Node, bool) {
	node, ok := n.nodes[name]
	return node, ok
}

// Stream returns the named stream
func (n *Network) Stream(name string) (*domain.Stream, bool) {
	s, ok := n.streams[name]
	return s, ok
}

// StreamsThroughNode returns the sorted names of streams whose resolved path
// contains the named node at any position
func (n *Network) StreamsThroughNode(name string) []string {
	var names []string
	for _, s := range n.streams {
		if s.Path.Contains(name) {
			names = append(names, s.Name)
		}
	}
	sort.Strings(names)
	return names
}

// DescribeNode returns the traffic (switch) or arrival (end station) snapshot
// of a node
func (n *Network) DescribeNode(node *domain.Node) domain.NodeDescription {
	return domain.DescribeNode(node)
}

// Nodes returns all nodes in creation order
func (n *Network) Nodes() []*domain.Node {
	out := make([]*domain.Node, len(n.order))
	copy(out, n.order)
	return out
}

// Links returns all distinct links in declaration order
func (n *Network) Links() []*domain.Link {
	out := make([]*domain.Link, len(n.links))
	copy(out, n.links)
	return out
}

// Streams returns registered streams in first-registration order
func (n *Network) Streams() []*domain.Stream {
	out := make([]*domain.Stream, 0, len(n.streamOrder))
	for _, name := range n.streamOrder {
		out = append(out, n.streams[name])
	}
	return out
}

// Snapshot derives a serializable view of the whole network
func (n *Network) Snapshot() *domain.Snapshot {
	snap := &domain.Snapshot{
		ID:      xid.New().String(),
		TakenAt: n.now(),
		Nodes:   make([]domain.NodeDescription, 0, len(n.order)),
		Links:   make([]domain.LinkView, 0, len(n.links)),
		Streams: make([]domain.StreamView, 0, len(n.streamOrder)),
	}
	for _, node := range n.order {
		snap.Nodes = append(snap.Nodes, domain.DescribeNode(node))
	}
	for _, link := range n.links {
		snap.Links = append(snap.Links, domain.ViewLink(link))
	}
	for _, s := range n.Streams() {
		snap.Streams = append(snap.Streams, domain.ViewStream(s))
	}
	return snap
}

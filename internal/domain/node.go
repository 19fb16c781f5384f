package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// NodeKind represents the type of network node
type NodeKind string

const (
	KindSwitch     NodeKind = "SWITCH"
	KindEndStation NodeKind = "ENDSTATION"
)

// SwitchNamePrefix is the name prefix that marks a node referenced only by a
// link as a switch. Matching is case-insensitive.
const SwitchNamePrefix = "SW"

// ParseNodeKind converts a record tag to a NodeKind
func ParseNodeKind(s string) (NodeKind, bool) {
	switch NodeKind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindSwitch:
		return KindSwitch, true
	case KindEndStation:
		return KindEndStation, true
	}
	return "", false
}

// InferKind guesses the kind of an undeclared node from its name
func InferKind(name, switchPrefix string) NodeKind {
	if switchPrefix != "" && strings.HasPrefix(strings.ToUpper(name), strings.ToUpper(switchPrefix)) {
		return KindSwitch
	}
	return KindEndStation
}

// TrafficRecord is a switch-local memory of which neighbor forwarded a stream
type TrafficRecord struct {
	Previous *Node
	Size     int
	Deadline int
}

// ArrivalRecord is an end-station-local memory of a delivered stream
type ArrivalRecord struct {
	Stream string
	Source *Node
	Size   int
	At     time.Time
}

// SwitchState is the switch-specific payload of a Node
type SwitchState struct {
	traffic map[string]TrafficRecord
}

// EndStationState is the end-station-specific payload of a Node
type EndStationState struct {
	arrivals []ArrivalRecord
}

// Node is a topology participant. Identity fields never change after
// creation; exactly one of the variant payloads is set, matching Kind.
type Node struct {
	handle int64
	name   string
	kind   NodeKind
	port   int

	sw *SwitchState
	es *EndStationState
}

// NewNode creates a node with the variant payload for its kind. The handle
// is the node's canonical graph key.
func NewNode(handle int64, name string, kind NodeKind, port int) *Node {
	n := &Node{
		handle: handle,
		name:   name,
		kind:   kind,
		port:   port,
	}
	if kind == KindSwitch {
		n.sw = &SwitchState{traffic: make(map[string]TrafficRecord)}
	} else {
		n.es = &EndStationState{}
	}
	return n
}

// Handle returns the integer key minted for the node at creation
func (n *Node) Handle() int64 { return n.handle }

// Name returns the unique node name
func (n *Node) Name() string { return n.name }

// Kind returns the device kind
func (n *Node) Kind() NodeKind { return n.kind }

// Port returns the port descriptor the node was declared with
func (n *Node) Port() int { return n.port }

// IsSwitch reports whether the node forwards traffic
func (n *Node) IsSwitch() bool { return n.sw != nil }

// IsEndStation reports whether the node is a traffic source/sink
func (n *Node) IsEndStation() bool { return n.es != nil }

func (n *Node) String() string {
	return fmt.Sprintf("%s (%s, Port: %d)", n.name, n.kind, n.port)
}

// RecordTraffic writes the traffic entry for stream, replacing any previous
// entry. It reports false when the node is not a switch.
func (n *Node) RecordTraffic(stream string, rec TrafficRecord) bool {
	if n.sw == nil {
		return false
	}
	n.sw.traffic[stream] = rec
	return true
}

// ClearTraffic removes the traffic entry for stream, if any
func (n *Node) ClearTraffic(stream string) {
	if n.sw != nil {
		delete(n.sw.traffic, stream)
	}
}

// Traffic returns the traffic entry recorded for stream
func (n *Node) Traffic(stream string) (TrafficRecord, bool) {
	if n.sw == nil {
		return TrafficRecord{}, false
	}
	rec, ok := n.sw.traffic[stream]
	return rec, ok
}

// TrafficStreams returns the names of streams with a traffic entry, sorted
func (n *Node) TrafficStreams() []string {
	if n.sw == nil {
		return nil
	}
	names := make([]string, 0, len(n.sw.traffic))
	for name := range n.sw.traffic {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RecordArrival appends an arrival. It reports false when the node is not an
// end station.
func (n *Node) RecordArrival(rec ArrivalRecord) bool {
	if n.es == nil {
		return false
	}
	n.es.arrivals = append(n.es.arrivals, rec)
	return true
}

// Arrivals returns a copy of the arrival log in arrival order
func (n *Node) Arrivals() []ArrivalRecord {
	if n.es == nil {
		return nil
	}
	out := make([]ArrivalRecord, len(n.es.arrivals))
	copy(out, n.es.arrivals)
	return out
}

package domain

import "time"

// Snapshot is the derived read-only view of a loaded network
type Snapshot struct {
	ID      string            `json:"id" yaml:"id"`
	TakenAt time.Time         `json:"taken_at" yaml:"taken_at"`
	Nodes   []NodeDescription `json:"nodes" yaml:"nodes"`
	Links   []LinkView        `json:"links" yaml:"links"`
	Streams []StreamView      `json:"streams" yaml:"streams"`
}

// NodeDescription is the presentation snapshot of a node. Switches carry
// Traffic, end stations carry Arrivals.
type NodeDescription struct {
	Name     string        `json:"name" yaml:"name"`
	Kind     NodeKind      `json:"kind" yaml:"kind"`
	Port     int           `json:"port" yaml:"port"`
	Traffic  []TrafficView `json:"traffic,omitempty" yaml:"traffic,omitempty"`
	Arrivals []ArrivalView `json:"arrivals,omitempty" yaml:"arrivals,omitempty"`
}

// TrafficView is one switch traffic entry
type TrafficView struct {
	Stream   string `json:"stream" yaml:"stream"`
	Previous string `json:"previous" yaml:"previous"`
	Size     int    `json:"size" yaml:"size"`
	Deadline int    `json:"deadline" yaml:"deadline"`
}

// ArrivalView is one end-station arrival entry
type ArrivalView struct {
	Stream string    `json:"stream" yaml:"stream"`
	Source string    `json:"source" yaml:"source"`
	Size   int       `json:"size" yaml:"size"`
	At     time.Time `json:"at" yaml:"at"`
}

// LinkView represents a link in the visualization
type LinkView struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	From   string `json:"from" yaml:"from"`
	FromPt int    `json:"from_port" yaml:"from_port"`
	To     string `json:"to" yaml:"to"`
	ToPt   int    `json:"to_port" yaml:"to_port"`
}

// StreamView represents a stream and its resolved path
type StreamView struct {
	Priority    int      `json:"priority" yaml:"priority"`
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Source      string   `json:"source" yaml:"source"`
	Destination string   `json:"destination" yaml:"destination"`
	Size        int      `json:"size" yaml:"size"`
	Period      int      `json:"period" yaml:"period"`
	Deadline    int      `json:"deadline" yaml:"deadline"`
	Path        []string `json:"path" yaml:"path"`
}

// DescribeNode converts a node's traffic or arrival state to its
// presentation snapshot
func DescribeNode(n *Node) NodeDescription {
	desc := NodeDescription{
		Name: n.Name(),
		Kind: n.Kind(),
		Port: n.Port(),
	}

	if n.IsSwitch() {
		for _, stream := range n.TrafficStreams() {
			rec, _ := n.Traffic(stream)
			desc.Traffic = append(desc.Traffic, TrafficView{
				Stream:   stream,
				Previous: rec.Previous.Name(),
				Size:     rec.Size,
				Deadline: rec.Deadline,
			})
		}
	}

	for _, rec := range n.Arrivals() {
		desc.Arrivals = append(desc.Arrivals, ArrivalView{
			Stream: rec.Stream,
			Source: rec.Source.Name(),
			Size:   rec.Size,
			At:     rec.At,
		})
	}

	return desc
}

// ViewLink converts a link to its presentation form
func ViewLink(l *Link) LinkView {
	return LinkView{
		ID:     l.GenerateID(),
		Name:   l.Name,
		From:   l.A.Name(),
		FromPt: l.APort,
		To:     l.B.Name(),
		ToPt:   l.BPort,
	}
}

// ViewStream converts a stream to its presentation form
func ViewStream(s *Stream) StreamView {
	return StreamView{
		Priority:    s.Priority,
		Name:        s.Name,
		Type:        s.Type,
		Source:      s.Source.Name(),
		Destination: s.Destination.Name(),
		Size:        s.Size,
		Period:      s.Period,
		Deadline:    s.Deadline,
		Path:        s.Path.Names(),
	}
}

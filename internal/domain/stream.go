package domain

import (
	"fmt"
	"strings"
)

// Priority code point bounds
const (
	MinPriority = 0
	MaxPriority = 7
)

// Path is an ordered hop sequence from a stream's source to its destination.
// NoPath marks a stream whose endpoints are disconnected or that has not been
// resolved yet.
type Path []*Node

// NoPath is the unresolved/no-path sentinel
var NoPath Path

// Found reports whether the path is a concrete route
func (p Path) Found() bool { return len(p) > 0 }

// Names returns the hop names in order
func (p Path) Names() []string {
	names := make([]string, len(p))
	for i, n := range p {
		names[i] = n.Name()
	}
	return names
}

// Contains reports whether the named node lies on the path
func (p Path) Contains(name string) bool {
	for _, n := range p {
		if n.Name() == name {
			return true
		}
	}
	return false
}

func (p Path) String() string {
	if !p.Found() {
		return "No Path Found"
	}
	return strings.Join(p.Names(), " -> ")
}

// Stream is a flow definition routed once over the topology
type Stream struct {
	Priority    int
	Name        string
	Type        string
	Source      *Node
	Destination *Node
	Size        int
	Period      int
	Deadline    int
	Path        Path
}

// Validate checks the QoS attributes of the stream
func (s *Stream) Validate() error {
	if s.Priority < MinPriority || s.Priority > MaxPriority {
		return &ValidationError{Stream: s.Name, Field: "priority", Value: s.Priority,
			Reason: fmt.Sprintf("must be within [%d,%d]", MinPriority, MaxPriority)}
	}
	if s.Size <= 0 {
		return &ValidationError{Stream: s.Name, Field: "size", Value: s.Size, Reason: "must be positive"}
	}
	if s.Period <= 0 {
		return &ValidationError{Stream: s.Name, Field: "period", Value: s.Period, Reason: "must be positive"}
	}
	if s.Deadline <= 0 {
		return &ValidationError{Stream: s.Name, Field: "deadline", Value: s.Deadline, Reason: "must be positive"}
	}
	return nil
}

func (s *Stream) String() string {
	return fmt.Sprintf("Stream(pcp=%d, name=%s, type=%s, %s -> %s, size=%d, period=%d, deadline=%d)",
		s.Priority, s.Name, s.Type, s.Source.Name(), s.Destination.Name(), s.Size, s.Period, s.Deadline)
}

// Package network turns device, link and stream records into a queryable
// topology graph, routes every stream over it and records which switch
// forwarded which stream and which end station received what.
//
// A Network is built once by Build, then fed streams once by LoadStreams.
// After that it is only read, and read-only queries are safe for concurrent
// use. Loading is not: callers that share an instance across goroutines must
// finish loading before publishing it.
package network

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"tsnview/internal/domain"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// ErrNodeNotFound is returned by queries naming a node that does not exist
var ErrNodeNotFound = errors.New("node not found")

// Record is one raw record: a kind tag followed by its fields
type Record []string

// Network is the topology graph with its node registry and stream registry
type Network struct {
	logger       *slog.Logger
	switchPrefix string
	now          func() time.Time

	// graph vertices are keyed by node handle; names resolve through nodes
	graph    *simple.UndirectedGraph
	nodes    map[string]*domain.Node
	byHandle map[int64]*domain.Node
	order    []*domain.Node
	next     int64

	links    []*domain.Link
	linkKeys map[string]struct{}

	streams     map[string]*domain.Stream
	streamOrder []string

	// shortest-path trees by source handle, filled lazily by queries too
	spMu    sync.Mutex
	spCache map[int64]path.Shortest
}

// Option configures a Network
type Option func(*Network)

// WithLogger sets the logger used to report skipped and unresolved streams
func WithLogger(l *slog.Logger) Option {
	return func(n *Network) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithSwitchPrefix overrides the name prefix used to infer the kind of nodes
// that appear only in link records
func WithSwitchPrefix(prefix string) Option {
	return func(n *Network) { n.switchPrefix = prefix }
}

// WithClock sets the clock used to timestamp arrivals
func WithClock(now func() time.Time) Option {
	return func(n *Network) {
		if now != nil {
			n.now = now
		}
	}
}

func newNetwork(opts ...Option) *Network {
	n := &Network{
		logger:       slog.Default(),
		switchPrefix: domain.SwitchNamePrefix,
		now:          time.Now,
		graph:        simple.NewUndirectedGraph(),
		nodes:        make(map[string]*domain.Node),
		byHandle:     make(map[int64]*domain.Node),
		linkKeys:     make(map[string]struct{}),
		streams:      make(map[string]*domain.Stream),
		spCache:      make(map[int64]path.Shortest),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// New builds the topology and then loads the streams into it. A RecordError
// from either phase fails the whole call.
func New(topology, streams []Record, opts ...Option) (*Network, *StreamReport, error) {
	n, err := Build(topology, opts...)
	if err != nil {
		return nil, nil, err
	}
	report, err := n.LoadStreams(streams)
	if err != nil {
		return nil, nil, err
	}
	return n, report, nil
}

// NodeCount returns the number of registered nodes
func (n *Network) NodeCount() int { return len(n.order) }

// LinkCount returns the number of distinct links
func (n *Network) LinkCount() int { return len(n.links) }

// StreamCount returns the number of registered streams
func (n *Network) StreamCount() int { return len(n.streams) }

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"tsnview/internal/loader"
	"tsnview/internal/network"
	"tsnview/internal/repository"
)

// ErrNotLoaded is returned by queries made before the first successful load
var ErrNotLoaded = errors.New("network not loaded")

// NetworkService builds networks from record files and publishes the
// current one to readers
type NetworkService struct {
	logger   *slog.Logger
	eventBus *EventBus
	repo     repository.Repository
	netOpts  []network.Option

	// loadMu serializes loads; readers never take it
	loadMu  sync.Mutex
	current atomic.Pointer[network.Network]
	report  atomic.Pointer[network.StreamReport]
}

// Option configures a NetworkService
type Option func(*NetworkService)

// WithRepository persists a snapshot of every successfully loaded network
func WithRepository(repo repository.Repository) Option {
	return func(s *NetworkService) { s.repo = repo }
}

// WithNetworkOptions passes options to every network the service builds
func WithNetworkOptions(opts ...network.Option) Option {
	return func(s *NetworkService) { s.netOpts = append(s.netOpts, opts...) }
}

// NewNetworkService creates a new network service
func NewNetworkService(eventBus *EventBus, logger *slog.Logger, opts ...Option) *NetworkService {
	if logger == nil {
		logger = slog.Default()
	}
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	s := &NetworkService{
		logger:   logger,
		eventBus: eventBus,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the published network, or nil before the first load
func (s *NetworkService) Current() *network.Network {
	return s.current.Load()
}

// Network returns the published network or ErrNotLoaded
func (s *NetworkService) Network() (*network.Network, error) {
	n := s.current.Load()
	if n == nil {
		return nil, ErrNotLoaded
	}
	return n, nil
}

// LastReport returns the stream report of the published network
func (s *NetworkService) LastReport() *network.StreamReport {
	return s.report.Load()
}

// Load reads the record files and rebuilds the network from scratch. See
// LoadRecords for publication rules.
func (s *NetworkService) Load(ctx context.Context, topologyPath, streamsPath string) (*network.StreamReport, error) {
	topology, streams, err := loader.LoadFiles(topologyPath, streamsPath)
	if err != nil {
		s.fail(err)
		return nil, err
	}
	return s.LoadRecords(ctx, topology, streams)
}

// LoadRecords builds a fresh network from records. The new instance replaces
// the published one only after both phases succeed; on failure the previous
// network stays current.
func (s *NetworkService) LoadRecords(ctx context.Context, topology, streams []network.Record) (*network.StreamReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	opts := append([]network.Option{network.WithLogger(s.logger)}, s.netOpts...)
	n, report, err := network.New(topology, streams, opts...)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	snap := n.Snapshot()
	s.current.Store(n)
	s.report.Store(report)

	s.logger.Info("network loaded",
		"snapshot", snap.ID,
		"nodes", n.NodeCount(),
		"links", n.LinkCount(),
		"streams", n.StreamCount(),
		"unresolved", len(report.Unresolved),
		"skipped", len(report.Skipped),
	)

	summary := LoadSummary{
		SnapshotID: snap.ID,
		Nodes:      n.NodeCount(),
		Links:      n.LinkCount(),
		Streams:    n.StreamCount(),
		Resolved:   report.Resolved,
		Unresolved: report.Unresolved,
		Replaced:   report.Replaced,
	}
	for _, e := range report.Skipped {
		summary.Skipped = append(summary.Skipped, e.Error())
	}
	s.eventBus.Publish(Event{Type: EventNetworkLoaded, Payload: summary})

	if s.repo != nil {
		if err := s.repo.Save(ctx, snap); err != nil {
			s.logger.Error("failed to persist snapshot", "snapshot", snap.ID, "error", err)
			return report, fmt.Errorf("persist snapshot: %w", err)
		}
	}

	return report, nil
}

func (s *NetworkService) fail(err error) {
	s.logger.Error("network load failed", "error", err)
	s.eventBus.Publish(Event{
		Type:    EventNetworkLoadFailed,
		Payload: LoadFailure{Error: err.Error()},
	})
}

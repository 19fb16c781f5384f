package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"tsnview/internal/domain"
	"tsnview/internal/network"
	"tsnview/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topologyCSV = `SWITCH,SW1,4
ENDSTATION,E1,1
ENDSTATION,E2,1
ENDSTATION,E3,1
LINK,L1,E1,1,SW1,1
LINK,L2,SW1,2,E2,1
`

const streamsCSV = `pcp,name,type,source,destination,size,period,deadline
3,S1,ST,E1,E2,100,1000,500
1,S2,BE,E1,E3,64,2000,900
2,S3,ST,E1,E9,64,2000,900
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFiles(t *testing.T, topology, streams string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	topoPath := filepath.Join(dir, "topology.csv")
	streamPath := filepath.Join(dir, "streams.csv")
	require.NoError(t, os.WriteFile(topoPath, []byte(topology), 0644))
	require.NoError(t, os.WriteFile(streamPath, []byte(streams), 0644))
	return topoPath, streamPath
}

func TestNetworkServiceLoad(t *testing.T) {
	bus := NewEventBus()
	events := make(chan Event, 4)
	bus.Subscribe(events)

	svc := NewNetworkService(bus, discardLogger())
	assert.Nil(t, svc.Current())
	_, err := svc.Network()
	assert.ErrorIs(t, err, ErrNotLoaded)

	topoPath, streamPath := writeFiles(t, topologyCSV, streamsCSV)
	report, err := svc.Load(context.Background(), topoPath, streamPath)
	require.NoError(t, err)

	assert.Equal(t, []string{"S1"}, report.Resolved)
	assert.Equal(t, []string{"S2"}, report.Unresolved)
	require.Len(t, report.Skipped, 1)
	var unknown *domain.UnknownNodeError
	assert.ErrorAs(t, report.Skipped[0], &unknown)

	n := svc.Current()
	require.NotNil(t, n)
	assert.Equal(t, []string{"E1", "SW1", "E2"}, n.Path("S1").Names())
	assert.Same(t, report, svc.LastReport())

	ev := <-events
	assert.Equal(t, EventNetworkLoaded, ev.Type)
	summary, ok := ev.Payload.(LoadSummary)
	require.True(t, ok)
	assert.Equal(t, 4, summary.Nodes)
	assert.Equal(t, 2, summary.Links)
	assert.Equal(t, 2, summary.Streams)
	assert.Len(t, summary.Skipped, 1)
}

func TestNetworkServiceFailedReloadKeepsPrevious(t *testing.T) {
	bus := NewEventBus()
	events := make(chan Event, 4)
	bus.Subscribe(events)
	svc := NewNetworkService(bus, discardLogger())

	topoPath, streamPath := writeFiles(t, topologyCSV, streamsCSV)
	_, err := svc.Load(context.Background(), topoPath, streamPath)
	require.NoError(t, err)
	first := svc.Current()
	<-events

	badTopo, _ := writeFiles(t, "SWITCH,SW1\n", "")
	_, err = svc.Load(context.Background(), badTopo, "")
	var recErr *domain.RecordError
	require.ErrorAs(t, err, &recErr)
	assert.ErrorIs(t, err, domain.ErrWrongArity)

	assert.Same(t, first, svc.Current(), "failed load must not replace the published network")

	ev := <-events
	assert.Equal(t, EventNetworkLoadFailed, ev.Type)
	failure, ok := ev.Payload.(LoadFailure)
	require.True(t, ok)
	assert.Contains(t, failure.Error, "record 0")
}

func TestNetworkServiceReloadPublishesNewInstance(t *testing.T) {
	svc := NewNetworkService(nil, discardLogger())
	topoPath, streamPath := writeFiles(t, topologyCSV, streamsCSV)

	_, err := svc.Load(context.Background(), topoPath, streamPath)
	require.NoError(t, err)
	first := svc.Current()

	_, err = svc.Load(context.Background(), topoPath, streamPath)
	require.NoError(t, err)
	second := svc.Current()

	assert.NotSame(t, first, second)
	sw, ok := second.Node("SW1")
	require.True(t, ok)
	assert.Equal(t, []string{"S1"}, sw.TrafficStreams(), "rebuild starts from empty traffic records")
}

func TestNetworkServiceMissingFile(t *testing.T) {
	svc := NewNetworkService(nil, discardLogger())

	_, err := svc.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), "")
	require.Error(t, err)
	assert.Nil(t, svc.Current())
}

func TestNetworkServiceCancelled(t *testing.T) {
	svc := NewNetworkService(nil, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.LoadRecords(ctx, nil, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNetworkServicePersistsSnapshot(t *testing.T) {
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	svc := NewNetworkService(nil, discardLogger(),
		WithRepository(repo),
		WithNetworkOptions(network.WithSwitchPrefix("SW")),
	)

	topoPath, streamPath := writeFiles(t, topologyCSV, streamsCSV)
	_, err = svc.Load(context.Background(), topoPath, streamPath)
	require.NoError(t, err)

	path, err := repo.StreamPath(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, []string{"E1", "SW1", "E2"}, path)
}

func TestEventBusSlowSubscriber(t *testing.T) {
	bus := NewEventBus()
	full := make(chan Event)
	ready := make(chan Event, 1)
	bus.Subscribe(full)
	bus.Subscribe(ready)

	bus.Publish(Event{Type: EventNetworkLoaded})

	select {
	case ev := <-ready:
		assert.Equal(t, EventNetworkLoaded, ev.Type)
	default:
		t.Fatal("buffered subscriber should receive the event")
	}
}

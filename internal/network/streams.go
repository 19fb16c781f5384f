package network

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tsnview/internal/domain"
)

// streamFields is the field count of a stream record:
// priority, name, type, source, destination, size, period, deadline
const streamFields = 8

// StreamReport summarizes one stream load pass
type StreamReport struct {
	// Resolved lists streams that received a concrete path
	Resolved []string
	// Unresolved lists streams whose endpoints are disconnected
	Unresolved []string
	// Replaced lists names that overwrote an earlier registration
	Replaced []string
	// Skipped holds the UnknownNodeError or ValidationError of every omitted stream
	Skipped []error
}

// Err joins the errors of skipped streams, or returns nil
func (r *StreamReport) Err() error {
	return errors.Join(r.Skipped...)
}

type streamRow struct {
	index    int
	priority int
	name     string
	typ      string
	source   string
	dest     string
	size     int
	period   int
	deadline int
}

// LoadStreams registers and routes streams. The first record is a header and
// is skipped. Malformed records fail the whole load with a *domain.RecordError
// before any stream is registered; streams naming unknown nodes or carrying
// out-of-range attributes are skipped and listed in the report.
func (n *Network) LoadStreams(records []Record) (*StreamReport, error) {
	report := &StreamReport{}
	if len(records) == 0 {
		return report, nil
	}

	rows := make([]streamRow, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		row, err := parseStreamRecord(i, records[i])
		if err != nil {
			return nil, &domain.RecordError{Index: i, Record: records[i], Err: err}
		}
		rows = append(rows, row)
	}

	for _, row := range rows {
		stream, err := n.newStream(row)
		if err != nil {
			n.logger.Warn("skipping stream", "stream", row.name, "record", row.index, "error", err)
			report.Skipped = append(report.Skipped, err)
			continue
		}

		stream.Path = n.route(stream.Source, stream.Destination)
		if n.register(stream) {
			n.logger.Warn("stream name registered twice, replacing", "stream", stream.Name)
			report.Replaced = append(report.Replaced, stream.Name)
		}

		if !stream.Path.Found() {
			n.logger.Info("no path for stream", "stream", stream.Name,
				"source", stream.Source.Name(), "destination", stream.Destination.Name())
			report.Unresolved = append(report.Unresolved, stream.Name)
			continue
		}

		n.recordTraffic(stream)
		report.Resolved = append(report.Resolved, stream.Name)
	}

	return report, nil
}

func parseStreamRecord(index int, rec Record) (streamRow, error) {
	if len(rec) != streamFields {
		return streamRow{}, fmt.Errorf("%w: stream wants %d fields, got %d", domain.ErrWrongArity, streamFields, len(rec))
	}

	row := streamRow{
		index:  index,
		name:   strings.TrimSpace(rec[1]),
		typ:    strings.TrimSpace(rec[2]),
		source: strings.TrimSpace(rec[3]),
		dest:   strings.TrimSpace(rec[4]),
	}

	numbers := []struct {
		field string
		raw   string
		dst   *int
	}{
		{"priority", rec[0], &row.priority},
		{"size", rec[5], &row.size},
		{"period", rec[6], &row.period},
		{"deadline", rec[7], &row.deadline},
	}
	for _, num := range numbers {
		v, err := strconv.Atoi(strings.TrimSpace(num.raw))
		if err != nil {
			return streamRow{}, fmt.Errorf("%w: %s %q", domain.ErrBadNumber, num.field, num.raw)
		}
		*num.dst = v
	}

	return row, nil
}

func (n *Network) newStream(row streamRow) (*domain.Stream, error) {
	src, ok := n.nodes[row.source]
	if !ok {
		return nil, &domain.UnknownNodeError{Stream: row.name, Node: row.source}
	}
	dst, ok := n.nodes[row.dest]
	if !ok {
		return nil, &domain.UnknownNodeError{Stream: row.name, Node: row.dest}
	}

	stream := &domain.Stream{
		Priority:    row.priority,
		Name:        row.name,
		Type:        row.typ,
		Source:      src,
		Destination: dst,
		Size:        row.size,
		Period:      row.period,
		Deadline:    row.deadline,
		Path:        domain.NoPath,
	}
	if err := stream.Validate(); err != nil {
		return nil, err
	}
	return stream, nil
}

// register stores the stream by name and reports whether it replaced an
// earlier registration
func (n *Network) register(s *domain.Stream) bool {
	prev, replaced := n.streams[s.Name]
	if replaced {
		// drop the old route's entries so switches only list the live route
		for _, node := range prev.Path {
			node.ClearTraffic(s.Name)
		}
	} else {
		n.streamOrder = append(n.streamOrder, s.Name)
	}
	n.streams[s.Name] = s
	return replaced
}

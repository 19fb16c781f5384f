// Package loader extracts topology and stream records from files.
//
// Two formats are supported: the CSV layout of the original tool (one record
// per row, stream files starting with a header row) and a YAML description
// holding devices, links and streams in one document. Records are returned
// as raw fields; arity and numeric checks belong to the network builder.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"tsnview/internal/network"
)

// Format identifies a record file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// DetectFormat picks the format from the file extension
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
}

// LoadFiles reads topology and stream records. When streamsPath is empty, a
// YAML topology file supplies its own streams and a CSV topology has none.
func LoadFiles(topologyPath, streamsPath string) (topology, streams []network.Record, err error) {
	format, err := DetectFormat(topologyPath)
	if err != nil {
		return nil, nil, err
	}

	switch format {
	case FormatYAML:
		topology, streams, err = LoadYAML(topologyPath)
	default:
		topology, err = LoadCSV(topologyPath)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("topology %s: %w", topologyPath, err)
	}

	if streamsPath == "" {
		return topology, streams, nil
	}

	streams, err = loadStreams(streamsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("streams %s: %w", streamsPath, err)
	}
	return topology, streams, nil
}

func loadStreams(path string) ([]network.Record, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatYAML {
		_, streams, err := LoadYAML(path)
		return streams, err
	}
	return LoadCSV(path)
}

package loader

import (
	"fmt"
	"os"
	"strconv"

	"tsnview/internal/domain"
	"tsnview/internal/network"

	"gopkg.in/yaml.v3"
)

// TopologyYAML represents the YAML file structure
type TopologyYAML struct {
	Version     string       `yaml:"version"`
	Description string       `yaml:"description,omitempty"`
	Switches    []DeviceYAML `yaml:"switches,omitempty"`
	EndStations []DeviceYAML `yaml:"endstations,omitempty"`
	Links       []LinkYAML   `yaml:"links,omitempty"`
	Streams     []StreamYAML `yaml:"streams,omitempty"`
}

// DeviceYAML represents a switch or end station
type DeviceYAML struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

// LinkYAML represents a link between two devices
type LinkYAML struct {
	Name            string `yaml:"name"`
	Source          string `yaml:"source"`
	SourcePort      int    `yaml:"source_port"`
	Destination     string `yaml:"destination"`
	DestinationPort int    `yaml:"destination_port"`
}

// StreamYAML represents a stream definition
type StreamYAML struct {
	PCP         int    `yaml:"pcp"`
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Size        int    `yaml:"size"`
	Period      int    `yaml:"period"`
	Deadline    int    `yaml:"deadline"`
}

// StreamHeader is the header record prepended to stream records that do not
// come from a CSV file
var StreamHeader = network.Record{"pcp", "name", "type", "source", "destination", "size", "period", "deadline"}

// LoadYAML loads topology and stream records from a YAML file
func LoadYAML(path string) (topology, streams []network.Record, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ParseYAML(data)
}

// ParseYAML parses topology and stream records from YAML bytes. Devices come
// first, then links, so the record order matches a hand-written CSV.
func ParseYAML(data []byte) (topology, streams []network.Record, err error) {
	var y TopologyYAML
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	topology, streams = convertYAMLToRecords(&y)
	return topology, streams, nil
}

func convertYAMLToRecords(y *TopologyYAML) (topology, streams []network.Record) {
	for _, d := range y.Switches {
		topology = append(topology, network.Record{network.TagSwitch, d.Name, strconv.Itoa(d.Port)})
	}
	for _, d := range y.EndStations {
		topology = append(topology, network.Record{network.TagEndStation, d.Name, strconv.Itoa(d.Port)})
	}
	for _, l := range y.Links {
		topology = append(topology, network.Record{
			network.TagLink, l.Name,
			l.Source, strconv.Itoa(l.SourcePort),
			l.Destination, strconv.Itoa(l.DestinationPort),
		})
	}

	if len(y.Streams) == 0 {
		return topology, nil
	}

	streams = append(streams, StreamHeader)
	for _, s := range y.Streams {
		streams = append(streams, network.Record{
			strconv.Itoa(s.PCP), s.Name, s.Type, s.Source, s.Destination,
			strconv.Itoa(s.Size), strconv.Itoa(s.Period), strconv.Itoa(s.Deadline),
		})
	}
	return topology, streams
}

// ExportYAML exports a loaded network back to the YAML description format
func ExportYAML(n *network.Network) ([]byte, error) {
	y := &TopologyYAML{Version: "1"}

	for _, node := range n.Nodes() {
		d := DeviceYAML{Name: node.Name(), Port: node.Port()}
		if node.Kind() == domain.KindSwitch {
			y.Switches = append(y.Switches, d)
		} else {
			y.EndStations = append(y.EndStations, d)
		}
	}

	for _, l := range n.Links() {
		y.Links = append(y.Links, LinkYAML{
			Name:            l.Name,
			Source:          l.A.Name(),
			SourcePort:      l.APort,
			Destination:     l.B.Name(),
			DestinationPort: l.BPort,
		})
	}

	for _, s := range n.Streams() {
		y.Streams = append(y.Streams, StreamYAML{
			PCP:         s.Priority,
			Name:        s.Name,
			Type:        s.Type,
			Source:      s.Source.Name(),
			Destination: s.Destination.Name(),
			Size:        s.Size,
			Period:      s.Period,
			Deadline:    s.Deadline,
		})
	}

	return yaml.Marshal(y)
}

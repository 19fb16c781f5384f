package codec

import (
	"fmt"
	"io"

	"tsnview/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse reads a snapshot from YAML. Hand-edited files may leave link IDs
// out; they are regenerated from the endpoints.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range snap.Links {
		if snap.Links[i].ID == "" {
			snap.Links[i].ID = domain.LinkID(snap.Links[i].From, snap.Links[i].To)
		}
	}
	for i := range snap.Streams {
		if snap.Streams[i].Path == nil {
			snap.Streams[i].Path = []string{}
		}
	}

	return &snap, nil
}

// Export writes a snapshot as YAML
func (c *YAMLCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// Package codec serializes network snapshots for export.
package codec

import (
	"fmt"
	"io"
	"sort"

	"tsnview/internal/domain"
)

// Importer interface for reading snapshots back from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Snapshot, error)
	Format() string
}

// Exporter interface for writing snapshots to various formats
type Exporter interface {
	Export(snap *domain.Snapshot, w io.Writer) error
	Format() string
}

// Codec both reads and writes snapshots
type Codec interface {
	Importer
	Exporter
}

var codecs = map[string]Codec{
	"json": NewJSONCodec(),
	"yaml": NewYAMLCodec(),
	"yml":  NewYAMLCodec(),
}

// ForFormat returns the codec registered under the given format name
func ForFormat(format string) (Codec, error) {
	c, ok := codecs[format]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (supported: %v)", format, Formats())
	}
	return c, nil
}

// Formats lists the registered format names
func Formats() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

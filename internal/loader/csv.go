package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"tsnview/internal/network"
)

// ReadCSV reads every row of a topology or stream CSV. Cells are trimmed and
// trailing empty cells are dropped, so "SWITCH,SW1,4,," yields three fields.
// Blank lines and lines starting with '#' are skipped.
func ReadCSV(r io.Reader) ([]network.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var records []network.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}
		records = append(records, trimRow(row))
	}

	return records, nil
}

// LoadCSV reads records from a CSV file
func LoadCSV(path string) ([]network.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

func trimRow(row []string) network.Record {
	rec := make(network.Record, len(row))
	for i, cell := range row {
		rec[i] = strings.TrimSpace(cell)
	}
	end := len(rec)
	for end > 0 && rec[end-1] == "" {
		end--
	}
	return rec[:end]
}

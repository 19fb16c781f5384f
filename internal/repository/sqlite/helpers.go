package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tsnview/internal/domain"
)

const (
	metaSnapshotID = "snapshot_id"
	metaTakenAt    = "taken_at"
)

// ============================================================================
// Conversion Helpers
// ============================================================================

// formatTime stores times as RFC 3339 text so they sort and survive any driver
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// unmarshalJSONField safely unmarshals JSON from nullable string into target
func unmarshalJSONField(ns sql.NullString, target interface{}) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(ns.String), target)
}

// marshalPath encodes a stream path; an unresolved stream stores "[]"
func marshalPath(path []string) (string, error) {
	if path == nil {
		path = []string{}
	}
	data, err := json.Marshal(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ============================================================================
// Row Types
// ============================================================================

type streamRow struct {
	name, typ, source, destination  string
	priority, size, period, deadline int
	path                             sql.NullString
}

func (r *streamRow) scanArgs() []interface{} {
	return []interface{}{
		&r.name, &r.priority, &r.typ, &r.source, &r.destination,
		&r.size, &r.period, &r.deadline, &r.path,
	}
}

func (r *streamRow) toDomain() (domain.StreamView, error) {
	s := domain.StreamView{
		Priority:    r.priority,
		Name:        r.name,
		Type:        r.typ,
		Source:      r.source,
		Destination: r.destination,
		Size:        r.size,
		Period:      r.period,
		Deadline:    r.deadline,
		Path:        []string{},
	}
	if err := unmarshalJSONField(r.path, &s.Path); err != nil {
		return s, fmt.Errorf("failed to decode path of %s: %w", r.name, err)
	}
	return s, nil
}

func streamInsertArgs(s domain.StreamView, seq int) ([]interface{}, error) {
	path, err := marshalPath(s.Path)
	if err != nil {
		return nil, err
	}
	return []interface{}{
		s.Name, s.Priority, s.Type, s.Source, s.Destination,
		s.Size, s.Period, s.Deadline, path, seq,
	}, nil
}

func insertMetadata(ctx context.Context, tx *sql.Tx, snap *domain.Snapshot) error {
	for key, value := range map[string]string{
		metaSnapshotID: snap.ID,
		metaTakenAt:    formatTime(snap.TakenAt),
	} {
		if _, err := tx.ExecContext(ctx, `INSERT INTO metadata (key, value) VALUES (?, ?)`, key, value); err != nil {
			return fmt.Errorf("failed to insert metadata %s: %w", key, err)
		}
	}
	return nil
}

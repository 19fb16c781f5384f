package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tsnview/internal/domain"
	"tsnview/internal/repository"

	_ "modernc.org/sqlite"
)

var _ repository.Repository = (*Repository)(nil)

// Repository implements repository.Repository using SQLite
type Repository struct {
	db *sql.DB
}

// New creates a new SQLite repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: writes are serialized anyway and ":memory:" is per-connection.
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		name TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		port INTEGER NOT NULL,
		seq INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		from_node TEXT NOT NULL,
		from_port INTEGER NOT NULL,
		to_node TEXT NOT NULL,
		to_port INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		FOREIGN KEY (from_node) REFERENCES nodes(name) ON DELETE CASCADE,
		FOREIGN KEY (to_node) REFERENCES nodes(name) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS streams (
		name TEXT PRIMARY KEY,
		priority INTEGER NOT NULL,
		type TEXT NOT NULL,
		source TEXT NOT NULL,
		destination TEXT NOT NULL,
		size INTEGER NOT NULL,
		period INTEGER NOT NULL,
		deadline INTEGER NOT NULL,
		path JSON,
		seq INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS traffic (
		node TEXT NOT NULL,
		stream TEXT NOT NULL,
		previous TEXT NOT NULL,
		size INTEGER NOT NULL,
		deadline INTEGER NOT NULL,
		PRIMARY KEY (node, stream),
		FOREIGN KEY (node) REFERENCES nodes(name) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS arrivals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		node TEXT NOT NULL,
		stream TEXT NOT NULL,
		source TEXT NOT NULL,
		size INTEGER NOT NULL,
		at TEXT NOT NULL,
		FOREIGN KEY (node) REFERENCES nodes(name) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_traffic_stream ON traffic(stream);
	CREATE INDEX IF NOT EXISTS idx_arrivals_node ON arrivals(node);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Save replaces the stored snapshot in one transaction
func (r *Repository) Save(ctx context.Context, snap *domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Children first; the cascade would cover traffic and arrivals but not streams
	for _, table := range []string{"arrivals", "traffic", "links", "streams", "nodes", "metadata"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertMetadata(ctx, tx, snap); err != nil {
		return err
	}

	for i, node := range snap.Nodes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (name, kind, port, seq) VALUES (?, ?, ?, ?)`,
			node.Name, string(node.Kind), node.Port, i,
		); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", node.Name, err)
		}

		for _, tr := range node.Traffic {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO traffic (node, stream, previous, size, deadline) VALUES (?, ?, ?, ?, ?)`,
				node.Name, tr.Stream, tr.Previous, tr.Size, tr.Deadline,
			); err != nil {
				return fmt.Errorf("failed to insert traffic %s/%s: %w", node.Name, tr.Stream, err)
			}
		}

		for _, ar := range node.Arrivals {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO arrivals (node, stream, source, size, at) VALUES (?, ?, ?, ?, ?)`,
				node.Name, ar.Stream, ar.Source, ar.Size, formatTime(ar.At),
			); err != nil {
				return fmt.Errorf("failed to insert arrival %s/%s: %w", node.Name, ar.Stream, err)
			}
		}
	}

	for i, link := range snap.Links {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO links (id, name, from_node, from_port, to_node, to_port, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			link.ID, link.Name, link.From, link.FromPt, link.To, link.ToPt, i,
		); err != nil {
			return fmt.Errorf("failed to insert link %s: %w", link.Name, err)
		}
	}

	for i, s := range snap.Streams {
		args, err := streamInsertArgs(s, i)
		if err != nil {
			return fmt.Errorf("failed to encode stream %s: %w", s.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO streams (name, priority, type, source, destination, size, period, deadline, path, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			args...,
		); err != nil {
			return fmt.Errorf("failed to insert stream %s: %w", s.Name, err)
		}
	}

	return tx.Commit()
}

// Load reads the stored snapshot back
func (r *Repository) Load(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{}
	if err := r.loadMetadata(ctx, snap); err != nil {
		return nil, err
	}

	if err := r.loadNodes(ctx, snap); err != nil {
		return nil, err
	}

	links, err := r.loadLinks(ctx)
	if err != nil {
		return nil, err
	}
	snap.Links = links

	streams, err := r.loadStreams(ctx)
	if err != nil {
		return nil, err
	}
	snap.Streams = streams

	return snap, nil
}

// StreamPath returns the stored path of the named stream. An unresolved
// stream yields an empty path; an unknown one yields repository.ErrNotFound.
func (r *Repository) StreamPath(ctx context.Context, name string) ([]string, error) {
	var raw sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT path FROM streams WHERE name = ?`, name).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("stream %s: %w", name, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query stream %s: %w", name, err)
	}

	path := []string{}
	if err := unmarshalJSONField(raw, &path); err != nil {
		return nil, fmt.Errorf("failed to decode path of %s: %w", name, err)
	}
	return path, nil
}

func (r *Repository) loadMetadata(ctx context.Context, snap *domain.Snapshot) error {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM metadata`)
	if err != nil {
		return fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("failed to scan metadata: %w", err)
		}
		found = true
		switch key {
		case metaSnapshotID:
			snap.ID = value
		case metaTakenAt:
			t, err := parseTime(value)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", metaTakenAt, err)
			}
			snap.TakenAt = t
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("snapshot: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *Repository) loadNodes(ctx context.Context, snap *domain.Snapshot) error {
	rows, err := r.db.QueryContext(ctx, `SELECT name, kind, port FROM nodes ORDER BY seq`)
	if err != nil {
		return fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	index := make(map[string]int)
	snap.Nodes = []domain.NodeDescription{}
	for rows.Next() {
		var (
			name, kind string
			port       int
		)
		if err := rows.Scan(&name, &kind, &port); err != nil {
			return fmt.Errorf("failed to scan node: %w", err)
		}
		index[name] = len(snap.Nodes)
		snap.Nodes = append(snap.Nodes, domain.NodeDescription{Name: name, Kind: domain.NodeKind(kind), Port: port})
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	trows, err := r.db.QueryContext(ctx, `SELECT node, stream, previous, size, deadline FROM traffic ORDER BY node, stream`)
	if err != nil {
		return fmt.Errorf("failed to query traffic: %w", err)
	}
	defer trows.Close()
	for trows.Next() {
		var (
			node string
			tv   domain.TrafficView
		)
		if err := trows.Scan(&node, &tv.Stream, &tv.Previous, &tv.Size, &tv.Deadline); err != nil {
			return fmt.Errorf("failed to scan traffic: %w", err)
		}
		if i, ok := index[node]; ok {
			snap.Nodes[i].Traffic = append(snap.Nodes[i].Traffic, tv)
		}
	}
	if err := trows.Err(); err != nil {
		return err
	}
	trows.Close()

	arows, err := r.db.QueryContext(ctx, `SELECT node, stream, source, size, at FROM arrivals ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to query arrivals: %w", err)
	}
	defer arows.Close()
	for arows.Next() {
		var (
			node, at string
			av       domain.ArrivalView
		)
		if err := arows.Scan(&node, &av.Stream, &av.Source, &av.Size, &at); err != nil {
			return fmt.Errorf("failed to scan arrival: %w", err)
		}
		if av.At, err = parseTime(at); err != nil {
			return fmt.Errorf("invalid arrival time %q: %w", at, err)
		}
		if i, ok := index[node]; ok {
			snap.Nodes[i].Arrivals = append(snap.Nodes[i].Arrivals, av)
		}
	}
	return arows.Err()
}

func (r *Repository) loadLinks(ctx context.Context) ([]domain.LinkView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, from_node, from_port, to_node, to_port
		FROM links ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	links := []domain.LinkView{}
	for rows.Next() {
		var l domain.LinkView
		if err := rows.Scan(&l.ID, &l.Name, &l.From, &l.FromPt, &l.To, &l.ToPt); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *Repository) loadStreams(ctx context.Context) ([]domain.StreamView, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, priority, type, source, destination, size, period, deadline, path
		FROM streams ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query streams: %w", err)
	}
	defer rows.Close()

	streams := []domain.StreamView{}
	for rows.Next() {
		var row streamRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan stream: %w", err)
		}
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		streams = append(streams, s)
	}
	return streams, rows.Err()
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

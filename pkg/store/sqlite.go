package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/plexkit/plexus/pkg/graph"
)

// SQLiteStore persists the graph in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the database at dbPath and
// runs schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite db: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Edge rows cascade when their endpoints go away.
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		id    TEXT PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		type  TEXT NOT NULL DEFAULT '',
		x     REAL NOT NULL DEFAULT 0,
		y     REAL NOT NULL DEFAULT 0,
		-- Pin coordinates; NULL while the node floats with the layout.
		fx    REAL,
		fy    REAL
	);

	CREATE TABLE IF NOT EXISTS edges (
		id       TEXT PRIMARY KEY,
		source   TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		target   TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
		label    TEXT NOT NULL DEFAULT '',
		directed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
	CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Load reads the full graph.
func (s *SQLiteStore) Load() (graph.Snapshot, error) {
	var snap graph.Snapshot

	rows, err := s.db.Query(`SELECT id, label, type, x, y, fx, fy FROM nodes ORDER BY rowid`)
	if err != nil {
		return snap, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n graph.Node
		var fx, fy sql.NullFloat64
		if err := rows.Scan(&n.ID, &n.Label, &n.Type, &n.X, &n.Y, &fx, &fy); err != nil {
			return snap, fmt.Errorf("failed to scan node: %w", err)
		}
		if fx.Valid && fy.Valid {
			n.Pin(fx.Float64, fy.Float64)
		}
		snap.Nodes = append(snap.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("failed to iterate nodes: %w", err)
	}

	erows, err := s.db.Query(`SELECT id, source, target, label, directed FROM edges ORDER BY rowid`)
	if err != nil {
		return snap, fmt.Errorf("failed to query edges: %w", err)
	}
	defer erows.Close()

	for erows.Next() {
		var e graph.Edge
		if err := erows.Scan(&e.ID, &e.Source, &e.Target, &e.Label, &e.Directed); err != nil {
			return snap, fmt.Errorf("failed to scan edge: %w", err)
		}
		snap.Edges = append(snap.Edges, e)
	}
	if err := erows.Err(); err != nil {
		return snap, fmt.Errorf("failed to iterate edges: %w", err)
	}

	return snap, nil
}

// CreateNode inserts a new node at the given position and returns it.
func (s *SQLiteStore) CreateNode(label, typ string, x, y float64) (graph.Node, error) {
	n := graph.Node{
		ID:    uuid.New().String(),
		Label: label,
		Type:  typ,
		X:     x,
		Y:     y,
	}

	_, err := s.db.Exec(
		`INSERT INTO nodes (id, label, type, x, y) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.Label, n.Type, n.X, n.Y,
	)
	if err != nil {
		return graph.Node{}, fmt.Errorf("failed to insert node: %w", err)
	}

	return n, nil
}

// MoveNode records a user-chosen position and pins the node there.
func (s *SQLiteStore) MoveNode(id string, x, y float64) error {
	res, err := s.db.Exec(
		`UPDATE nodes SET x = ?, y = ?, fx = ?, fy = ? WHERE id = ?`,
		x, y, x, y, id,
	)
	if err != nil {
		return fmt.Errorf("failed to move node: %w", err)
	}
	return requireAffected(res, "node", id)
}

// DeleteNode removes a node; edges touching it cascade away.
func (s *SQLiteStore) DeleteNode(id string) error {
	res, err := s.db.Exec(`DELETE FROM nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}
	return requireAffected(res, "node", id)
}

// CreateEdge inserts a new edge after checking both endpoints exist.
func (s *SQLiteStore) CreateEdge(source, target, label string, directed bool) (graph.Edge, error) {
	for _, id := range []string{source, target} {
		var one int
		err := s.db.QueryRow(`SELECT 1 FROM nodes WHERE id = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return graph.Edge{}, fmt.Errorf("node %s: %w", id, ErrNotFound)
		}
		if err != nil {
			return graph.Edge{}, fmt.Errorf("failed to check node %s: %w", id, err)
		}
	}

	e := graph.Edge{
		ID:       uuid.New().String(),
		Source:   source,
		Target:   target,
		Label:    label,
		Directed: directed,
	}

	_, err := s.db.Exec(
		`INSERT INTO edges (id, source, target, label, directed) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Source, e.Target, e.Label, e.Directed,
	)
	if err != nil {
		return graph.Edge{}, fmt.Errorf("failed to insert edge: %w", err)
	}

	return e, nil
}

// DeleteEdge removes a single edge.
func (s *SQLiteStore) DeleteEdge(id string) error {
	res, err := s.db.Exec(`DELETE FROM edges WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete edge: %w", err)
	}
	return requireAffected(res, "edge", id)
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

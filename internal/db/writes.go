package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// InsertNode writes a node and returns its ID. A blank ID gets a fresh UUID,
// blank type defaults to "page" and zero timestamps default to now.
func (d *DB) InsertNode(n Node) (string, error) {
	return insertNode(d.conn, n, nil)
}

// InsertEdge writes an edge and returns its ID. A blank ID gets a fresh UUID
// and a blank type defaults to "related".
func (d *DB) InsertEdge(e Edge) (string, error) {
	return insertEdge(d.conn, e)
}

// GraphRecord pairs a node with its optional embedding for bulk import.
type GraphRecord struct {
	Node      Node
	Embedding []float32
}

// ImportGraph writes all nodes and then all edges in one transaction.
// Nothing is written if any row fails.
func (d *DB) ImportGraph(nodes []GraphRecord, edges []Edge) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting import: %w", err)
	}
	defer tx.Rollback()

	for _, r := range nodes {
		if _, err := insertNode(tx, r.Node, r.Embedding); err != nil {
			return err
		}
	}
	for _, e := range edges {
		if _, err := insertEdge(tx, e); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

func insertNode(x execer, n Node, embedding []float32) (string, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.NodeType == "" {
		n.NodeType = "page"
	}
	now := time.Now().UnixMilli()
	if n.CreatedAt == 0 {
		n.CreatedAt = now
	}
	if n.UpdatedAt == 0 {
		n.UpdatedAt = n.CreatedAt
	}
	var blob any
	if embedding != nil {
		blob = embeddingToBytes(embedding)
	}

	_, err := x.Exec(`
		INSERT INTO nodes (id, type, title, parent_id, depth, created_at, updated_at, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.NodeType, n.Title, n.ParentID, n.Depth, n.CreatedAt, n.UpdatedAt, blob)
	if err != nil {
		return "", fmt.Errorf("inserting node %s: %w", n.ID, err)
	}
	return n.ID, nil
}

func insertEdge(x execer, e Edge) (string, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.EdgeType == "" {
		e.EdgeType = "related"
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UnixMilli()
	}

	_, err := x.Exec(`
		INSERT INTO edges (id, source_id, target_id, type, weight, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.SourceID, e.TargetID, e.EdgeType, e.Weight, e.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("inserting edge %s -> %s: %w", e.SourceID, e.TargetID, err)
	}
	return e.ID, nil
}

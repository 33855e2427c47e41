package db

import (
	"database/sql"
	"fmt"
)

const edgeColumns = `id, source_id, target_id, type, weight, created_at`

// scanEdge scans a row into an Edge. The row must have the edgeColumns in order.
func scanEdge(scanner interface{ Scan(dest ...any) error }) (Edge, error) {
	var e Edge
	err := scanner.Scan(
		&e.ID, &e.SourceID, &e.TargetID, &e.EdgeType, &e.Weight, &e.CreatedAt,
	)
	return e, err
}

func collectEdges(rows *sql.Rows) ([]Edge, error) {
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// AllEdges returns all edges in insertion order
func (d *DB) AllEdges() ([]Edge, error) {
	rows, err := d.conn.Query(`SELECT ` + edgeColumns + ` FROM edges ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying edges: %w", err)
	}
	return collectEdges(rows)
}

// CountEdges returns the number of rows in the edges table.
func (d *DB) CountEdges() (int, error) {
	var count int
	err := d.conn.QueryRow("SELECT COUNT(*) FROM edges").Scan(&count)
	return count, err
}

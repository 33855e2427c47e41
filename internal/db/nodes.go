package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNodeNotFound is returned by GetNode when no row matches the ID.
var ErrNodeNotFound = errors.New("node not found")

const nodeColumns = `id, type, title, parent_id, depth, created_at, updated_at`

// scanNode scans a row into a Node. The row must have the nodeColumns in order.
func scanNode(scanner interface{ Scan(dest ...any) error }) (Node, error) {
	var n Node
	err := scanner.Scan(
		&n.ID, &n.NodeType, &n.Title, &n.ParentID,
		&n.Depth, &n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}

func collectNodes(rows *sql.Rows) ([]Node, error) {
	defer rows.Close()

	var nodes []Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// AllNodes returns all nodes ordered by ID
func (d *DB) AllNodes() ([]Node, error) {
	rows, err := d.conn.Query(`SELECT ` + nodeColumns + ` FROM nodes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	return collectNodes(rows)
}

// GetNode returns a single node by ID
func (d *DB) GetNode(id string) (*Node, error) {
	row := d.conn.QueryRow(`SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)

	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// SearchByIDPrefix finds nodes whose ID starts with the given prefix.
// The match is case-sensitive and treats every character literally.
func (d *DB) SearchByIDPrefix(prefix string, limit int) ([]Node, error) {
	rows, err := d.conn.Query(
		`SELECT `+nodeColumns+` FROM nodes WHERE substr(id, 1, length(?)) = ? ORDER BY id LIMIT ?`,
		prefix, prefix, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching nodes by prefix: %w", err)
	}
	return collectNodes(rows)
}

// CountNodes returns the number of rows in the nodes table.
func (d *DB) CountNodes() (int, error) {
	var count int
	err := d.conn.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&count)
	return count, err
}

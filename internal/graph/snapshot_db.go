package graph

import (
	"fmt"

	"mycelica/clump/internal/db"
)

// SnapshotFromDB loads a GraphSnapshot from the database
func SnapshotFromDB(d *db.DB) (*GraphSnapshot, error) {
	dbNodes, err := d.AllNodes()
	if err != nil {
		return nil, fmt.Errorf("loading nodes: %w", err)
	}
	dbEdges, err := d.AllEdges()
	if err != nil {
		return nil, fmt.Errorf("loading edges: %w", err)
	}

	nodes := make([]*NodeInfo, 0, len(dbNodes))
	for _, n := range dbNodes {
		nodes = append(nodes, &NodeInfo{
			ID:        n.ID,
			Title:     n.Title,
			NodeType:  n.NodeType,
			ParentID:  n.ParentID,
			Depth:     n.Depth,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		})
	}

	edges := make([]EdgeInfo, 0, len(dbEdges))
	for _, e := range dbEdges {
		edges = append(edges, EdgeInfo{
			ID:        e.ID,
			Source:    e.SourceID,
			Target:    e.TargetID,
			EdgeType:  e.EdgeType,
			Weight:    e.Weight,
			CreatedAt: e.CreatedAt,
		})
	}

	return NewSnapshot(nodes, edges), nil
}

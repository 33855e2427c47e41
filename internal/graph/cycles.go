package graph

// CycleEdge is an edge that joins two nodes already connected by earlier edges
type CycleEdge struct {
	ID          string `json:"id"`
	SourceID    string `json:"source_id"`
	TargetID    string `json:"target_id"`
	SourceTitle string `json:"source_title"`
	TargetTitle string `json:"target_title"`
	SelfLoop    bool   `json:"self_loop"`
}

// CycleReport contains cycle detection results
type CycleReport struct {
	IsForest       bool        `json:"is_forest"`
	CycleEdgeCount int         `json:"cycle_edge_count"`
	CycleEdges     []CycleEdge `json:"cycle_edges"`
	SkippedEdges   int         `json:"skipped_edges"`
}

// DetectCycles walks edges in order, treating them as undirected. Every edge
// whose endpoints already share a component closes a cycle. The graph is a
// forest exactly when no such edge exists. At most topN cycle edges are listed.
func DetectCycles(snap *GraphSnapshot, topN int) *CycleReport {
	uf := nodeSet(snap)
	report := &CycleReport{}

	for _, e := range snap.Edges {
		merged, err := uf.Union(e.Source, e.Target)
		if err != nil {
			report.SkippedEdges++
			continue
		}
		if merged {
			continue
		}
		report.CycleEdgeCount++
		if len(report.CycleEdges) < topN {
			report.CycleEdges = append(report.CycleEdges, CycleEdge{
				ID:          e.ID,
				SourceID:    e.Source,
				TargetID:    e.Target,
				SourceTitle: snap.Title(e.Source),
				TargetTitle: snap.Title(e.Target),
				SelfLoop:    e.Source == e.Target,
			})
		}
	}

	report.IsForest = report.CycleEdgeCount == 0
	return report
}

package graph

import "sort"

// ForestEdge is an edge kept in the minimum spanning forest
type ForestEdge struct {
	ID       string  `json:"id"`
	SourceID string  `json:"source_id"`
	TargetID string  `json:"target_id"`
	Weight   float64 `json:"weight"`
}

// ForestReport contains the minimum spanning forest
type ForestReport struct {
	Edges        []ForestEdge `json:"edges"`
	TotalWeight  float64      `json:"total_weight"`
	TreeCount    int          `json:"tree_count"`
	Rejected     int          `json:"rejected"`
	SkippedEdges int          `json:"skipped_edges"`
}

// SpanningForest computes a minimum spanning forest with Kruskal's algorithm.
// Edges are considered by ascending weight, ties broken by edge ID, and an
// edge is kept when it joins two different trees.
func SpanningForest(snap *GraphSnapshot) *ForestReport {
	edges := make([]EdgeInfo, len(snap.Edges))
	copy(edges, snap.Edges)
	sort.SliceStable(edges, func(i, j int) bool {
		ci, cj := edges[i].Cost(), edges[j].Cost()
		if ci != cj {
			return ci < cj
		}
		return edges[i].ID < edges[j].ID
	})

	uf := nodeSet(snap)
	report := &ForestReport{}
	for _, e := range edges {
		merged, err := uf.Union(e.Source, e.Target)
		if err != nil {
			report.SkippedEdges++
			continue
		}
		if !merged {
			report.Rejected++
			continue
		}
		w := e.Cost()
		report.Edges = append(report.Edges, ForestEdge{
			ID:       e.ID,
			SourceID: e.Source,
			TargetID: e.Target,
			Weight:   w,
		})
		report.TotalWeight += w
	}
	report.TreeCount = uf.Groups()
	return report
}

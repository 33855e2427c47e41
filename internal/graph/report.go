package graph

import "math"

// CohesionBreakdown shows the sub-scores of the cohesion formula
type CohesionBreakdown struct {
	Components   float64 `json:"components"`
	Connectivity float64 `json:"connectivity"`
	Treeness     float64 `json:"treeness"`
}

// PartitionReport is the full analysis result
type PartitionReport struct {
	Cohesion  float64           `json:"cohesion"`
	Breakdown CohesionBreakdown `json:"breakdown"`
	Topology  *TopologyReport   `json:"topology"`
	Cycles    *CycleReport      `json:"cycles"`
	Forest    *ForestReport     `json:"forest"`
}

// AnalyzerConfig holds analysis parameters
type AnalyzerConfig struct {
	HubThreshold int
	TopN         int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *AnalyzerConfig {
	return &AnalyzerConfig{
		HubThreshold: 15,
		TopN:         10,
	}
}

// Analyze runs the partition analyses and computes a composite cohesion score
func Analyze(snap *GraphSnapshot, config *AnalyzerConfig) *PartitionReport {
	topology := ComputeTopology(snap, config.HubThreshold, config.TopN)
	cycles := DetectCycles(snap, config.TopN)
	forest := SpanningForest(snap)

	total := float64(topology.TotalNodes)
	usedEdges := float64(topology.TotalEdges - topology.SkippedEdges)

	var components, connectivity float64
	treeness := 1.0

	if topology.NumComponents > 0 {
		components = clamp(1.0/float64(topology.NumComponents), 0, 1)
	}
	if total > 0 {
		connectivity = clamp(1.0-math.Min(float64(topology.OrphanCount)/total, 0.2)*5.0, 0, 1)
	}
	if usedEdges > 0 {
		treeness = clamp(1.0-math.Min(float64(cycles.CycleEdgeCount)/usedEdges, 0.5)*2.0, 0, 1)
	}

	cohesion := 0.5*components + 0.3*connectivity + 0.2*treeness

	return &PartitionReport{
		Cohesion: cohesion,
		Breakdown: CohesionBreakdown{
			Components:   components,
			Connectivity: connectivity,
			Treeness:     treeness,
		},
		Topology: topology,
		Cycles:   cycles,
		Forest:   forest,
	}
}

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

package graph

import (
	"sort"

	"mycelica/clump/internal/unionfind"
)

// HubNode is a node with high connectivity
type HubNode struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Degree    int    `json:"degree"`
	InDegree  int    `json:"in_degree"`
	OutDegree int    `json:"out_degree"`
}

// DegreeBucket is one bucket in the degree histogram
type DegreeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Component is one connected group of nodes
type Component struct {
	Size    int      `json:"size"`
	Members []string `json:"members"` // sorted
}

// RegionSummary counts the nodes of one depth-1 region and how many
// connected components they fall into
type RegionSummary struct {
	Region     string `json:"region"`
	Title      string `json:"title"`
	Nodes      int    `json:"nodes"`
	Components int    `json:"components"`
}

// TopologyReport contains topology analysis results
type TopologyReport struct {
	TotalNodes        int             `json:"total_nodes"`
	TotalEdges        int             `json:"total_edges"`
	SkippedEdges      int             `json:"skipped_edges"`
	NumComponents     int             `json:"num_components"`
	LargestComponent  int             `json:"largest_component"`
	SmallestComponent int             `json:"smallest_component"`
	Components        []Component     `json:"components"`
	OrphanCount       int             `json:"orphan_count"`
	OrphanIDs         []string        `json:"orphan_ids"`
	DegreeHistogram   []DegreeBucket  `json:"degree_histogram"`
	Hubs              []HubNode       `json:"hubs"`
	RegionCount       int             `json:"region_count"`
	Regions           []RegionSummary `json:"regions"`
}

// ComputeTopology analyzes graph topology: components, orphans, degree distribution, hubs.
// Only the topN largest components are listed; counts cover all of them.
func ComputeTopology(snap *GraphSnapshot, hubThreshold, topN int) *TopologyReport {
	totalNodes := len(snap.Nodes)
	totalEdges := len(snap.Edges)

	if totalNodes == 0 {
		return &TopologyReport{
			TotalEdges:      totalEdges,
			SkippedEdges:    totalEdges,
			DegreeHistogram: defaultHistogram(),
		}
	}

	uf, skipped := Partition(snap)
	components := SortedComponents(uf.Components())
	largest, smallest := components[0].Size, components[len(components)-1].Size
	numComponents := len(components)
	if len(components) > topN {
		components = components[:topN]
	}

	nodeIDs := snap.NodeIDs()

	// Orphans: degree == 0
	var orphans []string
	for _, id := range nodeIDs {
		if len(snap.Adj[id]) == 0 {
			orphans = append(orphans, id)
		}
	}
	orphanCount := len(orphans)
	if len(orphans) > topN {
		orphans = orphans[:topN]
	}

	// Degree histogram (log-scale buckets)
	buckets := [7]int{}
	for _, id := range nodeIDs {
		buckets[degreeBucket(len(snap.Adj[id]))]++
	}
	histogram := defaultHistogram()
	for i := range histogram {
		histogram[i].Count = buckets[i]
	}

	// Hubs: degree > threshold
	var hubs []HubNode
	for _, id := range nodeIDs {
		degree := len(snap.Adj[id])
		if degree > hubThreshold {
			hubs = append(hubs, HubNode{
				ID:        id,
				Title:     snap.Nodes[id].Title,
				Degree:    degree,
				InDegree:  len(snap.InAdj[id]),
				OutDegree: len(snap.OutAdj[id]),
			})
		}
	}
	sort.SliceStable(hubs, func(i, j int) bool { return hubs[i].Degree > hubs[j].Degree })
	if len(hubs) > topN {
		hubs = hubs[:topN]
	}

	regions := regionSummaries(snap, uf)
	regionCount := len(regions)
	if len(regions) > topN {
		regions = regions[:topN]
	}

	return &TopologyReport{
		TotalNodes:        totalNodes,
		TotalEdges:        totalEdges,
		SkippedEdges:      skipped,
		NumComponents:     numComponents,
		LargestComponent:  largest,
		SmallestComponent: smallest,
		Components:        components,
		OrphanCount:       orphanCount,
		OrphanIDs:         orphans,
		DegreeHistogram:   histogram,
		Hubs:              hubs,
		RegionCount:       regionCount,
		Regions:           regions,
	}
}

// regionSummaries groups nodes by their depth-1 region, largest region first.
func regionSummaries(snap *GraphSnapshot, uf *unionfind.DisjointSet[string]) []RegionSummary {
	index := make(map[string]int)
	roots := make(map[string]map[string]bool)
	var result []RegionSummary
	for _, id := range snap.NodeIDs() {
		region := snap.Regions[id]
		i, ok := index[region]
		if !ok {
			i = len(result)
			index[region] = i
			roots[region] = make(map[string]bool)
			result = append(result, RegionSummary{Region: region, Title: snap.Title(region)})
		}
		root, _ := uf.Find(id)
		roots[region][root] = true
		result[i].Nodes++
		result[i].Components = len(roots[region])
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Nodes != result[j].Nodes {
			return result[i].Nodes > result[j].Nodes
		}
		return result[i].Region < result[j].Region
	})
	return result
}

// SortedComponents converts raw groups into Components with sorted members,
// ordered by size descending and then by first member.
func SortedComponents(groups [][]string) []Component {
	result := make([]Component, 0, len(groups))
	for _, g := range groups {
		members := append([]string(nil), g...)
		sort.Strings(members)
		result = append(result, Component{Size: len(members), Members: members})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Size != result[j].Size {
			return result[i].Size > result[j].Size
		}
		return result[i].Members[0] < result[j].Members[0]
	})
	return result
}

func defaultHistogram() []DegreeBucket {
	return []DegreeBucket{
		{Label: "0"}, {Label: "1"}, {Label: "2-3"},
		{Label: "4-7"}, {Label: "8-15"}, {Label: "16-31"}, {Label: "32+"},
	}
}

func degreeBucket(degree int) int {
	switch {
	case degree == 0:
		return 0
	case degree == 1:
		return 1
	case degree <= 3:
		return 2
	case degree <= 7:
		return 3
	case degree <= 15:
		return 4
	case degree <= 31:
		return 5
	default:
		return 6
	}
}

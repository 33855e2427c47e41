package graph

import (
	"errors"

	"mycelica/clump/internal/unionfind"
)

// nodeSet returns a disjoint set holding every snapshot node as a singleton.
func nodeSet(snap *GraphSnapshot) *unionfind.DisjointSet[string] {
	// NodeIDs are map keys, so New cannot see a duplicate.
	uf, _ := unionfind.New(snap.NodeIDs()...)
	return uf
}

// Partition groups the snapshot's nodes into connected components, treating
// edges as undirected. It also returns how many edges were skipped because
// an endpoint is not a node of the snapshot.
func Partition(snap *GraphSnapshot) (*unionfind.DisjointSet[string], int) {
	uf := nodeSet(snap)
	skipped := 0
	for _, e := range snap.Edges {
		if _, err := uf.Union(e.Source, e.Target); errors.Is(err, unionfind.ErrUnknownElement) {
			skipped++
		}
	}
	return uf, skipped
}

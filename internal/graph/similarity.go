package graph

import (
	"fmt"
	"math"
	"sort"

	"mycelica/clump/internal/db"
	"mycelica/clump/internal/unionfind"
)

// SimilarNode is a node with its similarity score to a target embedding.
type SimilarNode struct {
	ID         string
	Similarity float32
}

// CosineSimilarity computes cosine similarity between two vectors.
// Returns 0.0 for zero-norm vectors or mismatched lengths.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	na := float32(math.Sqrt(float64(normA)))
	nb := float32(math.Sqrt(float64(normB)))

	if na == 0 || nb == 0 {
		return 0.0
	}

	return dot / (na * nb)
}

// FindSimilar finds the top-N most similar nodes to a target embedding.
// Excludes the node with excludeID. Only returns nodes with similarity >= minSimilarity.
// Results are sorted by descending similarity.
func FindSimilar(target []float32, candidates []db.NodeEmbedding, excludeID string, topN int, minSimilarity float32) []SimilarNode {
	var results []SimilarNode
	for _, c := range candidates {
		if c.ID == excludeID {
			continue
		}
		sim := CosineSimilarity(target, c.Embedding)
		if sim >= minSimilarity {
			results = append(results, SimilarNode{
				ID:         c.ID,
				Similarity: sim,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > topN {
		results = results[:topN]
	}
	return results
}

// ClusterReport contains embedding similarity clusters
type ClusterReport struct {
	Threshold   float32     `json:"threshold"`
	MinSize     int         `json:"min_size"`
	Clusters    []Component `json:"clusters"`
	Links       int         `json:"links"`       // pairs at or above threshold
	Unclustered int         `json:"unclustered"` // nodes in groups below MinSize
}

// SimilarityClusters links every pair of embeddings whose cosine similarity is
// at least threshold and returns the resulting groups of size >= minSize.
// Duplicate IDs are rejected.
func SimilarityClusters(embeddings []db.NodeEmbedding, threshold float32, minSize int) (*ClusterReport, error) {
	uf := &unionfind.DisjointSet[string]{}
	for _, e := range embeddings {
		if err := uf.MakeSet(e.ID); err != nil {
			return nil, fmt.Errorf("clustering embeddings: %w", err)
		}
	}

	report := &ClusterReport{Threshold: threshold, MinSize: minSize}
	for i, e := range embeddings {
		rest := embeddings[i+1:]
		for _, near := range FindSimilar(e.Embedding, rest, "", len(rest), threshold) {
			report.Links++
			if _, err := uf.Union(e.ID, near.ID); err != nil {
				return nil, fmt.Errorf("clustering embeddings: %w", err)
			}
		}
	}

	for _, c := range SortedComponents(uf.Components()) {
		if c.Size < minSize {
			report.Unclustered += c.Size
			continue
		}
		report.Clusters = append(report.Clusters, c)
	}
	return report, nil
}

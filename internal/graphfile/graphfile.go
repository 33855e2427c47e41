// Package graphfile reads graphs described in TOML and watches those files
// for changes.
package graphfile

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"mycelica/clump/internal/db"
	"mycelica/clump/internal/graph"
)

// ErrInvalidGraph is returned when a graph file parses but is not a valid graph.
var ErrInvalidGraph = errors.New("invalid graph file")

// Node is one [[node]] table.
type Node struct {
	ID        string    `toml:"id"`
	Title     string    `toml:"title"`
	Type      string    `toml:"type"`
	Parent    string    `toml:"parent"`
	Depth     int       `toml:"depth"`
	Embedding []float32 `toml:"embedding"`
}

// Edge is one [[edge]] table.
type Edge struct {
	ID     string   `toml:"id"`
	Source string   `toml:"source"`
	Target string   `toml:"target"`
	Type   string   `toml:"type"`
	Weight *float64 `toml:"weight"`
}

// File is a parsed graph file.
type File struct {
	Path  string `toml:"-"`
	Nodes []Node `toml:"node"`
	Edges []Edge `toml:"edge"`
}

// Load reads and validates a graph file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse decodes and validates graph TOML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing graph TOML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks that node IDs are present and unique and that every edge
// references a declared node.
func (f *File) Validate() error {
	seen := make(map[string]bool, len(f.Nodes))
	for i, n := range f.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node #%d has no id", ErrInvalidGraph, i+1)
		}
		if seen[n.ID] {
			return fmt.Errorf("%w: duplicate node id %q", ErrInvalidGraph, n.ID)
		}
		seen[n.ID] = true
	}
	for i, e := range f.Edges {
		if !seen[e.Source] {
			return fmt.Errorf("%w: edge #%d references unknown source %q", ErrInvalidGraph, i+1, e.Source)
		}
		if !seen[e.Target] {
			return fmt.Errorf("%w: edge #%d references unknown target %q", ErrInvalidGraph, i+1, e.Target)
		}
	}
	return nil
}

func (n Node) title() string {
	if n.Title == "" {
		return n.ID
	}
	return n.Title
}

func (n Node) parent() *string {
	if n.Parent == "" {
		return nil
	}
	p := n.Parent
	return &p
}

// DefaultEdgeType is used for edges that do not declare a type.
const DefaultEdgeType = "related"

func (e Edge) edgeType() string {
	if e.Type == "" {
		return DefaultEdgeType
	}
	return e.Type
}

// edgeID keeps generated IDs stable across reloads of the same file.
func edgeID(i int, e Edge) string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("edge-%d", i+1)
}

// Snapshot converts the file into an in-memory graph.
func (f *File) Snapshot() *graph.GraphSnapshot {
	nodes := make([]*graph.NodeInfo, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		nodes = append(nodes, &graph.NodeInfo{
			ID:       n.ID,
			Title:    n.title(),
			NodeType: n.Type,
			ParentID: n.parent(),
			Depth:    n.Depth,
		})
	}
	edges := make([]graph.EdgeInfo, 0, len(f.Edges))
	for i, e := range f.Edges {
		edges = append(edges, graph.EdgeInfo{
			ID:       edgeID(i, e),
			Source:   e.Source,
			Target:   e.Target,
			EdgeType: e.edgeType(),
			Weight:   e.Weight,
		})
	}
	return graph.NewSnapshot(nodes, edges)
}

// Records converts the file into database rows. Edge IDs are left blank when
// the file omits them so the store assigns fresh ones.
func (f *File) Records() ([]db.GraphRecord, []db.Edge) {
	nodes := make([]db.GraphRecord, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		nodes = append(nodes, db.GraphRecord{
			Node: db.Node{
				ID:       n.ID,
				NodeType: n.Type,
				Title:    n.title(),
				ParentID: n.parent(),
				Depth:    n.Depth,
			},
			Embedding: n.Embedding,
		})
	}
	edges := make([]db.Edge, 0, len(f.Edges))
	for _, e := range f.Edges {
		edges = append(edges, db.Edge{
			ID:       e.ID,
			SourceID: e.Source,
			TargetID: e.Target,
			EdgeType: e.edgeType(),
			Weight:   e.Weight,
		})
	}
	return nodes, edges
}

// Embeddings returns the nodes that declare an embedding.
func (f *File) Embeddings() []db.NodeEmbedding {
	var out []db.NodeEmbedding
	for _, n := range f.Nodes {
		if len(n.Embedding) > 0 {
			out = append(out, db.NodeEmbedding{ID: n.ID, Embedding: n.Embedding})
		}
	}
	return out
}

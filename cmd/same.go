package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mycelica/clump/internal/db"
	"mycelica/clump/internal/graph"
	"mycelica/clump/internal/graphfile"
)

// SameResult answers whether two nodes fall in one connected component.
type SameResult struct {
	A          string   `json:"a"`
	B          string   `json:"b"`
	Connected  bool     `json:"connected"`
	SizeA      int      `json:"size_a"`
	SizeB      int      `json:"size_b"`
	Similarity *float32 `json:"similarity,omitempty"` // set when both nodes have embeddings
}

// nodePair is two resolved nodes and the graph they were resolved against.
type nodePair struct {
	snap       *graph.GraphSnapshot
	ids        [2]string
	embeddings [2][]float32
}

var sameCmd = &cobra.Command{
	Use:   "same <a> <b>",
	Short: "Report whether two nodes are in the same component",
	Long:  "Nodes can be given by full ID or by a unique ID prefix.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var pair *nodePair
		if graphFile != "" {
			f, err := graphfile.Load(graphFile)
			if err != nil {
				return err
			}
			if pair, err = pairFromFile(f, args[0], args[1]); err != nil {
				return err
			}
		} else {
			d, err := OpenDatabase(false)
			if err != nil {
				return err
			}
			defer d.Close()
			if pair, err = pairFromDB(d, args[0], args[1]); err != nil {
				return err
			}
		}

		result, err := sameComponent(pair)
		if err != nil {
			return err
		}
		if cfg.JSON {
			return printJSON(cmd.OutOrStdout(), result)
		}
		printSame(cmd.OutOrStdout(), result, pair.snap)
		return nil
	},
}

func init() {
	addGraphFileFlag(sameCmd)
	rootCmd.AddCommand(sameCmd)
}

func pairFromFile(f *graphfile.File, refA, refB string) (*nodePair, error) {
	pair := &nodePair{snap: f.Snapshot()}
	for i, ref := range []string{refA, refB} {
		id, err := ResolveNode(pair.snap, ref)
		if err != nil {
			return nil, err
		}
		pair.ids[i] = id
	}

	for _, e := range f.Embeddings() {
		for i, id := range pair.ids {
			if e.ID == id {
				pair.embeddings[i] = e.Embedding
			}
		}
	}
	return pair, nil
}

func pairFromDB(d *db.DB, refA, refB string) (*nodePair, error) {
	pair := &nodePair{}
	for i, ref := range []string{refA, refB} {
		id, err := ResolveStoredNode(d, ref)
		if err != nil {
			return nil, err
		}
		emb, err := d.GetNodeEmbedding(id)
		if err != nil {
			return nil, fmt.Errorf("loading embedding for %s: %w", id, err)
		}
		pair.ids[i] = id
		pair.embeddings[i] = emb
	}

	snap, err := graph.SnapshotFromDB(d)
	if err != nil {
		return nil, fmt.Errorf("loading graph: %w", err)
	}
	pair.snap = snap
	return pair, nil
}

func sameComponent(pair *nodePair) (*SameResult, error) {
	uf, skipped := graph.Partition(pair.snap)
	if skipped > 0 {
		logger.Debug("skipped edges with unknown endpoints", "count", skipped)
	}

	a, b := pair.ids[0], pair.ids[1]
	connected, err := uf.Connected(a, b)
	if err != nil {
		return nil, err
	}
	sizeA, _ := uf.SizeOf(a)
	sizeB, _ := uf.SizeOf(b)

	result := &SameResult{A: a, B: b, Connected: connected, SizeA: sizeA, SizeB: sizeB}
	if len(pair.embeddings[0]) > 0 && len(pair.embeddings[1]) > 0 {
		sim := graph.CosineSimilarity(pair.embeddings[0], pair.embeddings[1])
		result.Similarity = &sim
	}
	return result, nil
}

func printSame(w io.Writer, r *SameResult, snap *graph.GraphSnapshot) {
	titleA := truncTitle(snap.Title(r.A), 40)
	titleB := truncTitle(snap.Title(r.B), 40)
	if r.Connected {
		fmt.Fprintf(w, "connected: %s and %s share a component of %s\n", titleA, titleB, plural(r.SizeA, "node"))
	} else {
		fmt.Fprintf(w, "not connected: %s (component of %s), %s (component of %s)\n",
			titleA, plural(r.SizeA, "node"), titleB, plural(r.SizeB, "node"))
	}
	if r.Similarity != nil {
		fmt.Fprintf(w, "embedding similarity: %.3f\n", *r.Similarity)
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mycelica/clump/internal/db"
	"mycelica/clump/internal/graphfile"
)

// ImportResult reports what one import wrote and what the store holds afterwards.
type ImportResult struct {
	DB            string `json:"db"`
	Nodes         int    `json:"nodes"`
	Edges         int    `json:"edges"`
	TotalNodes    int    `json:"total_nodes"`
	TotalEdges    int    `json:"total_edges"`
	TotalEmbedded int    `json:"total_embedded"`
}

var importCmd = &cobra.Command{
	Use:   "import <graph.toml>",
	Short: "Validate a TOML graph file and write it to the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := graphfile.Load(args[0])
		if err != nil {
			return err
		}

		d, err := OpenDatabase(true)
		if err != nil {
			return err
		}
		defer d.Close()

		result, err := importGraph(d, f)
		if err != nil {
			return fmt.Errorf("importing %s: %w", args[0], err)
		}
		logger.Info("imported graph", "file", args[0], "db", d.Path, "nodes", result.Nodes, "edges", result.Edges)

		if cfg.JSON {
			return printJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s and %s into %s\n",
			plural(result.Nodes, "node"), plural(result.Edges, "edge"), result.DB)
		fmt.Fprintf(cmd.OutOrStdout(), "Database now holds %s, %s, %s with embeddings\n",
			plural(result.TotalNodes, "node"), plural(result.TotalEdges, "edge"), count(result.TotalEmbedded))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func importGraph(d *db.DB, f *graphfile.File) (*ImportResult, error) {
	nodes, edges := f.Records()
	if err := d.ImportGraph(nodes, edges); err != nil {
		return nil, err
	}

	result := &ImportResult{DB: d.Path, Nodes: len(nodes), Edges: len(edges)}
	var err error
	if result.TotalNodes, err = d.CountNodes(); err != nil {
		return nil, fmt.Errorf("counting nodes: %w", err)
	}
	if result.TotalEdges, err = d.CountEdges(); err != nil {
		return nil, fmt.Errorf("counting edges: %w", err)
	}
	if result.TotalEmbedded, err = d.CountNodesWithEmbeddings(); err != nil {
		return nil, fmt.Errorf("counting embeddings: %w", err)
	}
	return result, nil
}

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mycelica/clump/internal/db"
	"mycelica/clump/internal/graph"
	"mycelica/clump/internal/graphfile"
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Group nodes whose embeddings are similar",
	RunE: func(cmd *cobra.Command, args []string) error {
		embeddings, err := loadEmbeddings()
		if err != nil {
			return err
		}
		logger.Debug("clustering embeddings", "count", len(embeddings), "threshold", cfg.SimilarityThreshold)

		report, err := graph.SimilarityClusters(embeddings, float32(cfg.SimilarityThreshold), cfg.MinClusterSize)
		if err != nil {
			return err
		}
		if len(report.Clusters) > cfg.TopN {
			report.Clusters = report.Clusters[:cfg.TopN]
		}
		if cfg.JSON {
			return printJSON(cmd.OutOrStdout(), report)
		}
		printClusters(cmd.OutOrStdout(), report, len(embeddings))
		return nil
	},
}

func init() {
	f := clustersCmd.Flags()
	f.Float64("threshold", 0.8, "Minimum cosine similarity to link two nodes")
	f.Int("min-size", 2, "Smallest cluster to report")
	addGraphFileFlag(clustersCmd)
	rootCmd.AddCommand(clustersCmd)
}

func loadEmbeddings() ([]db.NodeEmbedding, error) {
	if graphFile != "" {
		f, err := graphfile.Load(graphFile)
		if err != nil {
			return nil, err
		}
		return f.Embeddings(), nil
	}

	d, err := OpenDatabase(false)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	embeddings, err := d.GetNodesWithEmbeddings()
	if err != nil {
		return nil, fmt.Errorf("loading embeddings: %w", err)
	}
	return embeddings, nil
}

func printClusters(w io.Writer, r *graph.ClusterReport, total int) {
	fmt.Fprintln(w)
	printHeading(w, "SIMILARITY CLUSTERS")
	fmt.Fprintf(w, "  %s with embeddings, %s at similarity >= %.2f\n",
		plural(total, "node"), plural(r.Links, "link"), r.Threshold)
	if len(r.Clusters) == 0 {
		fmt.Fprintf(w, "  No clusters of size >= %d\n", r.MinSize)
	}
	for i, c := range r.Clusters {
		fmt.Fprintf(w, "    #%d  size=%s  %s\n", i+1, count(c.Size), memberList(c.Members, 8))
	}
	if r.Unclustered > 0 {
		fmt.Fprintf(w, "  %s left unclustered\n", plural(r.Unclustered, "node"))
	}
	fmt.Fprintln(w)
}

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mycelica/clump/internal/graph"
)

var forestCmd = &cobra.Command{
	Use:   "forest",
	Short: "Minimum spanning forest by edge weight",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}

		report := graph.SpanningForest(snap)
		if cfg.JSON {
			return printJSON(cmd.OutOrStdout(), report)
		}
		printForest(cmd.OutOrStdout(), report, snap, cfg.TopN)
		return nil
	},
}

func init() {
	addGraphFileFlag(forestCmd)
	rootCmd.AddCommand(forestCmd)
}

func printForest(w io.Writer, r *graph.ForestReport, snap *graph.GraphSnapshot, limit int) {
	fmt.Fprintln(w)
	printHeading(w, "SPANNING FOREST")
	fmt.Fprintf(w, "  Trees: %s  Edges kept: %s  Rejected: %s  Total weight: %.3f\n",
		count(r.TreeCount), count(len(r.Edges)), count(r.Rejected), r.TotalWeight)
	shown := min(len(r.Edges), limit)
	for _, e := range r.Edges[:shown] {
		fmt.Fprintf(w, "    %s -> %s  (%.3f)\n",
			truncTitle(snap.Title(e.SourceID), 30), truncTitle(snap.Title(e.TargetID), 30), e.Weight)
	}
	if len(r.Edges) > shown {
		fmt.Fprintf(w, "    ... and %s more\n", count(len(r.Edges)-shown))
	}
	fmt.Fprintln(w)
}

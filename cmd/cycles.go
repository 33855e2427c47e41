package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mycelica/clump/internal/graph"
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Find edges that close cycles in the undirected graph",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}

		report := graph.DetectCycles(snap, cfg.TopN)
		if cfg.JSON {
			return printJSON(cmd.OutOrStdout(), report)
		}
		printCycles(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	addGraphFileFlag(cyclesCmd)
	rootCmd.AddCommand(cyclesCmd)
}

func printCycles(w io.Writer, r *graph.CycleReport) {
	fmt.Fprintln(w)
	printHeading(w, "CYCLES")
	if r.IsForest {
		fmt.Fprintln(w, "  No cycles: the graph is a forest")
	} else {
		fmt.Fprintf(w, "  Cycle-closing edges: %s\n", count(r.CycleEdgeCount))
		for _, e := range r.CycleEdges {
			loop := ""
			if e.SelfLoop {
				loop = "  (self-loop)"
			}
			fmt.Fprintf(w, "    %s -> %s%s\n", truncTitle(e.SourceTitle, 30), truncTitle(e.TargetTitle, 30), loop)
		}
		if r.CycleEdgeCount > len(r.CycleEdges) {
			fmt.Fprintf(w, "    ... and %s more\n", count(r.CycleEdgeCount-len(r.CycleEdges)))
		}
	}
	if r.SkippedEdges > 0 {
		fmt.Fprintf(w, "  Skipped %s with unknown endpoints\n", plural(r.SkippedEdges, "edge"))
	}
	fmt.Fprintln(w)
}

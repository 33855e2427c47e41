package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mycelica/clump/internal/graph"
)

var analyzeRegion string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze graph partitioning: components, cycles, spanning forest, cohesion score",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}

		if analyzeRegion != "" {
			snap = snap.FilterToRegion(analyzeRegion)
		}

		report := graph.Analyze(snap, &graph.AnalyzerConfig{
			HubThreshold: cfg.HubThreshold,
			TopN:         cfg.TopN,
		})
		logger.Debug("analysis complete", "nodes", report.Topology.TotalNodes, "cohesion", report.Cohesion)

		if cfg.JSON {
			return printJSON(cmd.OutOrStdout(), report)
		}
		printReport(cmd.OutOrStdout(), report, snap, cfg.TopN)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRegion, "region", "", "Scope analysis to descendants of this node ID")
	addGraphFileFlag(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func cohesionBar(score float64) string {
	barLen := min(max(int(score*20), 0), 20)
	return strings.Repeat("█", barLen) + strings.Repeat("░", 20-barLen)
}

func printReport(w io.Writer, report *graph.PartitionReport, snap *graph.GraphSnapshot, topN int) {
	fmt.Fprintf(w, "\n  Cohesion: %.0f%%  [%s]\n", report.Cohesion*100, cohesionBar(report.Cohesion))
	fmt.Fprintf(w, "  breakdown: components=%.2f connectivity=%.2f treeness=%.2f\n",
		report.Breakdown.Components,
		report.Breakdown.Connectivity,
		report.Breakdown.Treeness)

	printTopology(w, report.Topology, snap)
	printCycles(w, report.Cycles)
	printForest(w, report.Forest, snap, topN)
}

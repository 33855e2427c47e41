package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"mycelica/clump/internal/graph"
)

var componentsRegion string

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "Connected components, orphans, degree distribution and hubs",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}
		if componentsRegion != "" {
			snap = snap.FilterToRegion(componentsRegion)
		}

		report := graph.ComputeTopology(snap, cfg.HubThreshold, cfg.TopN)
		if cfg.JSON {
			return printJSON(cmd.OutOrStdout(), report)
		}
		printTopology(cmd.OutOrStdout(), report, snap)
		return nil
	},
}

func init() {
	componentsCmd.Flags().StringVar(&componentsRegion, "region", "", "Scope analysis to descendants of this node ID")
	componentsCmd.Flags().Int("hub-threshold", 15, "Minimum degree to consider a node a hub")
	addGraphFileFlag(componentsCmd)
	rootCmd.AddCommand(componentsCmd)
}

func printTopology(w io.Writer, t *graph.TopologyReport, snap *graph.GraphSnapshot) {
	fmt.Fprintln(w)
	printHeading(w, "COMPONENTS")
	fmt.Fprintf(w, "  Nodes: %s  Edges: %s  Components: %s\n", count(t.TotalNodes), count(t.TotalEdges), count(t.NumComponents))
	if t.NumComponents > 0 {
		fmt.Fprintf(w, "  Largest component: %s  Smallest: %s\n", count(t.LargestComponent), count(t.SmallestComponent))
	}
	if t.SkippedEdges > 0 {
		fmt.Fprintf(w, "  Skipped %s with unknown endpoints\n", plural(t.SkippedEdges, "edge"))
	}
	for i, c := range t.Components {
		fmt.Fprintf(w, "    #%d  size=%s  %s\n", i+1, count(c.Size), memberList(c.Members, 6))
	}
	if t.NumComponents > len(t.Components) {
		fmt.Fprintf(w, "    ... and %s more\n", count(t.NumComponents-len(t.Components)))
	}

	if t.OrphanCount > 0 {
		fmt.Fprintf(w, "\n  Orphans: %s disconnected nodes\n", count(t.OrphanCount))
		for _, id := range t.OrphanIDs {
			fmt.Fprintf(w, "    - %s (%s)\n", truncID(id), truncTitle(snap.Title(id), 50))
		}
		if t.OrphanCount > len(t.OrphanIDs) {
			fmt.Fprintf(w, "    ... and %s more\n", count(t.OrphanCount-len(t.OrphanIDs)))
		}
	}

	// Degree distribution
	if t.TotalNodes > 0 {
		fmt.Fprintln(w, "\n  Degree distribution:")
		for _, b := range t.DegreeHistogram {
			if b.Count > 0 {
				barWidth := int(math.Log2(float64(b.Count))) + 2
				fmt.Fprintf(w, "    %5s: %4d  %s\n", b.Label, b.Count, strings.Repeat("=", barWidth))
			}
		}
	}

	// Hubs
	if len(t.Hubs) > 0 {
		fmt.Fprintln(w, "\n  Top hubs (degree > threshold):")
		for _, hub := range t.Hubs {
			fmt.Fprintf(w, "    %s degree=%d (in=%d, out=%d)  %s\n",
				truncID(hub.ID), hub.Degree, hub.InDegree, hub.OutDegree, truncTitle(hub.Title, 40))
		}
	}

	// Regions; a flat graph makes every node its own region, so skip those
	if t.RegionCount > 1 && t.Regions[0].Nodes > 1 {
		fmt.Fprintln(w, "\n  Regions (depth-1 ancestors):")
		for _, r := range t.Regions {
			fmt.Fprintf(w, "    %-40s nodes=%s components=%s\n",
				truncTitle(r.Title, 40), count(r.Nodes), count(r.Components))
		}
		if t.RegionCount > len(t.Regions) {
			fmt.Fprintf(w, "    ... and %s more\n", count(t.RegionCount-len(t.Regions)))
		}
	}
	fmt.Fprintln(w)
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mycelica/clump/internal/graph"
	"mycelica/clump/internal/graphfile"
)

var watchCmd = &cobra.Command{
	Use:   "watch <graph.toml>",
	Short: "Recompute components whenever a graph file changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w, err := graphfile.NewWatcher(args[0])
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		if err := w.Start(); err != nil {
			w.Stop()
			return fmt.Errorf("watching %s: %w", args[0], err)
		}
		defer w.Stop()

		return watchLoop(ctx, cmd.OutOrStdout(), w)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// watchLoop prints a summary now and after every change until ctx is done.
// A file that fails to load is logged and the previous summary stands.
func watchLoop(ctx context.Context, out io.Writer, w *graphfile.Watcher) error {
	summarize(out, w.Path)
	logger.Info("watching graph file", "path", w.Path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Changes:
			if !ok {
				return nil
			}
			logger.Debug("graph file changed", "path", path)
			summarize(out, path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

func summarize(out io.Writer, path string) {
	f, err := graphfile.Load(path)
	if err != nil {
		logger.Error("reloading graph file", "path", path, "error", err)
		return
	}
	snap := f.Snapshot()
	t := graph.ComputeTopology(snap, cfg.HubThreshold, cfg.TopN)
	c := graph.DetectCycles(snap, 0)
	fmt.Fprintf(out, "%s: %s, %s, %s, %s\n",
		path, plural(t.TotalNodes, "node"), plural(t.TotalEdges, "edge"),
		plural(t.NumComponents, "component"), plural(c.CycleEdgeCount, "cycle edge"))
}

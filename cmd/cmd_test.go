package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mycelica/clump/internal/config"
	"mycelica/clump/internal/db"
	"mycelica/clump/internal/graph"
	"mycelica/clump/internal/graphfile"
)

const testGraph = `
[[node]]
id = "alpha-1"
title = "Alpha"
embedding = [1.0, 0.0]

[[node]]
id = "alpha-2"
title = "Alpha two"

[[node]]
id = "beta"
title = "Beta"
embedding = [1.0, 1.0]

[[node]]
id = "gamma"
title = "Gamma"

[[edge]]
source = "alpha-1"
target = "alpha-2"

[[edge]]
source = "alpha-2"
target = "beta"
weight = 0.5

[[edge]]
source = "beta"
target = "alpha-1"
`

func writeGraph(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadTestFile(t *testing.T) *graphfile.File {
	t.Helper()
	f, err := graphfile.Load(writeGraph(t, testGraph))
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func loadTestSnapshot(t *testing.T) *graph.GraphSnapshot {
	t.Helper()
	return loadTestFile(t).Snapshot()
}

// importTestDB writes the test graph into a fresh database.
func importTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.OpenDB(filepath.Join(t.TempDir(), "graph.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	if _, err := importGraph(d, loadTestFile(t)); err != nil {
		t.Fatal(err)
	}
	return d
}

// resetCommandState puts flags and viper back to their defaults.
func resetCommandState(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		restore := func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
		reset := func(c *cobra.Command) {
			c.Flags().VisitAll(restore)
			c.PersistentFlags().VisitAll(restore)
		}
		reset(rootCmd)
		for _, c := range rootCmd.Commands() {
			reset(c)
		}
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		viper.Reset()
		cfg = config.Config{}
	})
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("clump %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestTruncID(t *testing.T) {
	if got := truncID("0123456789"); got != "01234567" {
		t.Errorf("expected 01234567, got %s", got)
	}
	if got := truncID("abc"); got != "abc" {
		t.Errorf("expected abc, got %s", got)
	}
}

func TestTruncTitle_UTF8Boundary(t *testing.T) {
	got := truncTitle("héllo wörld", 2)
	if got != "h..." {
		t.Errorf("expected h..., got %q", got)
	}
	if got := truncTitle("short", 10); got != "short" {
		t.Errorf("expected short, got %q", got)
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 nodes"},
		{1, "1 node"},
		{1234, "1,234 nodes"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "node"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestMemberList(t *testing.T) {
	if got := memberList([]string{"a", "b"}, 3); got != "a, b" {
		t.Errorf("expected 'a, b', got %q", got)
	}
	if got := memberList([]string{"a", "b", "c", "d"}, 2); got != "a, b, ... (+2)" {
		t.Errorf("expected truncated list, got %q", got)
	}
}

func TestCohesionBar(t *testing.T) {
	tests := []struct {
		score float64
		full  int
	}{
		{0, 0},
		{0.5, 10},
		{1, 20},
		{1.7, 20},
		{-0.3, 0},
	}
	for _, tt := range tests {
		bar := cohesionBar(tt.score)
		if got := strings.Count(bar, "█"); got != tt.full {
			t.Errorf("cohesionBar(%v): expected %d full cells, got %d", tt.score, tt.full, got)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 20 {
			t.Errorf("cohesionBar(%v): expected 20 cells, got %d", tt.score, got)
		}
	}
}

func TestResolveNode(t *testing.T) {
	snap := loadTestSnapshot(t)

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr string
	}{
		{name: "exact", ref: "beta", want: "beta"},
		{name: "exact wins over prefix", ref: "alpha-1", want: "alpha-1"},
		{name: "unique prefix", ref: "gam", want: "gamma"},
		{name: "ambiguous prefix", ref: "alpha", wantErr: "ambiguous reference 'alpha'. 2 matches"},
		{name: "unknown", ref: "delta", wantErr: "node not found: delta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveNode(snap, tt.ref)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestResolveNode_NotFoundSentinel(t *testing.T) {
	_, err := ResolveNode(loadTestSnapshot(t), "zzz")
	if !errors.Is(err, errNodeNotFound) {
		t.Errorf("expected errNodeNotFound, got %v", err)
	}
}

func TestSameComponent(t *testing.T) {
	pair, err := pairFromFile(loadTestFile(t), "alpha-1", "bet")
	if err != nil {
		t.Fatal(err)
	}
	got, err := sameComponent(pair)
	if err != nil {
		t.Fatal(err)
	}
	if got.A != "alpha-1" || got.B != "beta" || !got.Connected || got.SizeA != 3 || got.SizeB != 3 {
		t.Errorf("expected alpha-1 and beta connected in a component of 3, got %+v", got)
	}
	if got.Similarity == nil || math.Abs(float64(*got.Similarity)-math.Sqrt2/2) > 1e-6 {
		t.Errorf("expected similarity %.4f, got %v", math.Sqrt2/2, got.Similarity)
	}

	pair, err = pairFromFile(loadTestFile(t), "gamma", "beta")
	if err != nil {
		t.Fatal(err)
	}
	got, err = sameComponent(pair)
	if err != nil {
		t.Fatal(err)
	}
	want := &SameResult{A: "gamma", B: "beta", Connected: false, SizeA: 1, SizeB: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("same result mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	printSame(&buf, got, pair.snap)
	if buf.String() != "not connected: Gamma (component of 1 node), Beta (component of 3 nodes)\n" {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestSameComponent_UnknownReference(t *testing.T) {
	_, err := pairFromFile(loadTestFile(t), "beta", "nobody")
	if !errors.Is(err, errNodeNotFound) {
		t.Errorf("expected errNodeNotFound, got %v", err)
	}
}

func TestSameComponent_FromDatabase(t *testing.T) {
	d := importTestDB(t)

	pair, err := pairFromDB(d, "alpha-2", "be")
	if err != nil {
		t.Fatal(err)
	}
	got, err := sameComponent(pair)
	if err != nil {
		t.Fatal(err)
	}
	if got.A != "alpha-2" || got.B != "beta" || !got.Connected || got.SizeA != 3 {
		t.Errorf("expected alpha-2 and beta connected in a component of 3, got %+v", got)
	}
	if got.Similarity != nil {
		t.Errorf("alpha-2 has no embedding, expected no similarity, got %v", *got.Similarity)
	}

	pair, err = pairFromDB(d, "alpha-1", "beta")
	if err != nil {
		t.Fatal(err)
	}
	if got, err = sameComponent(pair); err != nil {
		t.Fatal(err)
	}
	if got.Similarity == nil {
		t.Error("expected a similarity for two embedded nodes")
	}

	if _, err := pairFromDB(d, "gamma", "nobody"); !errors.Is(err, errNodeNotFound) {
		t.Errorf("expected errNodeNotFound, got %v", err)
	}
}

func TestResolveStoredNode(t *testing.T) {
	d := importTestDB(t)

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr string
	}{
		{name: "exact", ref: "beta", want: "beta"},
		{name: "exact wins over prefix", ref: "alpha-1", want: "alpha-1"},
		{name: "unique prefix", ref: "gam", want: "gamma"},
		{name: "ambiguous prefix", ref: "alpha", wantErr: "ambiguous reference 'alpha'. 2 matches"},
		{name: "wildcards are literal", ref: "alpha_", wantErr: "node not found: alpha_"},
		{name: "case-sensitive", ref: "GAM", wantErr: "node not found: GAM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveStoredNode(d, tt.ref)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestResolveStoredNode_ManyMatches(t *testing.T) {
	d, err := db.OpenDB(filepath.Join(t.TempDir(), "graph.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	for i := 0; i < 12; i++ {
		if _, err := d.InsertNode(db.Node{ID: fmt.Sprintf("n%02d", i), Title: "N"}); err != nil {
			t.Fatal(err)
		}
	}

	_, err = ResolveStoredNode(d, "n")
	if err == nil || !strings.Contains(err.Error(), "12 matches") {
		t.Fatalf("expected full match count, got %v", err)
	}
	if got := strings.Count(err.Error(), "\n  n"); got != maxListedMatches {
		t.Errorf("expected %d listed matches, got %d", maxListedMatches, got)
	}
}

func TestImportGraph_ReportsTotals(t *testing.T) {
	d := importTestDB(t)

	f, err := graphfile.Parse([]byte(`
[[node]]
id = "delta"
embedding = [0.5, 0.5]

[[edge]]
source = "delta"
target = "delta"
`))
	if err != nil {
		t.Fatal(err)
	}
	got, err := importGraph(d, f)
	if err != nil {
		t.Fatal(err)
	}
	want := &ImportResult{DB: d.Path, Nodes: 1, Edges: 1, TotalNodes: 5, TotalEdges: 4, TotalEmbedded: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("import result mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintReport(t *testing.T) {
	snap := loadTestSnapshot(t)
	report := graph.Analyze(snap, graph.DefaultConfig())

	var buf bytes.Buffer
	printReport(&buf, report, snap, 10)
	out := buf.String()

	for _, want := range []string{
		"Cohesion:",
		"COMPONENTS",
		"Nodes: 4  Edges: 3  Components: 2",
		"Orphans: 1 disconnected nodes",
		"gamma (Gamma)",
		"CYCLES",
		"Cycle-closing edges: 1",
		"SPANNING FOREST",
		"Trees: 2  Edges kept: 2  Rejected: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Regions") {
		t.Errorf("a flat graph should not list regions\n%s", out)
	}
}

func TestDiscoverDB_WalkUp(t *testing.T) {
	resetCommandState(t)
	root := t.TempDir()
	dbFile := filepath.Join(root, dbFileName)
	if err := os.WriteFile(dbFile, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	got, err := DiscoverDB(false)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.EvalSymlinks(dbFile)
	if resolved, _ := filepath.EvalSymlinks(got); resolved != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestDiscoverDB_ExplicitPath(t *testing.T) {
	resetCommandState(t)
	cfg = config.Config{DBPath: filepath.Join(t.TempDir(), "missing.db")}

	if _, err := DiscoverDB(false); err == nil || !strings.Contains(err.Error(), "database not found") {
		t.Errorf("expected not-found error, got %v", err)
	}
	got, err := DiscoverDB(true)
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg.DBPath {
		t.Errorf("expected %s, got %s", cfg.DBPath, got)
	}
}

func TestImportThenComponents(t *testing.T) {
	resetCommandState(t)
	graphPath := writeGraph(t, testGraph)
	dbFile := filepath.Join(t.TempDir(), "graph.db")

	out := execute(t, "--db", dbFile, "import", graphPath)
	if !strings.Contains(out, "Imported 4 nodes and 3 edges") {
		t.Errorf("unexpected import output: %q", out)
	}
	if !strings.Contains(out, "Database now holds 4 nodes, 3 edges, 2 with embeddings") {
		t.Errorf("unexpected totals line: %q", out)
	}

	out = execute(t, "--db", dbFile, "--json", "components")
	var report graph.TopologyReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\nraw: %s", err, out)
	}
	want := []graph.Component{
		{Size: 3, Members: []string{"alpha-1", "alpha-2", "beta"}},
		{Size: 1, Members: []string{"gamma"}},
	}
	if diff := cmp.Diff(want, report.Components); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}
}

func TestWatchLoop_InitialSummary(t *testing.T) {
	resetCommandState(t)
	cfg = config.Config{TopN: 10, HubThreshold: 15}
	path := writeGraph(t, testGraph)

	w, err := graphfile.NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	if err := watchLoop(ctx, &buf, w); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "4 nodes, 3 edges, 2 components, 1 cycle edge") {
		t.Errorf("unexpected summary: %q", buf.String())
	}
}

func TestClustersFromFile(t *testing.T) {
	resetCommandState(t)
	path := writeGraph(t, `
[[node]]
id = "a"
embedding = [1.0, 0.0]

[[node]]
id = "b"
embedding = [0.9, 0.1]

[[node]]
id = "c"
embedding = [0.0, 1.0]

[[node]]
id = "d"
`)

	out := execute(t, "--json", "clusters", "--file", path)
	var report graph.ClusterReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\nraw: %s", err, out)
	}
	want := []graph.Component{{Size: 2, Members: []string{"a", "b"}}}
	if diff := cmp.Diff(want, report.Clusters); diff != "" {
		t.Errorf("clusters mismatch (-want +got):\n%s", diff)
	}
	if report.Links != 1 {
		t.Errorf("expected 1 link, got %d", report.Links)
	}
	if report.Unclustered != 1 {
		t.Errorf("expected 1 unclustered node, got %d", report.Unclustered)
	}
}

func TestClusters_ThresholdFlag(t *testing.T) {
	resetCommandState(t)
	path := writeGraph(t, `
[[node]]
id = "a"
embedding = [1.0, 0.0]

[[node]]
id = "b"
embedding = [1.0, 1.0]
`)

	out := execute(t, "--json", "clusters", "--file", path, "--threshold", "0.95")
	var report graph.ClusterReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\nraw: %s", err, out)
	}
	if len(report.Clusters) != 0 || report.Unclustered != 2 {
		t.Errorf("expected no clusters at 0.95, got %+v", report)
	}
}

func TestWatchCommand_MissingDirectory(t *testing.T) {
	resetCommandState(t)
	path := filepath.Join(t.TempDir(), "missing", "graph.toml")

	done := make(chan error, 1)
	go func() {
		rootCmd.SetOut(io.Discard)
		rootCmd.SetErr(io.Discard)
		rootCmd.SetArgs([]string{"watch", path})
		done <- rootCmd.Execute()
	}()

	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "watching") {
			t.Errorf("expected a watch error, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not return after the watcher failed to start")
	}
}

func TestPrintTopology_Regions(t *testing.T) {
	f, err := graphfile.Parse([]byte(`
[[node]]
id = "r1"
title = "First"
depth = 1

[[node]]
id = "a"
parent = "r1"
depth = 2

[[node]]
id = "r2"
title = "Second"
depth = 1
`))
	if err != nil {
		t.Fatal(err)
	}
	snap := f.Snapshot()

	var buf bytes.Buffer
	printTopology(&buf, graph.ComputeTopology(snap, 15, 10), snap)
	out := buf.String()
	for _, want := range []string{"Regions (depth-1 ancestors):", "First", "nodes=2 components=2", "Second"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
}

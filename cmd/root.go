package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"mycelica/clump/internal/config"
	"mycelica/clump/internal/db"
	"mycelica/clump/internal/graph"
	"mycelica/clump/internal/graphfile"
)

const dbFileName = ".clump.db"

var (
	cfgFile   string
	graphFile string
	cfg       config.Config
	logger    = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

var rootCmd = &cobra.Command{
	Use:           "clump",
	Short:         "Disjoint-set partitioning of graphs",
	Long:          "Clump groups graph nodes into disjoint sets: connected components, cycle-closing edges, spanning forests and similarity clusters.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		level := slog.LevelInfo
		if cfg.Verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default .clump.yaml)")
	pf.String("db", "", "Path to "+dbFileName+" database")
	pf.Bool("json", false, "Output as JSON")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.Int("top-n", 10, "Number of items to list per section")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".clump")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("CLUMP")
	viper.AutomaticEnv()

	bindFlags()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// bindFlags maps CLI flags onto config keys. Flags only win when set explicitly.
func bindFlags() {
	pf := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("db", pf.Lookup("db"))
	_ = viper.BindPFlag("json", pf.Lookup("json"))
	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("top_n", pf.Lookup("top-n"))
	_ = viper.BindPFlag("hub_threshold", componentsCmd.Flags().Lookup("hub-threshold"))
	_ = viper.BindPFlag("similarity_threshold", clustersCmd.Flags().Lookup("threshold"))
	_ = viper.BindPFlag("min_cluster_size", clustersCmd.Flags().Lookup("min-size"))
}

// DiscoverDB finds the database path using priority: env/flag/config > walk-up.
// With create set, a missing database resolves to .clump.db in the working directory.
func DiscoverDB(create bool) (string, error) {
	// 1. CLUMP_DB, --db or config file
	if cfg.DBPath != "" {
		if create {
			return cfg.DBPath, nil
		}
		if _, err := os.Stat(cfg.DBPath); err != nil {
			return "", fmt.Errorf("database not found at %s", cfg.DBPath)
		}
		return cfg.DBPath, nil
	}

	// 2. Walk up from CWD
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	for dir := cwd; ; {
		candidate := filepath.Join(dir, dbFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if create {
		return filepath.Join(cwd, dbFileName), nil
	}
	return "", fmt.Errorf("no %s found (set CLUMP_DB, use --db, or run from a directory containing %s)", dbFileName, dbFileName)
}

// OpenDatabase discovers and opens the database
func OpenDatabase(create bool) (*db.DB, error) {
	path, err := DiscoverDB(create)
	if err != nil {
		return nil, err
	}
	logger.Debug("opening database", "path", path)
	return db.OpenDB(path)
}

// loadSnapshot reads the graph from --file when given, otherwise from the database.
func loadSnapshot() (*graph.GraphSnapshot, error) {
	if graphFile != "" {
		f, err := graphfile.Load(graphFile)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded graph file", "path", graphFile, "nodes", len(f.Nodes), "edges", len(f.Edges))
		return f.Snapshot(), nil
	}

	d, err := OpenDatabase(false)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	snap, err := graph.SnapshotFromDB(d)
	if err != nil {
		return nil, fmt.Errorf("loading graph: %w", err)
	}
	logger.Debug("loaded graph from database", "nodes", len(snap.Nodes), "edges", len(snap.Edges))
	return snap, nil
}

func addGraphFileFlag(c *cobra.Command) {
	c.Flags().StringVarP(&graphFile, "file", "f", "", "Read the graph from a TOML file instead of the database")
}

// maxListedMatches bounds how many candidates an ambiguous reference lists.
const maxListedMatches = 10

// ResolveNode finds a node in the snapshot by full ID or unique ID prefix.
func ResolveNode(snap *graph.GraphSnapshot, reference string) (string, error) {
	// 1. Exact ID match
	if _, ok := snap.Nodes[reference]; ok {
		return reference, nil
	}

	// 2. ID prefix match
	var matches []string
	for _, id := range snap.NodeIDs() {
		if strings.HasPrefix(id, reference) {
			matches = append(matches, id)
		}
	}
	return pickMatch(reference, matches, len(matches), snap.Title)
}

// ResolveStoredNode finds a node in the database by full ID or unique ID prefix.
func ResolveStoredNode(d *db.DB, reference string) (string, error) {
	// 1. Exact ID match
	n, err := d.GetNode(reference)
	if err == nil {
		return n.ID, nil
	}
	if !errors.Is(err, db.ErrNodeNotFound) {
		return "", fmt.Errorf("resolving %s: %w", reference, err)
	}

	// 2. ID prefix match; one extra row tells us the list was cut short
	nodes, err := d.SearchByIDPrefix(reference, maxListedMatches+1)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", reference, err)
	}
	matches := make([]string, len(nodes))
	titles := make(map[string]string, len(nodes))
	for i, n := range nodes {
		matches[i] = n.ID
		titles[n.ID] = n.Title
	}
	total := len(matches)
	if total > maxListedMatches {
		all, err := d.SearchByIDPrefix(reference, -1)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", reference, err)
		}
		total = len(all)
	}
	return pickMatch(reference, matches, total, func(id string) string { return titles[id] })
}

func pickMatch(reference string, matches []string, total int, title func(string) string) (string, error) {
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", errNodeNotFound, reference)
	case 1:
		return matches[0], nil
	default:
		limit := min(len(matches), maxListedMatches)
		lines := make([]string, limit)
		for i, id := range matches[:limit] {
			lines[i] = fmt.Sprintf("  %s %s", truncID(id), title(id))
		}
		return "", fmt.Errorf("ambiguous reference '%s'. %d matches:\n%s\nUse a full node ID instead.",
			reference, total, strings.Join(lines, "\n"))
	}
}

var errNodeNotFound = errors.New("node not found")

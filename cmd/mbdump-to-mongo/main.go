// Command mbdump-to-mongo loads PostgreSQL COPY-format MusicBrainz dump files
// into MongoDB collections, converting each row according to a JSON-described
// table schema.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/gjmurakami-10gen/mongomerge/cache"
	"github.com/gjmurakami-10gen/mongomerge/loader"
	"github.com/gjmurakami-10gen/mongomerge/merge"
	"github.com/gjmurakami-10gen/mongomerge/queryb"
)

const defaultURI = "mongodb://localhost/musicbrainz"

var (
	uri     string
	baseDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mbdump-to-mongo <table> [<table> ...]",
	Short: "Load PostgreSQL dump files into MongoDB per a JSON table schema",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLoad,
}

func init() {
	rootCmd.Flags().StringVar(&uri, "uri", "", "MongoDB connection URI (overrides MONGODB_URI)")
	rootCmd.Flags().StringVar(&baseDir, "base-dir", "", "directory containing schema/ and data/ (default: the binary's directory)")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "log each table before loading it")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runLoad(cmd *cobra.Command, args []string) error {
	loader.Verbose = verbose

	resolvedURI := resolveURI(uri, defaultURI)
	resolvedBaseDir, err := resolveBaseDir(baseDir)
	if err != nil {
		return err
	}

	paths, err := loader.ResolvePaths(resolvedBaseDir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, db, err := merge.Connect(ctx, resolvedURI)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(ctx) }()

	columnMaps := cache.NewColumnMapCache(0)

	for _, table := range args {
		if err := loadOneTable(ctx, db, columnMaps, paths, table); err != nil {
			return err
		}
	}
	return nil
}

func loadOneTable(ctx context.Context, db *mongo.Database, columnMaps *cache.ColumnMapCache, paths loader.Paths, table string) error {
	cm, err := columnMaps.Get(ctx, paths.SchemaFile, table)
	if err != nil {
		return err
	}

	dumpPath := paths.DumpFile(table)
	f, err := os.Open(dumpPath)
	if err != nil {
		return fmt.Errorf("%w: opening dump file %s: %v", loader.ErrSchema, dumpPath, err)
	}
	defer f.Close()

	dest := queryb.Wrap[bson.M](db.Collection(table))

	start := time.Now()
	report, err := loader.LoadTable(ctx, dest, cm, table, f)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprintf(os.Stderr, "mbdump-to-mongo: %s: %d rows loaded in %s (%.1f rows/sec, %d warnings)\n",
		table, report.Inserted, elapsed.Round(time.Millisecond), ratePerSecond(report.Inserted, elapsed), len(report.Warnings))
	return nil
}

func resolveURI(flagValue, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("MONGODB_URI"); env != "" {
		return env
	}
	return fallback
}

func resolveBaseDir(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("%w: resolving binary directory: %v", loader.ErrSchema, err)
	}
	return filepath.Dir(exe), nil
}

func ratePerSecond(count int64, elapsed time.Duration) float64 {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(count) / seconds
}

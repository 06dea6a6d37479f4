// Command mongomerge denormalizes a parent collection by embedding its "one"
// children and attaching arrays of its "many" children, driven by a list of
// merge spec strings.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gjmurakami-10gen/mongomerge/merge"
)

const defaultURI = "mongodb://localhost/test"

var (
	uri     string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mongomerge <parent> <spec> [<spec> ...]",
	Short: "Denormalize a parent collection by embedding and attaching its children",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runMerge,
}

func init() {
	rootCmd.Flags().StringVar(&uri, "uri", "", "MongoDB connection URI (overrides MONGODB_URI)")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "log each composed pipeline before running it")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMerge(cmd *cobra.Command, args []string) error {
	merge.Verbose = verbose

	resolvedURI := resolveURI(uri, defaultURI)
	parentName, specs := args[0], args[1:]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, db, err := merge.Connect(ctx, resolvedURI)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(ctx) }()

	start := time.Now()
	result, err := merge.Execute(ctx, db, parentName, specs)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	rate := ratePerSecond(result.ParentsUpdated, elapsed)
	fmt.Fprintf(os.Stderr, "mongomerge: %s: %d parents updated in %s (%.1f docs/sec)\n",
		parentName, result.ParentsUpdated, elapsed.Round(time.Millisecond), rate)
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

func ratePerSecond(count int64, elapsed time.Duration) float64 {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(count) / seconds
}

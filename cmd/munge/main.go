// Command munge merges the raw response logs of an experiment into
// results/experiment_<n>/all_data.csv.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/distortlab/letterstim/responses"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("munge", flag.ContinueOnError)
	root := fs.String("root", ".", "Project directory containing raw-data/ and results/")
	experiment := fs.Int("experiment", 1, "Experiment number (1 or 2)")
	rawDir := fs.String("raw", "", "Raw data directory (default <root>/raw-data)")
	resultsDir := fs.String("results", "", "Results directory (default <root>/results)")
	naRep := fs.String("na", responses.DefaultNaRep, "Value written for missed responses")
	verbose := fs.Bool("v", false, "Log every session file read")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	exp, err := responses.ExperimentByNumber(*experiment)
	if err != nil {
		return err
	}
	if *rawDir == "" {
		*rawDir = filepath.Join(*root, "raw-data")
	}
	if *resultsDir == "" {
		*resultsDir = filepath.Join(*root, "results")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	res, err := responses.Aggregate(exp, responses.Options{
		RawDir:     *rawDir,
		ResultsDir: *resultsDir,
		NaRep:      *naRep,
		Logger:     slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Merged %d rows from %d sessions into %s\n", res.Rows, len(res.Sessions), res.Output)
	return nil
}

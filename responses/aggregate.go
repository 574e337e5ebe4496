package responses

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Options configures Aggregate.
type Options struct {
	// RawDir holds the per-session response files.
	RawDir string
	// ResultsDir receives experiment_<n>/all_data.csv.
	ResultsDir string
	// NaRep is written for missed responses; empty means DefaultNaRep.
	NaRep string
	// Logger receives progress messages; nil is silent.
	Logger *slog.Logger
}

// Result describes a completed aggregation.
type Result struct {
	Sessions []string
	Rows     int
	Output   string
}

// Collect reads every session file of e from rawDir. Within a series
// sessions are read from 1 upwards until the first missing number.
func Collect(e Experiment, rawDir string, lg *slog.Logger) (*Table, []string, error) {
	if lg == nil {
		lg = discardLogger()
	}
	all := &Table{}
	var files []string
	for _, s := range e.Series() {
		for n := 1; ; n++ {
			path := filepath.Join(rawDir, e.FileName(s, n))
			t, err := readSession(path)
			if errors.Is(err, os.ErrNotExist) {
				break
			}
			if err != nil {
				return nil, files, err
			}
			if e.TagColumn != "" {
				t.Set(e.TagColumn, s.SubExperiment)
			}
			all.Append(t)
			files = append(files, path)
			lg.Debug("session read", "file", filepath.Base(path), "rows", len(t.Rows))
		}
	}
	return all, files, nil
}

func readSession(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Aggregate collects, scores and sorts the sessions of e and writes the
// merged table to ResultsDir/experiment_<n>/all_data.csv.
func Aggregate(e Experiment, opts Options) (Result, error) {
	lg := opts.Logger
	if lg == nil {
		lg = discardLogger()
	}
	naRep := opts.NaRep
	if naRep == "" {
		naRep = DefaultNaRep
	}

	t, files, err := Collect(e, opts.RawDir, lg)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		return Result{}, fmt.Errorf("experiment %d in %s: %w", e.Number, opts.RawDir, ErrNoData)
	}
	if err := t.Score(naRep); err != nil {
		return Result{}, err
	}
	if err := t.SortBy(e.SortBy...); err != nil {
		return Result{}, err
	}

	outDir := filepath.Join(opts.ResultsDir, e.OutputDir())
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create output directory: %w", err)
	}
	out := filepath.Join(outDir, "all_data.csv")
	if err := writeTable(t, out); err != nil {
		return Result{}, err
	}

	lg.Info("experiment merged", "experiment", e.Number, "sessions", len(files), "rows", len(t.Rows), "output", out)
	return Result{Sessions: files, Rows: len(t.Rows), Output: out}, nil
}

// writeTable writes t next to path and renames it into place.
func writeTable(t *Table, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	name := tmp.Name()
	if err := t.WriteCSV(tmp); err != nil {
		tmp.Close()
		os.Remove(name)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("failed to rename %s: %w", path, err)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

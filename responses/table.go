package responses

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultNaRep is written in the correct column for missed responses.
const DefaultNaRep = "NaN"

// missedResponse marks a trial without an answer.
const missedResponse = "na"

// Table is a string-valued table whose rows are aligned with Columns.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ReadTSV reads a tab-separated file with a header line. Header names and
// cells are trimmed of surrounding white space; short rows are padded.
// A UTF-8 or UTF-16 byte order mark is honoured.
func ReadTSV(r io.Reader) (*Table, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	t := &Table{Columns: trimAll(header)}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(t.Rows)+1, err)
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		row := make([]string, len(t.Columns))
		copy(row, trimAll(rec))
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	return slices.Index(t.Columns, name)
}

// ensureColumn returns the index of name, appending it filled with value
// when absent.
func (t *Table) ensureColumn(name, value string) int {
	if i := t.Index(name); i >= 0 {
		return i
	}
	t.Columns = append(t.Columns, name)
	for k := range t.Rows {
		t.Rows[k] = append(t.Rows[k], value)
	}
	return len(t.Columns) - 1
}

// Set assigns value to column name in every row, adding the column if
// needed.
func (t *Table) Set(name, value string) {
	i := t.ensureColumn(name, value)
	for _, row := range t.Rows {
		row[i] = value
	}
}

// Append adds the rows of o, matching columns by name. Columns new to t
// are appended in the order first seen; cells with no value stay empty.
func (t *Table) Append(o *Table) {
	pos := make([]int, len(o.Columns))
	for j, name := range o.Columns {
		pos[j] = t.ensureColumn(name, "")
	}
	for _, src := range o.Rows {
		row := make([]string, len(t.Columns))
		for j, v := range src {
			if j < len(pos) {
				row[pos[j]] = v
			}
		}
		t.Rows = append(t.Rows, row)
	}
}

// Column returns the values of column name.
func (t *Table) Column(name string) ([]string, error) {
	i := t.Index(name)
	if i < 0 {
		return nil, fmt.Errorf("%q: %w", name, ErrMissingColumn)
	}
	out := make([]string, len(t.Rows))
	for k, row := range t.Rows {
		out[k] = row[i]
	}
	return out, nil
}

// Score adds a correct column: 1 when the response matches the target
// position, 0 when it does not, and naRep when the trial was missed.
func (t *Table) Score(naRep string) error {
	target := t.Index("targ_pos")
	if target < 0 {
		return fmt.Errorf("%q: %w", "targ_pos", ErrMissingColumn)
	}
	resp := t.Index("response")
	if resp < 0 {
		return fmt.Errorf("%q: %w", "response", ErrMissingColumn)
	}

	c := t.ensureColumn("correct", "")
	for _, row := range t.Rows {
		switch {
		case row[resp] == missedResponse:
			row[c] = naRep
		case row[resp] == row[target]:
			row[c] = "1"
		default:
			row[c] = "0"
		}
	}
	return nil
}

// SortBy stably orders rows by the named columns. Two cells that both
// parse as numbers compare numerically; otherwise they compare as text.
// Empty cells sort last.
func (t *Table) SortBy(cols ...string) error {
	idx := make([]int, len(cols))
	for k, name := range cols {
		if idx[k] = t.Index(name); idx[k] < 0 {
			return fmt.Errorf("sort by %q: %w", name, ErrMissingColumn)
		}
	}
	slices.SortStableFunc(t.Rows, func(a, b []string) int {
		for _, i := range idx {
			if c := compareCells(a[i], b[i]); c != 0 {
				return c
			}
		}
		return 0
	})
	return nil
}

func compareCells(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// WriteCSV writes the header and rows as comma-separated values.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

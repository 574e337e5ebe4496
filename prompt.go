package letterstim

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter asks for parameter values one line at a time. It only fills in
// a Config; generation never reads from it.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter reads answers from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Floats prompts n times with "Enter next <what>:" and parses each answer.
// Blank lines are asked again.
func (p *Prompter) Floats(what string, n int) ([]float64, error) {
	vals := make([]float64, 0, n)
	for len(vals) < n {
		fmt.Fprintf(p.out, "Enter next %s: ", what)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return nil, fmt.Errorf("reading %s: %w", what, err)
			}
			return nil, fmt.Errorf("reading %s: %w", what, io.ErrUnexpectedEOF)
		}
		line := strings.TrimSpace(p.in.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", what, line, ErrInvalidConfig)
		}
		vals = append(vals, v)
	}
	return vals, nil
}

// Fill replaces cfg's frequencies and amplitudes with prompted values. A
// count of zero keeps the configured set.
func (p *Prompter) Fill(cfg *Config, nFreqs, nAmps int) error {
	if nFreqs < 0 || nAmps < 0 {
		return fmt.Errorf("negative prompt count: %w", ErrInvalidConfig)
	}
	if nFreqs > 0 {
		f, err := p.Floats("frequency", nFreqs)
		if err != nil {
			return err
		}
		cfg.Frequencies = f
	}
	if nAmps > 0 {
		a, err := p.Floats("amplitude", nAmps)
		if err != nil {
			return err
		}
		cfg.Amplitudes = a
	}
	return nil
}

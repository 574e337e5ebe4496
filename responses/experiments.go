// Package responses merges the per-session response logs written by the
// experiment software into one scored, sorted CSV per experiment.
package responses

import (
	"fmt"
	"strconv"
)

// Series identifies one sequence of numbered session files.
type Series struct {
	SubExperiment string
	Subject       string
	Condition     string
	Distortion    string
}

// Experiment describes where an experiment's raw session files live and
// how its merged output is ordered.
type Experiment struct {
	Number         int
	SubExperiments []string
	Subjects       []string
	Conditions     []string
	Distortions    []string
	// TagColumn, when set, is added to every row with the series'
	// sub-experiment as its value.
	TagColumn string
	SortBy    []string

	fileName func(s Series, session int) string
}

// Experiment1 is the flanked/unflanked detection experiment.
func Experiment1() Experiment {
	return Experiment{
		Number:      1,
		Subjects:    []string{"2", "5", "7", "8", "9"},
		Conditions:  []string{"flanked", "unflanked"},
		Distortions: []string{"rf", "bex"},
		SortBy:      []string{"subject", "session", "trial"},
		fileName: func(s Series, n int) string {
			return fmt.Sprintf("distortionData_%s_%s_sub_%s_session_%d.csv",
				s.Condition, s.Distortion, s.Subject, n)
		},
	}
}

// Experiment2 is the distorted-flanker experiment with sub-experiments a,
// b and c. Conditions are the number of distorted flankers.
func Experiment2() Experiment {
	return Experiment{
		Number:         2,
		SubExperiments: []string{"a", "b", "c"},
		Subjects:       []string{"2", "5", "7"},
		Conditions:     []string{"0", "2", "4"},
		Distortions:    []string{"rf", "bex"},
		TagColumn:      "experiment",
		SortBy:         []string{"experiment", "subject", "session", "trial"},
		fileName: func(s Series, n int) string {
			if s.SubExperiment == "a" {
				return fmt.Sprintf("%sdistflanker_distortionData_flanked_%s_sub_%s_session_%d.csv",
					s.Condition, s.Distortion, s.Subject, n)
			}
			return fmt.Sprintf("%sexp3%s_distflanker_distortionData_flanked_%s_sub_%s_session_%d.csv",
				s.Condition, s.SubExperiment, s.Distortion, s.Subject, n)
		},
	}
}

// ExperimentByNumber returns the layout for experiment n.
func ExperimentByNumber(n int) (Experiment, error) {
	switch n {
	case 1:
		return Experiment1(), nil
	case 2:
		return Experiment2(), nil
	}
	return Experiment{}, fmt.Errorf("%d: %w", n, ErrUnknownExperiment)
}

// Series enumerates sub-experiment, subject, condition and distortion in
// that nesting order.
func (e Experiment) Series() []Series {
	subs := e.SubExperiments
	if len(subs) == 0 {
		subs = []string{""}
	}
	var out []Series
	for _, x := range subs {
		for _, s := range e.Subjects {
			for _, c := range e.Conditions {
				for _, d := range e.Distortions {
					out = append(out, Series{SubExperiment: x, Subject: s, Condition: c, Distortion: d})
				}
			}
		}
	}
	return out
}

// FileName returns the raw file name of session n of s. Sessions count
// from 1.
func (e Experiment) FileName(s Series, n int) string {
	if e.fileName == nil {
		return fmt.Sprintf("%s_%s_sub_%s_session_%d.csv", s.Condition, s.Distortion, s.Subject, n)
	}
	return e.fileName(s, n)
}

// OutputDir is the results sub-directory for the experiment.
func (e Experiment) OutputDir() string {
	return "experiment_" + strconv.Itoa(e.Number)
}

package responses

import "errors"

var (
	// ErrNoData indicates that no session file was found for an experiment.
	ErrNoData = errors.New("responses: no session files found")
	// ErrMissingColumn indicates a column required for scoring or sorting
	// is absent from the merged data.
	ErrMissingColumn = errors.New("responses: missing column")
	// ErrUnknownExperiment indicates an experiment number with no layout.
	ErrUnknownExperiment = errors.New("responses: unknown experiment")
)

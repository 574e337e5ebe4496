package responses

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSession(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	data := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
}

func TestAggregateScoresMissedResponses(t *testing.T) {
	raw := t.TempDir()
	results := t.TempDir()
	header := "subject\t session\t trial\t targ_pos\t response "

	// Written out of order so the sort is exercised.
	writeSession(t, raw, "distortionData_flanked_rf_sub_2_session_2.csv",
		header,
		"2\t2\t1\tl\tna",
	)
	writeSession(t, raw, "distortionData_flanked_rf_sub_2_session_1.csv",
		header,
		"2\t1\t1\tt\tt",
	)

	res, err := Aggregate(Experiment1(), Options{RawDir: raw, ResultsDir: results})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Len(t, res.Sessions, 2)
	assert.Equal(t, filepath.Join(results, "experiment_1", "all_data.csv"), res.Output)

	data, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	assert.Equal(t,
		"subject,session,trial,targ_pos,response,correct\n"+
			"2,1,1,t,t,1\n"+
			"2,2,1,l,na,NaN\n",
		string(data))
}

func TestAggregateExperiment1(t *testing.T) {
	raw := t.TempDir()
	header := "subject\tsession\ttrial\ttarg_pos\tresponse\trt"

	writeSession(t, raw, "distortionData_unflanked_bex_sub_5_session_1.csv",
		header,
		"5\t1\t10\tb\tb\t0.5",
		"5\t1\t9\tr\tl\t0.7",
	)
	writeSession(t, raw, "distortionData_flanked_rf_sub_2_session_1.csv",
		header,
		"2\t1\t1\tt\tr\t0.4",
	)
	// Session 2 is missing, so session 3 ends up unread.
	writeSession(t, raw, "distortionData_flanked_rf_sub_2_session_3.csv",
		header,
		"2\t3\t1\tt\tt\t0.4",
	)

	var logs bytes.Buffer
	lg := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	res, err := Aggregate(Experiment1(), Options{RawDir: raw, ResultsDir: t.TempDir(), NaRep: "", Logger: lg})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows)
	assert.Contains(t, logs.String(), "session read")

	data, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	assert.Equal(t,
		"subject,session,trial,targ_pos,response,rt,correct\n"+
			"2,1,1,t,r,0.4,0\n"+
			"5,1,9,r,l,0.7,0\n"+
			"5,1,10,b,b,0.5,1\n",
		string(data))
}

func TestAggregateExperiment2(t *testing.T) {
	raw := t.TempDir()
	header := "subject\tsession\ttrial\ttarg_pos\tresponse"

	writeSession(t, raw, "2exp3c_distflanker_distortionData_flanked_bex_sub_7_session_1.csv",
		header,
		"7\t1\t1\tl\tl",
	)
	writeSession(t, raw, "0distflanker_distortionData_flanked_rf_sub_2_session_1.csv",
		header,
		"2\t1\t1\tt\tna",
	)

	res, err := Aggregate(Experiment2(), Options{RawDir: raw, ResultsDir: t.TempDir(), NaRep: "NA"})
	require.NoError(t, err)

	data, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	assert.Equal(t,
		"subject,session,trial,targ_pos,response,experiment,correct\n"+
			"2,1,1,t,na,a,NA\n"+
			"7,1,1,l,l,c,1\n",
		string(data))
	assert.Equal(t, "experiment_2", filepath.Base(filepath.Dir(res.Output)))
}

func TestAggregateNoData(t *testing.T) {
	_, err := Aggregate(Experiment1(), Options{RawDir: t.TempDir(), ResultsDir: t.TempDir()})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestAggregateMissingColumn(t *testing.T) {
	raw := t.TempDir()
	writeSession(t, raw, "distortionData_flanked_bex_sub_8_session_1.csv",
		"subject\tsession\ttrial\tresponse",
		"8\t1\t1\tt",
	)
	_, err := Aggregate(Experiment1(), Options{RawDir: raw, ResultsDir: t.TempDir()})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestExperimentFileNames(t *testing.T) {
	e1 := Experiment1()
	assert.Equal(t, "distortionData_flanked_rf_sub_2_session_1.csv",
		e1.FileName(Series{Subject: "2", Condition: "flanked", Distortion: "rf"}, 1))
	assert.Len(t, e1.Series(), 5*2*2)

	e2 := Experiment2()
	assert.Equal(t, "4distflanker_distortionData_flanked_bex_sub_5_session_3.csv",
		e2.FileName(Series{SubExperiment: "a", Subject: "5", Condition: "4", Distortion: "bex"}, 3))
	assert.Equal(t, "0exp3b_distflanker_distortionData_flanked_rf_sub_7_session_2.csv",
		e2.FileName(Series{SubExperiment: "b", Subject: "7", Condition: "0", Distortion: "rf"}, 2))
	assert.Len(t, e2.Series(), 3*3*3*2)
	assert.Equal(t, "a", e2.Series()[0].SubExperiment)

	_, err := ExperimentByNumber(3)
	assert.ErrorIs(t, err, ErrUnknownExperiment)
	e, err := ExperimentByNumber(2)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Number)
}

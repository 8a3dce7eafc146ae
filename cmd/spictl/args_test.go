package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/couchcryptid/storm-spi-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignments(t *testing.T) {
	values, err := parseAssignments([]string{
		"MUCAPE=1500",
		"Most Unstable Parcel CIN=-20",
		"ESRH=",
		"el_sr_wind=1e2",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"MUCAPE":                   "1500",
		"Most Unstable Parcel CIN": "-20",
		"ESRH":                     "",
		"el_sr_wind":               "1e2",
	}, values)
}

func TestParseAssignments_Rejects(t *testing.T) {
	for _, args := range [][]string{
		{"MUCAPE"},
		{"=1500"},
		{"MUCAPE=1", "MUCAPE=2"},
	} {
		_, err := parseAssignments(args)
		assert.Error(t, err, args)
	}
}

func sampleReport() report {
	return report{
		Score:  60,
		Inputs: []domain.EchoField{{Name: "MUCAPE", Label: "Most Unstable Parcel CAPE", Value: "1500"}},
		Contributions: []domain.Contribution{
			{Model: "gbt", Probability: 0.5, Percent: 50},
			{Model: "svm", Probability: 0.6, Percent: 60},
			{Model: "ann", Probability: 0.7, Percent: 70},
		},
	}
}

func TestPrintReport_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, sampleReport(), false))

	out := buf.String()
	assert.Contains(t, out, "Most Unstable Parcel CAPE  1500")
	assert.Contains(t, out, "svm")
	assert.Contains(t, out, "60.0%")
	assert.Contains(t, out, "score")
}

func TestPrintReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, sampleReport(), true))

	var got report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleReport(), got)
}

func TestFieldsCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"fields"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	for _, f := range domain.Features {
		assert.Contains(t, buf.String(), f.Name)
		assert.Contains(t, buf.String(), f.Label)
	}
}

func TestScoreCommand_MissingArtifacts(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"score", "--model-dir", t.TempDir(), "MUCAPE=1500"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	var le *domain.ModelLoadError
	require.ErrorAs(t, err, &le)
}

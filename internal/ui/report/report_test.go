package report

import (
	"encoding/json"
	"testing"

	"unusedvar/internal/core/errors"
	"unusedvar/internal/engine/unused"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() Data {
	return Data{
		ProjectName: "demo",
		ProjectRoot: "/repo",
		FileCount:   2,
		Findings: []unused.Finding{
			{Path: "/repo/main.cpp", Name: "unused", Highlight: unused.Highlight{Line: 1, StartColumn: 6, EndColumn: 12}},
		},
	}
}

func TestRenderText(t *testing.T) {
	out := RenderText(sampleData())

	assert.Equal(t, "/repo/main.cpp:2:7: unused variable 'unused'\n1 unused variable(s) in 2 file(s)\n", out)
}

func TestRender_DispatchesEveryFormat(t *testing.T) {
	for _, format := range Formats() {
		t.Run(format, func(t *testing.T) {
			out, err := Render(format, sampleData())
			require.NoError(t, err)
			assert.Contains(t, string(out), "unused")
		})
	}
}

func TestRender_SARIFIsJSON(t *testing.T) {
	out, err := Render(" SARIF ", sampleData())
	require.NoError(t, err)
	assert.True(t, json.Valid(out))
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render("html", sampleData())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

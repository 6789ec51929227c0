package cli

import (
	"testing"
	"time"

	coreapp "unusedvar/internal/core/app"
	"unusedvar/internal/engine/unused"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFindings() []unused.Finding {
	return []unused.Finding{
		{Path: "a.cpp", Name: "tmp", Highlight: unused.Highlight{Line: 0, StartColumn: 4, EndColumn: 7}},
		{Path: "b.cpp", Name: "count", Highlight: unused.Highlight{Line: 3, StartColumn: 6, EndColumn: 11}},
	}
}

func TestModel_UpdateMsgPopulatesList(t *testing.T) {
	m := initialModel()
	next, _ := m.Update(updateMsg{
		findings:     sampleFindings(),
		fileCount:    3,
		declarations: 9,
		timestamp:    time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
	})
	got := next.(model)

	require.Len(t, got.list.Items(), 2)
	first := got.list.Items()[0].(item)
	assert.Equal(t, "tmp", first.Title())
	assert.Equal(t, "a.cpp:1:5", first.Description())
	assert.Equal(t, 3, got.fileCount)
	assert.Equal(t, 9, got.declarations)

	view := got.View()
	assert.Contains(t, view, "3 files")
	assert.Contains(t, view, "9 declarations")
	assert.Contains(t, view, "2 unused")
}

func TestModel_EmptyViewReportsClean(t *testing.T) {
	m := initialModel()
	assert.Contains(t, m.View(), "No unused variables")
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := initialModel().Update(key)
		require.NotNil(t, cmd, key.String())
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok, key.String())
	}
}

func TestToUpdateMsg(t *testing.T) {
	ts := time.Now()
	msg := toUpdateMsg(coreapp.Update{Findings: sampleFindings(), FileCount: 2, Declarations: 5, Timestamp: ts})
	assert.Len(t, msg.findings, 2)
	assert.Equal(t, 2, msg.fileCount)
	assert.Equal(t, 5, msg.declarations)
	assert.Equal(t, ts, msg.timestamp)
}

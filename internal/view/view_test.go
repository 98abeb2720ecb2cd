package view

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/meetwatch/internal/meeting"
	"github.com/grovetools/meetwatch/logging"
	"github.com/grovetools/meetwatch/tui/theme"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() meeting.Snapshot {
	return meeting.Snapshot{
		Agenda: []meeting.Agendum{
			{ID: 1, Text: "Minutes", Open: true},
			{ID: 3, Text: "Flexbox issues", Open: true},
		},
		Current: 3,
		Queue:   []string{"alice", "bob"},
		Questions: []meeting.Question{
			{ID: 2, Text: "Ship it?", Author: "carol", Supporters: []string{"bob", "carol"}},
			{ID: 1, Text: "Learned from report", Supporters: []string{"dave"}},
		},
	}
}

func TestDump(t *testing.T) {
	out := Dump(sampleSnapshot(), theme.NewThemeWithName("terminal"))

	for _, want := range []string{
		"Agenda",
		" 1. Minutes",
		" 3. Flexbox issues",
		"Speaker queue",
		"alice",
		"2. bob",
		"Q2 (2) Ship it? — carol",
		"Q1 (1) Learned from report",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Learned from report —")
	assert.Less(t, strings.Index(out, "Q2"), strings.Index(out, "Q1"))
}

func TestDumpEmpty(t *testing.T) {
	out := Dump(meeting.Snapshot{}, theme.NewThemeWithName("terminal"))
	assert.Contains(t, out, "no agenda")
	assert.Contains(t, out, "queue is empty")
	assert.Contains(t, out, "no open questions")
}

func TestDumpClosedCurrent(t *testing.T) {
	snap := meeting.Snapshot{
		Agenda:  []meeting.Agendum{{ID: 2, Text: "Next", Open: true}},
		Current: 1,
	}
	out := Dump(snap, theme.NewThemeWithName("terminal"))
	assert.Contains(t, out, "current: item 1 (closed)")
}

func TestPlainRender(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlain(&buf)

	p.Render(meeting.SectionQueue, sampleSnapshot())
	first := buf.String()
	assert.Contains(t, first, "Flexbox issues")
	assert.Contains(t, first, "Ship it?")

	p.Render(meeting.SectionAll, meeting.Snapshot{})
	assert.Contains(t, strings.TrimPrefix(buf.String(), first), "queue is empty")
}

func sized(t *testing.T) Model {
	t.Helper()
	m := NewModel("#wg-css", theme.NewThemeWithName("terminal"))
	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Nil(t, cmd)
	return updated.(Model)
}

func TestModelStartsEmpty(t *testing.T) {
	assert.Equal(t, "Starting...\n", NewModel("x", nil).View())

	view := sized(t).View()
	assert.Contains(t, view, "#wg-css")
	assert.Contains(t, view, "no agenda")
	assert.Contains(t, view, "queue is empty")
}

func TestModelSnapshot(t *testing.T) {
	m := sized(t)

	updated, _ := m.Update(SnapshotMsg{Section: meeting.SectionAll, Snapshot: sampleSnapshot()})
	m = updated.(Model)

	view := m.View()
	assert.Contains(t, view, "Minutes")
	assert.Contains(t, view, "alice")
	assert.Contains(t, view, "Ship it?")
	assert.Equal(t, sampleSnapshot(), m.Snapshot())
}

func TestModelRefreshesOnlyChangedPane(t *testing.T) {
	m := sized(t)

	snap := sampleSnapshot()
	updated, _ := m.Update(SnapshotMsg{Section: meeting.SectionQueue, Snapshot: snap})
	m = updated.(Model)

	view := m.View()
	assert.Contains(t, view, "alice")
	// Agenda pane has not been told about the change yet.
	assert.NotContains(t, view, "Minutes")
	assert.Contains(t, view, "no agenda")

	updated, _ = m.Update(SnapshotMsg{Section: meeting.SectionAgenda, Snapshot: snap})
	assert.Contains(t, updated.(Model).View(), "Minutes")
}

func TestModelResizeKeepsState(t *testing.T) {
	m := sized(t)
	updated, _ := m.Update(SnapshotMsg{Section: meeting.SectionAll, Snapshot: sampleSnapshot()})
	updated, _ = updated.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = updated.(Model)

	assert.Equal(t, sampleSnapshot(), m.Snapshot())
	assert.Contains(t, m.View(), "alice")
}

func TestModelKeys(t *testing.T) {
	m := sized(t)
	assert.Equal(t, paneAgenda, m.Focus())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, paneQueue, updated.(Model).Focus())

	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, paneQuestions, updated.(Model).Focus())

	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, paneQuestions, updated.(Model).Focus())

	_, cmd := updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = updated.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelStatusBar(t *testing.T) {
	m := sized(t)

	updated, _ := m.Update(DiagnosticMsg{Diagnostic: logging.Diagnostic{
		Level:   logrus.WarnLevel,
		Message: "Supporter count differs from agent report",
	}})
	updated, _ = updated.Update(StatusMsg{Text: "disconnected"})

	view := updated.(Model).View()
	assert.Contains(t, view, "Supporter count differs")
	assert.Contains(t, view, "disconnected")
}

func TestModelSpinnerStopsOnFinalStatus(t *testing.T) {
	m := sized(t)
	require.NotNil(t, m.Init())

	tick := m.spinner.Tick()
	_, cmd := m.Update(tick)
	assert.NotNil(t, cmd, "spinner keeps ticking while sources run")

	updated, _ := m.Update(StatusMsg{Text: "source finished", Final: true})
	_, cmd = updated.Update(tick)
	assert.Nil(t, cmd)
	assert.Contains(t, updated.(Model).View(), "source finished")
}

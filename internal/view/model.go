package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/meetwatch/internal/meeting"
	"github.com/grovetools/meetwatch/logging"
	"github.com/grovetools/meetwatch/tui/theme"
	"github.com/sirupsen/logrus"
)

// SnapshotMsg carries a new meeting state and the section that changed.
type SnapshotMsg struct {
	Section  meeting.Section
	Snapshot meeting.Snapshot
}

// DiagnosticMsg shows a warning or error in the status bar.
type DiagnosticMsg struct {
	Diagnostic logging.Diagnostic
}

// StatusMsg replaces the status text, for example when a transport ends.
// A final status stops the activity spinner.
type StatusMsg struct {
	Text  string
	Final bool
}

const (
	paneAgenda = iota
	paneQueue
	paneQuestions
	paneCount
)

type pane struct {
	title    string
	section  meeting.Section
	viewport viewport.Model
	lines    []string
}

// Model is the bubbletea model showing the agenda, the speaker queue and
// the questions side by side.
type Model struct {
	title   string
	theme   *theme.Theme
	help    help.Model
	spinner spinner.Model
	stopped bool
	panes   [paneCount]pane
	focus   int
	snap    meeting.Snapshot
	status  string
	alert   *logging.Diagnostic
	width   int
	height  int
	ready   bool
}

// NewModel creates a model titled title, for example the channel name.
func NewModel(title string, t *theme.Theme) Model {
	if t == nil {
		t = theme.DefaultTheme
	}
	m := Model{
		title: title,
		theme: t,
		help:  help.New(),
		snap:  meeting.Snapshot{Agenda: []meeting.Agendum{}},
	}
	m.spinner = spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(t.Info))
	m.panes[paneAgenda] = pane{title: titleAgenda, section: meeting.SectionAgenda}
	m.panes[paneQueue] = pane{title: titleQueue, section: meeting.SectionQueue}
	m.panes[paneQuestions] = pane{title: titleQuestions, section: meeting.SectionQuestions}
	for i := range m.panes {
		m.panes[i].viewport = viewport.New(0, 0)
		m.panes[i].lines = sectionLines(m.panes[i].section, m.snap, t)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case SnapshotMsg:
		m.snap = msg.Snapshot
		for i := range m.panes {
			if msg.Section == meeting.SectionAll || msg.Section == m.panes[i].section {
				m.refresh(i)
			}
		}
		return m, nil

	case DiagnosticMsg:
		d := msg.Diagnostic
		m.alert = &d
		return m, nil

	case StatusMsg:
		m.status = msg.Text
		m.stopped = m.stopped || msg.Final
		return m, nil

	case spinner.TickMsg:
		if m.stopped {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Next):
			m.focus = (m.focus + 1) % paneCount
			return m, nil
		case key.Matches(msg, keys.Prev):
			m.focus = (m.focus + paneCount - 1) % paneCount
			return m, nil
		case key.Matches(msg, keys.Top):
			m.panes[m.focus].viewport.GotoTop()
			return m, nil
		case key.Matches(msg, keys.Bottom):
			m.panes[m.focus].viewport.GotoBottom()
			return m, nil
		}

		var cmd tea.Cmd
		m.panes[m.focus].viewport, cmd = m.panes[m.focus].viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// layout sizes the panes: agenda on the left, queue above questions on the
// right, one status line at the bottom.
func (m *Model) layout() {
	const frame = 2 // border lines
	bodyHeight := m.height - 2
	if bodyHeight < 2*frame+2 {
		bodyHeight = 2*frame + 2
	}
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth

	queueHeight := bodyHeight / 3
	sizes := [paneCount][2]int{
		paneAgenda:    {leftWidth, bodyHeight},
		paneQueue:     {rightWidth, queueHeight},
		paneQuestions: {rightWidth, bodyHeight - queueHeight},
	}

	for i := range m.panes {
		w := sizes[i][0] - frame - 2 // padding
		h := sizes[i][1] - frame - 1 // title
		m.panes[i].viewport.Width = max(w, 1)
		m.panes[i].viewport.Height = max(h, 1)
		m.refresh(i)
	}
}

// refresh re-renders one pane's content from the current snapshot.
func (m *Model) refresh(i int) {
	p := &m.panes[i]
	p.lines = sectionLines(p.section, m.snap, m.theme)
	if !m.ready {
		return
	}

	wrap := lipgloss.NewStyle().Width(max(p.viewport.Width, 1))
	wrapped := make([]string, 0, len(p.lines))
	for _, line := range p.lines {
		wrapped = append(wrapped, wrap.Render(line))
	}
	p.viewport.SetContent(strings.Join(wrapped, "\n"))
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Starting...\n"
	}

	render := func(i int) string {
		p := m.panes[i]
		style := m.theme.Pane
		if i == m.focus {
			style = m.theme.PaneFocused
		}
		body := lipgloss.JoinVertical(lipgloss.Left,
			m.theme.PaneTitle.Render(p.title),
			p.viewport.View(),
		)
		return style.Render(body)
	}

	right := lipgloss.JoinVertical(lipgloss.Left, render(paneQueue), render(paneQuestions))
	body := lipgloss.JoinHorizontal(lipgloss.Top, render(paneAgenda), right)

	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar())
}

func (m Model) statusBar() string {
	parts := []string{m.theme.Accent.Render(m.title)}
	if !m.stopped {
		parts[0] = m.spinner.View() + " " + parts[0]
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	if m.alert != nil {
		style := m.theme.Warning
		if m.alert.Level <= logrus.ErrorLevel {
			style = m.theme.Error
		}
		parts = append(parts, style.Render(fmt.Sprintf("%s %s", theme.IconWarning, m.alert.Message)))
	}
	parts = append(parts, m.help.ShortHelpView(keys.ShortHelp()))
	return m.theme.StatusBar.MaxWidth(max(m.width, 1)).Render(strings.Join(parts, "  "))
}

// Snapshot returns the state the model last received.
func (m Model) Snapshot() meeting.Snapshot {
	return m.snap
}

// Focus returns the index of the focused pane: 0 agenda, 1 queue,
// 2 questions.
func (m Model) Focus() int {
	return m.focus
}

// Package view draws the tracked meeting state: a full-screen bubbletea
// interface for terminals and a plain text dump for pipes and logs.
package view

import (
	"fmt"
	"strings"

	"github.com/grovetools/meetwatch/internal/meeting"
	"github.com/grovetools/meetwatch/tui/theme"
)

// Pane titles, also used as headings in plain output.
const (
	titleAgenda    = "Agenda"
	titleQueue     = "Speaker queue"
	titleQuestions = "Questions"
)

// agendaLines lists the open agenda items in order, marking the current one.
func agendaLines(snap meeting.Snapshot, t *theme.Theme) []string {
	if len(snap.Agenda) == 0 {
		return []string{t.Muted.Render("no agenda")}
	}

	lines := make([]string, 0, len(snap.Agenda))
	for _, item := range snap.Agenda {
		num := fmt.Sprintf("%2d.", item.ID)
		if item.ID == snap.Current {
			lines = append(lines, t.Current.Render(fmt.Sprintf("%s %s %s", theme.IconCurrent, num, item.Text)))
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s %s", t.ItemNumber.Render(num), item.Text))
	}
	return lines
}

// currentLine describes the agendum under discussion, which may already be
// closed and so missing from the agenda list.
func currentLine(snap meeting.Snapshot, t *theme.Theme) string {
	if snap.Current == 0 {
		return ""
	}
	for _, item := range snap.Agenda {
		if item.ID == snap.Current {
			return ""
		}
	}
	return t.Muted.Render(fmt.Sprintf("current: item %d (closed)", snap.Current))
}

func queueLines(snap meeting.Snapshot, t *theme.Theme) []string {
	if len(snap.Queue) == 0 {
		return []string{t.Muted.Render("queue is empty")}
	}

	lines := make([]string, 0, len(snap.Queue))
	for i, name := range snap.Queue {
		if i == 0 {
			lines = append(lines, fmt.Sprintf("%s %s", theme.IconSpeaker, t.Speaker.Render(name)))
			continue
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, name))
	}
	return lines
}

// questionLines renders "Qn (k) text — author", most supported first.
func questionLines(snap meeting.Snapshot, t *theme.Theme) []string {
	if len(snap.Questions) == 0 {
		return []string{t.Muted.Render("no open questions")}
	}

	lines := make([]string, 0, len(snap.Questions))
	for _, q := range snap.Questions {
		var b strings.Builder
		b.WriteString(t.Bold.Render(fmt.Sprintf("Q%d", q.ID)))
		b.WriteString(" ")
		b.WriteString(t.Supporters.Render(fmt.Sprintf("(%d)", len(q.Supporters))))
		b.WriteString(" ")
		b.WriteString(q.Text)
		if q.Author != "" {
			b.WriteString(" ")
			b.WriteString(t.Author.Render("— " + q.Author))
		}
		lines = append(lines, b.String())
	}
	return lines
}

func sectionLines(section meeting.Section, snap meeting.Snapshot, t *theme.Theme) []string {
	switch section {
	case meeting.SectionAgenda:
		lines := agendaLines(snap, t)
		if cur := currentLine(snap, t); cur != "" {
			lines = append(lines, cur)
		}
		return lines
	case meeting.SectionQueue:
		return queueLines(snap, t)
	case meeting.SectionQuestions:
		return questionLines(snap, t)
	}
	return nil
}

package view

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/grovetools/meetwatch/internal/meeting"
	"github.com/grovetools/meetwatch/tui/theme"
)

// Plain writes the whole meeting state to a writer on every change.
type Plain struct {
	mu    sync.Mutex
	w     io.Writer
	theme *theme.Theme
}

// NewPlain returns a plain renderer using the default theme.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w, theme: theme.DefaultTheme}
}

// Render implements tracker.Renderer.
func (p *Plain) Render(_ meeting.Section, snap meeting.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, Dump(snap, p.theme))
}

// Dump formats every section of snap as text.
func Dump(snap meeting.Snapshot, t *theme.Theme) string {
	var b strings.Builder
	sections := []struct {
		title   string
		section meeting.Section
	}{
		{titleAgenda, meeting.SectionAgenda},
		{titleQueue, meeting.SectionQueue},
		{titleQuestions, meeting.SectionQuestions},
	}

	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(t.PaneTitle.Render(s.title))
		b.WriteString("\n")
		for _, line := range sectionLines(s.section, snap, t) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString(t.Muted.Render(strings.Repeat("─", 40)))
	b.WriteString("\n")
	return b.String()
}

package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/meetwatch/internal/meeting"
	"github.com/grovetools/meetwatch/logging"
)

// Program runs a Model and feeds it from the engine. It implements
// tracker.Renderer.
type Program struct {
	p *tea.Program
}

// NewProgram wraps model in a full-screen tea.Program.
func NewProgram(model Model, opts ...tea.ProgramOption) *Program {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	return &Program{p: tea.NewProgram(model, opts...)}
}

// Render sends the snapshot to the interface. It waits until the program
// is running and returns immediately once it has exited.
func (p *Program) Render(section meeting.Section, snap meeting.Snapshot) {
	p.p.Send(SnapshotMsg{Section: section, Snapshot: snap})
}

// Diagnose shows d in the status bar. It matches the callback of
// logging.NewDiagnosticsHook.
func (p *Program) Diagnose(d logging.Diagnostic) {
	p.p.Send(DiagnosticMsg{Diagnostic: d})
}

// Status replaces the status text.
func (p *Program) Status(text string) {
	p.p.Send(StatusMsg{Text: text})
}

// Finish shows a final status once the sources have ended.
func (p *Program) Finish(text string) {
	p.p.Send(StatusMsg{Text: text, Final: true})
}

// Run blocks until the user quits.
func (p *Program) Run() error {
	_, err := p.p.Run()
	return err
}

// Quit asks the program to exit.
func (p *Program) Quit() {
	p.p.Quit()
}

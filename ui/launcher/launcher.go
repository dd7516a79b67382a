package launcher

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/scriptkit/promptengine"
)

// Launcher adapts a running bubbletea.Program to promptengine.Renderer.
type Launcher struct {
	program *tea.Program
}

// New builds the bubbletea program against cb and returns a Launcher ready
// to be handed to promptengine.NewEngine. The program does not start until
// the caller invokes the returned Launcher's Run, which blocks.
func New(cb Callbacks) *Launcher {
	m := NewModel(cb)
	p := tea.NewProgram(m, tea.WithAltScreen())
	return &Launcher{program: p}
}

// Run blocks until the program exits (window closed or quit key).
func (l *Launcher) Run() error {
	_, err := l.program.Run()
	return err
}

// Render implements promptengine.Renderer.
func (l *Launcher) Render(s *promptengine.Session) {
	snapshot := *s
	l.program.Send(sessionMsg{session: &snapshot})
}

// Closed implements promptengine.Renderer.
func (l *Launcher) Closed(id string) {
	l.program.Send(closedMsg{id: id})
}

// Quit stops the program.
func (l *Launcher) Quit() { l.program.Quit() }

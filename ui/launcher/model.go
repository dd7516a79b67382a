// Package launcher implements promptengine.Renderer atop bubbletea: a
// single scrollable-list-plus-textinput view that covers every prompt
// Kind, generalized from the teacher's ui/tui Model (same Init/Update/View
// shape, same global-key handling for Ctrl-C/Esc) to Script Kit's prompt
// model instead of a MUD console's scrollback-plus-bars layout.
package launcher

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/scriptkit/promptengine"
)

// Callbacks is how the model talks back to the prompt engine; kept as an
// interface (not *promptengine.Engine directly) so tests can supply fakes.
// Mirrors promptengine.Engine's SetFilter/Submit/Escape/TriggerAction
// signatures exactly (none of them return an error — failures are logged
// by the engine itself).
type Callbacks interface {
	SetFilter(id, filter string)
	Submit(id string, value interface{})
	Escape(id string)
	TriggerAction(id, actionName, currentInput string)
	TerminalInput(id, data string)
	TerminalResize(id string, rows, cols int)
}

// sessionMsg carries a fresh Session snapshot into the bubbletea loop.
type sessionMsg struct {
	session *promptengine.Session
}

// closedMsg signals the active session id has resolved.
type closedMsg struct{ id string }

// Model is the bubbletea.Model driving the launcher window.
type Model struct {
	cb     Callbacks
	styles styles
	list   *choiceList
	input  textinput.Model

	session *promptengine.Session
	quit    bool
	width   int
	height  int
}

// NewModel builds a Model; cb receives user actions, program delivers
// Session pushes via Send(sessionMsg{...}).
func NewModel(cb Callbacks) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 80

	return Model{
		cb:     cb,
		styles: defaultStyles(),
		list:   newChoiceList(defaultStyles()),
		input:  ti,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - 4
		if m.session != nil && m.session.Kind == promptengine.KindTerminal {
			m.cb.TerminalResize(m.session.ID, msg.Height, msg.Width)
		}
		return m, nil

	case sessionMsg:
		m.session = msg.session
		if m.session != nil {
			m.input.SetValue(m.session.Input)
			m.input.CursorEnd()
		}
		return m, nil

	case closedMsg:
		if m.session != nil && m.session.ID == msg.id {
			m.session = nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session == nil {
		if msg.Type == tea.KeyCtrlC {
			m.quit = true
			return m, tea.Quit
		}
		return m, nil
	}

	if msg.Type == tea.KeyCtrlC {
		m.quit = true
		return m, tea.Quit
	}

	if m.session.Kind == promptengine.KindTerminal {
		if msg.Type == tea.KeyEsc {
			m.cb.Escape(m.session.ID)
			return m, nil
		}
		m.cb.TerminalInput(m.session.ID, terminalKeyBytes(msg))
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.cb.Escape(m.session.ID)
		return m, nil

	case tea.KeyEnter:
		value := m.currentValue()
		m.cb.Submit(m.session.ID, value)
		return m, nil

	case tea.KeyUp:
		if isChoiceKind(m.session.Kind) && m.session.Selected > 0 {
			m.session.Selected--
		}
		return m, nil

	case tea.KeyDown:
		if isChoiceKind(m.session.Kind) && m.session.Selected < len(m.session.Filtered)-1 {
			m.session.Selected++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if isChoiceKind(m.session.Kind) {
		m.cb.SetFilter(m.session.ID, m.input.Value())
	}
	return m, cmd
}

// terminalKeyBytes maps a bubbletea key event onto the byte sequence a PTY
// expects on stdin, for the KindTerminal forwarding path above.
func terminalKeyBytes(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyEnter:
		return "\r"
	case tea.KeyBackspace:
		return "\x7f"
	case tea.KeyTab:
		return "\t"
	case tea.KeySpace:
		return " "
	case tea.KeyRunes:
		return string(msg.Runes)
	default:
		return msg.String()
	}
}

func isChoiceKind(k promptengine.Kind) bool {
	return k == promptengine.KindPicker
}

func (m Model) currentValue() string {
	if isChoiceKind(m.session.Kind) && len(m.session.Filtered) > 0 {
		sel := m.session.Selected
		if sel < 0 || sel >= len(m.session.Filtered) {
			sel = 0
		}
		return m.session.Filtered[sel].Value
	}
	return m.input.Value()
}

func (m Model) View() string {
	if m.session == nil {
		return m.styles.Muted.Render("Waiting for a prompt…") + "\n"
	}

	var sb strings.Builder
	if m.session.Placeholder != "" {
		sb.WriteString(m.styles.Prompt.Render(m.session.Placeholder))
		sb.WriteString("\n")
	}

	switch m.session.Kind {
	case promptengine.KindPicker:
		sb.WriteString(m.input.View())
		sb.WriteString("\n")
		sb.WriteString(m.list.View(m.session.Filtered, m.session.Selected))
	case promptengine.KindDiv:
		sb.WriteString(stripTags(m.session.HTML))
	case promptengine.KindTerminal:
		sb.WriteString(m.session.Input)
	default:
		sb.WriteString(m.input.View())
	}

	if m.session.Hint != "" {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Hint.Render(m.session.Hint))
	}
	return sb.String()
}

// stripTags gives a readable plaintext fallback for HTML surfaces; the
// launcher is a text UI and does not render markup, matching the
// teacher's own plain-text scrollback rendering philosophy.
func stripTags(html string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}

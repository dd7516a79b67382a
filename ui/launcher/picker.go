package launcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/scriptkit/protocol"
)

// ErrPickerCancelled is returned by PickScript when the user exits the
// picker (Esc/Ctrl-C) without choosing a script.
var ErrPickerCancelled = errors.New("launcher: picker cancelled")

// ListScripts returns the .go files directly under dir, sorted by name —
// the set the no-args launcher mode presents (spec.md §6: "it may also be
// launched with no arguments to present the launcher").
func ListScripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("launcher: read scripts dir: %w", err)
	}
	var scripts []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".go" {
			continue
		}
		scripts = append(scripts, filepath.Join(dir, e.Name()))
	}
	sort.Strings(scripts)
	return scripts, nil
}

// pickerModel is a standalone bubbletea.Model for the no-args script
// picker. It reuses choiceList/styles but, unlike Model, talks to no
// Callbacks: there is no guest process yet, so selection just ends the
// program with a result the caller reads back.
type pickerModel struct {
	choices   []protocol.Choice
	list      *choiceList
	styles    styles
	selected  int
	chosen    string
	cancelled bool
}

func newPickerModel(paths []string) pickerModel {
	choices := make([]protocol.Choice, len(paths))
	for i, p := range paths {
		choices[i] = protocol.Choice{Name: filepath.Base(p), Value: p}
	}
	return pickerModel{choices: choices, list: newChoiceList(defaultStyles()), styles: defaultStyles()}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyEnter:
		if len(m.choices) > 0 {
			m.chosen = m.choices[m.selected].Value
		}
		return m, tea.Quit
	case tea.KeyUp:
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case tea.KeyDown:
		if m.selected < len(m.choices)-1 {
			m.selected++
		}
		return m, nil
	}
	return m, nil
}

func (m pickerModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Prompt.Render("Select a script to run"))
	sb.WriteString("\n")
	sb.WriteString(m.list.View(m.choices, m.selected))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Hint.Render("enter to run · esc to quit"))
	return sb.String()
}

// PickScript runs a standalone picker over the .go files in dir and
// returns the chosen path, or ErrPickerCancelled if the user exits
// without selecting one.
func PickScript(dir string) (string, error) {
	paths, err := ListScripts(dir)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("launcher: no scripts found in %s", dir)
	}

	m := newPickerModel(paths)
	p := tea.NewProgram(m, tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return "", err
	}
	final := result.(pickerModel)
	if final.cancelled || final.chosen == "" {
		return "", ErrPickerCancelled
	}
	return final.chosen, nil
}

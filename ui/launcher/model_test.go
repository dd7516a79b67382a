package launcher

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/scriptkit/promptengine"
	"github.com/drake/scriptkit/protocol"
)

type fakeCallbacks struct {
	filters   []string
	submitted []string
	escaped   []string
}

func (f *fakeCallbacks) SetFilter(id, filter string) { f.filters = append(f.filters, filter) }
func (f *fakeCallbacks) Submit(id string, value interface{}) {
	f.submitted = append(f.submitted, fmt.Sprint(value))
}
func (f *fakeCallbacks) Escape(id string) {
	f.escaped = append(f.escaped, id)
}
func (f *fakeCallbacks) TriggerAction(id, name, input string)    {}
func (f *fakeCallbacks) TerminalInput(id, data string)           {}
func (f *fakeCallbacks) TerminalResize(id string, rows, cols int) {}

func pickerSession() *promptengine.Session {
	choices := []protocol.Choice{{Name: "Apple", Value: "a"}, {Name: "Banana", Value: "b"}}
	return &promptengine.Session{
		ID: "s1", Kind: promptengine.KindPicker,
		Choices: choices, Filtered: choices, Selected: 0,
	}
}

func TestModelRendersWaitingWhenNoSession(t *testing.T) {
	m := NewModel(&fakeCallbacks{})
	view := m.View()
	if view == "" {
		t.Fatalf("expected non-empty waiting view")
	}
}

func TestModelEnterSubmitsSelectedChoice(t *testing.T) {
	cb := &fakeCallbacks{}
	m := NewModel(cb)
	updated, _ := m.Update(sessionMsg{session: pickerSession()})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if len(cb.submitted) != 1 || cb.submitted[0] != "b" {
		t.Fatalf("expected submit of b, got %v", cb.submitted)
	}
}

func TestModelEscSendsEscape(t *testing.T) {
	cb := &fakeCallbacks{}
	m := NewModel(cb)
	updated, _ := m.Update(sessionMsg{session: pickerSession()})
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)

	if len(cb.escaped) != 1 || cb.escaped[0] != "s1" {
		t.Fatalf("expected escape of s1, got %v", cb.escaped)
	}
}

func TestModelTypingFiltersPicker(t *testing.T) {
	cb := &fakeCallbacks{}
	m := NewModel(cb)
	updated, _ := m.Update(sessionMsg{session: pickerSession()})
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	m = updated.(Model)

	if len(cb.filters) == 0 || cb.filters[len(cb.filters)-1] != "a" {
		t.Fatalf("expected filter update with 'a', got %v", cb.filters)
	}
}

func TestChoiceListViewHighlightsSelected(t *testing.T) {
	l := newChoiceList(defaultStyles())
	choices := []protocol.Choice{{Name: "One", Value: "1"}, {Name: "Two", Value: "2"}}
	view := l.View(choices, 1)
	if view == "" {
		t.Fatalf("expected non-empty list view")
	}
}

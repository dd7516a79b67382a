// Package promptengine implements the single-active-prompt state machine
// (C5): it turns protocol prompt-opening/side-effect messages into a live
// Session, applies filter/select/submit/action semantics, and writes
// replies back through the ipc.Dispatcher.
package promptengine

import (
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/drake/scriptkit/ipc"
	"github.com/drake/scriptkit/protocol"
	"github.com/drake/scriptkit/shims"
	"github.com/drake/scriptkit/terminal"
)

// Kind identifies the active prompt's presentation (§3 Prompt session).
type Kind int

const (
	KindPicker Kind = iota
	KindEditor
	KindForm
	KindFields
	KindPath
	KindDrop
	KindHotkey
	KindTemplate
	KindTerminal
	KindWidget
	KindChat
	KindEyeDropper
	KindDiv
)

// Renderer is the UI collaborator the engine drives. Calls come from
// whichever goroutine is driving the engine (the Run loop, UI callbacks
// such as SetFilter, or a terminal's output reader); implementations must
// not block.
type Renderer interface {
	Render(s *Session)
	Closed(id string)
}

// Session is a live prompt instance keyed by its request id (§3 Prompt
// session). Only one Session is active at a time inside an Engine.
type Session struct {
	ID       string
	Kind     Kind
	WireType string // original tag: arg/mini/micro/select/etc.

	Placeholder string
	Hint        string
	Choices     []protocol.Choice
	Filtered    []protocol.Choice
	Filter      string
	Selected    int

	Fields []protocol.Field

	HTML string

	Template        string
	TemplatePlaceholders []string

	ChatMessages []protocol.ChatMessage

	Actions map[string]protocol.Action

	Input string

	resolved bool
}

// recomputeFilter recomputes Filtered from Choices/Filter per §4.5 filter
// semantics: substring, case-insensitive, stable insertion order, hidden
// entries excluded.
func (s *Session) recomputeFilter() {
	s.Filtered = FilterChoices(s.Choices, s.Filter)
	if s.Selected >= len(s.Filtered) {
		s.Selected = 0
	}
}

// Engine owns exactly one active Session plus the widgets that run
// alongside it (widgets are explicitly exempt from the single-prompt rule,
// §4.5.2).
type Engine struct {
	mu        sync.Mutex
	active    *Session
	widgets   map[string]*Session
	terminals map[string]*terminal.Session
	store     *shims.Store
	disp      Dispatch
	renderer  Renderer
	logger    *log.Logger

	actionCallbacks chan ActionEvent
}

// Dispatch is the subset of ipc.Dispatcher the engine needs; kept as an
// interface so tests can supply a fake.
type Dispatch interface {
	Write(wireType string, msg interface{}) error
}

// ActionEvent is emitted when the UI triggers a registered action whose
// HasAction is true (§4.5 Selection and submission).
type ActionEvent struct {
	SessionID string
	Action    string
}

// NewEngine wires an Engine to its writer and renderer.
func NewEngine(disp Dispatch, renderer Renderer, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		widgets:   make(map[string]*Session),
		terminals: make(map[string]*terminal.Session),
		disp:      disp,
		renderer:  renderer,
		logger:    logger,
	}
}

// SetStore attaches the host-backed key/value store the `store` side
// effect reads and writes (§4.6.4). Optional: without it, a store `get`
// answers with an error rather than panicking.
func (e *Engine) SetStore(s *shims.Store) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store = s
}

// Run drains inbound messages from the dispatcher until the channel closes
// (child exited) or stop fires.
func (e *Engine) Run(inbound <-chan ipc.Inbound, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case in, ok := <-inbound:
			if !ok {
				return
			}
			e.Handle(in.Tag, in.Message)
		}
	}
}

// Handle routes one decoded message by its wire tag. This is the single
// entry point both Run and tests use.
func (e *Engine) Handle(tag string, msg protocol.Validator) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch tag {
	case "arg", "mini", "micro", "select":
		e.openPicker(tag, msg.(*protocol.Picker))
	case "editor":
		e.openEditor(msg.(*protocol.Editor))
	case "form":
		e.openForm(msg.(*protocol.Form))
	case "fields":
		e.openFields(msg.(*protocol.Fields))
	case "path":
		e.openPath(msg.(*protocol.Path))
	case "drop":
		e.openDrop(msg.(*protocol.Drop))
	case "hotkey":
		e.openHotkey(msg.(*protocol.Hotkey))
	case "template":
		e.openTemplate(msg.(*protocol.Template))
	case "eyeDropper":
		e.openEyeDropper(msg.(*protocol.EyeDropper))
	case "chat":
		e.openChat(msg.(*protocol.Chat))
	case "widget":
		e.openWidget(msg.(*protocol.Widget))
	case "div", "setPanel", "setPreview", "setPrompt":
		e.handleSurface(msg.(*protocol.HTMLSurface))
	case "setActions":
		e.handleSetActions(msg.(*protocol.SetActions))
	case "setInput":
		e.handleSetInput(msg.(*protocol.SetInput))
	case "chatAction":
		e.handleChatAction(msg.(*protocol.ChatAction))
	case "term":
		e.openTerm(msg.(*protocol.Term))
	case "exec":
		e.handleExec(msg.(*protocol.Exec))
	case "clipboard":
		e.handleClipboard(msg.(*protocol.Clipboard))
	case "notify":
		e.handleNotify(msg.(*protocol.Notify))
	case "beep":
		e.handleBeep(msg.(*protocol.Beep))
	case "say":
		e.handleSay(msg.(*protocol.Say))
	case "keyboard":
		e.handleKeyboard(msg.(*protocol.Keyboard))
	case "mouse":
		e.handleMouse(msg.(*protocol.Mouse))
	case "screenshot":
		e.handleScreenshot(msg.(*protocol.Screenshot))
	case "store":
		e.handleStore(msg.(*protocol.Store))
	case "menuBar":
		e.handleMenuBar(msg.(*protocol.MenuBar))
	default:
		// Forward-compatible: tags this build doesn't know are not an
		// error (§7), they're just dropped.
	}
}

// supersede closes the active session, if any, WITHOUT fabricating a reply
// (§4.5 Opening a prompt, Open Question (a)).
func (e *Engine) supersede() {
	if e.active != nil {
		e.active.resolved = true
	}
	e.active = nil
}

func (e *Engine) openPicker(wireType string, m *protocol.Picker) {
	e.supersede()
	s := &Session{
		ID: m.ID, Kind: KindPicker, WireType: wireType,
		Placeholder: m.Placeholder, Hint: m.Hint,
		Choices: m.Choices, Actions: actionMap(m.Actions),
	}
	s.recomputeFilter()
	e.active = s
	e.renderer.Render(s)
}

func (e *Engine) openEditor(m *protocol.Editor) {
	e.supersede()
	s := &Session{ID: m.ID, Kind: KindEditor, HTML: m.Content, Actions: actionMap(m.Actions)}
	e.active = s
	e.renderer.Render(s)
}

func (e *Engine) openForm(m *protocol.Form) {
	e.supersede()
	fields, _ := ParseForm(m.HTML)
	s := &Session{ID: m.ID, Kind: KindForm, HTML: m.HTML, Fields: fields, Actions: actionMap(m.Actions)}
	e.active = s
	e.renderer.Render(s)
}

func (e *Engine) openFields(m *protocol.Fields) {
	e.supersede()
	s := &Session{ID: m.ID, Kind: KindFields, Fields: m.Fields, Actions: actionMap(m.Actions)}
	e.active = s
	e.renderer.Render(s)
}

func (e *Engine) openPath(m *protocol.Path) {
	e.supersede()
	s := &Session{ID: m.ID, Kind: KindPath, Placeholder: m.Hint, Input: m.StartPath}
	e.active = s
	e.renderer.Render(s)
}

func (e *Engine) openDrop(m *protocol.Drop) {
	e.supersede()
	s := &Session{ID: m.ID, Kind: KindDrop, Placeholder: m.Placeholder}
	e.active = s
	e.renderer.Render(s)
}

func (e *Engine) openHotkey(m *protocol.Hotkey) {
	e.supersede()
	s := &Session{ID: m.ID, Kind: KindHotkey, Placeholder: m.Placeholder}
	e.active = s
	e.renderer.Render(s)
}

func (e *Engine) openTemplate(m *protocol.Template) {
	e.supersede()
	placeholders := ExtractPlaceholders(m.Template)
	s := &Session{ID: m.ID, Kind: KindTemplate, Template: m.Template, TemplatePlaceholders: placeholders}
	e.active = s
	e.renderer.Render(s)
}

func (e *Engine) openEyeDropper(m *protocol.EyeDropper) {
	e.supersede()
	s := &Session{ID: m.ID, Kind: KindEyeDropper}
	e.active = s
	e.renderer.Render(s)
}

func (e *Engine) openChat(m *protocol.Chat) {
	e.supersede()
	s := &Session{ID: m.ID, Kind: KindChat, ChatMessages: m.Messages}
	e.active = s
	e.renderer.Render(s)
}

// openWidget adds a widget alongside the active prompt; widgets are not
// subject to supersede (§4.5.2).
func (e *Engine) openWidget(m *protocol.Widget) {
	s := &Session{ID: m.ID, Kind: KindWidget, HTML: m.HTML}
	e.widgets[m.ID] = s
	e.renderer.Render(s)
}

// handleSurface: div awaits dismissal (acts like a prompt); setPanel/
// setPreview/setPrompt are fire-and-forget mutations of the active
// session's attached HTML (§4.5 Mid-prompt updates, Open Question (b)).
func (e *Engine) handleSurface(m *protocol.HTMLSurface) {
	switch m.Kind {
	case protocol.SurfaceDiv:
		e.supersede()
		s := &Session{ID: m.ID, Kind: KindDiv, HTML: m.HTML}
		e.active = s
		e.renderer.Render(s)
	default:
		target := e.targetSession(m.ID)
		if target == nil {
			return
		}
		target.HTML = m.HTML
		e.renderer.Render(target)
	}
}

// targetSession resolves the "most recent active prompt unless id is
// present" rule (Open Question (b)).
func (e *Engine) targetSession(id string) *Session {
	if id != "" {
		if e.active != nil && e.active.ID == id {
			return e.active
		}
		if w, ok := e.widgets[id]; ok {
			return w
		}
		return nil
	}
	return e.active
}

func (e *Engine) handleSetActions(m *protocol.SetActions) {
	target := e.targetSession(m.ID)
	if target == nil {
		return
	}
	target.Actions = actionMap(m.Actions)
	e.renderer.Render(target)
}

func (e *Engine) handleSetInput(m *protocol.SetInput) {
	target := e.targetSession(m.ID)
	if target == nil {
		return
	}
	target.Input = m.Input
	if target.Kind == KindPicker {
		target.Filter = m.Input
		target.recomputeFilter()
	}
	e.renderer.Render(target)
}

func (e *Engine) handleChatAction(m *protocol.ChatAction) {
	target := e.targetSession(m.ID)
	if target == nil || target.Kind != KindChat {
		return
	}
	switch m.Action {
	case protocol.ChatActionAddMessage:
		target.ChatMessages = append(target.ChatMessages, m.Message)
	case protocol.ChatActionSetInput:
		target.Input = m.Input
	}
	e.renderer.Render(target)
}

func actionMap(actions []protocol.Action) map[string]protocol.Action {
	m := make(map[string]protocol.Action, len(actions))
	for _, a := range actions {
		m[a.Name] = a
	}
	return m
}

// --- UI-driven transitions ---

// SetFilter applies a new filter string to the active picker (§4.5 Filter
// semantics). Safe to call on any active kind; no-op if not a picker.
func (e *Engine) SetFilter(id, filter string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil || e.active.ID != id || e.active.Kind != KindPicker {
		return
	}
	e.active.Filter = filter
	e.active.recomputeFilter()
	e.renderer.Render(e.active)
}

// Submit resolves the named session with value (Enter on a picker, save on
// an editor, etc.) and writes the wire reply.
func (e *Engine) Submit(id string, value interface{}) {
	e.mu.Lock()
	s := e.resolve(id)
	e.mu.Unlock()
	if s == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		e.logger.Printf("promptengine: submit marshal: %v", err)
		return
	}
	line, err := protocol.EncodeSubmit(id, raw, false)
	if err != nil {
		e.logger.Printf("promptengine: encode submit: %v", err)
		return
	}
	e.writeRaw(line)
}

// forceSubmit resolves the named session with a preset action value,
// writing a forceSubmit reply rather than a plain submit (§4.5, §4.6
// bullet 3) so the guest can distinguish a user-entered submission from
// one the host forced on the action's behalf.
func (e *Engine) forceSubmit(id string, value interface{}) {
	e.mu.Lock()
	s := e.resolve(id)
	e.mu.Unlock()
	if s == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		e.logger.Printf("promptengine: forceSubmit marshal: %v", err)
		return
	}
	line, err := protocol.EncodeForceSubmit(id, raw)
	if err != nil {
		e.logger.Printf("promptengine: encode forceSubmit: %v", err)
		return
	}
	e.writeRaw(line)
}

// Escape cancels the named session (§3, §7): the reply is an empty-value
// submit carrying the escape marker.
func (e *Engine) Escape(id string) {
	e.mu.Lock()
	s := e.resolve(id)
	e.mu.Unlock()
	if s == nil {
		return
	}
	line, err := protocol.EncodeSubmit(id, json.RawMessage(`""`), true)
	if err != nil {
		e.logger.Printf("promptengine: encode escape: %v", err)
		return
	}
	e.writeRaw(line)
}

// resolve marks the session with id resolved and removes it from whichever
// table it lives in. Caller holds e.mu.
func (e *Engine) resolve(id string) *Session {
	if e.active != nil && e.active.ID == id {
		s := e.active
		s.resolved = true
		e.active = nil
		return s
	}
	if w, ok := e.widgets[id]; ok {
		w.resolved = true
		delete(e.widgets, id)
		return w
	}
	return nil
}

// writeRaw ships a pre-encoded line without going through the
// dispatcher's Write: the engine already produced full wire bytes (with
// `type` set) via protocol.EncodeSubmit and friends, so it talks to the
// dispatcher through a dedicated WriteRaw method instead of re-encoding.
func (e *Engine) writeRaw(line []byte) {
	if wr, ok := e.disp.(RawWriter); ok {
		if err := wr.WriteRaw(line); err != nil {
			e.logger.Printf("promptengine: write: %v", err)
		}
		return
	}
	e.logger.Printf("promptengine: dispatcher does not support raw writes")
}

// RawWriter is implemented by ipc.Dispatcher's line-writing path when the
// engine already has fully-encoded bytes (submit replies bypass
// protocol.Encode's generic map-merge since they're built directly).
type RawWriter interface {
	WriteRaw(line []byte) error
}

// TriggerAction fires a named action against the active session (§4.5
// Selection and submission).
func (e *Engine) TriggerAction(id, name, currentInput string) {
	e.mu.Lock()
	target := e.targetSession(id)
	if target == nil {
		e.mu.Unlock()
		return
	}
	action, ok := target.Actions[name]
	if !ok {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	if action.HasAction {
		state, _ := json.Marshal(map[string]interface{}{
			"selectedIndex": target.Selected,
			"filter":        target.Filter,
		})
		_ = e.disp.Write("actionTriggered", &protocol.ActionTriggered{
			Action: name, Input: currentInput, State: state,
		})
	} else if action.Value != "" {
		e.forceSubmit(id, action.Value)
		return
	}

	if action.Close {
		e.mu.Lock()
		e.resolve(id)
		e.mu.Unlock()
	}
}

// FilterChoices implements §4.5 Filter semantics / testable property 3:
// case-insensitive substring match over non-hidden choices, stable
// insertion order. This REPLACES the teacher's fuzzy matcher (no longer
// part of this repository) because the specification mandates deterministic
// substring filtering, not fuzzy ranking.
func FilterChoices(choices []protocol.Choice, filter string) []protocol.Choice {
	lowered := strings.ToLower(filter)
	out := make([]protocol.Choice, 0, len(choices))
	for _, c := range choices {
		if c.Hidden {
			continue
		}
		if lowered == "" || strings.Contains(strings.ToLower(c.Name), lowered) {
			out = append(out, c)
		}
	}
	return out
}

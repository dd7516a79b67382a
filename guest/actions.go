package guest

import (
	"github.com/drake/scriptkit/protocol"
)

// ActionSpec is what user code passes to SetActions: presentation fields
// plus an optional Handler. The wire record never carries Handler — it is
// stripped and replaced with `hasAction: true` (§4.6.3).
type ActionSpec struct {
	Name     string
	Label    string
	Shortcut string
	Value    string
	Hidden   bool
	Close    bool
	Handler  ActionHandler
}

// SetActions replaces the full registered action set (§4.6.3). Handlers
// are stored in the process-local action map; the outgoing record carries
// only the presentation fields plus hasAction.
func (c *Client) SetActions(specs []ActionSpec) {
	wire := make([]protocol.Action, len(specs))
	newActions := make(map[string]ActionHandler, len(specs))
	for i, s := range specs {
		wire[i] = protocol.Action{
			Name: s.Name, Label: s.Label, Shortcut: s.Shortcut,
			Value: s.Value, Hidden: s.Hidden, Close: s.Close,
			HasAction: s.Handler != nil,
		}
		if s.Handler != nil {
			newActions[s.Name] = s.Handler
		}
	}
	c.mu.Lock()
	c.actions = newActions
	c.mu.Unlock()
	_ = c.send("setActions", &protocol.SetActions{Actions: wire})
}

// ChatAddMessage appends a message to the active chat prompt.
func (c *Client) ChatAddMessage(text string, position protocol.ChatPosition) {
	_ = c.send("chatAction", &protocol.ChatAction{
		Action:  protocol.ChatActionAddMessage,
		Message: protocol.ChatMessage{Text: text, Position: position},
	})
}

// ChatSetInput prefills the active chat prompt's input line.
func (c *Client) ChatSetInput(text string) {
	_ = c.send("chatAction", &protocol.ChatAction{Action: protocol.ChatActionSetInput, Input: text})
}

package guest

import (
	"bytes"
	"encoding/json"

	"github.com/drake/scriptkit/protocol"
)

// readLoop attaches to stdin, buffers until newline, and on each line
// either (a) resolves a pending operation keyed by id, (b) dispatches to an
// installed action handler by the `action` field, or (c) silently ignores
// (§4.6.1). Parse errors are suppressed — a malformed host record never
// crashes the guest.
func (c *Client) readLoop() {
	defer close(c.done)
	for {
		line, err := c.reader.ReadBytes('\n')
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) > 0 {
			c.handleLine(trimmed)
		}
		if err != nil {
			return
		}
	}
}

func (c *Client) handleLine(line []byte) {
	env, err := protocol.PeekEnvelope(line)
	if err != nil {
		return // suppressed per §4.6.1
	}

	if env.Type == "actionTriggered" {
		var at protocol.ActionTriggered
		if json.Unmarshal(env.Raw, &at) != nil {
			return
		}
		c.mu.Lock()
		handler, ok := c.actions[at.Action]
		c.mu.Unlock()
		if ok && handler != nil {
			handler(at.Input, at.State)
		}
		return
	}

	if env.ID == "" {
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[env.ID]
	if ok {
		delete(c.pending, env.ID)
	}
	c.mu.Unlock()
	if ok {
		ch <- resultPayload(env)
	}
}

// topLevelResultTypes are the reply wire types whose fields answer a
// request directly at the top level (execResult, screenshotResult, etc.)
// rather than nested under a "value" key. Everything else — submit,
// forceSubmit, escape, storeReadResult, eyeDropperResult — wraps its
// payload under "value" and is handled by the default branch below.
var topLevelResultTypes = map[string]bool{
	"execResult":          true,
	"screenshotResult":    true,
	"clipboardReadResult": true,
	"menuBarResult":       true,
}

// resultPayload extracts the bytes an operation's future should resolve
// to, depending on whether its wire type nests its payload under "value"
// or carries it as top-level fields (§6 wire table).
func resultPayload(env protocol.Envelope) json.RawMessage {
	if topLevelResultTypes[env.Type] {
		return env.Raw
	}
	var payload struct {
		Value json.RawMessage `json:"value"`
	}
	_ = json.Unmarshal(env.Raw, &payload)
	return payload.Value
}

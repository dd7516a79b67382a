package promptengine

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/drake/scriptkit/protocol"
	"github.com/drake/scriptkit/terminal"
)

// openTerm starts a PTY-backed terminal session (C8) and makes it the
// active prompt (§4.8). Output is forwarded to the guest as it arrives and
// the prompt resolves with the accumulated visible output once the child
// exits.
func (e *Engine) openTerm(m *protocol.Term) {
	command := []string{termShell(m.Options.Shell)}
	if m.Command != "" {
		command = []string{command[0], "-c", m.Command}
	}

	id := m.ID
	sess, err := terminal.Start(id, terminal.Options{
		Command:  command,
		Dir:      m.Options.Cwd,
		Rows:     m.Options.Rows,
		Cols:     m.Options.Cols,
		OnOutput: func(data []byte) { e.handleTermOutput(id, data) },
		OnExit:   func(error) { e.handleTermExit(id) },
	})
	if err != nil {
		e.logger.Printf("promptengine: start terminal: %v", err)
		line, encErr := protocol.EncodeSubmit(id, json.RawMessage(`""`), true)
		if encErr == nil {
			e.writeRaw(line)
		}
		return
	}

	e.supersede()
	s := &Session{ID: id, Kind: KindTerminal, WireType: "term"}
	e.active = s
	e.terminals[id] = sess
	e.renderer.Render(s)
}

// termShell picks the shell a bare (no Command) terminal prompt runs,
// preferring the caller's request, then the host's own login shell.
func termShell(shell string) string {
	if shell != "" {
		return shell
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// handleTermOutput runs on the terminal package's own reader goroutine, so
// it takes e.mu itself rather than assuming a caller holds it.
func (e *Engine) handleTermOutput(id string, data []byte) {
	e.mu.Lock()
	sess, ok := e.terminals[id]
	var target *Session
	if ok {
		target = e.targetSession(id)
		if target != nil {
			target.Input = strings.Join(sess.Snapshot(), "\n")
		}
	}
	e.mu.Unlock()
	if !ok {
		return
	}
	if target != nil {
		e.renderer.Render(target)
	}
	if err := e.disp.Write("input", &protocol.InputEvent{ID: id, Value: string(data)}); err != nil {
		e.logger.Printf("promptengine: forward terminal output: %v", err)
	}
}

// handleTermExit resolves the terminal prompt with its final visible
// screen once the PTY child exits (§4.8: "the reply is the accumulated
// visible output").
func (e *Engine) handleTermExit(id string) {
	e.mu.Lock()
	sess, ok := e.terminals[id]
	if ok {
		delete(e.terminals, id)
	}
	e.mu.Unlock()
	if !ok {
		return
	}
	e.Submit(id, strings.Join(sess.Snapshot(), "\n"))
}

// TerminalInput forwards a keystroke chunk from the UI into the PTY child.
func (e *Engine) TerminalInput(id, data string) {
	e.mu.Lock()
	sess, ok := e.terminals[id]
	e.mu.Unlock()
	if !ok {
		return
	}
	if _, err := sess.Write([]byte(data)); err != nil {
		e.logger.Printf("promptengine: terminal write: %v", err)
	}
}

// TerminalResize applies a new PTY size and tells the guest the terminal
// was resized (§4.8 scenario S6).
func (e *Engine) TerminalResize(id string, rows, cols int) {
	e.mu.Lock()
	sess, ok := e.terminals[id]
	e.mu.Unlock()
	if !ok {
		return
	}
	if err := sess.Resize(rows, cols); err != nil {
		e.logger.Printf("promptengine: resize terminal: %v", err)
		return
	}
	if err := e.disp.Write("resized", &protocol.Resized{ID: id, Width: cols, Height: rows}); err != nil {
		e.logger.Printf("promptengine: notify terminal resize: %v", err)
	}
}

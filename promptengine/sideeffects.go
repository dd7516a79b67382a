package promptengine

import (
	"context"

	"github.com/drake/scriptkit/protocol"
	"github.com/drake/scriptkit/shims"
)

// handleExec runs the requested command on a separate goroutine — shims.Exec
// can block for up to its own timeout, and holding the engine's single
// mutex that long would stall every other prompt in flight (§4.9).
func (e *Engine) handleExec(m *protocol.Exec) {
	go func() {
		r := shims.Exec(context.Background(), m.Command, m.Options.Cwd, m.Options.Env)
		reply := &protocol.ExecResult{ID: m.ID, Stdout: r.Stdout, Stderr: r.Stderr, ExitCode: r.ExitCode}
		line, err := protocol.EncodeExecResult(reply)
		if err != nil {
			e.logger.Printf("promptengine: encode execResult: %v", err)
			return
		}
		e.writeRaw(line)
	}()
}

func (e *Engine) handleClipboard(m *protocol.Clipboard) {
	switch m.Action {
	case protocol.ClipboardRead, protocol.ClipboardReadImage:
		reply := &protocol.ClipboardReadResult{ID: m.ID}
		switch {
		case m.Action == protocol.ClipboardReadImage:
			// No image clipboard shim exists (§1 Non-goals); answer denied
			// rather than silently returning text.
			reply.Error = shims.ErrPermissionDenied.Error()
		default:
			text, err := shims.ClipboardReadText()
			if err != nil {
				reply.Error = err.Error()
			}
			reply.Content = text
		}
		line, err := protocol.EncodeClipboardReadResult(reply)
		if err != nil {
			e.logger.Printf("promptengine: encode clipboardReadResult: %v", err)
			return
		}
		e.writeRaw(line)
	case protocol.ClipboardWrite:
		if err := shims.ClipboardWriteText(m.Content); err != nil {
			e.logger.Printf("promptengine: clipboard write: %v", err)
		}
	case protocol.ClipboardWriteImage:
		e.logger.Printf("promptengine: clipboard writeImage: %v", shims.ErrPermissionDenied)
	}
}

func (e *Engine) handleNotify(m *protocol.Notify) {
	if err := shims.Notify(m.Title, m.Body); err != nil {
		e.logger.Printf("promptengine: notify: %v", err)
	}
}

func (e *Engine) handleBeep(_ *protocol.Beep) {
	if err := shims.Beep(); err != nil {
		e.logger.Printf("promptengine: beep: %v", err)
	}
}

func (e *Engine) handleSay(m *protocol.Say) {
	if err := shims.Say(m.Text, m.Voice); err != nil {
		e.logger.Printf("promptengine: say: %v", err)
	}
}

func (e *Engine) handleKeyboard(m *protocol.Keyboard) {
	if err := shims.NewInputSynthesizer().Keyboard(m.Action, m.Data); err != nil {
		e.logger.Printf("promptengine: keyboard: %v", err)
	}
}

func (e *Engine) handleMouse(m *protocol.Mouse) {
	if err := shims.NewInputSynthesizer().Mouse(m.Action, m.Data); err != nil {
		e.logger.Printf("promptengine: mouse: %v", err)
	}
}

func (e *Engine) handleScreenshot(m *protocol.Screenshot) {
	data, w, h, err := shims.NewScreenCapture().Capture()
	reply := &protocol.ScreenshotResult{ID: m.ID, Width: w, Height: h, Data: string(data)}
	if err != nil {
		reply.Error = err.Error()
	}
	line, err := protocol.EncodeScreenshotResult(reply)
	if err != nil {
		e.logger.Printf("promptengine: encode screenshotResult: %v", err)
		return
	}
	e.writeRaw(line)
}

func (e *Engine) handleStore(m *protocol.Store) {
	if e.store == nil {
		if m.Action == protocol.StoreGet {
			reply := &protocol.StoreReadResult{ID: m.ID, Error: "promptengine: store not configured"}
			line, err := protocol.EncodeStoreReadResult(reply)
			if err == nil {
				e.writeRaw(line)
			}
		}
		return
	}

	switch m.Action {
	case protocol.StoreGet:
		value, err := e.store.Get(m.Key)
		reply := &protocol.StoreReadResult{ID: m.ID, Value: value}
		if err != nil {
			reply.Error = err.Error()
		}
		line, err := protocol.EncodeStoreReadResult(reply)
		if err != nil {
			e.logger.Printf("promptengine: encode storeReadResult: %v", err)
			return
		}
		e.writeRaw(line)
	case protocol.StoreSet:
		if err := e.store.Set(m.Key, m.Value); err != nil {
			e.logger.Printf("promptengine: store set: %v", err)
		}
	case protocol.StoreDel:
		if err := e.store.Delete(m.Key); err != nil {
			e.logger.Printf("promptengine: store delete: %v", err)
		}
	case protocol.StoreClear:
		if err := e.store.Clear(); err != nil {
			e.logger.Printf("promptengine: store clear: %v", err)
		}
	}
}

func (e *Engine) handleMenuBar(m *protocol.MenuBar) {
	switch m.Action {
	case protocol.MenuBarGet:
		items, err := shims.NewMenuBar().Get(m.BundleID)
		reply := &protocol.MenuBarResult{ID: m.ID, Items: convertMenuItems(items)}
		if err != nil {
			reply.Error = err.Error()
		}
		line, err := protocol.EncodeMenuBarResult(reply)
		if err != nil {
			e.logger.Printf("promptengine: encode menuBarResult: %v", err)
			return
		}
		e.writeRaw(line)
	case protocol.MenuBarExecute:
		if err := shims.NewMenuBar().Execute(m.BundleID, m.MenuPath); err != nil {
			e.logger.Printf("promptengine: menuBar execute: %v", err)
		}
	}
}

// convertMenuItems maps shims.MenuItem (dependency-free of the wire layer)
// onto protocol.MenuItem. The stub MenuBar never returns items, so Enabled
// has no source to read from; default it true rather than invent a false
// signal.
func convertMenuItems(items []shims.MenuItem) []protocol.MenuItem {
	if items == nil {
		return nil
	}
	out := make([]protocol.MenuItem, len(items))
	for i, it := range items {
		out[i] = protocol.MenuItem{
			Label:    it.Title,
			Path:     it.Path,
			Enabled:  true,
			Children: convertMenuItems(it.Children),
		}
	}
	return out
}

package guest

import (
	"encoding/json"

	"github.com/drake/scriptkit/protocol"
)

// Div renders an HTML surface and awaits dismissal.
func (c *Client) Div(html string, tailwind bool) {
	id := c.genID()
	_, _ = c.request(id, "div", &protocol.HTMLSurface{ID: id, HTML: html, Tailwind: tailwind})
}

// SetPanel mutates the active prompt's side panel HTML (fire-and-forget).
func (c *Client) SetPanel(html string) {
	_ = c.send("setPanel", &protocol.HTMLSurface{HTML: html})
}

// SetPreview mutates the active prompt's preview HTML (fire-and-forget).
func (c *Client) SetPreview(html string) {
	_ = c.send("setPreview", &protocol.HTMLSurface{HTML: html})
}

// SetPrompt mutates the active prompt's own HTML (fire-and-forget).
func (c *Client) SetPrompt(html string) {
	_ = c.send("setPrompt", &protocol.HTMLSurface{HTML: html})
}

// SetInput prefills the active prompt's input line.
func (c *Client) SetInput(text string) {
	_ = c.send("setInput", &protocol.SetInput{Input: text})
}

// ExecResult is the Go-side mirror of protocol.ExecResult.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Exec runs a shell command on the host and returns its result.
func (c *Client) Exec(command string, opts protocol.ExecOptions) ExecResult {
	id := c.genID()
	raw, _ := c.request(id, "exec", &protocol.Exec{ID: id, Command: command, Options: opts})
	var r struct {
		Stdout   string `json:"stdout"`
		Stderr   string `json:"stderr"`
		ExitCode int    `json:"exitCode"`
	}
	_ = json.Unmarshal(raw, &r)
	return ExecResult{Stdout: r.Stdout, Stderr: r.Stderr, ExitCode: r.ExitCode}
}

// ClipboardReadText reads the clipboard as text.
func (c *Client) ClipboardReadText() string {
	id := c.genID()
	raw, _ := c.request(id, "clipboard", &protocol.Clipboard{ID: id, Action: protocol.ClipboardRead})
	var r struct {
		Content string `json:"content"`
	}
	_ = json.Unmarshal(raw, &r)
	return r.Content
}

// ClipboardWriteText writes text to the clipboard (fire-and-forget).
func (c *Client) ClipboardWriteText(text string) {
	_ = c.send("clipboard", &protocol.Clipboard{Action: protocol.ClipboardWrite, Content: text})
}

// Notify requests a desktop notification.
func (c *Client) Notify(title, body string) {
	_ = c.send("notify", &protocol.Notify{Title: title, Body: body})
}

// Beep requests an audible alert.
func (c *Client) Beep() {
	_ = c.send("beep", &protocol.Beep{})
}

// Say requests text-to-speech.
func (c *Client) Say(text, voice string) {
	_ = c.send("say", &protocol.Say{Text: text, Voice: voice})
}

// Keyboard synthesizes keyboard input.
func (c *Client) Keyboard(action string, data map[string]interface{}) {
	_ = c.send("keyboard", &protocol.Keyboard{Action: action, Data: data})
}

// Mouse synthesizes mouse input.
func (c *Client) Mouse(action string, data map[string]interface{}) {
	_ = c.send("mouse", &protocol.Mouse{Action: action, Data: data})
}

// ScreenshotResult is the Go-side mirror of protocol.ScreenshotResult.
type ScreenshotResult struct {
	Width, Height int
	Data          string
}

// Screenshot captures the screen.
func (c *Client) Screenshot() ScreenshotResult {
	id := c.genID()
	raw, _ := c.request(id, "screenshot", &protocol.Screenshot{ID: id})
	var r ScreenshotResult
	_ = json.Unmarshal(raw, &r)
	return r
}

// StoreGet reads a key from the host-backed kv store (not to be confused
// with the guest's own tiny process-local KVGet/KVSet helpers in io.go).
func (c *Client) StoreGet(key string) json.RawMessage {
	id := c.genID()
	raw, _ := c.request(id, "store", &protocol.Store{ID: id, Action: protocol.StoreGet, Key: key})
	return raw
}

// StoreSet writes a key to the host-backed kv store (fire-and-forget).
func (c *Client) StoreSet(key string, value interface{}) {
	v, _ := json.Marshal(value)
	_ = c.send("store", &protocol.Store{Action: protocol.StoreSet, Key: key, Value: v})
}

// StoreDelete removes a key from the host-backed kv store.
func (c *Client) StoreDelete(key string) {
	_ = c.send("store", &protocol.Store{Action: protocol.StoreDel, Key: key})
}

// MenuBarGet introspects an application's menu bar.
func (c *Client) MenuBarGet(bundleID string) []protocol.MenuItem {
	id := c.genID()
	raw, _ := c.request(id, "menuBar", &protocol.MenuBar{ID: id, Action: protocol.MenuBarGet, BundleID: bundleID})
	var r struct {
		Items []protocol.MenuItem `json:"items"`
	}
	_ = json.Unmarshal(raw, &r)
	return r.Items
}

// MenuBarExecute triggers a menu bar item by path.
func (c *Client) MenuBarExecute(bundleID string, path []string) {
	_ = c.send("menuBar", &protocol.MenuBar{Action: protocol.MenuBarExecute, BundleID: bundleID, MenuPath: path})
}

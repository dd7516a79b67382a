package guest

import (
	"encoding/json"

	"github.com/drake/scriptkit/protocol"
)

func decodeString(raw json.RawMessage) string {
	var s string
	_ = json.Unmarshal(raw, &s)
	return s
}

// Arg opens a picker prompt and returns the selected value (or "" on
// escape). Choices is the display list; actions attaches shortcuts.
func (c *Client) Arg(placeholder string, choices []protocol.Choice, actions []protocol.Action) string {
	id := c.genID()
	raw, _ := c.request(id, "arg", &protocol.Picker{ID: id, Placeholder: placeholder, Choices: choices, Actions: actions})
	return decodeString(raw)
}

// Mini is a compact picker variant; same wire shape as Arg under a
// different presentation tag.
func (c *Client) Mini(placeholder string, choices []protocol.Choice) string {
	id := c.genID()
	raw, _ := c.request(id, "mini", &protocol.Picker{ID: id, Placeholder: placeholder, Choices: choices})
	return decodeString(raw)
}

// Micro is the smallest picker variant.
func (c *Client) Micro(placeholder string, choices []protocol.Choice) string {
	id := c.genID()
	raw, _ := c.request(id, "micro", &protocol.Picker{ID: id, Placeholder: placeholder, Choices: choices})
	return decodeString(raw)
}

// Select is a picker variant intended for multi-line selection contexts.
func (c *Client) Select(placeholder string, choices []protocol.Choice) string {
	id := c.genID()
	raw, _ := c.request(id, "select", &protocol.Picker{ID: id, Placeholder: placeholder, Choices: choices})
	return decodeString(raw)
}

// Editor opens a text editor prompt pre-filled with content and returns the
// saved text.
func (c *Client) Editor(content, language string) string {
	id := c.genID()
	raw, _ := c.request(id, "editor", &protocol.Editor{ID: id, Content: content, Language: language})
	return decodeString(raw)
}

// Form opens an HTML form prompt and returns field name -> value.
func (c *Client) Form(html string, actions []protocol.Action) map[string]string {
	id := c.genID()
	raw, _ := c.request(id, "form", &protocol.Form{ID: id, HTML: html, Actions: actions})
	var m map[string]string
	_ = json.Unmarshal(raw, &m)
	return m
}

// Fields opens a typed-fields prompt and returns values in field order.
func (c *Client) Fields(fields []protocol.Field) []string {
	id := c.genID()
	raw, _ := c.request(id, "fields", &protocol.Fields{ID: id, Fields: fields})
	var out []string
	_ = json.Unmarshal(raw, &out)
	return out
}

// Path opens a path picker and returns the chosen path.
func (c *Client) Path(startPath, hint string) string {
	id := c.genID()
	raw, _ := c.request(id, "path", &protocol.Path{ID: id, StartPath: startPath, Hint: hint})
	return decodeString(raw)
}

// DroppedFile is one entry of a Drop prompt's result.
type DroppedFile struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Drop opens a drop-zone prompt and returns the dropped files.
func (c *Client) Drop(placeholder string) []DroppedFile {
	id := c.genID()
	raw, _ := c.request(id, "drop", &protocol.Drop{ID: id, Placeholder: placeholder})
	var out []DroppedFile
	_ = json.Unmarshal(raw, &out)
	return out
}

// Chord is the captured key combination from a Hotkey prompt.
type Chord struct {
	Key       string `json:"key"`
	Modifiers string `json:"modifiers"`
	Shortcut  string `json:"shortcut"`
	KeyCode   int    `json:"keyCode"`
}

// Hotkey opens a chord-capture prompt.
func (c *Client) Hotkey(placeholder string) Chord {
	id := c.genID()
	raw, _ := c.request(id, "hotkey", &protocol.Hotkey{ID: id, Placeholder: placeholder})
	var ch Chord
	_ = json.Unmarshal(raw, &ch)
	return ch
}

// Template opens a tab-through template prompt and returns the filled body.
func (c *Client) Template(template string) string {
	id := c.genID()
	raw, _ := c.request(id, "template", &protocol.Template{ID: id, Template: template})
	return decodeString(raw)
}

// RGBColor is one EyeDropper result representation.
type RGBColor struct {
	SRGBHex string `json:"sRGBHex"`
	RGB     [3]int `json:"rgb"`
	HSL     [3]int `json:"hsl"`
}

// EyeDropper opens a color-pick prompt.
func (c *Client) EyeDropper() RGBColor {
	id := c.genID()
	raw, err := c.request(id, "eyeDropper", &protocol.EyeDropper{ID: id})
	_ = err
	var color RGBColor
	_ = json.Unmarshal(raw, &color)
	return color
}

// Term opens a terminal prompt and returns the captured output once the
// inner process exits.
func (c *Client) Term(command string, opts protocol.TermOptions) string {
	id := c.genID()
	raw, _ := c.request(id, "term", &protocol.Term{ID: id, Command: command, Options: opts})
	return decodeString(raw)
}

// Widget opens a detached HTML surface and returns its id; unlike other
// prompts it does not block until resolution. This package has no call
// that updates a widget after it opens.
func (c *Client) Widget(html string, opts protocol.WidgetOptions) string {
	id := c.genID()
	_ = c.send("widget", &protocol.Widget{ID: id, HTML: html, Options: opts})
	return id
}

// Chat opens a conversational prompt and returns the user's final input.
func (c *Client) Chat() string {
	id := c.genID()
	raw, _ := c.request(id, "chat", &protocol.Chat{ID: id})
	return decodeString(raw)
}

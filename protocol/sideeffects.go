package protocol

import "encoding/json"

// SetActions mutates the active prompt's action set (§4.6 setActions).
type SetActions struct {
	ID      string   `json:"id,omitempty"`
	Actions []Action `json:"actions"`
}

func (m *SetActions) Validate() error { return nil }

// SetInput prefills the active prompt's input text.
type SetInput struct {
	ID    string `json:"id,omitempty"`
	Input string `json:"input"`
}

func (m *SetInput) Validate() error { return checkText(m.Input, MaxFreeTextBytes) }

// ChatActionKind enumerates the mutations a guest may apply to a chat prompt.
type ChatActionKind string

const (
	ChatActionAddMessage ChatActionKind = "addMessage"
	ChatActionSetInput   ChatActionKind = "setInput"
	ChatActionSubmit     ChatActionKind = "submit"
)

// ChatAction mutates an open chat prompt (§4.5.2).
type ChatAction struct {
	ID      string         `json:"id,omitempty"`
	Action  ChatActionKind `json:"action"`
	Message ChatMessage    `json:"message,omitempty"`
	Input   string         `json:"input,omitempty"`
}

func (m *ChatAction) Validate() error { return nil }

// ExecOptions configures a one-shot `exec` side effect.
type ExecOptions struct {
	Cwd string            `json:"cwd,omitempty"`
	Env map[string]string `json:"env,omitempty"`
}

// Exec requests the host run a shell command and report the result.
type Exec struct {
	ID      string      `json:"id"`
	Command string      `json:"command"`
	Options ExecOptions `json:"options,omitempty"`
}

func (m *Exec) Validate() error { return checkID(m.ID) }

// ClipboardActionKind enumerates clipboard operations.
type ClipboardActionKind string

const (
	ClipboardRead       ClipboardActionKind = "read"
	ClipboardWrite      ClipboardActionKind = "write"
	ClipboardReadImage  ClipboardActionKind = "readImage"
	ClipboardWriteImage ClipboardActionKind = "writeImage"
)

// Clipboard is the clipboard get/set side-effect message.
type Clipboard struct {
	ID      string               `json:"id,omitempty"`
	Action  ClipboardActionKind  `json:"action"`
	Content string               `json:"content,omitempty"`
}

func (m *Clipboard) Validate() error { return checkText(m.Content, MaxImageBytes) }

// Notify requests a desktop notification.
type Notify struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

func (m *Notify) Validate() error { return nil }

// Beep requests an audible alert.
type Beep struct{}

func (m *Beep) Validate() error { return nil }

// Say requests text-to-speech.
type Say struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

func (m *Say) Validate() error { return checkText(m.Text, MaxFreeTextBytes) }

// Keyboard requests synthetic keyboard input.
type Keyboard struct {
	Action string                 `json:"action"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

func (m *Keyboard) Validate() error { return nil }

// Mouse requests synthetic mouse input.
type Mouse struct {
	Action string                 `json:"action"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

func (m *Mouse) Validate() error { return nil }

// Screenshot requests a screen capture.
type Screenshot struct {
	ID string `json:"id"`
}

func (m *Screenshot) Validate() error { return checkID(m.ID) }

// StoreActionKind enumerates key/value store operations.
type StoreActionKind string

const (
	StoreGet   StoreActionKind = "get"
	StoreSet   StoreActionKind = "set"
	StoreDel   StoreActionKind = "delete"
	StoreClear StoreActionKind = "clear"
)

// Store is the key/value store read/write side-effect message.
type Store struct {
	ID     string          `json:"id,omitempty"`
	Action StoreActionKind `json:"action"`
	Key    string          `json:"key,omitempty"`
	Value  json.RawMessage `json:"value,omitempty"`
}

func (m *Store) Validate() error { return nil }

// MenuBarActionKind enumerates menu-bar operations.
type MenuBarActionKind string

const (
	MenuBarGet     MenuBarActionKind = "get"
	MenuBarExecute MenuBarActionKind = "execute"
)

// MenuBar queries or triggers an application menu bar.
type MenuBar struct {
	ID       string            `json:"id,omitempty"`
	Action   MenuBarActionKind `json:"action"`
	BundleID string            `json:"bundleId,omitempty"`
	MenuPath []string          `json:"menuPath,omitempty"`
}

func (m *MenuBar) Validate() error { return nil }

// ScriptOutput carries the accumulated typed-output object (§4.6.4).
type ScriptOutput struct {
	Data json.RawMessage `json:"data"`
}

func (m *ScriptOutput) Validate() error { return checkText(string(m.Data), MaxFreeTextBytes) }

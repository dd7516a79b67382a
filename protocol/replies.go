package protocol

import "encoding/json"

// Submit is the host's reply resolving a prompt with a value. Value carries
// an arbitrary JSON shape: a bare string for pickers/editor/path/template,
// a map for form submits, an array for fields submits.
type Submit struct {
	ID    string          `json:"id"`
	Value json.RawMessage `json:"value"`
}

func (m *Submit) Validate() error { return checkID(m.ID) }

// Escape is the host's reply when a prompt is cancelled (§3, §7). On the
// wire the engine encodes this as a `submit` with an empty value plus an
// escape marker; Escape is kept as a distinct Go type so an `escape` record
// still decodes and ipc.Dispatcher can route it by id.
type Escape struct {
	ID string `json:"id"`
}

func (m *Escape) Validate() error { return checkID(m.ID) }

// ActionTriggered is the host→guest notice that a shortcut or click fired a
// registered action (§4.5, §4.6.3).
type ActionTriggered struct {
	Action string          `json:"action"`
	Input  string          `json:"input"`
	State  json.RawMessage `json:"state,omitempty"`
}

func (m *ActionTriggered) Validate() error { return nil }

// InputEvent carries a raw input chunk, used by the terminal/form live-typing
// paths.
type InputEvent struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

func (m *InputEvent) Validate() error { return checkID(m.ID) }

// Resized notifies the guest a widget or terminal was resized.
type Resized struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (m *Resized) Validate() error { return checkID(m.ID) }

// Moved notifies the guest a widget moved.
type Moved struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

func (m *Moved) Validate() error { return checkID(m.ID) }

// Closed notifies the guest that a widget or terminal was closed by the
// user without a submit.
type Closed struct {
	ID string `json:"id"`
}

func (m *Closed) Validate() error { return checkID(m.ID) }

// ForceSubmit is the host's reply when a triggered action carries a preset
// value instead of a handler (§4.5, §4.6 bullet 3). Distinct from Submit on
// the wire so the guest can tell a real user submission from an
// action-forced one.
type ForceSubmit struct {
	ID    string          `json:"id"`
	Value json.RawMessage `json:"value"`
}

func (m *ForceSubmit) Validate() error { return checkID(m.ID) }

// ScreenshotResult answers a Screenshot request.
type ScreenshotResult struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   string `json:"data"`
	Error  string `json:"error,omitempty"`
}

func (m *ScreenshotResult) Validate() error {
	if err := checkID(m.ID); err != nil {
		return err
	}
	return checkText(m.Data, MaxImageBytes)
}

// ExecResult answers an Exec request.
type ExecResult struct {
	ID       string `json:"id"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
	Error    string `json:"error,omitempty"`
}

func (m *ExecResult) Validate() error { return checkID(m.ID) }

// StoreReadResult answers a Store get.
type StoreReadResult struct {
	ID    string          `json:"id"`
	Value json.RawMessage `json:"value,omitempty"`
	Error string          `json:"error,omitempty"`
}

func (m *StoreReadResult) Validate() error { return checkID(m.ID) }

// MenuItem is one node of a MenuBarResult tree.
type MenuItem struct {
	Label    string     `json:"label"`
	Path     []string   `json:"path"`
	Enabled  bool       `json:"enabled"`
	Children []MenuItem `json:"children,omitempty"`
}

// MenuBarResult answers a MenuBar get.
type MenuBarResult struct {
	ID    string     `json:"id"`
	Items []MenuItem `json:"items,omitempty"`
	Error string     `json:"error,omitempty"`
}

func (m *MenuBarResult) Validate() error { return checkID(m.ID) }

// ClipboardReadResult answers a Clipboard read/readImage.
type ClipboardReadResult struct {
	ID      string `json:"id"`
	Content string `json:"content,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (m *ClipboardReadResult) Validate() error {
	if err := checkID(m.ID); err != nil {
		return err
	}
	return checkText(m.Content, MaxImageBytes)
}

// EyeDropperColor is the color value reported by EyeDropperResult.
type EyeDropperColor struct {
	SRGBHex string `json:"sRGBHex"`
	RGB     [3]int `json:"rgb"`
	HSL     [3]int `json:"hsl"`
}

// EyeDropperResult answers an EyeDropper prompt.
type EyeDropperResult struct {
	ID    string          `json:"id"`
	Value EyeDropperColor `json:"value"`
}

func (m *EyeDropperResult) Validate() error { return checkID(m.ID) }

// Error is attached to any result message when the operation failed
// (§7 PermissionDenied / InternalError surfacing).
type Error struct {
	ID      string `json:"id"`
	Message string `json:"error"`
}

func (m *Error) Validate() error { return checkID(m.ID) }

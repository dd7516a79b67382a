package shims

import "errors"

// ErrPermissionDenied is returned by every stub surface below: window
// management, menu-bar introspection and automation, screenshots,
// keyboard/mouse synthesis, and reading the OS selection are explicitly
// out of scope (spec.md §1) and have no in-pack grounding. These stay as
// narrow named interfaces so a future platform backend has a home without
// the caller's code needing to change shape.
var ErrPermissionDenied = errors.New("shims: capability not permitted on this host")

// WindowManager would control OS window placement/focus.
type WindowManager interface {
	Focus(title string) error
	Move(title string, x, y, w, h int) error
}

type deniedWindowManager struct{}

func (deniedWindowManager) Focus(string) error             { return ErrPermissionDenied }
func (deniedWindowManager) Move(string, int, int, int, int) error { return ErrPermissionDenied }

// NewWindowManager returns the stub WindowManager.
func NewWindowManager() WindowManager { return deniedWindowManager{} }

// ScreenCapture would take full-screen or region screenshots.
type ScreenCapture interface {
	Capture() ([]byte, int, int, error)
}

type deniedScreenCapture struct{}

func (deniedScreenCapture) Capture() ([]byte, int, int, error) { return nil, 0, 0, ErrPermissionDenied }

// NewScreenCapture returns the stub ScreenCapture.
func NewScreenCapture() ScreenCapture { return deniedScreenCapture{} }

// InputSynthesizer would synthesize keyboard/mouse input system-wide.
type InputSynthesizer interface {
	Keyboard(action string, data map[string]interface{}) error
	Mouse(action string, data map[string]interface{}) error
}

type deniedInputSynthesizer struct{}

func (deniedInputSynthesizer) Keyboard(string, map[string]interface{}) error { return ErrPermissionDenied }
func (deniedInputSynthesizer) Mouse(string, map[string]interface{}) error    { return ErrPermissionDenied }

// NewInputSynthesizer returns the stub InputSynthesizer.
func NewInputSynthesizer() InputSynthesizer { return deniedInputSynthesizer{} }

// SelectedTextReader would read the OS-wide text selection.
type SelectedTextReader interface {
	SelectedText() (string, error)
}

type deniedSelectedTextReader struct{}

func (deniedSelectedTextReader) SelectedText() (string, error) { return "", ErrPermissionDenied }

// NewSelectedTextReader returns the stub SelectedTextReader.
func NewSelectedTextReader() SelectedTextReader { return deniedSelectedTextReader{} }

// MenuItem mirrors protocol.MenuItem without importing protocol, keeping
// shims dependency-free of the wire layer.
type MenuItem struct {
	Title    string
	Path     []string
	Children []MenuItem
}

// MenuBar would introspect and act on an application's menu bar.
type MenuBar interface {
	Get(bundleID string) ([]MenuItem, error)
	Execute(bundleID string, path []string) error
}

type deniedMenuBar struct{}

func (deniedMenuBar) Get(string) ([]MenuItem, error)       { return nil, ErrPermissionDenied }
func (deniedMenuBar) Execute(string, []string) error       { return ErrPermissionDenied }

// NewMenuBar returns the stub MenuBar.
func NewMenuBar() MenuBar { return deniedMenuBar{} }

package protocol

import (
	"encoding/json"
	"fmt"
)

// Encode marshals a message with its wire `type` tag set, returning a
// single line WITHOUT the trailing newline (ipc.Dispatcher appends it).
// Encoders emit only known fields (§4.2): this is satisfied because every
// variant's json tags are a closed set.
func Encode(wireType string, msg interface{}) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	typeJSON, _ := json.Marshal(wireType)
	m["type"] = typeJSON
	return json.Marshal(m)
}

// EncodeSubmit builds the on-the-wire `submit` record for a resolved
// prompt. An escape resolution is encoded as a submit with an empty value
// per §3/§7; escapeMarker adds the distinguishing field so the guest
// library can tell a real empty string from a cancel.
func EncodeSubmit(id string, value json.RawMessage, isEscape bool) ([]byte, error) {
	payload := struct {
		ID     string          `json:"id"`
		Value  json.RawMessage `json:"value"`
		Escape bool            `json:"escape,omitempty"`
	}{ID: id, Value: value, Escape: isEscape}
	return Encode("submit", payload)
}

// EncodeForceSubmit builds the on-the-wire `forceSubmit` record for a
// triggered action that carries a preset value instead of a handler
// (§4.5, §4.6 bullet 3).
func EncodeForceSubmit(id string, value json.RawMessage) ([]byte, error) {
	payload := struct {
		ID    string          `json:"id"`
		Value json.RawMessage `json:"value"`
	}{ID: id, Value: value}
	return Encode("forceSubmit", payload)
}

// EncodeExecResult builds the on-the-wire `execResult` reply to an Exec
// request (§4.9, §6).
func EncodeExecResult(r *ExecResult) ([]byte, error) { return Encode("execResult", r) }

// EncodeClipboardReadResult builds the on-the-wire `clipboardReadResult`
// reply to a Clipboard read/readImage request.
func EncodeClipboardReadResult(r *ClipboardReadResult) ([]byte, error) {
	return Encode("clipboardReadResult", r)
}

// EncodeScreenshotResult builds the on-the-wire `screenshotResult` reply to
// a Screenshot request.
func EncodeScreenshotResult(r *ScreenshotResult) ([]byte, error) {
	return Encode("screenshotResult", r)
}

// EncodeStoreReadResult builds the on-the-wire `storeReadResult` reply to a
// Store get request.
func EncodeStoreReadResult(r *StoreReadResult) ([]byte, error) {
	return Encode("storeReadResult", r)
}

// EncodeMenuBarResult builds the on-the-wire `menuBarResult` reply to a
// MenuBar get request.
func EncodeMenuBarResult(r *MenuBarResult) ([]byte, error) { return Encode("menuBarResult", r) }

// SurfaceWireType returns the on-the-wire type string for an HTMLSurface,
// since the four surface messages share one Go struct.
func SurfaceWireType(k SurfaceKind) string {
	switch k {
	case SurfaceDiv:
		return "div"
	case SurfaceSetPanel:
		return "setPanel"
	case SurfaceSetPreview:
		return "setPreview"
	case SurfaceSetPrompt:
		return "setPrompt"
	default:
		return "div"
	}
}

// PickerWireType is kept alongside a Picker so callers can round-trip the
// originating tag (arg/mini/micro/select) through the engine.
type PickerWireType string

const (
	WireArg    PickerWireType = "arg"
	WireMini   PickerWireType = "mini"
	WireMicro  PickerWireType = "micro"
	WireSelect PickerWireType = "select"
)

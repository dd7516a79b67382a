package promptengine

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/drake/scriptkit/protocol"
	"github.com/drake/scriptkit/shims"
)

func waitForLine(t *testing.T, disp *fakeDispatch) []byte {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		disp.mu.Lock()
		n := len(disp.lines)
		var last []byte
		if n > 0 {
			last = disp.lines[n-1]
		}
		disp.mu.Unlock()
		if n > 0 {
			return last
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for a raw reply")
	return nil
}

func TestHandleExecRepliesWithExecResult(t *testing.T) {
	disp := &fakeDispatch{}
	r := &fakeRenderer{}
	e := NewEngine(disp, r, nil)

	e.Handle("exec", &protocol.Exec{ID: "1", Command: "echo hi"})

	line := waitForLine(t, disp)
	var got struct {
		Type   string `json:"type"`
		ID     string `json:"id"`
		Stdout string `json:"stdout"`
	}
	if err := json.Unmarshal(line, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "execResult" || got.ID != "1" {
		t.Fatalf("unexpected execResult: %+v", got)
	}
}

func TestHandleScreenshotRepliesPermissionDenied(t *testing.T) {
	disp := &fakeDispatch{}
	r := &fakeRenderer{}
	e := NewEngine(disp, r, nil)

	e.Handle("screenshot", &protocol.Screenshot{ID: "1"})

	if len(disp.lines) != 1 {
		t.Fatalf("expected one reply, got %d", len(disp.lines))
	}
	var got struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(disp.lines[0], &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "screenshotResult" || got.Error != shims.ErrPermissionDenied.Error() {
		t.Fatalf("expected permission-denied screenshotResult, got %+v", got)
	}
}

func TestHandleStoreRoundTripsThroughSetStore(t *testing.T) {
	disp := &fakeDispatch{}
	r := &fakeRenderer{}
	e := NewEngine(disp, r, nil)

	store, err := shims.OpenStore(t.TempDir() + "/store.db")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	e.SetStore(store)

	e.Handle("store", &protocol.Store{Action: protocol.StoreSet, Key: "k", Value: json.RawMessage(`"v"`)})
	e.Handle("store", &protocol.Store{ID: "1", Action: protocol.StoreGet, Key: "k"})

	if len(disp.lines) != 1 {
		t.Fatalf("expected one reply (set is fire-and-forget), got %d", len(disp.lines))
	}
	var got struct {
		Type  string          `json:"type"`
		ID    string          `json:"id"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(disp.lines[0], &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "storeReadResult" || string(got.Value) != `"v"` {
		t.Fatalf("expected stored value v, got %+v", got)
	}
}

func TestHandleStoreGetWithoutStoreConfiguredReportsError(t *testing.T) {
	disp := &fakeDispatch{}
	r := &fakeRenderer{}
	e := NewEngine(disp, r, nil)

	e.Handle("store", &protocol.Store{ID: "1", Action: protocol.StoreGet, Key: "k"})

	if len(disp.lines) != 1 {
		t.Fatalf("expected one reply, got %d", len(disp.lines))
	}
	var got struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(disp.lines[0], &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Error == "" {
		t.Fatalf("expected a non-empty error when no store is configured")
	}
}

func TestHandleMenuBarGetRepliesPermissionDenied(t *testing.T) {
	disp := &fakeDispatch{}
	r := &fakeRenderer{}
	e := NewEngine(disp, r, nil)

	e.Handle("menuBar", &protocol.MenuBar{ID: "1", Action: protocol.MenuBarGet, BundleID: "com.example"})

	if len(disp.lines) != 1 {
		t.Fatalf("expected one reply, got %d", len(disp.lines))
	}
	var got struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(disp.lines[0], &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "menuBarResult" || got.Error != shims.ErrPermissionDenied.Error() {
		t.Fatalf("expected permission-denied menuBarResult, got %+v", got)
	}
}

package guest

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"testing"
	"time"

	"github.com/drake/scriptkit/protocol"
)

// fakeHost simulates the host side: it reads records the client writes and
// lets the test script its own reply sequence.
type fakeHost struct {
	w       *bufio.Writer
	scanner *bufio.Scanner
}

func newLoop(t *testing.T) (*Client, *fakeHost, func()) {
	t.Helper()
	hostToClient, hostWriteEnd := io.Pipe()
	// An OS pipe buffers the client's records, so fire-and-forget sends
	// (SetActions, Output) do not block before the host reads them.
	hostReadEnd, clientToHost, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	c := New(hostToClient, clientToHost)
	go c.readLoop()

	host := &fakeHost{w: bufio.NewWriter(hostWriteEnd), scanner: bufio.NewScanner(hostReadEnd)}
	cleanup := func() {
		clientToHost.Close()
		hostToClient.Close()
	}
	return c, host, cleanup
}

func (h *fakeHost) readRecord(t *testing.T) map[string]interface{} {
	t.Helper()
	if !h.scanner.Scan() {
		t.Fatalf("expected a record, scanner ended: %v", h.scanner.Err())
	}
	var m map[string]interface{}
	if err := json.Unmarshal(h.scanner.Bytes(), &m); err != nil {
		t.Fatalf("bad json from client: %v", err)
	}
	return m
}

func (h *fakeHost) reply(t *testing.T, obj map[string]interface{}) {
	t.Helper()
	line, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	h.w.Write(line)
	h.w.WriteByte('\n')
	h.w.Flush()
}

func TestArgRoundTrip(t *testing.T) {
	c, host, cleanup := newLoop(t)
	defer cleanup()

	resultCh := make(chan string, 1)
	go func() {
		resultCh <- c.Arg("Pick", []protocol.Choice{{Name: "Apple", Value: "a"}, {Name: "Banana", Value: "b"}}, nil)
	}()

	rec := host.readRecord(t)
	if rec["type"] != "arg" {
		t.Fatalf("expected arg record, got %+v", rec)
	}
	id := rec["id"].(string)
	host.reply(t, map[string]interface{}{"type": "submit", "id": id, "value": "b"})

	select {
	case got := <-resultCh:
		if got != "b" {
			t.Fatalf("expected b, got %q", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for Arg to resolve")
	}
}

func TestSetActionsStripsHandlerAndSetsHasAction(t *testing.T) {
	c, host, cleanup := newLoop(t)
	defer cleanup()

	fired := make(chan string, 1)
	c.SetActions([]ActionSpec{
		{Name: "copy", Shortcut: "cmd+c", Handler: func(input string, state json.RawMessage) {
			fired <- input
		}},
		{Name: "noop", Value: "preset"},
	})

	rec := host.readRecord(t)
	actions := rec["actions"].([]interface{})
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	a0 := actions[0].(map[string]interface{})
	if a0["name"] != "copy" || a0["hasAction"] != true {
		t.Fatalf("expected copy with hasAction true, got %+v", a0)
	}
	if _, has := a0["Handler"]; has {
		t.Fatalf("handler leaked onto the wire: %+v", a0)
	}

	host.reply(t, map[string]interface{}{"type": "actionTriggered", "action": "copy", "input": "hello", "state": map[string]interface{}{}})

	select {
	case got := <-fired:
		if got != "hello" {
			t.Fatalf("expected hello, got %q", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for handler invocation")
	}
}

func TestOutputAccumulatesAndStreams(t *testing.T) {
	c, host, cleanup := newLoop(t)
	defer cleanup()

	c.Output(map[string]interface{}{"a": 1})
	rec := host.readRecord(t)
	if rec["type"] != "scriptOutput" {
		t.Fatalf("expected scriptOutput, got %+v", rec)
	}
	data := rec["data"].(map[string]interface{})
	if data["a"] != float64(1) {
		t.Fatalf("expected a=1, got %+v", data)
	}

	c.Output(map[string]interface{}{"b": 2})
	rec = host.readRecord(t)
	data = rec["data"].(map[string]interface{})
	if data["a"] != float64(1) || data["b"] != float64(2) {
		t.Fatalf("expected accumulated output, got %+v", data)
	}
}

func TestExecRoundTripUsesTopLevelFields(t *testing.T) {
	c, host, cleanup := newLoop(t)
	defer cleanup()

	resultCh := make(chan ExecResult, 1)
	go func() {
		resultCh <- c.Exec("echo hi", protocol.ExecOptions{})
	}()

	rec := host.readRecord(t)
	if rec["type"] != "exec" {
		t.Fatalf("expected exec record, got %+v", rec)
	}
	id := rec["id"].(string)
	host.reply(t, map[string]interface{}{
		"type": "execResult", "id": id,
		"stdout": "hi\n", "stderr": "", "exitCode": 0,
	})

	select {
	case got := <-resultCh:
		if got.Stdout != "hi\n" || got.ExitCode != 0 {
			t.Fatalf("unexpected exec result: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for Exec to resolve")
	}
}

func TestClipboardReadTextUnwrapsContentField(t *testing.T) {
	c, host, cleanup := newLoop(t)
	defer cleanup()

	resultCh := make(chan string, 1)
	go func() {
		resultCh <- c.ClipboardReadText()
	}()

	rec := host.readRecord(t)
	id := rec["id"].(string)
	host.reply(t, map[string]interface{}{"type": "clipboardReadResult", "id": id, "content": "copied text"})

	select {
	case got := <-resultCh:
		if got != "copied text" {
			t.Fatalf("expected %q, got %q", "copied text", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for ClipboardReadText to resolve")
	}
}

func TestReadLoopIgnoresMalformedLines(t *testing.T) {
	c, _, cleanup := newLoop(t)
	defer cleanup()

	// Directly exercise handleLine with garbage; it must not panic.
	c.handleLine([]byte(`{not json`))
	c.handleLine([]byte(`{"type":""}`))
}

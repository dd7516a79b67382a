package promptengine

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/drake/scriptkit/protocol"
)

type fakeDispatch struct {
	mu    sync.Mutex
	lines [][]byte
	msgs  []struct {
		wireType string
		msg      interface{}
	}
}

func (f *fakeDispatch) Write(wireType string, msg interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, struct {
		wireType string
		msg      interface{}
	}{wireType, msg})
	return nil
}

func (f *fakeDispatch) WriteRaw(line []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, append([]byte(nil), line...))
	return nil
}

type fakeRenderer struct {
	renders int
	last    *Session
}

func (r *fakeRenderer) Render(s *Session) { r.renders++; r.last = s }
func (r *fakeRenderer) Closed(id string)  {}

func TestFilterChoicesSubstringStable(t *testing.T) {
	choices := []protocol.Choice{
		{Name: "Apple", Value: "a"},
		{Name: "Banana", Value: "b"},
		{Name: "Pineapple", Value: "p"},
		{Name: "Secret", Value: "s", Hidden: true},
	}
	got := FilterChoices(choices, "APP")
	if len(got) != 2 || got[0].Value != "a" || got[1].Value != "p" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	all := FilterChoices(choices, "")
	if len(all) != 3 {
		t.Fatalf("expected 3 non-hidden choices with empty filter, got %d", len(all))
	}
}

func TestOpenPickerThenSupersede(t *testing.T) {
	disp := &fakeDispatch{}
	r := &fakeRenderer{}
	e := NewEngine(disp, r, nil)

	e.Handle("arg", &protocol.Picker{ID: "1", Choices: []protocol.Choice{{Name: "A", Value: "a"}}})
	if e.active == nil || e.active.ID != "1" {
		t.Fatalf("expected session 1 active")
	}

	e.Handle("arg", &protocol.Picker{ID: "2", Choices: []protocol.Choice{{Name: "B", Value: "b"}}})
	if e.active.ID != "2" {
		t.Fatalf("expected session 2 to supersede session 1, got %q", e.active.ID)
	}
}

func TestSubmitEncodesSubmitReply(t *testing.T) {
	disp := &fakeDispatch{}
	r := &fakeRenderer{}
	e := NewEngine(disp, r, nil)
	e.Handle("arg", &protocol.Picker{ID: "1", Choices: []protocol.Choice{{Name: "A", Value: "a"}}})

	e.Submit("1", "a")

	if len(disp.lines) != 1 {
		t.Fatalf("expected 1 raw line written, got %d", len(disp.lines))
	}
	var got struct {
		Type  string `json:"type"`
		ID    string `json:"id"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(disp.lines[0], &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Type != "submit" || got.ID != "1" || got.Value != "a" {
		t.Fatalf("unexpected submit: %+v", got)
	}
	if e.active != nil {
		t.Fatalf("expected session resolved and cleared")
	}
}

func TestEscapeEncodesEmptyValueWithMarker(t *testing.T) {
	disp := &fakeDispatch{}
	r := &fakeRenderer{}
	e := NewEngine(disp, r, nil)
	e.Handle("arg", &protocol.Picker{ID: "1", Choices: nil})

	e.Escape("1")

	var got struct {
		ID     string `json:"id"`
		Value  string `json:"value"`
		Escape bool   `json:"escape"`
	}
	if err := json.Unmarshal(disp.lines[0], &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Value != "" || !got.Escape {
		t.Fatalf("expected empty value with escape marker, got %+v", got)
	}
}

func TestTriggerActionWithHandlerEmitsActionTriggered(t *testing.T) {
	disp := &fakeDispatch{}
	r := &fakeRenderer{}
	e := NewEngine(disp, r, nil)
	e.Handle("arg", &protocol.Picker{
		ID:      "1",
		Choices: []protocol.Choice{{Name: "A", Value: "a"}},
		Actions: []protocol.Action{{Name: "copy", Shortcut: "cmd+c", HasAction: true}},
	})
	e.active.Filter = "hel"

	e.TriggerAction("1", "copy", "hello")

	if len(disp.msgs) != 1 || disp.msgs[0].wireType != "actionTriggered" {
		t.Fatalf("expected one actionTriggered write, got %+v", disp.msgs)
	}
	at := disp.msgs[0].msg.(*protocol.ActionTriggered)
	if at.Action != "copy" || at.Input != "hello" {
		t.Fatalf("unexpected actionTriggered payload: %+v", at)
	}
}

func TestTriggerActionWithPresetValueForcesSubmit(t *testing.T) {
	disp := &fakeDispatch{}
	r := &fakeRenderer{}
	e := NewEngine(disp, r, nil)
	e.Handle("arg", &protocol.Picker{
		ID:      "1",
		Choices: []protocol.Choice{{Name: "A", Value: "a"}},
		Actions: []protocol.Action{{Name: "quick", Value: "preset"}},
	})

	e.TriggerAction("1", "quick", "")

	if len(disp.lines) != 1 {
		t.Fatalf("expected one raw-encoded reply, got %d lines", len(disp.lines))
	}
	var env struct {
		Type  string          `json:"type"`
		ID    string          `json:"id"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(disp.lines[0], &env); err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if env.Type != "forceSubmit" {
		t.Fatalf("expected forceSubmit wire type, got %q", env.Type)
	}
	var value string
	if err := json.Unmarshal(env.Value, &value); err != nil || value != "preset" {
		t.Fatalf("expected forceSubmit value %q, got %q (err %v)", "preset", value, err)
	}
}

func TestExtractPlaceholdersDedupesInOrder(t *testing.T) {
	got := ExtractPlaceholders("Hello {{name}}, {{name}} again, {{other}}!")
	want := []string{"name", "other"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected placeholders: %v", got)
	}
}

func TestFillTemplateIdempotentWithNoPlaceholders(t *testing.T) {
	body := "no placeholders here"
	if got := FillTemplate(body, nil); got != body {
		t.Fatalf("expected unchanged body, got %q", got)
	}
}

func TestFillTemplateSubstitutesAllOccurrences(t *testing.T) {
	body := "{{x}} and {{x}} and {{y}}"
	got := FillTemplate(body, map[string]string{"x": "1", "y": "2"})
	want := "1 and 1 and 2"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseFormOrderAndSkips(t *testing.T) {
	body := `<form>
		<input type="hidden" name="csrf" value="x">
		<input type="text" name="first" placeholder="First">
		<input type="email" name="email" value="a@b.com">
		<textarea name="bio">hello</textarea>
		<select name="color"><option value="red">Red</option><option value="blue" selected>Blue</option></select>
		<input type="submit" value="Go">
	</form>`
	fields, err := ParseForm(body)
	if err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	want := []string{"first", "email", "bio", "color"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected field %d to be %q, got %q", i, want[i], names[i])
		}
	}
}

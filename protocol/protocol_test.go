package protocol

import (
	"strings"
	"testing"
)

func TestDecodeUnknownType(t *testing.T) {
	e, err := PeekEnvelope([]byte(`{"type":"bogus","id":"1"}`))
	if err != nil {
		t.Fatalf("PeekEnvelope: %v", err)
	}
	_, err = Decode(e)
	if err == nil {
		t.Fatalf("expected ErrUnknownType")
	}
}

func TestDecodePicker(t *testing.T) {
	line := []byte(`{"type":"arg","id":"1","placeholder":"Pick","choices":[{"name":"Apple","value":"a"},{"name":"Banana","value":"b"}]}`)
	e, err := PeekEnvelope(line)
	if err != nil {
		t.Fatalf("PeekEnvelope: %v", err)
	}
	if e.Type != "arg" || e.ID != "1" {
		t.Fatalf("envelope mismatch: %+v", e)
	}
	msg, err := Decode(e)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	p, ok := msg.(*Picker)
	if !ok {
		t.Fatalf("wrong type: %T", msg)
	}
	if len(p.Choices) != 2 || p.Choices[1].Name != "Banana" {
		t.Fatalf("choices mismatch: %+v", p.Choices)
	}
}

func TestDecodeMissingID(t *testing.T) {
	e, _ := PeekEnvelope([]byte(`{"type":"arg","choices":[]}`))
	_, err := Decode(e)
	if err == nil {
		t.Fatalf("expected validation error for missing id")
	}
}

func TestValidateChoiceBound(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"type":"arg","id":"1","choices":[`)
	for i := 0; i < MaxChoices+1; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(`{"name":"x","value":"x"}`)
	}
	sb.WriteString(`]}`)
	e, err := PeekEnvelope([]byte(sb.String()))
	if err != nil {
		t.Fatalf("PeekEnvelope: %v", err)
	}
	if _, err := Decode(e); err == nil {
		t.Fatalf("expected validation error for choice bound")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	line, err := Encode("notify", &Notify{Title: "Hi", Body: "there"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	e, err := PeekEnvelope(line)
	if err != nil {
		t.Fatalf("PeekEnvelope: %v", err)
	}
	if e.Type != "notify" {
		t.Fatalf("expected notify, got %q", e.Type)
	}
}

func TestHTMLSurfaceKindRoundTrip(t *testing.T) {
	e, _ := PeekEnvelope([]byte(`{"type":"setPanel","html":"<b>hi</b>"}`))
	msg, err := Decode(e)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	hs := msg.(*HTMLSurface)
	if hs.Kind != SurfaceSetPanel {
		t.Fatalf("expected SurfaceSetPanel, got %v", hs.Kind)
	}
}

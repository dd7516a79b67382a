package shims

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenStore(filepath.Join(dir, "store.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if err := s.Set("greeting", json.RawMessage(`"hi"`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := s.Get("greeting")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(v) != `"hi"` {
		t.Fatalf("expected hi, got %s", v)
	}

	if err := s.Delete("greeting"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	v, err = s.Get("greeting")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil after delete, got %s", v)
	}
}

func TestStoreClearRemovesAllKeys(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenStore(filepath.Join(dir, "store.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if err := s.Set("a", json.RawMessage(`1`)); err != nil {
		t.Fatalf("set a: %v", err)
	}
	if err := s.Set("b", json.RawMessage(`2`)); err != nil {
		t.Fatalf("set b: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	v, err := s.Get("a")
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil after clear, got %s", v)
	}
	if err := s.Set("c", json.RawMessage(`3`)); err != nil {
		t.Fatalf("set after clear: %v", err)
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.db")

	s1, err := OpenStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s1.Set("k", json.RawMessage(`1`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	s1.Close()

	s2, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	v, err := s2.Get("k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(v) != "1" {
		t.Fatalf("expected 1, got %s", v)
	}
}

func TestStubsReturnPermissionDenied(t *testing.T) {
	if err := NewWindowManager().Focus("x"); err != ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if _, _, _, err := NewScreenCapture().Capture(); err != ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if err := NewInputSynthesizer().Keyboard("press", nil); err != ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if _, err := NewSelectedTextReader().SelectedText(); err != ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if _, err := NewMenuBar().Get("com.example"); err != ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

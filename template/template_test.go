package template

import (
	"strings"
	"testing"
)

func TestSetGetRoundTrip(t *testing.T) {
	s := New()
	s.Set(1, 2, "hello %1")
	got, ok := s.Get(1, 2)
	if !ok || got != "hello %1" {
		t.Fatalf("Get(1,2) = %q, %v, want %q, true", got, ok, "hello %1")
	}
}

func TestGetMissing(t *testing.T) {
	s := New()
	if _, ok := s.Get(1, 2); ok {
		t.Fatal("expected ok=false for missing entry")
	}
}

func TestLoadFrom(t *testing.T) {
	data := "1\t2\tfirst\n3\t4\tsecond\n"
	s, err := LoadFrom(strings.NewReader(data))
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if got, ok := s.Get(1, 2); !ok || got != "first" {
		t.Fatalf("Get(1,2) = %q, %v", got, ok)
	}
	if got, ok := s.Get(3, 4); !ok || got != "second" {
		t.Fatalf("Get(3,4) = %q, %v", got, ok)
	}
}

func TestLoadFromMalformedLine(t *testing.T) {
	if _, err := LoadFrom(strings.NewReader("only-one-field\n")); err == nil {
		t.Fatal("expected error for malformed line")
	}
}

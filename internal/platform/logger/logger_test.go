package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		"":        Info,
		"WARNING": Warn,
		"error":   Error,
		"verbose": Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestJSONLogger_FiltersByLevelAndKeepsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, Options{Level: Warn, Format: FormatJSON, App: "petcast"})

	l.Info("ignored", nil)
	l.With(map[string]any{"component": "cache", "": "dropped"}).Warn("stale entry", map[string]any{"key": "pets/7"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid json line: %v", err)
	}
	if entry["level"] != "warn" || entry["message"] != "stale entry" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if entry["app"] != "petcast" || entry["component"] != "cache" || entry["key"] != "pets/7" {
		t.Fatalf("missing fields: %#v", entry)
	}
	if _, ok := entry[""]; ok {
		t.Fatalf("empty key should be dropped")
	}
}

func TestTextLogger_WritesMessage(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, Options{Level: Debug})
	l.Debug("hola", map[string]any{"n": 1})

	if !strings.Contains(buf.String(), "hola") || !strings.Contains(buf.String(), "n=1") {
		t.Fatalf("unexpected text output: %q", buf.String())
	}
}

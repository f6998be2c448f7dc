package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(&bytes.Buffer{})

	origLevel := GetLevel()
	defer SetLevel(origLevel)

	logger := New("test")

	SetLevel(Warning)
	logger.Info("hidden message")
	logger.Warningf("visible %s", "warning")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Fatalf("expected info message to be filtered out; got %q", out)
	}
	if !strings.Contains(out, "visible warning") || !strings.Contains(out, "[test]") {
		t.Fatalf("expected warning message tagged with module name; got %q", out)
	}

	buf.Reset()
	SetLevel(Debug)
	logger.Debugf("frame %d", 3)
	if !strings.Contains(buf.String(), "frame 3") {
		t.Fatalf("expected debug message after raising verbosity; got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	type spec struct {
		in     string
		exp    Level
		expErr bool
	}
	specs := []spec{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{"Notice", Notice, false},
		{"warning", Warning, false},
		{"error", Error, false},
		{"chatty", Notice, true},
	}

	for index, s := range specs {
		level, err := ParseLevel(s.in)
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error", index)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error %v", index, err)
		}
		if level != s.exp {
			t.Fatalf("[spec %d] expected level %s; got %s", index, s.exp, level)
		}
	}
}

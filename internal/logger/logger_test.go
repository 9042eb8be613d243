package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInitTextWithFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "relay.log")

	log, err := Init(Options{Level: "warn", Format: "text", File: path, Writer: &buf})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown", "count", 3)

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(buf.String(), "msg=shown count=3") {
		t.Errorf("stderr output = %q", buf.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "msg=shown") {
		t.Errorf("log file = %q", data)
	}
}

func TestInitAutoIsJSONWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	log, err := Init(Options{Level: "info", Format: "auto", Writer: &buf})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	log.Info("hello")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "hello" {
		t.Errorf("msg = %v", rec["msg"])
	}
}

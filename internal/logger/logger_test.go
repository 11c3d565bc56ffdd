package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelsAndDebugSwitch(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf)

	l.Debug("hidden %d", 1)
	l.Info("started %s", "session")
	l.Warn("slow frame")
	l.LogError(errors.New("boom"), "capture failed")
	l.LogError(nil, "never printed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatal("debug message printed while debug is off")
	}
	for _, want := range []string{"INFO: started session", "WARN: slow frame", "ERROR: capture failed: boom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q misses %q", out, want)
		}
	}
	if strings.Contains(out, "never printed") {
		t.Fatal("LogError printed a nil error")
	}

	l.SetDebug(true)
	l.Debug("visible")
	if !strings.Contains(buf.String(), "DEBUG: visible") {
		t.Fatal("debug message missing after SetDebug(true)")
	}
}

func TestNewLoggerManagerCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dinobot.log")
	l, err := NewLoggerManager(path)
	if err != nil {
		t.Fatal(err)
	}
	l.console = nil
	l.Info("hello")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "INFO: hello") {
		t.Fatalf("log file content %q", data)
	}
}

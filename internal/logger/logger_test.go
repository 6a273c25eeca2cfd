package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogPathEnv(t *testing.T) {
	t.Setenv("QCALC_LOG_FILE", "")
	t.Setenv("QCALC_CONFIG_HOME", "/tmp/qc")
	got, err := LogPath()
	if err != nil {
		t.Fatalf("LogPath: %v", err)
	}
	if got != filepath.Join("/tmp/qc", "qcalc.log") {
		t.Fatalf("LogPath = %q", got)
	}

	t.Setenv("QCALC_LOG_FILE", "/var/tmp/x.log")
	if got, _ := LogPath(); got != "/var/tmp/x.log" {
		t.Fatalf("LogPath = %q", got)
	}
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "qcalc.log")
	t.Setenv("QCALC_LOG_FILE", path)
	if err := Init(true); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Debug("commit", "expression", "1+1")
	Close()
	defer Nop()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "commit") || !strings.Contains(string(data), "1+1") {
		t.Fatalf("log missing entry:\n%s", data)
	}
}

func TestUseObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core))
	defer Nop()

	Warn("solve failed", "equation", "x=")
	if logs.Len() != 1 {
		t.Fatalf("entries = %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "solve failed" || entry.ContextMap()["equation"] != "x=" {
		t.Fatalf("entry = %+v", entry)
	}
}

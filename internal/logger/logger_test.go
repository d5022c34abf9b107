package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	return string(data)
}

func TestInitWritesToConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "logs", "daybook.log")

	if err := Init(Config{Path: path}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	Warn("storage read failed", "key", "journalData")

	if got := readLog(t, path); !strings.Contains(got, "storage read failed") {
		t.Errorf("log file missing warning, got %q", got)
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		want   log.Level
		logged []string
		hidden []string
	}{
		{name: "default", want: log.WarnLevel, logged: []string{"warn-line"}, hidden: []string{"info-line", "debug-line"}},
		{name: "info", cfg: Config{Level: "info"}, want: log.InfoLevel, logged: []string{"info-line"}, hidden: []string{"debug-line"}},
		{name: "error", cfg: Config{Level: "error"}, want: log.ErrorLevel, logged: []string{"error-line"}, hidden: []string{"warn-line"}},
		{name: "unknown falls back", cfg: Config{Level: "chatty"}, want: log.WarnLevel, hidden: []string{"info-line"}},
		{name: "debug flag wins", cfg: Config{Level: "error", Debug: true}, want: log.DebugLevel, logged: []string{"debug-line"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Path = filepath.Join(t.TempDir(), "daybook.log")
			if err := Init(tt.cfg); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			if got := Logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}

			Debug("debug-line")
			Info("info-line")
			Warn("warn-line")
			Error("error-line")

			got := readLog(t, tt.cfg.Path)
			for _, s := range tt.logged {
				if !strings.Contains(got, s) {
					t.Errorf("%q missing from %q", s, got)
				}
			}
			for _, s := range tt.hidden {
				if strings.Contains(got, s) {
					t.Errorf("%q should be filtered, got %q", s, got)
				}
			}
		})
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

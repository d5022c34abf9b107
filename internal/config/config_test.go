package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if !cfg.Backup.Auto || cfg.Backup.Max != 14 {
		t.Errorf("Backup = %+v, want auto with max 14", cfg.Backup)
	}
	if want := filepath.Join(filepath.Dir(path), "daybook.db"); cfg.StoragePath() != want {
		t.Errorf("StoragePath() = %q, want %q", cfg.StoragePath(), want)
	}
	if cfg.Location() != time.Local {
		t.Error("empty timezone should use local time")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `storage:
  backend: diskv
timezone: Asia/Seoul
notifications:
  desktop: true
backup:
  max: 3
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Backend != "diskv" {
		t.Errorf("Backend = %q, want diskv", cfg.Storage.Backend)
	}
	if want := filepath.Join(filepath.Dir(path), "store"); cfg.StoragePath() != want {
		t.Errorf("StoragePath() = %q, want %q", cfg.StoragePath(), want)
	}
	if !cfg.Notifications.Desktop || cfg.Backup.Max != 3 || !cfg.Backup.Auto {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Location().String() != "Asia/Seoul" {
		t.Errorf("Location() = %v, want Asia/Seoul", cfg.Location())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DAYBOOK_STORAGE_BACKEND", "memory")
	t.Setenv("DAYBOOK_BACKUP_AUTO", "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q, want memory from env", cfg.Storage.Backend)
	}
	if cfg.Backup.Auto {
		t.Error("Backup.Auto should be overridden to false")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Storage.Backend = "redis" }, wantErr: true},
		{name: "zero backups", mutate: func(c *Config) { c.Backup.Max = 0 }, wantErr: true},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Storage.Backend = "postgres"
	cfg.Timezone = "UTC"
	cfg.Backup.Max = 5

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Storage.Backend != "postgres" || reloaded.Timezone != "UTC" || reloaded.Backup.Max != 5 {
		t.Errorf("reloaded = %+v", reloaded)
	}
}

func TestLogSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if want := filepath.Join(dir, "logs", "daybook.log"); cfg.LogPath() != want {
		t.Errorf("default LogPath() = %q, want %q", cfg.LogPath(), want)
	}
	if cfg.Log.Level != "warn" || cfg.Log.Stderr {
		t.Errorf("default Log = %+v", cfg.Log)
	}

	logDir := filepath.Join(dir, "elsewhere")
	content := "log:\n  dir: " + logDir + "\n  level: INFO\n  stderr: true\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if want := filepath.Join(logDir, "daybook.log"); cfg.LogPath() != want {
		t.Errorf("LogPath() = %q, want %q", cfg.LogPath(), want)
	}
	if cfg.Log.Level != "info" || !cfg.Log.Stderr {
		t.Errorf("Log = %+v", cfg.Log)
	}

	if err := os.WriteFile(path, []byte("log:\n  level: loud\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("unknown log level should fail validation")
	}
}

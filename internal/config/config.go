// Package config loads daybook settings from YAML and DAYBOOK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/julianstephens/daybook/internal/constants"
)

type StorageConfig struct {
	Backend string `mapstructure:"backend"` // sqlite, postgres, diskv or memory
	Path    string `mapstructure:"path"`    // sqlite file or diskv directory
	DSN     string `mapstructure:"dsn"`     // postgres only, empty reads the keyring
}

type NotificationsConfig struct {
	Desktop bool `mapstructure:"desktop"`
}

type BackupConfig struct {
	Auto bool `mapstructure:"auto"`
	Max  int  `mapstructure:"max"`
}

// LogConfig controls the rotating log file. --debug overrides Level and Stderr.
type LogConfig struct {
	Dir       string `mapstructure:"dir"`   // empty means <config dir>/logs
	Level     string `mapstructure:"level"` // debug, info, warn or error
	Stderr    bool   `mapstructure:"stderr"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

type Config struct {
	Storage       StorageConfig       `mapstructure:"storage"`
	Timezone      string              `mapstructure:"timezone"` // IANA name, empty means local
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Backup        BackupConfig        `mapstructure:"backup"`
	Log           LogConfig           `mapstructure:"log"`

	path string
}

func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: constants.BackendSQLite,
		},
		Notifications: NotificationsConfig{Desktop: false},
		Backup:        BackupConfig{Auto: true, Max: constants.MaxBackups},
		Log:           LogConfig{Level: "warn", MaxSizeMB: 10},
	}
}

// DefaultPath returns ~/.config/daybook/config.yaml with the home directory expanded.
func DefaultPath() (string, error) {
	dir, err := homedir.Expand(constants.DefaultConfigDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.DefaultConfigFile), nil
}

func newViper(path string, cfg Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix(strings.ToUpper(constants.AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.path", cfg.Storage.Path)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("notifications.desktop", cfg.Notifications.Desktop)
	v.SetDefault("backup.auto", cfg.Backup.Auto)
	v.SetDefault("backup.max", cfg.Backup.Max)
	v.SetDefault("log.dir", cfg.Log.Dir)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.stderr", cfg.Log.Stderr)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	return v
}

// Load reads the config file at path, or the default path when empty.
// A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	} else {
		p, err := homedir.Expand(path)
		if err != nil {
			return cfg, err
		}
		path = p
	}
	cfg.path = path

	v := newViper(path, cfg)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("config read: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if cfg.Storage.Path != "" {
		expanded, err := homedir.Expand(cfg.Storage.Path)
		if err != nil {
			return cfg, err
		}
		cfg.Storage.Path = expanded
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Dir != "" {
		expanded, err := homedir.Expand(cfg.Log.Dir)
		if err != nil {
			return cfg, err
		}
		cfg.Log.Dir = expanded
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case constants.BackendSQLite, constants.BackendPostgres, constants.BackendDiskv, constants.BackendMemory:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.Backup.Max < 1 {
		return errors.New("config: backup.max must be at least 1")
	}
	if tz := strings.TrimSpace(c.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("config: invalid timezone %q: %w", tz, err)
		}
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	if c.Log.MaxSizeMB < 0 {
		return errors.New("config: log.max_size_mb must not be negative")
	}
	return nil
}

// Save writes the config back to the file it was loaded from.
func (c Config) Save() error {
	path := c.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	v := newViper(path, c)
	v.Set("storage.backend", c.Storage.Backend)
	v.Set("storage.path", c.Storage.Path)
	v.Set("storage.dsn", c.Storage.DSN)
	v.Set("timezone", c.Timezone)
	v.Set("notifications.desktop", c.Notifications.Desktop)
	v.Set("backup.auto", c.Backup.Auto)
	v.Set("backup.max", c.Backup.Max)
	v.Set("log.dir", c.Log.Dir)
	v.Set("log.level", c.Log.Level)
	v.Set("log.stderr", c.Log.Stderr)
	v.Set("log.max_size_mb", c.Log.MaxSizeMB)
	return v.WriteConfigAs(path)
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Path is the config file location. It falls back to the default path.
func (c Config) Path() string {
	if c.path != "" {
		return c.path
	}
	p, err := DefaultPath()
	if err != nil {
		return constants.DefaultConfigFile
	}
	return p
}

// Dir holds the config file, logs, backups and the default data files.
func (c Config) Dir() string {
	return filepath.Dir(c.Path())
}

// StoragePath is the configured data location or the backend's default under Dir.
func (c Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if c.Storage.Backend == constants.BackendDiskv {
		return filepath.Join(c.Dir(), constants.DefaultDiskvDir)
	}
	return filepath.Join(c.Dir(), constants.DefaultDBName)
}

// LogPath is the rotating log file, under log.dir or <Dir>/logs.
func (c Config) LogPath() string {
	dir := c.Log.Dir
	if dir == "" {
		dir = filepath.Join(c.Dir(), constants.DefaultLogDir)
	}
	return filepath.Join(dir, constants.AppName+".log")
}

func (c Config) Location() *time.Location {
	if tz := strings.TrimSpace(c.Timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}

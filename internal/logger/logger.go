// Package logger owns the process-wide log sink: a size-rotated file with an
// optional stderr copy.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/daybook/internal/constants"
)

// Logger is nil until Init succeeds. The package helpers drop messages until then.
var Logger *log.Logger

type Config struct {
	Path      string // log file, normally config.Config.LogPath()
	Level     string // empty means warn
	Stderr    bool
	MaxSizeMB int
	// Debug forces debug level, caller reporting and the stderr copy.
	Debug bool
}

func (c Config) level() log.Level {
	if c.Debug {
		return log.DebugLevel
	}
	if lvl, err := log.ParseLevel(c.Level); err == nil && c.Level != "" {
		return lvl
	}
	return log.WarnLevel
}

func Init(cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return err
	}

	size := cfg.MaxSizeMB
	if size <= 0 {
		size = 10
	}
	var out io.Writer = &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    size,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	if cfg.Debug || cfg.Stderr {
		out = io.MultiWriter(os.Stderr, out)
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           cfg.level(),
		Prefix:          constants.AppName,
	})
	return nil
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

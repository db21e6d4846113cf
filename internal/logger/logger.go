// Package logger provides file-based structured logging so terminal output
// stays clean.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/2ykwang/fitmac/internal/utils"
)

const logFileName = "debug.log"

var (
	configDir = utils.AppDataDir()
	logFile   *os.File
	Log       = slog.New(slog.NewJSONHandler(io.Discard, nil))
)

// Init initializes the logger.
// - debug=true: logs all levels (DEBUG+) to file
// - debug=false: logs WARN/ERROR only to file
func Init(debug bool) error {
	Close()

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return err
	}
	logFile = f

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}

	Log = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return nil
}

// Path returns the log file location.
func Path() string {
	return filepath.Join(configDir, logFileName)
}

// ForCategory returns a logger tagged with the scanner category.
func ForCategory(category string) *slog.Logger {
	return Log.With("category", category)
}

func Debug(msg string, args ...any) { Log.Debug(msg, args...) }
func Info(msg string, args ...any)  { Log.Info(msg, args...) }
func Warn(msg string, args ...any)  { Log.Warn(msg, args...) }
func Error(msg string, args ...any) { Log.Error(msg, args...) }

func Close() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

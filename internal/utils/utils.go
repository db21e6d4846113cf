package utils

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var (
	osUserHomeDir      = os.UserHomeDir
	osReadDir          = os.ReadDir
	execCommandContext = exec.CommandContext
)

// HomeDir returns the user's home directory, or "" if it cannot be resolved.
func HomeDir() string {
	home, err := osUserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func ExpandPath(path string) string {
	if path == "~" {
		if home := HomeDir(); home != "" {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		home := HomeDir()
		if home == "" {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ShortenPath replaces the home directory prefix with "~".
func ShortenPath(path string) string {
	home := HomeDir()
	if home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(filepath.Separator)) {
		return "~" + path[len(home):]
	}
	return path
}

func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatAge formats a time.Time as a human-readable age string
// Examples: "5m", "3h", "7d", "2mo", "1y"
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	hours := int(time.Since(t).Hours())
	days := hours / 24

	switch {
	case hours < 1:
		minutes := int(time.Since(t).Minutes())
		if minutes < 1 {
			return "<1m"
		}
		return fmt.Sprintf("%dm", minutes)
	case hours < 24:
		return fmt.Sprintf("%dh", hours)
	case days < 30:
		return fmt.Sprintf("%dd", days)
	case days < 365:
		return fmt.Sprintf("%dmo", days/30)
	default:
		return fmt.Sprintf("%dy", days/365)
	}
}

func PathExists(path string) bool {
	_, err := os.Lstat(ExpandPath(path))
	return err == nil
}

func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// IsReadable reports whether path exists and its contents can be listed
// (directories) or opened (files).
func IsReadable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		_, err = osReadDir(path)
		return err == nil
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

// IsHidden reports whether the base name starts with a dot.
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return len(base) > 1 && strings.HasPrefix(base, ".")
}

// GlobPaths expands "~" and matches pattern against the filesystem.
func GlobPaths(pattern string) ([]string, error) {
	return filepath.Glob(ExpandPath(pattern))
}

// HasFullDiskAccess checks whether the process can list the user's Trash,
// which macOS only allows with Full Disk Access.
func HasFullDiskAccess() bool {
	_, err := osReadDir(ExpandPath("~/.Trash"))
	return err == nil
}

// RunCommand runs name with args and returns combined output.
// It is a variable to allow mocking in tests.
var RunCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	return execCommandContext(ctx, name, args...).CombinedOutput()
}

// AppName names the per-user application data directory.
const AppName = "fitmac"

// AppDataDir returns ~/.config/fitmac, where logs, history and user
// configuration live.
func AppDataDir() string {
	return filepath.Join(ExpandPath("~"), ".config", AppName)
}

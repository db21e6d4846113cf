package utils

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const trashTimeout = 30 * time.Second

// ErrUnsafeTrashPath is returned for paths that cannot be passed to Finder.
var ErrUnsafeTrashPath = errors.New("path contains invalid characters")

// MoveToTrash moves a file or directory to the user's Trash.
// It is a variable to allow mocking in tests.
var MoveToTrash = moveToTrashImpl

func moveToTrashImpl(path string) error {
	if runtime.GOOS == "darwin" {
		return moveToFinderTrash(path)
	}
	return moveToFreedesktopTrash(path, time.Now())
}

func escapeForAppleScript(s string) (string, error) {
	if strings.ContainsAny(s, "\n\r") {
		return "", ErrUnsafeTrashPath
	}
	// backslash first
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`), nil
}

func moveToFinderTrash(path string) error {
	escaped, err := escapeForAppleScript(path)
	if err != nil {
		return fmt.Errorf("move to trash: %w", err)
	}

	script := fmt.Sprintf(`tell application "Finder" to delete POSIX file "%s"`, escaped)
	ctx, cancel := context.WithTimeout(context.Background(), trashTimeout)
	defer cancel()

	if out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("move to trash timeout: %s", path)
		}
		return fmt.Errorf("move to trash: %s: %w: %s", path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// trashHome follows the XDG trash layout ($XDG_DATA_HOME/Trash).
func trashHome() string {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return filepath.Join(d, "Trash")
	}
	return ExpandPath("~/.local/share/Trash")
}

// moveToFreedesktopTrash renames path into the home trash and writes the
// matching .trashinfo so file managers can restore it.
func moveToFreedesktopTrash(path string, now time.Time) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("move to trash: %w", err)
	}
	if _, err := os.Lstat(abs); err != nil {
		return fmt.Errorf("move to trash: %w", err)
	}

	home := trashHome()
	filesDir := filepath.Join(home, "files")
	infoDir := filepath.Join(home, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return fmt.Errorf("move to trash: %w", err)
		}
	}

	base := filepath.Base(abs)
	name := base
	var info *os.File
	for i := 1; ; i++ {
		info, err = os.OpenFile(filepath.Join(infoDir, name+".trashinfo"), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return fmt.Errorf("move to trash: %w", err)
		}
		name = base + "." + strconv.Itoa(i)
	}

	u := url.URL{Path: abs}
	_, werr := fmt.Fprintf(info, "[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		u.EscapedPath(), now.Format("2006-01-02T15:04:05"))
	info.Close()
	if werr != nil {
		os.Remove(info.Name())
		return fmt.Errorf("move to trash: %w", werr)
	}

	if err := os.Rename(abs, filepath.Join(filesDir, name)); err != nil {
		os.Remove(info.Name())
		return fmt.Errorf("move to trash: %s: %w", path, err)
	}
	return nil
}

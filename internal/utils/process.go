package utils

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

const lsofTimeout = 10 * time.Second

// OpenChildren returns the direct children of basePath that have an open
// file descriptor somewhere beneath them. Scanners use it to leave in-use
// temp and cache entries alone.
func OpenChildren(ctx context.Context, basePath string) (map[string]bool, error) {
	open := make(map[string]bool)
	if basePath == "" || !CommandExists("lsof") {
		return open, nil
	}

	base := filepath.Clean(ExpandPath(basePath))
	ctx, cancel := context.WithTimeout(ctx, lsofTimeout)
	defer cancel()

	output, err := execCommandContext(ctx, "lsof", "-nP", "-F", "n").CombinedOutput()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		// lsof exits 1 when some descriptors could not be listed.
		exitErr := &exec.ExitError{}
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
			return nil, err
		}
	}
	return parseOpenChildren(output, base), nil
}

func parseOpenChildren(output []byte, base string) map[string]bool {
	open := make(map[string]bool)
	for _, line := range strings.Split(string(output), "\n") {
		path, ok := strings.CutPrefix(line, "n")
		if !ok {
			continue
		}
		rel, err := filepath.Rel(base, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		top := strings.Split(rel, string(filepath.Separator))[0]
		if top == "" || top == "." {
			continue
		}
		open[filepath.Join(base, top)] = true
	}
	return open
}

// processNames lists executable names of running processes.
// It is a variable to allow mocking in tests.
var processNames = func(ctx context.Context) ([]string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// IsAppRunning reports whether a process named like the bundle (for
// "/Applications/Foo.app" that is "Foo") is running.
var IsAppRunning = func(ctx context.Context, appPath string) (bool, error) {
	want := strings.TrimSuffix(filepath.Base(appPath), ".app")
	if want == "" {
		return false, nil
	}
	names, err := processNames(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if strings.EqualFold(n, want) {
			return true, nil
		}
	}
	return false, nil
}

package utils

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T, home string) {
	t.Helper()
	original := osUserHomeDir
	osUserHomeDir = func() (string, error) { return home, nil }
	t.Cleanup(func() { osUserHomeDir = original })
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func TestExpandPath(t *testing.T) {
	withHome(t, "/home/tester")

	tests := []struct {
		input    string
		expected string
	}{
		{"~/test", "/home/tester/test"},
		{"~", "/home/tester"},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExpandPath(tt.input), "input %q", tt.input)
	}
}

func TestExpandPath_HomeError_ReturnsInput(t *testing.T) {
	original := osUserHomeDir
	osUserHomeDir = func() (string, error) { return "", errors.New("no home") }
	defer func() { osUserHomeDir = original }()

	assert.Equal(t, "~/x", ExpandPath("~/x"))
}

func TestShortenPath(t *testing.T) {
	withHome(t, "/home/tester")

	assert.Equal(t, "~/Library/Caches", ShortenPath("/home/tester/Library/Caches"))
	assert.Equal(t, "~", ShortenPath("/home/tester"))
	assert.Equal(t, "/home/testerx/a", ShortenPath("/home/testerx/a"))
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
		{1099511627776, "1.0 TB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatSize(tt.bytes))
	}
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "-", FormatAge(time.Time{}))
	assert.Equal(t, "<1m", FormatAge(time.Now()))
	assert.Equal(t, "3h", FormatAge(time.Now().Add(-3*time.Hour-time.Minute)))
	assert.Equal(t, "7d", FormatAge(time.Now().Add(-7*24*time.Hour-time.Hour)))
	assert.Equal(t, "2mo", FormatAge(time.Now().Add(-65*24*time.Hour)))
	assert.Equal(t, "1y", FormatAge(time.Now().Add(-400*24*time.Hour)))
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/a/.DS_Store"))
	assert.False(t, IsHidden("/a/b.txt"))
	assert.False(t, IsHidden("."))
}

func TestIsReadable(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	writeFile(t, file, 3)

	assert.True(t, IsReadable(dir))
	assert.True(t, IsReadable(file))
	assert.False(t, IsReadable(filepath.Join(dir, "missing")))
}

func TestIsReadable_UnlistableDir(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	require.NoError(t, os.Mkdir(dir, 0o000))
	defer os.Chmod(dir, 0o755)

	assert.False(t, IsReadable(dir))
}

func TestDirSize_SumsRegularFilesOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.bin"), 1000)
	writeFile(t, filepath.Join(root, "sub", "b.bin"), 2500)
	writeFile(t, filepath.Join(root, "sub", "deep", "c.bin"), 123)
	writeFile(t, filepath.Join(root, ".hidden"), 7)
	require.NoError(t, os.Symlink(filepath.Join(root, "a.bin"), filepath.Join(root, "link")))

	stat, err := DirSize(context.Background(), root, SizeOptions{})

	require.NoError(t, err)
	assert.Equal(t, int64(1000+2500+123+7), stat.Bytes)
	assert.Equal(t, int64(4), stat.Files)
}

func TestDirSize_HardLinkCountedOnce(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "orig"), 4096)
	require.NoError(t, os.Link(filepath.Join(root, "orig"), filepath.Join(root, "again")))

	stat, err := DirSize(context.Background(), root, SizeOptions{})

	require.NoError(t, err)
	assert.Equal(t, int64(4096), stat.Bytes)
	assert.Equal(t, int64(1), stat.Files)
}

func TestDirSize_SkipHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep"), 10)
	writeFile(t, filepath.Join(root, ".git", "objects", "x"), 500)
	writeFile(t, filepath.Join(root, ".DS_Store"), 6)

	stat, err := DirSize(context.Background(), root, SizeOptions{SkipHidden: true})

	require.NoError(t, err)
	assert.Equal(t, int64(10), stat.Bytes)
}

func TestDirSize_SkipPredicatePrunesSubtree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "cache", "x"), 10)
	writeFile(t, filepath.Join(root, "Cookies"), 99)

	stat, err := DirSize(context.Background(), root, SizeOptions{
		Skip: func(p string) bool { return strings.HasSuffix(p, "Cookies") },
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), stat.Bytes)
}

func TestDirSize_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a"), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DirSize(ctx, root, SizeOptions{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirSize_MissingRoot_IsZero(t *testing.T) {
	stat, err := DirSize(context.Background(), filepath.Join(t.TempDir(), "nope"), SizeOptions{})

	require.NoError(t, err)
	assert.Zero(t, stat.Bytes)
}

func TestPathSize_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	writeFile(t, file, 42)

	stat, err := PathSize(context.Background(), file, SizeOptions{})

	require.NoError(t, err)
	assert.Equal(t, SizeStat{Bytes: 42, Files: 1}, stat)
}

func TestRunCommand_CanBeMocked(t *testing.T) {
	original := RunCommand
	defer func() { RunCommand = original }()
	RunCommand = func(_ context.Context, name string, args ...string) ([]byte, error) {
		return []byte(name + " " + strings.Join(args, " ")), nil
	}

	out, err := RunCommand(context.Background(), "brew", "--prefix")

	require.NoError(t, err)
	assert.Equal(t, "brew --prefix", string(out))
}

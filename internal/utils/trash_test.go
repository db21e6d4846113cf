package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveToTrash_CanBeMocked(t *testing.T) {
	original := MoveToTrash
	defer func() { MoveToTrash = original }()

	var calledPath string
	MoveToTrash = func(path string) error {
		calledPath = path
		return nil
	}

	err := MoveToTrash("/test/path")

	assert.NoError(t, err)
	assert.Equal(t, "/test/path", calledPath)
}

func TestMoveToTrash_MockError(t *testing.T) {
	original := MoveToTrash
	defer func() { MoveToTrash = original }()

	MoveToTrash = func(path string) error {
		return fmt.Errorf("mock error: %s", path)
	}

	err := MoveToTrash("/test/path")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mock error")
}

func TestEscapeForAppleScript(t *testing.T) {
	got, err := escapeForAppleScript(`/Users/test\"path`)
	require.NoError(t, err)
	assert.Equal(t, `/Users/test\\\"path`, got)

	_, err = escapeForAppleScript("/Users/test/a\nb")
	assert.ErrorIs(t, err, ErrUnsafeTrashPath)
}

func TestMoveToFreedesktopTrash_MovesFileAndWritesInfo(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)

	src := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, moveToFreedesktopTrash(src, now))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))

	moved, err := os.ReadFile(filepath.Join(data, "Trash", "files", "report.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(moved))

	info, err := os.ReadFile(filepath.Join(data, "Trash", "info", "report.txt.trashinfo"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "DeletionDate=2026-01-02T03:04:05")
	assert.Contains(t, string(info), "Path="+src)
}

func TestMoveToFreedesktopTrash_NameCollisionGetsSuffix(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)

	for i := 0; i < 2; i++ {
		src := filepath.Join(t.TempDir(), "dup.log")
		require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
		require.NoError(t, moveToFreedesktopTrash(src, time.Now()))
	}

	assert.FileExists(t, filepath.Join(data, "Trash", "files", "dup.log"))
	assert.FileExists(t, filepath.Join(data, "Trash", "files", "dup.log.1"))
}

func TestMoveToFreedesktopTrash_MissingPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	err := moveToFreedesktopTrash(filepath.Join(t.TempDir(), "gone"), time.Now())

	assert.Error(t, err)
}

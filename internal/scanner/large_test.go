package scanner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2ykwang/fitmac/internal/types"
)

func TestLargeScanner_ThresholdAndLimit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.iso"), 5000)
	writeFile(t, filepath.Join(root, "nested", "b.mov"), 4000)
	writeFile(t, filepath.Join(root, "nested", "deep", "c.zip"), 3000)
	writeFile(t, filepath.Join(root, "small.txt"), 100)
	writeFile(t, filepath.Join(root, ".cache", "hidden.bin"), 9000)

	s := NewLargeScanner()
	result, err := s.Scan(context.Background(), types.ScanOptions{Root: root, MinSize: 1000})

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.iso"),
		filepath.Join(root, "nested", "b.mov"),
		filepath.Join(root, "nested", "deep", "c.zip"),
	}, itemPaths(result.Items))
	assert.Equal(t, "iso", column(result.Items[0], "Type"))

	limited, err := s.Scan(context.Background(), types.ScanOptions{Root: root, MinSize: 1000, MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, limited.Items, 2)
	assert.Equal(t, int64(9000), limited.TotalSize)
}

func TestLargeScanner_DefaultThreshold(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.bin"), 5000)

	result, err := NewLargeScanner().Scan(context.Background(), types.ScanOptions{Root: root})

	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestLargeScanner_InvalidRoot(t *testing.T) {
	_, err := NewLargeScanner().Scan(context.Background(), types.ScanOptions{Root: filepath.Join(t.TempDir(), "missing")})

	assert.ErrorIs(t, err, types.ErrInvalidPath)
}

func TestLargeScanner_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.bin"), 5000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewLargeScanner().Scan(ctx, types.ScanOptions{Root: root, MinSize: 1})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

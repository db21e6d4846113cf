package scanner

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/2ykwang/fitmac/internal/dupes"
	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/types"
)

func TestDuplicatesScanner_ItemsExcludeKeeper(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := bytes.Repeat([]byte("x"), 4096)
	require.NoError(t, afero.WriteFile(fs, "/data/a/photo.jpg", content, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/b/photo.jpg", content, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/unique.bin", bytes.Repeat([]byte("y"), 4096), 0o644))

	s := NewDuplicatesScanner(&inventory.Inventory{}, dupes.New(fs))
	result, err := s.Scan(context.Background(), types.ScanOptions{Root: "/data"})

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, types.CategoryDuplicates, result.Items[0].Category)
	assert.Equal(t, int64(4096), result.TotalSize)
	assert.Equal(t, "1", result.Info["groups"])
	assert.Equal(t, "3", result.Info["scanned_files"])
}

func TestDuplicatesScanner_SkipsProtectedPaths(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := bytes.Repeat([]byte("z"), 2048)
	require.NoError(t, afero.WriteFile(fs, "/data/keep/Cookies", content, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/data/copy/Cookies", content, 0o644))

	inv := &inventory.Inventory{Protected: inventory.Rules{Names: []string{"Cookies"}}}
	s := NewDuplicatesScanner(inv, dupes.New(fs))

	groups, err := s.ScanGroups(context.Background(), types.ScanOptions{Root: "/data"})

	require.NoError(t, err)
	assert.Empty(t, groups.Groups)
}

func TestDuplicatesScanner_InvalidRoot(t *testing.T) {
	s := NewDuplicatesScanner(nil, dupes.New(afero.NewMemMapFs()))

	_, err := s.Scan(context.Background(), types.ScanOptions{Root: "/nowhere"})

	assert.ErrorIs(t, err, types.ErrInvalidPath)
}

func TestDuplicatesScanner_MaxResultsCapsWalk(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := bytes.Repeat([]byte("d"), 4096)
	for i := range 20 {
		require.NoError(t, afero.WriteFile(fs, fmt.Sprintf("/data/copy%02d.bin", i), content, 0o644))
	}
	s := NewDuplicatesScanner(&inventory.Inventory{}, dupes.New(fs))

	capped, err := s.Scan(context.Background(), types.ScanOptions{Root: "/data", MaxResults: 4})
	require.NoError(t, err)
	assert.Equal(t, "4", capped.Info["scanned_files"])
	assert.Len(t, capped.Items, 3)

	full, err := s.Scan(context.Background(), types.ScanOptions{Root: "/data"})
	require.NoError(t, err)
	assert.Len(t, full.Items, 19)
}

func TestDuplicatesScanner_ConcurrentScansKeepOwnOptions(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := bytes.Repeat([]byte("c"), 4096)
	for i := range 10 {
		require.NoError(t, afero.WriteFile(fs, fmt.Sprintf("/data/copy%02d.bin", i), content, 0o644))
	}
	s := NewDuplicatesScanner(&inventory.Inventory{}, dupes.New(fs))

	var g errgroup.Group
	counts := make([]int, 2)
	for i, limit := range []int{3, 0} {
		g.Go(func() error {
			res, err := s.Scan(context.Background(), types.ScanOptions{Root: "/data", MaxResults: limit, Verify: i == 0})
			if err != nil {
				return err
			}
			counts[i] = len(res.Items)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, []int{2, 9}, counts)
}

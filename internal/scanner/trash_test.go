package scanner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/types"
)

func TestTrashScanner_OneCompositePerBin(t *testing.T) {
	root := t.TempDir()
	userBin := filepath.Join(root, "user", ".Trash")
	volumeBin := filepath.Join(root, "vol", ".Trashes", "501")

	writeFile(t, filepath.Join(userBin, "old.doc"), 100)
	writeFile(t, filepath.Join(userBin, "folder", "a"), 200)
	writeFile(t, filepath.Join(userBin, ".hidden-file"), 5)
	writeFile(t, filepath.Join(userBin, "empty.txt"), 0)
	writeFile(t, filepath.Join(userBin, ".DS_Store"), 6)
	writeFile(t, filepath.Join(volumeBin, "movie.mov"), 1000)
	mkdir(t, filepath.Join(root, "empty", ".Trash"))

	inv := &inventory.Inventory{Trash: []string{userBin, volumeBin, filepath.Join(root, "empty", ".Trash")}}
	result, err := NewTrashScanner(inv).Scan(context.Background(), types.ScanOptions{})

	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	user := result.Items[0]
	assert.Equal(t, userBin, user.Path)
	assert.Equal(t, types.MethodPermanent, user.Method)
	assert.Equal(t, int64(305), user.Size)
	assert.Len(t, user.SubItems, 4)
	assert.Equal(t, "4", column(user, "Items"))
	for _, sub := range user.SubItems {
		assert.Equal(t, types.MethodPermanent, sub.Method)
	}

	assert.Equal(t, int64(1000), result.Items[1].Size)
	assert.Equal(t, int64(1305), result.TotalSize)
}

func TestBinName(t *testing.T) {
	assert.Equal(t, "Trash", binName("/Users/me/.Trash"))
	assert.Equal(t, "Trash on Backup", binName("/Volumes/Backup/.Trashes/501"))
}

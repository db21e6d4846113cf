package scanner

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

// TrashScanner reports the contents of the user's trash bins. Each bin is a
// composite of its direct children; the bin directory itself stays.
type TrashScanner struct {
	inv *inventory.Inventory
}

func NewTrashScanner(inv *inventory.Inventory) *TrashScanner {
	return &TrashScanner{inv: inv}
}

func (s *TrashScanner) Category() types.Category {
	return types.CategoryTrash
}

func (s *TrashScanner) IsAvailable() bool {
	return len(inventory.ExpandAll(s.inv.Trash)) > 0
}

func (s *TrashScanner) Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error) {
	progress := progressFunc(opts)
	var items []types.Item

	for _, bin := range inventory.ExpandAll(s.inv.Trash) {
		if !utils.IsReadable(bin) {
			continue
		}
		var jobs []pathJob
		// .DS_Store and friends are bin metadata, but hidden user files still count
		for _, child := range listChildren(bin, false) {
			if filepath.Base(child) == ".DS_Store" {
				continue
			}
			jobs = append(jobs, pathJob{path: child})
		}
		subs := measurePaths(ctx, types.CategoryTrash, jobs, measureOptions{
			keepZero: true,
			method:   types.MethodPermanent,
		}, progress)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(subs) == 0 {
			continue
		}

		item := types.NewCompositeItem(bin, binName(bin), types.CategoryTrash, subs)
		item.Method = types.MethodPermanent
		item.Description = "items in trash"
		item.Columns = []types.Column{{Header: "Items", Value: strconv.Itoa(len(subs))}}
		items = append(items, item)
	}
	return types.NewScanResult(types.CategoryTrash, items), nil
}

// binName labels a bin by the volume it belongs to.
func binName(bin string) string {
	if rest, ok := strings.CutPrefix(bin, "/Volumes/"); ok {
		volume, _, _ := strings.Cut(rest, "/")
		return "Trash on " + volume
	}
	return "Trash"
}

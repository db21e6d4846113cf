package cleaner

import (
	"github.com/2ykwang/fitmac/internal/types"
)

// Progress reports the item about to be processed.
type Progress struct {
	Category    types.Category
	CurrentItem string
	Current     int
	Total       int
}

// ItemResult reports the outcome of one item.
type ItemResult struct {
	Item    types.Item
	Success bool
	Err     error
}

// Callbacks holds optional progress hooks. The zero value does nothing.
type Callbacks struct {
	OnProgress func(Progress)
	OnItemDone func(ItemResult)
}

func (c Callbacks) progress(p Progress) {
	if c.OnProgress != nil {
		c.OnProgress(p)
	}
}

func (c Callbacks) itemDone(r ItemResult) {
	if c.OnItemDone != nil {
		c.OnItemDone(r)
	}
}

// PrepareItems flattens scan results into one cleanup batch, dropping
// results for unselected categories and items the user excluded. A nil
// selected map selects every category.
func PrepareItems(
	results []*types.ScanResult,
	selected map[types.Category]bool,
	isExcluded func(cat types.Category, path string) bool,
) []types.Item {
	var items []types.Item
	for _, r := range results {
		if r == nil {
			continue
		}
		if selected != nil && !selected[r.Category] {
			continue
		}
		for _, item := range r.Items {
			if isExcluded != nil && isExcluded(r.Category, item.Path) {
				continue
			}
			items = append(items, item)
		}
	}
	return items
}

package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategory_Name_Known(t *testing.T) {
	assert.Equal(t, "Caches", CategoryCache.Name())
	assert.Equal(t, "Trash Bins", CategoryTrash.Name())
}

func TestCategory_Name_UnknownFallsBackToID(t *testing.T) {
	assert.Equal(t, "bogus", Category("bogus").Name())
	assert.False(t, Category("bogus").Valid())
}

func TestAllCategories_AreValid(t *testing.T) {
	for _, c := range AllCategories {
		assert.True(t, c.Valid(), "category %s", c)
	}
}

func TestNewCompositeItem_SizeIsSumOfSubItems(t *testing.T) {
	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	subs := []Item{
		{Path: "/a", Size: 100, FileCount: 1, ModifiedAt: older},
		{Path: "/b", Size: 250, ModifiedAt: newer},
	}

	item := NewCompositeItem("/root", "root", CategoryCache, subs)

	assert.True(t, item.IsComposite())
	assert.Equal(t, int64(350), item.Size)
	assert.Equal(t, int64(2), item.FileCount)
	assert.Equal(t, newer, item.ModifiedAt)
	assert.Equal(t, MethodTrash, item.Method)
}

func TestSortItems_BySize_Descending(t *testing.T) {
	items := []Item{{Path: "/a", Size: 1}, {Path: "/b", Size: 3}, {Path: "/c", Size: 2}}

	SortItems(items, SortBySize)

	assert.Equal(t, []string{"/b", "/c", "/a"}, []string{items[0].Path, items[1].Path, items[2].Path})
}

func TestSortItems_ByDate_NewestFirst(t *testing.T) {
	now := time.Now()
	items := []Item{
		{Path: "/old", ModifiedAt: now.Add(-2 * time.Hour)},
		{Path: "/new", ModifiedAt: now},
	}

	SortItems(items, SortByDate)

	assert.Equal(t, "/new", items[0].Path)
}

func TestScanOptions_HasSubCategory_EmptySelectsAll(t *testing.T) {
	assert.True(t, ScanOptions{}.HasSubCategory("browser"))
	assert.False(t, ScanOptions{SubCategories: []string{"system"}}.HasSubCategory("browser"))
}

func TestNewScanResult_ComputesTotalsAndBreakdown(t *testing.T) {
	items := []Item{
		{Path: "/a", Size: 10, FileCount: 2},
		{Path: "/b", Size: 5, Category: CategoryJunk},
	}

	r := NewScanResult(CategoryCache, items)

	assert.Equal(t, int64(15), r.TotalSize)
	assert.Equal(t, int64(3), r.TotalFileCount)
	assert.Equal(t, map[Category]int64{CategoryCache: 10, CategoryJunk: 5}, r.BySize())
	assert.False(t, r.ScannedAt.IsZero())
}

func TestNewScanResult_NilItemsBecomesEmpty(t *testing.T) {
	r := NewScanResult(CategoryTrash, nil)

	assert.NotNil(t, r.Items)
	assert.Empty(t, r.Items)
}

func TestCleanupResult_Accounting(t *testing.T) {
	r := NewCleanupResult(false)

	r.AddRemoved(Item{Path: "/a", Size: 7})
	r.AddFailed(Item{Path: "/b", Size: 9}, errors.New("boom"))
	r.AddFailed(Item{Path: "/c"}, nil)

	assert.Equal(t, int64(7), r.FreedSpace)
	assert.Equal(t, []string{"/a"}, r.Paths())
	assert.Equal(t, "boom", r.Failed[0].Error)
	assert.Equal(t, "unknown error", r.Failed[1].Error)
}

func TestDuplicateGroup_Wastage(t *testing.T) {
	g := DuplicateGroup{Size: 10, Files: make([]DuplicateFile, 3)}

	assert.Equal(t, 3, g.Count())
	assert.Equal(t, int64(20), g.Wastage())
	assert.Equal(t, int64(0), DuplicateGroup{Size: 10, Files: make([]DuplicateFile, 1)}.Wastage())
}

func TestDuplicatesResult_ReclaimableItems_KeepsNewest(t *testing.T) {
	now := time.Now()
	r := &DuplicatesResult{Groups: []DuplicateGroup{{
		Fingerprint: "0123456789abcdef",
		Size:        4,
		Files: []DuplicateFile{
			{Path: "/x/old", Size: 4, ModifiedAt: now.Add(-time.Hour)},
			{Path: "/x/new", Size: 4, ModifiedAt: now},
			{Path: "/x/older", Size: 4, ModifiedAt: now.Add(-2 * time.Hour)},
		},
	}}}

	items := r.ReclaimableItems()

	assert.Len(t, items, 2)
	for _, item := range items {
		assert.NotEqual(t, "/x/new", item.Path)
		assert.Equal(t, CategoryDuplicates, item.Category)
	}
	assert.Equal(t, int64(8), r.TotalWastage())
}

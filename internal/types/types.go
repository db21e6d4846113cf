package types

import (
	"sort"
	"time"
)

// Category identifies which scanner produced an item.
type Category string

const (
	CategoryCache      Category = "cache"
	CategoryJunk       Category = "junk"
	CategoryHomebrew   Category = "homebrew"
	CategoryLanguage   Category = "language"
	CategoryMail       Category = "mail"
	CategoryTrash      Category = "trash"
	CategoryLoginItems Category = "loginitems"
	CategorySystemApps Category = "systemapps"
	CategoryDuplicates Category = "duplicates"
	CategoryLarge      Category = "large"
	CategoryLeftovers  Category = "leftovers"
	CategoryITunes     Category = "itunes"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryCache,
	CategoryJunk,
	CategoryHomebrew,
	CategoryLanguage,
	CategoryMail,
	CategoryTrash,
	CategoryLoginItems,
	CategorySystemApps,
	CategoryDuplicates,
	CategoryLarge,
	CategoryLeftovers,
	CategoryITunes,
}

var categoryNames = map[Category]string{
	CategoryCache:      "Caches",
	CategoryJunk:       "System Junk",
	CategoryHomebrew:   "Homebrew",
	CategoryLanguage:   "Language Files",
	CategoryMail:       "Mail Attachments",
	CategoryTrash:      "Trash Bins",
	CategoryLoginItems: "Login Items",
	CategorySystemApps: "System Apps",
	CategoryDuplicates: "Duplicates",
	CategoryLarge:      "Large Files",
	CategoryLeftovers:  "App Leftovers",
	CategoryITunes:     "iTunes & iOS",
}

// Name returns the display name.
func (c Category) Name() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return string(c)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// CleanupMethod tells the executor how to remove an item.
type CleanupMethod string

const (
	// MethodTrash moves the item to a recoverable trash location.
	MethodTrash CleanupMethod = "trash"
	// MethodPermanent deletes in place. Used for trash bins and .DS_Store sweeps.
	MethodPermanent CleanupMethod = "permanent"
)

// RiskTier classifies how safe a bundled application is to remove.
type RiskTier string

const (
	RiskSafe           RiskTier = "safe"
	RiskCaution        RiskTier = "caution"
	RiskNotRecommended RiskTier = "not-recommended"
)

// Column represents an extra category-specific display value.
type Column struct {
	Header string // Column header (e.g., "Scope", "Risk")
	Value  string // Column value (e.g., "user", "caution")
}

// SortOrder represents the sorting criterion for items
type SortOrder string

const (
	SortBySize SortOrder = "size" // Size descending (default)
	SortByDate SortOrder = "date" // Modification date descending
	SortByName SortOrder = "name" // Name ascending (A→Z)
)

// SortItems sorts items in place. Sorting is always a post-scan step.
func SortItems(items []Item, order SortOrder) {
	sort.SliceStable(items, func(i, j int) bool {
		switch order {
		case SortByDate:
			return items[i].ModifiedAt.After(items[j].ModifiedAt)
		case SortByName:
			return items[i].Name < items[j].Name
		default:
			if items[i].Size != items[j].Size {
				return items[i].Size > items[j].Size
			}
			return items[i].Path < items[j].Path
		}
	})
}

// Item is a unit of reclaimable disk space.
//
// When SubItems is non-empty the item is composite: Size is the sum of the
// sub-item sizes and cleanup targets the sub-items only.
type Item struct {
	Path        string
	Name        string
	Category    Category
	Size        int64
	FileCount   int64
	IsDirectory bool
	ModifiedAt  time.Time // zero when unknown
	Description string
	Method      CleanupMethod
	Columns     []Column
	SubItems    []Item
}

// IsComposite reports whether the item represents a filtered file collection.
func (i Item) IsComposite() bool {
	return len(i.SubItems) > 0
}

// NewCompositeItem builds a composite item whose size and file count are
// derived from subs.
func NewCompositeItem(path, name string, cat Category, subs []Item) Item {
	item := Item{
		Path:        path,
		Name:        name,
		Category:    cat,
		IsDirectory: true,
		Method:      MethodTrash,
		SubItems:    subs,
	}
	for _, s := range subs {
		item.Size += s.Size
		item.FileCount += max(s.FileCount, 1)
		if s.ModifiedAt.After(item.ModifiedAt) {
			item.ModifiedAt = s.ModifiedAt
		}
	}
	return item
}

// ScanOptions tunes a single scan invocation. Zero values mean scanner defaults.
type ScanOptions struct {
	SubCategories []string
	MinSize       int64
	Root          string
	MaxResults    int
	// Verify asks detectors to confirm matches byte for byte.
	Verify bool
	// Progress receives a running count of scanned entries. It may be
	// called from several goroutines.
	Progress func(scanned int)
}

// HasSubCategory reports whether name is selected. An empty selection selects all.
func (o ScanOptions) HasSubCategory(name string) bool {
	if len(o.SubCategories) == 0 {
		return true
	}
	for _, s := range o.SubCategories {
		if s == name {
			return true
		}
	}
	return false
}

// ScanResult is an immutable snapshot produced by one scan call.
type ScanResult struct {
	Category       Category
	Items          []Item
	TotalSize      int64
	TotalFileCount int64
	ScannedAt      time.Time
	// Info carries category aggregates such as the Homebrew prefix.
	Info map[string]string
}

// NewScanResult computes totals for items.
func NewScanResult(cat Category, items []Item) *ScanResult {
	if items == nil {
		items = make([]Item, 0)
	}
	r := &ScanResult{
		Category:  cat,
		Items:     items,
		ScannedAt: time.Now(),
		Info:      make(map[string]string),
	}
	for _, item := range items {
		r.TotalSize += item.Size
		r.TotalFileCount += max(item.FileCount, 1)
	}
	return r
}

// BySize returns the size breakdown keyed by item category.
func (r *ScanResult) BySize() map[Category]int64 {
	sizes := make(map[Category]int64)
	for _, item := range r.Items {
		cat := item.Category
		if cat == "" {
			cat = r.Category
		}
		sizes[cat] += item.Size
	}
	return sizes
}

// FailedItem pairs an item with the reason its removal failed.
type FailedItem struct {
	Item  Item
	Error string
}

// CleanupResult is the outcome of one cleanup batch. Dry runs and commits
// share this shape so previews compare directly with outcomes.
type CleanupResult struct {
	Removed    []Item
	Failed     []FailedItem
	FreedSpace int64
	// ReclaimedBytes counts sub-item bytes removed from composites that
	// ultimately failed. It is never part of FreedSpace.
	ReclaimedBytes int64
	DryRun         bool
	CompletedAt    time.Time
}

// NewCleanupResult returns an empty result.
func NewCleanupResult(dryRun bool) *CleanupResult {
	return &CleanupResult{
		Removed: make([]Item, 0),
		Failed:  make([]FailedItem, 0),
		DryRun:  dryRun,
	}
}

// AddRemoved records a removed item and its freed size.
func (r *CleanupResult) AddRemoved(item Item) {
	r.Removed = append(r.Removed, item)
	r.FreedSpace += item.Size
}

// AddFailed records a failed item.
func (r *CleanupResult) AddFailed(item Item, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	r.Failed = append(r.Failed, FailedItem{Item: item, Error: msg})
}

// Paths lists removed paths in order.
func (r *CleanupResult) Paths() []string {
	paths := make([]string, 0, len(r.Removed))
	for _, item := range r.Removed {
		paths = append(paths, item.Path)
	}
	return paths
}

package types

import (
	"path/filepath"
	"time"
)

// DuplicateFile is one member of a duplicate group.
type DuplicateFile struct {
	Path        string
	Size        int64
	Fingerprint string
	ModifiedAt  time.Time
	FileType    string
}

// DuplicateGroup holds files that share a size and fingerprint.
type DuplicateGroup struct {
	Fingerprint string
	Size        int64
	Files       []DuplicateFile
}

// Count returns the number of copies.
func (g DuplicateGroup) Count() int {
	return len(g.Files)
}

// Wastage returns the bytes recoverable by keeping a single copy.
func (g DuplicateGroup) Wastage() int64 {
	if len(g.Files) < 2 {
		return 0
	}
	return g.Size * int64(len(g.Files)-1)
}

// Keeper returns the index of the copy that should survive: the most
// recently modified one, ties broken by the shortest path.
func (g DuplicateGroup) Keeper() int {
	keep := 0
	for i := 1; i < len(g.Files); i++ {
		a, b := g.Files[i], g.Files[keep]
		if a.ModifiedAt.After(b.ModifiedAt) ||
			(a.ModifiedAt.Equal(b.ModifiedAt) && len(a.Path) < len(b.Path)) {
			keep = i
		}
	}
	return keep
}

// DuplicatesResult is the outcome of a duplicate scan.
type DuplicatesResult struct {
	Groups       []DuplicateGroup
	ScannedFiles int
	// CandidateFiles counts files that shared a size with another file.
	CandidateFiles int
	HashedFiles    int
	ScannedAt      time.Time
}

// TotalWastage sums the wastage of every group.
func (r *DuplicatesResult) TotalWastage() int64 {
	var total int64
	for _, g := range r.Groups {
		total += g.Wastage()
	}
	return total
}

// ReclaimableItems converts each group into items for every copy except
// the keeper.
func (r *DuplicatesResult) ReclaimableItems() []Item {
	items := make([]Item, 0)
	for _, g := range r.Groups {
		keep := g.Keeper()
		for i, f := range g.Files {
			if i == keep {
				continue
			}
			items = append(items, Item{
				Path:        f.Path,
				Name:        filepath.Base(f.Path),
				Category:    CategoryDuplicates,
				Size:        f.Size,
				FileCount:   1,
				ModifiedAt:  f.ModifiedAt,
				Description: "copy of " + g.Files[keep].Path,
				Method:      MethodTrash,
				Columns: []Column{
					{Header: "Type", Value: f.FileType},
					{Header: "Group", Value: g.Fingerprint[:min(8, len(g.Fingerprint))]},
				},
			})
		}
	}
	return items
}

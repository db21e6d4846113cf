package scanner

import (
	"context"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

const subBrowser = "browser"

// CacheScanner reports system, application, browser and developer caches.
//
// Browser data directories are never offered whole: each becomes one
// composite item listing only the descendant files that pass the
// protection rules.
type CacheScanner struct {
	inv *inventory.Inventory
}

func NewCacheScanner(inv *inventory.Inventory) *CacheScanner {
	return &CacheScanner{inv: inv}
}

func (s *CacheScanner) Category() types.Category {
	return types.CategoryCache
}

func (s *CacheScanner) IsAvailable() bool {
	for _, sub := range inventory.CacheSubCategories {
		if len(inventory.ExpandAll(s.inv.CacheTemplates(sub))) > 0 {
			return true
		}
	}
	return false
}

func (s *CacheScanner) Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error) {
	log := logger.ForCategory(string(types.CategoryCache))
	progress := progressFunc(opts)

	// Every concrete cache path, so listing roots can leave out children
	// that another sub-category reports more precisely.
	specific := make(map[string]bool)
	for _, sub := range inventory.CacheSubCategories {
		for _, p := range inventory.ExpandAll(s.inv.CacheTemplates(sub)) {
			if !s.inv.IsListingRoot(p) {
				specific[p] = true
			}
		}
	}

	var items []types.Item
	perSub := make(map[string]int64)
	seen := make(map[string]bool)

	for _, sub := range inventory.CacheSubCategories {
		if !opts.HasSubCategory(sub) {
			continue
		}
		columns := []types.Column{{Header: "Type", Value: sub}}

		var jobs []pathJob
		for _, root := range inventory.ExpandAll(s.inv.CacheTemplates(sub)) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if seen[root] || !utils.IsReadable(root) {
				log.Debug("skipping cache root", "path", root)
				continue
			}
			seen[root] = true

			if sub == subBrowser {
				item, ok, err := s.browserComposite(ctx, root)
				if err != nil {
					return nil, err
				}
				progress(len(items) + 1)
				if ok {
					item.Columns = columns
					items = append(items, item)
					perSub[sub] += item.Size
				}
				continue
			}

			if !s.inv.IsListingRoot(root) {
				jobs = append(jobs, pathJob{path: root, description: sub + " cache", columns: columns})
				continue
			}
			for _, child := range listChildren(root, true) {
				if coversSpecific(child, specific) || s.inv.IsProtected(child) {
					continue
				}
				jobs = append(jobs, pathJob{path: child, description: sub + " cache", columns: columns})
			}
		}

		measured := measurePaths(ctx, types.CategoryCache, jobs, measureOptions{}, progress)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, item := range measured {
			perSub[sub] += item.Size
		}
		items = append(items, measured...)
	}

	result := types.NewScanResult(types.CategoryCache, items)
	for sub, size := range perSub {
		result.Info[sub] = strconv.FormatInt(size, 10)
	}
	return result, nil
}

// coversSpecific reports whether child is, or contains, a path another
// sub-category owns.
func coversSpecific(child string, specific map[string]bool) bool {
	for p := range specific {
		if isWithin(p, child) {
			return true
		}
	}
	return false
}

// browserComposite collects every regular, non-hidden, non-empty file below
// root that is not protected. ok is false when nothing is reclaimable.
func (s *CacheScanner) browserComposite(ctx context.Context, root string) (types.Item, bool, error) {
	var subs []types.Item

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if utils.IsHidden(path) || s.inv.IsProtected(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.Size() == 0 {
			return nil
		}
		subs = append(subs, types.Item{
			Path:       path,
			Name:       d.Name(),
			Category:   types.CategoryCache,
			Size:       info.Size(),
			FileCount:  1,
			ModifiedAt: info.ModTime(),
			Method:     types.MethodTrash,
		})
		return nil
	})
	if err != nil && ctx.Err() != nil {
		return types.Item{}, false, ctx.Err()
	}
	if len(subs) == 0 {
		return types.Item{}, false, nil
	}

	item := types.NewCompositeItem(root, utils.ShortenPath(root), types.CategoryCache, subs)
	item.Description = "browser cache (protected files excluded)"
	return item, true, nil
}

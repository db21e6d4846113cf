package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

const (
	junkTemp      = "temp"
	junkDownloads = "downloads"
	junkAutosave  = "autosave"
	junkDSStore   = "dsstore"

	staleStubAge  = 30 * 24 * time.Hour
	staleStubSize = 1024
)

var (
	brokenDownloadExts = map[string]bool{"crdownload": true, "tmp": true, "download": true, "part": true}
	installerStubExts  = map[string]bool{"dmg": true, "pkg": true, "zip": true}

	// bundle directories whose insides belong to the bundle, not the user
	packageExts = map[string]bool{".app": true, ".bundle": true, ".framework": true, ".photoslibrary": true, ".pkg": true}
)

// JunkScanner reports temporary files, broken downloads, autosaved
// document versions and .DS_Store litter.
type JunkScanner struct {
	inv          *inventory.Inventory
	now          func() time.Time
	openChildren func(ctx context.Context, base string) (map[string]bool, error)
}

func NewJunkScanner(inv *inventory.Inventory) *JunkScanner {
	return &JunkScanner{inv: inv, now: time.Now, openChildren: utils.OpenChildren}
}

func (s *JunkScanner) Category() types.Category {
	return types.CategoryJunk
}

func (s *JunkScanner) IsAvailable() bool {
	return true
}

func (s *JunkScanner) Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error) {
	progress := progressFunc(opts)
	var items []types.Item

	if opts.HasSubCategory(junkTemp) {
		items = append(items, measurePaths(ctx, types.CategoryJunk, s.tempJobs(ctx), measureOptions{}, progress)...)
	}
	if opts.HasSubCategory(junkDownloads) {
		items = append(items, s.brokenDownloads()...)
	}
	if opts.HasSubCategory(junkAutosave) {
		var jobs []pathJob
		for _, dir := range inventory.ExpandAll(s.inv.Autosave) {
			for _, child := range listChildren(dir, true) {
				jobs = append(jobs, pathJob{path: child, description: "auto-saved document version", columns: junkColumns(junkAutosave)})
			}
		}
		items = append(items, measurePaths(ctx, types.CategoryJunk, jobs, measureOptions{}, progress)...)
	}
	if opts.HasSubCategory(junkDSStore) {
		if item, ok := s.dsStoreComposite(ctx); ok {
			items = append(items, item)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return types.NewScanResult(types.CategoryJunk, items), nil
}

func junkColumns(kind string) []types.Column {
	return []types.Column{{Header: "Type", Value: kind}}
}

// tempJobs lists temp directory children that no process holds open.
func (s *JunkScanner) tempJobs(ctx context.Context) []pathJob {
	log := logger.ForCategory(string(types.CategoryJunk))
	var jobs []pathJob
	seen := make(map[string]bool)

	for _, dir := range inventory.ExpandAll(s.inv.Temp) {
		real, err := filepath.EvalSymlinks(dir)
		if err != nil || seen[real] || !utils.IsReadable(real) {
			continue
		}
		seen[real] = true

		inUse, err := s.openChildren(ctx, real)
		if err != nil {
			log.Debug("open file lookup failed", "path", real, "error", err)
			inUse = map[string]bool{}
		}
		for _, child := range listChildren(real, true) {
			if inUse[child] {
				continue
			}
			jobs = append(jobs, pathJob{path: child, description: "temporary file", columns: junkColumns(junkTemp)})
		}
	}
	return jobs
}

// brokenDownloads finds partial downloads and tiny stale installer stubs.
func (s *JunkScanner) brokenDownloads() []types.Item {
	var items []types.Item
	dir := utils.ExpandPath(s.inv.Downloads)
	for _, path := range listChildren(dir, true) {
		info, err := os.Lstat(path)
		if err != nil {
			continue
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

		var desc string
		switch {
		case brokenDownloadExts[ext]:
			desc = "incomplete download"
		case installerStubExts[ext] && info.Mode().IsRegular() &&
			info.Size() > 0 && info.Size() < staleStubSize && s.now().Sub(info.ModTime()) > staleStubAge:
			desc = "broken installer stub"
		default:
			continue
		}

		item, err := measurePath(context.Background(), types.CategoryJunk, pathJob{
			path: path, description: desc, columns: junkColumns(junkDownloads),
		}, measureOptions{})
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	return items
}

// dsStoreComposite gathers .DS_Store files below the configured roots. The
// files are removed in place; Finder recreates them on demand.
func (s *JunkScanner) dsStoreComposite(ctx context.Context) (types.Item, bool) {
	home := utils.ExpandPath("~")
	seen := make(map[string]bool)
	var subs []types.Item

	for _, root := range inventory.ExpandAll(s.inv.DSStoreRoots) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path == root {
					return nil
				}
				if utils.IsHidden(path) || packageExts[filepath.Ext(path)] ||
					path == filepath.Join(home, "Library") {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Name() != ".DS_Store" || seen[path] || !d.Type().IsRegular() {
				return nil
			}
			seen[path] = true
			info, err := d.Info()
			if err != nil {
				return nil
			}
			subs = append(subs, types.Item{
				Path:       path,
				Name:       d.Name(),
				Category:   types.CategoryJunk,
				Size:       info.Size(),
				FileCount:  1,
				ModifiedAt: info.ModTime(),
				Method:     types.MethodPermanent,
			})
			return nil
		})
	}
	if len(subs) == 0 || ctx.Err() != nil {
		return types.Item{}, false
	}

	item := types.NewCompositeItem(home, ".DS_Store files", types.CategoryJunk, subs)
	item.Method = types.MethodPermanent
	item.Description = "Finder view settings, recreated automatically"
	item.Columns = junkColumns(junkDSStore)
	return item, true
}

package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"howett.net/plist"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/types"
)

const (
	itunesBackups    = "backups"
	itunesPodcasts   = "podcasts"
	itunesMobileApps = "mobileapps"
)

// ITunesScanner reports iOS device backups, downloaded podcast episodes and
// legacy iTunes app archives.
type ITunesScanner struct {
	inv *inventory.Inventory
}

func NewITunesScanner(inv *inventory.Inventory) *ITunesScanner {
	return &ITunesScanner{inv: inv}
}

func (s *ITunesScanner) Category() types.Category {
	return types.CategoryITunes
}

func (s *ITunesScanner) IsAvailable() bool {
	paths := append([]string{s.inv.ITunes.Backups}, s.inv.ITunes.Podcasts...)
	paths = append(paths, s.inv.ITunes.MobileApps...)
	return len(inventory.ExpandAll(paths)) > 0
}

func (s *ITunesScanner) Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error) {
	progress := progressFunc(opts)
	column := func(kind string) []types.Column {
		return []types.Column{{Header: "Type", Value: kind}}
	}

	var jobs []pathJob
	if opts.HasSubCategory(itunesBackups) {
		for _, backups := range inventory.Expand(s.inv.ITunes.Backups) {
			for _, dir := range listChildren(backups, true) {
				if info, err := os.Stat(dir); err != nil || !info.IsDir() {
					continue
				}
				jobs = append(jobs, pathJob{
					path:        dir,
					description: backupDeviceName(dir) + " backup",
					columns:     column(itunesBackups),
				})
			}
		}
	}
	if opts.HasSubCategory(itunesPodcasts) {
		for _, dir := range inventory.ExpandAll(s.inv.ITunes.Podcasts) {
			jobs = append(jobs, pathJob{path: dir, description: "downloaded podcast episodes", columns: column(itunesPodcasts)})
		}
	}

	items := measurePaths(ctx, types.CategoryITunes, jobs, measureOptions{}, progress)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.HasSubCategory(itunesMobileApps) {
		for _, dir := range inventory.ExpandAll(s.inv.ITunes.MobileApps) {
			var ipaJobs []pathJob
			for _, p := range listChildren(dir, true) {
				if strings.EqualFold(filepath.Ext(p), ".ipa") {
					ipaJobs = append(ipaJobs, pathJob{path: p})
				}
			}
			subs := measurePaths(ctx, types.CategoryITunes, ipaJobs, measureOptions{}, progress)
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if len(subs) == 0 {
				continue
			}
			item := types.NewCompositeItem(dir, "Old iOS apps", types.CategoryITunes, subs)
			item.Description = strconv.Itoa(len(subs)) + " .ipa files"
			item.Columns = column(itunesMobileApps)
			items = append(items, item)
		}
	}

	return types.NewScanResult(types.CategoryITunes, items), nil
}

// backupDeviceName reads the device name recorded in a backup's Info.plist.
func backupDeviceName(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "Info.plist"))
	if err != nil {
		return "iOS device"
	}
	var info map[string]any
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return "iOS device"
	}
	for _, key := range []string{"Display Name", "Device Name"} {
		if name, ok := info[key].(string); ok && name != "" {
			return name
		}
	}
	return "iOS device"
}


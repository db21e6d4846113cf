package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

// LeftoversScanner finds support files left behind by an application,
// matched by app name or bundle identifier.
type LeftoversScanner struct {
	inv *inventory.Inventory
}

func NewLeftoversScanner(inv *inventory.Inventory) *LeftoversScanner {
	return &LeftoversScanner{inv: inv}
}

func (s *LeftoversScanner) Category() types.Category {
	return types.CategoryLeftovers
}

func (s *LeftoversScanner) IsAvailable() bool {
	return len(s.inv.Leftovers) > 0
}

// Scan needs the application in opts.Root, or in opts.SubCategories[0].
func (s *LeftoversScanner) Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error) {
	app := strings.TrimSpace(opts.Root)
	if app == "" && len(opts.SubCategories) > 0 {
		app = strings.TrimSpace(opts.SubCategories[0])
	}
	app = strings.TrimSuffix(app, ".app")
	if !inventory.ValidAppIdentifier(app) {
		return nil, fmt.Errorf("application name %q: %w", app, types.ErrInvalidPath)
	}

	names := []string{app}
	if id := s.bundleID(app); inventory.ValidAppIdentifier(id) && id != app {
		names = append(names, id)
	}

	seen := make(map[string]bool)
	var jobs []pathJob
	for _, name := range names {
		for _, p := range s.inv.ExpandForApp(name) {
			if seen[p] || s.inv.IsProtected(p) || utils.IsSIPProtected(p) {
				continue
			}
			seen[p] = true
			jobs = append(jobs, pathJob{
				path:        p,
				description: "left by " + app,
				columns:     []types.Column{{Header: "Location", Value: utils.ShortenPath(filepath.Dir(p))}},
			})
		}
	}

	items := measurePaths(ctx, types.CategoryLeftovers, dedupeJobs(jobs), measureOptions{keepZero: true}, progressFunc(opts))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := types.NewScanResult(types.CategoryLeftovers, items)
	result.Info["app"] = app
	if len(names) > 1 {
		result.Info["bundle_id"] = names[1]
	}
	return result, nil
}

// bundleID reads CFBundleIdentifier from an installed app of that name.
func (s *LeftoversScanner) bundleID(app string) string {
	for _, dir := range inventory.ExpandAll(s.inv.Applications) {
		data, err := os.ReadFile(filepath.Join(dir, app+".app", "Contents", "Info.plist"))
		if err != nil {
			continue
		}
		var info struct {
			ID string `plist:"CFBundleIdentifier"`
		}
		if _, err := plist.Unmarshal(data, &info); err == nil && info.ID != "" {
			return info.ID
		}
	}
	return ""
}

package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

// bundledApp is one row of the bundled application risk table.
type bundledApp struct {
	bundleID string
	name     string
	kind     string
	risk     types.RiskTier
}

var bundledApps = []bundledApp{
	{"com.apple.garageband10", "GarageBand", "creativity", types.RiskSafe},
	{"com.apple.iMovieApp", "iMovie", "creativity", types.RiskSafe},
	{"com.apple.Photos", "Photos", "creativity", types.RiskNotRecommended},
	{"com.apple.Music", "Music", "creativity", types.RiskCaution},
	{"com.apple.podcasts", "Podcasts", "creativity", types.RiskSafe},
	{"com.apple.news", "News", "productivity", types.RiskSafe},
	{"com.apple.stocks", "Stocks", "productivity", types.RiskSafe},
	{"com.apple.Maps", "Maps", "productivity", types.RiskCaution},
	{"com.apple.FaceTime", "FaceTime", "productivity", types.RiskNotRecommended},
	{"com.apple.freeform", "Freeform", "productivity", types.RiskSafe},
	{"com.apple.iWork.Keynote", "Keynote", "productivity", types.RiskCaution},
	{"com.apple.iWork.Numbers", "Numbers", "productivity", types.RiskCaution},
	{"com.apple.iWork.Pages", "Pages", "productivity", types.RiskCaution},
	{"com.apple.dt.Xcode", "Xcode", "developer", types.RiskCaution},
	{"com.apple.Safari", "Safari", "productivity", types.RiskNotRecommended},
	{"com.apple.mail", "Mail", "productivity", types.RiskNotRecommended},
	{"com.apple.Terminal", "Terminal", "developer", types.RiskNotRecommended},
	{"com.apple.TextEdit", "TextEdit", "productivity", types.RiskCaution},
	{"com.apple.Preview", "Preview", "productivity", types.RiskNotRecommended},
	{"com.apple.finder", "Finder", "productivity", types.RiskNotRecommended},
}

// SystemAppsScanner looks up the bundled applications in the risk table
// and measures the installed ones.
type SystemAppsScanner struct {
	inv *inventory.Inventory
}

func NewSystemAppsScanner(inv *inventory.Inventory) *SystemAppsScanner {
	return &SystemAppsScanner{inv: inv}
}

func (s *SystemAppsScanner) Category() types.Category {
	return types.CategorySystemApps
}

func (s *SystemAppsScanner) IsAvailable() bool {
	return len(inventory.ExpandAll(s.inv.SystemApps)) > 0
}

// locate returns the first search directory holding name.app.
func (s *SystemAppsScanner) locate(name string) string {
	for _, dir := range inventory.ExpandAll(s.inv.SystemApps) {
		p := filepath.Join(dir, name+".app")
		if utils.PathExists(p) {
			return p
		}
	}
	return ""
}

// SystemApps returns the installed table entries with their sizes.
func (s *SystemAppsScanner) SystemApps(ctx context.Context) ([]types.SystemApp, error) {
	var apps []types.SystemApp
	for _, row := range bundledApps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := s.locate(row.name)
		if path == "" {
			continue
		}
		stat, err := utils.PathSize(ctx, path, utils.SizeOptions{})
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		apps = append(apps, types.SystemApp{
			BundleID: row.bundleID,
			Name:     row.name,
			Kind:     row.kind,
			Risk:     row.risk,
			Path:     path,
			Size:     stat.Bytes,
		})
	}
	return apps, nil
}

// FindSystemApp matches name against the table by display name or bundle id.
func (s *SystemAppsScanner) FindSystemApp(ctx context.Context, name string) (types.SystemApp, error) {
	apps, err := s.SystemApps(ctx)
	if err != nil {
		return types.SystemApp{}, err
	}
	name = strings.TrimSuffix(name, ".app")
	for _, app := range apps {
		if strings.EqualFold(app.Name, name) || strings.EqualFold(app.BundleID, name) {
			return app, nil
		}
	}
	return types.SystemApp{}, fmt.Errorf("system app %q: %w", name, types.ErrNotFound)
}

func (s *SystemAppsScanner) Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error) {
	apps, err := s.SystemApps(ctx)
	if err != nil {
		return nil, err
	}
	progress := progressFunc(opts)

	items := make([]types.Item, 0, len(apps))
	for i, app := range apps {
		progress(i + 1)
		if !opts.HasSubCategory(string(app.Risk)) {
			continue
		}
		items = append(items, types.Item{
			Path:        app.Path,
			Name:        app.Name,
			Category:    types.CategorySystemApps,
			Size:        app.Size,
			FileCount:   1,
			IsDirectory: true,
			Description: app.BundleID,
			Method:      types.MethodTrash,
			Columns: []types.Column{
				{Header: "Kind", Value: app.Kind},
				{Header: "Risk", Value: string(app.Risk)},
			},
		})
	}
	return types.NewScanResult(types.CategorySystemApps, items), nil
}

package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

const brewPrefixTimeout = 10 * time.Second

var partialDownloadExts = []string{".incomplete", ".partial", ".downloading"}

// BrewScanner reports Homebrew download caches, logs and outdated kegs.
type BrewScanner struct {
	inv *inventory.Inventory
}

func NewBrewScanner(inv *inventory.Inventory) *BrewScanner {
	return &BrewScanner{inv: inv}
}

func (s *BrewScanner) Category() types.Category {
	return types.CategoryHomebrew
}

func (s *BrewScanner) IsAvailable() bool {
	return s.prefix(context.Background()) != ""
}

// prefix locates the Homebrew installation, asking brew first and falling
// back to the well-known locations.
func (s *BrewScanner) prefix(ctx context.Context) string {
	if utils.CommandExists("brew") {
		ctx, cancel := context.WithTimeout(ctx, brewPrefixTimeout)
		defer cancel()
		if out, err := utils.RunCommand(ctx, "brew", "--prefix"); err == nil {
			if p := strings.TrimSpace(string(out)); p != "" && utils.PathExists(p) {
				return p
			}
		}
	}
	for _, p := range s.inv.Homebrew.FallbackPrefixes {
		p = utils.ExpandPath(p)
		if utils.PathExists(p) {
			return p
		}
	}
	return ""
}

func (s *BrewScanner) Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error) {
	log := logger.ForCategory(string(types.CategoryHomebrew))
	prefix := s.prefix(ctx)

	var jobs []pathJob
	add := func(path, kind, desc string) {
		jobs = append(jobs, pathJob{
			path:        path,
			description: desc,
			columns:     []types.Column{{Header: "Type", Value: kind}},
		})
	}

	if prefix != "" {
		for _, dir := range []string{"Caches", "downloads"} {
			if p := filepath.Join(prefix, dir); utils.IsReadable(p) {
				add(p, "cache", "Homebrew download cache")
			}
		}
		cellar := filepath.Join(prefix, "Cellar")
		for _, p := range partialDownloads(cellar) {
			add(p, "partial", "interrupted download")
		}
		for _, p := range listChildren(filepath.Join(prefix, "var", "log"), true) {
			add(p, "log", "Homebrew service log")
		}
		for _, p := range oldKegVersions(cellar) {
			add(p, "old version", "superseded formula version")
		}
	} else {
		log.Debug("homebrew prefix not found")
	}

	if cache := utils.ExpandPath(s.inv.Homebrew.UserCache); utils.IsReadable(cache) {
		exclude := make(map[string]bool)
		for _, name := range s.inv.Homebrew.UserCacheExclude {
			exclude[name] = true
		}
		for _, p := range listChildren(cache, true) {
			if !exclude[filepath.Base(p)] {
				add(p, "user cache", "Homebrew user cache")
			}
		}
	}

	items := measurePaths(ctx, types.CategoryHomebrew, dedupeJobs(jobs), measureOptions{}, progressFunc(opts))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := types.NewScanResult(types.CategoryHomebrew, items)
	result.Info["prefix"] = prefix
	return result, nil
}

// partialDownloads returns files in the Cellar tree left behind by an
// interrupted download.
func partialDownloads(cellar string) []string {
	var out []string
	for _, formula := range listChildren(cellar, true) {
		for _, version := range listChildren(formula, true) {
			for _, p := range listChildren(version, true) {
				for _, ext := range partialDownloadExts {
					if strings.HasSuffix(p, ext) {
						out = append(out, p)
						break
					}
				}
			}
		}
	}
	return out
}

// oldKegVersions returns every version directory except the most recently
// modified one per formula.
func oldKegVersions(cellar string) []string {
	type version struct {
		path    string
		modTime time.Time
	}

	var out []string
	for _, formula := range listChildren(cellar, true) {
		var versions []version
		for _, p := range listChildren(formula, true) {
			info, err := os.Lstat(p)
			if err != nil || !info.IsDir() {
				continue
			}
			versions = append(versions, version{path: p, modTime: info.ModTime()})
		}
		if len(versions) < 2 {
			continue
		}
		sort.Slice(versions, func(i, j int) bool {
			if !versions[i].modTime.Equal(versions[j].modTime) {
				return versions[i].modTime.After(versions[j].modTime)
			}
			return versions[i].path > versions[j].path
		})
		for _, v := range versions[1:] {
			out = append(out, v.path)
		}
	}
	return out
}

// dedupeJobs drops repeated paths and paths nested inside another job.
func dedupeJobs(jobs []pathJob) []pathJob {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].path < jobs[j].path
	})
	out := make([]pathJob, 0, len(jobs))
	for _, j := range jobs {
		nested := false
		for _, o := range out {
			if isWithin(j.path, o.path) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, j)
		}
	}
	return out
}

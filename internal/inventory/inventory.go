// Package inventory holds the declarative lists of candidate paths per
// category and the rules that mark paths as protected.
package inventory

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/2ykwang/fitmac/internal/utils"
)

// Placeholders substituted during expansion.
const (
	AppPlaceholder = "{app}"
	UIDPlaceholder = "{uid}"
)

// LoginItemDir is a launchd plist directory with its scope.
type LoginItemDir struct {
	Path  string `yaml:"path"`
	Scope string `yaml:"scope"` // user, system
}

// HomebrewPaths locates Homebrew when `brew` is not on PATH.
type HomebrewPaths struct {
	FallbackPrefixes []string `yaml:"fallback_prefixes"`
	UserCache        string   `yaml:"user_cache"`
	UserCacheExclude []string `yaml:"user_cache_exclude"`
}

// ITunesPaths lists iOS and iTunes media locations.
type ITunesPaths struct {
	Backups    string   `yaml:"backups"`
	Podcasts   []string `yaml:"podcasts"`
	MobileApps []string `yaml:"mobile_apps"`
}

// Inventory is the full set of path templates.
type Inventory struct {
	Caches            map[string][]string `yaml:"caches"`
	CacheListingRoots []string            `yaml:"cache_listing_roots"`
	Temp              []string            `yaml:"temp"`
	Downloads         string              `yaml:"downloads"`
	Autosave          []string            `yaml:"autosave"`
	DSStoreRoots      []string            `yaml:"ds_store_roots"`
	Trash             []string            `yaml:"trash"`
	LoginItems        []LoginItemDir      `yaml:"login_items"`
	Homebrew          HomebrewPaths       `yaml:"homebrew"`
	Applications      []string            `yaml:"applications"`
	SystemApps        []string            `yaml:"system_apps"`
	Mail              string              `yaml:"mail"`
	ITunes            ITunesPaths         `yaml:"itunes"`
	Leftovers         []string            `yaml:"leftovers"`
	Protected         Rules               `yaml:"protected"`
}

// CacheSubCategories are the cache groups in display order.
var CacheSubCategories = []string{"system", "app", "browser", "developer"}

// CacheTemplates returns the templates for one cache sub-category.
func (inv *Inventory) CacheTemplates(sub string) []string {
	return inv.Caches[sub]
}

// IsListingRoot reports whether the cache path should be reported child by child.
func (inv *Inventory) IsListingRoot(path string) bool {
	for _, t := range inv.CacheListingRoots {
		if filepath.Clean(utils.ExpandPath(t)) == filepath.Clean(path) {
			return true
		}
	}
	return false
}

// IsProtected reports whether path must never be offered for removal.
func (inv *Inventory) IsProtected(path string) bool {
	return inv.Protected.IsProtected(path)
}

// Expand resolves a template into existing paths. "~" is replaced by the
// home directory, "{uid}" by the current user id, and a "*" segment is
// matched against the live tree. Missing paths expand to nothing.
func Expand(template string) []string {
	p := resolve(template)

	if !strings.ContainsAny(p, "*?[") {
		if _, err := os.Lstat(p); err != nil {
			return nil
		}
		return []string{p}
	}

	matches, err := utils.GlobPaths(p)
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	return matches
}

func resolve(template string) string {
	p := utils.ExpandPath(template)
	return filepath.Clean(strings.ReplaceAll(p, UIDPlaceholder, strconv.Itoa(os.Getuid())))
}

// ExpandAll expands every template, dropping duplicates.
func ExpandAll(templates []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range templates {
		for _, p := range Expand(t) {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// ValidAppIdentifier reports whether name can stand in for "{app}" as a
// single path element.
func ValidAppIdentifier(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(name, "/\\*?[")
}

// ExpandForApp substitutes an application identifier into each leftover
// template. The bundle id and its last dotted component are both tried.
// Only templates whose last element holds "{app}" are used, and every
// result sits directly in that template's parent directory.
func (inv *Inventory) ExpandForApp(identifier string) []string {
	if !ValidAppIdentifier(identifier) {
		return nil
	}
	names := []string{identifier}
	if i := strings.LastIndex(identifier, "."); i >= 0 && ValidAppIdentifier(identifier[i+1:]) {
		names = append(names, identifier[i+1:])
	}

	seen := make(map[string]bool)
	var out []string
	for _, t := range inv.Leftovers {
		base := resolve(t)
		if !strings.Contains(filepath.Base(base), AppPlaceholder) {
			continue
		}
		parent := filepath.Dir(base)
		for _, n := range names {
			for _, p := range Expand(strings.ReplaceAll(t, AppPlaceholder, n)) {
				if seen[p] || filepath.Dir(p) != parent {
					continue
				}
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

// LanguageScanner reports localisation bundles for languages the user does
// not use.
type LanguageScanner struct {
	inv       *inventory.Inventory
	languages func(ctx context.Context) []string
}

func NewLanguageScanner(inv *inventory.Inventory) *LanguageScanner {
	return &LanguageScanner{inv: inv, languages: preferredLanguages}
}

func (s *LanguageScanner) Category() types.Category {
	return types.CategoryLanguage
}

func (s *LanguageScanner) IsAvailable() bool {
	return len(inventory.ExpandAll(s.inv.Applications)) > 0
}

func (s *LanguageScanner) Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error) {
	keep := s.languages(ctx)

	var jobs []pathJob
	for _, dir := range inventory.ExpandAll(s.inv.Applications) {
		for _, app := range listChildren(dir, true) {
			if filepath.Ext(app) != ".app" {
				continue
			}
			appName := strings.TrimSuffix(filepath.Base(app), ".app")
			resources := filepath.Join(app, "Contents", "Resources")
			for _, p := range listChildren(resources, true) {
				if filepath.Ext(p) != ".lproj" {
					continue
				}
				code := strings.TrimSuffix(filepath.Base(p), ".lproj")
				if keepLanguage(code, keep) {
					continue
				}
				jobs = append(jobs, pathJob{
					path:        p,
					description: appName + " localisation",
					columns: []types.Column{
						{Header: "App", Value: appName},
						{Header: "Language", Value: code},
					},
				})
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	items := measurePaths(ctx, types.CategoryLanguage, jobs, measureOptions{}, progressFunc(opts))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result := types.NewScanResult(types.CategoryLanguage, items)
	result.Info["languages"] = strings.Join(keep, ",")
	return result, nil
}

// keepLanguage reports whether an .lproj language code belongs to one of the
// user's languages. English and Base are always kept.
func keepLanguage(code string, current []string) bool {
	c := normalizeLanguage(code)
	if c == "base" || c == "en" || c == "english" {
		return true
	}
	for _, cur := range current {
		cur = normalizeLanguage(cur)
		if c == cur {
			return true
		}
		if strings.HasPrefix(cur, "zh") || strings.HasPrefix(c, "zh") {
			// Chinese bundles differ by script, not just by language.
			if chineseScript(c) != "" && chineseScript(c) == chineseScript(cur) {
				return true
			}
			continue
		}
		if base, _, _ := strings.Cut(c, "-"); len(base) >= 2 {
			if curBase, _, _ := strings.Cut(cur, "-"); base == curBase {
				return true
			}
		}
	}
	return false
}

func normalizeLanguage(code string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(code)), "_", "-")
}

// chineseScript maps Chinese locale codes to "hans" or "hant".
func chineseScript(code string) string {
	switch {
	case strings.Contains(code, "hans"), code == "zh-cn", code == "zh-sg":
		return "hans"
	case strings.Contains(code, "hant"), code == "zh-tw", code == "zh-hk", code == "zh-mo":
		return "hant"
	}
	return ""
}

// preferredLanguages reads the user's language list, falling back to $LANG.
func preferredLanguages(ctx context.Context) []string {
	var langs []string
	if out, err := utils.RunCommand(ctx, "defaults", "read", "-g", "AppleLanguages"); err == nil {
		langs = parseAppleLanguages(string(out))
	}
	if len(langs) == 0 {
		if lang := os.Getenv("LANG"); lang != "" {
			lang, _, _ = strings.Cut(lang, ".")
			if lang != "C" && lang != "POSIX" {
				langs = append(langs, lang)
			}
		}
	}
	if len(langs) == 0 {
		langs = []string{"en"}
	}
	return langs
}

// parseAppleLanguages parses the array printed by `defaults read`:
//
//	(
//	    "en-US",
//	    ko
//	)
func parseAppleLanguages(out string) []string {
	var langs []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.Trim(strings.TrimSpace(line), `",`)
		if line == "" || line == "(" || line == ")" {
			continue
		}
		langs = append(langs, line)
	}
	return langs
}

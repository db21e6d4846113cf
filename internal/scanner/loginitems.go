package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"howett.net/plist"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

// launchdPlist holds the launchd keys the scanner reads.
type launchdPlist struct {
	Label            string   `plist:"Label"`
	Program          string   `plist:"Program"`
	ProgramArguments []string `plist:"ProgramArguments"`
	RunAtLoad        bool     `plist:"RunAtLoad"`
}

// LoginItemsScanner lists launch agents and daemons. Items are the plist
// files; enabling, disabling and removal go through the cleaner.
type LoginItemsScanner struct {
	inv *inventory.Inventory
	uid int
}

func NewLoginItemsScanner(inv *inventory.Inventory) *LoginItemsScanner {
	return &LoginItemsScanner{inv: inv, uid: os.Getuid()}
}

func (s *LoginItemsScanner) Category() types.Category {
	return types.CategoryLoginItems
}

func (s *LoginItemsScanner) IsAvailable() bool {
	for _, dir := range s.inv.LoginItems {
		if utils.PathExists(utils.ExpandPath(dir.Path)) {
			return true
		}
	}
	return false
}

// LoginItems parses every launchd plist in the configured directories.
func (s *LoginItemsScanner) LoginItems(ctx context.Context) ([]types.LoginItem, error) {
	log := logger.ForCategory(string(types.CategoryLoginItems))
	var out []types.LoginItem

	for _, dir := range s.inv.LoginItems {
		path := utils.ExpandPath(dir.Path)
		domain := "gui/" + strconv.Itoa(s.uid)
		if strings.Contains(path, "LaunchDaemons") {
			domain = "system"
		}
		for _, p := range listChildren(path, true) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if filepath.Ext(p) != ".plist" {
				continue
			}
			item, err := ParseLaunchPlist(p)
			if err != nil {
				log.Debug("unreadable launchd plist", "path", p, "error", err)
				continue
			}
			item.Scope = dir.Scope
			item.Domain = domain
			item.Enabled = isLoaded(ctx, domain, item.Label)
			out = append(out, item)
		}
	}
	return out, nil
}

// FindLoginItem looks an item up by label.
func (s *LoginItemsScanner) FindLoginItem(ctx context.Context, label string) (types.LoginItem, error) {
	items, err := s.LoginItems(ctx)
	if err != nil {
		return types.LoginItem{}, err
	}
	for _, item := range items {
		if item.Label == label {
			return item, nil
		}
	}
	return types.LoginItem{}, fmt.Errorf("login item %q: %w", label, types.ErrNotFound)
}

func (s *LoginItemsScanner) Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error) {
	loginItems, err := s.LoginItems(ctx)
	if err != nil {
		return nil, err
	}
	progress := progressFunc(opts)

	items := make([]types.Item, 0, len(loginItems))
	for i, li := range loginItems {
		progress(i + 1)
		if !opts.HasSubCategory(li.Scope) {
			continue
		}
		info, err := os.Lstat(li.PlistPath)
		if err != nil {
			continue
		}
		state := "disabled"
		if li.Enabled {
			state = "enabled"
		}
		items = append(items, types.Item{
			Path:        li.PlistPath,
			Name:        li.Label,
			Category:    types.CategoryLoginItems,
			Size:        info.Size(),
			FileCount:   1,
			ModifiedAt:  info.ModTime(),
			Description: li.Name(),
			Method:      types.MethodTrash,
			Columns: []types.Column{
				{Header: "Scope", Value: li.Scope},
				{Header: "State", Value: state},
			},
		})
	}
	return types.NewScanResult(types.CategoryLoginItems, items), nil
}

// ParseLaunchPlist decodes a launchd plist in any plist format. A missing
// label falls back to the file name.
func ParseLaunchPlist(path string) (types.LoginItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.LoginItem{}, err
	}
	var p launchdPlist
	if _, err := plist.Unmarshal(data, &p); err != nil {
		return types.LoginItem{}, fmt.Errorf("decode %s: %w", path, err)
	}
	label := p.Label
	if label == "" {
		label = strings.TrimSuffix(filepath.Base(path), ".plist")
	}
	return types.LoginItem{
		Label:     label,
		Program:   p.Program,
		Arguments: p.ProgramArguments,
		RunAtLoad: p.RunAtLoad,
		PlistPath: path,
	}, nil
}

// isLoaded asks launchctl whether the job is loaded in domain.
func isLoaded(ctx context.Context, domain, label string) bool {
	_, err := utils.RunCommand(ctx, "launchctl", "print", domain+"/"+label)
	return err == nil
}

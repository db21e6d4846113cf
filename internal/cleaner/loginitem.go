package cleaner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

// LoginItemManager loads, unloads and removes launchd jobs.
type LoginItemManager struct {
	trash func(path string) error
}

func NewLoginItemManager() *LoginItemManager {
	return &LoginItemManager{
		trash: func(path string) error { return utils.MoveToTrash(path) },
	}
}

// SetEnabled loads or unloads the job persistently (launchctl -w).
func (m *LoginItemManager) SetEnabled(ctx context.Context, item types.LoginItem, enabled bool) error {
	verb := "unload"
	if enabled {
		verb = "load"
	}
	out, err := utils.RunCommand(ctx, "launchctl", verb, "-w", item.PlistPath)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("launchctl %s %s: %s", verb, item.Label, msg)
	}
	logger.Info("login item toggled", "label", item.Label, "enabled", enabled)
	return nil
}

// Remove unloads a user job and trashes its plist. System jobs are refused.
func (m *LoginItemManager) Remove(ctx context.Context, item types.LoginItem, dryRun bool) (*types.CleanupResult, error) {
	if item.Scope != types.ScopeUser {
		return nil, fmt.Errorf("%s is a system job: %w", item.Label, types.ErrProtectedItem)
	}
	info, err := os.Lstat(item.PlistPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", item.PlistPath, types.ErrNotFound)
	}

	entry := types.Item{
		Path:        item.PlistPath,
		Name:        item.Label,
		Category:    types.CategoryLoginItems,
		Size:        info.Size(),
		FileCount:   1,
		ModifiedAt:  info.ModTime(),
		Description: item.Name(),
		Method:      types.MethodTrash,
	}
	result := types.NewCleanupResult(dryRun)
	if dryRun {
		result.AddRemoved(entry)
		return result, nil
	}

	if item.Enabled {
		if err := m.SetEnabled(ctx, item, false); err != nil {
			logger.Warn("unload before removal failed", "label", item.Label, "error", err)
		}
	}
	if err := m.trash(item.PlistPath); err != nil {
		result.AddFailed(entry, err)
		return result, nil
	}
	result.AddRemoved(entry)
	return result, nil
}

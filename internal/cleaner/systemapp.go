package cleaner

import (
	"context"
	"fmt"
	"strings"

	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

// Identifiers that are never removed: core OS components and major browsers.
var protectedAppIDs = []string{
	"com.apple.finder",
	"com.apple.systempreferences",
	"com.apple.Safari",
	"com.apple.loginwindow",
	"com.apple.dock",
	"com.google.Chrome",
	"com.microsoft.edgemac",
	"org.mozilla.firefox",
}

// Vendors whose package receipts are left alone after removal.
var receiptVendorPrefixes = []string{
	"com.apple.",
	"com.microsoft.",
	"com.google.",
	"org.mozilla.",
}

// AppRemover trashes bundled applications after checking the guard
// conditions.
type AppRemover struct {
	trash     func(path string) error
	isRunning func(ctx context.Context, appPath string) (bool, error)
}

func NewAppRemover() *AppRemover {
	return &AppRemover{
		trash:     func(path string) error { return utils.MoveToTrash(path) },
		isRunning: func(ctx context.Context, appPath string) (bool, error) { return utils.IsAppRunning(ctx, appPath) },
	}
}

// Check reports why app may not be removed, or nil. Caution-tier apps need
// allowCaution.
func (r *AppRemover) Check(ctx context.Context, app types.SystemApp, allowCaution bool) error {
	if app.Path == "" {
		return fmt.Errorf("%s is not installed: %w", app.Name, types.ErrNotFound)
	}
	if isProtectedAppID(app.BundleID) || utils.IsSIPProtected(app.Path) {
		return fmt.Errorf("%s: %w", app.Name, types.ErrProtectedItem)
	}
	switch app.Risk {
	case types.RiskNotRecommended:
		return fmt.Errorf("%s: %w", app.Name, types.ErrRiskTier)
	case types.RiskCaution:
		if !allowCaution {
			return fmt.Errorf("%s needs confirmation: %w", app.Name, types.ErrRiskTier)
		}
	}
	running, err := r.isRunning(ctx, app.Path)
	if err != nil {
		logger.Debug("running check failed", "app", app.Name, "error", err)
	}
	if running {
		return fmt.Errorf("%s: %w", app.Name, types.ErrAppRunning)
	}
	return nil
}

// Remove checks the guards, then trashes the bundle and forgets its package
// receipt. Guard failures are returned as errors before anything changes;
// a failed trash is recorded in the result.
func (r *AppRemover) Remove(ctx context.Context, app types.SystemApp, dryRun, allowCaution bool) (*types.CleanupResult, error) {
	if err := r.Check(ctx, app, allowCaution); err != nil {
		return nil, err
	}

	item := types.Item{
		Path:        app.Path,
		Name:        app.Name,
		Category:    types.CategorySystemApps,
		Size:        app.Size,
		FileCount:   1,
		IsDirectory: true,
		Description: app.BundleID,
		Method:      types.MethodTrash,
	}
	result := types.NewCleanupResult(dryRun)
	if dryRun {
		result.AddRemoved(item)
		return result, nil
	}

	if err := r.trash(app.Path); err != nil {
		result.AddFailed(item, err)
		return result, nil
	}
	result.AddRemoved(item)
	forgetReceipt(ctx, app.BundleID)
	return result, nil
}

func isProtectedAppID(id string) bool {
	for _, p := range protectedAppIDs {
		if strings.EqualFold(id, p) {
			return true
		}
	}
	return false
}

// forgetReceipt drops the installer receipt for id when one exists.
// Failures are logged only; the bundle is already gone.
func forgetReceipt(ctx context.Context, id string) {
	if id == "" {
		return
	}
	for _, prefix := range receiptVendorPrefixes {
		if strings.HasPrefix(id, prefix) {
			return
		}
	}
	if _, err := utils.RunCommand(ctx, "pkgutil", "--pkg-info", id); err != nil {
		return
	}
	if out, err := utils.RunCommand(ctx, "pkgutil", "--forget", id, "--volume", "/"); err != nil {
		logger.Warn("pkgutil forget failed", "id", id, "error", err, "output", string(out))
	}
}

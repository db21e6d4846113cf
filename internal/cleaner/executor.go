// Package cleaner removes scanned items and runs the category-specific
// maintenance actions (brew cleanup, app removal, login items).
package cleaner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

// Executor removes items one at a time. A single executor may run several
// batches; each call owns its result.
type Executor struct {
	inv    *inventory.Inventory
	trash  func(path string) error
	remove func(path string) error
	lstat  func(path string) (os.FileInfo, error)
}

// NewExecutor returns an executor that refuses paths inv protects. inv may
// be nil, in which case only SIP locations are refused.
func NewExecutor(inv *inventory.Inventory) *Executor {
	return &Executor{
		inv:    inv,
		trash:  func(path string) error { return utils.MoveToTrash(path) },
		remove: os.RemoveAll,
		lstat:  os.Lstat,
	}
}

// Clean removes items in order. A dry run records every item as removed
// without touching the filesystem, so its result matches what a commit
// would report if nothing failed.
//
// Cancellation is checked between items only; an item in progress always
// completes. Items not reached are reported failed.
func (e *Executor) Clean(ctx context.Context, items []types.Item, dryRun bool, cb Callbacks) *types.CleanupResult {
	result := types.NewCleanupResult(dryRun)

	for i, item := range items {
		if ctx.Err() != nil {
			for _, rest := range items[i:] {
				result.AddFailed(rest, types.ErrCancelled)
			}
			break
		}
		cb.progress(Progress{Category: item.Category, CurrentItem: item.Name, Current: i + 1, Total: len(items)})

		if dryRun {
			result.AddRemoved(item)
			cb.itemDone(ItemResult{Item: item, Success: true})
			continue
		}

		reclaimed, err := e.cleanItem(item)
		result.ReclaimedBytes += reclaimed
		if err != nil {
			logger.Debug("cleanup failed", "path", item.Path, "error", err)
			result.AddFailed(item, err)
			cb.itemDone(ItemResult{Item: item, Err: err})
			continue
		}
		result.AddRemoved(item)
		cb.itemDone(ItemResult{Item: item, Success: true})
	}
	result.CompletedAt = time.Now()

	logger.Info("cleanup completed",
		"total", len(items),
		"removed", len(result.Removed),
		"failed", len(result.Failed),
		"freed", result.FreedSpace,
		"dryRun", dryRun)
	return result
}

// cleanItem removes a plain item, or every sub-item of a composite. For a
// composite with failures it returns the bytes that were removed anyway.
func (e *Executor) cleanItem(item types.Item) (int64, error) {
	if !item.IsComposite() {
		if err := e.guard(item.Path); err != nil {
			return 0, err
		}
		return 0, e.removeOne(item)
	}

	var (
		reclaimed int64
		failed    int
		firstErr  error
	)
	for _, sub := range item.SubItems {
		err := e.guard(sub.Path)
		if err == nil {
			if sub.Method == "" {
				sub.Method = item.Method
			}
			err = e.removeOne(sub)
		}
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", sub.Path, err)
			}
			continue
		}
		reclaimed += sub.Size
	}
	if failed > 0 {
		return reclaimed, fmt.Errorf("%d of %d files not removed: %w", failed, len(item.SubItems), firstErr)
	}
	return 0, nil
}

// guard rejects SIP locations and inventory-protected paths.
func (e *Executor) guard(path string) error {
	if utils.IsSIPProtected(path) {
		return fmt.Errorf("%s is a system location: %w", path, types.ErrProtectedItem)
	}
	if e.inv != nil && e.inv.IsProtected(path) {
		return fmt.Errorf("%s: %w", path, types.ErrProtectedItem)
	}
	return nil
}

func (e *Executor) removeOne(item types.Item) error {
	if _, err := e.lstat(item.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.ErrNotFound
		}
		if errors.Is(err, os.ErrPermission) {
			return types.ErrPermissionDenied
		}
		return err
	}

	var err error
	if item.Method == types.MethodPermanent {
		err = e.remove(item.Path)
	} else {
		err = e.trash(item.Path)
	}
	if errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %v", types.ErrPermissionDenied, err)
	}
	return err
}

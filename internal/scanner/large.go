package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

const (
	DefaultLargeMinSize int64 = 100 * 1000 * 1000
	DefaultLargeLimit         = 20
)

// LargeScanner finds individual files at or above a size threshold.
type LargeScanner struct{}

func NewLargeScanner() *LargeScanner {
	return &LargeScanner{}
}

func (s *LargeScanner) Category() types.Category {
	return types.CategoryLarge
}

func (s *LargeScanner) IsAvailable() bool {
	return true
}

// Scan walks opts.Root (default home) without following symlinks. Hidden
// entries are skipped. The largest opts.MaxResults files are returned.
func (s *LargeScanner) Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error) {
	root := opts.Root
	if root == "" {
		root = "~"
	}
	root = utils.ExpandPath(root)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("large file root %s: %w", root, types.ErrInvalidPath)
	}

	minSize := opts.MinSize
	if minSize <= 0 {
		minSize = DefaultLargeMinSize
	}
	limit := opts.MaxResults
	if limit <= 0 {
		limit = DefaultLargeLimit
	}
	progress := progressFunc(opts)

	var items []types.Item
	scanned := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if path != root && utils.IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		scanned++
		progress(scanned)

		info, err := d.Info()
		if err != nil || info.Size() < minSize {
			return nil
		}
		items = append(items, types.Item{
			Path:        path,
			Name:        d.Name(),
			Category:    types.CategoryLarge,
			Size:        info.Size(),
			FileCount:   1,
			ModifiedAt:  info.ModTime(),
			Description: utils.ShortenPath(filepath.Dir(path)),
			Method:      types.MethodTrash,
			Columns:     []types.Column{{Header: "Type", Value: fileKind(path)}},
		})
		return nil
	})
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	types.SortItems(items, types.SortBySize)
	if len(items) > limit {
		items = items[:limit]
	}
	return types.NewScanResult(types.CategoryLarge, items), nil
}

// fileKind labels a file by its extension.
func fileKind(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "file"
	}
	return ext
}

package utils

import (
	"context"
	"io/fs"
	"path/filepath"
)

// SizeOptions controls DirSize.
type SizeOptions struct {
	SkipHidden bool
	// Skip, when set, prunes a path (and its subtree for directories).
	Skip func(path string) bool
}

// SizeStat is the result of a size measurement.
type SizeStat struct {
	Bytes int64
	Files int64
}

// DirSize sums the sizes of regular files under root. Symlinks are not
// followed and a hard-linked file is counted once. Unreadable entries are
// skipped. The walk stops with ctx.Err() when ctx is cancelled.
func DirSize(ctx context.Context, root string, opts SizeOptions) (SizeStat, error) {
	var stat SizeStat
	seen := make(map[FileID]struct{})

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
		if path != root {
			if opts.SkipHidden && IsHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if opts.Skip != nil && opts.Skip(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if id, ok := FileIdentity(info); ok {
			if _, dup := seen[id]; dup {
				return nil
			}
			seen[id] = struct{}{}
		}
		stat.Bytes += info.Size()
		stat.Files++
		return nil
	})
	if err != nil && ctx.Err() != nil {
		return stat, ctx.Err()
	}
	return stat, nil
}

// PathSize measures a file or directory.
func PathSize(ctx context.Context, path string, opts SizeOptions) (SizeStat, error) {
	info, err := lstat(path)
	if err != nil {
		return SizeStat{}, err
	}
	if info.IsDir() {
		return DirSize(ctx, path, opts)
	}
	if !info.Mode().IsRegular() {
		return SizeStat{}, nil
	}
	return SizeStat{Bytes: info.Size(), Files: 1}, nil
}

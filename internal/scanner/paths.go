package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

// getMaxWorkers returns the optimal number of workers based on CPU cores
func getMaxWorkers(numCPU int) int {
	if numCPU > 16 {
		return 16
	}
	if numCPU < 4 {
		return 4
	}
	return numCPU
}

// pathJob describes one path to measure.
type pathJob struct {
	path        string
	description string
	columns     []types.Column
}

// measureOptions tunes measurePaths.
type measureOptions struct {
	size     utils.SizeOptions
	keepZero bool
	method   types.CleanupMethod
}

// measurePath turns a path into an item. Unreadable paths are an error so
// the caller can skip them.
func measurePath(ctx context.Context, cat types.Category, job pathJob, opts measureOptions) (types.Item, error) {
	info, err := os.Lstat(job.path)
	if err != nil {
		return types.Item{}, err
	}
	if info.IsDir() && !utils.IsReadable(job.path) {
		return types.Item{}, types.ErrPermissionDenied
	}

	stat, err := utils.PathSize(ctx, job.path, opts.size)
	if err != nil {
		return types.Item{}, err
	}

	method := opts.method
	if method == "" {
		method = types.MethodTrash
	}
	return types.Item{
		Path:        job.path,
		Name:        filepath.Base(job.path),
		Category:    cat,
		Size:        stat.Bytes,
		FileCount:   stat.Files,
		IsDirectory: info.IsDir(),
		ModifiedAt:  info.ModTime(),
		Description: job.description,
		Method:      method,
		Columns:     job.columns,
	}, nil
}

// measurePaths measures jobs concurrently using a worker pool. Failed and
// (unless keepZero) empty paths are dropped. Output is sorted by path.
func measurePaths(ctx context.Context, cat types.Category, jobs []pathJob, opts measureOptions, progress func(int)) []types.Item {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		items   = make([]types.Item, 0, len(jobs))
		scanned atomic.Int64
	)

	sem := make(chan struct{}, getMaxWorkers(runtime.NumCPU()))

	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(j pathJob) {
			defer wg.Done()
			defer func() { <-sem }()

			item, err := measurePath(ctx, cat, j, opts)
			if progress != nil {
				progress(int(scanned.Add(1)))
			}
			if err != nil || (!opts.keepZero && item.Size == 0) {
				return
			}

			mu.Lock()
			items = append(items, item)
			mu.Unlock()
		}(job)
	}
	wg.Wait()

	sort.Slice(items, func(i, j int) bool {
		return items[i].Path < items[j].Path
	})
	return items
}

// listChildren returns the direct children of dir, sorted. Unreadable
// directories yield nothing.
func listChildren(dir string, skipHidden bool) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	children := make([]string, 0, len(entries))
	for _, e := range entries {
		if skipHidden && utils.IsHidden(e.Name()) {
			continue
		}
		children = append(children, filepath.Join(dir, e.Name()))
	}
	return children
}

// isWithin reports whether path equals dir or lies beneath it.
func isWithin(path, dir string) bool {
	path, dir = filepath.Clean(path), filepath.Clean(dir)
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// progressFunc wraps opts.Progress so nil is safe.
func progressFunc(opts types.ScanOptions) func(int) {
	if opts.Progress == nil {
		return func(int) {}
	}
	return opts.Progress
}

// Package dupes finds groups of files with identical content using size
// buckets followed by sampled xxhash fingerprints.
package dupes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/afero"

	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

const (
	DefaultMinSize  int64 = 1024
	DefaultMaxFiles       = 10000
	DefaultWindow   int64 = 64 * 1024
)

var errFileLimit = errors.New("file limit reached")

// Options configures one scan.
type Options struct {
	Roots    []string
	MinSize  int64
	MaxFiles int
	// Window is the sample size for each of the head, middle and tail reads.
	Window        int64
	Workers       int
	IncludeHidden bool
	// Skip excludes a path (and its subtree) from the walk.
	Skip func(path string) bool
	// Verify confirms every group byte for byte and splits mismatches.
	Verify   bool
	Progress func(scanned int)
}

func (o Options) withDefaults() Options {
	if o.MinSize <= 0 {
		o.MinSize = DefaultMinSize
	}
	if o.MaxFiles <= 0 {
		o.MaxFiles = DefaultMaxFiles
	}
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	if o.Workers <= 0 {
		o.Workers = min(max(runtime.NumCPU(), 4), 16)
	}
	return o
}

type candidate struct {
	path    string
	size    int64
	modTime time.Time
}

type hashed struct {
	fp       string
	fileType string
	ok       bool
}

// Detector is safe for concurrent use; every Scan call owns its state.
type Detector struct {
	fs afero.Fs
}

// New returns a detector reading from fs.
func New(fs afero.Fs) *Detector {
	return &Detector{fs: fs}
}

// NewOS returns a detector over the real filesystem.
func NewOS() *Detector {
	return New(afero.NewOsFs())
}

// Scan walks opts.Roots and returns duplicate groups sorted by wastage.
// A cancelled scan returns ctx.Err() and no result.
func (d *Detector) Scan(ctx context.Context, opts Options) (*types.DuplicatesResult, error) {
	opts = opts.withDefaults()
	if len(opts.Roots) == 0 {
		return nil, fmt.Errorf("duplicates: no root given: %w", types.ErrInvalidPath)
	}
	for _, root := range opts.Roots {
		info, err := d.fs.Stat(root)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("duplicates: %s: %w", root, types.ErrInvalidPath)
		}
	}

	buckets, scanned, err := d.bucketBySize(ctx, opts)
	if err != nil {
		return nil, err
	}

	var candidates []candidate
	for _, files := range buckets {
		if len(files) > 1 {
			candidates = append(candidates, files...)
		}
	}

	result := &types.DuplicatesResult{
		Groups:         make([]types.DuplicateGroup, 0),
		ScannedFiles:   scanned,
		CandidateFiles: len(candidates),
	}

	hashes, hashedCount, err := d.hashAll(ctx, candidates, opts)
	if err != nil {
		return nil, err
	}
	result.HashedFiles = hashedCount

	result.Groups = groupByFingerprint(candidates, hashes)
	if opts.Verify {
		result.Groups, err = d.verifyGroups(ctx, result.Groups)
		if err != nil {
			return nil, err
		}
	}
	sortGroups(result.Groups)
	result.ScannedAt = time.Now()

	logger.Info("duplicate scan finished",
		"scanned", scanned,
		"candidates", len(candidates),
		"hashed", hashedCount,
		"groups", len(result.Groups))
	return result, nil
}

// bucketBySize is stage one: one walk, files grouped by exact size.
func (d *Detector) bucketBySize(ctx context.Context, opts Options) (map[int64][]candidate, int, error) {
	buckets := make(map[int64][]candidate)
	seen := make(map[string]bool)
	linked := make(map[utils.FileID]bool)
	scanned, recorded := 0, 0

	for _, root := range opts.Roots {
		err := afero.Walk(d.fs, root, func(path string, info os.FileInfo, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if path != root {
				if (!opts.IncludeHidden && utils.IsHidden(path)) || (opts.Skip != nil && opts.Skip(path)) {
					if info.IsDir() {
						return filepath.SkipDir
					}
					return nil
				}
			}
			if !info.Mode().IsRegular() {
				return nil
			}

			scanned++
			if opts.Progress != nil {
				opts.Progress(scanned)
			}
			if info.Size() < opts.MinSize || seen[path] {
				return nil
			}
			seen[path] = true
			// hard links share storage; only the first path is a candidate
			if id, ok := utils.FileIdentity(info); ok {
				if linked[id] {
					return nil
				}
				linked[id] = true
			}
			buckets[info.Size()] = append(buckets[info.Size()], candidate{
				path:    path,
				size:    info.Size(),
				modTime: info.ModTime(),
			})
			recorded++
			if recorded >= opts.MaxFiles {
				return errFileLimit
			}
			return nil
		})
		if errors.Is(err, errFileLimit) {
			logger.Warn("duplicate scan hit file limit", "limit", opts.MaxFiles)
			break
		}
		if err != nil {
			return nil, scanned, err
		}
	}
	return buckets, scanned, nil
}

// hashAll is stage two: fingerprints every candidate on a bounded pool.
func (d *Detector) hashAll(ctx context.Context, candidates []candidate, opts Options) ([]hashed, int, error) {
	results := make([]hashed, len(candidates))
	if len(candidates) == 0 {
		return results, 0, nil
	}

	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, 0, err
	}
	defer pool.Release()

	var (
		wg    sync.WaitGroup
		count atomic.Int64
	)
	for i := range candidates {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			c := candidates[i]
			fp, head, err := fingerprint(d.fs, c.path, c.size, opts.Window)
			count.Add(1)
			if err != nil {
				logger.Debug("fingerprint failed", "path", c.path, "error", err)
				return
			}
			results[i] = hashed{fp: fp, fileType: detectType(c.path, head), ok: true}
		})
		if err != nil {
			wg.Done()
			return nil, 0, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return results, int(count.Load()), nil
}

type groupKey struct {
	size int64
	fp   string
}

func groupByFingerprint(candidates []candidate, hashes []hashed) []types.DuplicateGroup {
	byKey := make(map[groupKey][]types.DuplicateFile)
	var order []groupKey

	for i, c := range candidates {
		h := hashes[i]
		if !h.ok {
			continue
		}
		key := groupKey{size: c.size, fp: h.fp}
		if _, exists := byKey[key]; !exists {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], types.DuplicateFile{
			Path:        c.path,
			Size:        c.size,
			Fingerprint: h.fp,
			ModifiedAt:  c.modTime,
			FileType:    h.fileType,
		})
	}

	groups := make([]types.DuplicateGroup, 0)
	for _, key := range order {
		files := byKey[key]
		if len(files) < 2 {
			continue
		}
		groups = append(groups, types.DuplicateGroup{Fingerprint: key.fp, Size: key.size, Files: files})
	}
	return groups
}

func sortGroups(groups []types.DuplicateGroup) {
	for _, g := range groups {
		sort.Slice(g.Files, func(i, j int) bool { return g.Files[i].Path < g.Files[j].Path })
	}
	sort.SliceStable(groups, func(i, j int) bool {
		wi, wj := groups[i].Wastage(), groups[j].Wastage()
		if wi != wj {
			return wi > wj
		}
		return groups[i].Files[0].Path < groups[j].Files[0].Path
	})
}

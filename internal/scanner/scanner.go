package scanner

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/types"
)

// Scanner enumerates reclaimable items for one category. Implementations
// hold configuration only, so a single value may serve concurrent scans.
type Scanner interface {
	Category() types.Category
	IsAvailable() bool
	Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error)
}

type Registry struct {
	scanners map[types.Category]Scanner
}

func NewRegistry() *Registry {
	return &Registry{scanners: make(map[types.Category]Scanner)}
}

func (r *Registry) Register(s Scanner) {
	r.scanners[s.Category()] = s
}

func (r *Registry) Get(cat types.Category) (Scanner, bool) {
	s, ok := r.scanners[cat]
	return s, ok
}

// All returns registered scanners in display order.
func (r *Registry) All() []Scanner {
	result := make([]Scanner, 0, len(r.scanners))
	for _, cat := range types.AllCategories {
		if s, ok := r.scanners[cat]; ok {
			result = append(result, s)
		}
	}
	return result
}

func (r *Registry) Available() []Scanner {
	result := make([]Scanner, 0)
	for _, s := range r.All() {
		if s.IsAvailable() {
			result = append(result, s)
		}
	}
	return result
}

// ScanAll runs the given scanners concurrently, one goroutine each. Results
// keep the order of scanners; a scanner that fails leaves a nil slot. Only
// cancellation is returned as an error.
func ScanAll(ctx context.Context, scanners []Scanner, opts types.ScanOptions) ([]*types.ScanResult, error) {
	results := make([]*types.ScanResult, len(scanners))
	g, gctx := errgroup.WithContext(ctx)

	for i, s := range scanners {
		g.Go(func() error {
			res, err := s.Scan(gctx, opts)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("scan failed", "category", s.Category(), "error", err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

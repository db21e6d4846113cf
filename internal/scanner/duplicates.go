package scanner

import (
	"context"
	"strconv"

	"github.com/2ykwang/fitmac/internal/dupes"
	"github.com/2ykwang/fitmac/internal/inventory"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

// DuplicatesScanner adapts the duplicate detector to the Scanner contract.
// Items are every copy except the one each group keeps.
type DuplicatesScanner struct {
	detector *dupes.Detector
	inv      *inventory.Inventory
}

func NewDuplicatesScanner(inv *inventory.Inventory, detector *dupes.Detector) *DuplicatesScanner {
	return &DuplicatesScanner{detector: detector, inv: inv}
}

func (s *DuplicatesScanner) Category() types.Category {
	return types.CategoryDuplicates
}

func (s *DuplicatesScanner) IsAvailable() bool {
	return true
}

// ScanGroups runs the detector below opts.Root (default home). At most
// opts.MaxResults files are considered.
func (s *DuplicatesScanner) ScanGroups(ctx context.Context, opts types.ScanOptions) (*types.DuplicatesResult, error) {
	root := opts.Root
	if root == "" {
		root = "~"
	}
	var skip func(string) bool
	if s.inv != nil {
		skip = func(path string) bool {
			return s.inv.IsProtected(path) || utils.IsSIPProtected(path)
		}
	}
	return s.detector.Scan(ctx, dupes.Options{
		Roots:    []string{utils.ExpandPath(root)},
		MinSize:  opts.MinSize,
		MaxFiles: opts.MaxResults,
		Skip:     skip,
		Verify:   opts.Verify,
		Progress: opts.Progress,
	})
}

func (s *DuplicatesScanner) Scan(ctx context.Context, opts types.ScanOptions) (*types.ScanResult, error) {
	res, err := s.ScanGroups(ctx, opts)
	if err != nil {
		return nil, err
	}
	result := types.NewScanResult(types.CategoryDuplicates, res.ReclaimableItems())
	result.Info["groups"] = strconv.Itoa(len(res.Groups))
	result.Info["scanned_files"] = strconv.Itoa(res.ScannedFiles)
	return result, nil
}

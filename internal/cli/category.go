package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2ykwang/fitmac/internal/cleaner"
	"github.com/2ykwang/fitmac/internal/logger"
	"github.com/2ykwang/fitmac/internal/scanner"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

// cleanFlags are shared by every category command.
type cleanFlags struct {
	scan       bool
	clean      bool
	dryRun     bool
	force      bool
	categories []string
	all        bool
}

func (f *cleanFlags) register(cmd *cobra.Command, categoryHelp string) {
	cmd.Flags().BoolVar(&f.scan, "scan", true, "Scan and list reclaimable items")
	cmd.Flags().BoolVar(&f.clean, "clean", false, "Clean the scanned items")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", true, "Only report what would be removed; --dry-run=false removes")
	cmd.Flags().BoolVarP(&f.force, "force", "f", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&f.all, "all", false, "List every item instead of the first few")
	if categoryHelp != "" {
		cmd.Flags().StringSliceVarP(&f.categories, "category", "c", nil, "Only these sub-categories: "+categoryHelp)
	}
}

// subCategories drops the catch-all "all".
func (f *cleanFlags) subCategories() []string {
	var out []string
	for _, c := range f.categories {
		c = strings.TrimSpace(strings.ToLower(c))
		if c == "" || c == "all" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (f *cleanFlags) listLimit() int {
	if f.all {
		return 0
	}
	return defaultListLimit
}

func newCategoryCmd(a *app, cat types.Category, short, categoryHelp string) *cobra.Command {
	var f cleanFlags
	cmd := &cobra.Command{
		Use:   string(cat),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCategory(cmd.Context(), cat, &f, types.ScanOptions{})
		},
	}
	f.register(cmd, categoryHelp)
	return cmd
}

// runCategory scans one category, prints the result and cleans it when
// asked to.
func (a *app) runCategory(ctx context.Context, cat types.Category, f *cleanFlags, opts types.ScanOptions) error {
	result, ok, err := a.scanCategory(ctx, cat, f, opts)
	if err != nil || !ok {
		return err
	}
	if f.scan || f.clean {
		fmt.Fprint(a.out, FormatScan(result, reportWidth(), f.listLimit()))
	}
	if !f.clean {
		return nil
	}
	return a.cleanResults(ctx, cat.Name(), []*types.ScanResult{result}, f)
}

// scanCategory runs the category's scanner. ok is false when the category
// cannot run here and a notice was printed instead.
func (a *app) scanCategory(ctx context.Context, cat types.Category, f *cleanFlags, opts types.ScanOptions) (*types.ScanResult, bool, error) {
	s, ok := a.registry.Get(cat)
	if !ok {
		return nil, false, fmt.Errorf("no scanner registered for %s", cat)
	}
	if a.isDisabled(cat) {
		fmt.Fprintf(a.out, "%s is disabled in your config.\n", cat.Name())
		return nil, false, nil
	}
	if !s.IsAvailable() {
		fmt.Fprintf(a.out, "%s is not available on this system.\n", cat.Name())
		return nil, false, nil
	}

	opts.SubCategories = f.subCategories()
	result, err := a.scan(ctx, s, opts)
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

func (a *app) scan(ctx context.Context, s scanner.Scanner, opts types.ScanOptions) (*types.ScanResult, error) {
	var result *types.ScanResult
	label := "Scanning " + strings.ToLower(s.Category().Name()) + "..."
	err := a.withProgress(ctx, label, func(ctx context.Context, update func(string)) error {
		opts.Progress = func(n int) { update(fmt.Sprintf("%d entries", n)) }
		var err error
		result, err = s.Scan(ctx, opts)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s scan: %w", s.Category(), err)
	}
	return result, nil
}

// cleanResults runs the executor over the items the user did not exclude,
// asking first unless it is a dry run or --force was given. Committed
// cleanups are recorded in the history.
func (a *app) cleanResults(ctx context.Context, operation string, results []*types.ScanResult, f *cleanFlags) error {
	items := cleaner.PrepareItems(results, nil, a.isExcluded)
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Nothing to clean.")
		return nil
	}

	var total int64
	for _, item := range items {
		total += item.Size
	}
	if !f.dryRun && !f.force {
		q := fmt.Sprintf("Remove %d items (%s)?", len(items), utils.FormatSize(total))
		if !confirm(a.in, a.out, q) {
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}
	}

	var result *types.CleanupResult
	a.showProgress(ctx, "Cleaning...", func(ctx context.Context, update func(string)) {
		result = a.executor.Clean(ctx, items, f.dryRun, cleaner.Callbacks{
			OnProgress: func(p cleaner.Progress) {
				update(fmt.Sprintf("%d/%d %s", p.Current, p.Total, p.CurrentItem))
			},
		})
	})

	fmt.Fprint(a.out, "\n"+FormatCleanup(operation, result, reportWidth()))
	a.record(operation, result)
	return nil
}

// record appends a committed result to the history. Dry runs and batches
// that removed nothing are not recorded.
func (a *app) record(operation string, result *types.CleanupResult) {
	if result == nil || result.DryRun || len(result.Removed) == 0 {
		return
	}
	a.logEntry(types.EntryFromResult(operation, result))
}

func (a *app) logEntry(entry types.OperationLogEntry) {
	if err := a.history.Log(entry); err != nil {
		logger.Warn("history write failed", "error", err)
		fmt.Fprintf(a.out, "Warning: could not write history: %v\n", err)
	}
}

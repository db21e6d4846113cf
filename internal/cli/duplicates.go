package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/2ykwang/fitmac/internal/scanner"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

const maxGroupsShown = 10

type duplicatesFlags struct {
	cleanFlags
	path     string
	minSize  string
	maxFiles int
	verify   bool
}

func newDuplicatesCmd(a *app) *cobra.Command {
	var f duplicatesFlags
	cmd := &cobra.Command{
		Use:   string(types.CategoryDuplicates),
		Short: "Find duplicate files by content",
		Long: `Find files with identical content below a folder. The newest copy in each group
is kept; cleaning moves the other copies to the Trash.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("verify") && f.clean && !f.dryRun {
				f.verify = true
			}
			return a.runDuplicates(cmd.Context(), cmd, &f)
		},
	}
	f.register(cmd, "")
	cmd.Flags().StringVar(&f.path, "path", "", "Folder to search (default home)")
	cmd.Flags().StringVar(&f.minSize, "min", "", "Smallest file to consider (default 1KiB)")
	cmd.Flags().IntVar(&f.maxFiles, "max-files", 0, "Stop after this many files (default 10000)")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "Compare group members byte by byte (on by default for --clean --dry-run=false)")
	return cmd
}

func (a *app) runDuplicates(ctx context.Context, cmd *cobra.Command, f *duplicatesFlags) error {
	s, ok := a.registry.Get(types.CategoryDuplicates)
	if !ok {
		return fmt.Errorf("no scanner registered for %s", types.CategoryDuplicates)
	}
	dup, ok := s.(*scanner.DuplicatesScanner)
	if !ok {
		// a plain scanner still yields reclaimable items
		return a.runCategory(ctx, types.CategoryDuplicates, &f.cleanFlags, types.ScanOptions{Root: f.path})
	}

	defaults := a.userDefaults()
	root := f.path
	if root == "" {
		root = defaults.DuplicateRoot
	}
	minSpec := f.minSize
	if !cmd.Flags().Changed("min") && defaults.DuplicateMinSize != "" {
		minSpec = defaults.DuplicateMinSize
	}
	minSize, err := parseSize(minSpec)
	if err != nil {
		return err
	}
	maxFiles := f.maxFiles
	if maxFiles == 0 {
		maxFiles = defaults.DuplicateMaxFiles
	}

	var res *types.DuplicatesResult
	err = a.withProgress(ctx, "Searching for duplicates...", func(ctx context.Context, update func(string)) error {
		var err error
		res, err = dup.ScanGroups(ctx, types.ScanOptions{
			Root:       root,
			MinSize:    minSize,
			MaxResults: maxFiles,
			Verify:     f.verify,
			Progress:   func(n int) { update(fmt.Sprintf("%d files", n)) },
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("duplicates scan: %w", err)
	}

	limit := maxGroupsShown
	if f.all {
		limit = 0
	}
	fmt.Fprint(a.out, FormatDuplicates(res, reportWidth(), limit))
	if !f.clean {
		return nil
	}
	result := types.NewScanResult(types.CategoryDuplicates, res.ReclaimableItems())
	return a.cleanResults(ctx, types.CategoryDuplicates.Name(), []*types.ScanResult{result}, &f.cleanFlags)
}

// FormatDuplicates lists the largest groups, marking the copy that is kept.
func FormatDuplicates(res *types.DuplicatesResult, width, limit int) string {
	s := newReportStyles()
	var b strings.Builder
	b.WriteString(s.Title(types.CategoryDuplicates.Name()) + "\n")
	b.WriteString(s.Muted(fmt.Sprintf("Scanned %d files, hashed %d", res.ScannedFiles, res.HashedFiles)) + "\n")
	if len(res.Groups) == 0 {
		b.WriteString(s.Muted("No duplicates found.") + "\n")
		return b.String()
	}

	groups := res.Groups
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	for i, g := range groups {
		b.WriteString("\n")
		header := fmt.Sprintf("%d. %d copies of %s", i+1, g.Count(), utils.FormatSize(g.Size))
		b.WriteString(s.Section(header) + " " + s.Muted("wastes "+utils.FormatSize(g.Wastage())) + "\n")
		keep := g.Keeper()
		for j, file := range g.Files {
			mark := "  "
			if j == keep {
				mark = s.Success("✓") + " "
			}
			b.WriteString("  " + mark + truncateText(utils.ShortenPath(file.Path), width-6) + "\n")
		}
	}
	if hidden := len(res.Groups) - len(groups); hidden > 0 {
		b.WriteString(s.Muted(fmt.Sprintf("\n... and %d more groups", hidden)) + "\n")
	}
	b.WriteString(s.Muted(strings.Repeat("-", min(width, 50))) + "\n")
	b.WriteString(fmt.Sprintf("Groups: %d  Reclaimable: %s\n", len(res.Groups), s.Size(utils.FormatSize(res.TotalWastage()))))
	return b.String()
}

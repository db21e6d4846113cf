package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/2ykwang/fitmac/internal/cleaner"
	"github.com/2ykwang/fitmac/internal/types"
)

// parseSize reads a human size such as "100MB" or "1KiB". Empty means zero.
func parseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return int64(n), nil
}

func newHomebrewCmd(a *app) *cobra.Command {
	var f cleanFlags
	var brewCleanup bool
	cmd := &cobra.Command{
		Use:   string(types.CategoryHomebrew),
		Short: "Scan and clean Homebrew caches, logs and old versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if brewCleanup {
				return a.runBrewCleanup(cmd.Context(), &f)
			}
			return a.runCategory(cmd.Context(), types.CategoryHomebrew, &f, types.ScanOptions{})
		},
	}
	f.register(cmd, "")
	cmd.Flags().BoolVar(&brewCleanup, "brew-cleanup", false, "Run `brew cleanup --prune=all` instead of removing files directly")
	return cmd
}

func (a *app) runBrewCleanup(ctx context.Context, f *cleanFlags) error {
	if !f.dryRun && !f.force && !confirm(a.in, a.out, "Run brew cleanup --prune=all?") {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	var res cleaner.BrewResult
	a.showProgress(ctx, "Running brew cleanup...", func(ctx context.Context, _ func(string)) {
		res = a.brew.Run(ctx, f.dryRun)
	})

	s := newReportStyles()
	if res.Output != "" {
		fmt.Fprintln(a.out, res.Output)
	}
	if !res.Success {
		return errors.New("brew cleanup failed")
	}
	if f.dryRun {
		fmt.Fprintln(a.out, s.Muted("Dry run: brew listed what it would remove. Pass --dry-run=false to clean."))
		return nil
	}
	fmt.Fprintln(a.out, s.Success("brew cleanup finished"))
	a.logEntry(types.NewOperationLogEntry("Homebrew cleanup", 0, 0, []string{"brew cleanup --prune=all"}))
	return nil
}

func newMailCmd(a *app) *cobra.Command {
	var f cleanFlags
	var minSize string
	cmd := &cobra.Command{
		Use:   string(types.CategoryMail),
		Short: "Scan and clean downloaded Mail attachments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			size, err := parseSize(minSize)
			if err != nil {
				return err
			}
			return a.runCategory(cmd.Context(), types.CategoryMail, &f, types.ScanOptions{MinSize: size})
		},
	}
	f.register(cmd, "")
	cmd.Flags().StringVar(&minSize, "min", "", "Smallest attachment to report (default 100KiB)")
	return cmd
}

func newLeftoversCmd(a *app) *cobra.Command {
	var f cleanFlags
	cmd := &cobra.Command{
		Use:   "leftovers <app>",
		Short: "Find and remove files an application left behind",
		Long: `Find preferences, caches, containers and other support files that belong to an
application, by name or bundle identifier.`,
		Example: "  fitmac leftovers Slack\n  fitmac leftovers com.tinyspeck.slackmacgap --clean --dry-run=false",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCategory(cmd.Context(), types.CategoryLeftovers, &f, types.ScanOptions{Root: args[0]})
		},
	}
	f.register(cmd, "")
	return cmd
}

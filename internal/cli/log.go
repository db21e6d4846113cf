package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

func newLogCmd(a *app) *cobra.Command {
	var (
		clearAll bool
		force    bool
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the history of committed cleanups",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if clearAll {
				if !force && !confirm(a.in, a.out, "Delete all cleanup history?") {
					fmt.Fprintln(a.out, "Cancelled.")
					return nil
				}
				if err := a.history.Clear(); err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				fmt.Fprintln(a.out, "Cleanup history cleared.")
				return nil
			}

			entries, err := a.history.LoadAll()
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			fmt.Fprint(a.out, FormatHistory(entries, limit))
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all history")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Show the last N entries")
	return cmd
}

// FormatHistory lists up to limit entries, which must be newest first.
func FormatHistory(entries []types.OperationLogEntry, limit int) string {
	s := newReportStyles()
	if len(entries) == 0 {
		return s.Muted("No cleanup history found.") + "\n"
	}
	shown := entries
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	var b strings.Builder
	b.WriteString(s.Title("Cleanup History") + "\n")
	for i, e := range shown {
		b.WriteString(fmt.Sprintf("%2d. %s\n", i+1, s.Section(e.Operation)))
		b.WriteString(s.Muted(fmt.Sprintf("    %s (%s)", e.Date.Format("2006-01-02 15:04"), humanize.Time(e.Date))) + "\n")
		b.WriteString(fmt.Sprintf("    %d items, %s\n", e.ItemsDeleted, s.Size(utils.FormatSize(e.FreedSpace))))
	}
	b.WriteString(s.Muted(fmt.Sprintf("Showing %d of %d entries", len(shown), len(entries))) + "\n")
	return b.String()
}

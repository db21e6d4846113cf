package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/2ykwang/fitmac/internal/scanner"
	"github.com/2ykwang/fitmac/internal/styles"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

const usageBarWidth = 40

// Categories left out of the status overview: they need an argument or walk
// the whole home folder.
var statusSkipped = map[types.Category]bool{
	types.CategoryDuplicates: true,
	types.CategoryLarge:      true,
	types.CategoryLeftovers:  true,
}

func newStatusCmd(a *app) *cobra.Command {
	var diskOnly bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show disk usage and reclaimable space per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runStatus(cmd.Context(), diskOnly)
		},
	}
	cmd.Flags().BoolVar(&diskOnly, "disk", false, "Only show disk usage")
	return cmd
}

func (a *app) runStatus(ctx context.Context, diskOnly bool) error {
	usage, err := utils.GetDiskUsage("/")
	if err != nil {
		return fmt.Errorf("unable to read disk status: %w", err)
	}
	fmt.Fprint(a.out, FormatDiskUsage(usage))
	if diskOnly {
		return nil
	}

	var scanners []scanner.Scanner
	for _, s := range a.registry.Available() {
		if statusSkipped[s.Category()] || a.isDisabled(s.Category()) {
			continue
		}
		scanners = append(scanners, s)
	}

	var results []*types.ScanResult
	err = a.withProgress(ctx, "Measuring reclaimable space...", func(ctx context.Context, update func(string)) error {
		var err error
		results, err = scanner.ScanAll(ctx, scanners, types.ScanOptions{})
		return err
	})
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, "\n"+FormatOverview(results, a.isExcluded))
	return nil
}

// FormatDiskUsage renders capacity figures and a usage bar.
func FormatDiskUsage(usage utils.DiskUsage) string {
	s := newReportStyles()
	var b strings.Builder
	b.WriteString(s.Title("Disk") + "\n")
	b.WriteString(fmt.Sprintf("Total:     %s\n", utils.FormatSize(int64(usage.Total))))
	b.WriteString(fmt.Sprintf("Used:      %s\n", utils.FormatSize(int64(usage.Used()))))
	b.WriteString(fmt.Sprintf("Available: %s\n", s.Size(utils.FormatSize(int64(usage.Available)))))

	pct := usage.UsedPercent()
	filled := min(int(float64(usageBarWidth)*pct/100), usageBarWidth)
	barColor := styles.ColorSuccess
	switch {
	case pct >= 90:
		barColor = styles.ColorDanger
	case pct >= 75:
		barColor = styles.ColorWarning
	}
	bar := lipgloss.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled)) +
		styles.MutedStyle.Render(strings.Repeat("░", usageBarWidth-filled))
	b.WriteString(fmt.Sprintf("Usage:     [%s] %.1f%%\n", bar, pct))
	return b.String()
}

// FormatOverview lists the reclaimable size of each scanned category. Items
// the user excluded are not counted.
func FormatOverview(results []*types.ScanResult, isExcluded func(types.Category, string) bool) string {
	s := newReportStyles()
	nameCol := lipgloss.NewStyle().Width(24)
	sizeCol := lipgloss.NewStyle().Width(sizeColWidth).Align(lipgloss.Right)

	var b strings.Builder
	b.WriteString(s.Title("Reclaimable") + "\n")
	var total int64
	for _, r := range results {
		if r == nil {
			continue
		}
		var size int64
		count := 0
		for _, item := range r.Items {
			if isExcluded != nil && isExcluded(r.Category, item.Path) {
				continue
			}
			size += item.Size
			count++
		}
		total += size
		row := nameCol.Render(r.Category.Name()) + gap + sizeCol.Render(s.Size(utils.FormatSize(size)))
		row += gap + s.Muted(fmt.Sprintf("%d items", count))
		b.WriteString(row + "\n")
	}
	b.WriteString(s.Muted(strings.Repeat("-", 50)) + "\n")
	b.WriteString(nameCol.Render("Total") + gap + sizeCol.Render(s.Success(utils.FormatSize(total))) + "\n")
	return b.String()
}

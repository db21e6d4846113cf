package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/sys/unix"

	"github.com/2ykwang/fitmac/internal/styles"
	"github.com/2ykwang/fitmac/internal/types"
	"github.com/2ykwang/fitmac/internal/utils"
)

const (
	defaultReportWidth = 90
	minNameWidth       = 16
	defaultListLimit   = 10
	sizeColWidth       = 10
	gap                = "  "
)

// FormatScan renders a scan result as a table of its first limit items.
// A limit of zero lists every item.
func FormatScan(result *types.ScanResult, width, limit int) string {
	s := newReportStyles()
	if result == nil {
		return s.Muted("No scan result.") + "\n"
	}
	if width <= 0 {
		width = defaultReportWidth
	}

	title := result.Category.Name()
	var b strings.Builder
	b.WriteString(s.Title(title) + "\n")
	b.WriteString(s.Muted(strings.Repeat("-", lipgloss.Width(title))) + "\n")

	if len(result.Items) == 0 {
		b.WriteString(s.Muted("Nothing found.") + "\n")
		return b.String()
	}

	headers, widths := extraColumns(result.Items)
	extraW := 0
	for _, w := range widths {
		extraW += w + lipgloss.Width(gap)
	}
	nameW := max(width-sizeColWidth-extraW-lipgloss.Width(gap), minNameWidth)

	nameCol := lipgloss.NewStyle().Width(nameW).Align(lipgloss.Left)
	sizeCol := lipgloss.NewStyle().Width(sizeColWidth).Align(lipgloss.Right)

	header := nameCol.Render("PATH")
	for i, h := range headers {
		header += gap + lipgloss.NewStyle().Width(widths[i]).Render(strings.ToUpper(h))
	}
	header += gap + sizeCol.Render("SIZE")
	b.WriteString(s.Muted(header) + "\n")

	shown := result.Items
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, item := range shown {
		row := nameCol.Render(truncateText(itemLabel(item), nameW))
		for i, h := range headers {
			cell := truncateText(columnValue(item, h), widths[i])
			if h == "Risk" {
				cell = styles.Risk(cell).Render(cell)
			}
			row += gap + lipgloss.NewStyle().Width(widths[i]).Render(cell)
		}
		row += gap + sizeCol.Render(s.Size(utils.FormatSize(item.Size)))
		b.WriteString(row + "\n")
	}
	if hidden := len(result.Items) - len(shown); hidden > 0 {
		b.WriteString(s.Muted(fmt.Sprintf("... and %d more", hidden)) + "\n")
	}

	b.WriteString(s.Muted(strings.Repeat("-", min(width, 50))) + "\n")
	b.WriteString(fmt.Sprintf("Total: %s (%d items)\n", s.Size(utils.FormatSize(result.TotalSize)), len(result.Items)))
	return b.String()
}

// FormatCleanup renders the outcome of one cleanup batch.
func FormatCleanup(label string, result *types.CleanupResult, width int) string {
	s := newReportStyles()
	if result == nil {
		return s.Muted("No report available.") + "\n"
	}
	if width <= 0 {
		width = defaultReportWidth
	}

	title := "Cleanup Report"
	freedLabel := "Recovered"
	if result.DryRun {
		title = "Dry Run Report"
		freedLabel = "Would free"
	}

	var b strings.Builder
	b.WriteString(s.Title(title) + "\n")
	b.WriteString(s.Muted(strings.Repeat("-", len(title))) + "\n")
	if label != "" {
		b.WriteString(s.Muted(label) + "\n")
	}
	b.WriteString(fmt.Sprintf("%s: %s\n", freedLabel, s.Success(utils.FormatSize(result.FreedSpace))))
	b.WriteString(fmt.Sprintf("Removed: %s  Failed: %s\n",
		s.Success(strconv.Itoa(len(result.Removed))),
		s.Failures(len(result.Failed))))
	if result.ReclaimedBytes > 0 {
		b.WriteString(s.Muted(fmt.Sprintf("Partially removed items also freed %s", utils.FormatSize(result.ReclaimedBytes))) + "\n")
	}
	if result.DryRun {
		b.WriteString(s.Muted("Dry run: nothing was removed. Pass --dry-run=false to clean.") + "\n")
	}

	if len(result.Failed) > 0 {
		b.WriteString("\n" + s.Section("Failures") + "\n")
		for _, f := range result.Failed {
			b.WriteString(s.Status("FAIL") + " " + truncateText(utils.ShortenPath(f.Item.Path), width-5) + "\n")
			b.WriteString(s.Muted("  - "+truncateError(f.Error, width-4)) + "\n")
		}
	}
	return b.String()
}

func itemLabel(item types.Item) string {
	label := utils.ShortenPath(item.Path)
	if item.Description != "" {
		label += " (" + item.Description + ")"
	}
	return label
}

// extraColumns collects column headers in first-seen order with the width of
// their widest value.
func extraColumns(items []types.Item) ([]string, []int) {
	var headers []string
	widths := make(map[string]int)
	for _, item := range items {
		for _, c := range item.Columns {
			if _, ok := widths[c.Header]; !ok {
				headers = append(headers, c.Header)
				widths[c.Header] = lipgloss.Width(c.Header)
			}
			widths[c.Header] = min(max(widths[c.Header], lipgloss.Width(c.Value)), 20)
		}
	}
	out := make([]int, len(headers))
	for i, h := range headers {
		out[i] = widths[h]
	}
	return headers, out
}

func columnValue(item types.Item, header string) string {
	for _, c := range item.Columns {
		if c.Header == header {
			return c.Value
		}
	}
	return ""
}

type reportStyles struct {
	title   lipgloss.Style
	section lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	danger  lipgloss.Style
	muted   lipgloss.Style
	size    lipgloss.Style
}

func newReportStyles() reportStyles {
	return reportStyles{
		title:   lipgloss.NewStyle().Foreground(styles.ColorPrimary).Bold(true),
		section: lipgloss.NewStyle().Foreground(styles.ColorSecondary).Bold(true),
		success: lipgloss.NewStyle().Foreground(styles.ColorSuccess).Bold(true),
		warn:    lipgloss.NewStyle().Foreground(styles.ColorWarning).Bold(true),
		danger:  lipgloss.NewStyle().Foreground(styles.ColorDanger).Bold(true),
		muted:   styles.MutedStyle,
		size:    styles.SizeStyle,
	}
}

func (s reportStyles) Title(text string) string   { return s.title.Render(text) }
func (s reportStyles) Section(text string) string { return s.section.Render(text) }
func (s reportStyles) Success(text string) string { return s.success.Render(text) }
func (s reportStyles) Warn(text string) string    { return s.warn.Render(text) }
func (s reportStyles) Danger(text string) string  { return s.danger.Render(text) }
func (s reportStyles) Muted(text string) string   { return s.muted.Render(text) }
func (s reportStyles) Size(text string) string    { return s.size.Render(text) }

func (s reportStyles) Failures(n int) string {
	if n == 0 {
		return s.Muted("0")
	}
	return s.Danger(strconv.Itoa(n))
}

func (s reportStyles) Status(text string) string {
	switch text {
	case "OK":
		return s.Success(text)
	case "WARN":
		return s.Warn(text)
	case "FAIL":
		return s.Danger(text)
	default:
		return text
	}
}

func reportWidth() int {
	if env := os.Getenv("COLUMNS"); env != "" {
		if value, err := strconv.Atoi(env); err == nil && value > 0 {
			return min(value, defaultReportWidth)
		}
	}
	if size, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ); err == nil {
		if size.Col > 0 {
			return min(int(size.Col), defaultReportWidth)
		}
	}
	return defaultReportWidth
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if width <= 3 {
		return ansi.Truncate(text, width, "")
	}
	return ansi.Truncate(text, width, "...")
}

// truncateError keeps the tail of err, where the cause usually is.
func truncateError(err string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(err) <= width {
		return err
	}
	if width <= 3 {
		return ansi.Cut(err, 0, width)
	}
	n := ansi.StringWidth(err)
	return "..." + ansi.Cut(err, n-width+3, n)
}

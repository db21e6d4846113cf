// Package styles defines the color palette shared by command output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSecondary = lipgloss.Color("#06B6D4")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorDanger    = lipgloss.Color("#EF4444")
	ColorMuted     = lipgloss.Color("#6B7280")
)

var (
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	CursorStyle = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
	SizeStyle   = lipgloss.NewStyle().Foreground(ColorSecondary).Bold(true)
)

// Risk returns the style for a system app risk tier.
func Risk(tier string) lipgloss.Style {
	switch tier {
	case "safe":
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	case "caution":
		return lipgloss.NewStyle().Foreground(ColorWarning)
	default:
		return lipgloss.NewStyle().Foreground(ColorDanger)
	}
}

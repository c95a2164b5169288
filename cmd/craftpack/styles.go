// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output, tuned for dark terminals.
const (
	// ColorPrimary is used for titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is used for secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is used for completed operations.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is used for failures.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning is used for warnings.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is used for commands, paths and keys.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success markers.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error markers.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for commands, file paths and config keys.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// tableHeaderStyle is for table header cells.
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				Padding(0, 1)

	// tableCellStyle is for table body cells.
	tableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// BorderStyleUnified is the border shared by panels and dialogs
var BorderStyleUnified = lipgloss.Border{
	Top:         "─",
	Bottom:      "─",
	Left:        "│",
	Right:       "│",
	TopLeft:     "┌",
	TopRight:    "┐",
	BottomLeft:  "└",
	BottomRight: "┘",
}

// CreateHeaderStyle creates a consistent page header style
func CreateHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorBrightCyan)).
		MarginBottom(1).
		MarginLeft(1)
}

// CreateFooterStyle creates a consistent footer style
func CreateFooterStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		MarginTop(1).
		MarginLeft(1)
}

// CreateSectionHeaderStyle creates a consistent section header style
func CreateSectionHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorBrightCyan))
}

// CreateLabelStyle styles form labels; focused labels are highlighted
func CreateLabelStyle(focused bool) lipgloss.Style {
	style := lipgloss.NewStyle().Width(10)
	if focused {
		return style.Foreground(lipgloss.Color(ColorBrightYellow)).Bold(true)
	}
	return style.Foreground(lipgloss.Color(ColorBrightBlack))
}

// CreateSecondaryTextStyle creates a consistent secondary text style
func CreateSecondaryTextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlack)).
		Italic(true)
}

// CreateLoadingStyle creates a consistent loading state style
func CreateLoadingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightYellow))
}

// CreateErrorStyle creates a consistent error style
func CreateErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorBrightRed))
}

// CreateDialogStyle creates a notice or panel dialog. An empty borderColor uses the accent.
func CreateDialogStyle(width int, borderColor string) lipgloss.Style {
	if borderColor == "" {
		borderColor = ColorBrightBlue
	}
	return lipgloss.NewStyle().
		Border(BorderStyleUnified).
		BorderForeground(lipgloss.Color(borderColor)).
		Background(lipgloss.Color(ColorDialogBg)).
		Foreground(lipgloss.Color(ColorWhite)).
		Padding(1, 3).
		Width(width).
		Align(lipgloss.Center)
}

// CreateDialogButtonStyle creates a style for dialog buttons
func CreateDialogButtonStyle(selected bool) lipgloss.Style {
	style := lipgloss.NewStyle().
		Padding(0, 2).
		Margin(0, 1).
		Border(lipgloss.RoundedBorder())

	if selected {
		return style.
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color(ColorBrightYellow)).
			BorderForeground(lipgloss.Color(ColorBrightYellow))
	}

	return style.
		Foreground(lipgloss.Color(ColorBrightCyan)).
		BorderForeground(lipgloss.Color(ColorBrightCyan))
}

// CreateURLStyle styles share links
func CreateURLStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBrightBlue)).
		Underline(true)
}

// FormatClickableURL wraps url in an OSC 8 hyperlink showing displayText
func FormatClickableURL(displayText, url string) string {
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, displayText)
}

// FormatProgressMessage formats a progress message with consistent styling
func FormatProgressMessage(operation, subject string, percentage float64) string {
	if percentage >= 0 {
		return fmt.Sprintf("%s %s... %.1f%%", operation, subject, percentage)
	}
	return fmt.Sprintf("%s %s...", operation, subject)
}

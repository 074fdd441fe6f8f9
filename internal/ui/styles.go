package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/DerithAI/WOLF-AI/internal/howl"
	"github.com/DerithAI/WOLF-AI/internal/pack"
	"github.com/DerithAI/WOLF-AI/models"
)

var (
	// Colors
	ColorPrimary   = lipgloss.Color("81")  // Ice blue
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)
)

// StatusStyle returns the display style for a hunt status.
func StatusStyle(s models.HuntStatus) lipgloss.Style {
	switch s {
	case models.StatusActive:
		return StylePrimary
	case models.StatusCompleted:
		return StyleSuccess
	case models.StatusFailed:
		return StyleError
	case models.StatusCancelled:
		return StyleSubtle
	default:
		return StyleWarning // pending
	}
}

// PriorityStyle returns the display style for a hunt priority.
func PriorityStyle(p models.HuntPriority) lipgloss.Style {
	switch p {
	case models.PriorityCritical:
		return StyleError.Bold(true)
	case models.PriorityHigh:
		return StyleWarning
	case models.PriorityLow:
		return StyleSubtle
	default:
		return StyleText
	}
}

// FrequencyStyle returns the display style for a howl frequency.
func FrequencyStyle(f howl.Frequency) lipgloss.Style {
	switch f {
	case howl.FreqAuuuu:
		return StyleError.Bold(true)
	case howl.FreqHigh:
		return StyleWarning
	case howl.FreqLow:
		return StyleSubtle
	default:
		return StyleText
	}
}

// WolfStatusStyle returns the display style for a wolf status.
func WolfStatusStyle(s pack.WolfStatus) lipgloss.Style {
	switch s {
	case pack.WolfActive:
		return StyleSuccess
	case pack.WolfResting:
		return StyleWarning
	case pack.WolfLurking:
		return StylePrimary
	default:
		return StyleSubtle // dormant
	}
}

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}

package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/DerithAI/WOLF-AI/internal/howl"
	"github.com/DerithAI/WOLF-AI/models"
)

// testProfile forces color output so styles are observable off-terminal.
var testProfile = termenv.ANSI256

func TestStyles(t *testing.T) {
	lipgloss.SetColorProfile(testProfile)

	// Verify critical styles are defined and return something
	assert.NotNil(t, StyleTitle)
	assert.NotNil(t, StyleSuccess)

	out := StyleSuccess.Render("Test")
	assert.Contains(t, out, "Test")
	// Verify ANSI codes are present
	assert.NotEqual(t, "Test", out, "Style should add ANSI codes when forced")
}

func TestStatusStyles(t *testing.T) {
	lipgloss.SetColorProfile(testProfile)

	completed := StatusStyle(models.StatusCompleted).Render("completed")
	failed := StatusStyle(models.StatusFailed).Render("failed")
	assert.NotEqual(t, completed, failed, "terminal statuses should render differently")

	critical := PriorityStyle(models.PriorityCritical).Render("critical")
	low := PriorityStyle(models.PriorityLow).Render("low")
	assert.NotEqual(t, critical, low)

	auuu := FrequencyStyle(howl.FreqAuuuu).Render("AUUUU")
	assert.NotEqual(t, "AUUUU", auuu)
}

func TestIcon(t *testing.T) {
	lipgloss.SetColorProfile(testProfile)

	icon := "X"
	out := Icon(icon, StyleError)
	assert.Contains(t, out, icon)
	assert.NotEqual(t, icon, out)
}

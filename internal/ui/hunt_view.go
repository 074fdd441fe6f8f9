package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/DerithAI/WOLF-AI/models"
)

// HuntTable renders hunts as a summary line plus a fixed-width table.
func HuntTable(hunts []models.Hunt) string {
	if len(hunts) == 0 {
		return StyleSubtle.Render("No hunts found.") + "\n"
	}

	byStatus := make(map[models.HuntStatus]int)
	for _, h := range hunts {
		byStatus[h.Status]++
	}
	statusOrder := []models.HuntStatus{
		models.StatusPending,
		models.StatusActive,
		models.StatusCompleted,
		models.StatusFailed,
		models.StatusCancelled,
	}
	var stats []string
	for _, st := range statusOrder {
		if n := byStatus[st]; n > 0 {
			stats = append(stats, StatusStyle(st).Render(fmt.Sprintf("%s %d", st, n)))
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(" 🐺 Hunts: %d (%s)\n", len(hunts), strings.Join(stats, " • ")))
	sb.WriteString(StyleSubtle.Render(strings.Repeat("─", 50)) + "\n")

	table := &Table{
		Headers:  []string{"ID", "Directive", "Assignee", "Priority", "Status", "Created", "Tries"},
		MaxWidth: 40,
	}
	for _, h := range hunts {
		table.Rows = append(table.Rows, []string{
			h.ID,
			h.Directive.String(),
			h.Assignee,
			string(h.Priority),
			string(h.Status),
			h.CreatedAt.Local().Format("Jan 02 15:04"),
			fmt.Sprintf("%d/%d", h.RetryCount, h.RetryLimit),
		})
	}
	table.StyleCell = func(row, col int) *lipgloss.Style {
		switch col {
		case 3:
			s := PriorityStyle(hunts[row].Priority)
			return &s
		case 4:
			s := StatusStyle(hunts[row].Status)
			return &s
		}
		return nil
	}
	sb.WriteString(table.Render())
	return sb.String()
}

// HuntDetail renders the full record of a single hunt.
func HuntDetail(h models.Hunt) string {
	var sb strings.Builder
	sb.WriteString(StyleHeader.Render("Hunt "+h.ID) + "\n")

	row := func(key, value string) {
		sb.WriteString(fmt.Sprintf(" %s %s\n", StyleSubtle.Render(padRight(key+":", 12)), value))
	}
	row("Directive", h.Directive.String())
	row("Assignee", h.Assignee)
	row("Priority", PriorityStyle(h.Priority).Render(string(h.Priority)))
	row("Status", StatusStyle(h.Status).Render(string(h.Status)))
	row("Created", h.CreatedAt.Local().Format(time.RFC3339))
	if h.StartedAt != nil {
		row("Started", h.StartedAt.Local().Format(time.RFC3339))
	}
	if h.CompletedAt != nil {
		row("Completed", h.CompletedAt.Local().Format(time.RFC3339))
	}
	row("Tries", fmt.Sprintf("%d/%d", h.RetryCount, h.RetryLimit))
	row("Timeout", fmt.Sprintf("%ds", h.Timeout))

	if h.Result != "" {
		sb.WriteString("\n " + StyleSuccess.Render("Result") + "\n")
		sb.WriteString(indent(WrapText(h.Result, 76)) + "\n")
	}
	if h.Error != "" {
		sb.WriteString("\n " + StyleError.Render("Error") + "\n")
		sb.WriteString(indent(WrapText(h.Error, 76)) + "\n")
	}
	return sb.String()
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "   " + line
	}
	return strings.Join(lines, "\n")
}

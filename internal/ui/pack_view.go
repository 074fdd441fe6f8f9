package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/DerithAI/WOLF-AI/internal/pack"
)

// PackStatusView renders the roster report plus hunt queue counts.
func PackStatusView(rep pack.Report, pending, active int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(" 🐺 Pack: %s", StyleTitle.Render(string(rep.Status))))
	if rep.Resonance {
		sb.WriteString("  " + StylePrimary.Render("[resonance]"))
	}
	sb.WriteString("\n")
	if rep.FormedAt != nil {
		sb.WriteString(StyleSubtle.Render(fmt.Sprintf(" formed %s", rep.FormedAt.Local().Format("2006-01-02 15:04"))) + "\n")
	}
	sb.WriteString(fmt.Sprintf(" hunts: %d pending, %d active\n", pending, active))
	sb.WriteString(StyleSubtle.Render(strings.Repeat("─", 50)) + "\n")
	sb.WriteString(WolfTable(rep.Wolves))

	return sb.String()
}

// WolfTable renders the roster as a table.
func WolfTable(wolves []pack.Wolf) string {
	if len(wolves) == 0 {
		return StyleSubtle.Render("No wolves in the pack. Run: wolfai pack awaken") + "\n"
	}

	table := &Table{
		Headers: []string{"Name", "Role", "Status", "Model", "Current Hunt"},
	}
	for _, w := range wolves {
		current := w.CurrentHunt
		if current == "" {
			current = "-"
		}
		table.Rows = append(table.Rows, []string{
			w.Name,
			w.Role,
			string(w.Status),
			w.Model,
			current,
		})
	}
	table.StyleCell = func(row, col int) *lipgloss.Style {
		if col == 2 {
			s := WolfStatusStyle(wolves[row].Status)
			return &s
		}
		return nil
	}
	return table.Render()
}

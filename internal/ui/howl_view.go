package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DerithAI/WOLF-AI/internal/howl"
)

// HowlLine renders one howl in stream form, oldest-first friendly.
func HowlLine(h howl.Howl) string {
	ts := StyleSubtle.Render("[" + h.Timestamp.Local().Format("15:04:05") + "]")
	route := StyleTitle.Render(fmt.Sprintf("%s → %s", h.From, h.To))
	freq := FrequencyStyle(h.Frequency).Render(string(h.Frequency))

	line := fmt.Sprintf(" %s %s (%s): %s", ts, route, freq, h.Message)
	if len(h.Tags) > 0 {
		line += " " + StyleSubtle.Render("#"+strings.Join(h.Tags, " #"))
	}
	return line
}

// HowlList renders howls one per line.
func HowlList(howls []howl.Howl) string {
	if len(howls) == 0 {
		return StyleSubtle.Render("The bridge is silent.") + "\n"
	}
	var sb strings.Builder
	for _, h := range howls {
		sb.WriteString(HowlLine(h) + "\n")
	}
	return sb.String()
}

// HowlStats renders bridge-wide howl statistics.
func HowlStats(s howl.Stats) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(" 📡 Howls: %d total, %d last 24h, %d last hour\n", s.Total, s.Last24h, s.LastHour))
	sb.WriteString(StyleSubtle.Render(strings.Repeat("─", 50)) + "\n")

	sb.WriteString(" " + StyleTitle.Render("By wolf") + "\n")
	for _, k := range sortedKeys(s.ByWolf) {
		sb.WriteString(fmt.Sprintf("   %s %d\n", StyleSubtle.Render(padRight(k, 12)), s.ByWolf[k]))
	}

	sb.WriteString(" " + StyleTitle.Render("By frequency") + "\n")
	for _, k := range sortedKeys(s.ByFrequency) {
		freq := FrequencyStyle(howl.Frequency(k)).Render(padRight(k, 12))
		sb.WriteString(fmt.Sprintf("   %s %d\n", freq, s.ByFrequency[k]))
	}
	return sb.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

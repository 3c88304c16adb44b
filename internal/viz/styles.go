package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	Warning = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffaa00"))

	// Header with decorative line
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)
)

// Metrics renders label/value pairs one per line, labels padded to the
// longest one. keys fixes the order.
func Metrics(keys []string, values map[string]float64) string {
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		label := MetricLabel.Render(k + strings.Repeat(" ", width-len(k)))
		lines = append(lines, label+"  "+MetricValue.Render(fmt.Sprintf("%.6g", values[k])))
	}
	return strings.Join(lines, "\n")
}

// Warnings renders one styled line per message.
func Warnings(msgs []string) string {
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = Warning.Render("warning: ") + m
	}
	return strings.Join(lines, "\n")
}

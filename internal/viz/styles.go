package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	Title  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	Subtle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	Alert  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))

	label    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899")).Width(10)
	value    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ccff")).Bold(true)
	hint     = Subtle.Italic(true)
	barFill  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	barEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("#333344"))
)

// Run states shown next to the title of the live view.
const (
	StateRunning = "RUNNING"
	StatePaused  = "PAUSED"
	StateDone    = "DONE"
	StateFailed  = "FAILED"
)

var badgeColors = map[string]lipgloss.Color{
	StateRunning: "#00ff88",
	StatePaused:  "#ffaa00",
	StateDone:    "#8888ff",
	StateFailed:  "#ff4444",
}

// Badge renders a run state in its colour.
func Badge(state string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(badgeColors[state]).Render(state)
}

// ProgressBar renders a bar filled to fraction in [0, 1] followed by the
// percentage.
func ProgressBar(fraction float64, width int) string {
	fraction = max(0, min(1, fraction))
	filled := int(fraction * float64(width))
	return barFill.Render(strings.Repeat("█", filled)) +
		barEmpty.Render(strings.Repeat("░", width-filled)) +
		Subtle.Render(fmt.Sprintf(" %3.0f%%", 100*fraction))
}

func metricLine(name, v string) string {
	return label.Render(name) + value.Render(v)
}

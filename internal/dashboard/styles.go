package dashboard

import "github.com/charmbracelet/lipgloss"

// MinLeftWidth is the minimum character width for the left pane.
const MinLeftWidth = 28

var (
	accent = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}
	dim    = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}

	titleText   = lipgloss.NewStyle().Bold(true)
	mutedText   = lipgloss.NewStyle().Foreground(dim)
	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(accent).Underline(true)
	inactiveTab = lipgloss.NewStyle().Foreground(dim)
	labelText   = lipgloss.NewStyle().Foreground(dim).Width(16)
	successText = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})
	errorText   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})
)

// FocusedBorder returns a lipgloss style with an accent-colored rounded border.
func FocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent)
}

// UnfocusedBorder returns a lipgloss style with a dim rounded border.
func UnfocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"})
}

// PaneWidths calculates the left and right pane widths from a total width.
// Left pane gets 2/5 (minimum MinLeftWidth), right pane gets the rest.
func PaneWidths(totalWidth int) (left, right int) {
	if totalWidth <= 0 {
		return 0, 0
	}
	left = totalWidth * 2 / 5
	if left < MinLeftWidth {
		left = MinLeftWidth
	}
	right = totalWidth - left
	if right < 0 {
		right = 0
	}
	return left, right
}

// renderTabs renders labels in a row with the active one highlighted.
func renderTabs(labels []string, active string) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		if l == active {
			parts[i] = activeTab.Render(l)
		} else {
			parts[i] = inactiveTab.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinWith(parts, "  ")...)
}

func joinWith(parts []string, sep string) []string {
	out := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}

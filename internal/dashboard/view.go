package dashboard

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	// helpBarHeight is the number of lines reserved for the help bar at the bottom.
	helpBarHeight = 1

	// borderChrome is the number of lines consumed by top + bottom borders.
	borderChrome = 2

	// headerHeight is the title line plus two lines of tabs and inputs.
	headerHeight = 3

	// alertHeight is the line reserved for transient alerts.
	alertHeight = 1
)

// contentHeight returns the usable height for pane content,
// accounting for header, border chrome, alert line and help bar.
func (m Model) contentHeight() int {
	h := m.height - headerHeight - borderChrome - alertHeight - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// syncDetail refreshes the detail viewport from the browse cursor.
func (m *Model) syncDetail() {
	id := 0
	if job, ok := m.browse.selectedJob(); ok {
		id = job.ID
	}
	content := m.browse.detailContent()
	if m.viewport.Width > 0 {
		content = lipgloss.NewStyle().Width(m.viewport.Width).Render(content)
	}
	m.viewport.SetContent(content)
	if id != m.detailID {
		m.viewport.GotoTop()
		m.detailID = id
	}
}

// View renders the header, the mode's body, the alert line and the help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	var body string
	switch {
	case m.confirm != nil:
		body = m.singlePane(m.confirm.View())
	case m.mode == ModeLogin:
		body = m.singlePane(m.login.View(m.spinner.View()))
	case m.mode == ModeAdmin:
		body = m.singlePane(m.admin.View(m.editor.Mode(), m.spinner.View()))
	default:
		body = m.browsePanes()
	}

	helpView := m.help.View(HelpBindings(m.mode, m.typing(), m.confirm != nil))
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.alert.View(), helpView)
}

// header renders the title and the mode's tab and input lines.
func (m Model) header() string {
	title := titleText.Render("Job Board")
	switch m.mode {
	case ModeAdmin:
		return title + mutedText.Render(" · admin") + "\n" + m.admin.tabsView() + "\n"
	case ModeLogin:
		return title + mutedText.Render(" · login") + "\n\n"
	default:
		return title + "\n" + m.browse.header()
	}
}

// browsePanes renders the job list and detail panes side by side.
func (m Model) browsePanes() string {
	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	var leftStyle, rightStyle lipgloss.Style
	if m.focus == PaneLeft {
		leftStyle = FocusedBorder()
		rightStyle = UnfocusedBorder()
	} else {
		leftStyle = UnfocusedBorder()
		rightStyle = FocusedBorder()
	}

	leftStyle = leftStyle.
		Width(leftWidth - borderChrome).
		Height(contentHeight)
	rightStyle = rightStyle.
		Width(rightWidth - borderChrome).
		Height(contentHeight)

	leftPane := leftStyle.Render(m.browse.View(contentHeight, m.spinner.View()))
	rightPane := rightStyle.Render(m.viewport.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

// singlePane renders content in one full-width focused pane.
func (m Model) singlePane(content string) string {
	return FocusedBorder().
		Width(m.width - borderChrome).
		Height(m.contentHeight()).
		Render(content)
}

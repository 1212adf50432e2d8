package dashboard

import (
	"fmt"
	"strings"
)

// confirmState holds the job awaiting delete confirmation.
type confirmState struct {
	jobID int
	title string
}

// View renders the confirmation prompt.
func (cs confirmState) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Delete job #%d?\n", cs.jobID)
	fmt.Fprintf(&b, "\n  %s\n", cs.title)
	b.WriteString("\n  This cannot be undone.")
	b.WriteString("\n\n  [y] Delete   [n] Cancel")
	return b.String()
}

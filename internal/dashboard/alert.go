package dashboard

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/jobboard/internal/admin"
	"github.com/smileynet/jobboard/internal/api"
)

// DefaultAlertTTL is how long a transient alert stays on screen.
const DefaultAlertTTL = 3 * time.Second

type alertKind int

const (
	alertSuccess alertKind = iota
	alertError
)

// alert is a transient notice. seq identifies it so an expiry tick only
// clears the alert it was scheduled for.
type alert struct {
	text string
	kind alertKind
	seq  int
}

// expireAlert schedules removal of alert seq after ttl.
func expireAlert(seq int, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg { return alertExpiredMsg{Seq: seq} })
}

func (a alert) View() string {
	switch {
	case a.text == "":
		return ""
	case a.kind == alertError:
		return errorText.Render(a.text)
	default:
		return successText.Render(a.text)
	}
}

// errorMessage turns an error into the text shown to the user.
func errorMessage(err error) string {
	var (
		ae *admin.ActionError
		ve *admin.ValidationError
	)
	switch {
	case errors.Is(err, admin.ErrNotLoggedIn):
		return "Please login first"
	case errors.As(err, &ve):
		return "Please fill in: " + strings.Join(ve.Fields, ", ")
	case errors.As(err, &ae):
		return ae.Message
	}
	if d := api.Detail(err); d != "" {
		return d
	}
	return "Error: " + err.Error()
}

// Package dashboard implements the job board TUI: a two-pane job browser
// with search and year tabs, and an admin panel for posting, editing and
// deleting jobs. All view state lives in the Bubble Tea update loop;
// network calls run as commands and report back as messages.
package dashboard

import (
	"context"

	"github.com/smileynet/jobboard/internal/admin"
	"github.com/smileynet/jobboard/internal/api"
	"github.com/smileynet/jobboard/internal/board"
	"github.com/smileynet/jobboard/internal/session"
)

// Mode represents the current dashboard view mode.
type Mode int

const (
	ModeBrowse Mode = iota // Browsing the public job list with detail pane.
	ModeLogin              // Admin login form.
	ModeAdmin              // Admin panel.
)

// Focus represents which pane has keyboard focus in browse mode.
type Focus int

const (
	PaneLeft  Focus = iota // Job list has focus.
	PaneRight              // Detail viewport has focus.
)

// AdminTab is a page of the admin panel.
type AdminTab int

const (
	TabAddJobs    AdminTab = iota // Shared create/edit form.
	TabManageJobs                 // Job list with edit and delete.
	TabStats                      // Visitor statistics.
)

var adminTabNames = [...]string{"add-jobs", "manage-jobs", "stats"}

func (t AdminTab) String() string {
	if t < 0 || int(t) >= len(adminTabNames) {
		return "unknown"
	}
	return adminTabNames[t]
}

// --- Consumer-side interfaces ---

// Backend is everything the dashboard reads from and writes to.
// *api.Client implements it.
type Backend interface {
	board.Source
	admin.Backend
	session.Authenticator
	AdminJobs(ctx context.Context, token string) ([]api.Job, error)
	Stats(ctx context.Context) (api.Stats, error)
	JobViews(ctx context.Context, id int) (api.JobViews, error)
}

// Sessions holds the admin login. *session.Session implements it.
type Sessions interface {
	Token() string
	LoggedIn() bool
	Login(ctx context.Context, auth session.Authenticator, username, password string) error
	Logout() error
	Expire() error
}

// --- tea.Msg types ---

// jobsLoadedMsg carries the result of a board request.
type jobsLoadedMsg struct {
	Ticket board.Ticket
	Jobs   []api.Job
	Err    error
}

// facetsLoadedMsg carries the year and location facets.
type facetsLoadedMsg struct {
	Facets board.Facets
	Err    error
}

// searchDueMsg is delivered once a search input has settled. Trigger names
// the input ("query" or "filter"); the search always uses the latest
// selectors, not a snapshot from trigger time.
type searchDueMsg struct {
	Trigger string
}

// refreshMsg asks for every list to be reloaded after a write.
type refreshMsg struct{}

// eventMsg wraps a message that arrived on the event channel.
type eventMsg struct {
	Msg any
}

// jobDetailMsg carries a freshly fetched job and its view count.
type jobDetailMsg struct {
	ID    int
	Job   api.Job
	Views int64
	Err   error
}

// loginResultMsg reports the outcome of a login attempt.
type loginResultMsg struct {
	Err error
}

// adminJobsMsg carries the admin job list.
type adminJobsMsg struct {
	Jobs []api.Job
	Err  error
}

// statsMsg carries visitor statistics.
type statsMsg struct {
	Stats api.Stats
	Err   error
}

// editLoadedMsg reports that a job was loaded into the form.
type editLoadedMsg struct {
	ID  int
	Err error
}

// writeDoneMsg reports the outcome of a create, update or delete.
type writeDoneMsg struct {
	Result admin.Result
	Err    error
}

// viewsMsg carries the view count of one job.
type viewsMsg struct {
	Views api.JobViews
	Err   error
}

// alertExpiredMsg clears the alert with the given sequence number.
type alertExpiredMsg struct {
	Seq int
}

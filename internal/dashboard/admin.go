package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/smileynet/jobboard/internal/admin"
	"github.com/smileynet/jobboard/internal/api"
)

// formField describes one input of the job form.
type formField struct {
	label       string
	placeholder string
}

var formFields = []formField{
	{"Job title", "Backend Engineer"},
	{"Company", "Acme Corp"},
	{"Description", "What the role involves"},
	{"Eligible years", "2024, 2025"},
	{"Qualification", "B.Tech / M.Tech"},
	{"Apply link", "https://"},
	{"Location", "Hyderabad"},
	{"Last date", "2026-12-31"},
}

// adminState holds the admin panel: the form, the managed job list and stats.
type adminState struct {
	tab      AdminTab
	inputs   []textinput.Model
	field    int
	jobs     []api.Job
	cursor   int
	loading  bool
	jobsErr  error
	stats    *api.Stats
	statsErr error
	busy     bool // A submit, delete or edit load is in flight.
}

func newAdminState() adminState {
	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.Prompt = ""
		inputs[i] = ti
	}
	inputs[0].Focus()
	return adminState{inputs: inputs}
}

// form reads the inputs into an admin.Form.
func (as adminState) form() admin.Form {
	v := func(i int) string { return as.inputs[i].Value() }
	return admin.Form{
		JobName:        v(0),
		Company:        v(1),
		JobDescription: v(2),
		EligibleYears:  v(3),
		Qualification:  v(4),
		Link:           v(5),
		Location:       v(6),
		LastDate:       v(7),
	}
}

// fill writes f into the inputs and focuses the first one.
func (as *adminState) fill(f admin.Form) {
	values := []string{f.JobName, f.Company, f.JobDescription, f.EligibleYears,
		f.Qualification, f.Link, f.Location, f.LastDate}
	for i := range as.inputs {
		as.inputs[i].SetValue(values[i])
	}
	as.focusField(0)
}

func (as *adminState) focusField(i int) {
	n := len(as.inputs)
	i = (i%n + n) % n
	as.inputs[as.field].Blur()
	as.field = i
	as.inputs[i].Focus()
}

// updateInput forwards a message to the focused input.
func (as *adminState) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	as.inputs[as.field], cmd = as.inputs[as.field].Update(msg)
	return cmd
}

func (as *adminState) moveCursor(delta int) {
	if n := len(as.jobs); n > 0 {
		as.cursor = (as.cursor + delta + n) % n
	}
}

func (as adminState) selectedJob() (api.Job, bool) {
	if as.cursor < 0 || as.cursor >= len(as.jobs) {
		return api.Job{}, false
	}
	return as.jobs[as.cursor], true
}

// loadAdminJobs fetches the admin job list.
func loadAdminJobs(ctx context.Context, src Backend, token string) tea.Cmd {
	return func() tea.Msg {
		jobs, err := src.AdminJobs(ctx, token)
		return adminJobsMsg{Jobs: jobs, Err: err}
	}
}

// loadStats fetches visitor statistics.
func loadStats(ctx context.Context, src Backend) tea.Cmd {
	return func() tea.Msg {
		s, err := src.Stats(ctx)
		return statsMsg{Stats: s, Err: err}
	}
}

// loadViews fetches the view count of job id.
func loadViews(ctx context.Context, src Backend, id int) tea.Cmd {
	return func() tea.Msg {
		v, err := src.JobViews(ctx, id)
		return viewsMsg{Views: v, Err: err}
	}
}

// beginEdit loads job id into the editor.
func beginEdit(ctx context.Context, ed *admin.Controller, id int) tea.Cmd {
	return func() tea.Msg {
		return editLoadedMsg{ID: id, Err: ed.BeginEdit(ctx, id)}
	}
}

// submitForm sends the editor's form.
func submitForm(ctx context.Context, ed *admin.Controller) tea.Cmd {
	return func() tea.Msg {
		res, err := ed.Submit(ctx)
		return writeDoneMsg{Result: res, Err: err}
	}
}

// deleteJob removes job id through the editor.
func deleteJob(ctx context.Context, ed *admin.Controller, id int) tea.Cmd {
	return func() tea.Msg {
		res, err := ed.Delete(ctx, id)
		return writeDoneMsg{Result: res, Err: err}
	}
}

// tabsView renders the admin tab row.
func (as adminState) tabsView() string {
	labels := make([]string, len(adminTabNames))
	copy(labels, adminTabNames[:])
	return renderTabs(labels, as.tab.String())
}

// View renders the active admin tab.
func (as adminState) View(mode admin.Mode, spinnerView string) string {
	switch as.tab {
	case TabManageJobs:
		return as.viewManage(spinnerView)
	case TabStats:
		return as.viewStats(spinnerView)
	default:
		return as.viewForm(mode, spinnerView)
	}
}

func (as adminState) viewForm(mode admin.Mode, spinnerView string) string {
	var b strings.Builder
	if id, editing := mode.Target(); editing {
		b.WriteString(titleText.Render(fmt.Sprintf("Edit job #%d", id)))
	} else {
		b.WriteString(titleText.Render("Post a new job"))
	}
	b.WriteString("\n\n")
	for i, f := range formFields {
		marker := "  "
		if i == as.field {
			marker = CursorMarker
		}
		b.WriteString(marker)
		b.WriteString(labelText.Render(f.label))
		b.WriteString(as.inputs[i].View())
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	switch {
	case as.busy:
		fmt.Fprintf(&b, "%s Saving...", spinnerView)
	case mode.IsCreate():
		b.WriteString(mutedText.Render("ctrl+s to post"))
	default:
		b.WriteString(mutedText.Render("ctrl+s to save changes · esc to cancel the edit"))
	}
	return b.String()
}

func (as adminState) viewManage(spinnerView string) string {
	if as.loading && len(as.jobs) == 0 {
		return fmt.Sprintf("%s Loading jobs...", spinnerView)
	}
	if as.jobsErr != nil && len(as.jobs) == 0 {
		return fmt.Sprintf("Error: %s\n\nPress r to retry", as.jobsErr)
	}
	if len(as.jobs) == 0 {
		return "No jobs posted yet"
	}
	var b strings.Builder
	for i, j := range as.jobs {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == as.cursor {
			b.WriteString(CursorMarker)
		} else {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "#%d %s", j.ID, j.JobName)
		b.WriteString(mutedText.Render(" · " + j.Company))
	}
	return b.String()
}

func (as adminState) viewStats(spinnerView string) string {
	if as.statsErr != nil {
		return fmt.Sprintf("Error: %s\n\nPress r to retry", as.statsErr)
	}
	if as.stats == nil {
		return fmt.Sprintf("%s Loading stats...", spinnerView)
	}
	var b strings.Builder
	row := func(label string, n int64) {
		b.WriteString(labelText.Render(label))
		b.WriteString(humanize.Comma(n))
		b.WriteByte('\n')
	}
	row("Total visits", as.stats.TotalVisits)
	row("Unique visitors", as.stats.UniqueVisitors)
	row("Total jobs", as.stats.TotalJobs)
	return b.String()
}

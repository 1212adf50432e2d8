package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/smileynet/jobboard/internal/api"
	"github.com/smileynet/jobboard/internal/board"
	"github.com/smileynet/jobboard/internal/textutil"
)

// CursorMarker is the prefix shown on the selected row.
const CursorMarker = "▸ "

// anyValue is the picker index meaning "no filter".
const anyValue = -1

// browseState holds the public job list, its cursor, and the search inputs.
type browseState struct {
	col      *board.Collection
	cursor   int
	search   textinput.Model
	typing   bool
	yearIdx  int
	locIdx   int
	details  map[int]jobDetail
	selected int // Job ID whose detail was last requested.
}

// jobDetail is a fetched job with its view count.
type jobDetail struct {
	job   api.Job
	views int64
}

func newBrowseState(pageSize int) browseState {
	ti := textinput.New()
	ti.Placeholder = "title, company or keyword"
	ti.Prompt = "search: "
	return browseState{
		col:     board.NewCollection(pageSize),
		search:  ti,
		yearIdx: anyValue,
		locIdx:  anyValue,
		details: make(map[int]jobDetail),
	}
}

// loadJobs runs a board request and reports its ticketed result.
func loadJobs(ctx context.Context, src board.Source, req board.Request) tea.Cmd {
	return func() tea.Msg {
		jobs, err := req.Run(ctx, src)
		return jobsLoadedMsg{Ticket: req.Ticket, Jobs: jobs, Err: err}
	}
}

// loadFacets fetches the year and location facets.
func loadFacets(ctx context.Context, src board.Source) tea.Cmd {
	return func() tea.Msg {
		f, err := board.LoadFacets(ctx, src)
		return facetsLoadedMsg{Facets: f, Err: err}
	}
}

// loadDetail fetches one job and its view count.
func loadDetail(ctx context.Context, src Backend, id int) tea.Cmd {
	return func() tea.Msg {
		job, err := src.GetJob(ctx, id)
		if err != nil {
			return jobDetailMsg{ID: id, Err: err}
		}
		views, err := src.JobViews(ctx, id)
		if err != nil {
			return jobDetailMsg{ID: id, Job: job}
		}
		return jobDetailMsg{ID: id, Job: job, Views: views.Views}
	}
}

// applyJobs installs a board result. It reports false for stale results.
func (bs *browseState) applyJobs(msg jobsLoadedMsg) bool {
	if !bs.col.Apply(msg.Ticket, msg.Jobs, msg.Err) {
		return false
	}
	if msg.Err == nil {
		bs.cursor = 0
	}
	bs.clampCursor()
	return true
}

// forgetDetails drops every fetched job detail so the next enter refetches.
func (bs *browseState) forgetDetails() {
	bs.details = make(map[int]jobDetail)
	bs.selected = 0
}

// rows returns the number of selectable rows: visible jobs plus "load more".
func (bs browseState) rows() int {
	v := bs.col.View()
	n := len(v.Visible)
	if v.HasMore {
		n++
	}
	return n
}

func (bs *browseState) clampCursor() {
	if n := bs.rows(); bs.cursor >= n {
		bs.cursor = max(n-1, 0)
	}
}

func (bs *browseState) moveCursor(delta int) {
	n := bs.rows()
	if n == 0 {
		return
	}
	bs.cursor = (bs.cursor + delta + n) % n
}

// selectedJob returns the job under the cursor, if the cursor is on a job.
func (bs browseState) selectedJob() (api.Job, bool) {
	v := bs.col.View()
	if bs.cursor < 0 || bs.cursor >= len(v.Visible) {
		return api.Job{}, false
	}
	return v.Visible[bs.cursor], true
}

// onLoadMore reports whether the cursor is on the "load more" row.
func (bs browseState) onLoadMore() bool {
	v := bs.col.View()
	return v.HasMore && bs.cursor == len(v.Visible)
}

// cycleTab moves the active year tab by delta.
func (bs *browseState) cycleTab(delta int) {
	tabs := bs.col.Tabs()
	i := indexOf(tabs, bs.col.Tab())
	if i < 0 {
		i = 0
	}
	bs.col.SelectTab(tabs[(i+delta+len(tabs))%len(tabs)])
	bs.cursor = 0
}

// cyclePicker advances a facet picker: any, then each value, then any again.
func cyclePicker(idx int, values []string) int {
	if len(values) == 0 {
		return anyValue
	}
	idx++
	if idx >= len(values) {
		return anyValue
	}
	return idx
}

// selectors builds the selectors from the search input and the pickers.
func (bs browseState) selectors() board.Selectors {
	f := bs.col.Facets()
	return board.Selectors{
		Text:     bs.search.Value(),
		Years:    pick(f.Years, bs.yearIdx),
		Location: pick(distinct(f.Locations), bs.locIdx),
	}
}

// clearInputs resets the search input and the pickers.
func (bs *browseState) clearInputs() {
	bs.search.SetValue("")
	bs.yearIdx = anyValue
	bs.locIdx = anyValue
}

// header renders the tabs row and the search line.
func (bs browseState) header() string {
	v := bs.col.View()
	tabs := renderTabs(v.Tabs, v.Tab)

	years, loc := v.Selectors.Years, v.Selectors.Location
	if years == "" {
		years = "any"
	}
	if loc == "" {
		loc = "any"
	}
	search := bs.search.View()
	if !bs.typing && bs.search.Value() == "" {
		search = mutedText.Render("search: (press /)")
	}
	filters := mutedText.Render(fmt.Sprintf("   years: %s   location: %s", years, loc))
	return tabs + "\n" + search + filters
}

// View renders the job list pane, scrolled so the cursor stays within height.
func (bs browseState) View(height int, spinnerView string) string {
	v := bs.col.View()
	if v.Loading && v.Total == 0 {
		return fmt.Sprintf("%s Loading jobs...", spinnerView)
	}
	if v.Err != nil && v.Total == 0 {
		return fmt.Sprintf("Error: %s\n\nPress r to retry", v.Err)
	}
	if v.Total == 0 {
		if v.Searching {
			return "No jobs match your search. Press x to clear"
		}
		return "No jobs posted yet"
	}

	rows := make([]string, 0, len(v.Visible)+1)
	for i, j := range v.Visible {
		marker := "  "
		if i == bs.cursor {
			marker = CursorMarker
		}
		rows = append(rows, marker+j.JobName+mutedText.Render(" · "+j.Company))
	}
	if v.HasMore {
		marker := "  "
		if bs.cursor == len(v.Visible) {
			marker = CursorMarker
		}
		rows = append(rows, marker+mutedText.Render(fmt.Sprintf("Load more (%d remaining)", v.Remaining)))
	}

	// Two lines go to the footer, one more to the loading line.
	avail := height - 2
	if v.Loading {
		avail--
	}
	rows = window(rows, bs.cursor, max(avail, 1))

	var b strings.Builder
	if v.Loading {
		fmt.Fprintf(&b, "%s Loading...\n", spinnerView)
	}
	b.WriteString(strings.Join(rows, "\n"))
	fmt.Fprintf(&b, "\n\n%s", mutedText.Render(fmt.Sprintf("%d of %d jobs", len(v.Visible), v.Total)))
	return b.String()
}

// window returns at most n rows around cursor, keeping cursor visible.
func window(rows []string, cursor, n int) []string {
	if len(rows) <= n {
		return rows
	}
	start := max(cursor-n+1, 0)
	return rows[start : start+n]
}

// detailContent renders the selected job for the detail viewport.
func (bs browseState) detailContent() string {
	job, ok := bs.selectedJob()
	if !ok {
		if bs.onLoadMore() {
			return "Press enter to load more jobs"
		}
		return "Select a job to see its details"
	}
	d, fetched := bs.details[job.ID]
	if fetched {
		job = d.job
	}

	var b strings.Builder
	b.WriteString(titleText.Render(job.JobName))
	b.WriteByte('\n')
	b.WriteString(job.Company)
	b.WriteString("\n\n")
	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelText.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}
	field("Location", job.Location)
	field("Eligible years", job.EligibleYears)
	field("Qualification", job.Qualification)
	field("Apply by", job.LastDate)
	field("Apply at", job.Link)
	if fetched {
		field("Views", humanize.Comma(d.views))
	}
	if desc := textutil.PlainText(job.JobDescription); desc != "" {
		b.WriteString("\n")
		b.WriteString(desc)
	}
	switch {
	case fetched:
	case bs.selected == job.ID:
		b.WriteString("\n\n")
		b.WriteString(mutedText.Render("Loading details..."))
	default:
		b.WriteString("\n\n")
		b.WriteString(mutedText.Render("Press enter for full details"))
	}
	return b.String()
}

func pick(values []string, idx int) string {
	if idx < 0 || idx >= len(values) {
		return ""
	}
	return values[idx]
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}

// distinct drops repeated values, keeping first occurrences in order.
func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// Package board holds the public job list view-model: the last full
// collection, the last search result, the active year tab, the search
// selectors and the pager.
// It exposes plain data; rendering lives in the dashboard and the CLI.
package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/smileynet/jobboard/internal/api"
	"github.com/smileynet/jobboard/internal/paginate"
)

// AllTab is the tab label that shows the whole collection.
const AllTab = "all"

// Selectors are the three optional search inputs.
type Selectors struct {
	Text     string
	Years    string
	Location string
}

// Empty reports whether no selector is set.
func (s Selectors) Empty() bool { return s.APIQuery().Empty() }

// APIQuery converts the selectors to a search query.
func (s Selectors) APIQuery() api.Query {
	return api.Query{
		Q:        strings.TrimSpace(s.Text),
		Years:    strings.TrimSpace(s.Years),
		Location: strings.TrimSpace(s.Location),
	}
}

// Source is the read side of the backend the board needs.
type Source interface {
	ListJobs(ctx context.Context) ([]api.Job, error)
	Search(ctx context.Context, q api.Query) ([]api.Job, error)
	Years(ctx context.Context) ([]string, error)
	Locations(ctx context.Context) ([]string, error)
}

// Ticket orders fetches. Only the result of the latest ticket is applied.
type Ticket uint64

// Request is one fetch issued by the collection.
type Request struct {
	Ticket    Ticket
	Search    bool
	Selectors Selectors
}

// Run performs the request against src: a search when Search is set,
// otherwise the unfiltered list.
func (r Request) Run(ctx context.Context, src Source) ([]api.Job, error) {
	if r.Search {
		jobs, err := src.Search(ctx, r.Selectors.APIQuery())
		if err != nil {
			return nil, fmt.Errorf("board: search: %w", err)
		}
		return jobs, nil
	}
	jobs, err := src.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("board: load: %w", err)
	}
	return jobs, nil
}

// View is a snapshot of the collection for presentation.
type View struct {
	Visible   []api.Job
	Total     int
	HasMore   bool
	Remaining int
	Tab       string
	Tabs      []string
	Loading   bool
	Err       error
	Selectors Selectors
	Searching bool
}

// Collection is the job list state. It is not safe for concurrent use: the
// dashboard mutates it only from its update loop, and results computed on
// other goroutines are handed back through Apply.
type Collection struct {
	all       []api.Job // last unfiltered list; year tabs filter this
	found     []api.Job // last search result
	shown     []api.Job
	tab       string
	sel       Selectors
	searching bool
	pager     paginate.Pager
	seq       Ticket
	issued    Ticket // latest request driving the display
	isSearch  bool   // whether issued is a search
	fullOnly  Ticket // latest background refresh of all, 0 when superseded
	loading   bool
	err       error
	facets    Facets
}

// NewCollection returns an empty collection on the "all" tab.
func NewCollection(pageSize int) *Collection {
	return &Collection{tab: AllTab, pager: paginate.New(pageSize)}
}

func (c *Collection) begin(search bool) Request {
	c.seq++
	c.issued = c.seq
	c.isSearch = search
	if !search {
		c.fullOnly = 0
	}
	c.loading = true
	c.err = nil
	c.searching = search
	return Request{Ticket: c.issued, Search: search, Selectors: c.sel}
}

// Reload re-issues the current request: the active search if any, else the
// unfiltered list. The active tab is kept.
func (c *Collection) Reload() Request {
	return c.begin(c.searching)
}

// Refresh reloads after a write. While a search is shown it re-runs the
// search and also refetches the full list behind it, so year tabs never
// filter a pre-write collection.
func (c *Collection) Refresh() []Request {
	reqs := []Request{c.Reload()}
	if c.searching {
		c.seq++
		c.fullOnly = c.seq
		reqs = append(reqs, Request{Ticket: c.fullOnly})
	}
	return reqs
}

// Search sets the selectors, reactivates the "all" tab and issues a search.
func (c *Collection) Search(sel Selectors) Request {
	c.sel = sel
	c.tab = AllTab
	return c.begin(true)
}

// Reset clears the selectors, reactivates "all" and reloads the full list.
func (c *Collection) Reset() Request {
	c.sel = Selectors{}
	c.tab = AllTab
	return c.begin(false)
}

// Apply installs the result of the fetch holding ticket t. Only the latest
// request and the pending background refresh from Refresh are accepted;
// anything else is discarded and Apply returns false. A failed fetch keeps
// the previous jobs and records err.
func (c *Collection) Apply(t Ticket, jobs []api.Job, err error) bool {
	if t != 0 && t == c.fullOnly {
		c.fullOnly = 0
		if err == nil {
			c.all = jobs
			if !c.searching {
				c.refilter()
			}
		}
		return true
	}
	if t != c.issued {
		return false
	}
	c.loading = false
	if err != nil {
		c.err = err
		return true
	}
	if c.isSearch {
		c.found = jobs
	} else {
		c.all = jobs
	}
	c.refilter()
	return true
}

// SelectTab shows the jobs of the full collection whose eligible years
// contain label. AllTab (or an empty label) restores the whole collection.
// A shown search result is replaced; the selectors are kept. No request is
// made.
func (c *Collection) SelectTab(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = AllTab
	}
	c.tab = label
	c.searching = false
	c.refilter()
}

// LoadMore reveals the next page.
func (c *Collection) LoadMore() {
	c.pager = c.pager.LoadMore()
}

// SetSelectors records selectors without issuing a request. The dashboard
// calls it on every keystroke and searches once the input settles.
func (c *Collection) SetSelectors(sel Selectors) { c.sel = sel }

// Selectors returns the current selectors.
func (c *Collection) Selectors() Selectors { return c.sel }

// Tab returns the active tab label.
func (c *Collection) Tab() string { return c.tab }

// Tabs returns "all" followed by the known years.
func (c *Collection) Tabs() []string {
	return append([]string{AllTab}, c.facets.Years...)
}

// SetFacets installs the years and locations offered as selectors.
func (c *Collection) SetFacets(f Facets) { c.facets = f }

// Facets returns the installed facets.
func (c *Collection) Facets() Facets { return c.facets }

// Jobs returns the whole displayed set, including the hidden tail.
func (c *Collection) Jobs() []api.Job { return c.shown }

// Loading reports whether the latest request is still outstanding.
func (c *Collection) Loading() bool { return c.loading }

// View returns a snapshot for rendering.
func (c *Collection) View() View {
	return View{
		Visible:   paginate.Slice(c.shown, c.pager),
		Total:     len(c.shown),
		HasMore:   c.pager.HasMore(),
		Remaining: c.pager.Remaining(),
		Tab:       c.tab,
		Tabs:      c.Tabs(),
		Loading:   c.loading,
		Err:       c.err,
		Selectors: c.sel,
		Searching: c.searching,
	}
}

// refilter recomputes the displayed set and resets the pager: the search
// result while one is shown, else the full collection filtered by tab.
func (c *Collection) refilter() {
	switch {
	case c.searching:
		c.shown = c.found
	case c.tab == AllTab:
		c.shown = c.all
	default:
		shown := make([]api.Job, 0, len(c.all))
		for _, j := range c.all {
			if strings.Contains(j.EligibleYears, c.tab) {
				shown = append(shown, j)
			}
		}
		c.shown = shown
	}
	c.pager = c.pager.Reset(len(c.shown))
}

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/smileynet/jobboard/internal/admin"
	"github.com/smileynet/jobboard/internal/api"
	"github.com/smileynet/jobboard/internal/board"
	"github.com/smileynet/jobboard/internal/debounce"
	"github.com/smileynet/jobboard/internal/paginate"
)

// Default debounce delays for the search inputs.
const (
	DefaultQueryDebounce  = 500 * time.Millisecond
	DefaultFilterDebounce = 300 * time.Millisecond
)

// Model is the root Bubble Tea model for the dashboard TUI.
// It routes messages by mode and owns every piece of view state.
type Model struct {
	ctx      context.Context
	mode     Mode
	focus    Focus
	width    int
	height   int
	viewport viewport.Model
	help     help.Model
	spinner  spinner.Model
	detailID int // Job shown in the viewport; a change scrolls to the top.

	src    Backend
	sess   Sessions
	editor *admin.Controller
	log    *zap.Logger

	browse  browseState
	login   loginState
	admin   adminState
	confirm *confirmState
	alert   alert

	alertTTL    time.Duration
	pageSize    int
	queryDelay  time.Duration
	filterDelay time.Duration

	events         chan any
	queryDebounce  *debounce.Debouncer[string]
	filterDebounce *debounce.Debouncer[string]
}

// Option configures a Model.
type Option func(*Model)

// WithContext sets the context passed to every backend call.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithPageSize sets how many jobs each "load more" reveals.
func WithPageSize(n int) Option {
	return func(m *Model) { m.pageSize = n }
}

// WithDebounce sets the settle delays of the search box and the filter pickers.
func WithDebounce(query, filter time.Duration) Option {
	return func(m *Model) {
		m.queryDelay = query
		m.filterDelay = filter
	}
}

// WithAlertTTL sets how long transient alerts stay visible.
func WithAlertTTL(d time.Duration) Option {
	return func(m *Model) { m.alertTTL = d }
}

// WithLogger sets the dashboard logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.log = l }
}

// NewModel creates a dashboard Model in browse mode with left-pane focus.
func NewModel(src Backend, sess Sessions, opts ...Option) Model {
	m := Model{
		ctx:         context.Background(),
		mode:        ModeBrowse,
		focus:       PaneLeft,
		viewport:    viewport.New(0, 0),
		help:        help.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		src:         src,
		sess:        sess,
		log:         zap.NewNop(),
		login:       newLoginState(),
		admin:       newAdminState(),
		alertTTL:    DefaultAlertTTL,
		pageSize:    paginate.DefaultPageSize,
		queryDelay:  DefaultQueryDebounce,
		filterDelay: DefaultFilterDebounce,
		events:      make(chan any, 16),
	}
	for _, o := range opts {
		o(&m)
	}

	m.browse = newBrowseState(m.pageSize)
	events := m.events
	due := func(trigger string) { events <- searchDueMsg{Trigger: trigger} }
	m.queryDebounce = debounce.New(m.queryDelay, due)
	m.filterDebounce = debounce.New(m.filterDelay, due)
	m.editor = admin.New(src, sess,
		admin.WithRefresh(func() { events <- refreshMsg{} }),
		admin.WithLogger(m.log),
	)
	return m
}

// Init loads the job list and facets and starts listening for events.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadJobs(m.ctx, m.src, m.browse.col.Reload()),
		loadFacets(m.ctx, m.src),
		m.listen(),
		m.spinner.Tick,
	)
}

// listen waits for the next message on the event channel.
func (m Model) listen() tea.Cmd {
	events := m.events
	return func() tea.Msg { return eventMsg{Msg: <-events} }
}

// Update handles incoming messages with mode-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncDetail()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		_, rightWidth := PaneWidths(msg.Width)
		m.viewport.Width = max(rightWidth-borderChrome, 0)
		m.viewport.Height = m.contentHeight()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		next, cmd := m.update(msg.Msg)
		return next, tea.Batch(cmd, next.listen())

	case searchDueMsg:
		m.log.Debug("search settled", zap.String("trigger", msg.Trigger))
		return m.runSearch()

	case refreshMsg:
		return m.refresh()

	case jobsLoadedMsg:
		if m.browse.applyJobs(msg) && msg.Err != nil {
			return m.notify(alertError, errorMessage(msg.Err))
		}
		return m, nil

	case facetsLoadedMsg:
		if msg.Err != nil {
			m.log.Warn("loading facets", zap.Error(msg.Err))
			return m.notify(alertError, errorMessage(msg.Err))
		}
		m.browse.col.SetFacets(msg.Facets)
		return m, nil

	case jobDetailMsg:
		if msg.ID != m.browse.selected {
			return m, nil
		}
		if msg.Err != nil {
			return m.notify(alertError, errorMessage(msg.Err))
		}
		m.browse.details[msg.ID] = jobDetail{job: msg.Job, views: msg.Views}
		return m, nil

	case loginResultMsg:
		m.login.busy = false
		if msg.Err != nil {
			text := api.Detail(msg.Err)
			if text == "" {
				text = errorMessage(msg.Err)
			}
			return m.notify(alertError, text)
		}
		m.login.reset()
		m.src.Invalidate()
		var cmd, alertCmd tea.Cmd
		m, cmd = m.enterAdmin()
		m, alertCmd = m.notify(alertSuccess, "Logged in")
		return m, tea.Batch(cmd, alertCmd)

	case adminJobsMsg:
		m.admin.loading = false
		if msg.Err != nil {
			m.admin.jobsErr = msg.Err
			return m.fail(msg.Err)
		}
		m.admin.jobsErr = nil
		m.admin.jobs = msg.Jobs
		if m.admin.cursor >= len(m.admin.jobs) {
			m.admin.cursor = max(len(m.admin.jobs)-1, 0)
		}
		return m, nil

	case statsMsg:
		if msg.Err != nil {
			m.admin.statsErr = msg.Err
			return m, nil
		}
		m.admin.statsErr = nil
		m.admin.stats = &msg.Stats
		return m, nil

	case viewsMsg:
		if msg.Err != nil {
			return m.fail(msg.Err)
		}
		return m.notify(alertSuccess, fmt.Sprintf("Job #%d has %s views", msg.Views.JobID, humanize.Comma(msg.Views.Views)))

	case editLoadedMsg:
		m.admin.busy = false
		if msg.Err != nil {
			return m.fail(msg.Err)
		}
		m.admin.fill(m.editor.Form())
		m.admin.tab = TabAddJobs
		return m, nil

	case writeDoneMsg:
		m.admin.busy = false
		if msg.Err != nil {
			return m.fail(msg.Err)
		}
		m.admin.fill(m.editor.Form())
		return m.notify(alertSuccess, msg.Result.Message)

	case alertExpiredMsg:
		if msg.Seq == m.alert.seq {
			m.alert = alert{}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes key messages with global and mode-specific routing.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, m.quit()
	}
	if m.confirm != nil {
		return m.handleConfirmKey(msg)
	}
	switch m.mode {
	case ModeLogin:
		return m.handleLoginKey(msg)
	case ModeAdmin:
		return m.handleAdminKey(msg)
	default:
		return m.handleBrowseKey(msg)
	}
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	bs := &m.browse
	if bs.typing {
		switch msg.Type {
		case tea.KeyEsc:
			bs.typing = false
			bs.search.Blur()
			return m, nil
		case tea.KeyEnter:
			bs.typing = false
			bs.search.Blur()
			m.queryDebounce.Stop()
			return m.runSearch()
		}
		before := bs.search.Value()
		var cmd tea.Cmd
		bs.search, cmd = bs.search.Update(msg)
		if bs.search.Value() != before {
			bs.col.SetSelectors(bs.selectors())
			m.queryDebounce.Trigger("query")
		}
		return m, cmd
	}

	km := BrowseKeyMap()
	switch {
	case key.Matches(msg, km.Quit):
		return m, m.quit()

	case key.Matches(msg, km.Focus):
		if m.focus == PaneLeft {
			m.focus = PaneRight
		} else {
			m.focus = PaneLeft
		}
		return m, nil

	case m.focus == PaneRight && (key.Matches(msg, km.Up) || key.Matches(msg, km.Down)):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, km.Up):
		bs.moveCursor(-1)
		return m, nil

	case key.Matches(msg, km.Down):
		bs.moveCursor(1)
		return m, nil

	case key.Matches(msg, km.Enter):
		if bs.onLoadMore() {
			bs.col.LoadMore()
			return m, nil
		}
		if job, ok := bs.selectedJob(); ok {
			bs.selected = job.ID
			return m, loadDetail(m.ctx, m.src, job.ID)
		}
		return m, nil

	case key.Matches(msg, km.More):
		bs.col.LoadMore()
		return m, nil

	case key.Matches(msg, km.Search):
		bs.typing = true
		cmd := bs.search.Focus()
		return m, cmd

	case key.Matches(msg, km.PrevTab):
		bs.cycleTab(-1)
		return m, nil

	case key.Matches(msg, km.NextTab):
		bs.cycleTab(1)
		return m, nil

	case key.Matches(msg, km.Years):
		bs.yearIdx = cyclePicker(bs.yearIdx, bs.col.Facets().Years)
		bs.col.SetSelectors(bs.selectors())
		m.filterDebounce.Trigger("filter")
		return m, nil

	case key.Matches(msg, km.Location):
		bs.locIdx = cyclePicker(bs.locIdx, distinct(bs.col.Facets().Locations))
		bs.col.SetSelectors(bs.selectors())
		m.filterDebounce.Trigger("filter")
		return m, nil

	case key.Matches(msg, km.Clear):
		m.queryDebounce.Stop()
		m.filterDebounce.Stop()
		bs.clearInputs()
		bs.cursor = 0
		return m, loadJobs(m.ctx, m.src, bs.col.Reset())

	case key.Matches(msg, km.Refresh):
		return m.refresh()

	case key.Matches(msg, km.Admin):
		if m.sess.LoggedIn() {
			return m.enterAdmin()
		}
		m.mode = ModeLogin
		return m, nil
	}
	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	ls := &m.login
	km := InputKeyMap()
	switch {
	case key.Matches(msg, km.Back):
		ls.reset()
		m.mode = ModeBrowse
		return m, nil

	case key.Matches(msg, km.Next), key.Matches(msg, km.Prev):
		ls.switchField()
		return m, nil

	case msg.Type == tea.KeyEnter, key.Matches(msg, km.Submit):
		if ls.busy {
			return m, nil
		}
		if ls.field == 0 && msg.Type == tea.KeyEnter {
			ls.switchField()
			return m, nil
		}
		user, pass := ls.inputs[0].Value(), ls.inputs[1].Value()
		if user == "" || pass == "" {
			return m.notify(alertError, "Please enter username and password")
		}
		ls.busy = true
		return m, login(m.ctx, m.sess, m.src, user, pass)
	}
	cmd := ls.updateInput(msg)
	return m, cmd
}

func (m Model) handleAdminKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	as := &m.admin
	km := AdminKeyMap()
	ik := InputKeyMap()

	switch {
	case key.Matches(msg, km.NextTab):
		return m.switchAdminTab((as.tab + 1) % AdminTab(len(adminTabNames)))

	case key.Matches(msg, km.Logout):
		return m.logout()

	case key.Matches(msg, km.Back):
		if as.tab == TabAddJobs && !m.editor.Mode().IsCreate() {
			m.editor.Cancel()
			as.fill(admin.Form{})
			return m, nil
		}
		return m.leaveAdmin(), nil
	}

	if as.tab == TabAddJobs {
		switch {
		case key.Matches(msg, ik.Submit):
			if as.busy {
				return m, nil
			}
			m.editor.SetForm(as.form())
			as.busy = true
			return m, submitForm(m.ctx, m.editor)
		case key.Matches(msg, ik.Next), msg.Type == tea.KeyEnter:
			as.focusField(as.field + 1)
			return m, nil
		case key.Matches(msg, ik.Prev):
			as.focusField(as.field - 1)
			return m, nil
		}
		cmd := as.updateInput(msg)
		m.editor.SetForm(as.form())
		return m, cmd
	}

	switch msg.String() {
	case "1":
		return m.switchAdminTab(TabAddJobs)
	case "2":
		return m.switchAdminTab(TabManageJobs)
	case "3":
		return m.switchAdminTab(TabStats)
	}

	switch {
	case key.Matches(msg, km.Refresh):
		return m.refresh()
	case as.tab != TabManageJobs:
		return m, nil
	case key.Matches(msg, km.Up):
		as.moveCursor(-1)
	case key.Matches(msg, km.Down):
		as.moveCursor(1)
	case key.Matches(msg, km.Edit):
		if job, ok := as.selectedJob(); ok && !as.busy {
			as.busy = true
			return m, beginEdit(m.ctx, m.editor, job.ID)
		}
	case key.Matches(msg, km.Delete):
		if job, ok := as.selectedJob(); ok && !as.busy {
			m.confirm = &confirmState{jobID: job.ID, title: job.JobName}
		}
	case key.Matches(msg, km.Views):
		if job, ok := as.selectedJob(); ok {
			return m, loadViews(m.ctx, m.src, job.ID)
		}
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	km := ConfirmKeyMap()
	switch {
	case key.Matches(msg, km.Yes):
		id := m.confirm.jobID
		m.confirm = nil
		m.admin.busy = true
		return m, deleteJob(m.ctx, m.editor, id)
	case key.Matches(msg, km.No):
		m.confirm = nil
	}
	return m, nil
}

// runSearch searches with the current selectors, or reloads the full list
// once every selector is empty.
func (m Model) runSearch() (Model, tea.Cmd) {
	sel := m.browse.selectors()
	var req board.Request
	if sel.Empty() {
		req = m.browse.col.Reset()
	} else {
		req = m.browse.col.Search(sel)
	}
	m.browse.cursor = 0
	return m, loadJobs(m.ctx, m.src, req)
}

// refresh reloads the public list and facets, plus the admin data when
// logged in. Fetched job details are dropped with the list.
func (m Model) refresh() (Model, tea.Cmd) {
	m.browse.forgetDetails()
	var cmds []tea.Cmd
	for _, req := range m.browse.col.Refresh() {
		cmds = append(cmds, loadJobs(m.ctx, m.src, req))
	}
	cmds = append(cmds, loadFacets(m.ctx, m.src))
	if m.sess.LoggedIn() {
		m.admin.loading = true
		cmds = append(cmds, loadAdminJobs(m.ctx, m.src, m.sess.Token()), loadStats(m.ctx, m.src))
	}
	return m, tea.Batch(cmds...)
}

// enterAdmin opens the admin panel on the add-jobs tab.
func (m Model) enterAdmin() (Model, tea.Cmd) {
	m.mode = ModeAdmin
	m.admin.tab = TabAddJobs
	m.admin.loading = true
	return m, tea.Batch(
		loadAdminJobs(m.ctx, m.src, m.sess.Token()),
		loadStats(m.ctx, m.src),
	)
}

// leaveAdmin returns to browsing. A pending edit is dropped.
func (m Model) leaveAdmin() Model {
	m.editor.Cancel()
	m.admin.fill(admin.Form{})
	m.mode = ModeBrowse
	return m
}

// switchAdminTab activates tab. Leaving the form drops a pending edit.
func (m Model) switchAdminTab(tab AdminTab) (Model, tea.Cmd) {
	if m.admin.tab == TabAddJobs && tab != TabAddJobs && !m.editor.Mode().IsCreate() {
		m.editor.Cancel()
		m.admin.fill(admin.Form{})
	}
	m.admin.tab = tab
	switch tab {
	case TabManageJobs:
		m.admin.loading = true
		return m, loadAdminJobs(m.ctx, m.src, m.sess.Token())
	case TabStats:
		return m, loadStats(m.ctx, m.src)
	}
	return m, nil
}

// logout forgets the token and returns to browsing.
func (m Model) logout() (Model, tea.Cmd) {
	if err := m.sess.Logout(); err != nil {
		m.log.Warn("logout", zap.Error(err))
	}
	m = m.leaveAdmin()
	m.admin = newAdminState()
	m.src.Invalidate()
	m.browse.forgetDetails()
	reload := loadJobs(m.ctx, m.src, m.browse.col.Reload())
	m, alertCmd := m.notify(alertSuccess, "Logged out")
	return m, tea.Batch(reload, alertCmd)
}

// fail reports err. A rejected or missing token sends the user to login.
func (m Model) fail(err error) (Model, tea.Cmd) {
	if errors.Is(err, api.ErrUnauthorized) && m.sess.LoggedIn() {
		if xerr := m.sess.Expire(); xerr != nil {
			m.log.Warn("dropping rejected token", zap.Error(xerr))
		}
	}
	if m.mode == ModeAdmin && !m.sess.LoggedIn() {
		m = m.leaveAdmin()
		m.admin = newAdminState()
		m.mode = ModeLogin
	}
	return m.notify(alertError, errorMessage(err))
}

// notify shows a transient alert.
func (m Model) notify(kind alertKind, text string) (Model, tea.Cmd) {
	m.alert.seq++
	m.alert.text = text
	m.alert.kind = kind
	return m, expireAlert(m.alert.seq, m.alertTTL)
}

// quit stops pending debounced searches and exits.
func (m Model) quit() tea.Cmd {
	m.queryDebounce.Stop()
	m.filterDebounce.Stop()
	return tea.Quit
}

// typing reports whether a text field has keyboard focus.
func (m Model) typing() bool {
	return m.browse.typing || m.mode == ModeLogin || (m.mode == ModeAdmin && m.admin.tab == TabAddJobs)
}

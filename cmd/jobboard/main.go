package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/smileynet/jobboard"
	"github.com/smileynet/jobboard/internal/admin"
	"github.com/smileynet/jobboard/internal/api"
	"github.com/smileynet/jobboard/internal/board"
	"github.com/smileynet/jobboard/internal/cache"
	"github.com/smileynet/jobboard/internal/config"
	"github.com/smileynet/jobboard/internal/dashboard"
	"github.com/smileynet/jobboard/internal/logging"
	"github.com/smileynet/jobboard/internal/session"
	"github.com/smileynet/jobboard/internal/textutil"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for jobboard.
type CLI struct {
	Globals

	Version   kong.VersionFlag `help:"Show version." short:"V"`
	List      ListCmd          `cmd:"" help:"List posted jobs."`
	Search    SearchCmd        `cmd:"" help:"Search jobs by keyword, year or location."`
	Show      ShowCmd          `cmd:"" help:"Show one job in full."`
	Years     YearsCmd         `cmd:"" help:"List the eligible years in use."`
	Locations LocationsCmd     `cmd:"" help:"List the locations in use."`
	Stats     StatsCmd         `cmd:"" help:"Show visitor statistics."`
	Views     ViewsCmd         `cmd:"" help:"Show how often a job was viewed."`
	Status    StatusCmd        `cmd:"" help:"Check the backend and the stored login."`
	Login     LoginCmd         `cmd:"" help:"Log in as admin."`
	Logout    LogoutCmd        `cmd:"" help:"Forget the stored admin token."`
	Create    CreateCmd        `cmd:"" help:"Post a new job (admin)."`
	Update    UpdateCmd        `cmd:"" help:"Change a posted job (admin)."`
	Delete    DeleteCmd        `cmd:"" help:"Delete a posted job (admin)."`
	Dashboard DashboardCmd     `cmd:"" help:"Open the interactive dashboard TUI."`
	Config    ConfigCmd        `cmd:"" help:"Manage the config file."`
}

// Globals are flags shared by every command.
type Globals struct {
	APIURL string `name:"api-url" help:"Backend API root, overriding the config file."`
}

// app holds the dependencies built from config for one command.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	client *api.Client
	sess   *session.Session
	closer func() error
}

// setupError marks failures that happen before any backend call.
type setupError struct{ err error }

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig(g *Globals) (*config.Config, error) {
	cfg, err := config.LoadLayered(config.UserPath(), config.ProjectPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if g != nil && g.APIURL != "" {
		cfg.API.BaseURL = g.APIURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp wires the client, cache, rate limiter, logger and session from cfg.
func newApp(cfg *config.Config) (*app, error) {
	log, closer, err := logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, &setupError{err}
	}

	opts := []api.Option{
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		api.WithCache(cache.New(cache.WithTTL(cfg.Cache.TTL))),
		api.WithLogger(log),
	}
	if cfg.API.RateLimit > 0 {
		opts = append(opts, api.WithLimiter(rate.NewLimiter(rate.Limit(cfg.API.RateLimit), cfg.API.Burst)))
	}
	client := api.New(cfg.API.BaseURL, opts...)

	store, err := session.NewRegistry().NewStore(cfg.Session.Backend, session.StoreOptions{
		KeyringService: cfg.Session.KeyringService,
		Account:        accountFor(cfg.API.BaseURL),
		TokenFile:      cfg.Session.TokenFile,
	})
	if err != nil {
		_ = closer()
		return nil, &setupError{err}
	}
	sess, err := session.Open(store)
	if err != nil {
		_ = closer()
		return nil, &setupError{err}
	}
	return &app{cfg: cfg, log: log, client: client, sess: sess, closer: closer}, nil
}

// open loads config and builds the app for a command.
func open(g *Globals) (*app, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, &setupError{err}
	}
	return newApp(cfg)
}

func (a *app) Close() {
	_ = a.log.Sync()
	_ = a.closer()
}

// editor returns an admin controller over the app's client and session.
func (a *app) editor() *admin.Controller {
	return admin.New(a.client, a.sess, admin.WithLogger(a.log))
}

// accountFor keys stored tokens by backend host so servers do not share one.
func accountFor(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}

// signalContext returns a context cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// withApp opens the app, runs fn and closes the app.
func withApp(g *Globals, fn func(ctx context.Context, a *app) error) error {
	a, err := open(g)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx, stop := signalContext()
	defer stop()
	return fn(ctx, a)
}

// --- Browse commands ---

// ListCmd prints the job list one page at a time.
type ListCmd struct {
	Year string `help:"Only jobs open to this eligible year." placeholder:"YEAR"`
	Page int    `help:"Reveal this many pages." default:"1"`
	All  bool   `help:"Show every job."`
}

// Run executes the list command.
func (c *ListCmd) Run(g *Globals) error {
	return withApp(g, func(ctx context.Context, a *app) error {
		return c.run(ctx, os.Stdout, board.New(a.client, a.cfg.Pagination.PageSize))
	})
}

func (c *ListCmd) run(ctx context.Context, w io.Writer, b *board.Board) error {
	if err := b.Load(ctx); err != nil {
		return fmt.Errorf("list: %w", err)
	}
	if c.Year != "" {
		b.SelectTab(c.Year)
	}
	reveal(b, c.Page, c.All)
	return printJobs(w, b.View())
}

// SearchCmd searches the backend.
type SearchCmd struct {
	Q        string `name:"q" help:"Keyword matched against title, company and description."`
	Years    string `help:"Eligible year."`
	Location string `help:"Location."`
	Page     int    `help:"Reveal this many pages." default:"1"`
	All      bool   `help:"Show every match."`
}

// Run executes the search command.
func (c *SearchCmd) Run(g *Globals) error {
	return withApp(g, func(ctx context.Context, a *app) error {
		return c.run(ctx, os.Stdout, board.New(a.client, a.cfg.Pagination.PageSize))
	})
}

func (c *SearchCmd) run(ctx context.Context, w io.Writer, b *board.Board) error {
	sel := board.Selectors{Text: c.Q, Years: c.Years, Location: c.Location}
	if sel.Empty() {
		return errors.New("search: give at least one of --q, --years or --location")
	}
	if err := b.Search(ctx, sel); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	reveal(b, c.Page, c.All)
	return printJobs(w, b.View())
}

// reveal pages b forward to page pages, or to the end when all is set.
func reveal(b *board.Board, pages int, all bool) {
	for i := 1; i < pages || all; i++ {
		if !b.View().HasMore {
			return
		}
		b.LoadMore()
	}
}

// ShowCmd prints one job in full.
type ShowCmd struct {
	ID int `arg:"" help:"Job ID."`
}

// Run executes the show command.
func (c *ShowCmd) Run(g *Globals) error {
	return withApp(g, func(ctx context.Context, a *app) error {
		return c.run(ctx, os.Stdout, a.client)
	})
}

func (c *ShowCmd) run(ctx context.Context, w io.Writer, client *api.Client) error {
	job, err := client.GetJob(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	views, err := client.JobViews(ctx, c.ID)
	if err != nil {
		views = api.JobViews{JobID: c.ID, Views: -1}
	}

	_, _ = fmt.Fprintf(w, "#%d %s\n%s\n\n", job.ID, job.JobName, job.Company)
	rows := [][2]string{
		{"Location", job.Location},
		{"Eligible years", job.EligibleYears},
		{"Qualification", job.Qualification},
		{"Apply by", job.LastDate},
		{"Apply at", job.Link},
	}
	if views.Views >= 0 {
		rows = append(rows, [2]string{"Views", humanize.Comma(views.Views)})
	}
	for _, r := range rows {
		if r[1] != "" {
			_, _ = fmt.Fprintf(w, "%-16s%s\n", r[0], r[1])
		}
	}
	if desc := textutil.PlainText(job.JobDescription); desc != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", desc)
	}
	return nil
}

// YearsCmd prints the years facet.
type YearsCmd struct{}

// Run executes the years command.
func (c *YearsCmd) Run(g *Globals) error {
	return withApp(g, func(ctx context.Context, a *app) error {
		years, err := a.client.Years(ctx)
		if err != nil {
			return fmt.Errorf("years: %w", err)
		}
		return printLines(os.Stdout, years)
	})
}

// LocationsCmd prints the locations facet without repeats.
type LocationsCmd struct{}

// Run executes the locations command.
func (c *LocationsCmd) Run(g *Globals) error {
	return withApp(g, func(ctx context.Context, a *app) error {
		locs, err := a.client.Locations(ctx)
		if err != nil {
			return fmt.Errorf("locations: %w", err)
		}
		return printLines(os.Stdout, distinct(locs))
	})
}

// StatsCmd prints visitor statistics.
type StatsCmd struct{}

// Run executes the stats command.
func (c *StatsCmd) Run(g *Globals) error {
	return withApp(g, func(ctx context.Context, a *app) error {
		return c.run(ctx, os.Stdout, a.client)
	})
}

func (c *StatsCmd) run(ctx context.Context, w io.Writer, client *api.Client) error {
	s, err := client.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	return printTable(w, pterm.TableData{
		{"Metric", "Count"},
		{"Total visits", humanize.Comma(s.TotalVisits)},
		{"Unique visitors", humanize.Comma(s.UniqueVisitors)},
		{"Total jobs", humanize.Comma(s.TotalJobs)},
	})
}

// ViewsCmd prints the view count of one job.
type ViewsCmd struct {
	ID int `arg:"" help:"Job ID."`
}

// Run executes the views command.
func (c *ViewsCmd) Run(g *Globals) error {
	return withApp(g, func(ctx context.Context, a *app) error {
		v, err := a.client.JobViews(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("views: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stdout, "Job #%d has %s views\n", v.JobID, humanize.Comma(v.Views))
		return nil
	})
}

// StatusCmd reports backend health and whether the stored token is accepted.
type StatusCmd struct{}

// Run executes the status command.
func (c *StatusCmd) Run(g *Globals) error {
	return withApp(g, func(ctx context.Context, a *app) error {
		return c.run(ctx, os.Stdout, a.client, a.sess)
	})
}

func (c *StatusCmd) run(ctx context.Context, w io.Writer, client *api.Client, sess *session.Session) error {
	health, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	_, _ = fmt.Fprintf(w, "backend: %s (%s)\n", client.BaseURL(), health)

	if !sess.LoggedIn() {
		_, _ = fmt.Fprintln(w, "admin:   not logged in")
		return nil
	}
	if err := client.Verify(ctx, sess.Token()); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			if xerr := sess.Expire(); xerr != nil {
				return fmt.Errorf("status: %w", xerr)
			}
			_, _ = fmt.Fprintln(w, "admin:   token rejected, logged out")
			return nil
		}
		return fmt.Errorf("status: %w", err)
	}
	_, _ = fmt.Fprintln(w, "admin:   logged in")
	return nil
}

// --- Session commands ---

// LoginCmd exchanges admin credentials for a stored token.
type LoginCmd struct {
	Username string `help:"Admin username." required:""`
	Password string `help:"Admin password; prompted for when omitted." env:"JOBBOARD_PASSWORD"`
}

// Run executes the login command.
func (c *LoginCmd) Run(g *Globals) error {
	return withApp(g, func(ctx context.Context, a *app) error {
		if c.Password == "" {
			if !isTerminal(os.Stdin) {
				return errors.New("login: --password is required when stdin is not a terminal")
			}
			pw, err := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			c.Password = pw
		}
		return c.run(ctx, os.Stdout, a.sess, a.client)
	})
}

func (c *LoginCmd) run(ctx context.Context, w io.Writer, sess *session.Session, auth session.Authenticator) error {
	if err := sess.Login(ctx, auth, c.Username, c.Password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	_, _ = fmt.Fprintln(w, "Logged in")
	return nil
}

// LogoutCmd forgets the stored token.
type LogoutCmd struct{}

// Run executes the logout command.
func (c *LogoutCmd) Run(g *Globals) error {
	return withApp(g, func(_ context.Context, a *app) error {
		return c.run(os.Stdout, a.sess)
	})
}

func (c *LogoutCmd) run(w io.Writer, sess *session.Session) error {
	if !sess.LoggedIn() {
		_, _ = fmt.Fprintln(w, "Not logged in")
		return nil
	}
	if err := sess.Logout(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	_, _ = fmt.Fprintln(w, "Logged out")
	return nil
}

// --- Admin commands ---

// JobFlags are the form fields accepted by create and update.
type JobFlags struct {
	Title         string `help:"Job title."`
	Company       string `help:"Company name."`
	Description   string `help:"Job description; may contain HTML."`
	Years         string `help:"Eligible years, comma separated."`
	Qualification string `help:"Required qualification."`
	Link          string `help:"Application URL."`
	Location      string `help:"Job location."`
	LastDate      string `help:"Last date to apply."`
}

// apply overlays the non-empty flags onto f.
func (j JobFlags) apply(f admin.Form) admin.Form {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&f.JobName, j.Title)
	set(&f.Company, j.Company)
	set(&f.JobDescription, j.Description)
	set(&f.EligibleYears, j.Years)
	set(&f.Qualification, j.Qualification)
	set(&f.Link, j.Link)
	set(&f.Location, j.Location)
	set(&f.LastDate, j.LastDate)
	return f
}

// CreateCmd posts a new job.
type CreateCmd struct {
	JobFlags `embed:""`
}

// Run executes the create command.
func (c *CreateCmd) Run(g *Globals) error {
	return withApp(g, func(ctx context.Context, a *app) error {
		return c.run(ctx, os.Stdout, a.editor())
	})
}

func (c *CreateCmd) run(ctx context.Context, w io.Writer, ed *admin.Controller) error {
	ed.SetForm(c.apply(admin.Form{}))
	res, err := ed.Submit(ctx)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	_, _ = fmt.Fprintf(w, "%s (#%d)\n", res.Message, res.Job.ID)
	return nil
}

// UpdateCmd changes the given fields of a job, keeping the rest.
type UpdateCmd struct {
	ID       int `arg:"" help:"Job ID."`
	JobFlags `embed:""`
}

// Run executes the update command.
func (c *UpdateCmd) Run(g *Globals) error {
	return withApp(g, func(ctx context.Context, a *app) error {
		return c.run(ctx, os.Stdout, a.editor())
	})
}

func (c *UpdateCmd) run(ctx context.Context, w io.Writer, ed *admin.Controller) error {
	if err := ed.BeginEdit(ctx, c.ID); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	ed.SetForm(c.apply(ed.Form()))
	res, err := ed.Submit(ctx)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	_, _ = fmt.Fprintf(w, "%s (#%d)\n", res.Message, res.Job.ID)
	return nil
}

// DeleteCmd removes a job after confirmation.
type DeleteCmd struct {
	ID  int  `arg:"" help:"Job ID."`
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

// confirmFunc asks the user a yes/no question.
type confirmFunc func(question string) (bool, error)

// Run executes the delete command.
func (c *DeleteCmd) Run(g *Globals) error {
	return withApp(g, func(ctx context.Context, a *app) error {
		var confirm confirmFunc
		if isTerminal(os.Stdin) {
			confirm = func(q string) (bool, error) {
				return pterm.DefaultInteractiveConfirm.Show(q)
			}
		}
		return c.run(ctx, os.Stdout, a.editor(), confirm)
	})
}

func (c *DeleteCmd) run(ctx context.Context, w io.Writer, ed *admin.Controller, confirm confirmFunc) error {
	if !c.Yes {
		if confirm == nil {
			return errors.New("delete: pass --yes when stdin is not a terminal")
		}
		ok, err := confirm(fmt.Sprintf("Delete job #%d? This cannot be undone", c.ID))
		if err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		if !ok {
			_, _ = fmt.Fprintln(w, "Cancelled")
			return nil
		}
	}
	res, err := ed.Delete(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	_, _ = fmt.Fprintln(w, res.Message)
	return nil
}

// --- Dashboard command ---

// DashboardCmd opens the interactive dashboard TUI.
type DashboardCmd struct{}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds real dependencies and launches the dashboard TUI.
func (d *DashboardCmd) Run(g *Globals) error {
	if !isTerminal(os.Stdout) {
		return &setupError{errors.New("dashboard: requires a terminal (TTY)")}
	}
	return withApp(g, func(ctx context.Context, a *app) error {
		m := dashboard.NewModel(a.client, a.sess,
			dashboard.WithContext(ctx),
			dashboard.WithPageSize(a.cfg.Pagination.PageSize),
			dashboard.WithDebounce(a.cfg.Search.QueryDebounce, a.cfg.Search.FilterDebounce),
			dashboard.WithLogger(a.log),
		)
		prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		return d.run(true, prog)
	})
}

// run executes the tea program, enabling testable wiring.
func (d *DashboardCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("dashboard: requires a terminal (TTY)")
	}
	_, err := prog.Run()
	return err
}

// --- Config command ---

// ConfigCmd groups config file subcommands.
type ConfigCmd struct {
	Init ConfigInitCmd `cmd:"" help:"Write a starter config file."`
}

// ConfigInitCmd writes the embedded config template.
type ConfigInitCmd struct {
	Path  string `help:"Where to write the file; defaults to the user config path." type:"path"`
	Force bool   `help:"Overwrite an existing file."`
}

// Run executes the config init command.
func (c *ConfigInitCmd) Run() error {
	path := c.Path
	if path == "" {
		path = config.UserPath()
	}
	if path == "" {
		return &setupError{errors.New("config init: no user config directory; pass --path")}
	}
	// A templates/ directory next to the user config overrides the built-in template.
	tmpl := jobboard.OverlayFS(filepath.Join(filepath.Dir(config.UserPath()), "templates"), jobboard.Templates)
	return c.run(os.Stdout, path, tmpl)
}

func (c *ConfigInitCmd) run(w io.Writer, path string, templates fs.FS) error {
	if _, err := os.Stat(path); err == nil && !c.Force {
		return &setupError{fmt.Errorf("config init: %s already exists (use --force to overwrite)", path)}
	}
	data, err := fs.ReadFile(templates, jobboard.ConfigTemplate)
	if err != nil {
		return fmt.Errorf("config init: reading template: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config init: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config init: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

// --- Output ---

// printJobs renders the visible jobs as a table with a paging footer.
func printJobs(w io.Writer, v board.View) error {
	if v.Total == 0 {
		if v.Searching {
			_, _ = fmt.Fprintln(w, "No jobs match your search")
		} else {
			_, _ = fmt.Fprintln(w, "No jobs posted yet")
		}
		return nil
	}
	data := pterm.TableData{{"ID", "Title", "Company", "Location", "Years", "Apply by"}}
	for _, j := range v.Visible {
		data = append(data, []string{
			strconv.Itoa(j.ID),
			textutil.Clean(j.JobName),
			textutil.Clean(j.Company),
			textutil.Clean(j.Location),
			j.EligibleYears,
			j.LastDate,
		})
	}
	if err := printTable(w, data); err != nil {
		return err
	}
	footer := fmt.Sprintf("Showing %d of %d jobs", len(v.Visible), v.Total)
	if v.HasMore {
		footer += fmt.Sprintf(" (%d more, use --page or --all)", v.Remaining)
	}
	_, _ = fmt.Fprintln(w, footer)
	return nil
}

func printTable(w io.Writer, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	_, _ = fmt.Fprintln(w, out)
	return nil
}

func printLines(w io.Writer, lines []string) error {
	if len(lines) == 0 {
		_, _ = fmt.Fprintln(w, "(none)")
		return nil
	}
	_, _ = fmt.Fprintln(w, strings.Join(lines, "\n"))
	return nil
}

// distinct drops blanks and repeats, keeping first occurrences in order.
func distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// --- Errors and exit codes ---

const (
	exitSuccess = 0
	exitFailure = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *setupError
	if errors.As(err, &se) {
		return exitSetup
	}
	return exitFailure
}

// describe turns an error into the line printed on stderr.
func describe(err error) string {
	var ve *admin.ValidationError
	switch {
	case errors.Is(err, admin.ErrNotLoggedIn):
		return "not logged in (run: jobboard login --username NAME)"
	case errors.As(err, &ve):
		return ve.Error()
	}
	var ae *admin.ActionError
	if errors.As(err, &ae) {
		return ae.Message
	}
	if d := api.Detail(err); d != "" {
		return d
	}
	return err.Error()
}

func main() {
	if !isTerminal(os.Stdout) {
		pterm.DisableStyling()
	}
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("jobboard"),
		kong.Description("Browse and manage job postings."),
		kong.Vars{"version": version + " " + commit + " " + date},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", describe(err))
		os.Exit(exitCode(err))
	}
}

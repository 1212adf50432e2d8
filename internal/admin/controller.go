package admin

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/go-playground/validator.v9"

	"github.com/smileynet/jobboard/internal/api"
)

// ErrNotLoggedIn is returned before any network call when a write is
// attempted without a token.
var ErrNotLoggedIn = errors.New("admin: not logged in")

// Action names an admin operation.
type Action string

const (
	ActionLoad   Action = "load"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// fallbacks are shown when the backend gives no message.
var fallbacks = map[Action]string{
	ActionLoad:   "Failed to load job",
	ActionCreate: "Failed to post job",
	ActionUpdate: "Failed to update job",
	ActionDelete: "Failed to delete job",
}

// successes are the confirmations for completed actions.
var successes = map[Action]string{
	ActionCreate: "Job posted successfully!",
	ActionUpdate: "Job updated successfully!",
	ActionDelete: "Job deleted successfully",
}

// ActionError is a failed admin operation. Message is the backend detail
// when present, else a per-operation fallback.
type ActionError struct {
	Action  Action
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

func actionError(a Action, err error) *ActionError {
	msg := api.Detail(err)
	if msg == "" {
		msg = fallbacks[a]
	}
	return &ActionError{Action: a, Message: msg, Err: err}
}

// Backend is the subset of the API client the controller writes through.
type Backend interface {
	GetJob(ctx context.Context, id int) (api.Job, error)
	CreateJob(ctx context.Context, token string, in api.JobInput) (api.Job, error)
	UpdateJob(ctx context.Context, token string, id int, in api.JobInput) (api.Job, error)
	DeleteJob(ctx context.Context, token string, id int) error
	Invalidate()
}

// Tokens supplies the admin token and drops it when the backend rejects it.
type Tokens interface {
	Token() string
	Expire() error
}

// Result describes a completed write.
type Result struct {
	Action  Action
	Job     api.Job // Zero for deletes.
	Message string
}

// Controller owns the edit-mode state and the shared form. It is safe for
// concurrent use; the lock is never held across a network call.
type Controller struct {
	mu       sync.Mutex
	backend  Backend
	tokens   Tokens
	mode     Mode
	form     Form
	validate *validator.Validate
	refresh  func()
	log      *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithRefresh sets the hook fired after every successful write, so the
// admin list, public list and facets can be reloaded.
func WithRefresh(fn func()) Option {
	return func(c *Controller) { c.refresh = fn }
}

// WithLogger sets the controller's logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New returns a Controller in Create mode with an empty form.
func New(backend Backend, tokens Tokens, opts ...Option) *Controller {
	c := &Controller{
		backend:  backend,
		tokens:   tokens,
		validate: newValidator(),
		refresh:  func() {},
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Mode returns the current edit mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Form returns the current form contents.
func (c *Controller) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// SetForm replaces the form contents without changing the mode.
func (c *Controller) SetForm(f Form) {
	c.mu.Lock()
	c.form = f
	c.mu.Unlock()
}

// BeginEdit loads job id into the form and switches to Edit(id). A pending
// edit of another job is replaced. On failure the mode is unchanged.
func (c *Controller) BeginEdit(ctx context.Context, id int) error {
	if c.tokens.Token() == "" {
		return ErrNotLoggedIn
	}
	job, err := c.backend.GetJob(ctx, id)
	if err != nil {
		return actionError(ActionLoad, err)
	}
	c.mu.Lock()
	c.form = FormFromJob(job)
	c.mode = Edit(id)
	c.mu.Unlock()
	c.log.Debug("edit started", zap.Int("job_id", id))
	return nil
}

// Cancel clears the form and returns to Create mode.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
}

func (c *Controller) reset() {
	c.form = Form{}
	c.mode = Create()
}

// Submit sends the form: a create in Create mode, a full replace of the
// target in Edit mode. On success the cache is invalidated, the form is
// cleared, the mode returns to Create and the refresh hook fires. On failure
// the form and mode are left as they are.
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	token := c.tokens.Token()
	if token == "" {
		return Result{}, ErrNotLoggedIn
	}
	c.mu.Lock()
	mode, form := c.mode, c.form
	c.mu.Unlock()
	if err := validate(c.validate, form); err != nil {
		return Result{}, err
	}

	var (
		action Action
		job    api.Job
		err    error
	)
	if id, editing := mode.Target(); editing {
		action = ActionUpdate
		job, err = c.backend.UpdateJob(ctx, token, id, form.Input())
	} else {
		action = ActionCreate
		job, err = c.backend.CreateJob(ctx, token, form.Input())
	}
	if err != nil {
		c.expireOnUnauthorized(err)
		return Result{}, actionError(action, err)
	}

	c.backend.Invalidate()
	c.mu.Lock()
	if c.mode == mode {
		c.reset()
	}
	c.mu.Unlock()
	c.log.Info("job saved", zap.String("action", string(action)), zap.Int("job_id", job.ID))
	c.refresh()
	return Result{Action: action, Job: job, Message: successes[action]}, nil
}

// Delete removes job id. Deleting the job being edited returns to Create mode.
func (c *Controller) Delete(ctx context.Context, id int) (Result, error) {
	token := c.tokens.Token()
	if token == "" {
		return Result{}, ErrNotLoggedIn
	}
	if err := c.backend.DeleteJob(ctx, token, id); err != nil {
		c.expireOnUnauthorized(err)
		return Result{}, actionError(ActionDelete, err)
	}

	c.backend.Invalidate()
	c.mu.Lock()
	if target, editing := c.mode.Target(); editing && target == id {
		c.reset()
	}
	c.mu.Unlock()
	c.log.Info("job deleted", zap.Int("job_id", id))
	c.refresh()
	return Result{Action: ActionDelete, Message: successes[ActionDelete]}, nil
}

func (c *Controller) expireOnUnauthorized(err error) {
	if !errors.Is(err, api.ErrUnauthorized) {
		return
	}
	if xerr := c.tokens.Expire(); xerr != nil {
		c.log.Warn("dropping rejected token", zap.Error(xerr))
	}
}

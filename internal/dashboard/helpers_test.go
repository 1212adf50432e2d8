package dashboard

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/jobboard/internal/api"
	"github.com/smileynet/jobboard/internal/api/apitest"
	"github.com/smileynet/jobboard/internal/session"
)

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

type fixture struct {
	srv    *apitest.Server
	client *api.Client
	sess   *session.Session
	store  *session.FileStore
}

// newFixture starts a fake backend and an empty file-backed session.
func newFixture(t *testing.T, jobs ...api.Job) *fixture {
	t.Helper()
	srv := apitest.NewServer(t, jobs...)
	store := session.NewFileStore(filepath.Join(t.TempDir(), "token"))
	sess, err := session.Open(store)
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	return &fixture{srv: srv, client: api.New(srv.APIURL()), sess: sess, store: store}
}

// model returns a sized model with short debounce and alert delays.
func (f *fixture) model(t *testing.T, opts ...Option) Model {
	t.Helper()
	opts = append([]Option{
		WithDebounce(10*time.Millisecond, 10*time.Millisecond),
		WithAlertTTL(time.Millisecond),
	}, opts...)
	m := NewModel(f.client, f.sess, opts...)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

// loaded returns a model with the job list and facets already applied.
func (f *fixture) loaded(t *testing.T, opts ...Option) Model {
	t.Helper()
	m := f.model(t, opts...)
	m = drain(t, m, loadJobs(m.ctx, m.src, m.browse.col.Reload()))
	return drain(t, m, loadFacets(m.ctx, m.src))
}

// loggedIn logs the fixture session in against the fake backend.
func (f *fixture) loggedIn(t *testing.T) {
	t.Helper()
	if err := f.sess.Login(context.Background(), f.client, apitest.Username, apitest.Password); err != nil {
		t.Fatalf("login: %v", err)
	}
}

// send applies msg and runs the resulting commands to completion.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	return drain(t, updated.(Model), cmd)
}

// drain runs cmd and feeds every message it yields back into the model.
// Spinner ticks, cursor blinks and alert expiries are dropped to avoid
// endless loops.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range run(cmd) {
		m = send(t, m, msg)
	}
	return m
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg != nil && strings.HasSuffix(reflect.TypeOf(msg).PkgPath(), "bubbles/cursor") {
		return nil
	}
	switch msg := msg.(type) {
	case nil, spinner.TickMsg, alertExpiredMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// keyMsg builds the key message for a key name or literal runes.
func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press applies a key without running the commands it returns.
func press(m Model, k string) Model {
	updated, _ := m.Update(keyMsg(k))
	return updated.(Model)
}

// pressRun applies a key and runs the commands it returns.
func pressRun(t *testing.T, m Model, k string) Model {
	t.Helper()
	return send(t, m, keyMsg(k))
}

// typeText types s one rune at a time.
func typeText(m Model, s string) Model {
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

// nextEvent waits for the next message on the model's event channel.
func nextEvent(t *testing.T, m Model, within time.Duration) (any, bool) {
	t.Helper()
	select {
	case ev := <-m.events:
		return ev, true
	case <-time.After(within):
		return nil, false
	}
}

func visibleNames(m Model) []string {
	v := m.browse.col.View()
	out := make([]string, len(v.Visible))
	for i, j := range v.Visible {
		out[i] = j.JobName
	}
	return out
}


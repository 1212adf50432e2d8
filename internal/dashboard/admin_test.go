package dashboard

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/smileynet/jobboard/internal/admin"
	"github.com/smileynet/jobboard/internal/api/apitest"
	"github.com/smileynet/jobboard/internal/session"
)

// adminModel returns a loaded model already inside the admin panel.
func adminModel(t *testing.T, f *fixture) Model {
	t.Helper()
	f.loggedIn(t)
	m := f.loaded(t)
	m = pressRun(t, m, "a")
	if m.mode != ModeAdmin {
		t.Fatalf("mode = %d, want admin", m.mode)
	}
	return m
}

func validForm() admin.Form {
	return admin.Form{
		JobName:        "Platform Engineer",
		Company:        "Globex",
		JobDescription: "Run the platform",
		EligibleYears:  "2025",
		Qualification:  "B.Tech",
		Link:           "https://globex.example/jobs/1",
		Location:       "Pune",
		LastDate:       "2026-11-30",
	}
}

func TestLogin_Success(t *testing.T) {
	// Given: a logged-out user on the login form
	f := newFixture(t, apitest.Sample(2)...)
	m := f.loaded(t)
	m = press(m, "a")
	if m.mode != ModeLogin {
		t.Fatalf("mode = %d, want login", m.mode)
	}

	// When: entering valid credentials
	m = typeText(m, apitest.Username)
	m = press(m, "tab")
	m = typeText(m, apitest.Password)
	m = pressRun(t, m, "enter")

	// Then: the admin panel opens and the token is persisted
	if m.mode != ModeAdmin {
		t.Errorf("mode = %d, want admin", m.mode)
	}
	if !f.sess.LoggedIn() {
		t.Error("session should hold a token")
	}
	if tok, _ := f.store.Load(); tok != apitest.Token {
		t.Errorf("stored token = %q, want %q", tok, apitest.Token)
	}
	if len(m.admin.jobs) != 2 {
		t.Errorf("admin jobs = %d, want 2", len(m.admin.jobs))
	}
	if m.login.inputs[1].Value() != "" {
		t.Error("password should be cleared after login")
	}
	if m.alert.text != "Logged in" {
		t.Errorf("alert = %q", m.alert.text)
	}
}

func TestLogin_Failure(t *testing.T) {
	f := newFixture(t)
	m := f.loaded(t)
	m = press(m, "a")

	m = typeText(m, apitest.Username)
	m = press(m, "tab")
	m = typeText(m, "wrong")
	m = pressRun(t, m, "enter")

	if m.mode != ModeLogin {
		t.Errorf("mode = %d, want login", m.mode)
	}
	if m.login.busy {
		t.Error("busy flag should clear after a failed login")
	}
	if m.alert.kind != alertError || m.alert.text != "Invalid credentials" {
		t.Errorf("alert = %+v, want Invalid credentials", m.alert)
	}
	if f.sess.LoggedIn() {
		t.Error("failed login must not store a token")
	}
}

func TestLogin_RequiresBothFields(t *testing.T) {
	f := newFixture(t)
	m := f.loaded(t)
	m = press(m, "a")

	// enter on the username moves to the password field
	m = press(m, "enter")
	if m.login.field != 1 {
		t.Fatalf("field = %d, want password", m.login.field)
	}
	m = pressRun(t, m, "enter")

	if m.alert.text != "Please enter username and password" {
		t.Errorf("alert = %q", m.alert.text)
	}
	if f.srv.Hits("POST /api/admin/login") != 0 {
		t.Error("no login request should be sent")
	}
}

func TestLogin_EscReturnsToBrowse(t *testing.T) {
	f := newFixture(t)
	m := f.loaded(t)
	m = press(m, "a")
	m = typeText(m, "adm")

	m = press(m, "esc")

	if m.mode != ModeBrowse {
		t.Errorf("mode = %d, want browse", m.mode)
	}
	if m.login.inputs[0].Value() != "" {
		t.Error("esc should clear the login form")
	}
}

func TestAdmin_PostJob(t *testing.T) {
	// Given: the add-jobs form filled in
	f := newFixture(t, apitest.Sample(2)...)
	m := adminModel(t, f)
	m.admin.fill(validForm())

	// When: submitting
	m = pressRun(t, m, "ctrl+s")

	// Then: the job is created and the form is cleared
	if f.srv.Hits("POST /api/jobs") != 1 {
		t.Fatalf("create hits = %d, want 1", f.srv.Hits("POST /api/jobs"))
	}
	if m.alert.text != "Job posted successfully!" {
		t.Errorf("alert = %q", m.alert.text)
	}
	if m.admin.inputs[0].Value() != "" {
		t.Error("form should be cleared after posting")
	}
	if m.admin.busy {
		t.Error("busy flag should clear")
	}

	// And: a refresh is requested which shows the new job first
	ev, ok := nextEvent(t, m, time.Second)
	if !ok {
		t.Fatal("no refresh requested")
	}
	if _, isRefresh := ev.(refreshMsg); !isRefresh {
		t.Fatalf("event = %#v, want refreshMsg", ev)
	}
	m = send(t, m, ev)
	if names := visibleNames(m); len(names) != 3 || names[0] != "Platform Engineer" {
		t.Errorf("visible = %v, want new job first", names)
	}
	if len(m.admin.jobs) != 3 {
		t.Errorf("admin jobs = %d, want 3", len(m.admin.jobs))
	}
}

func TestAdmin_SubmitInvalidForm(t *testing.T) {
	f := newFixture(t)
	m := adminModel(t, f)
	form := validForm()
	form.Company = " "
	form.Link = "not a url"
	m.admin.fill(form)

	m = pressRun(t, m, "ctrl+s")

	if f.srv.Hits("POST /api/jobs") != 0 {
		t.Error("an invalid form must not be sent")
	}
	if m.alert.text != "Please fill in: company, link" {
		t.Errorf("alert = %q", m.alert.text)
	}
	if m.admin.inputs[0].Value() != form.JobName {
		t.Error("form contents should be kept")
	}
}

func TestAdmin_EditJob(t *testing.T) {
	// Given: the manage tab with job 2 selected
	f := newFixture(t, apitest.Sample(3)...)
	m := adminModel(t, f)
	m = pressRun(t, m, "ctrl+n")
	if m.admin.tab != TabManageJobs {
		t.Fatalf("tab = %s, want manage-jobs", m.admin.tab)
	}
	m = press(m, "down")

	// When: pressing e
	m = pressRun(t, m, "e")

	// Then: the form holds job 2 in edit mode
	if id, editing := m.editor.Mode().Target(); !editing || id != 2 {
		t.Fatalf("mode = %s, want edit #2", m.editor.Mode())
	}
	if m.admin.tab != TabAddJobs || m.admin.inputs[0].Value() != "Job 2" {
		t.Errorf("tab = %s title = %q", m.admin.tab, m.admin.inputs[0].Value())
	}
	if !containsPlainText(m.View(), "Edit job #2") {
		t.Error("form title should name the edited job")
	}

	// When: changing the title and saving
	m.admin.inputs[0].SetValue("Job 2 (remote)")
	m = pressRun(t, m, "ctrl+s")

	// Then: an update is sent and the editor returns to create mode
	if f.srv.Hits("PUT /api/jobs/2") != 1 || f.srv.Hits("POST /api/jobs") != 0 {
		t.Error("save should update job 2 without creating a job")
	}
	if got := f.srv.Jobs()[1].JobName; got != "Job 2 (remote)" {
		t.Errorf("stored title = %q", got)
	}
	if !m.editor.Mode().IsCreate() {
		t.Error("editor should return to create mode")
	}
	if m.alert.text != "Job updated successfully!" {
		t.Errorf("alert = %q", m.alert.text)
	}
}

func TestAdmin_LeavingFormCancelsEdit(t *testing.T) {
	f := newFixture(t, apitest.Sample(2)...)
	m := adminModel(t, f)
	m = pressRun(t, m, "ctrl+n")
	m = pressRun(t, m, "e")
	if m.editor.Mode().IsCreate() {
		t.Fatal("edit did not start")
	}

	m = pressRun(t, m, "ctrl+n")

	if !m.editor.Mode().IsCreate() {
		t.Error("switching tabs should cancel the edit")
	}
	if m.admin.inputs[0].Value() != "" {
		t.Error("form should be cleared")
	}
}

func TestAdmin_EscCancelsEditBeforeLeaving(t *testing.T) {
	f := newFixture(t, apitest.Sample(2)...)
	m := adminModel(t, f)
	m = pressRun(t, m, "ctrl+n")
	m = pressRun(t, m, "e")

	m = press(m, "esc")
	if m.mode != ModeAdmin || !m.editor.Mode().IsCreate() {
		t.Fatalf("first esc: mode = %d editor = %s, want admin create", m.mode, m.editor.Mode())
	}

	m = press(m, "esc")
	if m.mode != ModeBrowse {
		t.Errorf("second esc: mode = %d, want browse", m.mode)
	}
}

func TestAdmin_DeleteAsksForConfirmation(t *testing.T) {
	f := newFixture(t, apitest.Sample(2)...)
	m := adminModel(t, f)
	m = pressRun(t, m, "ctrl+n")

	// n cancels
	m = press(m, "d")
	if m.confirm == nil || m.confirm.jobID != 1 {
		t.Fatalf("confirm = %+v, want job 1", m.confirm)
	}
	if !containsPlainText(m.View(), "Delete job #1?") {
		t.Error("confirmation prompt should be shown")
	}
	m = press(m, "n")
	if m.confirm != nil || f.srv.Hits("DELETE /api/jobs/1") != 0 {
		t.Fatal("n should cancel without deleting")
	}

	// y deletes
	m = press(m, "d")
	m = pressRun(t, m, "y")
	if f.srv.Hits("DELETE /api/jobs/1") != 1 {
		t.Fatal("y should delete job 1")
	}
	if len(f.srv.Jobs()) != 1 {
		t.Errorf("jobs left = %d, want 1", len(f.srv.Jobs()))
	}
	if m.alert.text != "Job deleted successfully" {
		t.Errorf("alert = %q", m.alert.text)
	}

	ev, ok := nextEvent(t, m, time.Second)
	if !ok {
		t.Fatal("delete should request a refresh")
	}
	m = send(t, m, ev)
	if len(m.admin.jobs) != 1 || len(visibleNames(m)) != 1 {
		t.Errorf("after refresh admin = %d visible = %d, want 1 and 1", len(m.admin.jobs), len(visibleNames(m)))
	}
}

func TestAdmin_DeleteMissingJob(t *testing.T) {
	f := newFixture(t, apitest.Sample(2)...)
	m := adminModel(t, f)
	m = pressRun(t, m, "ctrl+n")
	f.srv.SetJobs(apitest.Sample(2)[1:])

	m = press(m, "d")
	m = pressRun(t, m, "y")

	if m.alert.kind != alertError || m.alert.text != "Job not found" {
		t.Errorf("alert = %+v, want Job not found", m.alert)
	}
	if m.mode != ModeAdmin {
		t.Error("a failed delete should stay in the admin panel")
	}
}

func TestAdmin_Views(t *testing.T) {
	f := newFixture(t, apitest.Sample(1)...)
	m := adminModel(t, f)
	m = pressRun(t, m, "ctrl+n")

	m = pressRun(t, m, "v")

	if !strings.HasPrefix(m.alert.text, "Job #1 has ") {
		t.Errorf("alert = %q", m.alert.text)
	}
}

func TestAdmin_StatsTab(t *testing.T) {
	f := newFixture(t, apitest.Sample(2)...)
	m := adminModel(t, f)

	m = pressRun(t, m, "ctrl+n")
	m = pressRun(t, m, "ctrl+n")

	if m.admin.tab != TabStats || m.admin.stats == nil {
		t.Fatalf("tab = %s stats = %v", m.admin.tab, m.admin.stats)
	}
	if m.admin.stats.TotalJobs != 2 {
		t.Errorf("total jobs = %d, want 2", m.admin.stats.TotalJobs)
	}
	if !containsPlainText(m.View(), "Unique visitors") {
		t.Error("stats tab should list visitor counts")
	}
}

func TestAdmin_Logout(t *testing.T) {
	f := newFixture(t)
	m := adminModel(t, f)

	m = pressRun(t, m, "ctrl+x")

	if m.mode != ModeBrowse || f.sess.LoggedIn() {
		t.Errorf("mode = %d loggedIn = %v, want browse and logged out", m.mode, f.sess.LoggedIn())
	}
	if tok, _ := f.store.Load(); tok != "" {
		t.Errorf("stored token = %q, want none", tok)
	}
	if m.alert.text != "Logged out" {
		t.Errorf("alert = %q", m.alert.text)
	}

	// a is now the login form again
	m = press(m, "a")
	if m.mode != ModeLogin {
		t.Errorf("mode = %d, want login", m.mode)
	}
}

func TestAdmin_RejectedTokenReturnsToLogin(t *testing.T) {
	// Given: a persisted token the backend no longer accepts
	f := newFixture(t, apitest.Sample(1)...)
	if err := f.store.Save("stale"); err != nil {
		t.Fatal(err)
	}
	sess, err := session.Open(f.store)
	if err != nil {
		t.Fatal(err)
	}
	f.sess = sess
	m := f.loaded(t)
	m = pressRun(t, m, "a")
	m.admin.fill(validForm())

	// When: posting a job
	m = pressRun(t, m, "ctrl+s")

	// Then: the token is dropped and the login form is shown
	if m.mode != ModeLogin {
		t.Errorf("mode = %d, want login", m.mode)
	}
	if f.sess.LoggedIn() {
		t.Error("rejected token should be forgotten")
	}
	if tok, _ := f.store.Load(); tok != "" {
		t.Errorf("stored token = %q, want none", tok)
	}
	if m.alert.text != "Invalid token" {
		t.Errorf("alert = %q, want backend detail", m.alert.text)
	}
}

func TestAdmin_UnauthorizedListReturnsToLogin(t *testing.T) {
	f := newFixture(t)
	f.loggedIn(t)
	m := f.loaded(t)
	f.srv.Fail("GET /api/jobs", http.StatusUnauthorized)

	m = pressRun(t, m, "a")

	if m.mode != ModeLogin || f.sess.LoggedIn() {
		t.Errorf("mode = %d loggedIn = %v, want login and logged out", m.mode, f.sess.LoggedIn())
	}
}

func TestAdmin_EditRefreshesOpenDetail(t *testing.T) {
	// Given: job 1's detail opened from the public list
	f := newFixture(t, apitest.Sample(2)...)
	f.loggedIn(t)
	m := f.loaded(t)
	m = pressRun(t, m, "enter")
	if _, ok := m.browse.details[1]; !ok {
		t.Fatal("detail for job 1 not stored")
	}

	// When: the admin renames job 1 and the lists refresh
	m = pressRun(t, m, "a")
	m = pressRun(t, m, "ctrl+n")
	m = pressRun(t, m, "e")
	m.admin.inputs[0].SetValue("Job 1 (remote)")
	m = pressRun(t, m, "ctrl+s")
	ev, ok := nextEvent(t, m, time.Second)
	if !ok {
		t.Fatal("no refresh requested")
	}
	m = send(t, m, ev)

	// Then: the detail pane shows the new title, not the fetched copy
	if _, ok := m.browse.details[1]; ok {
		t.Error("fetched details should be dropped on refresh")
	}
	content := m.browse.detailContent()
	if !containsPlainText(content, "Job 1 (remote)") {
		t.Errorf("detail = %q, want the updated title", stripANSI(content))
	}
}

func TestRefresh_DropsLateDetail(t *testing.T) {
	f := newFixture(t, apitest.Sample(2)...)
	m := f.loaded(t)
	m = press(m, "enter")

	m = send(t, m, refreshMsg{})
	m = send(t, m, jobDetailMsg{ID: 1, Job: apitest.Sample(1)[0]})

	if len(m.browse.details) != 0 {
		t.Errorf("details = %v, want the pre-refresh result dropped", m.browse.details)
	}
}

func TestAdmin_LogoutReloadsPublicList(t *testing.T) {
	// Given: an admin session over a cached list of two jobs
	f := newFixture(t, apitest.Sample(2)...)
	m := adminModel(t, f)
	f.srv.SetJobs(apitest.Sample(3))

	// When: logging out
	m = pressRun(t, m, "ctrl+x")

	// Then: the cache is dropped and the public list is fetched again
	if names := visibleNames(m); len(names) != 3 {
		t.Errorf("visible = %v, want the reloaded list of 3", names)
	}
	if m.alert.text != "Logged out" {
		t.Errorf("alert = %q", m.alert.text)
	}
}

func TestLogin_InvalidatesCache(t *testing.T) {
	f := newFixture(t, apitest.Sample(2)...)
	m := f.loaded(t)
	f.srv.SetJobs(apitest.Sample(3))

	m = press(m, "a")
	m = typeText(m, apitest.Username)
	m = press(m, "tab")
	m = typeText(m, apitest.Password)
	m = pressRun(t, m, "enter")
	if m.mode != ModeAdmin {
		t.Fatalf("mode = %d, want admin", m.mode)
	}

	jobs, err := f.client.ListJobs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 3 {
		t.Errorf("jobs = %d, want 3 fetched after login", len(jobs))
	}
}

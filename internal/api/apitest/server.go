// Package apitest provides an in-memory job board backend for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/smileynet/jobboard/internal/api"
)

// Default admin credentials accepted by the fake backend.
const (
	Username = "admin"
	Password = "admin123"
	Token    = "test-token"
)

// Server is a fake backend speaking the job board REST surface under /api.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	jobs   []api.Job
	nextID int
	hits   map[string]int
	visits int64
	fail   map[string]int // "METHOD /path" -> forced status
}

// NewServer starts a fake backend seeded with jobs and closes it with t.
func NewServer(t testing.TB, jobs ...api.Job) *Server {
	t.Helper()
	s := &Server{hits: make(map[string]int), fail: make(map[string]int), nextID: 1}
	for _, j := range jobs {
		if j.ID == 0 {
			j.ID = s.nextID
		}
		if j.ID >= s.nextID {
			s.nextID = j.ID + 1
		}
		s.jobs = append(s.jobs, j)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/jobs", s.listJobs)
	mux.HandleFunc("POST /api/jobs", s.createJob)
	mux.HandleFunc("GET /api/jobs/{id}", s.getJob)
	mux.HandleFunc("PUT /api/jobs/{id}", s.updateJob)
	mux.HandleFunc("DELETE /api/jobs/{id}", s.deleteJob)
	mux.HandleFunc("GET /api/search", s.search)
	mux.HandleFunc("GET /api/years", s.years)
	mux.HandleFunc("GET /api/locations", s.locations)
	mux.HandleFunc("POST /api/admin/login", s.login)
	mux.HandleFunc("GET /api/admin/verify", s.verify)
	mux.HandleFunc("GET /api/stats", s.stats)
	mux.HandleFunc("GET /api/stats/jobs/{id}", s.jobViews)
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})

	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// APIURL returns the API root to hand to api.New.
func (s *Server) APIURL() string { return s.URL + "/api" }

// Hits returns how many requests reached "METHOD /path".
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// TotalHits returns the number of requests served.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// Fail forces every request to "METHOD /path" to answer with status.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[route] = status
}

// Jobs returns a copy of the stored jobs.
func (s *Server) Jobs() []api.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Job(nil), s.jobs...)
}

// SetJobs replaces the stored jobs behind the client's back.
func (s *Server) SetJobs(jobs []api.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append([]api.Job(nil), jobs...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.hits[route]++
		s.visits++
		status, failing := s.fail[route]
		s.mu.Unlock()
		if failing {
			writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorized(w http.ResponseWriter, r *http.Request) bool {
	tok := r.URL.Query().Get("token")
	if tok == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		return false
	}
	if tok != Token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token"})
		return false
	}
	return true
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Jobs())
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	j, ok := s.find(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Job not found"})
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	var in api.JobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "invalid body"}}})
		return
	}
	s.mu.Lock()
	j := fromInput(s.nextID, in)
	s.nextID++
	s.jobs = append([]api.Job{j}, s.jobs...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, j)
}

func (s *Server) updateJob(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	var in api.JobInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{{"msg": "invalid body"}}})
		return
	}
	id, _ := strconv.Atoi(r.PathValue("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			s.jobs[i] = fromInput(id, in)
			writeJSON(w, http.StatusOK, s.jobs[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Job not found"})
}

func (s *Server) deleteJob(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	id, _ := strconv.Atoi(r.PathValue("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			s.jobs = append(s.jobs[:i], s.jobs[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Job deleted successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Job not found"})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	years := strings.ToLower(r.URL.Query().Get("years"))
	loc := strings.ToLower(r.URL.Query().Get("location"))

	out := []api.Job{}
	for _, j := range s.Jobs() {
		if q != "" && !containsAny(q, j.JobName, j.Company, j.JobDescription) {
			continue
		}
		if years != "" && !strings.Contains(strings.ToLower(j.EligibleYears), years) {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(j.Location), loc) {
			continue
		}
		out = append(out, j)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) years(w http.ResponseWriter, r *http.Request) {
	set := map[string]bool{}
	for _, j := range s.Jobs() {
		for _, y := range strings.Split(j.EligibleYears, ",") {
			if y = strings.TrimSpace(y); y != "" {
				set[y] = true
			}
		}
	}
	out := make([]string, 0, len(set))
	for y := range set {
		out = append(out, y)
	}
	sort.Strings(out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) locations(w http.ResponseWriter, r *http.Request) {
	out := []string{}
	for _, j := range s.Jobs() {
		if j.Location != "" {
			out = append(out, j.Location)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Username != Username || body.Password != Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"access_token": Token, "token_type": "bearer", "admin_id": 1})
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "admin_id": 1})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	body := map[string]int64{
		"total_visits":    s.visits,
		"unique_visitors": 1,
		"total_jobs":      int64(len(s.jobs)),
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) jobViews(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	s.mu.Lock()
	views := s.hits["GET /api/jobs/"+r.PathValue("id")]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]int{"job_id": id, "views": views})
}

func (s *Server) find(rawID string) (api.Job, bool) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return api.Job{}, false
	}
	for _, j := range s.Jobs() {
		if j.ID == id {
			return j, true
		}
	}
	return api.Job{}, false
}

func fromInput(id int, in api.JobInput) api.Job {
	return api.Job{
		ID:             id,
		JobName:        in.JobName,
		Company:        in.Company,
		JobDescription: in.JobDescription,
		EligibleYears:  in.EligibleYears,
		Qualification:  in.Qualification,
		Link:           in.Link,
		Location:       in.Location,
		LastDate:       in.LastDate,
	}
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Sample returns n jobs named "Job 1".."Job n" with distinct ids.
func Sample(n int) []api.Job {
	jobs := make([]api.Job, n)
	for i := range jobs {
		jobs[i] = api.Job{
			ID:             i + 1,
			JobName:        "Job " + strconv.Itoa(i+1),
			Company:        "Acme",
			JobDescription: "Build things",
			EligibleYears:  "2024",
			Qualification:  "B.Tech",
			Link:           "https://example.com/apply/" + strconv.Itoa(i+1),
			Location:       "Hyderabad",
			LastDate:       "2026-12-31",
		}
	}
	return jobs
}

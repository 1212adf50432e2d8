// Package api is the client for the job board REST backend.
package api

import (
	"net/url"
	"strings"
)

// Job is a job posting as returned by the backend.
type Job struct {
	ID             int    `json:"id"`
	JobName        string `json:"job_name"`
	Company        string `json:"company"`
	JobDescription string `json:"job_description"`
	EligibleYears  string `json:"eligible_years"`
	Qualification  string `json:"qualification"`
	Link           string `json:"link"`
	Location       string `json:"location"`
	LastDate       string `json:"last_date"`
	// Timestamps are kept as the backend's strings; they are display-only.
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Input returns the writable fields of j.
func (j Job) Input() JobInput {
	return JobInput{
		JobName:        j.JobName,
		Company:        j.Company,
		JobDescription: j.JobDescription,
		EligibleYears:  j.EligibleYears,
		Qualification:  j.Qualification,
		Link:           j.Link,
		Location:       j.Location,
		LastDate:       j.LastDate,
	}
}

// JobInput is the body of a create or full-replace update.
type JobInput struct {
	JobName        string `json:"job_name"`
	Company        string `json:"company"`
	JobDescription string `json:"job_description"`
	EligibleYears  string `json:"eligible_years"`
	Qualification  string `json:"qualification"`
	Link           string `json:"link"`
	Location       string `json:"location"`
	LastDate       string `json:"last_date"`
}

// Query holds the optional search selectors.
type Query struct {
	Q        string
	Years    string
	Location string
}

// Empty reports whether no selector is set.
func (q Query) Empty() bool {
	return strings.TrimSpace(q.Q) == "" && q.Years == "" && q.Location == ""
}

// Values returns the non-empty selectors as query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Q != "" {
		v.Set("q", q.Q)
	}
	if q.Years != "" {
		v.Set("years", q.Years)
	}
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	return v
}

// Stats are the site-wide visit and job counters.
type Stats struct {
	TotalVisits    int64 `json:"total_visits"`
	UniqueVisitors int64 `json:"unique_visitors"`
	TotalJobs      int64 `json:"total_jobs"`
}

// JobViews is the view counter of a single job.
type JobViews struct {
	JobID int   `json:"job_id"`
	Views int64 `json:"views"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type healthResponse struct {
	Status string `json:"status"`
}

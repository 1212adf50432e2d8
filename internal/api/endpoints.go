package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// ListJobs returns every active job, newest first.
func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	var jobs []Job
	if err := c.get(ctx, "/jobs", nil, &jobs); err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// AdminJobs returns the job list as seen by the admin panel. The token only
// distinguishes the cache entry; the backend serves the same list.
func (c *Client) AdminJobs(ctx context.Context, token string) ([]Job, error) {
	var jobs []Job
	if err := c.get(ctx, "/jobs", tokenQuery(token), &jobs); err != nil {
		return nil, fmt.Errorf("admin jobs: %w", err)
	}
	return jobs, nil
}

// GetJob fetches the current state of one job, bypassing the cache.
func (c *Client) GetJob(ctx context.Context, id int) (Job, error) {
	var job Job
	if err := c.uncached(ctx, jobPath(id), &job); err != nil {
		return Job{}, fmt.Errorf("get job %d: %w", id, err)
	}
	return job, nil
}

// CreateJob posts a new job.
func (c *Client) CreateJob(ctx context.Context, token string, in JobInput) (Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodPost, "/jobs", tokenQuery(token), in, &job); err != nil {
		return Job{}, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// UpdateJob replaces every writable field of job id.
func (c *Client) UpdateJob(ctx context.Context, token string, id int, in JobInput) (Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodPut, jobPath(id), tokenQuery(token), in, &job); err != nil {
		return Job{}, fmt.Errorf("update job %d: %w", id, err)
	}
	return job, nil
}

// DeleteJob removes job id.
func (c *Client) DeleteJob(ctx context.Context, token string, id int) error {
	if err := c.do(ctx, http.MethodDelete, jobPath(id), tokenQuery(token), nil, nil); err != nil {
		return fmt.Errorf("delete job %d: %w", id, err)
	}
	return nil
}

// Search returns the jobs matching every non-empty selector of q.
func (c *Client) Search(ctx context.Context, q Query) ([]Job, error) {
	var jobs []Job
	if err := c.get(ctx, "/search", q.Values(), &jobs); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return jobs, nil
}

// Years returns the sorted distinct eligibility year labels.
func (c *Client) Years(ctx context.Context) ([]string, error) {
	var years []string
	if err := c.get(ctx, "/years", nil, &years); err != nil {
		return nil, fmt.Errorf("years: %w", err)
	}
	return years, nil
}

// Locations returns the distinct job locations.
func (c *Client) Locations(ctx context.Context) ([]string, error) {
	var locs []string
	if err := c.get(ctx, "/locations", nil, &locs); err != nil {
		return nil, fmt.Errorf("locations: %w", err)
	}
	return locs, nil
}

// ErrNoToken indicates a login response without an access token.
var ErrNoToken = errors.New("api: login response carried no access token")

// Login exchanges admin credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/admin/login", nil, loginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("login: %w", ErrNoToken)
	}
	return out.AccessToken, nil
}

// Verify checks a token with the backend. It returns an error matching
// ErrUnauthorized if the token is rejected.
func (c *Client) Verify(ctx context.Context, token string) error {
	resp, err := c.roundTrip(ctx, http.MethodGet, c.endpoint("/admin/verify", tokenQuery(token)), nil)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("verify: %w", parseError(resp.Status, resp.Payload))
	}
	return nil
}

// Stats returns the site-wide counters.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := c.get(ctx, "/stats", nil, &s); err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return s, nil
}

// JobViews returns how often job id was viewed.
func (c *Client) JobViews(ctx context.Context, id int) (JobViews, error) {
	var v JobViews
	if err := c.get(ctx, "/stats/jobs/"+strconv.Itoa(id), nil, &v); err != nil {
		return JobViews{}, fmt.Errorf("job views %d: %w", id, err)
	}
	return v, nil
}

// Health reports the backend status string ("OK" when healthy).
func (c *Client) Health(ctx context.Context) (string, error) {
	var h healthResponse
	if err := c.uncached(ctx, "/health", &h); err != nil {
		return "", fmt.Errorf("health: %w", err)
	}
	return h.Status, nil
}

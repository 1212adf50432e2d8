package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/smileynet/jobboard/internal/cache"
)

// DefaultTimeout bounds a single request round trip.
const DefaultTimeout = 20 * time.Second

// Response is the outcome of Fetch. OK is true for 2xx statuses.
type Response struct {
	Payload []byte
	OK      bool
	Status  int
	Cached  bool
}

// Client talks to the job board backend. Idempotent reads go through the
// response cache; writes never populate it and callers must Invalidate
// after every successful write.
type Client struct {
	baseURL string
	hc      *http.Client
	cache   *cache.Cache
	limiter *rate.Limiter
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithCache replaces the default response cache.
func WithCache(rc *cache.Cache) Option {
	return func(c *Client) { c.cache = rc }
}

// WithLimiter paces outgoing requests. A nil limiter disables pacing.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client for the API rooted at baseURL (e.g. http://localhost:8000/api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: DefaultTimeout},
		cache:   cache.New(),
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Invalidate drops every cached read. Call it after any successful write.
func (c *Client) Invalidate() {
	c.cache.Invalidate()
	c.log.Debug("cache invalidated")
}

// Fetch performs a request, serving fresh cached payloads for idempotent
// reads without a network call. Successful reads are cached unless the cache
// was invalidated while they were in flight; failures and writes never are. A non-2xx status is not an error: it is reported through
// Response.OK and Response.Status. Transport failures wrap ErrTransport.
func (c *Client) Fetch(ctx context.Context, rawURL string, opts cache.Options) (Response, error) {
	key := cache.Key(rawURL, opts)
	gen := c.cache.Generation()
	if opts.Cacheable() {
		if payload, ok := c.cache.Get(key); ok {
			c.log.Debug("request", zap.String("method", methodOf(opts)), zap.String("path", redact(rawURL)), zap.Bool("cached", true))
			return Response{Payload: payload, OK: true, Status: http.StatusOK, Cached: true}, nil
		}
	}

	resp, err := c.roundTrip(ctx, methodOf(opts), rawURL, opts.Body)
	if err != nil {
		return Response{}, err
	}
	if resp.OK && opts.Cacheable() && !c.cache.SetIfGeneration(gen, key, resp.Payload) {
		c.log.Debug("dropped response fetched before invalidation", zap.String("path", redact(rawURL)))
	}
	return resp, nil
}

// roundTrip sends one request over the network, pacing it through the limiter.
func (c *Client) roundTrip(ctx context.Context, method, rawURL string, payload []byte) (Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Response{}, fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}

	var body io.Reader
	if len(payload) > 0 {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return Response{}, fmt.Errorf("api: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "jobboard/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", redact(rawURL)), zap.Error(err))
		return Response{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", redact(rawURL)),
		zap.Int("status", res.StatusCode),
		zap.Bool("cached", false),
		zap.Duration("took", time.Since(start)),
	)
	return Response{
		Payload: data,
		OK:      res.StatusCode >= 200 && res.StatusCode < 300,
		Status:  res.StatusCode,
	}, nil
}

// endpoint joins path and the non-empty query onto the base URL.
func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// get performs a cached read and decodes a successful body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// do performs a request and decodes the JSON response into out (if non-nil).
// Failed statuses become *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	opts := cache.Options{Method: method}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encoding %s %s: %w", method, path, err)
		}
		opts.Body = b
	}

	resp, err := c.Fetch(ctx, c.endpoint(path, query), opts)
	if err != nil {
		return err
	}
	if !resp.OK {
		return parseError(resp.Status, resp.Payload)
	}
	if out == nil || len(resp.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Payload, out); err != nil {
		return fmt.Errorf("api: decoding %s %s: %w", method, path, err)
	}
	return nil
}

// uncached performs a GET that neither reads nor populates the cache.
func (c *Client) uncached(ctx context.Context, path string, out any) error {
	resp, err := c.roundTrip(ctx, http.MethodGet, c.endpoint(path, nil), nil)
	if err != nil {
		return err
	}
	if !resp.OK {
		return parseError(resp.Status, resp.Payload)
	}
	if err := json.Unmarshal(resp.Payload, out); err != nil {
		return fmt.Errorf("api: decoding GET %s: %w", path, err)
	}
	return nil
}

func methodOf(opts cache.Options) string {
	if opts.Method == "" {
		return http.MethodGet
	}
	return opts.Method
}

// redact strips the query string so tokens never reach the log.
func redact(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

func tokenQuery(token string) url.Values {
	return url.Values{"token": []string{token}}
}

func jobPath(id int) string {
	return "/jobs/" + strconv.Itoa(id)
}

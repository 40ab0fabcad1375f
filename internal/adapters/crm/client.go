// Package crm adapts the external pipeline CRM's HTTP API to the directory
// ports: paginated card listing, single-card detail, moves, and the
// pipeline/status directory.
package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"leadrouter/internal/core/domain"
	"leadrouter/internal/core/ports"
	"leadrouter/internal/platform/errors"
	"leadrouter/internal/platform/httpclient"
	"leadrouter/internal/platform/logx"
	"leadrouter/internal/platform/resilience"
)

// Options configures the CRM client.
type Options struct {
	BaseURL    string
	AuthToken  string
	Timeout    time.Duration
	RateLimit  float64
	MaxRetries int
	Logger     logx.Logger

	// Breaker guards the API against failure cascades. A default one is
	// created when nil.
	Breaker *resilience.CircuitBreaker
}

// Client talks to the CRM API. It implements ports.CardDirectory and
// ports.PipelineDirectory; every failed request comes back as a classified
// *domain.SearchError value.
type Client struct {
	http    *httpclient.Client
	baseURL string
	token   string
	breaker *resilience.CircuitBreaker
	logger  logx.Logger

	// scopedListGone goes sticky once the pipeline-scoped listing path
	// returns 404: older CRM deployments only expose the global endpoint.
	mu             sync.Mutex
	scopedListGone bool
}

// New creates a CRM client.
func New(opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Breaker == nil {
		opts.Breaker = resilience.NewCircuitBreaker(5, 60*time.Second, 3)
	}

	httpCfg := httpclient.Config{
		Timeout:        opts.Timeout,
		MaxRetries:     opts.MaxRetries,
		RetryBackoff:   1 * time.Second,
		UserAgent:      "leadrouter/1.0",
		RateLimit:      opts.RateLimit,
		RateLimitBurst: 1,
	}

	return &Client{
		http:    httpclient.New(httpCfg, opts.Logger),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.AuthToken,
		breaker: opts.Breaker,
		logger:  opts.Logger.With("component", "crm"),
	}
}

// ListCards fetches one page of cards filtered by pipeline/status. It tries
// the pipeline-scoped path first and falls back to the global endpoint with
// query filters when the scoped path does not exist.
func (c *Client) ListCards(ctx context.Context, q ports.CardQuery) (*ports.CardPage, error) {
	if !c.breaker.Allow() {
		return nil, &domain.SearchError{Kind: domain.SearchNetworkError, Err: errors.ErrCircuitOpen}
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("per_page", strconv.Itoa(q.PerPage))
	if q.StatusID != "" {
		query.Set("status_id", q.StatusID)
	}

	useScoped := q.PipelineID != "" && !c.scopedGone()

	var endpoint string
	if useScoped {
		endpoint = fmt.Sprintf("%s/pipelines/%s/cards?%s", c.baseURL, url.PathEscape(q.PipelineID), query.Encode())
	} else {
		if q.PipelineID != "" {
			query.Set("pipeline_id", q.PipelineID)
		}
		endpoint = fmt.Sprintf("%s/cards?%s", c.baseURL, query.Encode())
	}

	resp, err := c.http.Get(ctx, endpoint, c.headers())
	if err != nil {
		c.breaker.RecordFailure()
		return nil, &domain.SearchError{Kind: domain.SearchNetworkError, Err: err}
	}

	if useScoped && resp.StatusCode == http.StatusNotFound {
		httpclient.ReadBody(resp)
		c.markScopedGone()
		c.logger.Info("scoped card listing unavailable, using global endpoint")
		return c.ListCards(ctx, q)
	}

	body, err := httpclient.ReadBody(resp)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, &domain.SearchError{Kind: domain.SearchNetworkError, Err: err}
	}

	if searchErr := c.classify(resp, body); searchErr != nil {
		return nil, searchErr
	}
	c.breaker.RecordSuccess()

	var parsed listResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &domain.SearchError{
			Kind: domain.SearchNetworkError,
			Body: string(body),
			Err:  errors.Wrap(errors.ErrInvalidResponse, err.Error()),
		}
	}

	wire := parsed.cards()
	page := &ports.CardPage{
		Cards:   make([]domain.Card, 0, len(wire)),
		HasNext: parsed.hasNext(len(wire), q.PerPage),
	}
	for _, w := range wire {
		page.Cards = append(page.Cards, w.toDomain())
	}

	return page, nil
}

// GetCard fetches a single card's full detail record.
func (c *Client) GetCard(ctx context.Context, id int64) (*domain.Card, error) {
	if !c.breaker.Allow() {
		return nil, &domain.SearchError{Kind: domain.SearchNetworkError, Err: errors.ErrCircuitOpen}
	}

	endpoint := fmt.Sprintf("%s/cards/%d", c.baseURL, id)

	resp, err := c.http.Get(ctx, endpoint, c.headers())
	if err != nil {
		c.breaker.RecordFailure()
		return nil, &domain.SearchError{Kind: domain.SearchNetworkError, Err: err}
	}

	body, err := httpclient.ReadBody(resp)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, &domain.SearchError{Kind: domain.SearchNetworkError, Err: err}
	}

	if searchErr := c.classify(resp, body); searchErr != nil {
		return nil, searchErr
	}
	c.breaker.RecordSuccess()

	var parsed cardResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &domain.SearchError{
			Kind: domain.SearchNetworkError,
			Body: string(body),
			Err:  errors.Wrap(errors.ErrInvalidResponse, err.Error()),
		}
	}

	card := parsed.toDomain()
	return &card, nil
}

// MoveCard relocates a card. A non-2xx answer is not an error: it becomes an
// unsuccessful MoveResponse with the raw body retained for diagnostics.
func (c *Client) MoveCard(ctx context.Context, req ports.MoveRequest) (*ports.MoveResponse, error) {
	if !c.breaker.Allow() {
		return nil, &domain.SearchError{Kind: domain.SearchNetworkError, Err: errors.ErrCircuitOpen}
	}

	payload, err := json.Marshal(map[string]any{
		"card_id":        req.CardID,
		"to_pipeline_id": req.ToPipelineID,
		"to_status_id":   req.ToStatusID,
	})
	if err != nil {
		return nil, &domain.SearchError{Kind: domain.SearchNetworkError, Err: err}
	}

	endpoint := fmt.Sprintf("%s/cards/%d/move", c.baseURL, req.CardID)

	headers := c.headers()
	headers["Content-Type"] = "application/json"

	resp, err := c.http.Post(ctx, endpoint, payload, headers)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, &domain.SearchError{Kind: domain.SearchNetworkError, Err: err}
	}

	body, err := httpclient.ReadBody(resp)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, &domain.SearchError{Kind: domain.SearchNetworkError, Err: err}
	}

	if resp.StatusCode >= 500 {
		c.breaker.RecordFailure()
	} else {
		c.breaker.RecordSuccess()
	}

	out := &ports.MoveResponse{
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var parsed moveResponse
		if err := json.Unmarshal(body, &parsed); err == nil {
			out.OK = parsed.ok()
		} else {
			// 2xx with an unparseable body still counts as a completed move
			out.OK = true
		}
	}

	return out, nil
}

// ListPipelines fetches the pipeline/status directory.
func (c *Client) ListPipelines(ctx context.Context) ([]domain.Pipeline, error) {
	if !c.breaker.Allow() {
		return nil, &domain.SearchError{Kind: domain.SearchNetworkError, Err: errors.ErrCircuitOpen}
	}

	endpoint := c.baseURL + "/pipelines"

	resp, err := c.http.Get(ctx, endpoint, c.headers())
	if err != nil {
		c.breaker.RecordFailure()
		return nil, &domain.SearchError{Kind: domain.SearchNetworkError, Err: err}
	}

	body, err := httpclient.ReadBody(resp)
	if err != nil {
		c.breaker.RecordFailure()
		return nil, &domain.SearchError{Kind: domain.SearchNetworkError, Err: err}
	}

	if searchErr := c.classify(resp, body); searchErr != nil {
		return nil, searchErr
	}
	c.breaker.RecordSuccess()

	var parsed pipelinesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &domain.SearchError{
			Kind: domain.SearchNetworkError,
			Body: string(body),
			Err:  errors.Wrap(errors.ErrInvalidResponse, err.Error()),
		}
	}

	wire := parsed.pipelines()
	out := make([]domain.Pipeline, 0, len(wire))
	for _, p := range wire {
		out = append(out, p.toDomain())
	}
	return out, nil
}

// classify maps a non-2xx response to the search error taxonomy and feeds the
// circuit breaker. Returns nil for 2xx.
func (c *Client) classify(resp *http.Response, body []byte) *domain.SearchError {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil

	case resp.StatusCode == http.StatusTooManyRequests:
		c.breaker.RecordFailure()
		return &domain.SearchError{
			Kind:       domain.SearchRateLimited,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp),
			Body:       string(body),
		}

	default:
		if resp.StatusCode >= 500 {
			c.breaker.RecordFailure()
		}
		return &domain.SearchError{
			Kind:       domain.SearchRequestFailed,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}
}

func (c *Client) headers() map[string]string {
	h := map[string]string{
		"Accept": "application/json",
	}
	if c.token != "" {
		h["Authorization"] = "Bearer " + c.token
	}
	return h
}

func (c *Client) scopedGone() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scopedListGone
}

func (c *Client) markScopedGone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scopedListGone = true
}

func parseRetryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	ghapi "github.com/google/go-github/v72/github"

	"github.com/gnosis/gnosisvpn-release/internal/build"
	"github.com/gnosis/gnosisvpn-release/internal/metrics"
	"github.com/gnosis/gnosisvpn-release/internal/retry"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com/"
	// APIVersion is the REST API version pinned on every request.
	APIVersion = "2022-11-28"

	mediaTypeJSON = "application/vnd.github+json"
)

// throttlePattern matches 403 bodies that report rate limiting rather than
// a permission problem.
var throttlePattern = regexp.MustCompile(`(?i)rate limit|throttle|too many requests`)

// Options configures a Client. The zero value talks to api.github.com with
// the default retry policy.
type Options struct {
	// BaseURL overrides the API endpoint. A trailing slash is added if missing.
	BaseURL string

	// HTTPClient is the underlying transport. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// MaxAttempts bounds throttled retries. Defaults to retry.DefaultMaxAttempts.
	MaxAttempts int

	// InitialDelay is the first backoff delay. Defaults to retry.DefaultInitialDelay.
	InitialDelay time.Duration

	// Sleep replaces the backoff wait, for tests.
	Sleep retry.SleepFunc

	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// Now supplies the fallback entry date. Defaults to time.Now.
	Now func() time.Time
}

// Client is a read-only GitHub API client.
type Client struct {
	gh      *ghapi.Client
	policy  retry.Policy
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates a client authenticated with token.
func New(token string, opts Options) (*Client, error) {
	gh := ghapi.NewClient(opts.HTTPClient).WithAuthToken(token)
	gh.UserAgent = build.UserAgent()

	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parsing API base URL %q: %w", opts.BaseURL, err)
		}
		gh.BaseURL = u
	}

	policy := retry.DefaultPolicy()
	if opts.MaxAttempts > 0 {
		policy.MaxAttempts = opts.MaxAttempts
	}
	if opts.InitialDelay > 0 {
		policy.InitialDelay = opts.InitialDelay
	}
	policy.Sleep = opts.Sleep

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		gh:      gh,
		policy:  policy,
		logger:  logger,
		metrics: opts.Metrics,
		now:     now,
	}, nil
}

// get issues a GET for endpoint under the repository and decodes the JSON
// response into v. Throttled responses are retried; anything else fails
// immediately.
func (c *Client) get(ctx context.Context, repo Repository, endpoint string, v any) error {
	path := repo.path() + endpoint
	display := repo.String() + endpoint

	policy := c.policy
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		c.metrics.ObserveThrottle(repo.String())
		c.logger.WarnContext(ctx, "API request throttled, backing off",
			"endpoint", display,
			"attempt", fmt.Sprintf("%d/%d", attempt, policy.MaxAttempts),
			"delay", delay,
			"error", err)
	}

	// Every attempt must reach the API. Without the bypass go-github fails
	// requests locally, with an empty body, while a rate limit it saw is in effect.
	ctx = context.WithValue(ctx, ghapi.BypassRateLimitCheck, true)

	err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) error {
		c.logger.DebugContext(ctx, "API request",
			"endpoint", display,
			"attempt", fmt.Sprintf("%d/%d", attempt, policy.MaxAttempts))

		req, err := c.gh.NewRequest(http.MethodGet, path, nil, ghapi.WithVersion(APIVersion))
		if err != nil {
			return &APIError{Endpoint: display, Err: err}
		}
		req.Header.Set("Accept", mediaTypeJSON)

		resp, err := c.gh.Do(ctx, req, v)
		if err == nil {
			c.metrics.ObserveRequest(repo.String(), metrics.OutcomeSuccess)
			return nil
		}

		err = classifyError(display, resp, err)
		if retry.IsRetryable(err) {
			c.metrics.ObserveRequest(repo.String(), metrics.OutcomeThrottled)
		} else {
			c.metrics.ObserveRequest(repo.String(), metrics.OutcomeError)
		}
		return err
	})

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		throttled := &ThrottledError{Endpoint: display, Attempts: exhausted.Attempts}
		var apiErr *APIError
		if errors.As(exhausted.Err, &apiErr) {
			throttled.StatusCode = apiErr.StatusCode
			throttled.Body = apiErr.Body
		}
		c.logger.ErrorContext(ctx, "API request retries exhausted",
			"endpoint", display, "attempts", exhausted.Attempts)
		return throttled
	}
	return err
}

// classifyError converts a go-github error into an *APIError, marking it
// retryable when the response indicates throttling.
func classifyError(endpoint string, resp *ghapi.Response, err error) error {
	var (
		rateErr  *ghapi.RateLimitError
		abuseErr *ghapi.AbuseRateLimitError
		errResp  *ghapi.ErrorResponse
	)

	switch {
	case errors.As(err, &rateErr):
		return retry.Retryable(newAPIError(endpoint, rateErr.Response, err))
	case errors.As(err, &abuseErr):
		return retry.Retryable(newAPIError(endpoint, abuseErr.Response, err))
	case errors.As(err, &errResp):
		apiErr := newAPIError(endpoint, errResp.Response, err)
		if isThrottled(apiErr.StatusCode, apiErr.Body) {
			return retry.Retryable(apiErr)
		}
		return apiErr
	default:
		var httpResp *http.Response
		if resp != nil {
			httpResp = resp.Response
		}
		apiErr := &APIError{Endpoint: endpoint, Err: err}
		if httpResp != nil {
			apiErr.StatusCode = httpResp.StatusCode
		}
		return apiErr
	}
}

// isThrottled reports whether a failed response should be retried.
func isThrottled(status int, body string) bool {
	switch status {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return throttlePattern.MatchString(body)
	default:
		return false
	}
}

func newAPIError(endpoint string, resp *http.Response, err error) *APIError {
	apiErr := &APIError{Endpoint: endpoint, Err: err}
	if resp != nil {
		apiErr.StatusCode = resp.StatusCode
		apiErr.Body = readBody(resp)
	}
	return apiErr
}

// readBody returns the response body and leaves it readable for later callers.
// go-github re-populates the body of error responses after decoding them.
func readBody(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return strings.TrimSpace(string(data))
}

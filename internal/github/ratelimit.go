package github

import (
	"context"
	"errors"
	"time"
)

const rateLimitEndpoint = "rate_limit"

// Quota is the core REST API rate limit of the configured token.
type Quota struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// RateLimit reports the core REST quota. Querying it does not consume quota
// and is not retried.
func (c *Client) RateLimit(ctx context.Context) (Quota, error) {
	limits, resp, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		return Quota{}, classifyError(rateLimitEndpoint, resp, err)
	}

	core := limits.GetCore()
	if core == nil {
		return Quota{}, &APIError{Endpoint: rateLimitEndpoint, Err: errors.New("response has no core quota")}
	}
	return Quota{Limit: core.Limit, Remaining: core.Remaining, Reset: core.Reset.Time}, nil
}

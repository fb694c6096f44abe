package github

import (
	"context"
	"errors"
	"time"

	gh "github.com/google/go-github/v68/github"
)

// RetryBaseDelay is the base duration for exponential backoff on rate
// limit responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetries caps rate-limit retries per request.
const MaxRetries = 4

// IsRateLimit reports whether err signals GitHub API throttling.
func IsRateLimit(err error) bool {
	var rateLimit *gh.RateLimitError
	var abuse *gh.AbuseRateLimitError
	return errors.As(err, &rateLimit) || errors.As(err, &abuse)
}

// SearchWithRetry issues a repository search, retrying rate-limited
// requests with exponential backoff: base, 2x, 4x, 8x. Other errors
// are returned immediately, as is the last error once retries are
// exhausted. A context cancellation during a backoff wait returns
// ctx.Err().
func SearchWithRetry(ctx context.Context, client Client, query string, opts *gh.SearchOptions) (*gh.RepositoriesSearchResult, *gh.Response, error) {
	backoff := RetryBaseDelay
	for attempt := 0; ; attempt++ {
		result, resp, err := client.SearchRepositories(ctx, query, opts)
		if err == nil || !IsRateLimit(err) || attempt >= MaxRetries {
			return result, resp, err
		}

		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
